// Package ui provides shared layout constants and the component base.
package ui

const (
	// ScrollMargin is the number of rows kept visible around a list cursor.
	ScrollMargin = 3

	// BorderHeight is the vertical space consumed by a panel border.
	BorderHeight = 2

	// HeaderHeight is the space for a panel header and its separator.
	HeaderHeight = 2

	// PanelOverhead is the vertical overhead of a bordered panel with a
	// header: listHeight = panelHeight - PanelOverhead.
	PanelOverhead = BorderHeight + HeaderHeight

	// QueueWidthDivisor gives the queue panel 1/QueueWidthDivisor of the
	// screen width next to the results panel.
	QueueWidthDivisor = 3

	// MinSideBySideWidth is the narrowest terminal that shows results and
	// queue next to each other.
	MinSideBySideWidth = 90
)
