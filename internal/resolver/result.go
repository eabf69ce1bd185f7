package resolver

// Kind tags which variant a Result is.
type Kind int

const (
	// Unresolvable means no stream was found and the track has no preview.
	Unresolvable Kind = iota
	// Resolved means a full-length alternate-catalog stream was verified.
	Resolved
	// FellBackToPreview means the canonical preview clip must be used.
	FellBackToPreview
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case Unresolvable:
		return "Unresolvable"
	case Resolved:
		return "Resolved"
	case FellBackToPreview:
		return "FellBackToPreview"
	default:
		return "Unknown"
	}
}

// Result is the outcome of one resolution. It is never cached.
type Result struct {
	Kind    Kind
	URL     string // empty when Unresolvable
	Quality string // tier of a Resolved stream, e.g. "320kbps"
	Score   int    // match score of the chosen candidate, 0 on fallback
}

// Playable returns true if the result carries a URL.
func (r Result) Playable() bool {
	return r.Kind != Unresolvable && r.URL != ""
}
