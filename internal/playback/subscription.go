package playback

const eventBufferSize = 16

// Subscription provides event channels for a subscriber.
// Sends never block the session: events are dropped when a buffer is full.
type Subscription struct {
	StateChanged    <-chan StateChange
	TrackChanged    <-chan TrackChange
	SourceChanged   <-chan SourceChange
	PositionChanged <-chan PositionChange
	QueueChanged    <-chan QueueChange
	ModeChanged     <-chan ModeChange
	Error           <-chan ErrorEvent
	Done            <-chan struct{}

	stateCh    chan StateChange
	trackCh    chan TrackChange
	sourceCh   chan SourceChange
	positionCh chan PositionChange
	queueCh    chan QueueChange
	modeCh     chan ModeChange
	errorCh    chan ErrorEvent
	doneCh     chan struct{}
}

func newSubscription() *Subscription {
	s := &Subscription{
		stateCh:    make(chan StateChange, eventBufferSize),
		trackCh:    make(chan TrackChange, eventBufferSize),
		sourceCh:   make(chan SourceChange, eventBufferSize),
		positionCh: make(chan PositionChange, eventBufferSize),
		queueCh:    make(chan QueueChange, eventBufferSize),
		modeCh:     make(chan ModeChange, eventBufferSize),
		errorCh:    make(chan ErrorEvent, eventBufferSize),
		doneCh:     make(chan struct{}),
	}
	s.StateChanged = s.stateCh
	s.TrackChanged = s.trackCh
	s.SourceChanged = s.sourceCh
	s.PositionChanged = s.positionCh
	s.QueueChanged = s.queueCh
	s.ModeChanged = s.modeCh
	s.Error = s.errorCh
	s.Done = s.doneCh
	return s
}

// close signals subscribers to stop by closing doneCh.
func (s *Subscription) close() {
	close(s.doneCh)
}

func send[T any](ch chan T, e T) {
	select {
	case ch <- e:
	default:
		// Drop if buffer full
	}
}

func (s *Subscription) sendState(e StateChange)       { send(s.stateCh, e) }
func (s *Subscription) sendTrack(e TrackChange)       { send(s.trackCh, e) }
func (s *Subscription) sendSource(e SourceChange)     { send(s.sourceCh, e) }
func (s *Subscription) sendPosition(e PositionChange) { send(s.positionCh, e) }
func (s *Subscription) sendQueue(e QueueChange)       { send(s.queueCh, e) }
func (s *Subscription) sendMode(e ModeChange)         { send(s.modeCh, e) }
func (s *Subscription) sendError(e ErrorEvent)        { send(s.errorCh, e) }
