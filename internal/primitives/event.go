package primitives

// EventID identifies an event kind.
type EventID string

// DefaultCompletionEvent is fired implicitly on the parent of a final state
// when a transition settles there, unless the chart overrides it.
const DefaultCompletionEvent EventID = "$completion"

// Event is an event occurrence together with its caller supplied payload.
//
// Events are value types. Once created they should not be mutated.
type Event struct {
	Type EventID `json:"type" yaml:"type"`
	Data any     `json:"data,omitempty" yaml:"data,omitempty"`
}

// NewEvent creates and returns a new immutable Event.
func NewEvent(eventType EventID, data any) Event {
	return Event{
		Type: eventType,
		Data: data,
	}
}
