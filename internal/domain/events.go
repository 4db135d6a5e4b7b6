package domain

// EventKind names a fire-and-forget notification emitted by a session.
type EventKind string

const (
	EventAnsweredCorrectly   EventKind = "answered_correctly"
	EventAnsweredIncorrectly EventKind = "answered_incorrectly"
	EventSessionStarted      EventKind = "session_started"
	EventSessionCompleted    EventKind = "session_completed"
	EventNameConfirmed       EventKind = "name_confirmed"
	EventSoundToggled        EventKind = "sound_toggled"
	EventTick                EventKind = "tick"
	EventPhaseChanged        EventKind = "phase_changed"
)

// Event carries the state a listener needs to react to a notification.
type Event struct {
	Kind         EventKind `json:"kind"`
	SessionID    string    `json:"sessionId"`
	Phase        Phase     `json:"phase"`
	Score        int       `json:"score"`
	Remaining    int       `json:"remaining"`
	TimedOut     bool      `json:"timedOut,omitempty"`
	SoundEnabled bool      `json:"soundEnabled"`
}
