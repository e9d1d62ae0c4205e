package calls

import "time"

// CallLog is a read-only record of one voice session.
//
// Status is free-form text from the platform; only "completed" counts as a success.
// Latency, duration and transcript are null until the session is processed.
type CallLog struct {
	ID          string  `json:"id"`
	ClientID    string  `json:"client_id"`
	AssistantID *string `json:"assistant_id"`

	PhoneNumber string `json:"phone_number"`
	CallerID    string `json:"caller_id"`

	Transcript      *string `json:"transcript"`
	LatencyMS       *int    `json:"latency_ms"`
	DurationSeconds *int    `json:"duration_seconds"`

	Status   string  `json:"status"`
	RoomName *string `json:"room_name"`

	CreatedAt time.Time `json:"created_at"`
}

// Statuses the platform is known to emit. Others are passed through untouched.
const (
	StatusInProgress = "in_progress"
	StatusCompleted  = "completed"
	StatusFailed     = "failed"
	StatusNoAnswer   = "no_answer"
	StatusBusy       = "busy"
	StatusCanceled   = "canceled"
)

// Succeeded reports whether the call ended as a success.
func (c CallLog) Succeeded() bool { return c.Status == StatusCompleted }
