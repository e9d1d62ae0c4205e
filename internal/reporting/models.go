package reporting

import "time"

// TimeRange is a half-open [From, To) window. A zero range means all time.
type TimeRange struct {
	From time.Time `json:"from"`
	To   time.Time `json:"to"`
}

func (r TimeRange) IsZero() bool { return r.From.IsZero() && r.To.IsZero() }

func (r TimeRange) contains(t time.Time) bool {
	if r.IsZero() || t.IsZero() {
		return true
	}
	return !t.Before(r.From) && t.Before(r.To)
}

// CallsSummaryRequest requests aggregated call metrics.
// Tenant isolation: ClientID is required.
type CallsSummaryRequest struct {
	ClientID    string    `json:"client_id"`
	AssistantID string    `json:"assistant_id,omitempty"`
	Range       TimeRange `json:"range"`
}

type CallsSummary struct {
	ClientID    string `json:"client_id"`
	AssistantID string `json:"assistant_id,omitempty"`

	TotalCalls     int `json:"total_calls"`
	CompletedCalls int `json:"completed_calls"`
	FailedCalls    int `json:"failed_calls"`
	OtherCalls     int `json:"other_calls"`

	// SuccessRate is completed / total, in [0, 1].
	SuccessRate float64 `json:"success_rate"`

	TotalDurationSeconds   int     `json:"total_duration_seconds"`
	AverageDurationSeconds float64 `json:"average_duration_seconds"`
	AverageLatencyMS       float64 `json:"average_latency_ms"`

	TranscribedCalls int `json:"transcribed_calls"`
}
