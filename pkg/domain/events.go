package domain

import (
	"context"
	"time"
)

// EventType defines the category of the event.
type EventType string

const (
	EventValidated EventType = "experience_validated"
	EventRejected  EventType = "experience_rejected"
	EventCompiled  EventType = "summary_compiled"
	EventSubmitted EventType = "results_submitted"
)

// EventBase contains common fields for all events.
type EventBase struct {
	Timestamp    time.Time `json:"timestamp"`
	Type         EventType `json:"type"`
	ExperienceID string    `json:"experience_id,omitempty"`
}

// ValidationEvent reports the outcome of one validation.
type ValidationEvent struct {
	EventBase
	Issues int `json:"issues"`
}

// CompileEvent reports one compilation.
type CompileEvent struct {
	EventBase
	SectionTypes []string      `json:"section_types"`
	Bytes        int           `json:"bytes"`
	Duration     time.Duration `json:"duration"`
}

// SubmitEvent reports a stored submission.
type SubmitEvent struct {
	EventBase
	ReportID string `json:"report_id"`
	Approved bool   `json:"approved"`
}

// LifecycleHooks defines callbacks for engine observability.
type LifecycleHooks struct {
	OnValidate func(context.Context, *ValidationEvent)
	OnCompile  func(context.Context, *CompileEvent)
	OnSubmit   func(context.Context, *SubmitEvent)
}
