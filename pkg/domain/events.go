package domain

import (
	"context"
	"time"
)

// EventType defines the category of the event.
type EventType string

const (
	EventStageEnter        EventType = "stage_enter"
	EventBookSelect        EventType = "book_select"
	EventNavigationFailure EventType = "navigation_failure"
	EventInput             EventType = "input"
)

// EventBase contains common fields for all events.
type EventBase struct {
	Timestamp time.Time `json:"timestamp"`
	Type      EventType `json:"type"`
	BookID    string    `json:"book_id"`
}

// StageEvent is emitted when a stage is presented or a navigation fails on it.
type StageEvent struct {
	EventBase
	StageID string `json:"stage_id"`
	Root    bool   `json:"root"`
}

// InputEvent is emitted for every event the controller dequeues.
type InputEvent struct {
	EventBase
	Key        Key  `json:"key"`
	Completion bool `json:"completion"`
}

// LifecycleHooks defines callbacks for player observability.
// All hooks run on the controller goroutine and must not block.
type LifecycleHooks struct {
	OnStageEnter        func(context.Context, *StageEvent)
	OnBookSelect        func(context.Context, *StageEvent)
	OnNavigationFailure func(context.Context, *StageEvent)
	OnInput             func(context.Context, *InputEvent)
}
