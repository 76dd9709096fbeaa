package models

import (
	"time"

	"github.com/google/uuid"
)

// RunEventType определяет тип события забега.
type RunEventType string

const (
	RunEventStarted RunEventType = "run_started"
	RunEventEnded   RunEventType = "run_ended"
)

// RunEvent is published when a run starts or ends.
type RunEvent struct {
	Type           RunEventType `json:"type"`
	PlayerID       uuid.UUID    `json:"playerId"`
	Cause          string       `json:"cause,omitempty"` // исчерпанный ресурс для run_ended
	DaysSurvived   float64      `json:"daysSurvived"`
	LongestRunDays float64      `json:"longestRunDays"`
	Timestamp      time.Time    `json:"timestamp"`
}
