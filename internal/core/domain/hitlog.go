package domain

import "time"

// HitLog is an append-only usage record written once per billable lookup.
// Entries older than two months are pruned by a background job.
type HitLog struct {
	UserID    string    `json:"user_id" bson:"user_id"`
	Service   string    `json:"service" bson:"service"`
	Timestamp time.Time `json:"timestamp" bson:"timestamp"`
}

// UsageStats aggregates a user's hit counts for display.
type UsageStats struct {
	CurrentMonth  int64 `json:"current_month"`
	PreviousMonth int64 `json:"previous_month"`
}
