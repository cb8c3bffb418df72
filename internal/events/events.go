package events

import "time"

type StatsEventKind string

const (
	StatsSyncedKind StatsEventKind = "stats.synced"
)

// StatsSynced is broadcast after a sync has been persisted so downstream
// consumers (timeline, notifications) can react without polling.
type StatsSynced struct {
	UserID             int64     `json:"user_id"`
	Login              string    `json:"login"`
	TotalContributions int       `json:"total_contributions"`
	SyncedAt           time.Time `json:"synced_at"`
}

type StatsCommand struct {
	Kind    StatsEventKind `json:"kind"`
	Payload *StatsSynced   `json:"payload"`
}
