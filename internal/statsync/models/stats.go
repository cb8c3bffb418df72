package models

import (
	"time"

	"github.com/google/uuid"
)

// DayContribution is a single day of the contribution calendar, flattened
// into chronological order at aggregation time.
type DayContribution struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
}

// LanguageShare is one entry of the weighted language breakdown.
// Percent is rounded to one decimal and the list sums to ~100.
type LanguageShare struct {
	Name    string  `json:"name"`
	Color   string  `json:"color"`
	Percent float64 `json:"percent"`
}

// Language is a repository's primary language as reported upstream.
type Language struct {
	Name  string `json:"name"`
	Color string `json:"color"`
}

// RepoContribution is a pull-request contribution to a repository the
// viewer does not own.
type RepoContribution struct {
	Owner           string    `json:"owner"`
	Name            string    `json:"name"`
	Stars           int       `json:"stars"`
	Description     string    `json:"description"`
	URL             string    `json:"url"`
	PRCount         int       `json:"pr_count"`
	PrimaryLanguage *Language `json:"primary_language"`
}

// ProcessedStats is the normalized metrics record, one per user,
// replaced wholesale on every sync.
type ProcessedStats struct {
	UserID                int64              `json:"user_id"`
	Repos                 int                `json:"repos"`
	PrivateRepos          int                `json:"private_repos"`
	Commits               int                `json:"commits"`
	Stars                 int                `json:"stars"`
	Followers             int                `json:"followers"`
	Following             int                `json:"following"`
	TotalContributions    int                `json:"total_contributions"`
	ContributionsThisYear int                `json:"contributions_this_year"`
	ContributionsNotOwned int                `json:"contributions_not_owned"`
	AccountAge            int                `json:"account_age"`
	CommitHistory         []DayContribution  `json:"commit_history"`
	Languages             []LanguageShare    `json:"languages"`
	OSContributions       []RepoContribution `json:"os_contributions"`
	SyncedAt              time.Time          `json:"synced_at"`
}

// Connection links a user to an external provider account and holds the
// access token used by the credential resolver.
type Connection struct {
	ID          uuid.UUID `json:"id"`
	UserID      int64     `json:"user_id"`
	Provider    string    `json:"provider"`
	Login       string    `json:"login"`
	AccessToken string    `json:"-"`
	CreatedAt   time.Time `json:"created_at"`
}

type StatsFilter struct {
	MinFollowers *int       `json:"min_followers"`
	SyncedAfter  *time.Time `json:"synced_after"`
}
