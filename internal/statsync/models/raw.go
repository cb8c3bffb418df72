package models

import "time"

// RawStats mirrors the GraphQL viewer payload returned by the batched
// stats query. It is fetched per sync and discarded after aggregation.
// Every field except Login and CreatedAt is optional; aggregation treats
// missing sub-collections as empty.
type RawStats struct {
	Login                   string                  `json:"login"`
	CreatedAt               time.Time               `json:"createdAt"`
	Repositories            RepositoryList          `json:"repositories"`
	ContributionsCollection ContributionsCollection `json:"contributionsCollection"`
	TopRepositories         LanguageRepoList        `json:"topRepositories"`
	Followers               CountNode               `json:"followers"`
	Following               CountNode               `json:"following"`
}

type CountNode struct {
	TotalCount int `json:"totalCount"`
}

type RepositoryList struct {
	TotalCount int        `json:"totalCount"`
	Nodes      []RepoNode `json:"nodes"`
}

type RepoNode struct {
	IsPrivate      bool `json:"isPrivate"`
	StargazerCount int  `json:"stargazerCount"`
}

type ContributionsCollection struct {
	TotalCommitContributions             int                    `json:"totalCommitContributions"`
	TotalIssueContributions              int                    `json:"totalIssueContributions"`
	TotalPullRequestContributions        int                    `json:"totalPullRequestContributions"`
	TotalPullRequestReviewContributions  int                    `json:"totalPullRequestReviewContributions"`
	ContributionCalendar                 ContributionCalendar   `json:"contributionCalendar"`
	PullRequestContributionsByRepository []RepoContributionNode `json:"pullRequestContributionsByRepository"`
}

type ContributionCalendar struct {
	TotalContributions int            `json:"totalContributions"`
	Weeks              []CalendarWeek `json:"weeks"`
}

type CalendarWeek struct {
	ContributionDays []CalendarDay `json:"contributionDays"`
}

type CalendarDay struct {
	ContributionCount int    `json:"contributionCount"`
	Date              string `json:"date"`
}

type RepoContributionNode struct {
	Repository    ContributedRepo `json:"repository"`
	Contributions CountNode       `json:"contributions"`
}

type ContributedRepo struct {
	Name           string           `json:"name"`
	Owner          OwnerNode        `json:"owner"`
	StargazerCount int              `json:"stargazerCount"`
	Description    string           `json:"description"`
	URL            string           `json:"url"`
	Languages      LanguageNodeList `json:"languages"`
}

type OwnerNode struct {
	Login string `json:"login"`
}

type LanguageNodeList struct {
	Nodes []Language `json:"nodes"`
}

type LanguageRepoList struct {
	Nodes []LanguageRepo `json:"nodes"`
}

type LanguageRepo struct {
	Languages LanguageEdgeList `json:"languages"`
}

type LanguageEdgeList struct {
	Edges []LanguageEdge `json:"edges"`
}

type LanguageEdge struct {
	Size int64    `json:"size"`
	Node Language `json:"node"`
}
