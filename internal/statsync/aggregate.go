package statsync

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/devpage/statsync/internal/statsync/models"
)

const maxLanguages = 6

// Process turns a raw viewer payload into the normalized stats record.
// It is pure and deterministic for a fixed now: no I/O, no map-order
// dependence, identical input yields an identical record. Missing or
// empty sub-collections produce zero values; only an absent account
// creation timestamp is an error.
func Process(raw *models.RawStats, now time.Time) (*models.ProcessedStats, error) {
	if raw.CreatedAt.IsZero() {
		return nil, &ValidationError{Field: "createdAt"}
	}

	stats := &models.ProcessedStats{
		Repos:           raw.Repositories.TotalCount,
		Commits:         raw.ContributionsCollection.TotalCommitContributions,
		Followers:       raw.Followers.TotalCount,
		Following:       raw.Following.TotalCount,
		CommitHistory:   []models.DayContribution{},
		Languages:       []models.LanguageShare{},
		OSContributions: []models.RepoContribution{},
	}

	for _, repo := range raw.Repositories.Nodes {
		stats.Stars += repo.StargazerCount
		if repo.IsPrivate {
			stats.PrivateRepos++
		}
	}

	age := int(now.UTC().Sub(raw.CreatedAt.UTC()).Hours() / 24)
	if age < 0 {
		age = 0
	}
	stats.AccountAge = age

	calendar := raw.ContributionsCollection.ContributionCalendar
	stats.TotalContributions = calendar.TotalContributions

	yearPrefix := strconv.Itoa(now.UTC().Year()) + "-"
	for _, week := range calendar.Weeks {
		for _, day := range week.ContributionDays {
			count := day.ContributionCount
			if count < 0 {
				count = 0
			}
			stats.CommitHistory = append(stats.CommitHistory, models.DayContribution{
				Date:  day.Date,
				Count: count,
			})
			if strings.HasPrefix(day.Date, yearPrefix) {
				stats.ContributionsThisYear += count
			}
		}
	}

	stats.Languages = languageShares(raw.TopRepositories)

	contributions, distinct := contributedRepos(raw)
	stats.OSContributions = contributions
	stats.ContributionsNotOwned = distinct

	return stats, nil
}

// languageShares aggregates byte sizes per language across the sampled
// repositories and converts them to one-decimal percentages, keeping the
// top entries only. The first color seen for a name wins.
func languageShares(repos models.LanguageRepoList) []models.LanguageShare {
	sizes := make(map[string]int64)
	colors := make(map[string]string)
	var total int64

	for _, repo := range repos.Nodes {
		for _, edge := range repo.Languages.Edges {
			name := edge.Node.Name
			if name == "" || edge.Size <= 0 {
				continue
			}
			if _, seen := sizes[name]; !seen {
				colors[name] = edge.Node.Color
			}
			sizes[name] += edge.Size
			total += edge.Size
		}
	}

	if total == 0 {
		return []models.LanguageShare{}
	}

	shares := make([]models.LanguageShare, 0, len(sizes))
	for name, size := range sizes {
		percent := math.Round(float64(size)/float64(total)*1000) / 10
		shares = append(shares, models.LanguageShare{
			Name:    name,
			Color:   colors[name],
			Percent: percent,
		})
	}

	sort.Slice(shares, func(i, j int) bool {
		if shares[i].Percent != shares[j].Percent {
			return shares[i].Percent > shares[j].Percent
		}
		return shares[i].Name < shares[j].Name
	})

	if len(shares) > maxLanguages {
		shares = shares[:maxLanguages]
	}
	return shares
}

// contributedRepos filters the viewer's own repositories out of the
// pull-request contribution list and counts the distinct remainder.
func contributedRepos(raw *models.RawStats) ([]models.RepoContribution, int) {
	contributions := []models.RepoContribution{}
	distinct := make(map[string]struct{})

	for _, node := range raw.ContributionsCollection.PullRequestContributionsByRepository {
		repo := node.Repository
		if repo.Owner.Login == raw.Login {
			continue
		}

		var primary *models.Language
		if len(repo.Languages.Nodes) > 0 {
			lang := repo.Languages.Nodes[0]
			primary = &lang
		}

		contributions = append(contributions, models.RepoContribution{
			Owner:           repo.Owner.Login,
			Name:            repo.Name,
			Stars:           repo.StargazerCount,
			Description:     repo.Description,
			URL:             repo.URL,
			PRCount:         node.Contributions.TotalCount,
			PrimaryLanguage: primary,
		})
		distinct[fmt.Sprintf("%s/%s", repo.Owner.Login, repo.Name)] = struct{}{}
	}

	sort.Slice(contributions, func(i, j int) bool {
		if contributions[i].Stars != contributions[j].Stars {
			return contributions[i].Stars > contributions[j].Stars
		}
		return contributions[i].Name < contributions[j].Name
	})

	return contributions, len(distinct)
}
