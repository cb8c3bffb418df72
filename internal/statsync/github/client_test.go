package github_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/test-go/testify/assert"
	"github.com/test-go/testify/require"

	"github.com/devpage/statsync/internal/statsync/github"
)

const viewerBody = `{
  "data": {
    "viewer": {
      "login": "octocat",
      "createdAt": "2011-01-25T18:44:36Z",
      "repositories": {
        "totalCount": 2,
        "nodes": [
          {"isPrivate": false, "stargazerCount": 5},
          {"isPrivate": true, "stargazerCount": 0}
        ]
      },
      "contributionsCollection": {
        "totalCommitContributions": 42,
        "contributionCalendar": {
          "totalContributions": 100,
          "weeks": [
            {"contributionDays": [{"contributionCount": 1, "date": "2025-01-01"}]}
          ]
        }
      },
      "followers": {"totalCount": 10},
      "following": {"totalCount": 4}
    }
  }
}`

func newTestClient(url string) *github.Client {
	client := github.NewClient(5 * time.Second)
	client.BaseURL = url
	return client
}

func TestFetchViewerStats(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "Bearer gho_token", r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(viewerBody))
	}))
	defer srv.Close()

	client := newTestClient(srv.URL)
	raw, err := client.FetchViewerStats(context.Background(), "gho_token")
	require.NoError(t, err)

	assert.Equal(t, "octocat", raw.Login)
	assert.Equal(t, 2011, raw.CreatedAt.Year())
	assert.Equal(t, 2, raw.Repositories.TotalCount)
	assert.Equal(t, 42, raw.ContributionsCollection.TotalCommitContributions)
	assert.Equal(t, 100, raw.ContributionsCollection.ContributionCalendar.TotalContributions)
	require.Len(t, raw.ContributionsCollection.ContributionCalendar.Weeks, 1)
	assert.Equal(t, 10, raw.Followers.TotalCount)
}

func TestFetchViewerStatsEmbeddedErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"data": null, "errors": [{"message": "Bad credentials"}, {"message": "try again"}]}`))
	}))
	defer srv.Close()

	client := newTestClient(srv.URL)
	_, err := client.FetchViewerStats(context.Background(), "gho_token")
	require.Error(t, err)

	var apiErr *github.APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Contains(t, apiErr.Message, "Bad credentials")
	assert.Contains(t, apiErr.Message, "try again")
}

func TestFetchViewerStatsTransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad gateway", http.StatusBadGateway)
	}))
	defer srv.Close()

	client := newTestClient(srv.URL)
	_, err := client.FetchViewerStats(context.Background(), "gho_token")
	require.Error(t, err)

	var apiErr *github.APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusBadGateway, apiErr.Status)
}

func TestFetchViewerStatsEmptyToken(t *testing.T) {
	client := newTestClient("http://127.0.0.1:0")
	_, err := client.FetchViewerStats(context.Background(), "")
	require.Error(t, err)

	var apiErr *github.APIError
	assert.True(t, errors.As(err, &apiErr))
}

func TestFetchViewerStatsTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
		w.Write([]byte(viewerBody))
	}))
	defer srv.Close()

	client := github.NewClient(20 * time.Millisecond)
	client.BaseURL = srv.URL

	_, err := client.FetchViewerStats(context.Background(), "gho_token")
	require.Error(t, err)

	var apiErr *github.APIError
	assert.True(t, errors.As(err, &apiErr))
}
