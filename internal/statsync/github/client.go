package github

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	gh "github.com/google/go-github/v63/github"
	"golang.org/x/oauth2"

	"github.com/devpage/statsync/internal/statsync/models"
)

const defaultEndpoint = "https://api.github.com/graphql"

// Client issues authenticated requests to the GitHub API on behalf of a
// single sync run. Tokens are per-call; the client itself holds no
// credentials.
type Client struct {
	BaseURL string
	Timeout time.Duration
}

func NewClient(timeout time.Duration) *Client {
	return &Client{
		BaseURL: defaultEndpoint,
		Timeout: timeout,
	}
}

// APIError is any failure talking to the GitHub API: transport errors,
// timeouts, non-2xx responses, and error payloads embedded in a 200 body.
type APIError struct {
	Status  int
	Message string
	Err     error
}

func (e *APIError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("github api: %s (status %d)", e.Message, e.Status)
	}
	return fmt.Sprintf("github api: %s", e.Message)
}

func (e *APIError) Unwrap() error {
	return e.Err
}

type graphQLRequest struct {
	Query string `json:"query"`
}

type viewerStatsResponse struct {
	Data struct {
		Viewer models.RawStats `json:"viewer"`
	} `json:"data"`
	Errors []struct {
		Message string `json:"message"`
	} `json:"errors"`
}

// FetchViewerStats runs the batched stats query as the owner of the given
// token. Single attempt; callers decide whether a failure is worth retrying.
func (c *Client) FetchViewerStats(ctx context.Context, token string) (*models.RawStats, error) {
	if token == "" {
		return nil, &APIError{Message: "empty access token"}
	}

	payload, err := json.Marshal(graphQLRequest{Query: viewerStatsQuery})
	if err != nil {
		return nil, &APIError{Message: "encode query", Err: err}
	}

	if c.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.Timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL, bytes.NewReader(payload))
	if err != nil {
		return nil, &APIError{Message: "build request", Err: err}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient(ctx, token).Do(req)
	if err != nil {
		return nil, &APIError{Message: err.Error(), Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &APIError{Message: "read response", Err: err}
	}

	if resp.StatusCode != http.StatusOK {
		return nil, &APIError{Status: resp.StatusCode, Message: strings.TrimSpace(string(body))}
	}

	var parsed viewerStatsResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, &APIError{Message: "decode response", Err: err}
	}

	if len(parsed.Errors) > 0 {
		msgs := make([]string, 0, len(parsed.Errors))
		for _, e := range parsed.Errors {
			msgs = append(msgs, e.Message)
		}
		return nil, &APIError{Status: resp.StatusCode, Message: strings.Join(msgs, "; ")}
	}

	viewer := parsed.Data.Viewer
	return &viewer, nil
}

// AuthenticatedLogin verifies a token against the REST API and returns the
// login it belongs to. Used when linking an account.
func (c *Client) AuthenticatedLogin(ctx context.Context, token string) (string, error) {
	if token == "" {
		return "", &APIError{Message: "empty access token"}
	}

	if c.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.Timeout)
		defer cancel()
	}

	client := gh.NewClient(c.httpClient(ctx, token))
	user, resp, err := client.Users.Get(ctx, "")
	if err != nil {
		status := 0
		if resp != nil {
			status = resp.StatusCode
		}
		return "", &APIError{Status: status, Message: err.Error(), Err: err}
	}
	if user.GetLogin() == "" {
		return "", &APIError{Message: "authenticated user has no login"}
	}
	return user.GetLogin(), nil
}

func (c *Client) httpClient(ctx context.Context, token string) *http.Client {
	ts := oauth2.StaticTokenSource(
		&oauth2.Token{AccessToken: token},
	)
	return oauth2.NewClient(ctx, ts)
}
