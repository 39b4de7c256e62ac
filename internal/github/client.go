// Package github looks up repository metadata through the GitHub REST API.
package github

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	gh "github.com/google/go-github/v68/github"
	"golang.org/x/oauth2"

	"github.com/temirov/gitingest-agent/internal/types"
)

const (
	// DefaultTimeout bounds each API request.
	DefaultTimeout = 30 * time.Second

	notFoundFormat     = "Repository not found: %s"
	authFailedText     = "Authentication failed (private repository?)"
	rateLimitedText    = "GitHub API rate limit exceeded; set GITHUB_TOKEN to raise it"
	apiFailureFormat   = "GitHub API error: %s"
	networkFailureText = "Network error: Unable to reach GitHub"
)

// RepositoryInfo is the subset of repository metadata shown by the info command.
type RepositoryInfo struct {
	FullName      string
	Description   string
	DefaultBranch string
	Language      string
	HTMLURL       string
	// SizeKilobytes is the repository size as reported by GitHub.
	SizeKilobytes int
	Stars         int
	Forks         int
	Archived      bool
	Private       bool
}

// Client wraps the go-github client.
type Client struct {
	gh *gh.Client
}

// NewClient constructs a Client. An empty token issues unauthenticated requests.
func NewClient(ctx context.Context, token string) *Client {
	httpClient := &http.Client{Timeout: DefaultTimeout}
	if strings.TrimSpace(token) != "" {
		tokenSource := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
		httpClient = oauth2.NewClient(ctx, tokenSource)
		httpClient.Timeout = DefaultTimeout
	}
	return &Client{gh: gh.NewClient(httpClient)}
}

// WithBaseURL points the client at another API root, e.g. GitHub Enterprise or a test server.
func (client *Client) WithBaseURL(rawURL string) (*Client, error) {
	if !strings.HasSuffix(rawURL, "/") {
		rawURL += "/"
	}
	baseURL, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("parse GitHub API URL %s: %w", rawURL, err)
	}
	client.gh.BaseURL = baseURL
	return client, nil
}

// Repository fetches metadata for locator.
func (client *Client) Repository(ctx context.Context, locator types.Locator) (RepositoryInfo, error) {
	repository, _, err := client.gh.Repositories.Get(ctx, locator.Owner(), locator.Name())
	if err != nil {
		return RepositoryInfo{}, wrapError(err, locator)
	}
	return RepositoryInfo{
		FullName:      repository.GetFullName(),
		Description:   repository.GetDescription(),
		DefaultBranch: repository.GetDefaultBranch(),
		Language:      repository.GetLanguage(),
		HTMLURL:       repository.GetHTMLURL(),
		SizeKilobytes: repository.GetSize(),
		Stars:         repository.GetStargazersCount(),
		Forks:         repository.GetForksCount(),
		Archived:      repository.GetArchived(),
		Private:       repository.GetPrivate(),
	}, nil
}

// wrapError maps API failures onto the same extraction reasons the tool failures use.
func wrapError(err error, locator types.Locator) error {
	var rateLimitErr *gh.RateLimitError
	if errors.As(err, &rateLimitErr) {
		return types.ExtractionError(types.ReasonGeneric, rateLimitedText, err)
	}
	var responseErr *gh.ErrorResponse
	if errors.As(err, &responseErr) && responseErr.Response != nil {
		switch responseErr.Response.StatusCode {
		case http.StatusNotFound:
			return types.ExtractionError(types.ReasonNotFound, fmt.Sprintf(notFoundFormat, locator.FullName()), err)
		case http.StatusUnauthorized, http.StatusForbidden:
			return types.ExtractionError(types.ReasonAuth, authFailedText, err)
		default:
			return types.ExtractionError(types.ReasonGeneric, fmt.Sprintf(apiFailureFormat, responseErr.Message), err)
		}
	}
	return types.ExtractionError(types.ReasonNetwork, networkFailureText, err)
}
