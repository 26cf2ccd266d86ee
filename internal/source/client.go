package source

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"go.uber.org/zap"

	"github.com/codequest-platform/backend/internal/domain"
)

// Problem is one record from the external catalog. The catalog is untrusted:
// any field may be missing or empty.
type Problem struct {
	ID       string   `json:"id"`
	Title    string   `json:"title"`
	Body     string   `json:"statement"`
	Rating   int      `json:"rating"`
	Tags     []string `json:"tags"`
	Examples []struct {
		Input       string `json:"input"`
		Output      string `json:"output"`
		Explanation string `json:"explanation"`
	} `json:"examples"`
}

// WellFormed reports whether the record has the minimum fields needed to be
// served as a daily challenge.
func (p Problem) WellFormed() bool {
	return p.ID != "" && p.Title != "" && p.Body != ""
}

// catalogResponse is the envelope returned by the catalog endpoint
type catalogResponse struct {
	Problems []Problem `json:"problems"`
}

// Client fetches problems from the external read-only catalog
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger
}

// Config holds problem source configuration
type Config struct {
	BaseURL  string
	Category string
	Timeout  time.Duration
}

// NewClient creates a new catalog client with a bounded request timeout
func NewClient(cfg *Config, logger *zap.Logger) *Client {
	return &Client{
		baseURL: cfg.BaseURL,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		logger: logger,
	}
}

// FetchProblems retrieves the problem pool, optionally filtered by category.
// Non-2xx responses and malformed payloads are returned as
// domain.ErrSourceUnavailable so callers can fail closed.
func (c *Client) FetchProblems(ctx context.Context, category string) ([]Problem, error) {
	endpoint := c.baseURL + "/problems"
	if category != "" {
		endpoint += "?tag=" + url.QueryEscape(category)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build catalog request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warn("Problem catalog unreachable",
			zap.String("endpoint", endpoint),
			zap.Error(err),
		)
		return nil, domain.ErrSourceUnavailable
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.logger.Warn("Problem catalog returned non-2xx status",
			zap.String("endpoint", endpoint),
			zap.Int("status", resp.StatusCode),
		)
		return nil, domain.ErrSourceUnavailable
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 8<<20))
	if err != nil {
		return nil, domain.ErrSourceUnavailable
	}

	var catalog catalogResponse
	if err := json.Unmarshal(body, &catalog); err != nil {
		c.logger.Warn("Problem catalog returned malformed JSON",
			zap.String("endpoint", endpoint),
			zap.Error(err),
		)
		return nil, domain.ErrSourceUnavailable
	}

	return catalog.Problems, nil
}
