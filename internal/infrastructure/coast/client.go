package coast

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/counter-map/internal/config"
	"github.com/counter-map/internal/domain"
	"github.com/counter-map/internal/domain/repository"
)

type client struct {
	httpClient *http.Client
	baseURL    string
	logger     *zap.Logger
}

// NewClient creates an HTTP client for the upstream NC COAST counts API.
func NewClient(cfg *config.CoastConfig, logger *zap.Logger) repository.CounterRepository {
	return &client{
		httpClient: &http.Client{
			Timeout: cfg.RequestTimeout,
		},
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		logger:  logger,
	}
}

// ListCounters returns the full counter list from GET /counters/.
func (c *client) ListCounters(ctx context.Context) ([]domain.Counter, error) {
	var counters []domain.Counter
	if err := c.getJSON(ctx, "/counters/", &counters); err != nil {
		return nil, err
	}

	c.logger.Debug("Counter list fetched", zap.Int("count", len(counters)))
	return counters, nil
}

// ListDatastreams returns the datastreams of a counter from
// GET /counters/{id}/datastreams/.
func (c *client) ListDatastreams(ctx context.Context, counterID int) ([]domain.Datastream, error) {
	var streams []domain.Datastream
	path := fmt.Sprintf("/counters/%d/datastreams/", counterID)
	if err := c.getJSON(ctx, path, &streams); err != nil {
		return nil, err
	}

	c.logger.Debug("Datastream list fetched",
		zap.Int("counter_id", counterID),
		zap.Int("count", len(streams)))
	return streams, nil
}

// ListCounts returns the count records of a datastream from
// GET /datastreams/{id}/counts.
func (c *client) ListCounts(ctx context.Context, datastreamID int) ([]domain.Count, error) {
	var counts []domain.Count
	path := fmt.Sprintf("/datastreams/%d/counts", datastreamID)
	if err := c.getJSON(ctx, path, &counts); err != nil {
		return nil, err
	}

	c.logger.Debug("Counts fetched",
		zap.Int("datastream_id", datastreamID),
		zap.Int("count", len(counts)))
	return counts, nil
}

func (c *client) getJSON(ctx context.Context, path string, out interface{}) error {
	url := c.baseURL + path

	start := time.Now()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		c.logger.Error("Failed to create request", zap.String("url", url), zap.Error(err))
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error("Failed to execute request", zap.String("url", url), zap.Error(err))
		return fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		c.logger.Error("Counts API returned error",
			zap.String("url", url),
			zap.Int("status_code", resp.StatusCode),
			zap.String("body", string(body)))
		return fmt.Errorf("counts API error: status %d, body: %s", resp.StatusCode, string(body))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		c.logger.Error("Failed to decode response", zap.String("url", url), zap.Error(err))
		return fmt.Errorf("failed to decode response: %w", err)
	}

	c.logger.Debug("Counts API call successful",
		zap.String("url", url),
		zap.Duration("took", time.Since(start)))
	return nil
}
