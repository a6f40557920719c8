package fooddata

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rs/xid"

	"github.com/sakif/nutrition-tracker/internal/apperror"
	"github.com/sakif/nutrition-tracker/internal/model"
)

const serviceName = "fooddata"

// Client is the HTTP implementation of Lookup.
type Client struct {
	cfg        Config
	httpClient *http.Client
	logger     *slog.Logger
}

var _ Lookup = (*Client)(nil)

// NewClient fills unset config fields from DefaultConfig.
func NewClient(cfg Config, logger *slog.Logger) *Client {
	def := DefaultConfig()
	if cfg.BaseURL == "" {
		cfg.BaseURL = def.BaseURL
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	if cfg.Timeout <= 0 {
		cfg.Timeout = def.Timeout
	}
	if len(cfg.DataTypes) == 0 {
		cfg.DataTypes = def.DataTypes
	}

	return &Client{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		logger:     logger,
	}
}

type searchResponse struct {
	// Kept raw so one malformed food does not fail the whole page.
	Foods []json.RawMessage `json:"foods"`
}

// SearchFoods runs a text search and converts every result it can.
func (c *Client) SearchFoods(ctx context.Context, query string, pageSize int) (*SearchResult, error) {
	params := url.Values{}
	params.Set("query", query)
	params.Set("pageSize", strconv.Itoa(pageSize))
	for _, dt := range c.cfg.DataTypes {
		params.Add("dataType", dt)
	}

	var resp searchResponse
	if err := c.get(ctx, "/foods/search", params, &resp); err != nil {
		return nil, err
	}

	result := &SearchResult{Foods: make([]model.FoodRecord, 0, len(resp.Foods))}
	for i, raw := range resp.Foods {
		var f Food
		if err := json.Unmarshal(raw, &f); err != nil {
			result.Rejected = append(result.Rejected, fmt.Errorf("result %d: %w", i, err))
			continue
		}
		rec, err := ToRecord(f)
		if err != nil {
			result.Rejected = append(result.Rejected, fmt.Errorf("result %d: %w", i, err))
			continue
		}
		result.Foods = append(result.Foods, rec)
	}
	return result, nil
}

// GetFood fetches a single food by its FDC id.
func (c *Client) GetFood(ctx context.Context, fdcID int64) (*model.FoodRecord, error) {
	var f Food
	path := "/food/" + strconv.FormatInt(fdcID, 10)
	if err := c.get(ctx, path, url.Values{}, &f); err != nil {
		return nil, err
	}

	rec, err := ToRecord(f)
	if err != nil {
		return nil, apperror.Upstream(serviceName, fmt.Errorf("malformed food %d: %w", fdcID, err))
	}
	return &rec, nil
}

// get performs one GET request and decodes the JSON body into out.
// Every failure comes back as an *apperror.AppError.
func (c *Client) get(ctx context.Context, path string, params url.Values, out any) error {
	callID := xid.New().String()
	start := time.Now()

	ctx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
	defer cancel()

	// Log the request without the api key.
	c.logger.Debug("fooddata request",
		slog.String("call_id", callID),
		slog.String("path", path),
		slog.String("query", params.Encode()),
	)
	params.Set("api_key", c.cfg.APIKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.cfg.BaseURL+path+"?"+params.Encode(), nil)
	if err != nil {
		return apperror.Upstream(serviceName, fmt.Errorf("create request: %w", err))
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warn("fooddata request failed",
			slog.String("call_id", callID),
			slog.String("error", err.Error()),
		)
		return apperror.Upstream(serviceName, fmt.Errorf("request: %w", err))
	}
	defer resp.Body.Close()

	c.logger.Debug("fooddata response",
		slog.String("call_id", callID),
		slog.Int("status", resp.StatusCode),
		slog.Duration("duration", time.Since(start)),
	)

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return apperror.NotFound("fdc food", strings.TrimPrefix(path, "/food/"))
	case resp.StatusCode != http.StatusOK:
		// FDC answers 403 for a missing or invalid api key.
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return apperror.Upstream(serviceName,
			fmt.Errorf("status %d: %s", resp.StatusCode, strings.TrimSpace(string(body))))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return apperror.Upstream(serviceName, fmt.Errorf("decode response: %w", err))
	}
	return nil
}
