package usda

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/jpfieber/jots-food-tracker/internal/domain"
	"golang.org/x/time/rate"
)

const (
	// DemoKey is the shared FoodData Central key used when none is configured
	DemoKey = "DEMO_KEY"

	maxAttempts  = 3
	maxErrorBody = 512
	pageSize     = 10
)

// DefaultDataTypes are the FoodData Central datasets searched for generic foods
var DefaultDataTypes = []string{"Foundation", "SR Legacy", "Survey (FNDDS)"}

// Client handles communication with the USDA FoodData Central API
type Client struct {
	httpClient  *http.Client
	apiKey      string
	baseURL     string
	dataTypes   []string
	rateLimiter *rate.Limiter
	debug       bool
}

// NewClient creates a new USDA API client
func NewClient(apiKey, baseURL string) *Client {
	if apiKey == "" {
		apiKey = DemoKey
	}

	// FoodData Central allows 1000 requests per hour per key
	limiter := rate.NewLimiter(rate.Limit(1000.0/3600.0), 10)

	return &Client{
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		apiKey:      apiKey,
		baseURL:     strings.TrimRight(baseURL, "/"),
		dataTypes:   DefaultDataTypes,
		rateLimiter: limiter,
	}
}

// SetDebug enables request logging
func (c *Client) SetDebug(debug bool) {
	c.debug = debug
}

// SetRateLimit replaces the hourly request budget. Non-positive values are ignored.
func (c *Client) SetRateLimit(perHour int) {
	if perHour > 0 {
		c.rateLimiter.SetLimit(rate.Limit(float64(perHour) / 3600.0))
	}
}

// SetDataTypes restricts searches to the given datasets
func (c *Client) SetDataTypes(dataTypes []string) {
	if len(dataTypes) > 0 {
		c.dataTypes = dataTypes
	}
}

func (c *Client) debugLog(format string, args ...any) {
	if c.debug {
		log.Printf("[USDA] "+format, args...)
	}
}

// SearchFoods searches FoodData Central. Server errors and 429 responses are
// retried with exponential backoff; other client errors fail at once.
func (c *Client) SearchFoods(ctx context.Context, query string) (*domain.USDASearchResponse, error) {
	c.debugLog("SearchFoods query=%q", query)

	params := url.Values{}
	params.Set("query", query)
	params.Set("api_key", c.apiKey)
	params.Set("dataType", strings.Join(c.dataTypes, ","))
	params.Set("pageSize", strconv.Itoa(pageSize))
	reqURL := fmt.Sprintf("%s/v1/foods/search?%s", c.baseURL, params.Encode())

	body, err := c.getWithRetry(ctx, reqURL)
	if err != nil {
		return nil, err
	}

	var searchResp domain.USDASearchResponse
	if err := json.Unmarshal(body, &searchResp); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	if len(searchResp.Foods) == 0 {
		c.debugLog("no foods found for %q", query)
		return nil, domain.ErrProductNotFound
	}

	c.debugLog("found %d foods for %q", len(searchResp.Foods), query)
	return &searchResp, nil
}

// foodDetails is the shape of GET /v1/food/{fdcId}, where nutrients are nested
type foodDetails struct {
	FdcID        int    `json:"fdcId"`
	Description  string `json:"description"`
	DataType     string `json:"dataType"`
	FoodCategory *struct {
		Description string `json:"description"`
	} `json:"foodCategory,omitempty"`
	FoodNutrients []struct {
		Nutrient struct {
			ID       int    `json:"id"`
			Number   string `json:"number"`
			Name     string `json:"name"`
			UnitName string `json:"unitName"`
		} `json:"nutrient"`
		Amount float64 `json:"amount"`

		// present when the endpoint answers in the abridged search shape
		NutrientID int     `json:"nutrientId"`
		Value      float64 `json:"value"`
	} `json:"foodNutrients"`
}

func (d foodDetails) toDomain() *domain.USDAFood {
	food := &domain.USDAFood{
		FdcID:       d.FdcID,
		Description: d.Description,
		DataType:    d.DataType,
		Nutrients:   make([]domain.USDANutrient, 0, len(d.FoodNutrients)),
	}
	if d.FoodCategory != nil {
		food.FoodGroup = d.FoodCategory.Description
	}

	for _, n := range d.FoodNutrients {
		nutrient := domain.USDANutrient{
			NutrientID:     n.Nutrient.ID,
			NutrientName:   n.Nutrient.Name,
			NutrientNumber: n.Nutrient.Number,
			UnitName:       n.Nutrient.UnitName,
			Value:          n.Amount,
		}
		if nutrient.NutrientID == 0 {
			nutrient.NutrientID = n.NutrientID
			nutrient.Value = n.Value
		}
		food.Nutrients = append(food.Nutrients, nutrient)
	}
	return food
}

// GetFoodDetails retrieves the full nutrient list of one food
func (c *Client) GetFoodDetails(ctx context.Context, fdcID int) (*domain.USDAFood, error) {
	c.debugLog("GetFoodDetails fdcId=%d", fdcID)

	params := url.Values{}
	params.Set("api_key", c.apiKey)
	reqURL := fmt.Sprintf("%s/v1/food/%d?%s", c.baseURL, fdcID, params.Encode())

	body, err := c.getWithRetry(ctx, reqURL)
	if err != nil {
		return nil, err
	}

	var details foodDetails
	if err := json.Unmarshal(body, &details); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	return details.toDomain(), nil
}

// getWithRetry performs a rate-limited GET and returns the body of a 200 response
func (c *Client) getWithRetry(ctx context.Context, reqURL string) ([]byte, error) {
	var lastErr error

	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if err := c.rateLimiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrRateLimited, err)
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
		if err != nil {
			return nil, fmt.Errorf("failed to create request: %w", err)
		}
		req.Header.Set("User-Agent", "jots-food-tracker/1.0")
		req.Header.Set("Accept", "application/json")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			if ctx.Err() != nil {
				return nil, fmt.Errorf("%w: %v", domain.ErrUSDAAPIFailure, ctx.Err())
			}
			c.debugLog("request error (attempt %d): %v", attempt, err)
			lastErr = fmt.Errorf("%w: %v", domain.ErrUSDAAPIFailure, err)
			if err := sleepContext(ctx, exponentialBackoff(attempt)); err != nil {
				return nil, err
			}
			continue
		}

		if resp.StatusCode == http.StatusOK {
			body, err := io.ReadAll(resp.Body)
			resp.Body.Close()
			if err != nil {
				return nil, fmt.Errorf("%w: read body: %v", domain.ErrUSDAAPIFailure, err)
			}
			return body, nil
		}

		body, _ := readLimitedBody(resp.Body, maxErrorBody)
		resp.Body.Close()
		c.debugLog("status %d (attempt %d): %s", resp.StatusCode, attempt, string(body))

		switch {
		case resp.StatusCode == http.StatusNotFound:
			return nil, domain.ErrProductNotFound
		case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
			lastErr = fmt.Errorf("%w: status %d", domain.ErrUSDAAPIFailure, resp.StatusCode)
			if attempt < maxAttempts {
				if err := sleepContext(ctx, exponentialBackoff(attempt)); err != nil {
					return nil, err
				}
			}
		default:
			return nil, fmt.Errorf("%w: status %d: %s", domain.ErrUSDAAPIFailure, resp.StatusCode, string(body))
		}
	}

	return nil, lastErr
}

// exponentialBackoff returns 500ms, 1s, 2s, ... for attempts 1, 2, 3, ...
func exponentialBackoff(attempt int) time.Duration {
	if attempt < 1 {
		attempt = 1
	}
	return time.Duration(500*(1<<(attempt-1))) * time.Millisecond
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return fmt.Errorf("%w: %v", domain.ErrUSDAAPIFailure, ctx.Err())
	case <-timer.C:
		return nil
	}
}

// readLimitedBody reads at most limit bytes of r
func readLimitedBody(r io.Reader, limit int64) ([]byte, error) {
	return io.ReadAll(io.LimitReader(r, limit))
}
