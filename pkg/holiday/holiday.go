package holiday

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// DefaultBaseURL is the public holidays-jp dataset endpoint
const DefaultBaseURL = "https://holidays-jp.github.io/api/v1"

const dateFormat = "2006-01-02"

// Set holds the holiday dates of a single year, keyed by ISO date
type Set map[string]struct{}

// Contains reports whether the calendar date of t is a holiday. The
// caller is expected to pass a time already in the schedule's timezone.
func (s Set) Contains(t time.Time) bool {
	_, ok := s[t.Format(dateFormat)]
	return ok
}

// FetchError wraps a failure to retrieve or decode holiday data
type FetchError struct {
	Year int
	Err  error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("error fetching holidays for %d: %v", e.Year, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// Client fetches the holiday calendar for a given year
type Client struct {
	httpClient *http.Client
	baseURL    string
	log        *zap.SugaredLogger
}

// NewClient creates a holiday calendar client. An empty baseURL selects
// the public dataset.
func NewClient(baseURL string, log *zap.SugaredLogger) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		httpClient: &http.Client{Timeout: 10 * time.Second},
		baseURL:    baseURL,
		log:        log,
	}
}

// FetchHolidays retrieves the holiday set for a year. On failure it
// returns an empty, usable Set together with a *FetchError so callers can
// log and continue without holiday data (the weekend override is
// unaffected).
func (c *Client) FetchHolidays(ctx context.Context, year int) (Set, error) {
	set, err := c.fetch(ctx, year)
	if err != nil {
		return Set{}, &FetchError{Year: year, Err: err}
	}
	c.log.Infow("fetched holiday calendar", "year", year, "holidays", len(set))
	return set, nil
}

func (c *Client) fetch(ctx context.Context, year int) (Set, error) {
	url := fmt.Sprintf("%s/%d/date.json", c.baseURL, year)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("error building request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("error requesting %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %s from %s", resp.Status, url)
	}

	// The dataset is a flat JSON object of ISO date -> holiday name
	var dates map[string]string
	if err := json.NewDecoder(resp.Body).Decode(&dates); err != nil {
		return nil, fmt.Errorf("error decoding holiday data: %w", err)
	}

	set := make(Set, len(dates))
	for date := range dates {
		set[date] = struct{}{}
	}
	return set, nil
}
