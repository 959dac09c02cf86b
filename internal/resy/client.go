package resy

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"
)

// KindBookable is the type tag the availability feed uses for entries that
// can actually be booked. Waitlist and notify entries carry other tags.
const KindBookable = "available"

// ErrMalformed indicates the availability response decoded but did not have
// the expected shape. Callers treat the day as zero slots.
var ErrMalformed = errors.New("malformed availability response")

// Credentials are the API key and auth token captured from an authenticated
// browser session. The watcher never refreshes them; when they expire the
// fetches start failing and `resy-watch ping` will tell you why.
type Credentials struct {
	APIKey    string
	AuthToken string
}

// Slot is one raw entry from the availability feed for a single day.
type Slot struct {
	Available    bool   `json:"available"`
	StartMinutes int    `json:"start_minutes"` // minutes since midnight
	Token        string `json:"token"`         // stable slot identifier
	Kind         string `json:"type"`
}

type findResponse struct {
	Results struct {
		Venues []struct {
			Slots []Slot `json:"slots"`
		} `json:"venues"`
	} `json:"results"`
}

// DayAvailability carries the decoded slot records together with the raw
// response body and a request description, so the caller can append the
// exact observation to the log even when decoding fails.
type DayAvailability struct {
	Request string
	Raw     string
	Slots   []Slot
}

// Client fetches per-day availability from the Resy API. Request flow and
// headers follow the flow used by lgrees/resy-cli.
type Client struct {
	hc      *http.Client
	creds   Credentials
	venueID string

	// BaseURL exists so tests can point the client at a local server.
	BaseURL string
}

func New(creds Credentials, venueID string) *Client {
	return &Client{
		hc:      &http.Client{Timeout: 3 * time.Second},
		creds:   creds,
		venueID: venueID,
		BaseURL: "https://api.resy.com",
	}
}

// Ping verifies the credentials against the user endpoint.
func (c *Client) Ping(ctx context.Context) error {
	status, body, err := c.do(ctx, http.MethodGet, c.BaseURL+"/2/user", nil)
	if err != nil {
		return err
	}
	if status >= 400 {
		var r struct {
			Message string `json:"message"`
		}
		_ = json.Unmarshal(body, &r)
		if r.Message != "" {
			return fmt.Errorf("resy ping failed: %s (status=%d)", r.Message, status)
		}
		return fmt.Errorf("resy ping failed (status=%d)", status)
	}
	return nil
}

// FetchDay returns the raw availability payload for one calendar day
// (YYYY-MM-DD). A response missing the expected nesting is not an error in
// itself: a day the venue has not opened has no venues entry and comes back
// with zero slots. Undecodable bodies return ErrMalformed with the raw body
// still populated.
func (c *Client) FetchDay(ctx context.Context, day string, partySize int) (DayAvailability, error) {
	da := DayAvailability{
		Request: fmt.Sprintf("GET /4/find venue_id=%s day=%s party_size=%d", c.venueID, day, partySize),
	}
	params := map[string]string{
		"party_size": strconv.Itoa(partySize),
		"venue_id":   c.venueID,
		"day":        day,
		// deprecated but seemingly required
		"lat":  "0",
		"long": "0",
	}
	status, body, err := c.do(ctx, http.MethodGet, c.BaseURL+"/4/find", params)
	da.Raw = string(body)
	if err != nil {
		return da, err
	}
	if status != http.StatusOK {
		return da, fmt.Errorf("fetch availability for %s (status=%d)", day, status)
	}
	var res findResponse
	if err := json.Unmarshal(body, &res); err != nil {
		return da, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if len(res.Results.Venues) == 0 {
		return da, nil
	}
	da.Slots = res.Results.Venues[0].Slots
	return da, nil
}

func (c *Client) do(ctx context.Context, method, rawURL string, query map[string]string) (int, []byte, error) {
	req, err := http.NewRequestWithContext(ctx, method, rawURL, bytes.NewReader(nil))
	if err != nil {
		return 0, nil, err
	}
	req.Header.Add("user-agent", "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/114.0.0.0 Safari/537.36")
	req.Header.Add("origin", "https://resy.com")
	req.Header.Add("referrer", "https://resy.com")
	req.Header.Add("x-origin", "https://resy.com")
	req.Header.Add("cache-control", "no-cache")
	req.Header.Add("authorization", fmt.Sprintf(`ResyAPI api_key="%s"`, c.creds.APIKey))
	req.Header.Add("x-resy-auth-token", c.creds.AuthToken)
	req.Header.Add("x-resy-universal-auth", c.creds.AuthToken)

	if query != nil {
		q := req.URL.Query()
		for k, v := range query {
			q.Add(k, v)
		}
		req.URL.RawQuery = q.Encode()
	}

	res, err := c.hc.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer res.Body.Close()
	b, err := io.ReadAll(res.Body)
	if err != nil {
		return res.StatusCode, nil, err
	}
	return res.StatusCode, b, nil
}
