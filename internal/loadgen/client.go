package loadgen

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	service "github.com/okian/stationkpi/internal/app"
	"github.com/okian/stationkpi/internal/domain/competition"
	"github.com/okian/stationkpi/internal/domain/model"
)

// Client talks to the service's HTTP API.
type Client struct {
	http    *http.Client
	baseURL string
}

// NewClient returns a client for baseURL with the given request timeout.
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{http: &http.Client{Timeout: timeout}, baseURL: baseURL}
}

type sampleBody struct {
	EventID       string  `json:"event_id"`
	ParticipantID string  `json:"participant_id"`
	MetricID      string  `json:"metric_id"`
	TS            string  `json:"ts"`
	Value         float64 `json:"value"`
}

type ackResponse struct {
	Status    string `json:"status"`
	Duplicate bool   `json:"duplicate"`
}

// Health checks /healthz.
func (c *Client) Health(ctx context.Context) error {
	return c.getJSON(ctx, "/healthz", nil)
}

// State fetches the dashboard state.
func (c *Client) State(ctx context.Context) (service.StateView, error) {
	var out service.StateView
	return out, c.getJSON(ctx, "/state", &out)
}

// Participants fetches every participant with its metrics.
func (c *Client) Participants(ctx context.Context) ([]model.Participant, error) {
	var list []service.Summary
	if err := c.getJSON(ctx, "/participants", &list); err != nil {
		return nil, err
	}
	out := make([]model.Participant, 0, len(list))
	for _, s := range list {
		var view service.ParticipantView
		if err := c.getJSON(ctx, "/participants/"+url.PathEscape(s.ID), &view); err != nil {
			return nil, err
		}
		out = append(out, view.Participant)
	}
	return out, nil
}

// Competition fetches the ranking of month. Zero values fall back to the
// server defaults.
func (c *Client) Competition(ctx context.Context, month model.Month, limit int) (competition.Ranking, error) {
	q := url.Values{}
	if month != "" {
		q.Set("month", month.String())
	}
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}
	path := "/competition"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}
	var out competition.Ranking
	return out, c.getJSON(ctx, path, &out)
}

// PostSample submits e and classifies the answer.
func (c *Client) PostSample(ctx context.Context, e model.SampleEvent) (Outcome, error) {
	data, err := json.Marshal(sampleBody{
		EventID:       e.EventID,
		ParticipantID: e.ParticipantID,
		MetricID:      e.MetricID,
		TS:            e.Timestamp.UTC().Format(time.RFC3339),
		Value:         e.Value,
	})
	if err != nil {
		return OutcomeFailed, fmt.Errorf("marshal sample: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/samples", bytes.NewReader(data))
	if err != nil {
		return OutcomeFailed, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return OutcomeFailed, err
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return OutcomeFailed, err
	}

	switch resp.StatusCode {
	case http.StatusAccepted:
		return OutcomeAccepted, nil
	case http.StatusOK:
		var ack ackResponse
		if err := json.Unmarshal(body, &ack); err == nil && ack.Duplicate {
			return OutcomeDuplicate, nil
		}
		return OutcomeAccepted, nil
	case http.StatusTooManyRequests, http.StatusServiceUnavailable:
		return OutcomeThrottled, nil
	case http.StatusBadRequest, http.StatusNotFound:
		return OutcomeRejected, nil
	}
	return OutcomeFailed, fmt.Errorf("post sample: unexpected status %d", resp.StatusCode)
}

func (c *Client) getJSON(ctx context.Context, path string, v any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("GET %s: status %d", path, resp.StatusCode)
	}
	if v == nil {
		_, err = io.Copy(io.Discard, resp.Body)
		return err
	}
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("GET %s: decode: %w", path, err)
	}
	return nil
}
