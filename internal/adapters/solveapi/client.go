package solveapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"trip-dispatch-service/internal/domain"
	"trip-dispatch-service/internal/platform/obs"
	"trip-dispatch-service/internal/ports"
)

// Client talks to the external solve service. It implements both the
// SolveProvider port (POST /solve) and the PlanSubmitter port
// (POST /solve/save). Remote failures never touch local planning state.
type Client struct {
	session *http.Client
	baseURL string
}

func NewClient(baseURL string) (*Client, error) {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		return nil, fmt.Errorf("new solve client: baseURL must be non-empty")
	}

	return &Client{
		session: &http.Client{Timeout: 60 * time.Second},
		baseURL: baseURL,
	}, nil
}

type solveRequest struct {
	Date    string   `json:"date"`
	Strings []string `json:"strings"`
}

type solveResponse struct {
	Results       []tripOrderRecord              `json:"results"`
	RouteCapacity map[string]routeCapacityRecord `json:"route_capacity"`
}

// Solve asks the external service for an initial trip assignment covering
// the requested date and String IDs.
func (c *Client) Solve(ctx context.Context, req ports.SolveRequest) (_ []*domain.Trip, err error) {
	defer obs.Time(ctx, "solveapi.Solve")(&err)

	payload, err := json.Marshal(solveRequest{Date: req.Date, Strings: req.StringIDs})
	if err != nil {
		return nil, fmt.Errorf("solve: encode request: %w", err)
	}

	endpoint := c.baseURL + "/solve"
	resp, err := c.doWithRetry(ctx, func() (*http.Request, error) {
		return c.newRequest(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	})
	if err != nil {
		return nil, fmt.Errorf("solve: execute request: %w", err)
	}
	defer resp.Body.Close()

	var decoded solveResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("solve: decode response: %w", err)
	}

	trips, err := tripsFromRecords(decoded.Results, decoded.RouteCapacity)
	if err != nil {
		return nil, fmt.Errorf("solve: %w", err)
	}

	return trips, nil
}

type saveSolveRequest struct {
	Results []tripOrderRecord `json:"results"`
}

// SubmitPlan pushes the approved trip collection to the solve service.
func (c *Client) SubmitPlan(ctx context.Context, trips []*domain.Trip) (err error) {
	defer obs.Time(ctx, "solveapi.SubmitPlan")(&err)

	payload, err := json.Marshal(saveSolveRequest{Results: recordsFromTrips(trips)})
	if err != nil {
		return fmt.Errorf("submit plan: encode request: %w", err)
	}

	endpoint := c.baseURL + "/solve/save"
	resp, err := c.doWithRetry(ctx, func() (*http.Request, error) {
		return c.newRequest(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	})
	if err != nil {
		return fmt.Errorf("submit plan: execute request: %w", err)
	}
	resp.Body.Close()

	return nil
}
