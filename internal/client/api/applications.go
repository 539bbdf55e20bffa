// Package api contains typed clients for the tracker's CRUD surface. All
// requests go through the request gate's transport, which handles bearer
// attachment and token refresh; these clients only know paths and payloads.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/dmitrijs2005/jobtrack/internal/client/models"
)

// listCacheTTL matches how long a fetched application list stays warm before
// the next List hits the network again.
const listCacheTTL = 30 * time.Second

// Applications is the job-application CRUD client with a small read cache.
type Applications struct {
	baseURL string
	http    *http.Client

	mu       sync.Mutex
	cached   []models.Application
	cachedAt time.Time
	now      func() time.Time
}

// NewApplications binds the client to the service base URL and a gate-backed
// HTTP client.
func NewApplications(baseURL string, httpClient *http.Client) *Applications {
	return &Applications{
		baseURL: baseURL,
		http:    httpClient,
		now:     time.Now,
	}
}

// List returns all applications. The unfiltered list is served from cache
// for up to 30 seconds; status-filtered queries always hit the network.
func (a *Applications) List(ctx context.Context, status *models.ApplicationStatus) ([]models.Application, error) {
	if status == nil {
		a.mu.Lock()
		if a.cached != nil && a.now().Sub(a.cachedAt) < listCacheTTL {
			out := a.cached
			a.mu.Unlock()
			return out, nil
		}
		a.mu.Unlock()
	}

	u := a.baseURL + "/api/applications"
	if status != nil {
		u += "?status=" + url.QueryEscape(string(*status))
	}

	var apps []models.Application
	if err := a.doJSON(ctx, http.MethodGet, u, nil, &apps); err != nil {
		return nil, err
	}

	if status == nil {
		a.mu.Lock()
		a.cached = apps
		a.cachedAt = a.now()
		a.mu.Unlock()
	}
	return apps, nil
}

// Get fetches one application by id.
func (a *Applications) Get(ctx context.Context, id int64) (*models.Application, error) {
	var app models.Application
	u := fmt.Sprintf("%s/api/applications/%d", a.baseURL, id)
	if err := a.doJSON(ctx, http.MethodGet, u, nil, &app); err != nil {
		return nil, err
	}
	return &app, nil
}

// Create adds an application and invalidates the list cache.
func (a *Applications) Create(ctx context.Context, app models.Application) (*models.Application, error) {
	var out models.Application
	u := a.baseURL + "/api/applications"
	if err := a.doJSON(ctx, http.MethodPost, u, app, &out); err != nil {
		return nil, err
	}
	a.InvalidateCache()
	return &out, nil
}

// Update replaces an application and invalidates the list cache.
func (a *Applications) Update(ctx context.Context, id int64, app models.Application) (*models.Application, error) {
	var out models.Application
	u := fmt.Sprintf("%s/api/applications/%d", a.baseURL, id)
	if err := a.doJSON(ctx, http.MethodPut, u, app, &out); err != nil {
		return nil, err
	}
	a.InvalidateCache()
	return &out, nil
}

// Delete removes an application and invalidates the list cache.
func (a *Applications) Delete(ctx context.Context, id int64) error {
	u := fmt.Sprintf("%s/api/applications/%d", a.baseURL, id)
	if err := a.doJSON(ctx, http.MethodDelete, u, nil, nil); err != nil {
		return err
	}
	a.InvalidateCache()
	return nil
}

// InvalidateCache drops the cached list so the next List refetches.
func (a *Applications) InvalidateCache() {
	a.mu.Lock()
	a.cached = nil
	a.cachedAt = time.Time{}
	a.mu.Unlock()
}

func (a *Applications) doJSON(ctx context.Context, method, url string, body any, out any) error {
	var reqBody *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reqBody = bytes.NewReader(data)
	} else {
		reqBody = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reqBody)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := a.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("request failed: %s", resp.Status)
	}

	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
