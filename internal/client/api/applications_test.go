package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/dmitrijs2005/jobtrack/internal/client/models"
	"github.com/stretchr/testify/require"
)

func newApplications(t *testing.T, handler http.Handler) (*Applications, *atomic.Int32) {
	t.Helper()
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		handler.ServeHTTP(w, r)
	}))
	t.Cleanup(srv.Close)
	return NewApplications(srv.URL, srv.Client()), &hits
}

func TestApplications_ListCachesFor30Seconds(t *testing.T) {
	apps := []models.Application{{ID: 1, Company: "acme", Position: "dev", CurrentStatus: models.StatusSent}}
	client, hits := newApplications(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/applications", r.URL.Path)
		json.NewEncoder(w).Encode(apps)
	}))

	base := time.Now()
	client.now = func() time.Time { return base }

	ctx := context.Background()
	got, err := client.List(ctx, nil)
	require.NoError(t, err)
	require.Equal(t, apps, got)
	require.Equal(t, int32(1), hits.Load())

	// inside TTL: served from cache
	base = base.Add(10 * time.Second)
	_, err = client.List(ctx, nil)
	require.NoError(t, err)
	require.Equal(t, int32(1), hits.Load())

	// past TTL: refetch
	base = base.Add(listCacheTTL)
	_, err = client.List(ctx, nil)
	require.NoError(t, err)
	require.Equal(t, int32(2), hits.Load())
}

func TestApplications_StatusFilterBypassesCache(t *testing.T) {
	client, hits := newApplications(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if status := r.URL.Query().Get("status"); status != "" {
			require.Equal(t, "INTERVIEW", status)
		}
		json.NewEncoder(w).Encode([]models.Application{})
	}))

	ctx := context.Background()
	_, err := client.List(ctx, nil)
	require.NoError(t, err)

	st := models.StatusInterview
	_, err = client.List(ctx, &st)
	require.NoError(t, err)
	_, err = client.List(ctx, &st)
	require.NoError(t, err)

	require.Equal(t, int32(3), hits.Load())
}

func TestApplications_MutationsInvalidateCache(t *testing.T) {
	client, hits := newApplications(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			json.NewEncoder(w).Encode([]models.Application{})
		case http.MethodPost, http.MethodPut:
			var app models.Application
			require.NoError(t, json.NewDecoder(r.Body).Decode(&app))
			app.ID = 42
			json.NewEncoder(w).Encode(app)
		case http.MethodDelete:
			w.WriteHeader(http.StatusNoContent)
		}
	}))

	ctx := context.Background()
	_, err := client.List(ctx, nil)
	require.NoError(t, err)
	require.Equal(t, int32(1), hits.Load())

	created, err := client.Create(ctx, models.Application{Company: "acme", Position: "dev", CurrentStatus: models.StatusSent})
	require.NoError(t, err)
	require.Equal(t, int64(42), created.ID)

	// cache was invalidated by Create, so List goes out again
	_, err = client.List(ctx, nil)
	require.NoError(t, err)
	require.Equal(t, int32(3), hits.Load())

	require.NoError(t, client.Delete(ctx, 42))
	_, err = client.List(ctx, nil)
	require.NoError(t, err)
	require.Equal(t, int32(5), hits.Load())
}

func TestApplications_GetAndUpdate(t *testing.T) {
	client, _ := newApplications(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/applications/7", r.URL.Path)
		switch r.Method {
		case http.MethodGet:
			json.NewEncoder(w).Encode(models.Application{ID: 7, Company: "acme"})
		case http.MethodPut:
			var app models.Application
			require.NoError(t, json.NewDecoder(r.Body).Decode(&app))
			app.ID = 7
			json.NewEncoder(w).Encode(app)
		}
	}))

	ctx := context.Background()
	got, err := client.Get(ctx, 7)
	require.NoError(t, err)
	require.Equal(t, "acme", got.Company)

	updated, err := client.Update(ctx, 7, models.Application{Company: "acme", CurrentStatus: models.StatusAccepted})
	require.NoError(t, err)
	require.Equal(t, models.StatusAccepted, updated.CurrentStatus)
}

func TestApplications_ServerErrorSurfaces(t *testing.T) {
	client, _ := newApplications(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))

	_, err := client.List(context.Background(), nil)
	require.Error(t, err)
}
