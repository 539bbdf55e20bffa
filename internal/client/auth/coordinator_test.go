package auth

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dmitrijs2005/jobtrack/internal/client/models"
	"github.com/dmitrijs2005/jobtrack/internal/client/session"
	"github.com/dmitrijs2005/jobtrack/internal/common"
	"github.com/dmitrijs2005/jobtrack/internal/logging"
	"github.com/stretchr/testify/require"
)

// ---- fake credential store ----

type fakeStore struct {
	access  string
	refresh string
	user    *models.User
	cleared bool
}

func (f *fakeStore) SetTokens(ctx context.Context, access, refresh string) error {
	f.access, f.refresh = access, refresh
	return nil
}

func (f *fakeStore) SetAccessToken(ctx context.Context, access string) error {
	f.access = access
	return nil
}

func (f *fakeStore) AccessToken(ctx context.Context) (string, error)  { return f.access, nil }
func (f *fakeStore) RefreshToken(ctx context.Context) (string, error) { return f.refresh, nil }

func (f *fakeStore) SetUser(ctx context.Context, u *models.User) error {
	f.user = u
	return nil
}

func (f *fakeStore) User(ctx context.Context) (*models.User, error) { return f.user, nil }

func (f *fakeStore) Clear(ctx context.Context) error {
	f.access, f.refresh, f.user = "", "", nil
	f.cleared = true
	return nil
}

func testLogger() logging.Logger {
	return logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func newCoordinator(t *testing.T, handler http.Handler) (*Coordinator, *fakeStore, *session.Manager) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	st := &fakeStore{}
	sessions := session.NewManager(st)
	c := NewCoordinator(srv.URL, srv.Client(), st, sessions, testLogger())
	return c, st, sessions
}

func TestLogin_SuccessPersistsStateAndPublishesUser(t *testing.T) {
	user := &models.User{ID: 1, Email: "a@b.c", FirstName: "Ann"}
	c, st, sessions := newCoordinator(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/api/auth/login", r.URL.Path)

		var req loginRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Equal(t, "a@b.c", req.Email)
		require.Equal(t, "pw", req.Password)

		json.NewEncoder(w).Encode(AuthResponse{AccessToken: "at", RefreshToken: "rt", User: user})
	}))

	got, err := c.Login(context.Background(), "a@b.c", "pw")
	require.NoError(t, err)
	require.Equal(t, user, got)
	require.Equal(t, "at", st.access)
	require.Equal(t, "rt", st.refresh)
	require.Equal(t, user, st.user)
	require.Equal(t, user, sessions.Current())
}

func TestLogin_FailureLeavesStateUntouched(t *testing.T) {
	c, st, sessions := newCoordinator(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(map[string]string{"message": "Bad credentials"})
	}))

	_, err := c.Login(context.Background(), "a@b.c", "wrong")
	require.Error(t, err)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, http.StatusUnauthorized, apiErr.Status)
	require.Equal(t, "Bad credentials", apiErr.Message)

	require.Empty(t, st.access)
	require.Empty(t, st.refresh)
	require.Nil(t, sessions.Current())
}

func TestLogout_ClearsLocallyEvenWhenRemoteFails(t *testing.T) {
	c, st, sessions := newCoordinator(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))

	st.access, st.refresh = "at", "rt"
	user := &models.User{ID: 1}
	st.user = user
	sessions.Publish(user)

	err := c.Logout(context.Background())
	require.Error(t, err)

	require.True(t, st.cleared)
	require.Empty(t, st.access)
	require.Nil(t, sessions.Current())
}

func TestLogout_Success(t *testing.T) {
	c, st, sessions := newCoordinator(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/auth/logout", r.URL.Path)
		w.WriteHeader(http.StatusOK)
	}))

	st.access, st.refresh = "at", "rt"
	sessions.Publish(&models.User{ID: 1})

	require.NoError(t, c.Logout(context.Background()))
	require.True(t, st.cleared)
	require.Nil(t, sessions.Current())
}

func TestRefreshToken_Success(t *testing.T) {
	c, st, _ := newCoordinator(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/auth/refresh", r.URL.Path)

		var req refreshRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Equal(t, "rt-1", req.RefreshToken)

		json.NewEncoder(w).Encode(refreshResponse{AccessToken: "at-2"})
	}))

	st.access, st.refresh = "at-1", "rt-1"

	got, err := c.RefreshToken(context.Background())
	require.NoError(t, err)
	require.Equal(t, "at-2", got)
	require.Equal(t, "at-2", st.access)
	require.Equal(t, "rt-1", st.refresh, "refresh token stays")
}

func TestRefreshToken_FailureDoesNotClearSession(t *testing.T) {
	c, st, _ := newCoordinator(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))

	st.access, st.refresh = "at-1", "rt-1"

	_, err := c.RefreshToken(context.Background())
	require.ErrorIs(t, err, common.ErrRefreshFailed)

	require.False(t, st.cleared)
	require.Equal(t, "at-1", st.access)
	require.Equal(t, "rt-1", st.refresh)
}

func TestRefreshToken_NoStoredToken(t *testing.T) {
	c, _, _ := newCoordinator(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request expected")
	}))

	_, err := c.RefreshToken(context.Background())
	require.ErrorIs(t, err, common.ErrNoRefreshToken)
}

func TestForgotPassword_SwallowsBackendFailure(t *testing.T) {
	c, _, _ := newCoordinator(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))

	require.NoError(t, c.ForgotPassword(context.Background(), "nobody@example.com"))
}

func TestResetPassword_SendsTokenAndPassword(t *testing.T) {
	c, _, _ := newCoordinator(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/auth/reset-password", r.URL.Path)
		var req map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Equal(t, "tok", req["token"])
		require.Equal(t, "newpw", req["newPassword"])
		w.WriteHeader(http.StatusOK)
	}))

	require.NoError(t, c.ResetPassword(context.Background(), "tok", "newpw"))
}

func TestConfirmEmail_PassesTokenAsQuery(t *testing.T) {
	c, _, _ := newCoordinator(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodGet, r.Method)
		require.Equal(t, "/api/auth/confirm", r.URL.Path)
		require.Equal(t, "tok en", r.URL.Query().Get("token"))
		w.WriteHeader(http.StatusOK)
	}))

	require.NoError(t, c.ConfirmEmail(context.Background(), "tok en"))
}

func TestRegister_NoLocalStateChange(t *testing.T) {
	c, st, sessions := newCoordinator(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/auth/register", r.URL.Path)
		var req RegisterRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Equal(t, "a@b.c", req.Email)
		w.WriteHeader(http.StatusCreated)
	}))

	require.NoError(t, c.Register(context.Background(), RegisterRequest{
		Email: "a@b.c", Password: "pw", FirstName: "A", LastName: "B",
	}))
	require.Empty(t, st.access)
	require.Nil(t, sessions.Current())
}

func TestClassifyLogin(t *testing.T) {
	netErr := context.DeadlineExceeded

	tests := []struct {
		name string
		err  error
		want error
	}{
		{"nil", nil, nil},
		{"not enabled message", &APIError{Status: 403, Message: "User is NOT ENABLED yet"}, ErrEmailNotConfirmed},
		{"status 401", &APIError{Status: 401, Message: "Bad credentials"}, ErrInvalidCredentials},
		{"status 400", &APIError{Status: 400}, ErrInvalidCredentials},
		{"server error stays", &APIError{Status: 500, Message: "oops"}, &APIError{Status: 500, Message: "oops"}},
		{"non-api error stays", netErr, netErr},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := ClassifyLogin(tc.err)
			if tc.want == nil {
				require.NoError(t, got)
				return
			}
			require.Equal(t, tc.want.Error(), got.Error())
		})
	}
}
