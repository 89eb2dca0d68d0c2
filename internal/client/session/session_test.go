package session

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fyndrai/fyndr/internal/client/api"
	"github.com/fyndrai/fyndr/internal/client/repositories/storage"
	"github.com/fyndrai/fyndr/internal/client/tokens"
	"github.com/fyndrai/fyndr/internal/common"
)

type fixture struct {
	session *Session
	store   *storage.MemoryStore
	tokens  *tokens.Store
}

func newFixture(t *testing.T, r chi.Router) *fixture {
	t.Helper()
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)

	store := storage.NewMemoryStore()
	ts := tokens.NewStore(store)
	base := api.New(srv.URL+"/api", api.WithTimeout(5*time.Second))
	mgr := tokens.NewManager(ts, api.NewRefresher(base))
	return &fixture{
		session: New(base.WithTokenSource(mgr), ts, store),
		store:   store,
		tokens:  ts,
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func loginRouter(profile func(w http.ResponseWriter, r *http.Request)) chi.Router {
	r := chi.NewRouter()
	r.Post("/api/auth/login/", func(w http.ResponseWriter, r *http.Request) {
		var creds api.Credentials
		_ = json.NewDecoder(r.Body).Decode(&creds)
		if creds.Password != "s3cret-pass" {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"detail": "No active account found with the given credentials"})
			return
		}
		writeJSON(w, http.StatusOK, tokens.Pair{Access: "access-token-1", Refresh: "refresh-token-1"})
	})
	r.Get("/api/auth/profile/", profile)
	return r
}

func TestLogin_PersistsSessionAndRoutes(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, loginRouter(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, common.BearerPrefix+"access-token-1", r.Header.Get(common.AuthorizationHeaderName))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(recruiterProfile))
	}))

	res, err := f.session.Login(ctx, api.Credentials{Username: "rita", Password: "s3cret-pass"})
	require.NoError(t, err)
	assert.Equal(t, RouteRecruiterOnboarding, res.Route)
	assert.Equal(t, "rita", res.User.Username)

	assert.True(t, f.tokens.IsAuthenticated(ctx))
	for key, want := range map[string]string{
		storage.KeyIsAuthenticated:             "true",
		storage.KeyUserRole:                    "recruiter",
		storage.KeyRecruiterOnboardingComplete: "false",
		storage.KeyRefreshToken:                "refresh-token-1",
	} {
		got, ok, err := f.store.Get(ctx, key)
		require.NoError(t, err)
		assert.True(t, ok, key)
		assert.Equal(t, want, got, key)
	}

	cur, ok := f.session.Current(ctx)
	require.True(t, ok)
	assert.Equal(t, res.User.Email, cur.Email)
	assert.Equal(t, "Acme Corp", cur.Fields["companyName"])
}

func TestLogin_RejectedPersistsNothing(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, loginRouter(func(w http.ResponseWriter, r *http.Request) {
		t.Error("profile must not be fetched")
	}))

	_, err := f.session.Login(ctx, api.Credentials{Username: "rita", Password: "wrong"})
	var fe *FormErrors
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, "No active account found with the given credentials", fe.Banner)
	assert.False(t, f.tokens.IsAuthenticated(ctx))
	_, ok, _ := f.store.Get(ctx, storage.KeyUser)
	assert.False(t, ok)
}

func TestLogin_ProfileFailureIsAuthenticationFailure(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, loginRouter(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"detail": "profile service down"})
	}))

	_, err := f.session.Login(ctx, api.Credentials{Username: "rita", Password: "s3cret-pass"})
	assert.ErrorIs(t, err, common.ErrAuthenticationFailed)
	assert.False(t, f.tokens.IsAuthenticated(ctx))
	_, ok, _ := f.store.Get(ctx, storage.KeyUser)
	assert.False(t, ok)
	_, ok, _ = f.store.Get(ctx, storage.KeyRefreshToken)
	assert.False(t, ok)
}

func TestLogin_UndecodableProfile(t *testing.T) {
	f := newFixture(t, loginRouter(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, []string{"not", "an", "object"})
	}))

	_, err := f.session.Login(context.Background(), api.Credentials{Username: "rita", Password: "s3cret-pass"})
	assert.ErrorIs(t, err, common.ErrAuthenticationFailed)
	assert.False(t, f.tokens.IsAuthenticated(context.Background()))
}

func TestRegister_EmailAlreadyExists(t *testing.T) {
	r := chi.NewRouter()
	r.Post("/api/auth/register/", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusBadRequest, map[string][]string{"email": {"already exists"}})
	})
	f := newFixture(t, r)

	err := f.session.Register(context.Background(), api.Registration{Username: "ana", Email: "ana@example.com", Password: "pw", Role: "job_seeker"})
	var fe *FormErrors
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, MessageEmailExists, fe.Banner)
	assert.NotContains(t, fe.Fields, "email")
}

func TestRegister_SuccessDoesNotSignIn(t *testing.T) {
	r := chi.NewRouter()
	r.Post("/api/auth/register/", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusCreated, map[string]string{"username": "ana"})
	})
	f := newFixture(t, r)

	require.NoError(t, f.session.Register(context.Background(), api.Registration{Username: "ana"}))
	assert.False(t, f.tokens.IsAuthenticated(context.Background()))
}

func TestUpdateProfile_ReplacesRecord(t *testing.T) {
	ctx := context.Background()
	r := chi.NewRouter()
	r.Put("/api/auth/profile/", func(w http.ResponseWriter, r *http.Request) {
		var changes map[string]any
		_ = json.NewDecoder(r.Body).Decode(&changes)
		if _, ok := changes["bad"]; ok {
			writeJSON(w, http.StatusBadRequest, map[string][]string{"bad": {"Unknown field."}})
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"id": 7, "username": "jo", "role": "job_seeker", "onboarding_complete": true,
			"profile": map[string]any{"desired_roles": []string{"SRE"}},
		})
	})
	f := newFixture(t, r)
	require.NoError(t, f.tokens.SetTokensWith(ctx, "access-token-1", "refresh-token-1", map[string]string{
		storage.KeyUser: `{"id":"7","username":"jo","role":"job_seeker","onboarding_complete":false,"stale":"yes"}`,
	}))

	rec, err := f.session.UpdateProfile(ctx, map[string]any{"desired_roles": []string{"SRE"}})
	require.NoError(t, err)
	assert.True(t, rec.OnboardingComplete)

	cur, ok := f.session.Current(ctx)
	require.True(t, ok)
	assert.True(t, cur.OnboardingComplete)
	assert.NotContains(t, cur.Fields, "stale")
	assert.Equal(t, []any{"SRE"}, cur.Fields["desiredRoles"])
	flag, _, _ := f.store.Get(ctx, storage.KeyJobSeekerOnboardingComplete)
	assert.Equal(t, "true", flag)

	_, err = f.session.UpdateProfile(ctx, map[string]any{"bad": 1})
	var fe *FormErrors
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, "Unknown field.", fe.Fields["bad"])
}

func TestLogout_KeepsNavbarPreference(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, chi.NewRouter())
	require.NoError(t, f.tokens.SetTokensWith(ctx, "access-token-1", "refresh-token-1", map[string]string{
		storage.KeyUser:     `{"username":"jo"}`,
		storage.KeyUserRole: "job_seeker",
	}))
	require.NoError(t, f.session.SetNavbarVisible(ctx, false))

	require.NoError(t, f.session.Logout(ctx))

	assert.False(t, f.tokens.IsAuthenticated(ctx))
	for _, key := range storage.SessionKeys {
		_, ok, err := f.store.Get(ctx, key)
		require.NoError(t, err)
		assert.False(t, ok, key)
	}
	assert.False(t, f.session.NavbarVisible(ctx))
}

func TestNavbarVisible_DefaultsToTrue(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, chi.NewRouter())
	assert.True(t, f.session.NavbarVisible(ctx))

	require.NoError(t, f.store.Set(ctx, storage.KeyNavbarVisible, "garbage"))
	assert.True(t, f.session.NavbarVisible(ctx))
}

func TestCurrent_RequiresTokensAndReadableRecord(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, chi.NewRouter())

	require.NoError(t, f.store.Set(ctx, storage.KeyUser, `{"username":"jo"}`))
	_, ok := f.session.Current(ctx)
	assert.False(t, ok, "record without tokens")

	require.NoError(t, f.tokens.SetTokens(ctx, "access-token-1", "refresh-token-1"))
	_, ok = f.session.Current(ctx)
	assert.True(t, ok)

	require.NoError(t, f.store.Set(ctx, storage.KeyUser, "{not json"))
	_, ok = f.session.Current(ctx)
	assert.False(t, ok)
}

func TestHandleAuthFailure(t *testing.T) {
	ctx := context.Background()
	r := chi.NewRouter()
	r.Post("/api/auth/token/refresh/", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"detail": "Token is blacklisted"})
	})
	r.Get("/api/auth/profile/", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"detail": "expired"})
	})
	f := newFixture(t, r)
	require.NoError(t, f.tokens.SetTokensWith(ctx, "access-token-1", "refresh-token-1", map[string]string{
		storage.KeyUser: `{"username":"jo"}`,
	}))

	_, err := f.session.Reload(ctx)
	require.Error(t, err)

	route, handled := f.session.HandleAuthFailure(ctx, err)
	assert.True(t, handled)
	assert.Equal(t, RouteLogin, route)
	_, ok, _ := f.store.Get(ctx, storage.KeyUser)
	assert.False(t, ok)

	_, handled = f.session.HandleAuthFailure(ctx, &api.HTTPError{Status: 500})
	assert.False(t, handled)
}

func TestWatch_ReportsLogoutAndProfileChanges(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	f := newFixture(t, chi.NewRouter())

	events, err := f.session.Watch(ctx)
	require.NoError(t, err)

	require.NoError(t, f.store.Set(ctx, storage.KeyUser, `{"username":"jo"}`))
	require.NoError(t, f.store.Set(ctx, storage.KeyNavbarVisible, "true"))
	require.NoError(t, f.session.Logout(ctx))

	var got []EventKind
	timeout := time.After(2 * time.Second)
	for len(got) < 2 {
		select {
		case ev := <-events:
			got = append(got, ev)
		case <-timeout:
			t.Fatalf("timed out, got %v", got)
		}
	}
	assert.Equal(t, []EventKind{EventProfileChanged, EventLoggedOut}, got)

	cancel()
	for range events {
	}
}

func TestEventKind_String(t *testing.T) {
	assert.Equal(t, "logged_out", EventLoggedOut.String())
	assert.True(t, strings.HasPrefix(EventProfileChanged.String(), "profile"))
}
