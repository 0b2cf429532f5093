package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mlukyanov/userd/internal/common"
	"github.com/mlukyanov/userd/internal/logging"
	"github.com/mlukyanov/userd/internal/server/models"
	"github.com/mlukyanov/userd/internal/server/services"
)

// --- fakes ---

type fakeUsers struct {
	profile *models.Profile
	err     error

	gotRegister      *services.RegisterRequest
	gotLoginToken    string
	gotUpdateID      string
	gotUpdateRequest *services.UpdateRequest
}

func (f *fakeUsers) Register(ctx context.Context, req *services.RegisterRequest) (*models.Profile, error) {
	f.gotRegister = req
	return f.profile, f.err
}

func (f *fakeUsers) Login(ctx context.Context, email, password, existingToken string) (*models.Profile, error) {
	f.gotLoginToken = existingToken
	return f.profile, f.err
}

func (f *fakeUsers) UpdateSelf(ctx context.Context, accountID string, req *services.UpdateRequest) (*models.Profile, error) {
	f.gotUpdateID = accountID
	f.gotUpdateRequest = req
	return f.profile, f.err
}

func (f *fakeUsers) GetProfile(ctx context.Context, accountID string) (*models.Profile, error) {
	return f.profile, f.err
}

func (f *fakeUsers) FindByGitID(ctx context.Context, gitID string) (*models.Profile, error) {
	return f.profile, f.err
}

type fakeOnboarder struct {
	profile *models.Profile
	err     error
}

func (f *fakeOnboarder) RegisterWithToken(ctx context.Context, req *services.OnboardingRequest) (*models.Profile, error) {
	return f.profile, f.err
}

type fakeWallet struct {
	gotID    string
	gotDelta int64
	err      error
}

func (f *fakeWallet) AdjustWallet(ctx context.Context, accountID string, delta int64) error {
	f.gotID = accountID
	f.gotDelta = delta
	return f.err
}

type fakeResolver struct {
	user *models.User
	err  error
}

func (f *fakeResolver) Resolve(ctx context.Context, tokenString string) (*models.User, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.user, nil
}

func newTestServer(users *fakeUsers, onboard *fakeOnboarder, wallet *fakeWallet, resolver *fakeResolver) *Server {
	l := logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
	return NewServer(":0", l, users, onboard, wallet, resolver)
}

func doJSON(t *testing.T, h http.Handler, method, path string, body any, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

// --- tests ---

func TestHandleRegister_Success(t *testing.T) {
	users := &fakeUsers{profile: &models.Profile{ID: "u1", Username: "alice", Token: "tok"}}
	srv := newTestServer(users, &fakeOnboarder{}, &fakeWallet{}, &fakeResolver{})

	rec := doJSON(t, srv.routes(), http.MethodPost, "/api/users", map[string]string{
		"username": "alice", "email": "alice@example.com", "password": "pw",
	}, nil)

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "alice", users.gotRegister.Username)
	assert.NotEmpty(t, rec.Header().Get("X-Request-Id"))

	var profile models.Profile
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &profile))
	assert.Equal(t, "tok", profile.Token)
}

func TestHandleRegister_ValidationFailures(t *testing.T) {
	srv := newTestServer(&fakeUsers{}, &fakeOnboarder{}, &fakeWallet{}, &fakeResolver{})

	tests := []struct {
		name  string
		body  map[string]string
		field string
	}{
		{name: "short username", body: map[string]string{"username": "a", "email": "a@b.co", "password": "pw"}, field: "username"},
		{name: "bad email", body: map[string]string{"username": "alice", "email": "nope", "password": "pw"}, field: "email"},
		{name: "missing password", body: map[string]string{"username": "alice", "email": "a@b.co"}, field: "password"},
		{name: "short git_id", body: map[string]string{"username": "alice", "email": "a@b.co", "password": "pw", "git_id": "1"}, field: "git_id"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rec := doJSON(t, srv.routes(), http.MethodPost, "/api/users", tc.body, nil)
			assert.Equal(t, http.StatusBadRequest, rec.Code)

			var body map[string]string
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, tc.field, body["field"])
		})
	}
}

func TestHandleRegister_ConflictMapsTo409(t *testing.T) {
	users := &fakeUsers{err: &common.ConflictError{Field: "email"}}
	srv := newTestServer(users, &fakeOnboarder{}, &fakeWallet{}, &fakeResolver{})

	rec := doJSON(t, srv.routes(), http.MethodPost, "/api/users", map[string]string{
		"username": "alice", "email": "alice@example.com", "password": "pw",
	}, nil)

	assert.Equal(t, http.StatusConflict, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "email", body["field"])
}

func TestHandleLogin_PassesBearerTokenThrough(t *testing.T) {
	users := &fakeUsers{profile: &models.Profile{ID: "u1", Token: "existing"}}
	srv := newTestServer(users, &fakeOnboarder{}, &fakeWallet{}, &fakeResolver{})

	rec := doJSON(t, srv.routes(), http.MethodPost, "/api/auth/login", map[string]string{
		"email": "alice@example.com", "password": "pw",
	}, map[string]string{"Authorization": "Bearer existing"})

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "existing", users.gotLoginToken)
}

func TestHandleLogin_InvalidCredentials(t *testing.T) {
	users := &fakeUsers{err: common.ErrInvalidCredentials}
	srv := newTestServer(users, &fakeOnboarder{}, &fakeWallet{}, &fakeResolver{})

	rec := doJSON(t, srv.routes(), http.MethodPost, "/api/auth/login", map[string]string{
		"email": "alice@example.com", "password": "wrong",
	}, nil)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthenticatedRoutes(t *testing.T) {
	user := &models.User{ID: "u1", Username: "alice"}

	t.Run("missing token", func(t *testing.T) {
		srv := newTestServer(&fakeUsers{}, &fakeOnboarder{}, &fakeWallet{}, &fakeResolver{user: user})
		rec := doJSON(t, srv.routes(), http.MethodGet, "/api/users/me", nil, nil)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("expired token", func(t *testing.T) {
		srv := newTestServer(&fakeUsers{}, &fakeOnboarder{}, &fakeWallet{}, &fakeResolver{err: common.ErrTokenExpired})
		rec := doJSON(t, srv.routes(), http.MethodGet, "/api/users/me", nil,
			map[string]string{"Authorization": "Bearer old"})
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("get self", func(t *testing.T) {
		users := &fakeUsers{profile: &models.Profile{ID: "u1", Username: "alice"}}
		srv := newTestServer(users, &fakeOnboarder{}, &fakeWallet{}, &fakeResolver{user: user})
		rec := doJSON(t, srv.routes(), http.MethodGet, "/api/users/me", nil,
			map[string]string{"Authorization": "Bearer tok"})
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("update self routes patch to caller account", func(t *testing.T) {
		users := &fakeUsers{profile: &models.Profile{ID: "u1"}}
		srv := newTestServer(users, &fakeOnboarder{}, &fakeWallet{}, &fakeResolver{user: user})
		rec := doJSON(t, srv.routes(), http.MethodPatch, "/api/users/me",
			map[string]string{"twitter": "@alice"},
			map[string]string{"Authorization": "Bearer tok"})
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "u1", users.gotUpdateID)
		require.NotNil(t, users.gotUpdateRequest.Twitter)
		assert.Equal(t, "@alice", *users.gotUpdateRequest.Twitter)
	})
}

func TestHandleOnboard_ErrorMapsTo400(t *testing.T) {
	srv := newTestServer(&fakeUsers{}, &fakeOnboarder{err: common.ErrOnboarding}, &fakeWallet{}, &fakeResolver{})

	rec := doJSON(t, srv.routes(), http.MethodPost, "/api/auth/github", map[string]string{
		"access_token": "tok", "email": "a@b.co", "password": "pw",
	}, nil)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleAdjustWallet(t *testing.T) {
	wallet := &fakeWallet{}
	srv := newTestServer(&fakeUsers{}, &fakeOnboarder{}, wallet, &fakeResolver{})

	rec := doJSON(t, srv.routes(), http.MethodPost, "/api/users/u9/wallet",
		map[string]int64{"delta": -150}, nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "u9", wallet.gotID)
	assert.Equal(t, int64(-150), wallet.gotDelta)
}

func TestHandleAdjustWallet_InternalErrorMapsTo500(t *testing.T) {
	wallet := &fakeWallet{err: common.ErrInternal}
	srv := newTestServer(&fakeUsers{}, &fakeOnboarder{}, wallet, &fakeResolver{})

	rec := doJSON(t, srv.routes(), http.MethodPost, "/api/users/u9/wallet",
		map[string]int64{"delta": 5}, nil)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestMalformedJSONBody(t *testing.T) {
	srv := newTestServer(&fakeUsers{}, &fakeOnboarder{}, &fakeWallet{}, &fakeResolver{})

	req := httptest.NewRequest(http.MethodPost, "/api/users", bytes.NewBufferString("{not json"))
	rec := httptest.NewRecorder()
	srv.routes().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
