// README: Shared fixtures for handler tests: stub verifier, seeded memory store, request helper.
package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"

	api "strollpath/internal/http"
	"strollpath/internal/infra"
	"strollpath/internal/modules/session"
	"strollpath/internal/modules/synchronizer"
	"strollpath/internal/store/memory"
)

// stubTokenVerifier treats the bearer token as the caller's UID.
type stubTokenVerifier struct{}

func (stubTokenVerifier) VerifyIDToken(_ context.Context, token string) (*infra.FirebaseToken, error) {
	if token == "bad" {
		return nil, errors.New("invalid token")
	}
	return &infra.FirebaseToken{UID: token, Name: "Walker " + token}, nil
}

type testAPI struct {
	router   http.Handler
	store    *memory.Store
	sessions *session.Registry
}

func newTestAPI(t *testing.T, opts ...synchronizer.Option) *testAPI {
	t.Helper()
	gin.SetMode(gin.TestMode)
	log := zaptest.NewLogger(t)

	store := memory.NewStore(log)
	require.NoError(t, store.Seed(context.Background()))

	sessions := session.NewRegistry(func(l *zap.Logger) *synchronizer.Service {
		return synchronizer.NewService(store, append([]synchronizer.Option{synchronizer.WithLogger(l)}, opts...)...)
	}, zap.NewNop())
	t.Cleanup(sessions.Close)

	srv := api.NewServer(api.ServerDeps{Sessions: sessions, Verifier: stubTokenVerifier{}, Log: log})
	return &testAPI{router: srv.Routes(), store: store, sessions: sessions}
}

func (a *testAPI) do(t *testing.T, method, path, uid string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if uid != "" {
		req.Header.Set("Authorization", "Bearer "+uid)
	}
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	return w
}

// login opens a session for uid and fails the test otherwise.
func (a *testAPI) login(t *testing.T, uid string) {
	t.Helper()
	w := a.do(t, http.MethodPost, "/api/session", uid, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}
