package server

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"bioserver/config"
	"bioserver/dao/query"
	"bioserver/orm"
	"bioserver/util"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestQuery(t *testing.T) *query.Query {
	t.Helper()
	db, err := orm.Open(config.StoreConfig{
		Driver: config.DriverSQLite,
		SQLite: config.SQLiteConfig{Path: fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())},
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = orm.Close(db) })
	q, err := query.NewSQL(db)
	require.NoError(t, err)
	require.NoError(t, q.Migrate(context.Background()))
	return q
}

func TestRouter(t *testing.T) {
	tokens := util.NewTokenManager(config.AuthConfig{AccessTokenSecret: "s", AccessTokenExpiryHour: 1, RefreshTokenExpiryHour: 1})
	srv, err := New(":0", RouterConfig{
		ServiceName:    "bioserver-test",
		MetricsEnabled: true,
		MetricsPath:    "/metrics",
		Query:          newTestQuery(t),
		Tokens:         tokens,
	})
	require.NoError(t, err)
	h := srv.Handler()

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())

	w = httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/parameter", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	token, _, err := tokens.CreateTokens(&util.JWTMessage{UserID: "u"})
	require.NoError(t, err)
	for _, path := range []string{"/annotation", "/module", "/parameter", "/subpart", "/sequence", "/feature", "/assembly", "/device"} {
		w = httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, path, nil)
		req.Header.Set("Authorization", "Bearer "+token)
		h.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code, path)
		assert.NotEmpty(t, w.Header().Get("X-Request-Id"))
	}

	w = httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `bioserver_http_requests_total{method="GET",route="/device",status="200"}`)
}

func TestNewRouterRequiresDependencies(t *testing.T) {
	_, err := NewRouter(RouterConfig{})
	assert.Error(t, err)
}
