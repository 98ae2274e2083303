package service

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"bioserver/config"
	"bioserver/dao"
	"bioserver/dao/query"
	"bioserver/middleware"
	"bioserver/orm"
	"bioserver/util"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

const testUserID = "user-1"

func init() {
	gin.SetMode(gin.TestMode)
}

type fixture struct {
	t      *testing.T
	router *gin.Engine
	q      *query.Query
	token  string
}

// setup builds the routes over a fresh sqlite file. A canceled write makes
// database/sql drop its connection, which would wipe an in-memory database.
// mutate may swap collections before the services capture them.
func setup(t *testing.T, mutate ...func(q *query.Query)) *fixture {
	t.Helper()
	require.NoError(t, RegisterValidators())

	db, err := orm.Open(config.StoreConfig{
		Driver: config.DriverSQLite,
		SQLite: config.SQLiteConfig{Path: filepath.Join(t.TempDir(), "bioserver.db")},
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = orm.Close(db) })

	q, err := query.NewSQL(db)
	require.NoError(t, err)
	require.NoError(t, q.Migrate(context.Background()))
	for _, m := range mutate {
		m(q)
	}

	tokens := util.NewTokenManager(config.AuthConfig{AccessTokenSecret: "test-secret", AccessTokenExpiryHour: 1, RefreshTokenExpiryHour: 1})
	token, _, err := tokens.CreateTokens(&util.JWTMessage{UserID: testUserID, Username: "tester"})
	require.NoError(t, err)

	r := gin.New()
	g := r.Group("/", middleware.RequireAuth(tokens))
	NewAnnotationService(q.Annotations).Register(g)
	NewModuleService(q.Modules).Register(g)
	NewParameterService(q.Parameters).Register(g)
	NewSubpartService(q.Parts).Register(g)
	NewSequenceService(q.Sequences).Register(g)
	NewFeatureService(q.Features).Register(g)
	NewAssemblyService(q.Assemblies).Register(g)
	NewDeviceService(q).Register(g)

	return &fixture{t: t, router: r, q: q, token: token}
}

func (f *fixture) do(method, path string, body any) *httptest.ResponseRecorder {
	f.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		switch b := body.(type) {
		case string:
			buf.WriteString(b)
		default:
			require.NoError(f.t, json.NewEncoder(&buf).Encode(b))
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+f.token)
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	return w
}

func decodeBody[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

func count[T any](t *testing.T, c dao.Collection[T]) int {
	t.Helper()
	page, err := c.PagedFind(context.Background(), dao.PageQuery{})
	require.NoError(t, err)
	return page.Items.Total
}

// failingCollection fails every Insert and FindByID with err.
type failingCollection[T any] struct {
	dao.Collection[T]
	err error
}

func (f failingCollection[T]) Insert(context.Context, *T) error {
	return f.err
}

func (f failingCollection[T]) FindByID(context.Context, string) (*T, error) {
	return nil, f.err
}
