package query

import (
	"context"
	"fmt"
	"testing"

	"bioserver/config"
	"bioserver/dao"
	"bioserver/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitDBSQLite(t *testing.T) {
	ctx := context.Background()
	q, closer, err := InitDB(ctx, config.StoreConfig{
		Driver: config.DriverSQLite,
		SQLite: config.SQLiteConfig{Path: fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())},
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = closer() })
	require.NoError(t, q.Migrate(ctx))

	for _, c := range q.all() {
		assert.NotEmpty(t, c.Name())
	}

	m := &model.Module{
		ID:           model.NewID(),
		Name:         "m",
		Role:         model.RoleActivation,
		UserID:       "u",
		InfluenceIDs: model.NewIDList(nil),
		SubmoduleIDs: model.NewIDList(nil),
	}
	require.NoError(t, q.Modules.Insert(ctx, m))
	page, err := q.Modules.PagedFind(ctx, dao.PageQuery{})
	require.NoError(t, err)
	require.Len(t, page.Data, 1)
	assert.Equal(t, model.RoleActivation, page.Data[0].Role)
	assert.Equal(t, model.CollectionModules, q.Modules.Name())
}

func TestInitDBUnknownDriver(t *testing.T) {
	_, _, err := InitDB(context.Background(), config.StoreConfig{Driver: "redis"})
	assert.Error(t, err)
}
