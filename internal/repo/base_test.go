package repo

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/angelmondragon/advanced-shipping/pkg/db/dbtest"
	"github.com/angelmondragon/advanced-shipping/pkg/db/models"
	"github.com/angelmondragon/advanced-shipping/pkg/types"
)

func TestBaseDB_BindsContext(t *testing.T) {
	db := dbtest.Open(t)
	base := NewBase(db)

	ctx := context.WithValue(context.Background(), struct{}{}, "value")
	withCtx := base.DB(ctx)
	require.NotNil(t, withCtx.Statement)
	assert.Equal(t, ctx, withCtx.Statement.Context)

	assert.Same(t, db, base.DB(nil))
}

func TestReplaceAllSwapsRows(t *testing.T) {
	ctx := context.Background()
	base := NewBase(dbtest.Open(t))

	first := []models.Holiday{
		{Date: types.MustParseDate("2026-01-01"), Label: "New Year"},
		{Date: types.MustParseDate("2026-12-25"), Label: "Christmas"},
	}
	require.NoError(t, ReplaceAll(ctx, base, first))

	require.NoError(t, ReplaceAll(ctx, base, []models.Holiday{{Date: types.MustParseDate("2026-05-01"), Label: "Labour Day"}}))

	var rows []models.Holiday
	require.NoError(t, base.DB(ctx).Find(&rows).Error)
	require.Len(t, rows, 1)
	assert.Equal(t, "Labour Day", rows[0].Label)

	require.NoError(t, ReplaceAll[models.Holiday](ctx, base, nil))
	var count int64
	require.NoError(t, base.DB(ctx).Model(&models.Holiday{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestTransactionRollsBack(t *testing.T) {
	ctx := context.Background()
	base := NewBase(dbtest.Open(t))
	require.NoError(t, ReplaceAll(ctx, base, []models.Holiday{{Date: types.MustParseDate("2026-01-01"), Label: "New Year"}}))

	boom := errors.New("boom")
	err := base.Transaction(ctx, func(tx Base) error {
		if err := ReplaceAll[models.Holiday](ctx, tx, nil); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)

	var count int64
	require.NoError(t, base.DB(ctx).Model(&models.Holiday{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}
