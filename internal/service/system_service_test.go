package service_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ndewijer/Investment-Portfolio-Dashboard/internal/model"
	"github.com/ndewijer/Investment-Portfolio-Dashboard/internal/testutil"
	"github.com/ndewijer/Investment-Portfolio-Dashboard/internal/version"
)

func TestSystemService(t *testing.T) {
	t.Run("healthy database", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestSystemService(t, db)

		assert.NoError(t, svc.CheckHealth())
		assert.Equal(t, model.StatusIdle, svc.RefreshStatus())
	})

	t.Run("closed database is unhealthy", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestSystemService(t, db)
		db.Close()

		assert.Error(t, svc.CheckHealth())
	})

	t.Run("reports versions", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestSystemService(t, db)

		info, err := svc.CheckVersion()
		require.NoError(t, err)

		assert.Equal(t, version.Version, info.AppVersion)
		assert.Equal(t, "1", info.DbVersion)
		assert.False(t, info.MigrationNeeded)
		assert.Nil(t, info.MigrationMessage)
		assert.True(t, info.Features["history"])
	})
}
