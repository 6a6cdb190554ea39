// File: internal/repository/preference/gorm_preference_repository_test.go
package preference

import (
	"context"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newTestRepository(t *testing.T) PreferenceRepository {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&Preference{}))

	return NewPreferenceRepository(db)
}

func TestPreferenceRepository(t *testing.T) {
	ctx := context.Background()

	t.Run("missing key returns not found", func(t *testing.T) {
		repo := newTestRepository(t)

		_, err := repo.Get(ctx, "theme")
		assert.ErrorIs(t, err, ErrPreferenceNotFound)
	})

	t.Run("set then get round-trips", func(t *testing.T) {
		repo := newTestRepository(t)

		require.NoError(t, repo.Set(ctx, "theme", "dark"))
		value, err := repo.Get(ctx, "theme")
		require.NoError(t, err)
		assert.Equal(t, "dark", value)
	})

	t.Run("set overwrites an existing value", func(t *testing.T) {
		repo := newTestRepository(t)

		require.NoError(t, repo.Set(ctx, "theme", "dark"))
		require.NoError(t, repo.Set(ctx, "theme", "light"))

		value, err := repo.Get(ctx, "theme")
		require.NoError(t, err)
		assert.Equal(t, "light", value)
	})

	t.Run("empty key is rejected", func(t *testing.T) {
		repo := newTestRepository(t)

		_, err := repo.Get(ctx, "")
		assert.Error(t, err)
		assert.Error(t, repo.Set(ctx, "", "x"))
	})
}
