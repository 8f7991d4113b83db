package repository

import (
	"testing"

	"github.com/ripvault/breakroom/models"
	testingutil "github.com/ripvault/breakroom/testing"
	"github.com/ripvault/breakroom/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSpotRepositoryMarkSold(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		repo := NewSpotRepository(testDB.DB)
		fixtures := testingutil.NewTestFixtures(testDB)
		ctx := testingutil.CreateTestContext()

		team, err := fixtures.CreateTestTeam(models.SportBaseball, "Yankees", 2.0)
		require.NoError(t, err)
		brk, err := fixtures.CreateTestBreak(models.SportBaseball, 25, 0)
		require.NoError(t, err)

		spot := &models.Spot{
			BreakID: brk.ID,
			TeamID:  team.ID,
			Price:   62.50,
			Sold:    utils.ToPtr(false),
		}
		require.NoError(t, repo.Save(ctx, spot))

		t.Run("FirstSaleSucceeds", func(t *testing.T) {
			require.NoError(t, repo.MarkSold(ctx, spot.ID, 101))

			reloaded, err := repo.ByID(ctx, spot.ID)
			require.NoError(t, err)
			require.NotNil(t, reloaded)
			require.NotNil(t, reloaded.Sold)
			assert.True(t, *reloaded.Sold)
			require.NotNil(t, reloaded.OrderItemID)
			assert.Equal(t, uint(101), *reloaded.OrderItemID)
		})

		t.Run("SecondSaleFails", func(t *testing.T) {
			err := repo.MarkSold(ctx, spot.ID, 202)
			assert.ErrorIs(t, err, ErrSpotAlreadySold)

			// The losing sale must not steal the spot from the first order.
			reloaded, err := repo.ByID(ctx, spot.ID)
			require.NoError(t, err)
			require.NotNil(t, reloaded.OrderItemID)
			assert.Equal(t, uint(101), *reloaded.OrderItemID)
		})

		t.Run("UnknownSpotFails", func(t *testing.T) {
			err := repo.MarkSold(ctx, 999999, 303)
			assert.ErrorIs(t, err, ErrSpotAlreadySold)
		})

		t.Run("CountSoldByBreak", func(t *testing.T) {
			count, err := repo.CountSoldByBreak(ctx, brk.ID)
			require.NoError(t, err)
			assert.Equal(t, int64(1), count)
		})

		return nil
	})
	require.NoError(t, err)
}
