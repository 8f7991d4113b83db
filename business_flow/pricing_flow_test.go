package businessflow

import (
	"testing"

	"github.com/ripvault/breakroom/config"
	"github.com/ripvault/breakroom/models"
	"github.com/ripvault/breakroom/repository"
	testingutil "github.com/ripvault/breakroom/testing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPricingFlowRecompute(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		breakRepo := repository.NewBreakRepository(testDB.DB)
		boxRepo := repository.NewBoxRepository(testDB.DB)
		teamRepo := repository.NewTeamRepository(testDB.DB)
		spotRepo := repository.NewSpotRepository(testDB.DB)
		auditRepo := repository.NewAuditLogRepository(testDB.DB)
		fixtures := testingutil.NewTestFixtures(testDB)
		ctx := testingutil.CreateTestContext()
		metadata := NewClientMetadata("127.0.0.1", "test-agent")

		flow := NewPricingFlow(
			breakRepo,
			boxRepo,
			teamRepo,
			spotRepo,
			auditRepo,
			nil, // no cache in tests
			&config.CacheConfig{},
			testDB.DB,
		)

		_, err := fixtures.CreateTestTeam(models.SportBaseball, "Yankees", 2.0)
		require.NoError(t, err)
		_, err = fixtures.CreateTestTeam(models.SportBaseball, "Angels", 1.0)
		require.NoError(t, err)
		_, err = fixtures.CreateTestTeam(models.SportBaseball, "Mets", 1.0)
		require.NoError(t, err)

		brk, err := fixtures.CreateTestBreak(models.SportBaseball, 25, 0)
		require.NoError(t, err)
		_, err = fixtures.AddTestBox(brk.ID, 1, 100)
		require.NoError(t, err)

		t.Run("AllocatesSpotsFromBoxesAndTeams", func(t *testing.T) {
			breakDTO, err := flow.Recompute(ctx, brk.UUID.String(), metadata)
			require.NoError(t, err)
			assert.InDelta(t, 100.0, breakDTO.CostTotal, 0.001)
			assert.Equal(t, 3, breakDTO.SpotCount)
			assert.InDelta(t, 41.67, breakDTO.SpotPrice, 0.001)

			spots, err := spotRepo.ListByBreak(ctx, brk.ID)
			require.NoError(t, err)
			require.Len(t, spots, 3)
			assert.Equal(t, "Angels", spots[0].Team.Name)
			assert.InDelta(t, 31.25, spots[0].Price, 0.001)
			assert.Equal(t, "Mets", spots[1].Team.Name)
			assert.InDelta(t, 31.25, spots[1].Price, 0.001)
			assert.Equal(t, "Yankees", spots[2].Team.Name)
			assert.InDelta(t, 62.50, spots[2].Price, 0.001)
		})

		t.Run("ReplacesSpotsOnEveryRun", func(t *testing.T) {
			_, err := fixtures.AddTestBox(brk.ID, 1, 100)
			require.NoError(t, err)

			breakDTO, err := flow.Recompute(ctx, brk.UUID.String(), metadata)
			require.NoError(t, err)
			assert.InDelta(t, 200.0, breakDTO.CostTotal, 0.001)

			// Old spots are gone, not accumulated alongside the new set.
			spots, err := spotRepo.ListByBreak(ctx, brk.ID)
			require.NoError(t, err)
			require.Len(t, spots, 3)
			assert.InDelta(t, 125.0, spots[2].Price, 0.001)
		})

		t.Run("NoBoxesResetsDerivedFields", func(t *testing.T) {
			empty, err := fixtures.CreateTestBreak(models.SportBaseball, 25, 0)
			require.NoError(t, err)

			breakDTO, err := flow.Recompute(ctx, empty.UUID.String(), metadata)
			require.NoError(t, err)
			assert.Zero(t, breakDTO.CostTotal)
			assert.Zero(t, breakDTO.SpotPrice)
			assert.Zero(t, breakDTO.SpotCount)

			spots, err := spotRepo.ListByBreak(ctx, empty.ID)
			require.NoError(t, err)
			assert.Empty(t, spots)
		})

		t.Run("SoldSpotsBlockRecompute", func(t *testing.T) {
			spots, err := spotRepo.ListByBreak(ctx, brk.ID)
			require.NoError(t, err)
			require.NotEmpty(t, spots)
			require.NoError(t, spotRepo.MarkSold(ctx, spots[0].ID, 1))

			_, err = flow.Recompute(ctx, brk.UUID.String(), metadata)
			require.Error(t, err)
			assert.True(t, IsBreakHasSoldSpots(err))

			// The paid allocation survived untouched.
			after, err := spotRepo.ListByBreak(ctx, brk.ID)
			require.NoError(t, err)
			require.Len(t, after, 3)
			require.NotNil(t, after[0].Sold)
			assert.True(t, *after[0].Sold)
		})

		t.Run("UnknownBreakFails", func(t *testing.T) {
			_, err := flow.Recompute(ctx, "00000000-0000-0000-0000-000000000000", metadata)
			require.Error(t, err)
			assert.True(t, IsBreakNotFound(err))
		})

		return nil
	})
	require.NoError(t, err)
}
