package businessflow

import (
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/ripvault/breakroom/app/dto"
	"github.com/ripvault/breakroom/config"
	"github.com/ripvault/breakroom/models"
	"github.com/ripvault/breakroom/repository"
	testingutil "github.com/ripvault/breakroom/testing"
	"github.com/ripvault/breakroom/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUpdateBreakStatusBustsLiveCache(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		mr := miniredis.RunT(t)
		rc := redis.NewClient(&redis.Options{Addr: mr.Addr()})
		cacheCfg := &config.CacheConfig{Enabled: true, RedisPrefix: "breakroom"}
		cacheKey := redisKey(*cacheCfg, utils.LiveBreaksCacheKey)

		breakRepo := repository.NewBreakRepository(testDB.DB)
		boxRepo := repository.NewBoxRepository(testDB.DB)
		teamRepo := repository.NewTeamRepository(testDB.DB)
		spotRepo := repository.NewSpotRepository(testDB.DB)
		auditRepo := repository.NewAuditLogRepository(testDB.DB)
		fixtures := testingutil.NewTestFixtures(testDB)
		ctx := testingutil.CreateTestContext()
		metadata := NewClientMetadata("127.0.0.1", "test-agent")

		pricingFlow := NewPricingFlow(
			breakRepo,
			boxRepo,
			teamRepo,
			spotRepo,
			auditRepo,
			rc,
			cacheCfg,
			testDB.DB,
		)
		flow := NewBreakAdminFlow(
			breakRepo,
			boxRepo,
			spotRepo,
			auditRepo,
			pricingFlow,
			rc,
			cacheCfg,
			testDB.DB,
		)

		brk, err := fixtures.CreateTestBreak(models.SportBaseball, 25, 0)
		require.NoError(t, err)

		t.Run("DraftToLive", func(t *testing.T) {
			require.NoError(t, mr.Set(cacheKey, "cached-listing"))

			breakDTO, err := flow.UpdateBreakStatus(ctx, brk.UUID.String(), &dto.UpdateBreakStatusRequest{Status: models.BreakStatusLive}, metadata)
			require.NoError(t, err)
			assert.Equal(t, models.BreakStatusLive, breakDTO.Status)

			// The newly live break must show up on the next storefront read.
			assert.False(t, mr.Exists(cacheKey))
		})

		t.Run("LiveToCompleted", func(t *testing.T) {
			require.NoError(t, mr.Set(cacheKey, "cached-listing"))

			breakDTO, err := flow.UpdateBreakStatus(ctx, brk.UUID.String(), &dto.UpdateBreakStatusRequest{Status: models.BreakStatusCompleted}, metadata)
			require.NoError(t, err)
			assert.Equal(t, models.BreakStatusCompleted, breakDTO.Status)
			assert.False(t, mr.Exists(cacheKey))
		})

		t.Run("RejectedTransitionKeepsCache", func(t *testing.T) {
			require.NoError(t, mr.Set(cacheKey, "cached-listing"))

			_, err := flow.UpdateBreakStatus(ctx, brk.UUID.String(), &dto.UpdateBreakStatusRequest{Status: models.BreakStatusLive}, metadata)
			require.Error(t, err)
			assert.True(t, IsBreakStatusInvalid(err))
			assert.True(t, mr.Exists(cacheKey))
		})

		return nil
	})
	require.NoError(t, err)
}
