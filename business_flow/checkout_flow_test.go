package businessflow

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/ripvault/breakroom/config"
	"github.com/ripvault/breakroom/models"
	"github.com/ripvault/breakroom/repository"
	testingutil "github.com/ripvault/breakroom/testing"
	"github.com/ripvault/breakroom/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubPayPal serves the two PayPal endpoints the capture path touches,
// always approving.
func stubPayPal() *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case strings.HasSuffix(r.URL.Path, "/v1/oauth2/token"):
			_, _ = w.Write([]byte(`{"access_token":"test-token","token_type":"Bearer","expires_in":3600}`))
		case strings.HasSuffix(r.URL.Path, "/capture"):
			_, _ = w.Write([]byte(`{"id":"CAP-1","status":"COMPLETED"}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
}

func TestCaptureCheckoutSpots(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		paypal := stubPayPal()
		defer paypal.Close()

		orderRepo := repository.NewOrderRepository(testDB.DB)
		orderItemRepo := repository.NewOrderItemRepository(testDB.DB)
		productRepo := repository.NewProductRepository(testDB.DB)
		spotRepo := repository.NewSpotRepository(testDB.DB)
		breakRepo := repository.NewBreakRepository(testDB.DB)
		couponRepo := repository.NewCouponRepository(testDB.DB)
		auditRepo := repository.NewAuditLogRepository(testDB.DB)
		fixtures := testingutil.NewTestFixtures(testDB)
		ctx := testingutil.CreateTestContext()
		metadata := NewClientMetadata("127.0.0.1", "test-agent")

		flow := NewCheckoutFlow(
			orderRepo,
			orderItemRepo,
			productRepo,
			spotRepo,
			breakRepo,
			couponRepo,
			NewCouponFlow(couponRepo, auditRepo),
			auditRepo,
			nil, // no notifier in tests
			testDB.DB,
			config.PayPalConfig{
				BaseURL:  paypal.URL,
				ClientID: "test-client",
				Secret:   "test-secret",
				Timeout:  5 * time.Second,
			},
		)

		team, err := fixtures.CreateTestTeam(models.SportBaseball, "Yankees", 2.0)
		require.NoError(t, err)
		brk, err := fixtures.CreateTestBreak(models.SportBaseball, 25, 0)
		require.NoError(t, err)

		// One pending order holding one spot, approved on the PayPal side.
		placeOrder := func(paymentRef string) (*models.Order, *models.Spot) {
			spot := &models.Spot{
				BreakID: brk.ID,
				TeamID:  team.ID,
				Price:   62.50,
				Sold:    utils.ToPtr(false),
			}
			require.NoError(t, spotRepo.Save(ctx, spot))

			order := &models.Order{
				CustomerName:  "Test Buyer",
				CustomerEmail: "buyer@example.com",
				Subtotal:      62.50,
				Total:         62.50,
				Status:        models.OrderStatusPending,
				PaymentMethod: models.PaymentMethodPayPal,
				PaymentRef:    utils.ToPtr(paymentRef),
				CreatedAt:     utils.UTCNow(),
				UpdatedAt:     utils.UTCNow(),
			}
			require.NoError(t, orderRepo.Save(ctx, order))
			require.NoError(t, orderItemRepo.Save(ctx, &models.OrderItem{
				OrderID:     order.ID,
				Kind:        models.OrderItemKindSpot,
				SpotID:      &spot.ID,
				Description: "Yankees spot",
				Quantity:    1,
				UnitPrice:   62.50,
				LineTotal:   62.50,
			}))
			return order, spot
		}

		t.Run("CaptureMarksSpotSold", func(t *testing.T) {
			order, spot := placeOrder("PAYPAL-ORDER-1")

			orderDTO, err := flow.CaptureCheckout(ctx, order.UUID.String(), metadata)
			require.NoError(t, err)
			assert.Equal(t, models.OrderStatusPaid, orderDTO.Status)

			reloaded, err := spotRepo.ByID(ctx, spot.ID)
			require.NoError(t, err)
			require.NotNil(t, reloaded.Sold)
			assert.True(t, *reloaded.Sold)
		})

		t.Run("CaptureRefusesSoldSpot", func(t *testing.T) {
			order, spot := placeOrder("PAYPAL-ORDER-2")

			// A rival order won the spot between approval and capture.
			require.NoError(t, spotRepo.MarkSold(ctx, spot.ID, 999))

			_, err := flow.CaptureCheckout(ctx, order.UUID.String(), metadata)
			require.Error(t, err)
			assert.True(t, IsSpotAlreadySold(err))

			// The losing order must never be marked paid.
			after, err := orderRepo.ByUUID(ctx, order.UUID.String())
			require.NoError(t, err)
			assert.NotEqual(t, models.OrderStatusPaid, after.Status)
			assert.Nil(t, after.PaidAt)

			// The spot still belongs to the rival order item.
			spotAfter, err := spotRepo.ByID(ctx, spot.ID)
			require.NoError(t, err)
			require.NotNil(t, spotAfter.OrderItemID)
			assert.Equal(t, uint(999), *spotAfter.OrderItemID)
		})

		return nil
	})
	require.NoError(t, err)
}
