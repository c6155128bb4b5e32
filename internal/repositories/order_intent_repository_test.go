package repository_test

import (
	"database/sql"
	"encoding/json"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/aaravmahajanofficial/storefront-checkout/internal/models"
	repository "github.com/aaravmahajanofficial/storefront-checkout/internal/repositories"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupOrderIntentRepoTest(t *testing.T) (repository.OrderIntentRepository, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err, "Failed to create sqlmock")

	t.Cleanup(func() {
		db.Close()
	})

	return repository.NewOrderIntentRepo(db), mock
}

func newTestIntent() *models.OrderIntent {
	componentID := "cmp-42"

	return &models.OrderIntent{
		ID:              uuid.New(),
		SessionID:       uuid.New(),
		UserID:          uuid.New(),
		Email:           "shopper@example.com",
		ComponentID:     &componentID,
		IsComponent:     true,
		PaymentProvider: models.ProviderStripe,
		Address:         "221B Baker Street",
		Phone:           "+44 20 7946 0958",
		Amount:          10220,
		Currency:        "usd",
		PromoCode:       "TENOFF",
		Items: []models.LineItem{
			{ID: "li-1", ProductID: "hero-section", UnitPrice: 5000, Quantity: 2, SubscriptionFrequency: models.FrequencyWeekly},
		},
		Status:    models.OrderStatusPending,
		CreatedAt: time.Now().UTC(),
	}
}

func TestCreateOrderIntent(t *testing.T) {
	ctx := t.Context()
	intent := newTestIntent()
	items, err := json.Marshal(intent.Items)
	require.NoError(t, err)

	expectedSQL := regexp.QuoteMeta(`INSERT INTO order_intents (id, session_id, user_id, email, component_id, pack_id, bundle_id, is_component, is_pack, is_bundle,`)

	t.Run("Success - Create Order Intent", func(t *testing.T) {
		// Arrange
		repo, mock := setupOrderIntentRepoTest(t)
		mock.ExpectExec(expectedSQL).
			WithArgs(intent.ID, intent.SessionID, intent.UserID, intent.Email,
				intent.ComponentID, nil, nil,
				true, false, false,
				intent.PaymentProvider, intent.Address, intent.Phone, nil,
				intent.Amount, intent.Currency, intent.PromoCode, items, intent.Status, intent.CreatedAt).
			WillReturnResult(sqlmock.NewResult(1, 1))

		// Act
		err := repo.CreateOrderIntent(ctx, intent)

		// Assert
		require.NoError(t, err)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Success - Resubmitted Intent Upserts", func(t *testing.T) {
		// Arrange
		repo, mock := setupOrderIntentRepoTest(t)
		mock.ExpectExec(expectedSQL + `(?s).*` + regexp.QuoteMeta(`ON CONFLICT (id) DO UPDATE SET`) + `.*` + regexp.QuoteMeta(`WHERE order_intents.status = 'failed'`)).
			WillReturnResult(sqlmock.NewResult(0, 0))

		// Act
		err := repo.CreateOrderIntent(ctx, intent)

		// Assert
		require.NoError(t, err)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Failure - Insert Error", func(t *testing.T) {
		// Arrange
		repo, mock := setupOrderIntentRepoTest(t)
		dbErr := errors.New("DB error on insert")
		mock.ExpectExec(expectedSQL).WillReturnError(dbErr)

		// Act
		err := repo.CreateOrderIntent(ctx, intent)

		// Assert
		require.Error(t, err)
		assert.ErrorContains(t, err, "failed to insert order intent")
		assert.ErrorIs(t, err, dbErr)
	})
}

func TestUpdateOrderIntentStatus(t *testing.T) {
	ctx := t.Context()
	id := uuid.New()

	expectedSQL := regexp.QuoteMeta(`
		UPDATE order_intents SET status = $1, payment_reference = $2, updated_at = NOW()
		WHERE id = $3
	`)

	t.Run("Success", func(t *testing.T) {
		repo, mock := setupOrderIntentRepoTest(t)
		mock.ExpectExec(expectedSQL).WithArgs(models.OrderStatusSuccess, "pi_123", id).WillReturnResult(sqlmock.NewResult(0, 1))

		err := repo.UpdateOrderIntentStatus(ctx, id, models.OrderStatusSuccess, "pi_123")

		require.NoError(t, err)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Failure - Not Found", func(t *testing.T) {
		repo, mock := setupOrderIntentRepoTest(t)
		mock.ExpectExec(expectedSQL).WithArgs(models.OrderStatusFailed, nil, id).WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.UpdateOrderIntentStatus(ctx, id, models.OrderStatusFailed, "")

		assert.ErrorIs(t, err, sql.ErrNoRows)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Failure - Database Error", func(t *testing.T) {
		repo, mock := setupOrderIntentRepoTest(t)
		dbErr := errors.New("deadlock detected")
		mock.ExpectExec(expectedSQL).WillReturnError(dbErr)

		err := repo.UpdateOrderIntentStatus(ctx, id, models.OrderStatusFailed, "")

		assert.ErrorIs(t, err, dbErr)
		assert.ErrorContains(t, err, "failed to update order intent status")
	})
}

func TestGetOrderIntentByID(t *testing.T) {
	ctx := t.Context()
	intent := newTestIntent()
	items, err := json.Marshal(intent.Items)
	require.NoError(t, err)

	expectedSQL := regexp.QuoteMeta(`FROM order_intents
		WHERE id = $1`)
	columns := []string{"session_id", "user_id", "email", "component_id", "pack_id", "bundle_id", "is_component", "is_pack", "is_bundle",
		"payment_provider", "address", "phone", "zip_code", "amount", "currency", "promo_code", "items", "status", "created_at"}

	t.Run("Success", func(t *testing.T) {
		// Arrange
		repo, mock := setupOrderIntentRepoTest(t)
		rows := sqlmock.NewRows(columns).AddRow(
			intent.SessionID.String(), intent.UserID.String(), intent.Email, *intent.ComponentID, nil, nil, true, false, false,
			"stripe", intent.Address, intent.Phone, nil, int64(intent.Amount), intent.Currency, intent.PromoCode, items, "pending", intent.CreatedAt)
		mock.ExpectQuery(expectedSQL).WithArgs(intent.ID).WillReturnRows(rows)

		// Act
		got, err := repo.GetOrderIntentByID(ctx, intent.ID)

		// Assert
		require.NoError(t, err)
		assert.Equal(t, intent, got)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Failure - Not Found", func(t *testing.T) {
		repo, mock := setupOrderIntentRepoTest(t)
		mock.ExpectQuery(expectedSQL).WithArgs(intent.ID).WillReturnError(sql.ErrNoRows)

		got, err := repo.GetOrderIntentByID(ctx, intent.ID)

		assert.ErrorIs(t, err, sql.ErrNoRows)
		assert.Nil(t, got)
	})

	t.Run("Failure - Corrupt Items", func(t *testing.T) {
		repo, mock := setupOrderIntentRepoTest(t)
		rows := sqlmock.NewRows(columns).AddRow(
			intent.SessionID.String(), intent.UserID.String(), intent.Email, nil, nil, nil, false, false, false,
			"stripe", intent.Address, nil, nil, int64(intent.Amount), intent.Currency, nil, []byte("{"), "pending", intent.CreatedAt)
		mock.ExpectQuery(expectedSQL).WithArgs(intent.ID).WillReturnRows(rows)

		got, err := repo.GetOrderIntentByID(ctx, intent.ID)

		assert.ErrorContains(t, err, "failed to unmarshal order items")
		assert.Nil(t, got)
	})
}
