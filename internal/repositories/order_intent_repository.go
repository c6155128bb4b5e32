package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/aaravmahajanofficial/storefront-checkout/internal/models"
	"github.com/aaravmahajanofficial/storefront-checkout/internal/utils"
	"github.com/google/uuid"
)

type OrderIntentRepository interface {
	CreateOrderIntent(ctx context.Context, intent *models.OrderIntent) error
	UpdateOrderIntentStatus(ctx context.Context, id uuid.UUID, status models.OrderStatus, paymentReference string) error
	GetOrderIntentByID(ctx context.Context, id uuid.UUID) (*models.OrderIntent, error)
}

type orderIntentRepository struct {
	DB *sql.DB
}

func NewOrderIntentRepo(db *sql.DB) OrderIntentRepository {
	return &orderIntentRepository{DB: db}
}

func nullIfEmpty(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

// CreateOrderIntent inserts the intent. A resubmitted intent reopens its failed row.
func (r *orderIntentRepository) CreateOrderIntent(ctx context.Context, intent *models.OrderIntent) error {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	items, err := json.Marshal(intent.Items)
	if err != nil {
		return fmt.Errorf("failed to marshal order items: %w", err)
	}

	query := `
		INSERT INTO order_intents (id, session_id, user_id, email, component_id, pack_id, bundle_id, is_component, is_pack, is_bundle,
			payment_provider, address, phone, zip_code, amount, currency, promo_code, items, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, NOW())
		ON CONFLICT (id) DO UPDATE SET
			email = EXCLUDED.email, address = EXCLUDED.address, phone = EXCLUDED.phone, zip_code = EXCLUDED.zip_code,
			status = EXCLUDED.status, updated_at = NOW()
		WHERE order_intents.status = 'failed'
	`

	_, err = r.DB.ExecContext(dbCtx, query,
		intent.ID, intent.SessionID, intent.UserID, intent.Email,
		intent.ComponentID, nullIfEmpty(intent.PackID), nullIfEmpty(intent.BundleID),
		intent.IsComponent, intent.IsPack, intent.IsBundle,
		intent.PaymentProvider, intent.Address, nullIfEmpty(intent.Phone), nullIfEmpty(intent.ZipCode),
		intent.Amount, intent.Currency, nullIfEmpty(intent.PromoCode), items, intent.Status, intent.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert order intent: %w", err)
	}

	return nil
}

func (r *orderIntentRepository) UpdateOrderIntentStatus(ctx context.Context, id uuid.UUID, status models.OrderStatus, paymentReference string) error {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	query := `
		UPDATE order_intents SET status = $1, payment_reference = $2, updated_at = NOW()
		WHERE id = $3
	`

	result, err := r.DB.ExecContext(dbCtx, query, status, nullIfEmpty(paymentReference), id)
	if err != nil {
		return fmt.Errorf("failed to update order intent status: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}

	if rows == 0 {
		return sql.ErrNoRows
	}

	return nil
}

func (r *orderIntentRepository) GetOrderIntentByID(ctx context.Context, id uuid.UUID) (*models.OrderIntent, error) {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	query := `
		SELECT session_id, user_id, email, component_id, pack_id, bundle_id, is_component, is_pack, is_bundle,
			payment_provider, address, phone, zip_code, amount, currency, promo_code, items, status, created_at
		FROM order_intents
		WHERE id = $1
	`

	intent := &models.OrderIntent{ID: id}

	var componentID, packID, bundleID, phone, zipCode, promoCode sql.NullString
	var items []byte

	err := r.DB.QueryRowContext(dbCtx, query, id).Scan(
		&intent.SessionID, &intent.UserID, &intent.Email,
		&componentID, &packID, &bundleID,
		&intent.IsComponent, &intent.IsPack, &intent.IsBundle,
		&intent.PaymentProvider, &intent.Address, &phone, &zipCode,
		&intent.Amount, &intent.Currency, &promoCode, &items, &intent.Status, &intent.CreatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("failed to get the order intent: %w", err)
	}

	if err := json.Unmarshal(items, &intent.Items); err != nil {
		return nil, fmt.Errorf("failed to unmarshal order items: %w", err)
	}

	if componentID.Valid {
		intent.ComponentID = &componentID.String
	}

	intent.PackID = packID.String
	intent.BundleID = bundleID.String
	intent.Phone = phone.String
	intent.ZipCode = zipCode.String
	intent.PromoCode = promoCode.String

	return intent, nil
}
