package models

import (
	"time"

	"github.com/google/uuid"
)

type PaymentProvider string

const (
	ProviderStripe       PaymentProvider = "stripe"
	ProviderPayPal       PaymentProvider = "paypal"
	ProviderPesapal      PaymentProvider = "pesapal"
	ProviderBankTransfer PaymentProvider = "bank_transfer"
	ProviderOther        PaymentProvider = "other"
)

// ProviderInfo is one entry of the payment provider catalog.
type ProviderInfo struct {
	ID               PaymentProvider `json:"id"`
	DisplayName      string          `json:"display_name"`
	SupportedMethods []string        `json:"supported_methods"`
}

type PurchaseKind string

const (
	PurchaseComponent PurchaseKind = "component"
	PurchasePack      PurchaseKind = "pack"
	PurchaseBundle    PurchaseKind = "bundle"
)

// PurchaseSelection carries exactly one of the three kinds with its reference.
type PurchaseSelection struct {
	Kind        PurchaseKind `json:"kind,omitempty"`
	ComponentID string       `json:"component_id,omitempty"`
	PackID      string       `json:"pack_id,omitempty"`
	BundleID    string       `json:"bundle_id,omitempty"`
}

type Billing struct {
	Address string `json:"address" validate:"required,min=5,max=512"`
	Phone   string `json:"phone,omitempty" validate:"omitempty,max=32"`
	ZipCode string `json:"zip_code,omitempty" validate:"omitempty,max=16"`
}

type OrderStatus string

const (
	OrderStatusPending OrderStatus = "pending"
	OrderStatusSuccess OrderStatus = "success"
	OrderStatusFailed  OrderStatus = "failed"
)

// OrderIntent is the finalized payload handed to the order-recording collaborator.
type OrderIntent struct {
	ID              uuid.UUID       `json:"id"`
	SessionID       uuid.UUID       `json:"session_id"`
	UserID          uuid.UUID       `json:"user_id"`
	Email           string          `json:"email,omitempty"`
	ComponentID     *string         `json:"component_id"`
	PackID          string          `json:"pack_id,omitempty"`
	BundleID        string          `json:"bundle_id,omitempty"`
	IsComponent     bool            `json:"is_component"`
	IsPack          bool            `json:"is_pack"`
	IsBundle        bool            `json:"is_bundle"`
	PaymentProvider PaymentProvider `json:"payment_provider"`
	Address         string          `json:"address"`
	Phone           string          `json:"phone"`
	ZipCode         string          `json:"zip_code"`
	Amount          Money           `json:"amount"`
	Currency        string          `json:"currency"`
	PromoCode       string          `json:"promo_code,omitempty"`
	Items           []LineItem      `json:"items"`
	Status          OrderStatus     `json:"status"`
	CreatedAt       time.Time       `json:"created_at"`
}

// OrderResult is the collaborator's answer; Message is shown to the user verbatim.
type OrderResult struct {
	Success          bool   `json:"success"`
	Message          string `json:"message,omitempty"`
	OrderID          string `json:"order_id,omitempty"`
	PaymentReference string `json:"payment_reference,omitempty"`
	ClientSecret     string `json:"client_secret,omitempty"`
	// Status is the recorded order status; empty means success.
	Status OrderStatus `json:"status,omitempty"`
}

type StartCheckoutRequest struct {
	Items []LineItem `json:"items" validate:"dive"`
}

type SelectProviderRequest struct {
	Provider PaymentProvider `json:"provider" validate:"required"`
}

type SelectPurchaseRequest struct {
	Kind PurchaseKind `json:"kind" validate:"required,oneof=component pack bundle"`
	ID   string       `json:"id" validate:"required,max=128"`
}

// CheckoutView is the read model of a checkout session returned to clients.
type CheckoutView struct {
	SessionID uuid.UUID         `json:"session_id"`
	Step      string            `json:"step"`
	Items     []LineItem        `json:"items"`
	Quote     *Quote            `json:"quote,omitempty"`
	PromoCode string            `json:"promo_code,omitempty"`
	Billing   Billing           `json:"billing"`
	Provider  PaymentProvider   `json:"provider,omitempty"`
	Purchase  PurchaseSelection `json:"purchase"`
	LastError string            `json:"last_error,omitempty"`
	ErrorCode string            `json:"error_code,omitempty"`
	Intent    *OrderIntent      `json:"intent,omitempty"`
	Result    *OrderResult      `json:"result,omitempty"`
	UpdatedAt time.Time         `json:"updated_at"`
}
