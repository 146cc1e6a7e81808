package models

import (
	"time"

	"github.com/pitabwire/frame"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

const (
	PaymentMethodCard         = "card"
	PaymentMethodMobileMoney  = "mobile_money"
	PaymentMethodBankTransfer = "bank_transfer"

	ProviderMTN        = "mtn"
	ProviderTelecel    = "telecel"
	ProviderAirtelTigo = "airteltigo"
)

// Status is the lifecycle position of a payment. Transitions are
// restricted to the table in CanTransition; the three terminal
// statuses only ever change through a fresh initiation.
type Status string

const (
	StatusPending    Status = "pending"
	StatusProcessing Status = "processing"
	StatusSuccess    Status = "success"
	StatusFailed     Status = "failed"
	StatusCancelled  Status = "cancelled"
)

func (s Status) Terminal() bool {
	switch s {
	case StatusSuccess, StatusFailed, StatusCancelled:
		return true
	case StatusPending, StatusProcessing:
		return false
	}
	return false
}

// CanTransition reports whether moving to next is a legal step.
// pending -> processing, processing -> success|failed|cancelled,
// and processing -> pending which backs out a failed initiation so
// the buyer can resubmit.
func (s Status) CanTransition(next Status) bool {
	switch s {
	case StatusPending:
		return next == StatusProcessing
	case StatusProcessing:
		return next == StatusSuccess || next == StatusFailed ||
			next == StatusCancelled || next == StatusPending
	case StatusSuccess, StatusFailed, StatusCancelled:
		return false
	}
	return false
}

func ParseStatus(raw string) (Status, bool) {
	switch Status(raw) {
	case StatusPending, StatusProcessing, StatusSuccess, StatusFailed, StatusCancelled:
		return Status(raw), true
	}
	return "", false
}

// Payment Table holds a single checkout attempt by a buyer
type Payment struct {
	frame.BaseModel

	BuyerID  string `gorm:"type:varchar(50)"`
	FarmerID string `gorm:"type:varchar(50)"`
	OrderID  string `gorm:"type:varchar(50)"`

	Email               string `gorm:"type:varchar(250)"`
	PhoneNumber         string `gorm:"type:varchar(20)"`
	PaymentMethod       string `gorm:"type:varchar(20)"`
	MobileMoneyProvider string `gorm:"type:varchar(20)"`

	Amount    decimal.NullDecimal `gorm:"type:numeric" json:"amount"`
	Currency  string              `gorm:"type:varchar(10)"`
	Reference string              `gorm:"type:varchar(100);uniqueIndex"`

	// Issued by the gateway on initialisation, consumed by the hosted checkout.
	AccessCode       string `gorm:"type:varchar(100)"`
	AuthorizationURL string `gorm:"type:varchar(255)"`

	Status       Status `gorm:"type:varchar(20)"`
	ErrorMessage string `gorm:"type:text"`
	Channel      string `gorm:"type:varchar(20)"`
	PaidAt       *time.Time

	Extra datatypes.JSONMap `gorm:"index:,type:gin,option:jsonb_path_ops" json:"extra"`
}

func (model *Payment) IsPaid() bool {
	return model.PaidAt != nil && !model.PaidAt.IsZero()
}

// PaymentStatus is an append-only history row recording each transition.
type PaymentStatus struct {
	frame.BaseModel
	PaymentID   string            `gorm:"type:varchar(50)"`
	Status      Status            `gorm:"type:varchar(20)"`
	Description string            `gorm:"type:text"`
	Extra       datatypes.JSONMap `gorm:"index:,type:gin,option:jsonb_path_ops" json:"extra"`
}

// FarmerAccount holds a farmer's settlement details captured during
// the payment setup step.
type FarmerAccount struct {
	frame.BaseModel

	FarmerID     string `gorm:"type:varchar(50);uniqueIndex"`
	BusinessName string `gorm:"type:varchar(100)"`

	BankName      string `gorm:"type:varchar(100)"`
	BankCode      string `gorm:"type:varchar(10)"`
	AccountNumber string `gorm:"type:varchar(10)"`
	AccountName   string `gorm:"type:varchar(100)"`
	BankVerified  bool

	MomoProvider    string `gorm:"type:varchar(20)"`
	MomoPhoneNumber string `gorm:"type:varchar(20)"`
	MomoAccountName string `gorm:"type:varchar(100)"`

	GhanaCardNumber string `gorm:"type:varchar(20)"`
	TinNumber       string `gorm:"type:varchar(20)"`

	// Platform cut in percent, applied when splitting a verified payment.
	PercentageCharge decimal.NullDecimal `gorm:"type:numeric"`

	// Settlement subaccount registered with the gateway.
	SubaccountCode string `gorm:"type:varchar(50)"`

	AgreedToTerms bool

	Extra datatypes.JSONMap `gorm:"index:,type:gin,option:jsonb_path_ops" json:"extra"`
}

// Transaction is the settled record written once a payment verifies.
// Immutable after creation; dashboards read and aggregate it only.
type Transaction struct {
	frame.BaseModel

	PaymentID string `gorm:"type:varchar(50)"`
	Reference string `gorm:"type:varchar(100);uniqueIndex"`
	BuyerID   string `gorm:"type:varchar(50)"`
	FarmerID  string `gorm:"type:varchar(50)"`

	Amount       decimal.NullDecimal `gorm:"type:numeric" json:"amount"`
	FarmerAmount decimal.NullDecimal `gorm:"type:numeric" json:"farmer_amount"`
	PlatformFee  decimal.NullDecimal `gorm:"type:numeric" json:"platform_fee"`
	Currency     string              `gorm:"type:varchar(10)"`

	Status  Status `gorm:"type:varchar(20)"`
	Channel string `gorm:"type:varchar(20)"`
	PaidAt  *time.Time

	Extra datatypes.JSONMap `gorm:"index:,type:gin,option:jsonb_path_ops" json:"extra"`
}
