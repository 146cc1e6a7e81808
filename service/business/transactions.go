package business

import (
	"context"

	"github.com/agriconnect/service-payments/service/models"
	"github.com/agriconnect/service-payments/service/repository"
	"github.com/pitabwire/frame"
	"github.com/shopspring/decimal"
)

type TransactionBusiness interface {
	ListTransactions(ctx context.Context, filter repository.TransactionFilter) ([]*models.Transaction, error)
	Summary(ctx context.Context, farmerID string) (*TransactionSummary, error)
}

// TransactionSummary is the dashboard aggregation, computed from the
// stored rows on every request.
type TransactionSummary struct {
	TotalCount      int             `json:"totalCount"`
	SuccessfulCount int             `json:"successfulCount"`
	FailedCount     int             `json:"failedCount"`
	TotalAmount     decimal.Decimal `json:"totalAmount"`
	FarmerEarnings  decimal.Decimal `json:"farmerEarnings"`
	PlatformFees    decimal.Decimal `json:"platformFees"`
	Currency        string          `json:"currency"`
}

func NewTransactionBusiness(_ context.Context, service *frame.Service,
	transactionRepo repository.TransactionRepository) (TransactionBusiness, error) {
	if service == nil || transactionRepo == nil {
		return nil, ErrInitializationFail
	}
	return &transactionBusiness{service: service, transactionRepo: transactionRepo}, nil
}

type transactionBusiness struct {
	service         *frame.Service
	transactionRepo repository.TransactionRepository
}

func (tb *transactionBusiness) ListTransactions(ctx context.Context, filter repository.TransactionFilter) ([]*models.Transaction, error) {
	return tb.transactionRepo.List(ctx, filter)
}

func (tb *transactionBusiness) Summary(ctx context.Context, farmerID string) (*TransactionSummary, error) {
	transactions, err := tb.transactionRepo.List(ctx, repository.TransactionFilter{
		FarmerID: farmerID,
		Limit:    100,
	})
	if err != nil {
		return nil, err
	}
	return Summarise(transactions), nil
}

// Summarise folds transaction rows into dashboard totals. Only
// successful rows contribute to the monetary figures.
func Summarise(transactions []*models.Transaction) *TransactionSummary {
	summary := &TransactionSummary{
		TotalAmount:    decimal.Zero,
		FarmerEarnings: decimal.Zero,
		PlatformFees:   decimal.Zero,
	}

	for _, transaction := range transactions {
		summary.TotalCount++
		if summary.Currency == "" {
			summary.Currency = transaction.Currency
		}

		switch transaction.Status {
		case models.StatusSuccess:
			summary.SuccessfulCount++
			if transaction.Amount.Valid {
				summary.TotalAmount = summary.TotalAmount.Add(transaction.Amount.Decimal)
			}
			if transaction.FarmerAmount.Valid {
				summary.FarmerEarnings = summary.FarmerEarnings.Add(transaction.FarmerAmount.Decimal)
			}
			if transaction.PlatformFee.Valid {
				summary.PlatformFees = summary.PlatformFees.Add(transaction.PlatformFee.Decimal)
			}
		case models.StatusFailed, models.StatusCancelled:
			summary.FailedCount++
		case models.StatusPending, models.StatusProcessing:
		}
	}
	return summary
}
