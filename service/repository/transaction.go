package repository

import (
	"context"

	"github.com/agriconnect/service-payments/service/models"
	"github.com/pitabwire/frame"
)

type TransactionRepository interface {
	GetByReference(ctx context.Context, reference string) (*models.Transaction, error)
	List(ctx context.Context, filter TransactionFilter) ([]*models.Transaction, error)
	Save(ctx context.Context, transaction *models.Transaction) error
}

// TransactionFilter narrows a listing. Zero values mean no filtering;
// Page is 1-based and Limit defaults to 20 capped at 100.
type TransactionFilter struct {
	FarmerID string
	BuyerID  string
	Status   models.Status
	Page     int
	Limit    int
}

func (f TransactionFilter) normalised() TransactionFilter {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.Limit < 1 {
		f.Limit = 20
	}
	if f.Limit > 100 {
		f.Limit = 100
	}
	return f
}

type transactionRepository struct {
	abstractRepository
}

func NewTransactionRepository(_ context.Context, service *frame.Service) TransactionRepository {
	return &transactionRepository{abstractRepository{service: service}}
}

func (repo *transactionRepository) GetByReference(ctx context.Context, reference string) (*models.Transaction, error) {
	transaction := models.Transaction{}
	err := repo.readDb(ctx).First(&transaction, "reference = ?", reference).Error
	if err != nil {
		return nil, err
	}
	return &transaction, nil
}

func (repo *transactionRepository) List(ctx context.Context, filter TransactionFilter) ([]*models.Transaction, error) {
	filter = filter.normalised()

	query := repo.readDb(ctx)
	if filter.FarmerID != "" {
		query = query.Where("farmer_id = ?", filter.FarmerID)
	}
	if filter.BuyerID != "" {
		query = query.Where("buyer_id = ?", filter.BuyerID)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}

	var transactions []*models.Transaction
	err := query.Order("created_at DESC").
		Offset((filter.Page - 1) * filter.Limit).
		Limit(filter.Limit).
		Find(&transactions).Error
	if err != nil {
		return nil, err
	}
	return transactions, nil
}

func (repo *transactionRepository) Save(ctx context.Context, transaction *models.Transaction) error {
	return repo.writeDb(ctx).Save(transaction).Error
}
