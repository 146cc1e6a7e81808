package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/agriconnect/service-payments/service/models"
	"github.com/pitabwire/frame"
)

type PaymentRepository interface {
	GetByID(ctx context.Context, id string) (*models.Payment, error)
	GetByReference(ctx context.Context, reference string) (*models.Payment, error)
	Search(ctx context.Context, query string) ([]*models.Payment, error)
	Save(ctx context.Context, payment *models.Payment) error
}

type paymentRepository struct {
	abstractRepository
}

func NewPaymentRepository(_ context.Context, service *frame.Service) PaymentRepository {
	return &paymentRepository{abstractRepository{service: service}}
}

func (repo *paymentRepository) GetByID(ctx context.Context, id string) (*models.Payment, error) {
	payment := models.Payment{}
	err := repo.readDb(ctx).First(&payment, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &payment, nil
}

func (repo *paymentRepository) GetByReference(ctx context.Context, reference string) (*models.Payment, error) {
	payment := models.Payment{}
	err := repo.readDb(ctx).First(&payment, "reference = ?", reference).Error
	if err != nil {
		return nil, err
	}
	return &payment, nil
}

func (repo *paymentRepository) Search(ctx context.Context, query string) ([]*models.Payment, error) {
	query = strings.TrimSpace(query)
	var payments []*models.Payment
	paymentQuery := repo.readDb(ctx)
	if query != "" {
		searchQ := fmt.Sprintf("%%%s%%", query)

		paymentQuery = paymentQuery.
			Where(" id ILIKE ? OR reference ILIKE ? OR order_id ILIKE ?", searchQ, searchQ, searchQ)
	}

	err := paymentQuery.Find(&payments).Error
	if err != nil {
		return nil, err
	}
	return payments, nil
}

func (repo *paymentRepository) Save(ctx context.Context, payment *models.Payment) error {
	return repo.writeDb(ctx).Save(payment).Error
}
