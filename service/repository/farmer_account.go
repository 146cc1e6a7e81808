package repository

import (
	"context"

	"github.com/agriconnect/service-payments/service/models"
	"github.com/pitabwire/frame"
)

type FarmerAccountRepository interface {
	GetByID(ctx context.Context, id string) (*models.FarmerAccount, error)
	GetByFarmerID(ctx context.Context, farmerID string) (*models.FarmerAccount, error)
	Save(ctx context.Context, account *models.FarmerAccount) error
}

type farmerAccountRepository struct {
	abstractRepository
}

func NewFarmerAccountRepository(_ context.Context, service *frame.Service) FarmerAccountRepository {
	return &farmerAccountRepository{abstractRepository{service: service}}
}

func (repo *farmerAccountRepository) GetByID(ctx context.Context, id string) (*models.FarmerAccount, error) {
	account := models.FarmerAccount{}
	err := repo.readDb(ctx).First(&account, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &account, nil
}

func (repo *farmerAccountRepository) GetByFarmerID(ctx context.Context, farmerID string) (*models.FarmerAccount, error) {
	account := models.FarmerAccount{}
	err := repo.readDb(ctx).First(&account, "farmer_id = ?", farmerID).Error
	if err != nil {
		return nil, err
	}
	return &account, nil
}

func (repo *farmerAccountRepository) Save(ctx context.Context, account *models.FarmerAccount) error {
	return repo.writeDb(ctx).Save(account).Error
}
