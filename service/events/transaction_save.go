package events

import (
	"context"
	"errors"

	"github.com/agriconnect/service-payments/service/models"
	"github.com/pitabwire/frame"
	"gorm.io/gorm/clause"
)

type TransactionSave struct {
	Service *frame.Service
}

func (e *TransactionSave) Name() string {
	return "transaction.save"
}

func (e *TransactionSave) PayloadType() any {
	return &models.Transaction{}
}

func (e *TransactionSave) Validate(_ context.Context, payload any) error {
	transaction, ok := payload.(*models.Transaction)
	if !ok {
		return errors.New(" payload is not of type models.Transaction")
	}
	if transaction.GetID() == "" {
		return errors.New(" transaction Id should already have been set ")
	}
	if transaction.Reference == "" {
		return errors.New(" transaction reference is required ")
	}
	return nil
}

func (e *TransactionSave) Execute(ctx context.Context, payload any) error {
	transaction := payload.(*models.Transaction)

	logger := e.Service.Log(ctx).WithField("type", e.Name()).WithField("reference", transaction.Reference)
	logger.Debug("handling event")

	result := e.Service.DB(ctx, false).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		UpdateAll: true,
	}).Create(transaction)

	err := result.Error
	if err != nil {
		logger.WithError(err).Warn("could not save transaction to db")
		return err
	}
	logger.WithField("rows affected", result.RowsAffected).Debug("successfully saved record to db")

	return nil
}
