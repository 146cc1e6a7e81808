package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/agriconnect/service-payments/config"
	"github.com/agriconnect/service-payments/service/business"
	"github.com/agriconnect/service-payments/service/coreapi"
	"github.com/agriconnect/service-payments/service/repository"
	"github.com/go-redis/redis"
	"github.com/pitabwire/frame"
)

// PaymentServer carries the shared dependencies every HTTP handler
// needs; business objects are constructed per request.
type PaymentServer struct {
	Service     *frame.Service
	Cfg         *config.PaymentConfig
	Client      coreapi.GatewayClient
	RedisClient *redis.Client
}

func (ps *PaymentServer) newPaymentBusiness(ctx context.Context) (business.PaymentBusiness, error) {
	return business.NewPaymentBusiness(ctx, ps.Service, ps.Cfg, ps.Client,
		repository.NewPaymentRepository(ctx, ps.Service),
		repository.NewPaymentStatusRepository(ctx, ps.Service),
		repository.NewFarmerAccountRepository(ctx, ps.Service),
		repository.NewTransactionRepository(ctx, ps.Service))
}

func (ps *PaymentServer) newAccountBusiness(ctx context.Context) (business.AccountBusiness, error) {
	return business.NewAccountBusiness(ctx, ps.Service, ps.Cfg, ps.Client, ps.RedisClient,
		repository.NewFarmerAccountRepository(ctx, ps.Service))
}

func (ps *PaymentServer) newTransactionBusiness(ctx context.Context) (business.TransactionBusiness, error) {
	return business.NewTransactionBusiness(ctx, ps.Service,
		repository.NewTransactionRepository(ctx, ps.Service))
}

func HealthHandler(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

// writeError maps business failures onto HTTP statuses. Field-level
// validation failures go back inline so forms can display them.
func writeError(w http.ResponseWriter, err error) {
	var validationErr *business.ValidationError
	if errors.As(err, &validationErr) {
		writeJSON(w, http.StatusBadRequest, map[string]any{
			"error":  business.ErrInvalidPaymentRequest.Error(),
			"fields": validationErr.Fields,
		})
		return
	}

	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, business.ErrPaymentDoesNotExist),
		errors.Is(err, business.ErrAccountDoesNotExist):
		status = http.StatusNotFound
	case errors.Is(err, business.ErrPaymentAlreadyCanceled),
		errors.Is(err, business.ErrPaymentNotCancellable),
		errors.Is(err, business.ErrPaymentNotProcessing):
		status = http.StatusConflict
	case errors.Is(err, business.ErrTermsNotAccepted),
		errors.Is(err, business.ErrInvalidPaymentRequest):
		status = http.StatusBadRequest
	}

	writeJSON(w, status, map[string]string{"error": err.Error()})
}
