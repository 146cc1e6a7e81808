package events

import (
	"context"
	"errors"

	"github.com/agriconnect/service-payments/config"
	"github.com/agriconnect/service-payments/service/business"
	"github.com/agriconnect/service-payments/service/coreapi"
	"github.com/agriconnect/service-payments/service/repository"
	"github.com/pitabwire/frame"
)

// CheckoutNotification is what the hosted checkout posts back once a
// buyer completes or dismisses a payment.
type CheckoutNotification struct {
	Event string `json:"event"`
	Data  struct {
		Reference string `json:"reference"`
		Status    string `json:"status"`
	} `json:"data"`
}

const (
	CheckoutEventChargeSuccess = "charge.success"
	CheckoutEventCheckoutClose = "checkout.closed"
)

// CheckoutCallback processes checkout notifications off the request
// path: a success drives verification, a dismissal cancels the
// payment without ever calling the gateway.
type CheckoutCallback struct {
	Service *frame.Service
	Cfg     *config.PaymentConfig
	Client  coreapi.GatewayClient
}

func (e *CheckoutCallback) Name() string {
	return "checkout.callback.receive"
}

func (e *CheckoutCallback) PayloadType() any {
	return &CheckoutNotification{}
}

func (e *CheckoutCallback) Validate(_ context.Context, payload any) error {
	notification, ok := payload.(*CheckoutNotification)
	if !ok {
		return errors.New(" payload is not of type CheckoutNotification")
	}
	if notification.Data.Reference == "" {
		return errors.New(" checkout notification reference is required ")
	}
	if notification.Event == "" {
		return errors.New(" checkout notification event is required ")
	}
	return nil
}

func (e *CheckoutCallback) Execute(ctx context.Context, payload any) error {
	notification := payload.(*CheckoutNotification)

	logger := e.Service.Log(ctx).WithField("type", e.Name()).
		WithField("reference", notification.Data.Reference).
		WithField("event", notification.Event)
	logger.Debug("handling event")

	paymentBusiness, err := business.NewPaymentBusiness(ctx, e.Service, e.Cfg, e.Client,
		repository.NewPaymentRepository(ctx, e.Service),
		repository.NewPaymentStatusRepository(ctx, e.Service),
		repository.NewFarmerAccountRepository(ctx, e.Service),
		repository.NewTransactionRepository(ctx, e.Service))
	if err != nil {
		return err
	}

	switch notification.Event {
	case CheckoutEventChargeSuccess:
		_, err = paymentBusiness.VerifyPayment(ctx, notification.Data.Reference)
	case CheckoutEventCheckoutClose:
		_, err = paymentBusiness.CancelPayment(ctx, notification.Data.Reference)
	default:
		logger.Warn("ignoring unrecognised checkout event")
		return nil
	}

	if err != nil {
		// A replayed notification for a payment that already settled or
		// was already cancelled is not a failure.
		if errors.Is(err, business.ErrPaymentAlreadyCanceled) {
			return nil
		}
		logger.WithError(err).Warn("could not process checkout notification")
		return err
	}
	return nil
}
