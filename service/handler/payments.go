package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/agriconnect/service-payments/service/business"
	"github.com/agriconnect/service-payments/service/events"
	"github.com/agriconnect/service-payments/service/validate"
	"github.com/gorilla/mux"
)

func (ps *PaymentServer) InitializePayment(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := ps.Service.Log(ctx).WithField("type", "InitializePayment")

	var request business.InitiatePaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		logger.WithError(err).Error("failed to decode request")
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	paymentBusiness, err := ps.newPaymentBusiness(ctx)
	if err != nil {
		writeError(w, err)
		return
	}

	response, err := paymentBusiness.InitiatePayment(ctx, &request)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, response)
}

// ValidatePaymentForm reruns field validation over a draft form and
// reports the completion percentage, so clients can mirror inline
// errors and the progress indicator without duplicating the rules.
func (ps *PaymentServer) ValidatePaymentForm(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var form validate.PaymentForm
	if err := json.NewDecoder(r.Body).Decode(&form); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	paymentBusiness, err := ps.newPaymentBusiness(ctx)
	if err != nil {
		writeError(w, err)
		return
	}

	failures, percent := paymentBusiness.ValidateForm(form)
	writeJSON(w, http.StatusOK, map[string]any{
		"fields":            failures,
		"completionPercent": percent,
	})
}

func (ps *PaymentServer) VerifyPayment(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	reference := mux.Vars(r)["reference"]

	paymentBusiness, err := ps.newPaymentBusiness(ctx)
	if err != nil {
		writeError(w, err)
		return
	}

	response, err := paymentBusiness.VerifyPayment(ctx, reference)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, response)
}

// PaymentTimeline returns a payment and every status it has moved
// through, oldest first.
func (ps *PaymentServer) PaymentTimeline(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	reference := mux.Vars(r)["reference"]

	paymentBusiness, err := ps.newPaymentBusiness(ctx)
	if err != nil {
		writeError(w, err)
		return
	}

	payment, history, err := paymentBusiness.PaymentTimeline(ctx, reference)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"payment": payment,
		"history": history,
	})
}

func (ps *PaymentServer) CancelPayment(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	reference := mux.Vars(r)["reference"]

	paymentBusiness, err := ps.newPaymentBusiness(ctx)
	if err != nil {
		writeError(w, err)
		return
	}

	payment, err := paymentBusiness.CancelPayment(ctx, reference)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"reference": payment.Reference,
		"status":    payment.Status,
	})
}

// HandleCheckoutCallback accepts the hosted checkout's completion or
// dismissal notification and queues it for processing off the request
// path.
func (ps *PaymentServer) HandleCheckoutCallback(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := ps.Service.Log(ctx).WithField("type", "CheckoutCallback")

	var notification events.CheckoutNotification
	if err := json.NewDecoder(r.Body).Decode(&notification); err != nil {
		logger.WithError(err).Error("failed to decode callback request")
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if notification.Event == "" || notification.Data.Reference == "" {
		logger.Error("missing required fields in callback")
		http.Error(w, "Missing required fields in callback", http.StatusBadRequest)
		return
	}

	logger = logger.WithField("reference", notification.Data.Reference).
		WithField("event", notification.Event)
	logger.Info("received checkout callback")

	// Processing happens in the background so the checkout gets its
	// acknowledgement promptly; the context must outlive this request.
	bgCtx := context.Background()
	callbackEvent := events.CheckoutCallback{Service: ps.Service}

	go func(payload events.CheckoutNotification) {
		if err := ps.Service.Emit(bgCtx, callbackEvent.Name(), &payload); err != nil {
			ps.Service.Log(bgCtx).WithError(err).
				WithField("reference", payload.Data.Reference).
				Error("failed to emit checkout callback event")
		}
	}(notification)

	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "success",
		"message": "Callback received successfully",
	})
}
