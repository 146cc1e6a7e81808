package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/agriconnect/service-payments/service/business"
	"github.com/agriconnect/service-payments/service/models"
	"github.com/agriconnect/service-payments/service/repository"
)

func (ps *PaymentServer) ListBanks(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	accountBusiness, err := ps.newAccountBusiness(ctx)
	if err != nil {
		writeError(w, err)
		return
	}

	banks, err := accountBusiness.ListBanks(ctx)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"banks": banks})
}

func (ps *PaymentServer) VerifyBankAccount(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := ps.Service.Log(ctx).WithField("type", "VerifyBankAccount")

	var request business.VerifyBankAccountRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		logger.WithError(err).Error("failed to decode request")
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	accountBusiness, err := ps.newAccountBusiness(ctx)
	if err != nil {
		writeError(w, err)
		return
	}

	response, err := accountBusiness.VerifyBankAccount(ctx, &request)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, response)
}

func (ps *PaymentServer) GetFarmerAccount(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	farmerID := r.URL.Query().Get("farmerId")
	if farmerID == "" {
		http.Error(w, "farmerId is required", http.StatusBadRequest)
		return
	}

	accountBusiness, err := ps.newAccountBusiness(ctx)
	if err != nil {
		writeError(w, err)
		return
	}

	account, err := accountBusiness.GetAccount(ctx, farmerID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, account)
}

func (ps *PaymentServer) SetupFarmerAccount(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := ps.Service.Log(ctx).WithField("type", "SetupFarmerAccount")

	var request business.SetupAccountRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		logger.WithError(err).Error("failed to decode request")
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	accountBusiness, err := ps.newAccountBusiness(ctx)
	if err != nil {
		writeError(w, err)
		return
	}

	account, err := accountBusiness.SetupAccount(ctx, &request)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, account)
}

func (ps *PaymentServer) ListTransactions(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	query := r.URL.Query()

	filter := repository.TransactionFilter{
		FarmerID: query.Get("farmerId"),
		BuyerID:  query.Get("buyerId"),
	}
	if rawStatus := query.Get("status"); rawStatus != "" {
		status, known := models.ParseStatus(rawStatus)
		if !known {
			http.Error(w, "Unknown status filter", http.StatusBadRequest)
			return
		}
		filter.Status = status
	}
	filter.Page, _ = strconv.Atoi(query.Get("page"))
	filter.Limit, _ = strconv.Atoi(query.Get("limit"))

	transactionBusiness, err := ps.newTransactionBusiness(ctx)
	if err != nil {
		writeError(w, err)
		return
	}

	transactions, err := transactionBusiness.ListTransactions(ctx, filter)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"transactions": transactions,
		"page":         filter.Page,
		"limit":        filter.Limit,
	})
}

func (ps *PaymentServer) TransactionSummary(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	transactionBusiness, err := ps.newTransactionBusiness(ctx)
	if err != nil {
		writeError(w, err)
		return
	}

	summary, err := transactionBusiness.Summary(ctx, r.URL.Query().Get("farmerId"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}
