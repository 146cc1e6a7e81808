package router

import (
	"github.com/agriconnect/service-payments/service/handler"
	"github.com/gorilla/mux"
)

func NewRouter(ps *handler.PaymentServer) *mux.Router {
	router := mux.NewRouter().StrictSlash(true)

	// Health check endpoint
	router.HandleFunc("/health", handler.HealthHandler).Methods("GET")

	// Payment lifecycle
	router.HandleFunc("/payments/initialize", ps.InitializePayment).Methods("POST")
	router.HandleFunc("/payments/initialize/validate", ps.ValidatePaymentForm).Methods("POST")
	router.HandleFunc("/payments/verify/{reference}", ps.VerifyPayment).Methods("GET")
	router.HandleFunc("/payments/{reference}/status", ps.PaymentTimeline).Methods("GET")
	router.HandleFunc("/payments/{reference}/cancel", ps.CancelPayment).Methods("POST")
	router.HandleFunc("/payments/checkout/callback", ps.HandleCheckoutCallback).Methods("POST")

	// Farmer settlement setup
	router.HandleFunc("/payments/banks", ps.ListBanks).Methods("GET")
	router.HandleFunc("/payments/verify-bank-account", ps.VerifyBankAccount).Methods("POST")
	router.HandleFunc("/payments/farmer/account", ps.GetFarmerAccount).Methods("GET")
	router.HandleFunc("/payments/farmer/setup-account", ps.SetupFarmerAccount).Methods("POST")

	// Dashboard reads
	router.HandleFunc("/payments/transactions", ps.ListTransactions).Methods("GET")
	router.HandleFunc("/payments/transactions/summary", ps.TransactionSummary).Methods("GET")

	return router
}
