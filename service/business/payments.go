package business

import (
	"context"
	"errors"
	"time"

	"github.com/agriconnect/service-payments/config"
	"github.com/agriconnect/service-payments/service/coreapi"
	"github.com/agriconnect/service-payments/service/models"
	"github.com/agriconnect/service-payments/service/repository"
	"github.com/agriconnect/service-payments/service/utility"
	"github.com/agriconnect/service-payments/service/validate"
	"github.com/pitabwire/frame"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type PaymentBusiness interface {
	InitiatePayment(ctx context.Context, request *InitiatePaymentRequest) (*InitiatePaymentResponse, error)
	VerifyPayment(ctx context.Context, reference string) (*VerifyPaymentResponse, error)
	CancelPayment(ctx context.Context, reference string) (*models.Payment, error)
	GetPayment(ctx context.Context, reference string) (*models.Payment, error)
	PaymentTimeline(ctx context.Context, reference string) (*models.Payment, []*models.PaymentStatus, error)
	ValidateForm(form validate.PaymentForm) (map[string]validate.Result, int)
}

type InitiatePaymentRequest struct {
	BuyerID             string            `json:"buyerId"`
	FarmerID            string            `json:"farmerId"`
	OrderID             string            `json:"orderId"`
	Email               string            `json:"email"`
	Amount              string            `json:"amount"`
	PaymentMethod       string            `json:"paymentMethod"`
	PhoneNumber         string            `json:"phoneNumber"`
	MobileMoneyProvider string            `json:"mobileMoneyProvider"`
	AgreedToTerms       bool              `json:"agreedToTerms"`
	Metadata            map[string]string `json:"metadata"`
}

type InitiatePaymentResponse struct {
	Reference        string        `json:"reference"`
	AccessCode       string        `json:"accessCode"`
	AuthorizationURL string        `json:"authorizationUrl"`
	PublicKey        string        `json:"publicKey"`
	AmountMinor      int64         `json:"amountMinor"`
	Currency         string        `json:"currency"`
	Status           models.Status `json:"status"`
}

type VerifyPaymentResponse struct {
	Reference       string          `json:"reference"`
	Status          models.Status   `json:"status"`
	Amount          decimal.Decimal `json:"amount"`
	FarmerAmount    decimal.Decimal `json:"farmerAmount"`
	PlatformFee     decimal.Decimal `json:"platformFee"`
	Currency        string          `json:"currency"`
	Channel         string          `json:"channel"`
	PaidAt          *time.Time      `json:"paidAt,omitempty"`
	AlreadyVerified bool            `json:"alreadyVerified"`
}

func NewPaymentBusiness(_ context.Context, service *frame.Service, cfg *config.PaymentConfig,
	client coreapi.GatewayClient,
	paymentRepo repository.PaymentRepository,
	statusRepo repository.PaymentStatusRepository,
	accountRepo repository.FarmerAccountRepository,
	transactionRepo repository.TransactionRepository) (PaymentBusiness, error) {
	if service == nil || cfg == nil || client == nil {
		return nil, ErrInitializationFail
	}
	return &paymentBusiness{
		service:         service,
		cfg:             cfg,
		client:          client,
		paymentRepo:     paymentRepo,
		statusRepo:      statusRepo,
		accountRepo:     accountRepo,
		transactionRepo: transactionRepo,
	}, nil
}

type paymentBusiness struct {
	service         *frame.Service
	cfg             *config.PaymentConfig
	client          coreapi.GatewayClient
	paymentRepo     repository.PaymentRepository
	statusRepo      repository.PaymentStatusRepository
	accountRepo     repository.FarmerAccountRepository
	transactionRepo repository.TransactionRepository
}

// ValidateForm reruns the field validators over a draft form and
// derives the completion percentage. Used by the pre-submission
// endpoint; never persists anything.
func (pb *paymentBusiness) ValidateForm(form validate.PaymentForm) (map[string]validate.Result, int) {
	return validate.CheckPaymentForm(form), validate.CompletionPercent(form)
}

// validateSubmission applies the field validators plus the presence
// rules a submission must satisfy. Unlike draft validation, blank
// required fields fail here.
func (pb *paymentBusiness) validateSubmission(request *InitiatePaymentRequest) map[string]validate.Result {
	failures := validate.CheckPaymentForm(validate.PaymentForm{
		Email:               request.Email,
		Amount:              request.Amount,
		PaymentMethod:       request.PaymentMethod,
		PhoneNumber:         request.PhoneNumber,
		MobileMoneyProvider: request.MobileMoneyProvider,
	})

	require := func(field, value, message string) {
		if value == "" {
			failures[field] = validate.Result{Error: message}
		}
	}
	require("email", request.Email, "Email is required")
	require("amount", request.Amount, "Amount is required")
	require("paymentMethod", request.PaymentMethod, "Payment method is required")

	switch request.PaymentMethod {
	case models.PaymentMethodCard, models.PaymentMethodBankTransfer:
	case models.PaymentMethodMobileMoney:
		require("phoneNumber", request.PhoneNumber, "Phone number is required for mobile money")
		if request.PhoneNumber != "" &&
			validate.ResolveProvider(request.PhoneNumber, request.MobileMoneyProvider) == "" {
			failures["mobileMoneyProvider"] = validate.Result{
				Error: "Could not determine a mobile money provider for this number",
			}
		}
	default:
		if request.PaymentMethod != "" {
			failures["paymentMethod"] = validate.Result{Error: "Unknown payment method"}
		}
	}

	return failures
}

func (pb *paymentBusiness) InitiatePayment(ctx context.Context, request *InitiatePaymentRequest) (*InitiatePaymentResponse, error) {
	logger := pb.service.Log(ctx).WithField("order_id", request.OrderID)

	if !request.AgreedToTerms {
		return nil, ErrTermsNotAccepted
	}
	if failures := pb.validateSubmission(request); len(failures) > 0 {
		return nil, &ValidationError{Fields: failures}
	}

	amount, err := decimal.NewFromString(request.Amount)
	if err != nil {
		return nil, &ValidationError{Fields: map[string]validate.Result{
			"amount": {Error: "Please enter a valid amount"},
		}}
	}
	amount = utility.CleanAmount(amount)

	provider := ""
	if request.PaymentMethod == models.PaymentMethodMobileMoney {
		provider = validate.ResolveProvider(request.PhoneNumber, request.MobileMoneyProvider)
	}

	p := &models.Payment{
		BuyerID:             request.BuyerID,
		FarmerID:            request.FarmerID,
		OrderID:             request.OrderID,
		Email:               request.Email,
		PhoneNumber:         request.PhoneNumber,
		PaymentMethod:       request.PaymentMethod,
		MobileMoneyProvider: provider,
		Amount:              decimal.NullDecimal{Valid: true, Decimal: amount},
		Currency:            pb.cfg.Currency,
		Status:              models.StatusPending,
	}
	p.GenID(ctx)
	p.Reference = "AGC_" + p.GetID()

	if err = pb.paymentRepo.Save(ctx, p); err != nil {
		logger.WithError(err).Error("could not save payment")
		return nil, err
	}
	pb.emitStatus(ctx, p.GetID(), models.StatusPending, "payment created")

	initResponse, err := pb.client.InitializeTransaction(ctx, pb.initializeRequest(ctx, p, request.Metadata))
	if err != nil {
		// The payment stays pending so the buyer can resubmit; the
		// failure reason is kept for display.
		logger.WithError(err).Warn("gateway initialisation failed")
		p.ErrorMessage = err.Error()
		if saveErr := pb.paymentRepo.Save(ctx, p); saveErr != nil {
			logger.WithError(saveErr).Warn("could not record initialisation failure")
		}
		pb.emitStatus(ctx, p.GetID(), models.StatusPending, err.Error())
		return nil, err
	}

	p.Status = models.StatusProcessing
	p.ErrorMessage = ""
	p.AccessCode = initResponse.Data.AccessCode
	p.AuthorizationURL = initResponse.Data.AuthorizationURL
	if err = pb.paymentRepo.Save(ctx, p); err != nil {
		logger.WithError(err).Error("could not move payment to processing")
		return nil, err
	}
	pb.emitStatus(ctx, p.GetID(), models.StatusProcessing, "awaiting checkout")
	pb.publish(ctx, pb.cfg.PaymentInitiatedTopic, p)

	return &InitiatePaymentResponse{
		Reference:        p.Reference,
		AccessCode:       p.AccessCode,
		AuthorizationURL: p.AuthorizationURL,
		PublicKey:        pb.cfg.PaystackPublicKey,
		AmountMinor:      utility.ToMinorUnits(amount),
		Currency:         p.Currency,
		Status:           p.Status,
	}, nil
}

func (pb *paymentBusiness) initializeRequest(ctx context.Context, p *models.Payment, metadata map[string]string) coreapi.InitializeRequest {
	request := coreapi.InitializeRequest{
		Email:       p.Email,
		Amount:      utility.ToMinorUnits(p.Amount.Decimal),
		Currency:    p.Currency,
		Reference:   p.Reference,
		CallbackURL: pb.cfg.CheckoutCallbackURL,
		Channels:    []string{p.PaymentMethod},
		Metadata:    metadata,
	}
	if p.PaymentMethod == models.PaymentMethodMobileMoney {
		request.MobileMoney = &coreapi.MobileMoneyDetails{
			Phone:    p.PhoneNumber,
			Provider: p.MobileMoneyProvider,
		}
	}

	// Route the farmer's split through their settlement subaccount when
	// one has been set up.
	if p.FarmerID != "" {
		account, err := pb.accountRepo.GetByFarmerID(ctx, p.FarmerID)
		if err == nil && account.SubaccountCode != "" {
			request.Subaccount = account.SubaccountCode
		}
	}
	return request
}

func (pb *paymentBusiness) VerifyPayment(ctx context.Context, reference string) (*VerifyPaymentResponse, error) {
	logger := pb.service.Log(ctx).WithField("reference", reference)

	p, err := pb.paymentRepo.GetByReference(ctx, reference)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPaymentDoesNotExist
		}
		return nil, err
	}

	switch p.Status {
	case models.StatusSuccess:
		// Re-verification of a settled payment replays the stored
		// result without touching the gateway again.
		return pb.replayVerified(ctx, p), nil
	case models.StatusCancelled:
		return nil, ErrPaymentAlreadyCanceled
	case models.StatusPending, models.StatusFailed:
		return nil, ErrPaymentNotProcessing
	case models.StatusProcessing:
	}

	verifyResponse, err := pb.client.VerifyTransaction(ctx, reference)
	if err != nil {
		logger.WithError(err).Warn("gateway verification failed")
		p.Status = models.StatusFailed
		p.ErrorMessage = err.Error()
		if saveErr := pb.paymentRepo.Save(ctx, p); saveErr != nil {
			logger.WithError(saveErr).Warn("could not record verification failure")
		}
		pb.emitStatus(ctx, p.GetID(), models.StatusFailed, err.Error())
		return nil, err
	}

	data := verifyResponse.Data
	if data.Status != "success" {
		p.Status = models.StatusFailed
		p.ErrorMessage = data.GatewayResponse
		if err = pb.paymentRepo.Save(ctx, p); err != nil {
			return nil, err
		}
		pb.emitStatus(ctx, p.GetID(), models.StatusFailed, data.GatewayResponse)
		return &VerifyPaymentResponse{
			Reference: reference,
			Status:    models.StatusFailed,
			Currency:  p.Currency,
			Channel:   data.Channel,
		}, nil
	}

	amount := utility.FromMinorUnits(data.Amount)
	farmerAmount, platformFee := utility.SplitAmount(amount, pb.percentageCharge(ctx, p.FarmerID))
	paidAt := data.PaidAt

	p.Status = models.StatusSuccess
	p.ErrorMessage = ""
	p.Channel = data.Channel
	p.PaidAt = &paidAt
	p.Amount = decimal.NullDecimal{Valid: true, Decimal: amount}
	if err = pb.paymentRepo.Save(ctx, p); err != nil {
		logger.WithError(err).Error("could not record verified payment")
		return nil, err
	}
	pb.emitStatus(ctx, p.GetID(), models.StatusSuccess, "payment verified")

	transaction := &models.Transaction{
		PaymentID:    p.GetID(),
		Reference:    p.Reference,
		BuyerID:      p.BuyerID,
		FarmerID:     p.FarmerID,
		Amount:       decimal.NullDecimal{Valid: true, Decimal: amount},
		FarmerAmount: decimal.NullDecimal{Valid: true, Decimal: farmerAmount},
		PlatformFee:  decimal.NullDecimal{Valid: true, Decimal: platformFee},
		Currency:     p.Currency,
		Status:       models.StatusSuccess,
		Channel:      data.Channel,
		PaidAt:       &paidAt,
	}
	transaction.GenID(ctx)
	pb.emitTransaction(ctx, transaction)
	pb.publish(ctx, pb.cfg.PaymentSettledTopic, transaction)

	return &VerifyPaymentResponse{
		Reference:    reference,
		Status:       models.StatusSuccess,
		Amount:       amount,
		FarmerAmount: farmerAmount,
		PlatformFee:  platformFee,
		Currency:     p.Currency,
		Channel:      data.Channel,
		PaidAt:       &paidAt,
	}, nil
}

func (pb *paymentBusiness) replayVerified(ctx context.Context, p *models.Payment) *VerifyPaymentResponse {
	response := &VerifyPaymentResponse{
		Reference:       p.Reference,
		Status:          models.StatusSuccess,
		Amount:          p.Amount.Decimal,
		Currency:        p.Currency,
		Channel:         p.Channel,
		PaidAt:          p.PaidAt,
		AlreadyVerified: true,
	}
	transaction, err := pb.transactionRepo.GetByReference(ctx, p.Reference)
	if err == nil {
		response.FarmerAmount = transaction.FarmerAmount.Decimal
		response.PlatformFee = transaction.PlatformFee.Decimal
	}
	return response
}

// CancelPayment records a checkout dismissed before completion. The
// only legal source status is processing and no gateway call is made.
func (pb *paymentBusiness) CancelPayment(ctx context.Context, reference string) (*models.Payment, error) {
	p, err := pb.paymentRepo.GetByReference(ctx, reference)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPaymentDoesNotExist
		}
		return nil, err
	}

	if p.Status == models.StatusCancelled {
		return nil, ErrPaymentAlreadyCanceled
	}
	if !p.Status.CanTransition(models.StatusCancelled) {
		return nil, ErrPaymentNotCancellable
	}

	p.Status = models.StatusCancelled
	if err = pb.paymentRepo.Save(ctx, p); err != nil {
		return nil, err
	}
	pb.emitStatus(ctx, p.GetID(), models.StatusCancelled, "checkout dismissed")

	return p, nil
}

func (pb *paymentBusiness) GetPayment(ctx context.Context, reference string) (*models.Payment, error) {
	p, err := pb.paymentRepo.GetByReference(ctx, reference)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPaymentDoesNotExist
		}
		return nil, err
	}
	return p, nil
}

// PaymentTimeline returns a payment together with its ordered status
// history, oldest first.
func (pb *paymentBusiness) PaymentTimeline(ctx context.Context, reference string) (*models.Payment, []*models.PaymentStatus, error) {
	p, err := pb.GetPayment(ctx, reference)
	if err != nil {
		return nil, nil, err
	}
	history, err := pb.statusRepo.GetByPaymentID(ctx, p.GetID())
	if err != nil {
		return nil, nil, err
	}
	return p, history, nil
}

func (pb *paymentBusiness) percentageCharge(ctx context.Context, farmerID string) decimal.Decimal {
	if farmerID != "" {
		account, err := pb.accountRepo.GetByFarmerID(ctx, farmerID)
		if err == nil && account.PercentageCharge.Valid {
			return account.PercentageCharge.Decimal
		}
	}
	charge, err := decimal.NewFromString(pb.cfg.DefaultPercentageCharge)
	if err != nil {
		return decimal.Zero
	}
	return charge
}

func (pb *paymentBusiness) emitStatus(ctx context.Context, paymentID string, status models.Status, description string) {
	pStatus := &models.PaymentStatus{
		PaymentID:   paymentID,
		Status:      status,
		Description: description,
	}
	pStatus.GenID(ctx)
	if err := pb.service.Emit(ctx, "paymentStatus.save", pStatus); err != nil {
		pb.service.Log(ctx).WithError(err).Warn("could not emit payment status event")
	}
}

func (pb *paymentBusiness) emitTransaction(ctx context.Context, transaction *models.Transaction) {
	if err := pb.service.Emit(ctx, "transaction.save", transaction); err != nil {
		pb.service.Log(ctx).WithError(err).Warn("could not emit transaction event")
	}
}

func (pb *paymentBusiness) publish(ctx context.Context, topic string, payload any) {
	if topic == "" {
		return
	}
	if err := pb.service.Publish(ctx, topic, payload); err != nil {
		pb.service.Log(ctx).WithError(err).WithField("topic", topic).Warn("could not publish message")
	}
}
