package business

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/agriconnect/service-payments/config"
	"github.com/agriconnect/service-payments/service/coreapi"
	"github.com/agriconnect/service-payments/service/models"
	"github.com/agriconnect/service-payments/service/repository"
	"github.com/agriconnect/service-payments/service/validate"
	backoff "github.com/cenkalti/backoff/v4"
	"github.com/go-redis/redis"
	"github.com/pitabwire/frame"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	bankListCacheKey = "payments:banks:ghana"
	bankListCacheTTL = 6 * time.Hour

	// Attempts surfaced to the user as "Retry attempt N/3". Purely a
	// messaging counter, nothing retries automatically.
	bankVerifyMaxAttempts = 3
	bankVerifyAttemptTTL  = 30 * time.Minute
)

type AccountBusiness interface {
	SetupAccount(ctx context.Context, request *SetupAccountRequest) (*models.FarmerAccount, error)
	GetAccount(ctx context.Context, farmerID string) (*models.FarmerAccount, error)
	VerifyBankAccount(ctx context.Context, request *VerifyBankAccountRequest) (*VerifyBankAccountResponse, error)
	ListBanks(ctx context.Context) ([]coreapi.Bank, error)
}

type SetupAccountRequest struct {
	FarmerID     string `json:"farmerId"`
	BusinessName string `json:"businessName"`

	BankName      string `json:"bankName"`
	BankCode      string `json:"bankCode"`
	AccountNumber string `json:"accountNumber"`
	AccountName   string `json:"accountName"`

	MomoProvider    string `json:"momoProvider"`
	MomoPhoneNumber string `json:"momoPhoneNumber"`
	MomoAccountName string `json:"momoAccountName"`

	GhanaCardNumber  string `json:"ghanaCardNumber"`
	TinNumber        string `json:"tinNumber"`
	PercentageCharge string `json:"percentageCharge"`
	AgreedToTerms    bool   `json:"agreedToTerms"`
}

type VerifyBankAccountRequest struct {
	FarmerID      string `json:"farmerId"`
	AccountNumber string `json:"accountNumber"`
	BankCode      string `json:"bankCode"`
}

type VerifyBankAccountResponse struct {
	AccountNumber string `json:"accountNumber"`
	AccountName   string `json:"accountName"`
	IsVerified    bool   `json:"isVerified"`
}

func NewAccountBusiness(_ context.Context, service *frame.Service, cfg *config.PaymentConfig,
	client coreapi.GatewayClient, redisClient *redis.Client,
	accountRepo repository.FarmerAccountRepository) (AccountBusiness, error) {
	if service == nil || cfg == nil || client == nil {
		return nil, ErrInitializationFail
	}
	return &accountBusiness{
		service:     service,
		cfg:         cfg,
		client:      client,
		redisClient: redisClient,
		accountRepo: accountRepo,
	}, nil
}

type accountBusiness struct {
	service     *frame.Service
	cfg         *config.PaymentConfig
	client      coreapi.GatewayClient
	redisClient *redis.Client
	accountRepo repository.FarmerAccountRepository
}

func (ab *accountBusiness) validateSetup(request *SetupAccountRequest) map[string]validate.Result {
	failures := map[string]validate.Result{}

	record := func(field string, result validate.Result) {
		if !result.IsValid {
			failures[field] = result
		}
	}

	if strings.TrimSpace(request.BusinessName) == "" {
		failures["businessName"] = validate.Result{Error: "Business name is required"}
	} else {
		record("businessName", validate.BusinessName(request.BusinessName))
	}
	record("accountNumber", validate.BankAccount(request.AccountNumber))
	record("ghanaCardNumber", validate.GhanaCard(request.GhanaCardNumber))
	record("tinNumber", validate.TIN(request.TinNumber))
	record("momoPhoneNumber", validate.PhoneNumber(request.MomoPhoneNumber))

	if request.MomoPhoneNumber != "" && request.MomoProvider == "" &&
		validate.DetectProvider(request.MomoPhoneNumber) == "" {
		failures["momoProvider"] = validate.Result{
			Error: "Could not determine a mobile money provider for this number",
		}
	}
	return failures
}

func (ab *accountBusiness) SetupAccount(ctx context.Context, request *SetupAccountRequest) (*models.FarmerAccount, error) {
	logger := ab.service.Log(ctx).WithField("farmer_id", request.FarmerID)

	if !request.AgreedToTerms {
		return nil, ErrTermsNotAccepted
	}
	if request.FarmerID == "" {
		return nil, ErrInvalidPaymentRequest
	}
	if failures := ab.validateSetup(request); len(failures) > 0 {
		return nil, &ValidationError{Fields: failures}
	}

	percentage, err := decimal.NewFromString(request.PercentageCharge)
	if err != nil || percentage.IsNegative() || percentage.GreaterThan(decimal.NewFromInt(100)) {
		percentage, _ = decimal.NewFromString(ab.cfg.DefaultPercentageCharge)
	}

	// An existing account gets updated in place rather than duplicated.
	account, err := ab.accountRepo.GetByFarmerID(ctx, request.FarmerID)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		account = &models.FarmerAccount{FarmerID: request.FarmerID}
		account.GenID(ctx)
	}

	account.BusinessName = strings.TrimSpace(request.BusinessName)
	account.BankName = request.BankName
	account.BankCode = request.BankCode
	account.AccountNumber = request.AccountNumber
	account.AccountName = request.AccountName
	account.MomoProvider = validate.ResolveProvider(request.MomoPhoneNumber, request.MomoProvider)
	account.MomoPhoneNumber = request.MomoPhoneNumber
	account.MomoAccountName = request.MomoAccountName
	account.GhanaCardNumber = strings.ToUpper(strings.TrimSpace(request.GhanaCardNumber))
	account.TinNumber = strings.ToUpper(strings.TrimSpace(request.TinNumber))
	account.PercentageCharge = decimal.NullDecimal{Valid: true, Decimal: percentage}
	account.AgreedToTerms = true

	if account.SubaccountCode == "" && request.AccountNumber != "" && request.BankCode != "" {
		percentageCharge, _ := percentage.Float64()
		subaccount, subErr := ab.client.CreateSubaccount(ctx, coreapi.SubaccountRequest{
			BusinessName:     account.BusinessName,
			SettlementBank:   account.BankCode,
			AccountNumber:    account.AccountNumber,
			PercentageCharge: percentageCharge,
		})
		if subErr != nil {
			logger.WithError(subErr).Warn("could not create settlement subaccount")
		} else {
			account.SubaccountCode = subaccount.Data.SubaccountCode
		}
	}

	if err = ab.accountRepo.Save(ctx, account); err != nil {
		logger.WithError(err).Error("could not save farmer account")
		return nil, err
	}
	return account, nil
}

func (ab *accountBusiness) GetAccount(ctx context.Context, farmerID string) (*models.FarmerAccount, error) {
	account, err := ab.accountRepo.GetByFarmerID(ctx, farmerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAccountDoesNotExist
		}
		return nil, err
	}
	return account, nil
}

// VerifyBankAccount resolves the holder name behind a 10-digit account
// number. Failures bump a per-farmer attempt counter that feeds the
// "Retry attempt N/3" message; the user decides whether to try again.
func (ab *accountBusiness) VerifyBankAccount(ctx context.Context, request *VerifyBankAccountRequest) (*VerifyBankAccountResponse, error) {
	logger := ab.service.Log(ctx).WithField("farmer_id", request.FarmerID)

	if result := validate.BankAccount(request.AccountNumber); !result.IsValid || request.AccountNumber == "" {
		return nil, &ValidationError{Fields: map[string]validate.Result{
			"accountNumber": {Error: "Account number must be exactly 10 digits"},
		}}
	}
	if request.BankCode == "" {
		return nil, &ValidationError{Fields: map[string]validate.Result{
			"bankCode": {Error: "Please select a bank"},
		}}
	}

	resolved, err := ab.client.ResolveBankAccount(ctx, request.AccountNumber, request.BankCode)
	if err != nil {
		attempt := ab.nextVerifyAttempt(request.FarmerID)
		logger.WithError(err).WithField("attempt", attempt).Warn("bank account resolution failed")
		return nil, fmt.Errorf("%v (Retry attempt %d/%d)", err, attempt, bankVerifyMaxAttempts)
	}

	ab.resetVerifyAttempts(request.FarmerID)

	// A verified name is copied onto any stored account so the payment
	// dashboard shows the confirmed holder.
	account, accErr := ab.accountRepo.GetByFarmerID(ctx, request.FarmerID)
	if accErr == nil {
		account.AccountName = resolved.Data.AccountName
		account.BankVerified = true
		if saveErr := ab.accountRepo.Save(ctx, account); saveErr != nil {
			logger.WithError(saveErr).Warn("could not record verified account name")
		}
	}

	return &VerifyBankAccountResponse{
		AccountNumber: resolved.Data.AccountNumber,
		AccountName:   resolved.Data.AccountName,
		IsVerified:    true,
	}, nil
}

// ListBanks serves the supported settlement banks, cached in redis.
// The gateway fetch runs behind exponential backoff since this is an
// auxiliary read; payment submission never retries.
func (ab *accountBusiness) ListBanks(ctx context.Context) ([]coreapi.Bank, error) {
	logger := ab.service.Log(ctx).WithField("type", "ListBanks")

	if ab.redisClient != nil {
		cached, err := ab.redisClient.Get(bankListCacheKey).Result()
		if err == nil && cached != "" {
			var banks []coreapi.Bank
			if jsonErr := json.Unmarshal([]byte(cached), &banks); jsonErr == nil {
				return banks, nil
			}
		}
	}

	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = time.Second
	policy.Multiplier = 2
	policy.RandomizationFactor = 0

	var banks []coreapi.Bank
	err := backoff.Retry(func() error {
		var fetchErr error
		banks, fetchErr = ab.client.ListBanks(ctx)
		return fetchErr
	}, backoff.WithMaxRetries(backoff.WithContext(policy, ctx), bankVerifyMaxAttempts-1))
	if err != nil {
		return nil, err
	}

	if ab.redisClient != nil {
		encoded, jsonErr := json.Marshal(banks)
		if jsonErr == nil {
			if cacheErr := ab.redisClient.Set(bankListCacheKey, string(encoded), bankListCacheTTL).Err(); cacheErr != nil {
				logger.WithError(cacheErr).Warn("could not cache bank list")
			}
		}
	}
	return banks, nil
}

func (ab *accountBusiness) nextVerifyAttempt(farmerID string) int64 {
	if ab.redisClient == nil || farmerID == "" {
		return 1
	}
	key := fmt.Sprintf("payments:bankverify:%s", farmerID)
	attempt, err := ab.redisClient.Incr(key).Result()
	if err != nil {
		return 1
	}
	ab.redisClient.Expire(key, bankVerifyAttemptTTL)
	if attempt > bankVerifyMaxAttempts {
		return bankVerifyMaxAttempts
	}
	return attempt
}

func (ab *accountBusiness) resetVerifyAttempts(farmerID string) {
	if ab.redisClient == nil || farmerID == "" {
		return
	}
	ab.redisClient.Del(fmt.Sprintf("payments:bankverify:%s", farmerID))
}
