package business

import (
	"context"
	"testing"

	"github.com/agriconnect/service-payments/service/coreapi"
	"github.com/agriconnect/service-payments/service/models"
	"github.com/pitabwire/frame"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type accountFixture struct {
	business    AccountBusiness
	client      *coreapi.MockClient
	accountRepo *fakeAccountRepo
}

func newAccountFixture(t *testing.T) *accountFixture {
	mockClient := new(coreapi.MockClient)
	accountRepo := newFakeAccountRepo()

	ab, err := NewAccountBusiness(context.Background(), &frame.Service{}, testConfig(),
		mockClient, nil, accountRepo)
	assert.NoError(t, err)

	return &accountFixture{business: ab, client: mockClient, accountRepo: accountRepo}
}

func setupRequest() *SetupAccountRequest {
	return &SetupAccountRequest{
		FarmerID:         "farmer-1",
		BusinessName:     "Mensah Farms",
		BankName:         "GCB Bank",
		BankCode:         "040",
		AccountNumber:    "0012345678",
		AccountName:      "Kwame Mensah",
		MomoPhoneNumber:  "0241234567",
		GhanaCardNumber:  "GHA-123456789-0",
		TinNumber:        "P0012345678",
		PercentageCharge: "15",
		AgreedToTerms:    true,
	}
}

func TestSetupAccount(t *testing.T) {
	t.Run("creates account and settlement subaccount", func(t *testing.T) {
		fx := newAccountFixture(t)
		subResponse := &coreapi.SubaccountResponse{Status: true}
		subResponse.Data.SubaccountCode = "ACCT_abc"
		fx.client.On("CreateSubaccount", mock.Anything, mock.MatchedBy(func(r coreapi.SubaccountRequest) bool {
			return r.BusinessName == "Mensah Farms" && r.SettlementBank == "040" &&
				r.AccountNumber == "0012345678" && r.PercentageCharge == 15.0
		})).Return(subResponse, nil)

		account, err := fx.business.SetupAccount(context.Background(), setupRequest())
		assert.NoError(t, err)
		assert.Equal(t, "ACCT_abc", account.SubaccountCode)
		assert.Equal(t, models.ProviderMTN, account.MomoProvider)
		assert.True(t, account.PercentageCharge.Decimal.Equal(decimal.RequireFromString("15")))
		assert.True(t, account.AgreedToTerms)

		stored, err := fx.accountRepo.GetByFarmerID(context.Background(), "farmer-1")
		assert.NoError(t, err)
		assert.Equal(t, "Mensah Farms", stored.BusinessName)
	})

	t.Run("subaccount failure does not block setup", func(t *testing.T) {
		fx := newAccountFixture(t)
		fx.client.On("CreateSubaccount", mock.Anything, mock.Anything).
			Return(nil, assert.AnError)

		account, err := fx.business.SetupAccount(context.Background(), setupRequest())
		assert.NoError(t, err)
		assert.Empty(t, account.SubaccountCode)
	})

	t.Run("updates the existing account in place", func(t *testing.T) {
		fx := newAccountFixture(t)
		existing := &models.FarmerAccount{FarmerID: "farmer-1", SubaccountCode: "ACCT_old"}
		existing.GenID(context.Background())
		_ = fx.accountRepo.Save(context.Background(), existing)

		request := setupRequest()
		request.BusinessName = "Mensah Agro Ventures"

		account, err := fx.business.SetupAccount(context.Background(), request)
		assert.NoError(t, err)
		assert.Equal(t, existing.GetID(), account.GetID())
		assert.Equal(t, "Mensah Agro Ventures", account.BusinessName)
		// existing subaccount is kept, not re-created
		assert.Equal(t, "ACCT_old", account.SubaccountCode)
		fx.client.AssertNotCalled(t, "CreateSubaccount", mock.Anything, mock.Anything)
	})

	t.Run("terms must be accepted", func(t *testing.T) {
		fx := newAccountFixture(t)
		request := setupRequest()
		request.AgreedToTerms = false

		_, err := fx.business.SetupAccount(context.Background(), request)
		assert.ErrorIs(t, err, ErrTermsNotAccepted)
	})

	t.Run("invalid identifiers reported per field", func(t *testing.T) {
		fx := newAccountFixture(t)
		request := setupRequest()
		request.GhanaCardNumber = "GHA-12-0"
		request.TinNumber = "X123"
		request.AccountNumber = "123"

		_, err := fx.business.SetupAccount(context.Background(), request)
		var validationErr *ValidationError
		assert.ErrorAs(t, err, &validationErr)
		assert.Contains(t, validationErr.Fields, "ghanaCardNumber")
		assert.Contains(t, validationErr.Fields, "tinNumber")
		assert.Contains(t, validationErr.Fields, "accountNumber")
	})

	t.Run("out of range percentage falls back to default", func(t *testing.T) {
		fx := newAccountFixture(t)
		fx.client.On("CreateSubaccount", mock.Anything, mock.Anything).
			Return(nil, assert.AnError)

		request := setupRequest()
		request.PercentageCharge = "250"

		account, err := fx.business.SetupAccount(context.Background(), request)
		assert.NoError(t, err)
		assert.True(t, account.PercentageCharge.Decimal.Equal(decimal.RequireFromString("10")))
	})
}

func TestVerifyBankAccount(t *testing.T) {
	t.Run("resolved account marks stored record verified", func(t *testing.T) {
		fx := newAccountFixture(t)
		existing := &models.FarmerAccount{FarmerID: "farmer-1"}
		existing.GenID(context.Background())
		_ = fx.accountRepo.Save(context.Background(), existing)

		resolveResponse := &coreapi.ResolveAccountResponse{Status: true}
		resolveResponse.Data.AccountNumber = "0012345678"
		resolveResponse.Data.AccountName = "KWAME MENSAH"
		fx.client.On("ResolveBankAccount", mock.Anything, "0012345678", "040").
			Return(resolveResponse, nil)

		response, err := fx.business.VerifyBankAccount(context.Background(), &VerifyBankAccountRequest{
			FarmerID:      "farmer-1",
			AccountNumber: "0012345678",
			BankCode:      "040",
		})
		assert.NoError(t, err)
		assert.True(t, response.IsVerified)
		assert.Equal(t, "KWAME MENSAH", response.AccountName)

		stored, _ := fx.accountRepo.GetByFarmerID(context.Background(), "farmer-1")
		assert.True(t, stored.BankVerified)
		assert.Equal(t, "KWAME MENSAH", stored.AccountName)
	})

	t.Run("resolution failure reports the retry attempt", func(t *testing.T) {
		fx := newAccountFixture(t)
		fx.client.On("ResolveBankAccount", mock.Anything, "0012345678", "040").
			Return(nil, assert.AnError)

		_, err := fx.business.VerifyBankAccount(context.Background(), &VerifyBankAccountRequest{
			FarmerID:      "farmer-1",
			AccountNumber: "0012345678",
			BankCode:      "040",
		})
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "Retry attempt 1/3")
	})

	t.Run("short account number rejected before the gateway", func(t *testing.T) {
		fx := newAccountFixture(t)

		_, err := fx.business.VerifyBankAccount(context.Background(), &VerifyBankAccountRequest{
			FarmerID:      "farmer-1",
			AccountNumber: "12345",
			BankCode:      "040",
		})
		var validationErr *ValidationError
		assert.ErrorAs(t, err, &validationErr)
		assert.Contains(t, validationErr.Fields, "accountNumber")
		fx.client.AssertNotCalled(t, "ResolveBankAccount", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("bank code required", func(t *testing.T) {
		fx := newAccountFixture(t)

		_, err := fx.business.VerifyBankAccount(context.Background(), &VerifyBankAccountRequest{
			FarmerID:      "farmer-1",
			AccountNumber: "0012345678",
		})
		var validationErr *ValidationError
		assert.ErrorAs(t, err, &validationErr)
		assert.Contains(t, validationErr.Fields, "bankCode")
	})
}

func TestGetAccount(t *testing.T) {
	fx := newAccountFixture(t)

	_, err := fx.business.GetAccount(context.Background(), "farmer-1")
	assert.ErrorIs(t, err, ErrAccountDoesNotExist)

	account := &models.FarmerAccount{FarmerID: "farmer-1", BusinessName: "Mensah Farms"}
	account.GenID(context.Background())
	_ = fx.accountRepo.Save(context.Background(), account)

	found, err := fx.business.GetAccount(context.Background(), "farmer-1")
	assert.NoError(t, err)
	assert.Equal(t, "Mensah Farms", found.BusinessName)
}

func TestListBanks(t *testing.T) {
	t.Run("fetches from the gateway without a cache", func(t *testing.T) {
		fx := newAccountFixture(t)
		fx.client.On("ListBanks", mock.Anything).
			Return([]coreapi.Bank{{Name: "GCB Bank", Code: "040", Currency: "GHS"}}, nil)

		banks, err := fx.business.ListBanks(context.Background())
		assert.NoError(t, err)
		assert.Len(t, banks, 1)
		assert.Equal(t, "GCB Bank", banks[0].Name)
	})

	t.Run("retries a failing fetch before giving up", func(t *testing.T) {
		fx := newAccountFixture(t)
		fx.client.On("ListBanks", mock.Anything).Return(nil, assert.AnError)

		_, err := fx.business.ListBanks(context.Background())
		assert.Error(t, err)
		fx.client.AssertNumberOfCalls(t, "ListBanks", 3)
	})
}
