package validate

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizePhone(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "local form", input: "0241234567", expected: "241234567"},
		{name: "country code", input: "+233241234567", expected: "241234567"},
		{name: "country code no plus", input: "233541234567", expected: "541234567"},
		{name: "spaces and dashes stripped", input: "024-123 4567", expected: "241234567"},
		{name: "already local", input: "241234567", expected: "241234567"},
		{name: "unrecognised length kept", input: "12345", expected: "12345"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, NormalizePhone(tt.input))
		})
	}
}

func TestDetectProvider(t *testing.T) {
	tests := []struct {
		phone    string
		expected string
	}{
		{"0241234567", ProviderMTN},
		{"0541234567", ProviderMTN},
		{"0551234567", ProviderMTN},
		{"0591234567", ProviderMTN},
		{"0501234567", ProviderTelecel},
		{"0261234567", ProviderAirtelTigo},
		{"0561234567", ProviderAirtelTigo},
		{"0271234567", ProviderAirtelTigo},
		{"0571234567", ProviderAirtelTigo},
		{"+233241234567", ProviderMTN},
		{"0301234567", ""}, // landline
		{"0", ""},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.phone, func(t *testing.T) {
			assert.Equal(t, tt.expected, DetectProvider(tt.phone))
		})
	}
}

func TestResolveProvider(t *testing.T) {
	t.Run("explicit selection wins over detection", func(t *testing.T) {
		assert.Equal(t, ProviderTelecel, ResolveProvider("0241234567", ProviderTelecel))
	})

	t.Run("detection fills empty selection", func(t *testing.T) {
		assert.Equal(t, ProviderMTN, ResolveProvider("0241234567", ""))
	})

	t.Run("no selection and no match yields empty", func(t *testing.T) {
		assert.Equal(t, "", ResolveProvider("0301234567", ""))
	})
}

func TestCheckPaymentForm(t *testing.T) {
	t.Run("clean card form has no failures", func(t *testing.T) {
		failures := CheckPaymentForm(PaymentForm{
			Email:         "kofi@example.com",
			Amount:        "250",
			PaymentMethod: "card",
			AgreedToTerms: true,
		})
		assert.Empty(t, failures)
	})

	t.Run("bad email and amount both reported", func(t *testing.T) {
		failures := CheckPaymentForm(PaymentForm{
			Email:  "not-an-email",
			Amount: "-10",
		})
		assert.Len(t, failures, 2)
		assert.Contains(t, failures, "email")
		assert.Contains(t, failures, "amount")
	})

	t.Run("phone only checked for mobile money", func(t *testing.T) {
		form := PaymentForm{
			Email:       "kofi@example.com",
			Amount:      "250",
			PhoneNumber: "12345",
		}

		form.PaymentMethod = "card"
		assert.NotContains(t, CheckPaymentForm(form), "phoneNumber")

		form.PaymentMethod = "mobile_money"
		assert.Contains(t, CheckPaymentForm(form), "phoneNumber")
	})
}

func TestCompletionPercent(t *testing.T) {
	t.Run("empty form is zero", func(t *testing.T) {
		assert.Equal(t, 0, CompletionPercent(PaymentForm{}))
	})

	t.Run("card form completes over four checks", func(t *testing.T) {
		form := PaymentForm{PaymentMethod: "card"}
		assert.Equal(t, 25, CompletionPercent(form))

		form.Email = "kofi@example.com"
		assert.Equal(t, 50, CompletionPercent(form))

		form.Amount = "250"
		assert.Equal(t, 75, CompletionPercent(form))

		form.AgreedToTerms = true
		assert.Equal(t, 100, CompletionPercent(form))
	})

	t.Run("mobile money adds phone and provider checks", func(t *testing.T) {
		form := PaymentForm{
			Email:         "kofi@example.com",
			Amount:        "250",
			PaymentMethod: "mobile_money",
			AgreedToTerms: true,
		}
		// 4 of 6 satisfied
		assert.Equal(t, 67, CompletionPercent(form))

		// a recognised phone satisfies both the phone and provider checks
		form.PhoneNumber = "0241234567"
		assert.Equal(t, 100, CompletionPercent(form))
	})

	t.Run("unrecognised prefix needs explicit provider", func(t *testing.T) {
		form := PaymentForm{
			Email:         "kofi@example.com",
			Amount:        "250",
			PaymentMethod: "mobile_money",
			AgreedToTerms: true,
			PhoneNumber:   "0291234567",
		}
		// phone valid but no provider resolves: 5 of 6
		assert.Equal(t, 83, CompletionPercent(form))

		form.MobileMoneyProvider = ProviderMTN
		assert.Equal(t, 100, CompletionPercent(form))
	})

	t.Run("invalid field does not count", func(t *testing.T) {
		form := PaymentForm{
			Email:         "nope",
			Amount:        "250",
			PaymentMethod: "card",
			AgreedToTerms: true,
		}
		assert.Equal(t, 75, CompletionPercent(form))
	})
}
