package validate

import (
	"math"
	"strings"
)

const (
	ProviderMTN        = "mtn"
	ProviderTelecel    = "telecel"
	ProviderAirtelTigo = "airteltigo"
)

// NormalizePhone strips the +233 country code or leading zero and
// returns the 9-digit local number. Unrecognised input comes back with
// only non-digit characters removed.
func NormalizePhone(s string) string {
	var digits strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			digits.WriteRune(r)
		}
	}
	cleaned := digits.String()
	switch {
	case strings.HasPrefix(cleaned, "233") && len(cleaned) == 12:
		return cleaned[3:]
	case strings.HasPrefix(cleaned, "0") && len(cleaned) == 10:
		return cleaned[1:]
	}
	return cleaned
}

// DetectProvider maps the first two digits of the local number to a
// mobile money carrier. Returns "" when the prefix is not recognised.
func DetectProvider(phone string) string {
	local := NormalizePhone(phone)
	if len(local) < 2 {
		return ""
	}
	switch local[0:2] {
	case "24", "54", "55", "59":
		return ProviderMTN
	case "50":
		return ProviderTelecel
	case "26", "56", "27", "57":
		return ProviderAirtelTigo
	}
	return ""
}

// ResolveProvider reconciles auto-detection with an explicit choice:
// a provider the buyer already selected is never overridden, detection
// only fills the gap when the selection is empty.
func ResolveProvider(phone, selected string) string {
	if selected != "" {
		return selected
	}
	return DetectProvider(phone)
}

// PaymentForm is the snapshot of checkout inputs the progress
// indicator and pre-submission validation run over.
type PaymentForm struct {
	Email               string `json:"email"`
	Amount              string `json:"amount"`
	PaymentMethod       string `json:"paymentMethod"`
	PhoneNumber         string `json:"phoneNumber"`
	MobileMoneyProvider string `json:"mobileMoneyProvider"`
	AgreedToTerms       bool   `json:"agreedToTerms"`
}

const methodMobileMoney = "mobile_money"

// CheckPaymentForm runs every applicable validator and reports
// failures per field. Fields the user has not filled do not appear.
func CheckPaymentForm(f PaymentForm) map[string]Result {
	failures := map[string]Result{}

	if r := Email(f.Email); !r.IsValid {
		failures["email"] = r
	}
	if r := Amount(f.Amount); !r.IsValid {
		failures["amount"] = r
	}
	if f.PaymentMethod == methodMobileMoney {
		if r, _ := PaymentPhoneNumber(f.PhoneNumber); !r.IsValid {
			failures["phoneNumber"] = r
		}
	}
	return failures
}

// CompletionPercent counts how many required checkout fields are
// satisfied. Phone and provider only join the checklist for mobile
// money, so the total depends on the chosen method. Always derived,
// never stored.
func CompletionPercent(f PaymentForm) int {
	checks := []bool{
		f.Email != "" && Email(f.Email).IsValid,
		filledAndPositive(f.Amount),
		f.PaymentMethod != "",
		f.AgreedToTerms,
	}

	if f.PaymentMethod == methodMobileMoney {
		phoneResult, _ := PaymentPhoneNumber(f.PhoneNumber)
		checks = append(checks,
			f.PhoneNumber != "" && phoneResult.IsValid,
			ResolveProvider(f.PhoneNumber, f.MobileMoneyProvider) != "",
		)
	}

	completed := 0
	for _, done := range checks {
		if done {
			completed++
		}
	}
	return int(math.Round(float64(completed) / float64(len(checks)) * 100))
}

func filledAndPositive(amount string) bool {
	return amount != "" && Amount(amount).IsValid
}
