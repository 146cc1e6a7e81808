package validate

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

// Result is what every validator returns. An empty input is never an
// error: a field the user has not touched yet reports valid with no
// message so forms do not flash errors prematurely.
type Result struct {
	IsValid     bool     `json:"isValid"`
	Error       string   `json:"error,omitempty"`
	Suggestions []string `json:"suggestions,omitempty"`
}

func ok() Result {
	return Result{IsValid: true}
}

func invalid(msg string) Result {
	return Result{IsValid: false, Error: msg}
}

var (
	emailPattern        = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	localPhonePattern   = regexp.MustCompile(`^0\d{9}$`)
	paymentPhonePattern = regexp.MustCompile(`^(\+233|0)(2[0-9]|5[0-9])\d{7}$`)
	bankAccountPattern  = regexp.MustCompile(`^\d{10}$`)
	ghanaCardPattern    = regexp.MustCompile(`^GHA-?\d{9}-?\d$`)
	tinPattern          = regexp.MustCompile(`^[PCG]00\d{8}$`)
)

var webmailDomains = []string{"gmail.com", "yahoo.com", "hotmail.com", "outlook.com"}

// Email validates an address and, when the domain looks like a partial
// spelling of a common webmail provider, proposes corrected addresses.
func Email(s string) Result {
	s = strings.TrimSpace(s)
	if s == "" {
		return ok()
	}
	if emailPattern.MatchString(s) {
		return ok()
	}

	result := invalid("Please enter a valid email address")
	at := strings.LastIndex(s, "@")
	if at <= 0 {
		return result
	}
	local, domain := s[:at], strings.ToLower(s[at+1:])
	if domain == "" {
		return result
	}
	for _, candidate := range webmailDomains {
		if candidate != domain && strings.HasPrefix(candidate, domain) {
			result.Suggestions = append(result.Suggestions, local+"@"+candidate)
		}
	}
	return result
}

// PhoneNumber validates the local 10-digit form used on profile forms.
func PhoneNumber(s string) Result {
	s = strings.TrimSpace(s)
	if s == "" {
		return ok()
	}
	if !localPhonePattern.MatchString(s) {
		return invalid("Please enter a valid 10-digit phone number starting with 0")
	}
	return ok()
}

// PaymentPhoneNumber accepts the broader payment form which allows the
// +233 country code. On success the Error field is empty and the
// returned formatted string groups the digits for display.
func PaymentPhoneNumber(s string) (Result, string) {
	s = strings.TrimSpace(s)
	if s == "" {
		return ok(), ""
	}
	if !paymentPhonePattern.MatchString(s) {
		return invalid("Please enter a valid Ghanaian mobile number"), ""
	}
	return ok(), FormatPhone(s)
}

// FormatPhone renders a recognised number as grouped digits, e.g.
// 0241234567 -> "024 123 4567".
func FormatPhone(s string) string {
	local := "0" + NormalizePhone(s)
	if len(local) != 10 {
		return s
	}
	return fmt.Sprintf("%s %s %s", local[0:3], local[3:6], local[6:10])
}

// BankAccount requires exactly 10 digits.
func BankAccount(s string) Result {
	s = strings.TrimSpace(s)
	if s == "" {
		return ok()
	}
	if !bankAccountPattern.MatchString(s) {
		return invalid("Account number must be exactly 10 digits")
	}
	return ok()
}

const (
	MinAmount = 1
	MaxAmount = 1_000_000
)

// Amount parses and bounds-checks a monetary input.
func Amount(s string) Result {
	s = strings.TrimSpace(s)
	if s == "" {
		return ok()
	}
	amount, err := decimal.NewFromString(s)
	if err != nil {
		return invalid("Please enter a valid amount")
	}
	if amount.LessThan(decimal.NewFromInt(MinAmount)) {
		return invalid(fmt.Sprintf("Amount must be at least GHS %d", MinAmount))
	}
	if amount.GreaterThan(decimal.NewFromInt(MaxAmount)) {
		return invalid(fmt.Sprintf("Amount cannot exceed GHS %s", decimal.NewFromInt(MaxAmount).String()))
	}
	return ok()
}

// BusinessName checks trimmed length and enriches with naming variants.
func BusinessName(s string) Result {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return ok()
	}
	if len(trimmed) < 2 || len(trimmed) > 100 {
		result := invalid("Business name must be between 2 and 100 characters")
		result.Suggestions = nameVariants(trimmed)
		return result
	}
	result := ok()
	result.Suggestions = nameVariants(trimmed)
	return result
}

func nameVariants(name string) []string {
	if name == "" || len(name) > 80 {
		return nil
	}
	return []string{
		name + " Farm",
		name + " Farms",
		name + " Agro Ventures",
	}
}

// StrengthResult extends Result with the password score and bucket.
type StrengthResult struct {
	Result
	Score    int    `json:"score"`
	Strength string `json:"strength"`
}

// PasswordStrength scores a password 0-5 over length, upper, lower,
// digit and special-character criteria. Valid requires score >= 4 and
// at least 8 characters.
func PasswordStrength(s string) StrengthResult {
	if s == "" {
		return StrengthResult{Result: ok(), Strength: "weak"}
	}

	score := 0
	if len(s) >= 8 {
		score++
	}
	if strings.ContainsFunc(s, func(r rune) bool { return r >= 'A' && r <= 'Z' }) {
		score++
	}
	if strings.ContainsFunc(s, func(r rune) bool { return r >= 'a' && r <= 'z' }) {
		score++
	}
	if strings.ContainsAny(s, "0123456789") {
		score++
	}
	if strings.ContainsAny(s, "!@#$%^&*()-_=+[]{};:'\",.<>/?`~\\|") {
		score++
	}

	strength := "weak"
	switch {
	case score >= 4:
		strength = "strong"
	case score >= 3:
		strength = "medium"
	}

	res := StrengthResult{Score: score, Strength: strength}
	if score >= 4 && len(s) >= 8 {
		res.Result = ok()
	} else {
		res.Result = invalid("Password must be at least 8 characters and mix upper case, lower case, digits and symbols")
	}
	return res
}

// GhanaCard validates the national ID format: GHA + 9 digits + 1 check
// digit, with or without separating dashes.
func GhanaCard(s string) Result {
	s = strings.ToUpper(strings.TrimSpace(s))
	if s == "" {
		return ok()
	}
	if !ghanaCardPattern.MatchString(s) {
		return invalid("Ghana Card number must be in the format GHA-XXXXXXXXX-X")
	}
	return ok()
}

// TIN validates a Ghana Revenue Authority taxpayer number.
func TIN(s string) Result {
	s = strings.ToUpper(strings.TrimSpace(s))
	if s == "" {
		return ok()
	}
	if !tinPattern.MatchString(s) {
		return invalid("TIN must start with P00, C00 or G00 followed by 8 digits")
	}
	return ok()
}
