package validate

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEmail(t *testing.T) {
	tests := []struct {
		name        string
		input       string
		expectValid bool
		suggestions []string
	}{
		{name: "empty is valid", input: "", expectValid: true},
		{name: "plain address", input: "kofi@example.com", expectValid: true},
		{name: "subdomain", input: "ama@mail.agriconnect.gh", expectValid: true},
		{name: "missing tld", input: "a@b", expectValid: false},
		{name: "missing at", input: "kofi.example.com", expectValid: false},
		{name: "spaces rejected", input: "ko fi@example.com", expectValid: false},
		{
			name:        "partial gmail suggests completion",
			input:       "kofi@gma",
			expectValid: false,
			suggestions: []string{"kofi@gmail.com"},
		},
		{
			name:        "bare at has no suggestions",
			input:       "kofi@",
			expectValid: false,
		},
		{
			name:        "partial hotmail suggests completion",
			input:       "kofi@hot",
			expectValid: false,
			suggestions: []string{"kofi@hotmail.com"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Email(tt.input)
			assert.Equal(t, tt.expectValid, result.IsValid)
			if tt.expectValid {
				assert.Empty(t, result.Error)
			} else {
				assert.NotEmpty(t, result.Error)
			}
			assert.Equal(t, tt.suggestions, result.Suggestions)
		})
	}
}

func TestPhoneNumber(t *testing.T) {
	tests := []struct {
		input       string
		expectValid bool
	}{
		{"", true},
		{"0241234567", true},
		{"024123456", false},   // 9 digits
		{"02412345678", false}, // 11 digits
		{"1241234567", false},  // no leading zero
		{"+233241234567", false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expectValid, PhoneNumber(tt.input).IsValid)
		})
	}
}

func TestPaymentPhoneNumber(t *testing.T) {
	tests := []struct {
		name            string
		input           string
		expectValid     bool
		expectFormatted string
	}{
		{name: "empty is valid", input: "", expectValid: true, expectFormatted: ""},
		{name: "local mtn", input: "0241234567", expectValid: true, expectFormatted: "024 123 4567"},
		{name: "country code", input: "+233541234567", expectValid: true, expectFormatted: "054 123 4567"},
		{name: "telecel", input: "0501234567", expectValid: true, expectFormatted: "050 123 4567"},
		{name: "landline prefix rejected", input: "0301234567", expectValid: false},
		{name: "too short", input: "024123456", expectValid: false},
		{name: "letters rejected", input: "024abc4567", expectValid: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, formatted := PaymentPhoneNumber(tt.input)
			assert.Equal(t, tt.expectValid, result.IsValid)
			assert.Equal(t, tt.expectFormatted, formatted)
		})
	}
}

func TestBankAccount(t *testing.T) {
	tests := []struct {
		input       string
		expectValid bool
	}{
		{"", true},
		{"1234567890", true},
		{"12345", false},
		{"12345678901", false},
		{"12345abcde", false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expectValid, BankAccount(tt.input).IsValid)
		})
	}
}

func TestAmount(t *testing.T) {
	tests := []struct {
		name        string
		input       string
		expectValid bool
		expectError string
	}{
		{name: "empty is valid", input: "", expectValid: true},
		{name: "mid range", input: "500", expectValid: true},
		{name: "decimal", input: "49.99", expectValid: true},
		{name: "lower bound", input: "1", expectValid: true},
		{name: "upper bound", input: "1000000", expectValid: true},
		{name: "zero rejected", input: "0", expectValid: false, expectError: "Amount must be at least GHS 1"},
		{name: "negative rejected", input: "-5", expectValid: false, expectError: "Amount must be at least GHS 1"},
		{name: "over cap", input: "1000001", expectValid: false},
		{name: "non numeric", input: "abc", expectValid: false, expectError: "Please enter a valid amount"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Amount(tt.input)
			assert.Equal(t, tt.expectValid, result.IsValid)
			if tt.expectError != "" {
				assert.Equal(t, tt.expectError, result.Error)
			}
		})
	}
}

func TestBusinessName(t *testing.T) {
	t.Run("valid name carries variants", func(t *testing.T) {
		result := BusinessName("Mensah")
		assert.True(t, result.IsValid)
		assert.Equal(t, []string{"Mensah Farm", "Mensah Farms", "Mensah Agro Ventures"}, result.Suggestions)
	})

	t.Run("single character rejected", func(t *testing.T) {
		result := BusinessName("M")
		assert.False(t, result.IsValid)
	})

	t.Run("empty is valid", func(t *testing.T) {
		result := BusinessName("")
		assert.True(t, result.IsValid)
		assert.Nil(t, result.Suggestions)
	})

	t.Run("whitespace only treated as empty", func(t *testing.T) {
		assert.True(t, BusinessName("   ").IsValid)
	})
}

func TestPasswordStrength(t *testing.T) {
	tests := []struct {
		name           string
		input          string
		expectValid    bool
		expectScore    int
		expectStrength string
	}{
		{name: "empty", input: "", expectValid: true, expectScore: 0, expectStrength: "weak"},
		{name: "lower only", input: "password", expectValid: false, expectScore: 2, expectStrength: "weak"},
		{name: "three criteria", input: "Password", expectValid: false, expectScore: 3, expectStrength: "medium"},
		{name: "four criteria", input: "Password1", expectValid: true, expectScore: 4, expectStrength: "strong"},
		{name: "all five", input: "Password1!", expectValid: true, expectScore: 5, expectStrength: "strong"},
		{name: "strong mix but short", input: "Pa1!", expectValid: false, expectScore: 4, expectStrength: "strong"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := PasswordStrength(tt.input)
			assert.Equal(t, tt.expectValid, result.IsValid)
			assert.Equal(t, tt.expectScore, result.Score)
			assert.Equal(t, tt.expectStrength, result.Strength)
		})
	}
}

func TestGhanaCard(t *testing.T) {
	tests := []struct {
		input       string
		expectValid bool
	}{
		{"", true},
		{"GHA-123456789-0", true},
		{"GHA1234567890", true},
		{"gha-123456789-0", true}, // case insensitive
		{"GHA-12345678-0", false},
		{"GH-123456789-0", false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expectValid, GhanaCard(tt.input).IsValid)
		})
	}
}

func TestTIN(t *testing.T) {
	tests := []struct {
		input       string
		expectValid bool
	}{
		{"", true},
		{"P0012345678", true},
		{"C0012345678", true},
		{"G0012345678", true},
		{"p0012345678", true}, // case insensitive
		{"X0012345678", false},
		{"P001234567", false},
		{"P00123456789", false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expectValid, TIN(tt.input).IsValid)
		})
	}
}
