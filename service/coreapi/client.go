package coreapi

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// Client talks to the Paystack REST API. All amounts cross this
// boundary in minor currency units.
type Client struct {
	SecretKey  string
	PublicKey  string
	BaseURL    string
	HttpClient *http.Client
}

// New creates a gateway client with a hardened transport.
func New(secretKey, publicKey, baseURL string) *Client {
	tr := &http.Transport{
		TLSClientConfig: &tls.Config{
			MinVersion: tls.VersionTLS12,
		},
		MaxIdleConns:       10,
		IdleConnTimeout:    30 * time.Second,
		DisableCompression: true,
	}

	httpClient := &http.Client{
		Transport: tr,
		Timeout:   30 * time.Second,
	}

	return &Client{
		SecretKey:  secretKey,
		PublicKey:  publicKey,
		BaseURL:    baseURL,
		HttpClient: httpClient,
	}
}

// MobileMoneyDetails rides along on an initialisation when the buyer
// pays from a carrier wallet.
type MobileMoneyDetails struct {
	Phone    string `json:"phone"`
	Provider string `json:"provider"`
}

type InitializeRequest struct {
	Email       string              `json:"email"`
	Amount      int64               `json:"amount"`
	Currency    string              `json:"currency"`
	Reference   string              `json:"reference"`
	CallbackURL string              `json:"callback_url,omitempty"`
	Channels    []string            `json:"channels,omitempty"`
	Subaccount  string              `json:"subaccount,omitempty"`
	MobileMoney *MobileMoneyDetails `json:"mobile_money,omitempty"`
	Metadata    map[string]string   `json:"metadata,omitempty"`
}

type InitializeResponse struct {
	Status  bool   `json:"status"`
	Message string `json:"message"`
	Data    struct {
		AuthorizationURL string `json:"authorization_url"`
		AccessCode       string `json:"access_code"`
		Reference        string `json:"reference"`
	} `json:"data"`
}

// TransactionData is the verified state of a transaction as the
// gateway reports it.
type TransactionData struct {
	Status          string    `json:"status"`
	Reference       string    `json:"reference"`
	Amount          int64     `json:"amount"`
	GatewayResponse string    `json:"gateway_response"`
	PaidAt          time.Time `json:"paid_at"`
	Channel         string    `json:"channel"`
	Currency        string    `json:"currency"`
	Fees            int64     `json:"fees"`
}

type VerifyResponse struct {
	Status  bool            `json:"status"`
	Message string          `json:"message"`
	Data    TransactionData `json:"data"`
}

type Bank struct {
	Name     string `json:"name"`
	Code     string `json:"code"`
	Currency string `json:"currency"`
}

type ResolveAccountResponse struct {
	Status  bool   `json:"status"`
	Message string `json:"message"`
	Data    struct {
		AccountNumber string `json:"account_number"`
		AccountName   string `json:"account_name"`
	} `json:"data"`
}

type SubaccountRequest struct {
	BusinessName     string  `json:"business_name"`
	SettlementBank   string  `json:"settlement_bank"`
	AccountNumber    string  `json:"account_number"`
	PercentageCharge float64 `json:"percentage_charge"`
}

type SubaccountResponse struct {
	Status  bool   `json:"status"`
	Message string `json:"message"`
	Data    struct {
		SubaccountCode string `json:"subaccount_code"`
	} `json:"data"`
}

type apiError struct {
	Status  bool   `json:"status"`
	Message string `json:"message"`
}

// InitializeTransaction creates a transaction on the gateway and
// returns the access code and checkout URL the buyer completes it on.
func (c *Client) InitializeTransaction(ctx context.Context, request InitializeRequest) (*InitializeResponse, error) {
	endpoint := fmt.Sprintf("%s/transaction/initialize", c.BaseURL)

	var response InitializeResponse
	if err := c.post(ctx, endpoint, request, &response); err != nil {
		return nil, err
	}
	if !response.Status {
		return nil, fmt.Errorf("payment initialisation rejected: %s", response.Message)
	}
	return &response, nil
}

// VerifyTransaction asks the gateway for the settled state of a
// reference after checkout reports completion.
func (c *Client) VerifyTransaction(ctx context.Context, reference string) (*VerifyResponse, error) {
	endpoint := fmt.Sprintf("%s/transaction/verify/%s", c.BaseURL, url.PathEscape(reference))

	var response VerifyResponse
	if err := c.get(ctx, endpoint, &response); err != nil {
		return nil, err
	}
	if !response.Status {
		return nil, fmt.Errorf("verification rejected: %s", response.Message)
	}
	return &response, nil
}

// ListBanks fetches the supported settlement banks for Ghana.
func (c *Client) ListBanks(ctx context.Context) ([]Bank, error) {
	endpoint := fmt.Sprintf("%s/bank?country=ghana", c.BaseURL)

	var response struct {
		Status  bool   `json:"status"`
		Message string `json:"message"`
		Data    []Bank `json:"data"`
	}
	if err := c.get(ctx, endpoint, &response); err != nil {
		return nil, err
	}
	if !response.Status {
		return nil, fmt.Errorf("bank listing rejected: %s", response.Message)
	}
	return response.Data, nil
}

// ResolveBankAccount looks up the holder name behind an account number.
func (c *Client) ResolveBankAccount(ctx context.Context, accountNumber, bankCode string) (*ResolveAccountResponse, error) {
	endpoint := fmt.Sprintf("%s/bank/resolve?account_number=%s&bank_code=%s",
		c.BaseURL, url.QueryEscape(accountNumber), url.QueryEscape(bankCode))

	var response ResolveAccountResponse
	if err := c.get(ctx, endpoint, &response); err != nil {
		return nil, err
	}
	if !response.Status {
		return nil, fmt.Errorf("account resolution rejected: %s", response.Message)
	}
	return &response, nil
}

// CreateSubaccount registers a farmer's settlement split with the gateway.
func (c *Client) CreateSubaccount(ctx context.Context, request SubaccountRequest) (*SubaccountResponse, error) {
	endpoint := fmt.Sprintf("%s/subaccount", c.BaseURL)

	var response SubaccountResponse
	if err := c.post(ctx, endpoint, request, &response); err != nil {
		return nil, err
	}
	if !response.Status {
		return nil, fmt.Errorf("subaccount creation rejected: %s", response.Message)
	}
	return &response, nil
}

func (c *Client) post(ctx context.Context, endpoint string, body any, out any) error {
	jsonBody, err := json.Marshal(body)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewBuffer(jsonBody))
	if err != nil {
		return err
	}
	return c.do(req, out)
}

func (c *Client) get(ctx context.Context, endpoint string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return err
	}
	return c.do(req, out)
}

func (c *Client) do(req *http.Request, out any) error {
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.SecretKey)

	resp, err := c.HttpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		var apiErr apiError
		if jsonErr := json.Unmarshal(respBody, &apiErr); jsonErr == nil && apiErr.Message != "" {
			return fmt.Errorf("gateway error: %s", apiErr.Message)
		}
		return fmt.Errorf("gateway request failed: %s, body: %s", resp.Status, string(respBody))
	}

	return json.Unmarshal(respBody, out)
}
