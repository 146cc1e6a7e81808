package coreapi

import "context"

type GatewayClient interface {
	InitializeTransaction(ctx context.Context, request InitializeRequest) (*InitializeResponse, error)
	VerifyTransaction(ctx context.Context, reference string) (*VerifyResponse, error)
	ListBanks(ctx context.Context) ([]Bank, error)
	ResolveBankAccount(ctx context.Context, accountNumber, bankCode string) (*ResolveAccountResponse, error)
	CreateSubaccount(ctx context.Context, request SubaccountRequest) (*SubaccountResponse, error)
}
