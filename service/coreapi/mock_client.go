package coreapi

import (
	"context"

	"github.com/stretchr/testify/mock"
)

// MockClient is a mock implementation of the GatewayClient interface.
type MockClient struct {
	mock.Mock
}

// InitializeTransaction mocks the InitializeTransaction method.
func (m *MockClient) InitializeTransaction(ctx context.Context, request InitializeRequest) (*InitializeResponse, error) {
	args := m.Called(ctx, request)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*InitializeResponse), args.Error(1)
}

// VerifyTransaction mocks the VerifyTransaction method.
func (m *MockClient) VerifyTransaction(ctx context.Context, reference string) (*VerifyResponse, error) {
	args := m.Called(ctx, reference)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*VerifyResponse), args.Error(1)
}

// ListBanks mocks the ListBanks method.
func (m *MockClient) ListBanks(ctx context.Context) ([]Bank, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]Bank), args.Error(1)
}

// ResolveBankAccount mocks the ResolveBankAccount method.
func (m *MockClient) ResolveBankAccount(ctx context.Context, accountNumber, bankCode string) (*ResolveAccountResponse, error) {
	args := m.Called(ctx, accountNumber, bankCode)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ResolveAccountResponse), args.Error(1)
}

// CreateSubaccount mocks the CreateSubaccount method.
func (m *MockClient) CreateSubaccount(ctx context.Context, request SubaccountRequest) (*SubaccountResponse, error) {
	args := m.Called(ctx, request)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*SubaccountResponse), args.Error(1)
}
