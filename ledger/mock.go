package ledger

import (
	"context"

	"github.com/bitfsorg/fracvault-go/record"
)

// MockService is a test double for Service.
// All function fields must be set before the corresponding method is called.
type MockService struct {
	OpenEscrowFn func(ctx context.Context, account Account, owner record.Address) error
	BalanceFn    func(ctx context.Context, asset record.AssetID, account Account) (uint64, error)
	TransferFn   func(ctx context.Context, auth Authority, batch *Batch) error
}

func (m *MockService) OpenEscrow(ctx context.Context, account Account, owner record.Address) error {
	return m.OpenEscrowFn(ctx, account, owner)
}
func (m *MockService) Balance(ctx context.Context, asset record.AssetID, account Account) (uint64, error) {
	return m.BalanceFn(ctx, asset, account)
}
func (m *MockService) Transfer(ctx context.Context, auth Authority, batch *Batch) error {
	return m.TransferFn(ctx, auth, batch)
}

// Delegate returns a MockService whose methods forward to s. Tests override
// individual fields to inject faults.
func Delegate(s Service) *MockService {
	return &MockService{
		OpenEscrowFn: s.OpenEscrow,
		BalanceFn:    s.Balance,
		TransferFn:   s.Transfer,
	}
}
