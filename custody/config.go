package custody

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/bitfsorg/fracvault-go/bps"
	"github.com/bitfsorg/fracvault-go/config"
	"github.com/bitfsorg/fracvault-go/identity"
	"github.com/bitfsorg/fracvault-go/record"
	"github.com/bitfsorg/fracvault-go/store"
)

// InitializeConfig creates the custody configuration. It can succeed only
// once; the authority is recorded but grants no further privileges.
func (e *Engine) InitializeConfig(ctx context.Context, authority, feeDest identity.Identity, feeBps uint16) (*Result, error) {
	return e.run(ctx, "initialize_config", func(o *op) (*Result, error) {
		o.log(zap.Stringer("authority", authority), zap.Stringer("fee_destination", feeDest))
		if feeBps != config.DefaultCustodyFeeBps {
			return nil, fmt.Errorf("%w: got %d", ErrInvalidFee, feeBps)
		}

		cfg := &record.Config{
			Authority:      authority,
			CustodyFeeBps:  feeBps,
			FeeDestination: feeDest,
		}
		addr := record.ConfigAddress()
		if err := create(o.tx, addr, cfg); err != nil {
			if errors.Is(err, store.ErrAlreadyExists) {
				return nil, ErrAlreadyInitialized
			}
			return nil, err
		}
		return &Result{
			Address: addr,
			Message: "config initialized, custody fee " + bps.Percent(feeBps),
		}, nil
	})
}

// InitializeFromConfig initializes the custody configuration from the
// process config's fee settings.
func (e *Engine) InitializeFromConfig(ctx context.Context, authority identity.Identity, cfg config.Config) (*Result, error) {
	dest, err := cfg.FeeDestinationIdentity()
	if err != nil {
		return nil, err
	}
	return e.InitializeConfig(ctx, authority, dest, cfg.CustodyFeeBps)
}
