// Package custody is the FracVault escrow and governance engine.
//
// An Engine runs the listing lifecycle (create, contribute, execute, refund,
// reclaim), the governance operations (propose, vote) and reward distribution
// (register, claim) against a record store, a ledger and a clock. Every
// operation runs as one store transaction: records are validated and staged
// first, the ledger transfer runs last, and any failure discards the staged
// writes.
package custody

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/bitfsorg/fracvault-go/clock"
	"github.com/bitfsorg/fracvault-go/config"
	"github.com/bitfsorg/fracvault-go/ledger"
	"github.com/bitfsorg/fracvault-go/record"
	"github.com/bitfsorg/fracvault-go/store"
)

const (
	// MinDeadlineOffset and MaxDeadlineOffset bound listing and vote deadlines.
	MinDeadlineOffset int64 = 3600
	MaxDeadlineOffset int64 = 604800

	// DeadlineMargin is how long before a deadline contributions and votes close.
	DeadlineMargin int64 = 60

	// ExecutionWindow is how long after funding a purchase may be executed.
	ExecutionWindow int64 = 86400
)

// Engine runs custody operations.
type Engine struct {
	store  store.Store
	ledger ledger.Service
	clock  clock.Clock
	log    *zap.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the engine logger. The default discards everything.
func WithLogger(l *zap.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.log = l
		}
	}
}

// New creates an Engine over the given collaborators.
func New(s store.Store, l ledger.Service, c clock.Clock, opts ...Option) *Engine {
	e := &Engine{store: s, ledger: l, clock: c, log: zap.NewNop()}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Open validates cfg, opens the configured record store and logger, and
// returns an Engine. The caller must Close it.
func Open(cfg config.Config, l ledger.Service, c clock.Clock) (*Engine, error) {
	if err := config.ValidateConfig(cfg); err != nil {
		return nil, err
	}
	logger, err := config.NewLogger(cfg)
	if err != nil {
		return nil, err
	}

	var s store.Store
	switch cfg.Store {
	case config.StoreMemory:
		s = store.NewMemStore()
	default:
		bs, err := store.OpenBoltStore(config.RecordsPath(cfg.DataDir))
		if err != nil {
			return nil, fmt.Errorf("custody: open store: %w", err)
		}
		s = bs
	}

	logger.Info("engine opened",
		zap.String("store", cfg.Store),
		zap.String("datadir", cfg.DataDir))
	return New(s, l, c, WithLogger(logger)), nil
}

// Close closes the record store and flushes the logger.
func (e *Engine) Close() error {
	_ = e.log.Sync()
	return e.store.Close()
}

// Result holds the output of a committed operation.
type Result struct {
	OpID    uuid.UUID      // unique id of this operation
	Address record.Address // primary record created or updated
	Amount  uint64         // value or share moved, per operation
	Message string         // human-readable summary
}

// op is the state of one running operation.
type op struct {
	ctx    context.Context
	tx     store.Tx
	ledger ledger.Service
	now    int64
	moved  bool
	fields []zap.Field
}

func (o *op) log(fields ...zap.Field) {
	o.fields = append(o.fields, fields...)
}

func (o *op) balance(asset record.AssetID, account ledger.Account) (uint64, error) {
	v, err := o.ledger.Balance(o.ctx, asset, account)
	if err != nil {
		return 0, fmt.Errorf("%w: balance: %w", ErrLedger, err)
	}
	return v, nil
}

func (o *op) openEscrow(account ledger.Account, owner record.Address) error {
	if err := o.ledger.OpenEscrow(o.ctx, account, owner); err != nil {
		return fmt.Errorf("%w: open escrow: %w", ErrLedger, err)
	}
	return nil
}

// transfer applies the non-zero moves as one batch. It must be the last
// step of an operation.
func (o *op) transfer(auth ledger.Authority, moves ...ledger.Move) error {
	batch := ledger.NewBatch()
	for _, m := range moves {
		if m.Amount > 0 {
			batch.Add(m)
		}
	}
	if len(batch.Moves()) == 0 {
		return nil
	}
	if err := o.ledger.Transfer(o.ctx, auth, batch); err != nil {
		return fmt.Errorf("%w: transfer: %w", ErrLedger, err)
	}
	o.moved = true
	return nil
}

// run executes fn inside one store transaction and logs the outcome.
func (e *Engine) run(ctx context.Context, name string, fn func(o *op) (*Result, error)) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	o := &op{ctx: ctx, ledger: e.ledger}
	var res *Result
	err := e.store.Update(func(tx store.Tx) error {
		o.tx = tx
		o.now = e.clock.Now()
		r, err := fn(o)
		if err != nil {
			return err
		}
		res = r
		return nil
	})
	if err != nil {
		fields := append([]zap.Field{zap.String("op", name), zap.Error(err)}, o.fields...)
		if o.moved {
			e.log.Error("commit failed after transfer", fields...)
		} else {
			e.log.Debug("operation rejected", fields...)
		}
		return nil, err
	}

	res.OpID = uuid.New()
	fields := append([]zap.Field{
		zap.String("op", name),
		zap.String("op_id", res.OpID.String()),
		zap.Stringer("address", res.Address),
		zap.Uint64("amount", res.Amount),
	}, o.fields...)
	e.log.Info(res.Message, fields...)
	return res, nil
}

// view runs fn in a read-only transaction.
func (e *Engine) view(ctx context.Context, fn func(tx store.Tx) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return e.store.View(fn)
}
