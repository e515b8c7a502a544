package sigs

import (
	"github.com/iov-one/timelock"
	"github.com/iov-one/timelock/errors"
)

// signatureVerifyCost is the gas charged on check for every signature.
const signatureVerifyCost = 500

// RegisterQuery exposes the signer accounts under "/auth".
func RegisterQuery(qr timelock.QueryRouter) {
	NewBucket().Register("auth", qr)
}

// Decorator verifies the transaction signatures and puts the signers into
// the context, where Authenticate finds them. Every transaction must carry
// at least one valid signature.
type Decorator struct{}

var _ timelock.Decorator = Decorator{}

// NewDecorator returns the signature verifying decorator.
func NewDecorator() Decorator {
	return Decorator{}
}

// Check verifies signatures before calling down the stack and charges gas
// for each of them.
func (d Decorator) Check(ctx timelock.Context, db timelock.KVStore, tx timelock.Tx, next timelock.Checker) (*timelock.CheckResult, error) {
	ctx, n, err := authenticate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	res, err := next.Check(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	res.GasPayment += int64(n * signatureVerifyCost)
	return res, nil
}

// Deliver verifies signatures before calling down the stack.
func (d Decorator) Deliver(ctx timelock.Context, db timelock.KVStore, tx timelock.Tx, next timelock.Deliverer) (*timelock.DeliverResult, error) {
	ctx, _, err := authenticate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	return next.Deliver(ctx, db, tx)
}

func authenticate(ctx timelock.Context, db timelock.KVStore, tx timelock.Tx) (timelock.Context, int, error) {
	stx, ok := tx.(SignedTx)
	if !ok {
		return nil, 0, errors.Wrap(errors.ErrUnauthorized, "transaction does not support signatures")
	}
	signers, err := VerifyTxSignatures(db, stx, timelock.GetChainID(ctx))
	if err != nil {
		return nil, 0, errors.Wrap(err, "cannot verify signatures")
	}
	if len(signers) == 0 {
		return nil, 0, errors.Wrap(errors.ErrUnauthorized, "missing signature")
	}
	return withSigners(ctx, signers), len(signers), nil
}
