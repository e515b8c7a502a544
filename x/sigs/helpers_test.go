package sigs

import (
	"github.com/iov-one/timelock"
	"github.com/iov-one/timelock/weavetest"
)

// StdTx wraps a weavetest.Tx with signatures so it can pass through the
// Decorator.
type StdTx struct {
	weavetest.Tx
	Signatures []*StdSignature
}

var _ SignedTx = (*StdTx)(nil)

func NewStdTx(payload []byte) *StdTx {
	return &StdTx{
		Tx: weavetest.Tx{Msg: &weavetest.Msg{RoutePath: "sigs/test", Serialized: payload}},
	}
}

func (tx StdTx) GetSignatures() []*StdSignature {
	return tx.Signatures
}

func (tx StdTx) GetSignBytes() ([]byte, error) {
	msg, err := tx.GetMsg()
	if err != nil {
		return nil, err
	}
	return msg.Marshal()
}

// SigCheckHandler stores the seen signers on each call.
type SigCheckHandler struct {
	Signers []timelock.Condition
}

var _ timelock.Handler = (*SigCheckHandler)(nil)

func (s *SigCheckHandler) Check(ctx timelock.Context, store timelock.KVStore, tx timelock.Tx) (*timelock.CheckResult, error) {
	s.Signers = Authenticate{}.GetConditions(ctx)
	return &timelock.CheckResult{}, nil
}

func (s *SigCheckHandler) Deliver(ctx timelock.Context, store timelock.KVStore, tx timelock.Tx) (*timelock.DeliverResult, error) {
	s.Signers = Authenticate{}.GetConditions(ctx)
	return &timelock.DeliverResult{}, nil
}
