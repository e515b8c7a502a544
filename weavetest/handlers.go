package weavetest

import "github.com/iov-one/timelock"

// Handler is a mock implementation of the timelock.Handler interface.
//
// Set CheckErr or DeliverErr to force error response for corresponding method.
// Each method call is counted.
type Handler struct {
	checkCall   int
	CheckResult timelock.CheckResult
	CheckErr    error

	deliverCall   int
	DeliverResult timelock.DeliverResult
	DeliverErr    error
}

var _ timelock.Handler = (*Handler)(nil)

func (h *Handler) Check(ctx timelock.Context, db timelock.KVStore, tx timelock.Tx) (*timelock.CheckResult, error) {
	h.checkCall++
	if h.CheckErr != nil {
		return nil, h.CheckErr
	}
	// Return a copy so that the caller cannot modify the template.
	res := h.CheckResult
	return &res, nil
}

func (h *Handler) Deliver(ctx timelock.Context, db timelock.KVStore, tx timelock.Tx) (*timelock.DeliverResult, error) {
	h.deliverCall++
	if h.DeliverErr != nil {
		return nil, h.DeliverErr
	}
	res := h.DeliverResult
	return &res, nil
}

func (h *Handler) CheckCallCount() int {
	return h.checkCall
}

func (h *Handler) DeliverCallCount() int {
	return h.deliverCall
}

func (h *Handler) CallCount() int {
	return h.checkCall + h.deliverCall
}

// WriteHandler writes the key value pair to the store on every call and
// returns given error. It allows to test that writes are discarded when a
// transaction fails.
type WriteHandler struct {
	Key   []byte
	Value []byte
	Err   error
}

var _ timelock.Handler = (*WriteHandler)(nil)

func (h *WriteHandler) Check(ctx timelock.Context, db timelock.KVStore, tx timelock.Tx) (*timelock.CheckResult, error) {
	if err := db.Set(h.Key, h.Value); err != nil {
		return nil, err
	}
	if h.Err != nil {
		return nil, h.Err
	}
	return &timelock.CheckResult{}, nil
}

func (h *WriteHandler) Deliver(ctx timelock.Context, db timelock.KVStore, tx timelock.Tx) (*timelock.DeliverResult, error) {
	if err := db.Set(h.Key, h.Value); err != nil {
		return nil, err
	}
	if h.Err != nil {
		return nil, h.Err
	}
	return &timelock.DeliverResult{}, nil
}

// PanicHandler panics on every call.
type PanicHandler struct {
	Msg string
}

var _ timelock.Handler = PanicHandler{}

func (h PanicHandler) Check(timelock.Context, timelock.KVStore, timelock.Tx) (*timelock.CheckResult, error) {
	panic(h.Msg)
}

func (h PanicHandler) Deliver(timelock.Context, timelock.KVStore, timelock.Tx) (*timelock.DeliverResult, error) {
	panic(h.Msg)
}
