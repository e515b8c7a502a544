package timelock

import (
	"encoding/json"

	"github.com/iov-one/timelock/errors"
)

// Handler is a core engine that can process a few specific messages
// This could represent "coin transfer", or "release an escrow"
type Handler interface {
	Checker
	Deliverer
}

// Checker is a subset of Handler to verify the validity of a transaction.
// It is its own interface to allow better type controls in the next
// arguments in Decorator
type Checker interface {
	Check(ctx Context, store KVStore, tx Tx) (*CheckResult, error)
}

// Deliverer is a subset of Handler to execute a transaction.
// It is its own interface to allow better type controls in the next
// arguments in Decorator
type Deliverer interface {
	Deliver(ctx Context, store KVStore, tx Tx) (*DeliverResult, error)
}

// Decorator wraps a Handler to provide common functionality
// like authentication, or fee-handling, to many Handlers
type Decorator interface {
	Check(ctx Context, store KVStore, tx Tx, next Checker) (*CheckResult, error)
	Deliver(ctx Context, store KVStore, tx Tx, next Deliverer) (*DeliverResult, error)
}

// Registry is an interface to register your handler,
// the setup side of a Router
type Registry interface {
	// Handle assigns given handler to handle processing of every message
	// of provided type.
	// Using a message path is the only way to specify the message type.
	Handle(m Msg, h Handler)
}

// CheckResult captures any non-error abci result
// to make sure people use error for error cases
type CheckResult struct {
	// Data is a machine-parseable return value, like id of created entity
	Data []byte
	// Log is human-readable informational string
	Log string
	// GasAllocated is the maximum units of work we allow this tx to perform
	GasAllocated int64
	// GasPayment is the total fees for this tx (or other source of payment)
	GasPayment int64
}

// NewCheck sets the gas used and the response data but no more info
// these are the most common info needed to be set by the Handler
func NewCheck(gasAllocated int64, log string) *CheckResult {
	return &CheckResult{
		GasAllocated: gasAllocated,
		Log:          log,
	}
}

// DeliverResult captures any non-error abci result
// to make sure people use error for error cases
type DeliverResult struct {
	// Data is a machine-parseable return value, like id of created entity
	Data []byte
	// Log is human-readable informational string
	Log string
	// GasUsed is the amount of gas actually consumed
	GasUsed int64
}

// Options are the app state options
// Each extension can look up it's key and parse the json as desired
type Options map[string]json.RawMessage

// ReadOptions reads the values stored under a given key,
// and parses the json into the given obj.
// Returns an error if it cannot parse.
// Noop and no error if key is missing
func (o Options) ReadOptions(key string, obj interface{}) error {
	msg := o[key]
	if len(msg) == 0 {
		return nil
	}
	if err := json.Unmarshal(msg, obj); err != nil {
		return errors.Wrapf(errors.ErrInput, "cannot decode %q options: %s", key, err)
	}
	return nil
}

// Stream expects an array of json elements and allows to process them sequentially
// this helps when one needs to parse a large json without having any memory leaks.
// Returns ErrEmpty on the end of input and ErrInput in case of a wrong data type.
func (o Options) Stream(key string) func(obj interface{}) error {
	msg := o[key]
	var elems []json.RawMessage
	err := json.Unmarshal(msg, &elems)
	i := 0
	return func(obj interface{}) error {
		if len(msg) == 0 {
			return errors.ErrEmpty
		}
		if err != nil {
			return errors.Wrapf(errors.ErrInput, "%q must be a list: %s", key, err)
		}
		if i >= len(elems) {
			return errors.ErrEmpty
		}
		if err := json.Unmarshal(elems[i], obj); err != nil {
			return errors.Wrapf(errors.ErrInput, "cannot decode %q element %d: %s", key, i, err)
		}
		i++
		return nil
	}
}

// Initializer implementations are used to initialize
// extensions from genesis file contents
type Initializer interface {
	FromGenesis(opts Options, params GenesisParams, kv KVStore) error
}

// GenesisParams represent the chain level values of the genesis file
// that extensions may want to read during initialization.
type GenesisParams struct {
	ChainID string
}
