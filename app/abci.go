package app

import (
	"github.com/iov-one/timelock"
	"github.com/iov-one/timelock/errors"
	abci "github.com/tendermint/tendermint/abci/types"
)

// checkOrError returns an abci response for a CheckTx call. When err is
// not nil the result is ignored.
func checkOrError(result *timelock.CheckResult, err error, debug bool) abci.ResponseCheckTx {
	if err != nil {
		return checkTxError(err, debug)
	}
	return abci.ResponseCheckTx{
		Data:      result.Data,
		Log:       result.Log,
		GasWanted: result.GasAllocated,
	}
}

func checkTxError(err error, debug bool) abci.ResponseCheckTx {
	code, log := errors.ABCIInfo(err, debug)
	return abci.ResponseCheckTx{
		Code: code,
		Log:  log,
	}
}

// deliverOrError returns an abci response for a DeliverTx call. When err
// is not nil the result is ignored.
func deliverOrError(result *timelock.DeliverResult, err error, debug bool) abci.ResponseDeliverTx {
	if err != nil {
		return deliverTxError(err, debug)
	}
	return abci.ResponseDeliverTx{
		Data:    result.Data,
		Log:     result.Log,
		GasUsed: result.GasUsed,
	}
}

func deliverTxError(err error, debug bool) abci.ResponseDeliverTx {
	code, log := errors.ABCIInfo(err, debug)
	return abci.ResponseDeliverTx{
		Code: code,
		Log:  log,
	}
}

// queryError returns an abci response for a failed query. Internal error
// details are never exposed.
func queryError(err error) abci.ResponseQuery {
	code, log := errors.ABCIInfo(err, false)
	return abci.ResponseQuery{
		Code: code,
		Log:  log,
	}
}
