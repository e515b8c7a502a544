/*
Package app links together all the various components
to construct the timelock escrow application.
*/
package app

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/iov-one/timelock"
	"github.com/iov-one/timelock/app"
	"github.com/iov-one/timelock/errors"
	"github.com/iov-one/timelock/orm"
	"github.com/iov-one/timelock/store/iavl"
	"github.com/iov-one/timelock/x"
	"github.com/iov-one/timelock/x/cash"
	"github.com/iov-one/timelock/x/escrow"
	"github.com/iov-one/timelock/x/fungible"
	"github.com/iov-one/timelock/x/sigs"
	"github.com/iov-one/timelock/x/utils"
	dbm "github.com/tendermint/tendermint/libs/db"
)

// Authenticator returns the typical authentication,
// just using public key signatures
func Authenticator() x.Authenticator {
	return x.ChainAuth(sigs.Authenticate{})
}

// Chain returns a chain of decorators, to handle authentication,
// logging, metrics and recovery
func Chain(metrics utils.Metrics) app.Decorators {
	return app.ChainDecorators(
		utils.NewLogging(),
		metrics,
		utils.NewRecovery(),
		// on CheckTx, bad tx don't affect state
		utils.NewSavepoint().OnCheck(),
		sigs.NewDecorator(),
		// on DeliverTx, bad tx will increment nonce
		// even if the message fails
		utils.NewSavepoint().OnDeliver(),
	)
}

// Router returns a router dispatching native transfers, token ledger and
// escrow messages.
func Router(authFn x.Authenticator, clock escrow.Clock) *app.Router {
	r := app.NewRouter()
	wallets := cash.NewController(cash.NewBucket())
	ledger := fungible.NewLedger()
	cash.RegisterRoutes(r, authFn, wallets)
	fungible.RegisterRoutes(r, authFn, ledger)
	escrow.RegisterRoutes(r, authFn, escrow.NewController(wallets, ledger, clock))
	return r
}

// QueryRouter returns a default query router,
// allowing access to "/wallets", "/mints", "/holdings", "/escrows",
// "/auth" and "/"
func QueryRouter() timelock.QueryRouter {
	r := timelock.NewQueryRouter()
	r.RegisterAll(
		escrow.RegisterQuery,
		cash.RegisterQuery,
		fungible.RegisterQuery,
		sigs.RegisterQuery,
		orm.RegisterKeyQuery,
	)
	return r
}

// Stack wires up a standard router with a standard decorator
// chain. This can be passed into BaseApp.
func Stack(clock escrow.Clock, metrics utils.Metrics) timelock.Handler {
	authFn := Authenticator()
	return Chain(metrics).WithHandler(Router(authFn, clock))
}

// Application constructs a basic ABCI application with
// the given arguments. If you are not sure what to use
// for the Handler, just use Stack().
func Application(name string, h timelock.Handler,
	tx timelock.TxDecoder, dbPath string, debug bool) (app.BaseApp, error) {

	ctx := context.Background()
	kv, err := CommitKVStore(dbPath)
	if err != nil {
		return app.BaseApp{}, errors.Wrap(err, "cannot create database instance")
	}
	store := app.NewStoreApp(name, kv, QueryRouter(), ctx)
	base := app.NewBaseApp(store, tx, h, debug)
	return base, nil
}

// CommitKVStore returns an initialized KVStore that persists
// the data to the named path.
func CommitKVStore(dbPath string) (timelock.CommitKVStore, error) {
	// memory backed case, just for testing
	if dbPath == "" {
		return iavl.NewCommitStoreFromDB(dbm.NewMemDB()), nil
	}

	// Expand the path fully
	path, err := filepath.Abs(dbPath)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrInput, "invalid database name: %s", dbPath)
	}

	// Some external calls accidentally add a ".db", which is now removed
	path = strings.TrimSuffix(path, filepath.Ext(path))

	// Split the database name into it's components (dir, name)
	dir := filepath.Dir(path)
	name := filepath.Base(path)
	return iavl.NewCommitStore(dir, name)
}
