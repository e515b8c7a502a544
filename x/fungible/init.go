package fungible

import (
	"github.com/iov-one/timelock"
	"github.com/iov-one/timelock/errors"
)

const optKey = "fungible"

// GenesisMint declares a token type created at genesis.
type GenesisMint struct {
	Ticker    string           `json:"ticker"`
	Authority timelock.Address `json:"authority"`
	Decimals  int32            `json:"decimals"`
}

// GenesisAccount declares a holding account created at genesis. Amount is
// minted into the account and counted into the mint supply.
type GenesisAccount struct {
	Owner  timelock.Address `json:"owner"`
	Ticker string           `json:"ticker"`
	Amount uint64           `json:"amount"`
}

// Genesis is the layout of the "fungible" section of the genesis file.
type Genesis struct {
	Mints    []GenesisMint    `json:"mints"`
	Accounts []GenesisAccount `json:"accounts"`
}

// Initializer fulfils the Initializer interface to load data from
// the genesis file
type Initializer struct{}

var _ timelock.Initializer = Initializer{}

// FromGenesis creates all declared mints first and then opens and funds the
// holding accounts.
func (Initializer) FromGenesis(opts timelock.Options, params timelock.GenesisParams, kv timelock.KVStore) error {
	var gen Genesis
	if err := opts.ReadOptions(optKey, &gen); err != nil {
		return err
	}

	ledger := NewLedger()
	for i, m := range gen.Mints {
		mint := &Mint{Ticker: m.Ticker, Authority: m.Authority, Decimals: m.Decimals}
		if _, err := ledger.CreateMint(kv, mint); err != nil {
			return errors.Wrapf(err, "mint #%d", i)
		}
	}
	for i, a := range gen.Accounts {
		mint := MintAddress(a.Ticker)
		holding, err := ledger.OpenAccount(kv, a.Owner, mint)
		if err != nil {
			return errors.Wrapf(err, "account #%d", i)
		}
		if a.Amount == 0 {
			continue
		}
		if err := ledger.MintTo(kv, mint, holding, a.Amount); err != nil {
			return errors.Wrapf(err, "account #%d", i)
		}
	}
	return nil
}
