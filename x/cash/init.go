package cash

import (
	"github.com/iov-one/timelock"
	"github.com/iov-one/timelock/errors"
)

const optKey = "cash"

// GenesisAccount is used to parse the json from genesis file
// use timelock.Address, so address in hex, not base64
type GenesisAccount struct {
	Address timelock.Address `json:"address"`
	Balance uint64           `json:"balance"`
}

// Initializer fulfils the Initializer interface to load data from
// the genesis file
type Initializer struct{}

var _ timelock.Initializer = Initializer{}

// FromGenesis will parse initial account info from genesis
// and save it to the database
func (Initializer) FromGenesis(opts timelock.Options, params timelock.GenesisParams, kv timelock.KVStore) error {
	control := NewController(NewBucket())
	stream := opts.Stream(optKey)
	for {
		var acct GenesisAccount
		switch err := stream(&acct); {
		case errors.ErrEmpty.Is(err):
			return nil
		case err != nil:
			return errors.Wrap(err, "cannot load wallet")
		}
		if err := control.CoinMint(kv, acct.Address, acct.Balance); err != nil {
			return errors.Wrapf(err, "cannot fund %s", acct.Address)
		}
	}
}
