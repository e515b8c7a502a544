package escrow

import (
	"github.com/iov-one/timelock"
	"github.com/iov-one/timelock/errors"
	"github.com/iov-one/timelock/gconf"
)

// Initializer loads the escrow configuration from the "conf" section of the
// genesis file.
type Initializer struct{}

var _ timelock.Initializer = Initializer{}

// FromGenesis stores the "conf.escrow" configuration. A genesis without it
// is accepted, but no escrow can be released until a configuration exists.
func (Initializer) FromGenesis(opts timelock.Options, params timelock.GenesisParams, db timelock.KVStore) error {
	err := gconf.InitConfig(db, opts, configPkg, &Configuration{})
	if errors.ErrNotFound.Is(err) {
		return nil
	}
	return err
}
