package gconf

import (
	"github.com/iov-one/timelock"
	"github.com/iov-one/timelock/errors"
)

// ReadStore is the part of timelock.ReadOnlyKVStore needed to load a
// configuration.
type ReadStore interface {
	Get([]byte) ([]byte, error)
}

// Store is the part of timelock.KVStore needed to save a configuration.
type Store interface {
	ReadStore
	Set([]byte, []byte) error
}

// Configuration is the singleton configuration of one extension. It is
// validated before every write.
type Configuration interface {
	Marshal() ([]byte, error)
	Unmarshal([]byte) error
	Validate() error
}

// Each package configuration lives under its own key in the reserved "_c:"
// namespace.
func configKey(pkg string) []byte {
	return []byte("_c:" + pkg)
}

// Save validates and writes the configuration of pkg, replacing any
// previous one.
func Save(db Store, pkg string, conf Configuration) error {
	if err := conf.Validate(); err != nil {
		return errors.Wrapf(err, "invalid %s configuration", pkg)
	}
	raw, err := conf.Marshal()
	if err != nil {
		return errors.Wrapf(err, "marshal %s configuration", pkg)
	}
	return errors.Wrap(db.Set(configKey(pkg), raw), "save configuration")
}

// Load reads the configuration of pkg into dst. ErrNotFound is returned if
// none was saved.
func Load(db ReadStore, pkg string, dst Configuration) error {
	raw, err := db.Get(configKey(pkg))
	switch {
	case err != nil:
		return errors.Wrap(errors.ErrDatabase, err.Error())
	case raw == nil:
		return errors.Wrapf(errors.ErrNotFound, "no %s configuration", pkg)
	}
	return errors.Wrapf(dst.Unmarshal(raw), "unmarshal %s configuration", pkg)
}

// InitConfig reads the genesis section conf.<pkg> into conf and saves it.
// Every extension that calls it requires its configuration to be present.
func InitConfig(db Store, opts timelock.Options, pkg string, conf Configuration) error {
	var sections timelock.Options
	if err := opts.ReadOptions("conf", &sections); err != nil {
		return errors.Wrap(err, "read conf")
	}
	if _, ok := sections[pkg]; !ok {
		return errors.Wrapf(errors.ErrNotFound, "no configuration in genesis for %q package", pkg)
	}
	if err := sections.ReadOptions(pkg, conf); err != nil {
		return errors.Wrapf(err, "read configuration for %s", pkg)
	}
	return errors.Wrapf(Save(db, pkg, conf), "save configuration for %s", pkg)
}
