package escrow

import (
	"github.com/iov-one/timelock"
	"github.com/iov-one/timelock/errors"
	"github.com/iov-one/timelock/gconf"
)

const configPkg = "escrow"

// Configuration is the chain wide escrow policy.
type Configuration struct {
	// Owner is allowed to update the configuration.
	Owner timelock.Address `json:"owner"`
	// ReleaseDelaySeconds is the time that must elapse since the start
	// time of an escrow before it can be released.
	ReleaseDelaySeconds int64 `json:"release_delay_seconds"`
}

var _ gconf.OwnedConfig = (*Configuration)(nil)

func (c *Configuration) Validate() error {
	if err := c.Owner.Validate(); err != nil {
		return errors.Wrap(err, "owner")
	}
	if c.ReleaseDelaySeconds < 0 {
		return errors.Wrap(errors.ErrInput, "negative release delay")
	}
	return nil
}

func (c *Configuration) Marshal() ([]byte, error) {
	return timelock.MarshalBinary(c)
}

func (c *Configuration) Unmarshal(raw []byte) error {
	return timelock.UnmarshalBinary(raw, c)
}

func (c *Configuration) GetOwner() timelock.Address {
	return c.Owner
}

func loadConf(db gconf.ReadStore) (*Configuration, error) {
	var conf Configuration
	if err := gconf.Load(db, configPkg, &conf); err != nil {
		return nil, errors.Wrap(err, "load configuration")
	}
	return &conf, nil
}

// UpdateConfigurationMsg changes the escrow configuration. Zero value fields
// of the patch are not applied, so a release delay once set above zero can
// only be lowered to one second. Zero is reachable only through genesis.
type UpdateConfigurationMsg struct {
	Patch *Configuration `json:"patch"`
}

var _ timelock.Msg = (*UpdateConfigurationMsg)(nil)

func (*UpdateConfigurationMsg) Path() string {
	return "escrow/update_configuration"
}

func (m *UpdateConfigurationMsg) Validate() error {
	if m.Patch == nil {
		return errors.Wrap(errors.ErrEmpty, "patch")
	}
	if len(m.Patch.Owner) != 0 {
		if err := m.Patch.Owner.Validate(); err != nil {
			return errors.Wrap(err, "owner")
		}
	}
	if m.Patch.ReleaseDelaySeconds < 0 {
		return errors.Wrap(errors.ErrInput, "negative release delay")
	}
	return nil
}

func (m *UpdateConfigurationMsg) Marshal() ([]byte, error) {
	return timelock.MarshalBinary(m)
}

func (m *UpdateConfigurationMsg) Unmarshal(raw []byte) error {
	return timelock.UnmarshalBinary(raw, m)
}
