package gconf

import (
	"reflect"

	"github.com/iov-one/timelock"
	"github.com/iov-one/timelock/errors"
	"github.com/iov-one/timelock/x"
)

// OwnedConfig is a configuration with an owner. A configuration update
// message must be signed by the owner in order to be authorized to apply the
// change.
type OwnedConfig interface {
	Configuration
	GetOwner() timelock.Address
}

// UpdateConfigurationHandler applies a configuration patch. The message
// processed by this handler must be a pointer to a struct with a "Patch"
// field holding a configuration of the same type as the stored one.
type UpdateConfigurationHandler struct {
	pkg  string
	auth x.Authenticator
	// newConfig returns an empty instance of the configuration type.
	newConfig func() OwnedConfig
}

var _ timelock.Handler = UpdateConfigurationHandler{}

// NewUpdateConfigurationHandler returns a message handler that process
// configuration patch message.
//
// To pass authentication step, each message must be signed by the current
// configuration owner. A configuration that does not exist cannot be
// updated, it must be created via genesis.
func NewUpdateConfigurationHandler(pkg string, newConfig func() OwnedConfig, auth x.Authenticator) UpdateConfigurationHandler {
	return UpdateConfigurationHandler{
		pkg:       pkg,
		auth:      auth,
		newConfig: newConfig,
	}
}

func (h UpdateConfigurationHandler) Check(ctx timelock.Context, store timelock.KVStore, tx timelock.Tx) (*timelock.CheckResult, error) {
	if _, err := h.applyTx(ctx, store, tx); err != nil {
		return nil, err
	}
	return &timelock.CheckResult{}, nil
}

func (h UpdateConfigurationHandler) Deliver(ctx timelock.Context, store timelock.KVStore, tx timelock.Tx) (*timelock.DeliverResult, error) {
	config, err := h.applyTx(ctx, store, tx)
	if err != nil {
		return nil, err
	}
	timelock.GetLogger(ctx).Info("configuration updated", "package", h.pkg, "owner", config.GetOwner())
	return &timelock.DeliverResult{}, nil
}

func (h UpdateConfigurationHandler) applyTx(ctx timelock.Context, store timelock.KVStore, tx timelock.Tx) (OwnedConfig, error) {
	config := h.newConfig()
	if err := Load(store, h.pkg, config); err != nil {
		return nil, errors.Wrap(err, "load current configuration")
	}

	// Configuration owner must sign the transaction in order to
	// authenticate the change.
	owner := config.GetOwner()
	if owner == nil {
		return nil, errors.Wrap(errors.ErrUnauthorized, "owner signature required")
	}
	if !h.auth.HasAddress(ctx, owner) {
		return nil, errors.Wrap(errors.ErrUnauthorized, "owner did not sign transaction")
	}

	payload, err := patchPayload(tx)
	if err != nil {
		return nil, errors.Wrap(err, "cannot get message payload")
	}
	if err := patch(config, payload); err != nil {
		return nil, errors.Wrap(err, "cannot patch config with message payload")
	}

	if err := Save(store, h.pkg, config); err != nil {
		return nil, errors.Wrap(err, "cannot save updated config")
	}
	return config, nil
}

// patch copies all non zero fields of the payload into the config.
func patch(config OwnedConfig, payload OwnedConfig) error {
	if reflect.TypeOf(payload) != reflect.TypeOf(config) {
		return errors.Wrap(errors.ErrMsg, "config in message doesn't match store")
	}

	cval := reflect.ValueOf(config).Elem()
	pval := reflect.ValueOf(payload).Elem()

	for i := 0; i < cval.NumField(); i++ {
		got := pval.Field(i)

		// Zero values do not update the original configuration.
		if isZero(got) {
			continue
		}

		cval.Field(i).Set(got)
	}

	return nil
}

// isZero returns true if given value represents a zero value of a given type.
func isZero(val reflect.Value) bool {
	zero := reflect.Zero(val.Type()).Interface()
	return reflect.DeepEqual(val.Interface(), zero)
}

// patchPayload expects the transaction to have a message with "Patch" field of
// the same type as the configuration. Content of this field is extracted and
// returned.
func patchPayload(tx timelock.Tx) (OwnedConfig, error) {
	msg, err := tx.GetMsg()
	if err != nil {
		return nil, err
	}
	if msg == nil {
		return nil, errors.Wrap(errors.ErrEmpty, "no message")
	}
	if err := msg.Validate(); err != nil {
		return nil, err
	}

	pval := reflect.ValueOf(msg)
	if pval.Kind() != reflect.Ptr || pval.Elem().Kind() != reflect.Struct {
		return nil, errors.Wrapf(errors.ErrInput, "invalid message container value: %T", msg)
	}

	field := pval.Elem().FieldByName("Patch")
	if !field.IsValid() || field.Kind() != reflect.Ptr {
		return nil, errors.Wrap(errors.ErrInput, `"Patch" field is required`)
	}
	if field.IsNil() {
		return nil, errors.Wrap(errors.ErrState, `"Patch" field is required`)
	}
	payload, ok := field.Interface().(OwnedConfig)
	if !ok {
		return nil, errors.Wrap(errors.ErrInput, `"Patch" field is of a wrong type`)
	}
	return payload, nil
}
