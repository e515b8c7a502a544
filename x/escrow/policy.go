package escrow

import (
	"github.com/iov-one/timelock"
	"github.com/iov-one/timelock/errors"
	"github.com/iov-one/timelock/x"
)

// SignerPolicy declares who must sign each escrow operation.
//
// The sender authorizes a deposit. Only the vault can release the funds it
// holds. A token release must be signed by the receiver as well.
type SignerPolicy struct {
	auth x.Authenticator
}

// NewSignerPolicy returns a policy checking signers provided by auth.
func NewSignerPolicy(auth x.Authenticator) SignerPolicy {
	return SignerPolicy{auth: auth}
}

// CanCreate returns an error unless the sender signed the transaction.
func (p SignerPolicy) CanCreate(ctx timelock.Context, sender timelock.Address) error {
	return p.require(ctx, "sender", sender)
}

// CanReleaseNative returns an error unless the vault signed the transaction.
func (p SignerPolicy) CanReleaseNative(ctx timelock.Context, vault timelock.Address) error {
	return p.require(ctx, "vault", vault)
}

// CanReleaseToken returns an error unless both the vault and the receiver
// signed the transaction.
func (p SignerPolicy) CanReleaseToken(ctx timelock.Context, vault, receiver timelock.Address) error {
	if err := p.require(ctx, "vault", vault); err != nil {
		return err
	}
	return p.require(ctx, "receiver", receiver)
}

func (p SignerPolicy) require(ctx timelock.Context, role string, addr timelock.Address) error {
	if !p.auth.HasAddress(ctx, addr) {
		return errors.Wrapf(errors.ErrUnauthorized, "%s signature missing", role)
	}
	return nil
}
