/*
Package escrow implements time-locked escrows of the native currency and of
fungible tokens.

A sender deposits an amount into a vault, naming a receiver and a start time.
Once the release delay, configured for the whole chain, has elapsed since the
start time, the vault can release the full deposit to the receiver. There is
no partial release and no cancellation.

Each sender can have at most one escrow of each kind at a time. The record of
an escrow is stored under a key derived from the sender address, so it can
be found without any index. Released records are kept as settled until the
sender creates a new escrow.
*/
package escrow
