/*
Package fungible implements a ledger of fungible tokens.

A token type is described by a Mint. Every participant that wants to hold a
token must first open a holding account for that mint. The address of a
holding account is derived from the owner and the mint, so anyone can compute
where the tokens of a given owner are kept.

Value moves between holding accounts only through Ledger.Transfer, authorized
by the owner of the source account.
*/
package fungible
