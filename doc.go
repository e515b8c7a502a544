/*
Package timelock defines the interfaces shared by every part of the
application: storage, transactions, messages, handlers and queries.
It also contains the identity types (Address and Condition), the binary
codec and the helpers used to carry block information in the context.

Extensions live under x/ and build on these interfaces. The escrow
extension (x/escrow) implements the time-locked escrow on top of the
native currency (x/cash) and the fungible token ledger (x/fungible).
*/
package timelock
