/*
Package app contains the glue code that turns a set of extensions into an
ABCI application.

StoreApp keeps the committed state, answers queries and loads the genesis.
BaseApp embeds it and dispatches transactions through a chain of decorators
to the Router, which selects a handler by the message path.
*/
package app
