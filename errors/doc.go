/*
Package errors implements the error model shared by all timelock extensions.

Reuse the root errors declared in this package whenever possible and register
a custom root error only when an extension needs a category of its own. Every
root error carries a unique ABCI code so that clients can distinguish failures
without parsing messages.

To register a custom error use Register(code, description). To create an
instance use ErrXyz.New / ErrXyz.Newf or Wrap(ErrXyz, "...") at the point of
failure so that a stack trace is attached. Only the innermost wrap records the
stack trace.

Once you have an error, format it to get more context
	%s is just the error message
	%+v is the full stack trace
	%v appends a compressed [filename:line] where the error was created
*/
package errors
