/*
Package errors implements the coded error taxonomy used across cep47.

The idea is to reuse as many errors from this package as possible and define
custom package errors when absolutely necessary. Domain packages register
their own root errors with Register(code, description) and create instances
with ErrXyz.New or ErrXyz.Newf. The numeric code allows a client to
distinguish error kinds and act accordingly.

There is also support for stacktraces. Please ensure you create the error
using ErrXyz.New("...") or errors.Wrap(err, "...") at the point of creation to
ensure we attach a stacktrace. If you wrap multiple times, we only record the
first wrap with the stacktrace.

Once you have an error, you can use `fmt.Printf/Sprintf` to get more context
for the error

	%s is just the error message
	%+v is the full stack trace
*/
package errors
