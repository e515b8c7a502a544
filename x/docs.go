/*
Package x contains the standard extensions

Extensions implement common functionality (Handler, Decorator,
etc.) and can be combined together to construct an application

All sub-packages are various extensions. This package holds the
Authenticator abstraction they share, so handlers are not bound to
a single authentication system.
*/
package x
