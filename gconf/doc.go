/*
Package gconf implements a configuration store intended to be used as a global,
in-database configuration.

Each extension that needs configuration keeps a single instance of it under a
key derived from the extension name. The configuration is loaded from the
genesis file and can be updated later by its owner with a patch message.
*/
package gconf
