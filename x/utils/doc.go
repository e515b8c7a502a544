/*
Package utils contains decorators that every application wants in its
stack: atomic transaction execution, logging, metrics and panic recovery.
*/
package utils
