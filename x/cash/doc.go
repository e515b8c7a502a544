/*
Package cash defines a simple implementation of sending the native currency
of the chain. Every address owns a single wallet holding the balance expressed
in the smallest unit of the currency.

The Controller is exposed so other extensions can move funds as part of
their own business logic.
*/
package cash
