/*
Package gconf keeps the configuration of an extension as a singleton
record in the database.

The configuration is read from the genesis file once, validated and saved
under the "_c:<package>" key. Every later process loads the same record,
which makes the configuration immutable for the lifetime of the store.
*/
package gconf
