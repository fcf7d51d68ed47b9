/*
Package app glues the custody pool together.

A State keeps all data in a versioned iavl tree stored under the home
directory. It is initialized once from a genesis file, which sets the
deployment name (chain id), the initial balances and the pool
configuration. An App then serves the authorization engine on top of it.
*/
package app
