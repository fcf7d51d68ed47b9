/*

Package msig defines the interfaces shared by the custody pool packages:
addresses, storage, context helpers and genesis options.

The authorization engine itself lives in x/multisig and the pool wallet
that holds the funds lives in x/cash. Both persist their state in a
KVStore and run every call inside a cache wrap, so that a failed call
never leaves partial writes behind.

*/
package msig
