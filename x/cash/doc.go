/*
Package cash keeps coin balances of addresses and moves coins between
them. The balance of a coin may never go below zero.

Pool exposes the balance of a single address, the custody pool, through
the collaborator interfaces used by the multisig engine.
*/
package cash
