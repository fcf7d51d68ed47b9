/*
Package multisig implements the authorization engine of a custody pool
shared by a fixed set of owners.

Any owner may propose a disbursement of pool funds to a destination
address. Each proposed transaction collects confirmations of distinct
owners. When the number of confirmations reaches the quorum threshold the
transfer is executed within the confirming call. A failed transfer leaves
the transaction approved, so that any owner can retry the execution.

The owner set and the threshold are held by an immutable Registry. They are
read from the genesis file once and never change afterwards.

Every call is atomic. State changes are written through a store cache wrap
only when the call succeeds, together with the events describing them.
*/
package multisig
