package store

import msig "github.com/bhau7233/MSig"

// Aliases of the storage interfaces declared in the root package, so that
// code in this package reads shorter.
type (
	ReadOnlyKVStore  = msig.ReadOnlyKVStore
	SetDeleter       = msig.SetDeleter
	KVStore          = msig.KVStore
	Batch            = msig.Batch
	Iterator         = msig.Iterator
	CacheableKVStore = msig.CacheableKVStore
	KVCacheWrap      = msig.KVCacheWrap
	CommitKVStore    = msig.CommitKVStore
	CommitID         = msig.CommitID
	Model            = msig.Model
)
