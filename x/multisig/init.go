package multisig

import (
	msig "github.com/bhau7233/MSig"
	"github.com/bhau7233/MSig/gconf"
)

// Initializer stores the pool configuration found in the genesis file.
type Initializer struct{}

var _ msig.Initializer = (*Initializer)(nil)

// FromGenesis fails if the genesis file does not declare the configuration
// or if it was already stored.
func (*Initializer) FromGenesis(opts msig.Options, kv msig.KVStore) error {
	return gconf.InitConfig(kv, opts, ConfigKey, &Configuration{})
}
