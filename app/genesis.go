package app

import (
	"encoding/json"
	"io/ioutil"
	"regexp"

	msig "github.com/bhau7233/MSig"
	"github.com/bhau7233/MSig/errors"
)

// IsValidChainID tells if given string can be used as the deployment name.
var IsValidChainID = regexp.MustCompile(`^[a-zA-Z0-9_\-]{6,20}$`).MatchString

// Genesis is the content of the genesis file.
type Genesis struct {
	ChainID  string       `json:"chain_id"`
	AppState msig.Options `json:"app_state"`
}

// LoadGenesis reads a genesis file.
func LoadGenesis(filePath string) (*Genesis, error) {
	raw, err := ioutil.ReadFile(filePath)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrInput, "read genesis file: %s", err)
	}
	var gen Genesis
	if err := json.Unmarshal(raw, &gen); err != nil {
		return nil, errors.Wrapf(errors.ErrInput, "parse genesis file: %s", err)
	}
	return &gen, nil
}

// ChainInitializers returns an initializer calling all given ones in
// order, aborting at the first error.
func ChainInitializers(inits ...msig.Initializer) msig.Initializer {
	return chainInitializer(inits)
}

type chainInitializer []msig.Initializer

func (c chainInitializer) FromGenesis(opts msig.Options, kv msig.KVStore) error {
	for _, i := range c {
		if err := i.FromGenesis(opts, kv); err != nil {
			return err
		}
	}
	return nil
}

const chainIDKey = "_internal:chain_id"

// loadChainID returns the stored chain id or an empty string.
func loadChainID(kv msig.ReadOnlyKVStore) (string, error) {
	v, err := kv.Get([]byte(chainIDKey))
	if err != nil {
		return "", errors.Wrap(errors.ErrDatabase, err.Error())
	}
	return string(v), nil
}

// saveChainID stores the chain id. It can be done only once.
func saveChainID(kv msig.KVStore, chainID string) error {
	if !IsValidChainID(chainID) {
		return errors.Wrapf(errors.ErrInput, "chain id %q", chainID)
	}
	k := []byte(chainIDKey)
	switch ok, err := kv.Has(k); {
	case err != nil:
		return errors.Wrap(errors.ErrDatabase, err.Error())
	case ok:
		return errors.Wrap(errors.ErrImmutable, "chain id already set")
	}
	if err := kv.Set(k, []byte(chainID)); err != nil {
		return errors.Wrap(errors.ErrDatabase, err.Error())
	}
	return nil
}
