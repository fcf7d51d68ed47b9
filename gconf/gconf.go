package gconf

import (
	msig "github.com/bhau7233/MSig"
	"github.com/bhau7233/MSig/errors"
)

// ReadStore is a subset of msig.ReadOnlyKVStore.
type ReadStore interface {
	Get([]byte) ([]byte, error)
}

// Store is a subset of msig.KVStore.
type Store interface {
	ReadStore
	Set([]byte, []byte) error
}

// ValidMarshaler is implemented by a configuration that can validate and
// serialize itself.
type ValidMarshaler interface {
	Marshal() ([]byte, error)
	Validate() error
}

// Unmarshaler is implemented by a configuration that can load its state
// from the binary representation.
type Unmarshaler interface {
	Unmarshal([]byte) error
}

// Configuration can be both saved and loaded.
type Configuration interface {
	ValidMarshaler
	Unmarshaler
}

func key(pkg string) []byte {
	return []byte("_c:" + pkg)
}

// Save validates the configuration and writes it as the singleton of given
// package.
func Save(db Store, pkg string, src ValidMarshaler) error {
	k := key(pkg)
	if err := src.Validate(); err != nil {
		return errors.Wrapf(err, "validation: key %q", k)
	}
	raw, err := src.Marshal()
	if err != nil {
		return errors.Wrapf(err, "marshal: key %q", k)
	}
	if err := db.Set(k, raw); err != nil {
		return errors.Wrapf(errors.ErrDatabase, "write key %q: %s", k, err)
	}
	return nil
}

// Load reads the singleton configuration of given package into dst. It
// fails with ErrNotFound if the package was never configured.
func Load(db ReadStore, pkg string, dst Unmarshaler) error {
	k := key(pkg)
	raw, err := db.Get(k)
	if err != nil {
		return errors.Wrapf(errors.ErrDatabase, "read key %q: %s", k, err)
	}
	if raw == nil {
		return errors.Wrapf(errors.ErrNotFound, "key %q", k)
	}
	if err := dst.Unmarshal(raw); err != nil {
		return errors.Wrapf(err, "unmarshal: key %q", k)
	}
	return nil
}

// InitConfig reads opts[pkg] into conf and saves it. A configuration that
// was already saved cannot be replaced.
func InitConfig(db Store, opts msig.Options, pkg string, conf Configuration) error {
	if opts[pkg] == nil {
		return errors.Wrapf(errors.ErrNotFound, "no configuration in genesis for %q package", pkg)
	}
	existing, err := db.Get(key(pkg))
	if err != nil {
		return errors.Wrap(errors.ErrDatabase, err.Error())
	}
	if existing != nil {
		return errors.Wrapf(errors.ErrImmutable, "%q package is already configured", pkg)
	}
	if err := opts.ReadOptions(pkg, conf); err != nil {
		return errors.Wrapf(err, "read configuration for %s", pkg)
	}
	if err := Save(db, pkg, conf); err != nil {
		return errors.Wrapf(err, "save configuration for %s", pkg)
	}
	return nil
}
