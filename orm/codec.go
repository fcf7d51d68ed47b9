package orm

import (
	"reflect"

	"github.com/bhau7233/MSig/errors"
	amino "github.com/tendermint/go-amino"
)

// formatVersion prefixes every serialized model. Apart from allowing a
// future format change it guarantees that a stored value is never empty,
// which amino refuses to decode.
const formatVersion byte = 1

var cdc = amino.NewCodec()

// MarshalModel serializes a model struct using the amino binary format.
func MarshalModel(m interface{}) ([]byte, error) {
	raw, err := cdc.MarshalBinaryBare(m)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrModel, "amino marshal %T: %s", m, err)
	}
	return append([]byte{formatVersion}, raw...), nil
}

// UnmarshalModel loads data serialized by MarshalModel into ptr.
func UnmarshalModel(raw []byte, ptr interface{}) error {
	if len(raw) == 0 || raw[0] != formatVersion {
		return errors.Wrapf(errors.ErrModel, "%T: unknown serialization format", ptr)
	}
	// Decoding into a reused model must not leak previous field values.
	if v := reflect.ValueOf(ptr); v.Kind() == reflect.Ptr && !v.IsNil() {
		v.Elem().Set(reflect.Zero(v.Elem().Type()))
	}
	if len(raw) == 1 {
		return nil
	}
	if err := cdc.UnmarshalBinaryBare(raw[1:], ptr); err != nil {
		return errors.Wrapf(errors.ErrModel, "amino unmarshal %T: %s", ptr, err)
	}
	return nil
}
