package multisig

import (
	msig "github.com/bhau7233/MSig"
	"github.com/bhau7233/MSig/errors"
)

// Registry is the immutable set of owners together with the quorum
// threshold.
type Registry struct {
	owners    []msig.Address
	index     map[string]int
	threshold int
}

// NewRegistry validates the owner set and the threshold. Owners must be
// unique, non zero addresses and the threshold must be within [1, len(owners)].
func NewRegistry(owners []msig.Address, threshold int) (*Registry, error) {
	if len(owners) == 0 {
		return nil, errors.Wrap(ErrInvalidConfig, "no owners")
	}
	if threshold < 1 || threshold > len(owners) {
		return nil, errors.Wrapf(ErrInvalidConfig, "threshold %d out of [1, %d]", threshold, len(owners))
	}

	r := &Registry{
		owners:    make([]msig.Address, len(owners)),
		index:     make(map[string]int, len(owners)),
		threshold: threshold,
	}
	for i, o := range owners {
		field := errors.ElemField("Owners", i)
		if o.IsZero() {
			return nil, errors.Field(field, ErrInvalidConfig, "null address")
		}
		if err := o.Validate(); err != nil {
			return nil, errors.Field(field, ErrInvalidConfig, "%s", err)
		}
		if _, ok := r.index[string(o)]; ok {
			return nil, errors.Field(field, ErrInvalidConfig, "duplicated owner %s", o)
		}
		r.index[string(o)] = i
		r.owners[i] = o.Clone()
	}
	return r, nil
}

// IsOwner returns true if addr is one of the owners.
func (r *Registry) IsOwner(addr msig.Address) bool {
	_, ok := r.index[string(addr)]
	return ok
}

// Owners returns a copy of the owner list, in the registration order.
func (r *Registry) Owners() []msig.Address {
	res := make([]msig.Address, len(r.owners))
	for i, o := range r.owners {
		res[i] = o.Clone()
	}
	return res
}

// Threshold returns the number of confirmations needed to execute a
// transaction.
func (r *Registry) Threshold() int {
	return r.threshold
}

// authorize returns ErrUnauthorized unless addr is an owner.
func (r *Registry) authorize(addr msig.Address) error {
	if !r.IsOwner(addr) {
		return errors.Wrapf(errors.ErrUnauthorized, "%s is not an owner", addr)
	}
	return nil
}
