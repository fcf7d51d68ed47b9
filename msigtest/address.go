/*
Package msigtest provides helpers for testing code built on this module.
*/
package msigtest

import (
	"crypto/rand"
	"encoding/binary"
	"testing"

	msig "github.com/bhau7233/MSig"
)

// NewAddress returns a deterministic address derived from seed.
func NewAddress(seed uint64) msig.Address {
	var raw [8]byte
	binary.BigEndian.PutUint64(raw[:], seed)
	return msig.NewAddress(append([]byte("msigtest/"), raw[:]...))
}

// SequenceAddresses returns n distinct deterministic addresses.
func SequenceAddresses(n int) []msig.Address {
	res := make([]msig.Address, n)
	for i := range res {
		res[i] = NewAddress(uint64(i + 1))
	}
	return res
}

// RandomAddr returns a random address.
func RandomAddr(t testing.TB) msig.Address {
	t.Helper()
	raw := make([]byte, msig.AddressLength)
	if _, err := rand.Read(raw); err != nil {
		t.Fatalf("cannot read random data: %s", err)
	}
	return raw
}

// ParseAddress decodes a human readable address, failing the test if it
// is not valid.
func ParseAddress(t testing.TB, encodedAddress string) msig.Address {
	t.Helper()
	addr, err := msig.ParseAddress(encodedAddress)
	if err != nil {
		t.Fatalf("cannot parse %q address: %s", encodedAddress, err)
	}
	return addr
}
