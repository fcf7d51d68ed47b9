package bech32

import (
	"bytes"
	"encoding/hex"
	"testing"

	"github.com/bhau7233/MSig/errors"
)

func TestRoundTrip(t *testing.T) {
	// bech32 -e -h tiov 746573742d7061796c6f6164
	const enc = `tiov1w3jhxapdwpshjmr0v9jqymqq4y`

	want, err := hex.DecodeString("746573742d7061796c6f6164")
	if err != nil {
		t.Fatal(err)
	}

	hrp, payload, err := Decode(enc)
	if err != nil {
		t.Fatal(err)
	}
	if hrp != "tiov" {
		t.Fatalf("unexpected prefix %q", hrp)
	}
	if !bytes.Equal(want, payload) {
		t.Logf("want %d", want)
		t.Logf("got  %d", payload)
		t.Fatal("invalid decode")
	}

	raw, err := Encode(hrp, payload)
	if err != nil {
		t.Fatalf("cannot encode: %s", err)
	}
	if raw != enc {
		t.Fatalf("invalid encoding: %q", raw)
	}
}

func TestDecodeWithPrefix(t *testing.T) {
	payload := []byte("some twenty byte val")
	enc, err := Encode("msig", payload)
	if err != nil {
		t.Fatalf("cannot encode: %s", err)
	}

	cases := map[string]struct {
		hrp     string
		raw     string
		wantErr *errors.Error
	}{
		"matching prefix": {
			hrp: "msig",
			raw: enc,
		},
		"other prefix": {
			hrp:     "tiov",
			raw:     enc,
			wantErr: errors.ErrInput,
		},
		"broken checksum": {
			hrp:     "msig",
			raw:     enc[:len(enc)-1] + "q",
			wantErr: errors.ErrInput,
		},
		"not bech32": {
			hrp:     "msig",
			raw:     "hello",
			wantErr: errors.ErrInput,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			got, err := DecodeWithPrefix(tc.hrp, tc.raw)
			if !tc.wantErr.Is(err) {
				t.Fatalf("unexpected error: %+v", err)
			}
			if tc.wantErr == nil && !bytes.Equal(got, payload) {
				t.Fatalf("unexpected payload %q", got)
			}
		})
	}
}
