package msig_test

import (
	"encoding/json"
	"fmt"
	"reflect"
	"testing"

	msig "github.com/bhau7233/MSig"
	"github.com/bhau7233/MSig/errors"
	. "github.com/smartystreets/goconvey/convey"
)

func TestAddressPrinting(t *testing.T) {
	Convey("Addresses are printed in upper case hex", t, func() {
		addr := msig.NewAddress([]byte("printing"))
		So(addr.String(), ShouldEqual, fmt.Sprintf("%X", []byte(addr)))
		So(msig.Address(nil).String(), ShouldEqual, "(nil)")

		Convey("and the bech32 form decodes back", func() {
			b32, err := addr.Bech32()
			So(err, ShouldBeNil)
			got, err := msig.ParseAddress(b32)
			So(err, ShouldBeNil)
			So(got, ShouldResemble, addr)

			got, err = msig.ParseAddress("bech32:" + b32)
			So(err, ShouldBeNil)
			So(got, ShouldResemble, addr)
		})
	})
}

func TestAddressUnmarshalJSON(t *testing.T) {
	addr := msig.NewAddress([]byte("json"))
	b32, err := addr.Bech32()
	if err != nil {
		t.Fatalf("bech32: %s", err)
	}

	cases := map[string]struct {
		json     string
		wantErr  *errors.Error
		wantAddr msig.Address
	}{
		"default decoding": {
			json:     fmt.Sprintf(`"%x"`, []byte(addr)),
			wantAddr: addr,
		},
		"hex decoding": {
			json:     fmt.Sprintf(`"hex:%X"`, []byte(addr)),
			wantAddr: addr,
		},
		"bech32 decoding": {
			json:     fmt.Sprintf(`"%s"`, b32),
			wantAddr: addr,
		},
		"invalid hex": {
			json:    `"zzzz"`,
			wantErr: errors.ErrInput,
		},
		"short address": {
			json:    `"hex:6865782d61646472"`,
			wantErr: errors.ErrInput,
		},
		"bad bech32 checksum": {
			json:    `"bech32:msig1qqqqqqqq"`,
			wantErr: errors.ErrInput,
		},
		"unknown format": {
			json:    `"foobar:xxx"`,
			wantErr: errors.ErrType,
		},
		"zero address": {
			json:     `""`,
			wantAddr: nil,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			var a msig.Address
			err := json.Unmarshal([]byte(tc.json), &a)
			if !tc.wantErr.Is(err) {
				t.Fatalf("got error: %+v", err)
			}
			if err == nil && !reflect.DeepEqual(a, tc.wantAddr) {
				t.Fatalf("got address: %q", a)
			}
		})
	}
}

func TestAddressMarshalJSON(t *testing.T) {
	addr := msig.NewAddress([]byte("marshal"))
	raw, err := json.Marshal(addr)
	if err != nil {
		t.Fatalf("marshal: %s", err)
	}
	if want := fmt.Sprintf(`"%X"`, []byte(addr)); string(raw) != want {
		t.Fatalf("want %s, got %s", want, raw)
	}

	var got msig.Address
	if err := json.Unmarshal(raw, &got); err != nil {
		t.Fatalf("unmarshal: %s", err)
	}
	if !got.Equals(addr) {
		t.Fatalf("want %s, got %s", addr, got)
	}
}
