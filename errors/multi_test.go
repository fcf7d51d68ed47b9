package errors

import (
	"fmt"
	"testing"
)

func TestAppend(t *testing.T) {
	cases := map[string]struct {
		errs    []error
		wantNil bool
		wantLen int
	}{
		"nothing":            {errs: nil, wantNil: true},
		"only nil values":    {errs: []error{nil, nil}, wantNil: true},
		"single error":       {errs: []error{ErrNotFound}, wantLen: 1},
		"nil values ignored": {errs: []error{nil, ErrNotFound, nil, ErrState}, wantLen: 2},
		"flattened": {
			errs:    []error{Append(ErrNotFound, ErrState), ErrEmpty},
			wantLen: 3,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			err := Append(tc.errs...)
			if tc.wantNil {
				if err != nil {
					t.Fatalf("want nil, got %v", err)
				}
				return
			}
			var got int
			if u, ok := err.(unpacker); ok {
				got = len(u.Unpack())
			} else {
				got = 1
			}
			if got != tc.wantLen {
				t.Fatalf("want %d errors, got %d", tc.wantLen, got)
			}
		})
	}
}

func TestAppendSingleIsUnmodified(t *testing.T) {
	err := Wrap(ErrNotFound, "x")
	if got := Append(nil, err); got != err {
		t.Fatalf("want the same instance, got %v", got)
	}
}

func TestMultiErrCode(t *testing.T) {
	err := Append(fmt.Errorf("plain"), ErrDuplicate)
	if got := Code(err); got != ErrDuplicate.Code() {
		t.Fatalf("want %d, got %d", ErrDuplicate.Code(), got)
	}
}
