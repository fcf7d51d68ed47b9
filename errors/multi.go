package errors

import (
	"fmt"
	"strings"
)

// Append clubs together all provided errors. Nil values are ignored.
//
// If no errors or only nil values are given, nil is returned.
// If only one non nil error is provided, it is returned unmodified.
func Append(errs ...error) error {
	var flat []error
	for _, e := range errs {
		if isNilErr(e) {
			continue
		}
		// Flatten collections so that a multi error never contains
		// another multi error.
		if m, ok := e.(*multiErr); ok {
			flat = append(flat, m.errs...)
		} else {
			flat = append(flat, e)
		}
	}

	switch len(flat) {
	case 0:
		return nil
	case 1:
		return flat[0]
	default:
		return &multiErr{errs: flat}
	}
}

// multiErr is a group of errors. It is created by the Append function only.
type multiErr struct {
	errs []error
}

func (e *multiErr) Error() string {
	msgs := make([]string, len(e.errs))
	for i, err := range e.errs {
		msgs[i] = fmt.Sprintf("* %s", err)
	}
	return fmt.Sprintf("%d errors occurred:\n\t%s\n", len(e.errs), strings.Join(msgs, "\n\t"))
}

// Unpack implements unpacker interface.
func (e *multiErr) Unpack() []error {
	cpy := make([]error, len(e.errs))
	copy(cpy, e.errs)
	return cpy
}

// Code returns the code of the first coded error of the group. A group is
// considered internal if none of its errors is coded.
func (e *multiErr) Code() uint32 {
	for _, err := range e.errs {
		if c := code(err); c != internalCode {
			return c
		}
	}
	return internalCode
}
