package errors

import (
	"fmt"
	"strconv"

	"github.com/pkg/errors"
)

// Field wraps err with the name of the model attribute it was found on,
// for example the Threshold of a configuration or the Destination of a
// transaction. A nil err gives a nil result, so that validation code can
// call it unconditionally.
//
// Field names use the Go spelling of the attribute. A nested attribute is
// joined with a dot (Amount.Ticker) and an element of a list is named by
// its index, see ElemField.
func Field(fieldName string, err error, description string, args ...interface{}) error {
	if isNilErr(err) {
		return nil
	}

	// The stack is recorded once, at the innermost wrap.
	if stackTrace(err) == nil {
		err = errors.WithStack(err)
	}
	if len(args) > 0 {
		description = fmt.Sprintf(description, args...)
	}
	return &fieldError{
		parent: err,
		field:  fieldName,
		desc:   description,
	}
}

// ElemField returns the field name of the element i of the list attribute
// name, for example Owners.2.
func ElemField(name string, i int) string {
	return name + "." + strconv.Itoa(i)
}

// AppendField adds the error of a field to errorsOrNil. A nil
// fieldErrOrNil leaves errorsOrNil unchanged, which lets a Validate method
// collect the errors of all attributes before returning.
func AppendField(errorsOrNil error, fieldName string, fieldErrOrNil error) error {
	return Append(errorsOrNil, Field(fieldName, fieldErrOrNil, ""))
}

type fieldError struct {
	parent error
	field  string
	desc   string
}

func (err *fieldError) Error() string {
	if err.desc == "" {
		return fmt.Sprintf("field %q: %s", err.field, err.parent)
	}
	return fmt.Sprintf("field %q: %s: %s", err.field, err.desc, err.parent)
}

func (err *fieldError) Cause() error {
	return err.parent
}

func (err *fieldError) Field() string {
	return err.field
}

// FieldErrors walks the error tree of err and returns every error created
// by Field for fieldName. The search does not descend into a matching
// field error, so a field holding a multi error is returned as a whole.
func FieldErrors(err error, fieldName string) []error {
	var res []error
	for !isNilErr(err) {
		if f, ok := err.(fielder); ok && f.Field() == fieldName {
			return append(res, err)
		}
		switch e := err.(type) {
		case unpacker:
			for _, child := range e.Unpack() {
				res = append(res, FieldErrors(child, fieldName)...)
			}
			return res
		case causer:
			err = e.Cause()
		default:
			return res
		}
	}
	return res
}

type fielder interface {
	Field() string
}
