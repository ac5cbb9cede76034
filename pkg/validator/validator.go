package validator

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"
)

var (
	ErrMissingValue  = errors.New("missing value")
	ErrNotString     = errors.New("expect string")
	ErrNotSlice      = errors.New("expect slice")
	ErrNotStruct     = errors.New("expect struct")
	ErrInvalidFormat = errors.New("invalid format")
)

type Validator interface {
	Validate(value interface{}) error
}

type StringFunc func(s string) error

type String struct {
	Optional bool
	// UnsetZero treats an empty string the same as an absent value.
	UnsetZero  bool
	MinLen     uint32
	MaxLen     uint32
	Regex      *regexp.Regexp
	Validators []StringFunc
}

func (v *String) Validate(value interface{}) error {
	var s *string
	switch t := value.(type) {
	case *string:
		s = t
	case string:
		s = &t
	default:
		return ErrNotString
	}

	if s == nil || (v.UnsetZero && *s == "") {
		if v.Optional {
			return nil
		}
		return ErrMissingValue
	}

	if v.MinLen > 0 && uint32(len(*s)) < v.MinLen {
		return fmt.Errorf("length must be at least %d", v.MinLen)
	}

	if v.MaxLen > 0 && uint32(len(*s)) > v.MaxLen {
		return fmt.Errorf("length must be at most %d", v.MaxLen)
	}

	if v.Regex != nil && !v.Regex.MatchString(*s) {
		return ErrInvalidFormat
	}

	for _, fn := range v.Validators {
		if err := fn(*s); err != nil {
			return err
		}
	}

	return nil
}

type Slice struct {
	Optional  bool
	MinLen    uint32
	MaxLen    uint32
	Validator Validator
}

func (v *Slice) Validate(value interface{}) error {
	rv := reflect.ValueOf(value)
	if rv.Kind() != reflect.Slice {
		return ErrNotSlice
	}

	if rv.IsNil() {
		if v.Optional {
			return nil
		}
		return ErrMissingValue
	}

	l := uint32(rv.Len())
	if v.MinLen > 0 && l < v.MinLen {
		return fmt.Errorf("must have at least %d elements", v.MinLen)
	}

	if v.MaxLen > 0 && l > v.MaxLen {
		return fmt.Errorf("must have at most %d elements", v.MaxLen)
	}

	if v.Validator != nil {
		for i := 0; i < rv.Len(); i++ {
			if err := v.Validator.Validate(rv.Index(i).Interface()); err != nil {
				return fmt.Errorf("index %d: %w", i, err)
			}
		}
	}

	return nil
}

// Form validates struct fields, keyed by json tag name. Embedded and untagged
// fields are keyed by their Go field name.
type Form struct {
	validators map[string]Validator
}

func MustForm(validators map[string]Validator) *Form {
	for name, v := range validators {
		if v == nil {
			panic(fmt.Sprintf("validator: nil validator for field %s", name))
		}
	}
	return &Form{
		validators: validators,
	}
}

func (f *Form) Validate(value interface{}) error {
	rv := reflect.ValueOf(value)
	for rv.Kind() == reflect.Ptr {
		if rv.IsNil() {
			return ErrMissingValue
		}
		rv = rv.Elem()
	}

	if rv.Kind() != reflect.Struct {
		return ErrNotStruct
	}

	rt := rv.Type()
	for i := 0; i < rt.NumField(); i++ {
		field := rt.Field(i)
		if !field.IsExported() {
			continue
		}

		name := fieldName(field)
		v, ok := f.validators[name]
		if !ok {
			continue
		}

		if err := v.Validate(rv.Field(i).Interface()); err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
	}

	return nil
}

func fieldName(field reflect.StructField) string {
	if field.Anonymous {
		return field.Name
	}

	tag := field.Tag.Get("json")
	if tag == "" || tag == "-" {
		return field.Name
	}

	name, _, _ := strings.Cut(tag, ",")
	if name == "" {
		return field.Name
	}

	return name
}
