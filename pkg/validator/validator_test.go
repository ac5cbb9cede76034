package validator

import (
	"errors"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string {
	return &s
}

func TestString(t *testing.T) {
	v := &String{
		Optional:  true,
		UnsetZero: true,
		MaxLen:    4,
		Regex:     regexp.MustCompile(`^[a-z]+[0-9]+$`),
	}

	assert.NoError(t, v.Validate((*string)(nil)))
	assert.NoError(t, v.Validate(strPtr("")))
	assert.NoError(t, v.Validate(strPtr("us9")))
	assert.ErrorIs(t, v.Validate(strPtr("a.b/")), ErrInvalidFormat)
	assert.Error(t, v.Validate(strPtr("us123")))
	assert.ErrorIs(t, v.Validate(42), ErrNotString)

	required := &String{UnsetZero: true}
	assert.ErrorIs(t, required.Validate(strPtr("")), ErrMissingValue)
	assert.ErrorIs(t, required.Validate((*string)(nil)), ErrMissingValue)
}

func TestStringFuncs(t *testing.T) {
	errNoDigits := errors.New("no digits")
	v := &String{
		Validators: []StringFunc{
			func(s string) error {
				if regexp.MustCompile(`\d`).MatchString(s) {
					return errNoDigits
				}
				return nil
			},
		},
	}

	assert.NoError(t, v.Validate("abc"))
	assert.ErrorIs(t, v.Validate("abc1"), errNoDigits)
}

func TestSlice(t *testing.T) {
	v := &Slice{
		Optional:  true,
		MaxLen:    2,
		Validator: &String{MinLen: 1},
	}

	assert.NoError(t, v.Validate([]string(nil)))
	assert.NoError(t, v.Validate([]string{"a", "b"}))
	assert.Error(t, v.Validate([]string{"a", "b", "c"}))
	assert.Error(t, v.Validate([]string{""}))
	assert.ErrorIs(t, v.Validate("a"), ErrNotSlice)
	assert.ErrorIs(t, (&Slice{}).Validate([]string(nil)), ErrMissingValue)
}

type Meta struct {
	ID string
}

type form struct {
	Meta

	Name   *string  `json:"name,omitempty"`
	Labels []string `json:"labels,omitempty"`
	Plain  string
}

func TestForm(t *testing.T) {
	f := MustForm(map[string]Validator{
		"Meta": &String{},
		"name": &String{MinLen: 2},
	})

	err := f.Validate(&form{Name: strPtr("ok")})
	assert.ErrorIs(t, err, ErrNotString, "embedded struct is keyed by type name")

	f = MustForm(map[string]Validator{
		"name":   &String{MinLen: 2},
		"labels": &Slice{Optional: true},
	})
	require.NoError(t, f.Validate(&form{Name: strPtr("ok")}))

	err = f.Validate(&form{Name: strPtr("x")})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "name:")

	assert.ErrorIs(t, f.Validate((*form)(nil)), ErrMissingValue)
	assert.ErrorIs(t, f.Validate(3), ErrNotStruct)
}

func TestMustFormPanicsOnNil(t *testing.T) {
	assert.Panics(t, func() {
		MustForm(map[string]Validator{"name": nil})
	})
}
