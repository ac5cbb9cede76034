package handler

import (
	"errors"
	"net/url"
	"regexp"
	"strings"

	"landing/entity"
	"landing/pkg/goutil"
	"landing/pkg/validator"
)

var (
	ErrEmailRequired       = errors.New("Email is required")
	ErrInvalidMemberStatus = errors.New("invalid member status")
	ErrBlank               = errors.New("must not be blank")
	ErrNotSitePath         = errors.New("must be a path on this site")
)

var (
	listIDRegex     = regexp.MustCompile(`^[0-9a-zA-Z]+$`)
	datacenterRegex = regexp.MustCompile(`^[a-z]+[0-9]+$`)
	emailRegex      = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	phoneRegex      = regexp.MustCompile(`^[\d\s\-()]+$`)
	zipRegex        = regexp.MustCompile(`^\d{5}$`)
)

func MemberStatusValidator() validator.Validator {
	return &validator.String{
		Optional:  true,
		UnsetZero: true,
		Validators: []validator.StringFunc{
			func(s string) error {
				if !goutil.ContainsStr(entity.MemberStatuses, s) {
					return ErrInvalidMemberStatus
				}
				return nil
			},
		},
	}
}

// DatacenterValidator only admits Mailchimp datacenter names such as "us9".
// The datacenter becomes part of the API host name.
func DatacenterValidator() validator.Validator {
	return &validator.String{
		Optional:  true,
		UnsetZero: true,
		MaxLen:    10,
		Regex:     datacenterRegex,
	}
}

func ListIDValidator() validator.Validator {
	return &validator.String{
		Optional:  true,
		UnsetZero: true,
		MaxLen:    32,
		Regex:     listIDRegex,
	}
}

func TagsValidator() validator.Validator {
	return &validator.Slice{
		Optional: true,
		MaxLen:   50,
		Validator: &validator.String{
			MinLen: 1,
			MaxLen: 100,
		},
	}
}

func matches(re *regexp.Regexp, msg string) validator.StringFunc {
	return func(s string) error {
		if !re.MatchString(s) {
			return errors.New(msg)
		}
		return nil
	}
}

// trimmed runs fn on s without surrounding whitespace. Blank values are
// left to the Optional and notBlank checks.
func trimmed(fn validator.StringFunc) validator.StringFunc {
	return func(s string) error {
		s = strings.TrimSpace(s)
		if s == "" {
			return nil
		}
		return fn(s)
	}
}

func notBlank(s string) error {
	if strings.TrimSpace(s) == "" {
		return ErrBlank
	}
	return nil
}

// isSitePath rejects anything that would redirect off this site.
func isSitePath(s string) error {
	if !strings.HasPrefix(s, "/") || strings.HasPrefix(s, "//") || strings.HasPrefix(s, `/\`) {
		return ErrNotSitePath
	}

	u, err := url.Parse(s)
	if err != nil || u.Scheme != "" || u.Host != "" {
		return ErrNotSitePath
	}

	return nil
}
