// Package validation wraps go-playground/validator with English messages and
// the custom rules used by signup and job input.
package validation

import (
	"errors"
	"reflect"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
	"github.com/yoockh/yoojob/internal/models"
)

const (
	MsgName     = "Name is required and must contain only alphabets and spaces."
	MsgEmail    = "A valid email is required."
	MsgPassword = "Password must be at least 8 characters, include upper and lower case, a number, and a special character."
	MsgRole     = `Role must be either "company" or "applicant".`
	MsgStatus   = "Invalid status"
)

var (
	nameRe  = regexp.MustCompile(`^[A-Za-z ]+$`)
	emailRe = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)
)

const passwordSpecials = "@$!%*?&"

func bounded(re *regexp.Regexp, s string, limit int) bool {
	return utf8.RuneCountInString(s) <= limit && re.MatchString(s)
}

type Validator struct {
	validate   *validator.Validate
	translator ut.Translator
}

func New() (*Validator, error) {
	validate := validator.New(validator.WithRequiredStructEnabled())
	validate.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return f.Name
		}
		return name
	})

	english := en.New()
	uni := ut.New(english, english)
	trans, _ := uni.GetTranslator("en")
	if err := en_translations.RegisterDefaultTranslations(validate, trans); err != nil {
		return nil, err
	}

	v := &Validator{validate: validate, translator: trans}
	rules := []struct {
		tag string
		fn  validator.Func
		msg string
	}{
		{"personname", func(fl validator.FieldLevel) bool { return bounded(nameRe, fl.Field().String(), models.MaxNameLen) }, MsgName},
		{"emailshape", func(fl validator.FieldLevel) bool { return bounded(emailRe, fl.Field().String(), models.MaxEmailLen) }, MsgEmail},
		{"strongpassword", func(fl validator.FieldLevel) bool { return StrongPassword(fl.Field().String()) }, MsgPassword},
		{"userrole", func(fl validator.FieldLevel) bool { return models.UserRole(fl.Field().String()).Valid() }, MsgRole},
		{"appstatus", func(fl validator.FieldLevel) bool { return models.ApplicationStatus(fl.Field().String()).Valid() }, MsgStatus},
	}
	for _, r := range rules {
		if err := validate.RegisterValidation(r.tag, r.fn); err != nil {
			return nil, err
		}
		if err := v.fixedMessage(r.tag, r.msg); err != nil {
			return nil, err
		}
	}
	return v, nil
}

func (v *Validator) fixedMessage(tag, msg string) error {
	return v.validate.RegisterTranslation(tag, v.translator,
		func(t ut.Translator) error { return t.Add(tag, msg, true) },
		func(t ut.Translator, fe validator.FieldError) string {
			s, _ := t.T(tag)
			return s
		},
	)
}

// Struct validates s and returns one message per violated rule, in field
// order. It returns nil when s is valid.
func (v *Validator) Struct(s any) []string {
	err := v.validate.Struct(s)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []string{err.Error()}
	}
	out := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		out = append(out, fe.Translate(v.translator))
	}
	return out
}

// StrongPassword: at least 8 chars from [A-Za-z0-9@$!%*?&] with at least one
// lower, upper, digit and special each.
func StrongPassword(p string) bool {
	if len(p) < 8 {
		return false
	}
	var lower, upper, digit, special bool
	for _, c := range p {
		switch {
		case c >= 'a' && c <= 'z':
			lower = true
		case c >= 'A' && c <= 'Z':
			upper = true
		case c >= '0' && c <= '9':
			digit = true
		case strings.ContainsRune(passwordSpecials, c):
			special = true
		default:
			return false
		}
	}
	return lower && upper && digit && special
}
