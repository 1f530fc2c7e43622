// Package validator validates decoded request payloads with go-playground
// validator and renders failures as field-to-message maps.
package validator

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	enTranslations "github.com/go-playground/validator/v10/translations/en"
	"github.com/piresc/fraudguard/internal/pkg/logger"
)

var reSessionID = regexp.MustCompile(`^[0-9a-fA-F-]{36}$`)

// ErrTranslatorNotFound indicates the requested translator is unavailable.
var ErrTranslatorNotFound = errors.New("translator not found")

// Validator wraps go-playground validator with English messages. It
// satisfies echo.Validator.
type Validator struct {
	validate   *validator.Validate
	translator ut.Translator
}

// ValidationError maps json field names to human readable messages.
type ValidationError map[string]string

func (vs ValidationError) Error() string {
	if len(vs) == 0 {
		return "validation error"
	}

	b, err := json.Marshal(vs)
	if err != nil {
		return fmt.Sprintf("validation error (failed to marshal: %v)", err)
	}
	return string(b)
}

// New constructs a Validator with English translations and custom rules.
func New() (*Validator, error) {
	validate := validator.New(validator.WithRequiredStructEnabled())

	// report json names so messages line up with the request body
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})

	enLang := en.New()
	uni := ut.New(enLang, enLang)
	enTrans, ok := uni.GetTranslator("en")
	if !ok {
		return nil, ErrTranslatorNotFound
	}

	if err := enTranslations.RegisterDefaultTranslations(validate, enTrans); err != nil {
		return nil, err
	}

	if err := registerCustomRules(validate, enTrans); err != nil {
		return nil, err
	}

	return &Validator{
		validate:   validate,
		translator: enTrans,
	}, nil
}

// Validate validates a struct and returns a ValidationError on failure.
func (v *Validator) Validate(data interface{}) error {
	if err := v.validate.Struct(data); err != nil {
		var validateErrs validator.ValidationErrors
		if !errors.As(err, &validateErrs) {
			return err
		}

		out := make(ValidationError, len(validateErrs))
		for _, fe := range validateErrs {
			out[fe.Field()] = fe.Translate(v.translator)
		}
		return out
	}

	return nil
}

func registerCustomRules(validate *validator.Validate, enTrans ut.Translator) error {
	err := validate.RegisterValidation("sessionid", func(fl validator.FieldLevel) bool {
		s, ok := fl.Field().Interface().(string)
		if !ok {
			return false
		}
		return reSessionID.MatchString(s)
	})
	if err != nil {
		return err
	}

	return validate.RegisterTranslation("sessionid", enTrans,
		func(ut ut.Translator) error {
			return ut.Add("sessionid", "{0} must be a valid session identifier", false)
		},
		func(ut ut.Translator, fe validator.FieldError) string {
			t, err := ut.T(fe.Tag(), fe.Field())
			if err != nil {
				logger.Warn("error translating validation message",
					logger.String("tag", fe.Tag()),
					logger.Err(err))
				return fe.Error()
			}
			return t
		},
	)
}
