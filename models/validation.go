package models

import (
	"reflect"
	"strings"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	enTranslations "github.com/go-playground/validator/v10/translations/en"
	"github.com/leebenson/conform"
)

var (
	validate *validator.Validate
	trans    ut.Translator
)

func init() {
	validate = validator.New()
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	english := en.New()
	uni := ut.New(english, english)
	trans, _ = uni.GetTranslator("en")
	_ = enTranslations.RegisterDefaultTranslations(validate, trans)
}

// ValidationError lists the translated messages of every failing field
type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	return strings.Join(e.Fields, "; ")
}

// ValidateStruct trims the conform-tagged strings of req and runs its validate tags.
// req must be a pointer to a struct.
func ValidateStruct(req interface{}) error {
	if err := validateWhiteSpaces(req); err != nil {
		return err
	}
	errs := translateError(validate.Struct(req), trans)
	if len(errs) == 0 {
		return nil
	}
	return &ValidationError{Fields: errs}
}

func validateWhiteSpaces(data interface{}) error {
	return conform.Strings(data)
}

func translateError(err error, trans ut.Translator) (errs []string) {
	if err == nil {
		return nil
	}
	validatorErrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return []string{err.Error()}
	}
	for _, e := range validatorErrs {
		errs = append(errs, e.Translate(trans))
	}
	return errs
}
