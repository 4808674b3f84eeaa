// Package validation wraps go-playground/validator with JSON field names,
// English messages and a few portal-specific tags.
package validation

import (
	"errors"
	"reflect"
	"strings"

	"grievanceportal/backend/internal/apperr"
	"grievanceportal/backend/internal/models"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
)

var (
	validate   *validator.Validate
	translator ut.Translator

	notBlankTag  = "notblank"
	notBlankText = "this field cannot be blank"

	categoryTag  = "category"
	categoryText = "unknown category"

	statusTag  = "grievance_status"
	statusText = "unknown status"
)

func init() {
	validate = validator.New()

	_en := en.New()
	uni := ut.New(_en, _en)
	translator, _ = uni.GetTranslator("en")
	_ = en_translations.RegisterDefaultTranslations(validate, translator)

	// Use JSON tag names for errors instead of Go struct names.
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	_ = validate.RegisterValidation(notBlankTag, notBlankValidation)
	registerTranslation(notBlankTag, notBlankText)

	_ = validate.RegisterValidation(categoryTag, categoryValidation)
	registerTranslation(categoryTag, categoryText)

	_ = validate.RegisterValidation(statusTag, statusValidation)
	registerTranslation(statusTag, statusText)
}

func registerTranslation(tag, text string) {
	_ = validate.RegisterTranslation(
		tag, translator,
		func(t ut.Translator) error { return t.Add(tag, text, false) },
		func(t ut.Translator, fe validator.FieldError) string {
			s, _ := t.T(tag, fe.Field())
			return s
		},
	)
}

func notBlankValidation(fl validator.FieldLevel) bool {
	return strings.TrimSpace(fl.Field().String()) != ""
}

func categoryValidation(fl validator.FieldLevel) bool {
	_, ok := models.ParseCategory(fl.Field().String())
	return ok
}

func statusValidation(fl validator.FieldLevel) bool {
	_, ok := models.ParseStatus(fl.Field().String())
	return ok
}

// Struct validates v and converts failures into a validation AppError
// with one FieldError per offending field.
func Struct(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}

	var vErrs validator.ValidationErrors
	if !errors.As(err, &vErrs) {
		return err
	}

	fields := make([]apperr.FieldError, 0, len(vErrs))
	for _, fe := range vErrs {
		fields = append(fields, apperr.FieldError{Field: fe.Field(), Error: fe.Translate(translator)})
	}
	return apperr.Validation("invalid input", fields...)
}
