package usecases

import (
	"errors"
	"reflect"
	"strconv"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	enTranslations "github.com/go-playground/validator/v10/translations/en"

	"github.com/samirrijal/pumpedcity/internal/core/domain"
)

var formFieldNames = map[string]string{
	"Endpoint":  FieldAction,
	"Latitude":  FieldLatitude,
	"Longitude": FieldLongitude,
	"Radius":    FieldRadius,
}

// queryValidator checks a search query before it is sent.
type queryValidator struct {
	validate *validator.Validate
	trans    ut.Translator
}

func newQueryValidator() *queryValidator {
	validate := validator.New()
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		if name, ok := formFieldNames[fld.Name]; ok {
			return name
		}
		return fld.Name
	})

	english := en.New()
	uni := ut.New(english, english)
	trans, _ := uni.GetTranslator("en")
	_ = enTranslations.RegisterDefaultTranslations(validate, trans)

	return &queryValidator{validate: validate, trans: trans}
}

// Check returns a *domain.ValidationError describing every bad field.
func (v *queryValidator) Check(q domain.SearchQuery) error {
	fields := make(map[string]string)

	if err := v.validate.Struct(q); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return err
		}
		for _, fe := range verrs {
			fields[fe.Field()] = fe.Translate(v.trans)
		}
	}

	if _, bad := fields[FieldRadius]; !bad {
		if r, err := strconv.ParseFloat(q.Radius, 64); err != nil || r <= 0 {
			fields[FieldRadius] = "radius must be greater than 0"
		}
	}

	if len(fields) > 0 {
		return &domain.ValidationError{Fields: fields}
	}
	return nil
}
