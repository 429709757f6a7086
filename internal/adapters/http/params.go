package http

import (
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strconv"
	"strings"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	enTranslations "github.com/go-playground/validator/v10/translations/en"

	"github.com/samirrijal/pumpedcity/internal/pkg/config"
)

// nearbyParams are the query parameters of GET /api/v1/parkings.
type nearbyParams struct {
	Latitude  string `query:"latitude" validate:"required,latitude"`
	Longitude string `query:"longitude" validate:"required,longitude"`
	Radius    string `query:"radius" validate:"omitempty,numeric"`
	Limit     int    `query:"limit" validate:"gte=0"`
}

type nearbyQuery struct {
	Lat, Lon float64
	Radius   float64
	Limit    int
}

type paramValidator struct {
	validate *validator.Validate
	trans    ut.Translator
}

func newParamValidator() *paramValidator {
	validate := validator.New()
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("query"), ",")
		if name == "" {
			return fld.Name
		}
		return name
	})

	english := en.New()
	uni := ut.New(english, english)
	trans, _ := uni.GetTranslator("en")
	_ = enTranslations.RegisterDefaultTranslations(validate, trans)

	return &paramValidator{validate: validate, trans: trans}
}

var params = newParamValidator()

// message flattens validation failures into one line, ordered by field.
func (v *paramValidator) message(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fe.Translate(v.trans))
	}
	sort.Strings(msgs)
	return strings.Join(msgs, "; ")
}

// resolve checks p and applies the search limits. The returned string is a
// client-facing message when the parameters are rejected.
func (v *paramValidator) resolve(p nearbyParams, limits config.SearchConfig) (nearbyQuery, string) {
	if err := v.validate.Struct(p); err != nil {
		return nearbyQuery{}, v.message(err)
	}

	q := nearbyQuery{Radius: limits.DefaultRadius, Limit: p.Limit}
	q.Lat, _ = strconv.ParseFloat(p.Latitude, 64)
	q.Lon, _ = strconv.ParseFloat(p.Longitude, 64)

	if p.Radius != "" {
		q.Radius, _ = strconv.ParseFloat(p.Radius, 64)
	}
	if q.Radius <= 0 || q.Radius > limits.MaxRadius {
		return nearbyQuery{}, fmt.Sprintf("radius must be greater than 0 and at most %g meters", limits.MaxRadius)
	}

	if q.Limit == 0 || q.Limit > limits.MaxResults {
		q.Limit = limits.MaxResults
	}
	return q, ""
}
