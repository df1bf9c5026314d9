// Package validate checks request structs before they reach the network.
package validate

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"

	"learnhub-storefront/internal/model"
)

var validate *validator.Validate

var translator ut.Translator

func init() {
	var err error
	validate, translator, err = newValidator()
	if err != nil {
		panic("validate: " + err.Error())
	}
}

func newValidator() (*validator.Validate, ut.Translator, error) {
	v := validator.New()

	// Report fields by their JSON names so messages match the wire.
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			return f.Name
		}
		return name
	})

	trans, ok := ut.New(en.New(), en.New()).GetTranslator("en")
	if !ok {
		return nil, nil, errors.New("no en translator")
	}
	if err := en_translations.RegisterDefaultTranslations(v, trans); err != nil {
		return nil, nil, fmt.Errorf("registering translations: %w", err)
	}
	return v, trans, nil
}

// Check validates val. The first failure is returned as a validation
// APIError naming the offending field.
func Check(val any) error {
	if err := validate.Struct(val); err != nil {
		var verrors validator.ValidationErrors
		if !errors.As(err, &verrors) {
			return err
		}

		if len(verrors) < 1 {
			return nil
		}

		fe := verrors[0]
		return model.NewValidationError(fe.Field(), fe.Translate(translator))
	}

	return nil
}
