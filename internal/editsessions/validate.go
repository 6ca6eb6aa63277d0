package editsessions

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/angelmondragon/storefront-configurator/pkg/enums"
	pkgerrors "github.com/angelmondragon/storefront-configurator/pkg/errors"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		tag := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if tag == "" {
			return f.Name
		}
		return tag
	})
	mustRegister(v, "product_shape", func(fl validator.FieldLevel) bool {
		return enums.ProductShape(fl.Field().String()).IsValid()
	})
	mustRegister(v, "bundle_pricing", func(fl validator.FieldLevel) bool {
		return enums.BundlePricing(fl.Field().String()).IsValid()
	})
	mustRegister(v, "pack_badge", func(fl validator.FieldLevel) bool {
		return enums.PackBadge(fl.Field().String()).IsValid()
	})
	return v
}

func mustRegister(v *validator.Validate, tag string, fn validator.Func) {
	if err := v.RegisterValidation(tag, fn); err != nil {
		panic(fmt.Sprintf("register %s validation: %v", tag, err))
	}
}

func formatValidationErrors(err error) *pkgerrors.Error {
	if errs, ok := err.(validator.ValidationErrors); ok {
		details := map[string]string{}
		for _, fieldErr := range errs {
			details[fieldErr.Field()] = validationMessage(fieldErr)
		}
		return pkgerrors.New(pkgerrors.CodeValidation, "invalid command").WithDetails(details)
	}
	return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid command")
}

func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "min":
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "max":
		return fmt.Sprintf("must be at most %s", fe.Param())
	case "oneof":
		return fmt.Sprintf("must be one of %s", fe.Param())
	case "product_shape", "bundle_pricing", "pack_badge":
		return fmt.Sprintf("must be a valid %s", strings.ReplaceAll(fe.Tag(), "_", " "))
	}
	return "is invalid"
}
