package config

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/input-output-hk/catalyst-forge-libs/gitsync/auth"
	gserrors "github.com/input-output-hk/catalyst-forge-libs/gitsync/errors"
)

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

func getValidator() *validator.Validate {
	validateOnce.Do(func() {
		v := validator.New()
		mustRegister(v, "provider", func(fl validator.FieldLevel) bool {
			_, err := auth.ParseProvider(fl.Field().String())
			return err == nil
		})
		mustRegister(v, "authflow", func(fl validator.FieldLevel) bool {
			_, err := auth.ParseAuthFlow(fl.Field().String())
			return err == nil
		})
		validate = v
	})
	return validate
}

// mustRegister panics on registration failure, which only a malformed tag can cause.
func mustRegister(v *validator.Validate, tag string, fn validator.Func) {
	if err := v.RegisterValidation(tag, fn); err != nil {
		panic(fmt.Sprintf("config: registering %q validation: %v", tag, err))
	}
}

// Validate checks cfg and reports every failing field in a single
// CodeInvalidConfig error.
func Validate(cfg *Config) error {
	if cfg == nil {
		return gserrors.New(gserrors.CodeInvalidInput, "configuration is nil")
	}

	err := getValidator().Struct(cfg)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return gserrors.Wrap(err, gserrors.CodeInternal, "configuration validation failed")
	}

	var validationErrors []string
	fields := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		fields = append(fields, fe.Namespace())
		validationErrors = append(validationErrors, describe(fe))
	}

	return gserrors.New(
		gserrors.CodeInvalidConfig,
		fmt.Sprintf("configuration validation failed: %s", strings.Join(validationErrors, "; ")),
	).WithContext("fields", fields)
}

func describe(fe validator.FieldError) string {
	field := strings.TrimPrefix(fe.Namespace(), "Config.")
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "required_if":
		return fmt.Sprintf("%s is required when %s", field, fe.Param())
	case "gte":
		return fmt.Sprintf("%s must be >= %s", field, fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of [%s], got %q", field, fe.Param(), fe.Value())
	case "provider", "authflow":
		return fmt.Sprintf("%s has unknown value %q", field, fe.Value())
	default:
		return fmt.Sprintf("%s failed %s validation", field, fe.Tag())
	}
}
