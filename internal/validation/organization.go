package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

func structValidator() *validator.Validate {
	validateOnce.Do(func() {
		v := validator.New(validator.WithRequiredStructEnabled())
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("form"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
		_ = v.RegisterValidation("android_email", func(fl validator.FieldLevel) bool {
			return ValidEmail(fl.Field().String())
		})
		_ = v.RegisterValidation("country", func(fl validator.FieldLevel) bool {
			allowed, ok := fl.Top().Interface().(OrganizationForm)
			if !ok {
				return false
			}
			for _, c := range allowed.Countries {
				if c == fl.Field().String() {
					return true
				}
			}
			return false
		})
		validate = v
	})
	return validate
}

// OrganizationForm is what the create-organization screen submits.
type OrganizationForm struct {
	Name      string   `form:"nombre" validate:"required,max=120"`
	Country   string   `form:"país" validate:"required,country"`
	Email     string   `form:"email" validate:"required,android_email"`
	Countries []string `form:"-" validate:"-"`
}

// FieldError names the first field of a form that failed.
type FieldError struct {
	Field   string
	Message string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Organization checks that a name was typed, a known country picked and a
// registered email is available. The first failing field is returned as a
// *FieldError.
func Organization(f OrganizationForm) error {
	f.Name = strings.TrimSpace(f.Name)
	err := structValidator().Struct(f)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return err
	}
	fe := fieldErrs[0]
	return &FieldError{Field: fe.Field(), Message: organizationMessage(fe)}
}

func organizationMessage(fe validator.FieldError) string {
	switch fe.StructField() {
	case "Name":
		if fe.Tag() == "max" {
			return "El nombre es demasiado largo"
		}
		return "El nombre de la organización es requerido"
	case "Country":
		if fe.Tag() == "required" {
			return "Selecciona un país de operación logística"
		}
		return "País no soportado"
	case "Email":
		if fe.Tag() == "required" {
			return "Primero registra un usuario"
		}
		return MsgEmailInvalid
	}
	return fe.Error()
}
