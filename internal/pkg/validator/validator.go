package validator

import (
	"regexp"

	"github.com/go-playground/validator/v10"
)

var validate *validator.Validate

var stateCodeRegex = regexp.MustCompile(`^[A-Z]{2}$`)

func init() {
	validate = validator.New()
	_ = validate.RegisterValidation("state_code", func(fl validator.FieldLevel) bool {
		return stateCodeRegex.MatchString(fl.Field().String())
	})
}

// Var - валидация одного значения по тегу
func Var(field interface{}, tag string) error {
	return validate.Var(field, tag)
}

// IsEmail проверяет синтаксис email адреса
func IsEmail(email string) bool {
	return Var(email, "required,email") == nil
}

// IsStateCode проверяет двухбуквенный код штата (в верхнем регистре)
func IsStateCode(code string) bool {
	return Var(code, "state_code") == nil
}
