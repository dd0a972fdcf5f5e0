package validator

import (
	"github.com/go-playground/validator/v10"
)

// registerCustomRules регистрирует кастомные правила валидации
func registerCustomRules(v *validator.Validate) {
	// member_role: роль участника беседы
	_ = v.RegisterValidation("member_role", func(fl validator.FieldLevel) bool {
		switch fl.Field().String() {
		case "owner", "moderator", "member":
			return true
		}
		return false
	})
}
