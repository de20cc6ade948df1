package model

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// validate is shared by every entity in the package.
var validate *validator.Validate

func init() {
	validate = validator.New()
	_ = validate.RegisterValidation("notblank", notBlank)
}

// notBlank rejects empty and whitespace-only strings.
func notBlank(fl validator.FieldLevel) bool {
	return strings.TrimSpace(fl.Field().String()) != ""
}

// fieldMessages maps "StructField.tag" to the message shown to the user.
type fieldMessages map[string]string

// messagesFor runs struct validation on v and translates each failure into a
// user-facing message, in field declaration order.
func messagesFor(v any, msgs fieldMessages) []string {
	err := validate.Struct(v)
	if err == nil {
		return []string{}
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []string{err.Error()}
	}

	out := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		if m, ok := msgs[fe.StructField()+"."+fe.Tag()]; ok {
			out = append(out, m)
			continue
		}
		out = append(out, fmt.Sprintf("%s is invalid.", fe.StructField()))
	}
	return out
}
