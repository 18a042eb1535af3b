package dto

import (
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/polkiloo/craftmarket/internal/domain/model"
)

// RegisterValidators adds the request rules used by this package to gin's
// validator engine.
func RegisterValidators() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return nil
	}
	return v.RegisterValidation("mobile", func(fl validator.FieldLevel) bool {
		return model.ValidMobile(fl.Field().String())
	})
}
