package dto

import (
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/tnqbao/charcoal-cms/service"
)

// RegisterValidators adds the custom binding tags used by the request DTOs.
func RegisterValidators() error {
	engine, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return nil
	}
	return engine.RegisterValidation("slug", func(fl validator.FieldLevel) bool {
		return service.IsSlug(fl.Field().String())
	})
}
