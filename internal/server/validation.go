package server

import (
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/woopit/woopit-server/internal/db"
)

// RegisterValidators installs the enum validators used by request binding
// tags. Safe to call more than once.
func RegisterValidators() {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return
	}
	_ = v.RegisterValidation("skilllevel", func(fl validator.FieldLevel) bool {
		return db.ValidLevel(fl.Field().String())
	})
	_ = v.RegisterValidation("genderpref", func(fl validator.FieldLevel) bool {
		return db.ValidGender(fl.Field().String())
	})
}
