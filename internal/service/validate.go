package service

import (
	"fmt"

	"travelapp/internal/entity"

	"github.com/go-playground/validator/v10"
)

// validate enforces the same rules the transport layer binds with, so
// callers that bypass HTTP (seeder, workers, tests) hit identical checks.
var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.SetTagName("binding")
	return v
}

func validateRequest(req interface{}) error {
	if err := validate.Struct(req); err != nil {
		return fmt.Errorf("%w: %v", entity.ErrInvalidInput, err)
	}
	return nil
}
