package constants

import "github.com/go-playground/validator/v10"

// Validate is shared so struct tag metadata is cached once per process.
var Validate = validator.New(validator.WithRequiredStructEnabled())
