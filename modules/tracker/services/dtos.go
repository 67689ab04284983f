package services

import (
	"fmt"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/actiontracker/tracker/modules/tracker/domain/entities/user"
	"github.com/actiontracker/tracker/modules/tracker/domain/entities/vendor"
	"github.com/actiontracker/tracker/pkg/constants"
)

type CreateUserDTO struct {
	Email    string `validate:"required,email"`
	Name     string `validate:"required"`
	Initials string `validate:"omitempty,max=10"`
}

type CreateVendorDTO struct {
	Prefix      string `validate:"required,min=2,max=5,alpha,uppercase"`
	Name        string `validate:"required"`
	Description string `validate:"omitempty"`
}

func (dto *CreateUserDTO) normalize() {
	dto.Email = strings.TrimSpace(dto.Email)
	dto.Name = strings.TrimSpace(dto.Name)
	dto.Initials = strings.TrimSpace(dto.Initials)
}

func (dto *CreateUserDTO) Ok() error {
	dto.normalize()
	return validationError(constants.Validate.Struct(dto))
}

func (dto *CreateUserDTO) ToEntity() user.User {
	u := user.User{Email: dto.Email, Name: dto.Name}
	if dto.Initials != "" {
		initials := dto.Initials
		u.Initials = &initials
	}
	return u
}

func (dto *CreateVendorDTO) Ok() error {
	dto.Prefix = strings.TrimSpace(dto.Prefix)
	dto.Name = strings.TrimSpace(dto.Name)
	dto.Description = strings.TrimSpace(dto.Description)
	return validationError(constants.Validate.Struct(dto))
}

func (dto *CreateVendorDTO) ToEntity() vendor.Vendor {
	v := vendor.Vendor{Prefix: dto.Prefix, Name: dto.Name, NextNumber: 1}
	if dto.Description != "" {
		description := dto.Description
		v.Description = &description
	}
	return v
}

// InvalidInputError lists failed fields by name.
type InvalidInputError struct {
	Fields map[string]string
}

func (e *InvalidInputError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, field := range sortedKeys(e.Fields) {
		parts = append(parts, fmt.Sprintf("%s %s", field, e.Fields[field]))
	}
	return "invalid input: " + strings.Join(parts, "; ")
}

func validationError(errs error) error {
	if errs == nil {
		return nil
	}
	verrs, ok := errs.(validator.ValidationErrors)
	if !ok {
		return errs
	}
	fields := make(map[string]string, len(verrs))
	for _, err := range verrs {
		fields[err.Field()] = tagMessage(err)
	}
	return &InvalidInputError{Fields: fields}
}

func tagMessage(err validator.FieldError) string {
	switch err.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "min":
		return fmt.Sprintf("must be at least %s characters", err.Param())
	case "max":
		return fmt.Sprintf("must be at most %s characters", err.Param())
	case "alpha":
		return "must contain letters only"
	case "uppercase":
		return "must be uppercase"
	default:
		return fmt.Sprintf("failed %q validation", err.Tag())
	}
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
