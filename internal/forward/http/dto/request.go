// Package dto provides data transfer objects for HTTP request and response handling.
package dto

import (
	"encoding/json"
	"regexp"

	validation "github.com/jellydator/validation"

	forwardDomain "github.com/allisson/genproxy/internal/forward/domain"
	customValidation "github.com/allisson/genproxy/internal/validation"
)

var modelPattern = regexp.MustCompile(`^[A-Za-z0-9._/-]+$`)

// GenerateRequest is the body of POST /api/generate.
// Contents and Config are kept raw and decoded by the forward domain.
type GenerateRequest struct {
	Model    string          `json:"model"`
	Contents json.RawMessage `json:"contents"`
	Config   json.RawMessage `json:"config"`
}

// Validate checks if the generate request is valid.
func (r *GenerateRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Model,
			validation.Required,
			customValidation.NotBlank,
			validation.Length(1, 256),
			validation.Match(modelPattern),
		),
		validation.Field(&r.Contents, validation.Required),
	)
}

// ToInput decodes contents and config into the use case input.
func (r *GenerateRequest) ToInput() (*forwardDomain.GenerateInput, error) {
	contents, err := forwardDomain.ParseContents(r.Contents)
	if err != nil {
		return nil, err
	}

	config, err := forwardDomain.ParseConfig(r.Config)
	if err != nil {
		return nil, err
	}

	return &forwardDomain.GenerateInput{
		Model:    r.Model,
		Contents: contents,
		Config:   config,
	}, nil
}
