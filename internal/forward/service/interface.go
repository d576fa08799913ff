// Package service talks to the upstream API: the shared transport and its timeout
// discipline, transport error classification, the genai backed generator and the
// generic reverse proxy.
package service

import (
	"context"
	"net/http"

	"google.golang.org/genai"

	adminDomain "github.com/allisson/genproxy/internal/admin/domain"
	forwardDomain "github.com/allisson/genproxy/internal/forward/domain"
)

// CredentialSource returns the active upstream credential.
type CredentialSource interface {
	Active() (int, adminDomain.Credential)
}

// Generator performs structured content generation calls.
type Generator interface {
	Generate(
		ctx context.Context,
		credential adminDomain.Credential,
		input *forwardDomain.GenerateInput,
	) (*genai.GenerateContentResponse, error)
}

// ErrorWriter renders a domain error on a plain response writer.
type ErrorWriter interface {
	WriteError(w http.ResponseWriter, req *http.Request, err error)
}
