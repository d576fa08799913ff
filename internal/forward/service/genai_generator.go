package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"

	"google.golang.org/genai"

	adminDomain "github.com/allisson/genproxy/internal/admin/domain"
	apperrors "github.com/allisson/genproxy/internal/errors"
	forwardDomain "github.com/allisson/genproxy/internal/forward/domain"
)

// genaiGenerator calls the upstream through the genai SDK, one client per credential.
type genaiGenerator struct {
	baseURL    string
	httpClient *http.Client

	mu      sync.Mutex
	clients map[adminDomain.Credential]*genai.Client
}

// NewGenaiGenerator creates a Generator against baseURL using transport for every call.
func NewGenaiGenerator(baseURL string, transport http.RoundTripper) Generator {
	return &genaiGenerator{
		baseURL:    baseURL,
		httpClient: &http.Client{Transport: transport},
		clients:    make(map[adminDomain.Credential]*genai.Client),
	}
}

// Generate performs a GenerateContent call with the given credential.
// Upstream API errors become ErrUpstreamError; transport failures are classified.
func (g *genaiGenerator) Generate(
	ctx context.Context,
	credential adminDomain.Credential,
	input *forwardDomain.GenerateInput,
) (*genai.GenerateContentResponse, error) {
	client, err := g.client(ctx, credential)
	if err != nil {
		return nil, err
	}

	response, err := client.Models.GenerateContent(ctx, input.Model, input.Contents, input.Config)
	if err != nil {
		return nil, classifyGenaiError(ctx, err)
	}
	return response, nil
}

func (g *genaiGenerator) client(ctx context.Context, credential adminDomain.Credential) (*genai.Client, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if client, ok := g.clients[credential]; ok {
		return client, nil
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:     credential.Reveal(),
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: g.httpClient,
		HTTPOptions: genai.HTTPOptions{
			BaseURL: g.baseURL,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create upstream client: %w", err)
	}

	g.clients[credential] = client
	return client, nil
}

func classifyGenaiError(ctx context.Context, err error) error {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		return upstreamAPIError(apiErr.Code, apiErr.Message, err)
	}
	var apiErrPtr *genai.APIError
	if errors.As(err, &apiErrPtr) && apiErrPtr != nil {
		return upstreamAPIError(apiErrPtr.Code, apiErrPtr.Message, err)
	}
	return ClassifyTransportError(ctx, err)
}

func upstreamAPIError(code int, message string, cause error) error {
	public := fmt.Sprintf("upstream returned status %d", code)
	if message != "" {
		public = fmt.Sprintf("%s: %s", public, message)
	}
	return apperrors.WithCause(apperrors.Refine(forwardDomain.ErrUpstreamError, public), cause)
}
