package usecase

import (
	"context"
	"errors"
	"log/slog"
	"time"

	apperrors "github.com/allisson/genproxy/internal/errors"
	forwardDomain "github.com/allisson/genproxy/internal/forward/domain"
	forwardService "github.com/allisson/genproxy/internal/forward/service"
)

// generateUseCase implements GenerateUseCase.
type generateUseCase struct {
	credentials forwardService.CredentialSource
	generator   forwardService.Generator
	ceiling     time.Duration
	logger      *slog.Logger
}

// Generate calls the upstream with the credential active when the call starts.
func (g *generateUseCase) Generate(
	ctx context.Context,
	input *forwardDomain.GenerateInput,
) (*forwardDomain.GenerateOutput, error) {
	if input.Model == "" {
		return nil, forwardDomain.ErrModelRequired
	}
	if len(input.Contents) == 0 {
		return nil, forwardDomain.ErrInvalidContents
	}

	ctx, cancel := context.WithTimeout(ctx, g.ceiling)
	defer cancel()

	index, credential := g.credentials.Active()
	start := time.Now()

	response, err := g.generator.Generate(ctx, credential, input)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			g.logger.InfoContext(ctx, "client disconnected before upstream response",
				slog.String("model", input.Model),
			)
			return nil, err
		}

		level := slog.LevelError
		if apperrors.Is(err, forwardDomain.ErrUpstreamError) {
			level = slog.LevelWarn
		}
		g.logger.Log(ctx, level, "upstream generate failed",
			slog.String("model", input.Model),
			slog.Int("credential_index", index),
			slog.Duration("elapsed", time.Since(start)),
			slog.Any("error", err),
		)
		return nil, err
	}

	g.logger.InfoContext(ctx, "upstream generate completed",
		slog.String("model", input.Model),
		slog.Int("credential_index", index),
		slog.Duration("elapsed", time.Since(start)),
	)

	return &forwardDomain.GenerateOutput{Response: response}, nil
}

// NewGenerateUseCase creates a new GenerateUseCase bounded by ceiling.
func NewGenerateUseCase(
	credentials forwardService.CredentialSource,
	generator forwardService.Generator,
	ceiling time.Duration,
	logger *slog.Logger,
) GenerateUseCase {
	return &generateUseCase{
		credentials: credentials,
		generator:   generator,
		ceiling:     ceiling,
		logger:      logger,
	}
}
