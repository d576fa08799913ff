package app

import (
	"fmt"
	"net/url"

	forwardHTTP "github.com/allisson/genproxy/internal/forward/http"
	forwardService "github.com/allisson/genproxy/internal/forward/service"
	forwardUseCase "github.com/allisson/genproxy/internal/forward/usecase"
)

// Generator returns the genai backed generator used by the structured generate mode.
func (c *Container) Generator() forwardService.Generator {
	c.generatorInit.Do(func() {
		c.generator = forwardService.NewGenaiGenerator(
			c.config.UpstreamBaseURL,
			forwardService.NewUpstreamTransport(c.config.UpstreamTimeout),
		)
	})
	return c.generator
}

// GenerateUseCase returns the structured generate use case.
func (c *Container) GenerateUseCase() (forwardUseCase.GenerateUseCase, error) {
	var err error
	c.generateUseCaseInit.Do(func() {
		c.generateUseCase, err = c.initGenerateUseCase()
		if err != nil {
			c.setInitError("generateUseCase", err)
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr := c.initError("generateUseCase"); storedErr != nil {
		return nil, storedErr
	}
	return c.generateUseCase, nil
}

// GenerateHandler returns the handler of POST /api/generate.
func (c *Container) GenerateHandler() (*forwardHTTP.GenerateHandler, error) {
	var err error
	c.generateHandlerInit.Do(func() {
		c.generateHandler, err = c.initGenerateHandler()
		if err != nil {
			c.setInitError("generateHandler", err)
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr := c.initError("generateHandler"); storedErr != nil {
		return nil, storedErr
	}
	return c.generateHandler, nil
}

// ProxyHandler returns the handler forwarding every non-local request to the upstream.
func (c *Container) ProxyHandler() (*forwardHTTP.ProxyHandler, error) {
	var err error
	c.proxyHandlerInit.Do(func() {
		c.proxyHandler, err = c.initProxyHandler()
		if err != nil {
			c.setInitError("proxyHandler", err)
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr := c.initError("proxyHandler"); storedErr != nil {
		return nil, storedErr
	}
	return c.proxyHandler, nil
}

func (c *Container) initGenerateUseCase() (forwardUseCase.GenerateUseCase, error) {
	store, err := c.CredentialStore()
	if err != nil {
		return nil, fmt.Errorf("failed to get credential store for generate use case: %w", err)
	}

	baseUseCase := forwardUseCase.NewGenerateUseCase(store, c.Generator(), c.config.UpstreamTimeout, c.Logger())

	// Wrap with metrics if enabled
	if c.config.MetricsEnabled {
		businessMetrics, err := c.BusinessMetrics()
		if err != nil {
			return nil, fmt.Errorf("failed to get business metrics for generate use case: %w", err)
		}
		return forwardUseCase.NewGenerateUseCaseWithMetrics(baseUseCase, businessMetrics), nil
	}

	return baseUseCase, nil
}

func (c *Container) initGenerateHandler() (*forwardHTTP.GenerateHandler, error) {
	useCase, err := c.GenerateUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get generate use case for generate handler: %w", err)
	}
	return forwardHTTP.NewGenerateHandler(useCase, c.Responder(), c.config.MaxRequestBodyBytes, c.Logger()), nil
}

func (c *Container) initProxyHandler() (*forwardHTTP.ProxyHandler, error) {
	store, err := c.CredentialStore()
	if err != nil {
		return nil, fmt.Errorf("failed to get credential store for proxy handler: %w", err)
	}

	businessMetrics, err := c.BusinessMetrics()
	if err != nil {
		return nil, fmt.Errorf("failed to get business metrics for proxy handler: %w", err)
	}

	target, err := url.Parse(c.config.UpstreamBaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse upstream base url: %w", err)
	}

	proxy := forwardService.NewReverseProxy(forwardService.ReverseProxyConfig{
		Target:     target,
		AuthHeader: c.config.UpstreamAuthHeader,
		Ceiling:    c.config.UpstreamTimeout,
		Transport:  forwardService.NewUpstreamTransport(c.config.UpstreamTimeout),
	}, store, c.Responder(), c.Logger())

	return forwardHTTP.NewProxyHandler(proxy, businessMetrics), nil
}
