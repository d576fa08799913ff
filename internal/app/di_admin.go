package app

import (
	"context"
	"fmt"
	"log/slog"

	adminDomain "github.com/allisson/genproxy/internal/admin/domain"
	adminHTTP "github.com/allisson/genproxy/internal/admin/http"
	adminService "github.com/allisson/genproxy/internal/admin/service"
	adminUseCase "github.com/allisson/genproxy/internal/admin/usecase"
	cryptoService "github.com/allisson/genproxy/internal/crypto/service"
)

// KMSService returns the KMS service used to unseal upstream credentials.
func (c *Container) KMSService() cryptoService.KMSService {
	c.kmsServiceInit.Do(func() {
		c.kmsService = cryptoService.NewKMSService()
	})
	return c.kmsService
}

// UpstreamCredentials returns the upstream credentials in configuration order.
// When KMS_KEY_URI is set the configured entries are unsealed first.
func (c *Container) UpstreamCredentials() ([]adminDomain.Credential, error) {
	var err error
	c.credentialsInit.Do(func() {
		c.credentials, err = c.initUpstreamCredentials()
		if err != nil {
			c.setInitError("credentials", err)
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr := c.initError("credentials"); storedErr != nil {
		return nil, storedErr
	}
	return c.credentials, nil
}

// CredentialStore returns the store holding the active upstream credential.
func (c *Container) CredentialStore() (*adminService.CredentialStore, error) {
	var err error
	c.credentialStoreInit.Do(func() {
		c.credentialStore, err = c.initCredentialStore()
		if err != nil {
			c.setInitError("credentialStore", err)
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr := c.initError("credentialStore"); storedErr != nil {
		return nil, storedErr
	}
	return c.credentialStore, nil
}

// ModeFlag returns the developer mode flag. It starts disabled.
func (c *Container) ModeFlag() *adminService.ModeFlag {
	c.modeFlagInit.Do(func() {
		c.modeFlag = adminService.NewModeFlag()
	})
	return c.modeFlag
}

// AdminUseCase returns the admin use case.
func (c *Container) AdminUseCase() (adminUseCase.AdminUseCase, error) {
	var err error
	c.adminUseCaseInit.Do(func() {
		c.adminUseCase, err = c.initAdminUseCase()
		if err != nil {
			c.setInitError("adminUseCase", err)
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr := c.initError("adminUseCase"); storedErr != nil {
		return nil, storedErr
	}
	return c.adminUseCase, nil
}

// AdminHandler returns the admin HTTP handler.
func (c *Container) AdminHandler() (*adminHTTP.AdminHandler, error) {
	var err error
	c.adminHandlerInit.Do(func() {
		c.adminHandler, err = c.initAdminHandler()
		if err != nil {
			c.setInitError("adminHandler", err)
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr := c.initError("adminHandler"); storedErr != nil {
		return nil, storedErr
	}
	return c.adminHandler, nil
}

func (c *Container) initUpstreamCredentials() ([]adminDomain.Credential, error) {
	if c.config.KMSKeyURI == "" {
		return adminDomain.NewCredentials(c.config.UpstreamAPIKeys), nil
	}

	ctx := context.Background()

	keeper, err := c.KMSService().OpenKeeper(ctx, c.config.KMSKeyURI)
	if err != nil {
		return nil, fmt.Errorf("failed to open keeper for upstream credentials: %w", err)
	}
	defer func() {
		if closeErr := keeper.Close(); closeErr != nil {
			c.Logger().Warn("failed to close KMS keeper", slog.Any("error", closeErr))
		}
	}()

	plain, err := cryptoService.NewSealer(keeper).UnsealAll(ctx, c.config.UpstreamAPIKeys)
	if err != nil {
		return nil, fmt.Errorf("failed to unseal upstream credentials: %w", err)
	}

	c.Logger().Info("upstream credentials unsealed", slog.Int("count", len(plain)))

	return adminDomain.NewCredentials(plain), nil
}

func (c *Container) initCredentialStore() (*adminService.CredentialStore, error) {
	credentials, err := c.UpstreamCredentials()
	if err != nil {
		return nil, err
	}

	store, err := adminService.NewCredentialStore(credentials, c.Logger())
	if err != nil {
		return nil, fmt.Errorf("failed to create credential store: %w", err)
	}
	return store, nil
}

func (c *Container) initAdminUseCase() (adminUseCase.AdminUseCase, error) {
	matcher, err := c.AdminMatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to get admin matcher for admin use case: %w", err)
	}

	store, err := c.CredentialStore()
	if err != nil {
		return nil, fmt.Errorf("failed to get credential store for admin use case: %w", err)
	}

	baseUseCase := adminUseCase.NewAdminUseCase(matcher, c.ModeFlag(), store, c.Logger())

	// Wrap with metrics if enabled
	if c.config.MetricsEnabled {
		businessMetrics, err := c.BusinessMetrics()
		if err != nil {
			return nil, fmt.Errorf("failed to get business metrics for admin use case: %w", err)
		}
		return adminUseCase.NewAdminUseCaseWithMetrics(baseUseCase, businessMetrics), nil
	}

	return baseUseCase, nil
}

func (c *Container) initAdminHandler() (*adminHTTP.AdminHandler, error) {
	useCase, err := c.AdminUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get admin use case for admin handler: %w", err)
	}
	return adminHTTP.NewAdminHandler(useCase, c.Responder(), c.Logger()), nil
}
