package usecase

import (
	"context"
	"io"
	"log/slog"
	"math"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	adminDomain "github.com/allisson/genproxy/internal/admin/domain"
	adminService "github.com/allisson/genproxy/internal/admin/service"
	authService "github.com/allisson/genproxy/internal/auth/service"
	apperrors "github.com/allisson/genproxy/internal/errors"
)

const testAdminPassword = "admin-secret"

type adminFixture struct {
	useCase AdminUseCase
	mode    *adminService.ModeFlag
	store   *adminService.CredentialStore
}

func newAdminFixture(t *testing.T, credentials ...string) *adminFixture {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	store, err := adminService.NewCredentialStore(adminDomain.NewCredentials(credentials), logger)
	require.NoError(t, err)
	mode := adminService.NewModeFlag()

	return &adminFixture{
		useCase: NewAdminUseCase(authService.NewPlainSecretMatcher(testAdminPassword), mode, store, logger),
		mode:    mode,
		store:   store,
	}
}

func boolPtr(v bool) *bool { return &v }

func intPtr(v int) *int { return &v }

func TestAdminUseCase_ToggleDevMode(t *testing.T) {
	ctx := context.Background()

	t.Run("Success_Enable", func(t *testing.T) {
		f := newAdminFixture(t, "key-0")

		output, err := f.useCase.ToggleDevMode(ctx, &adminDomain.ToggleDevModeInput{
			Password: testAdminPassword,
			Enable:   boolPtr(true),
		})

		require.NoError(t, err)
		assert.True(t, output.IsDevMode)
		assert.True(t, f.mode.IsDevMode())
	})

	t.Run("Success_EnableThenDisable", func(t *testing.T) {
		f := newAdminFixture(t, "key-0")
		f.mode.Set(true)

		output, err := f.useCase.ToggleDevMode(ctx, &adminDomain.ToggleDevModeInput{
			Password: testAdminPassword,
			Enable:   boolPtr(false),
		})

		require.NoError(t, err)
		assert.False(t, output.IsDevMode)
		assert.False(t, f.mode.IsDevMode())
	})

	t.Run("Error_WrongPasswordLeavesFlagUnchanged", func(t *testing.T) {
		f := newAdminFixture(t, "key-0")

		output, err := f.useCase.ToggleDevMode(ctx, &adminDomain.ToggleDevModeInput{
			Password: "wrong",
			Enable:   boolPtr(true),
		})

		assert.Nil(t, output)
		assert.ErrorIs(t, err, adminDomain.ErrInvalidAdminPassword)
		assert.ErrorIs(t, err, apperrors.ErrForbidden)
		assert.False(t, f.mode.IsDevMode())
	})

	t.Run("Error_PasswordCheckedBeforePayload", func(t *testing.T) {
		f := newAdminFixture(t, "key-0")

		_, err := f.useCase.ToggleDevMode(ctx, &adminDomain.ToggleDevModeInput{Password: "wrong"})

		assert.ErrorIs(t, err, adminDomain.ErrInvalidAdminPassword)
	})

	t.Run("Error_MissingEnable", func(t *testing.T) {
		f := newAdminFixture(t, "key-0")

		_, err := f.useCase.ToggleDevMode(ctx, &adminDomain.ToggleDevModeInput{Password: testAdminPassword})

		assert.ErrorIs(t, err, adminDomain.ErrInvalidEnableValue)
		assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
		assert.False(t, f.mode.IsDevMode())
	})
}

func TestAdminUseCase_SwitchCredential(t *testing.T) {
	ctx := context.Background()

	t.Run("Success_SwitchToSecond", func(t *testing.T) {
		f := newAdminFixture(t, "key-0", "key-1")

		output, err := f.useCase.SwitchCredential(ctx, &adminDomain.SwitchCredentialInput{
			Password: testAdminPassword,
			Index:    intPtr(1),
		})

		require.NoError(t, err)
		assert.Equal(t, 1, output.CurrentIndex)
		index, credential := f.store.Active()
		assert.Equal(t, 1, index)
		assert.Equal(t, "key-1", credential.Reveal())
	})

	t.Run("Error_OutOfRangeLeavesIndexUnchanged", func(t *testing.T) {
		f := newAdminFixture(t, "key-0", "key-1")

		output, err := f.useCase.SwitchCredential(ctx, &adminDomain.SwitchCredentialInput{
			Password: testAdminPassword,
			Index:    intPtr(2),
		})

		assert.Nil(t, output)
		assert.ErrorIs(t, err, adminDomain.ErrIndexOutOfRange)
		index, _ := f.store.Active()
		assert.Equal(t, 0, index)
	})

	t.Run("Error_HugeIndexIsOutOfRange", func(t *testing.T) {
		f := newAdminFixture(t, "key-0", "key-1")

		_, err := f.useCase.SwitchCredential(ctx, &adminDomain.SwitchCredentialInput{
			Password: testAdminPassword,
			Index:    intPtr(math.MaxInt),
		})

		assert.ErrorIs(t, err, adminDomain.ErrIndexOutOfRange)
		index, _ := f.store.Active()
		assert.Equal(t, 0, index)
	})

	t.Run("Error_WrongPassword", func(t *testing.T) {
		f := newAdminFixture(t, "key-0", "key-1")

		_, err := f.useCase.SwitchCredential(ctx, &adminDomain.SwitchCredentialInput{
			Password: "wrong",
			Index:    intPtr(1),
		})

		assert.ErrorIs(t, err, adminDomain.ErrInvalidAdminPassword)
		index, _ := f.store.Active()
		assert.Equal(t, 0, index)
	})

	t.Run("Error_MissingIndex", func(t *testing.T) {
		f := newAdminFixture(t, "key-0", "key-1")

		_, err := f.useCase.SwitchCredential(ctx, &adminDomain.SwitchCredentialInput{Password: testAdminPassword})

		assert.ErrorIs(t, err, adminDomain.ErrInvalidIndex)
	})
}

func TestAdminUseCase_ConcurrentMutations(t *testing.T) {
	ctx := context.Background()
	f := newAdminFixture(t, "key-0", "key-1", "key-2")

	issuedIndexes := map[int]bool{}
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		index := i % 3
		enable := i%2 == 0
		issuedIndexes[index] = true

		wg.Add(2)
		go func() {
			defer wg.Done()
			_, err := f.useCase.SwitchCredential(ctx, &adminDomain.SwitchCredentialInput{
				Password: testAdminPassword,
				Index:    intPtr(index),
			})
			assert.NoError(t, err)
		}()
		go func() {
			defer wg.Done()
			_, err := f.useCase.ToggleDevMode(ctx, &adminDomain.ToggleDevModeInput{
				Password: testAdminPassword,
				Enable:   boolPtr(enable),
			})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	index, credential := f.store.Active()
	assert.True(t, issuedIndexes[index])
	assert.Equal(t, []string{"key-0", "key-1", "key-2"}[index], credential.Reveal())
}
