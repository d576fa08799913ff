package commands

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	cryptoDomain "github.com/allisson/genproxy/internal/crypto/domain"
)

// KMS mocks.
type MockKMSService struct {
	mock.Mock
}

func (m *MockKMSService) OpenKeeper(ctx context.Context, uri string) (cryptoDomain.Keeper, error) {
	args := m.Called(ctx, uri)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(cryptoDomain.Keeper), args.Error(1)
}

type MockKMSKeeper struct {
	mock.Mock
}

func (m *MockKMSKeeper) Encrypt(ctx context.Context, plaintext []byte) ([]byte, error) {
	args := m.Called(ctx, plaintext)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

func (m *MockKMSKeeper) Decrypt(ctx context.Context, ciphertext []byte) ([]byte, error) {
	args := m.Called(ctx, ciphertext)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

func (m *MockKMSKeeper) Close() error {
	return m.Called().Error(0)
}

func TestRunSealCredential(t *testing.T) {
	ctx := context.Background()
	logger := discardLogger()
	keyURI := "base64key://smGbjm71Nxd1Ig5FS0wj9SlbzAIrnolCz9bQQ6uAhl4="

	t.Run("success", func(t *testing.T) {
		mockService := &MockKMSService{}
		mockKeeper := &MockKMSKeeper{}

		mockService.On("OpenKeeper", ctx, keyURI).Return(mockKeeper, nil)
		mockKeeper.On("Encrypt", ctx, []byte("key-0")).Return([]byte("sealed-0"), nil)
		mockKeeper.On("Encrypt", ctx, []byte("key-1")).Return([]byte("sealed-1"), nil)
		mockKeeper.On("Close").Return(nil)

		var out bytes.Buffer
		err := RunSealCredential(ctx, mockService, logger, &out, keyURI, []string{"key-0", "key-1"})
		require.NoError(t, err)

		expected := base64.StdEncoding.EncodeToString([]byte("sealed-0")) + "," +
			base64.StdEncoding.EncodeToString([]byte("sealed-1"))
		require.Contains(t, out.String(), `UPSTREAM_API_KEYS="`+expected+`"`)
		require.Contains(t, out.String(), `KMS_KEY_URI="`+keyURI+`"`)
		require.NotContains(t, out.String(), "key-0")

		mockService.AssertExpectations(t)
		mockKeeper.AssertExpectations(t)
	})

	t.Run("missing-parameters", func(t *testing.T) {
		err := RunSealCredential(ctx, nil, logger, nil, "", []string{"key-0"})
		require.Error(t, err)
		require.Contains(t, err.Error(), "required")

		err = RunSealCredential(ctx, nil, logger, nil, keyURI, nil)
		require.Error(t, err)
		require.Contains(t, err.Error(), "required")
	})

	t.Run("open-keeper-error", func(t *testing.T) {
		mockService := &MockKMSService{}
		mockService.On("OpenKeeper", ctx, keyURI).Return(nil, errors.New("kms unavailable"))

		err := RunSealCredential(ctx, mockService, logger, &bytes.Buffer{}, keyURI, []string{"key-0"})
		require.Error(t, err)
		require.Contains(t, err.Error(), "kms unavailable")
		mockService.AssertExpectations(t)
	})

	t.Run("encrypt-error-closes-keeper", func(t *testing.T) {
		mockService := &MockKMSService{}
		mockKeeper := &MockKMSKeeper{}

		mockService.On("OpenKeeper", ctx, keyURI).Return(mockKeeper, nil)
		mockKeeper.On("Encrypt", ctx, []byte("key-0")).Return(nil, errors.New("permission denied"))
		mockKeeper.On("Close").Return(nil)

		var out bytes.Buffer
		err := RunSealCredential(ctx, mockService, logger, &out, keyURI, []string{"key-0"})
		require.Error(t, err)
		require.Contains(t, err.Error(), "credential #1")
		require.Empty(t, out.String())

		mockKeeper.AssertExpectations(t)
	})
}
