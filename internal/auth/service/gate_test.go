package service

import (
	"net/http"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	authDomain "github.com/allisson/genproxy/internal/auth/domain"
)

const testAdminSecret = "admin666"

type fakeMode struct {
	devMode bool
}

func (f *fakeMode) IsDevMode() bool {
	return f.devMode
}

func newTestGate(t *testing.T, mode *fakeMode, nonces NonceCache, now time.Time) (*Gate, SignatureVerifier) {
	t.Helper()

	verifier := newTestVerifier(t, AlgorithmMD5)
	gate := NewGate(mode, NewPlainSecretMatcher(testAdminSecret), verifier, testAuthSecret, nonces)
	gate.now = func() time.Time { return now }

	return gate, verifier
}

func signedHeader(verifier SignatureVerifier, ts time.Time, nonce string) http.Header {
	timestamp := strconv.FormatInt(ts.Unix(), 10)
	header := http.Header{}
	header.Set(authDomain.HeaderSignature, verifier.Sign(testAuthSecret, timestamp, nonce))
	header.Set(authDomain.HeaderTimestamp, timestamp)
	header.Set(authDomain.HeaderNonce, nonce)
	return header
}

func TestGate_Admit(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)

	t.Run("ViaDevMode_NoHeaders", func(t *testing.T) {
		gate, _ := newTestGate(t, &fakeMode{devMode: true}, nil, now)

		via, err := gate.Admit(http.Header{})

		require.NoError(t, err)
		assert.Equal(t, authDomain.ViaDevMode, via)
	})

	t.Run("ViaDevMode_TakesPrecedenceOverBadSignature", func(t *testing.T) {
		gate, _ := newTestGate(t, &fakeMode{devMode: true}, nil, now)
		header := http.Header{}
		header.Set(authDomain.HeaderSignature, "bad")

		via, err := gate.Admit(header)

		require.NoError(t, err)
		assert.Equal(t, authDomain.ViaDevMode, via)
	})

	t.Run("ViaAdminHeader", func(t *testing.T) {
		gate, _ := newTestGate(t, &fakeMode{}, nil, now)
		header := http.Header{}
		header.Set(authDomain.HeaderAdminPass, testAdminSecret)

		via, err := gate.Admit(header)

		require.NoError(t, err)
		assert.Equal(t, authDomain.ViaAdminHeader, via)
	})

	t.Run("WrongAdminHeader_FallsBackToSignature", func(t *testing.T) {
		gate, _ := newTestGate(t, &fakeMode{}, nil, now)
		header := http.Header{}
		header.Set(authDomain.HeaderAdminPass, "guess")

		via, err := gate.Admit(header)

		assert.ErrorIs(t, err, authDomain.ErrMissingAuthHeaders)
		assert.Empty(t, via)
	})

	t.Run("ViaSignature", func(t *testing.T) {
		gate, verifier := newTestGate(t, &fakeMode{}, nil, now)

		via, err := gate.Admit(signedHeader(verifier, now, "fresh"))

		require.NoError(t, err)
		assert.Equal(t, authDomain.ViaSignature, via)
	})

	t.Run("Error_StaleSignature", func(t *testing.T) {
		gate, verifier := newTestGate(t, &fakeMode{}, nil, now)

		_, err := gate.Admit(signedHeader(verifier, now.Add(-400*time.Second), "stale"))

		assert.ErrorIs(t, err, authDomain.ErrRequestExpired)
	})

	t.Run("ReplayAllowedWithoutNonceCache", func(t *testing.T) {
		gate, verifier := newTestGate(t, &fakeMode{}, nil, now)
		header := signedHeader(verifier, now, "replayed")

		_, err := gate.Admit(header)
		require.NoError(t, err)
		_, err = gate.Admit(header)
		assert.NoError(t, err)
	})

	t.Run("Error_ReplayRejectedWithNonceCache", func(t *testing.T) {
		gate, verifier := newTestGate(t, &fakeMode{}, NewNonceCache(600*time.Second), now)
		header := signedHeader(verifier, now, "replayed")

		_, err := gate.Admit(header)
		require.NoError(t, err)
		_, err = gate.Admit(header)
		assert.ErrorIs(t, err, authDomain.ErrNonceReused)
	})

	t.Run("ForgedRequestDoesNotConsumeNonce", func(t *testing.T) {
		gate, verifier := newTestGate(t, &fakeMode{}, NewNonceCache(600*time.Second), now)
		forged := signedHeader(verifier, now, "victim")
		forged.Set(authDomain.HeaderSignature, "00000000000000000000000000000000")

		_, err := gate.Admit(forged)
		require.ErrorIs(t, err, authDomain.ErrSignatureMismatch)

		via, err := gate.Admit(signedHeader(verifier, now, "victim"))
		require.NoError(t, err)
		assert.Equal(t, authDomain.ViaSignature, via)
	})

	t.Run("DevModeToggleRestoresEnforcement", func(t *testing.T) {
		mode := &fakeMode{devMode: true}
		gate, _ := newTestGate(t, mode, nil, now)

		_, err := gate.Admit(http.Header{})
		require.NoError(t, err)

		mode.devMode = false
		_, err = gate.Admit(http.Header{})
		assert.ErrorIs(t, err, authDomain.ErrMissingAuthHeaders)
	})
}

func TestGate_Admit_HashedAdminSecretUnderLoad(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)
	matcher := newSaturatedHashedMatcher(t, testAdminSecret)

	gate := NewGate(&fakeMode{}, matcher, newTestVerifier(t, AlgorithmMD5), testAuthSecret, nil)
	gate.now = func() time.Time { return now }

	header := http.Header{}
	header.Set(authDomain.HeaderAdminPass, "guess")

	via, err := gate.Admit(header)

	assert.Empty(t, via)
	assert.ErrorIs(t, err, authDomain.ErrMissingAuthHeaders)
}
