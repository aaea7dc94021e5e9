package security

import (
	"testing"
	"time"

	"github.com/linguatrust/translation-orders/internal/entities"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIntegritySigner(t *testing.T) {
	signer := NewIntegritySigner("test-key")
	cert := entities.Certification{
		CertificationID:      "LT-20260115-A1B2C3D4",
		OrderID:              "7f9c24e5-5bd1-4a6b-8f50-3f1c4a11a1aa",
		DocumentType:         "birth_certificate",
		SourceLanguage:       "es",
		TargetLanguage:       "en",
		PageCount:            2,
		CertifierName:        "Maria Alvarez",
		CertifierCredentials: "ATA #523311",
		CertifiedAt:          time.Date(2026, 1, 15, 10, 30, 0, 0, time.UTC),
	}

	cert.IntegrityToken = signer.Token(cert)
	assert.True(t, signer.Verify(cert))

	// Tampering with any signed field breaks verification.
	tampered := cert
	tampered.PageCount = 20
	assert.False(t, signer.Verify(tampered))

	tampered = cert
	tampered.CertifierName = "Someone Else"
	assert.False(t, signer.Verify(tampered))

	tampered = cert
	tampered.IntegrityToken = "deadbeef"
	assert.False(t, signer.Verify(tampered))

	// A different key yields a different token.
	other := NewIntegritySigner("other-key")
	assert.False(t, other.Verify(cert))
}

func TestIntegritySigner_Deterministic(t *testing.T) {
	signer := NewIntegritySigner("k")
	cert := entities.Certification{
		OrderID:     "order",
		CertifiedAt: time.Now(),
	}
	assert.Equal(t, signer.Token(cert), signer.Token(cert))
}

func TestRandomToken(t *testing.T) {
	a, err := RandomToken(32)
	require.NoError(t, err)
	b, err := RandomToken(32)
	require.NoError(t, err)

	assert.Len(t, a, 32)
	assert.NotEqual(t, a, b)
}

func TestRandomAlnum(t *testing.T) {
	s, err := RandomAlnum(8)
	require.NoError(t, err)
	assert.Len(t, s, 8)
	for _, r := range s {
		assert.Contains(t, alnum, string(r))
	}
}
