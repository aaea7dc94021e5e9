package security

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"strconv"
	"strings"

	"github.com/linguatrust/translation-orders/internal/entities"
)

// IntegritySigner derives a deterministic keyed digest over the
// immutable certification fields. Verification recomputes the digest
// from the stored row, so any edit to those fields is detectable.
type IntegritySigner struct {
	key string
}

func NewIntegritySigner(key string) *IntegritySigner {
	return &IntegritySigner{key: key}
}

func (s *IntegritySigner) Token(c entities.Certification) string {
	h := hmac.New(sha256.New, []byte(s.key))
	h.Write([]byte(canonical(c)))
	return hex.EncodeToString(h.Sum(nil))
}

func (s *IntegritySigner) Verify(c entities.Certification) bool {
	return hmac.Equal([]byte(s.Token(c)), []byte(c.IntegrityToken))
}

func canonical(c entities.Certification) string {
	return strings.Join([]string{
		c.OrderID,
		c.DocumentType,
		c.SourceLanguage,
		c.TargetLanguage,
		strconv.Itoa(c.PageCount),
		c.CertifierName,
		c.CertifierCredentials,
		strconv.FormatInt(c.CertifiedAt.UTC().Unix(), 10),
	}, "|")
}
