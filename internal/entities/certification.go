package entities

import (
	"bytes"
	"encoding/gob"
	"time"
)

// Certification is the immutable record issued once per order at
// certified delivery. IntegrityToken is a keyed digest over the other
// fields; a mismatch on lookup means the stored metadata was altered.
type Certification struct {
	CertificationID string
	OrderID         string
	DocumentType    string
	SourceLanguage  string
	TargetLanguage  string
	PageCount       int

	CertifierName        string
	CertifierCredentials string
	CertifiedAt          time.Time

	IntegrityToken string
}

func (c *Certification) Marshal() ([]byte, error) {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(c); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (c *Certification) Unmarshal(data []byte) error {
	return gob.NewDecoder(bytes.NewBuffer(data)).Decode(c)
}

func init() {
	gob.Register(Certification{})
}
