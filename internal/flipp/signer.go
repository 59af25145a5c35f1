// Package flipp signs image URLs for the Flipp image-template service.
//
// A Flipp URL embeds a template identifier, a base64 encoded JSON payload and
// an HMAC-SHA256 signature over the template identifier followed by the
// encoded payload, keyed with the account secret:
//
//	https://s.useflipp.com/<template>.png?s=<signature>&v=<payload>
package flipp

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"

	seoerrors "github.com/conneroisu/seo/internal/errors"
)

// DefaultBaseURL is the Flipp image endpoint.
const DefaultBaseURL = "https://s.useflipp.com"

// Signer builds signed Flipp URLs.
type Signer struct {
	key     []byte
	baseURL string
}

// SignerOption configures a Signer.
type SignerOption func(*Signer)

// WithBaseURL overrides the image endpoint.
func WithBaseURL(baseURL string) SignerOption {
	return func(s *Signer) {
		if baseURL != "" {
			s.baseURL = strings.TrimRight(baseURL, "/")
		}
	}
}

// NewSigner creates a signer. An empty key is a configuration error.
func NewSigner(key string, opts ...SignerOption) (*Signer, error) {
	if key == "" {
		return nil, seoerrors.ErrFlippKeyMissing()
	}

	s := &Signer{key: []byte(key), baseURL: DefaultBaseURL}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// BaseURL returns the configured endpoint.
func (s *Signer) BaseURL() string {
	return s.baseURL
}

// Encode serialises data as JSON and base64 encodes it.
func (s *Signer) Encode(data any) (string, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return "", seoerrors.Wrap(err, seoerrors.ErrorTypeValidation,
			seoerrors.ErrCodeFlippPayload, "flipp payload is not JSON serialisable")
	}
	return base64.StdEncoding.EncodeToString(raw), nil
}

// Sign returns the hex HMAC-SHA256 of templateID+encoded.
func (s *Signer) Sign(templateID, encoded string) string {
	mac := hmac.New(sha256.New, s.key)
	mac.Write([]byte(templateID + encoded))
	return hex.EncodeToString(mac.Sum(nil))
}

// Verify reports whether signature matches templateID+encoded.
func (s *Signer) Verify(templateID, encoded, signature string) bool {
	expected, err := hex.DecodeString(signature)
	if err != nil {
		return false
	}
	mac := hmac.New(sha256.New, s.key)
	mac.Write([]byte(templateID + encoded))
	return hmac.Equal(mac.Sum(nil), expected)
}

// URL encodes data and returns the signed image URL for templateID.
func (s *Signer) URL(templateID string, data any) (string, error) {
	if templateID == "" {
		return "", seoerrors.NewConfigError(seoerrors.ErrCodeFlippTemplateMissing,
			"flipp template identifier is empty")
	}

	encoded, err := s.Encode(data)
	if err != nil {
		return "", err
	}

	return fmt.Sprintf("%s/%s.png?s=%s&v=%s",
		s.baseURL, templateID, s.Sign(templateID, encoded), encoded), nil
}
