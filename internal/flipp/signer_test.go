package flipp

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"testing"

	seoerrors "github.com/conneroisu/seo/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSignerRequiresKey(t *testing.T) {
	s, err := NewSigner("")
	assert.Nil(t, s)
	require.Error(t, err)
	assert.True(t, seoerrors.IsConfigError(err))
	assert.Equal(t, seoerrors.ErrCodeFlippKeyMissing, seoerrors.GetErrorCode(err))
}

func TestSignMatchesHMAC(t *testing.T) {
	s, err := NewSigner("k")
	require.NoError(t, err)

	mac := hmac.New(sha256.New, []byte("k"))
	mac.Write([]byte("templatepayload"))

	assert.Equal(t, hex.EncodeToString(mac.Sum(nil)), s.Sign("template", "payload"))
	assert.True(t, s.Verify("template", "payload", s.Sign("template", "payload")))
	assert.False(t, s.Verify("template", "other", s.Sign("template", "payload")))
	assert.False(t, s.Verify("template", "payload", "not-hex"))
}

func TestEncode(t *testing.T) {
	s, err := NewSigner("k")
	require.NoError(t, err)

	encoded, err := s.Encode(map[string]string{"title": "Hi"})
	require.NoError(t, err)
	assert.Equal(t, base64.StdEncoding.EncodeToString([]byte(`{"title":"Hi"}`)), encoded)

	_, err = s.Encode(map[string]any{"bad": make(chan int)})
	require.Error(t, err)
	assert.Equal(t, seoerrors.ErrCodeFlippPayload, seoerrors.GetErrorCode(err))
}

func TestURL(t *testing.T) {
	s, err := NewSigner("k", WithBaseURL("https://img.example.com/"))
	require.NoError(t, err)
	assert.Equal(t, "https://img.example.com", s.BaseURL())

	got, err := s.URL("abc", map[string]string{"title": "Hi"})
	require.NoError(t, err)

	encoded := base64.StdEncoding.EncodeToString([]byte(`{"title":"Hi"}`))
	assert.Equal(t, "https://img.example.com/abc.png?s="+s.Sign("abc", encoded)+"&v="+encoded, got)
}

func TestURLRequiresTemplate(t *testing.T) {
	s, err := NewSigner("k")
	require.NoError(t, err)

	_, err = s.URL("", nil)
	require.Error(t, err)
	assert.Equal(t, seoerrors.ErrCodeFlippTemplateMissing, seoerrors.GetErrorCode(err))
}
