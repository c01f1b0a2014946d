package security

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSigner(t *testing.T) {
	_, err := NewSigner("")
	assert.Error(t, err)

	signer, err := NewSigner("shared-secret")
	require.NoError(t, err)
	assert.NotNil(t, signer)
}

func TestSigner_SignVerify(t *testing.T) {
	signer, err := NewSigner("shared-secret")
	require.NoError(t, err)

	testCases := []struct {
		name string
		body string
	}{
		{name: "alert payload", body: `{"alert_id":"a1","severity":"critical"}`},
		{name: "empty body", body: ""},
		{name: "unicode", body: `{"message":"Láz 39°C"}`},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			signature := signer.Sign([]byte(tc.body))

			assert.True(t, strings.HasPrefix(signature, "sha256="))
			assert.Len(t, signature, len("sha256=")+64)
			assert.True(t, signer.Verify([]byte(tc.body), signature))
		})
	}
}

func TestSigner_Deterministic(t *testing.T) {
	signer, err := NewSigner("shared-secret")
	require.NoError(t, err)

	body := []byte(`{"alert_id":"a1"}`)
	assert.Equal(t, signer.Sign(body), signer.Sign(body))
}

func TestSigner_VerifyRejects(t *testing.T) {
	signer, err := NewSigner("shared-secret")
	require.NoError(t, err)
	other, err := NewSigner("other-secret")
	require.NoError(t, err)

	body := []byte(`{"alert_id":"a1"}`)
	signature := signer.Sign(body)

	assert.False(t, signer.Verify([]byte(`{"alert_id":"a2"}`), signature), "tampered body")
	assert.False(t, other.Verify(body, signature), "different secret")
	assert.False(t, signer.Verify(body, strings.TrimPrefix(signature, "sha256=")), "missing prefix")
	assert.False(t, signer.Verify(body, "sha256=not-hex"), "malformed hex")
}
