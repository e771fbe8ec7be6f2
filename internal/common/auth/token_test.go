package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStaticToken_Verify(t *testing.T) {
	v := NewStaticToken("scout_api_secret")

	assert.True(t, v.Verify("scout_api_secret"))
	assert.False(t, v.Verify("wrong"))
	assert.False(t, v.Verify(""))
}

func TestStaticToken_EmptySecretFailsClosed(t *testing.T) {
	v := NewStaticToken("")

	assert.False(t, v.Verify(""))
	assert.False(t, v.Verify("anything"))
}
