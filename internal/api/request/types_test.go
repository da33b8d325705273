package request

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsReservedUsername(t *testing.T) {
	for _, name := range []string{"me", "register", "login", "logout", "ME", "Login"} {
		assert.True(t, IsReservedUsername(name), name)
	}
	for _, name := range []string{"jean neige", "meme", "registered", ""} {
		assert.False(t, IsReservedUsername(name), name)
	}
}

func TestNormalizeTrimsUsernameOnly(t *testing.T) {
	req := CredentialsRequest{Username: "  arya ", Password: " secret "}
	req.Normalize()
	assert.Equal(t, "arya", req.Username)
	assert.Equal(t, " secret ", req.Password)
}
