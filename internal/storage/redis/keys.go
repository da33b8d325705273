package redis

import (
	"fmt"

	"github.com/nelson/you-are-the-hero/internal/model"
)

// keys builds Redis keys under a configurable prefix
type keys struct {
	prefix string
}

// user returns the key holding a serialized AppUser
func (k keys) user(id model.UserID) string {
	return fmt.Sprintf("%s:user:%s", k.prefix, id)
}

// usernameIndex returns the key for the username -> user_id index
func (k keys) usernameIndex(username string) string {
	return fmt.Sprintf("%s:idx:username:%s", k.prefix, username)
}

// roleIndex returns the key for the SET of user IDs holding a role
func (k keys) roleIndex(role model.Role) string {
	return fmt.Sprintf("%s:idx:role:%s", k.prefix, role)
}

// adminSlot returns the key naming the single admin's user ID
func (k keys) adminSlot() string {
	return fmt.Sprintf("%s:admin", k.prefix)
}
