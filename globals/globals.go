package globals

import "os"

// Context keys
type ContextKey string

const UserIDKey ContextKey = "userId"
const RoleKey ContextKey = "role"

// JwtSecret signs and verifies session tokens. Set JWT_SECRET in production.
var JwtSecret = jwtSecret()

func jwtSecret() []byte {
	if s := os.Getenv("JWT_SECRET"); s != "" {
		return []byte(s)
	}
	return []byte("defaultsecret")
}
