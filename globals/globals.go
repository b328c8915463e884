package globals

import (
	"context"
	"os"
)

var JwtSecret = []byte(Getenv("JWT_SECRET", "forkful_dev_secret"))

// Context keys
type ContextKey string

const UserIDKey ContextKey = "userId"
const EmailKey ContextKey = "email"

var Ctx = context.Background()

func Getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
