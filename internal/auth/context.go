package auth

import (
	"strings"

	"github.com/gin-gonic/gin"
)

// Gin context keys set by FirebaseAuthMiddleware.
const (
	CtxFirebaseUID = "firebase_uid"
	CtxEmail       = "email"
)

// Caller is the signed-in user behind a request.
type Caller struct {
	UID   string
	Email string
}

// CallerFrom returns the caller recorded by FirebaseAuthMiddleware. ok is
// false on routes served without authentication.
func CallerFrom(c *gin.Context) (Caller, bool) {
	uid := strings.TrimSpace(c.GetString(CtxFirebaseUID))
	if uid == "" {
		return Caller{}, false
	}
	return Caller{UID: uid, Email: c.GetString(CtxEmail)}, true
}
