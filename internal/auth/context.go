package auth

import (
	"strings"

	"github.com/gin-gonic/gin"
)

const (
	CtxFirebaseUID = "firebase_uid"
	CtxEmail       = "email"
	CtxDisplayName = "display_name"
	CtxPhotoURL    = "photo_url"
)

// Principal is the authenticated identity extracted from a verified token.
type Principal struct {
	UID         string
	Email       string
	DisplayName string
	PhotoURL    string
}

// UserFirebaseUID extracts the Firebase UID from the Gin context.
// This is set by FirebaseAuthMiddleware.
func UserFirebaseUID(c *gin.Context) string {
	return strings.TrimSpace(c.GetString(CtxFirebaseUID))
}

// CurrentPrincipal collects the identity claims set by FirebaseAuthMiddleware.
func CurrentPrincipal(c *gin.Context) Principal {
	return Principal{
		UID:         strings.TrimSpace(c.GetString(CtxFirebaseUID)),
		Email:       strings.TrimSpace(c.GetString(CtxEmail)),
		DisplayName: strings.TrimSpace(c.GetString(CtxDisplayName)),
		PhotoURL:    strings.TrimSpace(c.GetString(CtxPhotoURL)),
	}
}
