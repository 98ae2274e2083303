package middleware

import (
	"net/http"
	"strings"

	"bioserver/logutils"
	"bioserver/response"
	"bioserver/util"

	"github.com/gin-gonic/gin"
)

// Gin context keys set by the middlewares.
const (
	UserIDKey    = "x-user-id"
	UsernameKey  = "x-username"
	RequestIDKey = "x-request-id"
)

type TokenChecker interface {
	CheckToken(requestToken string) (util.JWTMessage, error)
}

// RequireAuth rejects requests without a valid bearer token and stores the
// caller identity under UserIDKey and UsernameKey.
func RequireAuth(tokens TokenChecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := extractBearer(c)
		if token == "" {
			response.Abort(c, http.StatusUnauthorized, response.MsgMissingToken)
			return
		}
		msg, err := tokens.CheckToken(token)
		if err != nil {
			logutils.Log.WithFields(logutils.Fields{"path": c.Request.URL.Path}).Debug(err)
			response.Abort(c, http.StatusUnauthorized, response.MsgInvalidToken)
			return
		}
		c.Set(UserIDKey, msg.UserID)
		c.Set(UsernameKey, msg.Username)
		c.Next()
	}
}

func extractBearer(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if len(authHeader) > 7 && strings.EqualFold(authHeader[:7], "Bearer ") {
		return strings.TrimSpace(authHeader[7:])
	}
	return ""
}

// GetUserID returns the authenticated caller, or "" outside RequireAuth.
func GetUserID(c *gin.Context) string {
	return c.GetString(UserIDKey)
}
