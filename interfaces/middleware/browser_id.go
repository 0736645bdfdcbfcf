package middleware

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// BrowserIDKey is the context key holding the widget browser id.
const BrowserIDKey = "browser_id"

const browserIDMaxAge = 365 * 24 * time.Hour

// BrowserID reads the browser id cookie, issuing a new one when the browser has none.
func BrowserID(cookieName string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		id, err := ctx.Cookie(cookieName)
		if err != nil || id == "" {
			id = uuid.NewString()
			http.SetCookie(ctx.Writer, &http.Cookie{
				Name:     cookieName,
				Value:    id,
				Path:     "/",
				MaxAge:   int(browserIDMaxAge / time.Second),
				HttpOnly: true,
			})
		}
		ctx.Set(BrowserIDKey, id)
		ctx.Next()
	}
}
