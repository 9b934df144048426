package ui

import (
	"log"
	"net/http"

	"samplemeta/domain/core"

	"github.com/gin-gonic/gin"
)

const (
	sessionHeader = "X-Session-ID"
	sessionCookie = "session_id"
	sessionKey    = "session_id"
)

// setupMiddleware configures Gin middleware
func (s *Server) setupMiddleware() {
	s.router.Use(limitBody(s.maxUploadBytes))
	s.router.Use(sessionMiddleware())
}

// sessionMiddleware resolves the caller's scratch session from the
// X-Session-ID header or the session_id cookie, assigning one when absent.
func sessionMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := c.GetHeader(sessionHeader)
		if raw == "" {
			raw, _ = c.Cookie(sessionCookie)
		}
		sid, err := core.ParseSessionID(raw)
		if err != nil {
			sid = core.SessionID(core.NewID())
			log.Printf("[Session] assigned %s", sid)
			c.SetCookie(sessionCookie, sid.String(), 0, "/", "", false, true)
		}
		c.Header(sessionHeader, sid.String())
		c.Set(sessionKey, sid)
		c.Next()
	}
}

func limitBody(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if maxBytes > 0 && c.Request.Body != nil {
			c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		}
		c.Next()
	}
}

func sessionID(c *gin.Context) core.SessionID {
	if v, ok := c.Get(sessionKey); ok {
		if sid, ok := v.(core.SessionID); ok {
			return sid
		}
	}
	return ""
}
