package handler

import (
	"crypto/subtle"
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

const sessionEditorKey = "editor"

// AuthHandler is the seam for the external auth collaborator: it only turns
// a shared editor token into a session flag. The real login flow lives
// outside this service.
type AuthHandler struct {
	editorToken string
}

// NewAuthHandler returns an AuthHandler accepting the given token. An empty
// token disables session creation entirely.
func NewAuthHandler(editorToken string) *AuthHandler {
	return &AuthHandler{editorToken: editorToken}
}

// CreateSession marks the current session as an editor session when the
// submitted token matches.
func (h *AuthHandler) CreateSession(c *gin.Context) {
	var payload struct {
		Token string `json:"token"`
	}
	if !bindJSON(c, &payload, "invalid session payload") {
		return
	}

	if h.editorToken == "" ||
		subtle.ConstantTimeCompare([]byte(payload.Token), []byte(h.editorToken)) != 1 {
		respondError(c, http.StatusUnauthorized, "invalid editor token")
		return
	}

	session := sessions.Default(c)
	session.Set(sessionEditorKey, true)
	if err := session.Save(); err != nil {
		respondError(c, http.StatusInternalServerError, "failed to save session")
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

// DestroySession clears the editor session.
func (h *AuthHandler) DestroySession(c *gin.Context) {
	session := sessions.Default(c)
	session.Clear()
	if err := session.Save(); err != nil {
		respondError(c, http.StatusInternalServerError, "failed to save session")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// EditorRequired guards the write routes behind the editor session flag.
func EditorRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		session := sessions.Default(c)
		if flag, ok := session.Get(sessionEditorKey).(bool); !ok || !flag {
			respondError(c, http.StatusUnauthorized, "editor session required")
			c.Abort()
			return
		}
		c.Next()
	}
}
