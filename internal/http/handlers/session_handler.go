// README: Session handler; signs the caller in and loads their mirror.
package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"strollpath/internal/http/middleware"
	"strollpath/internal/modules/session"
	"strollpath/internal/modules/synchronizer"
	"strollpath/internal/modules/user"
)

type SessionHandler struct {
	sessions *session.Registry
}

func NewSessionHandler(sessions *session.Registry) *SessionHandler {
	return &SessionHandler{sessions: sessions}
}

type loginReq struct {
	Name     string `json:"name"`
	ImageURL string `json:"imageUrl"`
}

type loginResp struct {
	User   user.User `json:"user"`
	Users  int       `json:"users"`
	Routes int       `json:"routes"`
}

// Login handles POST /api/session. Body fields only seed a profile created on first login.
func (h *SessionHandler) Login(c *gin.Context) {
	var req loginReq
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			writeError(c, http.StatusBadRequest, "invalid json")
			return
		}
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		name = middleware.CallerName(c)
	}
	image := req.ImageURL
	if image == "" {
		image = middleware.CallerPicture(c)
	}

	s, me, err := h.sessions.Login(c.Request.Context(), synchronizer.Profile{
		ID:       middleware.CallerUID(c),
		Name:     name,
		ImageURL: image,
	})
	if err != nil {
		writeDomainError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, loginResp{User: me, Users: len(s.Sync.Users()), Routes: len(s.Sync.Routes())})
}

// Logout handles DELETE /api/session.
func (h *SessionHandler) Logout(c *gin.Context) {
	h.sessions.Logout(middleware.CallerUID(c))
	c.Status(http.StatusNoContent)
}
