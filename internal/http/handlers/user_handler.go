// README: User handlers (search, follow, own profile).
package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"strollpath/internal/modules/session"
	"strollpath/internal/modules/user"
)

type UserHandler struct {
	sessions *session.Registry
	now      func() time.Time
}

func NewUserHandler(sessions *session.Registry) *UserHandler {
	return &UserHandler{sessions: sessions, now: time.Now}
}

// Search handles GET /api/users?q=.
func (h *UserHandler) Search(c *gin.Context) {
	s, ok := callerSession(c, h.sessions)
	if !ok {
		return
	}
	writeJSON(c, http.StatusOK, gin.H{"users": s.Sync.SearchUsers(c.Query("q"))})
}

// Get handles GET /api/users/:id.
func (h *UserHandler) Get(c *gin.Context) {
	s, ok := callerSession(c, h.sessions)
	if !ok {
		return
	}
	u, err := s.Sync.User(c.Param("id"))
	if err != nil {
		writeDomainError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, u)
}

// Follow handles POST /api/users/:id/follow and toggles the follow edge.
func (h *UserHandler) Follow(c *gin.Context) {
	s, ok := callerSession(c, h.sessions)
	if !ok {
		return
	}
	following, err := s.Sync.ToggleFollow(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeDomainError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, gin.H{"following": following})
}

type todayResp struct {
	Date            string  `json:"date"`
	Steps           int     `json:"steps"`
	RouteID         string  `json:"routeId,omitempty"`
	ProgressPercent float64 `json:"progressPercent"`
}

type meResp struct {
	User  user.User `json:"user"`
	Today todayResp `json:"today"`
}

// Me handles GET /api/me.
func (h *UserHandler) Me(c *gin.Context) {
	s, ok := callerSession(c, h.sessions)
	if !ok {
		return
	}
	me, err := s.Sync.CurrentUser()
	if err != nil {
		writeDomainError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, h.meResponse(me))
}

func (h *UserHandler) meResponse(me user.User) meResp {
	key := user.DateKey(h.now())
	day := me.Day(key)
	return meResp{
		User: me,
		Today: todayResp{
			Date:            key,
			Steps:           day.Steps,
			RouteID:         day.RouteID,
			ProgressPercent: user.ProgressPercent(day.Steps, me.DailyStepGoal),
		},
	}
}

type updateMeReq struct {
	Name          *string `json:"name"`
	IsSearchable  *bool   `json:"isSearchable"`
	DailyStepGoal *int    `json:"dailyStepGoal"`
	Image         *string `json:"image"`
}

// UpdateMe handles PATCH /api/me. Fields are saved one at a time; the first failure stops the rest.
func (h *UserHandler) UpdateMe(c *gin.Context) {
	s, ok := callerSession(c, h.sessions)
	if !ok {
		return
	}
	var req updateMeReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}
	if req.Name == nil && req.IsSearchable == nil && req.DailyStepGoal == nil && req.Image == nil {
		writeError(c, http.StatusBadRequest, "nothing to update")
		return
	}

	ctx := c.Request.Context()
	var err error
	if req.Name != nil {
		err = s.Sync.SetName(ctx, *req.Name)
	}
	if err == nil && req.IsSearchable != nil {
		err = s.Sync.SetSearchable(ctx, *req.IsSearchable)
	}
	if err == nil && req.DailyStepGoal != nil {
		err = s.Sync.SetDailyStepGoal(ctx, *req.DailyStepGoal)
	}
	if err == nil && req.Image != nil {
		err = s.Sync.SetProfileImage(ctx, *req.Image)
	}
	if err != nil {
		writeDomainError(c, err)
		return
	}

	me, err := s.Sync.CurrentUser()
	if err != nil {
		writeDomainError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, h.meResponse(me))
}
