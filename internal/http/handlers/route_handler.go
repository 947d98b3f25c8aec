// README: Route handlers (browse, create, edit, like, AI recommend/describe).
package handlers

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"strollpath/internal/ai"
	"strollpath/internal/modules/route"
	"strollpath/internal/modules/session"
	"strollpath/internal/modules/synchronizer"
	"strollpath/internal/pkg/validator"
	"strollpath/internal/types"
)

const aiTimeout = 20 * time.Second

type RouteHandler struct {
	sessions *session.Registry
}

func NewRouteHandler(sessions *session.Registry) *RouteHandler {
	return &RouteHandler{sessions: sessions}
}

type listRoutesQuery struct {
	Query      string `form:"q"`
	Tags       string `form:"tags"`
	Distance   string `form:"distance" validate:"omitempty,oneof=any short medium long"`
	Visibility string `form:"visibility" validate:"omitempty,oneof=all public private"`
	Favorites  bool   `form:"favorites"`
	AI         string `form:"ai"`
}

// List handles GET /api/routes. A present "ai" parameter (comma-separated IDs, may be empty)
// restricts the listing to those routes and ignores every other filter.
func (h *RouteHandler) List(c *gin.Context) {
	s, ok := callerSession(c, h.sessions)
	if !ok {
		return
	}
	var q listRoutesQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		writeError(c, http.StatusBadRequest, "invalid query")
		return
	}
	if err := validator.Validate(q); err != nil {
		writeError(c, http.StatusBadRequest, err.Error())
		return
	}

	p := route.Params{
		Query:         q.Query,
		Tags:          splitList(q.Tags),
		Distance:      route.DistanceFilter(q.Distance),
		Visibility:    route.VisibilityFilter(q.Visibility),
		FavoritesOnly: q.Favorites,
	}
	if _, present := c.GetQuery("ai"); present {
		p.AIRouteIDs = splitList(q.AI)
	}
	writeJSON(c, http.StatusOK, gin.H{"routes": s.Sync.FilterRoutes(p)})
}

// Tags handles GET /api/routes/tags.
func (h *RouteHandler) Tags(c *gin.Context) {
	s, ok := callerSession(c, h.sessions)
	if !ok {
		return
	}
	writeJSON(c, http.StatusOK, gin.H{"tags": s.Sync.Tags()})
}

// Get handles GET /api/routes/:id.
func (h *RouteHandler) Get(c *gin.Context) {
	s, ok := callerSession(c, h.sessions)
	if !ok {
		return
	}
	r, err := s.Sync.Route(c.Param("id"))
	if err != nil {
		writeDomainError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, r)
}

type createRouteReq struct {
	Name           string             `json:"name"`
	Description    string             `json:"description"`
	Tags           []string           `json:"tags"`
	IsPublic       bool               `json:"isPublic"`
	Image          string             `json:"image"`
	FromRecording  bool               `json:"fromRecording"`
	Path           []types.Coordinate `json:"path"`
	DistanceMiles  float64            `json:"distance"`
	ElapsedSeconds int                `json:"elapsedSeconds"`
}

type createRouteResp struct {
	Route   route.Route `json:"route"`
	Warning string      `json:"warning,omitempty"`
}

// Create handles POST /api/routes. With fromRecording the caller's recorder is stopped and
// its track is saved; otherwise path, distance and elapsed time come from the body.
func (h *RouteHandler) Create(c *gin.Context) {
	s, ok := callerSession(c, h.sessions)
	if !ok {
		return
	}
	var req createRouteReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}

	cmd := synchronizer.NewRoute{
		Name:           req.Name,
		Description:    req.Description,
		Tags:           req.Tags,
		IsPublic:       req.IsPublic,
		Image:          req.Image,
		Path:           req.Path,
		DistanceMiles:  req.DistanceMiles,
		ElapsedSeconds: req.ElapsedSeconds,
	}
	if req.FromRecording {
		s.Recorder.Stop()
		tr := s.Recorder.Snapshot()
		cmd.Path = tr.Path
		cmd.DistanceMiles = tr.DistanceMiles
		cmd.ElapsedSeconds = tr.ElapsedSeconds
	}

	created, err := s.Sync.CreateRoute(c.Request.Context(), cmd)
	if errors.Is(err, synchronizer.ErrActivityNotCredited) {
		_ = c.Error(err)
		writeJSON(c, http.StatusCreated, createRouteResp{Route: created, Warning: synchronizer.ErrActivityNotCredited.Error()})
		return
	}
	if err != nil {
		writeDomainError(c, err)
		return
	}
	writeJSON(c, http.StatusCreated, createRouteResp{Route: created})
}

// Update handles PATCH /api/routes/:id.
func (h *RouteHandler) Update(c *gin.Context) {
	s, ok := callerSession(c, h.sessions)
	if !ok {
		return
	}
	var edit route.Edit
	if err := c.ShouldBindJSON(&edit); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}
	updated, err := s.Sync.UpdateRoute(c.Request.Context(), c.Param("id"), edit)
	if err != nil {
		writeDomainError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, updated)
}

// Like handles POST /api/routes/:id/like and toggles the caller's like.
func (h *RouteHandler) Like(c *gin.Context) {
	s, ok := callerSession(c, h.sessions)
	if !ok {
		return
	}
	id := c.Param("id")
	liked, err := s.Sync.ToggleLike(c.Request.Context(), id)
	if err != nil {
		writeDomainError(c, err)
		return
	}
	r, err := s.Sync.Route(id)
	if err != nil {
		writeDomainError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, gin.H{"isLiked": liked, "likes": r.Likes})
}

type recommendReq struct {
	Query         string `json:"query" validate:"required,max=500"`
	FavoritesOnly bool   `json:"favoritesOnly"`
}

// Recommend handles POST /api/routes/recommend.
func (h *RouteHandler) Recommend(c *gin.Context) {
	s, ok := callerSession(c, h.sessions)
	if !ok {
		return
	}
	var req recommendReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}
	req.Query = strings.TrimSpace(req.Query)
	if err := validator.Validate(req); err != nil {
		writeError(c, http.StatusBadRequest, "missing query")
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), aiTimeout)
	defer cancel()
	ids, err := s.Sync.RecommendRoutes(ctx, req.Query, req.FavoritesOnly)
	if err != nil {
		writeDomainError(c, err)
		return
	}
	if ids == nil {
		ids = []string{}
	}
	routes := s.Sync.FilterRoutes(route.Params{AIRouteIDs: ids})
	writeJSON(c, http.StatusOK, gin.H{"routeIds": ids, "routes": routes})
}

// Describe handles POST /api/routes/describe.
func (h *RouteHandler) Describe(c *gin.Context) {
	s, ok := callerSession(c, h.sessions)
	if !ok {
		return
	}
	var req ai.DescriptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}
	req.Tags = route.NormalizeTags(req.Tags)

	ctx, cancel := context.WithTimeout(c.Request.Context(), aiTimeout)
	defer cancel()
	desc, err := s.Sync.GenerateDescription(ctx, req)
	if err != nil {
		writeDomainError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, gin.H{"description": desc})
}

func splitList(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return []string{}
	}
	return route.NormalizeTags(strings.Split(raw, ","))
}
