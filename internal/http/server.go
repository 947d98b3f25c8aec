// README: API gateway; owns the gin engine and the shared middleware chain.
package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"strollpath/internal/http/middleware"
	"strollpath/internal/infra"
	"strollpath/internal/modules/session"
)

type ServerDeps struct {
	Sessions *session.Registry
	Verifier infra.TokenVerifier
	Log      *zap.Logger
}

type Server struct {
	sessions *session.Registry
	verifier infra.TokenVerifier
	log      *zap.Logger
}

func NewServer(deps ServerDeps) *Server {
	log := deps.Log
	if log == nil {
		log = zap.NewNop()
	}
	return &Server{
		sessions: deps.Sessions,
		verifier: deps.Verifier,
		log:      log,
	}
}

func (s *Server) Routes() http.Handler {
	engine := gin.New()
	engine.Use(middleware.Recovery(s.log), middleware.Logging(s.log))
	registerRoutes(engine, s.sessions, middleware.Auth(s.verifier))
	return engine
}
