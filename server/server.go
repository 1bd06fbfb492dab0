package server

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/sounak286/RAKSHA-SATHI/auth"
	"github.com/sounak286/RAKSHA-SATHI/bulletins"
	"github.com/sounak286/RAKSHA-SATHI/gateway"
	"github.com/sounak286/RAKSHA-SATHI/internal/config"
	"github.com/sounak286/RAKSHA-SATHI/users"
)

// Services bundles the domain services the HTTP layer dispatches to.
type Services struct {
	Auth      *auth.AuthenticationService
	Access    *auth.AccessControl
	Gateway   *gateway.Gateway
	Bulletins *bulletins.Service
}

type Server struct {
	mux       *http.ServeMux
	routes    []string
	config    *config.Config
	users     users.Repo
	auth      *auth.AuthenticationService
	access    *auth.AccessControl
	gateway   *gateway.Gateway
	bulletins *bulletins.Service
	limiter   *multiLimiter
	nowTime   func() time.Time
}

func New(cfg *config.Config, userRepo users.Repo, services Services) (*Server, error) {
	if cfg == nil {
		return nil, fmt.Errorf("[Server New] config is required")
	}
	if userRepo == nil || services.Auth == nil || services.Access == nil || services.Gateway == nil || services.Bulletins == nil {
		return nil, fmt.Errorf("[Server New] all services are required")
	}

	s := &Server{
		mux:       http.NewServeMux(),
		config:    cfg,
		users:     userRepo,
		auth:      services.Auth,
		access:    services.Access,
		gateway:   services.Gateway,
		bulletins: services.Bulletins,
		nowTime:   time.Now,
	}
	if cfg.RateLimit.Enabled() {
		s.limiter = newMultiLimiter(cfg.RateLimit.Window, cfg.RateLimit.MaxRequests)
	}

	// Bootstrap: ensure the administrator account exists
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := s.InitialiseSystem(ctx); err != nil {
		return nil, fmt.Errorf("[Server New] Failed to initialise the system: %w", err)
	}

	s.initRoutes()
	s.logRoutes()

	return s, nil
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

func (s *Server) RegisterRouteHandler(pattern string, handler http.Handler) {
	s.routes = append(s.routes, pattern)
	s.mux.Handle(pattern, handler)
}

func (s *Server) logRoutes() {
	if !s.config.Server.IsDev() {
		return // Skip logging in non-development environments
	}
	for _, route := range s.routes {
		parts := strings.SplitN(route, " ", 2)

		if len(parts) > 1 {
			logRoute(parts[0], parts[1])
		} else {
			logRoute("", parts[0])
		}
	}
}

func logRoute(method, path string) {
	var displayMethod string
	paddedMethod := fmt.Sprintf(" %-7s", method)
	if color, ok := methodColors[method]; ok {
		displayMethod = color + paddedMethod + ResetColor
	} else {
		displayMethod = Gray + paddedMethod + ResetColor
	}
	log.Debug().Msgf("[%-19s] %s", displayMethod, path)
}
