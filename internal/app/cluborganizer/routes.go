// Package cluborganizer предоставляет маршруты для основного приложения.
package cluborganizer

import (
	"log/slog"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/rackethub/club-organizer/internal/http/handlers/auth/login"
	"github.com/rackethub/club-organizer/internal/http/handlers/auth/register"
	clubcreate "github.com/rackethub/club-organizer/internal/http/handlers/club/create"
	clubmembers "github.com/rackethub/club-organizer/internal/http/handlers/club/members"
	clubremove "github.com/rackethub/club-organizer/internal/http/handlers/club/remove"
	clubupdate "github.com/rackethub/club-organizer/internal/http/handlers/club/update"
	"github.com/rackethub/club-organizer/internal/http/handlers/membership/invite"
	"github.com/rackethub/club-organizer/internal/http/handlers/membership/leave"
	"github.com/rackethub/club-organizer/internal/http/handlers/membership/removemember"
	"github.com/rackethub/club-organizer/internal/http/handlers/membership/updaterole"
	simpreset "github.com/rackethub/club-organizer/internal/http/handlers/simulator/preset"
	simreset "github.com/rackethub/club-organizer/internal/http/handlers/simulator/reset"
	simstate "github.com/rackethub/club-organizer/internal/http/handlers/simulator/state"
	simupdate "github.com/rackethub/club-organizer/internal/http/handlers/simulator/update"
	substatus "github.com/rackethub/club-organizer/internal/http/handlers/subscription/status"
	subusage "github.com/rackethub/club-organizer/internal/http/handlers/subscription/usage"
	"github.com/rackethub/club-organizer/internal/http/middlewarectx"
	"github.com/rackethub/club-organizer/internal/lib/jwt"
	authservice "github.com/rackethub/club-organizer/internal/services/auth"
	clubservice "github.com/rackethub/club-organizer/internal/services/club"
	membershipservice "github.com/rackethub/club-organizer/internal/services/membership"
	policyservice "github.com/rackethub/club-organizer/internal/services/policy"
	simulatorservice "github.com/rackethub/club-organizer/internal/services/simulator"
)

// RegisterRoutes регистрирует все маршруты приложения.
func RegisterRoutes(r chi.Router, logger *slog.Logger, jwtMaker jwt.Maker,
	authService *authservice.Service, clubLifecycle *clubservice.Lifecycle,
	membershipRegistry *membershipservice.Registry, policyEngine *policyservice.Engine,
	overlay *simulatorservice.Overlay) {
	// Глобальные middleware
	r.Use(
		middleware.RequestID,
		middleware.Logger,
		middleware.Recoverer,
		middleware.URLFormat,
	)

	r.Route("/api/v1", func(r chi.Router) {
		// Открытые конечные точки
		r.Post("/register", register.New(logger, authService).ServeHTTP)
		r.Post("/login", login.New(logger, authService).ServeHTTP)

		// Группа с JWT аутентификацией
		r.Group(func(r chi.Router) {
			r.Use(middlewarectx.JWTMiddleware(jwtMaker, logger))
			r.Use(middlewarectx.RateLimitMiddleware(logger))

			r.Post("/clubs", clubcreate.New(logger, clubLifecycle).ServeHTTP)
			r.Put("/clubs/{id}", clubupdate.New(logger, clubLifecycle).ServeHTTP)
			r.Delete("/clubs/{id}", clubremove.New(logger, clubLifecycle).ServeHTTP)
			r.Get("/clubs/{id}/members", clubmembers.New(logger, membershipRegistry).ServeHTTP)
			r.Post("/clubs/{id}/invitations", invite.New(logger, membershipRegistry).ServeHTTP)
			r.Post("/clubs/{id}/leave", leave.New(logger, membershipRegistry).ServeHTTP)
			r.Put("/memberships/{id}/role", updaterole.New(logger, membershipRegistry).ServeHTTP)
			r.Delete("/memberships/{id}", removemember.New(logger, membershipRegistry).ServeHTTP)

			r.Get("/subscription/status", substatus.New(logger, policyEngine).ServeHTTP)
			r.Post("/sessions/usage", subusage.New(logger, policyEngine).ServeHTTP)

			// Экран разработчика: identity вне белого списка получают 404.
			r.Get("/simulator/state", simstate.New(logger, overlay).ServeHTTP)
			r.Put("/simulator/state", simupdate.New(logger, overlay).ServeHTTP)
			r.Delete("/simulator/state", simreset.New(logger, overlay).ServeHTTP)
			r.Post("/simulator/preset", simpreset.New(logger, overlay).ServeHTTP)
		})
	})

	r.Handle("/metrics", promhttp.Handler())
	// Swagger docs endpoint
	r.Get("/docs/*", httpSwagger.WrapHandler)
}
