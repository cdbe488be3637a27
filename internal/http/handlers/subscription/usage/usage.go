// Package usage реализует HTTP-обработчик учёта созданной сессии.
package usage

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/rackethub/club-organizer/internal/http/middlewarectx"
	"github.com/rackethub/club-organizer/internal/http/response"
	"github.com/rackethub/club-organizer/internal/lib/sl"
	"github.com/rackethub/club-organizer/internal/models"
)

// Handler управляет HTTP-запросами учёта использования сессий.
type Handler struct {
	log     *slog.Logger // Логгер для записи информации и ошибок
	service Service      // Движок политики доступа
}

// Service описывает интерфейс учёта использования.
type Service interface {
	IncrementSessionUsage(ctx context.Context, userUID string) error
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Учесть созданную сессию
// @Description Атомарно увеличивает месячный счётчик сессий текущего пользователя.
// @Tags Subscription
// @Produce  json
// @Success 200 {object} response.Response "Счётчик увеличен"
// @Failure 404 {object} response.ErrorResponse "Профиль не найден"
// @Router /sessions/usage [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.subscription.usage"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	userUID, ok := r.Context().Value(middlewarectx.UserUID).(string)
	if !ok || userUID == "" {
		log.Error("user uid not found in context")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unauthorized"))
		return
	}

	if err := h.service.IncrementSessionUsage(r.Context(), userUID); err != nil {
		log.Error("failed to increment session usage", sl.Err(err))
		w.WriteHeader(models.MapErrorToStatus(err))
		render.JSON(w, r, response.DomainError(err))
		return
	}

	log.Info("session usage incremented")
	render.JSON(w, r, response.OK())
}
