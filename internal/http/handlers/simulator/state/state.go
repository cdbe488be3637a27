// Package state реализует HTTP-обработчик чтения состояния симулятора
// подписки для тестовой учётной записи.
package state

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

// Handler управляет HTTP-запросами состояния симулятора.
type Handler struct {
	log     *slog.Logger // Логгер для записи информации и ошибок
	service Service      // Слой подменного состояния
}

// Service описывает интерфейс чтения состояния симулятора.
type Service interface {
	State(ctx context.Context, identity string) (*models.SimulatorState, error)
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Состояние симулятора
// @Description Возвращает текущее подменное состояние тестовой учётной записи.
// @Tags Simulator
// @Produce  json
// @Success 200 {object} map[string]any "Состояние симулятора"
// @Failure 404 {object} response.ErrorResponse "Учётная запись вне белого списка"
// @Router /simulator/state [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.simulator.state"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	username, ok := r.Context().Value(middlewarectx.User).(string)
	if !ok || username == "" {
		log.Error("username not found in context")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unauthorized"))
		return
	}

	simState, err := h.service.State(r.Context(), username)
	if err != nil {
		log.Error("failed to read simulator state", sl.Err(err))
		w.WriteHeader(models.MapErrorToStatus(err))
		render.JSON(w, r, response.DomainError(err))
		return
	}

	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"state": simState,
	}))
}
