// Package reset реализует HTTP-обработчик сброса состояния симулятора
// к значениям по умолчанию.
package reset

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

// Handler управляет HTTP-запросами сброса состояния симулятора.
type Handler struct {
	log     *slog.Logger // Логгер для записи информации и ошибок
	service Service      // Слой подменного состояния
}

// Service описывает интерфейс сброса состояния симулятора.
type Service interface {
	Reset(ctx context.Context, identity string) error
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Сбросить состояние симулятора
// @Description Удаляет сохранённое состояние: следующее чтение вернёт значения по умолчанию.
// @Tags Simulator
// @Produce  json
// @Success 200 {object} response.Response "Состояние сброшено"
// @Failure 404 {object} response.ErrorResponse "Учётная запись вне белого списка"
// @Router /simulator/state [delete]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.simulator.reset"

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

	if err := h.service.Reset(r.Context(), username); err != nil {
		log.Error("failed to reset simulator state", sl.Err(err))
		w.WriteHeader(models.MapErrorToStatus(err))
		render.JSON(w, r, response.DomainError(err))
		return
	}

	log.Info("simulator state reset")
	render.JSON(w, r, response.OK())
}
