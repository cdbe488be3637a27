// Package removemember реализует HTTP-обработчик исключения участника из клуба.
package removemember

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/rackethub/club-organizer/internal/http/response"
	"github.com/rackethub/club-organizer/internal/lib/sl"
	"github.com/rackethub/club-organizer/internal/models"
)

// Handler управляет HTTP-запросами на исключение участника.
type Handler struct {
	log     *slog.Logger // Логгер для записи информации и ошибок
	service Service      // Сервис реестра членств
}

// Service описывает интерфейс бизнес-логики исключения участника.
type Service interface {
	Remove(ctx context.Context, membershipID string) error
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Исключить участника
// @Description Мягко удаляет членство по идентификатору. Повторный вызов — no-op.
// @Tags Memberships
// @Produce  json
// @Param id path string true "ID членства"
// @Success 200 {object} response.Response "Участник исключён"
// @Failure 404 {object} response.ErrorResponse "Членство не найдено"
// @Router /memberships/{id} [delete]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.membership.removemember"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	membershipID := chi.URLParam(r, "id")
	if membershipID == "" {
		log.Error("missing membership id in url")
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("missing membership id"))
		return
	}

	if err := h.service.Remove(r.Context(), membershipID); err != nil {
		log.Error("failed to remove member", sl.Err(err))
		w.WriteHeader(models.MapErrorToStatus(err))
		render.JSON(w, r, response.DomainError(err))
		return
	}

	log.Info("member removed", slog.String("membership_id", membershipID))
	render.JSON(w, r, response.OK())
}
