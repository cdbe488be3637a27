// Package leave реализует HTTP-обработчик добровольного выхода из клуба.
package leave

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/rackethub/club-organizer/internal/http/middlewarectx"
	"github.com/rackethub/club-organizer/internal/http/response"
	"github.com/rackethub/club-organizer/internal/lib/sl"
	"github.com/rackethub/club-organizer/internal/models"
)

// Handler управляет HTTP-запросами на выход из клуба.
type Handler struct {
	log     *slog.Logger // Логгер для записи информации и ошибок
	service Service      // Сервис реестра членств
}

// Service описывает интерфейс бизнес-логики выхода из клуба.
type Service interface {
	Leave(ctx context.Context, clubID, userUID string) error
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Покинуть клуб
// @Description Мягко удаляет членство текущего пользователя. Владелец покинуть клуб не может.
// @Tags Memberships
// @Produce  json
// @Param id path string true "ID клуба"
// @Success 200 {object} response.Response "Выход выполнен"
// @Failure 404 {object} response.ErrorResponse "Клуб или членство не найдены"
// @Failure 409 {object} response.ErrorResponse "Владелец не может покинуть клуб"
// @Router /clubs/{id}/leave [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.membership.leave"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	clubID := chi.URLParam(r, "id")
	if clubID == "" {
		log.Error("missing club id in url")
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("missing club id"))
		return
	}

	userUID, ok := r.Context().Value(middlewarectx.UserUID).(string)
	if !ok || userUID == "" {
		log.Error("user uid not found in context")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unauthorized"))
		return
	}

	if err := h.service.Leave(r.Context(), clubID, userUID); err != nil {
		log.Error("failed to leave club", sl.Err(err))
		w.WriteHeader(models.MapErrorToStatus(err))
		render.JSON(w, r, response.DomainError(err))
		return
	}

	log.Info("membership left", slog.String("club_id", clubID))
	render.JSON(w, r, response.OK())
}
