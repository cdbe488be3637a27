// Package remove реализует HTTP-обработчик удаления клуба.
//
// Членства клуба удаляются каскадом внешнего ключа на стороне базы.
package remove

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

// Handler управляет HTTP-запросами на удаление клуба.
type Handler struct {
	log     *slog.Logger // Логгер для записи информации и ошибок
	service Service      // Сервис бизнес-логики жизненного цикла клуба
}

// Service описывает интерфейс бизнес-логики удаления клуба.
type Service interface {
	Delete(ctx context.Context, id string) error
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Удалить клуб
// @Description Удаляет клуб вместе с членствами (каскад на стороне базы).
// @Tags Clubs
// @Produce  json
// @Param id path string true "ID клуба"
// @Success 200 {object} response.Response "Клуб удалён"
// @Failure 404 {object} response.ErrorResponse "Клуб не найден"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера при удалении"
// @Router /clubs/{id} [delete]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.club.remove"

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

	if err := h.service.Delete(r.Context(), clubID); err != nil {
		log.Error("failed to delete club", sl.Err(err))
		w.WriteHeader(models.MapErrorToStatus(err))
		render.JSON(w, r, response.DomainError(err))
		return
	}

	log.Info("club deleted", slog.String("club_id", clubID))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"deleted": true,
	}))
}
