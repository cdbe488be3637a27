// Package members реализует HTTP-обработчик получения списка участников клуба.
//
// Список возвращается в контрактном порядке: по рангу роли (owner, admin,
// member), затем по дате вступления по возрастанию. Потребители полагаются
// на этот порядок.
package members

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

// Handler управляет HTTP-запросами на получение участников клуба.
type Handler struct {
	log     *slog.Logger // Логгер для записи информации и ошибок
	service Service      // Сервис реестра членств
}

// Service описывает интерфейс бизнес-логики списка участников.
type Service interface {
	ListMembers(ctx context.Context, clubID string) ([]*models.Membership, error)
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Участники клуба
// @Description Возвращает неудалённых участников клуба в порядке роль, дата вступления.
// @Tags Memberships
// @Produce  json
// @Param id path string true "ID клуба"
// @Success 200 {object} map[string]any "Список участников"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /clubs/{id}/members [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.club.members"

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

	result, err := h.service.ListMembers(r.Context(), clubID)
	if err != nil {
		log.Error("failed to list members", sl.Err(err))
		w.WriteHeader(models.MapErrorToStatus(err))
		render.JSON(w, r, response.DomainError(err))
		return
	}

	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"members": result,
	}))
}
