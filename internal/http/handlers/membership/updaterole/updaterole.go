// Package updaterole реализует HTTP-обработчик смены роли участника клуба.
//
// Роль owner не назначается и не снимается через этот обработчик:
// владелец закреплён за клубом на всё время его жизни.
package updaterole

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/rackethub/club-organizer/internal/http/response"
	"github.com/rackethub/club-organizer/internal/lib/sl"
	"github.com/rackethub/club-organizer/internal/models"
)

// Handler управляет HTTP-запросами на смену роли.
type Handler struct {
	log      *slog.Logger        // Логгер для записи информации и ошибок
	service  Service             // Сервис реестра членств
	validate *validator.Validate // Валидатор структуры входящих данных
}

// Service описывает интерфейс бизнес-логики смены роли.
type Service interface {
	UpdateRole(ctx context.Context, membershipID string, role models.MembershipRole) (*models.Membership, error)
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Сменить роль участника
// @Description Назначает участнику роль admin или member. Роль owner недоступна.
// @Tags Memberships
// @Accept  json
// @Produce  json
// @Param id path string true "ID членства"
// @Param request body models.DummyRoleUpdate true "Новая роль"
// @Success 200 {object} map[string]any "Обновлённое членство"
// @Failure 404 {object} response.ErrorResponse "Членство не найдено"
// @Failure 422 {object} response.ErrorResponse "Недопустимая роль"
// @Router /memberships/{id}/role [put]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.membership.updaterole"

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

	var req models.DummyRoleUpdate
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}

	if err := h.validate.Struct(req); err != nil {
		log.Error("validation failed", sl.Err(err))
		w.WriteHeader(http.StatusUnprocessableEntity)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}

	membership, err := h.service.UpdateRole(r.Context(), membershipID, models.MembershipRole(req.Role))
	if err != nil {
		log.Error("failed to update role", sl.Err(err))
		w.WriteHeader(models.MapErrorToStatus(err))
		render.JSON(w, r, response.DomainError(err))
		return
	}

	log.Info("membership role updated",
		slog.String("membership_id", membershipID),
		slog.String("role", string(membership.Role)))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"membership": membership,
	}))
}
