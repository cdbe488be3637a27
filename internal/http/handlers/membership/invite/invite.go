// Package invite реализует HTTP-обработчик приглашения в клуб.
//
// Адресат — ровно один: зарегистрированный профиль либо адрес почты.
// Действующие и ожидающие участники, а также повторные приглашения
// отклоняются ошибками доменной таксономии.
package invite

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/rackethub/club-organizer/internal/http/middlewarectx"
	"github.com/rackethub/club-organizer/internal/http/response"
	"github.com/rackethub/club-organizer/internal/lib/sl"
	"github.com/rackethub/club-organizer/internal/models"
)

// Handler управляет HTTP-запросами на приглашение в клуб.
type Handler struct {
	log      *slog.Logger        // Логгер для записи информации и ошибок
	service  Service             // Сервис реестра членств
	validate *validator.Validate // Валидатор структуры входящих данных
}

// Service описывает интерфейс бизнес-логики приглашений.
type Service interface {
	Invite(ctx context.Context, clubID, inviterUID string, target models.InviteTarget) (*models.Invitation, error)
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
// @Summary Пригласить в клуб
// @Description Создает приглашение для профиля или почты. Ровно один адресат.
// @Tags Memberships
// @Accept  json
// @Produce  json
// @Param id path string true "ID клуба"
// @Param request body models.DummyInvitation true "Адресат приглашения"
// @Success 200 {object} map[string]any "Созданное приглашение"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 409 {object} response.ErrorResponse "Уже участник или приглашение существует"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации или адресата"
// @Router /clubs/{id}/invitations [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.membership.invite"

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

	var req models.DummyInvitation
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

	// Ровно один адресат: оба поля или ни одного — ошибка доменной таксономии.
	if (req.InvitedUserUID == "") == (req.InvitedEmail == "") {
		log.Error("invitation must target exactly one of user or email")
		w.WriteHeader(http.StatusUnprocessableEntity)
		render.JSON(w, r, response.DomainError(models.ErrInvalidTarget))
		return
	}

	var target models.InviteTarget
	if req.InvitedUserUID != "" {
		target = models.InviteByUser(req.InvitedUserUID)
	} else {
		target = models.InviteByEmail(req.InvitedEmail)
	}

	inviterUID, ok := r.Context().Value(middlewarectx.UserUID).(string)
	if !ok || inviterUID == "" {
		log.Error("user uid not found in context")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unauthorized"))
		return
	}

	inv, err := h.service.Invite(r.Context(), clubID, inviterUID, target)
	if err != nil {
		log.Error("failed to create invitation", sl.Err(err))
		w.WriteHeader(models.MapErrorToStatus(err))
		render.JSON(w, r, response.DomainError(err))
		return
	}

	log.Info("invitation created", slog.String("invitation_id", inv.ID))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"invitation": inv,
	}))
}
