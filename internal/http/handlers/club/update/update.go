// Package update реализует HTTP-обработчик изменения клуба.
//
// Handler принимает частичные изменения (название, описание, логотип);
// при смене названия бизнес-логика повторяет проверку занятости,
// исключая сам клуб.
package update

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

// Handler управляет HTTP-запросами на изменение клуба.
type Handler struct {
	log      *slog.Logger        // Логгер для записи информации и ошибок
	service  Service             // Сервис бизнес-логики жизненного цикла клуба
	validate *validator.Validate // Валидатор структуры входящих данных
}

// Service описывает интерфейс бизнес-логики изменения клуба.
type Service interface {
	Update(ctx context.Context, id string, req models.DummyClubUpdate) (*models.Club, error)
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
// @Summary Изменить клуб
// @Description Применяет частичные изменения к клубу (название, описание, логотип).
// @Tags Clubs
// @Accept  json
// @Produce  json
// @Param id path string true "ID клуба"
// @Param request body models.DummyClubUpdate true "Изменяемые поля"
// @Success 200 {object} map[string]any "Обновлённый клуб"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 404 {object} response.ErrorResponse "Клуб не найден"
// @Failure 409 {object} response.ErrorResponse "Конфликт названия"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Router /clubs/{id} [put]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.club.update"

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

	var req models.DummyClubUpdate
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

	club, err := h.service.Update(r.Context(), clubID, req)
	if err != nil {
		log.Error("failed to update club", sl.Err(err))
		w.WriteHeader(models.MapErrorToStatus(err))
		render.JSON(w, r, response.DomainError(err))
		return
	}

	log.Info("club updated", slog.String("club_id", club.ID))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"club": club,
	}))
}
