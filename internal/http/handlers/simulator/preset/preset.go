// Package preset реализует HTTP-обработчик применения именованного
// пресета состояния симулятора.
package preset

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/rackethub/club-organizer/internal/http/middlewarectx"
	"github.com/rackethub/club-organizer/internal/http/response"
	"github.com/rackethub/club-organizer/internal/lib/sl"
	"github.com/rackethub/club-organizer/internal/models"
)

// Handler управляет HTTP-запросами применения пресетов.
type Handler struct {
	log      *slog.Logger        // Логгер для записи информации и ошибок
	service  Service             // Слой подменного состояния
	validate *validator.Validate // Валидатор структуры входящих данных
}

// Service описывает интерфейс применения пресетов.
type Service interface {
	ApplyPreset(ctx context.Context, identity, name string) (*models.SimulatorState, error)
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
// @Summary Применить пресет симулятора
// @Description Накладывает именованный пресет на состояние тестовой учётной записи.
// @Tags Simulator
// @Accept  json
// @Produce  json
// @Param request body models.DummyPreset true "Имя пресета"
// @Success 200 {object} map[string]any "Состояние после применения"
// @Failure 400 {object} response.ErrorResponse "Неизвестный пресет"
// @Failure 404 {object} response.ErrorResponse "Учётная запись вне белого списка"
// @Router /simulator/preset [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.simulator.preset"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req models.DummyPreset
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

	username, ok := r.Context().Value(middlewarectx.User).(string)
	if !ok || username == "" {
		log.Error("username not found in context")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unauthorized"))
		return
	}

	simState, err := h.service.ApplyPreset(r.Context(), username, req.Name)
	if err != nil {
		log.Error("failed to apply preset", sl.Err(err))
		w.WriteHeader(models.MapErrorToStatus(err))
		render.JSON(w, r, response.DomainError(err))
		return
	}

	log.Info("simulator preset applied", slog.String("preset", req.Name))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"state": simState,
	}))
}
