// Package update реализует HTTP-обработчик частичного обновления
// состояния симулятора тестовой учётной записи.
package update

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

// Handler управляет HTTP-запросами обновления состояния симулятора.
type Handler struct {
	log      *slog.Logger        // Логгер для записи информации и ошибок
	service  Service             // Слой подменного состояния
	validate *validator.Validate // Валидатор структуры входящих данных
}

// Service описывает интерфейс обновления состояния симулятора.
type Service interface {
	Update(ctx context.Context, identity string, req models.DummySimulatorUpdate) (*models.SimulatorState, error)
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
// @Summary Обновить состояние симулятора
// @Description Частично обновляет подменное состояние: незаданные поля не меняются.
// @Tags Simulator
// @Accept  json
// @Produce  json
// @Param request body models.DummySimulatorUpdate true "Изменяемые поля"
// @Success 200 {object} map[string]any "Обновлённое состояние"
// @Failure 404 {object} response.ErrorResponse "Учётная запись вне белого списка"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Router /simulator/state [put]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.simulator.update"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req models.DummySimulatorUpdate
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

	simState, err := h.service.Update(r.Context(), username, req)
	if err != nil {
		log.Error("failed to update simulator state", sl.Err(err))
		w.WriteHeader(models.MapErrorToStatus(err))
		render.JSON(w, r, response.DomainError(err))
		return
	}

	log.Info("simulator state updated", slog.Bool("enabled", simState.Enabled))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"state": simState,
	}))
}
