// Package create реализует HTTP-обработчик создания клуба.
//
// Handler принимает JSON-запрос с данными клуба, валидирует их, извлекает UID
// создателя из контекста и вызывает бизнес-логику жизненного цикла клуба.
// Создание двухшаговое: строка клуба и членство владельца; при сбое второго
// шага бизнес-логика выполняет компенсирующее удаление, и обработчик
// возвращает ошибку согласованности из доменной таксономии.
package create

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

// Handler управляет HTTP-запросами на создание клубов.
type Handler struct {
	log      *slog.Logger        // Логгер для записи информации и ошибок
	service  Service             // Сервис бизнес-логики жизненного цикла клуба
	validate *validator.Validate // Валидатор структуры входящих данных
}

// Service описывает интерфейс бизнес-логики создания клуба.
type Service interface {
	Create(ctx context.Context, req models.DummyClub, ownerUID string) (*models.Club, error)
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
// @Summary Создать новый клуб
// @Description Создает клуб и прикрепляет создателя как владельца. Возвращает клуб.
// @Tags Clubs
// @Accept  json
// @Produce  json
// @Param request body models.DummyClub true "Данные нового клуба"
// @Success 200 {object} map[string]any "Успешное создание клуба"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 409 {object} response.ErrorResponse "Квота или конфликт названия"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера при создании клуба"
// @Router /clubs [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.club.create"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req models.DummyClub
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

	ownerUID, ok := r.Context().Value(middlewarectx.UserUID).(string)
	if !ok || ownerUID == "" {
		log.Error("user uid not found in context")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unauthorized"))
		return
	}

	club, err := h.service.Create(r.Context(), req, ownerUID)
	if err != nil {
		log.Error("failed to create club", sl.Err(err))
		w.WriteHeader(models.MapErrorToStatus(err))
		render.JSON(w, r, response.DomainError(err))
		return
	}

	log.Info("club created", slog.String("club_id", club.ID))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"club": club,
	}))
}
