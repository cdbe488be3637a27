// Package status реализует HTTP-обработчик чтения состояния подписки
// текущего пользователя вместе с матрицей доступа к возможностям.
package status

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/rackethub/club-organizer/internal/http/middlewarectx"
	"github.com/rackethub/club-organizer/internal/http/response"
	"github.com/rackethub/club-organizer/internal/lib/sl"
	"github.com/rackethub/club-organizer/internal/models"
)

// Handler управляет HTTP-запросами состояния подписки.
type Handler struct {
	log     *slog.Logger // Логгер для записи информации и ошибок
	service Service      // Движок политики доступа
}

// Service описывает интерфейс движка политики доступа.
type Service interface {
	GetFeatureAccess(ctx context.Context, identity string) (*models.SubscriptionStatus, models.FeatureAccess, error)
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Состояние подписки
// @Description Возвращает уровень, пробный период, счётчики месяца и матрицу доступа.
// @Tags Subscription
// @Produce  json
// @Success 200 {object} map[string]any "Состояние подписки и доступ"
// @Failure 404 {object} response.ErrorResponse "Профиль не найден"
// @Router /subscription/status [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.subscription.status"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	username, ok := r.Context().Value(middlewarectx.User).(string)
	if !ok || username == "" {
		log.Error("username not found in context")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unauthorized"))
		return
	}

	status, access, err := h.service.GetFeatureAccess(r.Context(), username)
	if err != nil {
		log.Error("failed to get subscription status", sl.Err(err))
		w.WriteHeader(models.MapErrorToStatus(err))
		render.JSON(w, r, response.DomainError(err))
		return
	}

	log.Info("subscription status resolved",
		slog.String("tier", string(status.Tier)),
		slog.Bool("trial_active", status.IsTrialActive))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"subscription":   status,
		"feature_access": access,
	}))
}
