// Package simulator реализует слой подменного состояния подписки для
// тестовых учётных записей. Жёсткое правило безопасности: подменное
// состояние применяется только к identity из белого списка — ни один путь
// кода не вычисляет доступ из симулированных данных для остальных.
//
// Состояние хранится одним JSON-значением на identity в клиентском
// key-value хранилище под фиксированным пространством ключей и никогда
// не попадает в общую базу.
package simulator

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/rackethub/club-organizer/internal/models"
)

// keyNamespace — фиксированное пространство ключей состояния симулятора.
const keyNamespace = "simulator:state"

// KV определяет клиентское key-value хранилище состояния симулятора.
type KV interface {
	// Get читает значение по ключу, false — ключа нет.
	Get(ctx context.Context, key string, result any) (bool, error)
	// Set сохраняет значение по ключу.
	Set(ctx context.Context, key string, value any) error
	// Invalidate удаляет значение по ключу.
	Invalidate(ctx context.Context, key string) error
}

// Preset — именованный набор частичных полей подменного состояния.
// Пресеты — чистые данные, путь применения доступен только разработчикам.
type Preset struct {
	Enabled      bool
	Subscription models.SimulatedSubscription
}

// Presets — встроенные пресеты состояния симулятора.
var Presets = map[string]Preset{
	"free": {
		Enabled: true,
		Subscription: models.SimulatedSubscription{
			Tier: models.TierFree,
		},
	},
	"free-trial": {
		Enabled: true,
		Subscription: models.SimulatedSubscription{
			Tier:               models.TierFree,
			IsTrialActive:      true,
			TrialDaysRemaining: 14,
		},
	},
	"free-limit-reached": {
		Enabled: true,
		Subscription: models.SimulatedSubscription{
			Tier:                  models.TierFree,
			SessionsUsedThisMonth: models.FreeTierMonthlySessions,
		},
	},
	"personal": {
		Enabled: true,
		Subscription: models.SimulatedSubscription{
			Tier: models.TierPersonal,
		},
	},
	"club": {
		Enabled: true,
		Subscription: models.SimulatedSubscription{
			Tier: models.TierClub,
		},
	},
}

// Overlay реализует слой подменного состояния.
type Overlay struct {
	kv      KV
	allowed map[string]struct{}
	log     *slog.Logger
}

// NewOverlay создает Overlay с белым списком identity.
// Сопоставление identity выполняется без учёта регистра.
func NewOverlay(kv KV, allowedIdentities []string, log *slog.Logger) *Overlay {
	allowed := make(map[string]struct{}, len(allowedIdentities))
	for _, id := range allowedIdentities {
		allowed[strings.ToLower(id)] = struct{}{}
	}
	return &Overlay{
		kv:      kv,
		allowed: allowed,
		log:     log,
	}
}

// IsAllowed сообщает, входит ли identity в белый список тестовых
// учётных записей (без учёта регистра).
func (o *Overlay) IsAllowed(identity string) bool {
	_, ok := o.allowed[strings.ToLower(identity)]
	return ok
}

func stateKey(identity string) string {
	return fmt.Sprintf("%s:%s", keyNamespace, strings.ToLower(identity))
}

// loadState читает состояние identity, лениво создавая значения по умолчанию
// при первом чтении.
func (o *Overlay) loadState(ctx context.Context, identity string) (models.SimulatorState, error) {
	const op = "simulator.loadState"

	var state models.SimulatorState
	found, err := o.kv.Get(ctx, stateKey(identity), &state)
	if err != nil {
		return models.SimulatorState{}, fmt.Errorf("%s: %w", op, err)
	}
	if !found {
		state = models.DefaultSimulatorState()
		if err = o.kv.Set(ctx, stateKey(identity), state); err != nil {
			return models.SimulatorState{}, fmt.Errorf("%s: %w", op, err)
		}
	}
	return state, nil
}

// Resolve возвращает подменное состояние identity или nil, когда должны
// использоваться реальные данные: identity вне белого списка либо
// симулятор для неё выключен. Проверка белого списка выполняется до
// любого чтения хранилища: включённое состояние чужой identity не действует.
func (o *Overlay) Resolve(ctx context.Context, identity string) (*models.SimulatorState, error) {
	const op = "simulator.Resolve"

	if !o.IsAllowed(identity) {
		return nil, nil
	}

	state, err := o.loadState(ctx, identity)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if !state.Enabled {
		return nil, nil
	}
	return &state, nil
}

// State возвращает текущее состояние identity для экрана разработчика,
// включая выключенное. Для identity вне белого списка — ErrProfileNotFound.
func (o *Overlay) State(ctx context.Context, identity string) (*models.SimulatorState, error) {
	const op = "simulator.State"

	if !o.IsAllowed(identity) {
		return nil, fmt.Errorf("%s: %w", op, models.ErrProfileNotFound)
	}
	state, err := o.loadState(ctx, identity)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &state, nil
}

// ApplyPreset накладывает именованный пресет на текущее состояние identity
// и сохраняет результат. Неизвестное имя пресета — ошибка.
func (o *Overlay) ApplyPreset(ctx context.Context, identity, name string) (*models.SimulatorState, error) {
	const op = "simulator.ApplyPreset"

	if !o.IsAllowed(identity) {
		return nil, fmt.Errorf("%s: %w", op, models.ErrProfileNotFound)
	}
	preset, ok := Presets[name]
	if !ok {
		return nil, fmt.Errorf("%s: %q: %w", op, name, models.ErrUnknownPreset)
	}

	state, err := o.loadState(ctx, identity)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	state.Enabled = preset.Enabled
	state.Subscription = preset.Subscription

	if err = o.kv.Set(ctx, stateKey(identity), state); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	o.log.Info("simulator preset applied",
		slog.String("identity", identity), slog.String("preset", name))
	return &state, nil
}

// Update применяет частичные изменения полей к состоянию identity
// и сохраняет результат. nil в поле означает «не менять».
func (o *Overlay) Update(ctx context.Context, identity string, req models.DummySimulatorUpdate) (*models.SimulatorState, error) {
	const op = "simulator.Update"

	if !o.IsAllowed(identity) {
		return nil, fmt.Errorf("%s: %w", op, models.ErrProfileNotFound)
	}

	state, err := o.loadState(ctx, identity)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if req.Enabled != nil {
		state.Enabled = *req.Enabled
	}
	if req.Tier != nil {
		state.Subscription.Tier = models.Tier(*req.Tier)
	}
	if req.IsTrialActive != nil {
		state.Subscription.IsTrialActive = *req.IsTrialActive
	}
	if req.TrialDaysRemaining != nil {
		state.Subscription.TrialDaysRemaining = *req.TrialDaysRemaining
	}
	if req.SessionsUsedThisMonth != nil {
		state.Subscription.SessionsUsedThisMonth = *req.SessionsUsedThisMonth
	}
	if req.ClubID != nil {
		state.ClubRole.ClubID = *req.ClubID
	}
	if req.ClubRole != nil {
		state.ClubRole.Role = models.MembershipRole(*req.ClubRole)
	}
	if req.ClubStatus != nil {
		state.ClubRole.Status = models.MembershipStatus(*req.ClubStatus)
	}

	if err = o.kv.Set(ctx, stateKey(identity), state); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &state, nil
}

// Reset удаляет сохранённое состояние identity: следующее чтение
// лениво создаст значения по умолчанию.
func (o *Overlay) Reset(ctx context.Context, identity string) error {
	const op = "simulator.Reset"

	if !o.IsAllowed(identity) {
		return fmt.Errorf("%s: %w", op, models.ErrProfileNotFound)
	}
	if err := o.kv.Invalidate(ctx, stateKey(identity)); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
