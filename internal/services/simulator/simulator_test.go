package simulator

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rackethub/club-organizer/internal/models"
)

// kvFake хранит значения в памяти, повторяя JSON-семантику кэша.
type kvFake struct {
	data map[string][]byte
}

func newKVFake() *kvFake {
	return &kvFake{data: make(map[string][]byte)}
}

func (f *kvFake) Get(_ context.Context, key string, result any) (bool, error) {
	raw, ok := f.data[key]
	if !ok {
		return false, nil
	}
	if err := json.Unmarshal(raw, result); err != nil {
		return false, err
	}
	return true, nil
}

func (f *kvFake) Set(_ context.Context, key string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	f.data[key] = raw
	return nil
}

func (f *kvFake) Invalidate(_ context.Context, key string) error {
	delete(f.data, key)
	return nil
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func newTestOverlay(kv KV) *Overlay {
	return NewOverlay(kv, []string{"Tester", "dev@example.com"}, newNoopLogger())
}

func TestOverlay_IsAllowed(t *testing.T) {
	o := newTestOverlay(newKVFake())

	assert.True(t, o.IsAllowed("tester"))
	assert.True(t, o.IsAllowed("TESTER"))
	assert.True(t, o.IsAllowed("dev@example.com"))
	assert.False(t, o.IsAllowed("alice"))
	assert.False(t, o.IsAllowed(""))
}

func TestOverlay_State_LazyDefaults(t *testing.T) {
	kv := newKVFake()
	o := newTestOverlay(kv)

	state, err := o.State(context.Background(), "tester")
	require.NoError(t, err)
	assert.False(t, state.Enabled)
	assert.Equal(t, models.TierFree, state.Subscription.Tier)

	// Значения по умолчанию сохранены при первом чтении.
	_, ok := kv.data["simulator:state:tester"]
	assert.True(t, ok)
}

func TestOverlay_State_NotAllowed(t *testing.T) {
	o := newTestOverlay(newKVFake())

	_, err := o.State(context.Background(), "alice")
	assert.ErrorIs(t, err, models.ErrProfileNotFound)
}

func TestOverlay_Resolve(t *testing.T) {
	t.Run("not allowed identity resolves to nil without storage read", func(t *testing.T) {
		kv := newKVFake()
		// Включённое состояние под ключом чужой identity не действует.
		raw, _ := json.Marshal(models.SimulatorState{Enabled: true,
			Subscription: models.SimulatedSubscription{Tier: models.TierClub}})
		kv.data["simulator:state:alice"] = raw

		o := newTestOverlay(kv)
		state, err := o.Resolve(context.Background(), "alice")
		assert.NoError(t, err)
		assert.Nil(t, state)
	})

	t.Run("allowed but disabled resolves to nil", func(t *testing.T) {
		o := newTestOverlay(newKVFake())
		state, err := o.Resolve(context.Background(), "tester")
		assert.NoError(t, err)
		assert.Nil(t, state)
	})

	t.Run("allowed and enabled resolves to state", func(t *testing.T) {
		kv := newKVFake()
		o := newTestOverlay(kv)

		enabled := true
		_, err := o.Update(context.Background(), "tester", models.DummySimulatorUpdate{Enabled: &enabled})
		require.NoError(t, err)

		state, err := o.Resolve(context.Background(), "tester")
		require.NoError(t, err)
		require.NotNil(t, state)
		assert.True(t, state.Enabled)
	})

	t.Run("identity match is case-insensitive", func(t *testing.T) {
		kv := newKVFake()
		o := newTestOverlay(kv)

		enabled := true
		_, err := o.Update(context.Background(), "TESTER", models.DummySimulatorUpdate{Enabled: &enabled})
		require.NoError(t, err)

		state, err := o.Resolve(context.Background(), "tester")
		require.NoError(t, err)
		require.NotNil(t, state)
	})
}

func TestOverlay_ApplyPreset(t *testing.T) {
	tests := []struct {
		name       string
		preset     string
		wantTier   models.Tier
		wantTrial  bool
		wantUsed   int
	}{
		{name: "free", preset: "free", wantTier: models.TierFree},
		{name: "free-trial", preset: "free-trial", wantTier: models.TierFree, wantTrial: true},
		{name: "free-limit-reached", preset: "free-limit-reached", wantTier: models.TierFree,
			wantUsed: models.FreeTierMonthlySessions},
		{name: "personal", preset: "personal", wantTier: models.TierPersonal},
		{name: "club", preset: "club", wantTier: models.TierClub},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := newTestOverlay(newKVFake())
			state, err := o.ApplyPreset(context.Background(), "tester", tt.preset)
			require.NoError(t, err)
			assert.True(t, state.Enabled)
			assert.Equal(t, tt.wantTier, state.Subscription.Tier)
			assert.Equal(t, tt.wantTrial, state.Subscription.IsTrialActive)
			assert.Equal(t, tt.wantUsed, state.Subscription.SessionsUsedThisMonth)
		})
	}

	t.Run("unknown preset", func(t *testing.T) {
		o := newTestOverlay(newKVFake())
		_, err := o.ApplyPreset(context.Background(), "tester", "enterprise")
		assert.ErrorIs(t, err, models.ErrUnknownPreset)
	})

	t.Run("not allowed identity", func(t *testing.T) {
		o := newTestOverlay(newKVFake())
		_, err := o.ApplyPreset(context.Background(), "alice", "free")
		assert.ErrorIs(t, err, models.ErrProfileNotFound)
	})
}

func TestOverlay_Update_PartialMerge(t *testing.T) {
	o := newTestOverlay(newKVFake())

	_, err := o.ApplyPreset(context.Background(), "tester", "personal")
	require.NoError(t, err)

	used := 2
	state, err := o.Update(context.Background(), "tester",
		models.DummySimulatorUpdate{SessionsUsedThisMonth: &used})
	require.NoError(t, err)

	// Остальные поля не тронуты.
	assert.True(t, state.Enabled)
	assert.Equal(t, models.TierPersonal, state.Subscription.Tier)
	assert.Equal(t, 2, state.Subscription.SessionsUsedThisMonth)

	role := "admin"
	clubID := "c1"
	state, err = o.Update(context.Background(), "tester",
		models.DummySimulatorUpdate{ClubRole: &role, ClubID: &clubID})
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, state.ClubRole.Role)
	assert.Equal(t, "c1", state.ClubRole.ClubID)
	assert.Equal(t, models.TierPersonal, state.Subscription.Tier)
}

func TestOverlay_Reset(t *testing.T) {
	kv := newKVFake()
	o := newTestOverlay(kv)

	_, err := o.ApplyPreset(context.Background(), "tester", "club")
	require.NoError(t, err)

	require.NoError(t, o.Reset(context.Background(), "tester"))

	state, err := o.State(context.Background(), "tester")
	require.NoError(t, err)
	assert.False(t, state.Enabled)
	assert.Equal(t, models.TierFree, state.Subscription.Tier)

	assert.ErrorIs(t, o.Reset(context.Background(), "alice"), models.ErrProfileNotFound)
}
