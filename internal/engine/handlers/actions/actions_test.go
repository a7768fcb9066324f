package actions

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"sentry-server/internal/core/types"
	"sentry-server/internal/core/types/enums"
	"sentry-server/internal/domain"
	"sentry-server/internal/engine/handlers"
)

type fakeTower struct {
	calls    []string
	spot     int
	group    int
	idle     types.EntityID
	reloaded bool
}

func (f *fakeTower) Name() string                            { return "tower_test" }
func (f *fakeTower) Enable()                                 { f.calls = append(f.calls, "enable") }
func (f *fakeTower) Disable()                                { f.calls = append(f.calls, "disable") }
func (f *fakeTower) Sleep()                                  { f.calls = append(f.calls, "sleep") }
func (f *fakeTower) Wakeup()                                 { f.calls = append(f.calls, "wakeup") }
func (f *fakeTower) DisableWeaponSpot(spot int)              { f.spot = spot }
func (f *fakeTower) SetAlertGroupID(id int)                  { f.group = id }
func (f *fakeTower) SetIdleMovementEntity(id types.EntityID) { f.idle = id }
func (f *fakeTower) OnPropertyChange()                       { f.reloaded = true }

type fakeProps struct {
	applied map[string]any
}

func (p *fakeProps) Apply(o map[string]any) { p.applied = o }

type fakeWorld struct {
	names   map[string]types.EntityID
	client  types.EntityID
	stimuli []domain.Stimulus
}

func (w *fakeWorld) EntityByName(name string) (types.EntityID, bool) {
	id, ok := w.names[name]
	return id, ok
}
func (w *fakeWorld) ClientActor() types.EntityID { return w.client }
func (w *fakeWorld) EmitStimulus(s domain.Stimulus) int {
	w.stimuli = append(w.stimuli, s)
	return 1
}

var markerID = types.PackEntityID(enums.EntityKindMarker, 0, 3)

func setup() (handlers.Context, *fakeTower, *fakeProps, *fakeWorld) {
	tower := &fakeTower{group: -1}
	props := &fakeProps{}
	world := &fakeWorld{
		names:  map[string]types.EntityID{"idle_path": markerID},
		client: types.PackEntityID(enums.EntityKindTarget, 0, 1),
	}
	return handlers.Context{Tower: tower, Props: props, World: world}, tower, props, world
}

func run(t *testing.T, ctx handlers.Context, action domain.ActionType, payload string) (handlers.Result, error) {
	t.Helper()
	h, ok := Registry()[action]
	if !ok {
		t.Fatalf("no handler for %s", action)
	}
	var raw json.RawMessage
	if payload != "" {
		raw = json.RawMessage(payload)
	}
	return h(ctx, raw)
}

func TestRegistry_CoversAllActions(t *testing.T) {
	reg := Registry()
	for a := domain.ActionEnable; a <= domain.ActionNoise; a++ {
		if _, ok := reg[a]; !ok {
			t.Errorf("action %s has no handler", a)
		}
	}
}

func TestLifecycleHandlers(t *testing.T) {
	ctx, tower, _, _ := setup()

	for _, a := range []domain.ActionType{domain.ActionEnable, domain.ActionSleep, domain.ActionWakeup, domain.ActionDisable} {
		if _, err := run(t, ctx, a, ""); err != nil {
			t.Fatalf("%s: unexpected error %v", a, err)
		}
	}

	want := "enable,sleep,wakeup,disable"
	if got := strings.Join(tower.calls, ","); got != want {
		t.Errorf("calls = %s, want %s", got, want)
	}
}

func TestHandleDisableWeaponSpot(t *testing.T) {
	ctx, tower, _, _ := setup()

	if _, err := run(t, ctx, domain.ActionDisableWeaponSpot, `{"spot": 2}`); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tower.spot != 2 {
		t.Errorf("expected spot 2, got %d", tower.spot)
	}

	if _, err := run(t, ctx, domain.ActionDisableWeaponSpot, `{"spot": 5}`); err == nil {
		t.Error("expected validation error for spot 5")
	}
	if _, err := run(t, ctx, domain.ActionDisableWeaponSpot, `{"spot": "x"}`); err == nil {
		t.Error("expected format error")
	}
}

func TestHandleSetAlertGroup(t *testing.T) {
	ctx, tower, _, _ := setup()

	if _, err := run(t, ctx, domain.ActionSetAlertGroup, `{"groupId": 4}`); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tower.group != 4 {
		t.Errorf("expected group 4, got %d", tower.group)
	}
}

func TestHandleSetIdleMovement(t *testing.T) {
	ctx, tower, _, _ := setup()

	if _, err := run(t, ctx, domain.ActionSetIdleMovement, `{"entity": "idle_path"}`); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tower.idle != markerID {
		t.Errorf("expected idle entity %s, got %s", markerID, tower.idle)
	}

	if _, err := run(t, ctx, domain.ActionSetIdleMovement, `{"entity": "nowhere"}`); err == nil {
		t.Error("expected error for unknown entity")
	}
}

func TestHandleReload(t *testing.T) {
	ctx, tower, props, _ := setup()

	if _, err := run(t, ctx, domain.ActionReload, ""); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !tower.reloaded || props.applied != nil {
		t.Errorf("empty reload must only schedule re-read")
	}

	if _, err := run(t, ctx, domain.ActionReload, `{"properties": {"visionFOV": 20}}`); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if props.applied["visionFOV"] != float64(20) {
		t.Errorf("expected override applied, got %v", props.applied)
	}
}

func TestHandleNoise(t *testing.T) {
	ctx, _, _, world := setup()

	if _, err := run(t, ctx, domain.ActionNoise, `{"x": 1, "y": 2, "threat": 1, "fromTarget": true}`); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := run(t, ctx, domain.ActionNoise, `{"type": "explosion", "threat": 3}`); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(world.stimuli) != 2 {
		t.Fatalf("expected 2 stimuli, got %d", len(world.stimuli))
	}
	first := world.stimuli[0]
	if first.Type != enums.StimulusSound || first.Sender != world.client || first.Pos != (domain.Vec3{X: 1, Y: 2}) {
		t.Errorf("unexpected stimulus %+v", first)
	}
	if world.stimuli[1].Type != enums.StimulusExplosion || !world.stimuli[1].Sender.IsNil() {
		t.Errorf("unexpected stimulus %+v", world.stimuli[1])
	}

	if _, err := run(t, ctx, domain.ActionNoise, `{"threat": -1}`); err == nil {
		t.Error("expected validation error")
	}
}

func TestRegistry_TowerActionsNeedTower(t *testing.T) {
	ctx, _, _, world := setup()
	ctx.Tower = nil

	if _, err := run(t, ctx, domain.ActionEnable, ""); !errors.Is(err, handlers.ErrNoTower) {
		t.Errorf("ENABLE without tower: err = %v, want ErrNoTower", err)
	}
	if _, err := run(t, ctx, domain.ActionNoise, `{"threat": 1}`); err != nil {
		t.Errorf("NOISE without tower: unexpected error %v", err)
	}
	if len(world.stimuli) != 1 {
		t.Errorf("stimuli = %d, want 1", len(world.stimuli))
	}
}
