package sentry

import (
	"os"
	"testing"

	"sentry-server/internal/core/types"
	"sentry-server/internal/core/types/enums"
	"sentry-server/internal/domain"
	"sentry-server/pkg/logger"
)

func TestMain(m *testing.M) {
	logger.Init()
	os.Exit(m.Run())
}

var (
	towerID  = types.PackEntityID(enums.EntityKindTower, 0, 1)
	playerID = types.PackEntityID(enums.EntityKindTarget, 0, 2)
	weaponID = types.PackEntityID(enums.EntityKindWeapon, 0, 3)
	beamID   = types.PackEntityID(enums.EntityKindAttachment, 0, 4)
	pathID   = types.PackEntityID(enums.EntityKindMarker, 0, 5)
	allyID   = types.PackEntityID(enums.EntityKindAlly, 0, 6)
)

// fakeWorld реализует все сервисы движка и записывает, что с ними делали.
type fakeWorld struct {
	now float64

	client    types.EntityID
	positions map[types.EntityID]domain.Vec3
	velocity  map[types.EntityID]domain.Vec3
	forward   map[types.EntityID]domain.Vec3
	invisible bool
	links     map[string]types.EntityID

	nextHandle uint32

	observers         map[domain.ObserverHandle]domain.VisibilityCallback
	observerUnregs    int
	listeners         map[domain.ListenerHandle]domain.StimulusCallback
	listenerUnregs    int
	subs              map[domain.SubscriptionHandle]func(types.EntityID, domain.Vec3)
	unsubscribes      int
	lookAts           []domain.Vec3
	lasers            map[int]bool
	hidden            map[types.EntityID]bool
	attachmentUpdates map[types.EntityID]int

	weaponClasses map[string]float64
	spawned       int
	removed       int
	refills       int
	shots         []domain.Vec3

	played  []string
	stopped []string

	members  map[int][]domain.GroupMember
	notified []domain.Vec3

	events      []domain.FlowEvent
	transitions [][2]enums.SentryState
}

func newFakeWorld() *fakeWorld {
	return &fakeWorld{
		client:            playerID,
		positions:         map[types.EntityID]domain.Vec3{playerID: {X: 0, Y: 50, Z: 0}, pathID: {X: 10, Y: 10}},
		velocity:          map[types.EntityID]domain.Vec3{},
		forward:           map[types.EntityID]domain.Vec3{},
		links:             map[string]types.EntityID{"beam": beamID},
		observers:         map[domain.ObserverHandle]domain.VisibilityCallback{},
		listeners:         map[domain.ListenerHandle]domain.StimulusCallback{},
		subs:              map[domain.SubscriptionHandle]func(types.EntityID, domain.Vec3){},
		lasers:            map[int]bool{},
		hidden:            map[types.EntityID]bool{},
		attachmentUpdates: map[types.EntityID]int{},
		weaponClasses:     map[string]float64{"MG": 100},
		members:           map[int][]domain.GroupMember{},
	}
}

func (w *fakeWorld) services() domain.Services {
	return domain.Services{
		Perception: w, Stimuli: w, Entities: w, Transform: w,
		Weapons: w, Audio: w, Groups: w, Flow: w, States: w,
	}
}

func (w *fakeWorld) handle() uint32 {
	w.nextHandle++
	return w.nextHandle
}

// setVisible имитирует callback системы восприятия.
func (w *fakeWorld) setVisible(v bool) {
	for h, cb := range w.observers {
		cb(h, w.client, v)
	}
}

func (w *fakeWorld) noise(s domain.Stimulus) {
	for _, cb := range w.listeners {
		cb(s)
	}
}

func (w *fakeWorld) count(ev domain.FlowEvent) int {
	n := 0
	for _, e := range w.events {
		if e == ev {
			n++
		}
	}
	return n
}

func (w *fakeWorld) playedCount(cue string) int {
	n := 0
	for _, p := range w.played {
		if p == cue {
			n++
		}
	}
	return n
}

// PerceptionService
func (w *fakeWorld) RegisterObserver(_ domain.ObserverParams, cb domain.VisibilityCallback) domain.ObserverHandle {
	h := domain.ObserverHandle(w.handle())
	w.observers[h] = cb
	return h
}
func (w *fakeWorld) UpdateObserverDir(domain.ObserverHandle, domain.Vec3) {}
func (w *fakeWorld) UnregisterObserver(h domain.ObserverHandle) {
	delete(w.observers, h)
	w.observerUnregs++
}

// StimulusService
func (w *fakeWorld) RegisterListener(_ types.EntityID, _ domain.Vec3, _ float64, _ uint32, cb domain.StimulusCallback) domain.ListenerHandle {
	h := domain.ListenerHandle(w.handle())
	w.listeners[h] = cb
	return h
}
func (w *fakeWorld) UpdateListener(domain.ListenerHandle, domain.Vec3, float64) {}
func (w *fakeWorld) UnregisterListener(h domain.ListenerHandle) {
	delete(w.listeners, h)
	w.listenerUnregs++
}

// EntityService
func (w *fakeWorld) ClientActor() types.EntityID { return w.client }
func (w *fakeWorld) Position(id types.EntityID) (domain.Vec3, bool) {
	p, ok := w.positions[id]
	return p, ok
}
func (w *fakeWorld) BoundsCenter(id types.EntityID) (domain.Vec3, bool) {
	p, ok := w.positions[id]
	return p.Add(domain.Vec3{Z: 1}), ok
}
func (w *fakeWorld) Velocity(id types.EntityID) (domain.Vec3, bool) {
	v, ok := w.velocity[id]
	return v, ok
}
func (w *fakeWorld) ForwardDir(id types.EntityID) (domain.Vec3, bool) {
	v, ok := w.forward[id]
	return v, ok
}
func (w *fakeWorld) IsInvisibleFrom(types.EntityID, domain.Vec3) bool { return w.invisible }
func (w *fakeWorld) LinkByName(_ types.EntityID, name string) types.EntityID {
	return w.links[name]
}

// TransformService
func (w *fakeWorld) LookAt(_ types.EntityID, target domain.Vec3) { w.lookAts = append(w.lookAts, target) }
func (w *fakeWorld) SetAttachment(id types.EntityID, _ domain.Vec3, _ float64) {
	w.attachmentUpdates[id]++
}
func (w *fakeWorld) SetHidden(id types.EntityID, hidden bool) { w.hidden[id] = hidden }
func (w *fakeWorld) SetLaser(_ types.EntityID, slot int, visible bool, _, _ domain.Vec3) {
	w.lasers[slot] = visible
}
func (w *fakeWorld) SubscribeMoves(_ types.EntityID, cb func(types.EntityID, domain.Vec3)) domain.SubscriptionHandle {
	h := domain.SubscriptionHandle(w.handle())
	w.subs[h] = cb
	return h
}
func (w *fakeWorld) Unsubscribe(h domain.SubscriptionHandle) {
	delete(w.subs, h)
	w.unsubscribes++
}

// WeaponService
func (w *fakeWorld) Spawn(_ types.EntityID, _ string, class string) (types.EntityID, bool) {
	if _, ok := w.weaponClasses[class]; !ok {
		return types.NilEntityID, false
	}
	w.spawned++
	return weaponID, true
}
func (w *fakeWorld) Remove(types.EntityID)       { w.removed++ }
func (w *fakeWorld) Class(types.EntityID) string { return "MG" }
func (w *fakeWorld) ProjectileSpeed(types.EntityID) (float64, bool) {
	return w.weaponClasses["MG"], true
}
func (w *fakeWorld) SetTransform(types.EntityID, domain.Vec3, domain.Vec3) {}
func (w *fakeWorld) SetDestination(_ types.EntityID, pos domain.Vec3) { w.shots = append(w.shots, pos) }
func (w *fakeWorld) RefillClip(types.EntityID)                        { w.refills++ }
func (w *fakeWorld) Fire(types.EntityID)                                  {}

// AudioService
func (w *fakeWorld) Play(cue string, _ types.EntityID) {
	if cue != "" {
		w.played = append(w.played, cue)
	}
}
func (w *fakeWorld) Stop(cue string, _ types.EntityID) {
	if cue != "" {
		w.stopped = append(w.stopped, cue)
	}
}
func (w *fakeWorld) SetOffset(string, types.EntityID, domain.Vec3) {}

// GroupAlertService
func (w *fakeWorld) Members(groupID int) []domain.GroupMember { return w.members[groupID] }
func (w *fakeWorld) NotifyTargetSpotted(_ int, _ types.EntityID, pos domain.Vec3, _ float64) {
	w.notified = append(w.notified, pos)
}

// FlowEventSink / StateChangeSink
func (w *fakeWorld) OnFlowEvent(_ types.EntityID, ev domain.FlowEvent) { w.events = append(w.events, ev) }
func (w *fakeWorld) OnStateChange(_ types.EntityID, from, to enums.SentryState) {
	w.transitions = append(w.transitions, [2]enums.SentryState{from, to})
}

// staticProps - источник свойств, который тест может подменять.
type staticProps struct {
	cfg domain.BehaviorConfig
}

func (p *staticProps) Behavior() domain.BehaviorConfig { return p.cfg }

func testConfig() domain.BehaviorConfig {
	cfg := domain.DefaultBehaviorConfig()
	cfg.WeaponClass = "MG"
	cfg.AudioBackground = "bg"
	cfg.AudioShoot = "shot"
	cfg.AudioPreshoot = "preshoot"
	cfg.EnemyInView.TimeToFirstBurst = 100
	cfg.EnemyLost.TimeSearching = 2
	cfg.WeaponSpots = [domain.MaxWeaponSlots]domain.WeaponSpotConfig{
		{Enabled: true, Offset: domain.Vec3{X: -1}},
		{Enabled: true, Offset: domain.Vec3{X: 0}},
		{Enabled: true, Offset: domain.Vec3{X: 1}},
	}
	return cfg
}

func newTestTower(t *testing.T, mutate func(cfg *domain.BehaviorConfig)) (*Controller, *fakeWorld, *staticProps) {
	t.Helper()
	cfg := testConfig()
	if mutate != nil {
		mutate(&cfg)
	}
	w := newFakeWorld()
	props := &staticProps{cfg: cfg}
	c := New(Params{
		ID:       towerID,
		Name:     "tower_test",
		Position: domain.Vec3{Z: 20},
		Props:    props,
		Services: w.services(),
	})
	w.transitions = nil
	w.events = nil
	return c, w, props
}

// tick прогоняет n тиков по dt секунд.
func tick(c *Controller, w *fakeWorld, n int, dt float64) {
	for i := 0; i < n; i++ {
		w.now += dt
		c.Update(w.now, dt)
	}
}
