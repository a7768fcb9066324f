package engine

import (
	"math/rand"
	"sort"

	"github.com/sirupsen/logrus"

	"sentry-server/internal/config"
	"sentry-server/internal/core/types"
	"sentry-server/internal/core/types/enums"
	"sentry-server/internal/domain"
	"sentry-server/pkg/logger"
)

const (
	// allyAlertDuration - сколько союзник остаётся встревоженным после сигнала.
	allyAlertDuration = 30.0
	// hitRadius - промах меньше этого считается попаданием по игроку.
	hitRadius = 1.0
	// defaultBulletStimulusRadius - радиус раздражителя от попадания пули.
	defaultBulletStimulusRadius = 15.0
	// recentAudioLimit - сколько последних звуков держим для отладки.
	recentAudioLimit = 32
)

// entity - любая сущность песочницы: игрок, маркер, аттачмент, оружие, союзник.
type entity struct {
	id       types.EntityID
	name     string
	pos      domain.Vec3
	velocity domain.Vec3
	forward  domain.Vec3
	height   float64
	hidden   bool
	yaw      float64
	path     *patrol
}

type observer struct {
	params  domain.ObserverParams
	cb      domain.VisibilityCallback
	visible bool
}

type listener struct {
	owner  types.EntityID
	pos    domain.Vec3
	radius float64
	mask   uint32
	cb     domain.StimulusCallback
}

type moveSub struct {
	id types.EntityID
	cb func(types.EntityID, domain.Vec3)
}

type weapon struct {
	owner types.EntityID
	class string
	pos   domain.Vec3
	dir   domain.Vec3
	dest  domain.Vec3
	ammo  int
	shots int
}

type ally struct {
	id        types.EntityID
	active    bool
	alertness int
	attention *domain.Vec3
	alertLeft float64
}

// Laser - отрезок, который вышка рисует перед выстрелом.
type Laser struct {
	From, To domain.Vec3
}

// World - песочница, в которой живут вышки. Реализует все сервисы движка,
// нужные контроллеру. Не потокобезопасна: живёт в горутине тика.
type World struct {
	log *logrus.Entry
	rng *rand.Rand
	now float64

	nextIndex  uint32
	nextHandle uint32

	entities map[types.EntityID]*entity
	byName   map[string]types.EntityID
	links    map[types.EntityID]map[string]types.EntityID

	target        types.EntityID
	targetStealth bool
	targetHits    int

	observers map[domain.ObserverHandle]*observer
	listeners map[domain.ListenerHandle]*listener
	subs      map[domain.SubscriptionHandle]*moveSub

	weaponSpeeds map[string]float64
	weapons      map[types.EntityID]*weapon

	looks   map[types.EntityID]domain.Vec3
	lasers  map[types.EntityID]map[int]Laser
	audio   []string
	offsets map[audioKey]domain.Vec3

	groups map[int][]*ally
}

// NewWorld собирает песочницу из конфига. Вышки регистрируются отдельно
// через AddTower, их связи (links) резолвятся по именам маркеров.
func NewWorld(f *config.File, rng *rand.Rand) *World {
	w := &World{
		log:          logger.Component("world"),
		rng:          rng,
		entities:     make(map[types.EntityID]*entity),
		byName:       make(map[string]types.EntityID),
		links:        make(map[types.EntityID]map[string]types.EntityID),
		observers:    make(map[domain.ObserverHandle]*observer),
		listeners:    make(map[domain.ListenerHandle]*listener),
		subs:         make(map[domain.SubscriptionHandle]*moveSub),
		weaponSpeeds: make(map[string]float64),
		weapons:      make(map[types.EntityID]*weapon),
		looks:        make(map[types.EntityID]domain.Vec3),
		lasers:       make(map[types.EntityID]map[int]Laser),
		offsets:      make(map[audioKey]domain.Vec3),
		groups:       make(map[int][]*ally),
	}

	for class, speed := range f.Weapons {
		w.weaponSpeeds[class] = speed
	}

	if len(f.Target.Waypoints) > 0 {
		name := f.Target.Name
		if name == "" {
			name = "player"
		}
		e := w.spawn(enums.EntityKindTarget, name, f.Target.Waypoints[0])
		e.height = f.Target.Height
		e.path = newPatrol(f.Target.Waypoints, f.Target.Speed, true)
		w.target = e.id
		w.targetStealth = f.Target.Stealth
	}

	for _, m := range f.Markers {
		kind := enums.ParseEntityKind(m.Kind)
		if kind == enums.EntityKindUnknown {
			kind = enums.EntityKindMarker
		}
		e := w.spawn(kind, m.Name, m.Position)
		if len(m.Waypoints) > 1 {
			e.path = newPatrol(m.Waypoints, m.Speed, false)
		}
	}

	for _, g := range f.Groups {
		for _, a := range g.Members {
			e := w.spawn(enums.EntityKindAlly, a.Name, a.Position)
			w.groups[g.ID] = append(w.groups[g.ID], &ally{id: e.id, active: a.Active, alertness: a.Alertness})
		}
	}
	return w
}

func (w *World) spawn(kind enums.EntityKind, name string, pos domain.Vec3) *entity {
	w.nextIndex++
	e := &entity{
		id:      types.PackEntityID(kind, 0, w.nextIndex),
		name:    name,
		pos:     pos,
		forward: domain.Vec3{Y: 1},
	}
	w.entities[e.id] = e
	if name != "" {
		w.byName[name] = e.id
	}
	return e
}

// AddTower заводит сущность вышки с детерминированным id (порядок в конфиге),
// чтобы сейв находил свои вышки после перезапуска.
func (w *World) AddTower(index uint32, def config.TowerDef) types.EntityID {
	id := types.PackEntityID(enums.EntityKindTower, 0, index)
	w.entities[id] = &entity{id: id, name: def.Name, pos: def.Position, forward: domain.Vec3{Y: 1}}
	w.byName[def.Name] = id

	links := make(map[string]types.EntityID, len(def.Links))
	for link, target := range def.Links {
		if tid, ok := w.byName[target]; ok {
			links[link] = tid
			continue
		}
		w.log.WithFields(logrus.Fields{"tower": def.Name, "link": link, "target": target}).
			Warn("Tower link points to unknown entity.")
	}
	w.links[id] = links
	return id
}

func (w *World) handle() uint32 {
	w.nextHandle++
	return w.nextHandle
}

// Now - время симуляции.
func (w *World) Now() float64 { return w.now }

// EntityByName ищет сущность по имени из конфига.
func (w *World) EntityByName(name string) (types.EntityID, bool) {
	id, ok := w.byName[name]
	return id, ok
}

// Step продвигает песочницу на dt: игрок и маркеры идут по маршрутам,
// подписчики движений и система восприятия получают callback'и.
// Вызывается перед обновлением вышек, поэтому callback'и всегда приходят между тиками.
func (w *World) Step(dt float64) {
	w.now += dt

	for _, e := range w.entities {
		if !e.path.active() {
			continue
		}
		var vel domain.Vec3
		e.pos, vel = e.path.step(e.pos, dt)
		e.velocity = vel
		if vel.LengthSq2D() > 0 {
			e.forward = vel.Flat().Normalized()
		}
		w.publishMove(e)
	}

	for _, a := range w.allAllies() {
		if a.alertLeft <= 0 {
			continue
		}
		a.alertLeft -= dt
		if a.alertLeft <= 0 {
			a.alertness = 0
			a.attention = nil
		}
	}

	w.updatePerception()
}

func (w *World) allAllies() []*ally {
	var out []*ally
	for _, members := range w.groups {
		out = append(out, members...)
	}
	return out
}

func (w *World) publishMove(e *entity) {
	for _, s := range w.subs {
		if s.id == e.id {
			s.cb(e.id, e.pos)
		}
	}
}

// updatePerception проверяет игрока против каждого конуса и сообщает
// только об изменениях видимости.
func (w *World) updatePerception() {
	target, ok := w.entities[w.target]
	for h, o := range w.observers {
		visible := ok && inCone(o.params, w.boundsCenter(target))
		if visible == o.visible {
			continue
		}
		o.visible = visible
		o.cb(h, w.target, visible)
	}
}

// inCone - точка в пределах дальности и внутри угла FOV.
func inCone(p domain.ObserverParams, pos domain.Vec3) bool {
	delta := pos.Sub(p.EyePos)
	dist := delta.Length()
	if dist > p.SightRange {
		return false
	}
	if dist == 0 {
		return true
	}
	dir := p.EyeDir.Normalized()
	cos := (delta.X*dir.X + delta.Y*dir.Y + delta.Z*dir.Z) / dist
	return cos >= p.FOVCos
}

func (w *World) boundsCenter(e *entity) domain.Vec3 {
	return e.pos.Add(domain.Vec3{Z: e.height / 2})
}

// EmitStimulus рассылает раздражитель всем слушателям, до которых он долетает.
func (w *World) EmitStimulus(s domain.Stimulus) int {
	heard := 0
	for _, h := range sortedHandles(w.listeners) {
		l := w.listeners[h]
		if l.mask&s.Type.Mask() == 0 {
			continue
		}
		reach := l.radius + s.Radius
		if l.pos.DistanceSq2D(s.Pos) > reach*reach {
			continue
		}
		l.cb(s)
		heard++
	}
	w.log.WithFields(logrus.Fields{
		"type":      s.Type.String(),
		"threat":    s.Threat,
		"listeners": heard,
	}).Debug("Stimulus emitted.")
	return heard
}

// AlertAlly - тревога союзника извне (команда или скрипт).
func (w *World) AlertAlly(groupID int, id types.EntityID, pos domain.Vec3) bool {
	for _, a := range w.groups[groupID] {
		if a.id == id {
			p := pos
			a.alertness = 1
			a.attention = &p
			a.alertLeft = allyAlertDuration
			return true
		}
	}
	return false
}

// --- Срезы для телеметрии ---

// TargetInfo - положение игрока, nil если игрока нет.
type TargetInfo struct {
	ID       types.EntityID
	Name     string
	Position domain.Vec3
	Stealth  bool
	Hits     int
}

func (w *World) Target() *TargetInfo {
	e, ok := w.entities[w.target]
	if !ok {
		return nil
	}
	return &TargetInfo{ID: e.id, Name: e.name, Position: e.pos, Stealth: w.targetStealth, Hits: w.targetHits}
}

// Lasers - горящие лазеры вышки по слотам.
func (w *World) Lasers(tower types.EntityID) map[int]Laser {
	out := make(map[int]Laser, len(w.lasers[tower]))
	for k, v := range w.lasers[tower] {
		out[k] = v
	}
	return out
}

// audioKey - звук конкретного владельца.
type audioKey struct {
	cue   string
	owner types.EntityID
}

// AudioOffset - последнее смещение звука cue у owner. false, если звук не
// двигали или он остановлен.
func (w *World) AudioOffset(cue string, owner types.EntityID) (domain.Vec3, bool) {
	off, ok := w.offsets[audioKey{cue: cue, owner: owner}]
	return off, ok
}

// RecentAudio - последние проигранные звуки, от старых к новым.
func (w *World) RecentAudio() []string {
	out := make([]string, len(w.audio))
	copy(out, w.audio)
	return out
}

// SetTargetStealth включает стелс игрока.
func (w *World) SetTargetStealth(on bool) {
	w.targetStealth = on
}

// sortedHandles - порядок рассылки не должен зависеть от порядка обхода map.
func sortedHandles(m map[domain.ListenerHandle]*listener) []domain.ListenerHandle {
	keys := make([]domain.ListenerHandle, 0, len(m))
	for h := range m {
		keys = append(keys, h)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}

// TeleportTarget переносит игрока в точку. hold останавливает его маршрут.
func (w *World) TeleportTarget(pos domain.Vec3, hold bool) bool {
	e, ok := w.entities[w.target]
	if !ok {
		return false
	}
	e.pos = pos
	e.velocity = domain.Vec3{}
	if hold {
		e.path = nil
	}
	w.publishMove(e)
	return true
}
