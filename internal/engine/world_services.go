package engine

import (
	"github.com/sirupsen/logrus"

	"sentry-server/internal/core/types"
	"sentry-server/internal/core/types/enums"
	"sentry-server/internal/domain"
)

// Реализация domain.*Service поверх песочницы.

// Services собирает набор сервисов для контроллера. flow/states - приёмники
// событий движка (метрики, телеметрия).
func (w *World) Services(flow domain.FlowEventSink, states domain.StateChangeSink) domain.Services {
	return domain.Services{
		Perception: w,
		Stimuli:    w,
		Entities:   w,
		Transform:  w,
		Weapons:    w,
		Audio:      w,
		Groups:     w,
		Flow:       flow,
		States:     states,
	}
}

// --- PerceptionService ---

func (w *World) RegisterObserver(params domain.ObserverParams, cb domain.VisibilityCallback) domain.ObserverHandle {
	h := domain.ObserverHandle(w.handle())
	w.observers[h] = &observer{params: params, cb: cb}
	return h
}

func (w *World) UpdateObserverDir(h domain.ObserverHandle, eyeDir domain.Vec3) {
	if o, ok := w.observers[h]; ok {
		o.params.EyeDir = eyeDir
	}
}

func (w *World) UnregisterObserver(h domain.ObserverHandle) {
	delete(w.observers, h)
}

// --- StimulusService ---

func (w *World) RegisterListener(owner types.EntityID, pos domain.Vec3, radius float64, mask uint32, cb domain.StimulusCallback) domain.ListenerHandle {
	h := domain.ListenerHandle(w.handle())
	w.listeners[h] = &listener{owner: owner, pos: pos, radius: radius, mask: mask, cb: cb}
	return h
}

func (w *World) UpdateListener(h domain.ListenerHandle, pos domain.Vec3, radius float64) {
	if l, ok := w.listeners[h]; ok {
		l.pos = pos
		l.radius = radius
	}
}

func (w *World) UnregisterListener(h domain.ListenerHandle) {
	delete(w.listeners, h)
}

// --- EntityService ---

func (w *World) ClientActor() types.EntityID { return w.target }

func (w *World) Position(id types.EntityID) (domain.Vec3, bool) {
	e, ok := w.entities[id]
	if !ok {
		return domain.Vec3{}, false
	}
	return e.pos, true
}

func (w *World) BoundsCenter(id types.EntityID) (domain.Vec3, bool) {
	e, ok := w.entities[id]
	if !ok {
		return domain.Vec3{}, false
	}
	return w.boundsCenter(e), true
}

func (w *World) Velocity(id types.EntityID) (domain.Vec3, bool) {
	e, ok := w.entities[id]
	if !ok {
		return domain.Vec3{}, false
	}
	return e.velocity, true
}

func (w *World) ForwardDir(id types.EntityID) (domain.Vec3, bool) {
	e, ok := w.entities[id]
	if !ok {
		return domain.Vec3{}, false
	}
	return e.forward, true
}

func (w *World) IsInvisibleFrom(id types.EntityID, _ domain.Vec3) bool {
	return id == w.target && w.targetStealth
}

func (w *World) LinkByName(owner types.EntityID, name string) types.EntityID {
	return w.links[owner][name]
}

// --- TransformService ---

func (w *World) LookAt(tower types.EntityID, target domain.Vec3) {
	w.looks[tower] = target
}

func (w *World) SetAttachment(id types.EntityID, pos domain.Vec3, yaw float64) {
	if e, ok := w.entities[id]; ok {
		e.pos = pos
		e.yaw = yaw
	}
}

func (w *World) SetHidden(id types.EntityID, hidden bool) {
	if e, ok := w.entities[id]; ok {
		e.hidden = hidden
	}
}

func (w *World) SetLaser(tower types.EntityID, slot int, visible bool, from, to domain.Vec3) {
	if !visible {
		delete(w.lasers[tower], slot)
		return
	}
	if w.lasers[tower] == nil {
		w.lasers[tower] = make(map[int]Laser)
	}
	w.lasers[tower][slot] = Laser{From: from, To: to}
}

func (w *World) SubscribeMoves(id types.EntityID, cb func(types.EntityID, domain.Vec3)) domain.SubscriptionHandle {
	h := domain.SubscriptionHandle(w.handle())
	w.subs[h] = &moveSub{id: id, cb: cb}
	return h
}

func (w *World) Unsubscribe(h domain.SubscriptionHandle) {
	delete(w.subs, h)
}

// --- WeaponService ---

func (w *World) Spawn(owner types.EntityID, name, class string) (types.EntityID, bool) {
	if _, ok := w.weaponSpeeds[class]; !ok {
		return types.NilEntityID, false
	}
	e := w.spawn(enums.EntityKindWeapon, name, domain.Vec3{})
	w.weapons[e.id] = &weapon{owner: owner, class: class}
	return e.id, true
}

func (w *World) Remove(id types.EntityID) {
	if e, ok := w.entities[id]; ok && w.byName[e.name] == id {
		delete(w.byName, e.name)
	}
	delete(w.entities, id)
	delete(w.weapons, id)
}

func (w *World) Class(id types.EntityID) string {
	if wp, ok := w.weapons[id]; ok {
		return wp.class
	}
	return ""
}

func (w *World) ProjectileSpeed(id types.EntityID) (float64, bool) {
	wp, ok := w.weapons[id]
	if !ok {
		return 0, false
	}
	return w.weaponSpeeds[wp.class], true
}

func (w *World) SetTransform(id types.EntityID, pos, dir domain.Vec3) {
	if wp, ok := w.weapons[id]; ok {
		wp.pos = pos
		wp.dir = dir
	}
}

func (w *World) SetDestination(id types.EntityID, pos domain.Vec3) {
	if wp, ok := w.weapons[id]; ok {
		wp.dest = pos
	}
}

// RefillClip - в песочнице обойма на один выстрел.
func (w *World) RefillClip(id types.EntityID) {
	if wp, ok := w.weapons[id]; ok {
		wp.ammo = 1
	}
}

// Fire - выстрел мгновенный: если точка попадания рядом с игроком, засчитывается
// попадание. Попадание пули слышно вокруг, отправитель - вышка.
func (w *World) Fire(id types.EntityID) {
	wp, ok := w.weapons[id]
	if !ok || wp.ammo <= 0 {
		return
	}
	wp.ammo--
	wp.shots++

	if t, ok := w.entities[w.target]; ok && w.boundsCenter(t).DistanceTo(wp.dest) <= hitRadius {
		w.targetHits++
		w.log.WithField("hits", w.targetHits).Debug("Target hit.")
	}

	w.EmitStimulus(domain.Stimulus{
		Type:   enums.StimulusBulletHit,
		Pos:    wp.dest,
		Radius: defaultBulletStimulusRadius,
		Threat: 1,
		Sender: wp.owner,
	})
}

// --- AudioService ---

func (w *World) Play(cue string, owner types.EntityID) {
	if cue == "" {
		return
	}
	w.audio = append(w.audio, cue)
	if len(w.audio) > recentAudioLimit {
		w.audio = w.audio[len(w.audio)-recentAudioLimit:]
	}
	w.log.WithFields(logrus.Fields{"cue": cue, "owner": owner.String()}).Debug("Audio play.")
}

func (w *World) Stop(cue string, owner types.EntityID) {
	if cue == "" {
		return
	}
	delete(w.offsets, audioKey{cue: cue, owner: owner})
	w.log.WithFields(logrus.Fields{"cue": cue, "owner": owner.String()}).Debug("Audio stop.")
}

// SetOffset двигает источник звука относительно владельца. Вызывается на
// каждом движении прицела, поэтому лог только на Trace.
func (w *World) SetOffset(cue string, owner types.EntityID, offset domain.Vec3) {
	if cue == "" {
		return
	}
	w.offsets[audioKey{cue: cue, owner: owner}] = offset
	w.log.WithFields(logrus.Fields{"cue": cue, "owner": owner.String(), "offset": offset}).Trace("Audio offset.")
}

// --- GroupAlertService ---

func (w *World) Members(groupID int) []domain.GroupMember {
	members := w.groups[groupID]
	out := make([]domain.GroupMember, 0, len(members))
	for _, a := range members {
		m := domain.GroupMember{ID: a.id, Active: a.active, Alertness: a.alertness}
		if a.attention != nil {
			m.HasAttention = true
			m.AttentionTarget = *a.attention
		}
		out = append(out, m)
	}
	return out
}

func (w *World) NotifyTargetSpotted(groupID int, id types.EntityID, pos domain.Vec3, radius float64) {
	if !w.AlertAlly(groupID, id, pos) {
		return
	}
	w.log.WithFields(logrus.Fields{
		"group":  groupID,
		"ally":   id.String(),
		"radius": radius,
	}).Debug("Ally notified: target spotted.")
}
