package sentry

import (
	"github.com/sirupsen/logrus"

	"sentry-server/internal/core/types"
	"sentry-server/internal/domain"
	"sentry-server/internal/systems"
)

// minProjectileSpeed - ниже этой скорости время полёта считается нулевым.
const minProjectileSpeed = 1e-4

// weaponManager владеет единственным оружием вышки. Все слоты стреляют из него,
// перед выстрелом оно переставляется в позицию слота.
type weaponManager struct {
	svc   domain.WeaponService
	audio domain.AudioService
	owner types.EntityID
	name  string
	log   *logrus.Entry

	id      types.EntityID
	class   string
	shotCue string
}

// SetClass спавнит оружие нужного класса. Если класс сменился, старое удаляется.
func (w *weaponManager) SetClass(class string) {
	if !w.id.IsNil() && w.class == class {
		return
	}
	if !w.id.IsNil() {
		w.svc.Remove(w.id)
		w.id = types.NilEntityID
	}

	w.class = class
	if class == "" {
		return
	}

	id, ok := w.svc.Spawn(w.owner, w.name, class)
	if !ok {
		w.log.WithField("weapon_class", class).Warn("Weapon class not found, tower will not shoot.")
		return
	}
	w.id = id
}

// ID - handle оружия, NilEntityID если его нет.
func (w *weaponManager) ID() types.EntityID { return w.id }

// EstimateFlightTime - дистанция / скорость снаряда. 0, если оружия нет
// или снаряд практически стоит.
func (w *weaponManager) EstimateFlightTime(from, to domain.Vec3) float64 {
	if w.id.IsNil() {
		return 0
	}
	speed, ok := w.svc.ProjectileSpeed(w.id)
	if !ok || speed <= minProjectileSpeed {
		return 0
	}
	return from.DistanceTo(to) / speed
}

// Shoot стреляет из точки from в to. Обойма пополняется перед каждым выстрелом.
func (w *weaponManager) Shoot(from, to domain.Vec3) {
	if w.id.IsNil() {
		return
	}

	dir := to.Sub(from).Normalized()
	if dir == (domain.Vec3{}) {
		dir = domain.Vec3{Y: 1}
	}
	w.svc.SetTransform(w.id, from, dir)
	w.svc.SetDestination(w.id, to)
	w.svc.RefillClip(w.id)
	w.svc.Fire(w.id)
	w.audio.Play(w.shotCue, w.owner)
}

// burstHooks связывает планировщик очередей с вышкой.
type burstHooks struct {
	c *Controller
}

func (h burstHooks) EstimateFlightTime(from, to domain.Vec3) float64 {
	return h.c.weapon.EstimateFlightTime(from, to)
}

func (h burstHooks) PredictTarget(horizon float64) domain.Vec3 {
	return h.c.calcFutureTargetPos(horizon)
}

func (h burstHooks) ErrorPosition(base domain.Vec3, minDist, maxDist float64) domain.Vec3 {
	return systems.CalcErrorPosition(h.c.rng, base, minDist, maxDist)
}

func (h burstHooks) OnPreshoot(slot int, aim domain.Vec3, duration float64) {
	h.c.emit(domain.FlowEventPreshoot)
	h.c.showLaserTransform(slot, h.c.burst.Slot(slot))
}

func (h burstHooks) OnShoot(slot int, from, aim domain.Vec3) {
	h.c.emit(domain.FlowEventShoot)
	h.c.weapon.Shoot(from, aim)
}

// calcFutureTargetPos - упреждение от последней известной позиции цели.
func (c *Controller) calcFutureTargetPos(horizon float64) domain.Vec3 {
	target := c.vis.InView()
	if target.IsNil() {
		return c.lastSeen
	}
	vel, ok := c.svc.Entities.Velocity(target)
	if !ok {
		return c.lastSeen
	}
	fwd, _ := c.svc.Entities.ForwardDir(target)

	return systems.PredictPosition(c.lastSeen, vel, fwd, horizon, systems.PredictionParams{
		MinSpeedSq:    c.cfg.MinTargetSpeedForPrediction,
		MaxDistance:   c.cfg.MaxDistancePrediction,
		ForwardOffset: c.cfg.OffsetDistPrediction,
	})
}
