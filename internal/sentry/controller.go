package sentry

import (
	"math"
	"math/rand"

	"github.com/sirupsen/logrus"

	"sentry-server/internal/core/types"
	"sentry-server/internal/core/types/enums"
	"sentry-server/internal/domain"
	"sentry-server/internal/systems"
	"sentry-server/pkg/logger"
)

// PropertySource - откуда вышка перечитывает свои свойства (Reset, OnPropertyChange, загрузка).
type PropertySource interface {
	Behavior() domain.BehaviorConfig
}

// Params - всё, что нужно для создания контроллера.
type Params struct {
	ID       types.EntityID
	Name     string
	Position domain.Vec3
	Props    PropertySource
	Services domain.Services
	Rng      *rand.Rand
}

type attachment struct {
	id   types.EntityID
	dist float64
	rotZ float64
}

type detectionSound struct {
	played     bool
	lastPlayed float64
}

// Controller - вышка с прожектором: следит за игроком, стреляет очередями,
// ищет потерянную цель и реагирует на шум и тревогу своей AI-группы.
//
// Контроллер не потокобезопасен: Update и все callback'и должны вызываться
// из одной горутины (тика движка).
type Controller struct {
	id    types.EntityID
	name  string
	pos   domain.Vec3
	props PropertySource
	svc   domain.Services
	rng   *rand.Rand
	log   *logrus.Entry

	cfg domain.BehaviorConfig

	enabled  bool
	sleeping bool
	state    enums.SentryState

	vis    systems.VisibilityTracker
	aim    systems.AimInterpolator
	burst  systems.BurstScheduler
	weapon weaponManager
	hooks  burstHooks

	rawInCone types.EntityID
	lastSeen  domain.Vec3

	idleMovement types.EntityID
	alertGroupID int
	lastAlertPos domain.Vec3

	observer domain.ObserverHandle
	listener domain.ListenerHandle
	idleSub  domain.SubscriptionHandle

	attachments [domain.MaxAttachments]attachment

	// таймеры состояний, секунды
	timeToNextBurst   float64
	timeToMove        float64
	timeSinceLost     float64
	timeToCheckGroup  float64
	timeToUnlockSound float64
	burstsInState     int

	detection        [domain.MaxDetectionSounds]detectionSound
	detectionArmed   bool
	detectionCounter float64

	enemyEverSeen bool

	// Отложенные события: callback'и только запоминают, Update применяет.
	reloadPending   bool
	pendingNoise    bool
	pendingNoisePos domain.Vec3
	pendingIdle     bool
	pendingIdlePos  domain.Vec3

	now float64
}

// New создаёт вышку и сразу делает Reset: свойства читаются, и если
// bEnabled, вышка включается.
func New(p Params) *Controller {
	rng := p.Rng
	if rng == nil {
		rng = rand.New(rand.NewSource(int64(p.ID)))
	}
	c := &Controller{
		id:           p.ID,
		name:         p.Name,
		pos:          p.Position,
		props:        p.Props,
		svc:          p.Services,
		rng:          rng,
		alertGroupID: -1,
		log: logger.Log.WithFields(logrus.Fields{
			"component": "sentry",
			"tower":     p.Name,
		}),
	}
	c.weapon = weaponManager{
		svc:   p.Services.Weapons,
		audio: p.Services.Audio,
		owner: p.ID,
		name:  p.Name + ".Weapon",
		log:   c.log,
	}
	c.hooks = burstHooks{c: c}
	c.Reset()
	return c
}

// Update - один тик симуляции. now - время начала кадра, dt - длительность кадра.
func (c *Controller) Update(now, dt float64) {
	c.now = now

	if c.reloadPending {
		c.reloadPending = false
		c.applyPropertyChange()
	}
	if !c.enabled {
		return
	}

	c.consumePending()
	c.updateTargetVisibility(dt)

	switch c.state {
	case enums.SentryStateIdle:
		c.updateIdle(dt)
	case enums.SentryStateEnemyInView:
		c.updateEnemyInView(dt)
	case enums.SentryStateEnemyLost:
		c.updateEnemyLost(dt)
	}
}

func (c *Controller) consumePending() {
	if c.pendingIdle {
		c.pendingIdle = false
		if c.state == enums.SentryStateIdle {
			c.lookAt(c.pendingIdlePos)
		}
	}
	if c.pendingNoise {
		c.pendingNoise = false
		if !c.sleeping {
			c.TargetDetectedIndirectly(c.pendingNoisePos)
		}
	}
}

func (c *Controller) updateTargetVisibility(dt float64) {
	client := c.svc.Entities.ClientActor()
	in := systems.TrackerInput{
		Sleeping:         c.sleeping,
		AlwaysSee:        c.cfg.AlwaysSeeTarget,
		ClientTarget:     client,
		RawInCone:        c.rawInCone,
		CanDetectStealth: c.cfg.CanDetectStealth,
		PersistenceTime:  c.cfg.VisionPersistenceTime,
		FrameTime:        dt,
	}
	if !client.IsNil() {
		in.TargetInvisible = c.svc.Entities.IsInvisibleFrom(client, c.pos)
	}
	c.vis.Resolve(in)
}

// --- Жизненный цикл ---

// Reset принудительно выключает вышку, перечитывает свойства и включает её,
// если так сказано в конфиге.
func (c *Controller) Reset() {
	c.disable(true)
	c.readProperties()
	if c.cfg.EnabledFromStart {
		c.Enable()
	}
}

// Enable включает вышку и сбрасывает всё runtime-состояние. Повторный вызов - no-op.
func (c *Controller) Enable() {
	if c.enabled {
		return
	}

	c.sleeping = false
	c.aim.Reset()
	c.lastSeen = domain.Vec3{}
	c.lastAlertPos = domain.Vec3{}
	c.detectionCounter = 0
	c.timeToCheckGroup = 0
	c.timeToUnlockSound = 0
	c.burst.RestoreSlots()
	c.vis.Reset()
	for i := range c.detection {
		c.detection[i] = detectionSound{lastPlayed: math.Inf(-1)}
	}

	c.setState(enums.SentryStateIdle)

	c.svc.Audio.Play(c.cfg.AudioBackground, c.id)
	c.lookAtEntity(c.idleMovement)
	c.subscribeIdleMovement()

	c.updateStimulusListener()
	c.enableVision()
	c.enabled = true

	c.updateAttachmentsVisibility()
	c.log.Debug("Tower enabled.")
}

// Disable выключает вышку. Идемпотентен: все подписки снимаются один раз.
func (c *Controller) Disable() {
	c.disable(false)
}

func (c *Controller) disable(force bool) {
	if !c.enabled && !force {
		return
	}

	c.disableLasers()
	c.burst.Cancel()

	if c.observer != 0 {
		c.svc.Perception.UnregisterObserver(c.observer)
		c.observer = 0
	}
	if c.listener != 0 {
		c.svc.Stimuli.UnregisterListener(c.listener)
		c.listener = 0
	}
	if c.idleSub != 0 {
		c.svc.Transform.Unsubscribe(c.idleSub)
		c.idleSub = 0
	}

	wasEnabled := c.enabled
	c.svc.Audio.Stop(c.cfg.AudioBackground, c.id)
	c.enabled = false
	c.rawInCone = types.NilEntityID
	c.vis.Clear()

	c.updateAttachmentsVisibility()
	if wasEnabled {
		c.log.Debug("Tower disabled.")
	}
}

// Sleep - вышка продолжает крутить прожектор по маршруту, но ни на что не реагирует.
func (c *Controller) Sleep() {
	c.sleeping = true
	c.vis.Clear()
	if c.state != enums.SentryStateIdle {
		c.setState(enums.SentryStateIdle)
	}
}

func (c *Controller) Wakeup() {
	c.sleeping = false
}

// OnPropertyChange помечает свойства как изменённые. Перечитываются на следующем тике.
func (c *Controller) OnPropertyChange() {
	c.reloadPending = true
}

func (c *Controller) applyPropertyChange() {
	c.readProperties()
	if c.cfg.EnabledFromStart {
		c.Enable()
		c.updateStimulusListener()
	} else {
		c.Disable()
	}
}

func (c *Controller) readProperties() {
	// Configure обнуляет слоты, поэтому горящие лазеры гасим до него
	c.disableLasers()

	if c.props != nil {
		c.cfg = c.props.Behavior()
	} else {
		c.cfg = domain.DefaultBehaviorConfig()
	}

	c.alertGroupID = c.cfg.AlertGroupID
	c.weapon.shotCue = c.cfg.AudioShoot
	c.weapon.SetClass(c.cfg.WeaponClass)
	c.burst.Configure(c.pos, c.cfg.ActiveWeaponSpots(), c.cfg.PreshootTime, c.cfg.TimeBetweenShotsInBurst)
	c.reloadAttachments()
}

func (c *Controller) enableVision() {
	c.rawInCone = types.NilEntityID
	c.vis.Clear()
	c.observer = c.svc.Perception.RegisterObserver(domain.ObserverParams{
		Name:       c.name + ".Vision",
		Owner:      c.id,
		EyePos:     c.pos,
		EyeDir:     c.eyeDir(),
		SightRange: c.cfg.VisionRange,
		FOVCos:     c.cfg.VisionFOVCos(),
	}, c.onVisibilityChanged)
}

func (c *Controller) updateStimulusListener() {
	if c.listener == 0 {
		c.listener = c.svc.Stimuli.RegisterListener(c.id, c.pos, c.cfg.HearingRange, enums.TowerStimulusMask, c.onStimulus)
		return
	}
	c.svc.Stimuli.UpdateListener(c.listener, c.pos, c.cfg.HearingRange)
}

// --- Внешние сеттеры ---

// SetIdleMovementEntity задаёт сущность, за которой прожектор ходит в Idle.
func (c *Controller) SetIdleMovementEntity(id types.EntityID) {
	if c.enabled && c.idleSub != 0 {
		c.svc.Transform.Unsubscribe(c.idleSub)
		c.idleSub = 0
	}

	c.idleMovement = id
	if c.enabled {
		c.subscribeIdleMovement()
		c.lookAtEntity(id)
	}
}

func (c *Controller) subscribeIdleMovement() {
	if c.idleMovement.IsNil() || c.idleSub != 0 {
		return
	}
	c.idleSub = c.svc.Transform.SubscribeMoves(c.idleMovement, c.onIdleMoved)
}

// SetAlertGroupID привязывает вышку к AI-группе. -1 - без группы.
func (c *Controller) SetAlertGroupID(id int) {
	c.alertGroupID = id
}

// DisableWeaponSpot выключает точку оружия до следующего Enable/Reset.
func (c *Controller) DisableWeaponSpot(spot int) {
	if !c.burst.DisableSlot(spot) {
		c.log.WithField("spot", spot).Warn("DisableWeaponSpot: spot out of range, ignored.")
		return
	}
	c.svc.Transform.SetLaser(c.id, spot, false, domain.Vec3{}, domain.Vec3{})
	c.log.WithFields(logrus.Fields{
		"spot":    spot,
		"enabled": c.burst.EnabledCount(),
	}).Info("Weapon spot disabled.")
}

// --- Callback'и сервисов (между тиками) ---

func (c *Controller) onVisibilityChanged(_ domain.ObserverHandle, observed types.EntityID, visible bool) {
	if !c.enabled {
		return
	}
	// Вышка работает только с игроком
	client := c.svc.Entities.ClientActor()
	if client.IsNil() || observed != client {
		return
	}
	if visible {
		c.rawInCone = observed
	} else {
		c.rawInCone = types.NilEntityID
	}
}

func (c *Controller) onIdleMoved(id types.EntityID, pos domain.Vec3) {
	if !c.enabled || id != c.idleMovement {
		return
	}
	c.pendingIdle = true
	c.pendingIdlePos = pos
}

// --- Прицел и зависимые трансформы ---

func (c *Controller) startMove(target domain.Vec3, speed float64, linear bool) {
	c.aim.StartMove(target, speed, linear, c.now)
}

func (c *Controller) updateMovement(dt float64) bool {
	pos, moved, justFinished := c.aim.Update(c.now, dt)
	if moved {
		c.lookAt(pos)
	}
	return justFinished
}

func (c *Controller) lookAtEntity(id types.EntityID) {
	if id.IsNil() {
		return
	}
	if pos, ok := c.svc.Entities.Position(id); ok {
		c.lookAt(pos)
	}
}

// lookAt мгновенно разворачивает вышку на pos и тянет за собой всё, что от
// этого зависит: слух, конус зрения, аттачменты, лазеры, позицию фонового звука.
func (c *Controller) lookAt(pos domain.Vec3) {
	c.svc.Transform.LookAt(c.id, pos)
	c.aim.Snap(pos)

	if c.listener != 0 {
		c.svc.Stimuli.UpdateListener(c.listener, c.pos, c.cfg.HearingRange)
	}
	if c.observer != 0 {
		c.svc.Perception.UpdateObserverDir(c.observer, c.eyeDir())
	}
	c.updateAttachmentsPos()
	c.updateLasersTransform()

	c.svc.Audio.SetOffset(c.cfg.AudioBackground, c.id, domain.Vec3{Y: pos.Sub(c.pos).Length()})
}

func (c *Controller) eyeDir() domain.Vec3 {
	dir := c.aim.Position().Sub(c.pos).Normalized()
	if dir == (domain.Vec3{}) {
		return domain.Vec3{Y: 1}
	}
	return dir
}

// heading - угол направления в градусах, от +Y по часовой.
func heading(dir domain.Vec3) float64 {
	return math.Atan2(dir.X, dir.Y) * 180 / math.Pi
}

func (c *Controller) reloadAttachments() {
	for i, a := range c.cfg.Attachments {
		c.attachments[i] = attachment{dist: a.DistFromTarget, rotZ: a.RotationZ}
		if a.LinkName == "" {
			continue
		}
		id := c.svc.Entities.LinkByName(c.id, a.LinkName)
		if id.IsNil() {
			c.log.WithFields(logrus.Fields{
				"slot": i + 1,
				"link": a.LinkName,
			}).Warn("Attachment link not found, skipped.")
			continue
		}
		c.attachments[i].id = id
	}
}

// updateAttachmentsPos ставит аттачменты на линию вышка-пятно, на расстоянии
// dist от пятна.
func (c *Controller) updateAttachmentsPos() {
	dir := c.aim.Position().Sub(c.pos)
	length := dir.Length()
	unit := dir.Normalized()
	yaw := heading(dir)

	for _, a := range c.attachments {
		if a.id.IsNil() {
			continue
		}
		world := c.pos.Add(unit.Scale(length - a.dist))
		c.svc.Transform.SetAttachment(a.id, world, yaw+a.rotZ)
	}
}

func (c *Controller) updateAttachmentsVisibility() {
	for _, a := range c.attachments {
		if !a.id.IsNil() {
			c.svc.Transform.SetHidden(a.id, !c.enabled)
		}
	}
}

// --- Лазеры ---

func (c *Controller) laserOff(slot int) {
	c.svc.Transform.SetLaser(c.id, slot, false, domain.Vec3{}, domain.Vec3{})
}

func (c *Controller) disableLasers() {
	c.burst.DisableLasers(c.laserOff)
}

func (c *Controller) updateLasers(dt float64) {
	c.burst.UpdateLasers(dt, c.laserOff)
}

func (c *Controller) updateLasersTransform() {
	c.burst.ActiveLasers(func(slot int, ws systems.WeaponSlot) {
		c.showLaserTransform(slot, ws)
	})
}

func (c *Controller) showLaserTransform(slot int, ws systems.WeaponSlot) {
	// Слишком короткий луч не рисуем
	if ws.PendingTarget.Sub(ws.Position).LengthSq() > 0.1 {
		c.svc.Transform.SetLaser(c.id, slot, true, ws.Position, ws.PendingTarget)
	}
}

// --- События наружу ---

func (c *Controller) emit(ev domain.FlowEvent) {
	c.log.WithField("event", ev.String()).Debug("Flow event.")
	c.svc.Flow.OnFlowEvent(c.id, ev)
}

// --- Геттеры ---

func (c *Controller) ID() types.EntityID { return c.id }

func (c *Controller) Name() string { return c.name }

func (c *Controller) Position() domain.Vec3 { return c.pos }

func (c *Controller) State() enums.SentryState { return c.state }

func (c *Controller) IsEnabled() bool { return c.enabled }

func (c *Controller) IsSleeping() bool { return c.sleeping }

// TargetInView - цель, которую вышка считает видимой на текущем тике.
func (c *Controller) TargetInView() types.EntityID { return c.vis.InView() }

func (c *Controller) LastKnownPosition() domain.Vec3 { return c.lastSeen }

func (c *Controller) AimPosition() domain.Vec3 { return c.aim.Position() }

func (c *Controller) AlertGroupID() int { return c.alertGroupID }

func (c *Controller) Config() domain.BehaviorConfig { return c.cfg }

func (c *Controller) BurstState() systems.BurstState { return c.burst.State() }

func (c *Controller) WeaponSlot(i int) systems.WeaponSlot { return c.burst.Slot(i) }

func (c *Controller) NumWeaponSlots() int { return c.burst.NumSlots() }

// AwarenessToTarget - насколько вышка "знает" об игроке: 2 - видит сейчас,
// 1 - когда-то видела, 0 - никогда.
func (c *Controller) AwarenessToTarget() int {
	if !c.enabled {
		return 0
	}
	if c.state == enums.SentryStateEnemyInView {
		return 2
	}
	if c.enemyEverSeen {
		return 1
	}
	return 0
}
