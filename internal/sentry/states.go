package sentry

import (
	"github.com/sirupsen/logrus"

	"sentry-server/internal/core/types/enums"
	"sentry-server/internal/domain"
	"sentry-server/internal/systems"
)

// minTimeToRepeatDetectionSound - одна и та же реплика обнаружения не звучит чаще.
const minTimeToRepeatDetectionSound = 3.0

// setState - единственное место, где меняется состояние автомата.
func (c *Controller) setState(next enums.SentryState) {
	prev := c.state
	c.leavingState()
	c.state = next
	c.enteringState()

	c.log.WithFields(logrus.Fields{
		"from": prev.String(),
		"to":   next.String(),
	}).Debug("State transition.")
	if c.svc.States != nil {
		c.svc.States.OnStateChange(c.id, prev, next)
	}
}

func (c *Controller) leavingState() {
	switch c.state {
	case enums.SentryStateEnemyInView:
		c.timeToUnlockSound = c.cfg.EnemyInView.DetectionSoundSequenceCoolDownTime
		c.emit(domain.FlowEventPlayerLost)
	}
}

func (c *Controller) enteringState() {
	c.burstsInState = 0
	c.disableLasers()
	c.burst.Cancel()

	switch c.state {
	case enums.SentryStateIdle:
		c.aim.Stop()

	case enums.SentryStateEnemyInView:
		view := c.cfg.EnemyInView
		c.aim.Stop()
		c.timeToNextBurst = view.TimeToFirstBurst
		if client := c.svc.Entities.ClientActor(); !client.IsNil() && c.svc.Entities.IsInvisibleFrom(client, c.pos) {
			c.timeToNextBurst = view.TimeToFirstBurstIfStealth
		}
		c.timeToMove = 0

		c.detectionCounter = 0
		c.detectionArmed = c.timeToUnlockSound <= 0
		for i := range c.detection {
			c.detection[i].played = false
		}

		c.recalculateTargetPos()
		c.lookAt(c.lastSeen)
		c.emit(domain.FlowEventPlayerDetected)
		c.notifyGroupTargetSpotted()
		c.enemyEverSeen = true

	case enums.SentryStateEnemyLost:
		lost := c.cfg.EnemyLost
		c.timeToNextBurst = lost.TimeToFirstBurst
		c.startMove(c.lastSeen, lost.SearchSpeed, true)
		c.timeSinceLost = 0
	}
}

// --- Idle ---

func (c *Controller) updateIdle(dt float64) {
	c.timeToUnlockSound -= dt // уходить в минус можно
	if !c.vis.InView().IsNil() {
		c.setState(enums.SentryStateEnemyInView)
	}
	c.checkAlertGroup(dt)
}

// --- EnemyInView ---

func (c *Controller) updateEnemyInView(dt float64) {
	target := c.vis.InView()

	// Начатая очередь доигрывается даже без цели
	if target.IsNil() && !c.burst.IsActive() {
		c.setState(enums.SentryStateEnemyLost)
		return
	}

	if !target.IsNil() {
		c.playDetectionSounds(dt)
		c.recalculateTargetPos()
	}
	c.updateMovement(dt)
	c.burst.Update(dt, c.lastSeen, c.hooks)
	c.updateLasers(dt)

	view := c.cfg.EnemyInView

	// Не перенацеливаемся каждый тик, только раз в followDelay
	c.timeToMove -= dt
	if c.timeToMove <= 0 {
		c.startMove(c.lastSeen, view.TrackSpeed, true)
		c.timeToMove = view.FollowDelay
	}

	c.timeToNextBurst -= dt
	if c.timeToNextBurst <= 0 {
		dispersionMin := 0.0
		dispersionMax := c.cfg.BurstDispersion
		c.timeToNextBurst = view.TimeBetweenBursts

		// Первые очереди - предупредительные: шире и с другим интервалом
		if c.burstsInState < view.NumWarningBursts {
			dispersionMin += view.ErrorAddedToWarningBursts
			dispersionMax += view.ErrorAddedToWarningBursts
			c.timeToNextBurst = view.TimeBetweenWarningBursts
		}
		c.startBurst(dispersionMin, dispersionMax, true)
	}
}

// playDetectionSounds проигрывает последовательность реплик "цель обнаружена".
// Последовательность взводится при входе в EnemyInView, если прошёл кулдаун.
func (c *Controller) playDetectionSounds(dt float64) {
	if !c.detectionArmed {
		return
	}
	c.detectionCounter += dt

	for i, snd := range c.cfg.EnemyInView.DetectionSounds {
		st := &c.detection[i]
		if st.played || snd.Cue == "" {
			continue
		}
		if c.now-st.lastPlayed > minTimeToRepeatDetectionSound && c.detectionCounter >= snd.Delay {
			c.svc.Audio.Play(snd.Cue, c.id)
			st.lastPlayed = c.now
			st.played = true
		}
	}
}

func (c *Controller) recalculateTargetPos() {
	target := c.vis.InView()
	if target.IsNil() {
		return
	}
	if center, ok := c.svc.Entities.BoundsCenter(target); ok {
		c.lastSeen = center
	}
}

// --- EnemyLost ---

func (c *Controller) updateEnemyLost(dt float64) {
	if !c.vis.InView().IsNil() {
		c.setState(enums.SentryStateEnemyInView)
		return
	}

	c.timeToUnlockSound -= dt

	c.burst.Update(dt, c.lastSeen, c.hooks)
	c.updateLasers(dt)

	lost := c.cfg.EnemyLost

	// Поиск: случайные точки вокруг последней позиции, но не назад
	c.updateMovement(dt)
	if !c.aim.IsMoving() {
		next := systems.CalcErrorPositionOppositeCircle(c.rng, c.lastSeen, lost.MaxDistSearch, lost.MaxDistSearch, c.aim.Position())
		c.startMove(next, lost.SearchSpeed, false)
	}

	c.timeToNextBurst -= dt
	if c.timeToNextBurst <= 0 {
		c.timeToNextBurst = lost.TimeBetweenBursts
		c.startBurst(lost.MinErrorShoot, lost.MaxErrorShoot, false)
	}

	c.timeSinceLost += dt
	if c.timeSinceLost >= lost.TimeSearching {
		c.setState(enums.SentryStateIdle)
	}

	c.checkAlertGroup(dt)
}

// --- Очереди ---

func (c *Controller) startBurst(dispersionMin, dispersionMax float64, predict bool) {
	c.emit(domain.FlowEventBurst)
	c.burstsInState++
	if c.burst.StartBurst(dispersionMin, dispersionMax, predict) {
		c.svc.Audio.Play(c.cfg.AudioPreshoot, c.id)
	}
}
