package sentry

import (
	"sentry-server/internal/core/types/enums"
	"sentry-server/internal/domain"
)

// Snapshot - сохраняемое состояние вышки. State и позиция пишутся только для
// включённой вышки, у выключенной они не имеют смысла.
func (c *Controller) Snapshot() domain.SentrySnapshot {
	s := domain.SentrySnapshot{
		Tower:                  c.id,
		Enabled:                c.enabled,
		Sleeping:               c.sleeping,
		EnemyHasEverBeenInView: c.enemyEverSeen,
		IdleMovementEntity:     c.idleMovement,
		AlertGroupID:           int32(c.alertGroupID),
		State:                  enums.SentryStateIdle,
	}
	if c.enabled {
		s.State = c.state
		s.LastKnownPosition = c.lastSeen
	}
	return s
}

// Restore поднимает вышку из сейва. Всё остальное состояние пересоздаётся:
// вышка, которая была занята целью, продолжает её искать (EnemyLost) от
// последней известной точки.
func (c *Controller) Restore(s domain.SentrySnapshot) {
	c.Disable()

	c.idleMovement = s.IdleMovementEntity
	c.enemyEverSeen = s.EnemyHasEverBeenInView
	c.reloadPending = false
	c.pendingNoise = false
	c.pendingIdle = false

	if !s.Enabled {
		c.alertGroupID = int(s.AlertGroupID)
		return
	}

	c.readProperties()
	// Свойства перезаписали группу, а в сейве могла быть другая (SetAlertGroupID)
	c.alertGroupID = int(s.AlertGroupID)
	c.Enable()

	if s.Sleeping {
		c.Sleep()
		return
	}

	c.lastSeen = s.LastKnownPosition
	if s.State != enums.SentryStateIdle {
		c.setState(enums.SentryStateEnemyLost)
		c.aim.Stop()
		c.lookAt(c.lastSeen)
	}
	c.log.WithField("state", c.state.String()).Info("Tower restored from save.")
}
