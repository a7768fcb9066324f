package sentry

import (
	"github.com/sirupsen/logrus"

	"sentry-server/internal/core/types/enums"
	"sentry-server/internal/domain"
)

const (
	alertGroupCheckInterval = 10.0
	groupSpottedRadius      = 100.0

	// alertGroupMinDist - новая цель группы должна отстоять от прошлой хотя бы на столько.
	alertGroupMinDist = 5.0

	// minStimulusThreat - более слабые раздражители вышка игнорирует.
	minStimulusThreat = 1.0
)

// checkAlertGroup раз в 10 секунд опрашивает AI-группу: если кто-то из живых
// союзников встревожен и смотрит на новую точку, вышка идёт её проверить.
func (c *Controller) checkAlertGroup(dt float64) {
	if c.alertGroupID == -1 || c.sleeping {
		return
	}

	c.timeToCheckGroup -= dt
	if c.timeToCheckGroup > 0 {
		return
	}
	c.timeToCheckGroup = alertGroupCheckInterval

	for _, m := range c.svc.Groups.Members(c.alertGroupID) {
		if !m.Active || m.Alertness <= 0 || !m.HasAttention {
			continue
		}
		if c.lastAlertPos.DistanceSq2D(m.AttentionTarget) > alertGroupMinDist*alertGroupMinDist {
			c.lastAlertPos = m.AttentionTarget
			c.log.WithFields(logrus.Fields{
				"group": c.alertGroupID,
				"ally":  m.ID.String(),
			}).Debug("Alerted by AI group.")
			c.TargetDetectedIndirectly(m.AttentionTarget)
			break
		}
	}
}

// notifyGroupTargetSpotted сообщает первому члену группы, где цель.
// Вышка сама не AI-объект, поэтому достаточно одного союзника.
func (c *Controller) notifyGroupTargetSpotted() {
	if c.alertGroupID == -1 {
		return
	}
	members := c.svc.Groups.Members(c.alertGroupID)
	if len(members) == 0 {
		return
	}
	c.svc.Groups.NotifyTargetSpotted(c.alertGroupID, members[0].ID, c.lastSeen, groupSpottedRadius)
}

// onStimulus - callback сервиса раздражителей. Фильтрует и откладывает до тика.
func (c *Controller) onStimulus(s domain.Stimulus) {
	if !c.enabled || c.sleeping {
		return
	}
	if s.Threat < minStimulusThreat {
		return
	}

	client := c.svc.Entities.ClientActor()
	if client.IsNil() {
		return
	}
	// Шум от кого-то кроме игрока не интересен. Sender 0 - источник неизвестен.
	if !s.Sender.IsNil() && s.Sender != client {
		return
	}

	if c.pos.DistanceSq2D(s.Pos) > c.cfg.HearingRange*c.cfg.HearingRange {
		return
	}

	c.pendingNoise = true
	c.pendingNoisePos = s.Pos
}

// TargetDetectedIndirectly - цель услышана или о ней сообщила группа.
// Из Idle вышка сразу прыгает прожектором в точку и начинает поиск, минуя
// EnemyInView. В EnemyLost поиск перезапускается от новой точки.
func (c *Controller) TargetDetectedIndirectly(pos domain.Vec3) {
	if !c.enabled {
		return
	}

	switch c.state {
	case enums.SentryStateIdle:
		c.lastSeen = pos
		c.setState(enums.SentryStateEnemyLost)
		c.aim.Stop()
		c.lookAt(c.lastSeen)
		c.emit(domain.FlowEventSoundHeard)

	case enums.SentryStateEnemyLost:
		c.lastSeen = pos
		c.timeSinceLost = 0
		c.startMove(c.lastSeen, c.cfg.EnemyLost.SearchSpeed, true)
	}
}
