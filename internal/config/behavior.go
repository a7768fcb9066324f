package config

import (
	"fmt"

	"sentry-server/internal/domain"
)

// ReadBehavior собирает BehaviorConfig из набора свойств. Начинает с
// DefaultBehaviorConfig и перезаписывает только то, что реально задано.
func ReadBehavior(p Properties) domain.BehaviorConfig {
	cfg := domain.DefaultBehaviorConfig()

	p.Bool("bEnabled", &cfg.EnabledFromStart)
	p.Bool("bCanDetectStealth", &cfg.CanDetectStealth)
	p.Bool("bAlwaysSeePlayer", &cfg.AlwaysSeeTarget)
	p.Float("visionFOV", &cfg.VisionFOV)
	p.Float("visionRange", &cfg.VisionRange)
	p.Float("hearingRange", &cfg.HearingRange)
	p.Float("visionPersistenceTime", &cfg.VisionPersistenceTime)
	p.Float("minPlayerSpeedForOffsetDistPrediction", &cfg.MinTargetSpeedForPrediction)
	p.Float("maxDistancePrediction", &cfg.MaxDistancePrediction)
	p.Int("alertAIGroupId", &cfg.AlertGroupID)
	p.Float("burstDispersion", &cfg.BurstDispersion)
	p.Float("timeBetweenShootsInABurst", &cfg.TimeBetweenShotsInBurst)
	p.Float("offsetDistPrediction", &cfg.OffsetDistPrediction)
	p.Float("preshootTime", &cfg.PreshootTime)

	p.String("weapon", &cfg.WeaponClass)
	p.String("objLaserBeamModel", &cfg.LaserBeamModel)
	p.String("audioBackground", &cfg.AudioBackground)
	p.String("audioShoot", &cfg.AudioShoot)
	p.String("audioPreshoot", &cfg.AudioPreshoot)
	p.Float("laserBeamThicknessScale", &cfg.LaserBeamThicknessScale)

	if view, ok := p.Table("behaviour.enemyInView"); ok {
		v := &cfg.EnemyInView
		view.Float("timeToFirstBurst", &v.TimeToFirstBurst)
		view.Float("timeToFirstBurstIfStealth", &v.TimeToFirstBurstIfStealth)
		view.Int("numWarningBursts", &v.NumWarningBursts)
		view.Float("timeBetweenWarningBursts", &v.TimeBetweenWarningBursts)
		view.Float("errorAddedToWarningBursts", &v.ErrorAddedToWarningBursts)
		view.Float("timeBetweenBursts", &v.TimeBetweenBursts)
		view.Float("followDelay", &v.FollowDelay)
		view.Float("trackSpeed", &v.TrackSpeed)
		view.Float("detectionSoundSequenceCoolDownTime", &v.DetectionSoundSequenceCoolDownTime)

		for i := 0; i < domain.MaxDetectionSounds; i++ {
			snd, ok := view.Table(fmt.Sprintf("audioDetection%d", i+1))
			if !ok {
				continue
			}
			// Пустое имя = звука нет
			v.DetectionSounds[i].Cue = ""
			snd.String("audio", &v.DetectionSounds[i].Cue)
			snd.Float("delay", &v.DetectionSounds[i].Delay)
		}
	}

	if lost, ok := p.Table("behaviour.enemyLost"); ok {
		l := &cfg.EnemyLost
		lost.Float("maxDistSearch", &l.MaxDistSearch)
		lost.Float("timeSearching", &l.TimeSearching)
		lost.Float("searchSpeed", &l.SearchSpeed)
		lost.Float("timeToFirstBurst", &l.TimeToFirstBurst)
		lost.Float("timeBetweenBursts", &l.TimeBetweenBursts)
		lost.Float("minErrorShoot", &l.MinErrorShoot)
		lost.Float("maxErrorShoot", &l.MaxErrorShoot)
	}

	for i := 0; i < domain.MaxWeaponSlots; i++ {
		spot, ok := p.Table(fmt.Sprintf("weaponSpots.spot%d", i+1))
		if !ok {
			continue
		}
		spot.Bool("bEnabled", &cfg.WeaponSpots[i].Enabled)
		spot.Vec3("vOffset", &cfg.WeaponSpots[i].Offset)
	}

	for i := 0; i < domain.MaxAttachments; i++ {
		att, ok := p.Table(fmt.Sprintf("attachments.attachment%d", i+1))
		if !ok {
			continue
		}
		att.String("linkName", &cfg.Attachments[i].LinkName)
		att.Float("distFromTarget", &cfg.Attachments[i].DistFromTarget)
		att.Float("rotationZ", &cfg.Attachments[i].RotationZ)
	}

	return cfg
}

// TowerProperties - живой набор свойств одной вышки. Вышка перечитывает его
// при Reset и после OnPropertyChange.
type TowerProperties struct {
	props Properties
}

func NewTowerProperties(p Properties) *TowerProperties {
	if p == nil {
		p = Properties{}
	}
	return &TowerProperties{props: p.Clone()}
}

// Behavior реализует источник конфига для контроллера вышки.
func (t *TowerProperties) Behavior() domain.BehaviorConfig {
	return ReadBehavior(t.props)
}

// Apply применяет переопределения вида {"behaviour.enemyLost.searchSpeed": 5}.
func (t *TowerProperties) Apply(overrides map[string]any) {
	for path, v := range overrides {
		t.props.Set(path, v)
	}
}
