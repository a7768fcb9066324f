package domain

import "math"

const (
	MaxWeaponSlots     = 3
	MaxAttachments     = 4
	MaxDetectionSounds = 3
)

// DetectionSoundConfig - одна реплика из последовательности "цель обнаружена".
type DetectionSoundConfig struct {
	Cue   string  `json:"cue"`
	Delay float64 `json:"delay"` // секунды от начала последовательности
}

// EnemyInViewParams - параметры состояния EnemyInView.
type EnemyInViewParams struct {
	TimeToFirstBurst          float64 `json:"timeToFirstBurst"`
	TimeToFirstBurstIfStealth float64 `json:"timeToFirstBurstIfStealth"`
	NumWarningBursts          int     `json:"numWarningBursts"`
	TimeBetweenWarningBursts  float64 `json:"timeBetweenWarningBursts"`
	ErrorAddedToWarningBursts float64 `json:"errorAddedToWarningBursts"`
	TimeBetweenBursts         float64 `json:"timeBetweenBursts"`
	FollowDelay               float64 `json:"followDelay"`
	TrackSpeed                float64 `json:"trackSpeed"`

	// Кулдаун, после которого последовательность звуков обнаружения можно проиграть снова.
	DetectionSoundSequenceCoolDownTime float64 `json:"detectionSoundSequenceCoolDownTime"`

	DetectionSounds [MaxDetectionSounds]DetectionSoundConfig `json:"detectionSounds"`
}

// EnemyLostParams - параметры состояния EnemyLost.
type EnemyLostParams struct {
	MaxDistSearch     float64 `json:"maxDistSearch"`
	TimeSearching     float64 `json:"timeSearching"`
	SearchSpeed       float64 `json:"searchSpeed"`
	TimeToFirstBurst  float64 `json:"timeToFirstBurst"`
	TimeBetweenBursts float64 `json:"timeBetweenBursts"`
	MinErrorShoot     float64 `json:"minErrorShoot"`
	MaxErrorShoot     float64 `json:"maxErrorShoot"`
}

// WeaponSpotConfig - точка крепления оружия относительно вышки.
type WeaponSpotConfig struct {
	Enabled bool `json:"enabled"`
	Offset  Vec3 `json:"offset"`
}

// AttachmentConfig - внешняя визуальная сущность (луч, объём тумана),
// которую вышка двигает вдоль линии взгляда.
type AttachmentConfig struct {
	LinkName       string  `json:"linkName"`
	DistFromTarget float64 `json:"distFromTarget"`
	RotationZ      float64 `json:"rotationZ"` // градусы
}

// BehaviorConfig - read-only параметры вышки. Заполняется один раз при
// загрузке/смене свойств и никогда не меняется симуляцией.
type BehaviorConfig struct {
	EnabledFromStart bool `json:"enabledFromStart"`
	CanDetectStealth bool `json:"canDetectStealth"`
	AlwaysSeeTarget  bool `json:"alwaysSeeTarget"`

	VisionFOV    float64 `json:"visionFov"` // градусы
	VisionRange  float64 `json:"visionRange"`
	HearingRange float64 `json:"hearingRange"`

	VisionPersistenceTime float64 `json:"visionPersistenceTime"`

	// Порог квадрата горизонтальной скорости цели, ниже которого предсказание не делается.
	MinTargetSpeedForPrediction float64 `json:"minTargetSpeedForPrediction"`
	MaxDistancePrediction       float64 `json:"maxDistancePrediction"`
	OffsetDistPrediction        float64 `json:"offsetDistPrediction"`

	AlertGroupID int `json:"alertGroupId"` // -1 = нет группы

	BurstDispersion         float64 `json:"burstDispersion"`
	TimeBetweenShotsInBurst float64 `json:"timeBetweenShotsInBurst"`
	PreshootTime            float64 `json:"preshootTime"`

	WeaponClass             string  `json:"weaponClass"`
	LaserBeamModel          string  `json:"laserBeamModel"`
	LaserBeamThicknessScale float64 `json:"laserBeamThicknessScale"`

	AudioBackground string `json:"audioBackground"`
	AudioShoot      string `json:"audioShoot"`
	AudioPreshoot   string `json:"audioPreshoot"`

	EnemyInView EnemyInViewParams `json:"enemyInView"`
	EnemyLost   EnemyLostParams   `json:"enemyLost"`

	WeaponSpots [MaxWeaponSlots]WeaponSpotConfig `json:"weaponSpots"`
	Attachments [MaxAttachments]AttachmentConfig `json:"attachments"`
}

// DefaultBehaviorConfig возвращает значения, которые используются, если ключ
// отсутствует в конфиге.
func DefaultBehaviorConfig() BehaviorConfig {
	return BehaviorConfig{
		EnabledFromStart:        true,
		CanDetectStealth:        false,
		AlwaysSeeTarget:         false,
		VisionFOV:               5,
		VisionRange:             1000,
		HearingRange:            200,
		AlertGroupID:            -1,
		BurstDispersion:         10,
		TimeBetweenShotsInBurst: 0.5,
		OffsetDistPrediction:    10,
		PreshootTime:            2,
		LaserBeamThicknessScale: 20,
		EnemyInView: EnemyInViewParams{
			TimeToFirstBurst:                   1.5,
			TimeToFirstBurstIfStealth:          1.5,
			NumWarningBursts:                   0,
			TimeBetweenWarningBursts:           5,
			ErrorAddedToWarningBursts:          10,
			TimeBetweenBursts:                  5,
			FollowDelay:                        1,
			TrackSpeed:                         3,
			DetectionSoundSequenceCoolDownTime: 20,
		},
		EnemyLost: EnemyLostParams{
			MaxDistSearch:     6,
			TimeSearching:     10,
			SearchSpeed:       3,
			TimeToFirstBurst:  1000,
			TimeBetweenBursts: 10,
			MinErrorShoot:     5,
			MaxErrorShoot:     15,
		},
	}
}

// VisionFOVCos - косинус угла FOV в том виде, в котором его ждёт сервис восприятия.
func (c BehaviorConfig) VisionFOVCos() float64 {
	return math.Cos(c.VisionFOV * math.Pi / 180)
}

// ActiveWeaponSpots возвращает включённые в конфиге точки оружия, упакованные
// в начало массива. Выключенные в конфиге точки в бёрсте не участвуют вообще.
func (c BehaviorConfig) ActiveWeaponSpots() []WeaponSpotConfig {
	out := make([]WeaponSpotConfig, 0, MaxWeaponSlots)
	for _, spot := range c.WeaponSpots {
		if spot.Enabled {
			out = append(out, spot)
		}
	}
	return out
}
