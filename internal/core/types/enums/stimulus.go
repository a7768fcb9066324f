package enums

import "strings"

// StimulusType - тип внешнего раздражителя, на который подписывается вышка.
type StimulusType uint8

const (
	StimulusUnknown StimulusType = iota
	StimulusSound
	StimulusBulletHit
	StimulusExplosion
)

var stimulusToString = map[StimulusType]string{
	StimulusSound:     "SOUND",
	StimulusBulletHit: "BULLET_HIT",
	StimulusExplosion: "EXPLOSION",
}

var stimulusStringToType = map[string]StimulusType{
	"SOUND":      StimulusSound,
	"BULLET_HIT": StimulusBulletHit,
	"EXPLOSION":  StimulusExplosion,
}

func (s StimulusType) String() string {
	if val, ok := stimulusToString[s]; ok {
		return val
	}
	return "UNKNOWN"
}

// ParseStimulusType конвертирует строку из команды клиента в Enum.
func ParseStimulusType(s string) StimulusType {
	if val, ok := stimulusStringToType[strings.ToUpper(s)]; ok {
		return val
	}
	return StimulusUnknown
}

// Mask возвращает битовую маску для подписки на набор раздражителей.
func (s StimulusType) Mask() uint32 {
	return 1 << uint32(s)
}

// TowerStimulusMask - раздражители, которые слышит вышка.
var TowerStimulusMask = StimulusSound.Mask() | StimulusBulletHit.Mask() | StimulusExplosion.Mask()
