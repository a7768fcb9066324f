package enums

import "strings"

// EntityKind - вид сущности, упакованный в старшие биты EntityID.
type EntityKind uint8

const (
	EntityKindUnknown EntityKind = iota
	EntityKindTower
	EntityKindTarget
	EntityKindWeapon
	EntityKindAttachment
	EntityKindAlly
	EntityKindMarker
)

var entityKindToString = map[EntityKind]string{
	EntityKindTower:      "TOWER",
	EntityKindTarget:     "TARGET",
	EntityKindWeapon:     "WEAPON",
	EntityKindAttachment: "ATTACHMENT",
	EntityKindAlly:       "ALLY",
	EntityKindMarker:     "MARKER",
}

var entityKindStringToKind = map[string]EntityKind{
	"TOWER":      EntityKindTower,
	"TARGET":     EntityKindTarget,
	"WEAPON":     EntityKindWeapon,
	"ATTACHMENT": EntityKindAttachment,
	"ALLY":       EntityKindAlly,
	"MARKER":     EntityKindMarker,
}

// String возвращает строковое представление (для логов и дебага)
func (e EntityKind) String() string {
	if val, ok := entityKindToString[e]; ok {
		return val
	}
	return "UNKNOWN"
}

// ParseEntityKind конвертирует строку в Enum (нужно для загрузки конфигов)
func ParseEntityKind(s string) EntityKind {
	upper := strings.ToUpper(s)
	if val, ok := entityKindStringToKind[upper]; ok {
		return val
	}
	return EntityKindUnknown
}
