package domain

import "strings"

// FlowEvent - события, которые вышка отдаёт наружу (в flow graph движка,
// метрики и телеметрию).
type FlowEvent uint8

const (
	FlowEventUnknown FlowEvent = iota
	FlowEventBurst
	FlowEventPreshoot
	FlowEventShoot
	FlowEventPlayerDetected
	FlowEventPlayerLost
	FlowEventSoundHeard
)

var flowEventToString = map[FlowEvent]string{
	FlowEventBurst:          "Burst",
	FlowEventPreshoot:       "Preshoot",
	FlowEventShoot:          "Shoot",
	FlowEventPlayerDetected: "PlayerDetected",
	FlowEventPlayerLost:     "PlayerLost",
	FlowEventSoundHeard:     "SoundHeard",
}

var flowEventStringToType = map[string]FlowEvent{
	"BURST":          FlowEventBurst,
	"PRESHOOT":       FlowEventPreshoot,
	"SHOOT":          FlowEventShoot,
	"PLAYERDETECTED": FlowEventPlayerDetected,
	"PLAYERLOST":     FlowEventPlayerLost,
	"SOUNDHEARD":     FlowEventSoundHeard,
}

// ParseFlowEvent конвертирует имя выхода в FlowEvent (без учета регистра).
func ParseFlowEvent(s string) FlowEvent {
	if val, ok := flowEventStringToType[strings.ToUpper(s)]; ok {
		return val
	}
	return FlowEventUnknown
}

// String возвращает имя выхода flow graph.
func (e FlowEvent) String() string {
	if val, ok := flowEventToString[e]; ok {
		return val
	}
	return "Unknown"
}

// AllFlowEvents нужен метрикам, чтобы заранее создать серии.
func AllFlowEvents() []FlowEvent {
	return []FlowEvent{
		FlowEventBurst,
		FlowEventPreshoot,
		FlowEventShoot,
		FlowEventPlayerDetected,
		FlowEventPlayerLost,
		FlowEventSoundHeard,
	}
}
