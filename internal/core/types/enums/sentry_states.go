package enums

import "strings"

// SentryState - состояние конечного автомата вышки.
// Значения сериализуются в сейв, поэтому порядок менять нельзя.
type SentryState uint8

const (
	SentryStateIdle        SentryState = iota // 0: обход по маршруту, цели нет
	SentryStateEnemyInView                    // 1: цель видна, слежение и стрельба
	SentryStateEnemyLost                      // 2: цель потеряна, поиск вокруг последней точки
)

var sentryStateToString = map[SentryState]string{
	SentryStateIdle:        "IDLE",
	SentryStateEnemyInView: "ENEMY_IN_VIEW",
	SentryStateEnemyLost:   "ENEMY_LOST",
}

var sentryStateStringToType = map[string]SentryState{
	"IDLE":          SentryStateIdle,
	"ENEMY_IN_VIEW": SentryStateEnemyInView,
	"ENEMY_LOST":    SentryStateEnemyLost,
}

// String возвращает строковое представление (для логов, метрик и телеметрии)
func (s SentryState) String() string {
	if val, ok := sentryStateToString[s]; ok {
		return val
	}
	return "UNKNOWN"
}

// ParseSentryState конвертирует строку в Enum. Неизвестное значение -> Idle.
func ParseSentryState(s string) SentryState {
	if val, ok := sentryStateStringToType[strings.ToUpper(s)]; ok {
		return val
	}
	return SentryStateIdle
}

// AllSentryStates перечисляет состояния в порядке объявления (для gauge-метрик).
func AllSentryStates() []SentryState {
	return []SentryState{SentryStateIdle, SentryStateEnemyInView, SentryStateEnemyLost}
}
