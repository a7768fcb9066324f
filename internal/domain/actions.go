package domain

import "strings"

// ActionType - внутренний числовой идентификатор управляющей команды вышки.
// Набор повторяет то, что движок дергает у вышки из скриптов.
type ActionType uint8

const (
	ActionUnknown ActionType = iota
	ActionEnable
	ActionDisable
	ActionSleep
	ActionWakeup
	ActionDisableWeaponSpot
	ActionSetAlertGroup
	ActionSetIdleMovement
	ActionReload
	ActionNoise

	// Отладочные команды песочницы
	ActionStealth
	ActionTeleport
)

// Маппинг для конвертации JSON -> Domain
var actionStringToCmd = map[string]ActionType{
	"ENABLE":              ActionEnable,
	"DISABLE":             ActionDisable,
	"SLEEP":               ActionSleep,
	"WAKEUP":              ActionWakeup,
	"DISABLE_WEAPON_SPOT": ActionDisableWeaponSpot,
	"SET_ALERT_GROUP":     ActionSetAlertGroup,
	"SET_IDLE_MOVEMENT":   ActionSetIdleMovement,
	"RELOAD":              ActionReload,
	"NOISE":               ActionNoise,
	"STEALTH":             ActionStealth,
	"TELEPORT":            ActionTeleport,
}

// Маппинг для логов Domain -> String
var actionCmdToString = map[ActionType]string{
	ActionEnable:            "ENABLE",
	ActionDisable:           "DISABLE",
	ActionSleep:             "SLEEP",
	ActionWakeup:            "WAKEUP",
	ActionDisableWeaponSpot: "DISABLE_WEAPON_SPOT",
	ActionSetAlertGroup:     "SET_ALERT_GROUP",
	ActionSetIdleMovement:   "SET_IDLE_MOVEMENT",
	ActionReload:            "RELOAD",
	ActionNoise:             "NOISE",
	ActionStealth:           "STEALTH",
	ActionTeleport:          "TELEPORT",
}

// ParseAction конвертирует строку из JSON в ActionType
func ParseAction(s string) ActionType {
	// Делаем нечувствительным к регистру для надежности
	upper := strings.ToUpper(s)
	if val, ok := actionStringToCmd[upper]; ok {
		return val
	}
	return ActionUnknown
}

// String реализует интерфейс Stringer (для fmt.Printf)
func (a ActionType) String() string {
	if val, ok := actionCmdToString[a]; ok {
		return val
	}
	return "UNKNOWN"
}

// IsWorldAction - команда адресована миру, а не конкретной вышке.
func (a ActionType) IsWorldAction() bool {
	return a == ActionNoise || a == ActionStealth || a == ActionTeleport
}
