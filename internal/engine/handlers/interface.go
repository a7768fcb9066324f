package handlers

import (
	"encoding/json"

	"sentry-server/internal/core/types"
	"sentry-server/internal/domain"
)

// TowerControl - то, что команды могут делать с вышкой.
// sentry.Controller реализует этот интерфейс.
type TowerControl interface {
	Name() string
	Enable()
	Disable()
	Sleep()
	Wakeup()
	DisableWeaponSpot(spot int)
	SetAlertGroupID(id int)
	SetIdleMovementEntity(id types.EntityID)
	OnPropertyChange()
}

// PropertyEditor - живые свойства вышки (RELOAD с переопределениями).
type PropertyEditor interface {
	Apply(overrides map[string]any)
}

// WorldControl - то, что команды могут делать с миром вокруг вышки.
type WorldControl interface {
	EntityByName(name string) (types.EntityID, bool)
	ClientActor() types.EntityID
	EmitStimulus(s domain.Stimulus) int
}

// AdminControl - отладочные рычаги песочницы (STEALTH, TELEPORT).
type AdminControl interface {
	SetTargetStealth(on bool)
	TeleportTarget(pos domain.Vec3, hold bool) bool
}

// Context передает хендлеру вышку и мир.
// Хендлер вызывается в горутине тика, между обновлениями вышек.
type Context struct {
	Tower TowerControl
	Props PropertyEditor
	World WorldControl
	Admin AdminControl
}

// Result - возвращает результат выполнения команды.
// Хендлер НЕ пишет в логи сервиса напрямую, он возвращает данные.
type Result struct {
	Msg     string // Текст лога
	MsgType string // Тип лога (INFO, WARN, ERROR)
}

// HandlerFunc - это контракт для любой команды (ENABLE, NOISE, etc).
type HandlerFunc func(ctx Context, payload json.RawMessage) (Result, error)

// EmptyResult - вспомогательная функция для пустого успешного ответа
func EmptyResult() Result {
	return Result{}
}

// Info - успешный результат с текстом для лога.
func Info(msg string) Result {
	return Result{Msg: msg, MsgType: "INFO"}
}
