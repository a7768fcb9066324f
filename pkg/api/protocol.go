package api

import (
	"encoding/json"
)

// --- СЕРВЕР -> КЛИЕНТ ---

// ServerResponse это корневой объект, который сервер отправляет клиенту.
// Телеметрия уходит подписчикам раз в несколько тиков, ответы на команды сразу.
type ServerResponse struct {
	// Type тип сообщения: "INIT", "UPDATE" или "ERROR".
	Type string `json:"type"`

	// Tick номер тика симуляции.
	Tick int64 `json:"tick"`

	// Time время симуляции в секундах.
	Time float64 `json:"time"`

	// SessionID идентификатор websocket-сессии (приходит в INIT).
	SessionID string `json:"sessionId,omitempty"`

	// Towers состояние всех вышек.
	Towers []TowerView `json:"towers,omitempty"`

	// Target игрок, за которым следят вышки. Nil, если цели нет.
	Target *TargetView `json:"target,omitempty"`

	// Events события вышек с прошлой рассылки.
	Events []EventEntry `json:"events,omitempty"`

	// Audio последние проигранные звуки, от старых к новым.
	Audio []string `json:"audio,omitempty"`

	// Logs результаты команд с прошлой рассылки.
	Logs []LogEntry `json:"logs,omitempty"`

	// Error текст ошибки для Type == "ERROR".
	Error string `json:"error,omitempty"`
}

// Vec точка в мировых координатах.
type Vec struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// TowerView это DTO для одной вышки.
type TowerView struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	State    string `json:"state"` // IDLE, ENEMY_IN_VIEW, ENEMY_LOST
	Enabled  bool   `json:"enabled"`
	Sleeping bool   `json:"sleeping"`

	Position  Vec `json:"pos"`
	Aim       Vec `json:"aim"`
	LastKnown Vec `json:"lastKnown"`

	// Awareness 0 - цель никогда не видела, 1 - видела раньше, 2 - видит сейчас.
	Awareness    int `json:"awareness"`
	AlertGroupID int `json:"alertGroupId"`

	Burst *BurstView `json:"burst,omitempty"`

	// Lasers лазеры-предупреждения, горящие в этот момент.
	Lasers []LaserView `json:"lasers,omitempty"`

	// AudioOffset - смещение фонового звука вдоль луча прожектора.
	AudioOffset *Vec `json:"audioOffset,omitempty"`
}

// BurstView прогресс текущей очереди.
type BurstView struct {
	ShotsFired    int     `json:"shotsFired"`
	PreshotsFired int     `json:"preshotsFired"`
	Dispersion    float64 `json:"dispersion"`
	EnabledSlots  int     `json:"enabledSlots"`
}

// LaserView отрезок лазера от слота оружия до точки выстрела.
type LaserView struct {
	Slot int `json:"slot"`
	From Vec `json:"from"`
	To   Vec `json:"to"`
}

// TargetView это DTO для игрока.
type TargetView struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Position Vec    `json:"pos"`
	Stealth  bool   `json:"stealth"`
	Hits     int    `json:"hits"`
}

// EventEntry одно событие вышки (Burst, Shoot, PlayerDetected...).
type EventEntry struct {
	Tick  int64  `json:"tick"`
	Tower string `json:"tower"`
	Event string `json:"event"`
}

// LogEntry представляет одну запись в логе команд.
type LogEntry struct {
	ID        string `json:"id"`
	Text      string `json:"text"`
	Type      string `json:"type"`      // INFO, WARN, ERROR
	Timestamp int64  `json:"timestamp"` // Unix milliseconds
}

// --- КЛИЕНТ -> СЕРВЕР ---

// ClientCommand это корневой объект для всех сообщений от клиента к серверу.
type ClientCommand struct {
	// Tower имя вышки или её десятичный ID.
	Tower string `json:"tower"`

	// Action название действия: ENABLE, DISABLE, SLEEP, WAKEUP,
	// DISABLE_WEAPON_SPOT, SET_ALERT_GROUP, SET_IDLE_MOVEMENT, RELOAD, NOISE.
	Action string `json:"action"`

	// Payload JSON-объект с данными для действия. Его структура зависит от Action.
	Payload json.RawMessage `json:"payload,omitempty"`
}

// --- Payloads ---

// SpotPayload используется для DISABLE_WEAPON_SPOT.
type SpotPayload struct {
	Spot int `json:"spot"` // 0..2
}

// GroupPayload используется для SET_ALERT_GROUP. -1 отвязывает вышку от группы.
type GroupPayload struct {
	GroupID int `json:"groupId"`
}

// EntityPayload используется для SET_IDLE_MOVEMENT: имя маркера, за которым
// прожектор ходит в Idle. Пустое имя не допускается.
type EntityPayload struct {
	Entity string `json:"entity"`
}

// ReloadPayload используется для RELOAD: переопределения свойств вида
// {"behaviour.enemyLost.searchSpeed": 5}. Может быть пустым.
type ReloadPayload struct {
	Properties map[string]any `json:"properties"`
}

// NoisePayload используется для NOISE: раздражитель в точке.
type NoisePayload struct {
	Type   string  `json:"type,omitempty"` // SOUND (по умолчанию), BULLET_HIT, EXPLOSION
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Z      float64 `json:"z"`
	Radius float64 `json:"radius,omitempty"`
	Threat float64 `json:"threat"`
	// FromTarget - шум издаёт игрок. Иначе источник неизвестен.
	FromTarget bool `json:"fromTarget,omitempty"`
}

// StealthPayload используется для STEALTH (отладка): включает стелс игрока.
type StealthPayload struct {
	On bool `json:"on"`
}

// TeleportPayload используется для TELEPORT (отладка): { "x": 10, "y": 20, "z": 0 }.
// Hold останавливает маршрут игрока в новой точке.
type TeleportPayload struct {
	X    float64 `json:"x"`
	Y    float64 `json:"y"`
	Z    float64 `json:"z"`
	Hold bool    `json:"hold,omitempty"`
}
