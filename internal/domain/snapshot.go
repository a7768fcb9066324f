package domain

import (
	"sentry-server/internal/core/types"
	"sentry-server/internal/core/types/enums"
)

// SentrySnapshot - всё, что нужно сохранить, чтобы после загрузки вышка
// продолжила вести себя так же. Остальное состояние пересоздаётся из конфига.
type SentrySnapshot struct {
	Tower                  types.EntityID    `json:"tower"`
	Enabled                bool              `json:"enabled"`
	Sleeping               bool              `json:"sleeping"`
	EnemyHasEverBeenInView bool              `json:"enemyHasEverBeenInView"`
	State                  enums.SentryState `json:"state"`
	IdleMovementEntity     types.EntityID    `json:"idleMovementEntity"`
	AlertGroupID           int32             `json:"alertGroupId"`
	LastKnownPosition      Vec3              `json:"lastKnownPosition"`
}

// SaveSession - сейв всех вышек сервиса.
type SaveSession struct {
	Seed      int64            `json:"seed"`
	Timestamp int64            `json:"timestamp"`
	Towers    []SentrySnapshot `json:"towers"`
}
