package actions

import (
	"sentry-server/internal/domain"
	"sentry-server/internal/engine/handlers"
)

// Registry - таблица команд вышки. NOISE адресован миру, остальным нужна вышка.
func Registry() map[domain.ActionType]handlers.HandlerFunc {
	tower := handlers.RequireTower
	return map[domain.ActionType]handlers.HandlerFunc{
		domain.ActionEnable:            tower(handlers.WithEmptyPayload(HandleEnable)),
		domain.ActionDisable:           tower(handlers.WithEmptyPayload(HandleDisable)),
		domain.ActionSleep:             tower(handlers.WithEmptyPayload(HandleSleep)),
		domain.ActionWakeup:            tower(handlers.WithEmptyPayload(HandleWakeup)),
		domain.ActionReload:            tower(handlers.WithPayload(HandleReload)),
		domain.ActionDisableWeaponSpot: tower(handlers.WithPayload(HandleDisableWeaponSpot)),
		domain.ActionSetAlertGroup:     tower(handlers.WithPayload(HandleSetAlertGroup)),
		domain.ActionSetIdleMovement:   tower(handlers.WithPayload(HandleSetIdleMovement)),
		domain.ActionNoise:             handlers.WithPayload(HandleNoise),
	}
}
