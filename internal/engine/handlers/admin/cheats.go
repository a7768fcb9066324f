package admin

import (
	"errors"
	"fmt"

	"sentry-server/internal/domain"
	"sentry-server/internal/engine/handlers"
	"sentry-server/pkg/api"
)

var ErrNoTarget = errors.New("no target in the world")

// Registry - отладочные команды песочницы. Адресата-вышки у них нет.
func Registry() map[domain.ActionType]handlers.HandlerFunc {
	return map[domain.ActionType]handlers.HandlerFunc{
		domain.ActionStealth:  handlers.WithPayload(HandleStealth),
		domain.ActionTeleport: handlers.WithPayload(HandleTeleport),
	}
}

// HandleStealth включает или выключает стелс игрока.
// Вышки без CanDetectStealth перестают его видеть со следующего тика.
func HandleStealth(ctx handlers.Context, p api.StealthPayload) (handlers.Result, error) {
	ctx.Admin.SetTargetStealth(p.On)

	status := "OFF"
	if p.On {
		status = "ON"
	}
	return handlers.Info(fmt.Sprintf("Target stealth toggled %s", status)), nil
}

// HandleTeleport переносит игрока в точку.
func HandleTeleport(ctx handlers.Context, p api.TeleportPayload) (handlers.Result, error) {
	pos := domain.Vec3{X: p.X, Y: p.Y, Z: p.Z}
	if !ctx.Admin.TeleportTarget(pos, p.Hold) {
		return handlers.Result{}, ErrNoTarget
	}
	return handlers.Info(fmt.Sprintf("Target teleported to (%.1f, %.1f, %.1f)", p.X, p.Y, p.Z)), nil
}
