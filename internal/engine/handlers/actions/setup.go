package actions

import (
	"fmt"

	"sentry-server/internal/engine/handlers"
	"sentry-server/pkg/api"
)

func HandleDisableWeaponSpot(ctx handlers.Context, p api.SpotPayload) (handlers.Result, error) {
	ctx.Tower.DisableWeaponSpot(p.Spot)
	return handlers.Info(fmt.Sprintf("%s: weapon spot %d disabled.", ctx.Tower.Name(), p.Spot)), nil
}

func HandleSetAlertGroup(ctx handlers.Context, p api.GroupPayload) (handlers.Result, error) {
	ctx.Tower.SetAlertGroupID(p.GroupID)
	return handlers.Info(fmt.Sprintf("%s: alert group set to %d.", ctx.Tower.Name(), p.GroupID)), nil
}

func HandleSetIdleMovement(ctx handlers.Context, p api.EntityPayload) (handlers.Result, error) {
	id, ok := ctx.World.EntityByName(p.Entity)
	if !ok {
		return handlers.EmptyResult(), fmt.Errorf("entity %q not found", p.Entity)
	}
	ctx.Tower.SetIdleMovementEntity(id)
	return handlers.Info(fmt.Sprintf("%s now follows %s.", ctx.Tower.Name(), p.Entity)), nil
}
