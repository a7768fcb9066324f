package actions

import (
	"fmt"

	"sentry-server/internal/core/types"
	"sentry-server/internal/core/types/enums"
	"sentry-server/internal/domain"
	"sentry-server/internal/engine/handlers"
	"sentry-server/pkg/api"
)

// HandleNoise поднимает раздражитель в мире. Адресат команды роли не играет:
// шум слышат все вышки в радиусе.
func HandleNoise(ctx handlers.Context, p api.NoisePayload) (handlers.Result, error) {
	kind := enums.StimulusSound
	if p.Type != "" {
		kind = enums.ParseStimulusType(p.Type)
	}

	sender := types.NilEntityID
	if p.FromTarget {
		sender = ctx.World.ClientActor()
	}

	heard := ctx.World.EmitStimulus(domain.Stimulus{
		Type:   kind,
		Pos:    domain.Vec3{X: p.X, Y: p.Y, Z: p.Z},
		Radius: p.Radius,
		Threat: p.Threat,
		Sender: sender,
	})
	return handlers.Info(fmt.Sprintf("%s at (%.1f, %.1f, %.1f) heard by %d listeners.", kind, p.X, p.Y, p.Z, heard)), nil
}
