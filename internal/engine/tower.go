package engine

import (
	"math/rand"

	"sentry-server/internal/config"
	"sentry-server/internal/core/types"
	"sentry-server/internal/domain"
	"sentry-server/internal/sentry"
)

// Tower - вышка, которой владеет сервис: контроллер плюс её живые свойства.
type Tower struct {
	Def        config.TowerDef
	Props      *config.TowerProperties
	Controller *sentry.Controller
}

func newTower(index uint32, def config.TowerDef, w *World, svc domain.Services, seed int64) *Tower {
	id := w.AddTower(index, def)
	props := config.NewTowerProperties(def.Properties)

	ctrl := sentry.New(sentry.Params{
		ID:       id,
		Name:     def.Name,
		Position: def.Position,
		Props:    props,
		Services: svc,
		Rng:      rand.New(rand.NewSource(seed + int64(index))),
	})

	if def.IdleMovement != "" {
		if target, ok := w.EntityByName(def.IdleMovement); ok {
			ctrl.SetIdleMovementEntity(target)
		} else {
			w.log.WithField("tower", def.Name).WithField("entity", def.IdleMovement).
				Warn("Idle movement entity not found.")
		}
	}

	return &Tower{Def: def, Props: props, Controller: ctrl}
}

func (t *Tower) ID() types.EntityID { return t.Controller.ID() }
