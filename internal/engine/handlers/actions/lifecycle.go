package actions

import (
	"fmt"

	"sentry-server/internal/engine/handlers"
	"sentry-server/pkg/api"
)

func HandleEnable(ctx handlers.Context) (handlers.Result, error) {
	ctx.Tower.Enable()
	return handlers.Info(fmt.Sprintf("%s enabled.", ctx.Tower.Name())), nil
}

func HandleDisable(ctx handlers.Context) (handlers.Result, error) {
	ctx.Tower.Disable()
	return handlers.Info(fmt.Sprintf("%s disabled.", ctx.Tower.Name())), nil
}

func HandleSleep(ctx handlers.Context) (handlers.Result, error) {
	ctx.Tower.Sleep()
	return handlers.Info(fmt.Sprintf("%s is sleeping.", ctx.Tower.Name())), nil
}

func HandleWakeup(ctx handlers.Context) (handlers.Result, error) {
	ctx.Tower.Wakeup()
	return handlers.Info(fmt.Sprintf("%s woke up.", ctx.Tower.Name())), nil
}

// HandleReload применяет переопределения свойств. Сами свойства вышка
// перечитает на следующем тике.
func HandleReload(ctx handlers.Context, p api.ReloadPayload) (handlers.Result, error) {
	if len(p.Properties) > 0 {
		if ctx.Props == nil {
			return handlers.EmptyResult(), fmt.Errorf("tower %s has no editable properties", ctx.Tower.Name())
		}
		ctx.Props.Apply(p.Properties)
	}
	ctx.Tower.OnPropertyChange()
	return handlers.Info(fmt.Sprintf("%s: %d properties changed, reload scheduled.", ctx.Tower.Name(), len(p.Properties))), nil
}
