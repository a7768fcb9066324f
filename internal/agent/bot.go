package agent

import (
	"github.com/sirupsen/logrus"

	"sentry-server/internal/domain"
	"sentry-server/pkg/api"
	"sentry-server/pkg/logger"
)

// Hub - откуда бот получает телеметрию (network.Broadcaster).
type Hub interface {
	Register(sessionID string) chan api.ServerResponse
	Unregister(sessionID string)
}

// CommandSink - куда бот отправляет команды (engine.SentryService).
type CommandSink interface {
	ProcessCommand(cmd api.ClientCommand) error
}

// Bot - headless-клиент "тревожная цепочка". Подписывается на телеметрию
// так же, как обычная websocket-сессия, и когда любая вышка замечает игрока,
// будит все включённые спящие вышки.
//
// Жизненный цикл:
//  1. NewBot -> регистрация в хабе, получение личного канала (Inbox).
//  2. Run -> запуск в отдельной горутине, слушает свой Inbox.
//  3. Stop -> отписка. Inbox закрывается, Run завершается.
type Bot struct {
	SessionID string
	Inbox     chan api.ServerResponse

	hub      Hub
	commands CommandSink
	log      *logrus.Entry
}

func NewBot(sessionID string, hub Hub, commands CommandSink) *Bot {
	b := &Bot{
		SessionID: sessionID,
		Inbox:     hub.Register(sessionID),
		hub:       hub,
		commands:  commands,
		log:       logger.Component("relay_bot"),
	}
	b.log.WithField("session", sessionID).Info("Relay bot registered")
	return b
}

// Run запускает цикл жизни бота. Должен быть запущен в горутине.
func (b *Bot) Run() {
	for update := range b.Inbox {
		b.react(update)
	}
	b.log.Info("Relay bot shut down")
}

// Stop отписывает бота от хаба.
func (b *Bot) Stop() {
	b.hub.Unregister(b.SessionID)
}

// react - мозг бота. Возвращает, скольким вышкам отправлен WAKEUP.
func (b *Bot) react(update api.ServerResponse) int {
	spotter := ""
	for _, ev := range update.Events {
		if domain.ParseFlowEvent(ev.Event) == domain.FlowEventPlayerDetected {
			spotter = ev.Tower
			break
		}
	}
	if spotter == "" {
		return 0
	}

	woken := 0
	for _, t := range update.Towers {
		if !t.Enabled || !t.Sleeping {
			continue
		}
		err := b.commands.ProcessCommand(api.ClientCommand{Tower: t.ID, Action: domain.ActionWakeup.String()})
		if err != nil {
			b.log.WithError(err).WithField("tower", t.Name).Warn("Wakeup rejected")
			continue
		}
		woken++
	}

	if woken > 0 {
		b.log.WithFields(logrus.Fields{
			"spotter": spotter,
			"woken":   woken,
		}).Info("Player spotted, waking sleeping towers")
	}
	return woken
}
