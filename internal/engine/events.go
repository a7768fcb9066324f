package engine

import (
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"sentry-server/internal/core/types"
	"sentry-server/internal/core/types/enums"
	"sentry-server/internal/domain"
	"sentry-server/pkg/api"
)

// maxBufferedEntries - сколько событий и логов копим между рассылками.
// Без подписчиков буфер не растёт бесконечно.
const maxBufferedEntries = 256

// eventSink принимает события вышек и раздаёт их в метрики и телеметрию.
// Вызывается только из горутины тика.
type eventSink struct {
	s *SentryService
}

func (e *eventSink) OnFlowEvent(tower types.EntityID, ev domain.FlowEvent) {
	s := e.s
	s.Metrics.OnFlowEvent(tower, ev)

	s.events = appendBounded(s.events, api.EventEntry{
		Tick:  s.tick,
		Tower: s.towerName(tower),
		Event: ev.String(),
	})
}

func (e *eventSink) OnStateChange(tower types.EntityID, from, to enums.SentryState) {
	s := e.s
	s.Metrics.OnStateChange(tower, from, to)

	s.log.WithFields(logrus.Fields{
		"tower": s.towerName(tower),
		"from":  from.String(),
		"to":    to.String(),
	}).Debug("State changed")
}

// AddLog добавляет запись в лог сервиса. Записи уходят клиентам со следующей рассылкой.
func (s *SentryService) AddLog(text, logType string) {
	now := time.Now()
	s.logs = appendBounded(s.logs, api.LogEntry{
		ID:        fmt.Sprintf("%d_%d", s.tick, now.UnixNano()),
		Text:      text,
		Type:      logType,
		Timestamp: now.UnixMilli(),
	})
	s.log.WithFields(logrus.Fields{
		"component": "command_log",
		"log_type":  logType,
	}).Info(text)
}

func (s *SentryService) towerName(id types.EntityID) string {
	if t, ok := s.towers[id]; ok {
		return t.Def.Name
	}
	return id.String()
}

func appendBounded[T any](buf []T, v T) []T {
	buf = append(buf, v)
	if len(buf) > maxBufferedEntries {
		buf = buf[len(buf)-maxBufferedEntries:]
	}
	return buf
}
