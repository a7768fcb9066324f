package engine

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"sentry-server/internal/config"
	"sentry-server/internal/core/types"
	"sentry-server/internal/core/types/enums"
	"sentry-server/internal/domain"
	"sentry-server/internal/engine/handlers"
	"sentry-server/internal/engine/handlers/actions"
	"sentry-server/internal/engine/handlers/admin"
	"sentry-server/internal/infrastructure/storage"
	"sentry-server/internal/metrics"
	"sentry-server/internal/network"
	"sentry-server/internal/sentry"
	"sentry-server/pkg/api"
	"sentry-server/pkg/logger"
)

var (
	ErrUnknownAction = errors.New("unknown action")
	ErrUnknownTower  = errors.New("unknown tower")
	ErrQueueFull     = errors.New("command queue is full")
)

// SentryService владеет вышками и песочницей. Вся симуляция идёт в одной
// горутине (Run): тик мира, Update каждой вышки, применение команд между тиками.
// Остальные горутины (websocket, debug-роуты) видят только копии состояния.
type SentryService struct {
	cfg Config
	log *logrus.Entry

	World  *World
	towers map[types.EntityID]*Tower
	order  []types.EntityID
	byName map[string]types.EntityID

	CommandChan chan domain.InternalCommand
	Hub         *network.Broadcaster
	Metrics     *metrics.Collector
	Storage     *storage.SaveService

	handlers map[domain.ActionType]handlers.HandlerFunc

	// Только горутина тика
	tick   int64
	events []api.EventEntry
	logs   []api.LogEntry

	mu       sync.RWMutex
	statuses []sentry.Status
	lastTick int64
	configs  map[types.EntityID]domain.BehaviorConfig
	update   api.ServerResponse

	done chan struct{}
}

// NewService поднимает песочницу и вышки из конфига.
func NewService(cfg Config, f *config.File) *SentryService {
	if cfg.TickInterval <= 0 {
		cfg.TickInterval = NewConfig().TickInterval
	}
	if cfg.PublishEvery <= 0 {
		cfg.PublishEvery = 1
	}

	s := &SentryService{
		cfg:         cfg,
		log:         logger.Component("engine"),
		World:       NewWorld(f, rand.New(rand.NewSource(cfg.Seed))),
		towers:      make(map[types.EntityID]*Tower),
		byName:      make(map[string]types.EntityID),
		CommandChan: make(chan domain.InternalCommand, 100),
		Hub:         network.NewBroadcaster(),
		Metrics:     metrics.New(),
		handlers:    actions.Registry(),
		configs:     make(map[types.EntityID]domain.BehaviorConfig),
		done:        make(chan struct{}),
	}
	for action, h := range admin.Registry() {
		s.handlers[action] = h
	}
	if cfg.SaveDir != "" {
		s.Storage = storage.NewSaveService(cfg.SaveDir)
	}

	sink := &eventSink{s: s}
	svc := s.World.Services(sink, sink)
	for i, def := range f.Towers {
		t := newTower(uint32(i+1), def, s.World, svc, cfg.Seed)
		s.towers[t.ID()] = t
		s.order = append(s.order, t.ID())
		s.byName[def.Name] = t.ID()
		s.Metrics.SetTowerName(t.ID(), def.Name)
	}

	s.refresh()
	s.update = s.buildUpdate()
	s.log.WithFields(logrus.Fields{
		"towers": len(s.order),
		"seed":   cfg.Seed,
		"tick":   cfg.TickInterval.String(),
	}).Info("Sentry service created")
	return s
}

// Start запускает цикл симуляции в отдельной горутине.
func (s *SentryService) Start(ctx context.Context) {
	go s.Run(ctx)
}

// Done закрывается, когда цикл симуляции остановился.
func (s *SentryService) Done() <-chan struct{} {
	return s.done
}

// Run - цикл симуляции. Блокирует до отмены ctx.
func (s *SentryService) Run(ctx context.Context) {
	defer close(s.done)

	ticker := time.NewTicker(s.cfg.TickInterval)
	defer ticker.Stop()

	dt := s.cfg.TickInterval.Seconds()
	s.log.Info("Simulation loop started")

	for {
		select {
		case <-ctx.Done():
			s.log.Info("Simulation loop stopped")
			return
		case cmd := <-s.CommandChan:
			s.executeCommand(cmd)
		case <-ticker.C:
			s.Step(dt)
		}
	}
}

// Step - один тик: мир, затем вышки в порядке конфига.
func (s *SentryService) Step(dt float64) {
	start := time.Now()

	s.World.Step(dt)
	now := s.World.Now()
	for _, id := range s.order {
		s.towers[id].Controller.Update(now, dt)
	}
	s.tick++

	s.Metrics.ObserveTick(time.Since(start).Seconds())
	s.refresh()

	if s.tick%int64(s.cfg.PublishEvery) == 0 {
		s.publish()
	}
}

// refresh копирует состояние вышек для других горутин.
func (s *SentryService) refresh() {
	statuses := make([]sentry.Status, 0, len(s.order))
	counts := make(map[enums.SentryState]int)

	s.mu.Lock()
	for _, id := range s.order {
		c := s.towers[id].Controller
		statuses = append(statuses, c.Status())
		s.configs[id] = c.Config()
		if c.IsEnabled() {
			counts[c.State()]++
		}
	}
	s.statuses = statuses
	s.lastTick = s.tick
	s.mu.Unlock()

	s.Metrics.ObserveStates(counts)
}

// ProcessCommand принимает команду от внешнего мира (WebSocket).
// Вызывается из любой горутины, сама команда выполнится в горутине тика.
func (s *SentryService) ProcessCommand(cmd api.ClientCommand) error {
	action := domain.ParseAction(cmd.Action)
	if action == domain.ActionUnknown {
		s.Metrics.CommandResult(action, "unknown")
		return fmt.Errorf("%w: %s", ErrUnknownAction, cmd.Action)
	}

	tower, err := s.resolveTower(cmd.Tower)
	// Команды мира (шум, отладка) вышку не требуют
	if err != nil && !(action.IsWorldAction() && cmd.Tower == "") {
		s.Metrics.CommandResult(action, "rejected")
		return err
	}

	select {
	case s.CommandChan <- domain.InternalCommand{Action: action, Tower: tower, Payload: cmd.Payload}:
		return nil
	default:
		s.Metrics.CommandResult(action, "rejected")
		return ErrQueueFull
	}
}

// resolveTower принимает имя вышки или её десятичный id.
// byName и towers после NewService не меняются, поэтому читать можно из любой горутины.
func (s *SentryService) resolveTower(ref string) (types.EntityID, error) {
	if id, ok := s.byName[ref]; ok {
		return id, nil
	}
	if id, err := types.ParseEntityID(ref); err == nil {
		if _, ok := s.towers[id]; ok {
			return id, nil
		}
	}
	return types.NilEntityID, fmt.Errorf("%w: %q", ErrUnknownTower, ref)
}

// executeCommand выполняет хендлер и пишет логи
func (s *SentryService) executeCommand(cmd domain.InternalCommand) {
	handler, ok := s.handlers[cmd.Action]
	if !ok {
		s.Metrics.CommandResult(cmd.Action, "unknown")
		return
	}

	ctx := handlers.Context{World: s.World, Admin: s.World}
	towerName := "-"
	t, ok := s.towers[cmd.Tower]
	if ok {
		ctx.Tower = t.Controller
		ctx.Props = t.Props
		towerName = t.Def.Name
	}

	result, err := handler(ctx, cmd.Payload)
	if err != nil {
		s.Metrics.CommandResult(cmd.Action, "rejected")
		s.AddLog(fmt.Sprintf("%s %s: %v", cmd.Action, towerName, err), "ERROR")
		return
	}
	s.Metrics.CommandResult(cmd.Action, "ok")

	if result.Msg != "" {
		msgType := result.MsgType
		if msgType == "" {
			msgType = "INFO"
		}
		s.AddLog(result.Msg, msgType)
	}
}

// --- Чтение состояния из других горутин ---

// Statuses - состояние всех вышек на последний тик.
func (s *SentryService) Statuses() []sentry.Status {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]sentry.Status, len(s.statuses))
	copy(out, s.statuses)
	return out
}

// TowerStatus - состояние и конфиг одной вышки по имени или id.
func (s *SentryService) TowerStatus(ref string) (sentry.Status, domain.BehaviorConfig, error) {
	id, err := s.resolveTower(ref)
	if err != nil {
		return sentry.Status{}, domain.BehaviorConfig{}, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, st := range s.statuses {
		if st.ID == id {
			return st, s.configs[id], nil
		}
	}
	return sentry.Status{}, domain.BehaviorConfig{}, fmt.Errorf("%w: %q", ErrUnknownTower, ref)
}

// Snapshot - последняя собранная телеметрия (для INIT нового клиента).
func (s *SentryService) Snapshot() api.ServerResponse {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.update
}

// Tick - номер последнего тика.
func (s *SentryService) Tick() int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastTick
}
