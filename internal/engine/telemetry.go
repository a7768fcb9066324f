package engine

import (
	"sort"
	"strconv"

	"sentry-server/internal/domain"
	"sentry-server/internal/sentry"
	"sentry-server/pkg/api"
)

// publish собирает телеметрию, сохраняет её для новых клиентов и рассылает
// подписчикам. Буферы событий и логов очищаются после сборки.
func (s *SentryService) publish() {
	update := s.buildUpdate()

	s.mu.Lock()
	s.update = update
	s.mu.Unlock()

	subscribers := s.Hub.SubscriberCount()
	s.Metrics.SetSubscribers(subscribers)
	if subscribers > 0 {
		s.Hub.Broadcast(update)
	}

	s.events = nil
	s.logs = nil
}

// buildUpdate - снимок всех вышек и цели на текущий тик.
func (s *SentryService) buildUpdate() api.ServerResponse {
	views := make([]api.TowerView, 0, len(s.order))
	for _, id := range s.order {
		t := s.towers[id]
		views = append(views, s.toTowerView(t))
	}

	resp := api.ServerResponse{
		Type:   "UPDATE",
		Tick:   s.tick,
		Time:   s.World.Now(),
		Towers: views,
		Events: append([]api.EventEntry(nil), s.events...),
		Audio:  s.World.RecentAudio(),
		Logs:   append([]api.LogEntry(nil), s.logs...),
	}

	if target := s.World.Target(); target != nil {
		resp.Target = &api.TargetView{
			ID:       strconv.FormatUint(uint64(target.ID), 10),
			Name:     target.Name,
			Position: toVec(target.Position),
			Stealth:  target.Stealth,
			Hits:     target.Hits,
		}
	}
	return resp
}

// toTowerView конвертирует состояние контроллера в DTO.
func (s *SentryService) toTowerView(t *Tower) api.TowerView {
	st := t.Controller.Status()

	view := api.TowerView{
		ID:           strconv.FormatUint(uint64(st.ID), 10),
		Name:         st.Name,
		State:        st.State,
		Enabled:      st.Enabled,
		Sleeping:     st.Sleeping,
		Position:     toVec(t.Controller.Position()),
		Aim:          toVec(st.Aim),
		LastKnown:    toVec(st.LastKnown),
		Awareness:    st.Awareness,
		AlertGroupID: st.AlertGroupID,
	}

	if st.BurstActive {
		view.Burst = toBurstView(st)
	}

	if off, ok := s.World.AudioOffset(t.Controller.Config().AudioBackground, st.ID); ok {
		v := toVec(off)
		view.AudioOffset = &v
	}

	lasers := s.World.Lasers(st.ID)
	slots := make([]int, 0, len(lasers))
	for slot := range lasers {
		slots = append(slots, slot)
	}
	sort.Ints(slots)
	for _, slot := range slots {
		l := lasers[slot]
		view.Lasers = append(view.Lasers, api.LaserView{Slot: slot, From: toVec(l.From), To: toVec(l.To)})
	}
	return view
}

func toBurstView(st sentry.Status) *api.BurstView {
	return &api.BurstView{
		ShotsFired:    st.ShotsFired,
		PreshotsFired: st.PreshotsFired,
		Dispersion:    st.Dispersion,
		EnabledSlots:  st.EnabledSlots,
	}
}

func toVec(v domain.Vec3) api.Vec {
	return api.Vec{X: v.X, Y: v.Y, Z: v.Z}
}
