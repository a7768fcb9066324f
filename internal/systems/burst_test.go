package systems

import (
	"math"
	"testing"

	"sentry-server/internal/domain"
)

type burstEvent struct {
	kind       string
	slot       int
	dispersion float64
	duration   float64
}

// recordingHooks пишет всё, что просит планировщик, и не вносит случайности.
type recordingHooks struct {
	events     []burstEvent
	flightTime float64
	predicted  Vec3
	lastMax    float64
	horizons   []float64
}

func (h *recordingHooks) EstimateFlightTime(from, to Vec3) float64 { return h.flightTime }

func (h *recordingHooks) PredictTarget(horizon float64) Vec3 {
	h.horizons = append(h.horizons, horizon)
	return h.predicted
}

func (h *recordingHooks) ErrorPosition(base Vec3, minDist, maxDist float64) Vec3 {
	h.lastMax = maxDist
	return base.Add(Vec3{X: maxDist})
}

func (h *recordingHooks) OnPreshoot(slot int, aim Vec3, duration float64) {
	h.events = append(h.events, burstEvent{kind: "preshoot", slot: slot, dispersion: h.lastMax, duration: duration})
}

func (h *recordingHooks) OnShoot(slot int, from, aim Vec3) {
	h.events = append(h.events, burstEvent{kind: "shoot", slot: slot})
}

func (h *recordingHooks) count(kind string) int {
	n := 0
	for _, e := range h.events {
		if e.kind == kind {
			n++
		}
	}
	return n
}

func threeSpots() []domain.WeaponSpotConfig {
	return []domain.WeaponSpotConfig{
		{Enabled: true, Offset: Vec3{X: -1}},
		{Enabled: true, Offset: Vec3{X: 0}},
		{Enabled: true, Offset: Vec3{X: 1}},
	}
}

func runBurst(s *BurstScheduler, h *recordingHooks, dt float64, maxTicks int) int {
	ticks := 0
	for s.IsActive() && ticks < maxTicks {
		s.Update(dt, Vec3{}, h)
		ticks++
	}
	return ticks
}

func TestBurstScheduler_Completion(t *testing.T) {
	s := &BurstScheduler{}
	s.Configure(Vec3{Z: 10}, threeSpots(), 2, 0.5)

	if !s.StartBurst(5, 15, false) {
		t.Fatal("expected burst to start")
	}
	if st := s.State(); st.DispersionStep != 5 || st.CurrentDispersion != 15 {
		t.Fatalf("unexpected initial dispersion: step=%v curr=%v", st.DispersionStep, st.CurrentDispersion)
	}

	h := &recordingHooks{}
	runBurst(s, h, 0.1, 1000)

	if s.IsActive() {
		t.Fatal("burst never finished")
	}
	if got := h.count("preshoot"); got != 3 {
		t.Errorf("expected 3 preshoots, got %d", got)
	}
	if got := h.count("shoot"); got != 3 {
		t.Errorf("expected 3 shoots, got %d", got)
	}

	var dispersions []float64
	for _, e := range h.events {
		if e.kind == "preshoot" {
			dispersions = append(dispersions, e.dispersion)
		}
	}
	want := []float64{15, 10, 5}
	for i := range want {
		if dispersions[i] != want[i] {
			t.Errorf("preshoot %d: dispersion %v, want %v", i, dispersions[i], want[i])
		}
	}
	if s.State().CurrentDispersion != 0 {
		t.Errorf("expected dispersion floored at 0, got %v", s.State().CurrentDispersion)
	}
}

func TestBurstScheduler_SlotOrderAndStagger(t *testing.T) {
	s := &BurstScheduler{}
	s.Configure(Vec3{}, threeSpots(), 1, 0.5)
	s.StartBurst(0, 10, false)

	h := &recordingHooks{}
	runBurst(s, h, 0.25, 1000)

	// Первый preshoot сразу, выстрел слота 0 только через preshootTime.
	if h.events[0].kind != "preshoot" || h.events[0].slot != 0 {
		t.Fatalf("expected first event preshoot #0, got %+v", h.events[0])
	}

	next := map[string]int{}
	seenPreshoot := map[int]bool{}
	for _, e := range h.events {
		if e.slot != next[e.kind] {
			t.Errorf("%s out of order: got slot %d, want %d", e.kind, e.slot, next[e.kind])
		}
		next[e.kind]++
		if e.kind == "preshoot" {
			seenPreshoot[e.slot] = true
		}
		if e.kind == "shoot" && !seenPreshoot[e.slot] {
			t.Errorf("shot for slot %d before its preshoot", e.slot)
		}
	}
}

func TestBurstScheduler_NoEnabledSlots(t *testing.T) {
	s := &BurstScheduler{}
	s.Configure(Vec3{}, nil, 2, 0.5)

	if s.StartBurst(0, 10, true) {
		t.Fatal("burst must not start without slots")
	}
	h := &recordingHooks{}
	s.Update(1, Vec3{}, h)
	if len(h.events) != 0 {
		t.Errorf("expected no events, got %d", len(h.events))
	}

	s.Configure(Vec3{}, threeSpots(), 2, 0.5)
	for i := 0; i < 3; i++ {
		s.DisableSlot(i)
	}
	if s.StartBurst(0, 10, true) {
		t.Error("burst must not start when every slot is disabled")
	}
}

func TestBurstScheduler_DisabledSlotSkipped(t *testing.T) {
	s := &BurstScheduler{}
	s.Configure(Vec3{}, threeSpots(), 1, 0.5)
	if !s.DisableSlot(1) {
		t.Fatal("expected slot 1 to be disableable")
	}
	s.DisableSlot(1) // повторный вызов не должен менять счётчик
	if s.EnabledCount() != 2 {
		t.Fatalf("expected 2 enabled slots, got %d", s.EnabledCount())
	}
	if s.DisableSlot(5) {
		t.Error("out-of-range slot must be rejected")
	}

	s.StartBurst(4, 8, false)
	if st := s.State(); st.DispersionStep != 4 || st.CurrentDispersion != 8 {
		t.Fatalf("unexpected dispersion for 2 slots: %+v", st)
	}

	h := &recordingHooks{}
	runBurst(s, h, 0.1, 1000)

	if h.count("preshoot") != 2 || h.count("shoot") != 2 {
		t.Fatalf("expected 2 preshoots and 2 shoots, got %+v", h.events)
	}
	for _, e := range h.events {
		if e.slot == 1 {
			t.Errorf("disabled slot fired: %+v", e)
		}
	}
	if s.IsActive() {
		t.Error("burst must finish despite the disabled slot")
	}

	s.RestoreSlots()
	if s.EnabledCount() != 3 {
		t.Errorf("expected slots restored, got %d", s.EnabledCount())
	}
}

func TestBurstScheduler_PredictionHorizon(t *testing.T) {
	s := &BurstScheduler{}
	s.Configure(Vec3{}, threeSpots()[:1], 2, 0.5)
	s.StartBurst(0, 0, true)

	h := &recordingHooks{flightTime: 0.75, predicted: Vec3{X: 40}}
	s.Update(0.1, Vec3{X: 1}, h)

	if len(h.horizons) != 1 || math.Abs(h.horizons[0]-2.75) > 1e-9 {
		t.Fatalf("expected prediction horizon 2.75, got %v", h.horizons)
	}
	slot := s.Slot(0)
	if !slot.LaserActive || math.Abs(slot.LaserTimeLeft-2.75) > 1e-9 {
		t.Errorf("expected laser active for 2.75s, got %+v", slot)
	}
	if slot.PendingTarget != (Vec3{X: 40}) {
		t.Errorf("expected aim at predicted position, got %+v", slot.PendingTarget)
	}
}

func TestBurstScheduler_Lasers(t *testing.T) {
	s := &BurstScheduler{}
	s.Configure(Vec3{}, threeSpots(), 1, 0.5)
	s.StartBurst(0, 0, false)

	h := &recordingHooks{}
	s.Update(0.1, Vec3{}, h)

	var off []int
	s.UpdateLasers(0.5, func(slot int) { off = append(off, slot) })
	if len(off) != 0 {
		t.Fatalf("laser expired too early: %v", off)
	}
	s.UpdateLasers(0.6, func(slot int) { off = append(off, slot) })
	if len(off) != 1 || off[0] != 0 {
		t.Fatalf("expected laser 0 to expire, got %v", off)
	}

	s.Update(0.5, Vec3{}, h)
	off = off[:0]
	s.DisableLasers(func(slot int) { off = append(off, slot) })
	if len(off) != 1 || off[0] != 1 {
		t.Errorf("expected laser 1 to be turned off, got %v", off)
	}
}
