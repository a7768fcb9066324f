package systems

import (
	"math"

	"sentry-server/internal/domain"
)

// WeaponSlot - одна точка крепления оружия вышки.
type WeaponSlot struct {
	Enabled  bool
	Position Vec3

	LaserActive   bool
	LaserTimeLeft float64

	// PendingTarget - точка, куда выстрелит слот. Считается на preshoot.
	PendingTarget Vec3
}

// BurstState - прогресс текущей очереди.
type BurstState struct {
	Active          bool
	ShotsFired      int
	PreshotsFired   int
	PredictMovement bool

	// Разброс линейно убывает от верхней границы к нижней за очередь.
	DispersionStep    float64
	CurrentDispersion float64

	TimeUntilNextShot    float64
	TimeUntilNextPreshot float64
}

// BurstHooks - то, что планировщик просит у владельца во время очереди.
type BurstHooks interface {
	// EstimateFlightTime - время полёта снаряда между точками, 0 если неизвестно.
	EstimateFlightTime(from, to Vec3) float64
	// PredictTarget - где будет цель через horizon секунд.
	PredictTarget(horizon float64) Vec3
	// ErrorPosition - случайная точка на расстоянии [minDist, maxDist] от base.
	ErrorPosition(base Vec3, minDist, maxDist float64) Vec3

	OnPreshoot(slot int, aim Vec3, duration float64)
	OnShoot(slot int, from, aim Vec3)
}

// BurstScheduler управляет слотами оружия и очередями: сначала лазер-предупреждение
// (preshoot) для слота, затем выстрел. Таймеры preshoot и выстрела независимы,
// поэтому предупреждения могут обгонять выстрелы.
type BurstScheduler struct {
	slots    [domain.MaxWeaponSlots]WeaponSlot
	numSlots int
	disabled int

	state BurstState

	preshootTime     float64
	timeBetweenShots float64
}

// Configure раскладывает включённые в конфиге точки по слотам. Вызывается при
// каждой перезагрузке свойств, всё runtime-состояние сбрасывается.
func (s *BurstScheduler) Configure(origin Vec3, spots []domain.WeaponSpotConfig, preshootTime, timeBetweenShots float64) {
	s.slots = [domain.MaxWeaponSlots]WeaponSlot{}
	s.numSlots = 0
	for _, spot := range spots {
		if s.numSlots >= domain.MaxWeaponSlots {
			break
		}
		s.slots[s.numSlots] = WeaponSlot{
			Enabled:  true,
			Position: origin.Add(spot.Offset),
		}
		s.numSlots++
	}
	s.disabled = 0
	s.state = BurstState{}
	s.preshootTime = preshootTime
	s.timeBetweenShots = timeBetweenShots
}

// RestoreSlots снова включает все настроенные слоты (Enable вышки).
func (s *BurstScheduler) RestoreSlots() {
	for i := 0; i < s.numSlots; i++ {
		s.slots[i].Enabled = true
	}
	s.disabled = 0
}

// NumSlots - сколько слотов настроено.
func (s *BurstScheduler) NumSlots() int { return s.numSlots }

// EnabledCount - сколько слотов реально стреляет.
func (s *BurstScheduler) EnabledCount() int { return s.numSlots - s.disabled }

func (s *BurstScheduler) Slot(i int) WeaponSlot { return s.slots[i] }

func (s *BurstScheduler) State() BurstState { return s.state }

func (s *BurstScheduler) IsActive() bool { return s.state.Active }

// StartBurst начинает очередь. Без рабочих слотов ничего не делает и
// возвращает false.
func (s *BurstScheduler) StartBurst(dispersionMin, dispersionMax float64, predict bool) bool {
	s.state.PredictMovement = predict

	n := s.EnabledCount()
	if n <= 0 {
		return false
	}

	step := (dispersionMax - dispersionMin) / float64(max(n-1, 1))
	s.state = BurstState{
		Active:               true,
		PredictMovement:      predict,
		TimeUntilNextShot:    s.preshootTime,
		TimeUntilNextPreshot: 0,
		DispersionStep:       step,
		CurrentDispersion:    dispersionMin + float64(n-1)*step,
	}
	return true
}

// Update продвигает таймеры очереди. lastSeen - последняя известная позиция цели.
func (s *BurstScheduler) Update(dt float64, lastSeen Vec3, hooks BurstHooks) {
	if !s.state.Active {
		return
	}
	st := &s.state

	// preshoot
	st.TimeUntilNextPreshot -= dt
	if st.PreshotsFired < s.numSlots && st.TimeUntilNextPreshot <= 0 {
		st.TimeUntilNextPreshot = s.timeBetweenShots
		i := st.PreshotsFired
		slot := &s.slots[i]
		if slot.Enabled {
			flight := hooks.EstimateFlightTime(slot.Position, lastSeen)
			eta := s.preshootTime + flight

			aim := lastSeen
			if st.PredictMovement {
				aim = hooks.PredictTarget(eta)
			}

			slot.PendingTarget = hooks.ErrorPosition(aim, st.CurrentDispersion/2, st.CurrentDispersion)
			st.CurrentDispersion = math.Max(st.CurrentDispersion-st.DispersionStep, 0)

			slot.LaserActive = true
			slot.LaserTimeLeft = eta
			hooks.OnPreshoot(i, slot.PendingTarget, eta)
		}
		st.PreshotsFired++
	}

	// shoot
	st.TimeUntilNextShot -= dt
	if st.TimeUntilNextShot <= 0 {
		st.TimeUntilNextShot = s.timeBetweenShots
		i := st.ShotsFired
		slot := &s.slots[i]
		if slot.Enabled {
			hooks.OnShoot(i, slot.Position, slot.PendingTarget)
		}
		st.ShotsFired++
		if st.ShotsFired >= s.numSlots {
			st.Active = false
		}
	}
}

// Cancel прерывает очередь (вход в любое состояние).
func (s *BurstScheduler) Cancel() {
	s.state.Active = false
}

// UpdateLasers гасит лазеры, у которых истекло время. off вызывается для
// каждого погашенного слота.
func (s *BurstScheduler) UpdateLasers(dt float64, off func(slot int)) {
	for i := 0; i < s.numSlots; i++ {
		slot := &s.slots[i]
		if !slot.LaserActive {
			continue
		}
		slot.LaserTimeLeft -= dt
		if slot.LaserTimeLeft <= 0 {
			slot.LaserActive = false
			if off != nil {
				off(i)
			}
		}
	}
}

// DisableLasers гасит все активные лазеры.
func (s *BurstScheduler) DisableLasers(off func(slot int)) {
	for i := 0; i < s.numSlots; i++ {
		if s.slots[i].LaserActive {
			s.slots[i].LaserActive = false
			if off != nil {
				off(i)
			}
		}
	}
}

// DisableSlot выключает слот навсегда (до перезагрузки конфига или Enable).
// false - индекс вне настроенных слотов.
func (s *BurstScheduler) DisableSlot(i int) bool {
	if i < 0 || i >= s.numSlots {
		return false
	}
	if s.slots[i].Enabled {
		s.slots[i].Enabled = false
		s.disabled++
	}
	s.slots[i].LaserActive = false
	return true
}

// ActiveLasers перечисляет слоты с горящим лазером.
func (s *BurstScheduler) ActiveLasers(fn func(slot int, ws WeaponSlot)) {
	for i := 0; i < s.numSlots; i++ {
		if s.slots[i].LaserActive {
			fn(i, s.slots[i])
		}
	}
}
