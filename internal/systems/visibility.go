package systems

import "sentry-server/internal/core/types"

// TrackerInput - то, что вышка знает о цели на текущем тике.
// Выключенная вышка трекер не вызывает вовсе.
type TrackerInput struct {
	Sleeping bool

	// AlwaysSee - отладочный режим "вижу игрока всегда", в обход восприятия.
	AlwaysSee bool

	// ClientTarget - единственная цель вышки. NilEntityID, если игрока ещё нет.
	ClientTarget types.EntityID

	// RawInCone - последнее, что сообщила система восприятия через callback.
	RawInCone types.EntityID

	// TargetInvisible - цель в стелсе относительно позиции вышки.
	TargetInvisible  bool
	CanDetectStealth bool

	PersistenceTime float64
	FrameTime       float64
}

// VisibilityTracker превращает сырой сигнал "цель в конусе" в стабильное
// "вышка видит цель". Сигнал держится ещё PersistenceTime секунд после
// потери, чтобы вышка не теряла цель при каждом мигании конуса.
type VisibilityTracker struct {
	inView          types.EntityID
	persistenceLeft float64
}

// Resolve вычисляет видимую цель для текущего тика.
// Единственный побочный эффект - обратный отсчёт persistence.
func (t *VisibilityTracker) Resolve(in TrackerInput) types.EntityID {
	if in.Sleeping {
		t.inView = types.NilEntityID
		return t.inView
	}

	// Игрока ещё нет: оставляем прошлое значение.
	if in.ClientTarget.IsNil() {
		return t.inView
	}

	if in.AlwaysSee {
		t.inView = in.ClientTarget
		return t.inView
	}

	t.inView = in.RawInCone

	if in.RawInCone.IsNil() {
		if t.persistenceLeft > 0 {
			t.persistenceLeft -= in.FrameTime
			t.inView = in.ClientTarget
		}
	} else {
		t.persistenceLeft = in.PersistenceTime
	}

	// Стелс перекрывает всё остальное
	if !t.inView.IsNil() && in.TargetInvisible && !in.CanDetectStealth {
		t.inView = types.NilEntityID
	}

	return t.inView
}

// InView - результат последнего Resolve.
func (t *VisibilityTracker) InView() types.EntityID {
	return t.inView
}

// PersistenceLeft - сколько секунд ещё держится потерянная цель.
func (t *VisibilityTracker) PersistenceLeft() float64 {
	return t.persistenceLeft
}

// Clear забывает цель (сон вышки), не трогая отсчёт.
func (t *VisibilityTracker) Clear() {
	t.inView = types.NilEntityID
}

// Reset полностью сбрасывает трекер (Enable).
func (t *VisibilityTracker) Reset() {
	t.inView = types.NilEntityID
	t.persistenceLeft = 0
}
