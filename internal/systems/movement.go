package systems

import (
	"math"

	"sentry-server/internal/domain"
)

const (
	// MinMoveDuration - нижняя граница длительности движения прицела.
	MinMoveDuration = 1e-6

	// SmoothFinishThreshold - насколько близко к 1.0 должен подойти
	// аккумулятор SmoothCD, чтобы движение считалось законченным.
	SmoothFinishThreshold = 0.05
)

// AimInterpolator ведёт точку прицела (пятно прожектора) от текущей позиции
// к цели, линейно или через критически демпфированную пружину.
type AimInterpolator struct {
	pos Vec3

	moving    bool
	linear    bool
	start     Vec3
	delta     Vec3
	target    Vec3
	startTime float64
	duration  float64

	smoothVal  float64
	smoothRate float64
}

// Vec3 локальный псевдоним, чтобы сигнатуры не пестрели domain.
type Vec3 = domain.Vec3

// Position - текущая точка прицела.
func (a *AimInterpolator) Position() Vec3 { return a.pos }

func (a *AimInterpolator) IsMoving() bool { return a.moving }

// IsLinear - текущее движение линейное, а не пружина SmoothCD.
func (a *AimInterpolator) IsLinear() bool { return a.linear }

// Duration - длительность текущего движения (debug-дамп вышки).
func (a *AimInterpolator) Duration() float64 { return a.duration }

// StartMove начинает движение из текущей позиции в target.
// Длительность считается по расстоянию в плоскости XY.
func (a *AimInterpolator) StartMove(target Vec3, speed float64, linear bool, now float64) {
	a.delta = target.Sub(a.pos)
	a.target = target
	a.start = a.pos
	a.startTime = now
	a.linear = linear
	a.smoothVal = 0
	a.smoothRate = 0
	a.moving = true

	a.duration = MinMoveDuration
	if speed > 0 {
		a.duration = math.Max(a.delta.Length2D()/speed, MinMoveDuration)
	}
}

// Update продвигает движение. moved = позиция изменилась на этом тике,
// justFinished = движение завершилось именно сейчас.
func (a *AimInterpolator) Update(now, dt float64) (pos Vec3, moved, justFinished bool) {
	if !a.moving {
		return a.pos, false, false
	}

	if a.linear {
		t := (now - a.startTime) / a.duration
		if t >= 1 {
			a.moving = false
			a.pos = a.target
			return a.pos, true, true
		}
		if t < 0 {
			t = 0
		}
		a.pos = a.start.Add(a.delta.Scale(t))
		return a.pos, true, false
	}

	a.smoothVal, a.smoothRate = SmoothCD(a.smoothVal, a.smoothRate, dt, 1, a.duration)
	a.pos = a.start.Add(a.delta.Scale(a.smoothVal))
	if math.Abs(1-a.smoothVal) < SmoothFinishThreshold {
		a.moving = false
		justFinished = true
	}
	return a.pos, true, justFinished
}

// Snap мгновенно ставит прицел в pos. Текущее движение не отменяется:
// LookAt вызывается и из самого движения.
func (a *AimInterpolator) Snap(pos Vec3) {
	a.pos = pos
}

// Stop прерывает движение, прицел остаётся где есть.
func (a *AimInterpolator) Stop() {
	a.moving = false
}

// Reset - прицел в ноль, движения нет.
func (a *AimInterpolator) Reset() {
	*a = AimInterpolator{}
}

// SmoothCD - критически демпфированная пружина (Game Programming Gems 4,
// "Critically Damped Ease-In/Ease-Out Smoothing"). Возвращает новые val и rate.
func SmoothCD(val, rate, dt, to, smoothTime float64) (float64, float64) {
	if smoothTime <= 0 {
		return to, 0
	}
	omega := 2 / smoothTime
	x := omega * dt
	exp := 1 / (1 + x + 0.48*x*x + 0.235*x*x*x)
	change := val - to
	temp := (rate + omega*change) * dt
	rate = (rate - omega*temp) * exp
	val = to + (change+temp)*exp
	return val, rate
}
