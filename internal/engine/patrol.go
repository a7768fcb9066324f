package engine

import "sentry-server/internal/domain"

// patrol двигает точку по маршруту с постоянной скоростью.
// loop=true - по кругу, иначе туда-обратно.
type patrol struct {
	points []domain.Vec3
	speed  float64
	loop   bool

	next    int
	forward bool
}

func newPatrol(points []domain.Vec3, speed float64, loop bool) *patrol {
	return &patrol{points: points, speed: speed, loop: loop, next: 1, forward: true}
}

// active - есть куда идти.
func (p *patrol) active() bool {
	return p != nil && len(p.points) > 1 && p.speed > 0
}

// step сдвигает pos на dt и возвращает новую позицию и скорость.
func (p *patrol) step(pos domain.Vec3, dt float64) (domain.Vec3, domain.Vec3) {
	if !p.active() {
		return pos, domain.Vec3{}
	}

	budget := p.speed * dt
	var velocity domain.Vec3
	// Ограничение на случай маршрута из совпадающих точек
	for i := 0; budget > 0 && i < 2*len(p.points); i++ {
		goal := p.points[p.next]
		delta := goal.Sub(pos)
		dist := delta.Length()
		if dist > 0 {
			velocity = delta.Scale(p.speed / dist)
		}
		if dist > budget {
			return pos.Add(delta.Scale(budget / dist)), velocity
		}
		pos = goal
		budget -= dist
		p.advance()
	}
	return pos, velocity
}

func (p *patrol) advance() {
	n := len(p.points)
	if p.loop {
		p.next = (p.next + 1) % n
		return
	}
	if p.forward && p.next == n-1 {
		p.forward = false
	} else if !p.forward && p.next == 0 {
		p.forward = true
	}
	if p.forward {
		p.next++
	} else {
		p.next--
	}
}
