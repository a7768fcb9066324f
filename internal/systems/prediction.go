package systems

// PredictionParams - настройки упреждения из конфига вышки.
type PredictionParams struct {
	// MinSpeedSq - порог квадрата горизонтальной скорости цели.
	MinSpeedSq float64
	// MaxDistance ограничивает длину смещения. <= 0 - без ограничения.
	MaxDistance float64
	// ForwardOffset - сдвиг точки вперёд по направлению взгляда цели.
	ForwardOffset float64
}

// PredictPosition экстраполирует позицию цели на horizon секунд вперёд.
//
// Смещение считается только в плоскости XY и режется по длине (а не по осям)
// до MaxDistance. Затем точка сдвигается на ForwardOffset вдоль forward цели,
// чтобы очередь ложилась чуть впереди игрока. Медленная цель не
// предсказывается вообще.
func PredictPosition(pos, velocity, forward Vec3, horizon float64, p PredictionParams) Vec3 {
	if velocity.LengthSq2D() < p.MinSpeedSq {
		return pos
	}

	movement := velocity.Scale(horizon).Flat()
	if p.MaxDistance > 0 && movement.LengthSq2D() > p.MaxDistance*p.MaxDistance {
		movement = movement.Normalized().Scale(p.MaxDistance)
	}

	out := pos.Add(movement)
	out = out.Add(forward.Flat().Normalized().Scale(p.ForwardOffset))
	return out
}
