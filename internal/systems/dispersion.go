package systems

import (
	"math"
	"math/rand"
)

// OppositeSpreadDeg - ширина дуги, на которой ищется точка "с обратной стороны".
const OppositeSpreadDeg = 120.0

// CalcErrorPosition возвращает случайную точку на расстоянии [minDist, maxDist]
// от pos в плоскости XY. Угол - по всей окружности, Z не меняется.
func CalcErrorPosition(rng *rand.Rand, pos Vec3, minDist, maxDist float64) Vec3 {
	ang := rng.Float64() * 2 * math.Pi
	dist := rng.Float64()*(maxDist-minDist) + minDist
	return offsetAt(pos, ang, dist)
}

// CalcErrorPositionOppositeCircle - то же, но угол выбирается на дуге в 120°
// с центром напротив origin (если смотреть из pos). Так поиск не тянет прожектор
// обратно туда, откуда он пришёл. Если origin совпадает с pos в плоскости,
// работает как CalcErrorPosition.
func CalcErrorPositionOppositeCircle(rng *rand.Rand, pos Vec3, minDist, maxDist float64, origin Vec3) Vec3 {
	dif := origin.Sub(pos).Flat()
	if dif.IsZero2D() {
		return CalcErrorPosition(rng, pos, minDist, maxDist)
	}

	angOrigin := math.Atan2(dif.X, dif.Y)
	spread := (rng.Float64()*OppositeSpreadDeg - OppositeSpreadDeg/2) * math.Pi / 180
	ang := angOrigin + math.Pi + spread
	dist := rng.Float64()*(maxDist-minDist) + minDist
	return offsetAt(pos, ang, dist)
}

// Угол отсчитывается от оси +Y по часовой стрелке: dir = (sin, cos).
func offsetAt(pos Vec3, ang, dist float64) Vec3 {
	s, c := math.Sincos(ang)
	return Vec3{X: pos.X + s*dist, Y: pos.Y + c*dist, Z: pos.Z}
}
