package domain

import "math"

// Vec3 - точка или направление в мировых координатах движка.
// Z - высота; большинство расчётов вышки ведутся в плоскости XY.
type Vec3 struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
	Z float64 `json:"z" yaml:"z"`
}

func (v Vec3) Add(o Vec3) Vec3 {
	return Vec3{v.X + o.X, v.Y + o.Y, v.Z + o.Z}
}

func (v Vec3) Sub(o Vec3) Vec3 {
	return Vec3{v.X - o.X, v.Y - o.Y, v.Z - o.Z}
}

func (v Vec3) Scale(s float64) Vec3 {
	return Vec3{v.X * s, v.Y * s, v.Z * s}
}

// Flat обнуляет высоту.
func (v Vec3) Flat() Vec3 {
	return Vec3{v.X, v.Y, 0}
}

func (v Vec3) LengthSq() float64 {
	return v.X*v.X + v.Y*v.Y + v.Z*v.Z
}

func (v Vec3) Length() float64 {
	return math.Sqrt(v.LengthSq())
}

func (v Vec3) LengthSq2D() float64 {
	return v.X*v.X + v.Y*v.Y
}

func (v Vec3) Length2D() float64 {
	return math.Sqrt(v.LengthSq2D())
}

// Normalized возвращает единичный вектор. Нулевой вектор остаётся нулевым.
func (v Vec3) Normalized() Vec3 {
	l := v.Length()
	if l == 0 {
		return Vec3{}
	}
	return v.Scale(1 / l)
}

// IsZero2D - совпадают ли точки в плоскости XY.
func (v Vec3) IsZero2D() bool {
	return v.X == 0 && v.Y == 0
}

func (v Vec3) DistanceTo(o Vec3) float64 {
	return o.Sub(v).Length()
}

func (v Vec3) DistanceSq2D(o Vec3) float64 {
	return o.Sub(v).LengthSq2D()
}
