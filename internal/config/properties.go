package config

import (
	"strings"

	"sentry-server/internal/domain"
)

// Properties - плоско-вложенный набор свойств сущности, как он пришёл из YAML.
// Ключи адресуются путём через точку: "behaviour.enemyLost.searchSpeed".
//
// Все геттеры работают по одной схеме: если ключа нет или тип не подходит,
// dst остаётся нетронутым. Поэтому вызывающий сначала выставляет fallback.
type Properties map[string]any

// Lookup ищет значение по пути.
func (p Properties) Lookup(path string) (any, bool) {
	if p == nil {
		return nil, false
	}
	parts := strings.Split(path, ".")
	var cur any = map[string]any(p)
	for _, part := range parts {
		m, ok := asMap(cur)
		if !ok {
			return nil, false
		}
		cur, ok = m[part]
		if !ok {
			return nil, false
		}
	}
	return cur, true
}

// Table возвращает вложенную таблицу.
func (p Properties) Table(path string) (Properties, bool) {
	v, ok := p.Lookup(path)
	if !ok {
		return nil, false
	}
	m, ok := asMap(v)
	if !ok {
		return nil, false
	}
	return Properties(m), true
}

func (p Properties) Bool(path string, dst *bool) bool {
	v, ok := p.Lookup(path)
	if !ok {
		return false
	}
	switch b := v.(type) {
	case bool:
		*dst = b
	case int:
		// Старые конфиги пишут флаги как 0/1
		*dst = b != 0
	default:
		return false
	}
	return true
}

func (p Properties) Float(path string, dst *float64) bool {
	v, ok := p.Lookup(path)
	if !ok {
		return false
	}
	f, ok := asFloat(v)
	if !ok {
		return false
	}
	*dst = f
	return true
}

func (p Properties) Int(path string, dst *int) bool {
	v, ok := p.Lookup(path)
	if !ok {
		return false
	}
	switch n := v.(type) {
	case int:
		*dst = n
	case int64:
		*dst = int(n)
	case float64:
		*dst = int(n)
	default:
		return false
	}
	return true
}

func (p Properties) String(path string, dst *string) bool {
	v, ok := p.Lookup(path)
	if !ok {
		return false
	}
	s, ok := v.(string)
	if !ok {
		return false
	}
	*dst = s
	return true
}

// Vec3 принимает {x: .., y: .., z: ..} или список [x, y, z].
func (p Properties) Vec3(path string, dst *domain.Vec3) bool {
	v, ok := p.Lookup(path)
	if !ok {
		return false
	}
	out, ok := asVec3(v)
	if !ok {
		return false
	}
	*dst = out
	return true
}

// Set записывает значение, создавая промежуточные таблицы.
func (p Properties) Set(path string, value any) {
	parts := strings.Split(path, ".")
	cur := map[string]any(p)
	for _, part := range parts[:len(parts)-1] {
		next, ok := asMap(cur[part])
		if !ok {
			next = map[string]any{}
			cur[part] = next
		}
		cur = next
	}
	cur[parts[len(parts)-1]] = value
}

// Clone - глубокая копия (только таблицы, значения скалярные).
func (p Properties) Clone() Properties {
	return Properties(cloneMap(p))
}

func cloneMap(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		if sub, ok := asMap(v); ok {
			out[k] = cloneMap(sub)
			continue
		}
		out[k] = v
	}
	return out
}

func asMap(v any) (map[string]any, bool) {
	switch m := v.(type) {
	case map[string]any:
		return m, true
	case Properties:
		return m, true
	case map[any]any:
		out := make(map[string]any, len(m))
		for k, val := range m {
			ks, ok := k.(string)
			if !ok {
				return nil, false
			}
			out[ks] = val
		}
		return out, true
	}
	return nil, false
}

func asFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	}
	return 0, false
}

func asVec3(v any) (domain.Vec3, bool) {
	if m, ok := asMap(v); ok {
		var out domain.Vec3
		x, okX := asFloat(m["x"])
		y, okY := asFloat(m["y"])
		z, okZ := asFloat(m["z"])
		if !okX && !okY && !okZ {
			return out, false
		}
		out.X, out.Y, out.Z = x, y, z
		return out, true
	}
	if list, ok := v.([]any); ok && len(list) == 3 {
		var c [3]float64
		for i, item := range list {
			f, ok := asFloat(item)
			if !ok {
				return domain.Vec3{}, false
			}
			c[i] = f
		}
		return domain.Vec3{X: c[0], Y: c[1], Z: c[2]}, true
	}
	return domain.Vec3{}, false
}
