package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"sentry-server/internal/domain"
)

// File - содержимое конфига сервера: вышки и песочница вокруг них.
type File struct {
	Seed    int64              `yaml:"seed"`
	Target  TargetDef          `yaml:"target"`
	Markers []MarkerDef        `yaml:"markers"`
	Groups  []GroupDef         `yaml:"groups"`
	Weapons map[string]float64 `yaml:"weapons"` // класс -> скорость снаряда
	Towers  []TowerDef         `yaml:"towers"`
}

// TargetDef - игрок, за которым следят вышки. В песочнице он ходит по кругу
// через точки маршрута.
type TargetDef struct {
	Name      string        `yaml:"name"`
	Speed     float64       `yaml:"speed"`
	Height    float64       `yaml:"height"`
	Stealth   bool          `yaml:"stealth"`
	Waypoints []domain.Vec3 `yaml:"waypoints"`
}

// MarkerDef - вспомогательная сущность (точка холостого движения, луч, туман).
// Маркер с маршрутом ходит по нему туда-обратно со скоростью Speed.
type MarkerDef struct {
	Name      string        `yaml:"name"`
	Position  domain.Vec3   `yaml:"position"`
	Kind      string        `yaml:"kind"`
	Speed     float64       `yaml:"speed"`
	Waypoints []domain.Vec3 `yaml:"waypoints"`
}

// GroupDef - AI-группа союзников, на которую может подписаться вышка.
type GroupDef struct {
	ID      int       `yaml:"id"`
	Members []AllyDef `yaml:"members"`
}

type AllyDef struct {
	Name      string      `yaml:"name"`
	Position  domain.Vec3 `yaml:"position"`
	Active    bool        `yaml:"active"`
	Alertness int         `yaml:"alertness"`
}

// TowerDef - одна вышка: поля хоста плюс набор свойств поведения.
type TowerDef struct {
	Name         string            `yaml:"name"`
	Position     domain.Vec3       `yaml:"position"`
	IdleMovement string            `yaml:"idleMovement"`
	Links        map[string]string `yaml:"links"` // имя связи -> имя маркера
	Properties   Properties        `yaml:"properties"`
}

// Load читает и разбирает файл конфига.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	f, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	return f, nil
}

// Parse разбирает YAML и проверяет то, без чего песочница не поднимется.
func Parse(data []byte) (*File, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, err
	}
	if err := f.Validate(); err != nil {
		return nil, err
	}
	return &f, nil
}

// Validate проверяет уникальность имён. Значения свойств не проверяются:
// кривое свойство просто не перекрывает дефолт.
func (f *File) Validate() error {
	seen := make(map[string]bool)
	for i, t := range f.Towers {
		if t.Name == "" {
			return fmt.Errorf("tower #%d: name is required", i)
		}
		if seen[t.Name] {
			return fmt.Errorf("tower %q: duplicate name", t.Name)
		}
		seen[t.Name] = true
	}
	for _, m := range f.Markers {
		if m.Name == "" {
			return fmt.Errorf("marker without name")
		}
		if seen[m.Name] {
			return fmt.Errorf("marker %q: duplicate name", m.Name)
		}
		seen[m.Name] = true
	}
	return nil
}

// Default - маленькая сцена на одну вышку, если конфиг не передан.
func Default() *File {
	return &File{
		Seed: 1,
		Target: TargetDef{
			Name:   "player",
			Speed:  4,
			Height: 1.8,
			Waypoints: []domain.Vec3{
				{X: -40, Y: 60}, {X: 40, Y: 60}, {X: 40, Y: 200}, {X: -40, Y: 200},
			},
		},
		Markers: []MarkerDef{
			{
				Name: "idle_path", Position: domain.Vec3{X: -60, Y: 120}, Kind: "marker", Speed: 6,
				Waypoints: []domain.Vec3{{X: -60, Y: 120}, {X: 60, Y: 120}},
			},
			{Name: "beam", Position: domain.Vec3{}, Kind: "attachment"},
		},
		Weapons: map[string]float64{"TowerMG": 250},
		Towers: []TowerDef{
			{
				Name:         "tower_01",
				Position:     domain.Vec3{Z: 25},
				IdleMovement: "idle_path",
				Links:        map[string]string{"beam": "beam"},
				Properties: Properties{
					"weapon":                "TowerMG",
					"visionFOV":             12.0,
					"visionRange":           250.0,
					"visionPersistenceTime": 1.0,
					"maxDistancePrediction": 15.0,
					"weaponSpots": map[string]any{
						"spot1": map[string]any{"bEnabled": true, "vOffset": map[string]any{"x": -2.0, "y": 0.0, "z": 0.0}},
						"spot2": map[string]any{"bEnabled": true, "vOffset": map[string]any{"x": 2.0, "y": 0.0, "z": 0.0}},
					},
					"attachments": map[string]any{
						"attachment1": map[string]any{"linkName": "beam", "distFromTarget": 5.0},
					},
				},
			},
		},
	}
}
