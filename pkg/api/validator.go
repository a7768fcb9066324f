package api

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

// MaxWeaponSpots - сколько точек оружия бывает у вышки.
const MaxWeaponSpots = 3

// Validator - интерфейс, который могут реализовать DTO
type Validator interface {
	Validate() error
}

func (p SpotPayload) Validate() error {
	if p.Spot < 0 || p.Spot >= MaxWeaponSpots {
		return fmt.Errorf("spot must be in [0, %d)", MaxWeaponSpots)
	}
	return nil
}

func (p GroupPayload) Validate() error {
	if p.GroupID < -1 {
		return errors.New("groupId must be -1 or a group id")
	}
	return nil
}

func (p EntityPayload) Validate() error {
	if strings.TrimSpace(p.Entity) == "" {
		return errors.New("entity is required")
	}
	return nil
}

func (p ReloadPayload) Validate() error {
	for k := range p.Properties {
		if strings.TrimSpace(k) == "" {
			return errors.New("property path cannot be empty")
		}
	}
	return nil
}

func (p NoisePayload) Validate() error {
	for _, v := range []float64{p.X, p.Y, p.Z, p.Radius, p.Threat} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return errors.New("noise values must be finite")
		}
	}
	if p.Threat < 0 {
		return errors.New("threat cannot be negative")
	}
	if p.Radius < 0 {
		return errors.New("radius cannot be negative")
	}
	switch strings.ToUpper(p.Type) {
	case "", "SOUND", "BULLET_HIT", "EXPLOSION":
		return nil
	}
	return fmt.Errorf("unknown stimulus type %q", p.Type)
}

func (p TeleportPayload) Validate() error {
	for _, v := range []float64{p.X, p.Y, p.Z} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return errors.New("teleport coordinates must be finite")
		}
	}
	return nil
}
