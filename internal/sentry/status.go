package sentry

import (
	"sentry-server/internal/core/types"
	"sentry-server/internal/domain"
	"sentry-server/internal/systems"
)

// Status - срез состояния вышки для телеметрии и debug-роутов.
type Status struct {
	ID           types.EntityID `json:"id"`
	Name         string         `json:"name"`
	State        string         `json:"state"`
	Enabled      bool           `json:"enabled"`
	Sleeping     bool           `json:"sleeping"`
	Target       types.EntityID `json:"target"`
	LastKnown    domain.Vec3    `json:"lastKnown"`
	Aim          domain.Vec3    `json:"aim"`
	AimMoving    bool           `json:"aimMoving"`
	AimLinear    bool           `json:"aimLinear"`
	AimDuration  float64        `json:"aimDuration,omitempty"` // только пока прицел движется
	Awareness    int            `json:"awareness"`
	AlertGroupID int            `json:"alertGroupId"`

	BurstActive   bool    `json:"burstActive"`
	ShotsFired    int     `json:"shotsFired"`
	PreshotsFired int     `json:"preshotsFired"`
	Dispersion    float64 `json:"dispersion"`
	EnabledSlots  int     `json:"enabledSlots"`
	Lasers        []int   `json:"lasers"`
}

func (c *Controller) Status() Status {
	b := c.burst.State()
	st := Status{
		ID:            c.id,
		Name:          c.name,
		State:         c.state.String(),
		Enabled:       c.enabled,
		Sleeping:      c.sleeping,
		Target:        c.vis.InView(),
		LastKnown:     c.lastSeen,
		Aim:           c.aim.Position(),
		Awareness:     c.AwarenessToTarget(),
		AlertGroupID:  c.alertGroupID,
		BurstActive:   b.Active,
		ShotsFired:    b.ShotsFired,
		PreshotsFired: b.PreshotsFired,
		Dispersion:    b.CurrentDispersion,
		EnabledSlots:  c.burst.EnabledCount(),
		Lasers:        []int{},
	}
	if c.aim.IsMoving() {
		st.AimMoving = true
		st.AimLinear = c.aim.IsLinear()
		st.AimDuration = c.aim.Duration()
	}
	c.burst.ActiveLasers(func(slot int, _ systems.WeaponSlot) {
		st.Lasers = append(st.Lasers, slot)
	})
	return st
}
