package sentry

import (
	"testing"

	"sentry-server/internal/core/types/enums"
	"sentry-server/internal/domain"
)

func TestController_NoiseStartsSearch(t *testing.T) {
	c, w, _ := newTestTower(t, nil)

	w.noise(domain.Stimulus{Type: enums.StimulusSound, Pos: domain.Vec3{X: 30, Y: 40}, Threat: 1})
	if c.State() != enums.SentryStateIdle {
		t.Fatal("noise must be applied on the next tick")
	}

	tick(c, w, 1, 0.1)
	if c.State() != enums.SentryStateEnemyLost {
		t.Fatalf("expected EnemyLost after noise, got %s", c.State())
	}
	if c.LastKnownPosition() != (domain.Vec3{X: 30, Y: 40}) {
		t.Errorf("expected search from noise position, got %+v", c.LastKnownPosition())
	}
	if w.count(domain.FlowEventSoundHeard) != 1 {
		t.Errorf("expected SoundHeard event")
	}
	if w.count(domain.FlowEventPlayerDetected) != 0 {
		t.Errorf("noise must not emit PlayerDetected")
	}
	if len(w.lookAts) == 0 || w.lookAts[len(w.lookAts)-1] == (domain.Vec3{}) {
		t.Errorf("expected tower to look at the noise")
	}
}

func TestController_NoiseFilters(t *testing.T) {
	tests := []struct {
		name string
		s    domain.Stimulus
	}{
		{"Weak threat", domain.Stimulus{Pos: domain.Vec3{X: 10}, Threat: 0.5}},
		{"Other sender", domain.Stimulus{Pos: domain.Vec3{X: 10}, Threat: 1, Sender: allyID}},
		{"Out of hearing range", domain.Stimulus{Pos: domain.Vec3{X: 300}, Threat: 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, w, _ := newTestTower(t, nil)
			w.noise(tt.s)
			tick(c, w, 1, 0.1)
			if c.State() != enums.SentryStateIdle {
				t.Errorf("expected noise ignored, got %s", c.State())
			}
		})
	}
}

func TestController_NoiseFromPlayerAccepted(t *testing.T) {
	c, w, _ := newTestTower(t, nil)

	w.noise(domain.Stimulus{Pos: domain.Vec3{X: 10}, Threat: 2, Sender: playerID})
	tick(c, w, 1, 0.1)
	if c.State() != enums.SentryStateEnemyLost {
		t.Errorf("expected player noise to start search, got %s", c.State())
	}
}

func TestController_NoiseRefreshesSearch(t *testing.T) {
	c, w, _ := newTestTower(t, nil)

	w.noise(domain.Stimulus{Pos: domain.Vec3{X: 30, Y: 40}, Threat: 1})
	tick(c, w, 15, 0.1) // 1.5с из 2с поиска

	w.noise(domain.Stimulus{Pos: domain.Vec3{X: 60}, Threat: 1})
	tick(c, w, 15, 0.1)

	if c.State() != enums.SentryStateEnemyLost {
		t.Fatalf("new noise must restart the search timer, got %s", c.State())
	}
	if c.LastKnownPosition() != (domain.Vec3{X: 60}) {
		t.Errorf("expected search center moved, got %+v", c.LastKnownPosition())
	}
	if w.count(domain.FlowEventSoundHeard) != 1 {
		t.Errorf("SoundHeard is emitted only from Idle, got %d", w.count(domain.FlowEventSoundHeard))
	}
}

func TestController_NoiseIgnoredInView(t *testing.T) {
	c, w, _ := newTestTower(t, nil)

	w.setVisible(true)
	tick(c, w, 1, 0.1)
	w.noise(domain.Stimulus{Pos: domain.Vec3{X: 60}, Threat: 1})
	tick(c, w, 1, 0.1)

	if c.State() != enums.SentryStateEnemyInView {
		t.Fatalf("expected EnemyInView, got %s", c.State())
	}
	if c.LastKnownPosition() != (domain.Vec3{Y: 50, Z: 1}) {
		t.Errorf("noise must not move the target, got %+v", c.LastKnownPosition())
	}
}

func TestController_IndirectDetectionWhenDisabled(t *testing.T) {
	c, w, _ := newTestTower(t, nil)

	c.Disable()
	c.TargetDetectedIndirectly(domain.Vec3{X: 5})
	if c.State() != enums.SentryStateIdle || len(w.transitions) != 0 {
		t.Errorf("disabled tower must ignore indirect detection")
	}
}

func TestController_AlertGroup(t *testing.T) {
	alert := domain.Vec3{X: 30, Y: 40}

	tests := []struct {
		name    string
		member  domain.GroupMember
		wantHit bool
	}{
		{"Alerted ally", domain.GroupMember{ID: allyID, Active: true, Alertness: 1, HasAttention: true, AttentionTarget: alert}, true},
		{"Inactive ally", domain.GroupMember{ID: allyID, Alertness: 1, HasAttention: true, AttentionTarget: alert}, false},
		{"Calm ally", domain.GroupMember{ID: allyID, Active: true, HasAttention: true, AttentionTarget: alert}, false},
		{"No attention", domain.GroupMember{ID: allyID, Active: true, Alertness: 1, AttentionTarget: alert}, false},
		{"Too close to previous", domain.GroupMember{ID: allyID, Active: true, Alertness: 1, HasAttention: true, AttentionTarget: domain.Vec3{X: 3}}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, w, _ := newTestTower(t, func(cfg *domain.BehaviorConfig) { cfg.AlertGroupID = 3 })
			w.members[3] = []domain.GroupMember{tt.member}

			tick(c, w, 1, 0.1)

			hit := c.State() == enums.SentryStateEnemyLost
			if hit != tt.wantHit {
				t.Fatalf("expected alert=%v, got state %s", tt.wantHit, c.State())
			}
			if hit && c.LastKnownPosition() != alert {
				t.Errorf("expected search at ally attention point, got %+v", c.LastKnownPosition())
			}
		})
	}
}

func TestController_AlertGroupInterval(t *testing.T) {
	c, w, _ := newTestTower(t, func(cfg *domain.BehaviorConfig) {
		cfg.AlertGroupID = 3
		cfg.EnemyLost.TimeSearching = 1
	})

	tick(c, w, 1, 0.1)
	w.members[3] = []domain.GroupMember{{ID: allyID, Active: true, Alertness: 1, HasAttention: true, AttentionTarget: domain.Vec3{X: 30, Y: 40}}}

	// Следующая проверка группы только через 10с
	tick(c, w, 50, 0.1)
	if c.State() != enums.SentryStateIdle {
		t.Fatalf("group must not be polled before the interval, got %s", c.State())
	}
	tick(c, w, 55, 0.1)
	if c.State() != enums.SentryStateEnemyLost {
		t.Fatalf("expected group alert after interval, got %s", c.State())
	}
}

func TestController_AlertGroupIgnoredWhileSleeping(t *testing.T) {
	c, w, _ := newTestTower(t, func(cfg *domain.BehaviorConfig) { cfg.AlertGroupID = 3 })
	w.members[3] = []domain.GroupMember{{ID: allyID, Active: true, Alertness: 1, HasAttention: true, AttentionTarget: domain.Vec3{X: 30, Y: 40}}}

	c.Sleep()
	tick(c, w, 5, 0.1)
	if c.State() != enums.SentryStateIdle {
		t.Errorf("sleeping tower must ignore the group, got %s", c.State())
	}
}

func TestController_NotifyGroupOnDetection(t *testing.T) {
	c, w, _ := newTestTower(t, func(cfg *domain.BehaviorConfig) { cfg.AlertGroupID = 3 })
	w.members[3] = []domain.GroupMember{{ID: allyID, Active: true}}

	w.setVisible(true)
	tick(c, w, 1, 0.1)

	if len(w.notified) != 1 {
		t.Fatalf("expected one group notification, got %d", len(w.notified))
	}
	if w.notified[0] != (domain.Vec3{Y: 50, Z: 1}) {
		t.Errorf("expected notification at target position, got %+v", w.notified[0])
	}
}

func TestController_NotifyWithoutGroup(t *testing.T) {
	c, w, _ := newTestTower(t, nil)
	w.members[3] = []domain.GroupMember{{ID: allyID, Active: true}}

	w.setVisible(true)
	tick(c, w, 1, 0.1)
	if len(w.notified) != 0 {
		t.Errorf("tower without group must not notify, got %d", len(w.notified))
	}
}
