package telemetry

import (
	"testing"

	"github.com/pthm-cable/foodchain/components"
	"github.com/pthm-cable/foodchain/systems"
)

func TestCollectorCountsEvents(t *testing.T) {
	var flushed []WindowStats
	c := NewCollector(1, CollectorOptions{OnFlush: func(s WindowStats) { flushed = append(flushed, s) }})
	env := newEnv(1, 3, c)

	apex := env.Spawn(components.KindApexPredator, at(0, 0), false, nil)
	mid := env.Spawn(components.KindMidPredator, at(0, 1), false, nil)
	c.ShowStatus(0, env.Field)
	if len(flushed) != 0 {
		t.Fatal("step 0 should not flush")
	}

	apex.Act(env, nil)
	if mid.Alive() {
		t.Fatal("setup: apex should have eaten the mid-predator")
	}
	env.Spawn(components.KindApexPredator, at(0, 2), false, apex)

	c.ShowStatus(1, env.Field)
	if len(flushed) != 1 {
		t.Fatalf("got %d flushes, want 1", len(flushed))
	}
	s := flushed[0]

	tests := []struct {
		name      string
		got, want int
	}{
		{"apex count", s.Apex, 2},
		{"mid count", s.Mid, 0},
		{"apex births", s.ApexBirths, 1},
		{"seeded animals are not births", s.MidBirths, 0},
		{"mid deaths", s.MidDeaths, 1},
		{"eaten", s.Eaten, 1},
		{"apex kills", s.ApexKills, 1},
		{"mid kills", s.MidKills, 0},
		{"max generation", s.MaxGeneration, 1},
		{"window start", s.WindowStart, 0},
		{"window end", s.WindowEnd, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.want {
				t.Errorf("got %d, want %d", tt.got, tt.want)
			}
		})
	}

	rec := c.Tracker().Get(apex.ID())
	if rec == nil {
		t.Fatal("apex should still be tracked")
	}
	if rec.Kills != 1 || rec.Children != 1 {
		t.Errorf("apex lifetime = %+v, want 1 kill and 1 child", *rec)
	}
	if c.Tracker().Get(mid.ID()) != nil {
		t.Error("dead mid-predator should have been retired")
	}
}

func TestCollectorWindowReset(t *testing.T) {
	var flushed []WindowStats
	c := NewCollector(2, CollectorOptions{OnFlush: func(s WindowStats) { flushed = append(flushed, s) }})
	env := newEnv(1, 4, c)

	a := env.Spawn(components.KindPrey, at(0, 0), false, nil)
	b := env.Spawn(components.KindPrey, at(0, 2), false, nil)

	c.ShowStatus(1, env.Field)
	a.SetDead(env, systems.CauseOvercrowding)
	c.ShowStatus(2, env.Field)
	b.SetDead(env, systems.CauseOldAge)
	c.ShowStatus(3, env.Field)
	c.ShowStatus(4, env.Field)

	if len(flushed) != 2 {
		t.Fatalf("got %d flushes, want 2", len(flushed))
	}
	if flushed[0].Overcrowding != 1 || flushed[0].OldAge != 0 {
		t.Errorf("first window causes = overcrowding %d old_age %d", flushed[0].Overcrowding, flushed[0].OldAge)
	}
	if flushed[1].Overcrowding != 0 || flushed[1].OldAge != 1 {
		t.Errorf("second window causes = overcrowding %d old_age %d", flushed[1].Overcrowding, flushed[1].OldAge)
	}
	if flushed[1].WindowStart != 2 || flushed[1].WindowEnd != 4 {
		t.Errorf("second window = [%d, %d], want [2, 4]", flushed[1].WindowStart, flushed[1].WindowEnd)
	}
	if last, ok := c.Last(); !ok || last.WindowEnd != 4 {
		t.Errorf("Last() = %+v, %v", last, ok)
	}
}

func TestCollectorReset(t *testing.T) {
	c := NewCollector(10, CollectorOptions{})
	env := newEnv(2, 2, c)
	env.Spawn(components.KindPrey, at(0, 0), false, nil)
	env.Spawn(components.KindPrey, at(1, 1), false, nil)

	c.Reset()
	env.Reset()
	env.Spawn(components.KindMidPredator, at(0, 0), false, nil)

	if got := c.Tracker().Count(); got != 1 {
		t.Errorf("tracked = %d after reset, want 1", got)
	}
	if _, ok := c.Last(); ok {
		t.Error("Last() should be empty after reset")
	}
}
