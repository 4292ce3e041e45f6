package telemetry

import (
	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/foodchain/components"
)

// Lifetime tracks one animal from birth to death.
type Lifetime struct {
	ID         uint64
	Kind       components.Kind
	BirthStep  int
	Generation int

	Kills    int
	Children int
}

// LifetimeSummary aggregates the lifetimes of the living.
type LifetimeSummary struct {
	Living        int
	MaxGeneration int
	Kills         [components.NumKinds]int
	Children      [components.NumKinds]int
}

// LifetimeTracker keeps one ECS entity per living animal.
type LifetimeTracker struct {
	world    *ecs.World
	mapper   *ecs.Map1[Lifetime]
	filter   *ecs.Filter1[Lifetime]
	entities map[uint64]ecs.Entity
}

// NewLifetimeTracker creates an empty tracker.
func NewLifetimeTracker() *LifetimeTracker {
	world := ecs.NewWorld()
	return &LifetimeTracker{
		world:    world,
		mapper:   ecs.NewMap1[Lifetime](world),
		filter:   ecs.NewFilter1[Lifetime](world),
		entities: make(map[uint64]ecs.Entity),
	}
}

// Register starts tracking an animal, replacing any stale record with the
// same id.
func (lt *LifetimeTracker) Register(id uint64, kind components.Kind, generation, birthStep int) {
	if old, ok := lt.entities[id]; ok && lt.world.Alive(old) {
		lt.world.RemoveEntity(old)
	}
	rec := Lifetime{ID: id, Kind: kind, BirthStep: birthStep, Generation: generation}
	lt.entities[id] = lt.mapper.NewEntity(&rec)
}

// Get returns the live record for id, or nil if it is not tracked.
func (lt *LifetimeTracker) Get(id uint64) *Lifetime {
	e, ok := lt.entities[id]
	if !ok || !lt.world.Alive(e) {
		return nil
	}
	return lt.mapper.Get(e)
}

// RecordKill credits a kill to the predator.
func (lt *LifetimeTracker) RecordKill(predatorID uint64) {
	if rec := lt.Get(predatorID); rec != nil {
		rec.Kills++
	}
}

// RecordChild credits a child to the parent.
func (lt *LifetimeTracker) RecordChild(parentID uint64) {
	if rec := lt.Get(parentID); rec != nil {
		rec.Children++
	}
}

// Retire stops tracking id and returns its final record.
func (lt *LifetimeTracker) Retire(id uint64) (Lifetime, bool) {
	rec := lt.Get(id)
	if rec == nil {
		return Lifetime{}, false
	}
	out := *rec
	lt.world.RemoveEntity(lt.entities[id])
	delete(lt.entities, id)
	return out, true
}

// Count returns the number of tracked animals.
func (lt *LifetimeTracker) Count() int {
	return len(lt.entities)
}

// Summary aggregates all tracked lifetimes.
func (lt *LifetimeTracker) Summary() LifetimeSummary {
	var s LifetimeSummary
	query := lt.filter.Query()
	for query.Next() {
		rec := query.Get()
		s.Living++
		if rec.Generation > s.MaxGeneration {
			s.MaxGeneration = rec.Generation
		}
		s.Kills[rec.Kind] += rec.Kills
		s.Children[rec.Kind] += rec.Children
	}
	return s
}

// Reset drops every tracked lifetime.
func (lt *LifetimeTracker) Reset() {
	for id, e := range lt.entities {
		lt.world.RemoveEntity(e)
		delete(lt.entities, id)
	}
}
