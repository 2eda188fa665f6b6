package systems

import (
	"testing"

	"github.com/jakecoffman/cp"

	"github.com/decker502/sforce/pkg/components"
	"github.com/decker502/sforce/pkg/config"
	"github.com/decker502/sforce/pkg/ecs"
)

func TestLifetimeExpiration(t *testing.T) {
	em := ecs.NewEntityManager()
	system := NewLifetimeSystem(em, nil)

	id := em.CreateEntity()
	lifetime := &components.LifetimeComponent{SpawnedAt: 0, ExpiresAt: 72}
	ecs.AddComponent(em, id, lifetime)

	if n := system.Update(71); n != 0 || lifetime.IsExpired {
		t.Fatalf("entity should not expire before ExpiresAt")
	}
	if n := system.Update(72); n != 1 {
		t.Fatalf("expected 1 removal, got %d", n)
	}
	if !lifetime.IsExpired || !em.IsPendingDestroy(id) {
		t.Error("entity should be expired and marked for destruction")
	}

	// 已标记的实体不会重复计数
	if n := system.Update(73); n != 0 {
		t.Errorf("expected no further removals, got %d", n)
	}
}

// TestLifetimeOffscreenEnemy 敌机飞出画面被清理并通知道具调度；出生在上方的敌机不被清理
func TestLifetimeOffscreenEnemy(t *testing.T) {
	em := ecs.NewEntityManager()
	var removed []ecs.EntityID
	system := NewLifetimeSystem(em, func(id ecs.EntityID) { removed = append(removed, id) })

	gone := addEnemy(em, 300, config.LogicalHeight+config.OffscreenMargin+1, 1)
	above := addEnemy(em, 300, -300, 1)

	system.Update(1)
	if !em.IsPendingDestroy(gone) {
		t.Error("enemy below the screen should be removed")
	}
	if em.IsPendingDestroy(above) {
		t.Error("enemy above the screen must not be removed")
	}
	if len(removed) != 1 || removed[0] != gone {
		t.Errorf("onRemoved calls = %v", removed)
	}
}

func TestLifetimeOffscreenProjectile(t *testing.T) {
	em := ecs.NewEntityManager()
	system := NewLifetimeSystem(em, nil)

	up := addProjectile(em, 640, -config.OffscreenMargin-1, components.FactionPlayer)
	onScreen := addProjectile(em, 640, 300, components.FactionPlayer)

	boss := em.CreateEntity()
	ecs.AddComponent(em, boss, &components.BossComponent{})
	ecs.AddComponent(em, boss, &components.PositionComponent{Pos: cp.Vector{X: 640, Y: -200}})
	ecs.AddComponent(em, boss, &components.VelocityComponent{})

	system.Update(1)
	if !em.IsPendingDestroy(up) {
		t.Error("projectile above the screen should be removed")
	}
	if em.IsPendingDestroy(onScreen) {
		t.Error("on-screen projectile must stay")
	}
	if em.IsPendingDestroy(boss) {
		t.Error("boss entering from above must not be removed")
	}
}
