package entities

import (
	"testing"

	"github.com/jakecoffman/cp"

	"github.com/decker502/sforce/pkg/components"
	"github.com/decker502/sforce/pkg/config"
	"github.com/decker502/sforce/pkg/ecs"
	"github.com/decker502/sforce/pkg/systems"
	"github.com/decker502/sforce/pkg/types"
)

// TestNewProjectileEntity 测试子弹实体创建
func TestNewProjectileEntity(t *testing.T) {
	em := ecs.NewEntityManager()

	tests := []struct {
		name       string
		shot       systems.ShotCommand
		wantWidth  float64
		wantExpiry types.SimTime
	}{
		{
			name: "玩家子弹",
			shot: systems.ShotCommand{
				Position: cp.Vector{X: 640, Y: 600},
				Velocity: cp.Vector{X: 0, Y: -config.PlayerBulletSpeed},
				Faction:  components.FactionPlayer,
				Damage:   1,
				Lifetime: 72,
			},
			wantWidth:  config.PlayerBulletWidth,
			wantExpiry: 100 + 72,
		},
		{
			name: "敌方子弹",
			shot: systems.ShotCommand{
				Position: cp.Vector{X: 300, Y: 200},
				Velocity: cp.Vector{X: 0, Y: 200},
				Faction:  components.FactionEnemy,
				Damage:   1,
				Lifetime: 180,
			},
			wantWidth:  config.EnemyBulletWidth,
			wantExpiry: 100 + 180,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id := NewProjectileEntity(em, tt.shot, 100)

			pos, ok := ecs.GetComponent[*components.PositionComponent](em, id)
			if !ok || pos.Pos != tt.shot.Position {
				t.Errorf("Position = %+v, want %v", pos, tt.shot.Position)
			}
			vel, ok := ecs.GetComponent[*components.VelocityComponent](em, id)
			if !ok || vel.Vel != tt.shot.Velocity {
				t.Errorf("Velocity = %+v, want %v", vel, tt.shot.Velocity)
			}
			proj, ok := ecs.GetComponent[*components.ProjectileComponent](em, id)
			if !ok || proj.Faction != tt.shot.Faction || proj.Damage != tt.shot.Damage {
				t.Errorf("Projectile = %+v", proj)
			}
			col, _ := ecs.GetComponent[*components.CollisionComponent](em, id)
			if col.Width != tt.wantWidth {
				t.Errorf("Collision width = %v, want %v", col.Width, tt.wantWidth)
			}
			life, ok := ecs.GetComponent[*components.LifetimeComponent](em, id)
			if !ok || life.ExpiresAt != tt.wantExpiry {
				t.Errorf("Lifetime = %+v, want expiry %d", life, tt.wantExpiry)
			}
		})
	}
}

func TestNewProjectiles(t *testing.T) {
	em := ecs.NewEntityManager()
	shots := systems.ShotPattern(types.WeaponSpread3, cp.Vector{X: 640, Y: 640})

	ids := NewProjectiles(em, shots, 1)
	if len(ids) != len(shots) {
		t.Fatalf("created %d projectiles, want %d", len(ids), len(shots))
	}
	if got := len(ecs.GetEntitiesWith1[*components.ProjectileComponent](em)); got != len(shots) {
		t.Errorf("query found %d projectiles, want %d", got, len(shots))
	}
}

func TestNewPickupEntity(t *testing.T) {
	em := ecs.NewEntityManager()
	id := NewPickupEntity(em, types.PowerupRapid, cp.Vector{X: 400, Y: 300})

	pickup, ok := ecs.GetComponent[*components.PickupComponent](em, id)
	if !ok || pickup.Kind != types.PowerupRapid {
		t.Fatalf("Pickup = %+v", pickup)
	}
	vel, _ := ecs.GetComponent[*components.VelocityComponent](em, id)
	if vel.Vel.X != 0 || vel.Vel.Y != config.PickupFallSpeed {
		t.Errorf("pickup should fall straight down, got %v", vel.Vel)
	}
	if ecs.HasComponent[*components.LifetimeComponent](em, id) {
		t.Error("pickups are removed when leaving the screen, not by lifetime")
	}
}

func TestNewBossEntity(t *testing.T) {
	em := ecs.NewEntityManager()
	id := NewBossEntity(em)

	if !ecs.HasComponent[*components.BossComponent](em, id) {
		t.Fatal("boss tag missing")
	}
	pos, _ := ecs.GetComponent[*components.PositionComponent](em, id)
	if pos.Pos.X != config.BossSpawnX || pos.Pos.Y != config.BossSpawnY {
		t.Errorf("boss should spawn above the screen, got %v", pos.Pos)
	}
	if ecs.HasComponent[*components.HealthComponent](em, id) {
		t.Error("boss health lives in BossState, not in a component")
	}
}
