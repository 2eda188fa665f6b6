package systems

import (
	"testing"

	"github.com/jakecoffman/cp"

	"github.com/decker502/sforce/pkg/components"
	"github.com/decker502/sforce/pkg/config"
	"github.com/decker502/sforce/pkg/types"
)

func TestWeaponSystem_TierCapped(t *testing.T) {
	w := NewWeaponSystem(WeaponOptions{})
	wp := &components.PlayerWeaponComponent{}

	for i := 0; i < 10; i++ {
		w.ApplyPickup(wp, types.PowerupSpread)
		if wp.Tier > types.WeaponMaxTier {
			t.Fatalf("tier exceeded max: %v", wp.Tier)
		}
	}
	if wp.Tier != types.WeaponDualLaser {
		t.Errorf("tier = %v, want dual_laser", wp.Tier)
	}
}

func TestWeaponSystem_CooldownFloor(t *testing.T) {
	prev := FireCooldownSeconds(0)
	if prev != config.BaseFireCooldown {
		t.Errorf("base cooldown = %v", prev)
	}
	for stacks := 1; stacks < 30; stacks++ {
		c := FireCooldownSeconds(stacks)
		if c > prev {
			t.Fatalf("cooldown increased at %d stacks", stacks)
		}
		if c < config.MinFireCooldown {
			t.Fatalf("cooldown %v below floor at %d stacks", c, stacks)
		}
		prev = c
	}
	if FireCooldownSeconds(30) != config.MinFireCooldown {
		t.Errorf("cooldown should reach the floor")
	}
}

// TestWeaponSystem_RejectedFireDoesNotResetCooldown 冷却未结束的开火被拒绝，不发射且不重置冷却
func TestWeaponSystem_RejectedFireDoesNotResetCooldown(t *testing.T) {
	w := NewWeaponSystem(WeaponOptions{})
	wp := &components.PlayerWeaponComponent{}
	cooldown := FireCooldown(0)

	if shots := w.TryFire(wp, 10, cp.Vector{}); len(shots) != 1 {
		t.Fatalf("first shot should fire, got %d", len(shots))
	}

	for now := types.SimTime(11); now < 10+cooldown; now++ {
		if shots := w.TryFire(wp, now, cp.Vector{}); shots != nil {
			t.Fatalf("fire accepted during cooldown at %d", now)
		}
		if wp.LastShot != 10 {
			t.Fatalf("rejected fire reset LastShot to %d", wp.LastShot)
		}
	}

	if shots := w.TryFire(wp, 10+cooldown, cp.Vector{}); len(shots) == 0 {
		t.Error("fire should succeed once cooldown elapsed")
	}
}

func TestWeaponSystem_RapidShortensCooldown(t *testing.T) {
	w := NewWeaponSystem(WeaponOptions{})
	wp := &components.PlayerWeaponComponent{}
	base := FireCooldown(0)

	w.ApplyPickup(wp, types.PowerupRapid)
	w.ApplyPickup(wp, types.PowerupRapid)
	if wp.RapidStacks != 2 {
		t.Fatalf("RapidStacks = %d", wp.RapidStacks)
	}
	if FireCooldown(wp.RapidStacks) >= base {
		t.Error("rapid stacks should shorten cooldown")
	}
}

func TestShotPattern(t *testing.T) {
	tests := []struct {
		tier      types.WeaponTier
		wantShots int
		wantDmg   int
		wantSpeed float64
	}{
		{types.WeaponSingle, 1, 1, config.PlayerBulletSpeed},
		{types.WeaponDouble, 2, 1, config.PlayerBulletSpeed},
		{types.WeaponSpread3, 3, 1, config.PlayerBulletSpeed},
		{types.WeaponSpread5, 5, 1, config.PlayerBulletSpeed},
		{types.WeaponDualLaser, 2, config.LaserDamage, config.PlayerBulletSpeed * config.LaserSpeedFactor},
	}

	for _, tt := range tests {
		t.Run(tt.tier.String(), func(t *testing.T) {
			shots := ShotPattern(tt.tier, cp.Vector{X: 640, Y: 600})
			if len(shots) != tt.wantShots {
				t.Fatalf("shots = %d, want %d", len(shots), tt.wantShots)
			}
			for _, s := range shots {
				if s.Damage != tt.wantDmg {
					t.Errorf("damage = %d, want %d", s.Damage, tt.wantDmg)
				}
				if !approxEqual(s.Velocity.Length(), tt.wantSpeed) {
					t.Errorf("speed = %v, want %v", s.Velocity.Length(), tt.wantSpeed)
				}
				if s.Velocity.Y >= 0 {
					t.Errorf("player shots must travel upward, got %v", s.Velocity)
				}
				if s.Faction != components.FactionPlayer {
					t.Error("wrong faction")
				}
			}
		})
	}
}

func TestWeaponSystem_LifeLoss(t *testing.T) {
	t.Run("默认：等级重置，叠层保留", func(t *testing.T) {
		w := NewWeaponSystem(WeaponOptions{})
		wp := &components.PlayerWeaponComponent{Tier: types.WeaponSpread5, RapidStacks: 3}
		w.OnLifeLost(wp)
		if wp.Tier != types.WeaponSingle || wp.RapidStacks != 3 {
			t.Errorf("after life loss: %+v", wp)
		}
	})

	t.Run("保留武器", func(t *testing.T) {
		w := NewWeaponSystem(WeaponOptions{KeepWeaponOnLifeLoss: true})
		wp := &components.PlayerWeaponComponent{Tier: types.WeaponSpread5, RapidStacks: 3}
		w.OnLifeLost(wp)
		if wp.Tier != types.WeaponSpread5 {
			t.Errorf("tier should persist, got %v", wp.Tier)
		}
	})
}

func TestWeaponSystem_NonWeaponPickup(t *testing.T) {
	w := NewWeaponSystem(WeaponOptions{})
	wp := &components.PlayerWeaponComponent{}
	for _, kind := range []types.PowerupKind{types.PowerupShield, types.PowerupHullPatch, types.PowerupDisruptor} {
		if w.ApplyPickup(wp, kind) {
			t.Errorf("%v should not be a weapon pickup", kind)
		}
	}
}
