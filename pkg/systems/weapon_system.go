package systems

import (
	"log"
	"math"

	"github.com/jakecoffman/cp"

	"github.com/decker502/sforce/pkg/components"
	"github.com/decker502/sforce/pkg/config"
	"github.com/decker502/sforce/pkg/types"
)

// WeaponOptions 武器规则开关
type WeaponOptions struct {
	// KeepWeaponOnLifeLoss 为 true 时损失生命不重置武器等级
	KeepWeaponOnLifeLoss bool
}

// WeaponSystem 玩家武器等级与射速
type WeaponSystem struct {
	opts WeaponOptions
}

// NewWeaponSystem 创建武器系统
func NewWeaponSystem(opts WeaponOptions) *WeaponSystem {
	return &WeaponSystem{opts: opts}
}

// FireCooldownSeconds 射击冷却（秒）：0.25 × 0.85^stacks，最低 0.08
func FireCooldownSeconds(rapidStacks int) float64 {
	if rapidStacks < 0 {
		rapidStacks = 0
	}
	return math.Max(config.MinFireCooldown, config.BaseFireCooldown*math.Pow(config.RapidCooldownFactor, float64(rapidStacks)))
}

// FireCooldown 射击冷却（模拟刻）
func FireCooldown(rapidStacks int) types.SimTime {
	return types.TicksFromSeconds(FireCooldownSeconds(rapidStacks))
}

// CanFire 冷却是否结束；本局第一发不受限制
func (w *WeaponSystem) CanFire(wp *components.PlayerWeaponComponent, now types.SimTime) bool {
	if !wp.HasFired {
		return true
	}
	return now-wp.LastShot >= FireCooldown(wp.RapidStacks)
}

// TryFire 尝试开火
// 冷却未结束时返回 nil，且不重置冷却
func (w *WeaponSystem) TryFire(wp *components.PlayerWeaponComponent, now types.SimTime, origin cp.Vector) []ShotCommand {
	if !w.CanFire(wp, now) {
		return nil
	}
	wp.LastShot = now
	wp.HasFired = true
	return ShotPattern(wp.Tier, origin)
}

// ShotPattern 各武器等级的弹幕
func ShotPattern(tier types.WeaponTier, origin cp.Vector) []ShotCommand {
	muzzle := origin.Add(cp.Vector{Y: -config.PlayerHeight / 2})
	lifetime := types.TicksFromSeconds(config.PlayerBulletLifetime)
	up := -math.Pi / 2

	bullet := func(offsetX, angle, speed float64, damage int, laser bool) ShotCommand {
		return ShotCommand{
			Position: muzzle.Add(cp.Vector{X: offsetX}),
			Velocity: cp.ForAngle(angle).Mult(speed),
			Faction:  components.FactionPlayer,
			Damage:   damage,
			Lifetime: lifetime,
			Laser:    laser,
		}
	}

	step := config.SpreadStepDegrees * math.Pi / 180
	switch tier {
	case types.WeaponSingle:
		return []ShotCommand{bullet(0, up, config.PlayerBulletSpeed, 1, false)}
	case types.WeaponDouble:
		return []ShotCommand{
			bullet(-config.DoubleShotOffset, up, config.PlayerBulletSpeed, 1, false),
			bullet(config.DoubleShotOffset, up, config.PlayerBulletSpeed, 1, false),
		}
	case types.WeaponSpread3:
		shots := make([]ShotCommand, 0, 3)
		for i := -1; i <= 1; i++ {
			shots = append(shots, bullet(0, up+float64(i)*step, config.PlayerBulletSpeed, 1, false))
		}
		return shots
	case types.WeaponSpread5:
		shots := make([]ShotCommand, 0, 5)
		for i := -2; i <= 2; i++ {
			shots = append(shots, bullet(0, up+float64(i)*step, config.PlayerBulletSpeed, 1, false))
		}
		return shots
	case types.WeaponDualLaser:
		speed := config.PlayerBulletSpeed * config.LaserSpeedFactor
		return []ShotCommand{
			bullet(-config.LaserOffset, up, speed, config.LaserDamage, true),
			bullet(config.LaserOffset, up, speed, config.LaserDamage, true),
		}
	}
	return nil
}

// ApplyPickup 应用武器类道具
// 返回 true 表示道具属于武器类（即使等级已满）
func (w *WeaponSystem) ApplyPickup(wp *components.PlayerWeaponComponent, kind types.PowerupKind) bool {
	switch kind {
	case types.PowerupSpread:
		if wp.Tier < types.WeaponMaxTier {
			wp.Tier++
			log.Printf("[WeaponSystem] Weapon upgraded to %v", wp.Tier)
		}
		return true
	case types.PowerupRapid:
		wp.RapidStacks++
		log.Printf("[WeaponSystem] Rapid stacks: %d (cooldown %.3fs)", wp.RapidStacks, FireCooldownSeconds(wp.RapidStacks))
		return true
	}
	return false
}

// OnLifeLost 损失生命：武器等级回到 Single，射速叠层保留
func (w *WeaponSystem) OnLifeLost(wp *components.PlayerWeaponComponent) {
	if w.opts.KeepWeaponOnLifeLoss {
		return
	}
	if wp.Tier != types.WeaponSingle {
		log.Printf("[WeaponSystem] Life lost, weapon reset from %v to single", wp.Tier)
	}
	wp.Tier = types.WeaponSingle
}
