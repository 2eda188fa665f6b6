package types

// WeaponTier 玩家武器等级（有序）
type WeaponTier int

const (
	WeaponSingle WeaponTier = iota
	WeaponDouble
	WeaponSpread3
	WeaponSpread5
	WeaponDualLaser

	// WeaponMaxTier 最高等级
	WeaponMaxTier = WeaponDualLaser
)

var weaponTierNames = [...]string{"single", "double", "spread3", "spread5", "dual_laser"}

func (t WeaponTier) String() string {
	if t < WeaponSingle || t > WeaponMaxTier {
		return "invalid"
	}
	return weaponTierNames[t]
}
