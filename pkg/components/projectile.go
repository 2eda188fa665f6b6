package components

import "github.com/decker502/sforce/pkg/types"

// Faction 阵营
type Faction int

const (
	FactionPlayer Faction = iota
	FactionEnemy
)

// ProjectileComponent 子弹
type ProjectileComponent struct {
	Faction Faction
	Damage  int
	Laser   bool // 双激光，仅用于表现层区分
}

// PickupComponent 下落中的道具
type PickupComponent struct {
	Kind types.PowerupKind
}
