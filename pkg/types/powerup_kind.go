package types

import "fmt"

// PowerupKind 道具类型
// 类型由故事板固定，不做随机
type PowerupKind int

const (
	PowerupUnknown   PowerupKind = iota
	PowerupSpread                // 武器升一级
	PowerupRapid                 // 射速叠层
	PowerupShield                // 短暂护盾
	PowerupHullPatch             // 修复一格船体
	PowerupDisruptor             // 10 秒无敌
)

var powerupNames = map[PowerupKind]string{
	PowerupSpread:    "spread",
	PowerupRapid:     "rapid",
	PowerupShield:    "shield",
	PowerupHullPatch: "hull_patch",
	PowerupDisruptor: "disruptor",
}

// ParsePowerupKind 将故事板字符串解析为道具类型
func ParsePowerupKind(name string) (PowerupKind, error) {
	for k, n := range powerupNames {
		if n == name {
			return k, nil
		}
	}
	return PowerupUnknown, fmt.Errorf("unknown powerup kind %q", name)
}

func (k PowerupKind) String() string {
	if n, ok := powerupNames[k]; ok {
		return n
	}
	return fmt.Sprintf("powerup(%d)", int(k))
}
