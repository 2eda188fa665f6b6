package systems

import (
	"log"

	"github.com/decker502/sforce/pkg/components"
	"github.com/decker502/sforce/pkg/config"
	"github.com/decker502/sforce/pkg/types"
)

// HitOutcome 一次受击的结果
type HitOutcome int

const (
	// HitIgnored 无敌中，伤害被忽略
	HitIgnored HitOutcome = iota
	// HitAbsorbed 船体扣一格
	HitAbsorbed
	// HitLifeLost 船体归零，损失一条命，船体回满
	HitLifeLost
	// HitRunEnded 最后一条命耗尽
	HitRunEnded
)

func (o HitOutcome) String() string {
	switch o {
	case HitIgnored:
		return "ignored"
	case HitAbsorbed:
		return "absorbed"
	case HitLifeLost:
		return "life_lost"
	case HitRunEnded:
		return "run_ended"
	}
	return "unknown"
}

// HealthSystem 玩家生命、船体与无敌计时
type HealthSystem struct{}

// NewHealthSystem 创建生命系统
func NewHealthSystem() *HealthSystem {
	return &HealthSystem{}
}

// NewPlayerHealth 新一局的初始生命状态
func NewPlayerHealth() components.PlayerHealthComponent {
	return components.PlayerHealthComponent{
		Lives:        config.MaxLives,
		HullSegments: config.MaxHullSegments,
	}
}

// IsInvulnerable 当前是否无敌
func (h *HealthSystem) IsInvulnerable(ph *components.PlayerHealthComponent, now types.SimTime) bool {
	return now < ph.InvulnerableUntil
}

// ApplyHit 结算一次受击
//
// 无敌中忽略；否则船体 -1。船体归零时损失一条命：
// 仍有剩余生命则船体回满并进入无敌窗口，否则本局结束。
// 未致命的受击也给予短暂无敌，避免同一刻的多次碰撞连续扣血。
func (h *HealthSystem) ApplyHit(ph *components.PlayerHealthComponent, now types.SimTime) HitOutcome {
	if h.IsInvulnerable(ph, now) || ph.Lives <= 0 {
		return HitIgnored
	}

	ph.HullSegments--
	if ph.HullSegments > 0 {
		ph.InvulnerableUntil = now + types.TicksFromSeconds(config.HitInvulnWindow)
		return HitAbsorbed
	}

	ph.HullSegments = 0
	ph.Lives--
	if ph.Lives > 0 {
		ph.HullSegments = config.MaxHullSegments
		ph.InvulnerableUntil = now + types.TicksFromSeconds(config.InvulnWindow)
		log.Printf("[HealthSystem] Life lost at %.2fs, %d remaining", now.Seconds(), ph.Lives)
		return HitLifeLost
	}

	log.Printf("[HealthSystem] Last life lost at %.2fs, run ended", now.Seconds())
	return HitRunEnded
}

// ApplyPickup 应用生命类道具
// 返回 true 表示道具属于生命类
func (h *HealthSystem) ApplyPickup(ph *components.PlayerHealthComponent, kind types.PowerupKind, now types.SimTime) bool {
	switch kind {
	case types.PowerupHullPatch:
		if ph.HullSegments < config.MaxHullSegments {
			ph.HullSegments++
		}
		return true
	case types.PowerupShield:
		// 在现有窗口（或当前时刻）之后延长
		base := ph.InvulnerableUntil
		if base < now {
			base = now
		}
		ph.InvulnerableUntil = base + types.TicksFromSeconds(config.ShieldWindow)
		return true
	case types.PowerupDisruptor:
		// 只会延长，不会缩短更长的现有窗口
		until := now + types.TicksFromSeconds(config.DisruptorWindow)
		if until > ph.InvulnerableUntil {
			ph.InvulnerableUntil = until
		}
		return true
	}
	return false
}
