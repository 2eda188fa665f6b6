package game

import (
	"github.com/decker502/sforce/pkg/components"
	"github.com/decker502/sforce/pkg/ecs"
	"github.com/decker502/sforce/pkg/systems"
	"github.com/decker502/sforce/pkg/types"
)

// EntityKind 表现层关心的实体类别
type EntityKind int

const (
	EntityPlayer EntityKind = iota
	EntityEnemy
	EntityBoss
	EntityPlayerShot
	EntityEnemyShot
	EntityPickup
)

// EntityView 实体的只读视图
type EntityView struct {
	Kind      EntityKind
	Archetype types.Archetype   // 仅敌机
	Powerup   types.PowerupKind // 道具，或敌机携带的道具
	Laser     bool              // 仅玩家子弹
	X, Y      float64
	Width     float64
	Height    float64
}

// BossView Boss 战进行中时的状态
type BossView struct {
	Phase          types.BossPhase
	HealthFraction float64
}

// DebugCounters 调试计数
type DebugCounters struct {
	EnemiesSpawned   int
	EnemiesKilled    int
	ShotsFired       int
	Entities         int
	PowerupsInFlight int
	WaveElapsed      types.SimTime
	WaveTriggered    bool
	LastWaveAt       types.SimTime
}

// Snapshot 一刻结束后的只读快照
// 表现层（渲染、HUD、音效）只读取快照，不直接访问模拟状态
type Snapshot struct {
	RunID      string
	State      RunState
	Difficulty types.DifficultyTier
	Tick       types.SimTime

	Score           int64
	LevelIndex      int
	LevelName       string
	WaveIndex       int
	CyclesCompleted int
	BossesDefeated  int
	Boss            *BossView // 没有 Boss 战时为 nil

	Lives        int
	HullSegments int
	WeaponTier   types.WeaponTier
	RapidStacks  int
	Invulnerable bool

	// Signals 本刻产生的输出信号
	Signals []systems.Event

	Debug    DebugCounters
	Entities []EntityView
}

// Snapshot 生成当前快照
func (s *Simulation) Snapshot() Snapshot {
	snap := Snapshot{
		State:      s.state,
		Difficulty: s.difficulty,
		Tick:       s.now,
	}
	if s.em == nil {
		return snap
	}

	snap.RunID = s.runID.String()
	snap.Score = s.encounter.Score
	snap.LevelIndex = s.encounter.LevelIndex
	snap.LevelName = s.storyboard.Levels[s.encounter.LevelIndex].Name
	snap.WaveIndex = s.encounter.WaveIndex
	snap.CyclesCompleted = s.encounter.CyclesCompleted
	snap.BossesDefeated = s.encounter.BossesDefeated

	if s.bossFight.Active() {
		snap.Boss = &BossView{
			Phase:          s.bossFight.Phase(),
			HealthFraction: s.bossFight.HealthFraction(),
		}
	}

	if ph, ok := ecs.GetComponent[*components.PlayerHealthComponent](s.em, s.player); ok {
		snap.Lives = ph.Lives
		snap.HullSegments = ph.HullSegments
		snap.Invulnerable = s.health.IsInvulnerable(ph, s.now)
	}
	if wp, ok := ecs.GetComponent[*components.PlayerWeaponComponent](s.em, s.player); ok {
		snap.WeaponTier = wp.Tier
		snap.RapidStacks = wp.RapidStacks
	}

	if len(s.signals) > 0 {
		snap.Signals = append([]systems.Event(nil), s.signals...)
	}

	snap.Debug = s.counters
	snap.Debug.Entities = s.em.EntityCount()
	snap.Debug.PowerupsInFlight = s.scheduler.InFlight()
	snap.Debug.WaveElapsed = s.director.ElapsedTicks()
	snap.Debug.WaveTriggered = s.director.IsWaveTriggered()
	snap.Debug.LastWaveAt = s.director.LastWaveAt()

	snap.Entities = s.entityViews()
	return snap
}

// entityViews 按槽位顺序收集可见实体
func (s *Simulation) entityViews() []EntityView {
	ids := ecs.GetEntitiesWith2[*components.PositionComponent, *components.CollisionComponent](s.em)
	views := make([]EntityView, 0, len(ids))

	for _, id := range ids {
		pos, _ := ecs.GetComponent[*components.PositionComponent](s.em, id)
		col, _ := ecs.GetComponent[*components.CollisionComponent](s.em, id)
		view := EntityView{X: pos.Pos.X, Y: pos.Pos.Y, Width: col.Width, Height: col.Height}

		if enemy, ok := ecs.GetComponent[*components.EnemyComponent](s.em, id); ok {
			view.Kind = EntityEnemy
			view.Archetype = enemy.Archetype
			if carrier, ok := ecs.GetComponent[*components.PowerupCarrierComponent](s.em, id); ok {
				view.Powerup = carrier.Kind
			}
		} else if proj, ok := ecs.GetComponent[*components.ProjectileComponent](s.em, id); ok {
			view.Kind = EntityEnemyShot
			if proj.Faction == components.FactionPlayer {
				view.Kind = EntityPlayerShot
				view.Laser = proj.Laser
			}
		} else if pickup, ok := ecs.GetComponent[*components.PickupComponent](s.em, id); ok {
			view.Kind = EntityPickup
			view.Powerup = pickup.Kind
		} else if ecs.HasComponent[*components.BossComponent](s.em, id) {
			view.Kind = EntityBoss
		} else if ecs.HasComponent[*components.PlayerComponent](s.em, id) {
			view.Kind = EntityPlayer
		} else {
			continue
		}
		views = append(views, view)
	}
	return views
}

// CountEntities 统计指定类别的实体数量
func (snap Snapshot) CountEntities(kind EntityKind) int {
	n := 0
	for _, v := range snap.Entities {
		if v.Kind == kind {
			n++
		}
	}
	return n
}

// HasSignal 本刻是否产生了指定信号
func (snap Snapshot) HasSignal(kind systems.EventKind) bool {
	for _, e := range snap.Signals {
		if e.Kind == kind {
			return true
		}
	}
	return false
}
