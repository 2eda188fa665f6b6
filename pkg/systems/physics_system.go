package systems

import (
	"github.com/jakecoffman/cp"

	"github.com/decker502/sforce/pkg/components"
	"github.com/decker502/sforce/pkg/ecs"
)

// PhysicsSystem 碰撞检测
// 只检测重叠并把结果推入事件队列，伤害与拾取的结算在排空队列时进行
type PhysicsSystem struct {
	em *ecs.EntityManager
}

// NewPhysicsSystem 创建物理系统
//
// 参数:
//   - em: 实体管理器，用于查询和操作实体组件
func NewPhysicsSystem(em *ecs.EntityManager) *PhysicsSystem {
	return &PhysicsSystem{em: em}
}

// boundingBox 计算实体的轴对齐边界框（中心对齐，带偏移）
func boundingBox(pos *components.PositionComponent, col *components.CollisionComponent) cp.BB {
	center := pos.Pos.Add(cp.Vector{X: col.OffsetX, Y: col.OffsetY})
	return cp.NewBBForExtents(center, col.Width/2, col.Height/2)
}

type collider struct {
	id ecs.EntityID
	bb cp.BB
}

// gather 收集拥有位置与碰撞组件、且满足 filter 的实体
func (ps *PhysicsSystem) gather(ids []ecs.EntityID, filter func(ecs.EntityID) bool) []collider {
	out := make([]collider, 0, len(ids))
	for _, id := range ids {
		if ps.em.IsPendingDestroy(id) {
			continue
		}
		if filter != nil && !filter(id) {
			continue
		}
		pos, ok1 := ecs.GetComponent[*components.PositionComponent](ps.em, id)
		col, ok2 := ecs.GetComponent[*components.CollisionComponent](ps.em, id)
		if !ok1 || !ok2 {
			continue
		}
		out = append(out, collider{id: id, bb: boundingBox(pos, col)})
	}
	return out
}

// Update 检测本刻的全部碰撞
//
// 检测顺序（实体按槽位排序，结果确定）：
//  1. 玩家子弹 vs 敌机/Boss：每发子弹至多命中一个目标，命中后销毁
//  2. 敌机机体 vs 玩家：玩家受击，敌机被撞毁
//  3. Boss 机体 vs 玩家：玩家受击
//  4. 敌方子弹 vs 玩家：玩家受击，子弹销毁
//  5. 道具 vs 玩家：拾取，道具销毁
func (ps *PhysicsSystem) Update(queue *EventQueue, player ecs.EntityID) {
	projectiles := ecs.GetEntitiesWith1[*components.ProjectileComponent](ps.em)
	isFaction := func(f components.Faction) func(ecs.EntityID) bool {
		return func(id ecs.EntityID) bool {
			p, _ := ecs.GetComponent[*components.ProjectileComponent](ps.em, id)
			return p.Faction == f
		}
	}

	enemies := ps.gather(ecs.GetEntitiesWith2[*components.EnemyComponent, *components.HealthComponent](ps.em), nil)
	bosses := ps.gather(ecs.GetEntitiesWith1[*components.BossComponent](ps.em), nil)

	// 1. 玩家子弹
	for _, shot := range ps.gather(projectiles, isFaction(components.FactionPlayer)) {
		proj, _ := ecs.GetComponent[*components.ProjectileComponent](ps.em, shot.id)
		if target, ok := firstHit(shot.bb, enemies); ok {
			queue.Push(Event{Kind: EventEnemyHit, Entity: target, Source: shot.id, Damage: proj.Damage})
			ps.em.DestroyEntity(shot.id)
			continue
		}
		if target, ok := firstHit(shot.bb, bosses); ok {
			queue.Push(Event{Kind: EventBossHit, Entity: target, Source: shot.id, Damage: proj.Damage})
			ps.em.DestroyEntity(shot.id)
		}
	}

	if !ps.em.IsAlive(player) {
		return
	}
	playerPos, ok1 := ecs.GetComponent[*components.PositionComponent](ps.em, player)
	playerCol, ok2 := ecs.GetComponent[*components.CollisionComponent](ps.em, player)
	if !ok1 || !ok2 {
		return
	}
	playerBB := boundingBox(playerPos, playerCol)

	// 2. 撞击
	for _, enemy := range enemies {
		if !enemy.bb.Intersects(playerBB) {
			continue
		}
		health, _ := ecs.GetComponent[*components.HealthComponent](ps.em, enemy.id)
		queue.Push(Event{Kind: EventPlayerHit, Source: enemy.id})
		queue.Push(Event{Kind: EventEnemyHit, Entity: enemy.id, Source: player, Damage: health.CurrentHealth})
	}

	// 3. Boss 机体
	for _, boss := range bosses {
		if boss.bb.Intersects(playerBB) {
			queue.Push(Event{Kind: EventPlayerHit, Source: boss.id})
		}
	}

	// 4. 敌方子弹
	for _, shot := range ps.gather(projectiles, isFaction(components.FactionEnemy)) {
		if shot.bb.Intersects(playerBB) {
			queue.Push(Event{Kind: EventPlayerHit, Source: shot.id})
			ps.em.DestroyEntity(shot.id)
		}
	}

	// 5. 道具
	for _, pickup := range ps.gather(ecs.GetEntitiesWith1[*components.PickupComponent](ps.em), nil) {
		if !pickup.bb.Intersects(playerBB) {
			continue
		}
		comp, _ := ecs.GetComponent[*components.PickupComponent](ps.em, pickup.id)
		queue.Push(Event{Kind: EventPickup, Entity: pickup.id, Powerup: comp.Kind})
		ps.em.DestroyEntity(pickup.id)
	}
}

func firstHit(bb cp.BB, targets []collider) (ecs.EntityID, bool) {
	for _, t := range targets {
		if bb.Intersects(t.bb) {
			return t.id, true
		}
	}
	return 0, false
}
