package systems

import (
	"sort"

	"github.com/jakecoffman/cp"

	"github.com/decker502/sforce/pkg/ecs"
	"github.com/decker502/sforce/pkg/types"
)

// EventKind 事件类型
// 数值顺序即每刻排空队列时的处理顺序
type EventKind int

const (
	// EventEnemyHit 玩家子弹（或撞击）命中敌机
	EventEnemyHit EventKind = iota
	// EventBossHit 玩家子弹命中 Boss
	EventBossHit
	// EventPlayerHit 敌机/敌方子弹命中玩家
	EventPlayerHit
	// EventPickup 玩家拾取道具
	EventPickup
	// EventEnemyKilled 敌机被击毁（由敌机伤害处理产生）
	EventEnemyKilled

	// 以下为输出信号，供表现层（音效、特效）读取，不参与排空处理

	// EventPowerupDrop 携带者被击毁，道具开始下落
	EventPowerupDrop
	// EventBossDefeated Boss 被击败（每场 Boss 战一次）
	EventBossDefeated
	// EventLifeLost 玩家损失一条命
	EventLifeLost
	// EventRunEnded 生命耗尽，本局结束
	EventRunEnded
	// EventBossPhaseChanged Boss 阶段推进
	EventBossPhaseChanged
)

var eventKindNames = map[EventKind]string{
	EventEnemyHit:         "enemy_hit",
	EventBossHit:          "boss_hit",
	EventPlayerHit:        "player_hit",
	EventPickup:           "pickup",
	EventEnemyKilled:      "enemy_killed",
	EventPowerupDrop:      "powerup_drop",
	EventBossDefeated:     "boss_defeated",
	EventLifeLost:         "life_lost",
	EventRunEnded:         "run_ended",
	EventBossPhaseChanged: "boss_phase_changed",
}

func (k EventKind) String() string {
	if n, ok := eventKindNames[k]; ok {
		return n
	}
	return "unknown"
}

// Event 每刻产生的碰撞/拾取/状态事件
type Event struct {
	Kind     EventKind
	Entity   ecs.EntityID // 受影响的实体（敌机、Boss、道具）
	Source   ecs.EntityID // 造成事件的实体（子弹、敌机），可能为 0
	Damage   int
	Powerup  types.PowerupKind
	Phase    types.BossPhase
	Position cp.Vector
}

// EventQueue 显式的每刻事件队列
// 碰撞系统推入事件，模拟在每刻固定位置一次性排空
type EventQueue struct {
	events []Event
}

// NewEventQueue 创建事件队列
func NewEventQueue() *EventQueue {
	return &EventQueue{events: make([]Event, 0, 32)}
}

// Push 推入事件
func (q *EventQueue) Push(e Event) {
	q.events = append(q.events, e)
}

// Len 队列中的事件数
func (q *EventQueue) Len() int {
	return len(q.events)
}

// Drain 取出全部事件并清空队列
// 结果按 EventKind 稳定排序，同类事件保持推入顺序
func (q *EventQueue) Drain() []Event {
	if len(q.events) == 0 {
		return nil
	}
	out := make([]Event, len(q.events))
	copy(out, q.events)
	q.events = q.events[:0]

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Kind < out[j].Kind
	})
	return out
}
