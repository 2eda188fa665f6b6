package systems

import (
	"fmt"
	"log"

	"github.com/jakecoffman/cp"

	"github.com/decker502/sforce/pkg/ecs"
	"github.com/decker502/sforce/pkg/types"
)

// PowerupDrop 携带者被击毁后掉落的道具
type PowerupDrop struct {
	Kind     types.PowerupKind
	Position cp.Vector
}

type powerupCarrier struct {
	kind       types.PowerupKind
	occurrence uint64
}

// PowerupScheduler 道具调度
// 记录每个波次实例中携带道具的敌机句柄；
// 该敌机被击毁时掉落一次，飞出画面时道具随之消失
type PowerupScheduler struct {
	carriers       map[ecs.EntityID]powerupCarrier
	lastOccurrence uint64
}

// NewPowerupScheduler 创建道具调度器
func NewPowerupScheduler() *PowerupScheduler {
	return &PowerupScheduler{carriers: make(map[ecs.EntityID]powerupCarrier)}
}

// Register 登记一个携带者
// 同一波次实例登记第二个携带者属于编程错误
func (p *PowerupScheduler) Register(id ecs.EntityID, kind types.PowerupKind, occurrence uint64) {
	if kind == types.PowerupUnknown {
		return
	}
	if occurrence <= p.lastOccurrence {
		panic(fmt.Sprintf("powerup scheduler: occurrence %d already has a carrier", occurrence))
	}
	p.lastOccurrence = occurrence
	p.carriers[id] = powerupCarrier{kind: kind, occurrence: occurrence}
	log.Printf("[PowerupScheduler] Entity %v carries %v (occurrence %d)", id, kind, occurrence)
}

// OnKilled 敌机被击毁；是携带者时返回掉落
func (p *PowerupScheduler) OnKilled(id ecs.EntityID, pos cp.Vector) (PowerupDrop, bool) {
	carrier, ok := p.carriers[id]
	if !ok {
		return PowerupDrop{}, false
	}
	delete(p.carriers, id)
	log.Printf("[PowerupScheduler] Carrier %v destroyed, dropping %v", id, carrier.kind)
	return PowerupDrop{Kind: carrier.kind, Position: pos}, true
}

// OnRemoved 敌机离开画面（非击毁），道具作废
func (p *PowerupScheduler) OnRemoved(id ecs.EntityID) {
	delete(p.carriers, id)
}

// InFlight 尚未结算的携带者数量
func (p *PowerupScheduler) InFlight() int {
	return len(p.carriers)
}

// IsCarrier 句柄是否为登记中的携带者
func (p *PowerupScheduler) IsCarrier(id ecs.EntityID) bool {
	_, ok := p.carriers[id]
	return ok
}
