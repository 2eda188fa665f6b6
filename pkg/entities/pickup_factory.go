package entities

import (
	"github.com/jakecoffman/cp"

	"github.com/decker502/sforce/pkg/components"
	"github.com/decker502/sforce/pkg/config"
	"github.com/decker502/sforce/pkg/ecs"
	"github.com/decker502/sforce/pkg/types"
)

// NewPickupEntity 在敌机被击毁处生成下落的道具
func NewPickupEntity(em *ecs.EntityManager, kind types.PowerupKind, pos cp.Vector) ecs.EntityID {
	id := em.CreateEntity()

	ecs.AddComponent(em, id, &components.PositionComponent{Pos: pos})
	ecs.AddComponent(em, id, &components.VelocityComponent{Vel: cp.Vector{X: 0, Y: config.PickupFallSpeed}})
	ecs.AddComponent(em, id, &components.PickupComponent{Kind: kind})
	ecs.AddComponent(em, id, &components.CollisionComponent{
		Width:  config.PickupSize,
		Height: config.PickupSize,
	})

	return id
}
