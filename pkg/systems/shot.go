package systems

import (
	"github.com/jakecoffman/cp"

	"github.com/decker502/sforce/pkg/components"
	"github.com/decker502/sforce/pkg/config"
	"github.com/decker502/sforce/pkg/types"
)

// ShotCommand 一发子弹的生成指令
// 武器、敌机火力和 Boss 只产出指令，由实体创建边界生成子弹实体
type ShotCommand struct {
	Position cp.Vector
	Velocity cp.Vector
	Faction  components.Faction
	Damage   int
	Lifetime types.SimTime
	Laser    bool
}

// enemyShot 敌方子弹：按角度与速度生成（角度 π/2 为正下方）
func enemyShot(origin cp.Vector, angle, speed float64) ShotCommand {
	return ShotCommand{
		Position: origin,
		Velocity: cp.ForAngle(angle).Mult(speed),
		Faction:  components.FactionEnemy,
		Damage:   1,
		Lifetime: types.TicksFromSeconds(config.EnemyBulletLifetime),
	}
}
