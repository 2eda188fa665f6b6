// Package types 定义共享的基础类型
package types

import "fmt"

// Archetype 敌机原型（同时决定运动方式与基础属性）
// 封闭的标签变体：新增原型即新增枚举值，由 MovementSystem 显式分派
type Archetype int

const (
	// ArchetypeUnknown 未知原型（零值，加载时拒绝）
	ArchetypeUnknown Archetype = iota
	ArchetypeStraight          // 直线飞行
	ArchetypeSine              // 正弦摆动
	ArchetypeZigZag            // 折线飞行
	ArchetypeTank              // 重装慢速
	ArchetypeChaser            // 追踪玩家
)

// archetypeNames 故事板中使用的原型名称
var archetypeNames = map[Archetype]string{
	ArchetypeStraight: "straight",
	ArchetypeSine:     "sine",
	ArchetypeZigZag:   "zig_zag",
	ArchetypeTank:     "tank",
	ArchetypeChaser:   "chaser",
}

// archetypeAliases 兼容的别名（原版中直线敌机叫 grunt）
var archetypeAliases = map[string]Archetype{
	"grunt":  ArchetypeStraight,
	"zigzag": ArchetypeZigZag,
}

// ParseArchetype 将故事板字符串解析为原型
func ParseArchetype(name string) (Archetype, error) {
	for a, n := range archetypeNames {
		if n == name {
			return a, nil
		}
	}
	if a, ok := archetypeAliases[name]; ok {
		return a, nil
	}
	return ArchetypeUnknown, fmt.Errorf("unknown archetype %q", name)
}

// String 返回原型的故事板名称
func (a Archetype) String() string {
	if n, ok := archetypeNames[a]; ok {
		return n
	}
	return fmt.Sprintf("archetype(%d)", int(a))
}

// Valid 是否为已知原型
func (a Archetype) Valid() bool {
	_, ok := archetypeNames[a]
	return ok
}
