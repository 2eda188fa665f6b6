package ecs

import (
	"fmt"
	"reflect"
	"sort"
)

// EntityID 是实体句柄：低 32 位为槽位索引，高 32 位为代数
//
// 槽位被回收复用时代数递增，旧句柄因代数不匹配而失效，
// 因此缓存的句柄（例如追踪者缓存的目标）不会误指向复用槽位上的新实体。
// 0 保留为无效句柄。
type EntityID uint64

const indexBits = 32

func makeEntityID(index, generation uint32) EntityID {
	return EntityID(uint64(generation)<<indexBits | uint64(index))
}

// Index 返回槽位索引
func (id EntityID) Index() uint32 {
	return uint32(id)
}

// Generation 返回代数
func (id EntityID) Generation() uint32 {
	return uint32(uint64(id) >> indexBits)
}

// Valid 是否为非零句柄（不代表实体仍存活，存活请用 IsAlive）
func (id EntityID) Valid() bool {
	return id != 0
}

func (id EntityID) String() string {
	return fmt.Sprintf("%d#%d", id.Index(), id.Generation())
}

// EntityManager 管理所有实体和组件
// 实体存放在带代数的索引池中，槽位通过空闲链表复用
type EntityManager struct {
	// generations[i] 为槽位 i 当前代数；索引 0 不使用
	generations []uint32
	alive       []bool
	free        []uint32

	// 实体-组件映射: EntityID -> ComponentType -> Component实例
	components map[EntityID]map[reflect.Type]interface{}
	// 待删除的实体ID列表
	entitiesToDestroy []EntityID
}

// NewEntityManager 创建一个新的 EntityManager 实例
func NewEntityManager() *EntityManager {
	return &EntityManager{
		generations:       []uint32{0}, // 槽位 0 保留,保证有效句柄非零
		alive:             []bool{false},
		components:        make(map[EntityID]map[reflect.Type]interface{}),
		entitiesToDestroy: make([]EntityID, 0),
	}
}

// CreateEntity 创建新实体并返回句柄
// 优先复用空闲槽位（后进先出），新槽位代数从 1 开始
func (em *EntityManager) CreateEntity() EntityID {
	var index uint32
	if n := len(em.free); n > 0 {
		index = em.free[n-1]
		em.free = em.free[:n-1]
	} else {
		index = uint32(len(em.generations))
		em.generations = append(em.generations, 0)
		em.alive = append(em.alive, false)
	}
	em.generations[index]++
	em.alive[index] = true

	id := makeEntityID(index, em.generations[index])
	em.components[id] = make(map[reflect.Type]interface{})
	return id
}

// IsAlive 句柄是否仍指向存活实体（代数匹配）
func (em *EntityManager) IsAlive(id EntityID) bool {
	index := id.Index()
	if index == 0 || int(index) >= len(em.generations) {
		return false
	}
	return em.alive[index] && em.generations[index] == id.Generation()
}

// DestroyEntity 标记实体待删除(不立即删除)
// 已失效的句柄被忽略
func (em *EntityManager) DestroyEntity(id EntityID) {
	if !em.IsAlive(id) {
		return
	}
	for _, pending := range em.entitiesToDestroy {
		if pending == id {
			return
		}
	}
	em.entitiesToDestroy = append(em.entitiesToDestroy, id)
}

// IsPendingDestroy 实体是否已被标记删除
func (em *EntityManager) IsPendingDestroy(id EntityID) bool {
	for _, pending := range em.entitiesToDestroy {
		if pending == id {
			return true
		}
	}
	return false
}

// AddComponent 为实体添加组件
func (em *EntityManager) AddComponent(id EntityID, component interface{}) {
	componentType := reflect.TypeOf(component)
	if compMap, exists := em.components[id]; exists {
		compMap[componentType] = component
	}
}

// RemoveComponent 从实体移除指定类型的组件
func (em *EntityManager) RemoveComponent(id EntityID, componentType reflect.Type) {
	if compMap, exists := em.components[id]; exists {
		delete(compMap, componentType)
	}
}

// GetComponent 获取实体的特定类型组件
func (em *EntityManager) GetComponent(id EntityID, componentType reflect.Type) (interface{}, bool) {
	if compMap, exists := em.components[id]; exists {
		if comp, found := compMap[componentType]; found {
			return comp, true
		}
	}
	return nil, false
}

// HasComponent 检查实体是否拥有特定类型组件
func (em *EntityManager) HasComponent(id EntityID, componentType reflect.Type) bool {
	if compMap, exists := em.components[id]; exists {
		_, found := compMap[componentType]
		return found
	}
	return false
}

// RemoveMarkedEntities 清理所有标记删除的实体
// 被删除实体的槽位进入空闲链表，代数在下次复用时递增
func (em *EntityManager) RemoveMarkedEntities() {
	for _, id := range em.entitiesToDestroy {
		if !em.IsAlive(id) {
			continue
		}
		delete(em.components, id)
		index := id.Index()
		em.alive[index] = false
		em.free = append(em.free, index)
	}
	em.entitiesToDestroy = em.entitiesToDestroy[:0] // 清空切片
}

// Clear 删除所有实体（新一局开始时调用）
// 代数保留，旧句柄在清空后依然失效
func (em *EntityManager) Clear() {
	em.entitiesToDestroy = em.entitiesToDestroy[:0]
	for _, id := range em.GetEntitiesWith() {
		em.entitiesToDestroy = append(em.entitiesToDestroy, id)
	}
	em.RemoveMarkedEntities()
}

// EntityCount 返回存活实体数量
func (em *EntityManager) EntityCount() int {
	return len(em.components)
}

// GetEntitiesWith 查询拥有指定组件类型组合的所有实体
// 参数: componentTypes ...reflect.Type - 需要的组件类型列表
// 返回: []EntityID - 满足条件的实体ID列表，按槽位索引升序（保证遍历顺序确定）
func (em *EntityManager) GetEntitiesWith(componentTypes ...reflect.Type) []EntityID {
	result := make([]EntityID, 0)

	for id, compMap := range em.components {
		hasAll := true
		for _, ct := range componentTypes {
			if _, found := compMap[ct]; !found {
				hasAll = false
				break
			}
		}
		if hasAll {
			result = append(result, id)
		}
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].Index() < result[j].Index()
	})
	return result
}
