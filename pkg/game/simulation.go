package game

import (
	"errors"
	"fmt"
	"log"
	"math"

	"github.com/google/uuid"
	"github.com/jakecoffman/cp"

	"github.com/decker502/sforce/pkg/components"
	"github.com/decker502/sforce/pkg/config"
	"github.com/decker502/sforce/pkg/ecs"
	"github.com/decker502/sforce/pkg/entities"
	"github.com/decker502/sforce/pkg/systems"
	"github.com/decker502/sforce/pkg/types"
)

// RunState 一局游戏的状态
// Title → Playing ⇄ Paused → GameOver，GameOver 与 Title 都可以开新局
type RunState int

const (
	RunTitle RunState = iota
	RunPlaying
	RunPaused
	RunGameOver
)

var runStateNames = [...]string{"title", "playing", "paused", "game_over"}

func (s RunState) String() string {
	if s < RunTitle || s > RunGameOver {
		return "invalid"
	}
	return runStateNames[s]
}

var (
	// ErrRunActive 对局进行中（含暂停）不允许的操作
	ErrRunActive = errors.New("run in progress")
	// ErrNoRun 没有进行中的对局
	ErrNoRun = errors.New("no run in progress")
)

// Options 模拟选项
type Options struct {
	// Verbose 输出逐刻的详细日志
	Verbose bool
	// KeepWeaponOnLifeLoss 损失生命时保留武器等级
	KeepWeaponOnLifeLoss bool
}

// Input 一刻的语义输入
// 由外壳把键盘/手柄状态翻译而来，模拟核心不接触原始输入
type Input struct {
	MoveX       float64 `msgpack:"x"` // -1..1
	MoveY       float64 `msgpack:"y"` // -1..1
	Fire        bool    `msgpack:"f"`
	TogglePause bool    `msgpack:"p"`
}

// Simulation 模拟上下文
//
// 持有一局游戏的全部状态（实体、遭遇战进度、Boss 状态）和所有系统，
// 每刻按固定顺序调用系统。系统之间不共享全局状态，所需状态由这里显式传入。
type Simulation struct {
	storyboard *config.Storyboard
	opts       Options
	engine     *systems.DifficultyEngine

	difficulty types.DifficultyTier
	profile    systems.DifficultyProfile
	state      RunState
	runID      uuid.UUID
	now        types.SimTime

	// 每局重建
	em        *ecs.EntityManager
	encounter components.EncounterState
	boss      components.BossState
	player    ecs.EntityID

	director   *systems.WaveDirector
	arbiter    *systems.EncounterSystem
	bossFight  *systems.BossEncounter
	movement   *systems.MovementSystem
	enemyFire  *systems.EnemyFireSystem
	weapon     *systems.WeaponSystem
	health     *systems.HealthSystem
	scheduler  *systems.PowerupScheduler
	physics    *systems.PhysicsSystem
	lifetime   *systems.LifetimeSystem
	queue      *systems.EventQueue
	signals    []systems.Event
	counters   DebugCounters
}

// NewSimulation 创建模拟，初始处于标题状态，难度为 normal
func NewSimulation(storyboard *config.Storyboard, opts Options) *Simulation {
	if storyboard == nil || len(storyboard.Levels) == 0 {
		panic("simulation: storyboard has no levels")
	}
	engine := systems.NewDifficultyEngine()
	return &Simulation{
		storyboard: storyboard,
		opts:       opts,
		engine:     engine,
		difficulty: types.DifficultyNormal,
		profile:    engine.Profile(types.DifficultyNormal),
		state:      RunTitle,
	}
}

// SelectDifficulty 选择难度，仅在标题或结束画面有效
func (s *Simulation) SelectDifficulty(tier types.DifficultyTier) error {
	if s.state == RunPlaying || s.state == RunPaused {
		return fmt.Errorf("select difficulty %v: %w", tier, ErrRunActive)
	}
	if !tier.Valid() {
		return fmt.Errorf("select difficulty: unknown tier %d", int(tier))
	}
	s.difficulty = tier
	s.profile = s.engine.Profile(tier)
	log.Printf("[Simulation] Difficulty set to %v", tier)
	return nil
}

// Difficulty 当前难度
func (s *Simulation) Difficulty() types.DifficultyTier {
	return s.difficulty
}

// State 当前对局状态
func (s *Simulation) State() RunState {
	return s.state
}

// RunID 当前（或上一局）对局的标识
func (s *Simulation) RunID() uuid.UUID {
	return s.runID
}

// Now 当前模拟时刻
func (s *Simulation) Now() types.SimTime {
	return s.now
}

// StartRun 开始新的一局
func (s *Simulation) StartRun() error {
	return s.startRun(uuid.New())
}

func (s *Simulation) startRun(id uuid.UUID) error {
	if s.state == RunPlaying || s.state == RunPaused {
		return fmt.Errorf("start run: %w", ErrRunActive)
	}

	s.runID = id
	s.now = 0
	s.em = ecs.NewEntityManager()
	s.encounter = components.EncounterState{}
	s.boss = components.BossState{}
	s.signals = nil
	s.counters = DebugCounters{}

	s.director = systems.NewWaveDirector(s.em, s.storyboard, &s.encounter, systems.NewSpawnResolver())
	s.director.SetVerbose(s.opts.Verbose)
	s.arbiter = systems.NewEncounterSystem(&s.encounter, s.director)
	s.bossFight = systems.NewBossEncounter(s.em, &s.boss)
	s.movement = systems.NewMovementSystem(s.em)
	s.enemyFire = systems.NewEnemyFireSystem(s.em)
	s.weapon = systems.NewWeaponSystem(systems.WeaponOptions{KeepWeaponOnLifeLoss: s.opts.KeepWeaponOnLifeLoss})
	s.health = systems.NewHealthSystem()
	s.scheduler = systems.NewPowerupScheduler()
	s.physics = systems.NewPhysicsSystem(s.em)
	s.lifetime = systems.NewLifetimeSystem(s.em, s.scheduler.OnRemoved)
	s.queue = systems.NewEventQueue()

	s.player = entities.NewPlayerEntity(s.em)
	s.state = RunPlaying

	log.Printf("[Simulation] Run %s started (difficulty %v)", s.runID, s.difficulty)
	return nil
}

// ReturnToTitle 放弃或结束当前对局，回到标题
func (s *Simulation) ReturnToTitle() error {
	if s.state == RunTitle {
		return fmt.Errorf("return to title: %w", ErrNoRun)
	}
	s.state = RunTitle
	return nil
}

// Tick 推进一刻
//
// 固定顺序：
//  1. 暂停切换；暂停中不推进任何状态
//  2. Boss 触发检查
//  3. 波次导演（Boss 战期间冻结）与 Boss 状态机
//  4. 实体创建边界消费生成指令
//  5. 玩家移动与全部实体运动
//  6. 玩家开火、敌机开火
//  7. 碰撞检测推入事件
//  8. 按固定顺序排空事件：敌机伤害 → Boss 伤害 → 玩家受击 → 拾取 → 击毁
//  9. 寿命与出界清理，删除标记实体
func (s *Simulation) Tick(in Input) {
	switch s.state {
	case RunPaused:
		if in.TogglePause {
			s.state = RunPlaying
			s.director.Resume()
			log.Printf("[Simulation] Resumed at %.2fs", s.now.Seconds())
		}
		return
	case RunPlaying:
		if in.TogglePause {
			s.state = RunPaused
			s.director.Pause()
			log.Printf("[Simulation] Paused at %.2fs", s.now.Seconds())
			return
		}
	default:
		return
	}

	s.now++
	s.signals = s.signals[:0]
	playerPos := s.playerPosition()

	// 2-3. 遭遇战仲裁
	if s.arbiter.CheckBossTrigger() {
		s.spawnBoss()
	}

	// 导演每刻都推进：Boss 战期间计时冻结且不产生指令，但会清除上一刻的触发标记
	spawns := s.director.Update(s.now, s.profile)
	if s.encounter.BossActive {
		s.updateBoss(playerPos)
	}

	// 4. 实体创建边界
	for _, cmd := range spawns {
		id := entities.NewEnemyEntity(s.em, cmd, s.player, s.now)
		if cmd.HasPowerup() {
			s.scheduler.Register(id, cmd.Powerup, cmd.Occurrence)
		}
		s.counters.EnemiesSpawned++
	}

	// 5. 运动
	s.movePlayer(in)
	s.movement.Update(s.now)
	playerPos = s.playerPosition()

	// 6. 开火
	if in.Fire {
		if wp, ok := ecs.GetComponent[*components.PlayerWeaponComponent](s.em, s.player); ok {
			shots := s.weapon.TryFire(wp, s.now, playerPos)
			entities.NewProjectiles(s.em, shots, s.now)
			s.counters.ShotsFired += len(shots)
		}
	}
	entities.NewProjectiles(s.em, s.enemyFire.Update(s.now, s.profile, playerPos), s.now)

	// 7-8. 碰撞与事件
	s.physics.Update(s.queue, s.player)
	s.handleEvents(s.queue.Drain())
	// 击毁事件在伤害处理中产生，最后统一结算
	s.handleEvents(s.queue.Drain())

	// 9. 清理
	s.lifetime.Update(s.now)
	s.em.RemoveMarkedEntities()
}

// spawnBoss 激活 Boss 战并创建 Boss 实体
func (s *Simulation) spawnBoss() {
	s.bossFight.Activate(s.now, s.profile)
	s.bossFight.AttachEntity(entities.NewBossEntity(s.em))
	s.signals = append(s.signals, systems.Event{Kind: systems.EventBossPhaseChanged, Phase: types.BossPhaseEntry})
}

// updateBoss 推进 Boss 状态机；Boss 被击败时结算奖励并恢复波次导演
func (s *Simulation) updateBoss(playerPos cp.Vector) {
	update := s.bossFight.Update(s.now, s.profile, playerPos)
	entities.NewProjectiles(s.em, update.Shots, s.now)

	if update.PhaseChanged {
		s.signals = append(s.signals, systems.Event{
			Kind:   systems.EventBossPhaseChanged,
			Entity: s.boss.Entity,
			Phase:  update.Phase,
		})
	}
	if !update.Defeated {
		return
	}

	var pos cp.Vector
	if p, ok := ecs.GetComponent[*components.PositionComponent](s.em, s.boss.Entity); ok {
		pos = p.Pos
	}
	s.signals = append(s.signals, systems.Event{
		Kind:     systems.EventBossDefeated,
		Entity:   s.boss.Entity,
		Position: pos,
	})

	s.arbiter.AddScore(config.BossScoreValue)
	s.em.DestroyEntity(s.boss.Entity)
	s.bossFight.Deactivate()
	s.arbiter.OnBossDefeated()
}

// movePlayer 按输入移动玩家，限制在画面内
func (s *Simulation) movePlayer(in Input) {
	pos, ok := ecs.GetComponent[*components.PositionComponent](s.em, s.player)
	if !ok {
		return
	}
	dir := cp.Vector{X: clampUnit(in.MoveX), Y: clampUnit(in.MoveY)}
	if dir.LengthSq() > 1 {
		dir = dir.Normalize()
	}
	next := pos.Pos.Add(dir.Mult(config.PlayerSpeed * types.TickDelta))
	pos.Pos = cp.Vector{
		X: clamp(next.X, config.PlayerWidth/2, config.LogicalWidth-config.PlayerWidth/2),
		Y: clamp(next.Y, config.PlayerHeight/2, config.LogicalHeight-config.PlayerHeight/2),
	}
}

func clampUnit(v float64) float64 {
	if math.IsNaN(v) {
		return 0
	}
	return clamp(v, -1, 1)
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

// handleEvents 处理一批已排序的事件
func (s *Simulation) handleEvents(events []systems.Event) {
	for _, e := range events {
		switch e.Kind {
		case systems.EventEnemyHit:
			s.damageEnemy(e)
		case systems.EventBossHit:
			s.bossFight.ApplyDamage(e.Damage)
		case systems.EventPlayerHit:
			s.hitPlayer()
		case systems.EventPickup:
			s.applyPickup(e.Powerup)
		case systems.EventEnemyKilled:
			s.killEnemy(e)
		}
	}
}

// damageEnemy 扣减敌机血量，归零时推入击毁事件
func (s *Simulation) damageEnemy(e systems.Event) {
	if !s.em.IsAlive(e.Entity) || s.em.IsPendingDestroy(e.Entity) {
		return
	}
	health, ok := ecs.GetComponent[*components.HealthComponent](s.em, e.Entity)
	if !ok {
		return
	}
	health.CurrentHealth -= e.Damage
	if health.CurrentHealth > 0 {
		return
	}

	var pos cp.Vector
	if p, ok := ecs.GetComponent[*components.PositionComponent](s.em, e.Entity); ok {
		pos = p.Pos
	}
	s.em.DestroyEntity(e.Entity)
	s.queue.Push(systems.Event{Kind: systems.EventEnemyKilled, Entity: e.Entity, Source: e.Source, Position: pos})
}

// killEnemy 击毁结算：加分，携带者掉落道具
func (s *Simulation) killEnemy(e systems.Event) {
	if enemy, ok := ecs.GetComponent[*components.EnemyComponent](s.em, e.Entity); ok {
		s.arbiter.AddScore(enemy.ScoreValue)
	}
	s.counters.EnemiesKilled++
	s.signals = append(s.signals, e)

	drop, ok := s.scheduler.OnKilled(e.Entity, e.Position)
	if !ok {
		return
	}
	pickup := entities.NewPickupEntity(s.em, drop.Kind, drop.Position)
	s.signals = append(s.signals, systems.Event{
		Kind:     systems.EventPowerupDrop,
		Entity:   pickup,
		Powerup:  drop.Kind,
		Position: drop.Position,
	})
}

func (s *Simulation) hitPlayer() {
	ph, ok1 := ecs.GetComponent[*components.PlayerHealthComponent](s.em, s.player)
	wp, ok2 := ecs.GetComponent[*components.PlayerWeaponComponent](s.em, s.player)
	if !ok1 || !ok2 {
		return
	}

	switch s.health.ApplyHit(ph, s.now) {
	case systems.HitLifeLost:
		s.weapon.OnLifeLost(wp)
		s.signals = append(s.signals, systems.Event{Kind: systems.EventLifeLost, Entity: s.player})
	case systems.HitRunEnded:
		s.weapon.OnLifeLost(wp)
		s.signals = append(s.signals, systems.Event{Kind: systems.EventRunEnded, Entity: s.player})
		s.state = RunGameOver
		log.Printf("[Simulation] Run %s ended at %.2fs, score %d", s.runID, s.now.Seconds(), s.encounter.Score)
	}
}

func (s *Simulation) applyPickup(kind types.PowerupKind) {
	ph, ok1 := ecs.GetComponent[*components.PlayerHealthComponent](s.em, s.player)
	wp, ok2 := ecs.GetComponent[*components.PlayerWeaponComponent](s.em, s.player)
	if !ok1 || !ok2 {
		return
	}
	if s.weapon.ApplyPickup(wp, kind) {
		return
	}
	if !s.health.ApplyPickup(ph, kind, s.now) {
		log.Printf("[Simulation] Ignored pickup of kind %v", kind)
	}
}

func (s *Simulation) playerPosition() cp.Vector {
	if s.em == nil {
		return cp.Vector{}
	}
	if pos, ok := ecs.GetComponent[*components.PositionComponent](s.em, s.player); ok {
		return pos.Pos
	}
	return cp.Vector{X: config.PlayerStartX, Y: config.PlayerStartY}
}
