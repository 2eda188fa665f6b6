package game

import (
	"fmt"
	"log"

	"github.com/quasilyte/gdata/v2"
	"gopkg.in/yaml.v3"

	"github.com/decker502/sforce/pkg/types"
)

// GameSettings 玩家设置
// 只保存偏好与最高分，不保存对局进度
type GameSettings struct {
	// 玩法设置
	Difficulty           string `yaml:"difficulty"`           // easy / normal / hard
	KeepWeaponOnLifeLoss bool   `yaml:"keepWeaponOnLifeLoss"` // 损失生命时保留武器等级

	// 记录
	HighScore int64 `yaml:"highScore"`

	// 显示设置
	Fullscreen   bool `yaml:"fullscreen"`   // 启动时是否全屏
	DebugOverlay bool `yaml:"debugOverlay"` // 是否显示调试信息
}

// DefaultSettings 返回默认设置
func DefaultSettings() *GameSettings {
	return &GameSettings{
		Difficulty:           types.DifficultyNormal.String(),
		KeepWeaponOnLifeLoss: false,
		HighScore:            0,
		Fullscreen:           false,
		DebugOverlay:         false,
	}
}

// SettingsManager 设置管理器
// 负责玩家设置的加载、保存和内存管理
type SettingsManager struct {
	gdataManager *gdata.Manager // gdata 跨平台存储管理器，可为 nil（降级模式）
	settings     *GameSettings  // 当前设置
}

// 存储路径常量
const (
	settingsObject   = "settings"
	settingsProperty = "global"
)

// NewSettingsManager 创建新的设置管理器实例
//
// 参数：
//   - gdataManager: gdata 跨平台存储管理器，可为 nil（降级模式，仅内存设置）
//
// 返回：
//   - *SettingsManager: 设置管理器实例
//   - error: 保留给调用方检查，加载失败时仍返回可用实例
func NewSettingsManager(gdataManager *gdata.Manager) (*SettingsManager, error) {
	sm := &SettingsManager{
		gdataManager: gdataManager,
		settings:     DefaultSettings(),
	}

	// 尝试加载已保存的设置
	if err := sm.Load(); err != nil {
		// 加载失败不是致命错误，使用默认设置
		log.Printf("[SettingsManager] Warning: Failed to load settings: %v (using defaults)", err)
	}

	return sm, nil
}

// Load 从 gdata 加载设置
//
// 如果 gdataManager 为 nil 或文件不存在，使用默认设置；
// 未知的难度名称回退为 normal
func (sm *SettingsManager) Load() error {
	// 降级模式：无法持久化，使用默认设置
	if sm.gdataManager == nil {
		sm.settings = DefaultSettings()
		return nil
	}

	if !sm.gdataManager.ObjectPropExists(settingsObject, settingsProperty) {
		sm.settings = DefaultSettings()
		return nil
	}

	data, err := sm.gdataManager.LoadObjectProp(settingsObject, settingsProperty)
	if err != nil {
		sm.settings = DefaultSettings()
		return fmt.Errorf("failed to load settings: %w", err)
	}

	loaded := DefaultSettings()
	if err := yaml.Unmarshal(data, loaded); err != nil {
		sm.settings = DefaultSettings()
		return fmt.Errorf("failed to unmarshal settings: %w", err)
	}
	if _, err := types.ParseDifficultyTier(loaded.Difficulty); err != nil {
		log.Printf("[SettingsManager] Warning: %v, falling back to normal", err)
		loaded.Difficulty = types.DifficultyNormal.String()
	}
	if loaded.HighScore < 0 {
		loaded.HighScore = 0
	}

	sm.settings = loaded
	log.Printf("[SettingsManager] Settings loaded successfully")
	return nil
}

// Save 保存设置到 gdata
//
// 如果 gdataManager 为 nil，返回 nil（降级模式，不报错）
func (sm *SettingsManager) Save() error {
	if sm.gdataManager == nil {
		return nil
	}

	data, err := yaml.Marshal(sm.settings)
	if err != nil {
		return fmt.Errorf("failed to marshal settings: %w", err)
	}

	if err := sm.gdataManager.SaveObjectProp(settingsObject, settingsProperty, data); err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}

	log.Printf("[SettingsManager] Settings saved successfully")
	return nil
}

// GetSettings 获取当前设置
func (sm *SettingsManager) GetSettings() *GameSettings {
	return sm.settings
}

// Difficulty 已保存的难度
func (sm *SettingsManager) Difficulty() types.DifficultyTier {
	tier, err := types.ParseDifficultyTier(sm.settings.Difficulty)
	if err != nil {
		return types.DifficultyNormal
	}
	return tier
}

// SetDifficulty 设置难度
// 注意：仅修改内存中的设置，需调用 Save() 方法持久化
func (sm *SettingsManager) SetDifficulty(tier types.DifficultyTier) {
	if !tier.Valid() {
		return
	}
	sm.settings.Difficulty = tier.String()
}

// RecordScore 记录一局的分数，返回是否刷新最高分
func (sm *SettingsManager) RecordScore(score int64) bool {
	if score <= sm.settings.HighScore {
		return false
	}
	sm.settings.HighScore = score
	return true
}

// SetKeepWeaponOnLifeLoss 设置损失生命时是否保留武器
func (sm *SettingsManager) SetKeepWeaponOnLifeLoss(keep bool) {
	sm.settings.KeepWeaponOnLifeLoss = keep
}

// SetFullscreen 设置全屏模式
func (sm *SettingsManager) SetFullscreen(enabled bool) {
	sm.settings.Fullscreen = enabled
}

// SetDebugOverlay 设置调试信息显示
func (sm *SettingsManager) SetDebugOverlay(enabled bool) {
	sm.settings.DebugOverlay = enabled
}
