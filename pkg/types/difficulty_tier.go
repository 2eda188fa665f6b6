package types

import "fmt"

// DifficultyTier 难度档位，仅能在标题画面选择
type DifficultyTier int

const (
	DifficultyEasy DifficultyTier = iota
	DifficultyNormal
	DifficultyHard
)

var difficultyNames = [...]string{"easy", "normal", "hard"}

// AllDifficultyTiers 全部难度档位（按从易到难排序）
func AllDifficultyTiers() []DifficultyTier {
	return []DifficultyTier{DifficultyEasy, DifficultyNormal, DifficultyHard}
}

// ParseDifficultyTier 解析难度名称
func ParseDifficultyTier(name string) (DifficultyTier, error) {
	for i, n := range difficultyNames {
		if n == name {
			return DifficultyTier(i), nil
		}
	}
	return DifficultyNormal, fmt.Errorf("unknown difficulty tier %q", name)
}

func (d DifficultyTier) String() string {
	if d < DifficultyEasy || d > DifficultyHard {
		return "invalid"
	}
	return difficultyNames[d]
}

// Valid 是否为已知档位
func (d DifficultyTier) Valid() bool {
	return d >= DifficultyEasy && d <= DifficultyHard
}
