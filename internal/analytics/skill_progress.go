package analytics

import "sort"

// SkillLevel 用户在某项技能上的熟练度
type SkillLevel struct {
	SkillName string `json:"skill_name"`
	Category  string `json:"category"`
	Level     int    `json:"level"` // 0-100
}

// CountLearnedSkills level > 0 即视为已学
func CountLearnedSkills(skills []SkillLevel) int {
	n := 0
	for _, s := range skills {
		if s.Level > 0 {
			n++
		}
	}
	return n
}

// RankSkills 按 level 降序、技能名升序排序，返回新切片
func RankSkills(skills []SkillLevel) []SkillLevel {
	ranked := make([]SkillLevel, len(skills))
	copy(ranked, skills)
	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].Level != ranked[j].Level {
			return ranked[i].Level > ranked[j].Level
		}
		return ranked[i].SkillName < ranked[j].SkillName
	})
	return ranked
}

// TopSkills 排名前 n 的技能，n <= 0 返回全部
func TopSkills(skills []SkillLevel, n int) []SkillLevel {
	ranked := RankSkills(skills)
	if n <= 0 || n >= len(ranked) {
		return ranked
	}
	return ranked[:n]
}
