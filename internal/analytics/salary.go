package analytics

import (
	"strings"

	"resume-screener-go/internal/types"
)

// 基准角色的薪资表（年薪美元）, "lead"档位保留给显式传入的级别
var salaryRanges = map[string]map[string]types.SalaryRange{
	"software_engineer": {
		"junior": {Min: 60000, Max: 90000},
		"mid":    {Min: 80000, Max: 130000},
		"senior": {Min: 120000, Max: 180000},
		"lead":   {Min: 150000, Max: 220000},
	},
	"data_scientist": {
		"junior": {Min: 70000, Max: 100000},
		"mid":    {Min: 90000, Max: 140000},
		"senior": {Min: 130000, Max: 190000},
		"lead":   {Min: 160000, Max: 240000},
	},
	"product_manager": {
		"junior": {Min: 65000, Max: 95000},
		"mid":    {Min: 85000, Max: 140000},
		"senior": {Min: 130000, Max: 190000},
		"lead":   {Min: 160000, Max: 250000},
	},
	"devops_engineer": {
		"junior": {Min: 65000, Max: 95000},
		"mid":    {Min: 85000, Max: 140000},
		"senior": {Min: 130000, Max: 180000},
		"lead":   {Min: 150000, Max: 220000},
	},
}

// 地区调整系数, 按声明顺序取首个子串命中
var locationMultipliers = []struct {
	name       string
	multiplier float64
}{
	{"san francisco", 1.4},
	{"new york", 1.35},
	{"seattle", 1.25},
	{"austin", 1.15},
	{"denver", 1.1},
	{"remote", 0.95},
}

// 高溢价技能, 命中越多奖励越高
var premiumSkills = map[string]bool{
	"machine learning": true, "ai": true, "python": true, "aws": true,
	"kubernetes": true, "docker": true, "react": true, "node.js": true,
}

// EstimateSalary 按职位名归类基准角色并估算薪资区间。
// 级别在薪资表中无对应档位时(如executive)回退到mid档。
func (a *Analyzer) EstimateSalary(jobTitle string, level types.ExperienceLevel, location string, skills []string, entities *types.EntityRecord) types.SalaryEstimate {
	baseRole := categorizeJobTitle(jobTitle)

	baseRange, ok := salaryRanges[baseRole][string(level)]
	if !ok {
		baseRange = salaryRanges[baseRole]["mid"]
	}

	locationMultiplier := 1.0
	if location != "" {
		locationLower := strings.ToLower(location)
		for _, entry := range locationMultipliers {
			if strings.Contains(locationLower, entry.name) {
				locationMultiplier = entry.multiplier
				break
			}
		}
	}

	skillBonus := calculateSkillBonus(skills)
	experienceBonus := calculateExperienceBonus(entities)

	factor := locationMultiplier * (1 + skillBonus + experienceBonus)
	minSalary := int(float64(baseRange.Min) * factor)
	maxSalary := int(float64(baseRange.Max) * factor)

	return types.SalaryEstimate{
		Range:              types.SalaryRange{Min: minSalary, Max: maxSalary},
		BaseRole:           baseRole,
		ExperienceLevel:    level,
		LocationMultiplier: locationMultiplier,
		SkillBonus:         skillBonus,
		ExperienceBonus:    experienceBonus,
		EstimatedMidpoint:  (minSalary + maxSalary) / 2,
		Confidence:         salaryConfidence(entities, skills),
	}
}

// categorizeJobTitle 职位名归类到四个基准角色之一
func categorizeJobTitle(jobTitle string) string {
	titleLower := strings.ToLower(jobTitle)

	switch {
	case containsAnyWord(titleLower, "data", "analytics", "ml", "ai", "machine learning"):
		return "data_scientist"
	case containsAnyWord(titleLower, "product", "pm", "manager"):
		return "product_manager"
	case containsAnyWord(titleLower, "devops", "infrastructure", "platform"):
		return "devops_engineer"
	default:
		return "software_engineer"
	}
}

// calculateSkillBonus 每个高溢价技能+5%, 上限20%
func calculateSkillBonus(skills []string) float64 {
	count := 0
	for _, skill := range skills {
		if premiumSkills[strings.ToLower(skill)] {
			count++
		}
	}
	bonus := float64(count) * 0.05
	if bonus > 0.2 {
		bonus = 0.2
	}
	return bonus
}

// calculateExperienceBonus 每年工作经验+1%, 上限15%
func calculateExperienceBonus(entities *types.EntityRecord) float64 {
	bonus := extractYearsExperience(entities) * 0.01
	if bonus > 0.15 {
		bonus = 0.15
	}
	return bonus
}

// salaryConfidence 基础0.5, 公司+0.2, 日期+0.2, 技能超过5个+0.1, 上限1.0
func salaryConfidence(entities *types.EntityRecord, skills []string) float64 {
	confidence := 0.5
	if entities != nil {
		if len(entities.WorkExperience.Companies) > 0 {
			confidence += 0.2
		}
		if len(entities.WorkExperience.Dates) > 0 {
			confidence += 0.2
		}
	}
	if len(skills) > 5 {
		confidence += 0.1
	}
	if confidence > 1.0 {
		confidence = 1.0
	}
	return confidence
}

func containsAnyWord(text string, words ...string) bool {
	for _, word := range words {
		if strings.Contains(text, word) {
			return true
		}
	}
	return false
}
