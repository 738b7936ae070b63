package analytics

import (
	"regexp"
	"strconv"
	"strings"

	"resume-screener-go/internal/types"
	"resume-screener-go/pkg/utils"
)

// 各经验级别的关键词表, 级别按固定顺序评估
var experienceLevels = []types.ExperienceLevel{
	types.LevelJunior, types.LevelMid, types.LevelSenior, types.LevelExecutive,
}

var experienceKeywords = map[types.ExperienceLevel][]string{
	types.LevelJunior:    {"junior", "entry", "associate", "trainee", "intern", "graduate"},
	types.LevelMid:       {"mid-level", "intermediate", "experienced", "professional"},
	types.LevelSenior:    {"senior", "lead", "principal", "staff", "architect"},
	types.LevelExecutive: {"director", "manager", "head", "chief", "vp", "cto", "ceo"},
}

var levelWeights = map[types.ExperienceLevel]int{
	types.LevelJunior:    1,
	types.LevelMid:       2,
	types.LevelSenior:    3,
	types.LevelExecutive: 4,
}

// 工作年限解析正则
var (
	spanRe     = regexp.MustCompile(`(\d{4})\s*-\s*(\d{4})`)
	yearsNumRe = regexp.MustCompile(`(\d+)\s+years?`)
	monthsRe   = regexp.MustCompile(`(\d+)\s+months?`)
)

// AssessExperienceLevel 评估候选人经验级别。
// 综合三路信号: 全文级别关键词加权计数、日期实体推算的年限、职位名级别。
func (a *Analyzer) AssessExperienceLevel(resumeText string, entities *types.EntityRecord) types.ExperienceAssessment {
	textLower := strings.ToLower(resumeText)

	experienceScore := 0
	indicators := make(map[types.ExperienceLevel]int, len(experienceLevels))
	for _, level := range experienceLevels {
		count := 0
		for _, keyword := range experienceKeywords[level] {
			if strings.Contains(textLower, keyword) {
				count++
			}
		}
		indicators[level] = count
		experienceScore += count * levelWeights[level]
	}

	years := extractYearsExperience(entities)
	titleLevel := assessTitleLevel(entityJobTitles(entities))

	return types.ExperienceAssessment{
		OverallLevel:    determineOverallLevel(experienceScore, years, titleLevel),
		YearsExperience: years,
		TitleLevel:      titleLevel,
		ExperienceScore: experienceScore,
		LevelIndicators: indicators,
		Confidence:      entityConfidence(entities),
	}
}

// extractYearsExperience 从日期实体推算总年限。
// 每条日期按序尝试各模式并累加首个命中: 年份区间取差值,
// 至今("present"/"current")不计入, "N years"加N, "N months"加N/12。
func extractYearsExperience(entities *types.EntityRecord) float64 {
	dates := entityDates(entities)
	if len(dates) == 0 {
		return 0.0
	}

	total := 0.0
	for _, dateStr := range dates {
		lower := strings.ToLower(dateStr)

		// 至今区间("2020 - present")无结束年份, 自然贡献0年
		if m := spanRe.FindStringSubmatch(lower); m != nil {
			start, _ := strconv.Atoi(m[1])
			end, _ := strconv.Atoi(m[2])
			total += float64(end - start)
		}

		if m := yearsNumRe.FindStringSubmatch(lower); m != nil && strings.Contains(lower, "year") {
			n, _ := strconv.Atoi(m[1])
			total += float64(n)
		}
		if m := monthsRe.FindStringSubmatch(lower); m != nil && strings.Contains(lower, "month") {
			n, _ := strconv.Atoi(m[1])
			total += float64(n) / 12
		}
	}
	return utils.Round1(total)
}

// assessTitleLevel 按职位名中的级别关键词计票, 最高票级别胜出,
// 平票时按junior/mid/senior/executive的顺序取先出现者; 无职位名默认mid
func assessTitleLevel(jobTitles []string) types.ExperienceLevel {
	if len(jobTitles) == 0 {
		return types.LevelMid
	}

	scores := make(map[types.ExperienceLevel]int, len(experienceLevels))
	for _, title := range jobTitles {
		titleLower := strings.ToLower(title)
		for _, level := range experienceLevels {
			for _, keyword := range experienceKeywords[level] {
				if strings.Contains(titleLower, keyword) {
					scores[level]++
					break
				}
			}
		}
	}

	best := experienceLevels[0]
	for _, level := range experienceLevels[1:] {
		if scores[level] > scores[best] {
			best = level
		}
	}
	return best
}

// determineOverallLevel 三路信号汇总, 按严格的优先级阶梯判定
func determineOverallLevel(experienceScore int, years float64, titleLevel types.ExperienceLevel) types.ExperienceLevel {
	switch {
	case years >= 10 || titleLevel == types.LevelExecutive:
		return types.LevelExecutive
	case years >= 5 || titleLevel == types.LevelSenior || experienceScore >= 3:
		return types.LevelSenior
	case years >= 2 || titleLevel == types.LevelMid || experienceScore >= 1:
		return types.LevelMid
	default:
		return types.LevelJunior
	}
}

// entityConfidence 实体齐备度置信度: 公司0.3 + 日期0.3 + 学位0.2 + 技能0.2
func entityConfidence(entities *types.EntityRecord) float64 {
	if entities == nil {
		return 0
	}
	confidence := 0.0
	if len(entities.WorkExperience.Companies) > 0 {
		confidence += 0.3
	}
	if len(entities.WorkExperience.Dates) > 0 {
		confidence += 0.3
	}
	if len(entities.Education.Degrees) > 0 {
		confidence += 0.2
	}
	if len(entities.Skills) > 0 {
		confidence += 0.2
	}
	if confidence > 1.0 {
		confidence = 1.0
	}
	return confidence
}

func entityDates(entities *types.EntityRecord) []string {
	if entities == nil {
		return nil
	}
	return entities.WorkExperience.Dates
}

func entityJobTitles(entities *types.EntityRecord) []string {
	if entities == nil {
		return nil
	}
	return entities.WorkExperience.JobTitles
}
