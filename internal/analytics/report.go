package analytics

import (
	"time"

	"github.com/google/uuid"

	"resume-screener-go/internal/types"
)

// GenerateReport 生成综合筛选报告: 技能差距 + 经验评估 + 薪资估算 + 总体建议
func (a *Analyzer) GenerateReport(resumeText string, entities *types.EntityRecord, requiredSkills []string, jobTitle, location string) types.ScreeningReport {
	var candidateSkills []string
	if entities != nil {
		candidateSkills = entities.Skills
	}

	skillGap := a.AnalyzeSkillGap(candidateSkills, requiredSkills)
	experience := a.AssessExperienceLevel(resumeText, entities)
	salary := a.EstimateSalary(jobTitle, experience.OverallLevel, location, candidateSkills, entities)

	return types.ScreeningReport{
		ReportID:             uuid.NewString(),
		SkillGapAnalysis:     skillGap,
		ExperienceAssessment: experience,
		SalaryEstimation:     salary,
		Recommendation:       recommendation(skillGap, experience),
		GeneratedAt:          time.Now().Unix(),
	}
}

// recommendation 由技能覆盖率与经验级别给出录用建议
func recommendation(skillGap types.SkillGapReport, experience types.ExperienceAssessment) string {
	level := experience.OverallLevel
	coverage := skillGap.CoveragePercentage

	switch {
	case coverage >= 80 && (level == types.LevelSenior || level == types.LevelExecutive):
		return "Strong Match - Highly Recommended"
	case coverage >= 60 && (level == types.LevelMid || level == types.LevelSenior):
		return "Good Match - Recommended"
	case coverage >= 40:
		return "Moderate Match - Consider with Training"
	default:
		return "Weak Match - Not Recommended"
	}
}
