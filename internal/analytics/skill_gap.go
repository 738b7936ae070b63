package analytics

import (
	"sort"
	"strings"

	"resume-screener-go/internal/types"
	"resume-screener-go/pkg/utils"
)

// Analyzer 候选人画像分析器: 技能差距、经验级别与薪资估算
type Analyzer struct{}

// NewAnalyzer 创建分析器
func NewAnalyzer() *Analyzer {
	return &Analyzer{}
}

// AnalyzeSkillGap 对比候选人技能与职位要求技能, 全部比较按小写进行。
// 覆盖率 = 命中数/要求数*100, 要求为空时为0。
func (a *Analyzer) AnalyzeSkillGap(candidateSkills, requiredSkills []string) types.SkillGapReport {
	candidateSet := lowerSet(candidateSkills)
	requiredSet := lowerSet(requiredSkills)

	var missing, matching, extra []string
	for skill := range requiredSet {
		if candidateSet[skill] {
			matching = append(matching, skill)
		} else {
			missing = append(missing, skill)
		}
	}
	for skill := range candidateSet {
		if !requiredSet[skill] {
			extra = append(extra, skill)
		}
	}
	sort.Strings(missing)
	sort.Strings(matching)
	sort.Strings(extra)

	coverage := 0.0
	if len(requiredSet) > 0 {
		coverage = float64(len(matching)) / float64(len(requiredSet)) * 100
	}
	gapScore := 100 - coverage
	if gapScore < 0 {
		gapScore = 0
	}

	return types.SkillGapReport{
		MissingSkills:      missing,
		MatchingSkills:     matching,
		ExtraSkills:        extra,
		CoveragePercentage: utils.Round2(coverage),
		SkillGapScore:      utils.Round2(gapScore),
		TotalRequired:      len(requiredSet),
		TotalMatching:      len(matching),
		TotalMissing:       len(missing),
	}
}

func lowerSet(items []string) map[string]bool {
	set := make(map[string]bool, len(items))
	for _, item := range items {
		set[strings.ToLower(item)] = true
	}
	return set
}
