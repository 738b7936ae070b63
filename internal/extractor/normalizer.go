package extractor

import (
	"fmt"
	"sort"
	"strings"
	"unicode"

	"resume-screener-go/internal/types"
	"resume-screener-go/pkg/utils"
)

// Normalizer 将标注器产出归一化为结构化实体记录
type Normalizer struct {
	vocab      *Vocabulary
	recognizer Recognizer
}

// NewNormalizer 创建实体归一化器
func NewNormalizer(vocab *Vocabulary, recognizer Recognizer) *Normalizer {
	return &Normalizer{vocab: vocab, recognizer: recognizer}
}

// Extract 从简历文本抽取结构化实体
func (n *Normalizer) Extract(text string) (*types.EntityRecord, error) {
	annotation, err := n.recognizer.Annotate(text)
	if err != nil {
		return nil, fmt.Errorf("实体抽取失败: %w", err)
	}

	lowerText := strings.ToLower(text)
	record := &types.EntityRecord{
		Skills:         n.extractSkills(text, annotation.Tokens),
		Education:      n.extractEducation(lowerText, annotation.Spans),
		WorkExperience: n.extractWorkExperience(annotation.Spans),
	}

	// 汇总计数永远由最终列表长度重新计算
	record.Summary = types.SummaryCounts{
		TotalSkills:    len(record.Skills),
		TotalCompanies: len(record.WorkExperience.Companies),
		TotalEducation: len(record.Education.Degrees) + len(record.Education.Institutions),
	}
	return record, nil
}

// extractSkills 技能词正则匹配 + 带标记子串的名词补充, 去重后排序
func (n *Normalizer) extractSkills(text string, tokens []Token) []string {
	seen := make(map[string]bool)
	var skills []string
	add := func(skill string) {
		if !seen[skill] {
			seen[skill] = true
			skills = append(skills, skill)
		}
	}

	for _, re := range n.vocab.SkillRegexps {
		for _, match := range re.FindAllString(text, -1) {
			add(match)
		}
	}

	for _, tok := range tokens {
		if tok.POS != POSNoun && tok.POS != POSProperNoun {
			continue
		}
		if len(tok.Text) <= 2 {
			continue
		}
		lower := strings.ToLower(tok.Text)
		if containsWord(n.vocab.ProperNounGuards, lower) {
			continue
		}
		for _, marker := range n.vocab.SkillMarkers {
			if strings.Contains(lower, marker) {
				add(tok.Text)
				break
			}
		}
	}

	sort.Strings(skills)
	return skills
}

// extractEducation 学位与专业按词表子串命中, 机构按ORG片段标记词筛选
func (n *Normalizer) extractEducation(lowerText string, spans []Span) types.EducationInfo {
	info := types.EducationInfo{}

	for _, word := range n.vocab.DegreeWords {
		if strings.Contains(lowerText, word) {
			info.Degrees = append(info.Degrees, titleCase(word))
		}
	}
	for _, phrase := range n.vocab.FieldPhrases {
		if strings.Contains(lowerText, phrase) {
			info.FieldsOfStudy = append(info.FieldsOfStudy, titleCase(phrase))
		}
	}

	for _, span := range spans {
		if span.Label == LabelOrg && n.isInstitution(span.Text) {
			info.Institutions = append(info.Institutions, span.Text)
		}
	}
	return info
}

// extractWorkExperience 公司/地点/职位带守卫词过滤并去重, 日期原样保留
func (n *Normalizer) extractWorkExperience(spans []Span) types.WorkExperienceInfo {
	info := types.WorkExperienceInfo{}

	var companies, locations, titles []string
	for _, span := range spans {
		switch span.Label {
		case LabelOrg:
			if n.isCompany(span.Text) {
				companies = append(companies, span.Text)
			}
		case LabelGPE:
			if n.isLocation(span.Text) {
				locations = append(locations, span.Text)
			}
		case LabelDate:
			info.Dates = append(info.Dates, span.Text)
		case LabelTitle:
			if n.containsTitleKeyword(span.Text) {
				titles = append(titles, span.Text)
			}
		}
	}

	info.Companies = utils.Dedup(companies)
	info.Locations = utils.Dedup(locations)
	info.JobTitles = utils.Dedup(titles)
	return info
}

func (n *Normalizer) isInstitution(text string) bool {
	lower := strings.ToLower(text)
	for _, marker := range n.vocab.InstitutionMarkers {
		if strings.Contains(lower, marker) {
			return true
		}
	}
	return false
}

func (n *Normalizer) isCompany(text string) bool {
	if n.isInstitution(text) {
		return false
	}
	lower := strings.ToLower(text)
	for _, guard := range n.vocab.CompanyGuards {
		if strings.Contains(lower, guard) {
			return false
		}
	}
	trimmed := strings.TrimSpace(text)
	return len(trimmed) > 2 && !containsDigit(trimmed)
}

func (n *Normalizer) isLocation(text string) bool {
	lower := strings.ToLower(text)
	for _, guard := range n.vocab.LocationGuards {
		if strings.Contains(lower, guard) {
			return false
		}
	}
	return len(text) > 1 && !containsDigit(text)
}

func (n *Normalizer) containsTitleKeyword(text string) bool {
	lower := strings.ToLower(text)
	for _, keyword := range n.vocab.TitleKeywords {
		if strings.Contains(lower, keyword) {
			return true
		}
	}
	return false
}

func containsWord(words []string, target string) bool {
	for _, word := range words {
		if word == target {
			return true
		}
	}
	return false
}

func containsDigit(text string) bool {
	for _, r := range text {
		if unicode.IsDigit(r) {
			return true
		}
	}
	return false
}

// titleCase 每个单词首字母大写
func titleCase(phrase string) string {
	words := strings.Fields(phrase)
	for i, word := range words {
		runes := []rune(word)
		runes[0] = unicode.ToUpper(runes[0])
		words[i] = string(runes)
	}
	return strings.Join(words, " ")
}
