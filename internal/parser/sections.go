package parser

import (
	"regexp"
	"strings"

	"resume-screener-go/internal/types"
)

var (
	// 只折叠行内空白，保留换行符，否则章节扫描在整篇文本上失效
	horizontalSpaceRe = regexp.MustCompile(`[ \t]+`)
	blankLinesRe      = regexp.MustCompile(`\n{3,}`)
	// 清洗时保留单词字符、空白和常见标点
	punctuationRe = regexp.MustCompile(`[^\w\s.,!?;:\-()]`)
)

// 章节触发关键词，出现在某一行时切换当前章节
var sectionTriggers = []struct {
	section  types.SectionType
	keywords []string
}{
	{types.SectionExperience, []string{"experience", "work history", "employment"}},
	{types.SectionEducation, []string{"education", "academic", "degree"}},
	{types.SectionSkills, []string{"skills", "technologies", "programming"}},
}

// CleanText 归一化提取出的原始文本：折叠行内空白、压缩空行并去除罕见符号
func CleanText(text string) string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = horizontalSpaceRe.ReplaceAllString(text, " ")
	text = blankLinesRe.ReplaceAllString(text, "\n\n")
	text = punctuationRe.ReplaceAllString(text, "")
	return strings.TrimSpace(text)
}

// ExtractSections 按行扫描文本，归入固定章节集合
// 每一行归属于最近出现的章节关键词对应的章节，默认归属summary；
// full_text永远是完整文本
func ExtractSections(text string) map[types.SectionType]string {
	sections := map[types.SectionType]string{
		types.SectionFullText:   text,
		types.SectionSummary:    "",
		types.SectionExperience: "",
		types.SectionEducation:  "",
		types.SectionSkills:     "",
	}

	currentSection := types.SectionSummary

	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		lineLower := strings.ToLower(line)
		for _, trigger := range sectionTriggers {
			if containsAny(lineLower, trigger.keywords) {
				currentSection = trigger.section
				break
			}
		}

		sections[currentSection] += line + "\n"
	}

	for key := range sections {
		sections[key] = strings.TrimSpace(sections[key])
	}

	return sections
}

func containsAny(s string, substrs []string) bool {
	for _, sub := range substrs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
