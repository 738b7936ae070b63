package extractor

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/jdkato/prose/v2"
)

// 日期片段正则: 年份区间与时长表述
var (
	yearRangeRe = regexp.MustCompile(`(?i)\d{4}\s*-\s*(?:\d{4}|present|current)`)
	durationRe  = regexp.MustCompile(`(?i)\d+(?:\.\d+)?\s+(?:years?|months?)`)
)

// ProseRecognizer 基于 jdkato/prose 的统计NLP标注器。
// prose 自带的NER只覆盖 PERSON/GPE, ORG 片段由连续专有名词序列推断,
// DATE 与 TITLE 片段由规则补充。
type ProseRecognizer struct {
	vocab *Vocabulary
}

var _ Recognizer = (*ProseRecognizer)(nil)

// NewProseRecognizer 创建标注器
func NewProseRecognizer(vocab *Vocabulary) *ProseRecognizer {
	return &ProseRecognizer{vocab: vocab}
}

// Annotate 对文本做分词、词性标注与实体识别
func (p *ProseRecognizer) Annotate(text string) (*Annotation, error) {
	doc, err := prose.NewDocument(text)
	if err != nil {
		return nil, fmt.Errorf("文本标注失败: %w", err)
	}

	annotation := &Annotation{}

	// 人名集合用于排除误判的组织片段
	personTexts := make(map[string]bool)
	for _, ent := range doc.Entities() {
		switch ent.Label {
		case "GPE":
			annotation.Spans = append(annotation.Spans, Span{Label: LabelGPE, Text: ent.Text})
		case "PERSON":
			personTexts[strings.ToLower(ent.Text)] = true
		}
	}

	var properRun []string
	flushRun := func() {
		if len(properRun) == 0 {
			return
		}
		candidate := strings.Join(properRun, " ")
		properRun = properRun[:0]
		if personTexts[strings.ToLower(candidate)] {
			return
		}
		annotation.Spans = append(annotation.Spans, Span{Label: LabelOrg, Text: candidate})
	}

	for _, tok := range doc.Tokens() {
		switch tok.Tag {
		case "NNP", "NNPS":
			properRun = append(properRun, tok.Text)
			annotation.Tokens = append(annotation.Tokens, Token{Text: tok.Text, POS: POSProperNoun})
		case "NN", "NNS":
			flushRun()
			annotation.Tokens = append(annotation.Tokens, Token{Text: tok.Text, POS: POSNoun})
		default:
			flushRun()
		}
	}
	flushRun()

	for _, match := range yearRangeRe.FindAllString(text, -1) {
		annotation.Spans = append(annotation.Spans, Span{Label: LabelDate, Text: match})
	}
	for _, match := range durationRe.FindAllString(text, -1) {
		annotation.Spans = append(annotation.Spans, Span{Label: LabelDate, Text: match})
	}

	annotation.Spans = append(annotation.Spans, p.titleSpans(text)...)
	return annotation, nil
}

// titleSpans 按行扫描职位表述
func (p *ProseRecognizer) titleSpans(text string) []Span {
	var spans []Span
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(strings.TrimLeft(line, "-•* \t"))
		if line == "" || len(line) > 100 {
			continue
		}
		lower := strings.ToLower(line)
		for _, keyword := range p.vocab.TitleKeywords {
			if strings.Contains(lower, keyword) {
				spans = append(spans, Span{Label: LabelTitle, Text: line})
				break
			}
		}
	}
	return spans
}
