package extractor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resume-screener-go/internal/config"
)

// mockRecognizer 固定标注结果的测试标注器
type mockRecognizer struct {
	annotation *Annotation
	err        error
}

func (m *mockRecognizer) Annotate(text string) (*Annotation, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.annotation, nil
}

func newTestNormalizer(t *testing.T, recognizer Recognizer) *Normalizer {
	t.Helper()
	vocab, err := NewVocabulary(config.ExtractorConfig{})
	require.NoError(t, err)
	return NewNormalizer(vocab, recognizer)
}

func TestExtractSkills(t *testing.T) {
	mock := &mockRecognizer{annotation: &Annotation{
		Tokens: []Token{
			{Text: "visualization", POS: POSNoun}, // 不含标记子串
			{Text: "TechStack", POS: POSProperNoun},
			{Text: "TechCorp", POS: POSProperNoun}, // 守卫词, 应跳过
			{Text: "toolchain", POS: POSNoun},
		},
	}}
	normalizer := newTestNormalizer(t, mock)

	record, err := normalizer.Extract("Experienced in Python, Docker and Machine Learning. Python daily.")
	require.NoError(t, err)

	// 去重后按字典序排序
	assert.Equal(t, []string{"Docker", "Machine Learning", "Python", "TechStack", "toolchain"}, record.Skills)
	assert.Equal(t, 5, record.Summary.TotalSkills)
}

func TestExtractEducation(t *testing.T) {
	mock := &mockRecognizer{annotation: &Annotation{
		Spans: []Span{
			{Label: LabelOrg, Text: "Stanford University"},
			{Label: LabelOrg, Text: "Acme Corp"},
		},
	}}
	normalizer := newTestNormalizer(t, mock)

	record, err := normalizer.Extract("Master of Science in Computer Science, bachelor degree in data science")
	require.NoError(t, err)

	assert.Equal(t, []string{"Bachelor", "Master"}, record.Education.Degrees)
	assert.Equal(t, []string{"Stanford University"}, record.Education.Institutions)
	assert.Contains(t, record.Education.FieldsOfStudy, "Computer Science")
	assert.Contains(t, record.Education.FieldsOfStudy, "Data Science")
	// 学位数 + 机构数
	assert.Equal(t, 3, record.Summary.TotalEducation)
}

func TestExtractCompanies(t *testing.T) {
	mock := &mockRecognizer{annotation: &Annotation{
		Spans: []Span{
			{Label: LabelOrg, Text: "Acme Corp"},
			{Label: LabelOrg, Text: "Acme Corp"},           // 重复, 去重
			{Label: LabelOrg, Text: "Stanford University"}, // 教育机构, 排除
			{Label: LabelOrg, Text: "GitHub Inc"},          // 含技能守卫词, 排除
			{Label: LabelOrg, Text: "Co"},                  // 过短, 排除
			{Label: LabelOrg, Text: "Area 51"},             // 含数字, 排除
		},
	}}
	normalizer := newTestNormalizer(t, mock)

	record, err := normalizer.Extract("worked at various places")
	require.NoError(t, err)

	assert.Equal(t, []string{"Acme Corp"}, record.WorkExperience.Companies)
	assert.Equal(t, 1, record.Summary.TotalCompanies)
}

func TestExtractLocationsAndDates(t *testing.T) {
	mock := &mockRecognizer{annotation: &Annotation{
		Spans: []Span{
			{Label: LabelGPE, Text: "San Francisco"},
			{Label: LabelGPE, Text: "San Francisco"},
			{Label: LabelGPE, Text: "Django"}, // 守卫词, 排除
			{Label: LabelDate, Text: "2018 - 2022"},
			{Label: LabelDate, Text: "2018 - 2022"}, // 日期不去重
			{Label: LabelDate, Text: "5 years"},
		},
	}}
	normalizer := newTestNormalizer(t, mock)

	record, err := normalizer.Extract("lived somewhere")
	require.NoError(t, err)

	assert.Equal(t, []string{"San Francisco"}, record.WorkExperience.Locations)
	assert.Equal(t, []string{"2018 - 2022", "2018 - 2022", "5 years"}, record.WorkExperience.Dates)
}

func TestExtractJobTitles(t *testing.T) {
	mock := &mockRecognizer{annotation: &Annotation{
		Spans: []Span{
			{Label: LabelTitle, Text: "Senior Software Engineer"},
			{Label: LabelTitle, Text: "Senior Software Engineer"},
			{Label: LabelTitle, Text: "Hobby Painter"}, // 无职位关键词, 排除
		},
	}}
	normalizer := newTestNormalizer(t, mock)

	record, err := normalizer.Extract("career history")
	require.NoError(t, err)

	assert.Equal(t, []string{"Senior Software Engineer"}, record.WorkExperience.JobTitles)
}

func TestExtractRecognizerError(t *testing.T) {
	mock := &mockRecognizer{err: assert.AnError}
	normalizer := newTestNormalizer(t, mock)

	_, err := normalizer.Extract("some text")
	assert.Error(t, err)
}
