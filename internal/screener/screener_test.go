package screener

import (
	"context"
	"io"
	"testing"

	einoembedding "github.com/cloudwego/eino/components/embedding"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resume-screener-go/internal/analytics"
	"resume-screener-go/internal/config"
	"resume-screener-go/internal/embedding"
	"resume-screener-go/internal/extractor"
	"resume-screener-go/internal/matching"
	"resume-screener-go/internal/types"
)

// mockEmbedder 按文本长度生成确定性向量
type mockEmbedder struct{}

func (m *mockEmbedder) EmbedStrings(ctx context.Context, texts []string, opts ...einoembedding.Option) ([][]float64, error) {
	result := make([][]float64, 0, len(texts))
	for _, text := range texts {
		result = append(result, []float64{float64(len(text)), 1, 0})
	}
	return result, nil
}

// mockLoader 返回固定文本的文档加载器
type mockLoader struct {
	text string
	err  error
}

func (m *mockLoader) Parse(ctx context.Context, filePath string) (string, error) {
	return m.text, m.err
}

func (m *mockLoader) ParseReader(ctx context.Context, reader io.Reader, filename string) (string, error) {
	return m.text, m.err
}

// mockRecognizer 返回固定标注的实体标注器
type mockRecognizer struct {
	annotation *extractor.Annotation
}

func (m *mockRecognizer) Annotate(text string) (*extractor.Annotation, error) {
	if m.annotation != nil {
		return m.annotation, nil
	}
	return &extractor.Annotation{}, nil
}

func newTestScreener(t *testing.T, loader *mockLoader) *Screener {
	t.Helper()

	cfg := &config.Config{}
	cfg.Matcher.DefaultTopK = 5
	cfg.Matcher.SkipDuplicates = true

	vocab, err := extractor.NewVocabulary(config.ExtractorConfig{})
	require.NoError(t, err)
	normalizer := extractor.NewNormalizer(vocab, &mockRecognizer{})
	engine := matching.NewEngine(embedding.NewCache(&mockEmbedder{}))

	return NewScreener(cfg, loader, normalizer, engine, analytics.NewAnalyzer())
}

const sampleResume = `Senior Python Developer

Experience
Acme Corp, 2018 - 2022
Built Docker pipelines

Skills
Python, Docker, AWS`

func TestAddResumeTextAndDetails(t *testing.T) {
	s := newTestScreener(t, &mockLoader{})
	ctx := context.Background()

	result, err := s.AddResumeText(ctx, sampleResume)
	require.NoError(t, err)
	require.NotEmpty(t, result.ResumeID)
	assert.False(t, result.Duplicate)
	assert.Contains(t, result.Sections, types.SectionFullText)
	assert.Contains(t, result.Sections, types.SectionExperience)
	assert.Contains(t, result.Sections, types.SectionSkills)

	details, err := s.GetResumeDetails(ctx, result.ResumeID)
	require.NoError(t, err)
	assert.True(t, details.HasEmbedding)
	require.NotNil(t, details.Entities)
	// 技能词正则命中 AWS/Docker/Python
	assert.Equal(t, []string{"AWS", "Docker", "Python"}, details.Entities.Skills)
}

func TestAddResumeTextEmpty(t *testing.T) {
	s := newTestScreener(t, &mockLoader{})

	_, err := s.AddResumeText(context.Background(), "")
	assert.ErrorIs(t, err, ErrEmptyResumeText)
}

func TestAddResumeDuplicateDetection(t *testing.T) {
	s := newTestScreener(t, &mockLoader{})
	ctx := context.Background()

	first, err := s.AddResumeText(ctx, sampleResume)
	require.NoError(t, err)

	second, err := s.AddResumeText(ctx, sampleResume)
	require.NoError(t, err)
	assert.True(t, second.Duplicate)
	// 重复内容返回已有简历ID
	assert.Equal(t, first.ResumeID, second.ResumeID)

	stats := s.Stats(ctx)
	assert.Equal(t, 1, stats.TotalResumes)
}

func TestAddResumeFile(t *testing.T) {
	s := newTestScreener(t, &mockLoader{text: sampleResume})
	ctx := context.Background()

	result, err := s.AddResumeFile(ctx, "/tmp/resume.pdf")
	require.NoError(t, err)
	assert.Equal(t, "/tmp/resume.pdf", result.FilePath)

	_, err = s.AddResumeFile(ctx, "/tmp/broken.pdf")
	require.NoError(t, err) // 同一loader文本, 命中去重
}

func TestAddResumeFileParseError(t *testing.T) {
	s := newTestScreener(t, &mockLoader{err: assert.AnError})

	_, err := s.AddResumeFile(context.Background(), "/tmp/resume.pdf")
	assert.Error(t, err)
}

func TestFindMatches(t *testing.T) {
	s := newTestScreener(t, &mockLoader{})
	ctx := context.Background()

	_, err := s.AddResumeText(ctx, sampleResume)
	require.NoError(t, err)
	_, err = s.AddResumeText(ctx, "Java backend engineer with Spring experience")
	require.NoError(t, err)

	results, err := s.FindMatches(ctx, "Looking for a Python developer", 0, true)
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.NotNil(t, results[0].Entities)

	_, err = s.FindMatches(ctx, "", 5, false)
	assert.ErrorIs(t, err, ErrEmptyJobDescription)
}

func TestMatchSingleResumeNotFound(t *testing.T) {
	s := newTestScreener(t, &mockLoader{})

	_, err := s.MatchSingleResume(context.Background(), "missing-id", "some job")
	assert.ErrorIs(t, err, ErrResumeNotFound)
}

func TestAnalyzeMatchQuality(t *testing.T) {
	s := newTestScreener(t, &mockLoader{})
	ctx := context.Background()

	report, err := s.AnalyzeMatchQuality(ctx, "any job", 3)
	require.NoError(t, err)
	assert.Equal(t, 0, report.TotalMatches)

	_, err = s.AddResumeText(ctx, sampleResume)
	require.NoError(t, err)

	report, err = s.AnalyzeMatchQuality(ctx, "Python developer needed", 3)
	require.NoError(t, err)
	assert.Equal(t, 1, report.TotalMatches)
	assert.Equal(t, report.TopMatchScore, report.ScoreRangeMax)
	assert.Equal(t, report.AverageScore, report.TopMatchScore)
}

func TestAnalyzeSkillGapByResumeID(t *testing.T) {
	s := newTestScreener(t, &mockLoader{})
	ctx := context.Background()

	result, err := s.AddResumeText(ctx, sampleResume)
	require.NoError(t, err)

	report, err := s.AnalyzeSkillGap(ctx, result.ResumeID, nil, []string{"Python", "Kubernetes"})
	require.NoError(t, err)
	assert.Equal(t, []string{"python"}, report.MatchingSkills)
	assert.Equal(t, []string{"kubernetes"}, report.MissingSkills)

	_, err = s.AnalyzeSkillGap(ctx, "missing-id", nil, []string{"Python"})
	assert.ErrorIs(t, err, ErrResumeNotFound)
}

func TestAssessExperienceAndSalary(t *testing.T) {
	s := newTestScreener(t, &mockLoader{})
	ctx := context.Background()

	result, err := s.AddResumeText(ctx, sampleResume)
	require.NoError(t, err)

	assessment, err := s.AssessExperience(ctx, result.ResumeID)
	require.NoError(t, err)
	assert.NotEmpty(t, assessment.OverallLevel)

	estimate, err := s.EstimateSalary(ctx, result.ResumeID, "Software Engineer", "Denver")
	require.NoError(t, err)
	assert.Equal(t, "software_engineer", estimate.BaseRole)
	assert.Equal(t, 1.1, estimate.LocationMultiplier)
}

func TestGenerateReport(t *testing.T) {
	s := newTestScreener(t, &mockLoader{})
	ctx := context.Background()

	result, err := s.AddResumeText(ctx, sampleResume)
	require.NoError(t, err)

	report, err := s.GenerateReport(ctx, result.ResumeID, []string{"Python", "Docker"}, "Software Engineer", "")
	require.NoError(t, err)
	assert.Equal(t, result.ResumeID, report.ResumeID)
	assert.NotEmpty(t, report.ReportID)
	assert.Equal(t, 100.0, report.SkillGapAnalysis.CoveragePercentage)
	assert.NotEmpty(t, report.Recommendation)
}

func TestRemoveAndClear(t *testing.T) {
	s := newTestScreener(t, &mockLoader{})
	ctx := context.Background()

	result, err := s.AddResumeText(ctx, sampleResume)
	require.NoError(t, err)

	assert.True(t, s.RemoveResume(ctx, result.ResumeID))
	assert.False(t, s.RemoveResume(ctx, result.ResumeID))

	_, err = s.AddResumeText(ctx, sampleResume)
	require.NoError(t, err)
	s.ClearAll(ctx)
	assert.Empty(t, s.ListResumes(ctx))
	assert.Equal(t, 0, s.Stats(ctx).TotalResumes)
}
