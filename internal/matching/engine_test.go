package matching

import (
	"context"
	"testing"

	einoembedding "github.com/cloudwego/eino/components/embedding"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resume-screener-go/internal/embedding"
	"resume-screener-go/internal/types"
)

// mockEmbedder 返回预设向量的测试嵌入器
type mockEmbedder struct {
	vectors map[string][]float64
}

func (m *mockEmbedder) EmbedStrings(ctx context.Context, texts []string, opts ...einoembedding.Option) ([][]float64, error) {
	result := make([][]float64, 0, len(texts))
	for _, text := range texts {
		if v, ok := m.vectors[text]; ok {
			result = append(result, v)
		} else {
			result = append(result, []float64{0, 0, 1})
		}
	}
	return result, nil
}

func newTestEngine(vectors map[string][]float64) *Engine {
	return NewEngine(embedding.NewCache(&mockEmbedder{vectors: vectors}))
}

func addRecord(t *testing.T, engine *Engine, id, text string, sections map[types.SectionType]string) {
	t.Helper()
	require.NoError(t, engine.AddResume(context.Background(), &types.ResumeRecord{
		ResumeID: id,
		Text:     text,
		Sections: sections,
	}))
}

func TestMatchJobToResumes(t *testing.T) {
	engine := newTestEngine(map[string][]float64{
		"python developer with django skills": {1, 0, 0},
		"java enterprise developer":           {0, 1, 0},
		"python and java generalist":          {1, 1, 0},
		"looking for python developer":        {1, 0, 0},
	})
	ctx := context.Background()

	addRecord(t, engine, "r1", "python developer with django skills", map[types.SectionType]string{
		types.SectionFullText: "python developer with django skills",
		types.SectionSkills:   "python django",
	})
	addRecord(t, engine, "r2", "java enterprise developer", nil)
	addRecord(t, engine, "r3", "python and java generalist", nil)

	results, err := engine.MatchJobToResumes(ctx, "looking for python developer", 2, true)
	require.NoError(t, err)
	require.Len(t, results, 2)

	assert.Equal(t, "r1", results[0].ResumeID)
	assert.Equal(t, 100.0, results[0].MatchScore)
	assert.InDelta(t, 1.0, results[0].RawScore, 1e-9)
	// 匹配词: 公共词去停用词、去短词后按字典序
	assert.Equal(t, []string{"developer", "python"}, results[0].MatchedTerms)
	assert.Equal(t, []types.SectionType{types.SectionFullText, types.SectionSkills}, results[0].Sections)

	assert.Equal(t, "r3", results[1].ResumeID)
	assert.InDelta(t, 70.71, results[1].MatchScore, 0.01)
}

func TestMatchJobToResumesEmptyCorpus(t *testing.T) {
	engine := newTestEngine(nil)

	results, err := engine.MatchJobToResumes(context.Background(), "any job", 5, false)
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestMatchSingleResume(t *testing.T) {
	engine := newTestEngine(map[string][]float64{
		"full text here":  {1, 0, 0},
		"skills section":  {1, 1, 0},
		"job description": {1, 0, 0},
	})
	ctx := context.Background()

	addRecord(t, engine, "r1", "full text here", map[types.SectionType]string{
		types.SectionSkills: "skills section",
	})

	result, err := engine.MatchSingleResume(ctx, "r1", "job description")
	require.NoError(t, err)
	assert.Equal(t, 100.0, result.MatchScore)
	// 区块得分同样缩放到百分制并保留两位小数
	assert.InDelta(t, 70.71, result.SectionScores[types.SectionSkills], 0.01)

	_, err = engine.MatchSingleResume(ctx, "missing", "job description")
	assert.ErrorIs(t, err, ErrResumeNotFound)
}

func TestRemoveResume(t *testing.T) {
	engine := newTestEngine(nil)
	addRecord(t, engine, "r1", "some resume text", nil)

	assert.True(t, engine.RemoveResume("r1"))
	assert.False(t, engine.RemoveResume("r1"))

	_, ok := engine.GetRecord("r1")
	assert.False(t, ok)
}

func TestGetResumeInfo(t *testing.T) {
	engine := newTestEngine(nil)
	addRecord(t, engine, "r1", "some resume text", map[types.SectionType]string{
		types.SectionFullText: "some resume text",
		types.SectionSkills:   "go docker",
	})

	info, ok := engine.GetResumeInfo("r1")
	require.True(t, ok)
	assert.Equal(t, "r1", info.ResumeID)
	assert.Equal(t, len("some resume text"), info.TextLength)
	assert.Equal(t, []types.SectionType{types.SectionFullText, types.SectionSkills}, info.Sections)

	info, ok = engine.GetResumeInfo("missing")
	assert.False(t, ok)
	assert.Nil(t, info)
}

func TestClearAllAndStats(t *testing.T) {
	engine := newTestEngine(nil)
	addRecord(t, engine, "r1", "first resume", nil)
	addRecord(t, engine, "r2", "second resume", nil)

	total, cacheStats := engine.Stats()
	assert.Equal(t, 2, total)
	assert.Equal(t, 2, cacheStats.EmbeddingCacheSize)

	engine.ClearAll()
	total, cacheStats = engine.Stats()
	assert.Equal(t, 0, total)
	assert.Equal(t, 0, cacheStats.EmbeddingCacheSize)
}

func TestFindByMD5(t *testing.T) {
	engine := newTestEngine(nil)
	require.NoError(t, engine.AddResume(context.Background(), &types.ResumeRecord{
		ResumeID:   "r1",
		Text:       "resume body",
		RawTextMD5: "abc123",
	}))

	record, ok := engine.FindByMD5("abc123")
	require.True(t, ok)
	assert.Equal(t, "r1", record.ResumeID)

	_, ok = engine.FindByMD5("missing")
	assert.False(t, ok)
}

func TestListResumesOrder(t *testing.T) {
	engine := newTestEngine(nil)
	addRecord(t, engine, "r1", "first", nil)
	addRecord(t, engine, "r2", "second", nil)
	addRecord(t, engine, "r3", "third", nil)
	engine.RemoveResume("r2")

	infos := engine.ListResumes()
	require.Len(t, infos, 2)
	assert.Equal(t, "r1", infos[0].ResumeID)
	assert.Equal(t, "r3", infos[1].ResumeID)
}
