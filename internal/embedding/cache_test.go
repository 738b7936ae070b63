package embedding

import (
	"context"
	"testing"

	einoembedding "github.com/cloudwego/eino/components/embedding"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resume-screener-go/internal/types"
)

// mockEmbedder 返回预设向量并统计调用次数
type mockEmbedder struct {
	vectors map[string][]float64
	calls   int
}

func (m *mockEmbedder) EmbedStrings(ctx context.Context, texts []string, opts ...einoembedding.Option) ([][]float64, error) {
	m.calls++
	result := make([][]float64, 0, len(texts))
	for _, text := range texts {
		if vector, ok := m.vectors[text]; ok {
			result = append(result, vector)
		} else {
			result = append(result, []float64{0, 0, 1})
		}
	}
	return result, nil
}

func TestEmbedMemoized(t *testing.T) {
	mock := &mockEmbedder{vectors: map[string][]float64{"hello": {1, 0, 0}}}
	cache := NewCache(mock)

	first, err := cache.Embed(context.Background(), "hello")
	require.NoError(t, err)
	second, err := cache.Embed(context.Background(), "hello")
	require.NoError(t, err)

	assert.Equal(t, first, second)
	// 相同文本只触发一次Embedding调用
	assert.Equal(t, 1, mock.calls)
}

func TestSimilarity(t *testing.T) {
	tests := []struct {
		name string
		a    []float64
		b    []float64
		want float64
	}{
		{"同向向量", []float64{1, 0}, []float64{2, 0}, 1},
		{"正交向量", []float64{1, 0}, []float64{0, 1}, 0},
		{"反向向量", []float64{1, 0}, []float64{-1, 0}, -1},
		{"零向量", []float64{0, 0}, []float64{1, 0}, 0},
		{"维度不一致", []float64{1, 0}, []float64{1, 0, 0}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, Similarity(tt.a, tt.b), 1e-9)
		})
	}
}

func TestStoreResumeAndMatch(t *testing.T) {
	mock := &mockEmbedder{vectors: map[string][]float64{
		"full resume text": {1, 0, 0},
		"python and go":    {0, 1, 0},
		"job description":  {1, 1, 0},
	}}
	cache := NewCache(mock)
	ctx := context.Background()

	sections := map[types.SectionType]string{
		types.SectionSkills:    "python and go",
		types.SectionEducation: "", // 空区块跳过
	}
	require.NoError(t, cache.StoreResume(ctx, "resume-1", "full resume text", sections))
	assert.True(t, cache.HasRecord("resume-1"))

	match, err := cache.MatchResumeToJob(ctx, "resume-1", "job description")
	require.NoError(t, err)
	assert.InDelta(t, 0.7071, match.OverallScore, 1e-3)
	require.Len(t, match.SectionScores, 1)
	assert.InDelta(t, 0.7071, match.SectionScores[types.SectionSkills], 1e-3)
}

func TestMatchResumeNotFound(t *testing.T) {
	cache := NewCache(&mockEmbedder{})

	_, err := cache.MatchResumeToJob(context.Background(), "missing", "job")
	assert.ErrorIs(t, err, ErrResumeNotFound)
}

func TestTopKBySimilarity(t *testing.T) {
	mock := &mockEmbedder{vectors: map[string][]float64{
		"query": {1, 0, 0},
		"a":     {1, 0, 0},   // 相似度 1
		"b":     {0, 1, 0},   // 相似度 0
		"c":     {1, 1, 0},   // 相似度 ~0.707
		"d":     {0.5, 0, 0}, // 相似度 1, 与a同分
	}}
	cache := NewCache(mock)
	ctx := context.Background()

	ranked, err := cache.TopKBySimilarity(ctx, "query", []string{"a", "b", "c", "d"}, 3)
	require.NoError(t, err)
	require.Len(t, ranked, 3)
	// 同分保持原始顺序: a先于d
	assert.Equal(t, 0, ranked[0].Index)
	assert.Equal(t, 3, ranked[1].Index)
	assert.Equal(t, 2, ranked[2].Index)

	// k超过候选数时全量返回
	ranked, err = cache.TopKBySimilarity(ctx, "query", []string{"a", "b"}, 10)
	require.NoError(t, err)
	assert.Len(t, ranked, 2)

	// k为0时返回空
	ranked, err = cache.TopKBySimilarity(ctx, "query", []string{"a"}, 0)
	require.NoError(t, err)
	assert.Empty(t, ranked)
}

func TestRemoveAndClear(t *testing.T) {
	mock := &mockEmbedder{vectors: map[string][]float64{"text": {1, 0, 0}}}
	cache := NewCache(mock)
	ctx := context.Background()

	require.NoError(t, cache.StoreResume(ctx, "resume-1", "text", nil))
	assert.True(t, cache.RemoveRecord("resume-1"))
	assert.False(t, cache.RemoveRecord("resume-1"))

	require.NoError(t, cache.StoreResume(ctx, "resume-2", "text", nil))
	stats := cache.Stats()
	assert.Equal(t, 1, stats.EmbeddingCacheSize)
	assert.Equal(t, 1, stats.TextCacheSize)

	cache.Clear()
	stats = cache.Stats()
	assert.Equal(t, 0, stats.EmbeddingCacheSize)
	assert.Equal(t, 0, stats.TextCacheSize)
}
