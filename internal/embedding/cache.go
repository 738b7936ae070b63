package embedding

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"

	einoembedding "github.com/cloudwego/eino/components/embedding"

	"resume-screener-go/internal/metrics"
	"resume-screener-go/internal/types"
)

// ErrResumeNotFound 简历记录不存在
var ErrResumeNotFound = errors.New("resume not found")

// resumeEntry 单份简历的向量档案
type resumeEntry struct {
	fullText          string
	fullEmbedding     []float64
	sections          map[types.SectionType]string
	sectionEmbeddings map[types.SectionType][]float64
}

// Cache 向量缓存, 持有文本级的向量记忆与简历级的向量档案。
// 不做并发保护, 由上层调用方串行化访问。
type Cache struct {
	embedder einoembedding.Embedder
	vectors  map[string][]float64 // 文本 -> 向量
	records  map[string]*resumeEntry
}

// NewCache 创建向量缓存
func NewCache(embedder einoembedding.Embedder) *Cache {
	return &Cache{
		embedder: embedder,
		vectors:  make(map[string][]float64),
		records:  make(map[string]*resumeEntry),
	}
}

// Embed 获取文本向量, 相同文本只计算一次
func (c *Cache) Embed(ctx context.Context, text string) ([]float64, error) {
	if vector, ok := c.vectors[text]; ok {
		metrics.EmbeddingCacheHits.Inc()
		return vector, nil
	}

	metrics.EmbeddingCacheMisses.Inc()
	vectors, err := c.embedder.EmbedStrings(ctx, []string{text})
	if err != nil {
		return nil, fmt.Errorf("计算文本向量失败: %w", err)
	}
	if len(vectors) != 1 {
		return nil, fmt.Errorf("向量数量异常: 期望1个, 实际%d个", len(vectors))
	}

	c.vectors[text] = vectors[0]
	return vectors[0], nil
}

// Similarity 余弦相似度, 任一零向量时返回0
func Similarity(a, b []float64) float64 {
	if len(a) != len(b) {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

// StoreResume 建立简历向量档案: 全文向量 + 每个非空区块的向量
func (c *Cache) StoreResume(ctx context.Context, resumeID, fullText string, sections map[types.SectionType]string) error {
	fullEmbedding, err := c.Embed(ctx, fullText)
	if err != nil {
		return err
	}

	entry := &resumeEntry{
		fullText:          fullText,
		fullEmbedding:     fullEmbedding,
		sections:          sections,
		sectionEmbeddings: make(map[types.SectionType][]float64),
	}

	for sectionType, sectionText := range sections {
		if sectionText == "" {
			continue
		}
		sectionEmbedding, err := c.Embed(ctx, sectionText)
		if err != nil {
			return fmt.Errorf("区块 %s 向量化失败: %w", sectionType, err)
		}
		entry.sectionEmbeddings[sectionType] = sectionEmbedding
	}

	c.records[resumeID] = entry
	return nil
}

// HasRecord 简历是否已建立向量档案
func (c *Cache) HasRecord(resumeID string) bool {
	_, ok := c.records[resumeID]
	return ok
}

// MatchResumeToJob 计算简历与职位描述的整体相似度及各区块相似度
func (c *Cache) MatchResumeToJob(ctx context.Context, resumeID, jobDescription string) (*types.SectionMatch, error) {
	entry, ok := c.records[resumeID]
	if !ok {
		return nil, ErrResumeNotFound
	}

	jobEmbedding, err := c.Embed(ctx, jobDescription)
	if err != nil {
		return nil, err
	}

	match := &types.SectionMatch{
		OverallScore:  Similarity(entry.fullEmbedding, jobEmbedding),
		SectionScores: make(map[types.SectionType]float64, len(entry.sectionEmbeddings)),
	}
	for sectionType, sectionEmbedding := range entry.sectionEmbeddings {
		match.SectionScores[sectionType] = Similarity(sectionEmbedding, jobEmbedding)
	}
	return match, nil
}

// TopKBySimilarity 返回与查询文本最相似的前K个候选文本。
// 结果按相似度降序, 同分保持原始顺序; k大于候选数时全量返回。
func (c *Cache) TopKBySimilarity(ctx context.Context, queryText string, candidateTexts []string, k int) ([]types.RankedCandidate, error) {
	if k <= 0 || len(candidateTexts) == 0 {
		return []types.RankedCandidate{}, nil
	}

	queryEmbedding, err := c.Embed(ctx, queryText)
	if err != nil {
		return nil, err
	}

	ranked := make([]types.RankedCandidate, 0, len(candidateTexts))
	for i, candidate := range candidateTexts {
		candidateEmbedding, err := c.Embed(ctx, candidate)
		if err != nil {
			return nil, err
		}
		ranked = append(ranked, types.RankedCandidate{
			Index: i,
			Score: Similarity(queryEmbedding, candidateEmbedding),
		})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score > ranked[j].Score
	})

	if k < len(ranked) {
		ranked = ranked[:k]
	}
	return ranked, nil
}

// RemoveRecord 删除简历向量档案, 文本级向量保留复用
func (c *Cache) RemoveRecord(resumeID string) bool {
	if _, ok := c.records[resumeID]; !ok {
		return false
	}
	delete(c.records, resumeID)
	return true
}

// Clear 清空全部缓存
func (c *Cache) Clear() {
	c.vectors = make(map[string][]float64)
	c.records = make(map[string]*resumeEntry)
}

// Stats 缓存规模统计
func (c *Cache) Stats() types.CacheStats {
	return types.CacheStats{
		EmbeddingCacheSize: len(c.vectors),
		TextCacheSize:      len(c.records),
	}
}
