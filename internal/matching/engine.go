package matching

import (
	"context"
	"errors"
	"regexp"
	"sort"
	"strings"

	"resume-screener-go/internal/embedding"
	"resume-screener-go/internal/logger"
	"resume-screener-go/internal/types"
	"resume-screener-go/pkg/utils"
)

// ErrResumeNotFound 简历不在库中
var ErrResumeNotFound = errors.New("resume not found")

var wordRe = regexp.MustCompile(`[A-Za-z0-9_]+`)

// 匹配词过滤用的常见停用词
var stopWords = map[string]bool{
	"the": true, "and": true, "for": true, "with": true, "this": true,
	"that": true, "have": true, "been": true, "from": true, "they": true,
	"will": true, "would": true, "could": true, "should": true,
}

// Engine 简历匹配引擎, 持有简历库并委托向量缓存做相似度计算。
// 不做并发保护, 由上层调用方串行化访问。
type Engine struct {
	cache   *embedding.Cache
	records map[string]*types.ResumeRecord
	order   []string // 简历ID的入库顺序, 保证遍历确定性
}

// NewEngine 创建匹配引擎
func NewEngine(cache *embedding.Cache) *Engine {
	return &Engine{
		cache:   cache,
		records: make(map[string]*types.ResumeRecord),
	}
}

// AddResume 简历入库: 先建立向量档案, 成功后才登记记录
func (e *Engine) AddResume(ctx context.Context, record *types.ResumeRecord) error {
	if err := e.cache.StoreResume(ctx, record.ResumeID, record.Text, record.Sections); err != nil {
		return err
	}

	if _, exists := e.records[record.ResumeID]; !exists {
		e.order = append(e.order, record.ResumeID)
	}
	e.records[record.ResumeID] = record

	logger.Info().
		Str("resume_id", record.ResumeID).
		Int("text_length", len(record.Text)).
		Msg("简历已入库")
	return nil
}

// MatchJobToResumes 用职位描述对全库简历做相似度排序, 返回前topK个结果
func (e *Engine) MatchJobToResumes(ctx context.Context, jobDescription string, topK int, includeEntities bool) ([]types.MatchResult, error) {
	if len(e.records) == 0 {
		return []types.MatchResult{}, nil
	}

	texts := make([]string, 0, len(e.order))
	for _, resumeID := range e.order {
		texts = append(texts, e.records[resumeID].Text)
	}

	ranked, err := e.cache.TopKBySimilarity(ctx, jobDescription, texts, topK)
	if err != nil {
		return nil, err
	}

	results := make([]types.MatchResult, 0, len(ranked))
	for _, candidate := range ranked {
		record := e.records[e.order[candidate.Index]]

		result := types.MatchResult{
			ResumeID:     record.ResumeID,
			MatchScore:   utils.Round2(candidate.Score * 100),
			RawScore:     candidate.Score,
			MatchedTerms: extractMatchedTerms(jobDescription, record.Text),
			TextLength:   len(record.Text),
			Sections:     sectionList(record.Sections),
		}
		if includeEntities {
			result.Entities = record.Entities
		}
		results = append(results, result)
	}

	logger.Debug().
		Int("corpus_size", len(e.records)).
		Int("matches", len(results)).
		Msg("职位匹配完成")
	return results, nil
}

// MatchSingleResume 计算单份简历与职位描述的匹配结果, 含各区块得分
func (e *Engine) MatchSingleResume(ctx context.Context, resumeID, jobDescription string) (*types.MatchResult, error) {
	record, ok := e.records[resumeID]
	if !ok {
		return nil, ErrResumeNotFound
	}

	match, err := e.cache.MatchResumeToJob(ctx, resumeID, jobDescription)
	if err != nil {
		if errors.Is(err, embedding.ErrResumeNotFound) {
			return nil, ErrResumeNotFound
		}
		return nil, err
	}

	sectionScores := make(map[types.SectionType]float64, len(match.SectionScores))
	for sectionType, score := range match.SectionScores {
		sectionScores[sectionType] = utils.Round2(score * 100)
	}

	return &types.MatchResult{
		ResumeID:      resumeID,
		MatchScore:    utils.Round2(match.OverallScore * 100),
		RawScore:      match.OverallScore,
		SectionScores: sectionScores,
		MatchedTerms:  extractMatchedTerms(jobDescription, record.Text),
		TextLength:    len(record.Text),
		Sections:      sectionList(record.Sections),
	}, nil
}

// GetRecord 按ID取完整简历记录
func (e *Engine) GetRecord(resumeID string) (*types.ResumeRecord, bool) {
	record, ok := e.records[resumeID]
	return record, ok
}

// GetResumeInfo 按ID取简历摘要
func (e *Engine) GetResumeInfo(resumeID string) (*types.ResumeInfo, bool) {
	record, ok := e.records[resumeID]
	if !ok {
		return nil, false
	}
	return &types.ResumeInfo{
		ResumeID:    record.ResumeID,
		TextLength:  len(record.Text),
		Sections:    sectionList(record.Sections),
		Entities:    record.Entities,
		ProcessedAt: record.ProcessedAt,
	}, true
}

// ListResumes 按入库顺序返回全部简历摘要
func (e *Engine) ListResumes() []types.ResumeInfo {
	infos := make([]types.ResumeInfo, 0, len(e.order))
	for _, resumeID := range e.order {
		if info, ok := e.GetResumeInfo(resumeID); ok {
			infos = append(infos, *info)
		}
	}
	return infos
}

// FindByMD5 按原始文本MD5查找已有简历
func (e *Engine) FindByMD5(md5sum string) (*types.ResumeRecord, bool) {
	for _, resumeID := range e.order {
		if record := e.records[resumeID]; record.RawTextMD5 == md5sum {
			return record, true
		}
	}
	return nil, false
}

// RemoveResume 删除简历记录与向量档案, 任一存在即视为删除成功
func (e *Engine) RemoveResume(resumeID string) bool {
	_, existed := e.records[resumeID]
	if existed {
		delete(e.records, resumeID)
		for i, id := range e.order {
			if id == resumeID {
				e.order = append(e.order[:i], e.order[i+1:]...)
				break
			}
		}
	}
	cacheRemoved := e.cache.RemoveRecord(resumeID)
	return existed || cacheRemoved
}

// ClearAll 清空简历库与向量缓存
func (e *Engine) ClearAll() {
	e.records = make(map[string]*types.ResumeRecord)
	e.order = nil
	e.cache.Clear()
}

// Stats 简历库与缓存的规模统计
func (e *Engine) Stats() (int, types.CacheStats) {
	return len(e.records), e.cache.Stats()
}

// extractMatchedTerms 职位描述与简历文本的公共词, 过滤短词与停用词,
// 按字典序取前10个
func extractMatchedTerms(jobDescription, resumeText string) []string {
	jobWords := wordSet(jobDescription)
	resumeWords := wordSet(resumeText)

	var terms []string
	for word := range jobWords {
		if len(word) > 2 && !stopWords[word] && resumeWords[word] {
			terms = append(terms, word)
		}
	}

	sort.Strings(terms)
	if len(terms) > 10 {
		terms = terms[:10]
	}
	return terms
}

func wordSet(text string) map[string]bool {
	words := make(map[string]bool)
	for _, word := range wordRe.FindAllString(strings.ToLower(text), -1) {
		words[word] = true
	}
	return words
}

// sectionList 按固定顺序列出简历包含的区块
func sectionList(sections map[types.SectionType]string) []types.SectionType {
	result := make([]types.SectionType, 0, len(sections))
	for _, sectionType := range types.AllSectionTypes {
		if _, ok := sections[sectionType]; ok {
			result = append(result, sectionType)
		}
	}
	return result
}
