package screener

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gofrs/uuid/v5"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"resume-screener-go/internal/analytics"
	"resume-screener-go/internal/config"
	"resume-screener-go/internal/extractor"
	"resume-screener-go/internal/logger"
	"resume-screener-go/internal/matching"
	"resume-screener-go/internal/metrics"
	"resume-screener-go/internal/parser"
	"resume-screener-go/internal/tracing"
	"resume-screener-go/internal/types"
	"resume-screener-go/pkg/utils"
)

var tracer = otel.Tracer("screener")

// 组件未初始化的哨兵错误
var (
	ErrLoaderNotInit     = errors.New("document loader not initialized")
	ErrNormalizerNotInit = errors.New("entity normalizer not initialized")

	// ErrResumeNotFound 简历不存在
	ErrResumeNotFound = matching.ErrResumeNotFound
	// ErrEmptyJobDescription 职位描述为空
	ErrEmptyJobDescription = errors.New("job description is empty")
	// ErrEmptyResumeText 简历文本为空
	ErrEmptyResumeText = errors.New("resume text is empty")
)

// Screener 简历筛选流水线的编排器: 解析 -> 实体抽取 -> 向量入库 -> 匹配分析。
// 不做并发保护, 由上层调用方串行化访问。
type Screener struct {
	cfg        *config.Config
	loader     parser.DocumentLoader
	normalizer *extractor.Normalizer
	engine     *matching.Engine
	analyzer   *analytics.Analyzer
}

// NewScreener 创建筛选编排器
func NewScreener(cfg *config.Config, loader parser.DocumentLoader, normalizer *extractor.Normalizer, engine *matching.Engine, analyzer *analytics.Analyzer) *Screener {
	return &Screener{
		cfg:        cfg,
		loader:     loader,
		normalizer: normalizer,
		engine:     engine,
		analyzer:   analyzer,
	}
}

// AddResumeFile 从文档文件注入简历: 解析文本后走统一的入库流程
func (s *Screener) AddResumeFile(ctx context.Context, filePath string) (*types.IngestResult, error) {
	ctx, span := tracer.Start(ctx, "AddResumeFile",
		trace.WithSpanKind(trace.SpanKindServer))
	defer span.End()

	span.SetAttributes(
		attribute.String("file_path", tracing.SafeAttributeValue("file_path", filePath, tracing.DefaultMaxLength)),
	)

	if s.loader == nil {
		span.RecordError(ErrLoaderNotInit)
		span.SetStatus(codes.Error, "加载器未初始化")
		return nil, ErrLoaderNotInit
	}

	text, err := s.loader.Parse(ctx, filePath)
	if err != nil {
		metrics.ResumesIngested.WithLabelValues("file", "error").Inc()
		tracing.RecordError(span, err, tracing.ErrorTypeParse)
		return nil, fmt.Errorf("解析文档失败: %w", err)
	}

	result, err := s.ingest(ctx, text, filePath)
	if err != nil {
		metrics.ResumesIngested.WithLabelValues("file", "error").Inc()
		tracing.RecordErrorWithInfo(span, err, tracing.ErrorTypeInternal,
			attribute.String("ingest.source", "file"))
		return nil, err
	}

	metrics.ResumesIngested.WithLabelValues("file", "ok").Inc()
	span.SetAttributes(attribute.String("resume_id", result.ResumeID))
	return result, nil
}

// AddResumeText 从纯文本注入简历
func (s *Screener) AddResumeText(ctx context.Context, text string) (*types.IngestResult, error) {
	ctx, span := tracer.Start(ctx, "AddResumeText",
		trace.WithSpanKind(trace.SpanKindServer))
	defer span.End()

	if text == "" {
		return nil, ErrEmptyResumeText
	}
	span.SetAttributes(
		attribute.String("resume_text", tracing.SafeResumeContent(text)),
	)

	result, err := s.ingest(ctx, parser.CleanText(text), "")
	if err != nil {
		metrics.ResumesIngested.WithLabelValues("text", "error").Inc()
		tracing.RecordErrorWithInfo(span, err, tracing.ErrorTypeInternal,
			attribute.String("ingest.source", "text"))
		return nil, err
	}

	metrics.ResumesIngested.WithLabelValues("text", "ok").Inc()
	span.SetAttributes(attribute.String("resume_id", result.ResumeID))
	return result, nil
}

// ingest 统一入库流程: 去重 -> 分区块 -> 实体抽取 -> 向量档案 -> 登记。
// 向量化失败时不登记任何状态, 保证入库原子性。
func (s *Screener) ingest(ctx context.Context, text, filePath string) (*types.IngestResult, error) {
	if text == "" {
		return nil, ErrEmptyResumeText
	}
	if s.normalizer == nil {
		return nil, ErrNormalizerNotInit
	}

	textMD5 := utils.CalculateMD5([]byte(text))
	if s.cfg.Matcher.SkipDuplicates {
		if existing, ok := s.engine.FindByMD5(textMD5); ok {
			metrics.DuplicatesSkipped.Inc()
			logger.FromContext(ctx).Info().
				Str("resume_id", existing.ResumeID).
				Msg("检测到重复内容, 返回已有简历")
			return &types.IngestResult{
				ResumeID:   existing.ResumeID,
				TextLength: len(existing.Text),
				Sections:   sectionKeys(existing.Sections),
				FilePath:   existing.FilePath,
				Duplicate:  true,
			}, nil
		}
	}

	uuidV7, err := uuid.NewV7()
	if err != nil {
		return nil, fmt.Errorf("生成简历ID失败: %w", err)
	}
	resumeID := uuidV7.String()

	ctx = logger.WithResumeID(ctx, resumeID)
	log := logger.FromContext(ctx)

	ctx, extractSpan := tracer.Start(ctx, "ExtractEntities")
	sections := parser.ExtractSections(text)
	entities, err := s.normalizer.Extract(text)
	extractSpan.End()
	if err != nil {
		return nil, err
	}

	record := &types.ResumeRecord{
		ResumeID:    resumeID,
		FilePath:    filePath,
		Text:        text,
		Sections:    sections,
		Entities:    entities,
		ProcessedAt: time.Now().Unix(),
		RawTextMD5:  textMD5,
	}

	ctx, embedSpan := tracer.Start(ctx, "StoreResumeEmbeddings")
	err = s.engine.AddResume(ctx, record)
	embedSpan.End()
	if err != nil {
		return nil, err
	}

	total, cacheStats := s.engine.Stats()
	metrics.CorpusSize.Set(float64(total))
	metrics.EmbeddingCacheSize.Set(float64(cacheStats.EmbeddingCacheSize))

	log.Info().
		Int("text_length", len(text)).
		Int("skills", len(entities.Skills)).
		Msg("简历处理完成")

	return &types.IngestResult{
		ResumeID:   resumeID,
		TextLength: len(text),
		Sections:   sectionKeys(sections),
		FilePath:   filePath,
	}, nil
}

// FindMatches 用职位描述检索最匹配的简历
func (s *Screener) FindMatches(ctx context.Context, jobDescription string, topK int, includeEntities bool) ([]types.MatchResult, error) {
	ctx, span := tracer.Start(ctx, "FindMatches",
		trace.WithSpanKind(trace.SpanKindServer))
	defer span.End()

	if strings.TrimSpace(jobDescription) == "" {
		tracing.RecordError(span, ErrEmptyJobDescription, tracing.ErrorTypeValidation)
		return nil, ErrEmptyJobDescription
	}
	if topK <= 0 {
		topK = s.cfg.Matcher.DefaultTopK
	}
	span.SetAttributes(
		attribute.Int("top_k", topK),
		attribute.String("job_description", tracing.SafeJobDescription(jobDescription)),
	)

	start := time.Now()
	results, err := s.engine.MatchJobToResumes(ctx, jobDescription, topK, includeEntities)
	metrics.MatchDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.MatchQueries.WithLabelValues("corpus", "error").Inc()
		tracing.RecordError(span, err, tracing.ErrorTypeEmbedding)
		return nil, err
	}

	metrics.MatchQueries.WithLabelValues("corpus", "ok").Inc()
	if len(results) > 0 {
		metrics.MatchScores.Observe(results[0].MatchScore)
	}
	span.SetAttributes(attribute.Int("matches", len(results)))
	return results, nil
}

// MatchSingleResume 计算指定简历与职位描述的匹配结果
func (s *Screener) MatchSingleResume(ctx context.Context, resumeID, jobDescription string) (*types.MatchResult, error) {
	ctx, span := tracer.Start(ctx, "MatchSingleResume",
		trace.WithSpanKind(trace.SpanKindServer))
	defer span.End()

	span.SetAttributes(attribute.String("resume_id", resumeID))

	if strings.TrimSpace(jobDescription) == "" {
		return nil, ErrEmptyJobDescription
	}

	result, err := s.engine.MatchSingleResume(ctx, resumeID, jobDescription)
	if err != nil {
		metrics.MatchQueries.WithLabelValues("single", "error").Inc()
		span.RecordError(err)
		return nil, err
	}

	metrics.MatchQueries.WithLabelValues("single", "ok").Inc()
	return result, nil
}

// AnalyzeMatchQuality 对一次匹配查询做质量汇总
func (s *Screener) AnalyzeMatchQuality(ctx context.Context, jobDescription string, topK int) (*types.MatchQualityReport, error) {
	if topK <= 0 {
		topK = 3
	}

	matches, err := s.FindMatches(ctx, jobDescription, topK, false)
	if err != nil {
		return nil, err
	}
	if len(matches) == 0 {
		return &types.MatchQualityReport{Matches: []types.MatchResult{}}, nil
	}

	minScore := matches[0].MatchScore
	maxScore := matches[0].MatchScore
	sum := 0.0
	for _, match := range matches {
		sum += match.MatchScore
		if match.MatchScore < minScore {
			minScore = match.MatchScore
		}
		if match.MatchScore > maxScore {
			maxScore = match.MatchScore
		}
	}

	return &types.MatchQualityReport{
		TotalMatches:  len(matches),
		AverageScore:  utils.Round2(sum / float64(len(matches))),
		ScoreRangeMin: minScore,
		ScoreRangeMax: maxScore,
		TopMatchScore: matches[0].MatchScore,
		Matches:       matches,
	}, nil
}

// AnalyzeSkillGap 技能差距分析, resumeID非空时使用该简历已抽取的技能
func (s *Screener) AnalyzeSkillGap(ctx context.Context, resumeID string, candidateSkills, requiredSkills []string) (*types.SkillGapReport, error) {
	if resumeID != "" {
		record, ok := s.engine.GetRecord(resumeID)
		if !ok {
			return nil, ErrResumeNotFound
		}
		if record.Entities != nil {
			candidateSkills = record.Entities.Skills
		}
	}

	report := s.analyzer.AnalyzeSkillGap(candidateSkills, requiredSkills)
	return &report, nil
}

// AssessExperience 评估指定简历的经验级别
func (s *Screener) AssessExperience(ctx context.Context, resumeID string) (*types.ExperienceAssessment, error) {
	record, ok := s.engine.GetRecord(resumeID)
	if !ok {
		return nil, ErrResumeNotFound
	}

	assessment := s.analyzer.AssessExperienceLevel(record.Text, record.Entities)
	return &assessment, nil
}

// EstimateSalary 估算指定简历的薪资区间
func (s *Screener) EstimateSalary(ctx context.Context, resumeID, jobTitle, location string) (*types.SalaryEstimate, error) {
	record, ok := s.engine.GetRecord(resumeID)
	if !ok {
		return nil, ErrResumeNotFound
	}

	assessment := s.analyzer.AssessExperienceLevel(record.Text, record.Entities)

	var skills []string
	if record.Entities != nil {
		skills = record.Entities.Skills
	}
	estimate := s.analyzer.EstimateSalary(jobTitle, assessment.OverallLevel, location, skills, record.Entities)
	return &estimate, nil
}

// GenerateReport 生成指定简历的综合筛选报告
func (s *Screener) GenerateReport(ctx context.Context, resumeID string, requiredSkills []string, jobTitle, location string) (*types.ScreeningReport, error) {
	ctx, span := tracer.Start(ctx, "GenerateReport",
		trace.WithSpanKind(trace.SpanKindServer))
	defer span.End()

	span.SetAttributes(attribute.String("resume_id", resumeID))

	record, ok := s.engine.GetRecord(resumeID)
	if !ok {
		span.RecordError(ErrResumeNotFound)
		return nil, ErrResumeNotFound
	}

	report := s.analyzer.GenerateReport(record.Text, record.Entities, requiredSkills, jobTitle, location)
	report.ResumeID = resumeID

	metrics.ReportsGenerated.Inc()
	logger.FromContext(ctx).Info().
		Str("resume_id", resumeID).
		Str("report_id", report.ReportID).
		Str("recommendation", report.Recommendation).
		Msg("筛选报告已生成")
	return &report, nil
}

// GetResumeDetails 取简历详情
func (s *Screener) GetResumeDetails(ctx context.Context, resumeID string) (*types.ResumeDetails, error) {
	record, ok := s.engine.GetRecord(resumeID)
	if !ok {
		return nil, ErrResumeNotFound
	}

	return &types.ResumeDetails{
		ResumeID:     record.ResumeID,
		TextLength:   len(record.Text),
		Sections:     record.Sections,
		Entities:     record.Entities,
		ProcessedAt:  record.ProcessedAt,
		HasEmbedding: true,
	}, nil
}

// ListResumes 按入库顺序列出全部简历摘要
func (s *Screener) ListResumes(ctx context.Context) []types.ResumeInfo {
	return s.engine.ListResumes()
}

// RemoveResume 删除指定简历
func (s *Screener) RemoveResume(ctx context.Context, resumeID string) bool {
	removed := s.engine.RemoveResume(resumeID)
	if removed {
		total, cacheStats := s.engine.Stats()
		metrics.CorpusSize.Set(float64(total))
		metrics.EmbeddingCacheSize.Set(float64(cacheStats.EmbeddingCacheSize))
	}
	return removed
}

// ClearAll 清空简历库
func (s *Screener) ClearAll(ctx context.Context) {
	s.engine.ClearAll()
	metrics.CorpusSize.Set(0)
	metrics.EmbeddingCacheSize.Set(0)
	logger.FromContext(ctx).Info().Msg("简历库已清空")
}

// Stats 全库统计, 实体计数按当前库内简历汇总
func (s *Screener) Stats(ctx context.Context) types.CorpusStats {
	total, cacheStats := s.engine.Stats()

	stats := types.CorpusStats{
		TotalResumes:       total,
		EmbeddingCacheSize: cacheStats.EmbeddingCacheSize,
		TextCacheSize:      cacheStats.TextCacheSize,
	}
	for _, info := range s.engine.ListResumes() {
		if info.Entities == nil {
			continue
		}
		stats.TotalSkillsExtracted += info.Entities.Summary.TotalSkills
		stats.TotalCompaniesExtracted += info.Entities.Summary.TotalCompanies
		stats.TotalEducationExtracted += info.Entities.Summary.TotalEducation
	}
	return stats
}

func sectionKeys(sections map[types.SectionType]string) []types.SectionType {
	keys := make([]types.SectionType, 0, len(sections))
	for _, sectionType := range types.AllSectionTypes {
		if _, ok := sections[sectionType]; ok {
			keys = append(keys, sectionType)
		}
	}
	return keys
}
