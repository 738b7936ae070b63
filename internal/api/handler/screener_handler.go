package handler

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"resume-screener-go/internal/config"
	"resume-screener-go/internal/constants"
	"resume-screener-go/internal/screener"
	"resume-screener-go/internal/types"
)

// 请求参数校验失败的哨兵错误
var (
	// ErrInvalidTopK top_k不在允许的取值范围内
	ErrInvalidTopK = errors.New("top_k must be one of 3, 5, 10")
	// ErrJobDescriptionTooLong 职位描述超出长度上限
	ErrJobDescriptionTooLong = fmt.Errorf("job description exceeds %d characters", constants.MaxJobDescriptionLength)
)

// ScreenerHandler 筛选接口处理器。
// 编排器内部不做并发保护, 这里用单把互斥锁串行化所有请求。
type ScreenerHandler struct {
	cfg      *config.Config
	screener *screener.Screener
	mu       sync.Mutex
}

// NewScreenerHandler 创建筛选接口处理器
func NewScreenerHandler(cfg *config.Config, s *screener.Screener) *ScreenerHandler {
	return &ScreenerHandler{
		cfg:      cfg,
		screener: s,
	}
}

// MatchRequest 匹配查询请求
type MatchRequest struct {
	JobDescription  string `json:"job_description"`
	TopK            int    `json:"top_k"`
	IncludeEntities bool   `json:"include_entities"`
}

// SkillGapRequest 技能差距分析请求
type SkillGapRequest struct {
	CandidateSkills []string `json:"candidate_skills"`
	RequiredSkills  []string `json:"required_skills"`
}

// SalaryRequest 薪资估算请求
type SalaryRequest struct {
	JobTitle string `json:"job_title"`
	Location string `json:"location"`
}

// ReportRequest 筛选报告请求
type ReportRequest struct {
	RequiredSkills []string `json:"required_skills"`
	JobTitle       string   `json:"job_title"`
	Location       string   `json:"location"`
}

// HandleResumeUpload 处理简历文件上传: 落盘临时文件后交给编排器解析
func (h *ScreenerHandler) HandleResumeUpload(ctx context.Context, reader io.Reader, filename string) (*types.IngestResult, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	ext := filepath.Ext(filename)
	if ext == "" {
		ext = ".pdf"
	}

	tmpFile, err := os.CreateTemp("", "resume-upload-*"+ext)
	if err != nil {
		return nil, fmt.Errorf("创建临时文件失败: %w", err)
	}
	defer os.Remove(tmpFile.Name())

	if _, err := io.Copy(tmpFile, reader); err != nil {
		tmpFile.Close()
		return nil, fmt.Errorf("写入临时文件失败: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		return nil, fmt.Errorf("关闭临时文件失败: %w", err)
	}

	return h.screener.AddResumeFile(ctx, tmpFile.Name())
}

// HandleResumeText 处理纯文本简历注入
func (h *ScreenerHandler) HandleResumeText(ctx context.Context, text string) (*types.IngestResult, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.screener.AddResumeText(ctx, text)
}

// HandleMatch 处理全库匹配查询
func (h *ScreenerHandler) HandleMatch(ctx context.Context, req MatchRequest) ([]types.MatchResult, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if len(req.JobDescription) > constants.MaxJobDescriptionLength {
		return nil, ErrJobDescriptionTooLong
	}
	topK := req.TopK
	if topK == 0 {
		topK = constants.DefaultTopK
	}
	if !constants.AllowedTopK[topK] {
		return nil, ErrInvalidTopK
	}
	return h.screener.FindMatches(ctx, req.JobDescription, topK, req.IncludeEntities)
}

// HandleMatchSingle 处理单简历匹配
func (h *ScreenerHandler) HandleMatchSingle(ctx context.Context, resumeID, jobDescription string) (*types.MatchResult, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.screener.MatchSingleResume(ctx, resumeID, jobDescription)
}

// HandleMatchQuality 处理匹配质量汇总
func (h *ScreenerHandler) HandleMatchQuality(ctx context.Context, jobDescription string, topK int) (*types.MatchQualityReport, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if len(jobDescription) > constants.MaxJobDescriptionLength {
		return nil, ErrJobDescriptionTooLong
	}
	if topK == 0 {
		topK = constants.QualityReportTopK
	}
	return h.screener.AnalyzeMatchQuality(ctx, jobDescription, topK)
}

// HandleSkillGap 处理技能差距分析
func (h *ScreenerHandler) HandleSkillGap(ctx context.Context, resumeID string, req SkillGapRequest) (*types.SkillGapReport, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.screener.AnalyzeSkillGap(ctx, resumeID, req.CandidateSkills, req.RequiredSkills)
}

// HandleExperience 处理经验级别评估
func (h *ScreenerHandler) HandleExperience(ctx context.Context, resumeID string) (*types.ExperienceAssessment, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.screener.AssessExperience(ctx, resumeID)
}

// HandleSalary 处理薪资估算
func (h *ScreenerHandler) HandleSalary(ctx context.Context, resumeID string, req SalaryRequest) (*types.SalaryEstimate, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.screener.EstimateSalary(ctx, resumeID, req.JobTitle, req.Location)
}

// HandleReport 处理筛选报告生成
func (h *ScreenerHandler) HandleReport(ctx context.Context, resumeID string, req ReportRequest) (*types.ScreeningReport, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.screener.GenerateReport(ctx, resumeID, req.RequiredSkills, req.JobTitle, req.Location)
}

// HandleListResumes 列出全部简历
func (h *ScreenerHandler) HandleListResumes(ctx context.Context) []types.ResumeInfo {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.screener.ListResumes(ctx)
}

// HandleGetResume 取简历详情
func (h *ScreenerHandler) HandleGetResume(ctx context.Context, resumeID string) (*types.ResumeDetails, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.screener.GetResumeDetails(ctx, resumeID)
}

// HandleRemoveResume 删除简历
func (h *ScreenerHandler) HandleRemoveResume(ctx context.Context, resumeID string) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.screener.RemoveResume(ctx, resumeID)
}

// HandleClearAll 清空简历库
func (h *ScreenerHandler) HandleClearAll(ctx context.Context) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.screener.ClearAll(ctx)
}

// HandleStats 取全库统计
func (h *ScreenerHandler) HandleStats(ctx context.Context) types.CorpusStats {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.screener.Stats(ctx)
}
