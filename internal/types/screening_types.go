package types

// SectionType 表示简历章节类型
type SectionType string

const (
	// SectionFullText 完整文本（未分段）
	SectionFullText SectionType = "full_text"
	// SectionSummary 概要章节（默认归属）
	SectionSummary SectionType = "summary"
	// SectionExperience 工作经历章节
	SectionExperience SectionType = "experience"
	// SectionEducation 教育经历章节
	SectionEducation SectionType = "education"
	// SectionSkills 技能章节
	SectionSkills SectionType = "skills"
)

// AllSectionTypes 固定的章节集合，按渲染顺序排列
var AllSectionTypes = []SectionType{
	SectionFullText,
	SectionSummary,
	SectionExperience,
	SectionEducation,
	SectionSkills,
}

// EducationInfo 教育相关实体
// Degrees/Institutions/FieldsOfStudy 保留重复项（重复提及反映简历内容，不做去重）
type EducationInfo struct {
	Degrees       []string `json:"degrees"`
	Institutions  []string `json:"institutions"`
	FieldsOfStudy []string `json:"fields_of_study"`
}

// WorkExperienceInfo 工作经历相关实体
// Companies/JobTitles/Locations 去重后返回；Dates 原样保留
type WorkExperienceInfo struct {
	Companies []string `json:"companies"`
	JobTitles []string `json:"job_titles"`
	Locations []string `json:"locations"`
	Dates     []string `json:"dates"`
}

// SummaryCounts 实体汇总计数，永远由最终列表长度重新计算
type SummaryCounts struct {
	TotalSkills    int `json:"total_skills"`
	TotalCompanies int `json:"total_companies"`
	TotalEducation int `json:"total_education"` // len(degrees) + len(institutions)
}

// EntityRecord 从简历文本归一化出的结构化实体记录
// 在入库时生成一次，之后不再修改
type EntityRecord struct {
	Skills         []string           `json:"skills"`
	Education      EducationInfo      `json:"education"`
	WorkExperience WorkExperienceInfo `json:"work_experience"`
	Summary        SummaryCounts      `json:"summary"`
}

// ResumeRecord 单份简历的完整记录，由Screener的简历库持有
// 字段只在创建时赋值一次
type ResumeRecord struct {
	ResumeID    string                 `json:"resume_id"`
	FilePath    string                 `json:"file_path,omitempty"` // 仅文件注入时记录
	Text        string                 `json:"text"`
	Sections    map[SectionType]string `json:"sections"`
	Entities    *EntityRecord          `json:"entities,omitempty"`
	ProcessedAt int64                  `json:"processed_at"` // Unix秒
	RawTextMD5  string                 `json:"raw_text_md5"`
}

// RankedCandidate 相似度排序结果中的一项
type RankedCandidate struct {
	Index int     `json:"index"` // 候选文本在输入列表中的原始下标
	Score float64 `json:"score"` // 余弦相似度，范围[-1,1]
}

// SectionMatch 单份简历对一条JD的嵌入匹配结果
type SectionMatch struct {
	OverallScore  float64                 `json:"overall_score"` // 未缩放的余弦相似度
	SectionScores map[SectionType]float64 `json:"section_scores"`
}

// MatchResult 匹配查询的瞬时结果，每次查询重新生成，不落库
type MatchResult struct {
	ResumeID      string                  `json:"resume_id"`
	MatchScore    float64                 `json:"match_score"` // raw*100，保留两位小数
	RawScore      float64                 `json:"raw_score"`
	SectionScores map[SectionType]float64 `json:"section_scores,omitempty"` // 仅单简历匹配时填充
	MatchedTerms  []string                `json:"matched_terms"`
	TextLength    int                     `json:"text_length"`
	Sections      []SectionType           `json:"sections"`
	Entities      *EntityRecord           `json:"entities,omitempty"`
}

// ResumeInfo 简历的轻量摘要视图
type ResumeInfo struct {
	ResumeID    string        `json:"resume_id"`
	TextLength  int           `json:"text_length"`
	Sections    []SectionType `json:"sections"`
	Entities    *EntityRecord `json:"entities,omitempty"`
	ProcessedAt int64         `json:"processed_at"`
}

// ResumeDetails 简历详情，带嵌入可用标记
type ResumeDetails struct {
	ResumeID     string                 `json:"resume_id"`
	TextLength   int                    `json:"text_length"`
	Sections     map[SectionType]string `json:"sections"`
	Entities     *EntityRecord          `json:"entities,omitempty"`
	ProcessedAt  int64                  `json:"processed_at"`
	HasEmbedding bool                   `json:"has_embedding"`
}

// IngestResult 简历注入的结果
type IngestResult struct {
	ResumeID   string        `json:"resume_id"`
	TextLength int           `json:"text_length"`
	Sections   []SectionType `json:"sections"`
	FilePath   string        `json:"file_path,omitempty"`
	Duplicate  bool          `json:"duplicate"` // 文本MD5命中已有记录，返回已有ID
}

// SkillGapReport 技能差距分析结果
type SkillGapReport struct {
	MissingSkills      []string `json:"missing_skills"`
	MatchingSkills     []string `json:"matching_skills"`
	ExtraSkills        []string `json:"extra_skills"`
	CoveragePercentage float64  `json:"coverage_percentage"`
	SkillGapScore      float64  `json:"skill_gap_score"`
	TotalRequired      int      `json:"total_required"`
	TotalMatching      int      `json:"total_matching"`
	TotalMissing       int      `json:"total_missing"`
}

// ExperienceLevel 经验级别枚举
type ExperienceLevel string

const (
	LevelJunior    ExperienceLevel = "junior"
	LevelMid       ExperienceLevel = "mid"
	LevelSenior    ExperienceLevel = "senior"
	LevelExecutive ExperienceLevel = "executive"
)

// ExperienceAssessment 经验级别评估结果
type ExperienceAssessment struct {
	OverallLevel    ExperienceLevel         `json:"overall_level"`
	YearsExperience float64                 `json:"years_experience"`
	TitleLevel      ExperienceLevel         `json:"title_level"`
	ExperienceScore int                     `json:"experience_score"`
	LevelIndicators map[ExperienceLevel]int `json:"level_indicators"`
	Confidence      float64                 `json:"confidence"`
}

// SalaryRange 薪资区间（年薪，美元整数）
type SalaryRange struct {
	Min int `json:"min"`
	Max int `json:"max"`
}

// SalaryEstimate 薪资估算结果
type SalaryEstimate struct {
	Range              SalaryRange     `json:"salary_range"`
	BaseRole           string          `json:"base_role"`
	ExperienceLevel    ExperienceLevel `json:"experience_level"`
	LocationMultiplier float64         `json:"location_multiplier"`
	SkillBonus         float64         `json:"skill_bonus"`
	ExperienceBonus    float64         `json:"experience_bonus"`
	EstimatedMidpoint  int             `json:"estimated_midpoint"`
	Confidence         float64         `json:"confidence"`
}

// MatchQualityReport 一次匹配查询的质量汇总
type MatchQualityReport struct {
	TotalMatches  int           `json:"total_matches"`
	AverageScore  float64       `json:"average_score"`
	ScoreRangeMin float64       `json:"score_range_min"`
	ScoreRangeMax float64       `json:"score_range_max"`
	TopMatchScore float64       `json:"top_match_score"`
	Matches       []MatchResult `json:"matches,omitempty"`
}

// ScreeningReport 单份简历的综合筛选报告
type ScreeningReport struct {
	ReportID             string               `json:"report_id"`
	ResumeID             string               `json:"resume_id"`
	SkillGapAnalysis     SkillGapReport       `json:"skill_gap_analysis"`
	ExperienceAssessment ExperienceAssessment `json:"experience_assessment"`
	SalaryEstimation     SalaryEstimate       `json:"salary_estimation"`
	Recommendation       string               `json:"overall_recommendation"`
	GeneratedAt          int64                `json:"generated_at"`
}

// CacheStats 嵌入缓存的统计信息
type CacheStats struct {
	EmbeddingCacheSize int `json:"embeddings_cache_size"` // 扁平 text->vector 缓存大小
	TextCacheSize      int `json:"text_cache_size"`       // 按简历ID存储的复合记录数
}

// CorpusStats 全库统计信息
type CorpusStats struct {
	TotalResumes            int `json:"total_resumes"`
	EmbeddingCacheSize      int `json:"embedding_cache_size"`
	TextCacheSize           int `json:"text_cache_size"`
	TotalSkillsExtracted    int `json:"total_skills_extracted"`
	TotalCompaniesExtracted int `json:"total_companies_extracted"`
	TotalEducationExtracted int `json:"total_education_extracted"`
}
