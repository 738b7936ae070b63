package extractor

import (
	"fmt"
	"regexp"

	"resume-screener-go/internal/config"
)

// 默认技能词正则: 大小写不敏感、词边界匹配
var defaultSkillPatterns = []string{
	`\b(?:Python|Java|JavaScript|C\+\+|C#|Ruby|PHP|Swift|Kotlin|Go|Rust|Scala|TypeScript|React|Angular|Vue|Node\.js|Django|Flask|Spring|Laravel|Express|MongoDB|PostgreSQL|MySQL|Redis|Docker|Kubernetes|AWS|Azure|GCP|Git|Jenkins|Jira|Agile|Scrum|Machine Learning|AI|Data Science|SQL|NoSQL|HTML|CSS|REST|API|GraphQL|Microservices|DevOps|CI/CD|TensorFlow|PyTorch|Scikit-learn|Pandas|NumPy|Spark|Hadoop|Jupyter|Tableau|Power BI|Looker|Salesforce|HubSpot|Zendesk|Slack|Teams|Zoom|Skype|Trello|Asana|Notion|Confluence|Bitbucket|GitHub|GitLab)\b`,
	`\b(?:Excel|Word|PowerPoint|Outlook|Photoshop|Illustrator|InDesign|Premiere|After Effects|AutoCAD|SolidWorks|MATLAB|R|SAS|SPSS)\b`,
}

var defaultDegreeWords = []string{
	"bachelor", "master", "phd", "doctorate", "associate", "diploma", "certificate",
}

var defaultFieldPhrases = []string{
	"computer science", "engineering", "business", "mathematics", "statistics",
	"economics", "finance", "marketing", "management", "information technology",
	"data science", "artificial intelligence", "machine learning",
}

var defaultInstitutionMarkers = []string{
	"university", "college", "school", "institute", "academy",
}

// 常被误识别为公司名的技能词
var defaultCompanyGuards = []string{
	"python", "java", "react", "docker", "aws", "git", "sql", "javascript",
	"tensorflow", "pytorch", "pandas", "numpy", "spark", "hadoop", "tableau",
	"power bi", "slack", "teams", "zoom", "skype", "trello", "asana", "notion",
	"confluence", "bitbucket", "github", "gitlab",
}

// 常被误识别为地点的技能词
var defaultLocationGuards = []string{
	"react", "node.js", "django", "flask", "postgresql", "python", "numpy",
	"pandas", "tensorflow", "pytorch", "spark", "hadoop", "tableau", "power bi",
}

var defaultTitleKeywords = []string{
	"manager", "director", "engineer", "developer", "analyst", "specialist",
	"coordinator", "assistant", "lead", "senior", "junior",
}

// 已知非技能专有名词，名词补充阶段跳过
var defaultProperNounGuards = []string{
	"techcorp", "startupxyz", "stanford", "mit",
}

// 名词技能标记子串: 小写形式含标记即视为候选技能
var defaultSkillMarkers = []string{
	"tech", "tool", "framework", "library", "platform",
}

// Vocabulary 实体抽取词表, 由配置覆盖默认值后编译而成
type Vocabulary struct {
	SkillRegexps       []*regexp.Regexp
	DegreeWords        []string
	FieldPhrases       []string
	InstitutionMarkers []string
	CompanyGuards      []string
	LocationGuards     []string
	TitleKeywords      []string
	ProperNounGuards   []string
	SkillMarkers       []string
}

// NewVocabulary 构建词表, 配置中为空的字段回退到内置默认值
func NewVocabulary(cfg config.ExtractorConfig) (*Vocabulary, error) {
	patterns := cfg.SkillPatterns
	if len(patterns) == 0 {
		patterns = defaultSkillPatterns
	}

	regexps := make([]*regexp.Regexp, 0, len(patterns))
	for _, pattern := range patterns {
		re, err := regexp.Compile("(?i)" + pattern)
		if err != nil {
			return nil, fmt.Errorf("编译技能词正则失败: %w", err)
		}
		regexps = append(regexps, re)
	}

	return &Vocabulary{
		SkillRegexps:       regexps,
		DegreeWords:        fallback(cfg.DegreeWords, defaultDegreeWords),
		FieldPhrases:       fallback(cfg.FieldPhrases, defaultFieldPhrases),
		InstitutionMarkers: fallback(cfg.InstitutionMarkers, defaultInstitutionMarkers),
		CompanyGuards:      fallback(cfg.CompanyGuards, defaultCompanyGuards),
		LocationGuards:     fallback(cfg.LocationGuards, defaultLocationGuards),
		TitleKeywords:      fallback(cfg.TitleKeywords, defaultTitleKeywords),
		ProperNounGuards:   fallback(cfg.ProperNounGuards, defaultProperNounGuards),
		SkillMarkers:       fallback(cfg.SkillMarkers, defaultSkillMarkers),
	}, nil
}

func fallback(values, defaults []string) []string {
	if len(values) == 0 {
		return defaults
	}
	return values
}
