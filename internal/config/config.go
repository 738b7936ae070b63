package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config 应用程序配置
type Config struct {
	// 服务器配置
	Server ServerConfig `yaml:"server"`

	// 日志配置
	Logger LoggerConfig `yaml:"logger"`

	// Embedding服务配置（OpenAI兼容接口）
	Embedding EmbeddingConfig `yaml:"embedding"`

	// 文档解析器配置
	Parser ParserConfig `yaml:"parser"`

	// Tika服务器配置
	Tika TikaConfig `yaml:"tika"`

	// 匹配器配置
	Matcher MatcherConfig `yaml:"matcher"`

	// 实体抽取配置（词表/守卫列表覆盖）
	Extractor ExtractorConfig `yaml:"extractor"`

	// 链路追踪配置
	Telemetry TelemetryConfig `yaml:"telemetry"`

	// 指标配置
	Metrics MetricsConfig `yaml:"metrics"`
}

// ServerConfig 定义服务器配置
type ServerConfig struct {
	Address string `yaml:"address"` // 例如 ":8080" or "0.0.0.0:8080"
	APIKey  string `yaml:"api_key"` // 可选，为空时不启用鉴权
}

// LoggerConfig 日志配置
type LoggerConfig struct {
	Level        string `yaml:"level"`         // debug, info, warn, error
	Format       string `yaml:"format"`        // json, pretty
	TimeFormat   string `yaml:"time_format"`   // 时间格式
	ReportCaller bool   `yaml:"report_caller"` // 是否报告调用位置
}

// EmbeddingConfig Embedding服务配置（OpenAI兼容接口）
type EmbeddingConfig struct {
	APIKey     string `yaml:"api_key"`
	Model      string `yaml:"model"`
	Dimensions int    `yaml:"dimensions"`
	BaseURL    string `yaml:"base_url"`
}

// ParserConfig 文档解析器配置
type ParserConfig struct {
	Type string `yaml:"type"` // "tika" 或 "eino"，eino仅支持PDF
}

// TikaConfig Tika服务器配置结构
type TikaConfig struct {
	ServerURL string `yaml:"server_url"`      // Tika服务器URL
	Timeout   int    `yaml:"timeout_seconds"` // 超时时间(秒)
}

// MatcherConfig 匹配器配置
type MatcherConfig struct {
	DefaultTopK    int  `yaml:"default_top_k"`   // 默认返回候选数
	SkipDuplicates bool `yaml:"skip_duplicates"` // 文本MD5重复时跳过重复注入
}

// ExtractorConfig 实体抽取配置
// 所有列表为空时使用内置默认词表；非空时整体覆盖对应默认值
type ExtractorConfig struct {
	SkillPatterns      []string `yaml:"skill_patterns"`       // 技能词正则（大小写不敏感、词边界匹配）
	DegreeWords        []string `yaml:"degree_words"`         // 学位词
	FieldPhrases       []string `yaml:"field_phrases"`        // 专业领域短语
	InstitutionMarkers []string `yaml:"institution_markers"`  // 教育机构标记词
	CompanyGuards      []string `yaml:"company_guards"`       // 公司误报守卫（技能词）
	LocationGuards     []string `yaml:"location_guards"`      // 地点误报守卫（技能词）
	TitleKeywords      []string `yaml:"title_keywords"`       // 职位关键词
	ProperNounGuards   []string `yaml:"proper_noun_guards"`   // 专有名词守卫（已知非技能）
	SkillMarkers       []string `yaml:"skill_markers"`        // 名词技能标记子串
}

// TelemetryConfig 链路追踪配置
type TelemetryConfig struct {
	Enabled        bool   `yaml:"enabled"`
	Endpoint       string `yaml:"endpoint"` // OTLP gRPC端点，例如 "localhost:4317"
	Insecure       bool   `yaml:"insecure"`
	ServiceName    string `yaml:"service_name"`
	ServiceVersion string `yaml:"service_version"`
	ExportTimeout  string `yaml:"export_timeout"` // 例如 "10s"
}

// MetricsConfig 指标配置
type MetricsConfig struct {
	Enabled bool   `yaml:"enabled"`
	Address string `yaml:"address"` // promhttp独立监听地址，例如 ":9091"
}

// LoadConfig 从文件加载配置
func LoadConfig(configPath string) (*Config, error) {
	// 如果未指定配置文件路径，则尝试在默认位置查找
	if configPath == "" {
		searchPaths := []string{
			"config.yaml",
			"./config.yaml",
			"../config.yaml",
			"../../config.yaml",
			filepath.Join(os.Getenv("HOME"), ".resume-screener", "config.yaml"),
		}

		// 获取当前可执行文件路径
		execPath, err := os.Executable()
		if err == nil {
			execDir := filepath.Dir(execPath)
			searchPaths = append(searchPaths, filepath.Join(execDir, "config.yaml"))
			searchPaths = append(searchPaths, filepath.Join(execDir, "..", "config.yaml"))
		}

		for _, path := range searchPaths {
			if _, err := os.Stat(path); err == nil {
				configPath = path
				break
			}
		}

		// 如果仍找不到配置文件，测试环境下直接返回默认配置
		if configPath == "" {
			if inTestEnv() {
				return createDefaultConfig(), nil
			}
			configPath = "config.yaml"
		}
	}

	// 检查文件是否存在
	if _, err := os.Stat(configPath); err != nil {
		if inTestEnv() {
			return createDefaultConfig(), nil
		}
		return nil, fmt.Errorf("配置文件不存在: %s", configPath)
	}

	// 读取配置文件
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("读取配置文件失败: %w", err)
	}

	// 解析配置文件
	config := createDefaultConfig()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("解析配置文件失败: %w", err)
	}

	// 从环境变量覆盖配置（如果存在）
	if envKey := os.Getenv("EMBEDDING_API_KEY"); envKey != "" {
		config.Embedding.APIKey = envKey
	}
	if envURL := os.Getenv("EMBEDDING_BASE_URL"); envURL != "" {
		config.Embedding.BaseURL = envURL
	}
	if envKey := os.Getenv("SERVER_API_KEY"); envKey != "" {
		config.Server.APIKey = envKey
	}

	applyDefaults(config)
	return config, nil
}

// inTestEnv 根据进程参数判断是否处于go test环境
func inTestEnv() bool {
	for _, arg := range os.Args {
		if strings.Contains(arg, "test") {
			return true
		}
	}
	return false
}

// applyDefaults 补齐缺省值
func applyDefaults(config *Config) {
	if config.Server.Address == "" {
		config.Server.Address = ":8080"
	}
	if config.Matcher.DefaultTopK <= 0 {
		config.Matcher.DefaultTopK = 5
	}
	if config.Embedding.Model == "" {
		config.Embedding.Model = "text-embedding-3-small"
	}
	if config.Embedding.BaseURL == "" {
		config.Embedding.BaseURL = "https://api.openai.com/v1/embeddings"
	}
	if config.Parser.Type == "" {
		config.Parser.Type = "eino"
	}
}

// 创建一个默认配置，用于测试环境和缺省场景
func createDefaultConfig() *Config {
	config := &Config{}

	config.Server.Address = ":8080"

	config.Logger.Level = "info"
	config.Logger.Format = "pretty"
	config.Logger.TimeFormat = "2006-01-02 15:04:05"
	config.Logger.ReportCaller = true

	config.Embedding.Model = "text-embedding-3-small"
	config.Embedding.Dimensions = 1536
	config.Embedding.BaseURL = "https://api.openai.com/v1/embeddings"
	if envKey := os.Getenv("EMBEDDING_API_KEY"); envKey != "" {
		config.Embedding.APIKey = envKey
	} else {
		config.Embedding.APIKey = "test_api_key"
	}

	config.Parser.Type = "eino"

	config.Tika.ServerURL = "http://localhost:9998"
	config.Tika.Timeout = 60

	config.Matcher.DefaultTopK = 5
	config.Matcher.SkipDuplicates = false

	config.Telemetry.Enabled = false
	config.Telemetry.Endpoint = "localhost:4317"
	config.Telemetry.Insecure = true
	config.Telemetry.ServiceName = "resume-screener"
	config.Telemetry.ServiceVersion = "1.0.0"
	config.Telemetry.ExportTimeout = "10s"

	config.Metrics.Enabled = false
	config.Metrics.Address = ":9091"

	return config
}

// CreateSampleConfig 创建一个示例配置文件
func CreateSampleConfig(filePath string) error {
	if _, err := os.Stat(filePath); err == nil {
		return fmt.Errorf("文件 '%s' 已存在，不会覆盖", filePath)
	}

	config := createDefaultConfig()

	data, err := yaml.Marshal(config)
	if err != nil {
		return fmt.Errorf("序列化配置失败: %w", err)
	}

	if err := os.WriteFile(filePath, data, 0644); err != nil {
		return fmt.Errorf("写入示例配置文件 '%s' 失败: %w", filePath, err)
	}

	fmt.Printf("示例配置文件已创建: %s\n", filePath)
	return nil
}

// GetDuration utility to parse duration strings from config
func GetDuration(durationStr string, defaultDuration time.Duration) time.Duration {
	if durationStr == "" {
		return defaultDuration
	}
	d, err := time.ParseDuration(durationStr)
	if err != nil {
		return defaultDuration
	}
	return d
}
