package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestLoadConfigFromFile 验证 YAML 配置能被成功加载且缺省值被补齐
func TestLoadConfigFromFile(t *testing.T) {
	yamlContent := `
server:
  address: ":9000"
embedding:
  model: "text-embedding-3-large"
  dimensions: 3072
matcher:
  default_top_k: 10
  skip_duplicates: true
extractor:
  degree_words:
    - bachelor
    - master
`
	tmpDir, err := os.MkdirTemp("", "config-test")
	require.NoError(t, err, "无法创建临时目录")
	defer os.RemoveAll(tmpDir)

	configPath := filepath.Join(tmpDir, "config.yaml")
	err = os.WriteFile(configPath, []byte(yamlContent), 0644)
	require.NoError(t, err, "无法写入临时配置文件")

	config, err := LoadConfig(configPath)
	require.NoError(t, err, "加载配置不应返回错误")
	require.NotNil(t, config, "配置对象不应为 nil")

	assert.Equal(t, ":9000", config.Server.Address)
	assert.Equal(t, "text-embedding-3-large", config.Embedding.Model)
	assert.Equal(t, 3072, config.Embedding.Dimensions)
	assert.Equal(t, 10, config.Matcher.DefaultTopK)
	assert.True(t, config.Matcher.SkipDuplicates)
	assert.Equal(t, []string{"bachelor", "master"}, config.Extractor.DegreeWords)

	// 未配置的字段应落回默认值
	assert.Equal(t, "eino", config.Parser.Type, "未配置解析器类型时应默认使用eino")
	assert.NotEmpty(t, config.Embedding.BaseURL, "BaseURL应有默认值")
}

// TestLoadConfigMissingFile 验证测试环境下文件缺失时返回默认配置
func TestLoadConfigMissingFile(t *testing.T) {
	config, err := LoadConfig(filepath.Join(os.TempDir(), "does-not-exist-config.yaml"))
	require.NoError(t, err, "测试环境下缺失配置文件不应报错")
	require.NotNil(t, config)

	assert.Equal(t, ":8080", config.Server.Address)
	assert.Equal(t, 5, config.Matcher.DefaultTopK)
	assert.Equal(t, "pretty", config.Logger.Format)
}

// TestEnvOverride 验证环境变量覆盖API密钥
func TestEnvOverride(t *testing.T) {
	yamlContent := `
embedding:
  api_key: "from_file"
`
	tmpDir, err := os.MkdirTemp("", "config-test-env")
	require.NoError(t, err)
	defer os.RemoveAll(tmpDir)

	configPath := filepath.Join(tmpDir, "config.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte(yamlContent), 0644))

	t.Setenv("EMBEDDING_API_KEY", "from_env")

	config, err := LoadConfig(configPath)
	require.NoError(t, err)
	assert.Equal(t, "from_env", config.Embedding.APIKey, "环境变量应覆盖文件中的API密钥")
}

// TestGetDuration 验证时长解析的缺省回退
func TestGetDuration(t *testing.T) {
	assert.Equal(t, 10*time.Second, GetDuration("10s", time.Second))
	assert.Equal(t, time.Second, GetDuration("", time.Second))
	assert.Equal(t, time.Second, GetDuration("not-a-duration", time.Second))
}
