package parser

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resume-screener-go/internal/config"
)

func newTestEmbedder(t *testing.T, handler http.HandlerFunc) (*OpenAIEmbedder, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	embedder, err := NewOpenAIEmbedder(config.EmbeddingConfig{
		APIKey:     "test-key",
		Model:      "text-embedding-3-small",
		Dimensions: 3,
		BaseURL:    server.URL,
	})
	require.NoError(t, err)
	return embedder, server
}

// TestEmbedStrings 验证请求构造与响应解析
func TestEmbedStrings(t *testing.T) {
	embedder, _ := newTestEmbedder(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		var req openAIEmbeddingRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "text-embedding-3-small", req.Model)
		assert.Equal(t, 3, req.Dimensions)

		resp := openAIEmbeddingResponse{
			Object: "list",
			Data: []openAIDataEntry{
				{Object: "embedding", Embedding: []float64{0.3, 0.4, 0.5}, Index: 1},
				{Object: "embedding", Embedding: []float64{0.1, 0.2, 0.3}, Index: 0},
			},
			Model: "text-embedding-3-small",
			Usage: openAIUsage{PromptTokens: 4, TotalTokens: 4},
		}
		_ = json.NewEncoder(w).Encode(resp)
	})

	vectors, err := embedder.EmbedStrings(context.Background(), []string{"hello", "world"})
	require.NoError(t, err)
	require.Len(t, vectors, 2)
	// 响应按Index归位
	assert.Equal(t, []float64{0.1, 0.2, 0.3}, vectors[0])
	assert.Equal(t, []float64{0.3, 0.4, 0.5}, vectors[1])
}

// TestEmbedStringsEmptyInput 空输入不应发起请求
func TestEmbedStringsEmptyInput(t *testing.T) {
	called := false
	embedder, _ := newTestEmbedder(t, func(w http.ResponseWriter, r *http.Request) {
		called = true
	})

	vectors, err := embedder.EmbedStrings(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, vectors)
	assert.False(t, called, "空输入不应调用HTTP接口")
}

// TestEmbedStringsAPIError 非200响应应返回错误
func TestEmbedStringsAPIError(t *testing.T) {
	embedder, _ := newTestEmbedder(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_ = json.NewEncoder(w).Encode(openAIEmbeddingResponse{
			Error: &openAIErrorPayload{Message: "invalid api key", Type: "auth_error"},
		})
	})

	_, err := embedder.EmbedStrings(context.Background(), []string{"hello"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid api key")
}

// TestNewOpenAIEmbedderRequiresKey 缺少API密钥时拒绝创建
func TestNewOpenAIEmbedderRequiresKey(t *testing.T) {
	_, err := NewOpenAIEmbedder(config.EmbeddingConfig{})
	assert.Error(t, err)
}
