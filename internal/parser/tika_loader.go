package parser

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"strings"
	"time"
)

// 各扩展名对应的Content-Type，供Tika选择解析器
var tikaContentTypes = map[string]string{
	".pdf":  "application/pdf",
	".docx": "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
	".doc":  "application/msword",
}

// TikaDocumentLoader 基于Apache Tika服务器的文档加载器
// PDF和Word格式都支持
type TikaDocumentLoader struct {
	// Tika服务器地址，例如 http://localhost:9998
	ServerURL string
	// HTTP客户端，可配置超时等参数
	Client *http.Client
	// 日志记录
	logger *log.Logger
}

// TikaOption 定义配置选项函数
type TikaOption func(*TikaDocumentLoader)

// WithTikaLogger 配置自定义日志记录器
func WithTikaLogger(logger *log.Logger) TikaOption {
	return func(e *TikaDocumentLoader) {
		e.logger = logger
	}
}

// WithTimeout 配置HTTP客户端超时时间
func WithTimeout(timeout time.Duration) TikaOption {
	return func(e *TikaDocumentLoader) {
		e.Client.Timeout = timeout
	}
}

var _ DocumentLoader = (*TikaDocumentLoader)(nil)

// NewTikaDocumentLoader 创建一个新的Tika文档加载器
func NewTikaDocumentLoader(serverURL string, options ...TikaOption) *TikaDocumentLoader {
	loader := &TikaDocumentLoader{
		ServerURL: serverURL,
		Client: &http.Client{
			Timeout: 60 * time.Second,
		},
		logger: log.New(os.Stderr, "[Tika] ", log.LstdFlags),
	}

	for _, option := range options {
		option(loader)
	}

	return loader
}

// Parse 从文件路径提取文本
func (e *TikaDocumentLoader) Parse(ctx context.Context, filePath string) (string, error) {
	if _, err := os.Stat(filePath); err != nil {
		return "", fmt.Errorf("%w: %s", ErrFileNotExist, filePath)
	}

	file, err := os.Open(filePath)
	if err != nil {
		return "", fmt.Errorf("打开文件失败 %s: %w", filePath, err)
	}
	defer file.Close()

	return e.ParseReader(ctx, file, filePath)
}

// ParseReader 从io.Reader提取文本，上传Tika服务器解析
func (e *TikaDocumentLoader) ParseReader(ctx context.Context, reader io.Reader, filename string) (string, error) {
	ext, err := CheckExtension(filename)
	if err != nil {
		return "", err
	}

	startTime := time.Now()
	e.logger.Printf("开始提取文档文本 (URI: %s)", filename)

	data, err := io.ReadAll(reader)
	if err != nil {
		return "", fmt.Errorf("读取文档内容失败: %w", err)
	}

	// 纯文本模式
	url := fmt.Sprintf("%s/tika", e.ServerURL)
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, url, bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("创建HTTP请求失败: %w", err)
	}

	req.Header.Set("Content-Type", tikaContentTypes[ext])
	req.Header.Set("Accept", "text/plain")
	if filename != "" {
		req.Header.Set("X-Tika-Resource-Name", filename)
	}

	resp, err := e.Client.Do(req)
	if err != nil {
		return "", fmt.Errorf("请求Tika服务器失败: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("Tika服务器返回错误, 状态码: %d, 响应: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("读取Tika响应失败: %w", err)
	}

	text := CleanText(string(body))
	duration := time.Since(startTime)
	if text == "" {
		e.logger.Printf("文档无文本内容 (用时 %.2f秒)", duration.Seconds())
		return "", fmt.Errorf("%w: %s", ErrEmptyDocument, filename)
	}

	e.logger.Printf("文本提取完成: 提取了 %d 个字符 (用时 %.2f秒)", len(text), duration.Seconds())
	return text, nil
}
