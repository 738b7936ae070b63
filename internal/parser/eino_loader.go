package parser

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"time"

	"github.com/cloudwego/eino-ext/components/document/parser/pdf"
	einoParser "github.com/cloudwego/eino/components/document/parser"
)

// EinoDocumentLoader 使用 Eino PDF Parser 的本地文档加载器
// 只支持PDF；.docx/.doc 返回 ErrUnsupportedFormat（需要Tika加载器）
type EinoDocumentLoader struct {
	parser *pdf.PDFParser
	logger *log.Logger
}

// EinoOption 加载器的配置选项
type EinoOption func(*EinoDocumentLoader)

// WithEinoLogger 配置自定义日志记录器
func WithEinoLogger(logger *log.Logger) EinoOption {
	return func(e *EinoDocumentLoader) {
		e.logger = logger
	}
}

var _ DocumentLoader = (*EinoDocumentLoader)(nil)

// NewEinoDocumentLoader 初始化 Eino PDF 文档加载器
// 不按页面分割，提取整个文档的连续文本
func NewEinoDocumentLoader(ctx context.Context, options ...EinoOption) (*EinoDocumentLoader, error) {
	p, err := pdf.NewPDFParser(ctx, &pdf.Config{
		ToPages: false,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Eino PDF parser: %w", err)
	}

	loader := &EinoDocumentLoader{
		parser: p,
		logger: log.New(os.Stderr, "[PDF加载器] ", log.LstdFlags),
	}

	for _, option := range options {
		option(loader)
	}

	return loader, nil
}

// Parse 从PDF文件路径提取纯文本
func (e *EinoDocumentLoader) Parse(ctx context.Context, filePath string) (string, error) {
	if _, err := os.Stat(filePath); err != nil {
		return "", fmt.Errorf("%w: %s", ErrFileNotExist, filePath)
	}
	if _, err := CheckExtension(filePath); err != nil {
		return "", err
	}

	file, err := os.Open(filePath)
	if err != nil {
		return "", fmt.Errorf("failed to open file %s: %w", filePath, err)
	}
	defer file.Close()

	return e.ParseReader(ctx, file, filePath)
}

// ParseReader 从 io.Reader 中提取文本
func (e *EinoDocumentLoader) ParseReader(ctx context.Context, reader io.Reader, filename string) (string, error) {
	ext, err := CheckExtension(filename)
	if err != nil {
		return "", err
	}
	if ext != ".pdf" {
		// Word文档需要Tika加载器
		return "", fmt.Errorf("%w: %s (eino loader handles PDF only)", ErrUnsupportedFormat, ext)
	}

	startTime := time.Now()
	e.logger.Printf("开始从Reader提取PDF文本 (URI: %s)", filename)

	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	docs, err := e.parser.Parse(ctx, reader,
		einoParser.WithURI(filename),
	)

	duration := time.Since(startTime)
	if err != nil {
		e.logger.Printf("从Reader提取PDF失败: %s (用时 %.2f秒)", err, duration.Seconds())
		return "", fmt.Errorf("eino PDF parser failed for %s: %w", filename, err)
	}

	if len(docs) == 0 {
		e.logger.Printf("PDF解析无结果 (用时 %.2f秒)", duration.Seconds())
		return "", fmt.Errorf("%w: %s", ErrEmptyDocument, filename)
	}

	// 合并所有文档的内容（以防万一返回了多个）
	var sb strings.Builder
	for i, doc := range docs {
		sb.WriteString(doc.Content)
		if i < len(docs)-1 {
			sb.WriteString("\n")
		}
	}

	text := CleanText(sb.String())
	if text == "" {
		return "", fmt.Errorf("%w: %s", ErrEmptyDocument, filename)
	}

	e.logger.Printf("PDF提取完成: 提取了 %d 个字符 (用时 %.2f秒)", len(text), duration.Seconds())
	return text, nil
}
