package parser

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
)

// 文档加载失败的原因，调用方按类型区分处理
var (
	ErrFileNotExist      = errors.New("file does not exist")
	ErrUnsupportedFormat = errors.New("unsupported file format")
	ErrEmptyDocument     = errors.New("no text content found in document")
)

// 支持的简历文件扩展名
var supportedExtensions = map[string]struct{}{
	".pdf":  {},
	".docx": {},
	".doc":  {},
}

// DocumentLoader 文档加载器接口，将简历文件解码为纯文本
type DocumentLoader interface {
	// Parse 从文件路径提取文本
	Parse(ctx context.Context, filePath string) (string, error)

	// ParseReader 从io.Reader提取文本，filename用于识别格式
	ParseReader(ctx context.Context, reader io.Reader, filename string) (string, error)
}

// CheckExtension 校验文件扩展名是否受支持，返回小写扩展名
func CheckExtension(filename string) (string, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	if _, ok := supportedExtensions[ext]; !ok {
		return ext, fmt.Errorf("%w: %s", ErrUnsupportedFormat, ext)
	}
	return ext, nil
}
