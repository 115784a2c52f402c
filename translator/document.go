package translator

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

// 默认页面尺寸（A4，单位 pt）
const (
	DefaultPageWidth  = 595.0
	DefaultPageHeight = 842.0
)

// 字体大小限制：源文档元数据缺失或异常时避免产生不合理的输出字号
const (
	MinFontSize     = 8.0
	MaxFontSize     = 16.0
	DefaultFontSize = 12.0
)

var (
	// ErrSourceUnreadable 输入文件不存在或不是有效的 PDF
	ErrSourceUnreadable = errors.New("无法读取源文档")
	// ErrUnsupportedLanguage 目标语言不在支持列表中
	ErrUnsupportedLanguage = errors.New("不支持的目标语言")
)

// Rect 页面坐标系中的包围盒（PDF 原生坐标，Y 轴向上）
type Rect struct {
	X0 float64 `json:"x0"`
	Y0 float64 `json:"y0"`
	X1 float64 `json:"x1"`
	Y1 float64 `json:"y1"`
}

// Run 最小的样式单元：文本加字体属性
type Run struct {
	Text   string  `json:"text"`
	Font   string  `json:"font,omitempty"`
	Size   float64 `json:"size"`
	Bold   bool    `json:"bold,omitempty"`
	Italic bool    `json:"italic,omitempty"`
	Color  string  `json:"color,omitempty"`
}

// Line 翻译的原子单元，由一个或多个 Run 组成
type Line struct {
	Text string `json:"text"`
	BBox *Rect  `json:"bbox,omitempty"`
	Runs []Run  `json:"runs"`
}

// Block 共享布局区域的一组行（例如一个段落）
type Block struct {
	BBox  *Rect  `json:"bbox,omitempty"`
	Lines []Line `json:"lines"`
}

// Page 文档中的一页，顺序决定输出页面顺序
type Page struct {
	Index  int     `json:"index"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	Blocks []Block `json:"blocks"`
}

// Document 提取出的文档结构模型。HasGeometry 标记是否带有位置信息：
// 重构器只根据这一个标志选择富模式或降级模式，不再维护两套流水线。
type Document struct {
	Path        string `json:"path"`
	Pages       []Page `json:"pages"`
	HasGeometry bool   `json:"hasGeometry"`
}

// TranslatedLine 与原始 Line 一一对应，持有译文并引用原始包围盒
type TranslatedLine struct {
	Text string `json:"text"`
	BBox *Rect  `json:"bbox,omitempty"`
}

// TranslatedBlock 与原始 Block 平行的译文块
type TranslatedBlock struct {
	Lines []TranslatedLine `json:"lines"`
}

// TranslatedPage 与原始 Page 平行的译文页
type TranslatedPage struct {
	Index  int               `json:"index"`
	Blocks []TranslatedBlock `json:"blocks"`
}

// TranslatedDocument 与原始 Document 逐页逐块逐行平行的译文结构。
// 页/块/行数量必须与原文完全一致，这是重构器的前置条件。
type TranslatedDocument struct {
	Pages []TranslatedPage `json:"pages"`
}

// FullText 拼接文档的全部行文本，用于语言检测
func (d *Document) FullText() string {
	var sb strings.Builder
	for _, page := range d.Pages {
		for _, block := range page.Blocks {
			for _, line := range block.Lines {
				sb.WriteString(line.Text)
				sb.WriteString(" ")
			}
		}
	}
	return sb.String()
}

// LineCount 统计文档的可翻译行数
func (d *Document) LineCount() int {
	n := 0
	for _, page := range d.Pages {
		for _, block := range page.Blocks {
			n += len(block.Lines)
		}
	}
	return n
}

// RepresentativeSize 返回行的代表字号：只取第一个 Run 的字号。
// 混合样式的行会丢失后续 Run 的样式，这是有意保留的简化行为。
func (l *Line) RepresentativeSize() float64 {
	if len(l.Runs) == 0 {
		return DefaultFontSize
	}
	return l.Runs[0].Size
}

// ClampFontSize 把字号限制在合理范围内
func ClampFontSize(size float64) float64 {
	if size != size || size < MinFontSize { // NaN 或过小
		return MinFontSize
	}
	if size > MaxFontSize {
		return MaxFontSize
	}
	return size
}

// ValidatePDF 验证文件是否为可解析的 PDF
func ValidatePDF(filePath string) error {
	ext := strings.ToLower(filepath.Ext(filePath))
	if ext != ".pdf" {
		return fmt.Errorf("%w: 文件必须是 PDF 格式: %s", ErrSourceUnreadable, filePath)
	}

	if _, err := os.Stat(filePath); err != nil {
		return fmt.Errorf("%w: %v", ErrSourceUnreadable, err)
	}

	if err := api.ValidateFile(filePath, model.NewDefaultConfiguration()); err != nil {
		return fmt.Errorf("%w: 无效的 PDF 文件: %v", ErrSourceUnreadable, err)
	}

	return nil
}

// GetPDFPageCount 获取 PDF 页数
func GetPDFPageCount(filePath string) (int, error) {
	count, err := api.PageCountFile(filePath)
	if err != nil {
		return 0, fmt.Errorf("获取页数失败: %w", err)
	}
	return count, nil
}
