package translator

import (
	"fmt"
	"log"
	"math"
	"sort"
	"strings"

	"github.com/ledongthuc/pdf"
)

// Extractor 从源文件构建结构化文档模型
type Extractor interface {
	Extract(path string) (*Document, error)
}

// ExtractDocument 提取文档：先验证，再优先尝试带版面信息的富模式，
// 富模式失败或提取不到任何定位文本时降级为纯文本模式。
func ExtractDocument(path string) (*Document, error) {
	if err := ValidatePDF(path); err != nil {
		return nil, err
	}

	layout := &LayoutExtractor{}
	doc, err := layout.Extract(path)
	if err == nil && doc.LineCount() > 0 {
		return doc, nil
	}
	if err != nil {
		log.Printf("富模式提取失败，降级为纯文本模式: %v", err)
	} else {
		log.Printf("富模式未提取到定位文本，降级为纯文本模式")
	}

	text := &TextExtractor{}
	doc, err = text.Extract(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSourceUnreadable, err)
	}
	return doc, nil
}

// LayoutExtractor 富模式提取器：逐页读取定位文本行，保留坐标、
// 字体、字号等样式信息。
type LayoutExtractor struct{}

// Extract 实现 Extractor 接口
func (e *LayoutExtractor) Extract(path string) (*Document, error) {
	f, reader, err := pdf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("打开 PDF 文件失败: %w", err)
	}
	defer f.Close()

	doc := &Document{
		Path:        path,
		Pages:       make([]Page, 0, reader.NumPage()),
		HasGeometry: true,
	}

	for pageNum := 1; pageNum <= reader.NumPage(); pageNum++ {
		page := reader.Page(pageNum)

		p := Page{Index: pageNum - 1, Width: DefaultPageWidth, Height: DefaultPageHeight}
		if !page.V.IsNull() {
			p.Width, p.Height = pageSize(page)
			lines, err := extractPageLines(page)
			if err != nil {
				log.Printf("警告：解析第 %d 页失败: %v", pageNum, err)
			} else {
				p.Blocks = groupLinesIntoBlocks(lines)
			}
		}

		doc.Pages = append(doc.Pages, p)
	}

	log.Printf("富模式提取完成: %d 页，%d 个可翻译行", len(doc.Pages), doc.LineCount())
	return doc, nil
}

// extractPageLines 把一页的定位文本按行读出，每行一个 Line，
// 行内每个定位片段一个 Run。空白行不会进入结果。
func extractPageLines(page pdf.Page) (lines []Line, err error) {
	// ledongthuc/pdf 解析异常内容流时可能 panic
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("提取定位文本时发生 panic: %v", r)
		}
	}()

	rows, err := page.GetTextByRow()
	if err != nil {
		return nil, err
	}

	for _, row := range rows {
		if len(row.Content) == 0 {
			continue
		}

		var runs []Run
		var sb strings.Builder
		bbox := &Rect{X0: math.Inf(1), Y0: math.Inf(1), X1: math.Inf(-1), Y1: math.Inf(-1)}

		for _, t := range row.Content {
			if t.S == "" {
				continue
			}

			fontLower := strings.ToLower(t.Font)
			runs = append(runs, Run{
				Text:   t.S,
				Font:   t.Font,
				Size:   t.FontSize,
				Bold:   strings.Contains(fontLower, "bold"),
				Italic: strings.Contains(fontLower, "italic") || strings.Contains(fontLower, "oblique"),
			})
			sb.WriteString(t.S)

			bbox.X0 = math.Min(bbox.X0, t.X)
			bbox.Y0 = math.Min(bbox.Y0, t.Y)
			bbox.X1 = math.Max(bbox.X1, t.X+t.W)
			bbox.Y1 = math.Max(bbox.Y1, t.Y+t.FontSize)
		}

		text := sb.String()
		if strings.TrimSpace(text) == "" {
			continue
		}

		lines = append(lines, Line{Text: text, BBox: bbox, Runs: runs})
	}

	// PDF 坐标系原点在左下角，Y 越大越靠上；按自上而下的阅读顺序排序
	sort.SliceStable(lines, func(i, j int) bool {
		return lines[i].BBox.Y0 > lines[j].BBox.Y0
	})

	return lines, nil
}

// groupLinesIntoBlocks 按垂直间距把相邻行归入同一个块：
// 行距超过约 1.8 倍字号视为新段落。
func groupLinesIntoBlocks(lines []Line) []Block {
	if len(lines) == 0 {
		return nil
	}

	var blocks []Block
	current := Block{Lines: []Line{lines[0]}}

	for i := 1; i < len(lines); i++ {
		prev := current.Lines[len(current.Lines)-1]
		gap := prev.BBox.Y0 - lines[i].BBox.Y0
		threshold := ClampFontSize(prev.RepresentativeSize()) * 1.8

		if gap > threshold {
			current.BBox = blockBBox(current.Lines)
			blocks = append(blocks, current)
			current = Block{Lines: []Line{lines[i]}}
		} else {
			current.Lines = append(current.Lines, lines[i])
		}
	}

	current.BBox = blockBBox(current.Lines)
	blocks = append(blocks, current)
	return blocks
}

// blockBBox 计算块内所有行的联合包围盒
func blockBBox(lines []Line) *Rect {
	bbox := &Rect{X0: math.Inf(1), Y0: math.Inf(1), X1: math.Inf(-1), Y1: math.Inf(-1)}
	for _, line := range lines {
		if line.BBox == nil {
			continue
		}
		bbox.X0 = math.Min(bbox.X0, line.BBox.X0)
		bbox.Y0 = math.Min(bbox.Y0, line.BBox.Y0)
		bbox.X1 = math.Max(bbox.X1, line.BBox.X1)
		bbox.Y1 = math.Max(bbox.Y1, line.BBox.Y1)
	}
	if math.IsInf(bbox.X0, 1) {
		return nil
	}
	return bbox
}

// pageSize 读取页面 MediaBox；读不到时退回 A4 默认尺寸
func pageSize(page pdf.Page) (float64, float64) {
	mb := page.V.Key("MediaBox")
	if mb.Kind() == pdf.Array && mb.Len() == 4 {
		w := mb.Index(2).Float64() - mb.Index(0).Float64()
		h := mb.Index(3).Float64() - mb.Index(1).Float64()
		if w > 0 && h > 0 {
			return w, h
		}
	}
	return DefaultPageWidth, DefaultPageHeight
}
