package translator

import (
	"fmt"
	"log"
	"strings"

	dslipakpdf "github.com/dslipak/pdf"
)

// TextExtractor 降级模式提取器：底层库只暴露纯文本时使用，
// 每个非空行合成一个默认样式的 Run，没有任何位置信息。
type TextExtractor struct{}

// Extract 实现 Extractor 接口
func (e *TextExtractor) Extract(path string) (*Document, error) {
	reader, err := dslipakpdf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("打开 PDF 文件失败: %w", err)
	}

	pageCount := reader.NumPage()
	doc := &Document{
		Path:        path,
		Pages:       make([]Page, 0, pageCount),
		HasGeometry: false,
	}

	for pageNum := 1; pageNum <= pageCount; pageNum++ {
		p := Page{Index: pageNum - 1, Width: DefaultPageWidth, Height: DefaultPageHeight}

		text, err := extractPlainText(reader, pageNum)
		if err != nil {
			log.Printf("警告：无法提取第 %d 页的文本: %v", pageNum, err)
			doc.Pages = append(doc.Pages, p)
			continue
		}

		block := Block{}
		for _, raw := range strings.Split(text, "\n") {
			trimmed := strings.TrimSpace(raw)
			if trimmed == "" {
				continue
			}
			block.Lines = append(block.Lines, Line{
				Text: trimmed,
				Runs: []Run{{Text: trimmed, Size: DefaultFontSize}},
			})
		}

		if len(block.Lines) > 0 {
			p.Blocks = append(p.Blocks, block)
		}
		doc.Pages = append(doc.Pages, p)
	}

	log.Printf("纯文本模式提取完成: %d 页，%d 个可翻译行", len(doc.Pages), doc.LineCount())
	return doc, nil
}

// extractPlainText 提取单页纯文本，隔离底层库的 panic
func extractPlainText(reader *dslipakpdf.Reader, pageNum int) (text string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("提取第 %d 页文本时发生 panic: %v", pageNum, r)
		}
	}()

	page := reader.Page(pageNum)
	return page.GetPlainText(nil)
}
