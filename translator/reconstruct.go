package translator

import (
	"fmt"
	"log"
	"math"
	"os"

	"github.com/jung-kurt/gofpdf"
)

// PageBreakMarker 降级模式下分隔原始页面的标记行
const PageBreakMarker = "--- Page Break ---"

// 富模式下锚点无效时的回退位置和字号
const (
	fallbackMargin   = 72.0
	fallbackFontSize = 11.0
	fallbackLineGap  = 14.0
)

// ReconstructStats 重构统计：让测试能区分“正常放置”和“回退放置”
type ReconstructStats struct {
	PagesWritten   int
	LinesPlaced    int
	FallbackPlaced int
}

// Reconstructor 把译文按原始版面写回新的 PDF。FontPath 可选：
// 指定 TTF 字体文件时以 UTF-8 字体输出，覆盖非拉丁语言；留空时
// 使用内置字体并把文本转码到 cp1252。
type Reconstructor struct {
	FontPath string
}

// Reconstruct 生成译文 PDF。原文与译文必须是平行结构（页/块/行
// 数量与顺序完全一致），否则返回错误。致命失败时不留下残缺的输出文件。
func (r *Reconstructor) Reconstruct(doc *Document, translated *TranslatedDocument, outputPath string) (ReconstructStats, error) {
	var stats ReconstructStats

	if len(doc.Pages) != len(translated.Pages) {
		return stats, fmt.Errorf("译文页数 (%d) 与原文页数 (%d) 不一致", len(translated.Pages), len(doc.Pages))
	}

	pdf := gofpdf.New("P", "pt", "A4", "")
	pdf.SetAutoPageBreak(false, 0)
	family, encode := r.setupFont(pdf)

	var err error
	if doc.HasGeometry {
		err = r.writeLayoutPages(pdf, doc, translated, family, encode, &stats)
	} else {
		err = r.writeFlowPages(pdf, doc, translated, family, encode, &stats)
	}
	if err != nil {
		return stats, err
	}

	if err := pdf.Error(); err != nil {
		return stats, fmt.Errorf("生成 PDF 失败: %w", err)
	}

	if err := pdf.OutputFileAndClose(outputPath); err != nil {
		os.Remove(outputPath)
		return stats, fmt.Errorf("保存 PDF 文件失败: %w", err)
	}

	log.Printf("重构完成: %d 页，%d 行（其中 %d 行使用回退位置）",
		stats.PagesWritten, stats.LinesPlaced, stats.FallbackPlaced)
	return stats, nil
}

// setupFont 选择输出字体。配置了 TTF 字体时注册为 UTF-8 字体，
// 文本原样写入；否则使用内置 Arial，文本转码到 cp1252（内置字体
// 只认单字节编码，直接写 UTF-8 会产生乱码）。
func (r *Reconstructor) setupFont(pdf *gofpdf.Fpdf) (string, func(string) string) {
	if r.FontPath != "" {
		if _, err := os.Stat(r.FontPath); err != nil {
			log.Printf("警告：字体文件不可用，回退到内置字体: %v", err)
		} else {
			// 同一个字体文件注册全部四种样式，粗斜体请求不会落空
			for _, style := range []string{"", "B", "I", "BI"} {
				pdf.AddUTF8Font("unicode", style, r.FontPath)
			}
			if !pdf.Err() {
				return "unicode", func(s string) string { return s }
			}
			log.Printf("警告：加载字体 %s 失败，回退到内置字体: %v", r.FontPath, pdf.Error())
			pdf.ClearError()
		}
	}
	return "Arial", pdf.UnicodeTranslatorFromDescriptor("")
}

// writeLayoutPages 富模式：每个原始页对应一个输出页，译文行锚定在
// 原始行的左下角，字号取代表 Run 的钳制值。
func (r *Reconstructor) writeLayoutPages(pdf *gofpdf.Fpdf, doc *Document, translated *TranslatedDocument, family string, encode func(string) string, stats *ReconstructStats) error {
	for pi, page := range doc.Pages {
		tp := translated.Pages[pi]
		if len(page.Blocks) != len(tp.Blocks) {
			return fmt.Errorf("第 %d 页译文块数 (%d) 与原文 (%d) 不一致", pi+1, len(tp.Blocks), len(page.Blocks))
		}

		width, height := page.Width, page.Height
		if width <= 0 || height <= 0 {
			width, height = DefaultPageWidth, DefaultPageHeight
		}
		pdf.AddPageFormat("P", gofpdf.SizeType{Wd: width, Ht: height})
		stats.PagesWritten++

		// 回退位置从页面顶部的边距开始，逐行下移
		flowY := fallbackMargin

		for bi, block := range page.Blocks {
			tb := tp.Blocks[bi]
			if len(block.Lines) != len(tb.Lines) {
				return fmt.Errorf("第 %d 页第 %d 块译文行数 (%d) 与原文 (%d) 不一致", pi+1, bi+1, len(tb.Lines), len(block.Lines))
			}

			for li, line := range block.Lines {
				text := tb.Lines[li].Text
				size := ClampFontSize(line.RepresentativeSize())
				x, y, ok := placementAnchor(line.BBox, size, width, height)
				style := runStyle(line.Runs)

				if !ok {
					// 锚点无效：放在回退位置，用默认字号，绝不中断整页
					size = fallbackFontSize
					style = ""
					x, y = fallbackMargin, flowY
					flowY += fallbackLineGap
					stats.FallbackPlaced++
				}

				pdf.SetFont(family, style, size)
				pdf.SetTextColor(0, 0, 0)
				pdf.SetXY(x, y)
				pdf.Cell(0, size, encode(text))
				stats.LinesPlaced++
			}
		}
	}
	return nil
}

// writeFlowPages 降级模式：没有位置信息，译文按顺序排成段落，
// 不同原始页之间插入分页标记。
func (r *Reconstructor) writeFlowPages(pdf *gofpdf.Fpdf, doc *Document, translated *TranslatedDocument, family string, encode func(string) string, stats *ReconstructStats) error {
	pdf.SetAutoPageBreak(true, fallbackMargin)
	pdf.AddPage()
	stats.PagesWritten++

	for pi, page := range doc.Pages {
		tp := translated.Pages[pi]
		if len(page.Blocks) != len(tp.Blocks) {
			return fmt.Errorf("第 %d 页译文块数 (%d) 与原文 (%d) 不一致", pi+1, len(tp.Blocks), len(page.Blocks))
		}

		if pi > 0 {
			pdf.Ln(fallbackLineGap)
			pdf.SetFont(family, "I", 10)
			pdf.CellFormat(0, fallbackLineGap, PageBreakMarker, "", 1, "C", false, 0, "")
			pdf.Ln(fallbackLineGap)
		}

		pdf.SetFont(family, "", DefaultFontSize)
		for bi, block := range page.Blocks {
			tb := tp.Blocks[bi]
			if len(block.Lines) != len(tb.Lines) {
				return fmt.Errorf("第 %d 页第 %d 块译文行数 (%d) 与原文 (%d) 不一致", pi+1, bi+1, len(tb.Lines), len(block.Lines))
			}

			for _, line := range tb.Lines {
				pdf.MultiCell(0, fallbackLineGap, encode(line.Text), "", "L", false)
				stats.LinesPlaced++
			}
			pdf.Ln(4)
		}
	}
	return nil
}

// placementAnchor 把行包围盒的左下角换算成 gofpdf 坐标（原点在左上）。
// 坐标缺失、非有限或落在页外时报告无效，由调用方回退。
func placementAnchor(bbox *Rect, size, pageW, pageH float64) (float64, float64, bool) {
	if bbox == nil {
		return 0, 0, false
	}

	x := bbox.X0
	y := pageH - bbox.Y0 - size

	if math.IsNaN(x) || math.IsInf(x, 0) || math.IsNaN(y) || math.IsInf(y, 0) {
		return 0, 0, false
	}
	if x < 0 || x >= pageW || y < 0 || y > pageH {
		return 0, 0, false
	}

	return x, y, true
}

// runStyle 从代表 Run 推导 gofpdf 字体样式
func runStyle(runs []Run) string {
	if len(runs) == 0 {
		return ""
	}
	style := ""
	if runs[0].Bold {
		style += "B"
	}
	if runs[0].Italic {
		style += "I"
	}
	return style
}
