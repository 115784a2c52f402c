package translator

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/jung-kurt/gofpdf"
)

// writeSamplePDF 生成一个两页的英文测试 PDF
func writeSamplePDF(t *testing.T, path string) {
	t.Helper()

	pdf := gofpdf.New("P", "pt", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Arial", "B", 16)
	pdf.SetXY(72, 72)
	pdf.Cell(0, 16, "Sample Document Title")
	pdf.SetFont("Arial", "", 12)
	pdf.SetXY(72, 110)
	pdf.Cell(0, 12, "This is the first page of the document.")

	pdf.AddPage()
	pdf.SetFont("Arial", "", 12)
	pdf.SetXY(72, 72)
	pdf.Cell(0, 12, "The second page has different content.")

	if err := pdf.OutputFileAndClose(path); err != nil {
		t.Fatalf("生成测试 PDF 失败: %v", err)
	}
}

// newPipelineWithProvider 启动模拟提供商并构造流水线
func newPipelineWithProvider(t *testing.T) *Pipeline {
	t.Helper()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/translate":
			var req struct {
				Q string `json:"q"`
			}
			json.NewDecoder(r.Body).Decode(&req)
			json.NewEncoder(w).Encode(map[string]string{"translatedText": "[ES] " + req.Q})
		case "/languages":
			json.NewEncoder(w).Encode([]map[string]string{
				{"code": "en", "name": "English"},
				{"code": "es", "name": "Spanish"},
			})
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(server.Close)

	return NewPipeline(NewClient(server.URL, nil))
}

// TestPipelineTranslateFile 端到端：提取 → 检测 → 翻译 → 重构
func TestPipelineTranslateFile(t *testing.T) {
	dir := t.TempDir()
	inputPath := filepath.Join(dir, "sample.pdf")
	writeSamplePDF(t, inputPath)

	pipeline := newPipelineWithProvider(t)
	outputPath := filepath.Join(dir, "sample_es.pdf")

	result := pipeline.TranslateFile(inputPath, "es", outputPath)
	if !result.Success {
		t.Fatalf("翻译应成功: %s (%v)", result.Message, result.Err)
	}

	if result.SourceLanguage != "English" {
		t.Errorf("源语言应检测为 English，实际为 %q", result.SourceLanguage)
	}
	if result.TargetLanguage != "Spanish" {
		t.Errorf("目标语言应为 Spanish，实际为 %q", result.TargetLanguage)
	}
	if result.OutputFile != outputPath {
		t.Errorf("输出路径不符: %q", result.OutputFile)
	}

	// 输出必须是与原文页数一致的有效 PDF
	if err := ValidatePDF(outputPath); err != nil {
		t.Fatalf("输出不是有效的 PDF: %v", err)
	}
	count, err := GetPDFPageCount(outputPath)
	if err != nil {
		t.Fatalf("读取输出页数失败: %v", err)
	}
	inputCount, err := GetPDFPageCount(inputPath)
	if err != nil {
		t.Fatalf("读取输入页数失败: %v", err)
	}
	if count != inputCount {
		t.Errorf("输出页数 (%d) 应与输入页数 (%d) 一致", count, inputCount)
	}
}

// TestPipelineUnsupportedLanguage 不支持的目标语言在提取之前失败，不产生输出
func TestPipelineUnsupportedLanguage(t *testing.T) {
	dir := t.TempDir()
	inputPath := filepath.Join(dir, "sample.pdf")
	writeSamplePDF(t, inputPath)

	pipeline := newPipelineWithProvider(t)
	result := pipeline.TranslateFile(inputPath, "xx", "")

	if result.Success {
		t.Fatal("不支持的语言不应成功")
	}
	if !errors.Is(result.Err, ErrUnsupportedLanguage) {
		t.Errorf("错误应为 ErrUnsupportedLanguage，实际为 %v", result.Err)
	}
	if result.OutputFile != "" {
		t.Errorf("失败时不应设置输出文件: %q", result.OutputFile)
	}

	// 目录里除输入外不应出现任何输出文件
	entries, _ := os.ReadDir(dir)
	if len(entries) != 1 {
		t.Errorf("失败时不应留下输出文件，目录内容: %v", entries)
	}
}

// TestPipelineUnreadableSource 不存在或非 PDF 的输入报源文档不可读
func TestPipelineUnreadableSource(t *testing.T) {
	pipeline := newPipelineWithProvider(t)

	result := pipeline.TranslateFile(filepath.Join(t.TempDir(), "missing.pdf"), "es", "")
	if result.Success {
		t.Fatal("不存在的文件不应成功")
	}
	if !errors.Is(result.Err, ErrSourceUnreadable) {
		t.Errorf("错误应为 ErrSourceUnreadable，实际为 %v", result.Err)
	}

	// 扩展名不对的文件同样不可读
	notPDF := filepath.Join(t.TempDir(), "notes.txt")
	os.WriteFile(notPDF, []byte("plain text"), 0644)
	result = pipeline.TranslateFile(notPDF, "es", "")
	if !errors.Is(result.Err, ErrSourceUnreadable) {
		t.Errorf("非 PDF 文件应报源文档不可读，实际为 %v", result.Err)
	}

	// 0 字节的 .pdf 文件通不过格式验证
	emptyDir := t.TempDir()
	emptyPDF := filepath.Join(emptyDir, "empty.pdf")
	os.WriteFile(emptyPDF, nil, 0644)
	result = pipeline.TranslateFile(emptyPDF, "es", "")
	if result.Success {
		t.Fatal("0 字节文件不应成功")
	}
	if !errors.Is(result.Err, ErrSourceUnreadable) {
		t.Errorf("0 字节文件应报源文档不可读，实际为 %v", result.Err)
	}
	if entries, _ := os.ReadDir(emptyDir); len(entries) != 1 {
		t.Errorf("失败时不应留下输出文件，目录内容: %v", entries)
	}
}

// TestPipelineProviderDownStillProducesOutput 提供商全程失败时译文降级为原文，
// 但流水线仍产出完整的 PDF
func TestPipelineProviderDownStillProducesOutput(t *testing.T) {
	dir := t.TempDir()
	inputPath := filepath.Join(dir, "sample.pdf")
	writeSamplePDF(t, inputPath)

	// 提供商只提供语言表，翻译请求全部失败
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/languages" {
			json.NewEncoder(w).Encode([]map[string]string{{"code": "en", "name": "English"}, {"code": "es", "name": "Spanish"}})
			return
		}
		http.Error(w, "down", http.StatusServiceUnavailable)
	}))
	defer server.Close()

	pipeline := NewPipeline(NewClient(server.URL, nil))
	outputPath := filepath.Join(dir, "degraded.pdf")

	result := pipeline.TranslateFile(inputPath, "es", outputPath)
	if !result.Success {
		t.Fatalf("提供商故障不应中断流水线: %s", result.Message)
	}
	if err := ValidatePDF(outputPath); err != nil {
		t.Errorf("降级输出仍应是有效的 PDF: %v", err)
	}
}

// TestDefaultOutputPath 自动生成的输出路径带主干、语言、时间戳和随机标记
func TestDefaultOutputPath(t *testing.T) {
	path := DefaultOutputPath("/tmp/docs/report.pdf", "es", "")
	base := filepath.Base(path)

	if !strings.HasPrefix(base, "report_es_") {
		t.Errorf("文件名应以 report_es_ 开头: %q", base)
	}
	if !strings.HasSuffix(base, ".pdf") {
		t.Errorf("文件名应以 .pdf 结尾: %q", base)
	}
	if filepath.Dir(path) != "/tmp/docs" {
		t.Errorf("默认目录应为输入文件所在目录: %q", filepath.Dir(path))
	}

	custom := DefaultOutputPath("report.pdf", "fr", "/srv/out")
	if filepath.Dir(custom) != "/srv/out" {
		t.Errorf("指定目录应被使用: %q", filepath.Dir(custom))
	}
}

// TestDefaultOutputPathUnique 同一秒内对相同输入重复生成的路径互不覆盖
func TestDefaultOutputPathUnique(t *testing.T) {
	first := DefaultOutputPath("report.pdf", "es", "")
	second := DefaultOutputPath("report.pdf", "es", "")
	if first == second {
		t.Errorf("连续生成的输出路径不应相同: %q", first)
	}
}

// TestExtractDocumentRoundTrip 生成的 PDF 应能被提取回等价的文本
func TestExtractDocumentRoundTrip(t *testing.T) {
	dir := t.TempDir()
	inputPath := filepath.Join(dir, "roundtrip.pdf")
	writeSamplePDF(t, inputPath)

	doc, err := ExtractDocument(inputPath)
	if err != nil {
		t.Fatalf("提取失败: %v", err)
	}

	if len(doc.Pages) != 2 {
		t.Errorf("应提取出 2 页，实际为 %d", len(doc.Pages))
	}
	if doc.LineCount() == 0 {
		t.Fatal("应提取到可翻译行")
	}

	full := doc.FullText()
	for _, want := range []string{"Sample Document Title", "first page", "second page"} {
		if !strings.Contains(full, want) {
			t.Errorf("提取文本应包含 %q", want)
		}
	}
}
