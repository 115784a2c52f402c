package translator

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Result 单次文档翻译的结果对象
type Result struct {
	Success        bool   `json:"success"`
	Message        string `json:"message"`
	SourceLanguage string `json:"source_language"`
	TargetLanguage string `json:"target_language"`
	OutputFile     string `json:"output_file"`

	// Err 保留致命错误供 errors.Is 判断，不随 JSON 输出
	Err error `json:"-"`
}

// Pipeline 文档翻译流水线：提取 → 语言检测 → 翻译 → 重构。
// 启动时构造一次，之后只读，语言表不再变化。FontPath 可选，
// 透传给重构器（见 Reconstructor.FontPath）。
type Pipeline struct {
	Client    *Client
	Languages map[string]string
	FontPath  string
}

// NewPipeline 创建流水线，语言表在此一次性初始化
func NewPipeline(client *Client) *Pipeline {
	return &Pipeline{
		Client:    client,
		Languages: client.SupportedLanguages(),
	}
}

// LanguageName 返回语言代码的显示名称，未知代码原样返回
func (p *Pipeline) LanguageName(code string) string {
	if name, ok := p.Languages[code]; ok {
		return name
	}
	return code
}

// DefaultOutputPath 生成抗碰撞的输出路径：原文件名主干 + 目标语言 +
// 时间戳 + 短随机标记（同一秒内的重复请求不会互相覆盖）。
// dir 为空时输出到输入文件所在目录。
func DefaultOutputPath(inputPath, targetLang, dir string) string {
	if dir == "" {
		dir = filepath.Dir(inputPath)
	}
	stem := strings.TrimSuffix(filepath.Base(inputPath), filepath.Ext(inputPath))
	timestamp := time.Now().Format("20060102_150405")
	token := uuid.New().String()[:8]
	return filepath.Join(dir, fmt.Sprintf("%s_%s_%s_%s.pdf", stem, targetLang, timestamp, token))
}

// TranslateFile 翻译一个 PDF 文档。outputPath 为空时自动生成。
// 只有源文档不可读和目标语言不受支持是致命失败；其余故障
// （单块翻译失败、单行放置失败、语言检测失败）都就地降级，
// 流水线总是尽力产出完整的文档。
func (p *Pipeline) TranslateFile(inputPath, targetLang, outputPath string) Result {
	result := Result{}

	if _, ok := p.Languages[targetLang]; !ok {
		result.Message = fmt.Sprintf("语言 '%s' 不受支持", targetLang)
		result.Err = fmt.Errorf("%w: %s", ErrUnsupportedLanguage, targetLang)
		return result
	}

	log.Printf("开始翻译文档: %s -> %s", inputPath, targetLang)

	doc, err := ExtractDocument(inputPath)
	if err != nil {
		result.Message = fmt.Sprintf("提取文本失败: %v", err)
		result.Err = err
		return result
	}

	sourceLang := DetectLanguage(doc.FullText())
	result.SourceLanguage = p.LanguageName(sourceLang)
	result.TargetLanguage = p.LanguageName(targetLang)
	log.Printf("检测到源语言: %s", result.SourceLanguage)

	translated, fallbacks := p.translateDocument(doc, sourceLang, targetLang)
	if fallbacks > 0 {
		log.Printf("警告：%d 个文本块翻译失败，已用原文顶替", fallbacks)
	}

	if outputPath == "" {
		outputPath = DefaultOutputPath(inputPath, targetLang, "")
	}
	if dir := filepath.Dir(outputPath); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			result.Message = fmt.Sprintf("创建输出目录失败: %v", err)
			result.Err = err
			return result
		}
	}

	reconstructor := &Reconstructor{FontPath: p.FontPath}
	if _, err := reconstructor.Reconstruct(doc, translated, outputPath); err != nil {
		result.Message = fmt.Sprintf("生成译文 PDF 失败: %v", err)
		result.Err = err
		return result
	}

	result.Success = true
	result.Message = "翻译完成"
	result.OutputFile = outputPath
	log.Printf("翻译完成: %s", outputPath)
	return result
}

// translateDocument 逐页逐块逐行翻译，保证每个原始行恰好产出
// 一个译文行，顺序与原文一致。返回译文结构和回退块总数。
func (p *Pipeline) translateDocument(doc *Document, sourceLang, targetLang string) (*TranslatedDocument, int) {
	translated := &TranslatedDocument{Pages: make([]TranslatedPage, 0, len(doc.Pages))}
	fallbacks := 0

	for _, page := range doc.Pages {
		tp := TranslatedPage{Index: page.Index, Blocks: make([]TranslatedBlock, 0, len(page.Blocks))}

		for _, block := range page.Blocks {
			tb := TranslatedBlock{Lines: make([]TranslatedLine, 0, len(block.Lines))}

			for _, line := range block.Lines {
				text, fb := p.Client.TranslateWithStats(line.Text, sourceLang, targetLang)
				fallbacks += fb
				tb.Lines = append(tb.Lines, TranslatedLine{Text: text, BBox: line.BBox})
			}

			tp.Blocks = append(tp.Blocks, tb)
		}

		translated.Pages = append(translated.Pages, tp)
	}

	return translated, fallbacks
}
