// Command pdftranslate 在命令行翻译单个 PDF 文件。
//
// 用法:
//
//	pdftranslate -list-languages
//	pdftranslate -target es document.pdf
//	pdftranslate -target fr -output translated.pdf document.pdf
package main

import (
	"flag"
	"fmt"
	"os"
	"sort"

	"pdf-translator-web/translator"
)

func main() {
	targetLang := flag.String("target", "", "目标语言代码（例如 es、fr、de）")
	outputPath := flag.String("output", "", "输出文件路径（默认生成在输入文件旁）")
	listLanguages := flag.Bool("list-languages", false, "列出支持的语言")
	providerURL := flag.String("url", "https://libretranslate.com", "LibreTranslate API 地址")
	cacheDir := flag.String("cache", "", "翻译缓存目录（留空禁用缓存）")
	fontPath := flag.String("font", "", "输出用 TTF 字体文件（非拉丁语言需要）")
	flag.Parse()

	var cache *translator.Cache
	if *cacheDir != "" {
		var err error
		cache, err = translator.NewCache(*cacheDir)
		if err != nil {
			fmt.Fprintf(os.Stderr, "创建缓存失败: %v\n", err)
			os.Exit(1)
		}
	}

	client := translator.NewClient(*providerURL, cache)
	pipeline := translator.NewPipeline(client)
	pipeline.FontPath = *fontPath

	if *listLanguages {
		printLanguages(pipeline.Languages)
		return
	}

	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "用法: pdftranslate -target <语言代码> <输入文件.pdf>")
		os.Exit(1)
	}
	if *targetLang == "" {
		fmt.Fprintln(os.Stderr, "必须指定目标语言（-target），可用 -list-languages 查看")
		os.Exit(1)
	}

	result := pipeline.TranslateFile(flag.Arg(0), *targetLang, *outputPath)
	if !result.Success {
		fmt.Fprintf(os.Stderr, "翻译失败: %s\n", result.Message)
		os.Exit(1)
	}

	fmt.Printf("翻译完成（%s -> %s）: %s\n", result.SourceLanguage, result.TargetLanguage, result.OutputFile)
}

// printLanguages 按代码排序打印语言表
func printLanguages(languages map[string]string) {
	codes := make([]string, 0, len(languages))
	for code := range languages {
		codes = append(codes, code)
	}
	sort.Strings(codes)

	for _, code := range codes {
		fmt.Printf("%-6s %s\n", code, languages[code])
	}
}
