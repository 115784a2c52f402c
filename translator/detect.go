package translator

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/abadojack/whatlanggo"
)

// 语言检测只看文档开头的样本，足够代表整体并限制开销
const detectSampleRunes = 1000

// DefaultLanguage 检测失败时的回退语言
const DefaultLanguage = "en"

var nonWordRe = regexp.MustCompile(`[^\p{L}\p{N}\s]`)

// DetectLanguage 检测文本语言并返回 ISO 639-1 代码。
// 检测是尽力而为的：任何失败都返回默认语言，绝不中断流水线。
// 底层算法不含随机性，相同输入必然得到相同结果。
func DetectLanguage(text string) string {
	runes := []rune(text)
	if len(runes) > detectSampleRunes {
		runes = runes[:detectSampleRunes]
	}

	cleaned := nonWordRe.ReplaceAllString(string(runes), " ")
	if strings.IndexFunc(cleaned, unicode.IsLetter) < 0 {
		return DefaultLanguage
	}

	info := whatlanggo.Detect(cleaned)
	code := info.Lang.Iso6391()
	if code == "" {
		return DefaultLanguage
	}
	return code
}
