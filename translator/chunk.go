package translator

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// MaxChunkChars 单次翻译请求的字符上限（按字符计，不是字节）
const MaxChunkChars = 4000

// 句子边界：句号/感叹号/问号后跟空白，标点归前一句
var sentenceBoundaryRe = regexp.MustCompile(`[.!?]\s+`)

// splitSentences 按句子边界切分文本，标点保留在前一段，
// 边界处的空白被吃掉
func splitSentences(text string) []string {
	locs := sentenceBoundaryRe.FindAllStringIndex(text, -1)

	var sentences []string
	start := 0
	for _, loc := range locs {
		sentences = append(sentences, text[start:loc[0]+1])
		start = loc[1]
	}
	if start < len(text) {
		sentences = append(sentences, text[start:])
	}
	return sentences
}

// buildChunks 贪心地把句子累积成不超过 limit 的块。
// 单个句子超过 limit 时自成一块，上游按原样发送。
func buildChunks(sentences []string, limit int) []string {
	var chunks []string
	var current strings.Builder
	runeCount := 0

	for _, sentence := range sentences {
		n := utf8.RuneCountInString(sentence)

		if runeCount+n <= limit {
			current.WriteString(sentence)
			current.WriteString(" ")
			runeCount += n + 1
			continue
		}

		if current.Len() > 0 {
			chunks = append(chunks, strings.TrimSpace(current.String()))
			current.Reset()
		}
		current.WriteString(sentence)
		current.WriteString(" ")
		runeCount = n + 1
	}

	if current.Len() > 0 {
		chunks = append(chunks, strings.TrimSpace(current.String()))
	}

	return chunks
}
