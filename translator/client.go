package translator

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"
)

// Client LibreTranslate 翻译客户端。构造一次后只读，
// 可被多个翻译任务并发使用。
type Client struct {
	BaseURL    string
	HTTPClient *http.Client
	Cache      *Cache
}

// NewClient 创建翻译客户端
func NewClient(baseURL string, cache *Cache) *Client {
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		HTTPClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		Cache: cache,
	}
}

// Translate 翻译文本。空白输入原样返回且不发起请求；超过单次
// 请求上限的文本按句子边界分块翻译后用单个空格拼接。任何块的
// 请求失败都用原文顶替该块，整个调用永远正常返回。
func (c *Client) Translate(text, sourceLang, targetLang string) string {
	result, _ := c.TranslateWithStats(text, sourceLang, targetLang)
	return result
}

// TranslateWithStats 与 Translate 相同，另外返回回退为原文的块数，
// 让调用方能区分“翻译成功”和“用原文顶替”。
func (c *Client) TranslateWithStats(text, sourceLang, targetLang string) (string, int) {
	if strings.TrimSpace(text) == "" {
		return text, 0
	}

	if utf8.RuneCountInString(text) <= MaxChunkChars {
		translated, err := c.callTranslate(text, sourceLang, targetLang)
		if err != nil {
			log.Printf("警告：翻译失败，使用原文: %v", err)
			return text, 1
		}
		return translated, 0
	}

	chunks := buildChunks(splitSentences(text), MaxChunkChars)
	parts := make([]string, 0, len(chunks))
	fallbacks := 0

	for i, chunk := range chunks {
		translated, err := c.callTranslate(chunk, sourceLang, targetLang)
		if err != nil {
			log.Printf("警告：翻译第 %d/%d 块失败，使用原文: %v", i+1, len(chunks), err)
			translated = chunk
			fallbacks++
		}
		parts = append(parts, translated)
	}

	return strings.Join(parts, " "), fallbacks
}

// callTranslate 发起一次翻译请求
func (c *Client) callTranslate(text, sourceLang, targetLang string) (string, error) {
	if cached, ok := c.Cache.Get(text, sourceLang, targetLang); ok {
		return cached, nil
	}

	reqBody := map[string]string{
		"q":      text,
		"source": sourceLang,
		"target": targetLang,
		"format": "text",
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequest(http.MethodPost, c.BaseURL+"/translate", bytes.NewBuffer(jsonData))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	body, err := c.doRequest(req)
	if err != nil {
		return "", err
	}

	var resp struct {
		TranslatedText string `json:"translatedText"`
		Error          string `json:"error,omitempty"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", fmt.Errorf("解析响应失败: %w", err)
	}

	if resp.Error != "" {
		return "", fmt.Errorf("翻译错误: %s", resp.Error)
	}
	if resp.TranslatedText == "" {
		return "", fmt.Errorf("API 未返回翻译结果")
	}

	c.Cache.Set(text, sourceLang, targetLang, resp.TranslatedText)
	return resp.TranslatedText, nil
}

// doRequest 执行 HTTP 请求
func (c *Client) doRequest(req *http.Request) ([]byte, error) {
	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("API 请求失败: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("API 返回错误 (状态码 %d): %s", resp.StatusCode, string(body))
	}

	return body, nil
}
