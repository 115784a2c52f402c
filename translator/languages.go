package translator

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"

	"golang.org/x/text/language"
	"golang.org/x/text/language/display"
)

// 远程语言列表不可用时的内置语言代码
var fallbackLanguageCodes = []string{
	"en", "es", "fr", "de", "it", "pt", "ru", "ja", "ko", "zh", "ar",
	"hi", "nl", "sv", "da", "no", "fi", "pl", "cs", "hu", "tr",
}

// SupportedLanguages 从提供商获取支持的语言表（代码→名称）。
// 请求失败时退回内置的常用语言表，保证服务在提供商不可达时仍然可用。
// 在进程启动时调用一次，之后只读。
func (c *Client) SupportedLanguages() map[string]string {
	languages, err := c.fetchLanguages()
	if err != nil {
		log.Printf("获取语言列表失败，使用内置语言表: %v", err)
		return fallbackLanguages()
	}
	return languages
}

// fetchLanguages 请求 GET /languages
func (c *Client) fetchLanguages() (map[string]string, error) {
	req, err := http.NewRequest(http.MethodGet, c.BaseURL+"/languages", nil)
	if err != nil {
		return nil, err
	}

	body, err := c.doRequest(req)
	if err != nil {
		return nil, err
	}

	var list []struct {
		Code string `json:"code"`
		Name string `json:"name"`
	}
	if err := json.Unmarshal(body, &list); err != nil {
		return nil, err
	}

	table := make(map[string]string, len(list))
	for _, lang := range list {
		if lang.Code != "" {
			table[lang.Code] = lang.Name
		}
	}
	if len(table) == 0 {
		return nil, fmt.Errorf("提供商返回了空的语言列表")
	}
	return table, nil
}

// fallbackLanguages 构建内置语言表，名称取英文显示名
func fallbackLanguages() map[string]string {
	namer := display.English.Languages()
	table := make(map[string]string, len(fallbackLanguageCodes))
	for _, code := range fallbackLanguageCodes {
		table[code] = namer.Name(language.Make(code))
	}
	return table
}
