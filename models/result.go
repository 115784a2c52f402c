package models

// TranslateResponse 翻译接口的 JSON 响应，在核心结果之上附加下载链接
type TranslateResponse struct {
	Success        bool   `json:"success"`
	Message        string `json:"message"`
	SourceLanguage string `json:"source_language,omitempty"`
	TargetLanguage string `json:"target_language,omitempty"`
	OutputFile     string `json:"output_file,omitempty"`
	DownloadURL    string `json:"download_url,omitempty"`
}
