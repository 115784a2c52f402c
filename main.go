package main

import (
	"log"
	"os"

	"pdf-translator-web/handlers"
	"pdf-translator-web/middleware"
	"pdf-translator-web/translator"

	"github.com/gin-gonic/gin"
)

const defaultProviderURL = "https://libretranslate.com"

func main() {
	providerURL := os.Getenv("LIBRETRANSLATE_URL")
	if providerURL == "" {
		providerURL = defaultProviderURL
	}

	dataDir := os.Getenv("DATA_DIR")
	if dataDir == "" {
		dataDir = "data"
	}

	cache, err := translator.NewCache(dataDir + "/cache")
	if err != nil {
		log.Printf("警告：创建翻译缓存失败，缓存已禁用: %v", err)
		cache = nil
	}

	client := translator.NewClient(providerURL, cache)
	pipeline := translator.NewPipeline(client)
	pipeline.FontPath = os.Getenv("FONT_PATH")
	log.Printf("语言表初始化完成，共 %d 种语言", len(pipeline.Languages))

	h := handlers.New(pipeline, dataDir)
	sessions := middleware.NewSessionManager()

	r := gin.Default()
	r.MaxMultipartMemory = handlers.MaxUploadBytes
	r.Use(sessions.Handler())

	r.POST("/upload", h.Upload)
	r.GET("/download/:filename", h.Download)
	r.GET("/languages", h.Languages)

	addr := os.Getenv("LISTEN_ADDR")
	if addr == "" {
		addr = ":8080"
	}

	log.Printf("PDF 翻译服务器启动在 %s（提供商: %s）", addr, providerURL)
	if err := r.Run(addr); err != nil {
		log.Fatalf("服务器启动失败: %v", err)
	}
}
