package handlers

import (
	"fmt"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"pdf-translator-web/middleware"
	"pdf-translator-web/models"
	"pdf-translator-web/translator"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// MaxUploadBytes 上传文件大小上限（16 MiB）
const MaxUploadBytes = 16 << 20

// Handler 翻译服务的 HTTP 处理器集合。Pipeline 在启动时构造一次，
// 之后只读，可被并发请求共享。
type Handler struct {
	Pipeline *translator.Pipeline
	DataDir  string
}

// New 创建处理器
func New(pipeline *translator.Pipeline, dataDir string) *Handler {
	return &Handler{Pipeline: pipeline, DataDir: dataDir}
}

// Upload 处理文件上传并同步执行翻译。上传文件在所有退出路径上
// 都会被删除，只有翻译产物留在会话的输出目录里。
func (h *Handler) Upload(c *gin.Context) {
	sessionID := middleware.GetSessionID(c)
	if sessionID == "" {
		c.JSON(http.StatusUnauthorized, models.TranslateResponse{Message: "无效的会话"})
		return
	}

	file, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, models.TranslateResponse{Message: "未找到上传文件"})
		return
	}

	if file.Size > MaxUploadBytes {
		c.JSON(http.StatusRequestEntityTooLarge, models.TranslateResponse{Message: "文件过大，最大支持 16MB"})
		return
	}

	if strings.ToLower(filepath.Ext(file.Filename)) != ".pdf" {
		c.JSON(http.StatusBadRequest, models.TranslateResponse{Message: "只支持 .pdf 文件"})
		return
	}

	targetLang := c.PostForm("target_language")
	if targetLang == "" {
		c.JSON(http.StatusBadRequest, models.TranslateResponse{Message: "目标语言不能为空"})
		return
	}

	userDir := middleware.UserDir(h.DataDir, sessionID)
	uploadDir := filepath.Join(userDir, "uploads")
	outputDir := filepath.Join(userDir, "outputs")
	if err := os.MkdirAll(uploadDir, 0755); err != nil {
		c.JSON(http.StatusInternalServerError, models.TranslateResponse{Message: "创建上传目录失败: " + err.Error()})
		return
	}

	uploadPath := filepath.Join(uploadDir, uuid.New().String()+"_"+filepath.Base(file.Filename))
	if err := c.SaveUploadedFile(file, uploadPath); err != nil {
		c.JSON(http.StatusInternalServerError, models.TranslateResponse{Message: "保存文件失败: " + err.Error()})
		return
	}
	defer os.Remove(uploadPath)

	outputPath := translator.DefaultOutputPath(file.Filename, targetLang, outputDir)
	result := h.Pipeline.TranslateFile(uploadPath, targetLang, outputPath)

	resp := models.TranslateResponse{
		Success:        result.Success,
		Message:        result.Message,
		SourceLanguage: result.SourceLanguage,
		TargetLanguage: result.TargetLanguage,
		OutputFile:     result.OutputFile,
	}
	if result.Success {
		resp.DownloadURL = "/download/" + filepath.Base(result.OutputFile)
	} else {
		log.Printf("[会话 %s] 翻译失败: %s", sessionID[:8], result.Message)
	}

	c.JSON(http.StatusOK, resp)
}

// Download 下载会话自己的翻译产物
func (h *Handler) Download(c *gin.Context) {
	sessionID := middleware.GetSessionID(c)
	if sessionID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "无效的会话"})
		return
	}

	// 只取文件名部分，防止路径穿越
	filename := filepath.Base(c.Param("filename"))
	path := filepath.Join(middleware.UserDir(h.DataDir, sessionID), "outputs", filename)

	if _, err := os.Stat(path); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": fmt.Sprintf("文件不存在: %s", filename)})
		return
	}

	c.FileAttachment(path, filename)
}

// Languages 返回支持的语言表
func (h *Handler) Languages(c *gin.Context) {
	c.JSON(http.StatusOK, h.Pipeline.Languages)
}
