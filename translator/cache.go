package translator

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
)

// Cache 翻译缓存：以 (文本, 源语言, 目标语言) 为键的文件缓存。
// nil 的 *Cache 可以直接使用，所有操作都是未命中。
type Cache struct {
	dir   string
	mutex sync.RWMutex
}

// NewCache 创建缓存目录
func NewCache(dir string) (*Cache, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}
	return &Cache{dir: dir}, nil
}

// Get 获取缓存的译文
func (c *Cache) Get(text, sourceLang, targetLang string) (string, bool) {
	if c == nil {
		return "", false
	}

	c.mutex.RLock()
	defer c.mutex.RUnlock()

	path := filepath.Join(c.dir, cacheKey(text, sourceLang, targetLang)+".txt")
	data, err := os.ReadFile(path)
	if err != nil {
		return "", false
	}

	return string(data), true
}

// Set 写入译文
func (c *Cache) Set(text, sourceLang, targetLang, value string) error {
	if c == nil {
		return nil
	}

	c.mutex.Lock()
	defer c.mutex.Unlock()

	path := filepath.Join(c.dir, cacheKey(text, sourceLang, targetLang)+".txt")
	return os.WriteFile(path, []byte(value), 0644)
}

// cacheKey 计算缓存键的哈希
func cacheKey(text, sourceLang, targetLang string) string {
	data, _ := json.Marshal(map[string]string{
		"text":   text,
		"source": sourceLang,
		"target": targetLang,
	})
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:])
}
