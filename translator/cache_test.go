package translator

import "testing"

// TestCacheSetGet 写入后能按相同键读回
func TestCacheSetGet(t *testing.T) {
	cache, err := NewCache(t.TempDir())
	if err != nil {
		t.Fatalf("创建缓存失败: %v", err)
	}

	if err := cache.Set("hello", "en", "es", "hola"); err != nil {
		t.Fatalf("写入缓存失败: %v", err)
	}

	value, ok := cache.Get("hello", "en", "es")
	if !ok {
		t.Fatal("应命中缓存")
	}
	if value != "hola" {
		t.Errorf("缓存值应为 hola，实际为 %q", value)
	}
}

// TestCacheKeyIncludesLanguages 相同文本不同语言对互不干扰
func TestCacheKeyIncludesLanguages(t *testing.T) {
	cache, err := NewCache(t.TempDir())
	if err != nil {
		t.Fatalf("创建缓存失败: %v", err)
	}

	cache.Set("hello", "en", "es", "hola")
	cache.Set("hello", "en", "fr", "bonjour")

	if value, _ := cache.Get("hello", "en", "es"); value != "hola" {
		t.Errorf("es 译文应为 hola，实际为 %q", value)
	}
	if value, _ := cache.Get("hello", "en", "fr"); value != "bonjour" {
		t.Errorf("fr 译文应为 bonjour，实际为 %q", value)
	}
	if _, ok := cache.Get("hello", "en", "de"); ok {
		t.Error("未写入的语言对不应命中")
	}
}

// TestNilCache nil 缓存的所有操作都应安全且未命中
func TestNilCache(t *testing.T) {
	var cache *Cache

	if err := cache.Set("a", "en", "es", "b"); err != nil {
		t.Errorf("nil 缓存的 Set 应无操作返回 nil: %v", err)
	}
	if _, ok := cache.Get("a", "en", "es"); ok {
		t.Error("nil 缓存不应命中")
	}
}
