package middleware

import (
	"crypto/rand"
	"encoding/hex"
	"path/filepath"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
)

const (
	SessionCookieName = "session_id"
	SessionTimeout    = 24 * time.Hour
)

// Session 一个浏览器会话。上传和输出文件都按会话隔离，
// 并发用户之间互不可见。
type Session struct {
	ID       string
	LastSeen time.Time
}

// SessionManager 内存中的会话表
type SessionManager struct {
	sessions map[string]*Session
	mu       sync.Mutex
}

// NewSessionManager 创建会话管理器并启动过期清理协程
func NewSessionManager() *SessionManager {
	sm := &SessionManager{sessions: make(map[string]*Session)}
	go sm.sweepExpired()
	return sm
}

// generateSessionID 生成随机会话 ID
func generateSessionID() string {
	b := make([]byte, 32)
	rand.Read(b)
	return hex.EncodeToString(b)
}

// getOrCreate 取回未过期的会话，否则新建一个
func (sm *SessionManager) getOrCreate(sessionID string) *Session {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if sessionID != "" {
		if session, exists := sm.sessions[sessionID]; exists {
			if time.Since(session.LastSeen) < SessionTimeout {
				session.LastSeen = time.Now()
				return session
			}
			delete(sm.sessions, sessionID)
		}
	}

	session := &Session{ID: generateSessionID(), LastSeen: time.Now()}
	sm.sessions[session.ID] = session
	return session
}

// sweepExpired 定期清理过期会话
func (sm *SessionManager) sweepExpired() {
	ticker := time.NewTicker(1 * time.Hour)
	defer ticker.Stop()

	for range ticker.C {
		sm.mu.Lock()
		for id, session := range sm.sessions {
			if time.Since(session.LastSeen) >= SessionTimeout {
				delete(sm.sessions, id)
			}
		}
		sm.mu.Unlock()
	}
}

// Handler Gin 中间件：确保每个请求都带有会话
func (sm *SessionManager) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		sessionID, _ := c.Cookie(SessionCookieName)
		session := sm.getOrCreate(sessionID)

		if sessionID != session.ID {
			isSecure := c.Request.TLS != nil || c.GetHeader("X-Forwarded-Proto") == "https"
			c.SetCookie(SessionCookieName, session.ID, int(SessionTimeout.Seconds()), "/", "", isSecure, true)
		}

		c.Set("sessionID", session.ID)
		c.Next()
	}
}

// GetSessionID 从上下文获取会话 ID
func GetSessionID(c *gin.Context) string {
	if id, ok := c.Get("sessionID"); ok {
		if s, ok := id.(string); ok {
			return s
		}
	}
	return ""
}

// UserDir 返回会话的数据目录（上传和输出都放在它下面）
func UserDir(dataDir, sessionID string) string {
	return filepath.Join(dataDir, "users", sessionID)
}
