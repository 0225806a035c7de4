package middleware

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/sessions"
)

const (
	sessionName   = "schoolms-session"
	sessionUserID = "user_id"
	flashSep      = "|"
)

// Flash 一次性提示消息
type Flash struct {
	Category string // success / danger / warning / info
	Message  string
}

// SessionStore 基于签名cookie的会话
type SessionStore struct {
	store *sessions.CookieStore
}

func NewSessionStore(secret string, lifetime time.Duration, secure bool) *SessionStore {
	store := sessions.NewCookieStore([]byte(secret))
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   int(lifetime.Seconds()),
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	}
	return &SessionStore{store: store}
}

func (s *SessionStore) session(c *gin.Context) *sessions.Session {
	// 签名校验失败时返回新的空会话
	session, _ := s.store.Get(c.Request, sessionName)
	return session
}

// UserID 会话中的用户ID，未登录返回0
func (s *SessionStore) UserID(c *gin.Context) uint {
	id, _ := s.session(c).Values[sessionUserID].(uint)
	return id
}

// Login 写入登录用户，remember 为 false 时使用浏览器会话cookie
func (s *SessionStore) Login(c *gin.Context, userID uint, remember bool) error {
	session := s.session(c)
	session.Values[sessionUserID] = userID
	if !remember {
		opts := *s.store.Options
		opts.MaxAge = 0
		session.Options = &opts
	}
	return session.Save(c.Request, c.Writer)
}

// Logout 清除会话
func (s *SessionStore) Logout(c *gin.Context) error {
	session := s.session(c)
	delete(session.Values, sessionUserID)
	return session.Save(c.Request, c.Writer)
}

// AddFlash 添加一条提示，在下一次渲染时显示
func (s *SessionStore) AddFlash(c *gin.Context, category, message string) {
	session := s.session(c)
	session.AddFlash(category + flashSep + message)
	_ = session.Save(c.Request, c.Writer)
}

// Flashes 取出并清空提示
func (s *SessionStore) Flashes(c *gin.Context) []Flash {
	session := s.session(c)
	raw := session.Flashes()
	if len(raw) == 0 {
		return nil
	}
	_ = session.Save(c.Request, c.Writer)

	flashes := make([]Flash, 0, len(raw))
	for _, item := range raw {
		text, ok := item.(string)
		if !ok {
			continue
		}
		category, message, found := strings.Cut(text, flashSep)
		if !found {
			category, message = "info", text
		}
		flashes = append(flashes, Flash{Category: category, Message: message})
	}
	return flashes
}
