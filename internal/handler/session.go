package handler

import (
	"errors"
	"net/http"

	"github.com/cleanblog/internal/db"
	"github.com/cleanblog/internal/service"
	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

const (
	sessionUserKey        = "user_id"
	currentUserContextKey = "__current_user"
)

// LoadIdentity resolves the session's user id into a *db.User for the rest
// of the request. A session pointing at a deleted account is cleared.
func (a *API) LoadIdentity() gin.HandlerFunc {
	return func(c *gin.Context) {
		session := sessions.Default(c)
		id, ok := sessionUserID(session.Get(sessionUserKey))
		if !ok {
			c.Next()
			return
		}

		user, err := a.identity.FindByID(c.Request.Context(), id)
		switch {
		case err == nil:
			c.Set(currentUserContextKey, user)
		case errors.Is(err, service.ErrUserNotFound):
			session.Delete(sessionUserKey)
			if err := session.Save(); err != nil {
				a.logger(c).WithError(err).Warn("failed to clear stale session")
			}
		default:
			_ = c.Error(err)
			c.AbortWithStatus(http.StatusInternalServerError)
			return
		}
		c.Next()
	}
}

// CurrentUser returns the logged in user, or nil for anonymous requests.
func CurrentUser(c *gin.Context) *db.User {
	value, ok := c.Get(currentUserContextKey)
	if !ok {
		return nil
	}
	user, _ := value.(*db.User)
	return user
}

func sessionUserID(value interface{}) (uint, bool) {
	switch id := value.(type) {
	case uint:
		return id, id > 0
	case int:
		return uint(id), id > 0
	case int64:
		return uint(id), id > 0
	default:
		return 0, false
	}
}

// startSession 登录成功后写入会话
func startSession(c *gin.Context, user *db.User) error {
	session := sessions.Default(c)
	session.Clear()
	session.Set(sessionUserKey, user.ID)
	if err := session.Save(); err != nil {
		return err
	}
	c.Set(currentUserContextKey, user)
	return nil
}

func endSession(c *gin.Context) error {
	session := sessions.Default(c)
	session.Clear()
	return session.Save()
}

func (a *API) addFlash(c *gin.Context, message string) {
	session := sessions.Default(c)
	session.AddFlash(message)
	if err := session.Save(); err != nil {
		a.logger(c).WithError(err).Warn("failed to store flash message")
	}
}

func (a *API) popFlashes(c *gin.Context) []string {
	session := sessions.Default(c)
	raw := session.Flashes()
	if len(raw) == 0 {
		return nil
	}
	if err := session.Save(); err != nil {
		a.logger(c).WithError(err).Warn("failed to clear flash messages")
	}

	messages := make([]string, 0, len(raw))
	for _, item := range raw {
		if text, ok := item.(string); ok {
			messages = append(messages, text)
		}
	}
	return messages
}
