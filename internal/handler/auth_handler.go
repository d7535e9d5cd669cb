package handler

import (
	"errors"
	"net/http"
	"net/url"

	"github.com/cleanblog/internal/service"
	"github.com/gin-gonic/gin"
)

const (
	flashAlreadyRegistered = "You've already signed up with this email, log in instead!"
	flashUnknownEmail      = "The email does not exist, please try again."
	flashWrongPassword     = "Password incorrect, please try again."
	flashLoginToComment    = "You need to login or register to comment"
)

// ShowRegister 渲染注册页面
func (a *API) ShowRegister(c *gin.Context) {
	a.renderHTML(c, http.StatusOK, "register.html", gin.H{
		"title":      "Register",
		"subheading": "Start Contributing to the Blog!",
	})
}

// Register creates an account and logs it in.
func (a *API) Register(c *gin.Context) {
	var form registerForm
	if err := c.ShouldBind(&form); err != nil {
		a.renderRegisterError(c, form, err)
		return
	}

	user, err := a.identity.Register(c.Request.Context(), form.Email, form.Password, form.Name)
	switch {
	case errors.Is(err, service.ErrDuplicateEmail):
		a.addFlash(c, flashAlreadyRegistered)
		c.Redirect(http.StatusFound, "/login")
		return
	case errors.Is(err, service.ErrValidation):
		a.renderRegisterError(c, form, err)
		return
	case err != nil:
		a.respondServiceError(c, err)
		return
	}

	if err := startSession(c, user); err != nil {
		a.respondServiceError(c, err)
		return
	}
	c.Redirect(http.StatusFound, "/")
}

func (a *API) renderRegisterError(c *gin.Context, form registerForm, err error) {
	form.Password = ""
	a.renderHTML(c, http.StatusBadRequest, "register.html", gin.H{
		"title":      "Register",
		"subheading": "Start Contributing to the Blog!",
		"form":       form,
		"error":      describeFormError(err),
	})
}

// ShowLogin 渲染登录页面
func (a *API) ShowLogin(c *gin.Context) {
	a.renderHTML(c, http.StatusOK, "login.html", gin.H{
		"title":      "Log In",
		"subheading": "Welcome Back!",
	})
}

// Login verifies the credentials and starts a session.
func (a *API) Login(c *gin.Context) {
	var form loginForm
	if err := c.ShouldBind(&form); err != nil {
		form.Password = ""
		a.renderHTML(c, http.StatusBadRequest, "login.html", gin.H{
			"title":      "Log In",
			"subheading": "Welcome Back!",
			"form":       form,
			"error":      describeFormError(err),
		})
		return
	}

	user, err := a.identity.Authenticate(c.Request.Context(), form.Email, form.Password)
	switch {
	case errors.Is(err, service.ErrUnknownEmail):
		a.addFlash(c, flashUnknownEmail)
		c.Redirect(http.StatusFound, "/login")
		return
	case errors.Is(err, service.ErrInvalidCredentials):
		a.addFlash(c, flashWrongPassword)
		c.Redirect(http.StatusFound, "/login")
		return
	case err != nil:
		a.respondServiceError(c, err)
		return
	}

	if err := startSession(c, user); err != nil {
		a.respondServiceError(c, err)
		return
	}
	a.logger(c).WithField("user_id", user.ID).Info("user logged in")
	c.Redirect(http.StatusFound, "/")
}

// Logout 清除会话并返回首页
func (a *API) Logout(c *gin.Context) {
	if err := endSession(c); err != nil {
		a.logger(c).WithError(err).Warn("failed to clear session")
	}
	c.Redirect(http.StatusFound, "/")
}

// AdminOnly rejects every caller that is not the administrator with a bare
// 403. It must run after LoadIdentity.
func AdminOnly() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !service.IsAdmin(CurrentUser(c)) {
			c.AbortWithStatus(http.StatusForbidden)
			return
		}
		c.Next()
	}
}

// SameOrigin 拒绝来自其他站点的管理请求。Origin 优先于 Referer；
// 两者都缺失时放行，便于命令行客户端访问。
func SameOrigin() gin.HandlerFunc {
	return func(c *gin.Context) {
		source := c.GetHeader("Origin")
		if source == "" {
			source = c.GetHeader("Referer")
		}
		if source != "" && !sameHost(source, c.Request.Host) {
			c.AbortWithStatus(http.StatusForbidden)
			return
		}
		c.Next()
	}
}

func sameHost(source, host string) bool {
	u, err := url.Parse(source)
	if err != nil || u.Host == "" {
		return false
	}
	return u.Host == host
}
