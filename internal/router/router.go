package router

import (
	"fmt"
	"html/template"
	"io/fs"
	"net/http"

	"github.com/cleanblog/internal/handler"
	"github.com/cleanblog/internal/logging"
	"github.com/cleanblog/internal/metrics"
	"github.com/cleanblog/internal/view"
	"github.com/cleanblog/web"
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

const (
	sessionName   = "cleanblog_session"
	sessionMaxAge = 30 * 24 * 60 * 60
)

// Config carries the settings the router needs beyond the handlers.
type Config struct {
	SessionSecret string
	SecureCookie  bool
	Logger        logrus.FieldLogger
	// Templates and Static default to the embedded web assets.
	Templates fs.FS
	Static    fs.FS
}

// SetupRouter 配置 Gin 引擎和路由
func SetupRouter(api *handler.API, cfg Config) (*gin.Engine, error) {
	if cfg.SessionSecret == "" {
		return nil, fmt.Errorf("session secret is required")
	}
	if cfg.Logger == nil {
		cfg.Logger = logrus.StandardLogger()
	}
	if cfg.Templates == nil {
		cfg.Templates = web.Templates()
	}
	if cfg.Static == nil {
		cfg.Static = web.Static()
	}

	r := gin.New()
	r.Use(gin.Recovery(), logging.Middleware(cfg.Logger), metrics.Middleware())

	// 配置会话中间件
	store := cookie.NewStore([]byte(cfg.SessionSecret))
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   sessionMaxAge,
		HttpOnly: true,
		Secure:   cfg.SecureCookie,
		SameSite: http.SameSiteLaxMode,
	})
	r.Use(sessions.Sessions(sessionName, store))

	// 加载模板并添加自定义函数
	tmpl, err := template.New("").Funcs(view.FuncMap()).ParseFS(cfg.Templates, "*.html")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	r.SetHTMLTemplate(tmpl)

	r.StaticFS("/static", http.FS(cfg.Static))
	r.GET("/healthz", api.Healthz)
	r.GET("/metrics", gin.WrapH(metrics.Handler()))

	site := r.Group("")
	site.Use(api.LoadIdentity())
	{
		site.GET("/", api.ShowHome)
		site.GET("/register", api.ShowRegister)
		site.POST("/register", api.Register)
		site.GET("/login", api.ShowLogin)
		site.POST("/login", api.Login)
		site.GET("/logout", api.Logout)
		site.GET("/post/:post_id", api.ShowPost)
		site.POST("/post/:post_id", api.AddComment)
		site.GET("/about", api.ShowAbout)
		site.GET("/contact", api.ShowContact)
		site.POST("/contact", api.SendContact)

		// 仅管理员可访问
		admin := site.Group("")
		admin.Use(handler.SameOrigin(), handler.AdminOnly())
		{
			admin.GET("/new_post", api.ShowNewPost)
			admin.POST("/new_post", api.CreatePost)
			admin.GET("/edit-post/:post_id", api.ShowEditPost)
			admin.POST("/edit-post/:post_id", api.UpdatePost)
			admin.GET("/delete/:post_id", api.DeletePost)
		}
	}

	return r, nil
}
