package handler

import (
	"net/http"
	"time"

	"github.com/cleanblog/internal/logging"
	"github.com/cleanblog/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// API bundles shared dependencies for HTTP handlers.
type API struct {
	db       *gorm.DB
	identity *service.IdentityService
	posts    *service.PostService
	comments *service.CommentService
	contact  *service.ContactService
	about    func() (string, error)
	log      logrus.FieldLogger
}

// Options configures the services behind the handlers.
type Options struct {
	Mailer             service.Mailer
	Logger             logrus.FieldLogger
	PasswordIterations int
	Sender             string
	Recipient          string
	MailTimeout        time.Duration
	// About returns the markdown shown on /about.
	About func() (string, error)
}

// NewAPI constructs a handler set with shared services.
func NewAPI(db *gorm.DB, opts Options) *API {
	log := opts.Logger
	if log == nil {
		log = logrus.StandardLogger()
	}
	about := opts.About
	if about == nil {
		about = func() (string, error) { return "", nil }
	}

	return &API{
		db:       db,
		identity: service.NewIdentityService(db, opts.PasswordIterations, log),
		posts:    service.NewPostService(db, log),
		comments: service.NewCommentService(db, log),
		contact:  service.NewContactService(opts.Mailer, opts.Sender, opts.Recipient, opts.MailTimeout, log),
		about:    about,
		log:      log,
	}
}

// DB exposes the underlying gorm instance for health checks.
func (a *API) DB() *gorm.DB {
	return a.db
}

func (a *API) logger(c *gin.Context) logrus.FieldLogger {
	return logging.FromContext(c, a.log)
}

// renderHTML 渲染模板前附加当前用户、管理员标记和待显示的 flash 消息
func (a *API) renderHTML(c *gin.Context, status int, template string, data gin.H) {
	payload := gin.H{}
	for key, value := range data {
		payload[key] = value
	}

	user := CurrentUser(c)
	if _, exists := payload["currentUser"]; !exists {
		payload["currentUser"] = user
	}
	if _, exists := payload["isAdmin"]; !exists {
		payload["isAdmin"] = service.IsAdmin(user)
	}
	if _, exists := payload["flashes"]; !exists {
		payload["flashes"] = a.popFlashes(c)
	}
	if _, exists := payload["form"]; !exists {
		payload["form"] = gin.H{}
	}
	if _, exists := payload["year"]; !exists {
		payload["year"] = time.Now().Year()
	}

	c.HTML(status, template, payload)
}

// Healthz reports whether the database answers a ping.
func (a *API) Healthz(c *gin.Context) {
	sqlDB, err := a.db.DB()
	if err == nil {
		err = sqlDB.PingContext(c.Request.Context())
	}
	if err != nil {
		a.logger(c).WithError(err).Error("health check failed")
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
