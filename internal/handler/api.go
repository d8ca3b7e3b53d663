package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/peka1011-dev/peka-blog/internal/service"
	"gorm.io/gorm"
)

// API bundles shared dependencies for HTTP handlers.
type API struct {
	db       *gorm.DB
	posts    *service.PostService
	comments *service.CommentService
	users    *service.UserService
	renderer *service.ContentRenderer
	siteName string
}

// NewAPI constructs a handler set with shared services.
func NewAPI(gdb *gorm.DB) *API {
	return &API{
		db:       gdb,
		posts:    service.NewPostService(gdb),
		comments: service.NewCommentService(gdb),
		users:    service.NewUserService(gdb),
		renderer: service.NewContentRenderer(),
		siteName: "Peka Blog",
	}
}

// DB exposes the underlying gorm instance.
func (a *API) DB() *gorm.DB {
	return a.db
}

func (a *API) renderHTML(c *gin.Context, status int, template string, data gin.H) {
	payload := gin.H{}
	for key, value := range data {
		payload[key] = value
	}
	if _, exists := payload["siteName"]; !exists {
		payload["siteName"] = a.siteName
	}
	if _, exists := payload["year"]; !exists {
		payload["year"] = time.Now().Year()
	}
	c.HTML(status, template, payload)
}
