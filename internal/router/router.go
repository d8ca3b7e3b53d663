package router

import (
	"html/template"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/peka1011-dev/peka-blog/internal/handler"
)

// SetupRouter configures the gin engine: cookie sessions, public pages and
// the JSON API. An empty templateGlob skips HTML template loading, which
// API-only deployments and tests use.
func SetupRouter(api *handler.API, sessionSecret, templateGlob string) *gin.Engine {
	r := gin.Default()

	store := cookie.NewStore([]byte(sessionSecret))
	r.Use(sessions.Sessions("pekablog_session", store))

	if templateGlob != "" {
		r.SetFuncMap(template.FuncMap{
			"add": func(a, b int) int { return a + b },
			"sub": func(a, b int) int { return a - b },
		})
		r.LoadHTMLGlob(templateGlob)

		r.GET("/", api.ShowHome)
		r.GET("/posts/:slug", api.ShowPostDetail)
	}

	r.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{"message": "pong"})
	})

	apiGroup := r.Group("/api")
	{
		auth := apiGroup.Group("/auth")
		{
			auth.POST("/register", api.Register)
			auth.POST("/login", api.Login)
			auth.POST("/logout", api.Logout)
			auth.GET("/me", handler.AuthRequired(), api.Me)
		}

		posts := apiGroup.Group("/posts")
		{
			posts.GET("", api.ListPosts)
			posts.GET("/:slug", api.GetPost)

			admin := posts.Group("", handler.AdminRequired())
			{
				admin.POST("", api.CreatePost)
				admin.PUT("/:slug", api.UpdatePost)
				admin.DELETE("/:slug", api.DeletePost)
			}
		}

		apiGroup.GET("/admin/posts", handler.AdminRequired(), api.AdminListPosts)

		comments := apiGroup.Group("/comments")
		{
			comments.GET("", api.ListComments)
			comments.POST("", handler.AuthRequired(), api.CreateComment)
			comments.DELETE("/:id", handler.AuthRequired(), api.DeleteComment)
		}
	}

	return r
}
