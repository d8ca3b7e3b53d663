package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/peka1011-dev/peka-blog/internal/service"
)

// ShowHome renders the public home page with the published post list.
func (a *API) ShowHome(c *gin.Context) {
	search := strings.TrimSpace(c.Query("search"))
	page := parsePositiveInt(c.DefaultQuery("page", "1"), 1)

	filter := service.PostFilter{
		Search:        search,
		PublishedOnly: true,
		Page:          page,
		PerPage:       10,
	}

	result, err := a.posts.List(filter)
	if err != nil {
		a.renderHTML(c, http.StatusInternalServerError, "home.html", gin.H{
			"title": "Home",
			"error": "failed to load posts",
		})
		return
	}

	a.renderHTML(c, http.StatusOK, "home.html", gin.H{
		"title":      "Home",
		"search":     search,
		"posts":      result.Posts,
		"page":       result.Page,
		"totalPages": result.TotalPages,
	})
}

// ShowPostDetail renders a published post with its table of contents and
// comments.
func (a *API) ShowPostDetail(c *gin.Context) {
	post, err := a.posts.GetBySlug(c.Param("slug"))
	if err != nil || !post.Published {
		c.AbortWithStatus(http.StatusNotFound)
		return
	}

	htmlContent, err := a.renderer.Render(post.Content)
	if err != nil {
		a.renderHTML(c, http.StatusInternalServerError, "post_detail.html", gin.H{
			"title": "Post",
			"error": "failed to render content",
		})
		return
	}

	a.renderHTML(c, http.StatusOK, "post_detail.html", gin.H{
		"title":   post.Title,
		"post":    post,
		"content": htmlContent,
		"outline": a.renderer.ExtractOutline(post.Content),
	})
}
