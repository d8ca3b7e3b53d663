package handler

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/peka1011-dev/peka-blog/internal/db"
	"github.com/peka1011-dev/peka-blog/internal/service"
)

// postSummary is the listing shape: no body, no comments.
type postSummary struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Slug      string    `json:"slug"`
	Excerpt   string    `json:"excerpt"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func summarize(posts []db.Post) []postSummary {
	summaries := make([]postSummary, 0, len(posts))
	for _, post := range posts {
		summaries = append(summaries, postSummary{
			ID:        post.ID,
			Title:     post.Title,
			Slug:      post.Slug,
			Excerpt:   post.Excerpt,
			CreatedAt: post.CreatedAt,
			UpdatedAt: post.UpdatedAt,
		})
	}
	return summaries
}

// ListPosts returns published posts, newest first.
func (a *API) ListPosts(c *gin.Context) {
	filter := service.PostFilter{
		Search:        strings.TrimSpace(c.Query("search")),
		PublishedOnly: true,
		Page:          parsePositiveInt(c.DefaultQuery("page", "1"), 1),
		PerPage:       parsePositiveInt(c.DefaultQuery("perPage", "10"), 10),
	}

	result, err := a.posts.List(filter)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "failed to list posts")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"posts":      summarize(result.Posts),
		"total":      result.Total,
		"page":       result.Page,
		"totalPages": result.TotalPages,
	})
}

// AdminListPosts returns every post including drafts.
func (a *API) AdminListPosts(c *gin.Context) {
	filter := service.PostFilter{
		Search:  strings.TrimSpace(c.Query("search")),
		Page:    parsePositiveInt(c.DefaultQuery("page", "1"), 1),
		PerPage: parsePositiveInt(c.DefaultQuery("perPage", "10"), 10),
	}

	result, err := a.posts.List(filter)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "failed to list posts")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"posts":      result.Posts,
		"total":      result.Total,
		"page":       result.Page,
		"totalPages": result.TotalPages,
	})
}

// GetPost returns a single post with its comments, the rendered body and
// the heading outline. Drafts are visible to admins only.
func (a *API) GetPost(c *gin.Context) {
	post, err := a.posts.GetBySlug(c.Param("slug"))
	if err != nil {
		if errors.Is(err, service.ErrPostNotFound) {
			respondError(c, http.StatusNotFound, "post not found")
			return
		}
		respondError(c, http.StatusInternalServerError, "failed to fetch post")
		return
	}

	if !post.Published {
		identity, ok := currentIdentity(c)
		if !ok || !identity.Role.IsAdmin() {
			respondError(c, http.StatusForbidden, "post is not published")
			return
		}
	}

	htmlContent, err := a.renderer.Render(post.Content)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "failed to render post")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"post":    post,
		"html":    htmlContent,
		"outline": a.renderer.ExtractOutline(post.Content),
	})
}

// CreatePost stores a new post. Admin only; the slug is derived from the
// title and must not collide with another post.
func (a *API) CreatePost(c *gin.Context) {
	var input struct {
		Title     string `json:"title" binding:"required"`
		Content   string `json:"content" binding:"required"`
		Excerpt   string `json:"excerpt"`
		Published bool   `json:"published"`
	}
	if !bindJSON(c, &input, "title and content are required") {
		return
	}

	post, err := a.posts.Create(service.PostInput{
		Title:     input.Title,
		Content:   input.Content,
		Excerpt:   input.Excerpt,
		Published: input.Published,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrSlugTaken):
			respondError(c, http.StatusConflict, "title already in use, pick another title")
		case errors.Is(err, service.ErrSlugEmpty):
			respondError(c, http.StatusBadRequest, "title must contain at least one letter or digit")
		default:
			respondError(c, http.StatusInternalServerError, "failed to create post")
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "post created", "post": post})
}

// UpdatePost applies a partial update to the post addressed by slug.
func (a *API) UpdatePost(c *gin.Context) {
	var input struct {
		Title     *string `json:"title"`
		Content   *string `json:"content"`
		Excerpt   *string `json:"excerpt"`
		Published *bool   `json:"published"`
	}
	if !bindJSON(c, &input, "invalid request body") {
		return
	}

	post, err := a.posts.Update(c.Param("slug"), service.PostUpdate{
		Title:     input.Title,
		Content:   input.Content,
		Excerpt:   input.Excerpt,
		Published: input.Published,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrPostNotFound):
			respondError(c, http.StatusNotFound, "post not found")
		case errors.Is(err, service.ErrSlugTaken):
			respondError(c, http.StatusConflict, "title already in use, pick another title")
		case errors.Is(err, service.ErrSlugEmpty):
			respondError(c, http.StatusBadRequest, "title must contain at least one letter or digit")
		default:
			respondError(c, http.StatusInternalServerError, "failed to update post")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "post updated", "post": post})
}

// DeletePost removes the post addressed by slug, comments included.
func (a *API) DeletePost(c *gin.Context) {
	if err := a.posts.Delete(c.Param("slug")); err != nil {
		if errors.Is(err, service.ErrPostNotFound) {
			respondError(c, http.StatusNotFound, "post not found")
			return
		}
		respondError(c, http.StatusInternalServerError, "failed to delete post")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "post deleted"})
}
