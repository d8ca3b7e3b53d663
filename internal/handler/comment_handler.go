package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/peka1011-dev/peka-blog/internal/service"
)

// ListComments returns the comments of a post, newest first.
func (a *API) ListComments(c *gin.Context) {
	postID := strings.TrimSpace(c.Query("postId"))
	if postID == "" {
		respondError(c, http.StatusBadRequest, "postId is required")
		return
	}

	comments, err := a.comments.ListByPost(postID)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "failed to list comments")
		return
	}

	c.JSON(http.StatusOK, gin.H{"comments": comments})
}

// CreateComment stores a comment on behalf of the session user.
func (a *API) CreateComment(c *gin.Context) {
	identity, ok := currentIdentity(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, "login required")
		return
	}

	var input struct {
		Content string `json:"content" binding:"required,max=1000"`
		PostID  string `json:"postId" binding:"required"`
	}
	if !bindJSON(c, &input, "content (at most 1000 characters) and postId are required") {
		return
	}

	comment, err := a.comments.Create(service.CommentInput{
		Content: input.Content,
		PostID:  input.PostID,
		UserID:  identity.UserID,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrPostNotFound):
			respondError(c, http.StatusNotFound, "post not found")
		case errors.Is(err, service.ErrCommentEmpty), errors.Is(err, service.ErrCommentTooLong):
			respondError(c, http.StatusBadRequest, "content must be between 1 and 1000 characters")
		default:
			respondError(c, http.StatusInternalServerError, "failed to create comment")
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "comment created", "comment": comment})
}

// DeleteComment removes a comment. Only the author or an admin may delete.
func (a *API) DeleteComment(c *gin.Context) {
	identity, ok := currentIdentity(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, "login required")
		return
	}

	if err := a.comments.Delete(c.Param("id"), identity.UserID, identity.Role); err != nil {
		switch {
		case errors.Is(err, service.ErrCommentNotFound):
			respondError(c, http.StatusNotFound, "comment not found")
		case errors.Is(err, service.ErrForbidden):
			respondError(c, http.StatusForbidden, "only the author or an admin can delete a comment")
		default:
			respondError(c, http.StatusInternalServerError, "failed to delete comment")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "comment deleted"})
}
