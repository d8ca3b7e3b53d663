package service

import (
	"errors"
	"strings"
	"unicode/utf8"

	"github.com/peka1011-dev/peka-blog/internal/db"
	"gorm.io/gorm"
)

// MaxCommentLength bounds comment content, counted in runes.
const MaxCommentLength = 1000

var (
	ErrCommentNotFound = errors.New("comment not found")
	ErrCommentEmpty    = errors.New("comment content is empty")
	ErrCommentTooLong  = errors.New("comment content exceeds the length limit")
	ErrForbidden       = errors.New("operation not permitted for this user")
)

// CommentService wraps comment related database operations.
type CommentService struct {
	db *gorm.DB
}

// CommentInput represents fields accepted when creating a comment.
type CommentInput struct {
	Content string
	PostID  string
	UserID  string
}

// NewCommentService creates a CommentService instance.
func NewCommentService(gdb *gorm.DB) *CommentService {
	return &CommentService{db: gdb}
}

// Create stores a comment on an existing post and returns it with the
// author preloaded.
func (s *CommentService) Create(input CommentInput) (*db.Comment, error) {
	content := strings.TrimSpace(input.Content)
	if content == "" {
		return nil, ErrCommentEmpty
	}
	if utf8.RuneCountInString(content) > MaxCommentLength {
		return nil, ErrCommentTooLong
	}

	var post db.Post
	if err := s.db.Select("id").Where("id = ?", input.PostID).First(&post).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPostNotFound
		}
		return nil, err
	}

	comment := db.Comment{
		Content: content,
		PostID:  post.ID,
		UserID:  input.UserID,
	}
	if err := s.db.Create(&comment).Error; err != nil {
		return nil, err
	}

	if err := s.db.Preload("User").First(&comment, "id = ?", comment.ID).Error; err != nil {
		return nil, err
	}
	return &comment, nil
}

// ListByPost returns the comments of a post, newest first.
func (s *CommentService) ListByPost(postID string) ([]db.Comment, error) {
	var comments []db.Comment
	if err := s.db.Preload("User").
		Where("post_id = ?", postID).
		Order("created_at desc").
		Find(&comments).Error; err != nil {
		return nil, err
	}
	return comments, nil
}

// Delete removes a comment on behalf of actorID. Only the comment's author
// or an admin may delete it.
func (s *CommentService) Delete(id, actorID string, actorRole db.Role) error {
	var comment db.Comment
	if err := s.db.Where("id = ?", id).First(&comment).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCommentNotFound
		}
		return err
	}

	switch actorRole {
	case db.RoleAdmin:
	case db.RoleUser:
		if comment.UserID != actorID {
			return ErrForbidden
		}
	default:
		return ErrForbidden
	}

	return s.db.Delete(&comment).Error
}
