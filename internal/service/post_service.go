package service

import (
	"errors"
	"strings"

	"github.com/peka1011-dev/peka-blog/internal/db"
	"gorm.io/gorm"
)

var (
	ErrPostNotFound = errors.New("post not found")
	ErrSlugTaken    = errors.New("slug already in use by another post")
	ErrSlugEmpty    = errors.New("title produces an empty slug")
)

// PostService wraps post related database operations.
type PostService struct {
	db *gorm.DB
}

// PostInput represents fields accepted when creating a post.
type PostInput struct {
	Title     string
	Content   string
	Excerpt   string
	Published bool
}

// PostUpdate carries a partial update; nil fields are left untouched.
// The slug is re-derived only when Title is present.
type PostUpdate struct {
	Title     *string
	Content   *string
	Excerpt   *string
	Published *bool
}

// PostFilter describes filters for listing posts.
type PostFilter struct {
	Search        string
	PublishedOnly bool
	Page          int
	PerPage       int
}

// PostListResult aggregates paginated list data.
type PostListResult struct {
	Posts      []db.Post
	Total      int64
	TotalPages int
	Page       int
	PerPage    int
}

// NewPostService creates a PostService instance.
func NewPostService(gdb *gorm.DB) *PostService {
	return &PostService{db: gdb}
}

// Create derives the slug from the title and persists the post. The
// uniqueness check and the insert share one transaction, and the unique
// index on the slug column backstops the check: a duplicate raced past it
// still comes back as ErrSlugTaken, never as a second record.
func (s *PostService) Create(input PostInput) (*db.Post, error) {
	slug := Slugify(input.Title)
	if slug == "" {
		return nil, ErrSlugEmpty
	}

	post := db.Post{
		Title:     strings.TrimSpace(input.Title),
		Slug:      slug,
		Content:   input.Content,
		Excerpt:   strings.TrimSpace(input.Excerpt),
		Published: input.Published,
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		taken, err := slugInUse(tx, slug, "")
		if err != nil {
			return err
		}
		if taken {
			return ErrSlugTaken
		}
		return tx.Create(&post).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrSlugTaken
		}
		return nil, err
	}

	return &post, nil
}

// Update applies a partial update to the post addressed by slug. When the
// update carries a title, the slug is re-derived and checked against every
// other post; otherwise the existing slug is retained.
func (s *PostService) Update(slug string, update PostUpdate) (*db.Post, error) {
	var post db.Post

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("slug = ?", slug).First(&post).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrPostNotFound
			}
			return err
		}

		if update.Title != nil {
			newSlug := Slugify(*update.Title)
			if newSlug == "" {
				return ErrSlugEmpty
			}
			if newSlug != post.Slug {
				taken, err := slugInUse(tx, newSlug, post.ID)
				if err != nil {
					return err
				}
				if taken {
					return ErrSlugTaken
				}
				post.Slug = newSlug
			}
			post.Title = strings.TrimSpace(*update.Title)
		}
		if update.Content != nil {
			post.Content = *update.Content
		}
		if update.Excerpt != nil {
			post.Excerpt = strings.TrimSpace(*update.Excerpt)
		}
		if update.Published != nil {
			post.Published = *update.Published
		}

		return tx.Save(&post).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrSlugTaken
		}
		return nil, err
	}

	return &post, nil
}

// Delete removes the post addressed by slug along with its comments.
func (s *PostService) Delete(slug string) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		var post db.Post
		if err := tx.Where("slug = ?", slug).First(&post).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrPostNotFound
			}
			return err
		}

		if err := tx.Where("post_id = ?", post.ID).Delete(&db.Comment{}).Error; err != nil {
			return err
		}

		return tx.Delete(&post).Error
	})
}

// GetBySlug fetches a post with its comments, newest first, authors
// preloaded.
func (s *PostService) GetBySlug(slug string) (*db.Post, error) {
	var post db.Post
	err := s.db.
		Preload("Comments", func(tx *gorm.DB) *gorm.DB {
			return tx.Order("comments.created_at desc")
		}).
		Preload("Comments.User").
		Where("slug = ?", slug).
		First(&post).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPostNotFound
		}
		return nil, err
	}
	return &post, nil
}

// List provides paginated posts ordered by created time descending.
func (s *PostService) List(filter PostFilter) (*PostListResult, error) {
	result := &PostListResult{Page: filter.Page, PerPage: filter.PerPage}
	if result.Page <= 0 {
		result.Page = 1
	}
	if result.PerPage <= 0 {
		result.PerPage = 10
	}

	countQuery := s.applyFilters(s.db.Model(&db.Post{}), filter)
	if err := countQuery.Count(&result.Total).Error; err != nil {
		return nil, err
	}

	offset := (result.Page - 1) * result.PerPage

	var posts []db.Post
	dataQuery := s.applyFilters(s.db.Model(&db.Post{}), filter)
	if err := dataQuery.
		Order("created_at desc").
		Limit(result.PerPage).
		Offset(offset).
		Find(&posts).Error; err != nil {
		return nil, err
	}

	if result.Total == 0 {
		result.TotalPages = 1
	} else {
		result.TotalPages = int((result.Total + int64(result.PerPage) - 1) / int64(result.PerPage))
	}

	result.Posts = posts
	return result, nil
}

func (s *PostService) applyFilters(query *gorm.DB, filter PostFilter) *gorm.DB {
	if filter.PublishedOnly {
		query = query.Where("published = ?", true)
	}
	if filter.Search != "" {
		search := "%" + filter.Search + "%"
		query = query.Where("(title LIKE ? OR content LIKE ? OR excerpt LIKE ?)", search, search, search)
	}
	return query
}

// slugInUse reports whether a post other than excludeID already holds slug.
func slugInUse(tx *gorm.DB, slug, excludeID string) (bool, error) {
	query := tx.Model(&db.Post{}).Where("slug = ?", slug)
	if excludeID != "" {
		query = query.Where("id <> ?", excludeID)
	}

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}
