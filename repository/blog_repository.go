package repository

import (
	"context"
	"encoding/json"

	"github.com/cetler74/modern-e-commerce-platform/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// BlogRepository defines data access for CMS posts.
type BlogRepository interface {
	List(ctx context.Context, filter models.BlogFilter) ([]models.BlogPost, int64, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.BlogPost, error)
	FindBySlug(ctx context.Context, slug string) (*models.BlogPost, error)
	Create(ctx context.Context, post *models.BlogPost) error
	Update(ctx context.Context, id uuid.UUID, updates map[string]interface{}) error
	Delete(ctx context.Context, id uuid.UUID) error
	IncrementViews(ctx context.Context, id uuid.UUID) error
}

// GormBlogRepository implements BlogRepository using GORM.
type GormBlogRepository struct {
	db *gorm.DB
}

// NewGormBlogRepository creates a new GormBlogRepository.
func NewGormBlogRepository(db *gorm.DB) BlogRepository {
	return &GormBlogRepository{db: db}
}

func (r *GormBlogRepository) withAuthor(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Model(&models.BlogPost{}).
		Select("blog_posts.*, TRIM(COALESCE(users.first_name, '') || ' ' || COALESCE(users.last_name, '')) AS author_name").
		Joins("LEFT JOIN users ON users.id = blog_posts.author_id")
}

// List returns one page of posts, most recently published first.
func (r *GormBlogRepository) List(ctx context.Context, filter models.BlogFilter) ([]models.BlogPost, int64, error) {
	var posts []models.BlogPost
	var total int64

	query := r.db.WithContext(ctx).Model(&models.BlogPost{})
	if filter.Status != "" {
		query = query.Where("blog_posts.status = ?", filter.Status)
	}
	if filter.Tag != "" {
		tag, err := json.Marshal([]string{filter.Tag})
		if err != nil {
			return nil, 0, err
		}
		query = query.Where("blog_posts.tags @> ?::jsonb", string(tag))
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.
		Select("blog_posts.*, TRIM(COALESCE(users.first_name, '') || ' ' || COALESCE(users.last_name, '')) AS author_name").
		Joins("LEFT JOIN users ON users.id = blog_posts.author_id").
		Order("blog_posts.published_at DESC NULLS LAST, blog_posts.created_at DESC").
		Offset(filter.Offset).
		Limit(filter.Limit).
		Find(&posts).Error
	if err != nil {
		return nil, 0, err
	}
	return posts, total, nil
}

func (r *GormBlogRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.BlogPost, error) {
	var post models.BlogPost
	if err := r.withAuthor(ctx).Where("blog_posts.id = ?", id).First(&post).Error; err != nil {
		return nil, err
	}
	return &post, nil
}

func (r *GormBlogRepository) FindBySlug(ctx context.Context, slug string) (*models.BlogPost, error) {
	var post models.BlogPost
	if err := r.withAuthor(ctx).Where("blog_posts.slug = ?", slug).First(&post).Error; err != nil {
		return nil, err
	}
	return &post, nil
}

func (r *GormBlogRepository) Create(ctx context.Context, post *models.BlogPost) error {
	return r.db.WithContext(ctx).Create(post).Error
}

func (r *GormBlogRepository) Update(ctx context.Context, id uuid.UUID, updates map[string]interface{}) error {
	result := r.db.WithContext(ctx).Model(&models.BlogPost{}).Where("id = ?", id).Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *GormBlogRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.BlogPost{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *GormBlogRepository) IncrementViews(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).
		Model(&models.BlogPost{}).
		Where("id = ?", id).
		UpdateColumn("view_count", gorm.Expr("view_count + 1")).
		Error
}
