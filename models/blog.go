package models

import (
	"time"

	"github.com/google/uuid"
)

// BlogStatus controls publication.
type BlogStatus string

const (
	BlogStatusDraft     BlogStatus = "draft"
	BlogStatusPublished BlogStatus = "published"
	BlogStatusArchived  BlogStatus = "archived"
)

// BlogPost is a CMS article.
type BlogPost struct {
	ID             uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Title          string     `gorm:"not null" json:"title"`
	Slug           string     `gorm:"type:varchar(255);uniqueIndex;not null" json:"slug"`
	Content        string     `gorm:"type:text;not null" json:"content"`
	Excerpt        *string    `json:"excerpt,omitempty"`
	FeaturedImage  *string    `json:"featuredImage,omitempty"`
	AuthorID       uuid.UUID  `gorm:"type:uuid;not null" json:"authorId"`
	Status         BlogStatus `gorm:"type:varchar(20);not null;default:'draft';index" json:"status"`
	PublishedAt    *time.Time `json:"publishedAt,omitempty"`
	SEOTitle       *string    `gorm:"column:seo_title" json:"seoTitle,omitempty"`
	SEODescription *string    `gorm:"column:seo_description" json:"seoDescription,omitempty"`
	Tags           []string   `gorm:"type:jsonb;serializer:json" json:"tags"`
	ViewCount      int        `gorm:"not null;default:0" json:"viewCount"`
	CreatedAt      time.Time  `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt      time.Time  `gorm:"autoUpdateTime" json:"updatedAt"`

	AuthorName string `gorm:"->;-:migration" json:"authorName,omitempty"`
}

// BlogFilter selects posts for listing.
type BlogFilter struct {
	Status BlogStatus
	Tag    string
	Limit  int
	Offset int
}

// BlogListResponse is the body of GET /blog.
type BlogListResponse struct {
	Posts []BlogPost `json:"posts"`
	Total int64      `json:"total"`
}

// CreateBlogPostRequest is the payload for POST /blog.
type CreateBlogPostRequest struct {
	Title          string     `json:"title" binding:"required"`
	Content        string     `json:"content" binding:"required"`
	Excerpt        *string    `json:"excerpt"`
	FeaturedImage  *string    `json:"featuredImage"`
	Status         BlogStatus `json:"status" binding:"omitempty,oneof=draft published archived"`
	Tags           []string   `json:"tags"`
	SEOTitle       *string    `json:"seoTitle"`
	SEODescription *string    `json:"seoDescription"`
}

// UpdateBlogPostRequest only touches provided fields.
type UpdateBlogPostRequest struct {
	Title          *string     `json:"title"`
	Content        *string     `json:"content"`
	Excerpt        *string     `json:"excerpt"`
	FeaturedImage  *string     `json:"featuredImage"`
	Status         *BlogStatus `json:"status" binding:"omitempty,oneof=draft published archived"`
	Tags           []string    `json:"tags"`
	SEOTitle       *string     `json:"seoTitle"`
	SEODescription *string     `json:"seoDescription"`
}

// BlogPostRef is returned by create and update.
type BlogPostRef struct {
	ID   uuid.UUID `json:"id"`
	Slug string    `json:"slug"`
}
