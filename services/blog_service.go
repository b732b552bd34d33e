package services

import (
	"context"
	"time"

	"github.com/cetler74/modern-e-commerce-platform/models"
	"github.com/cetler74/modern-e-commerce-platform/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// BlogService defines CMS post reading and authoring.
type BlogService interface {
	ListPosts(ctx context.Context, filter models.BlogFilter) (*models.BlogListResponse, *ServiceError)
	GetPost(ctx context.Context, idOrSlug string) (*models.BlogPost, *ServiceError)
	CreatePost(ctx context.Context, identity models.Identity, req *models.CreateBlogPostRequest) (*models.BlogPostRef, *ServiceError)
	UpdatePost(ctx context.Context, identity models.Identity, id uuid.UUID, req *models.UpdateBlogPostRequest) (*models.BlogPostRef, *ServiceError)
	DeletePost(ctx context.Context, identity models.Identity, id uuid.UUID) *ServiceError
}

type blogServiceImpl struct {
	repo   repository.BlogRepository
	logger *zap.Logger
	now    func() time.Time
}

// NewBlogService creates a new BlogService.
func NewBlogService(repo repository.BlogRepository, logger *zap.Logger) BlogService {
	return &blogServiceImpl{repo: repo, logger: logger, now: time.Now}
}

func (s *blogServiceImpl) ListPosts(ctx context.Context, filter models.BlogFilter) (*models.BlogListResponse, *ServiceError) {
	if filter.Status == "" {
		filter.Status = models.BlogStatusPublished
	}
	filter.Limit, filter.Offset = normalizePage(filter.Limit, filter.Offset, 10, 100)

	posts, total, err := s.repo.List(ctx, filter)
	if err != nil {
		s.logger.Error("Failed to list blog posts", zap.Error(err))
		return nil, internal("Failed to list blog posts")
	}
	if posts == nil {
		posts = []models.BlogPost{}
	}
	return &models.BlogListResponse{Posts: posts, Total: total}, nil
}

// GetPost loads a post by id or slug and counts the view.
func (s *blogServiceImpl) GetPost(ctx context.Context, idOrSlug string) (*models.BlogPost, *ServiceError) {
	var (
		post *models.BlogPost
		err  error
	)
	if id, parseErr := uuid.Parse(idOrSlug); parseErr == nil {
		post, err = s.repo.FindByID(ctx, id)
	} else {
		post, err = s.repo.FindBySlug(ctx, idOrSlug)
	}
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, notFound("Blog post not found")
		}
		s.logger.Error("Failed to load blog post", zap.String("post", idOrSlug), zap.Error(err))
		return nil, internal("Failed to load blog post")
	}

	if err := s.repo.IncrementViews(ctx, post.ID); err != nil {
		s.logger.Warn("Failed to count blog view", zap.String("post_id", post.ID.String()), zap.Error(err))
	} else {
		post.ViewCount++
	}
	return post, nil
}

func (s *blogServiceImpl) CreatePost(ctx context.Context, identity models.Identity, req *models.CreateBlogPostRequest) (*models.BlogPostRef, *ServiceError) {
	if !identity.Can(models.PermBlogCreate) {
		return nil, permissionDenied("Insufficient permissions")
	}

	slug := Slugify(req.Title)
	if slug == "" {
		return nil, invalidArgument("Title must contain letters or digits")
	}
	status := req.Status
	if status == "" {
		status = models.BlogStatusDraft
	}

	post := &models.BlogPost{
		Title:          req.Title,
		Slug:           slug,
		Content:        req.Content,
		Excerpt:        req.Excerpt,
		FeaturedImage:  req.FeaturedImage,
		AuthorID:       identity.UserID,
		Status:         status,
		SEOTitle:       req.SEOTitle,
		SEODescription: req.SEODescription,
		Tags:           nonNilStrings(req.Tags),
	}
	if status == models.BlogStatusPublished {
		now := s.now().UTC()
		post.PublishedAt = &now
	}

	if err := s.repo.Create(ctx, post); err != nil {
		if repository.IsUniqueViolation(err, repository.ConstraintBlogSlug) {
			return nil, alreadyExists("Blog post with this title already exists")
		}
		s.logger.Error("Failed to create blog post", zap.String("slug", slug), zap.Error(err))
		return nil, internal("Failed to create blog post")
	}

	s.logger.Info("Blog post created", zap.String("post_id", post.ID.String()), zap.String("slug", slug))
	return &models.BlogPostRef{ID: post.ID, Slug: post.Slug}, nil
}

// UpdatePost writes the provided fields. A retitle regenerates the slug, and the first move to
// published stamps published_at.
func (s *blogServiceImpl) UpdatePost(ctx context.Context, identity models.Identity, id uuid.UUID, req *models.UpdateBlogPostRequest) (*models.BlogPostRef, *ServiceError) {
	if !identity.Can(models.PermBlogUpdate) {
		return nil, permissionDenied("Insufficient permissions")
	}

	current, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, notFound("Blog post not found")
		}
		s.logger.Error("Failed to load blog post", zap.String("post_id", id.String()), zap.Error(err))
		return nil, internal("Failed to update blog post")
	}

	updates := map[string]interface{}{}
	slug := current.Slug
	if req.Title != nil {
		slug = Slugify(*req.Title)
		if slug == "" {
			return nil, invalidArgument("Title must contain letters or digits")
		}
		updates["title"] = *req.Title
		updates["slug"] = slug
	}
	if req.Content != nil {
		updates["content"] = *req.Content
	}
	if req.Excerpt != nil {
		updates["excerpt"] = *req.Excerpt
	}
	if req.FeaturedImage != nil {
		updates["featured_image"] = *req.FeaturedImage
	}
	if req.Status != nil {
		updates["status"] = *req.Status
		if *req.Status == models.BlogStatusPublished && current.PublishedAt == nil {
			updates["published_at"] = s.now().UTC()
		}
	}
	if req.Tags != nil {
		updates["tags"] = jsonStrings(req.Tags)
	}
	if req.SEOTitle != nil {
		updates["seo_title"] = *req.SEOTitle
	}
	if req.SEODescription != nil {
		updates["seo_description"] = *req.SEODescription
	}

	if len(updates) > 0 {
		if err := s.repo.Update(ctx, id, updates); err != nil {
			if repository.IsNotFound(err) {
				return nil, notFound("Blog post not found")
			}
			if repository.IsUniqueViolation(err, repository.ConstraintBlogSlug) {
				return nil, alreadyExists("Blog post with this title already exists")
			}
			s.logger.Error("Failed to update blog post", zap.String("post_id", id.String()), zap.Error(err))
			return nil, internal("Failed to update blog post")
		}
	}
	return &models.BlogPostRef{ID: id, Slug: slug}, nil
}

func (s *blogServiceImpl) DeletePost(ctx context.Context, identity models.Identity, id uuid.UUID) *ServiceError {
	if !identity.Can(models.PermBlogDelete) {
		return permissionDenied("Insufficient permissions")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		if repository.IsNotFound(err) {
			return notFound("Blog post not found")
		}
		s.logger.Error("Failed to delete blog post", zap.String("post_id", id.String()), zap.Error(err))
		return internal("Failed to delete blog post")
	}
	return nil
}
