package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/mail"
	"regexp"
	"strings"

	"plan-marketplace/internal/client"
	"plan-marketplace/internal/dto"
	"plan-marketplace/internal/model"
	"plan-marketplace/internal/repository"

	"github.com/google/uuid"
)

type InquiryService interface {
	Create(ctx context.Context, viewer *model.User, req *dto.InquiryRequest) (*model.Inquiry, error)
	List(ctx context.Context, status model.InquiryStatus, page repository.Pagination) (*dto.Page[*model.Inquiry], error)
	UpdateStatus(ctx context.Context, id string, status model.InquiryStatus) error
	Delete(ctx context.Context, id string) error
}

type inquiryServiceImpl struct {
	inquiryRepo repository.InquiryRepository
	logger      *slog.Logger
}

func NewInquiryService(inquiryRepo repository.InquiryRepository, logger *slog.Logger) InquiryService {
	return &inquiryServiceImpl{
		inquiryRepo: inquiryRepo,
		logger:      logger,
	}
}

func (s *inquiryServiceImpl) Create(ctx context.Context, viewer *model.User, req *dto.InquiryRequest) (*model.Inquiry, error) {
	inquiry := &model.Inquiry{
		Name:    strings.TrimSpace(req.Name),
		Email:   strings.ToLower(strings.TrimSpace(req.Email)),
		Phone:   req.Phone,
		Message: strings.TrimSpace(req.Message),
		Status:  model.InquiryNew,
	}
	if viewer != nil {
		inquiry.User = &viewer.ID
		if inquiry.Name == "" {
			inquiry.Name = viewer.Name
		}
		if inquiry.Email == "" {
			inquiry.Email = viewer.Email
		}
	}

	if inquiry.Name == "" {
		return nil, invalid("name is required")
	}
	if _, err := mail.ParseAddress(inquiry.Email); err != nil {
		return nil, invalid("a valid email is required")
	}
	if inquiry.Message == "" {
		return nil, invalid("message is required")
	}
	if req.ProductID != "" {
		pid, err := parseID(req.ProductID)
		if err != nil {
			return nil, err
		}
		inquiry.Product = &pid
	}

	if err := s.inquiryRepo.Create(ctx, inquiry); err != nil {
		return nil, fmt.Errorf("store inquiry: %w", err)
	}
	s.logger.InfoContext(ctx, "inquiry received", slog.String("inquiry_id", inquiry.ID.Hex()))
	return inquiry, nil
}

func (s *inquiryServiceImpl) List(ctx context.Context, status model.InquiryStatus, page repository.Pagination) (*dto.Page[*model.Inquiry], error) {
	if status != "" && !status.Valid() {
		return nil, invalid("unknown inquiry status %q", status)
	}
	inquiries, total, err := s.inquiryRepo.List(ctx, status, page)
	if err != nil {
		return nil, fmt.Errorf("list inquiries: %w", err)
	}
	return pageOf(inquiries, total, page), nil
}

func (s *inquiryServiceImpl) UpdateStatus(ctx context.Context, id string, status model.InquiryStatus) error {
	if !status.Valid() {
		return invalid("unknown inquiry status %q", status)
	}
	oid, err := parseID(id)
	if err != nil {
		return err
	}
	if err := s.inquiryRepo.UpdateStatus(ctx, oid, status); err != nil {
		return fmt.Errorf("update inquiry: %w", err)
	}
	return nil
}

func (s *inquiryServiceImpl) Delete(ctx context.Context, id string) error {
	oid, err := parseID(id)
	if err != nil {
		return err
	}
	if err := s.inquiryRepo.Delete(ctx, oid); err != nil {
		return fmt.Errorf("delete inquiry: %w", err)
	}
	return nil
}

type BlogService interface {
	Create(ctx context.Context, author *model.User, req *dto.BlogRequest) (*model.BlogPost, error)
	GetBySlug(ctx context.Context, slug string, includeDrafts bool) (*model.BlogPost, error)
	List(ctx context.Context, publishedOnly bool, page repository.Pagination) (*dto.Page[*model.BlogPost], error)
	Update(ctx context.Context, id string, req *dto.BlogRequest) (*model.BlogPost, error)
	Delete(ctx context.Context, id string) error
}

type blogServiceImpl struct {
	blogRepo repository.BlogRepository
}

func NewBlogService(blogRepo repository.BlogRepository) BlogService {
	return &blogServiceImpl{blogRepo: blogRepo}
}

var nonSlugChars = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify lowercases title and joins its alphanumeric runs with dashes.
func Slugify(title string) string {
	return strings.Trim(nonSlugChars.ReplaceAllString(strings.ToLower(title), "-"), "-")
}

func (s *blogServiceImpl) Create(ctx context.Context, author *model.User, req *dto.BlogRequest) (*model.BlogPost, error) {
	if strings.TrimSpace(req.Title) == "" || strings.TrimSpace(req.Content) == "" {
		return nil, invalid("title and content are required")
	}
	slug := Slugify(req.Title)
	if slug == "" {
		slug = "post"
	}

	post := &model.BlogPost{
		Title:      strings.TrimSpace(req.Title),
		Slug:       slug,
		Content:    req.Content,
		Excerpt:    req.Excerpt,
		CoverImage: req.CoverImage,
		Tags:       req.Tags,
		Author:     author.ID,
		Published:  req.Published,
	}

	err := s.blogRepo.Create(ctx, post)
	if errors.Is(err, repository.ErrDuplicate) {
		post.Slug = slug + "-" + uuid.NewString()[:8]
		err = s.blogRepo.Create(ctx, post)
	}
	if err != nil {
		return nil, fmt.Errorf("store blog post: %w", err)
	}
	return post, nil
}

func (s *blogServiceImpl) GetBySlug(ctx context.Context, slug string, includeDrafts bool) (*model.BlogPost, error) {
	post, err := s.blogRepo.FindBySlug(ctx, slug)
	if err != nil {
		return nil, fmt.Errorf("find blog post: %w", err)
	}
	if !post.Published && !includeDrafts {
		return nil, ErrNotFound
	}
	return post, nil
}

func (s *blogServiceImpl) List(ctx context.Context, publishedOnly bool, page repository.Pagination) (*dto.Page[*model.BlogPost], error) {
	posts, total, err := s.blogRepo.List(ctx, publishedOnly, page)
	if err != nil {
		return nil, fmt.Errorf("list blog posts: %w", err)
	}
	return pageOf(posts, total, page), nil
}

func (s *blogServiceImpl) Update(ctx context.Context, id string, req *dto.BlogRequest) (*model.BlogPost, error) {
	oid, err := parseID(id)
	if err != nil {
		return nil, err
	}
	post, err := s.blogRepo.FindByID(ctx, oid)
	if err != nil {
		return nil, fmt.Errorf("find blog post: %w", err)
	}
	if t := strings.TrimSpace(req.Title); t != "" {
		post.Title = t
	}
	if req.Content != "" {
		post.Content = req.Content
	}
	post.Excerpt = req.Excerpt
	post.CoverImage = req.CoverImage
	post.Tags = req.Tags
	post.Published = req.Published

	if err := s.blogRepo.Update(ctx, post); err != nil {
		return nil, fmt.Errorf("update blog post: %w", err)
	}
	return post, nil
}

func (s *blogServiceImpl) Delete(ctx context.Context, id string) error {
	oid, err := parseID(id)
	if err != nil {
		return err
	}
	if err := s.blogRepo.Delete(ctx, oid); err != nil {
		return fmt.Errorf("delete blog post: %w", err)
	}
	return nil
}

type GalleryService interface {
	Create(ctx context.Context, item *model.GalleryItem) (*model.GalleryItem, error)
	List(ctx context.Context, category string) ([]*model.GalleryItem, error)
	Delete(ctx context.Context, id string) error
}

type galleryServiceImpl struct {
	galleryRepo repository.GalleryRepository
	store       client.ObjectStore
	logger      *slog.Logger
}

func NewGalleryService(galleryRepo repository.GalleryRepository, store client.ObjectStore, logger *slog.Logger) GalleryService {
	return &galleryServiceImpl{
		galleryRepo: galleryRepo,
		store:       store,
		logger:      logger,
	}
}

func (s *galleryServiceImpl) Create(ctx context.Context, item *model.GalleryItem) (*model.GalleryItem, error) {
	if item.ImageURL == "" {
		return nil, invalid("image is required")
	}
	if strings.TrimSpace(item.Title) == "" {
		return nil, invalid("title is required")
	}
	if err := s.galleryRepo.Create(ctx, item); err != nil {
		return nil, fmt.Errorf("store gallery item: %w", err)
	}
	return item, nil
}

func (s *galleryServiceImpl) List(ctx context.Context, category string) ([]*model.GalleryItem, error) {
	items, err := s.galleryRepo.List(ctx, category)
	if err != nil {
		return nil, fmt.Errorf("list gallery: %w", err)
	}
	return items, nil
}

// Delete removes the record first; a stale object in the bucket is
// only logged.
func (s *galleryServiceImpl) Delete(ctx context.Context, id string) error {
	oid, err := parseID(id)
	if err != nil {
		return err
	}
	item, err := s.galleryRepo.Delete(ctx, oid)
	if err != nil {
		return fmt.Errorf("delete gallery item: %w", err)
	}
	if item.ImageKey != "" {
		if err := s.store.Delete(ctx, item.ImageKey); err != nil {
			s.logger.WarnContext(ctx, "delete gallery image", slog.String("key", item.ImageKey), slog.Any("error", err))
		}
	}
	return nil
}
