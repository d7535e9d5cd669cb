package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/cleanblog/internal/db"
	"github.com/cleanblog/internal/metrics"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// PostService wraps post related database operations.
type PostService struct {
	db  *gorm.DB
	now func() time.Time
	log logrus.FieldLogger
}

// PostInput represents fields accepted when creating or updating a post.
type PostInput struct {
	Title    string
	Subtitle string
	ImgURL   string
	Body     string
}

func (in PostInput) normalize() (PostInput, error) {
	out := PostInput{
		Title:    strings.TrimSpace(in.Title),
		Subtitle: strings.TrimSpace(in.Subtitle),
		ImgURL:   strings.TrimSpace(in.ImgURL),
		Body:     strings.TrimSpace(in.Body),
	}
	switch {
	case out.Title == "":
		return out, requiredField("title")
	case out.Subtitle == "":
		return out, requiredField("subtitle")
	case out.ImgURL == "":
		return out, requiredField("img_url")
	case out.Body == "":
		return out, requiredField("body")
	}
	return out, nil
}

// NewPostService creates a PostService instance.
func NewPostService(gdb *gorm.DB, log logrus.FieldLogger) *PostService {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &PostService{db: gdb, now: time.Now, log: log}
}

// List returns every post in ascending id order with its author.
func (s *PostService) List(ctx context.Context) ([]db.Post, error) {
	var posts []db.Post
	if err := s.db.WithContext(ctx).Preload("Author").Order("id asc").Find(&posts).Error; err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}
	return posts, nil
}

// Get fetches a post by id with its author preloaded.
func (s *PostService) Get(ctx context.Context, id uint) (*db.Post, error) {
	var post db.Post
	if err := s.db.WithContext(ctx).Preload("Author").First(&post, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPostNotFound
		}
		return nil, fmt.Errorf("get post: %w", err)
	}
	return &post, nil
}

// Create 由管理员发布新文章，日期取当天
func (s *PostService) Create(ctx context.Context, actor *db.User, input PostInput) (*db.Post, error) {
	return RequireAdmin(actor, func() (*db.Post, error) {
		fields, err := input.normalize()
		if err != nil {
			return nil, err
		}

		post := db.Post{
			Title:    fields.Title,
			Subtitle: fields.Subtitle,
			ImgURL:   fields.ImgURL,
			Body:     fields.Body,
			Date:     s.now().Format(db.DisplayDateLayout),
			AuthorID: actor.ID,
		}

		if err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			return tx.Create(&post).Error
		}); err != nil {
			return nil, fmt.Errorf("create post: %w", err)
		}
		post.Author = *actor

		metrics.RecordContentEvent(metrics.EventPostCreated)
		s.log.WithFields(logrus.Fields{"post_id": post.ID, "user_id": actor.ID}).Info("post created")
		return &post, nil
	})
}

// Update overwrites title, subtitle, image and body in one transaction.
// The id, author and date stay as they were.
func (s *PostService) Update(ctx context.Context, actor *db.User, id uint, input PostInput) (*db.Post, error) {
	return RequireAdmin(actor, func() (*db.Post, error) {
		fields, err := input.normalize()
		if err != nil {
			return nil, err
		}

		var post db.Post
		err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			if err := tx.First(&post, id).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return ErrPostNotFound
				}
				return err
			}

			updates := map[string]interface{}{
				"title":    fields.Title,
				"subtitle": fields.Subtitle,
				"img_url":  fields.ImgURL,
				"body":     fields.Body,
			}
			if err := tx.Model(&post).Updates(updates).Error; err != nil {
				return err
			}
			return tx.Preload("Author").First(&post, id).Error
		})
		if err != nil {
			if errors.Is(err, ErrPostNotFound) {
				return nil, err
			}
			return nil, fmt.Errorf("update post: %w", err)
		}

		metrics.RecordContentEvent(metrics.EventPostUpdated)
		s.log.WithFields(logrus.Fields{"post_id": post.ID, "user_id": actor.ID}).Info("post updated")
		return &post, nil
	})
}

// Delete removes a post together with its comments.
func (s *PostService) Delete(ctx context.Context, actor *db.User, id uint) error {
	_, err := RequireAdmin(actor, func() (struct{}, error) {
		var removed int64
		err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			var post db.Post
			if err := tx.Select("id").First(&post, id).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return ErrPostNotFound
				}
				return err
			}

			result := tx.Where("blog_post_id = ?", id).Delete(&db.Comment{})
			if result.Error != nil {
				return result.Error
			}
			removed = result.RowsAffected

			return tx.Delete(&db.Post{}, id).Error
		})
		if err != nil {
			if errors.Is(err, ErrPostNotFound) {
				return struct{}{}, err
			}
			return struct{}{}, fmt.Errorf("delete post: %w", err)
		}

		metrics.RecordContentEvent(metrics.EventPostDeleted)
		s.log.WithFields(logrus.Fields{
			"post_id":          id,
			"user_id":          actor.ID,
			"comments_removed": removed,
		}).Info("post deleted")
		return struct{}{}, nil
	})
	return err
}
