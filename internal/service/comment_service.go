package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/cleanblog/internal/db"
	"github.com/cleanblog/internal/metrics"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// CommentService 管理文章下的评论
type CommentService struct {
	db  *gorm.DB
	log logrus.FieldLogger
}

// NewCommentService creates a CommentService.
func NewCommentService(gdb *gorm.DB, log logrus.FieldLogger) *CommentService {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &CommentService{db: gdb, log: log}
}

// Add stores a comment written by actor on the given post.
func (s *CommentService) Add(ctx context.Context, actor *db.User, postID uint, text string) (*db.Comment, error) {
	return RequireUser(actor, func() (*db.Comment, error) {
		text = strings.TrimSpace(text)
		if text == "" {
			return nil, requiredField("comment")
		}

		comment := db.Comment{Text: text, AuthorID: actor.ID, BlogPostID: postID}
		err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			var post db.Post
			if err := tx.Select("id").First(&post, postID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return ErrPostNotFound
				}
				return err
			}
			return tx.Create(&comment).Error
		})
		if err != nil {
			if errors.Is(err, ErrPostNotFound) {
				return nil, err
			}
			return nil, fmt.Errorf("add comment: %w", err)
		}
		comment.Author = *actor

		metrics.RecordContentEvent(metrics.EventCommentAdded)
		s.log.WithFields(logrus.Fields{
			"comment_id": comment.ID,
			"post_id":    postID,
			"user_id":    actor.ID,
		}).Info("comment added")
		return &comment, nil
	})
}

// ListForPost returns the comments of one post, oldest first.
func (s *CommentService) ListForPost(ctx context.Context, postID uint) ([]db.Comment, error) {
	var comments []db.Comment
	if err := s.db.WithContext(ctx).
		Preload("Author").
		Where("blog_post_id = ?", postID).
		Order("id asc").
		Find(&comments).Error; err != nil {
		return nil, fmt.Errorf("list comments: %w", err)
	}
	return comments, nil
}
