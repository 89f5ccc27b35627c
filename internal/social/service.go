package social

import (
	"fmt"
	"time"

	"github.com/revkonstriksyon/fluid-finance-api/internal/cqrs"
	"github.com/revkonstriksyon/fluid-finance-api/internal/models"
	"github.com/revkonstriksyon/fluid-finance-api/internal/utils"
)

// PostStore is the persistence surface the service needs.
type PostStore interface {
	CreatePost(post *models.Post) error
	GetPost(postID string) (*models.Post, error)
	ListFeed(limit int) ([]models.Post, error)
	DeleteLikesByPost(postID string) error
	DeleteCommentsByPost(postID string) error
	DeletePost(postID string) error
	Like(postID, userID string) error
	Unlike(postID, userID string) error
	CreateComment(comment *models.PostComment) error
	ListComments(postID string) ([]models.PostComment, error)
}

// Service implements the social feed.
type Service struct {
	store PostStore
}

func NewService(store PostStore) *Service {
	return &Service{store: store}
}

func (s *Service) CreatePost(cmd cqrs.CreatePostCommand) (*models.Post, error) {
	if cmd.Content == "" {
		return nil, fmt.Errorf("post content required")
	}
	post := &models.Post{
		ID:        utils.GenerateID("pst"),
		UserID:    cmd.UserID,
		Content:   cmd.Content,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.store.CreatePost(post); err != nil {
		return nil, err
	}
	return post, nil
}

// DeletePost removes a post and its dependents. Likes go first, then
// comments, then the post row itself; the post delete would violate the
// foreign keys if attempted before its dependents are gone.
func (s *Service) DeletePost(cmd cqrs.DeletePostCommand) error {
	post, err := s.store.GetPost(cmd.PostID)
	if err != nil {
		return err
	}
	if post.UserID != cmd.UserID {
		return fmt.Errorf("forbidden")
	}

	if err := s.store.DeleteLikesByPost(cmd.PostID); err != nil {
		return err
	}
	if err := s.store.DeleteCommentsByPost(cmd.PostID); err != nil {
		return err
	}
	return s.store.DeletePost(cmd.PostID)
}

func (s *Service) LikePost(cmd cqrs.LikePostCommand) error {
	if _, err := s.store.GetPost(cmd.PostID); err != nil {
		return err
	}
	return s.store.Like(cmd.PostID, cmd.UserID)
}

func (s *Service) UnlikePost(cmd cqrs.LikePostCommand) error {
	return s.store.Unlike(cmd.PostID, cmd.UserID)
}

func (s *Service) Comment(cmd cqrs.CommentCommand) (*models.PostComment, error) {
	if cmd.Content == "" {
		return nil, fmt.Errorf("comment content required")
	}
	if _, err := s.store.GetPost(cmd.PostID); err != nil {
		return nil, err
	}
	comment := &models.PostComment{
		ID:        utils.GenerateID("cmt"),
		PostID:    cmd.PostID,
		UserID:    cmd.UserID,
		Content:   cmd.Content,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.store.CreateComment(comment); err != nil {
		return nil, err
	}
	return comment, nil
}

func (s *Service) ListFeed(q cqrs.ListFeedQuery) ([]models.Post, error) {
	return s.store.ListFeed(q.Limit)
}

func (s *Service) ListComments(q cqrs.ListCommentsQuery) ([]models.PostComment, error) {
	return s.store.ListComments(q.PostID)
}
