package social

import (
	"database/sql"
	"fmt"

	"github.com/revkonstriksyon/fluid-finance-api/internal/models"
)

// Repository persists posts, likes and comments in PostgreSQL.
type Repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) CreatePost(post *models.Post) error {
	_, err := r.db.Exec(
		`INSERT INTO posts (id, user_id, content, created_at) VALUES ($1, $2, $3, $4)`,
		post.ID, post.UserID, post.Content, post.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create post: %w", err)
	}
	return nil
}

func (r *Repository) GetPost(postID string) (*models.Post, error) {
	var post models.Post
	err := r.db.QueryRow(
		`SELECT p.id, p.user_id, p.content, p.created_at,
		        (SELECT COUNT(*) FROM post_likes l WHERE l.post_id = p.id),
		        (SELECT COUNT(*) FROM post_comments c WHERE c.post_id = p.id)
		 FROM posts p WHERE p.id = $1`, postID,
	).Scan(&post.ID, &post.UserID, &post.Content, &post.CreatedAt, &post.Likes, &post.Comments)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("post not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get post: %w", err)
	}
	return &post, nil
}

// ListFeed returns the most recent posts with like and comment counts.
func (r *Repository) ListFeed(limit int) ([]models.Post, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	rows, err := r.db.Query(
		`SELECT p.id, p.user_id, p.content, p.created_at,
		        (SELECT COUNT(*) FROM post_likes l WHERE l.post_id = p.id),
		        (SELECT COUNT(*) FROM post_comments c WHERE c.post_id = p.id)
		 FROM posts p ORDER BY p.created_at DESC LIMIT $1`, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list feed: %w", err)
	}
	defer rows.Close()

	var posts []models.Post
	for rows.Next() {
		var post models.Post
		if err := rows.Scan(&post.ID, &post.UserID, &post.Content, &post.CreatedAt, &post.Likes, &post.Comments); err != nil {
			return nil, fmt.Errorf("failed to scan post: %w", err)
		}
		posts = append(posts, post)
	}
	return posts, nil
}

func (r *Repository) DeleteLikesByPost(postID string) error {
	if _, err := r.db.Exec(`DELETE FROM post_likes WHERE post_id = $1`, postID); err != nil {
		return fmt.Errorf("failed to delete likes: %w", err)
	}
	return nil
}

func (r *Repository) DeleteCommentsByPost(postID string) error {
	if _, err := r.db.Exec(`DELETE FROM post_comments WHERE post_id = $1`, postID); err != nil {
		return fmt.Errorf("failed to delete comments: %w", err)
	}
	return nil
}

func (r *Repository) DeletePost(postID string) error {
	result, err := r.db.Exec(`DELETE FROM posts WHERE id = $1`, postID)
	if err != nil {
		return fmt.Errorf("failed to delete post: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("post not found")
	}
	return nil
}

// Like is idempotent: liking an already-liked post is a no-op.
func (r *Repository) Like(postID, userID string) error {
	_, err := r.db.Exec(
		`INSERT INTO post_likes (post_id, user_id, created_at) VALUES ($1, $2, NOW())
		 ON CONFLICT (post_id, user_id) DO NOTHING`, postID, userID,
	)
	if err != nil {
		return fmt.Errorf("failed to like post: %w", err)
	}
	return nil
}

func (r *Repository) Unlike(postID, userID string) error {
	_, err := r.db.Exec(
		`DELETE FROM post_likes WHERE post_id = $1 AND user_id = $2`, postID, userID,
	)
	if err != nil {
		return fmt.Errorf("failed to unlike post: %w", err)
	}
	return nil
}

func (r *Repository) CreateComment(comment *models.PostComment) error {
	_, err := r.db.Exec(
		`INSERT INTO post_comments (id, post_id, user_id, content, created_at)
		 VALUES ($1, $2, $3, $4, $5)`,
		comment.ID, comment.PostID, comment.UserID, comment.Content, comment.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create comment: %w", err)
	}
	return nil
}

// ListComments returns a post's comments, oldest first.
func (r *Repository) ListComments(postID string) ([]models.PostComment, error) {
	rows, err := r.db.Query(
		`SELECT id, post_id, user_id, content, created_at
		 FROM post_comments WHERE post_id = $1 ORDER BY created_at ASC`, postID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list comments: %w", err)
	}
	defer rows.Close()

	var comments []models.PostComment
	for rows.Next() {
		var comment models.PostComment
		if err := rows.Scan(&comment.ID, &comment.PostID, &comment.UserID, &comment.Content, &comment.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan comment: %w", err)
		}
		comments = append(comments, comment)
	}
	return comments, nil
}
