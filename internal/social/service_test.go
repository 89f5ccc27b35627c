package social

import (
	"fmt"
	"testing"
	"time"

	"github.com/revkonstriksyon/fluid-finance-api/internal/cqrs"
	"github.com/revkonstriksyon/fluid-finance-api/internal/models"
)

// ---- mock implementations ----

type mockPostStore struct {
	posts map[string]*models.Post
	calls []string
}

func newMockPostStore(posts ...*models.Post) *mockPostStore {
	m := &mockPostStore{posts: make(map[string]*models.Post)}
	for _, p := range posts {
		m.posts[p.ID] = p
	}
	return m
}

func (m *mockPostStore) CreatePost(post *models.Post) error {
	m.calls = append(m.calls, "create")
	m.posts[post.ID] = post
	return nil
}

func (m *mockPostStore) GetPost(postID string) (*models.Post, error) {
	if p, ok := m.posts[postID]; ok {
		return p, nil
	}
	return nil, fmt.Errorf("post not found")
}

func (m *mockPostStore) ListFeed(limit int) ([]models.Post, error) { return nil, nil }

func (m *mockPostStore) DeleteLikesByPost(postID string) error {
	m.calls = append(m.calls, "deleteLikes")
	return nil
}

func (m *mockPostStore) DeleteCommentsByPost(postID string) error {
	m.calls = append(m.calls, "deleteComments")
	return nil
}

func (m *mockPostStore) DeletePost(postID string) error {
	m.calls = append(m.calls, "deletePost")
	delete(m.posts, postID)
	return nil
}

func (m *mockPostStore) Like(postID, userID string) error {
	m.calls = append(m.calls, "like")
	return nil
}

func (m *mockPostStore) Unlike(postID, userID string) error {
	m.calls = append(m.calls, "unlike")
	return nil
}

func (m *mockPostStore) CreateComment(comment *models.PostComment) error {
	m.calls = append(m.calls, "comment")
	return nil
}

func (m *mockPostStore) ListComments(postID string) ([]models.PostComment, error) { return nil, nil }

// ---- helpers ----

func aPost(id, userID string) *models.Post {
	return &models.Post{ID: id, UserID: userID, Content: "Bonjou tout moun!", CreatedAt: time.Now()}
}

// ---- tests ----

func TestDeletePost(t *testing.T) {
	t.Run("deletes likes, then comments, then the post", func(t *testing.T) {
		store := newMockPostStore(aPost("pst-001", "usr-001"))
		svc := NewService(store)

		err := svc.DeletePost(cqrs.DeletePostCommand{PostID: "pst-001", UserID: "usr-001"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		want := []string{"deleteLikes", "deleteComments", "deletePost"}
		if len(store.calls) != len(want) {
			t.Fatalf("expected calls %v, got %v", want, store.calls)
		}
		for i, call := range want {
			if store.calls[i] != call {
				t.Errorf("call %d: expected %q, got %q", i, call, store.calls[i])
			}
		}
	})

	t.Run("only the author may delete", func(t *testing.T) {
		store := newMockPostStore(aPost("pst-001", "usr-001"))
		svc := NewService(store)

		err := svc.DeletePost(cqrs.DeletePostCommand{PostID: "pst-001", UserID: "usr-002"})
		if err == nil || err.Error() != "forbidden" {
			t.Fatalf("expected forbidden, got %v", err)
		}
		if len(store.calls) != 0 {
			t.Errorf("nothing may be deleted for a foreign post, got calls %v", store.calls)
		}
	})

	t.Run("missing post", func(t *testing.T) {
		svc := NewService(newMockPostStore())

		err := svc.DeletePost(cqrs.DeletePostCommand{PostID: "pst-404", UserID: "usr-001"})
		if err == nil || err.Error() != "post not found" {
			t.Fatalf("expected post not found, got %v", err)
		}
	})
}

func TestCreatePost(t *testing.T) {
	svc := NewService(newMockPostStore())

	post, err := svc.CreatePost(cqrs.CreatePostCommand{UserID: "usr-001", Content: "Premye pòs mwen"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if post.ID == "" || post.UserID != "usr-001" {
		t.Errorf("post must carry an ID and its author, got %+v", post)
	}

	if _, err := svc.CreatePost(cqrs.CreatePostCommand{UserID: "usr-001"}); err == nil {
		t.Errorf("empty content must be rejected")
	}
}

func TestLikeAndComment(t *testing.T) {
	store := newMockPostStore(aPost("pst-001", "usr-001"))
	svc := NewService(store)

	if err := svc.LikePost(cqrs.LikePostCommand{PostID: "pst-001", UserID: "usr-002"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := svc.LikePost(cqrs.LikePostCommand{PostID: "pst-404", UserID: "usr-002"}); err == nil {
		t.Errorf("liking a missing post must fail")
	}

	comment, err := svc.Comment(cqrs.CommentCommand{PostID: "pst-001", UserID: "usr-002", Content: "Dakò!"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if comment.PostID != "pst-001" {
		t.Errorf("comment must carry its post, got %+v", comment)
	}
	if _, err := svc.Comment(cqrs.CommentCommand{PostID: "pst-001", UserID: "usr-002"}); err == nil {
		t.Errorf("empty comment must be rejected")
	}
}
