package postgres

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/agrisense/backend/internal/domain"
)

// MockRepository is an in-memory implementation of the user and post
// repositories, used in demo mode and tests when no database is
// configured.
type MockRepository struct {
	mu       sync.Mutex
	users    map[int64]domain.User
	posts    map[int64]domain.Post
	comments map[int64][]domain.Comment
	likes    map[int64]map[int64]bool // postID -> userID -> liked
	nextID   int64
}

// NewMockRepository creates an empty in-memory repository
func NewMockRepository() *MockRepository {
	return &MockRepository{
		users:    make(map[int64]domain.User),
		posts:    make(map[int64]domain.Post),
		comments: make(map[int64][]domain.Comment),
		likes:    make(map[int64]map[int64]bool),
		nextID:   1,
	}
}

func (r *MockRepository) id() int64 {
	id := r.nextID
	r.nextID++
	return id
}

// CreateUser stores a new user
func (r *MockRepository) CreateUser(ctx context.Context, user domain.User) (domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	user.ID = r.id()
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now()
	}
	r.users[user.ID] = user
	return user, nil
}

// GetUserByEmail looks a user up by email
func (r *MockRepository) GetUserByEmail(ctx context.Context, email string) (domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			return u, nil
		}
	}
	return domain.User{}, domain.ErrNotFound
}

// GetUserByID looks a user up by ID
func (r *MockRepository) GetUserByID(ctx context.Context, id int64) (domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return domain.User{}, domain.ErrNotFound
	}
	return u, nil
}

// UpdateUser applies profile changes
func (r *MockRepository) UpdateUser(ctx context.Context, user domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	existing, ok := r.users[user.ID]
	if !ok {
		return domain.ErrNotFound
	}
	existing.Name = user.Name
	existing.Phone = user.Phone
	existing.Crop = user.Crop
	existing.Location = user.Location
	existing.State = user.State
	existing.District = user.District
	existing.Village = user.Village
	r.users[user.ID] = existing
	return nil
}

// CreatePost stores a new post
func (r *MockRepository) CreatePost(ctx context.Context, post domain.Post) (domain.Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	post.ID = r.id()
	if post.CreatedAt.IsZero() {
		post.CreatedAt = time.Now()
	}
	r.posts[post.ID] = post
	return post, nil
}

// ListPosts returns posts newest-first, honoring the filter
func (r *MockRepository) ListPosts(ctx context.Context, filter domain.PostFilter, viewerID int64) ([]domain.Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var posts []domain.Post
	for _, p := range r.posts {
		if filter.Crop != "" && p.Crop != filter.Crop {
			continue
		}
		if filter.Category != "" && p.Category != filter.Category {
			continue
		}
		if author, ok := r.users[p.AuthorID]; ok {
			p.Author = &domain.PostAuthor{ID: author.ID, Name: author.Name, Email: author.Email}
		}
		p.IsLiked = r.likes[p.ID][viewerID]
		posts = append(posts, p)
	}

	sort.Slice(posts, func(i, j int) bool {
		return posts[i].CreatedAt.After(posts[j].CreatedAt)
	})

	limit := filter.Limit
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	if filter.Offset >= len(posts) {
		return nil, nil
	}
	posts = posts[filter.Offset:]
	if len(posts) > limit {
		posts = posts[:limit]
	}
	return posts, nil
}

// GetPost fetches one post
func (r *MockRepository) GetPost(ctx context.Context, id int64) (domain.Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.posts[id]
	if !ok {
		return domain.Post{}, domain.ErrNotFound
	}
	return p, nil
}

// DeletePost removes an owned post
func (r *MockRepository) DeletePost(ctx context.Context, id, authorID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.posts[id]
	if !ok {
		return domain.ErrNotFound
	}
	if p.AuthorID != authorID {
		return domain.ErrForbidden
	}
	delete(r.posts, id)
	delete(r.comments, id)
	delete(r.likes, id)
	return nil
}

// SetLike toggles a like and returns the new count
func (r *MockRepository) SetLike(ctx context.Context, postID, userID int64, liked bool) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.posts[postID]
	if !ok {
		return 0, domain.ErrNotFound
	}
	if r.likes[postID] == nil {
		r.likes[postID] = make(map[int64]bool)
	}
	if liked {
		r.likes[postID][userID] = true
	} else {
		delete(r.likes[postID], userID)
	}
	p.LikesCount = len(r.likes[postID])
	r.posts[postID] = p
	return p.LikesCount, nil
}

// CreateComment stores a comment and bumps the counter
func (r *MockRepository) CreateComment(ctx context.Context, comment domain.Comment) (domain.Comment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.posts[comment.PostID]
	if !ok {
		return domain.Comment{}, domain.ErrNotFound
	}
	comment.ID = r.id()
	if comment.CreatedAt.IsZero() {
		comment.CreatedAt = time.Now()
	}
	if author, ok := r.users[comment.AuthorID]; ok {
		comment.AuthorName = author.Name
	}
	r.comments[comment.PostID] = append(r.comments[comment.PostID], comment)
	p.CommentsCount = len(r.comments[comment.PostID])
	r.posts[comment.PostID] = p
	return comment, nil
}

// ListComments returns a post's comments oldest first
func (r *MockRepository) ListComments(ctx context.Context, postID int64) ([]domain.Comment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.Comment, len(r.comments[postID]))
	copy(out, r.comments[postID])
	return out, nil
}

// Health always succeeds in mock mode
func (r *MockRepository) Health(ctx context.Context) error {
	return nil
}
