package http

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/agrisense/backend/internal/domain"
)

var allowedImageExtensions = map[string]bool{
	".jpg": true, ".jpeg": true, ".png": true, ".gif": true, ".webp": true,
}

// GetPosts lists community posts, optionally filtered by crop/category
func (h *Handler) GetPosts(c *fiber.Ctx) error {
	user := currentUser(c)

	filter := domain.PostFilter{
		Crop:     c.Query("crop"),
		Category: c.Query("category"),
		Offset:   c.QueryInt("skip", 0),
		Limit:    c.QueryInt("limit", 50),
	}

	posts, err := h.posts.ListPosts(c.Context(), filter, user.ID)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to fetch posts")
	}
	if posts == nil {
		posts = []domain.Post{}
	}
	return c.JSON(posts)
}

// CreatePost adds a new community post
func (h *Handler) CreatePost(c *fiber.Ctx) error {
	user := currentUser(c)

	var req struct {
		Content  string `json:"content"`
		Region   string `json:"region"`
		Crop     string `json:"crop"`
		Category string `json:"category"`
		ImageURL string `json:"image_url"`
	}
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}
	if strings.TrimSpace(req.Content) == "" {
		return fiber.NewError(fiber.StatusBadRequest, "Content is required")
	}

	region := req.Region
	if region == "" {
		region = user.State
	}

	post, err := h.posts.CreatePost(c.Context(), domain.Post{
		Content:   req.Content,
		AuthorID:  user.ID,
		Region:    region,
		Crop:      req.Crop,
		Category:  req.Category,
		ImageURL:  req.ImageURL,
		CreatedAt: time.Now(),
	})
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to create post")
	}

	post.Author = &domain.PostAuthor{ID: user.ID, Name: user.Name, Email: user.Email}
	return c.Status(fiber.StatusCreated).JSON(post)
}

// DeletePost removes the caller's own post
func (h *Handler) DeletePost(c *fiber.Ctx) error {
	user := currentUser(c)

	id, err := c.ParamsInt("id")
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid post id")
	}

	if err := h.posts.DeletePost(c.Context(), int64(id), user.ID); err != nil {
		switch {
		case errors.Is(err, domain.ErrNotFound):
			return fiber.NewError(fiber.StatusNotFound, "Post not found")
		case errors.Is(err, domain.ErrForbidden):
			return fiber.NewError(fiber.StatusForbidden, "Not your post")
		default:
			return fiber.NewError(fiber.StatusInternalServerError, "Failed to delete post")
		}
	}
	return c.JSON(fiber.Map{"success": true})
}

// LikePost toggles the caller's like on a post
func (h *Handler) LikePost(c *fiber.Ctx) error {
	user := currentUser(c)

	id, err := c.ParamsInt("id")
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid post id")
	}

	var req struct {
		Liked bool `json:"liked"`
	}
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}

	count, err := h.posts.SetLike(c.Context(), int64(id), user.ID, req.Liked)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "Post not found")
		}
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to update like")
	}

	return c.JSON(fiber.Map{
		"success":     true,
		"likes_count": count,
		"is_liked":    req.Liked,
	})
}

// GetComments lists a post's comments
func (h *Handler) GetComments(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid post id")
	}

	comments, err := h.posts.ListComments(c.Context(), int64(id))
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to fetch comments")
	}
	if comments == nil {
		comments = []domain.Comment{}
	}
	return c.JSON(comments)
}

// CreateComment adds a comment to a post
func (h *Handler) CreateComment(c *fiber.Ctx) error {
	user := currentUser(c)

	id, err := c.ParamsInt("id")
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid post id")
	}

	var req struct {
		Content string `json:"content"`
	}
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}
	if strings.TrimSpace(req.Content) == "" {
		return fiber.NewError(fiber.StatusBadRequest, "Content is required")
	}

	comment, err := h.posts.CreateComment(c.Context(), domain.Comment{
		PostID:    int64(id),
		AuthorID:  user.ID,
		Content:   req.Content,
		CreatedAt: time.Now(),
	})
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "Post not found")
		}
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to create comment")
	}

	comment.AuthorName = user.Name
	return c.Status(fiber.StatusCreated).JSON(comment)
}

// UploadImage stores a post image and returns its URL path
func (h *Handler) UploadImage(c *fiber.Ctx) error {
	file, err := c.FormFile("image")
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Image file is required")
	}

	ext := strings.ToLower(filepath.Ext(file.Filename))
	if !allowedImageExtensions[ext] {
		return fiber.NewError(fiber.StatusBadRequest, "Unsupported image type")
	}

	name := uuid.NewString() + ext
	if err := c.SaveFile(file, filepath.Join(h.uploadDir, name)); err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to store image")
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"image_url": fmt.Sprintf("/uploads/%s", name),
	})
}
