package handlers

import (
	"net/http"
	"strconv"

	"github.com/arafhm/minigram/backend/internal/models"
	"github.com/arafhm/minigram/backend/internal/services"
	"github.com/labstack/echo/v4"
)

// PostHandler handles HTTP requests related to posts
type PostHandler struct {
	postService *services.PostService
}

// NewPostHandler creates a new PostHandler
func NewPostHandler(postService *services.PostService) *PostHandler {
	return &PostHandler{postService: postService}
}

// RegisterPublicRoutes registers the routes readable without authentication
func (h *PostHandler) RegisterPublicRoutes(g *echo.Group) {
	g.GET("/posts", h.ListPosts)
	g.GET("/posts/:id", h.GetPost)
}

// RegisterPostRoutes registers the authenticated post routes
func (h *PostHandler) RegisterPostRoutes(g *echo.Group) {
	g.POST("/posts", h.CreatePost)
	g.PUT("/posts/:id", h.UpdatePost)
	g.DELETE("/posts/:id", h.DeletePost)
	g.PUT("/posts/:id/like", h.ToggleLike)
	g.POST("/posts/:id/comments", h.AddComment)
}

// CreatePost creates a new post owned by the caller
func (h *PostHandler) CreatePost(c echo.Context) error {
	uid := c.Get("uid").(string)

	var req models.CreatePostRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	post, err := h.postService.Create(c.Request().Context(), uid, req)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, echo.Map{"success": true, "post": post})
}

// ListPosts retrieves one page of posts, newest first. Missing or malformed
// paging params fall back to their defaults rather than failing.
func (h *PostHandler) ListPosts(c echo.Context) error {
	page, _ := strconv.Atoi(c.QueryParam("page"))
	limit, _ := strconv.Atoi(c.QueryParam("limit"))

	result, err := h.postService.List(c.Request().Context(), page, limit)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"posts":   result.Posts,
		"page":    result.Page,
		"pages":   result.Pages,
		"total":   result.Total,
	})
}

// GetPost retrieves a single post by ID
func (h *PostHandler) GetPost(c echo.Context) error {
	post, err := h.postService.GetByID(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, echo.Map{"success": true, "post": post})
}

// UpdatePost applies a partial edit to a post owned by the caller
func (h *PostHandler) UpdatePost(c echo.Context) error {
	uid := c.Get("uid").(string)

	var req models.UpdatePostRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	post, err := h.postService.Update(c.Request().Context(), c.Param("id"), uid, req)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, echo.Map{"success": true, "post": post})
}

// DeletePost removes a post owned by the caller
func (h *PostHandler) DeletePost(c echo.Context) error {
	uid := c.Get("uid").(string)

	if err := h.postService.Delete(c.Request().Context(), c.Param("id"), uid); err != nil {
		return err
	}

	return c.JSON(http.StatusOK, echo.Map{"success": true, "message": "Post deleted"})
}

// ToggleLike likes or unlikes a post for the caller
func (h *PostHandler) ToggleLike(c echo.Context) error {
	uid := c.Get("uid").(string)

	post, err := h.postService.ToggleLike(c.Request().Context(), c.Param("id"), uid)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, echo.Map{"success": true, "post": post})
}

// AddComment appends a comment by the caller and returns the updated post
func (h *PostHandler) AddComment(c echo.Context) error {
	uid := c.Get("uid").(string)

	var req models.CreateCommentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	post, err := h.postService.AddComment(c.Request().Context(), c.Param("id"), uid, req.Text)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, echo.Map{"success": true, "post": post})
}
