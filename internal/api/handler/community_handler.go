package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/hastakala/hastakala-api/internal/core/domain"
	"github.com/hastakala/hastakala-api/internal/core/ports"
)

// CommunityHandler handles posts, likes and comments.
type CommunityHandler struct {
	service ports.CommunityService
}

func NewCommunityHandler(service ports.CommunityService) *CommunityHandler {
	return &CommunityHandler{service: service}
}

type postRequest struct {
	Title   string `json:"title" validate:"required"`
	Content string `json:"content" validate:"required"`
}

type postPatchRequest struct {
	Title   *string `json:"title,omitempty"`
	Content *string `json:"content,omitempty"`
}

type commentRequest struct {
	Content string `json:"content" validate:"required"`
}

type postListResponse struct {
	Items []*domain.Post `json:"items"`
	Total int64          `json:"total"`
	Page  int            `json:"page"`
	Limit int            `json:"limit"`
}

type likeResponse struct {
	Liked bool         `json:"liked"`
	Likes int          `json:"likes"`
	Post  *domain.Post `json:"post"`
}

// CreatePost handles POST /posts.
//
// @Summary      Start a discussion
// @Tags         community
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      postRequest  true  "Post"
// @Success      201   {object}  domain.Post
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Router       /posts [post]
func (h *CommunityHandler) CreatePost(c echo.Context) error {
	who, err := callerOf(c)
	if err != nil {
		return err
	}
	var req postRequest
	if err := bindJSON(c, &req); err != nil {
		return err
	}
	p, err := h.service.CreatePost(c.Request().Context(), who, domain.PostDraft{Title: req.Title, Content: req.Content})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, p)
}

// ListPosts handles GET /posts.
//
// @Summary      Browse discussions, newest first
// @Tags         community
// @Produce      json
// @Param        page   query  int  false  "Page (1-based)"
// @Param        limit  query  int  false  "Page size (max 100)"
// @Success      200  {object}  postListResponse
// @Router       /posts [get]
func (h *CommunityHandler) ListPosts(c echo.Context) error {
	page := pageOf(c)
	items, total, err := h.service.ListPosts(c.Request().Context(), page)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, postListResponse{Items: items, Total: total, Page: page.Page, Limit: page.Limit})
}

// GetPost handles GET /posts/:id.
//
// @Summary      Get a discussion
// @Tags         community
// @Produce      json
// @Param        id   path      string  true  "Post id"
// @Success      200  {object}  domain.Post
// @Failure      404  {object}  errorResponse
// @Router       /posts/{id} [get]
func (h *CommunityHandler) GetPost(c echo.Context) error {
	p, err := h.service.GetPost(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, p)
}

// UpdatePost handles PUT /posts/:id.
//
// @Summary      Edit a discussion
// @Tags         community
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string            true  "Post id"
// @Param        body  body      postPatchRequest  true  "Fields to change"
// @Success      200   {object}  domain.Post
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /posts/{id} [put]
func (h *CommunityHandler) UpdatePost(c echo.Context) error {
	who, err := callerOf(c)
	if err != nil {
		return err
	}
	var req postPatchRequest
	if err := bindJSON(c, &req); err != nil {
		return err
	}
	p, err := h.service.UpdatePost(c.Request().Context(), who, c.Param("id"), domain.PostPatch{Title: req.Title, Content: req.Content})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, p)
}

// DeletePost handles DELETE /posts/:id. Its comments go with it.
//
// @Summary      Delete a discussion
// @Tags         community
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Post id"
// @Success      200  {object}  messageResponse
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /posts/{id} [delete]
func (h *CommunityHandler) DeletePost(c echo.Context) error {
	who, err := callerOf(c)
	if err != nil {
		return err
	}
	if err := h.service.DeletePost(c.Request().Context(), who, c.Param("id")); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Message: "post deleted"})
}

// ToggleLike handles POST /posts/:id/like.
//
// @Summary      Like or unlike a discussion
// @Tags         community
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Post id"
// @Success      200  {object}  likeResponse
// @Failure      404  {object}  errorResponse
// @Router       /posts/{id}/like [post]
func (h *CommunityHandler) ToggleLike(c echo.Context) error {
	who, err := callerOf(c)
	if err != nil {
		return err
	}
	p, liked, err := h.service.ToggleLike(c.Request().Context(), who, c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, likeResponse{Liked: liked, Likes: len(p.Likes), Post: p})
}

// ListComments handles GET /posts/:id/comments.
//
// @Summary      Comments of a discussion, oldest first
// @Tags         community
// @Produce      json
// @Param        id   path      string  true  "Post id"
// @Success      200  {array}   domain.Comment
// @Failure      404  {object}  errorResponse
// @Router       /posts/{id}/comments [get]
func (h *CommunityHandler) ListComments(c echo.Context) error {
	items, err := h.service.ListComments(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, items)
}

// AddComment handles POST /posts/:id/comments.
//
// @Summary      Comment on a discussion
// @Tags         community
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string          true  "Post id"
// @Param        body  body      commentRequest  true  "Comment"
// @Success      201   {object}  domain.Comment
// @Failure      400   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /posts/{id}/comments [post]
func (h *CommunityHandler) AddComment(c echo.Context) error {
	who, err := callerOf(c)
	if err != nil {
		return err
	}
	var req commentRequest
	if err := bindJSON(c, &req); err != nil {
		return err
	}
	cm, err := h.service.AddComment(c.Request().Context(), who, c.Param("id"), req.Content)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, cm)
}

// UpdateComment handles PUT /comments/:id.
//
// @Summary      Edit a comment
// @Tags         community
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string          true  "Comment id"
// @Param        body  body      commentRequest  true  "New content"
// @Success      200   {object}  domain.Comment
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /comments/{id} [put]
func (h *CommunityHandler) UpdateComment(c echo.Context) error {
	who, err := callerOf(c)
	if err != nil {
		return err
	}
	var req struct {
		Content *string `json:"content"`
	}
	if err := bindJSON(c, &req); err != nil {
		return err
	}
	cm, err := h.service.UpdateComment(c.Request().Context(), who, c.Param("id"), domain.CommentPatch{Content: req.Content})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, cm)
}

// DeleteComment handles DELETE /comments/:id.
//
// @Summary      Delete a comment
// @Tags         community
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Comment id"
// @Success      200  {object}  messageResponse
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /comments/{id} [delete]
func (h *CommunityHandler) DeleteComment(c echo.Context) error {
	who, err := callerOf(c)
	if err != nil {
		return err
	}
	if err := h.service.DeleteComment(c.Request().Context(), who, c.Param("id")); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Message: "comment deleted"})
}
