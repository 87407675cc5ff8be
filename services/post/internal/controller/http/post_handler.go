package http

import (
	"errors"
	"fmt"
	"math"
	"net/http"
	"strconv"

	"blog-api/pkg/logger"
	"blog-api/pkg/validation"
	"blog-api/services/post/internal/entity"
	"blog-api/services/post/internal/usecase"

	"github.com/gin-gonic/gin"
)

const (
	defaultPage  = 1
	defaultLimit = 10
	maxLimit     = 100
)

type PostHandler struct {
	postUseCase    usecase.PostUseCase
	validator      *validation.Validator
	logger         *logger.Logger
	publicBaseURL  string
	maxUploadBytes int64
}

func NewPostHandler(postUseCase usecase.PostUseCase, logger *logger.Logger, publicBaseURL string, maxUploadBytes int64) *PostHandler {
	return &PostHandler{
		postUseCase:    postUseCase,
		validator:      validation.New(),
		logger:         logger,
		publicBaseURL:  publicBaseURL,
		maxUploadBytes: maxUploadBytes,
	}
}

// ListPosts godoc
// @Summary      List posts
// @Description  Paginated listing, newest first. Invalid page or limit values fall back to 1 and 10; limit is capped at 100.
// @Tags         posts
// @Produce      json
// @Param        page   query  int  false  "Page number"  default(1)
// @Param        limit  query  int  false  "Page size"    default(10)
// @Success      200  {object}  PostListResponse
// @Failure      500  {object}  ErrorResponse
// @Router       /posts [get]
func (h *PostHandler) ListPosts(c *gin.Context) {
	page := parsePositiveInt(c.Query("page"), defaultPage)
	limit := parsePositiveInt(c.Query("limit"), defaultLimit)
	if limit > maxLimit {
		limit = maxLimit
	}

	result, err := h.postUseCase.ListPosts(c.Request.Context(), page, limit)
	if err != nil {
		h.internalError(c, "Failed to list posts", err)
		return
	}

	resp := PostListResponse{
		TotalPostagens: result.Total,
		TotalPaginas:   result.TotalPages,
		PaginaAtual:    result.Page,
		ItemsPorPagina: result.Limit,
		Postagens:      result.Posts,
	}
	if result.TotalPages > 0 && page < math.MaxInt {
		next := fmt.Sprintf("%s/posts?page=%d&limit=%d", h.publicBaseURL, page+1, limit)
		resp.ProximaPagina = &next
	}

	c.JSON(http.StatusOK, resp)
}

// CreatePost godoc
// @Summary      Create a post
// @Description  Title, body and author need at least 3 characters and are stored lowercased.
// @Tags         posts
// @Accept       json
// @Produce      json
// @Param        post  body      CreatePostRequest  true  "Post to create"
// @Success      201   {object}  entity.Post
// @Failure      400   {object}  ErrorResponse
// @Failure      500   {object}  ErrorResponse
// @Router       /posts [post]
func (h *PostHandler) CreatePost(c *gin.Context) {
	var req CreatePostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}
	if errs := h.validator.Struct(req); len(errs) > 0 {
		validationError(c, errs)
		return
	}
	req.Normalize()

	post, err := h.postUseCase.CreatePost(c.Request.Context(), req.Title, req.Body, req.Author, req.ImagePath)
	if err != nil {
		h.internalError(c, "Failed to create post", err)
		return
	}

	c.JSON(http.StatusCreated, post)
}

// ListPostsByStatus godoc
// @Summary      List posts by status
// @Tags         posts
// @Produce      json
// @Param        status  path      string  true  "Post status"  Enums(pending, completed)
// @Success      200     {object}  StatusPostsResponse
// @Failure      400     {object}  ErrorResponse
// @Failure      500     {object}  ErrorResponse
// @Router       /posts/status/{status} [get]
func (h *PostHandler) ListPostsByStatus(c *gin.Context) {
	raw := c.Param("status")
	if errs := h.validator.Var("status", raw, "required,oneof=pending completed"); len(errs) > 0 {
		validationError(c, errs)
		return
	}
	status, err := entity.ParsePostStatus(raw)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid status"})
		return
	}

	posts, err := h.postUseCase.ListPostsByStatus(c.Request.Context(), status)
	if err != nil {
		h.internalError(c, "Failed to list posts by status", err)
		return
	}

	c.JSON(http.StatusOK, StatusPostsResponse{Posts: posts, Count: len(posts)})
}

// GetPost godoc
// @Summary      Get a post
// @Tags         posts
// @Produce      json
// @Param        id   path      string  true  "Post ID (UUID)"
// @Success      200  {object}  entity.Post
// @Failure      400  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Failure      500  {object}  ErrorResponse
// @Router       /posts/{id} [get]
func (h *PostHandler) GetPost(c *gin.Context) {
	id, ok := h.postID(c)
	if !ok {
		return
	}

	post, err := h.postUseCase.GetPost(c.Request.Context(), id)
	if err != nil {
		h.handleError(c, "Failed to get post", err)
		return
	}

	c.JSON(http.StatusOK, post)
}

// UpdatePost godoc
// @Summary      Update a post
// @Description  Partial update: only the fields present in the body are written.
// @Tags         posts
// @Accept       json
// @Produce      json
// @Param        id    path      string             true  "Post ID (UUID)"
// @Param        post  body      UpdatePostRequest  true  "Fields to change"
// @Success      200   {object}  MessageResponse
// @Failure      400   {object}  ErrorResponse
// @Failure      404   {object}  ErrorResponse
// @Failure      500   {object}  ErrorResponse
// @Router       /posts/{id} [put]
func (h *PostHandler) UpdatePost(c *gin.Context) {
	id, ok := h.postID(c)
	if !ok {
		return
	}

	var req UpdatePostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}
	if errs := h.validator.Struct(req); len(errs) > 0 {
		validationError(c, errs)
		return
	}
	req.Normalize()

	update := req.ToEntity()
	if update.IsEmpty() {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "at least one field must be provided"})
		return
	}

	if err := h.postUseCase.UpdatePost(c.Request.Context(), id, update); err != nil {
		h.handleError(c, "Failed to update post", err)
		return
	}

	c.JSON(http.StatusOK, MessageResponse{Message: "post updated successfully"})
}

// DeletePost godoc
// @Summary      Delete a post
// @Tags         posts
// @Produce      json
// @Param        id   path      string  true  "Post ID (UUID)"
// @Success      200  {object}  MessageResponse
// @Failure      400  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Failure      500  {object}  ErrorResponse
// @Router       /posts/{id} [delete]
func (h *PostHandler) DeletePost(c *gin.Context) {
	id, ok := h.postID(c)
	if !ok {
		return
	}

	if err := h.postUseCase.DeletePost(c.Request.Context(), id); err != nil {
		h.handleError(c, "Failed to delete post", err)
		return
	}

	c.JSON(http.StatusOK, MessageResponse{Message: "post deleted successfully"})
}

// TogglePostStatus godoc
// @Summary      Toggle post status
// @Description  Flips pending to completed and back.
// @Tags         posts
// @Produce      json
// @Param        id   path      string  true  "Post ID (UUID)"
// @Success      200  {object}  entity.Post
// @Failure      400  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Failure      500  {object}  ErrorResponse
// @Router       /posts/{id}/toggle [put]
func (h *PostHandler) TogglePostStatus(c *gin.Context) {
	id, ok := h.postID(c)
	if !ok {
		return
	}

	post, err := h.postUseCase.TogglePostStatus(c.Request.Context(), id)
	if err != nil {
		h.handleError(c, "Failed to toggle post status", err)
		return
	}

	c.JSON(http.StatusOK, post)
}

// UploadImage godoc
// @Summary      Upload a post image
// @Description  Replaces the image attached to the post.
// @Tags         posts
// @Accept       multipart/form-data
// @Produce      json
// @Param        id     path      string  true  "Post ID (UUID)"
// @Param        image  formData  file    true  "Image file"
// @Success      200    {object}  UploadImageResponse
// @Failure      400    {object}  ErrorResponse
// @Failure      404    {object}  ErrorResponse
// @Failure      500    {object}  ErrorResponse
// @Router       /posts/{id}/image [post]
func (h *PostHandler) UploadImage(c *gin.Context) {
	id, ok := h.postID(c)
	if !ok {
		return
	}

	if h.maxUploadBytes > 0 {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxUploadBytes)
	}

	file, err := c.FormFile("image")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "image exceeds the maximum upload size"})
			return
		}
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "image file is required"})
		return
	}

	imagePath, err := h.postUseCase.UploadImage(c.Request.Context(), id, file)
	if err != nil {
		h.handleError(c, "Failed to upload image", err)
		return
	}

	c.JSON(http.StatusOK, UploadImageResponse{Message: "image uploaded successfully", ImagePath: imagePath})
}

// postID reads and validates the :id path parameter, writing a 400 when it is not a UUID.
func (h *PostHandler) postID(c *gin.Context) (string, bool) {
	id := c.Param("id")
	if errs := h.validator.Var("id", id, "required,uuid"); len(errs) > 0 {
		validationError(c, errs)
		return "", false
	}
	return id, true
}

func (h *PostHandler) handleError(c *gin.Context, msg string, err error) {
	switch {
	case errors.Is(err, entity.ErrPostNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "post not found"})
	case errors.Is(err, entity.ErrEmptyUpdate):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "at least one field must be provided"})
	case errors.Is(err, entity.ErrInvalidStatus):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid status"})
	default:
		h.internalError(c, msg, err)
	}
}

func (h *PostHandler) internalError(c *gin.Context, msg string, err error) {
	h.logger.Error("%s: %v", msg, err)
	c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
}

func validationError(c *gin.Context, errs []validation.FieldError) {
	c.JSON(http.StatusBadRequest, ErrorResponse{Error: "validation failed", Details: errs})
}

func parsePositiveInt(raw string, fallback int) int {
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return fallback
	}
	return n
}
