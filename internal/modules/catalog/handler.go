package catalog

import (
	"net/http"

	"unilib/internal/middleware"
	"unilib/internal/pkg/response"
	"unilib/internal/pkg/validator"
	"unilib/internal/repository"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	g := rg.Group("/books")
	{
		g.POST("", middleware.AdminOnly(), h.Create)
		g.GET("", h.List)
		g.GET("/search/:title", h.Search)
		g.GET("/:title", h.GetByTitle)
		g.PATCH("/:title", middleware.AdminOnly(), h.Update)
		g.DELETE("/:title", middleware.AdminOnly(), h.Delete)
		g.POST("/:title/save", h.Save)
		g.DELETE("/:title/save", h.Unsave)
	}
}

func (h *Handler) Create(c *gin.Context) {
	var req CreateBookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}
	if fields := validator.Validate(req); fields != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid book", fields)
		return
	}

	b, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		switch err {
		case ErrBookExists:
			response.Error(c, http.StatusConflict, "BOOK_EXISTS", "Book already exists")
		default:
			response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to create book")
		}
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"book": b})
}

func (h *Handler) List(c *gin.Context) {
	f := repository.ListFilter{
		Author:    c.Query("author"),
		Category:  c.Query("category"),
		Language:  c.Query("language"),
		Location:  c.Query("location"),
		Publisher: c.Query("publisher"),
	}

	books, err := h.service.List(c.Request.Context(), f)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to list books")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"books": books})
}

func (h *Handler) Search(c *gin.Context) {
	books, err := h.service.Search(c.Request.Context(), c.Param("title"))
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to search books")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"books": books})
}

func (h *Handler) GetByTitle(c *gin.Context) {
	b, err := h.service.GetByTitle(c.Request.Context(), c.Param("title"))
	if err != nil {
		switch err {
		case ErrBookNotFound:
			response.Error(c, http.StatusNotFound, "NOT_FOUND", "Book not found")
		default:
			response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to load book")
		}
		return
	}
	response.Success(c, http.StatusOK, gin.H{"book": b})
}

func (h *Handler) Update(c *gin.Context) {
	var req UpdateBookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	b, err := h.service.Update(c.Request.Context(), c.Param("title"), req)
	if err != nil {
		switch err {
		case ErrBookNotFound:
			response.Error(c, http.StatusNotFound, "NOT_FOUND", "Book not found")
		default:
			response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to update book")
		}
		return
	}
	response.Success(c, http.StatusOK, gin.H{"book": b})
}

func (h *Handler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("title")); err != nil {
		switch err {
		case ErrBookNotFound:
			response.Error(c, http.StatusNotFound, "NOT_FOUND", "Book not found")
		default:
			response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to delete book")
		}
		return
	}
	response.Success(c, http.StatusOK, gin.H{"message": "Book deleted"})
}

func (h *Handler) Save(c *gin.Context) {
	userID := c.GetInt64("user_id")
	if userID == 0 {
		response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication required")
		return
	}

	err := h.service.SaveBook(c.Request.Context(), userID, c.Param("title"))
	if err != nil {
		switch err {
		case ErrBookNotFound, ErrUserNotFound:
			response.Error(c, http.StatusNotFound, "NOT_FOUND", err.Error())
		default:
			response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to save book")
		}
		return
	}
	response.Success(c, http.StatusOK, gin.H{"message": "Book saved successfully"})
}

func (h *Handler) Unsave(c *gin.Context) {
	userID := c.GetInt64("user_id")
	if userID == 0 {
		response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication required")
		return
	}

	err := h.service.UnsaveBook(c.Request.Context(), userID, c.Param("title"))
	if err != nil {
		switch err {
		case ErrBookNotFound:
			response.Error(c, http.StatusNotFound, "NOT_FOUND", "Book not found")
		default:
			response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to unsave book")
		}
		return
	}
	response.Success(c, http.StatusOK, gin.H{"message": "Book removed from saved list"})
}
