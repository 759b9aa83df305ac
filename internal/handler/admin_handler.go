package handler

import (
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/KeshavK2089/tnplots/internal/config"
	"github.com/KeshavK2089/tnplots/internal/repository"
	"github.com/KeshavK2089/tnplots/internal/service"
)

const sessionTTL = 24 * time.Hour

// AdminHandler owns the moderation surface: login against the single admin
// identity and the pending/approve/reject workflow.
type AdminHandler struct {
	Reviews *service.ReviewService
	Config  *config.Config
}

// RegisterLoginRoute is public; the session token it issues gates the rest.
func (h *AdminHandler) RegisterLoginRoute(rg *gin.RouterGroup) {
	rg.POST("/admin/login", h.Login)
}

func (h *AdminHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/admin/listings/pending", h.GetPending)
	rg.POST("/admin/listings/:id/approve", h.Approve)
	rg.POST("/admin/listings/:id/reject", h.Reject)
}

// LoginRequestDTO is the admin credential pair.
type LoginRequestDTO struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// POST /api/admin/login
func (h *AdminHandler) Login(c *gin.Context) {
	var req LoginRequestDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}

	if req.Username != h.Config.AdminUsername ||
		bcrypt.CompareHashAndPassword([]byte(h.Config.AdminPasswordHash), []byte(req.Password)) != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid username or password"})
		return
	}

	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS512, jwt.MapClaims{
		"sub":   req.Username,
		"roles": []string{"ADMIN"},
		"iat":   now.Unix(),
		"exp":   now.Add(sessionTTL).Unix(),
	})
	signed, err := token.SignedString([]byte(h.Config.JWTSecret))
	if err != nil {
		log.Printf("token signing failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "login failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"token": signed, "expiresIn": int(sessionTTL.Seconds())})
}

// GET /api/admin/listings/pending
func (h *AdminHandler) GetPending(c *gin.Context) {
	plots, err := h.Reviews.Pending(c.Request.Context())
	if err != nil {
		log.Printf("pending queue fetch failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch pending plots"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"plots": plots})
}

// POST /api/admin/listings/:id/approve
func (h *AdminHandler) Approve(c *gin.Context) {
	plot, err := h.Reviews.Approve(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.reviewError(c, err, "Failed to approve plot")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "plot": plot})
}

// RejectRequestDTO carries the optional rejection reason.
type RejectRequestDTO struct {
	Reason string `json:"reason"`
}

// POST /api/admin/listings/:id/reject
func (h *AdminHandler) Reject(c *gin.Context) {
	var req RejectRequestDTO
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
			return
		}
	}

	plot, err := h.Reviews.Reject(c.Request.Context(), c.Param("id"), req.Reason)
	if err != nil {
		h.reviewError(c, err, "Failed to reject plot")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "plot": plot})
}

func (h *AdminHandler) reviewError(c *gin.Context, err error, generic string) {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "plot not found"})
	case errors.Is(err, service.ErrAlreadyReviewed):
		c.JSON(http.StatusConflict, gin.H{"error": "plot already reviewed"})
	default:
		log.Printf("review transition failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": generic})
	}
}
