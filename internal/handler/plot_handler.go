package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/KeshavK2089/tnplots/internal/model"
	"github.com/KeshavK2089/tnplots/internal/repository"
	"github.com/KeshavK2089/tnplots/internal/service"
	"github.com/KeshavK2089/tnplots/internal/whatsapp"
)

// PlotHandler serves the buyer-facing browse/search/detail endpoints and the
// admin direct-create endpoint.
type PlotHandler struct {
	Listings *service.ListingService
}

// RegisterPublicRoutes registers the read endpoints.
func (h *PlotHandler) RegisterPublicRoutes(rg *gin.RouterGroup) {
	rg.GET("/plots", h.ListPlots)
	rg.GET("/plots/browse", h.BrowsePlots)
	rg.GET("/plots/:id", h.GetPlotByID)
	rg.GET("/plots/:id/contact-link", h.ContactLink)
}

// RegisterAdminRoutes registers the JWT-protected write endpoints.
func (h *PlotHandler) RegisterAdminRoutes(rg *gin.RouterGroup) {
	rg.POST("/plots", h.CreatePlot)
}

// GET /api/plots?category=...&minPrice=...&maxPrice=...&minSize=...&maxSize=...&village=...&search=...&page=...&perPage=...
//
// Generic listing fetch: active plots only, page size overridable.
func (h *PlotHandler) ListPlots(c *gin.Context) {
	params := parseSearchParams(c)
	params.PublicOnly = false
	c.JSON(http.StatusOK, h.Listings.Search(c.Request.Context(), params))
}

// GET /api/plots/browse — the buyer-facing browse: active and approved plots
// only, fixed page size of 12.
func (h *PlotHandler) BrowsePlots(c *gin.Context) {
	params := parseSearchParams(c)
	params.PublicOnly = true
	params.PerPage = repository.DefaultPerPage
	c.JSON(http.StatusOK, h.Listings.Search(c.Request.Context(), params))
}

// GET /api/plots/:id
func (h *PlotHandler) GetPlotByID(c *gin.Context) {
	plot, err := h.Listings.GetVisibleByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "plot not found"})
		return
	}
	c.JSON(http.StatusOK, plot)
}

// GET /api/plots/:id/contact-link?lang=en|ta
//
// Builds the pre-filled WhatsApp inquiry link for a visible plot, using the
// seller's whatsapp number and falling back to the primary phone.
func (h *PlotHandler) ContactLink(c *gin.Context) {
	plot, err := h.Listings.GetVisibleByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "plot not found"})
		return
	}
	if plot.Seller == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "plot not found"})
		return
	}

	phone := plot.Seller.WhatsappNumber
	if phone == "" {
		phone = plot.Seller.PhoneNumber
	}

	lang := whatsapp.LanguageEnglish
	if c.Query("lang") == string(whatsapp.LanguageTamil) {
		lang = whatsapp.LanguageTamil
	}

	location := plot.Village
	if plot.District != "" {
		location = plot.Village + ", " + plot.District
	}

	url := whatsapp.GenerateURL(whatsapp.MessageParams{
		Phone:     phone,
		PlotID:    plot.ID,
		PlotTitle: plot.TitleEn,
		Price:     plot.TotalPrice,
		Location:  location,
		Language:  lang,
	})
	c.JSON(http.StatusOK, gin.H{"url": url})
}

// CreatePlotRequestDTO is the admin direct-create payload.
type CreatePlotRequestDTO struct {
	SellerID      string   `json:"sellerId" binding:"required"`
	TitleEn       string   `json:"titleEn" binding:"required"`
	TitleTa       string   `json:"titleTa"`
	DescriptionEn string   `json:"descriptionEn"`
	DescriptionTa string   `json:"descriptionTa"`
	Category      string   `json:"category" binding:"required"`
	Village       string   `json:"village" binding:"required"`
	Taluk         string   `json:"taluk"`
	District      string   `json:"district" binding:"required"`
	State         string   `json:"state"`
	SurveyNumber  string   `json:"surveyNumber"`
	Latitude      *float64 `json:"latitude"`
	Longitude     *float64 `json:"longitude"`
	SizeSqft      float64  `json:"sizeSqft" binding:"required,gt=0"`
	SizeCents     *float64 `json:"sizeCents"`
	TotalPrice    int64    `json:"totalPrice" binding:"required,gt=0"`
	PricePerSqft  int64    `json:"pricePerSqft"`
	IsNegotiable  bool     `json:"isNegotiable"`
	IsFeatured    bool     `json:"isFeatured"`
	Status        string   `json:"status"`

	Features model.Features `json:"features"`
}

// POST /api/plots — direct creation by the administrator. A plot created
// with active status is published immediately.
func (h *PlotHandler) CreatePlot(c *gin.Context) {
	var req CreatePlotRequestDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}
	if !model.ValidCategory(req.Category) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid category"})
		return
	}
	if req.Status != "" && req.Status != model.StatusPending && req.Status != model.StatusActive {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid status"})
		return
	}

	plot := &model.Plot{
		SellerID:      req.SellerID,
		TitleEn:       req.TitleEn,
		TitleTa:       req.TitleTa,
		DescriptionEn: req.DescriptionEn,
		DescriptionTa: req.DescriptionTa,
		Category:      req.Category,
		Village:       req.Village,
		Taluk:         req.Taluk,
		District:      req.District,
		State:         req.State,
		SurveyNumber:  req.SurveyNumber,
		Latitude:      req.Latitude,
		Longitude:     req.Longitude,
		SizeSqft:      req.SizeSqft,
		SizeCents:     req.SizeCents,
		TotalPrice:    req.TotalPrice,
		PricePerSqft:  req.PricePerSqft,
		IsNegotiable:  req.IsNegotiable,
		IsFeatured:    req.IsFeatured,
		Status:        req.Status,
		Features:      req.Features,
	}
	if plot.Status == model.StatusActive {
		plot.VerificationStatus = model.VerificationApproved
	}

	created, err := h.Listings.CreateDirect(c.Request.Context(), plot)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create plot"})
		return
	}
	c.JSON(http.StatusCreated, created)
}

func parseSearchParams(c *gin.Context) repository.SearchParams {
	params := repository.SearchParams{
		Category: c.Query("category"),
		Village:  strings.TrimSpace(c.Query("village")),
		Search:   strings.TrimSpace(c.Query("search")),
	}

	if v := c.Query("minPrice"); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			params.MinPrice = &n
		}
	}
	if v := c.Query("maxPrice"); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			params.MaxPrice = &n
		}
	}
	if v := c.Query("minSize"); v != "" {
		if n, err := strconv.ParseFloat(v, 64); err == nil {
			params.MinSize = &n
		}
	}
	if v := c.Query("maxSize"); v != "" {
		if n, err := strconv.ParseFloat(v, 64); err == nil {
			params.MaxSize = &n
		}
	}
	if page, err := strconv.Atoi(c.DefaultQuery("page", "1")); err == nil {
		params.Page = page
	}
	if perPage, err := strconv.Atoi(c.DefaultQuery("perPage", "12")); err == nil {
		params.PerPage = perPage
	}
	return params
}
