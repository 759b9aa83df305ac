package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/KeshavK2089/tnplots/internal/service"
	"github.com/KeshavK2089/tnplots/internal/wizard"
)

// SubmitHandler exposes the submission wizard to the presentation layer: a
// per-step validation driver and the terminal submit.
type SubmitHandler struct {
	Submissions *service.SubmissionService
}

func (h *SubmitHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/submit/validate", h.ValidateStep)
	rg.POST("/submit-listing", h.SubmitListing)
}

// ValidateStepRequestDTO carries the current step and the accumulated draft.
type ValidateStepRequestDTO struct {
	Step  int          `json:"step"`
	Draft wizard.Draft `json:"draft"`
}

// POST /api/submit/validate
//
// Runs the step's validator and advances the step pointer on success. The
// draft itself stays client-held; the response returns the draft with any
// derived fields (price per sqft) filled in.
func (h *SubmitHandler) ValidateStep(c *gin.Context) {
	var req ValidateStepRequestDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}

	step := wizard.Step(req.Step)
	if !step.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown step"})
		return
	}

	next, fieldErrs := wizard.Next(step, &req.Draft)
	if len(fieldErrs) > 0 {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"errors": fieldErrs, "step": int(step)})
		return
	}
	c.JSON(http.StatusOK, gin.H{"step": int(next), "draft": req.Draft})
}

// SubmitListingRequestDTO is the terminal submit payload: the completed
// draft plus the already-uploaded photos in gallery order.
type SubmitListingRequestDTO struct {
	wizard.Draft
	Images []service.ImageRef `json:"images"`
}

// POST /api/submit-listing
func (h *SubmitHandler) SubmitListing(c *gin.Context) {
	var req SubmitListingRequestDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}

	plotID, err := h.Submissions.Submit(c.Request.Context(), &req.Draft, req.Images)
	if err != nil {
		var verr *service.ValidationError
		if errors.As(err, &verr) {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"errors": verr.Fields})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to submit listing"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"success": true, "plotId": plotID})
}
