// internal/handlers/price.go
package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/fairprice/fairprice-backend/internal/i18n"
	"github.com/fairprice/fairprice-backend/internal/models"
	"github.com/fairprice/fairprice-backend/internal/services"
	"github.com/fairprice/fairprice-backend/internal/utils"
)

type PriceHandler struct {
	priceService *services.PriceService
}

func NewPriceHandler(priceService *services.PriceService) *PriceHandler {
	return &PriceHandler{
		priceService: priceService,
	}
}

// POST /prices
func (h *PriceHandler) Submit(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		return
	}

	var req services.SubmitPriceRequest
	if !bindJSON(c, &req) {
		return
	}

	entry, err := h.priceService.Submit(c.Request.Context(), actor, &req)
	if err != nil {
		utils.ServiceErrorResponse(c, err, i18n.KeyProductNotFound)
		return
	}
	utils.CreatedResponse(c, entry)
}

// GET /prices/my-submissions
func (h *PriceHandler) MySubmissions(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		return
	}

	entries, err := h.priceService.MySubmissions(c.Request.Context(), actor)
	if err != nil {
		utils.ServiceErrorResponse(c, err, i18n.KeyPriceNotFound)
		return
	}
	utils.SuccessResponse(c, entries)
}

// PATCH /prices/:id
func (h *PriceHandler) Update(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		return
	}
	id, ok := uuidParam(c, "id", "price entry")
	if !ok {
		return
	}

	var req services.UpdatePriceRequest
	if !bindJSON(c, &req) {
		return
	}

	entry, err := h.priceService.UpdateSubmission(c.Request.Context(), actor, id, &req)
	if err != nil {
		utils.ServiceErrorResponse(c, err, i18n.KeyPriceNotEditable)
		return
	}
	utils.SuccessResponse(c, entry)
}

// GET /admin/prices
func (h *PriceHandler) AdminList(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	actor, ok := actorFromContext(c)
	if !ok {
		return
	}

	params := services.PriceSearchParams{PaginationParams: utils.GetPaginationParams(c)}
	if params.ProductID, ok = optionalUUIDQuery(c, "product_id", "product"); !ok {
		return
	}
	if params.MarketID, ok = optionalUUIDQuery(c, "market_id", "market"); !ok {
		return
	}
	if params.VendorID, ok = optionalUUIDQuery(c, "vendor_id", "vendor"); !ok {
		return
	}
	if status := c.Query("status"); status != "" {
		s := models.PriceStatus(status)
		if !s.Valid() {
			utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "status"), nil)
			return
		}
		params.Status = &s
	}
	if c.Query("entry_date") != "" {
		date, ok := dateQuery(c, "entry_date", h.priceService.Today())
		if !ok {
			return
		}
		params.EntryDate = &date
	}

	entries, total, err := h.priceService.ListSubmissions(c.Request.Context(), actor, params)
	if err != nil {
		utils.ServiceErrorResponse(c, err, i18n.KeyPriceNotFound)
		return
	}

	utils.PaginatedResponse(c, utils.CreatePaginationResult(entries, total, params.PaginationParams))
}

// POST /admin/prices/:id/review
func (h *PriceHandler) Review(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		return
	}
	id, ok := uuidParam(c, "id", "price entry")
	if !ok {
		return
	}

	var req services.ReviewPriceRequest
	if !bindJSON(c, &req) {
		return
	}

	entry, err := h.priceService.Review(c.Request.Context(), actor, id, &req)
	if err != nil {
		utils.ServiceErrorResponse(c, err, i18n.KeyPriceNotFound)
		return
	}
	utils.SuccessResponse(c, entry)
}
