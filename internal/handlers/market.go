// internal/handlers/market.go
package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/fairprice/fairprice-backend/internal/i18n"
	"github.com/fairprice/fairprice-backend/internal/services"
	"github.com/fairprice/fairprice-backend/internal/utils"
)

// MarketHandler serves cities, markets, categories and products.
type MarketHandler struct {
	marketService *services.MarketService
}

func NewMarketHandler(marketService *services.MarketService) *MarketHandler {
	return &MarketHandler{
		marketService: marketService,
	}
}

// GET /cities
func (h *MarketHandler) ListCities(c *gin.Context) {
	cities, err := h.marketService.ListCities(c.Request.Context())
	if err != nil {
		utils.ServiceErrorResponse(c, err, i18n.KeyCityNotFound)
		return
	}
	utils.SuccessResponse(c, cities)
}

// POST /cities
func (h *MarketHandler) CreateCity(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		return
	}

	var req services.CreateCityRequest
	if !bindJSON(c, &req) {
		return
	}

	city, err := h.marketService.CreateCity(c.Request.Context(), actor, &req)
	if err != nil {
		utils.ServiceErrorResponse(c, err, i18n.KeyCityNotFound)
		return
	}
	utils.CreatedResponse(c, city)
}

// GET /markets?city_id=
func (h *MarketHandler) ListMarkets(c *gin.Context) {
	cityID, ok := optionalUUIDQuery(c, "city_id", "city")
	if !ok {
		return
	}

	markets, err := h.marketService.ListMarkets(c.Request.Context(), cityID)
	if err != nil {
		utils.ServiceErrorResponse(c, err, i18n.KeyMarketNotFound)
		return
	}
	utils.SuccessResponse(c, markets)
}

// GET /markets/:id
func (h *MarketHandler) GetMarket(c *gin.Context) {
	id, ok := uuidParam(c, "id", "market")
	if !ok {
		return
	}

	market, err := h.marketService.GetMarket(c.Request.Context(), id)
	if err != nil {
		utils.ServiceErrorResponse(c, err, i18n.KeyMarketNotFound)
		return
	}
	utils.SuccessResponse(c, market)
}

// POST /markets
func (h *MarketHandler) CreateMarket(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		return
	}

	var req services.CreateMarketRequest
	if !bindJSON(c, &req) {
		return
	}

	market, err := h.marketService.CreateMarket(c.Request.Context(), actor, &req)
	if err != nil {
		utils.ServiceErrorResponse(c, err, i18n.KeyCityNotFound)
		return
	}
	utils.CreatedResponse(c, market)
}

// GET /categories
func (h *MarketHandler) ListCategories(c *gin.Context) {
	categories, err := h.marketService.ListCategories(c.Request.Context())
	if err != nil {
		utils.ServiceErrorResponse(c, err, i18n.KeyCategoryNotFound)
		return
	}
	utils.SuccessResponse(c, categories)
}

// POST /categories
func (h *MarketHandler) CreateCategory(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		return
	}

	var req services.CreateCategoryRequest
	if !bindJSON(c, &req) {
		return
	}

	category, err := h.marketService.CreateCategory(c.Request.Context(), actor, &req)
	if err != nil {
		utils.ServiceErrorResponse(c, err, i18n.KeyCategoryNotFound)
		return
	}
	utils.CreatedResponse(c, category)
}

// GET /products?category_id=
func (h *MarketHandler) ListProducts(c *gin.Context) {
	categoryID, ok := optionalUUIDQuery(c, "category_id", "category")
	if !ok {
		return
	}

	products, err := h.marketService.ListProducts(c.Request.Context(), categoryID)
	if err != nil {
		utils.ServiceErrorResponse(c, err, i18n.KeyProductNotFound)
		return
	}
	utils.SuccessResponse(c, products)
}

// GET /products/:id
func (h *MarketHandler) GetProduct(c *gin.Context) {
	id, ok := uuidParam(c, "id", "product")
	if !ok {
		return
	}

	product, err := h.marketService.GetProduct(c.Request.Context(), id)
	if err != nil {
		utils.ServiceErrorResponse(c, err, i18n.KeyProductNotFound)
		return
	}
	utils.SuccessResponse(c, product)
}

// POST /products
func (h *MarketHandler) CreateProduct(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		return
	}

	var req services.CreateProductRequest
	if !bindJSON(c, &req) {
		return
	}

	product, err := h.marketService.CreateProduct(c.Request.Context(), actor, &req)
	if err != nil {
		utils.ServiceErrorResponse(c, err, i18n.KeyCategoryNotFound)
		return
	}
	utils.CreatedResponse(c, product)
}
