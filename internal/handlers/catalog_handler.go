package handlers

import (
	"net/http"
	"time"

	"shop-service/internal/dto"
	"shop-service/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type CatalogHandler struct {
	catalog service.CatalogService
	log     *zap.Logger
	now     func() time.Time
}

func NewCatalogHandler(catalog service.CatalogService, log *zap.Logger) *CatalogHandler {
	return &CatalogHandler{catalog: catalog, log: log, now: time.Now}
}

// ListProducts godoc
// @Summary Список товаров
// @Description Активные товары, новые первыми; фильтр по категории и строке поиска
// @Tags catalog
// @Produce json
// @Param category query string false "Slug категории"
// @Param q query string false "Поиск по названию"
// @Param limit query int false "Размер страницы" default(20)
// @Param offset query int false "Смещение" default(0)
// @Success 200 {object} dto.ProductListResponse
// @Failure 400 {object} dto.ValidationErrorResponse "Неверные параметры"
// @Failure 500 {object} dto.InternalErrorResponse "Внутренняя ошибка"
// @Router /api/v1/products [get]
func (h *CatalogHandler) ListProducts(c *gin.Context) {
	var q dto.ProductListQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		respondBindError(c, h.log, err)
		return
	}
	if q.Limit == 0 {
		q.Limit = defaultPageLimit
	}

	list, total, err := h.catalog.ListProducts(c.Request.Context(), service.ProductFilter{
		CategorySlug: q.Category,
		Query:        q.Query,
		Limit:        q.Limit,
		Offset:       q.Offset,
	})
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewProductListResponse(list, total, q.Limit, q.Offset, h.now()))
}

// FeaturedProducts godoc
// @Summary Витрина
// @Tags catalog
// @Produce json
// @Success 200 {array} dto.ProductResponse
// @Failure 500 {object} dto.InternalErrorResponse "Внутренняя ошибка"
// @Router /api/v1/products/featured [get]
func (h *CatalogHandler) FeaturedProducts(c *gin.Context) {
	list, err := h.catalog.FeaturedProducts(c.Request.Context())
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewProductListResponse(list, int64(len(list)), len(list), 0, h.now()).Items)
}

// GetProduct godoc
// @Summary Карточка товара
// @Tags catalog
// @Produce json
// @Param slug path string true "Slug товара"
// @Success 200 {object} dto.ProductDetailsResponse
// @Failure 404 {object} dto.NotFoundErrorResponse "Товар не найден"
// @Failure 500 {object} dto.InternalErrorResponse "Внутренняя ошибка"
// @Router /api/v1/products/{slug} [get]
func (h *CatalogHandler) GetProduct(c *gin.Context) {
	d, err := h.catalog.GetProduct(c.Request.Context(), c.Param("slug"))
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewProductDetailsResponse(d, h.now()))
}

// ProductStocks godoc
// @Summary Остатки по вариантам
// @Tags catalog
// @Produce json
// @Param slug path string true "Slug товара"
// @Success 200 {array} dto.StockResponse
// @Failure 404 {object} dto.NotFoundErrorResponse "Товар не найден"
// @Failure 500 {object} dto.InternalErrorResponse "Внутренняя ошибка"
// @Router /api/v1/products/{slug}/stocks [get]
func (h *CatalogHandler) ProductStocks(c *gin.Context) {
	list, err := h.catalog.ProductStocks(c.Request.Context(), c.Param("slug"))
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewStocksResponse(list))
}

// ListCategories godoc
// @Summary Дерево категорий
// @Description Главные ветки с дочерними категориями
// @Tags catalog
// @Produce json
// @Success 200 {array} dto.CategoryResponse
// @Failure 500 {object} dto.InternalErrorResponse "Внутренняя ошибка"
// @Router /api/v1/categories [get]
func (h *CatalogHandler) ListCategories(c *gin.Context) {
	list, err := h.catalog.ListCategories(c.Request.Context())
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewCategoriesResponse(list))
}

// CategoryBranches godoc
// @Summary Связанные ветки категории
// @Description Для главной ветки: она и её дети; для дочерней: родитель и соседи
// @Tags catalog
// @Produce json
// @Param slug path string true "Slug категории"
// @Success 200 {array} dto.CategoryResponse
// @Failure 404 {object} dto.NotFoundErrorResponse "Категория не найдена"
// @Failure 500 {object} dto.InternalErrorResponse "Внутренняя ошибка"
// @Router /api/v1/categories/{slug}/branches [get]
func (h *CatalogHandler) CategoryBranches(c *gin.Context) {
	list, err := h.catalog.CategoryBranches(c.Request.Context(), c.Param("slug"))
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewCategoriesResponse(list))
}

// ListBrands godoc
// @Summary Бренды
// @Tags catalog
// @Produce json
// @Success 200 {array} dto.BrandResponse
// @Failure 500 {object} dto.InternalErrorResponse "Внутренняя ошибка"
// @Router /api/v1/brands [get]
func (h *CatalogHandler) ListBrands(c *gin.Context) {
	list, err := h.catalog.ListBrands(c.Request.Context())
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewBrandsResponse(list))
}
