package handlers

import (
	"net/http"
	"time"

	"shop-service/internal/dto"
	"shop-service/internal/models"
	"shop-service/internal/pricing"
	"shop-service/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// AdminHandler: запись в каталог; маршруты закрыты RequireAdmin,
// сервис дополнительно проверяет роль сам.
type AdminHandler struct {
	catalog service.CatalogService
	log     *zap.Logger
}

func NewAdminHandler(catalog service.CatalogService, log *zap.Logger) *AdminHandler {
	return &AdminHandler{catalog: catalog, log: log}
}

// CreateCategory godoc
// @Summary Создать категорию
// @Security BearerAuth
// @Tags admin
// @Accept json
// @Produce json
// @Param category body dto.CreateCategoryRequest true "Категория"
// @Success 201 {object} dto.CategoryResponse
// @Failure 400 {object} dto.ValidationErrorResponse "Неверные данные"
// @Failure 403 {object} dto.ForbiddenErrorResponse "Нужна роль администратора"
// @Failure 409 {object} dto.ConflictErrorResponse "Категория уже существует"
// @Failure 500 {object} dto.InternalErrorResponse "Внутренняя ошибка"
// @Router /api/v1/admin/categories [post]
func (h *AdminHandler) CreateCategory(c *gin.Context) {
	var req dto.CreateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, h.log, err)
		return
	}
	parentID, err := parseOptionalUUID(req.ParentID)
	if err != nil {
		respondBindError(c, h.log, err)
		return
	}
	cat, err := h.catalog.CreateCategory(c.Request.Context(), service.CreateCategoryInput{Name: req.Name, ParentID: parentID})
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, dto.NewCategoryResponse(cat))
}

// CreateBrand godoc
// @Summary Создать бренд
// @Security BearerAuth
// @Tags admin
// @Accept json
// @Produce json
// @Param brand body dto.CreateBrandRequest true "Бренд"
// @Success 201 {object} dto.BrandResponse
// @Failure 400 {object} dto.ValidationErrorResponse "Неверные данные"
// @Failure 403 {object} dto.ForbiddenErrorResponse "Нужна роль администратора"
// @Failure 409 {object} dto.ConflictErrorResponse "Бренд уже существует"
// @Failure 500 {object} dto.InternalErrorResponse "Внутренняя ошибка"
// @Router /api/v1/admin/brands [post]
func (h *AdminHandler) CreateBrand(c *gin.Context) {
	var req dto.CreateBrandRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, h.log, err)
		return
	}
	b, err := h.catalog.CreateBrand(c.Request.Context(), service.CreateBrandInput{Name: req.Name, Description: req.Description})
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, dto.NewBrandResponse(b))
}

// CreateProduct godoc
// @Summary Создать товар
// @Description Slug генерируется из названия, при совпадении добавляется суффикс -1, -2, ...
// @Security BearerAuth
// @Tags admin
// @Accept json
// @Produce json
// @Param product body dto.CreateProductRequest true "Товар"
// @Success 201 {object} dto.ProductResponse
// @Failure 400 {object} dto.ValidationErrorResponse "Неверные данные"
// @Failure 403 {object} dto.ForbiddenErrorResponse "Нужна роль администратора"
// @Failure 404 {object} dto.NotFoundErrorResponse "Категория или бренд не найдены"
// @Failure 500 {object} dto.InternalErrorResponse "Внутренняя ошибка"
// @Router /api/v1/admin/products [post]
func (h *AdminHandler) CreateProduct(c *gin.Context) {
	var req dto.CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, h.log, err)
		return
	}
	active := true
	if req.IsActive != nil {
		active = *req.IsActive
	}
	p, err := h.catalog.CreateProduct(c.Request.Context(), service.CreateProductInput{
		CategoryID:  uuid.MustParse(req.CategoryID),
		BrandID:     uuid.MustParse(req.BrandID),
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Weight:      req.Weight,
		IsActive:    active,
	})
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, dto.NewProductResponse(p, time.Now()))
}

// DeleteProduct godoc
// @Summary Мягко удалить товар
// @Security BearerAuth
// @Tags admin
// @Produce json
// @Param id path string true "ID товара"
// @Success 200 {object} dto.SuccessResponse
// @Failure 403 {object} dto.ForbiddenErrorResponse "Нужна роль администратора"
// @Failure 404 {object} dto.NotFoundErrorResponse "Товар не найден"
// @Failure 500 {object} dto.InternalErrorResponse "Внутренняя ошибка"
// @Router /api/v1/admin/products/{id} [delete]
func (h *AdminHandler) DeleteProduct(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	if err := h.catalog.SoftDeleteProduct(c.Request.Context(), id); err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewSuccessResponse("product deleted"))
}

// RestoreProduct godoc
// @Summary Восстановить товар
// @Security BearerAuth
// @Tags admin
// @Produce json
// @Param id path string true "ID товара"
// @Success 200 {object} dto.SuccessResponse
// @Failure 403 {object} dto.ForbiddenErrorResponse "Нужна роль администратора"
// @Failure 404 {object} dto.NotFoundErrorResponse "Товар не найден"
// @Failure 500 {object} dto.InternalErrorResponse "Внутренняя ошибка"
// @Router /api/v1/admin/products/{id}/restore [post]
func (h *AdminHandler) RestoreProduct(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	if err := h.catalog.RestoreProduct(c.Request.Context(), id); err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewSuccessResponse("product restored"))
}

// AddColor godoc
// @Summary Добавить цвет товару
// @Security BearerAuth
// @Tags admin
// @Accept json
// @Produce json
// @Param id path string true "ID товара"
// @Param color body dto.AddColorRequest true "Цвет"
// @Success 201 {object} dto.ColorResponse
// @Failure 400 {object} dto.ValidationErrorResponse "Неверные данные"
// @Failure 403 {object} dto.ForbiddenErrorResponse "Нужна роль администратора"
// @Failure 404 {object} dto.NotFoundErrorResponse "Товар не найден"
// @Failure 409 {object} dto.ConflictErrorResponse "Цвет уже есть"
// @Failure 500 {object} dto.InternalErrorResponse "Внутренняя ошибка"
// @Router /api/v1/admin/products/{id}/colors [post]
func (h *AdminHandler) AddColor(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	var req dto.AddColorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, h.log, err)
		return
	}
	col, err := h.catalog.AddColor(c.Request.Context(), service.AddColorInput{ProductID: id, Name: req.Name, HexCode: req.HexCode})
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, dto.NewColorResponse(col))
}

// AddFeatureValue godoc
// @Summary Добавить значение характеристики
// @Description Характеристика создаётся по имени, если её ещё нет
// @Security BearerAuth
// @Tags admin
// @Accept json
// @Produce json
// @Param value body dto.AddFeatureValueRequest true "Значение"
// @Success 201 {object} dto.FeatureValueResponse
// @Failure 400 {object} dto.ValidationErrorResponse "Неверные данные"
// @Failure 403 {object} dto.ForbiddenErrorResponse "Нужна роль администратора"
// @Failure 409 {object} dto.ConflictErrorResponse "Значение уже есть"
// @Failure 500 {object} dto.InternalErrorResponse "Внутренняя ошибка"
// @Router /api/v1/admin/features/values [post]
func (h *AdminHandler) AddFeatureValue(c *gin.Context) {
	var req dto.AddFeatureValueRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, h.log, err)
		return
	}
	fv, err := h.catalog.AddFeatureValue(c.Request.Context(), service.AddFeatureValueInput{
		Feature: req.Feature,
		Value:   req.Value,
		HexCode: req.HexCode,
	})
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, dto.NewFeatureValueResponse(fv))
}

// AttachFeature godoc
// @Summary Привязать значение характеристики к товару
// @Security BearerAuth
// @Tags admin
// @Accept json
// @Produce json
// @Param id path string true "ID товара"
// @Param feature body dto.AttachFeatureRequest true "Значение характеристики"
// @Success 200 {object} dto.SuccessResponse
// @Failure 400 {object} dto.ValidationErrorResponse "Неверные данные"
// @Failure 403 {object} dto.ForbiddenErrorResponse "Нужна роль администратора"
// @Failure 404 {object} dto.NotFoundErrorResponse "Товар или значение не найдены"
// @Failure 500 {object} dto.InternalErrorResponse "Внутренняя ошибка"
// @Router /api/v1/admin/products/{id}/features [post]
func (h *AdminHandler) AttachFeature(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	var req dto.AttachFeatureRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, h.log, err)
		return
	}
	if err := h.catalog.AttachFeature(c.Request.Context(), id, uuid.MustParse(req.FeatureValueID)); err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewSuccessResponse("feature attached"))
}

// SetStock godoc
// @Summary Установить остаток варианта
// @Security BearerAuth
// @Tags admin
// @Accept json
// @Produce json
// @Param id path string true "ID товара"
// @Param stock body dto.SetStockRequest true "Вариант и остаток"
// @Success 200 {object} dto.StockResponse
// @Failure 400 {object} dto.ValidationErrorResponse "Неверный вариант"
// @Failure 403 {object} dto.ForbiddenErrorResponse "Нужна роль администратора"
// @Failure 404 {object} dto.NotFoundErrorResponse "Товар не найден"
// @Failure 500 {object} dto.InternalErrorResponse "Внутренняя ошибка"
// @Router /api/v1/admin/products/{id}/stocks [put]
func (h *AdminHandler) SetStock(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	var req dto.SetStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, h.log, err)
		return
	}
	st, err := h.catalog.SetStock(c.Request.Context(), service.SetStockInput{
		ProductID: id,
		Color:     req.Color,
		Features:  req.Features,
		Stock:     req.Stock,
	})
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	out := dto.NewStocksResponse([]models.ProductStock{*st})
	c.JSON(http.StatusOK, out[0])
}

// SetDiscount godoc
// @Summary Установить скидку на товар
// @Security BearerAuth
// @Tags admin
// @Accept json
// @Produce json
// @Param id path string true "ID товара"
// @Param discount body dto.DiscountRequest true "Скидка"
// @Success 200 {object} dto.DiscountResponse
// @Failure 400 {object} dto.ValidationErrorResponse "Неверная скидка"
// @Failure 403 {object} dto.ForbiddenErrorResponse "Нужна роль администратора"
// @Failure 404 {object} dto.NotFoundErrorResponse "Товар не найден"
// @Failure 500 {object} dto.InternalErrorResponse "Внутренняя ошибка"
// @Router /api/v1/admin/products/{id}/discount [put]
func (h *AdminHandler) SetDiscount(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	var req dto.DiscountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, h.log, err)
		return
	}
	d, err := h.catalog.SetProductDiscount(c.Request.Context(), id, discountInput(req))
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewDiscountResponse(d))
}

// CreateDiscountCode godoc
// @Summary Создать промокод
// @Security BearerAuth
// @Tags admin
// @Accept json
// @Produce json
// @Param code body dto.CreateDiscountCodeRequest true "Промокод"
// @Success 201 {object} dto.DiscountCodeResponse
// @Failure 400 {object} dto.ValidationErrorResponse "Неверные данные"
// @Failure 403 {object} dto.ForbiddenErrorResponse "Нужна роль администратора"
// @Failure 409 {object} dto.ConflictErrorResponse "Промокод уже существует"
// @Failure 500 {object} dto.InternalErrorResponse "Внутренняя ошибка"
// @Router /api/v1/admin/discount-codes [post]
func (h *AdminHandler) CreateDiscountCode(c *gin.Context) {
	var req dto.CreateDiscountCodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, h.log, err)
		return
	}
	code, err := h.catalog.CreateDiscountCode(c.Request.Context(), service.CreateDiscountCodeInput{
		Code:          req.Code,
		Discount:      discountInput(req.DiscountRequest),
		MinOrderPrice: req.MinOrderPrice,
		MaxUses:       req.MaxUses,
	})
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, dto.NewDiscountCodeResponse(code))
}

func discountInput(req dto.DiscountRequest) service.DiscountInput {
	active := true
	if req.Active != nil {
		active = *req.Active
	}
	return service.DiscountInput{
		Kind:      pricing.Kind(req.Type),
		Value:     req.Value,
		StartDate: req.StartDate,
		EndDate:   req.EndDate,
		Active:    active,
	}
}
