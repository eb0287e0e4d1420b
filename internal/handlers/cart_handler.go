package handlers

import (
	"net/http"

	"shop-service/internal/dto"
	"shop-service/internal/models"
	"shop-service/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const defaultPageLimit = 20

type CartHandler struct {
	cart service.CartService
	log  *zap.Logger
}

func NewCartHandler(cart service.CartService, log *zap.Logger) *CartHandler {
	return &CartHandler{cart: cart, log: log}
}

// AddItem godoc
// @Summary Добавить товар в корзину
// @Description Проверяет вариант (цвет + характеристики) и остаток, создаёт корзину при необходимости
// @Security BearerAuth
// @Tags cart
// @Accept json
// @Produce json
// @Param item body dto.AddCartItemRequest true "Товар и вариант"
// @Success 201 {object} dto.CartItemResponse
// @Failure 400 {object} dto.ValidationErrorResponse "Неверный вариант или недостаточно товара"
// @Failure 401 {object} dto.UnauthorizedErrorResponse "Неавторизован"
// @Failure 403 {object} dto.ForbiddenErrorResponse "Аккаунт не активирован"
// @Failure 404 {object} dto.NotFoundErrorResponse "Товар не найден"
// @Failure 500 {object} dto.InternalErrorResponse "Внутренняя ошибка"
// @Router /api/v1/cart/items [post]
func (h *CartHandler) AddItem(c *gin.Context) {
	var req dto.AddCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, h.log, err)
		return
	}

	item, err := h.cart.AddItem(c.Request.Context(), service.AddItemInput{
		ProductID: uuid.MustParse(req.ProductID),
		Color:     req.Color,
		Features:  req.Features,
		Quantity:  req.Quantity,
	})
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusCreated, dto.NewCartItemResponse(item))
}

// ListItems godoc
// @Summary Позиции корзины
// @Description Возвращает позиции текущей неоплаченной корзины (пустой список, если корзины нет)
// @Security BearerAuth
// @Tags cart
// @Produce json
// @Success 200 {object} dto.CartResponse
// @Failure 401 {object} dto.UnauthorizedErrorResponse "Неавторизован"
// @Failure 500 {object} dto.InternalErrorResponse "Внутренняя ошибка"
// @Router /api/v1/cart/items [get]
func (h *CartHandler) ListItems(c *gin.Context) {
	items, err := h.cart.ListCart(c.Request.Context())
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, dto.CartResponse{Items: dto.NewCartItemsResponse(items)})
}

// RemoveItem godoc
// @Summary Удалить позицию из корзины
// @Security BearerAuth
// @Tags cart
// @Produce json
// @Param id path string true "ID позиции"
// @Success 200 {object} dto.SuccessResponse
// @Failure 400 {object} dto.ValidationErrorResponse "Неверный ID"
// @Failure 403 {object} dto.ForbiddenErrorResponse "Чужая позиция или заказ уже оплачен"
// @Failure 404 {object} dto.NotFoundErrorResponse "Позиция не найдена"
// @Failure 500 {object} dto.InternalErrorResponse "Внутренняя ошибка"
// @Router /api/v1/cart/items/{id} [delete]
func (h *CartHandler) RemoveItem(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	if err := h.cart.RemoveItem(c.Request.Context(), id); err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewSuccessResponse("item removed"))
}

// CheckoutPreview godoc
// @Summary Предпросмотр оформления
// @Description Корзина с покупателем, адресом и итоговыми суммами
// @Security BearerAuth
// @Tags checkout
// @Produce json
// @Success 200 {object} dto.CheckoutPreviewResponse
// @Failure 401 {object} dto.UnauthorizedErrorResponse "Неавторизован"
// @Failure 404 {object} dto.NotFoundErrorResponse "Нет активной корзины"
// @Failure 500 {object} dto.InternalErrorResponse "Внутренняя ошибка"
// @Router /api/v1/checkout [get]
func (h *CartHandler) CheckoutPreview(c *gin.Context) {
	p, err := h.cart.CheckoutPreview(c.Request.Context())
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewCheckoutPreviewResponse(p))
}

// Checkout godoc
// @Summary Оформить заказ
// @Description Применяет промокод (если передан), фиксирует адрес и помечает корзину оплаченной
// @Security BearerAuth
// @Tags checkout
// @Accept json
// @Produce json
// @Param checkout body dto.CheckoutRequest false "Промокод и адрес"
// @Success 200 {object} dto.CheckoutPreviewResponse
// @Failure 400 {object} dto.ValidationErrorResponse "Неверный промокод"
// @Failure 401 {object} dto.UnauthorizedErrorResponse "Неавторизован"
// @Failure 404 {object} dto.NotFoundErrorResponse "Нет активной корзины или адреса"
// @Failure 500 {object} dto.InternalErrorResponse "Внутренняя ошибка"
// @Router /api/v1/checkout [post]
func (h *CartHandler) Checkout(c *gin.Context) {
	var req dto.CheckoutRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			respondBindError(c, h.log, err)
			return
		}
	}

	addressID, err := parseOptionalUUID(req.AddressID)
	if err != nil {
		respondBindError(c, h.log, err)
		return
	}

	p, err := h.cart.Checkout(c.Request.Context(), service.CheckoutInput{
		DiscountCode: req.DiscountCode,
		AddressID:    addressID,
	})
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewCheckoutPreviewResponse(p))
}

// ListOrders godoc
// @Summary Оплаченные заказы
// @Description Оплаченные заказы пользователя, новые первыми
// @Security BearerAuth
// @Tags orders
// @Produce json
// @Param limit query int false "Размер страницы" default(20)
// @Param offset query int false "Смещение" default(0)
// @Success 200 {object} dto.OrderListResponse
// @Failure 400 {object} dto.ValidationErrorResponse "Неверные параметры"
// @Failure 401 {object} dto.UnauthorizedErrorResponse "Неавторизован"
// @Failure 500 {object} dto.InternalErrorResponse "Внутренняя ошибка"
// @Router /api/v1/orders [get]
func (h *CartHandler) ListOrders(c *gin.Context) {
	var q dto.PageQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		respondBindError(c, h.log, err)
		return
	}
	if q.Limit == 0 {
		q.Limit = defaultPageLimit
	}

	orders, total, err := h.cart.ListPaidOrders(c.Request.Context(), service.PaidOrderFilter{Limit: q.Limit, Offset: q.Offset})
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewOrderListResponse(orders, total, q.Limit, q.Offset))
}

// LatestOrder godoc
// @Summary Последний оплаченный заказ
// @Security BearerAuth
// @Tags orders
// @Produce json
// @Success 200 {object} dto.OrderResponse
// @Failure 401 {object} dto.UnauthorizedErrorResponse "Неавторизован"
// @Failure 404 {object} dto.NotFoundErrorResponse "Заказов нет"
// @Failure 500 {object} dto.InternalErrorResponse "Внутренняя ошибка"
// @Router /api/v1/orders/latest [get]
func (h *CartHandler) LatestOrder(c *gin.Context) {
	o, err := h.cart.LatestPaidOrder(c.Request.Context())
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewOrderResponse(o))
}

// ConfirmReceipt godoc
// @Summary Подтвердить оплату заказа
// @Description Помечает заказ оплаченным без промокода
// @Security BearerAuth
// @Tags orders
// @Produce json
// @Param id path string true "ID заказа"
// @Success 200 {object} dto.OrderResponse
// @Failure 400 {object} dto.ValidationErrorResponse "Неверный ID"
// @Failure 404 {object} dto.NotFoundErrorResponse "Заказ не найден"
// @Failure 409 {object} dto.ConflictErrorResponse "Заказ уже подтверждён"
// @Failure 500 {object} dto.InternalErrorResponse "Внутренняя ошибка"
// @Router /api/v1/orders/{id}/receipt [put]
func (h *CartHandler) ConfirmReceipt(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	o, err := h.cart.ConfirmReceipt(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewOrderResponse(o))
}

// UpdateStatus godoc
// @Summary Сменить статус заказа
// @Description processing → shipped|canceled, shipped → delivered|canceled
// @Security BearerAuth
// @Tags admin
// @Accept json
// @Produce json
// @Param id path string true "ID заказа"
// @Param status body dto.UpdateOrderStatusRequest true "Новый статус"
// @Success 200 {object} dto.OrderResponse
// @Failure 400 {object} dto.ValidationErrorResponse "Недопустимый переход"
// @Failure 403 {object} dto.ForbiddenErrorResponse "Нужна роль администратора"
// @Failure 404 {object} dto.NotFoundErrorResponse "Заказ не найден"
// @Failure 500 {object} dto.InternalErrorResponse "Внутренняя ошибка"
// @Router /api/v1/orders/{id}/status [put]
func (h *CartHandler) UpdateStatus(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	var req dto.UpdateOrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, h.log, err)
		return
	}
	o, err := h.cart.UpdateStatus(c.Request.Context(), id, models.OrderStatus(req.Status))
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewOrderResponse(o))
}
