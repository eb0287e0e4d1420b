package repository

import (
	"context"

	"gorm.io/gorm"
)

type Repository struct {
	DB            *gorm.DB
	Users         UserRepo
	RefreshTokens RefreshTokenRepo
	Addresses     AddressRepo
	Categories    CategoryRepo
	Brands        BrandRepo
	Products      ProductRepo
	Features      FeatureRepo
	Stocks        StockRepo
	Discounts     DiscountRepo
	DiscountCodes DiscountCodeRepo
	Orders        OrderRepo
	OrderItems    OrderItemRepo
}

func buildRepository(db *gorm.DB) *Repository {
	return &Repository{
		DB:            db,
		Users:         NewUserRepo(db),
		RefreshTokens: NewRefreshTokenRepo(db),
		Addresses:     NewAddressRepo(db),
		Categories:    NewCategoryRepo(db),
		Brands:        NewBrandRepo(db),
		Products:      NewProductRepo(db),
		Features:      NewFeatureRepo(db),
		Stocks:        NewStockRepo(db),
		Discounts:     NewDiscountRepo(db),
		DiscountCodes: NewDiscountCodeRepo(db),
		Orders:        NewOrderRepo(db),
		OrderItems:    NewOrderItemRepo(db),
	}
}

func New(db *gorm.DB) *Repository { return buildRepository(db) }

// Глобальная транзакция на весь набор репо
func (r *Repository) WithTx(ctx context.Context, fn func(tx *Repository) error) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(buildRepository(tx))
	})
}
