package migrate

import (
	"context"

	"shop-service/internal/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

type MigrateOptions struct {
	CreateExtensions       bool // pgcrypto, pg_trgm
	CreateChecks           bool // CHECK-constraint для целостности
	CreateIndexes          bool // индексы и UNIQUE, в т.ч. частичные
	CreateFKsViaSQL        bool // FK через SQL (поверх GORM-constraint)
	CreateUpdatedAtTrigger bool // триггер обновления updated_at
}

func DefaultMigrateOptions() MigrateOptions {
	return MigrateOptions{
		CreateExtensions:       true,
		CreateChecks:           true,
		CreateIndexes:          true,
		CreateFKsViaSQL:        true,
		CreateUpdatedAtTrigger: true,
	}
}

type step struct {
	name string
	sql  string
}

func runSteps(db *gorm.DB, log *zap.Logger, steps []step) error {
	for _, s := range steps {
		if err := db.Exec(s.sql).Error; err != nil {
			log.Error("Не удалось выполнить шаг миграции", zap.String("step", s.name), zap.Error(err))
			return err
		}
	}
	return nil
}

func MigrateShopDB(ctx context.Context, db *gorm.DB, log *zap.Logger, opt MigrateOptions) error {
	log.Info("Начало миграции базы данных магазина")
	db = db.WithContext(ctx)

	// Расширения
	if opt.CreateExtensions {
		log.Info("Создание расширений PostgreSQL")
		if err := runSteps(db, log, extensionSteps); err != nil {
			return err
		}
		log.Info("Расширения PostgreSQL успешно созданы")
	}

	// Таблицы
	log.Info("Создание таблиц")
	if err := db.AutoMigrate(
		&models.User{},
		&models.Address{},
		&models.RefreshToken{},
		&models.Category{},
		&models.Brand{},
		&models.Product{},
		&models.Feature{},
		&models.FeatureValue{},
		&models.ProductFeature{},
		&models.ProductColor{},
		&models.ProductStock{},
		&models.Discount{},
		&models.DiscountCode{},
		&models.Order{},
		&models.OrderItem{},
	); err != nil {
		log.Error("Не удалось создать таблицы", zap.Error(err))
		return err
	}
	log.Info("Таблицы успешно созданы")

	if opt.CreateUpdatedAtTrigger {
		log.Info("Создание триггеров updated_at")
		if err := runSteps(db, log, triggerSteps); err != nil {
			return err
		}
		log.Info("Триггеры updated_at успешно созданы")
	}

	if opt.CreateChecks {
		log.Info("Создание CHECK-ограничений")
		if err := runSteps(db, log, checkSteps); err != nil {
			return err
		}
		log.Info("CHECK-ограничения успешно созданы")
	}

	if opt.CreateIndexes {
		log.Info("Создание индексов")
		steps := indexSteps
		if opt.CreateExtensions {
			steps = append(steps, trigramIndexStep)
		}
		if err := runSteps(db, log, steps); err != nil {
			return err
		}
		log.Info("Индексы успешно созданы")
	}

	if opt.CreateFKsViaSQL {
		log.Info("Создание внешних ключей")
		if err := runSteps(db, log, fkSteps); err != nil {
			return err
		}
		log.Info("Внешние ключи успешно созданы")
	}

	log.Info("Миграция базы данных магазина успешно завершена")
	return nil
}

var extensionSteps = []step{
	{"pgcrypto", `CREATE EXTENSION IF NOT EXISTS pgcrypto`},
	{"pg_trgm", `CREATE EXTENSION IF NOT EXISTS pg_trgm`},
}

var triggerSteps = []step{
	{"set_updated_at", `
CREATE OR REPLACE FUNCTION set_updated_at() RETURNS trigger AS $$
BEGIN NEW.updated_at = now(); RETURN NEW; END; $$ LANGUAGE plpgsql;
`},
	{"trg_orders_updated", `
DROP TRIGGER IF EXISTS trg_orders_updated ON orders;
CREATE TRIGGER trg_orders_updated
BEFORE UPDATE ON orders
FOR EACH ROW EXECUTE FUNCTION set_updated_at();
`},
	{"trg_products_updated", `
DROP TRIGGER IF EXISTS trg_products_updated ON products;
CREATE TRIGGER trg_products_updated
BEFORE UPDATE ON products
FOR EACH ROW EXECUTE FUNCTION set_updated_at();
`},
	{"trg_users_updated", `
DROP TRIGGER IF EXISTS trg_users_updated ON users;
CREATE TRIGGER trg_users_updated
BEFORE UPDATE ON users
FOR EACH ROW EXECUTE FUNCTION set_updated_at();
`},
	{"trg_discount_codes_updated", `
DROP TRIGGER IF EXISTS trg_discount_codes_updated ON discount_codes;
CREATE TRIGGER trg_discount_codes_updated
BEFORE UPDATE ON discount_codes
FOR EACH ROW EXECUTE FUNCTION set_updated_at();
`},
	{"trg_product_stocks_updated", `
DROP TRIGGER IF EXISTS trg_product_stocks_updated ON product_stocks;
CREATE TRIGGER trg_product_stocks_updated
BEFORE UPDATE ON product_stocks
FOR EACH ROW EXECUTE FUNCTION set_updated_at();
`},
}

var checkSteps = []step{
	// Цены и вес товара неотрицательные
	{"chk_products_price_weight", `
ALTER TABLE products
  DROP CONSTRAINT IF EXISTS chk_products_price_weight_non_negative;
ALTER TABLE products
  ADD CONSTRAINT chk_products_price_weight_non_negative
  CHECK (price >= 0 AND weight >= 0);
`},
	{"chk_product_stocks_stock", `
ALTER TABLE product_stocks
  DROP CONSTRAINT IF EXISTS chk_product_stocks_stock_non_negative;
ALTER TABLE product_stocks
  ADD CONSTRAINT chk_product_stocks_stock_non_negative
  CHECK (stock >= 0);
`},
	// Скидка на товар
	{"chk_discounts", `
ALTER TABLE discounts
  DROP CONSTRAINT IF EXISTS chk_discounts_rules;
ALTER TABLE discounts
  ADD CONSTRAINT chk_discounts_rules
  CHECK (
    value >= 0
    AND discount_type IN ('percent','amount')
    AND (discount_type <> 'percent' OR value <= 100)
    AND start_date < end_date
  );
`},
	// Промокоды: used_count никогда не превышает max_uses
	{"chk_discount_codes", `
ALTER TABLE discount_codes
  DROP CONSTRAINT IF EXISTS chk_discount_codes_rules;
ALTER TABLE discount_codes
  ADD CONSTRAINT chk_discount_codes_rules
  CHECK (
    value >= 0
    AND discount_type IN ('percent','amount')
    AND (discount_type <> 'percent' OR value <= 100)
    AND start_date < end_date
    AND max_uses >= 1
    AND used_count >= 0
    AND used_count <= max_uses
    AND min_order_price >= 0
  );
`},
	// Статусы (так как храним TEXT)
	{"chk_orders_status", `
ALTER TABLE orders
  DROP CONSTRAINT IF EXISTS chk_orders_status_allowed;
ALTER TABLE orders
  ADD CONSTRAINT chk_orders_status_allowed
  CHECK (status IN ('pending','processing','shipped','delivered','canceled'));
`},
	{"chk_orders_money", `
ALTER TABLE orders
  DROP CONSTRAINT IF EXISTS chk_orders_money_non_negative;
ALTER TABLE orders
  ADD CONSTRAINT chk_orders_money_non_negative
  CHECK (total_price >= 0 AND discount_amount >= 0 AND shipping_cost >= 0 AND final_price >= 0);
`},
	// Количество > 0
	{"chk_order_items_quantity", `
ALTER TABLE order_items
  DROP CONSTRAINT IF EXISTS chk_order_items_quantity_gt_zero;
ALTER TABLE order_items
  ADD CONSTRAINT chk_order_items_quantity_gt_zero
  CHECK (quantity > 0);
`},
	{"chk_order_items_prices", `
ALTER TABLE order_items
  DROP CONSTRAINT IF EXISTS chk_order_items_prices_non_negative;
ALTER TABLE order_items
  ADD CONSTRAINT chk_order_items_prices_non_negative
  CHECK (price >= 0 AND total_price >= 0);
`},
	{"chk_addresses_postal_code", `
ALTER TABLE addresses
  DROP CONSTRAINT IF EXISTS chk_addresses_postal_code;
ALTER TABLE addresses
  ADD CONSTRAINT chk_addresses_postal_code
  CHECK (postal_code ~ '^[0-9]{10}$');
`},
	{"chk_users_phone", `
ALTER TABLE users
  DROP CONSTRAINT IF EXISTS chk_users_phone_format;
ALTER TABLE users
  ADD CONSTRAINT chk_users_phone_format
  CHECK (phone_number IS NULL OR phone_number ~ '^09[0-9]{9}$');
`},
}

var indexSteps = []step{
	// Одна активная корзина на пользователя
	{"ux_orders_one_cart_per_user", `
CREATE UNIQUE INDEX IF NOT EXISTS ux_orders_one_cart_per_user
ON orders (user_id)
WHERE is_paid = false AND is_deleted = false;
`},
	{"ix_orders_user_paid_created", `
CREATE INDEX IF NOT EXISTS ix_orders_user_paid_created
ON orders (user_id, is_paid, created_at DESC);
`},
	{"ux_users_email_lower", `
CREATE UNIQUE INDEX IF NOT EXISTS ux_users_email_lower
ON users (lower(email));
`},
	// Не больше одного адреса по умолчанию
	{"ux_addresses_one_default", `
CREATE UNIQUE INDEX IF NOT EXISTS ux_addresses_one_default
ON addresses (user_id)
WHERE is_default = true AND is_deleted = false;
`},
	{"ix_products_listing", `
CREATE INDEX IF NOT EXISTS ix_products_listing
ON products (created_at DESC)
WHERE is_active = true AND is_deleted = false;
`},
}

// Поиск по названию (LIKE '%q%')
var trigramIndexStep = step{"ix_products_name_trgm", `
CREATE INDEX IF NOT EXISTS ix_products_name_trgm
ON products USING gin (lower(name) gin_trgm_ops);
`}

var fkSteps = []step{
	{"fk_order_items_order", `
ALTER TABLE order_items
  DROP CONSTRAINT IF EXISTS fk_order_items_order,
  ADD CONSTRAINT fk_order_items_order
    FOREIGN KEY (order_id) REFERENCES orders(id) ON DELETE CASCADE;
`},
	{"fk_order_items_product", `
ALTER TABLE order_items
  DROP CONSTRAINT IF EXISTS fk_order_items_product,
  ADD CONSTRAINT fk_order_items_product
    FOREIGN KEY (product_id) REFERENCES products(id) ON DELETE RESTRICT;
`},
	{"fk_orders_user", `
ALTER TABLE orders
  DROP CONSTRAINT IF EXISTS fk_orders_user,
  ADD CONSTRAINT fk_orders_user
    FOREIGN KEY (user_id) REFERENCES users(id) ON DELETE CASCADE;
`},
	{"fk_orders_discount_code", `
ALTER TABLE orders
  DROP CONSTRAINT IF EXISTS fk_orders_discount_code,
  ADD CONSTRAINT fk_orders_discount_code
    FOREIGN KEY (discount_code_id) REFERENCES discount_codes(id) ON DELETE SET NULL;
`},
	{"fk_addresses_user", `
ALTER TABLE addresses
  DROP CONSTRAINT IF EXISTS fk_addresses_user,
  ADD CONSTRAINT fk_addresses_user
    FOREIGN KEY (user_id) REFERENCES users(id) ON DELETE CASCADE;
`},
	{"fk_products_category", `
ALTER TABLE products
  DROP CONSTRAINT IF EXISTS fk_products_category,
  ADD CONSTRAINT fk_products_category
    FOREIGN KEY (category_id) REFERENCES categories(id) ON DELETE CASCADE;
`},
	{"fk_products_brand", `
ALTER TABLE products
  DROP CONSTRAINT IF EXISTS fk_products_brand,
  ADD CONSTRAINT fk_products_brand
    FOREIGN KEY (brand_id) REFERENCES brands(id) ON DELETE CASCADE;
`},
	{"fk_product_stocks_color", `
ALTER TABLE product_stocks
  DROP CONSTRAINT IF EXISTS fk_product_stocks_color,
  ADD CONSTRAINT fk_product_stocks_color
    FOREIGN KEY (color_id) REFERENCES product_colors(id) ON DELETE CASCADE;
`},
}
