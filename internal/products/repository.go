package product

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/angelmondragon/storefront-configurator/pkg/db/models"
)

// Repository wires together all product-related persistence helpers.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

func byPosition(db *gorm.DB) *gorm.DB {
	return db.Order("position ASC")
}

// FindByID loads the product with every configuration section ordered by position.
// Only packs without a variant are preloaded onto the product itself.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	var product models.Product
	err := r.db.WithContext(ctx).
		Preload("OptionAxes", byPosition).
		Preload("Variants", byPosition).
		Preload("Variants.VolumeTiers", byPosition).
		Preload("VolumeTiers", func(db *gorm.DB) *gorm.DB {
			return db.Where("variant_id IS NULL").Order("position ASC")
		}).
		Preload("BundleItems", byPosition).
		First(&product, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &product, nil
}

// Exists reports whether a product row with id is present.
func (r *Repository) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.Product{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// SaveProduct inserts or updates the product row and replaces every child section with the
// rows carried on product. It reports whether the row was created.
func (r *Repository) SaveProduct(ctx context.Context, product *models.Product) (bool, error) {
	exists, err := r.Exists(ctx, product.ID)
	if err != nil {
		return false, err
	}

	tx := r.db.WithContext(ctx)
	if exists {
		product.UpdatedAt = time.Now().UTC()
		err = tx.Model(&models.Product{}).Where("id = ?", product.ID).Updates(map[string]any{
			"title":                   product.Title,
			"shape":                   product.Shape,
			"price":                   product.Price,
			"compare_at_price":        product.CompareAtPrice,
			"bundle_pricing":          product.BundlePricing,
			"bundle_price":            product.BundlePrice,
			"bundle_discount_percent": product.BundleDiscountPercent,
			"is_orderable":            product.IsOrderable,
			"updated_at":              product.UpdatedAt,
		}).Error
	} else {
		err = tx.Omit(clause.Associations).Create(product).Error
	}
	if err != nil {
		return false, err
	}

	if err := r.ReplaceOptionAxes(ctx, product.ID, product.OptionAxes); err != nil {
		return false, err
	}
	if err := r.ReplaceVariants(ctx, product.ID, product.Variants); err != nil {
		return false, err
	}
	if err := r.ReplaceSimpleTiers(ctx, product.ID, product.VolumeTiers); err != nil {
		return false, err
	}
	if err := r.ReplaceBundleItems(ctx, product.ID, product.BundleItems); err != nil {
		return false, err
	}
	return !exists, nil
}

// ReplaceOptionAxes replaces all option axes for the product.
func (r *Repository) ReplaceOptionAxes(ctx context.Context, productID uuid.UUID, axes []models.ProductOptionAxis) error {
	tx := r.db.WithContext(ctx)
	if err := tx.Where("product_id = ?", productID).Delete(&models.ProductOptionAxis{}).Error; err != nil {
		return err
	}
	if len(axes) == 0 {
		return nil
	}
	return tx.Create(&axes).Error
}

// ReplaceVariants replaces all variants for the product together with their packs.
func (r *Repository) ReplaceVariants(ctx context.Context, productID uuid.UUID, variants []models.ProductVariant) error {
	tx := r.db.WithContext(ctx)
	if err := tx.Where("product_id = ? AND variant_id IS NOT NULL", productID).Delete(&models.ProductVolumeTier{}).Error; err != nil {
		return err
	}
	if err := tx.Where("product_id = ?", productID).Delete(&models.ProductVariant{}).Error; err != nil {
		return err
	}
	if len(variants) == 0 {
		return nil
	}
	if err := tx.Omit(clause.Associations).Create(&variants).Error; err != nil {
		return err
	}

	var tiers []models.ProductVolumeTier
	for _, variant := range variants {
		for _, tier := range variant.VolumeTiers {
			variantID := variant.ID
			tier.ProductID = productID
			tier.VariantID = &variantID
			tiers = append(tiers, tier)
		}
	}
	if len(tiers) == 0 {
		return nil
	}
	return tx.Create(&tiers).Error
}

// ReplaceSimpleTiers replaces the packs attached directly to the product.
func (r *Repository) ReplaceSimpleTiers(ctx context.Context, productID uuid.UUID, tiers []models.ProductVolumeTier) error {
	tx := r.db.WithContext(ctx)
	if err := tx.Where("product_id = ? AND variant_id IS NULL", productID).Delete(&models.ProductVolumeTier{}).Error; err != nil {
		return err
	}
	if len(tiers) == 0 {
		return nil
	}
	return tx.Create(&tiers).Error
}

// ReplaceBundleItems replaces the composition of a bundle product.
func (r *Repository) ReplaceBundleItems(ctx context.Context, bundleID uuid.UUID, items []models.ProductBundleItem) error {
	tx := r.db.WithContext(ctx)
	if err := tx.Where("bundle_id = ?", bundleID).Delete(&models.ProductBundleItem{}).Error; err != nil {
		return err
	}
	if len(items) == 0 {
		return nil
	}
	return tx.Create(&items).Error
}

// ReferencePrices returns the stored price of each existing product in ids. Unknown ids are
// absent from the result.
func (r *Repository) ReferencePrices(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]decimal.Decimal, error) {
	out := make(map[uuid.UUID]decimal.Decimal, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	var rows []struct {
		ID    uuid.UUID
		Price decimal.Decimal
	}
	if err := r.db.WithContext(ctx).
		Model(&models.Product{}).
		Select("id", "price").
		Where("id IN ?", ids).
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	for _, row := range rows {
		out[row.ID] = row.Price
	}
	return out, nil
}
