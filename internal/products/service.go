package product

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/angelmondragon/storefront-configurator/internal/configurator"
	"github.com/angelmondragon/storefront-configurator/pkg/db"
	"github.com/angelmondragon/storefront-configurator/pkg/enums"
	pkgerrors "github.com/angelmondragon/storefront-configurator/pkg/errors"
)

// Service is the catalog collaborator of edit sessions: it seeds aggregates from stored
// products and persists submissions.
type Service interface {
	LoadProduct(ctx context.Context, id uuid.UUID) (*LoadedProduct, error)
	ReferencePrices(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]decimal.Decimal, error)
	SaveSubmission(ctx context.Context, sub configurator.Submission) (*ProductDTO, error)
}

// LoadedProduct is an aggregate seeded from the catalog. DroppedVariants counts stored rows
// that no longer matched their axes and were left out.
type LoadedProduct struct {
	Product         configurator.Product
	DroppedVariants int
}

type service struct {
	repo     *Repository
	dbClient *db.Client
}

// NewService constructs a product service instance.
func NewService(repo *Repository, dbClient *db.Client) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("product repository required")
	}
	if dbClient == nil {
		return nil, fmt.Errorf("db client required")
	}
	return &service{repo: repo, dbClient: dbClient}, nil
}

// LoadProduct reads a stored product and rebuilds its edit aggregate.
func (s *service) LoadProduct(ctx context.Context, id uuid.UUID) (*LoadedProduct, error) {
	row, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}

	refs, err := s.repo.ReferencePrices(ctx, BundleItemIDs(row))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load bundle reference prices")
	}

	aggregate, dropped, err := AggregateFromModel(row, refs)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "decode stored product")
	}
	return &LoadedProduct{Product: aggregate, DroppedVariants: dropped}, nil
}

// ReferencePrices returns the current price of each known product.
func (s *service) ReferencePrices(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]decimal.Decimal, error) {
	prices, err := s.repo.ReferencePrices(ctx, ids)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load reference prices")
	}
	return prices, nil
}

// SaveSubmission persists the submission in one transaction. Bundles may only reference
// other existing products.
func (s *service) SaveSubmission(ctx context.Context, sub configurator.Submission) (*ProductDTO, error) {
	if sub.ID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}
	if !sub.Shape.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid product shape")
	}
	if sub.Shape == enums.ProductShapeBundle && sub.Bundle != nil {
		if err := s.ensureBundleItems(ctx, sub); err != nil {
			return nil, err
		}
	}

	row := ModelFromSubmission(sub)
	var created bool
	if err := s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		var err error
		created, err = s.repo.WithTx(tx).SaveProduct(ctx, row)
		if err != nil {
			if db.IsUniqueViolation(err, "") {
				return pkgerrors.Wrap(pkgerrors.CodeConflict, err, "duplicate product configuration")
			}
			if db.IsForeignKeyViolation(err) {
				return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "bundle references an unknown product")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: save product")
		}
		return nil
	}); err != nil {
		if pkgerrors.As(err) != nil {
			return nil, err
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save product")
	}

	saved, err := s.repo.FindByID(ctx, sub.ID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load saved product")
	}
	return NewProductDTO(saved, created), nil
}

func (s *service) ensureBundleItems(ctx context.Context, sub configurator.Submission) error {
	ids := make([]uuid.UUID, 0, len(sub.Bundle.Items))
	for _, item := range sub.Bundle.Items {
		if item.ProductID == sub.ID {
			return pkgerrors.New(pkgerrors.CodeValidation, "bundle cannot contain itself")
		}
		ids = append(ids, item.ProductID)
	}
	known, err := s.repo.ReferencePrices(ctx, ids)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check bundle items")
	}
	var missing []string
	for _, id := range ids {
		if _, ok := known[id]; !ok {
			missing = append(missing, id.String())
		}
	}
	if len(missing) > 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "bundle references unknown products").
			WithDetails(map[string]any{"missing_product_ids": missing})
	}
	return nil
}
