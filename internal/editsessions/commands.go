package editsessions

import (
	"bytes"
	"encoding/json"
	"sort"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/angelmondragon/storefront-configurator/internal/configurator"
	"github.com/angelmondragon/storefront-configurator/pkg/enums"
	pkgerrors "github.com/angelmondragon/storefront-configurator/pkg/errors"
)

// Operation names accepted in the "op" field of a command.
const (
	OpSetTitle                 = "set_title"
	OpSetShape                 = "set_shape"
	OpSetPrice                 = "set_price"
	OpSetCompareAtPrice        = "set_compare_at_price"
	OpAddSimpleTier            = "add_simple_tier"
	OpUpdateSimpleTier         = "update_simple_tier"
	OpRemoveSimpleTier         = "remove_simple_tier"
	OpAddAxis                  = "add_axis"
	OpMoveAxis                 = "move_axis"
	OpRemoveAxis               = "remove_axis"
	OpAddValue                 = "add_value"
	OpRenameValue              = "rename_value"
	OpRemoveValue              = "remove_value"
	OpUpdateVariant            = "update_variant"
	OpAddVariantTier           = "add_variant_tier"
	OpUpdateVariantTier        = "update_variant_tier"
	OpRemoveVariantTier        = "remove_variant_tier"
	OpCopyVariantTiers         = "copy_variant_tiers"
	OpAddBundleItem            = "add_bundle_item"
	OpRemoveBundleItem         = "remove_bundle_item"
	OpSetBundleItemQuantity    = "set_bundle_item_quantity"
	OpSetBundleItemOverride    = "set_bundle_item_override"
	OpSetBundlePricing         = "set_bundle_pricing"
	OpSetBundlePrice           = "set_bundle_price"
	OpSetBundleDiscountPercent = "set_bundle_discount_percent"
	OpRefreshReferencePrices   = "refresh_reference_prices"
)

// Command is one decoded edit. Applying it either changes the aggregate and reports true,
// or leaves it untouched and reports false; errors are reserved for invalid requests and
// failing collaborators.
type Command interface {
	Op() string
}

var commandFactories = map[string]func() Command{
	OpSetTitle:                 func() Command { return &setTitleCommand{} },
	OpSetShape:                 func() Command { return &setShapeCommand{} },
	OpSetPrice:                 func() Command { return &setPriceCommand{} },
	OpSetCompareAtPrice:        func() Command { return &setCompareAtPriceCommand{} },
	OpAddSimpleTier:            func() Command { return &addSimpleTierCommand{} },
	OpUpdateSimpleTier:         func() Command { return &updateSimpleTierCommand{} },
	OpRemoveSimpleTier:         func() Command { return &removeSimpleTierCommand{} },
	OpAddAxis:                  func() Command { return &addAxisCommand{} },
	OpMoveAxis:                 func() Command { return &moveAxisCommand{} },
	OpRemoveAxis:               func() Command { return &removeAxisCommand{} },
	OpAddValue:                 func() Command { return &addValueCommand{} },
	OpRenameValue:              func() Command { return &renameValueCommand{} },
	OpRemoveValue:              func() Command { return &removeValueCommand{} },
	OpUpdateVariant:            func() Command { return &updateVariantCommand{} },
	OpAddVariantTier:           func() Command { return &addVariantTierCommand{} },
	OpUpdateVariantTier:        func() Command { return &updateVariantTierCommand{} },
	OpRemoveVariantTier:        func() Command { return &removeVariantTierCommand{} },
	OpCopyVariantTiers:         func() Command { return &copyVariantTiersCommand{} },
	OpAddBundleItem:            func() Command { return &addBundleItemCommand{} },
	OpRemoveBundleItem:         func() Command { return &removeBundleItemCommand{} },
	OpSetBundleItemQuantity:    func() Command { return &setBundleItemQuantityCommand{} },
	OpSetBundleItemOverride:    func() Command { return &setBundleItemOverrideCommand{} },
	OpSetBundlePricing:         func() Command { return &setBundlePricingCommand{} },
	OpSetBundlePrice:           func() Command { return &setBundlePriceCommand{} },
	OpSetBundleDiscountPercent: func() Command { return &setBundleDiscountPercentCommand{} },
	OpRefreshReferencePrices:   func() Command { return &refreshReferencePricesCommand{} },
}

// Operations lists every accepted op name in sorted order.
func Operations() []string {
	ops := make([]string, 0, len(commandFactories))
	for op := range commandFactories {
		ops = append(ops, op)
	}
	sort.Strings(ops)
	return ops
}

// DecodeCommand decodes a tagged command object and validates its arguments.
func DecodeCommand(raw []byte) (Command, error) {
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "command body is required")
	}

	var head struct {
		Op string `json:"op"`
	}
	if err := json.Unmarshal(raw, &head); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid command body").
			WithDetails(map[string]any{"error": err.Error()})
	}
	if head.Op == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid command").
			WithDetails(map[string]string{"op": "is required"})
	}
	factory, ok := commandFactories[head.Op]
	if !ok {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown command").
			WithDetails(map[string]any{"op": head.Op, "supported": Operations()})
	}

	cmd := factory()
	if err := json.Unmarshal(raw, cmd); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid command body").
			WithDetails(map[string]any{"op": head.Op, "error": err.Error()})
	}
	if err := validate.Struct(cmd); err != nil {
		return nil, formatValidationErrors(err)
	}
	return cmd, nil
}

type tierPatchInput struct {
	MinQuantity         *int             `json:"min_quantity" validate:"omitempty,min=1"`
	Price               *decimal.Decimal `json:"price"`
	CompareAtPrice      *decimal.Decimal `json:"compare_at_price"`
	ClearCompareAtPrice bool             `json:"clear_compare_at_price"`
	Badge               *enums.PackBadge `json:"badge" validate:"omitempty,pack_badge"`
	ClearBadge          bool             `json:"clear_badge"`
}

func (in tierPatchInput) patch() configurator.TierPatch {
	return configurator.TierPatch{
		MinQuantity:         in.MinQuantity,
		Price:               in.Price,
		CompareAtPrice:      in.CompareAtPrice,
		ClearCompareAtPrice: in.ClearCompareAtPrice,
		Badge:               in.Badge,
		ClearBadge:          in.ClearBadge,
	}
}

type variantPatchInput struct {
	SKU                 *string          `json:"sku" validate:"omitempty,max=64"`
	Price               *decimal.Decimal `json:"price"`
	CompareAtPrice      *decimal.Decimal `json:"compare_at_price"`
	ClearCompareAtPrice bool             `json:"clear_compare_at_price"`
	Badge               *enums.PackBadge `json:"badge" validate:"omitempty,pack_badge"`
	ClearBadge          bool             `json:"clear_badge"`
	StockQuantity       *int             `json:"stock_quantity" validate:"omitempty,min=0"`
	LowStockThreshold   *int             `json:"low_stock_threshold" validate:"omitempty,min=0"`
	AllowBackorder      *bool            `json:"allow_backorder"`
}

func (in variantPatchInput) patch() configurator.VariantPatch {
	return configurator.VariantPatch{
		SKU:                 in.SKU,
		Price:               in.Price,
		CompareAtPrice:      in.CompareAtPrice,
		ClearCompareAtPrice: in.ClearCompareAtPrice,
		Badge:               in.Badge,
		ClearBadge:          in.ClearBadge,
		StockQuantity:       in.StockQuantity,
		LowStockThreshold:   in.LowStockThreshold,
		AllowBackorder:      in.AllowBackorder,
	}
}

type setTitleCommand struct {
	Title string `json:"title" validate:"required,max=255"`
}

type setShapeCommand struct {
	Shape enums.ProductShape `json:"shape" validate:"required,product_shape"`
}

type setPriceCommand struct {
	Price *decimal.Decimal `json:"price" validate:"required"`
}

// A missing or null compare_at_price clears it.
type setCompareAtPriceCommand struct {
	CompareAtPrice *decimal.Decimal `json:"compare_at_price"`
}

type addSimpleTierCommand struct{}

type updateSimpleTierCommand struct {
	TierIndex *int           `json:"tier_index" validate:"required,min=0"`
	Patch     tierPatchInput `json:"patch"`
}

type removeSimpleTierCommand struct {
	TierIndex *int `json:"tier_index" validate:"required,min=0"`
}

type addAxisCommand struct {
	Name   string `json:"name" validate:"required,max=64"`
	Values string `json:"values" validate:"required"`
}

type moveAxisCommand struct {
	AxisIndex *int   `json:"axis_index" validate:"required,min=0"`
	Direction string `json:"direction" validate:"required,oneof=up down"`
}

type removeAxisCommand struct {
	AxisIndex *int `json:"axis_index" validate:"required,min=0"`
}

type addValueCommand struct {
	AxisIndex *int   `json:"axis_index" validate:"required,min=0"`
	Value     string `json:"value" validate:"required,max=128"`
}

type renameValueCommand struct {
	AxisIndex  *int   `json:"axis_index" validate:"required,min=0"`
	ValueIndex *int   `json:"value_index" validate:"required,min=0"`
	Value      string `json:"value" validate:"required,max=128"`
}

// ConfirmCount must equal the number of variants the removal deletes.
type removeValueCommand struct {
	AxisIndex    *int `json:"axis_index" validate:"required,min=0"`
	ValueIndex   *int `json:"value_index" validate:"required,min=0"`
	ConfirmCount *int `json:"confirm_count" validate:"required,min=0"`
}

type updateVariantCommand struct {
	VariantIndex *int              `json:"variant_index" validate:"required,min=0"`
	Patch        variantPatchInput `json:"patch"`
}

type addVariantTierCommand struct {
	VariantIndex *int `json:"variant_index" validate:"required,min=0"`
}

type updateVariantTierCommand struct {
	VariantIndex *int           `json:"variant_index" validate:"required,min=0"`
	TierIndex    *int           `json:"tier_index" validate:"required,min=0"`
	Patch        tierPatchInput `json:"patch"`
}

type removeVariantTierCommand struct {
	VariantIndex *int `json:"variant_index" validate:"required,min=0"`
	TierIndex    *int `json:"tier_index" validate:"required,min=0"`
}

type copyVariantTiersCommand struct {
	TargetIndex *int `json:"target_index" validate:"required,min=0"`
	SourceIndex *int `json:"source_index" validate:"required,min=0"`
}

type addBundleItemCommand struct {
	ProductID uuid.UUID `json:"product_id" validate:"required"`
	Quantity  *int      `json:"quantity" validate:"omitempty,min=1"`
}

type removeBundleItemCommand struct {
	ProductID uuid.UUID `json:"product_id" validate:"required"`
}

type setBundleItemQuantityCommand struct {
	ProductID uuid.UUID `json:"product_id" validate:"required"`
	Quantity  *int      `json:"quantity" validate:"required,min=1"`
}

type setBundleItemOverrideCommand struct {
	ProductID     uuid.UUID        `json:"product_id" validate:"required"`
	PriceOverride *decimal.Decimal `json:"price_override"`
}

type setBundlePricingCommand struct {
	Pricing enums.BundlePricing `json:"pricing" validate:"required,bundle_pricing"`
}

type setBundlePriceCommand struct {
	BundlePrice *decimal.Decimal `json:"bundle_price"`
}

type setBundleDiscountPercentCommand struct {
	DiscountPercent *decimal.Decimal `json:"discount_percent"`
}

type refreshReferencePricesCommand struct{}

func (*setTitleCommand) Op() string                 { return OpSetTitle }
func (*setShapeCommand) Op() string                 { return OpSetShape }
func (*setPriceCommand) Op() string                 { return OpSetPrice }
func (*setCompareAtPriceCommand) Op() string        { return OpSetCompareAtPrice }
func (*addSimpleTierCommand) Op() string            { return OpAddSimpleTier }
func (*updateSimpleTierCommand) Op() string         { return OpUpdateSimpleTier }
func (*removeSimpleTierCommand) Op() string         { return OpRemoveSimpleTier }
func (*addAxisCommand) Op() string                  { return OpAddAxis }
func (*moveAxisCommand) Op() string                 { return OpMoveAxis }
func (*removeAxisCommand) Op() string               { return OpRemoveAxis }
func (*addValueCommand) Op() string                 { return OpAddValue }
func (*renameValueCommand) Op() string              { return OpRenameValue }
func (*removeValueCommand) Op() string              { return OpRemoveValue }
func (*updateVariantCommand) Op() string            { return OpUpdateVariant }
func (*addVariantTierCommand) Op() string           { return OpAddVariantTier }
func (*updateVariantTierCommand) Op() string        { return OpUpdateVariantTier }
func (*removeVariantTierCommand) Op() string        { return OpRemoveVariantTier }
func (*copyVariantTiersCommand) Op() string         { return OpCopyVariantTiers }
func (*addBundleItemCommand) Op() string            { return OpAddBundleItem }
func (*removeBundleItemCommand) Op() string         { return OpRemoveBundleItem }
func (*setBundleItemQuantityCommand) Op() string    { return OpSetBundleItemQuantity }
func (*setBundleItemOverrideCommand) Op() string    { return OpSetBundleItemOverride }
func (*setBundlePricingCommand) Op() string         { return OpSetBundlePricing }
func (*setBundlePriceCommand) Op() string           { return OpSetBundlePrice }
func (*setBundleDiscountPercentCommand) Op() string { return OpSetBundleDiscountPercent }
func (*refreshReferencePricesCommand) Op() string   { return OpRefreshReferencePrices }
