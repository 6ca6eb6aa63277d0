package configurator

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/angelmondragon/storefront-configurator/pkg/enums"
)

// Variant is one sellable combination of axis values. OptionValues[i] refers to axis i.
type Variant struct {
	OptionValues      []string         `json:"option_values"`
	SKU               string           `json:"sku,omitempty"`
	Price             decimal.Decimal  `json:"price"`
	CompareAtPrice    *decimal.Decimal `json:"compare_at_price,omitempty"`
	Badge             *enums.PackBadge `json:"badge,omitempty"`
	Tiers             TierSet          `json:"volume_tiers"`
	StockQuantity     *int             `json:"stock_quantity,omitempty"`
	LowStockThreshold *int             `json:"low_stock_threshold,omitempty"`
	AllowBackorder    bool             `json:"allow_backorder"`
}

// VariantPatch holds optional scalar updates for a single variant.
type VariantPatch struct {
	SKU                 *string
	Price               *decimal.Decimal
	CompareAtPrice      *decimal.Decimal
	ClearCompareAtPrice bool
	Badge               *enums.PackBadge
	ClearBadge          bool
	StockQuantity       *int
	LowStockThreshold   *int
	AllowBackorder      *bool
}

// ValueRemoval describes a pending option value deletion so it can be confirmed first.
type ValueRemoval struct {
	AxisIndex        int    `json:"axis_index"`
	ValueIndex       int    `json:"value_index"`
	Value            string `json:"value"`
	AffectedVariants int    `json:"affected_variants"`
	RemovesAxis      bool   `json:"removes_axis"`
}

// Matrix owns the option axes of a variable product and the variant rows derived from them.
// Every mutation leaves the variant tuples unique and aligned with the axes.
type Matrix struct {
	axes     []OptionAxis
	variants []Variant
}

type matrixJSON struct {
	Axes     []OptionAxis `json:"option_axes"`
	Variants []Variant    `json:"variants"`
}

func newVariant(values []string) Variant {
	return Variant{
		OptionValues: append([]string(nil), values...),
		Price:        decimal.Zero,
		Tiers:        TierSet{},
	}
}

// Clone deep-copies the variant, including its tiers.
func (v Variant) Clone() Variant {
	out := v
	out.OptionValues = append([]string(nil), v.OptionValues...)
	out.CompareAtPrice = cloneDecimal(v.CompareAtPrice)
	if v.Badge != nil {
		badge := *v.Badge
		out.Badge = &badge
	}
	out.Tiers = v.Tiers.Clone()
	out.StockQuantity = cloneInt(v.StockQuantity)
	out.LowStockThreshold = cloneInt(v.LowStockThreshold)
	return out
}

// NewMatrix builds a matrix from a persisted seed. Axes are trimmed and deduplicated, and
// variants that do not fit the axes or repeat an earlier tuple are dropped. The number of
// dropped variants is returned alongside the matrix.
func NewMatrix(axes []OptionAxis, variants []Variant) (*Matrix, int) {
	keep := make([]int, 0, len(axes))
	cleanAxes := make([]OptionAxis, 0, len(axes))
	for i, axis := range axes {
		name := strings.TrimSpace(axis.Name)
		values := uniqueValues(axis.Values)
		if name == "" || len(values) == 0 {
			continue
		}
		keep = append(keep, i)
		cleanAxes = append(cleanAxes, OptionAxis{Name: name, Values: values})
	}

	m := &Matrix{axes: cleanAxes, variants: []Variant{}}
	if len(cleanAxes) == 0 {
		return m, len(variants)
	}

	seen := make(map[string]struct{}, len(variants))
	dropped := 0
	for _, variant := range variants {
		if len(variant.OptionValues) != len(axes) {
			dropped++
			continue
		}
		tuple := make([]string, 0, len(keep))
		valid := true
		for pos, axisIdx := range keep {
			value := strings.TrimSpace(variant.OptionValues[axisIdx])
			if cleanAxes[pos].indexOf(value) < 0 {
				valid = false
				break
			}
			tuple = append(tuple, value)
		}
		if !valid {
			dropped++
			continue
		}
		key := tupleKey(tuple)
		if _, ok := seen[key]; ok {
			dropped++
			continue
		}
		seen[key] = struct{}{}

		row := variant.Clone()
		row.OptionValues = tuple
		if row.Tiers == nil {
			row.Tiers = TierSet{}
		}
		m.variants = append(m.variants, row)
	}
	return m, dropped
}

// Axes returns a copy of the option axes.
func (m *Matrix) Axes() []OptionAxis {
	out := make([]OptionAxis, len(m.axes))
	for i, axis := range m.axes {
		out[i] = axis.clone()
	}
	return out
}

// Variants returns a deep copy of the variant rows.
func (m *Matrix) Variants() []Variant {
	out := make([]Variant, len(m.variants))
	for i, variant := range m.variants {
		out[i] = variant.Clone()
	}
	return out
}

// Variant returns a copy of the variant at index.
func (m *Matrix) Variant(index int) (Variant, bool) {
	if index < 0 || index >= len(m.variants) {
		return Variant{}, false
	}
	return m.variants[index].Clone(), true
}

// Len is the number of variant rows.
func (m *Matrix) Len() int {
	return len(m.variants)
}

// Clone deep-copies the matrix.
func (m *Matrix) Clone() Matrix {
	return Matrix{axes: m.Axes(), variants: m.Variants()}
}

// MarshalJSON implements json.Marshaler.
func (m Matrix) MarshalJSON() ([]byte, error) {
	payload := matrixJSON{Axes: m.axes, Variants: m.variants}
	if payload.Axes == nil {
		payload.Axes = []OptionAxis{}
	}
	if payload.Variants == nil {
		payload.Variants = []Variant{}
	}
	return json.Marshal(payload)
}

// UnmarshalJSON implements json.Unmarshaler and normalises the decoded seed.
func (m *Matrix) UnmarshalJSON(data []byte) error {
	var payload matrixJSON
	if err := json.Unmarshal(data, &payload); err != nil {
		return err
	}
	decoded, _ := NewMatrix(payload.Axes, payload.Variants)
	*m = *decoded
	return nil
}

// AddValue appends value to the axis and synthesizes one variant per distinct combination
// of the other axes, copying the first variant of that combination as a template.
func (m *Matrix) AddValue(axisIndex int, value string) bool {
	value = strings.TrimSpace(value)
	if axisIndex < 0 || axisIndex >= len(m.axes) || value == "" {
		return false
	}
	if m.axes[axisIndex].indexOf(value) >= 0 {
		return false
	}

	m.axes[axisIndex].Values = append(m.axes[axisIndex].Values, value)
	if len(m.variants) == 0 {
		m.reseed()
		return true
	}

	seen := make(map[string]struct{}, len(m.variants))
	added := make([]Variant, 0)
	for _, variant := range m.variants {
		key := tupleKey(dropAt(variant.OptionValues, axisIndex))
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}

		synthesized := variant.Clone()
		synthesized.OptionValues[axisIndex] = value
		added = append(added, synthesized)
	}
	m.variants = append(m.variants, added...)
	return true
}

// RenameValue rewrites a value in place on the axis and in every variant tuple holding it.
func (m *Matrix) RenameValue(axisIndex, valueIndex int, value string) bool {
	value = strings.TrimSpace(value)
	if axisIndex < 0 || axisIndex >= len(m.axes) || value == "" {
		return false
	}
	axis := &m.axes[axisIndex]
	if valueIndex < 0 || valueIndex >= len(axis.Values) {
		return false
	}
	old := axis.Values[valueIndex]
	if value == old || axis.indexOf(value) >= 0 {
		return false
	}

	axis.Values[valueIndex] = value
	for i := range m.variants {
		if m.variants[i].OptionValues[axisIndex] == old {
			m.variants[i].OptionValues[axisIndex] = value
		}
	}
	return true
}

// PrepareValueRemoval reports what removing the value would delete without mutating anything.
func (m *Matrix) PrepareValueRemoval(axisIndex, valueIndex int) (ValueRemoval, bool) {
	if axisIndex < 0 || axisIndex >= len(m.axes) {
		return ValueRemoval{}, false
	}
	axis := m.axes[axisIndex]
	if valueIndex < 0 || valueIndex >= len(axis.Values) {
		return ValueRemoval{}, false
	}
	value := axis.Values[valueIndex]
	return ValueRemoval{
		AxisIndex:        axisIndex,
		ValueIndex:       valueIndex,
		Value:            value,
		AffectedVariants: m.countHolding(axisIndex, value),
		RemovesAxis:      len(axis.Values) == 1,
	}, true
}

// ApplyValueRemoval deletes the value and every variant built on it. The plan must still
// match the current matrix; a stale plan is rejected.
func (m *Matrix) ApplyValueRemoval(plan ValueRemoval) bool {
	current, ok := m.PrepareValueRemoval(plan.AxisIndex, plan.ValueIndex)
	if !ok || current != plan {
		return false
	}

	axis := &m.axes[plan.AxisIndex]
	axis.Values = append(axis.Values[:plan.ValueIndex:plan.ValueIndex], axis.Values[plan.ValueIndex+1:]...)

	kept := make([]Variant, 0, len(m.variants))
	for _, variant := range m.variants {
		if variant.OptionValues[plan.AxisIndex] == plan.Value {
			continue
		}
		kept = append(kept, variant)
	}
	m.variants = kept

	if len(axis.Values) == 0 {
		m.RemoveAxis(plan.AxisIndex)
	}
	return true
}

// UpdateVariant applies scalar field changes to one variant. Price fields of a variant with
// packs are derived from its Buy-1 pack and are ignored here.
func (m *Matrix) UpdateVariant(index int, patch VariantPatch) bool {
	if index < 0 || index >= len(m.variants) {
		return false
	}
	if patch.Price != nil && patch.Price.IsNegative() {
		return false
	}
	if patch.CompareAtPrice != nil && patch.CompareAtPrice.IsNegative() {
		return false
	}
	if patch.Badge != nil && !patch.Badge.IsValid() {
		return false
	}
	if patch.StockQuantity != nil && *patch.StockQuantity < 0 {
		return false
	}
	if patch.LowStockThreshold != nil && *patch.LowStockThreshold < 0 {
		return false
	}

	variant := &m.variants[index]
	pricesLocked := len(variant.Tiers) > 0
	applied := false

	if patch.SKU != nil {
		variant.SKU = strings.TrimSpace(*patch.SKU)
		applied = true
	}
	if !pricesLocked {
		if patch.Price != nil {
			variant.Price = *patch.Price
			applied = true
		}
		if patch.ClearCompareAtPrice {
			variant.CompareAtPrice = nil
			applied = true
		} else if patch.CompareAtPrice != nil {
			variant.CompareAtPrice = cloneDecimal(patch.CompareAtPrice)
			applied = true
		}
	}
	if patch.ClearBadge {
		variant.Badge = nil
		applied = true
	} else if patch.Badge != nil {
		badge := *patch.Badge
		variant.Badge = &badge
		applied = true
	}
	if patch.StockQuantity != nil {
		variant.StockQuantity = cloneInt(patch.StockQuantity)
		applied = true
	}
	if patch.LowStockThreshold != nil {
		variant.LowStockThreshold = cloneInt(patch.LowStockThreshold)
		applied = true
	}
	if patch.AllowBackorder != nil {
		variant.AllowBackorder = *patch.AllowBackorder
		applied = true
	}
	return applied
}

// AddVariantTier appends a pack to the variant.
func (m *Matrix) AddVariantTier(variantIndex int) bool {
	if variantIndex < 0 || variantIndex >= len(m.variants) {
		return false
	}
	m.variants[variantIndex].Tiers = m.variants[variantIndex].Tiers.Add()
	return true
}

// UpdateVariantTier patches one pack of the variant.
func (m *Matrix) UpdateVariantTier(variantIndex, tierIndex int, patch TierPatch) bool {
	if variantIndex < 0 || variantIndex >= len(m.variants) {
		return false
	}
	tiers, ok := m.variants[variantIndex].Tiers.Update(tierIndex, patch)
	if !ok {
		return false
	}
	m.variants[variantIndex].Tiers = tiers
	return true
}

// RemoveVariantTier deletes one pack of the variant.
func (m *Matrix) RemoveVariantTier(variantIndex, tierIndex int) bool {
	if variantIndex < 0 || variantIndex >= len(m.variants) {
		return false
	}
	tiers, ok := m.variants[variantIndex].Tiers.Remove(tierIndex)
	if !ok {
		return false
	}
	m.variants[variantIndex].Tiers = tiers
	return true
}

// CopyVariantTiers deep-copies the source variant's packs onto a target that has none.
func (m *Matrix) CopyVariantTiers(targetIndex, sourceIndex int) bool {
	if targetIndex == sourceIndex {
		return false
	}
	if targetIndex < 0 || targetIndex >= len(m.variants) || sourceIndex < 0 || sourceIndex >= len(m.variants) {
		return false
	}
	source := m.variants[sourceIndex].Tiers
	if len(m.variants[targetIndex].Tiers) > 0 || len(source) == 0 {
		return false
	}
	m.variants[targetIndex].Tiers = source.Clone()
	return true
}

// Warnings collects pack pricing warnings across all variants.
func (m *Matrix) Warnings() []PackWarning {
	var warnings []PackWarning
	for i, variant := range m.variants {
		for _, warning := range variant.Tiers.Warnings() {
			warning.VariantIndex = intPtr(i)
			warnings = append(warnings, warning)
		}
	}
	return warnings
}

func (m *Matrix) countHolding(axisIndex int, value string) int {
	count := 0
	for _, variant := range m.variants {
		if variant.OptionValues[axisIndex] == value {
			count++
		}
	}
	return count
}

// tupleKey encodes a tuple as length-prefixed values, so no value content can make two
// distinct tuples share a key.
func tupleKey(values []string) string {
	var b strings.Builder
	for _, v := range values {
		b.WriteString(strconv.Itoa(len(v)))
		b.WriteByte(':')
		b.WriteString(v)
	}
	return b.String()
}
