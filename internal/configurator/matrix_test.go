package configurator

import (
	"fmt"
	"math/rand"
	"reflect"
	"testing"

	"github.com/shopspring/decimal"
)

func dec(value string) decimal.Decimal {
	return decimal.RequireFromString(value)
}

func decPtr(value string) *decimal.Decimal {
	d := dec(value)
	return &d
}

func tuples(m *Matrix) [][]string {
	out := make([][]string, 0, m.Len())
	for _, v := range m.Variants() {
		out = append(out, v.OptionValues)
	}
	return out
}

func assertMatrixInvariant(t *testing.T, m *Matrix) {
	t.Helper()
	axes := m.Axes()
	seen := map[string]struct{}{}
	for i, v := range m.Variants() {
		if len(v.OptionValues) != len(axes) {
			t.Fatalf("variant %d has %d values for %d axes", i, len(v.OptionValues), len(axes))
		}
		for pos, value := range v.OptionValues {
			if axes[pos].indexOf(value) < 0 {
				t.Fatalf("variant %d holds %q which is not on axis %q", i, value, axes[pos].Name)
			}
		}
		key := tupleKey(v.OptionValues)
		if _, ok := seen[key]; ok {
			t.Fatalf("duplicate variant tuple %v", v.OptionValues)
		}
		seen[key] = struct{}{}
	}
}

func TestParseAxisValues(t *testing.T) {
	got := ParseAxisValues(" 250g, 500g,,500g , 1kg ,")
	want := []string{"250g", "500g", "1kg"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	if len(ParseAxisValues(" , ,")) != 0 {
		t.Fatal("expected no values from blank input")
	}
}

func TestAddAxis(t *testing.T) {
	t.Run("seeds one variant per value", func(t *testing.T) {
		var m Matrix
		if !m.AddAxis("Size", "250g,500g,1kg") {
			t.Fatal("expected axis to be added")
		}
		want := [][]string{{"250g"}, {"500g"}, {"1kg"}}
		if got := tuples(&m); !reflect.DeepEqual(got, want) {
			t.Fatalf("expected %v, got %v", want, got)
		}
	})

	t.Run("rejects empty name or values", func(t *testing.T) {
		var m Matrix
		if m.AddAxis("  ", "a,b") {
			t.Fatal("expected blank name to be rejected")
		}
		if m.AddAxis("Size", " , ") {
			t.Fatal("expected empty value list to be rejected")
		}
		if len(m.Axes()) != 0 || m.Len() != 0 {
			t.Fatalf("expected untouched matrix, got %d axes %d variants", len(m.Axes()), m.Len())
		}
	})

	t.Run("replicates existing variants and keeps their fields", func(t *testing.T) {
		var m Matrix
		m.AddAxis("Size", "500g,1kg")
		m.UpdateVariant(0, VariantPatch{Price: decPtr("10"), SKU: strPtr("S-500")})
		m.AddVariantTier(1)

		if !m.AddAxis("Flavor", "Vanilla,Cocoa,Mint") {
			t.Fatal("expected second axis to be added")
		}
		if m.Len() != 6 {
			t.Fatalf("expected 2x3 variants, got %d", m.Len())
		}
		assertMatrixInvariant(t, &m)

		for _, v := range m.Variants() {
			switch v.OptionValues[0] {
			case "500g":
				if !v.Price.Equal(dec("10")) || v.SKU != "S-500" {
					t.Fatalf("expected 500g replicas to keep price and sku, got %s %q", v.Price, v.SKU)
				}
			case "1kg":
				if len(v.Tiers) != 1 {
					t.Fatalf("expected 1kg replicas to keep their pack, got %d", len(v.Tiers))
				}
			}
		}
	})

	t.Run("replicas do not share tiers", func(t *testing.T) {
		var m Matrix
		m.AddAxis("Size", "500g")
		m.AddVariantTier(0)
		m.AddAxis("Flavor", "A,B")

		m.UpdateVariantTier(0, 0, TierPatch{Price: decPtr("7")})
		second, _ := m.Variant(1)
		if !second.Tiers[0].Price.IsZero() {
			t.Fatalf("expected replica tier to be independent, got %s", second.Tiers[0].Price)
		}
	})
}

func TestMatrixCompletenessProperty(t *testing.T) {
	for existing := 1; existing <= 4; existing++ {
		for added := 1; added <= 4; added++ {
			var m Matrix
			m.AddAxis("A", csvValues("a", existing))
			m.AddAxis("B", csvValues("b", added))
			if m.Len() != existing*added {
				t.Fatalf("expected %d variants for %dx%d, got %d", existing*added, existing, added, m.Len())
			}
		}
	}
}

func TestMoveAxis(t *testing.T) {
	var m Matrix
	m.AddAxis("Size", "S,M")
	m.AddAxis("Color", "Red,Blue")
	before := m.Variants()

	if !m.MoveAxis(1, MoveUp) {
		t.Fatal("expected axis to move")
	}
	axes := m.Axes()
	if axes[0].Name != "Color" || axes[1].Name != "Size" {
		t.Fatalf("unexpected axis order %v", axes)
	}
	for i, v := range m.Variants() {
		if v.OptionValues[0] != before[i].OptionValues[1] || v.OptionValues[1] != before[i].OptionValues[0] {
			t.Fatalf("variant %d not permuted: %v vs %v", i, v.OptionValues, before[i].OptionValues)
		}
	}
	assertMatrixInvariant(t, &m)

	if m.MoveAxis(0, MoveUp) {
		t.Fatal("expected move beyond the front to be rejected")
	}
	if m.MoveAxis(1, MoveDown) {
		t.Fatal("expected move beyond the back to be rejected")
	}
	if m.MoveAxis(0, Direction(2)) {
		t.Fatal("expected invalid direction to be rejected")
	}
}

func TestRemoveAxis(t *testing.T) {
	t.Run("deduplicates projected tuples keeping the first", func(t *testing.T) {
		var m Matrix
		m.AddAxis("Size", "S,M")
		m.AddAxis("Color", "Red,Blue")
		m.UpdateVariant(0, VariantPatch{Price: decPtr("5")})
		m.UpdateVariant(1, VariantPatch{Price: decPtr("6")})

		if !m.RemoveAxis(1) {
			t.Fatal("expected axis removal")
		}
		want := [][]string{{"S"}, {"M"}}
		if got := tuples(&m); !reflect.DeepEqual(got, want) {
			t.Fatalf("expected %v, got %v", want, got)
		}
		first, _ := m.Variant(0)
		if !first.Price.Equal(dec("5")) {
			t.Fatalf("expected first occurrence to win, got %s", first.Price)
		}
	})

	t.Run("removing the last axis clears the variants", func(t *testing.T) {
		var m Matrix
		m.AddAxis("Size", "S,M")
		m.RemoveAxis(0)
		if m.Len() != 0 || len(m.Axes()) != 0 {
			t.Fatalf("expected empty matrix, got %d axes %d variants", len(m.Axes()), m.Len())
		}
	})

	t.Run("rejects out of range", func(t *testing.T) {
		var m Matrix
		if m.RemoveAxis(0) {
			t.Fatal("expected rejection on empty matrix")
		}
	})
}

func TestAddValue(t *testing.T) {
	t.Run("expands each distinct slice once", func(t *testing.T) {
		var m Matrix
		m.AddAxis("Size", "S,M")
		m.AddAxis("Color", "Red,Blue")
		m.UpdateVariant(2, VariantPatch{Price: decPtr("12")}) // M/Red

		if !m.AddValue(0, "L") {
			t.Fatal("expected value to be added")
		}
		if m.Len() != 6 {
			t.Fatalf("expected 6 variants, got %d", m.Len())
		}
		assertMatrixInvariant(t, &m)

		added := m.Variants()[4:]
		if !reflect.DeepEqual(added[0].OptionValues, []string{"L", "Red"}) {
			t.Fatalf("unexpected synthesized tuple %v", added[0].OptionValues)
		}
		if !added[0].Price.IsZero() {
			t.Fatalf("expected template from first matching variant (S/Red), got price %s", added[0].Price)
		}
	})

	t.Run("rejects duplicates and blanks", func(t *testing.T) {
		var m Matrix
		m.AddAxis("Size", "S")
		if m.AddValue(0, "S") || m.AddValue(0, "  ") || m.AddValue(3, "X") {
			t.Fatal("expected rejection")
		}
		if m.Len() != 1 {
			t.Fatalf("expected unchanged matrix, got %d variants", m.Len())
		}
	})

	t.Run("value match is case sensitive", func(t *testing.T) {
		var m Matrix
		m.AddAxis("Size", "s")
		if !m.AddValue(0, "S") {
			t.Fatal("expected different case to be accepted")
		}
	})

	t.Run("synthesized tiers are copies", func(t *testing.T) {
		var m Matrix
		m.AddAxis("Size", "S")
		m.AddVariantTier(0)
		m.AddValue(0, "M")
		m.UpdateVariantTier(1, 0, TierPatch{Price: decPtr("3")})
		first, _ := m.Variant(0)
		if !first.Tiers[0].Price.IsZero() {
			t.Fatalf("expected template tiers untouched, got %s", first.Tiers[0].Price)
		}
	})
}

func TestTupleKeysDoNotCollide(t *testing.T) {
	// "x\x1fy"+"z" and "x"+"y\x1fz" join to the same string under a separator-based key.
	build := func() *Matrix {
		var m Matrix
		m.AddAxis("A", "x\x1fy,x")
		m.AddAxis("B", "z,y\x1fz")
		m.AddAxis("C", "c")
		if m.Len() != 4 {
			t.Fatalf("expected 4 variants, got %d", m.Len())
		}
		return &m
	}

	if tupleKey([]string{"x\x1fy", "z"}) == tupleKey([]string{"x", "y\x1fz"}) {
		t.Fatal("expected distinct keys for distinct tuples")
	}

	m := build()
	if !m.AddValue(2, "d") {
		t.Fatal("expected value to be added")
	}
	if m.Len() != 8 {
		t.Fatalf("expected 8 variants after AddValue, got %d", m.Len())
	}
	assertMatrixInvariant(t, m)

	m = build()
	if !m.RemoveAxis(2) {
		t.Fatal("expected axis removal")
	}
	if m.Len() != 4 {
		t.Fatalf("expected 4 variants after RemoveAxis, got %d", m.Len())
	}
	assertMatrixInvariant(t, m)

	seeded, dropped := NewMatrix(m.Axes(), m.Variants())
	if dropped != 0 || seeded.Len() != 4 {
		t.Fatalf("expected seed to keep 4 variants, kept %d dropped %d", seeded.Len(), dropped)
	}
}

func TestRenameValue(t *testing.T) {
	var m Matrix
	m.AddAxis("Size", "S,M")
	m.AddAxis("Color", "Red,Blue")
	m.UpdateVariant(1, VariantPatch{Price: decPtr("9")})
	before := m.Variants()

	if !m.RenameValue(1, 0, "Crimson") {
		t.Fatal("expected rename")
	}
	after := m.Variants()
	if len(after) != len(before) {
		t.Fatalf("expected %d variants, got %d", len(before), len(after))
	}
	for i := range after {
		want := before[i].Clone()
		if want.OptionValues[1] == "Red" {
			want.OptionValues[1] = "Crimson"
		}
		if !reflect.DeepEqual(after[i], want) {
			t.Fatalf("variant %d changed beyond rename: %+v vs %+v", i, after[i], want)
		}
	}

	if m.RenameValue(1, 0, "Crimson") {
		t.Fatal("expected unchanged rename to be rejected")
	}
	if m.RenameValue(1, 0, "Blue") {
		t.Fatal("expected colliding rename to be rejected")
	}
	if m.RenameValue(1, 0, " ") {
		t.Fatal("expected blank rename to be rejected")
	}
}

func TestValueRemoval(t *testing.T) {
	t.Run("deletes exactly the holding variants", func(t *testing.T) {
		var m Matrix
		m.AddAxis("Size", "S,M,L")
		m.AddAxis("Color", "Red,Blue")

		plan, ok := m.PrepareValueRemoval(0, 1)
		if !ok {
			t.Fatal("expected plan")
		}
		if plan.Value != "M" || plan.AffectedVariants != 2 || plan.RemovesAxis {
			t.Fatalf("unexpected plan %+v", plan)
		}
		if m.Len() != 6 {
			t.Fatal("prepare must not mutate")
		}

		if !m.ApplyValueRemoval(plan) {
			t.Fatal("expected removal")
		}
		if m.Len() != 4 {
			t.Fatalf("expected 4 variants, got %d", m.Len())
		}
		for _, v := range m.Variants() {
			if v.OptionValues[0] == "M" {
				t.Fatalf("variant %v should have been deleted", v.OptionValues)
			}
		}
		assertMatrixInvariant(t, &m)
	})

	t.Run("stale plan is rejected", func(t *testing.T) {
		var m Matrix
		m.AddAxis("Size", "S,M")
		plan, _ := m.PrepareValueRemoval(0, 0)
		m.RenameValue(0, 0, "XS")
		if m.ApplyValueRemoval(plan) {
			t.Fatal("expected stale plan rejection")
		}
		if m.Len() != 2 {
			t.Fatalf("expected no deletion, got %d variants", m.Len())
		}
	})

	t.Run("last value removes the axis", func(t *testing.T) {
		var m Matrix
		m.AddAxis("Size", "S,M")
		m.AddAxis("Color", "Red")

		plan, _ := m.PrepareValueRemoval(1, 0)
		if !plan.RemovesAxis || plan.AffectedVariants != 2 {
			t.Fatalf("unexpected plan %+v", plan)
		}
		m.ApplyValueRemoval(plan)
		if len(m.Axes()) != 1 || m.Len() != 0 {
			t.Fatalf("expected one axis and no variants, got %d axes %d variants", len(m.Axes()), m.Len())
		}
	})
}

func TestUpdateVariant(t *testing.T) {
	var m Matrix
	m.AddAxis("Size", "S,M")

	if !m.UpdateVariant(0, VariantPatch{Price: decPtr("4.5"), StockQuantity: intPtr(3)}) {
		t.Fatal("expected update")
	}
	v, _ := m.Variant(0)
	if !v.Price.Equal(dec("4.5")) || *v.StockQuantity != 3 {
		t.Fatalf("unexpected variant %+v", v)
	}

	if m.UpdateVariant(0, VariantPatch{Price: decPtr("-1")}) {
		t.Fatal("expected negative price rejection")
	}

	m.AddVariantTier(1)
	if m.UpdateVariant(1, VariantPatch{Price: decPtr("99")}) {
		t.Fatal("expected price edit on a variant with packs to be ignored")
	}
	if !m.UpdateVariant(1, VariantPatch{Price: decPtr("99"), SKU: strPtr(" M-1 ")}) {
		t.Fatal("expected sku to apply")
	}
	v, _ = m.Variant(1)
	if !v.Price.IsZero() || v.SKU != "M-1" {
		t.Fatalf("expected price untouched and sku trimmed, got %s %q", v.Price, v.SKU)
	}
}

func TestCopyVariantTiers(t *testing.T) {
	var m Matrix
	m.AddAxis("Size", "S,M")
	m.AddVariantTier(0)
	m.AddVariantTier(0)

	if !m.CopyVariantTiers(1, 0) {
		t.Fatal("expected copy")
	}
	if m.CopyVariantTiers(1, 0) {
		t.Fatal("expected copy onto non-empty target to be refused")
	}
	m.UpdateVariantTier(1, 0, TierPatch{Price: decPtr("2")})
	source, _ := m.Variant(0)
	if !source.Tiers[0].Price.IsZero() {
		t.Fatal("copied tiers must not alias the source")
	}
}

func TestNewMatrixNormalisesSeed(t *testing.T) {
	axes := []OptionAxis{
		{Name: " Size ", Values: []string{"S", " M", "S"}},
		{Name: "Empty", Values: []string{" "}},
	}
	variants := []Variant{
		{OptionValues: []string{"S", ""}},
		{OptionValues: []string{"M", ""}},
		{OptionValues: []string{"S", "x"}},
		{OptionValues: []string{"XL", ""}},
		{OptionValues: []string{"S"}},
	}
	m, dropped := NewMatrix(axes, variants)
	if dropped != 3 {
		t.Fatalf("expected 3 dropped rows, got %d", dropped)
	}
	if got := tuples(m); !reflect.DeepEqual(got, [][]string{{"S"}, {"M"}}) {
		t.Fatalf("unexpected tuples %v", got)
	}
	if m.Axes()[0].Name != "Size" {
		t.Fatalf("expected trimmed axis name, got %q", m.Axes()[0].Name)
	}
}

func TestMatrixUniquenessUnderRandomEdits(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	for run := 0; run < 50; run++ {
		var m Matrix
		for step := 0; step < 40; step++ {
			axes := m.Axes()
			switch rng.Intn(6) {
			case 0:
				m.AddAxis(fmt.Sprintf("axis-%d", step), csvValues("v", 1+rng.Intn(3)))
			case 1:
				if len(axes) > 0 {
					m.AddValue(rng.Intn(len(axes)), fmt.Sprintf("n%d", rng.Intn(5)))
				}
			case 2:
				if len(axes) > 0 {
					axis := rng.Intn(len(axes))
					if plan, ok := m.PrepareValueRemoval(axis, rng.Intn(len(axes[axis].Values))); ok {
						before := m.Len()
						m.ApplyValueRemoval(plan)
						if m.Len() != before-plan.AffectedVariants {
							t.Fatalf("removal deleted %d rows, plan said %d", before-m.Len(), plan.AffectedVariants)
						}
					}
				}
			case 3:
				if len(axes) > 0 {
					axis := rng.Intn(len(axes))
					m.RenameValue(axis, rng.Intn(len(axes[axis].Values)), fmt.Sprintf("r%d", rng.Intn(5)))
				}
			case 4:
				if len(axes) > 1 {
					m.MoveAxis(rng.Intn(len(axes)), MoveDown)
				}
			case 5:
				if len(axes) > 0 && rng.Intn(4) == 0 {
					m.RemoveAxis(rng.Intn(len(axes)))
				}
			}
			assertMatrixInvariant(t, &m)
		}
	}
}

func csvValues(prefix string, n int) string {
	out := ""
	for i := 0; i < n; i++ {
		if i > 0 {
			out += ","
		}
		out += fmt.Sprintf("%s%d", prefix, i)
	}
	return out
}

func strPtr(v string) *string {
	return &v
}
