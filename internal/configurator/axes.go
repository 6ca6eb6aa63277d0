package configurator

import "strings"

// OptionAxis is one named dimension of variation (e.g. Size) with ordered, unique values.
type OptionAxis struct {
	Name   string   `json:"name"`
	Values []string `json:"values"`
}

// Direction moves an axis towards the front (MoveUp) or back (MoveDown) of the axis list.
type Direction int

const (
	MoveUp   Direction = -1
	MoveDown Direction = 1
)

func (a OptionAxis) clone() OptionAxis {
	return OptionAxis{Name: a.Name, Values: append([]string(nil), a.Values...)}
}

func (a OptionAxis) indexOf(value string) int {
	for i, candidate := range a.Values {
		if candidate == value {
			return i
		}
	}
	return -1
}

// ParseAxisValues splits a comma separated list into trimmed, non-empty, unique values,
// keeping the first occurrence of each.
func ParseAxisValues(raw string) []string {
	return uniqueValues(strings.Split(raw, ","))
}

func uniqueValues(parts []string) []string {
	seen := make(map[string]struct{}, len(parts))
	values := make([]string, 0, len(parts))
	for _, part := range parts {
		value := strings.TrimSpace(part)
		if value == "" {
			continue
		}
		if _, ok := seen[value]; ok {
			continue
		}
		seen[value] = struct{}{}
		values = append(values, value)
	}
	return values
}

// AddAxis appends an axis and grows the matrix by the Cartesian product with its values.
// Existing variants are replicated once per new value with every other field copied.
func (m *Matrix) AddAxis(name, rawValues string) bool {
	name = strings.TrimSpace(name)
	values := ParseAxisValues(rawValues)
	if name == "" || len(values) == 0 {
		return false
	}

	m.axes = append(m.axes, OptionAxis{Name: name, Values: values})
	if len(m.variants) == 0 {
		m.reseed()
		return true
	}

	expanded := make([]Variant, 0, len(m.variants)*len(values))
	for _, variant := range m.variants {
		for _, value := range values {
			replica := variant.Clone()
			replica.OptionValues = append(replica.OptionValues, value)
			expanded = append(expanded, replica)
		}
	}
	m.variants = expanded
	return true
}

// MoveAxis swaps the axis at index with its neighbour and permutes every tuple in lockstep.
func (m *Matrix) MoveAxis(index int, dir Direction) bool {
	if dir != MoveUp && dir != MoveDown {
		return false
	}
	target := index + int(dir)
	if index < 0 || index >= len(m.axes) || target < 0 || target >= len(m.axes) {
		return false
	}

	m.axes[index], m.axes[target] = m.axes[target], m.axes[index]
	for i := range m.variants {
		values := m.variants[i].OptionValues
		values[index], values[target] = values[target], values[index]
	}
	return true
}

// RemoveAxis drops the axis, projects every tuple without it and keeps the first variant
// of each projected tuple.
func (m *Matrix) RemoveAxis(index int) bool {
	if index < 0 || index >= len(m.axes) {
		return false
	}

	m.axes = append(m.axes[:index:index], m.axes[index+1:]...)
	if len(m.axes) == 0 {
		m.variants = []Variant{}
		return true
	}

	seen := make(map[string]struct{}, len(m.variants))
	kept := make([]Variant, 0, len(m.variants))
	for _, variant := range m.variants {
		variant.OptionValues = dropAt(variant.OptionValues, index)
		key := tupleKey(variant.OptionValues)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		kept = append(kept, variant)
	}
	m.variants = kept
	return true
}

// reseed rebuilds an empty matrix from the full Cartesian product of the current axes.
func (m *Matrix) reseed() {
	tuples := [][]string{{}}
	for _, axis := range m.axes {
		next := make([][]string, 0, len(tuples)*len(axis.Values))
		for _, tuple := range tuples {
			for _, value := range axis.Values {
				combined := make([]string, len(tuple), len(tuple)+1)
				copy(combined, tuple)
				next = append(next, append(combined, value))
			}
		}
		tuples = next
	}

	m.variants = make([]Variant, 0, len(tuples))
	for _, tuple := range tuples {
		if len(tuple) == 0 {
			continue
		}
		m.variants = append(m.variants, newVariant(tuple))
	}
}

func dropAt(values []string, index int) []string {
	out := make([]string, 0, len(values))
	for i, value := range values {
		if i == index {
			continue
		}
		out = append(out, value)
	}
	return out
}
