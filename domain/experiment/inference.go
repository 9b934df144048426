package experiment

import "sort"

// IndependentVariables maps a label to the distinct values it takes across
// groups. Only labels with more than one distinct value are present.
type IndependentVariables map[Label][]Value

// InferIndependentVariables finds the labels whose value is not constant
// across groups. Category is not part of the key: a label contributes its
// values from whichever category holds it. Null counts as a value.
//
// Values are listed in first-seen order, walking groups in the given order
// (groups of d missing from order follow, sorted).
func InferIndependentVariables(d Data, order []GroupName) IndependentVariables {
	seen := make(map[Label]map[Value]struct{})
	values := make(map[Label][]Value)

	visit := func(_ GroupName, _ Category, label Label, v Value) {
		set, ok := seen[label]
		if !ok {
			set = make(map[Value]struct{})
			seen[label] = set
		}
		if _, dup := set[v]; dup {
			return
		}
		set[v] = struct{}{}
		values[label] = append(values[label], v)
	}

	visited := make(map[GroupName]bool, len(d))
	for _, g := range order {
		if visited[g] {
			continue
		}
		visited[g] = true
		if _, ok := d[g]; ok {
			d.walkGroup(g, visit)
		}
	}
	for _, g := range d.Groups() {
		if !visited[g] {
			d.walkGroup(g, visit)
		}
	}

	out := make(IndependentVariables)
	for label, vals := range values {
		if len(vals) > 1 {
			out[label] = vals
		}
	}
	return out
}

// Labels returns the independent labels sorted.
func (iv IndependentVariables) Labels() []Label {
	out := make([]Label, 0, len(iv))
	for l := range iv {
		out = append(out, l)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Strings returns the values of label as text; null values become "".
func (iv IndependentVariables) Strings(label Label) []string {
	vals := iv[label]
	out := make([]string, len(vals))
	for i, v := range vals {
		out[i] = v.Text()
	}
	return out
}

// Clone returns a deep copy.
func (iv IndependentVariables) Clone() IndependentVariables {
	out := make(IndependentVariables, len(iv))
	for l, vals := range iv {
		out[l] = append([]Value(nil), vals...)
	}
	return out
}
