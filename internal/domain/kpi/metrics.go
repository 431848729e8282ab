package kpi

import (
	"cmp"
	"slices"

	"github.com/okian/painel/internal/domain/model"
	"github.com/okian/painel/internal/domain/types"
)

func matches(t model.Table, indicator string, exclude []string) []model.Row {
	ind := model.NormText(indicator)
	skip := make(map[string]struct{}, len(exclude))
	for _, e := range exclude {
		skip[model.NormText(e)] = struct{}{}
	}
	var out []model.Row
	for _, r := range t {
		if r.Indicator != ind {
			continue
		}
		if _, ok := skip[r.Responsible]; ok {
			continue
		}
		out = append(out, r)
	}
	return out
}

// ValueOf returns the value of the last row matching indicator and, when
// responsible is not empty, that responsible. A miss is None.
func ValueOf(t model.Table, indicator, responsible string) types.Num {
	ind := model.NormText(indicator)
	resp := model.NormText(responsible)
	for i := len(t) - 1; i >= 0; i-- {
		r := t[i]
		if r.Indicator != ind {
			continue
		}
		if resp != "" && r.Responsible != resp {
			continue
		}
		return r.Value
	}
	return types.None()
}

// Total returns the indicator total. A row for prefer wins outright, even
// when its value is null; otherwise the numeric values of the remaining rows
// are summed. No numeric value at all is None.
func Total(t model.Table, indicator, prefer string, exclude ...string) types.Num {
	rows := matches(t, indicator, exclude)
	if len(rows) == 0 {
		return types.None()
	}
	if p := model.NormText(prefer); p != "" {
		for i := len(rows) - 1; i >= 0; i-- {
			if rows[i].Responsible == p {
				return rows[i].Value
			}
		}
	}
	sum, found := 0.0, false
	for _, r := range rows {
		if v, ok := r.Value.Get(); ok {
			sum += v
			found = true
		}
	}
	if !found {
		return types.None()
	}
	return types.Some(sum)
}

// PerPerson lists one item per responsible with a numeric value. Rows with
// null values are dropped.
func PerPerson(t model.Table, indicator string, exclude ...string) []types.Item {
	rows := matches(t, indicator, exclude)
	out := make([]types.Item, 0, len(rows))
	for _, r := range rows {
		if v, ok := r.Value.Get(); ok {
			out = append(out, types.Item{Name: r.Responsible, Value: v})
		}
	}
	return out
}

func byValueDesc(a, b types.Item) int { return cmp.Compare(b.Value, a.Value) }

func sumOf(items []types.Item) float64 {
	s := 0.0
	for _, it := range items {
		s += it.Value
	}
	return s
}

func withPercent(items []types.Item, total float64) []types.Item {
	out := make([]types.Item, len(items))
	for i, it := range items {
		it.Percent = 0
		if total != 0 {
			it.Percent = it.Value / total * 100
		}
		out[i] = it
	}
	return out
}

// SharesOf sets each item's percent of the group total (0 when the total is
// 0) and sorts by value, highest first.
func SharesOf(items []types.Item) []types.Item {
	if len(items) == 0 {
		return []types.Item{}
	}
	out := withPercent(items, sumOf(items))
	slices.SortStableFunc(out, byValueDesc)
	return out
}

// TopNWithOthers keeps the n highest items and folds the rest into one item
// named label. Percents are recomputed over the new total. A zero remainder
// is dropped. With n <= 0 or no more than n items the input is returned as is.
func TopNWithOthers(items []types.Item, n int, label string) []types.Item {
	if n <= 0 || len(items) <= n {
		return items
	}
	sorted := slices.Clone(items)
	slices.SortStableFunc(sorted, byValueDesc)
	top, rest := sorted[:n], sorted[n:]
	restValue := sumOf(rest)
	if restValue <= 0 {
		return withPercent(top, sumOf(top))
	}
	if label == "" {
		label = DefaultOthersLabel
	}
	merged := append(slices.Clone(top), types.Item{Name: label, Value: restValue})
	return withPercent(merged, sumOf(merged))
}
