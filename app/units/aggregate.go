package units

type Observation struct {
	Quantity float64 `json:"quantity" yaml:"quantity"`
	Unit     string  `json:"unit" yaml:"unit"`
}

type AggregatedQuantity struct {
	Quantity    float64 `json:"quantity" yaml:"quantity"`
	Unit        string  `json:"unit" yaml:"unit"`
	IsConverted bool    `json:"is_converted" yaml:"is_converted"`
}

// AggregateQuantities merges observations of one ingredient. Volume and weight
// collapse into a single entry expressed in the most frequent unit; count and
// other units are summed per normalized spelling. Categories never merge with
// each other. Output follows first-seen order of categories and units.
func AggregateQuantities(observations []Observation) []AggregatedQuantity {
	if len(observations) == 0 {
		return nil
	}

	var order []Category
	groups := make(map[Category][]Observation)
	for _, o := range observations {
		c := CategoryOf(o.Unit)
		if _, ok := groups[c]; !ok {
			order = append(order, c)
		}
		groups[c] = append(groups[c], o)
	}

	var results []AggregatedQuantity
	for _, c := range order {
		group := groups[c]
		if c == Count || c == Other {
			results = append(results, sumByUnit(group)...)
		} else {
			results = append(results, convertToMajority(group))
		}
	}

	return results
}

func sumByUnit(group []Observation) []AggregatedQuantity {
	var order []string
	totals := make(map[string]float64)

	for _, o := range group {
		unit := Normalize(o.Unit)
		if _, ok := totals[unit]; !ok {
			order = append(order, unit)
		}
		totals[unit] += o.Quantity
	}

	results := make([]AggregatedQuantity, 0, len(order))
	for _, unit := range order {
		results = append(results, AggregatedQuantity{
			Quantity: totals[unit],
			Unit:     unit,
		})
	}
	return results
}

func convertToMajority(group []Observation) AggregatedQuantity {
	target := majorityUnit(group)

	total := 0.0
	converted := false
	for _, o := range group {
		v, ok := Convert(o.Quantity, o.Unit, target)
		if !ok {
			continue
		}
		total += v
		if Normalize(o.Unit) != target {
			converted = true
		}
	}

	return AggregatedQuantity{
		Quantity:    total,
		Unit:        target,
		IsConverted: converted,
	}
}

// majorityUnit picks the most frequent normalized unit; ties go to the one seen first.
func majorityUnit(group []Observation) string {
	var order []string
	counts := make(map[string]int)

	for _, o := range group {
		unit := Normalize(o.Unit)
		if _, ok := counts[unit]; !ok {
			order = append(order, unit)
		}
		counts[unit]++
	}

	best := ""
	bestCount := 0
	for _, unit := range order {
		if counts[unit] > bestCount {
			best, bestCount = unit, counts[unit]
		}
	}
	return best
}
