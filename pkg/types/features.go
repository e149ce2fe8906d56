package types

// FeatureVector is an ordered set of named model features. Names follows the
// predictor's declared schema and Values is always the same length.
type FeatureVector struct {
	Names  []string  `json:"names"`
	Values []float64 `json:"values"`
}

// Map returns the features keyed by name.
func (v FeatureVector) Map() map[string]float64 {
	m := make(map[string]float64, len(v.Names))
	for i, n := range v.Names {
		m[n] = v.Values[i]
	}
	return m
}
