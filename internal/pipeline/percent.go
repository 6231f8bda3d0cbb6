package pipeline

// stageWeights maps each running stage to its [from, to] share of the
// overall progress bar.
var stageWeights = map[State][2]float64{
	FetchingMetadata: {0, 5},
	Downloading:      {5, 50},
	Splitting:        {50, 85},
	Tagging:          {85, 100},
}

// Percent returns the overall progress for being fraction of the way
// through state. Fractions outside [0, 1] are clamped. Complete is always
// 100; Idle, Failed and Cancelled report 0, and callers keep the last
// published value for those.
func Percent(state State, fraction float64) float64 {
	if state == Complete {
		return 100
	}
	w, ok := stageWeights[state]
	if !ok {
		return 0
	}
	switch {
	case fraction < 0:
		fraction = 0
	case fraction > 1:
		fraction = 1
	}
	return w[0] + (w[1]-w[0])*fraction
}
