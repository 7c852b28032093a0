package strategy

// Nearest is a nearest-neighbor strategy: prediction returns the value of
// the training coordinate closest to the query (ties broken by input order).
type Nearest struct{}

// Fit implements Strategy.
func (Nearest) Fit(coords, values [][]float64) (Predictor, error) {
	dim, _, err := checkTraining(coords, values)
	if err != nil {
		return nil, err
	}
	return &nearestPredictor{
		dim:    dim,
		coords: cloneRows(coords),
		values: cloneRows(values),
	}, nil
}

type nearestPredictor struct {
	dim    int
	coords [][]float64
	values [][]float64
}

func (p *nearestPredictor) Predict(query []float64) ([]float64, error) {
	if err := checkQuery(query, p.dim); err != nil {
		return nil, err
	}
	best := 0
	bestDist := euclidean(query, p.coords[0])
	for i := 1; i < len(p.coords); i++ {
		if d := euclidean(query, p.coords[i]); d < bestDist {
			best, bestDist = i, d
		}
	}
	return append([]float64(nil), p.values[best]...), nil
}
