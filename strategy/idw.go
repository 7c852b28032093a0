package strategy

import "math"

// IDW is inverse distance weighting: the prediction is the weighted average
// of all training values with weights 1/dist^Power. A query coinciding with
// a training coordinate returns that training value exactly.
type IDW struct {
	// Power is the distance exponent. Zero means the default of 2.
	Power float64
}

const idwExactTol = 1e-12

// Fit implements Strategy.
func (s IDW) Fit(coords, values [][]float64) (Predictor, error) {
	dim, width, err := checkTraining(coords, values)
	if err != nil {
		return nil, err
	}
	power := s.Power
	if power == 0 {
		power = 2
	}
	return &idwPredictor{
		dim:    dim,
		width:  width,
		power:  power,
		coords: cloneRows(coords),
		values: cloneRows(values),
	}, nil
}

type idwPredictor struct {
	dim    int
	width  int
	power  float64
	coords [][]float64
	values [][]float64
}

func (p *idwPredictor) Predict(query []float64) ([]float64, error) {
	if err := checkQuery(query, p.dim); err != nil {
		return nil, err
	}

	out := make([]float64, p.width)
	var total float64
	for i, c := range p.coords {
		dist := euclidean(query, c)
		if dist < idwExactTol {
			copy(out, p.values[i])
			return out, nil
		}
		w := 1 / math.Pow(dist, p.power)
		total += w
		for j, v := range p.values[i] {
			out[j] += w * v
		}
	}
	for j := range out {
		out[j] /= total
	}
	return out, nil
}
