package predictor

import (
	"fmt"
	"math"
	"math/rand"
)

type activation int

const (
	actReLU activation = iota
	actSigmoid
	actLinear
)

// layer is one dense layer: out = act(W*in + b).
type layer struct {
	weights [][]float64 // [out][in]
	biases  []float64
	act     activation
}

// Params holds the weights for all three scoring networks. A Params value is
// immutable after construction; retraining swaps the whole pointer so readers
// never observe a half-updated set.
type Params struct {
	Version     string
	performance []layer // 40 -> 64 -> 32 -> 16 -> 4, sigmoid head
	anomaly     []layer // 4 -> 32 -> 16 -> 8 -> 16 -> 32 -> 4 autoencoder
	cost        []layer // 8 -> 48 -> 24 -> 12 -> 1, linear head
}

// NewParams builds a deterministic parameter set from the given seed.
func NewParams(seed int64) *Params {
	rng := rand.New(rand.NewSource(seed))

	return &Params{
		Version:     fmt.Sprintf("seed-%d", seed),
		performance: buildNetwork(rng, []int{40, 64, 32, 16, 4}, actSigmoid),
		anomaly:     buildNetwork(rng, []int{4, 32, 16, 8, 16, 32, 4}, actSigmoid),
		cost:        buildNetwork(rng, []int{8, 48, 24, 12, 1}, actLinear),
	}
}

// buildNetwork creates dense layers with Xavier-scaled weights. Hidden layers
// use ReLU; the final layer uses the given head activation.
func buildNetwork(rng *rand.Rand, sizes []int, head activation) []layer {
	layers := make([]layer, 0, len(sizes)-1)

	for i := 0; i < len(sizes)-1; i++ {
		in, out := sizes[i], sizes[i+1]
		scale := math.Sqrt(2.0 / float64(in+out))

		weights := make([][]float64, out)
		for o := range weights {
			row := make([]float64, in)
			for j := range row {
				row[j] = rng.NormFloat64() * scale
			}
			weights[o] = row
		}

		biases := make([]float64, out)

		act := actReLU
		if i == len(sizes)-2 {
			act = head
		}

		layers = append(layers, layer{weights: weights, biases: biases, act: act})
	}

	return layers
}

func (l layer) forward(in []float64) ([]float64, error) {
	out := make([]float64, len(l.weights))

	for o, row := range l.weights {
		if len(row) != len(in) {
			return nil, fmt.Errorf("layer expects %d inputs, got %d", len(row), len(in))
		}

		sum := l.biases[o]
		for j, w := range row {
			sum += w * in[j]
		}
		out[o] = apply(l.act, sum)
	}

	return out, nil
}

func apply(act activation, x float64) float64 {
	switch act {
	case actReLU:
		return math.Max(0, x)
	case actSigmoid:
		return 1.0 / (1.0 + math.Exp(-x))
	default:
		return x
	}
}

// forward runs the input through every layer in order.
func forward(layers []layer, in []float64) ([]float64, error) {
	out := in
	var err error
	for i := range layers {
		out, err = layers[i].forward(out)
		if err != nil {
			return nil, err
		}
	}

	for _, v := range out {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, fmt.Errorf("scoring produced a non-finite output")
		}
	}

	return out, nil
}
