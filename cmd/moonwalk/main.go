// Copyright 2026 Moonwalk ML. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Command moonwalk trains a tiny two-layer network on the two-moons dataset
// and renders its decision boundary.
//
// The whole pipeline runs on the framework: synthetic data generation,
// tape-based autodiff, batch gradient descent, and plotting.
//
//	go run ./cmd/moonwalk -epochs 20000 -hidden 3 -out boundary.svg
package main

import (
	"flag"
	"fmt"
	"log"
	"math/rand"

	"github.com/moonwalk-ml/moonwalk/autodiff"
	"github.com/moonwalk-ml/moonwalk/backend/cpu"
	"github.com/moonwalk-ml/moonwalk/internal/dataset"
	"github.com/moonwalk-ml/moonwalk/internal/plot"
	"github.com/moonwalk-ml/moonwalk/nn"
	"github.com/moonwalk-ml/moonwalk/optim"
	"github.com/moonwalk-ml/moonwalk/tensor"
)

// B is the backend the walkthrough trains on: CPU kernels wrapped by the
// autodiff decorator.
type B = *autodiff.Backend[*cpu.Backend]

func main() {
	n := flag.Int("n", 200, "Number of two-moons samples")
	noise := flag.Float64("noise", 0.20, "Gaussian noise added to each sample")
	hidden := flag.Int("hidden", 3, "Hidden layer width")
	epochs := flag.Int("epochs", 20000, "Training epochs (full-batch)")
	lr := flag.Float64("lr", 0.01, "Learning rate for SGD")
	lambda := flag.Float64("lambda", 0.01, "L2 regularization strength")
	seed := flag.Int64("seed", 42, "Random seed for data and weight init")
	every := flag.Int("every", 1000, "Print (and record) loss every N epochs")
	out := flag.String("out", "boundary.svg", "Decision boundary image (.svg/.png/.pdf)")
	lossOut := flag.String("loss", "", "Optional loss curve image path")
	dotOut := flag.String("dot", "", "Optional Graphviz DOT export of the computation graph")
	flag.Parse()

	if *every < 1 {
		*every = 1
	}

	rng := rand.New(rand.NewSource(*seed))

	backend := autodiff.New(cpu.New())

	fmt.Printf("Generating %d two-moons samples (noise=%.2f, seed=%d)\n", *n, *noise, *seed)
	set := dataset.Moons(*n, *noise, rng)
	set.Shuffle(rng)
	x, y, err := dataset.Tensors(set, backend)
	if err != nil {
		log.Fatalf("dataset: %v", err)
	}

	layer1 := nn.NewLinear[B](2, *hidden, rng, backend)
	layer2 := nn.NewLinear[B](*hidden, 2, rng, backend)
	model := nn.NewSequential[B](layer1, nn.NewTanh[B](), layer2)

	criterion := nn.NewCrossEntropyLoss[B]()
	optimizer := optim.NewSGD(model.Parameters(), optim.SGDConfig{LR: float32(*lr)})

	fmt.Printf("Model: 2 -> tanh(%d) -> 2 softmax, %d parameters\n", *hidden, countParameters(model))
	fmt.Printf("Training: SGD lr=%.3g, lambda=%.3g, %d epochs\n\n", *lr, *lambda, *epochs)

	backend.Tape().StartRecording()

	var losses []float64
	for epoch := 0; epoch < *epochs; epoch++ {
		backend.Tape().Clear()

		logits := model.Forward(x)
		loss := criterion.Forward(logits, y)
		if *lambda > 0 {
			loss = loss.Add(nn.L2Penalty(*lambda, layer1.Weight(), layer2.Weight()))
		}

		if *dotOut != "" && epoch == 0 {
			if err := backend.Tape().SaveDOT(*dotOut); err != nil {
				log.Fatalf("dot export: %v", err)
			}
			fmt.Printf("Computation graph written to %s\n", *dotOut)
		}

		grads := autodiff.Backward(loss, backend)
		optimizer.Step(grads)

		if epoch%*every == 0 || epoch == *epochs-1 {
			lossValue := float64(loss.Item())
			losses = append(losses, lossValue)
			fmt.Printf("epoch %6d  loss %.6f\n", epoch, lossValue)
		}
	}

	backend.Tape().StopRecording()
	backend.Tape().Clear()

	logits := model.Forward(x)
	fmt.Printf("\nFinal training accuracy: %.1f%%\n", nn.Accuracy(logits, y)*100)

	predict := func(x1, x2 float64) float64 {
		point, err := tensor.FromSlice([]float32{float32(x1), float32(x2)}, tensor.Shape{1, 2}, backend)
		if err != nil {
			panic(err)
		}
		return float64(model.Forward(point).Softmax().At(0, 1))
	}
	if err := plot.DecisionBoundary(*out, predict, set, 200); err != nil {
		log.Fatalf("plot: %v", err)
	}
	fmt.Printf("Decision boundary written to %s\n", *out)

	if *lossOut != "" {
		if err := plot.LossCurve(*lossOut, losses, *every); err != nil {
			log.Fatalf("loss curve: %v", err)
		}
		fmt.Printf("Loss curve written to %s\n", *lossOut)
	}
}

func countParameters(model nn.Module[B]) int {
	total := 0
	for _, p := range model.Parameters() {
		total += p.Tensor().NumElements()
	}
	return total
}
