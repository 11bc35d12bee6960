package autodiff

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/moonwalk-ml/moonwalk/internal/tensor"
)

// WriteDOT renders the recorded computation graph in Graphviz DOT format.
//
// Operation nodes are boxes, tensor nodes are ellipses labelled with their
// shape and dtype. Rendering the forward graph of a model is a good way to
// check that every parameter actually feeds the loss:
//
//	dot -Tsvg graph.dot -o graph.svg
func (t *GradientTape) WriteDOT(w io.Writer) error {
	var sb strings.Builder
	sb.WriteString("digraph computation {\n")
	sb.WriteString("\trankdir=LR;\n")
	sb.WriteString("\tnode [fontname=\"Helvetica\"];\n\n")

	tensorIDs := make(map[*tensor.RawTensor]string)
	tensorID := func(raw *tensor.RawTensor) string {
		id, ok := tensorIDs[raw]
		if !ok {
			id = fmt.Sprintf("t%d", len(tensorIDs))
			tensorIDs[raw] = id
			fmt.Fprintf(&sb, "\t%s [shape=ellipse, label=\"%v %s\"];\n",
				id, raw.Shape(), raw.DType())
		}
		return id
	}

	for i, op := range t.operations {
		opID := fmt.Sprintf("op%d", i)
		fmt.Fprintf(&sb, "\t%s [shape=box, style=filled, fillcolor=lightgrey, label=\"%s\"];\n",
			opID, opLabel(op))

		for _, input := range op.Inputs() {
			fmt.Fprintf(&sb, "\t%s -> %s;\n", tensorID(input), opID)
		}
		fmt.Fprintf(&sb, "\t%s -> %s;\n", opID, tensorID(op.Output()))
	}

	sb.WriteString("}\n")

	_, err := io.WriteString(w, sb.String())
	return err
}

// SaveDOT writes the computation graph to a file.
func (t *GradientTape) SaveDOT(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("save dot: %w", err)
	}
	defer f.Close()

	if err := t.WriteDOT(f); err != nil {
		return fmt.Errorf("save dot: %w", err)
	}
	return nil
}

// opLabel turns "*ops.MatMulOp" into "MatMul".
func opLabel(op any) string {
	name := fmt.Sprintf("%T", op)
	if i := strings.LastIndex(name, "."); i >= 0 {
		name = name[i+1:]
	}
	return strings.TrimSuffix(name, "Op")
}
