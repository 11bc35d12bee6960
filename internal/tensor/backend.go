package tensor

// Backend defines the interface that all compute backends must implement.
// Backends handle the actual computation for tensor operations; the tensor
// types themselves only hold data and dispatch.
//
// The operation surface is exactly what a small feed-forward classifier
// needs: elementwise arithmetic, matrix multiplication, shape moves, a few
// pointwise math functions, softmax, and reductions. Operations panic with a
// descriptive message on shape or dtype mismatches.
type Backend interface {
	// Element-wise binary operations (NumPy-style broadcasting)
	Add(a, b *RawTensor) *RawTensor
	Sub(a, b *RawTensor) *RawTensor
	Mul(a, b *RawTensor) *RawTensor
	Div(a, b *RawTensor) *RawTensor

	// Matrix operations
	MatMul(a, b *RawTensor) *RawTensor

	// Shape operations
	Reshape(t *RawTensor, newShape Shape) *RawTensor
	Transpose(t *RawTensor, axes ...int) *RawTensor

	// Scalar operations (element-wise with scalar)
	AddScalar(x *RawTensor, scalar any) *RawTensor
	MulScalar(x *RawTensor, scalar any) *RawTensor

	// Math operations (element-wise)
	Exp(x *RawTensor) *RawTensor  // exponential
	Log(x *RawTensor) *RawTensor  // natural logarithm
	Tanh(x *RawTensor) *RawTensor // hyperbolic tangent

	// Activation functions
	Softmax(x *RawTensor) *RawTensor // softmax along the last dimension (2D input)

	// Reduction operations
	Sum(x *RawTensor) *RawTensor                            // total sum ([1] result)
	SumDim(x *RawTensor, dim int, keepDim bool) *RawTensor  // sum along dimension
	MeanDim(x *RawTensor, dim int, keepDim bool) *RawTensor // mean along dimension
	Argmax(x *RawTensor, dim int) *RawTensor                // index of maximum along dimension

	// Metadata
	Name() string
	Device() Device
}
