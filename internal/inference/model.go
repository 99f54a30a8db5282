package inference

import (
	"fmt"
	"os"
	"sync"

	"github.com/rs/zerolog/log"
	ort "github.com/yalue/onnxruntime_go"
)

// Predictor produces a raw probability vector for one preprocessed image.
type Predictor interface {
	Predict(pixels []float32) ([]float32, error)
	Close() error
}

var (
	runtimeOnce sync.Once
	runtimeErr  error
)

// ensureRuntime initializes the ONNX runtime environment once per process.
func ensureRuntime(libPath string) error {
	runtimeOnce.Do(func() {
		if libPath != "" {
			ort.SetSharedLibraryPath(libPath)
		}
		runtimeErr = ort.InitializeEnvironment()
	})
	return runtimeErr
}

// Model wraps one ONNX session behind the Predictor interface. The session
// runs with a single [1, H, W, C] float32 input and a [1, classes] output.
type Model struct {
	session    *ort.DynamicAdvancedSession
	inputName  string
	outputName string
	numClasses int64
	mu         sync.Mutex
}

// LoadModel opens the ONNX model at path. A missing file or a runtime
// failure returns a nil model and an error; callers are expected to degrade
// to sentinel predictions rather than abort startup.
func LoadModel(path, libPath string) (*Model, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("model file %s: %w", path, err)
	}
	if err := ensureRuntime(libPath); err != nil {
		return nil, fmt.Errorf("onnx runtime init: %w", err)
	}

	inputs, outputs, err := ort.GetInputOutputInfo(path)
	if err != nil {
		return nil, fmt.Errorf("inspecting model %s: %w", path, err)
	}
	if len(inputs) == 0 || len(outputs) == 0 {
		return nil, fmt.Errorf("model %s declares no inputs or outputs", path)
	}

	outShape := outputs[0].Dimensions
	numClasses := int64(0)
	if len(outShape) > 0 {
		numClasses = outShape[len(outShape)-1]
	}
	if numClasses <= 0 {
		return nil, fmt.Errorf("model %s has no class dimension", path)
	}

	session, err := ort.NewDynamicAdvancedSession(path,
		[]string{inputs[0].Name}, []string{outputs[0].Name}, nil)
	if err != nil {
		return nil, fmt.Errorf("opening session for %s: %w", path, err)
	}

	log.Info().Str("model", path).Int64("classes", numClasses).Msg("Model loaded")
	return &Model{
		session:    session,
		inputName:  inputs[0].Name,
		outputName: outputs[0].Name,
		numClasses: numClasses,
	}, nil
}

// Predict runs the session on one preprocessed image and returns the raw
// probability vector.
func (m *Model) Predict(pixels []float32) ([]float32, error) {
	inputTensor, err := ort.NewTensor(ort.NewShape(1, inputSize, inputSize, 3), pixels)
	if err != nil {
		return nil, fmt.Errorf("creating input tensor: %w", err)
	}
	defer inputTensor.Destroy()

	outputTensor, err := ort.NewEmptyTensor[float32](ort.NewShape(1, m.numClasses))
	if err != nil {
		return nil, fmt.Errorf("creating output tensor: %w", err)
	}
	defer outputTensor.Destroy()

	// Session runs are not safe for concurrent use.
	m.mu.Lock()
	err = m.session.Run([]ort.Value{inputTensor}, []ort.Value{outputTensor})
	m.mu.Unlock()
	if err != nil {
		return nil, fmt.Errorf("model run: %w", err)
	}

	out := outputTensor.GetData()
	preds := make([]float32, len(out))
	copy(preds, out)
	return preds, nil
}

// Close releases the underlying session.
func (m *Model) Close() error {
	return m.session.Destroy()
}
