package inference

import (
	"fmt"

	"github.com/disintegration/imaging"
)

// inputSize is the square resolution both models were trained on.
const inputSize = 128

// preprocess decodes the image at path, resizes it to inputSize x inputSize
// and returns NHWC float32 pixel data normalized to [0,1].
func preprocess(path string) ([]float32, error) {
	img, err := imaging.Open(path)
	if err != nil {
		return nil, fmt.Errorf("decoding image %s: %w", path, err)
	}

	resized := imaging.Resize(img, inputSize, inputSize, imaging.Lanczos)

	pixels := make([]float32, inputSize*inputSize*3)
	i := 0
	for y := 0; y < inputSize; y++ {
		for x := 0; x < inputSize; x++ {
			c := resized.NRGBAAt(x, y)
			pixels[i] = float32(c.R) / 255.0
			pixels[i+1] = float32(c.G) / 255.0
			pixels[i+2] = float32(c.B) / 255.0
			i += 3
		}
	}
	return pixels, nil
}
