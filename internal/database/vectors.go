package database

import (
	"encoding/binary"
	"fmt"
	"math"
	"strings"
)

// vectorToString converts a float32 array to libSQL vector string format.
func (dm *DBManager) vectorToString(numbers []float32) (string, error) {
	dims := dm.config.EmbeddingDims
	if len(numbers) != dims {
		return "", fmt.Errorf("vector must have exactly %d dimensions, got %d", dims, len(numbers))
	}

	strNumbers := make([]string, len(numbers))
	for i, n := range numbers {
		if math.IsNaN(float64(n)) || math.IsInf(float64(n), 0) {
			dm.log.Warn("invalid vector value, storing 0.0", "value", n, "index", i)
			n = 0.0
		}
		strNumbers[i] = fmt.Sprintf("%f", n)
	}

	return fmt.Sprintf("[%s]", strings.Join(strNumbers, ", ")), nil
}

// extractVector decodes the F32_BLOB binary format into a float32 slice.
// A nil/empty blob yields a nil vector.
func (dm *DBManager) extractVector(embedding []byte) ([]float32, error) {
	if len(embedding) == 0 {
		return nil, nil
	}

	dims := dm.config.EmbeddingDims
	expectedBytes := dims * 4
	if len(embedding) != expectedBytes {
		return nil, fmt.Errorf("invalid embedding size: expected %d bytes for %d-dimensional vector, got %d", expectedBytes, dims, len(embedding))
	}

	vector := make([]float32, dims)
	for i := range vector {
		bits := binary.LittleEndian.Uint32(embedding[i*4 : (i+1)*4])
		vector[i] = math.Float32frombits(bits)
	}

	return vector, nil
}
