package ingest

import (
	"math"

	"github.com/akolanti/DocIngest/internal/domain/commonModels"
)

// newMetadata seeds the reserved keys. Reserved keys are written first and
// putMetadata never overwrites an existing key, so they always win.
func newMetadata(source string, fileType commonModels.FileType) commonModels.Metadata {
	return commonModels.Metadata{
		commonModels.MetaSource:   source,
		commonModels.MetaFileType: string(fileType),
	}
}

// putMetadata adds key=value when the value is a supported scalar and the key is free.
func putMetadata(md commonModels.Metadata, key string, value any) bool {
	if key == "" {
		return false
	}
	if _, taken := md[key]; taken {
		return false
	}
	v, ok := normalizeValue(value)
	if !ok {
		return false
	}
	md[key] = v
	return true
}

func normalizeValue(value any) (any, bool) {
	switch v := value.(type) {
	case string:
		return v, true
	case bool:
		return v, true
	case int64:
		return v, true
	case int:
		return int64(v), true
	case int32:
		return int64(v), true
	case float64:
		return finite(v)
	case float32:
		return finite(float64(v))
	default:
		return nil, false
	}
}

// NaN and infinities have no JSON form, so they are left out of the metadata.
func finite(f float64) (any, bool) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return nil, false
	}
	return f, true
}
