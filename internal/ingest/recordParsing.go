package ingest

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/akolanti/DocIngest/internal/domain/commonModels"
	"github.com/akolanti/DocIngest/internal/ingest/locator"
	"github.com/tidwall/gjson"
	"gopkg.in/yaml.v3"
)

// Decoded record values keep document order:
// objects are []locator.Field, lists are []any, scalars are string, int64, float64, bool or nil.

func parseJSONRecord(data []byte) (any, error) {
	if len(strings.TrimSpace(string(data))) == 0 {
		return nil, fmt.Errorf("%w: empty document", commonModels.ErrEmptyPayload)
	}
	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("%w: invalid JSON", commonModels.ErrMalformedPayload)
	}
	return fromJSON(gjson.ParseBytes(data)), nil
}

func fromJSON(value gjson.Result) any {
	switch value.Type {
	case gjson.String:
		return value.Str
	case gjson.Number:
		return jsonNumber(value)
	case gjson.True:
		return true
	case gjson.False:
		return false
	case gjson.JSON:
		if value.IsArray() {
			items := make([]any, 0)
			value.ForEach(func(_, item gjson.Result) bool {
				items = append(items, fromJSON(item))
				return true
			})
			return items
		}
		var fields []locator.Field
		value.ForEach(func(key, item gjson.Result) bool {
			fields = setField(fields, key.Str, fromJSON(item))
			return true
		})
		if fields == nil {
			fields = []locator.Field{}
		}
		return fields
	default:
		return nil
	}
}

func jsonNumber(value gjson.Result) any {
	if !strings.ContainsAny(value.Raw, ".eE") {
		if i, err := strconv.ParseInt(value.Raw, 10, 64); err == nil {
			return i
		}
	}
	return value.Num
}

func parseYAMLRecord(data []byte) (any, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("%w: %v", commonModels.ErrMalformedPayload, err)
	}
	if root.Kind != yaml.DocumentNode || len(root.Content) == 0 {
		return nil, fmt.Errorf("%w: empty document", commonModels.ErrEmptyPayload)
	}
	decoder := yamlDecoder{budget: yamlExpansionFactor*countYAMLNodes(&root, 0) + yamlExpansionFloor}
	return decoder.decode(root.Content[0], 0)
}

const (
	maxYAMLDepth = 256

	// aliases may expand the document to at most factor times its parsed size plus the floor
	yamlExpansionFactor = 10
	yamlExpansionFloor  = 1000
)

var (
	errYAMLTooDeep  = errors.New("yaml nesting too deep")
	errYAMLTooLarge = errors.New("yaml alias expansion too large")
)

// countYAMLNodes counts the parsed nodes without following aliases.
func countYAMLNodes(node *yaml.Node, depth int) int {
	if node == nil || depth > maxYAMLDepth {
		return 0
	}
	count := 1
	for _, child := range node.Content {
		count += countYAMLNodes(child, depth+1)
	}
	return count
}

// yamlDecoder spends one unit of budget per decoded node, so alias
// expansion is bounded over the whole document.
type yamlDecoder struct {
	budget int
}

func (d *yamlDecoder) decode(node *yaml.Node, depth int) (any, error) {
	if depth > maxYAMLDepth {
		return nil, fmt.Errorf("%w: %v", commonModels.ErrMalformedPayload, errYAMLTooDeep)
	}
	d.budget--
	if d.budget < 0 {
		return nil, fmt.Errorf("%w: %v", commonModels.ErrMalformedPayload, errYAMLTooLarge)
	}
	switch node.Kind {
	case yaml.AliasNode:
		return d.decode(node.Alias, depth+1)

	case yaml.MappingNode:
		fields := []locator.Field{}
		for i := 0; i+1 < len(node.Content); i += 2 {
			value, err := d.decode(node.Content[i+1], depth+1)
			if err != nil {
				return nil, err
			}
			fields = setField(fields, node.Content[i].Value, value)
		}
		return fields, nil

	case yaml.SequenceNode:
		items := make([]any, 0, len(node.Content))
		for _, child := range node.Content {
			value, err := d.decode(child, depth+1)
			if err != nil {
				return nil, err
			}
			items = append(items, value)
		}
		return items, nil

	case yaml.ScalarNode:
		return yamlScalar(node), nil

	default:
		return nil, nil
	}
}

func yamlScalar(node *yaml.Node) any {
	switch node.ShortTag() {
	case "!!null":
		return nil
	case "!!bool":
		var b bool
		if err := node.Decode(&b); err == nil {
			return b
		}
	case "!!int":
		var i int64
		if err := node.Decode(&i); err == nil {
			return i
		}
	case "!!float":
		var f float64
		if err := node.Decode(&f); err == nil {
			return f
		}
	}
	return node.Value
}

// setField keeps the first position of a repeated key and takes the last value.
func setField(fields []locator.Field, key string, value any) []locator.Field {
	for i := range fields {
		if fields[i].Key == key {
			fields[i].Value = value
			return fields
		}
	}
	return append(fields, locator.Field{Key: key, Value: value})
}
