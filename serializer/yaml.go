package serializer

import (
	"bytes"
	"errors"
	"io"
	"strconv"

	json "github.com/goccy/go-json"
	"gopkg.in/yaml.v3"

	"github.com/reoring/skema/internal/wire"
)

// YAML returns the YAML codec. Only the first document of a stream is read.
func YAML() Codec { return yamlCodec{} }

type yamlCodec struct{}

func (yamlCodec) Name() string        { return "yaml" }
func (yamlCodec) ContentType() string { return "application/yaml" }

// Marshal encodes through JSON first so mappings keep the order instances
// marshal in, then re-emits the tree in block style.
func (yamlCodec) Marshal(v any) ([]byte, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var doc yaml.Node
	if err := yaml.Unmarshal(b, &doc); err != nil {
		return nil, err
	}
	plainStyle(&doc)
	return yaml.Marshal(&doc)
}

func plainStyle(n *yaml.Node) {
	n.Style = 0
	for _, c := range n.Content {
		plainStyle(c)
	}
}

func (yamlCodec) Unmarshal(data []byte, opt Options) (any, error) {
	if opt.MaxBytes > 0 && int64(len(data)) > opt.MaxBytes {
		return nil, &wire.Error{Code: wire.CodeTruncated, Path: "/", Message: "max bytes exceeded"}
	}
	var root yaml.Node
	if err := yaml.NewDecoder(bytes.NewReader(data)).Decode(&root); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, &wire.Error{Code: wire.CodeParseError, Path: "/", Message: "empty input"}
		}
		return nil, &wire.Error{Code: wire.CodeParseError, Path: "/", Message: err.Error()}
	}
	return (&nodeReader{opt: opt}).value(&root, "", 0)
}

type nodeReader struct {
	opt Options
}

func (r *nodeReader) value(n *yaml.Node, path string, depth int) (any, error) {
	switch n.Kind {
	case yaml.DocumentNode:
		if len(n.Content) == 0 {
			return nil, nil
		}
		return r.value(n.Content[0], path, depth)
	case yaml.AliasNode:
		return r.value(n.Alias, path, depth)
	case yaml.MappingNode:
		if err := r.enter(path, depth); err != nil {
			return nil, err
		}
		m := make(map[string]any, len(n.Content)/2)
		for i := 0; i+1 < len(n.Content); i += 2 {
			key := n.Content[i].Value
			child := joinPointer(path, key)
			if _, dup := m[key]; dup && r.opt.RejectDuplicateKeys {
				return nil, &wire.Error{
					Code:    wire.CodeDuplicateKey,
					Path:    child,
					Message: "key '" + key + "' duplicated at line " + strconv.Itoa(n.Content[i].Line),
				}
			}
			v, err := r.value(n.Content[i+1], child, depth+1)
			if err != nil {
				return nil, err
			}
			m[key] = v
		}
		return m, nil
	case yaml.SequenceNode:
		if err := r.enter(path, depth); err != nil {
			return nil, err
		}
		arr := make([]any, 0, len(n.Content))
		for i, c := range n.Content {
			v, err := r.value(c, joinPointer(path, strconv.Itoa(i)), depth+1)
			if err != nil {
				return nil, err
			}
			arr = append(arr, v)
		}
		return arr, nil
	case yaml.ScalarNode:
		return scalar(n), nil
	}
	return nil, nil
}

func (r *nodeReader) enter(path string, depth int) error {
	if r.opt.MaxDepth > 0 && depth+1 > r.opt.MaxDepth {
		p := path
		if p == "" {
			p = "/"
		}
		return &wire.Error{Code: wire.CodeParseError, Path: p, Message: "max depth exceeded"}
	}
	return nil
}

// scalar resolves a YAML scalar into string, bool, int64, float64 or nil.
// Unrecognised tags fall back to the raw text.
func scalar(n *yaml.Node) any {
	switch n.ShortTag() {
	case "!!null":
		return nil
	case "!!bool":
		var b bool
		if err := n.Decode(&b); err == nil {
			return b
		}
	case "!!int":
		if i, err := strconv.ParseInt(n.Value, 0, 64); err == nil {
			return i
		}
	case "!!float":
		var f float64
		if err := n.Decode(&f); err == nil {
			return f
		}
	}
	return n.Value
}
