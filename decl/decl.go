// Package decl loads parameter declarations from YAML documents and keeps
// them hot-reloadable.
package decl

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	declared "github.com/parametry/declared"
)

// File is one declaration document: an optional endpoint label plus the
// parameter list.
//
//	endpoint: create_account
//	params:
//	  - name: id
//	    in: path
//	    type: integer
//	    rule: requires
//	    pattern: '^\d+$'
type File struct {
	Endpoint string
	Params   []declared.Definition
}

// Parse decodes a single YAML declaration document. Whether a default key
// was present survives into Definition.HasDefault, so an explicit
// "default: null" stays distinguishable from no default at all.
func Parse(data []byte) (File, error) {
	var raw any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return File{}, fmt.Errorf("decl: parse yaml: %w", err)
	}
	doc := toStringMap(raw)
	if doc == nil {
		return File{}, fmt.Errorf("decl: document root must be a mapping")
	}
	var f File
	if s, ok := doc["endpoint"].(string); ok {
		f.Endpoint = s
	}
	rawParams, ok := doc["params"]
	if !ok {
		return File{}, fmt.Errorf("decl: document has no params list")
	}
	list, ok := rawParams.([]any)
	if !ok {
		return File{}, fmt.Errorf("decl: params must be a list")
	}
	for i, item := range list {
		m := toStringMap(item)
		if m == nil {
			return File{}, fmt.Errorf("decl: params[%d] must be a mapping", i)
		}
		def, err := definitionFromMap(m)
		if err != nil {
			return File{}, fmt.Errorf("decl: params[%d]: %w", i, err)
		}
		f.Params = append(f.Params, def)
	}
	return f, nil
}

func definitionFromMap(m map[string]any) (declared.Definition, error) {
	var def declared.Definition
	def.Name, _ = m["name"].(string)
	def.In, _ = m["in"].(string)
	def.Type, _ = m["type"].(string)
	def.Rule, _ = m["rule"].(string)
	def.Pattern, _ = m["pattern"].(string)
	def.Description, _ = m["description"].(string)
	if v, ok := m["default"]; ok {
		def.Default = v
		def.HasDefault = true
	}
	if v, ok := m["coerce"]; ok {
		b, ok := v.(bool)
		if !ok {
			return def, fmt.Errorf("coerce must be a boolean")
		}
		def.Coerce = &b
	}
	if v, ok := m["enclosed"]; ok {
		list, ok := v.([]any)
		if !ok {
			return def, fmt.Errorf("enclosed must be a list")
		}
		for i, item := range list {
			cm := toStringMap(item)
			if cm == nil {
				return def, fmt.Errorf("enclosed[%d] must be a mapping", i)
			}
			child, err := definitionFromMap(cm)
			if err != nil {
				return def, fmt.Errorf("enclosed[%d]: %w", i, err)
			}
			def.Enclosed = append(def.Enclosed, child)
		}
	}
	return def, nil
}

// Load parses a declaration document and compiles it. Compile issues come
// back alongside the surviving set, matching declared.CompileSet.
func Load(data []byte, opts ...declared.CompileOpt) (*declared.ParamSet, error) {
	f, err := Parse(data)
	if err != nil {
		return nil, err
	}
	return declared.CompileSet(f.Params, opts...)
}

// LoadFile reads and compiles one declaration file.
func LoadFile(path string, opts ...declared.CompileOpt) (*declared.ParamSet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("decl: read %s: %w", path, err)
	}
	return Load(data, opts...)
}

// LoadDir compiles every .yaml/.yml declaration directly under dir, keyed
// by the endpoint label when present, else the file stem. Compile issues
// from all files are pooled into one error while the sets stay usable.
func LoadDir(dir string, opts ...declared.CompileOpt) (map[string]*declared.ParamSet, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("decl: read dir %s: %w", dir, err)
	}
	sets := make(map[string]*declared.ParamSet)
	var iss declared.Issues
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(e.Name()))
		if ext != ".yaml" && ext != ".yml" {
			continue
		}
		data, err := os.ReadFile(filepath.Join(dir, e.Name()))
		if err != nil {
			return nil, fmt.Errorf("decl: read %s: %w", e.Name(), err)
		}
		f, err := Parse(data)
		if err != nil {
			return nil, fmt.Errorf("decl: %s: %w", e.Name(), err)
		}
		key := f.Endpoint
		if key == "" {
			key = strings.TrimSuffix(e.Name(), filepath.Ext(e.Name()))
		}
		set, err := declared.CompileSet(f.Params, opts...)
		if err != nil {
			if more, ok := declared.AsIssues(err); ok {
				iss = declared.AppendIssues(iss, more...)
			}
		}
		sets[key] = set
	}
	if len(iss) > 0 {
		return sets, iss
	}
	return sets, nil
}

// toStringMap converts YAML-decoded values (which may contain map[any]any)
// into JSON-like map[string]any recursively. Non-map roots return nil.
func toStringMap(v any) map[string]any {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, vv := range t {
			out[k] = normalizeValue(vv)
		}
		return out
	case map[any]any:
		out := make(map[string]any, len(t))
		for k, vv := range t {
			ks, ok := k.(string)
			if !ok {
				continue
			}
			out[ks] = normalizeValue(vv)
		}
		return out
	default:
		return nil
	}
}

func normalizeValue(v any) any {
	switch t := v.(type) {
	case map[string]any, map[any]any:
		return toStringMap(t)
	case []any:
		arr := make([]any, len(t))
		for i := range t {
			arr[i] = normalizeValue(t[i])
		}
		return arr
	default:
		return v
	}
}
