// Package bind extracts the three raw parameter sources from an HTTP
// request and hands them to the declared engine.
package bind

import (
	"bytes"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"
	"github.com/tidwall/gjson"

	declared "github.com/parametry/declared"
)

// maxFormMemory bounds the in-memory part of multipart parsing.
const maxFormMemory = 10 << 20

// Sources carries the raw per-source maps prior to merging.
type Sources struct {
	Path  map[string]any
	Query map[string]any
	Body  map[string]any
}

// Merged folds the sources with the standard precedence: body is weakest,
// path strongest.
func (s Sources) Merged() map[string]any {
	return declared.Merge(s.Body, s.Query, s.Path)
}

// Request pulls path, query and body values out of r. With a non-nil set
// and a JSON body, only the fields declared at the body location are
// extracted; everything else in the payload is never decoded.
func Request(r *http.Request, set *declared.ParamSet) (Sources, error) {
	body, err := bodyParams(r, set)
	if err != nil {
		return Sources{}, err
	}
	return Sources{
		Path:  PathParams(r),
		Query: QueryParams(r),
		Body:  body,
	}, nil
}

// PathParams reads chi route parameters. Requests routed outside chi yield
// an empty map.
func PathParams(r *http.Request) map[string]any {
	out := map[string]any{}
	rctx := chi.RouteContext(r.Context())
	if rctx == nil {
		return out
	}
	for i, k := range rctx.URLParams.Keys {
		if k == "*" {
			continue
		}
		out[k] = rctx.URLParams.Values[i]
	}
	return out
}

// QueryParams flattens the URL query: single values become strings,
// repeated keys stay string slices.
func QueryParams(r *http.Request) map[string]any {
	return flattenValues(r.URL.Query())
}

func flattenValues(vals url.Values) map[string]any {
	out := make(map[string]any, len(vals))
	for k, vs := range vals {
		if len(vs) == 1 {
			out[k] = vs[0]
			continue
		}
		out[k] = append([]string(nil), vs...)
	}
	return out
}

func bodyParams(r *http.Request, set *declared.ParamSet) (map[string]any, error) {
	if r.Body == nil || r.ContentLength == 0 {
		return map[string]any{}, nil
	}
	mt, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if err != nil {
		mt = ""
	}
	switch {
	case mt == "application/json" || strings.HasSuffix(mt, "+json"):
		raw, err := io.ReadAll(r.Body)
		if err != nil {
			return nil, fmt.Errorf("bind: read body: %w", err)
		}
		if len(bytes.TrimSpace(raw)) == 0 {
			return map[string]any{}, nil
		}
		if set != nil {
			return BodyFields(raw, set)
		}
		return DecodeBody(raw)
	case mt == "application/x-www-form-urlencoded":
		if err := r.ParseForm(); err != nil {
			return nil, fmt.Errorf("bind: parse form: %w", err)
		}
		return flattenValues(r.PostForm), nil
	case mt == "multipart/form-data":
		if err := r.ParseMultipartForm(maxFormMemory); err != nil {
			return nil, fmt.Errorf("bind: parse multipart form: %w", err)
		}
		return flattenValues(r.PostForm), nil
	}
	return map[string]any{}, nil
}

// BodyFields extracts only the declared body-located fields from a JSON
// document. Absent fields stay absent, so required checks still see the
// difference between a missing key and an explicit null.
func BodyFields(raw []byte, set *declared.ParamSet) (map[string]any, error) {
	if !gjson.ValidBytes(raw) {
		return nil, fmt.Errorf("bind: invalid json body")
	}
	out := map[string]any{}
	for _, sp := range set.Specs() {
		if sp.Location() != declared.LocationBody {
			continue
		}
		res := gjson.GetBytes(raw, sp.Name())
		if !res.Exists() {
			continue
		}
		out[sp.Name()] = res.Value()
	}
	return out, nil
}

// DecodeBody decodes a whole JSON object body.
func DecodeBody(raw []byte) (map[string]any, error) {
	var m map[string]any
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, fmt.Errorf("bind: decode body: %w", err)
	}
	if m == nil {
		m = map[string]any{}
	}
	return m, nil
}

// ResolveRequest binds r and resolves the set in one step.
func ResolveRequest(r *http.Request, set *declared.ParamSet, opts ...declared.ResolveOpt) (declared.Params, error) {
	src, err := Request(r, set)
	if err != nil {
		return nil, err
	}
	return declared.Resolve(r.Context(), set, src.Merged(), opts...)
}
