package bind

import (
	"context"
	"net/http"

	"github.com/goccy/go-json"

	declared "github.com/parametry/declared"
)

// ctxKeyParams is the typed context key for resolved params.
type ctxKeyParams struct{}

// ContextWithParams attaches resolved params to the context.
func ContextWithParams(ctx context.Context, p declared.Params) context.Context {
	return context.WithValue(ctx, ctxKeyParams{}, p)
}

// ParamsFromContext retrieves the params stored by Middleware.
func ParamsFromContext(ctx context.Context) (declared.Params, bool) {
	p, ok := ctx.Value(ctxKeyParams{}).(declared.Params)
	return p, ok
}

// Middleware resolves the set for every request before the wrapped handler
// runs. Failures answer 400 with an issues payload; on success the handler
// finds the params via ParamsFromContext.
func Middleware(set *declared.ParamSet, opts ...declared.ResolveOpt) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			params, err := ResolveRequest(r, set, opts...)
			if err != nil {
				WriteError(w, err)
				return
			}
			next.ServeHTTP(w, r.WithContext(ContextWithParams(r.Context(), params)))
		})
	}
}

// ErrorPayload shapes Issues for JSON responses.
func ErrorPayload(issues []declared.Issue) map[string]any {
	return map[string]any{"issues": issues}
}

// WriteError answers a binding or resolution failure as 400 JSON.
func WriteError(w http.ResponseWriter, err error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusBadRequest)
	if iss, ok := declared.AsIssues(err); ok {
		_ = json.NewEncoder(w).Encode(ErrorPayload(iss))
		return
	}
	_ = json.NewEncoder(w).Encode(map[string]any{"error": err.Error()})
}
