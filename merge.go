package declared

// Merge folds the three raw request sources into one bag. Body is weakest,
// query overrides body, path overrides both. The inputs are never written
// to; nil maps count as empty.
func Merge(body, query, path map[string]any) map[string]any {
	merged := make(map[string]any, len(body)+len(query)+len(path))
	for k, v := range body {
		merged[k] = v
	}
	for k, v := range query {
		merged[k] = v
	}
	for k, v := range path {
		merged[k] = v
	}
	return merged
}
