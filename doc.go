// Package declared compiles declarative parameter specifications and
// resolves typed values for them from the merged sources of an HTTP-style
// request.
//
// Core ideas:
//
//   - Spec: one immutable parameter schema node carrying location,
//     requiredness, a type descriptor, an optional default and pattern, and
//     enclosed child specs for object parameters.
//   - Validate: coerce-then-assert checking of a tri-state Slot with
//     fail-fast descent into enclosed fields.
//   - Merge: body < query < path precedence folding of the raw sources.
//   - Resolve: the request-level loop; a required failure aborts everything,
//     a failed optional is dropped, defaults fill absent slots only.
//
// Diagnostics flow into an injected Sink and never change outcomes; Quiet
// suppresses them entirely. Failure details travel as Issues, the same
// error shape construction uses.
//
// Design policy:
//   - Keep the engine free of wire formats; adapters live under bind/ and
//     decl/, export under openapi/, and the CLI under cmd/declared.
//   - Type keywords resolve through the typedesc registry so applications
//     can add their own descriptors.
package declared
