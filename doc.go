// Package skema provides runtime schemas for request/response payloads:
//
// - Declarative schemas (Define/Extend) with typed attributes, defaults, aliases,
//   derived attributes and schema-level validators
// - Payloads built strictly from mappings (New) or leniently from any source (Import)
// - Best-effort coercion on assignment with validation as the enforcement point
// - Ordered collections (ArrayOf) and tagged unions (AnyOf) of schemas
// - A stable error model via Issues (JSON Pointer, code, message)
//
// Design policy:
// - Keep only public APIs in the root package; put the wire decoder under internal/.
// - Place projections under jsonschema/ and doc/, codecs under serializer/, reusable validators
//   under rules/, and the CLI under cmd/skema.
// - Schemas are immutable once built and safe for concurrent reads; payloads are not.
//
// Typical usage:
//
//	user := skema.Define("UserSchema").
//		Attribute("name", skema.KindString).Required().
//		Attribute("age", skema.KindInteger).
//		MustBuild()
//
//	p, err := user.Import(ctx, map[string]any{"name": "Ada", "age": "37"})
//	if err := skema.Check(p); err != nil {
//		// inspect err.(*skema.ValidationError).Messages()
//	}
package skema
