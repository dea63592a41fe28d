// Package basic provides frequently used schemas: timestamped and identified
// resources, and the paginated list envelopes.
package basic

import (
	"strings"

	"github.com/reoring/skema"
)

var (
	// Timestamps declares created_at and updated_at.
	Timestamps = skema.Define("BaseTimestampSchema").
		Attribute("created_at", skema.KindTimestamp).
		Attribute("updated_at", skema.KindTimestamp).
		MustBuild()

	// Identified extends Timestamps with an integer id.
	Identified = skema.Extend(Timestamps, "BaseIDSchema").
		Attribute("id", skema.KindInteger).
		MustBuild()

	// List is a paginated envelope with untyped data.
	List = pageEnvelope(skema.Define("ListSchema"), skema.KindAny)
)

// ResourceList returns a paginated envelope whose data is a collection of
// resource. The schema is named after the resource: "User" or "UserSchema"
// give "UserListSchema".
func ResourceList(resource *skema.Schema) *skema.Schema {
	name := strings.TrimSuffix(resource.Name(), "Schema") + "ListSchema"
	return pageEnvelope(skema.Define(name), skema.ArrayOf(resource))
}

func pageEnvelope(b *skema.Builder, data skema.Type) *skema.Schema {
	return b.Attribute("data", data).
		Attribute("page", skema.KindInteger).
		Attribute("page_size", skema.KindInteger).
		Attribute("count", skema.KindInteger).
		MustBuild()
}
