// Package rules provides reusable schema-level validators. Every rule is a
// func(*skema.Payload) error meant for Builder.ValidateE; failures are
// reported as skema.Issues pointing at the offending attribute.
//
//	skema.Define("OrderSchema").
//		Attribute("id", skema.KindString).Required().
//		Collection("items", item).
//		ValidateE("required", rules.RequiredAttributes()).
//		ValidateE("items", rules.And(rules.AtLeastOne("items"), rules.UniqueBy("items", "sku")))
package rules

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"github.com/reoring/skema"
	"github.com/reoring/skema/i18n"
)

// Rule is a schema-level validator.
type Rule = func(*skema.Payload) error

// Present requires every named attribute to be provided (not Unset).
func Present(names ...string) Rule {
	return func(p *skema.Payload) error {
		var out skema.Issues
		for _, n := range names {
			if !p.Provided(n) {
				out = append(out, skema.Issue{
					Path:    "/" + n,
					Code:    skema.CodeRequired,
					Message: i18n.T(skema.CodeRequired, map[string]string{"name": n}),
				})
			}
		}
		return result(out)
	}
}

// RequiredAttributes enforces presence of every attribute declared Required
// on the payload's schema.
func RequiredAttributes() Rule {
	return func(p *skema.Payload) error {
		var names []string
		for _, a := range p.Schema().Attributes() {
			if a.Required {
				names = append(names, a.Name)
			}
		}
		return Present(names...)(p)
	}
}

// AtLeastOne ensures the collection attribute at path has at least 1
// element. Absent or non-collection values are left to type validation.
func AtLeastOne(path string) Rule {
	path = strings.Trim(path, "/")
	return func(p *skema.Payload) error {
		val, ok := valueAt(p, path)
		if !ok {
			return nil
		}
		if n, ok := length(val); ok && n == 0 {
			return skema.Issues{{
				Path:    "/" + path,
				Code:    skema.CodeTooShort,
				Message: i18n.T(skema.CodeTooShort, map[string]string{"name": path, "min": "1"}),
				Params:  map[string]any{"minItems": 1},
			}}
		}
		return nil
	}
}

// UniqueBy ensures elements of the collection at path have unique values at
// key, a path relative to each element (for example "sku").
func UniqueBy(path, key string) Rule {
	path = strings.Trim(path, "/")
	key = strings.Trim(key, "/")
	return func(p *skema.Payload) error {
		val, ok := valueAt(p, path)
		if !ok {
			return nil
		}
		items, ok := elements(val)
		if !ok {
			return nil
		}
		seen := map[string]int{}
		var out skema.Issues
		for i, elem := range items {
			kv, ok := valueWithin(elem, key)
			if !ok {
				continue
			}
			k := fmt.Sprint(kv)
			if j, dup := seen[k]; dup {
				out = append(out, skema.Issue{
					Path:    "/" + path + "/" + strconv.Itoa(i) + "/" + key,
					Code:    skema.CodeUniqueness,
					Message: i18n.T(skema.CodeUniqueness, map[string]string{"name": path, "key": key, "value": k}),
					Params:  map[string]any{"first": j, "dup": i, "key": k},
				})
				continue
			}
			seen[k] = i
		}
		return result(out)
	}
}

// And executes all rules and concatenates their issues. Errors that are not
// Issues are folded in as validator failures.
func And(rules ...Rule) Rule {
	return func(p *skema.Payload) error {
		var out skema.Issues
		for _, r := range rules {
			if r == nil {
				continue
			}
			out = append(out, issuesOf(r(p))...)
		}
		return result(out)
	}
}

// Or succeeds if any rule passes. When all fail, the branch with the fewest
// issues is reported.
func Or(rules ...Rule) Rule {
	return func(p *skema.Payload) error {
		var best skema.Issues
		bestSet := false
		for _, r := range rules {
			if r == nil {
				continue
			}
			iss := issuesOf(r(p))
			if len(iss) == 0 {
				return nil
			}
			if !bestSet || len(iss) < len(best) {
				best = iss
				bestSet = true
			}
		}
		return result(best)
	}
}

// ------- helpers -------

func result(iss skema.Issues) error {
	if len(iss) == 0 {
		return nil
	}
	return iss
}

func issuesOf(err error) skema.Issues {
	if err == nil {
		return nil
	}
	if iss, ok := skema.AsIssues(err); ok {
		return iss
	}
	return skema.Issues{{Path: "/", Code: skema.CodeValidatorFail, Message: err.Error()}}
}

// valueAt navigates p by a "/"-separated path through nested payloads,
// unions and lists ("address/city", "items/0/sku"). Unset attributes are
// absent.
func valueAt(p *skema.Payload, path string) (any, bool) {
	return valueWithin(p, path)
}

func valueWithin(v any, rel string) (any, bool) {
	if rel == "" {
		return v, true
	}
	cur := v
	for _, seg := range strings.Split(rel, "/") {
		switch t := cur.(type) {
		case *skema.Payload:
			raw, ok := t.Raw(seg)
			if !ok || skema.IsUnset(raw) {
				return nil, false
			}
			cur = raw
		case *skema.Union:
			raw, ok := t.Raw(seg)
			if !ok || skema.IsUnset(raw) {
				return nil, false
			}
			cur = raw
		case map[string]any:
			mv, ok := t[seg]
			if !ok {
				return nil, false
			}
			cur = mv
		default:
			items, ok := elements(cur)
			if !ok {
				return nil, false
			}
			idx, err := strconv.Atoi(seg)
			if err != nil || idx < 0 || idx >= len(items) {
				return nil, false
			}
			cur = items[idx]
		}
	}
	return cur, true
}

func elements(v any) ([]any, bool) {
	switch t := v.(type) {
	case *skema.List:
		return t.Items(), true
	case []any:
		return t, true
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, false
	}
	out := make([]any, rv.Len())
	for i := range out {
		out[i] = rv.Index(i).Interface()
	}
	return out, true
}

func length(v any) (int, bool) {
	items, ok := elements(v)
	return len(items), ok
}
