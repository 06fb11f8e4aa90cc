// Package params implements the generic string-keyed parameter map every
// constructible component (materials, lights, cameras, integrators,
// volumes) takes, validated against a static per-component schema.
// Grounded on original_source/include/param/{param,param_error}.h and
// include/common/result_flags.h: a ParamError aggregates every problem
// found across one construction call's parameter set rather than failing
// on the first one, and its Flags bitset collapses to the smaller,
// renderer-facing ResultFlags this package exposes.
package params

import (
	"fmt"
	"sort"
	"strings"
)

// ResultFlags is a bitset accumulated across one Validate call, mirroring
// ParamError::Flags. Zero value is Ok.
type ResultFlags uint32

const (
	Ok ResultFlags = 0
	ErrorUnknownParamType ResultFlags = 1 << iota
	WarningUnknownParam
	WarningParamNotSet
	ErrorWrongParamType
	WarningUnknownEnumOption
	ErrorAlreadyExists
	ErrorWhileCreating
	ErrorNotFound
)

func (f ResultFlags) IsOk() bool { return f == Ok }

func (f ResultFlags) HasError() bool {
	return f&(ErrorUnknownParamType|ErrorWrongParamType|ErrorAlreadyExists|ErrorWhileCreating|ErrorNotFound) != 0
}

func (f ResultFlags) HasWarning() bool {
	return f&(WarningUnknownParam|WarningParamNotSet|WarningUnknownEnumOption) != 0
}

// Type names the heterogeneous value kinds a parameter map's values can
// hold, per spec §6.
type Type int

const (
	TypeBool Type = iota
	TypeInt
	TypeFloat
	TypeString
	TypeVector
	TypeColor
	TypeMatrix
	TypeEnum
)

// Field describes one entry in a component's static schema: its expected
// type, whether it must be present, and (for TypeEnum) the accepted
// string values.
type Field struct {
	Type     Type
	Required bool
	Enum     []string
}

// Schema maps parameter name to its Field description. Built once per
// component kind (e.g. one Schema for "lambertian", another for
// "point_light") and reused across every instance validated against it.
type Schema map[string]Field

// Map is the parameter values passed into one component construction
// call. Values are the Go-native shape matching their declared Type:
// bool, int (TypeInt), float64 (TypeFloat), string, [3]float64 (vector/color),
// [16]float64 (matrix, row-major).
type Map map[string]interface{}

// Error collects every problem Validate found across one Map, mirroring
// ParamError: unknown parameter names, wrong-type parameters, and
// unknown enum options are all reported together rather than one at a
// time, so a caller sees every mistake in a scene file in a single pass.
type Error struct {
	Flags            ResultFlags
	UnknownParams    []string
	WrongTypeParams  []string
	UnknownEnumOpts  []EnumMismatch
	MissingRequired  []string
}

// EnumMismatch names a parameter whose string value didn't match any
// accepted option for that enum field.
type EnumMismatch struct {
	Param, Value string
}

func (e *Error) IsOk() bool { return e.Flags.IsOk() }

// Merge folds other into e, keeping every list of names sorted so two
// validations of the same schema in different goroutines produce
// identical, reproducible error text.
func (e *Error) Merge(other *Error) {
	e.Flags |= other.Flags
	e.UnknownParams = mergeSorted(e.UnknownParams, other.UnknownParams)
	e.WrongTypeParams = mergeSorted(e.WrongTypeParams, other.WrongTypeParams)
	e.MissingRequired = mergeSorted(e.MissingRequired, other.MissingRequired)
	e.UnknownEnumOpts = append(e.UnknownEnumOpts, other.UnknownEnumOpts...)
	sort.Slice(e.UnknownEnumOpts, func(i, j int) bool {
		return e.UnknownEnumOpts[i].Param < e.UnknownEnumOpts[j].Param
	})
}

func mergeSorted(a, b []string) []string {
	out := append(append([]string{}, a...), b...)
	sort.Strings(out)
	return out
}

// Print renders a human-readable report of every problem found, naming
// className (e.g. "Material 'glass_1'") the way ParamError::print does
// for the class/instance being constructed.
func (e *Error) Print(className string) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s:\n", className)
	if len(e.UnknownParams) > 0 {
		sb.WriteString("Unknown parameter names, ignoring them:\n")
		for _, p := range e.UnknownParams {
			fmt.Fprintf(&sb, " - %q\n", p)
		}
	}
	if len(e.WrongTypeParams) > 0 {
		sb.WriteString("Parameters set with wrong types, this can cause undefined behavior:\n")
		for _, p := range e.WrongTypeParams {
			fmt.Fprintf(&sb, " - %q\n", p)
		}
	}
	if len(e.UnknownEnumOpts) > 0 {
		sb.WriteString("Unknown option in parameters, using default parameter option:\n")
		for _, m := range e.UnknownEnumOpts {
			fmt.Fprintf(&sb, " - %q in parameter %q\n", m.Value, m.Param)
		}
	}
	if len(e.MissingRequired) > 0 {
		sb.WriteString("Required parameters not set:\n")
		for _, p := range e.MissingRequired {
			fmt.Fprintf(&sb, " - %q\n", p)
		}
	}
	return sb.String()
}

// Validate checks m against schema: unknown keys produce a warning,
// wrong-type values produce an error, out-of-set enum strings produce a
// warning (the caller falls back to that field's default), and missing
// required fields produce an error. Rendering proceeds with defaults
// where possible (spec §7): Validate never panics on a malformed map, it
// only ever returns flags describing what's wrong with it.
func Validate(schema Schema, m Map) *Error {
	e := &Error{}

	for name, field := range schema {
		v, present := m[name]
		if !present {
			if field.Required {
				e.Flags |= ErrorNotFound
				e.MissingRequired = append(e.MissingRequired, name)
			}
			continue
		}
		if !typeMatches(field.Type, v) {
			e.Flags |= ErrorWrongParamType
			e.WrongTypeParams = append(e.WrongTypeParams, name)
			continue
		}
		if field.Type == TypeEnum {
			s := v.(string)
			if !containsString(field.Enum, s) {
				e.Flags |= WarningUnknownEnumOption
				e.UnknownEnumOpts = append(e.UnknownEnumOpts, EnumMismatch{Param: name, Value: s})
			}
		}
	}

	for name := range m {
		if _, known := schema[name]; !known {
			e.Flags |= WarningUnknownParam
			e.UnknownParams = append(e.UnknownParams, name)
		}
	}

	sort.Strings(e.UnknownParams)
	sort.Strings(e.WrongTypeParams)
	sort.Strings(e.MissingRequired)
	return e
}

func typeMatches(t Type, v interface{}) bool {
	switch t {
	case TypeBool:
		_, ok := v.(bool)
		return ok
	case TypeInt:
		_, ok := v.(int)
		return ok
	case TypeFloat:
		_, ok := v.(float64)
		return ok
	case TypeString, TypeEnum:
		_, ok := v.(string)
		return ok
	case TypeVector, TypeColor:
		_, ok := v.([3]float64)
		return ok
	case TypeMatrix:
		_, ok := v.([16]float64)
		return ok
	default:
		return false
	}
}

func containsString(set []string, s string) bool {
	for _, v := range set {
		if v == s {
			return true
		}
	}
	return false
}
