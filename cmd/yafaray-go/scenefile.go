package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/yafaray-go/yafaray/pkg/core"
	"github.com/yafaray-go/yafaray/pkg/geometry"
	"github.com/yafaray-go/yafaray/pkg/lights"
	"github.com/yafaray-go/yafaray/pkg/material"
	"github.com/yafaray-go/yafaray/pkg/params"
	"github.com/yafaray-go/yafaray/pkg/scene"
)

// sceneFile is the on-disk JSON shape a render subcommand invocation
// reads: a camera, a flat list of named materials, a flat list of
// shapes each referencing a material by name, a flat list of lights,
// and an optional list of extra named views rendered from the same
// scene. There is no nesting or instancing, matching the minimal scene
// graph pkg/scene itself supports.
type sceneFile struct {
	Camera     json.RawMessage            `json:"camera"`
	Materials  map[string]json.RawMessage `json:"materials"`
	Shapes     []json.RawMessage          `json:"shapes"`
	Lights     []json.RawMessage          `json:"lights"`
	Background [3]float64                `json:"background"`
	// Views is optional: extra named cameras rendered from the same
	// scene, on top of the required primary Camera.
	Views []json.RawMessage `json:"views"`
}

// namedView pairs a view name with its built camera, the scene-file
// decoding of driver.View.
type namedView struct {
	Name   string
	Camera *scene.Camera
}

var viewSchema = params.Schema{
	"name":      {Type: params.TypeString, Required: true},
	"look_from": {Type: params.TypeVector, Required: true},
	"look_at":   {Type: params.TypeVector, Required: true},
	"up":        {Type: params.TypeVector},
	"vfov":      {Type: params.TypeFloat, Required: true},
	"aspect":    {Type: params.TypeFloat, Required: true},
}

var cameraSchema = params.Schema{
	"look_from": {Type: params.TypeVector, Required: true},
	"look_at":   {Type: params.TypeVector, Required: true},
	"up":        {Type: params.TypeVector},
	"vfov":      {Type: params.TypeFloat, Required: true},
	"aspect":    {Type: params.TypeFloat, Required: true},
}

var materialSchemas = map[string]params.Schema{
	"lambertian": {
		"type":   {Type: params.TypeEnum, Enum: []string{"lambertian"}, Required: true},
		"albedo": {Type: params.TypeColor, Required: true},
	},
	"metal": {
		"type":   {Type: params.TypeEnum, Enum: []string{"metal"}, Required: true},
		"albedo": {Type: params.TypeColor, Required: true},
		"fuzz":   {Type: params.TypeFloat},
	},
	"dielectric": {
		"type": {Type: params.TypeEnum, Enum: []string{"dielectric"}, Required: true},
		"ior":  {Type: params.TypeFloat, Required: true},
	},
	"emissive": {
		"type":     {Type: params.TypeEnum, Enum: []string{"emissive"}, Required: true},
		"radiance": {Type: params.TypeColor, Required: true},
	},
}

var sphereSchema = params.Schema{
	"type":     {Type: params.TypeEnum, Enum: []string{"sphere"}, Required: true},
	"center":   {Type: params.TypeVector, Required: true},
	"radius":   {Type: params.TypeFloat, Required: true},
	"material": {Type: params.TypeString, Required: true},
}

var quadSchema = params.Schema{
	"type":     {Type: params.TypeEnum, Enum: []string{"quad"}, Required: true},
	"corner":   {Type: params.TypeVector, Required: true},
	"u":        {Type: params.TypeVector, Required: true},
	"v":        {Type: params.TypeVector, Required: true},
	"material": {Type: params.TypeString, Required: true},
}

var pointLightSchema = params.Schema{
	"type":      {Type: params.TypeEnum, Enum: []string{"point"}, Required: true},
	"position":  {Type: params.TypeVector, Required: true},
	"intensity": {Type: params.TypeColor, Required: true},
}

var quadLightSchema = params.Schema{
	"type":     {Type: params.TypeEnum, Enum: []string{"quad"}, Required: true},
	"corner":   {Type: params.TypeVector, Required: true},
	"u":        {Type: params.TypeVector, Required: true},
	"v":        {Type: params.TypeVector, Required: true},
	"radiance": {Type: params.TypeColor, Required: true},
}

// loadScene reads path, validates every entity's parameter map against
// its schema (aggregating every problem across the whole file into one
// *params.Error, per the construction-call aggregation spec §7
// describes) and, if nothing fatal was found, builds the scene.
func loadScene(path string) (*scene.Scene, []namedView, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("reading scene file: %w", err)
	}
	var sf sceneFile
	if err := json.Unmarshal(raw, &sf); err != nil {
		return nil, nil, fmt.Errorf("parsing scene file: %w", err)
	}

	agg := &params.Error{}

	cam, cameraErr := buildCamera(sf.Camera, agg)

	materials := make(map[string]material.Material, len(sf.Materials))
	for name, body := range sf.Materials {
		mat, e := buildMaterial(body)
		agg.Merge(e)
		if mat != nil {
			materials[name] = mat
		}
	}

	var shapes []geometry.Shape
	for i, body := range sf.Shapes {
		shape, e := buildShape(body, materials)
		agg.Merge(e)
		if shape != nil {
			shapes = append(shapes, shape)
		} else {
			agg.UnknownParams = append(agg.UnknownParams, fmt.Sprintf("shapes[%d]: could not build", i))
		}
	}

	var lightList []lights.Light
	for i, body := range sf.Lights {
		light, e := buildLight(body)
		agg.Merge(e)
		if light != nil {
			lightList = append(lightList, light)
		} else {
			agg.UnknownParams = append(agg.UnknownParams, fmt.Sprintf("lights[%d]: could not build", i))
		}
	}

	var views []namedView
	for i, body := range sf.Views {
		v, e := buildView(body)
		agg.Merge(e)
		if v != nil {
			views = append(views, *v)
		} else {
			agg.UnknownParams = append(agg.UnknownParams, fmt.Sprintf("views[%d]: could not build", i))
		}
	}

	if agg.Flags.HasError() || cameraErr {
		return nil, nil, fmt.Errorf("scene file has fatal errors:\n%s", agg.Print(path))
	}
	if agg.Flags.HasWarning() {
		fmt.Fprint(os.Stderr, agg.Print(path))
	}

	background := core.NewVec3(sf.Background[0], sf.Background[1], sf.Background[2])
	return scene.New(shapes, lightList, cam, background), views, nil
}

func buildView(body json.RawMessage) (*namedView, *params.Error) {
	m, err := decodeMap(body)
	if err != nil {
		return nil, &params.Error{Flags: params.ErrorWrongParamType}
	}
	e := params.Validate(viewSchema, m)
	if e.Flags.HasError() {
		return nil, e
	}
	name, _ := m["name"].(string)
	lookFrom := vecOrDefault(m, "look_from", core.NewVec3(0, 0, 0))
	lookAt := vecOrDefault(m, "look_at", core.NewVec3(0, 0, -1))
	up := vecOrDefault(m, "up", core.NewVec3(0, 1, 0))
	vfov, _ := m["vfov"].(float64)
	aspect, _ := m["aspect"].(float64)
	cam := scene.NewCamera(scene.CameraConfig{
		LookFrom:    lookFrom,
		LookAt:      lookAt,
		Up:          up,
		VFOVDegrees: vfov,
		AspectRatio: aspect,
	})
	return &namedView{Name: name, Camera: cam}, e
}

func buildCamera(body json.RawMessage, agg *params.Error) (*scene.Camera, bool) {
	m, err := decodeMap(body)
	if err != nil || m == nil {
		agg.Flags |= params.ErrorNotFound
		agg.MissingRequired = append(agg.MissingRequired, "camera")
		return nil, true
	}
	e := params.Validate(cameraSchema, m)
	agg.Merge(e)
	if e.Flags.HasError() {
		return nil, true
	}
	lookFrom := vecOrDefault(m, "look_from", core.NewVec3(0, 0, 0))
	lookAt := vecOrDefault(m, "look_at", core.NewVec3(0, 0, -1))
	up := vecOrDefault(m, "up", core.NewVec3(0, 1, 0))
	vfov, _ := m["vfov"].(float64)
	aspect, _ := m["aspect"].(float64)
	cam := scene.NewCamera(scene.CameraConfig{
		LookFrom:    lookFrom,
		LookAt:      lookAt,
		Up:          up,
		VFOVDegrees: vfov,
		AspectRatio: aspect,
	})
	return cam, false
}

func buildMaterial(body json.RawMessage) (material.Material, *params.Error) {
	m, err := decodeMap(body)
	if err != nil {
		return nil, &params.Error{Flags: params.ErrorWrongParamType}
	}
	kind, _ := m["type"].(string)
	schema, ok := materialSchemas[kind]
	if !ok {
		return nil, &params.Error{Flags: params.WarningUnknownEnumOption, UnknownEnumOpts: []params.EnumMismatch{{Param: "type", Value: kind}}}
	}
	e := params.Validate(schema, m)
	if e.Flags.HasError() {
		return nil, e
	}
	switch kind {
	case "lambertian":
		return material.NewLambertian(vecOrDefault(m, "albedo", core.Vec3{})), e
	case "metal":
		fuzz, _ := m["fuzz"].(float64)
		return material.NewMetal(vecOrDefault(m, "albedo", core.Vec3{}), fuzz), e
	case "dielectric":
		ior, _ := m["ior"].(float64)
		return material.NewDielectric(ior), e
	case "emissive":
		return material.NewEmissive(vecOrDefault(m, "radiance", core.Vec3{})), e
	default:
		return nil, e
	}
}

func buildShape(body json.RawMessage, materials map[string]material.Material) (geometry.Shape, *params.Error) {
	m, err := decodeMap(body)
	if err != nil {
		return nil, &params.Error{Flags: params.ErrorWrongParamType}
	}
	kind, _ := m["type"].(string)
	matName, _ := m["material"].(string)
	mat, matFound := materials[matName]

	switch kind {
	case "sphere":
		e := params.Validate(sphereSchema, m)
		if !matFound {
			e.Flags |= params.ErrorNotFound
			e.MissingRequired = append(e.MissingRequired, "material:"+matName)
		}
		if e.Flags.HasError() {
			return nil, e
		}
		center := vecOrDefault(m, "center", core.Vec3{})
		radius, _ := m["radius"].(float64)
		return geometry.NewSphere(center, radius, mat), e
	case "quad":
		e := params.Validate(quadSchema, m)
		if !matFound {
			e.Flags |= params.ErrorNotFound
			e.MissingRequired = append(e.MissingRequired, "material:"+matName)
		}
		if e.Flags.HasError() {
			return nil, e
		}
		corner := vecOrDefault(m, "corner", core.Vec3{})
		u := vecOrDefault(m, "u", core.Vec3{})
		v := vecOrDefault(m, "v", core.Vec3{})
		return geometry.NewQuad(corner, u, v, mat), e
	default:
		return nil, &params.Error{Flags: params.WarningUnknownEnumOption, UnknownEnumOpts: []params.EnumMismatch{{Param: "type", Value: kind}}}
	}
}

func buildLight(body json.RawMessage) (lights.Light, *params.Error) {
	m, err := decodeMap(body)
	if err != nil {
		return nil, &params.Error{Flags: params.ErrorWrongParamType}
	}
	kind, _ := m["type"].(string)
	switch kind {
	case "point":
		e := params.Validate(pointLightSchema, m)
		if e.Flags.HasError() {
			return nil, e
		}
		pos := vecOrDefault(m, "position", core.Vec3{})
		intensity := vecOrDefault(m, "intensity", core.Vec3{})
		return lights.NewPointLight(pos, intensity), e
	case "quad":
		e := params.Validate(quadLightSchema, m)
		if e.Flags.HasError() {
			return nil, e
		}
		corner := vecOrDefault(m, "corner", core.Vec3{})
		u := vecOrDefault(m, "u", core.Vec3{})
		v := vecOrDefault(m, "v", core.Vec3{})
		radiance := vecOrDefault(m, "radiance", core.Vec3{})
		emitter := material.NewEmissive(radiance)
		quad := geometry.NewQuad(corner, u, v, emitter)
		return lights.NewQuadLight(quad), e
	default:
		return nil, &params.Error{Flags: params.WarningUnknownEnumOption, UnknownEnumOpts: []params.EnumMismatch{{Param: "type", Value: kind}}}
	}
}

// decodeMap unmarshals one JSON object into a params.Map, converting
// every 3-element JSON array into a [3]float64 and every number into a
// float64 so the result lines up with the Go-native shapes
// params.Validate expects.
func decodeMap(body json.RawMessage) (params.Map, error) {
	var raw map[string]interface{}
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, err
	}
	out := make(params.Map, len(raw))
	for k, v := range raw {
		out[k] = normalizeValue(v)
	}
	return out, nil
}

func normalizeValue(v interface{}) interface{} {
	switch val := v.(type) {
	case []interface{}:
		if len(val) == 3 {
			var arr [3]float64
			ok := true
			for i, e := range val {
				f, isFloat := e.(float64)
				if !isFloat {
					ok = false
					break
				}
				arr[i] = f
			}
			if ok {
				return arr
			}
		}
		if len(val) == 16 {
			var arr [16]float64
			ok := true
			for i, e := range val {
				f, isFloat := e.(float64)
				if !isFloat {
					ok = false
					break
				}
				arr[i] = f
			}
			if ok {
				return arr
			}
		}
		return v
	default:
		return v
	}
}

func vecOrDefault(m params.Map, key string, def core.Vec3) core.Vec3 {
	if arr, ok := m[key].([3]float64); ok {
		return core.NewVec3(arr[0], arr[1], arr[2])
	}
	return def
}
