package params

import "testing"

func testSchema() Schema {
	return Schema{
		"ior":       {Type: TypeFloat, Required: true},
		"name":      {Type: TypeString},
		"color":     {Type: TypeColor},
		"transform": {Type: TypeMatrix},
		"visible":   {Type: TypeBool},
		"shader":    {Type: TypeEnum, Enum: []string{"phong", "oren_nayar", "lambert"}},
	}
}

func TestValidateAcceptsWellFormedMap(t *testing.T) {
	e := Validate(testSchema(), Map{
		"ior":    1.5,
		"name":   "glass",
		"color":  [3]float64{1, 1, 1},
		"shader": "phong",
	})
	if !e.IsOk() {
		t.Fatalf("expected ok, got flags %v: %s", e.Flags, e.Print("material"))
	}
}

func TestValidateFlagsUnknownParam(t *testing.T) {
	e := Validate(testSchema(), Map{"ior": 1.5, "bogus": 1.0})
	if e.Flags&WarningUnknownParam == 0 {
		t.Errorf("expected WarningUnknownParam flag")
	}
	if len(e.UnknownParams) != 1 || e.UnknownParams[0] != "bogus" {
		t.Errorf("expected [bogus], got %v", e.UnknownParams)
	}
}

func TestValidateFlagsWrongType(t *testing.T) {
	e := Validate(testSchema(), Map{"ior": "not a float"})
	if e.Flags&ErrorWrongParamType == 0 {
		t.Errorf("expected ErrorWrongParamType flag")
	}
	if !e.Flags.HasError() {
		t.Errorf("expected HasError true")
	}
	if len(e.WrongTypeParams) != 1 || e.WrongTypeParams[0] != "ior" {
		t.Errorf("expected [ior], got %v", e.WrongTypeParams)
	}
}

func TestValidateFlagsMissingRequired(t *testing.T) {
	e := Validate(testSchema(), Map{"name": "glass"})
	if e.Flags&ErrorNotFound == 0 {
		t.Errorf("expected ErrorNotFound flag")
	}
	if len(e.MissingRequired) != 1 || e.MissingRequired[0] != "ior" {
		t.Errorf("expected [ior], got %v", e.MissingRequired)
	}
}

func TestValidateFlagsUnknownEnumOption(t *testing.T) {
	e := Validate(testSchema(), Map{"ior": 1.0, "shader": "blinn"})
	if e.Flags&WarningUnknownEnumOption == 0 {
		t.Errorf("expected WarningUnknownEnumOption flag")
	}
	if !e.Flags.HasWarning() {
		t.Errorf("expected HasWarning true")
	}
	if len(e.UnknownEnumOpts) != 1 || e.UnknownEnumOpts[0].Value != "blinn" {
		t.Errorf("expected one mismatch for blinn, got %v", e.UnknownEnumOpts)
	}
}

func TestErrorMergeCombinesFlagsAndListsSorted(t *testing.T) {
	a := Validate(testSchema(), Map{"ior": 1.0, "zeta": 1.0})
	b := Validate(testSchema(), Map{"ior": 1.0, "alpha": 1.0})
	a.Merge(b)
	if len(a.UnknownParams) != 2 || a.UnknownParams[0] != "alpha" || a.UnknownParams[1] != "zeta" {
		t.Fatalf("expected merged sorted [alpha zeta], got %v", a.UnknownParams)
	}
}

func TestErrorPrintNamesEveryProblemCategory(t *testing.T) {
	e := Validate(testSchema(), Map{"bogus": 1.0, "shader": "blinn"})
	out := e.Print("Material 'test'")
	for _, want := range []string{"Material 'test'", "bogus", "Required parameters not set", "ior"} {
		if !contains(out, want) {
			t.Errorf("expected output to contain %q, got:\n%s", want, out)
		}
	}
}

func contains(haystack, needle string) bool {
	for i := 0; i+len(needle) <= len(haystack); i++ {
		if haystack[i:i+len(needle)] == needle {
			return true
		}
	}
	return false
}
