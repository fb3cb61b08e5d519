package tool

import (
	"context"
	"errors"
	"testing"
)

func echoTool(t *testing.T, schema Schema) *Tool {
	t.Helper()
	tool, err := New("echo", "echoes its arguments", schema, func(_ context.Context, args map[string]interface{}) (interface{}, error) {
		return args, nil
	})
	if err != nil {
		t.Fatal(err)
	}
	return tool
}

func TestNewValidatesSchema(t *testing.T) {
	run := func(context.Context, map[string]interface{}) (interface{}, error) { return nil, nil }

	tests := []struct {
		name    string
		tool    string
		schema  Schema
		run     RunFunc
		wantErr bool
	}{
		{"valid", "t", Schema{"p": {Type: TypeString}}, run, false},
		{"empty name", "", Schema{}, run, true},
		{"nil run", "t", Schema{}, nil, true},
		{"bad type", "t", Schema{"p": {Type: "blob"}}, run, true},
		{"enum on integer", "t", Schema{"p": {Type: TypeInteger, Enum: []string{"a"}}}, run, true},
		{"empty param name", "t", Schema{"": {Type: TypeString}}, run, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.tool, "", tt.schema, tt.run)
			if (err != nil) != tt.wantErr {
				t.Errorf("New() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestDefinitionAdvertisesRequiredOnly(t *testing.T) {
	tool := echoTool(t, Schema{
		"key word":   {Type: TypeString, Description: "search text", Required: true},
		"categories": {Type: TypeString, Description: "field filter"},
	})

	def := tool.Definition()
	if def.Type != "function" || def.Function.Name != "echo" {
		t.Fatalf("unexpected definition header: %+v", def)
	}

	params := def.Function.Parameters
	if params.Type != "object" {
		t.Errorf("parameters type = %q, want object", params.Type)
	}
	if len(params.Properties) != 1 {
		t.Fatalf("properties = %v, want only the required parameter", params.Properties)
	}
	if _, ok := params.Properties["key word"]; !ok {
		t.Error("required parameter missing from properties")
	}
	if len(params.Required) != 1 || params.Required[0] != "key word" {
		t.Errorf("required = %v, want [key word]", params.Required)
	}
}

func TestCallMissingParameters(t *testing.T) {
	executed := false
	tool, err := New("strict", "", Schema{
		"key word": {Type: TypeString, Required: true},
		"extra":    {Type: TypeString, Required: true},
	}, func(context.Context, map[string]interface{}) (interface{}, error) {
		executed = true
		return nil, nil
	})
	if err != nil {
		t.Fatal(err)
	}

	res, err := tool.Call(context.Background(), map[string]interface{}{})
	if err != nil {
		t.Fatalf("Call() error = %v", err)
	}
	if res.Status != "error" || res.Error != ErrCodeMissingParameters {
		t.Errorf("envelope = %+v, want MissingParameters error", res)
	}
	if res.Message != "Missing required parameters: extra, key word" {
		t.Errorf("message = %q", res.Message)
	}
	if executed {
		t.Error("capability ran despite missing required parameters")
	}
}

func TestCallSuccessEnvelope(t *testing.T) {
	tool := echoTool(t, Schema{"key word": {Type: TypeString, Required: true}})

	res, err := tool.Call(context.Background(), map[string]interface{}{"key word": "go"})
	if err != nil {
		t.Fatalf("Call() error = %v", err)
	}
	if res.Status != "success" || res.Error != "" {
		t.Errorf("envelope = %+v, want success", res)
	}
}

func TestCallNoEnumValidation(t *testing.T) {
	var seen map[string]interface{}
	tool, err := New("lenient", "", Schema{
		"key word":   {Type: TypeString, Required: true},
		"categories": {Type: TypeString, Enum: []string{"full-time", "Contract"}},
	}, func(_ context.Context, args map[string]interface{}) (interface{}, error) {
		seen = args
		return "ok", nil
	})
	if err != nil {
		t.Fatal(err)
	}

	// A value outside the enum passes through untouched; only presence of
	// required keys is checked.
	res, err := tool.Call(context.Background(), map[string]interface{}{
		"key word":   "python",
		"categories": "part-time",
	})
	if err != nil {
		t.Fatal(err)
	}
	if res.Status != "success" {
		t.Errorf("status = %q, want success", res.Status)
	}
	if seen["categories"] != "part-time" {
		t.Errorf("capability saw categories = %v", seen["categories"])
	}
}

func TestCallInfrastructureError(t *testing.T) {
	boom := errors.New("index unreadable")
	tool, err := New("broken", "", Schema{}, func(context.Context, map[string]interface{}) (interface{}, error) {
		return nil, boom
	})
	if err != nil {
		t.Fatal(err)
	}

	_, err = tool.Call(context.Background(), nil)
	if !errors.Is(err, boom) {
		t.Errorf("Call() error = %v, want wrapped infrastructure error", err)
	}
}

func TestCallMissingParamErrorFromCapability(t *testing.T) {
	tool, err := New("blankable", "", Schema{
		"key word": {Type: TypeString, Required: true},
	}, func(context.Context, map[string]interface{}) (interface{}, error) {
		return nil, &MissingParamError{Names: []string{"key word"}}
	})
	if err != nil {
		t.Fatal(err)
	}

	// The key is present but blank; the capability reports it the same way
	// as an absent one.
	res, err := tool.Call(context.Background(), map[string]interface{}{"key word": "   "})
	if err != nil {
		t.Fatalf("Call() error = %v", err)
	}
	if res.Status != "error" || res.Error != ErrCodeMissingParameters {
		t.Errorf("envelope = %+v, want MissingParameters", res)
	}
}

func TestRegistryDispatch(t *testing.T) {
	reg := NewRegistry()
	if err := reg.Register(echoTool(t, Schema{"key word": {Type: TypeString, Required: true}})); err != nil {
		t.Fatal(err)
	}

	res, err := reg.Dispatch(context.Background(), "echo", map[string]interface{}{"key word": "x"})
	if err != nil {
		t.Fatal(err)
	}
	if res.Status != "success" {
		t.Errorf("status = %q, want success", res.Status)
	}
}

func TestRegistryToolNotFound(t *testing.T) {
	reg := NewRegistry()

	res, err := reg.Dispatch(context.Background(), "ghost", nil)
	if err != nil {
		t.Fatalf("Dispatch() error = %v, unknown tools should not be Go errors", err)
	}
	if res.Status != "error" || res.Error != ErrCodeToolNotFound {
		t.Errorf("envelope = %+v, want ToolNotFound", res)
	}
}

func TestRegistryRejectsDuplicates(t *testing.T) {
	reg := NewRegistry()
	if err := reg.Register(echoTool(t, Schema{})); err != nil {
		t.Fatal(err)
	}
	if err := reg.Register(echoTool(t, Schema{})); err == nil {
		t.Error("duplicate registration should fail")
	}
}

func TestRegistryDefinitionsStableOrder(t *testing.T) {
	reg := NewRegistry()
	for _, name := range []string{"zeta", "alpha", "mid"} {
		tl, err := New(name, "", Schema{}, func(context.Context, map[string]interface{}) (interface{}, error) {
			return nil, nil
		})
		if err != nil {
			t.Fatal(err)
		}
		if err := reg.Register(tl); err != nil {
			t.Fatal(err)
		}
	}

	defs := reg.Definitions()
	want := []string{"alpha", "mid", "zeta"}
	for i, name := range want {
		if defs[i].Function.Name != name {
			t.Errorf("definition %d = %q, want %q", i, defs[i].Function.Name, name)
		}
	}
}
