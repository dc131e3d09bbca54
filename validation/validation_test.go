package validation

import (
	"strings"
	"testing"
	"time"

	"github.com/kbukum/nucleus/errors"
)

func TestValidatorRequired(t *testing.T) {
	v := New()
	v.Required("name", "DAS")
	if v.HasErrors() {
		t.Error("expected no errors for valid input")
	}

	v2 := New()
	v2.Required("name", "")
	if !v2.HasErrors() {
		t.Error("expected error for empty required field")
	}

	v3 := New()
	v3.Required("name", "   ")
	if !v3.HasErrors() {
		t.Error("expected error for whitespace-only required field")
	}
}

func TestValidatorPath(t *testing.T) {
	tests := []struct {
		value   string
		wantErr bool
	}{
		{"/atg/dynamo/MyComponent", false},
		{"/", false},
		{"", true},
		{"atg/dynamo", true},
		{"/atg/../..", true},
		{"/bad segment", true},
	}
	for _, tt := range tests {
		v := New().Path("initial_service", tt.value)
		if v.HasErrors() != tt.wantErr {
			t.Errorf("Path(%q): errors=%v, want %v", tt.value, v.Errors(), tt.wantErr)
		}
	}
}

func TestValidatorNames(t *testing.T) {
	v := New().Names("modules", []string{"DAS", "DafEar.base"})
	if v.HasErrors() {
		t.Errorf("expected no errors, got %v", v.Errors())
	}

	v2 := New().Names("modules", []string{"DAS", "", "DAS"})
	errs := v2.Errors()
	if len(errs) != 2 {
		t.Fatalf("expected 2 errors, got %v", errs)
	}
	if errs[0].Field != "modules[1]" || errs[1].Field != "modules[2]" {
		t.Errorf("unexpected fields %v", errs)
	}

	for _, bad := range []string{"bad name", "DAS/base", "Da$"} {
		if v := New().Names("modules", []string{"DAS", bad}); !v.HasErrors() {
			t.Errorf("expected %q to be rejected", bad)
		}
	}
}

func TestValidatorOneOf(t *testing.T) {
	v := New()
	v.OneOf("mode", "new", []string{"new", "existing"})
	if v.HasErrors() {
		t.Error("expected no error for valid oneOf value")
	}

	v2 := New()
	v2.OneOf("mode", "unknown", []string{"new", "existing"})
	if !v2.HasErrors() {
		t.Error("expected error for invalid oneOf value")
	}

	// Empty should be skipped
	v3 := New()
	v3.OneOf("mode", "", []string{"new"})
	if v3.HasErrors() {
		t.Error("expected no error for empty oneOf value")
	}
}

func TestValidatorCustom(t *testing.T) {
	v := New()
	v.Custom(true, "field", "should pass")
	if v.HasErrors() {
		t.Error("expected no error for true condition")
	}

	v2 := New()
	v2.Custom(false, "field", "custom error")
	if !v2.HasErrors() {
		t.Error("expected error for false condition")
	}
	if v2.Errors()[0].Message != "custom error" {
		t.Errorf("expected 'custom error', got %q", v2.Errors()[0].Message)
	}
}

func TestValidatorValidate(t *testing.T) {
	v := New()
	v.Required("name", "DAS")
	if appErr := v.Validate(); appErr != nil {
		t.Error("expected nil for valid input")
	}

	v2 := New()
	v2.Required("name", "")
	v2.Path("initial_service", "relative")
	appErr := v2.Validate()
	if appErr == nil {
		t.Fatal("expected error")
	}
	if appErr.Code != errors.ErrCodeInvalidInput {
		t.Errorf("expected INVALID_INPUT, got %s", appErr.Code)
	}
	if appErr.Details == nil {
		t.Fatal("expected details in error")
	}
	if !strings.Contains(appErr.Message, "name") || !strings.Contains(appErr.Message, "initial_service") {
		t.Errorf("expected both fields in message, got %q", appErr.Message)
	}
}

func TestValidatorChaining(t *testing.T) {
	v := New()
	result := v.Required("name", "DAS").Path("initial_service", "/atg/dynamo/MyComponent")
	if result != v {
		t.Error("expected chaining to return same validator")
	}
	if v.HasErrors() {
		t.Error("expected no errors for valid chained validation")
	}
}

type sessionsConfig struct {
	IdleTimeout time.Duration `mapstructure:"idle_timeout" validate:"gte=0"`
}

type testConfig struct {
	Modules        []string       `mapstructure:"modules" validate:"required,min=1,dive,required"`
	InitialService string         `mapstructure:"initial_service" validate:"required,component_path"`
	Sessions       sessionsConfig `mapstructure:"sessions"`
}

func TestStructValidateValid(t *testing.T) {
	err := Validate(testConfig{
		Modules:        []string{"DAS"},
		InitialService: "/atg/dynamo/MyComponent",
	})
	if err != nil {
		t.Errorf("expected no error, got %v", err)
	}
}

func TestStructValidateInvalid(t *testing.T) {
	tests := []struct {
		name    string
		cfg     testConfig
		field   string
		message string
	}{
		{
			"missing modules",
			testConfig{InitialService: "/a"},
			"modules", "is required",
		},
		{
			"empty module name",
			testConfig{Modules: []string{""}, InitialService: "/a"},
			"modules[0]", "is required",
		},
		{
			"relative initial service",
			testConfig{Modules: []string{"DAS"}, InitialService: "a/b"},
			"initial_service", "must be an absolute component path",
		},
		{
			"negative idle timeout",
			testConfig{Modules: []string{"DAS"}, InitialService: "/a", Sessions: sessionsConfig{IdleTimeout: -time.Second}},
			"sessions.idle_timeout", "must be greater than or equal to 0",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.cfg)
			if err == nil {
				t.Fatal("expected validation error")
			}
			want := tt.field + ": " + tt.message
			if !strings.Contains(err.Error(), want) {
				t.Errorf("expected %q in %q", want, err.Error())
			}
		})
	}
}

func TestToSnakeCase(t *testing.T) {
	tests := map[string]string{
		"InitialService": "initial_service",
		"Modules":        "modules",
		"ID":             "i_d",
	}
	for in, want := range tests {
		if got := toSnakeCase(in); got != want {
			t.Errorf("toSnakeCase(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestRequiredFunc(t *testing.T) {
	if err := Required("name", "value"); err != nil {
		t.Errorf("expected nil, got %v", err)
	}
	if err := Required("name", ""); err == nil {
		t.Error("expected error for empty required field")
	}
}
