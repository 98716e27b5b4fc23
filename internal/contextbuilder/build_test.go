package contextbuilder

import (
	"testing"

	"github.com/ant4g0nist/morgul/pkg/models"
)

func TestExpandVariablesDereferencesStructPointer(t *testing.T) {
	vars := []models.Variable{
		{
			Name: "ctx", Type: "*ImageCtx", Value: "0x1000",
			Children: []models.Variable{
				{
					Name: "*ctx", Type: "ImageCtx", Value: "...",
					Children: []models.Variable{
						{Name: "palette_size", Type: "int", Value: "256"},
					},
				},
			},
		},
	}

	out := expandVariables(vars, maxVariableDepth)
	if len(out) != 1 {
		t.Fatalf("expected 1 variable, got %d", len(out))
	}
	children := out[0].Children
	if len(children) != 1 || children[0].Name != "palette_size" {
		t.Fatalf("expected pointee fields promoted up one level, got %+v", children)
	}
}

func TestExpandVariablesScalarPointerLeavesChildrenEmpty(t *testing.T) {
	vars := []models.Variable{
		{
			Name: "p", Type: "*int", Value: "0x1000",
			Children: []models.Variable{
				{Name: "*p", Type: "int", Value: "42"},
			},
		},
	}

	out := expandVariables(vars, maxVariableDepth)
	if len(out[0].Children) != 0 {
		t.Fatalf("expected scalar pointee to leave children empty, got %+v", out[0].Children)
	}
}

func TestExpandVariablesLeavesNonPointersAlone(t *testing.T) {
	vars := []models.Variable{
		{
			Name: "s", Type: "Header", Value: "...",
			Children: []models.Variable{
				{Name: "magic", Type: "uint32", Value: "1"},
			},
		},
	}

	out := expandVariables(vars, maxVariableDepth)
	if len(out[0].Children) != 1 || out[0].Children[0].Name != "magic" {
		t.Fatalf("expected non-pointer children preserved as-is, got %+v", out[0].Children)
	}
}
