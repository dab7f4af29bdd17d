package errors

import (
	"strings"
	"testing"
)

func TestValidateAssetPath(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"relative", "models/ship.p3d", false},
		{"absolute", "/srv/assets/ship.3ds", false},
		{"windows", `C:\assets\ship.x`, false},
		{"spaces", "my models/a b.fbx", false},

		{"empty", "", true},
		{"too long", strings.Repeat("a", 2000), true},
		{"null byte", "foo\x00bar", true},
		{"newline", "foo\nbar", true},
		{"control char", "foo\x01bar", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateAssetPath(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateAssetPath(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidPath) {
				t.Errorf("ValidateAssetPath(%q) code = %v, want %v", tt.input, GetCode(err), ErrCodeInvalidPath)
			}
		})
	}
}

func TestValidateOutputPath(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"plain", "scene.ldr", false},
		{"no extension", "out/scene", false},

		{"empty", "", true},
		{"blank", "   ", true},
		{"directory", "out/", true},
		{"null byte", "a\x00.ldr", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateOutputPath(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateOutputPath(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}
