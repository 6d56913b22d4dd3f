package hexfiles

import (
	"strings"
	"testing"
)

func TestForModel(t *testing.T) {
	for _, model := range Models() {
		lines, err := ForModel(model)
		if err != nil {
			t.Fatalf("%s: %v", model, err)
		}
		if len(lines) == 0 {
			t.Fatalf("%s: empty image", model)
		}
		for i, line := range lines {
			if !strings.HasPrefix(line, ":") {
				t.Errorf("%s line %d: %q is not an Intel HEX record", model, i, line)
			}
		}
		if lines[len(lines)-1] != ":00000001FF" {
			t.Errorf("%s: image does not end with an EOF record", model)
		}
	}
}

func TestForModelUnknown(t *testing.T) {
	if _, err := ForModel("teensy"); err == nil {
		t.Error("expected error for unknown model")
	}
}
