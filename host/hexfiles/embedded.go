// Package hexfiles carries the embedded listener firmware images, indexed
// by board model. The images are opaque Intel HEX payloads handed to the
// bootstrapper; the session never looks inside them.
package hexfiles

import (
	_ "embed"
	"fmt"
	"strings"
)

//go:embed listener-uno.hex
var unoHex string

//go:embed listener-mega.hex
var megaHex string

var byModel = map[string]string{
	"uno":  unoHex,
	"mega": megaHex,
}

// Models lists the board models an image is embedded for.
func Models() []string {
	return []string{"uno", "mega"}
}

// ForModel returns the listener image for a board model as hex lines.
func ForModel(model string) ([]string, error) {
	image, ok := byModel[model]
	if !ok {
		return nil, fmt.Errorf("no listener image embedded for model %q", model)
	}
	var lines []string
	for _, line := range strings.Split(image, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			lines = append(lines, line)
		}
	}
	return lines, nil
}
