package config

import (
	"fmt"
	"os"

	"github.com/adrg/xdg"
	"gopkg.in/yaml.v3"
)

const themeFile = "rc-replay/theme.yaml"

// Theme holds the board palette as hex color strings. Missing fields fall
// back to the defaults, so a theme file only needs to override what it wants.
type Theme struct {
	LightSquare   string `yaml:"light_square"`
	DarkSquare    string `yaml:"dark_square"`
	MoveHighlight string `yaml:"move_highlight"`
	RejectedMove  string `yaml:"rejected_move"`
	CaptureMark   string `yaml:"capture_mark"`
	SenseRegion   string `yaml:"sense_region"`
	WhitePiece    string `yaml:"white_piece"`
	BlackPiece    string `yaml:"black_piece"`
	StatusText    string `yaml:"status_text"`
}

var DefaultTheme = Theme{
	LightSquare:   "#b58863",
	DarkSquare:    "#8b5a2b",
	MoveHighlight: "#b8b800",
	RejectedMove:  "#b80000",
	CaptureMark:   "#d03030",
	SenseRegion:   "#2060b0",
	WhitePiece:    "#ffffff",
	BlackPiece:    "#000000",
	StatusText:    "#c0c0c0",
}

// LoadTheme reads the theme from path when given, otherwise searches the XDG
// config directories. A missing file yields the default theme.
func LoadTheme(path string) (Theme, error) {
	theme := DefaultTheme
	if path == "" {
		found, err := xdg.SearchConfigFile(themeFile)
		if err != nil {
			return theme, nil
		}
		path = found
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return theme, fmt.Errorf("read theme: %w", err)
	}
	if err := yaml.Unmarshal(data, &theme); err != nil {
		return theme, fmt.Errorf("parse theme %s: %w", path, err)
	}
	if err := theme.validate(); err != nil {
		return DefaultTheme, err
	}
	return theme, nil
}

func (t Theme) validate() error {
	for _, c := range []string{
		t.LightSquare, t.DarkSquare, t.MoveHighlight, t.RejectedMove,
		t.CaptureMark, t.SenseRegion, t.WhitePiece, t.BlackPiece, t.StatusText,
	} {
		if len(c) != 7 || c[0] != '#' {
			return fmt.Errorf("theme color %q is not a #rrggbb value", c)
		}
		for _, r := range c[1:] {
			if (r < '0' || r > '9') && (r < 'a' || r > 'f') && (r < 'A' || r > 'F') {
				return fmt.Errorf("theme color %q is not a #rrggbb value", c)
			}
		}
	}
	return nil
}
