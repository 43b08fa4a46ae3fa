package appearance

import "strings"

type Mode string

const (
	Light Mode = "light"
	Dark  Mode = "dark"
)

const Primary = "#FF5524"

// Theme is the palette the client paints the seat grid with.
type Theme struct {
	Mode       Mode          `json:"mode"`
	Background string        `json:"background"`
	Text       string        `json:"text"`
	Border     string        `json:"border"`
	Primary    string        `json:"primary"`
	Legend     LegendPalette `json:"legend"`
}

type LegendPalette struct {
	Available string `json:"available"`
	Taken     string `json:"taken"`
	Selected  string `json:"selected"`
}

var themes = map[Mode]Theme{
	Light: {
		Mode:       Light,
		Background: "#FFFFFF",
		Text:       "#000000",
		Border:     "#E5E5E5",
		Primary:    Primary,
		Legend:     LegendPalette{Available: "#FFFFFF", Taken: "#BDBDBD", Selected: Primary},
	},
	Dark: {
		Mode:       Dark,
		Background: "#000000",
		Text:       "#FFFFFF",
		Border:     "#333333",
		Primary:    Primary,
		Legend:     LegendPalette{Available: "#000000", Taken: "#555555", Selected: Primary},
	},
}

// For returns the theme for mode; anything unknown gets the dark theme.
func For(mode string) Theme {
	if t, ok := themes[Mode(strings.ToLower(strings.TrimSpace(mode)))]; ok {
		return t
	}
	return themes[Dark]
}
