package sink

// Theme holds the colours of the highlight variants.
type Theme struct {
	Path     string `json:"path"`
	Match    string `json:"match"`
	Selected string `json:"selected"`
	Token    string `json:"token"`
}

// DefaultTheme is black on white with red query matches and blue
// selections.
var DefaultTheme = Theme{
	Path:     "#333333",
	Match:    "#d9534f",
	Selected: "#337ab7",
	Token:    "#000000",
}

func (t Theme) withDefaults() Theme {
	if t.Path == "" {
		t.Path = DefaultTheme.Path
	}
	if t.Match == "" {
		t.Match = DefaultTheme.Match
	}
	if t.Selected == "" {
		t.Selected = DefaultTheme.Selected
	}
	if t.Token == "" {
		t.Token = DefaultTheme.Token
	}
	return t
}
