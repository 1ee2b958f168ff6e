package styles

// NewDefaultTheme creates the default dark theme: green primaries on
// near-black backgrounds.
func NewDefaultTheme() *Theme {
	return &Theme{
		Name:   "default",
		IsDark: true,

		Primary:   ParseHex("#73c991"), // soft green
		Secondary: ParseHex("#56b6c2"), // cyan
		Tertiary:  ParseHex("#3a4450"), // gray-blue
		Accent:    ParseHex("#c678dd"), // purple

		BgBase:    ParseHex("#1c1d1f"),
		BgSubtle:  ParseHex("#242528"),
		BgOverlay: ParseHex("#2c2d31"),

		FgBase:   ParseHex("#aeb5c0"),
		FgMuted:  ParseHex("#80868f"),
		FgSubtle: ParseHex("#5d6470"),

		Border:      ParseHex("#3a4450"),
		BorderFocus: ParseHex("#73c991"),

		Success: ParseHex("#98c379"),
		Error:   ParseHex("#e06c75"),
		Warning: ParseHex("#e5c07b"),
		Info:    ParseHex("#61afef"),
	}
}
