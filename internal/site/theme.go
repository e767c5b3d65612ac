package site

// Theme is chosen per request and never stored; a plain reload is always
// DefaultTheme.
type Theme string

const (
	ThemeDark    Theme = "dark"
	ThemeLight   Theme = "light"
	DefaultTheme       = ThemeDark
)

// ParseTheme maps a query value to a theme, falling back to DefaultTheme.
func ParseTheme(s string) Theme {
	switch Theme(s) {
	case ThemeDark:
		return ThemeDark
	case ThemeLight:
		return ThemeLight
	}
	return DefaultTheme
}

func (t Theme) Toggle() Theme {
	if t == ThemeDark {
		return ThemeLight
	}
	return ThemeDark
}

func (t Theme) IsDark() bool { return t == ThemeDark }

// RootClass is the class applied to <html>.
func (t Theme) RootClass() string {
	if t.IsDark() {
		return "dark"
	}
	return ""
}
