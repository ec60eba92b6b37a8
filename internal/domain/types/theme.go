package types

// Theme is the persisted colour-scheme preference.
type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
)

// String returns the string form of the theme.
func (t Theme) String() string { return string(t) }

// Valid reports whether t is one of the two known themes.
func (t Theme) Valid() bool { return t == ThemeLight || t == ThemeDark }

// Toggle returns the other theme. Unknown values toggle to dark.
func (t Theme) Toggle() Theme {
	if t == ThemeDark {
		return ThemeLight
	}
	return ThemeDark
}

// ParseTheme maps s to a Theme, reporting false for anything else.
func ParseTheme(s string) (Theme, bool) {
	t := Theme(s)
	return t, t.Valid()
}
