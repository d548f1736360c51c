package cast

import "strings"

// ThemeMode selects the user interface theme.
type ThemeMode string

const (
	// ThemeLight is the light theme with bright colors.
	ThemeLight ThemeMode = "LIGHT"
	// ThemeDark is the dark theme with muted colors.
	ThemeDark ThemeMode = "DARK"
	// ThemeAuto follows the system theme.
	ThemeAuto ThemeMode = "AUTO"
)

// themeModes lists the members for error reporting.
var themeModes = []string{string(ThemeLight), string(ThemeDark), string(ThemeAuto)}

// ParseThemeMode parses a theme mode name case-insensitively.
func ParseThemeMode(s string) (ThemeMode, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case string(ThemeLight):
		return ThemeLight, nil
	case string(ThemeDark):
		return ThemeDark, nil
	case string(ThemeAuto):
		return ThemeAuto, nil
	default:
		return "", &EnumError{Key: KeyThemeMode, Raw: s, Allowed: themeModes}
	}
}
