package session

import (
	"encoding/json"
	"fmt"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/akyairhashvil/streakboard/internal/config"
)

const DefaultAccent = "#7D56F4"

var prefsValidate = validator.New()

// validAccent accepts #RRGGBB only; hexcolor alone also admits short forms.
func validAccent(c string) bool {
	return prefsValidate.Var(c, "hexcolor,len=7") == nil
}

// ThemeModes lists the selectable theme modes in cycle order.
var ThemeModes = []string{config.ThemeSystem, config.ThemeLight, config.ThemeDark}

func validTheme(mode string) bool {
	for _, m := range ThemeModes {
		if m == mode {
			return true
		}
	}
	return false
}

func (s *Session) readJSON(key string, out any) bool {
	raw, ok, err := s.KV.Get(key)
	if err != nil {
		s.Logger.Warn("pref_read_failed", zap.String("key", key), zap.Error(err))
		return false
	}
	if !ok {
		return false
	}
	if err := json.Unmarshal([]byte(raw), out); err != nil {
		s.Logger.Warn("pref_malformed", zap.String("key", key), zap.Error(err))
		return false
	}
	return true
}

func (s *Session) writeJSON(key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return err
	}
	if err := s.KV.Set(key, string(raw)); err != nil {
		s.Logger.Warn("pref_write_failed", zap.String("key", key), zap.Error(err))
		return err
	}
	return nil
}

// ThemeMode returns the stored mode, falling back to the configured theme.
func (s *Session) ThemeMode() string {
	var mode string
	if s.readJSON(config.KeyThemeMode, &mode) && validTheme(mode) {
		return mode
	}
	if validTheme(s.Config.Theme) {
		return s.Config.Theme
	}
	return config.ThemeSystem
}

func (s *Session) SetThemeMode(mode string) error {
	if !validTheme(mode) {
		return fmt.Errorf("unknown theme mode %q", mode)
	}
	return s.writeJSON(config.KeyThemeMode, mode)
}

// CycleThemeMode advances to the next theme mode and returns it.
func (s *Session) CycleThemeMode() string {
	current := s.ThemeMode()
	next := ThemeModes[0]
	for i, m := range ThemeModes {
		if m == current {
			next = ThemeModes[(i+1)%len(ThemeModes)]
			break
		}
	}
	_ = s.SetThemeMode(next)
	return next
}

func (s *Session) AccentColor() string {
	var c string
	if s.readJSON(config.KeyAccentColor, &c) && validAccent(c) {
		return c
	}
	return DefaultAccent
}

func (s *Session) SetAccentColor(c string) error {
	if !validAccent(c) {
		return fmt.Errorf("accent color must look like #RRGGBB, got %q", c)
	}
	return s.writeJSON(config.KeyAccentColor, c)
}

func (s *Session) TutorialSeen() bool {
	var seen bool
	return s.readJSON(config.KeyTutorialSeen, &seen) && seen
}

func (s *Session) MarkTutorialSeen() error {
	return s.writeJSON(config.KeyTutorialSeen, true)
}
