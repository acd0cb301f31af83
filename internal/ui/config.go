// Package ui hosts the minimal ebiten front end: keyboard-to-joypad input
// and framebuffer blit. Save states, a settings/ROM-picker menu, and audio
// are not implemented.
package ui

// Config contains window-related settings.
type Config struct {
	Title string // window title
	Scale int    // integer upscaling factor
}

// Defaults fills missing fields with reasonable defaults.
func (c *Config) Defaults() {
	if c.Title == "" {
		c.Title = "gbemu"
	}
	if c.Scale <= 0 {
		c.Scale = 3
	}
}
