package renderer

import vk "github.com/goki/vulkan"

const DEFAULT_WIDTH, DEFAULT_HEIGHT int32 = 800, 600

// DEFAULT_SURFACE_FORMAT has the presentation engine encode linear shader output to sRGB.
const DEFAULT_SURFACE_FORMAT = vk.FormatB8g8r8a8Srgb

var DEFAULT_VALIDATION_LAYERS = []string{
	"VK_LAYER_KHRONOS_validation",
}

// Config is compiled into each example, nothing is read from flags or the environment.
type Config struct {
	Title  string
	Width  int32
	Height int32

	// Preferred swap chain format, the first supported one is used when the surface does not offer it
	SurfaceFormat vk.Format

	Validation       bool
	ValidationLayers []string
}

type Option func(*Config)

func NewConfig(title string, opts ...Option) Config {
	cfg := Config{
		Title:            title,
		Width:            DEFAULT_WIDTH,
		Height:           DEFAULT_HEIGHT,
		SurfaceFormat:    DEFAULT_SURFACE_FORMAT,
		ValidationLayers: DEFAULT_VALIDATION_LAYERS,
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}

func WithSize(w, h int32) Option {
	return func(c *Config) {
		c.Width, c.Height = w, h
	}
}

// WithSurfaceFormat selects the preferred swap chain format, e.g. a UNORM format for colors that are written as is.
func WithSurfaceFormat(format vk.Format) Option {
	return func(c *Config) {
		c.SurfaceFormat = format
	}
}

func WithValidation(enabled bool) Option {
	return func(c *Config) {
		c.Validation = enabled
	}
}

// layers returns the validation layers to enable, none when validation is off.
func (c Config) layers() []string {
	if !c.Validation {
		return nil
	}
	return c.ValidationLayers
}
