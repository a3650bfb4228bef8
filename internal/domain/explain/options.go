package explain

// Option configures the explanation generator.
type Option func(*Generator)

// WithBands overrides the recommendation thresholds.
func WithBands(b Bands) Option {
	return func(g *Generator) {
		g.bands = b
	}
}
