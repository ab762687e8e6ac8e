package mock

import "github.com/fwojciec/docsnap"

var (
	_ docsnap.Extractor         = (*Extractor)(nil)
	_ docsnap.Converter         = (*Converter)(nil)
	_ docsnap.FrameworkDetector = (*FrameworkDetector)(nil)
)

// Extractor is a mock implementation of docsnap.Extractor.
type Extractor struct {
	ExtractFn func(html string) (*docsnap.ExtractResult, error)
}

func (e *Extractor) Extract(html string) (*docsnap.ExtractResult, error) {
	return e.ExtractFn(html)
}

// Converter is a mock implementation of docsnap.Converter.
type Converter struct {
	ConvertFn func(html string) docsnap.Conversion
}

func (c *Converter) Convert(html string) docsnap.Conversion {
	return c.ConvertFn(html)
}

// FrameworkDetector is a mock implementation of docsnap.FrameworkDetector.
type FrameworkDetector struct {
	DetectFn func(html string) docsnap.Framework
}

func (d *FrameworkDetector) Detect(html string) docsnap.Framework {
	return d.DetectFn(html)
}
