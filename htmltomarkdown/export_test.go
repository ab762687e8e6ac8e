package htmltomarkdown

// SetConvertFunc replaces the structured conversion step.
func SetConvertFunc(c *Converter, fn func(string) (string, error)) {
	c.convert = fn
}
