package tools

// NewDefaultRegistry wires the weather, advisor and memory tools in the
// order they are presented to the model, followed by any extra tools.
func NewDefaultRegistry(source WeatherSource, index MemoryIndex, extra ...Descriptor) (*Registry, error) {
	var descs []Descriptor
	descs = append(descs, NewWeather(source).Descriptors()...)
	descs = append(descs, NewAdvisor().Descriptors()...)
	descs = append(descs, NewMemory(index).Descriptors()...)
	descs = append(descs, extra...)
	return NewRegistry(descs...)
}
