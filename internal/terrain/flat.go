package terrain

// Flat is a constant height field.
type Flat float32

func (f Flat) HeightAt(x, z int) float32 { return float32(f) }
