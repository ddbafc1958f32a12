package event

// MouseMotion is one relative mouse movement reported by the driver
type MouseMotion struct {
	DX float32
	DY float32
}

// AxisChange is one absolute axis update reported by the driver
type AxisChange struct {
	Source AxisSource
	Value  float32
}
