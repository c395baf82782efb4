package component

import (
	"gonum.org/v1/gonum/num/quat"
	"gonum.org/v1/gonum/spatial/r3"
)

// Transform is a world pose. Orientation is a unit quaternion.
type Transform struct {
	Position    r3.Vec
	Orientation quat.Number
}

var TransformComponent = NewComponent[Transform]()
