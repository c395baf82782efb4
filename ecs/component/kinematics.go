package component

// Kinematics is a straight-line drive: speed along the current heading.
type Kinematics struct {
	Speed        float64
	MaxSpeed     float64
	Acceleration float64
	Braking      float64
	Drag         float64
}

var KinematicsComponent = NewComponent[Kinematics]()
