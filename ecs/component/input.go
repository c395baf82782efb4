package component

// DriveInput is the per-frame command for a kart's drive. Turn is carried
// for drives that steer; pursuit always leaves it at zero.
type DriveInput struct {
	Accelerate bool
	Brake      bool
	Turn       float64
}

var DriveInputComponent = NewComponent[DriveInput]()
