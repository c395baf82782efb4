package component

import "github.com/milk9111/kartpilot/pursuit"

// Pursuit owns a kart's path follower.
type Pursuit struct {
	Controller *pursuit.Controller
}

var PursuitComponent = NewComponent[Pursuit]()
