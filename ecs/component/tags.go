package component

type KartTag struct{}

var KartTagComponent = NewComponent[KartTag]()
