package component

// StaticTag marks level geometry built from tiles and polygons.
type StaticTag struct{}

var StaticTagComponent = NewComponent[StaticTag]()
