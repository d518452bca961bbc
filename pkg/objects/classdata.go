package objects

// Class identifies one of DNp3's four event/data classes.
type Class uint8

const (
	Class0 Class = 0 // static data
	Class1 Class = 1
	Class2 Class = 2
	Class3 Class = 3
)

// ClassDataGroupVariation returns the g60 group/variation naming a read
// request for the given class (g60v1 is class 0, g60v2..4 are class 1..3).
func ClassDataGroupVariation(c Class) GroupVariation {
	return GroupVariation{Group: 60, Variation: uint8(c) + 1}
}

// g60 objects carry no payload: a READ request names the class via the
// object header alone (qualifier 0x06, "all objects"), so there is nothing
// to encode or decode here beyond the header itself (see pkg/app).
