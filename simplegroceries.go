package outbreak

// SimpleGroceries is a small built-in town: a 4x3 grid of household blocks
// around a single store block, the whole thing stitched together by a road
// grid one cell wide. It exists so World can be constructed in tests and
// examples without requiring an external map file.
const SimpleGroceries = `
HHH.HHH.HHH.HHH
HHH.HHH.HHH.HHH
HHH.HHH.HHH.HHH
...............
HHH.HHH.SSS.HHH
HHH.HHH.SSS.HHH
HHH.HHH.SSS.HHH
...............
HHH.HHH.HHH.HHH
HHH.HHH.HHH.HHH
HHH.HHH.HHH.HHH
`

// builtinMaps is the registry of named built-in maps consulted by LoadMap.
var builtinMaps = map[string]string{
	"simple_groceries": SimpleGroceries,
}

// LoadMap resolves name against the built-in map registry and parses it.
// Unknown names return ErrUnknownMap.
func LoadMap(name string) (*Map, error) {
	ascii, ok := builtinMaps[name]
	if !ok {
		return nil, ErrUnknownMap
	}
	return ParseMap(ascii)
}
