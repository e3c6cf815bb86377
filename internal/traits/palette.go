package traits

type paletteEntry struct {
	color  string
	weight uint32
}

// palette lists the SVG 1.1 color keywords. Entry order is part of the seed
// contract: reordering or reweighting changes the art of every token.
var palette = [...]paletteEntry{
	{"aliceblue", 4},
	{"antiquewhite", 4},
	{"aqua", 4},
	{"aquamarine", 4},
	{"azure", 4},
	{"beige", 4},
	{"bisque", 4},
	{"black", 1},
	{"blanchedalmond", 4},
	{"blue", 4},
	{"blueviolet", 4},
	{"brown", 4},
	{"burlywood", 4},
	{"cadetblue", 4},
	{"chartreuse", 4},
	{"chocolate", 4},
	{"coral", 4},
	{"cornflowerblue", 4},
	{"cornsilk", 4},
	{"crimson", 1},
	{"cyan", 4},
	{"darkblue", 4},
	{"darkcyan", 4},
	{"darkgoldenrod", 4},
	{"darkgray", 4},
	{"darkgreen", 4},
	{"darkgrey", 4},
	{"darkkhaki", 4},
	{"darkmagenta", 4},
	{"darkolivegreen", 4},
	{"darkorange", 4},
	{"darkorchid", 4},
	{"darkred", 4},
	{"darksalmon", 4},
	{"darkseagreen", 4},
	{"darkslateblue", 4},
	{"darkslategray", 4},
	{"darkslategrey", 4},
	{"darkturquoise", 4},
	{"darkviolet", 4},
	{"deeppink", 4},
	{"deepskyblue", 4},
	{"dimgray", 4},
	{"dimgrey", 4},
	{"dodgerblue", 4},
	{"firebrick", 4},
	{"floralwhite", 4},
	{"forestgreen", 4},
	{"fuchsia", 4},
	{"gainsboro", 4},
	{"ghostwhite", 4},
	{"gold", 1},
	{"goldenrod", 4},
	{"gray", 4},
	{"green", 4},
	{"greenyellow", 4},
	{"grey", 4},
	{"honeydew", 4},
	{"hotpink", 4},
	{"indianred", 4},
	{"indigo", 1},
	{"ivory", 4},
	{"khaki", 4},
	{"lavender", 4},
	{"lavenderblush", 4},
	{"lawngreen", 4},
	{"lemonchiffon", 4},
	{"lightblue", 4},
	{"lightcoral", 4},
	{"lightcyan", 4},
	{"lightgoldenrodyellow", 4},
	{"lightgray", 4},
	{"lightgreen", 4},
	{"lightgrey", 4},
	{"lightpink", 4},
	{"lightsalmon", 4},
	{"lightseagreen", 4},
	{"lightskyblue", 4},
	{"lightslategray", 4},
	{"lightslategrey", 4},
	{"lightsteelblue", 4},
	{"lightyellow", 4},
	{"lime", 4},
	{"limegreen", 4},
	{"linen", 4},
	{"magenta", 4},
	{"maroon", 4},
	{"mediumaquamarine", 4},
	{"mediumblue", 4},
	{"mediumorchid", 4},
	{"mediumpurple", 4},
	{"mediumseagreen", 4},
	{"mediumslateblue", 4},
	{"mediumspringgreen", 4},
	{"mediumturquoise", 4},
	{"mediumvioletred", 4},
	{"midnightblue", 4},
	{"mintcream", 4},
	{"mistyrose", 4},
	{"moccasin", 4},
	{"navajowhite", 4},
	{"navy", 4},
	{"oldlace", 4},
	{"olive", 4},
	{"olivedrab", 4},
	{"orange", 4},
	{"orangered", 4},
	{"orchid", 4},
	{"palegoldenrod", 4},
	{"palegreen", 4},
	{"paleturquoise", 4},
	{"palevioletred", 4},
	{"papayawhip", 4},
	{"peachpuff", 4},
	{"peru", 4},
	{"pink", 4},
	{"plum", 4},
	{"powderblue", 4},
	{"purple", 4},
	{"red", 4},
	{"rosybrown", 4},
	{"royalblue", 4},
	{"saddlebrown", 4},
	{"salmon", 4},
	{"sandybrown", 4},
	{"seagreen", 4},
	{"seashell", 4},
	{"sienna", 4},
	{"silver", 1},
	{"skyblue", 4},
	{"slateblue", 4},
	{"slategray", 4},
	{"slategrey", 4},
	{"snow", 4},
	{"springgreen", 4},
	{"steelblue", 4},
	{"tan", 4},
	{"teal", 4},
	{"thistle", 4},
	{"tomato", 4},
	{"turquoise", 4},
	{"violet", 4},
	{"wheat", 4},
	{"white", 1},
	{"whitesmoke", 4},
	{"yellow", 4},
	{"yellowgreen", 4},
}

// PaletteColors returns the candidate colors in palette order.
func PaletteColors() []string {
	out := make([]string, len(palette))
	for i, e := range palette {
		out[i] = e.color
	}
	return out
}

// PaletteWeights returns the weights parallel to PaletteColors.
func PaletteWeights() []uint32 {
	out := make([]uint32, len(palette))
	for i, e := range palette {
		out[i] = e.weight
	}
	return out
}
