package cards

// builtinEntries maps the UID strings reported by the reader firmware to the
// two-character card code printed on the tag label: suit digit then rank digit.
//
// The deck was tagged once and these never change at runtime. Replacement tags
// are added through the cards section of config.yaml instead of editing this map.
var builtinEntries = map[string]string{
	"4628F22E1791":  "45",
	"4B132FA2E1790": "28",
	"49915F22E1790": "24",
	"4633CFA2E1790": "21",
	"41027F22E1791": "31",
	"4C131F22E1790": "19",
	"47025F22E1790": "4A",
	"4594AF22E1790": "3A",
	"4B1EF22E1790":  "4D",
	"4201DFA2E1791": "23",
	"4C28F22E1791":  "37",
	"43B48F22E1790": "4B",
	"4A3EFA2E1791":  "42",
	"4E42BF22E1790": "11",
	"4231DF22E1791": "38",
	"4AA34FA2E1790": "17",
	"48317F22E1790": "1B",
	"46226F22E1790": "3C",
	"4A38FA2E1791":  "43",
	"433DFA2E1791":  "22",
	"44148F22E1790": "2C",
	"4171DFA2E1791": "13",
	"4F123F22E1790": "41",
	"4C937F22E1790": "35",
	"45B38F22E1790": "29",
	"45A2EF22E1790": "18",
	"48E20F22E1790": "46",
	"43F3DF22E1791": "3D",
	"4A935FA2E1790": "12",
	"48745F22E1790": "26",
	"41D1DF22E1791": "44",
	"4BF32F22E1790": "15",
	"49045F22E1790": "27",
	"4EF28F22E1790": "47",
	"4CD17F22E1790": "32",
	"48628F22E1790": "33",
	"44239F22E1790": "2A",
	"4B01FF22E1790": "34",
	"4201DF22E1791": "49",
	"4A318F22E1790": "48",
	"45C32FA2E1790": "16",
	"4153DFA2E1791": "25",
	"46D32FA2E1790": "14",
	"42B22F22E1791": "2B",
	"4B4AF22E1790":  "3B",
	"48145F22E1790": "1A",
	"46F1FF22E1790": "36",
	"48816F22E1790": "2D",
	"44C4AF22E1790": "1C",
	"4162FF22E1791": "1D",
	"4494AF22E1790": "4C",
	"4FE28F22E1790": "39",
}
