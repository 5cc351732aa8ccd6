package catalog

// DefaultCharacters is the built-in selectable roster.
var DefaultCharacters = []string{
	"Apocalypse",
	"Black Cat",
	"Black Knight",
	"Captain America",
	"Captain Carter",
	"Cosmic Ghost Rider",
	"Cyclops",
	"Darkhawk",
	"Doctor Doom",
	"Doctor Octopus",
	"Dormammu",
	"Ghost Rider (Robbie)",
	"Gwenom",
	"Hardlight",
	"Hulk",
	"Iron Man",
	"Kang the Conqueror",
	"Kestrel",
	"Ms. Marvel (Hard Light)",
	"Nightcrawler",
	"Nova",
	"Phoenix",
	"Quicksilver",
	"Red Hulk",
	"Scarlet Witch",
	"Spider-Man (Big Time)",
	"Spider-Man (Noir)",
	"Star-Lord (Annihilation)",
	"Stryfe",
	"Super Skrull",
	"Thanos",
	"Vahl",
	"Void Knight",
	"Winter Soldier",
	"Wolverine",
	"Zombie Iron Man",
}
