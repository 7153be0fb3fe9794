package games

// CatalogEntry maps a lower-cased executable name to a display title
type CatalogEntry struct {
	Executable string
	Title      string
}

// Order matters: the first entry matching the snapshot wins, so aliases of
// the same game (".exe" and bare names) keep their relative position.
var catalog = []CatalogEntry{
	{"haloinfinite.exe", "Halo Infinite"},
	{"mcc-win64-shipping.exe", "Halo: The Master Chief Collection"},
	{"cs2.exe", "Counter-Strike 2"},
	{"valorant-win64-shipping.exe", "VALORANT"},
	{"fortniteclient-win64-shipping.exe", "Fortnite"},
	{"r5apex.exe", "Apex Legends"},
	{"overwatch.exe", "Overwatch 2"},
	{"cod.exe", "Call of Duty"},
	{"eldenring.exe", "Elden Ring"},
	{"eldenring", "Elden Ring"},
	{"dota2.exe", "Dota 2"},
	{"dota2", "Dota 2"},
	{"league of legends.exe", "League of Legends"},
	{"rocketleague.exe", "Rocket League"},
	{"gta5.exe", "Grand Theft Auto V"},
	{"minecraft.exe", "Minecraft"},
	{"rustclient.exe", "Rust"},
	{"pubg-win64-shipping.exe", "PUBG: Battlegrounds"},
	{"rainbowsix.exe", "Rainbow Six Siege"},
	{"rainbowsix_vulkan.exe", "Rainbow Six Siege"},
	{"destiny2.exe", "Destiny 2"},
	{"wow.exe", "World of Warcraft"},
	{"ffxiv_dx11.exe", "Final Fantasy XIV"},
	{"osu!.exe", "osu!"},
}

// Catalog returns a copy of the built-in game table in declaration order
func Catalog() []CatalogEntry {
	out := make([]CatalogEntry, len(catalog))
	copy(out, catalog)
	return out
}
