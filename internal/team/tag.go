// Package team resolves free-text opponent names to short canonical tags.
//
// The scraped site exposes display names only, never a stable team-id-to-tag
// mapping, so tags are derived: a curated table covers known organizations
// (including historical spellings), and an algorithmic fallback generates a
// tag for teams never seen before. Resolution is deterministic for a fixed
// table.
package team

import "strings"

// Entry pairs a known display name with its tag. Entries are kept in a slice
// because the substring pass is order-sensitive: overlapping matches resolve
// by table position, not by best match.
type Entry struct {
	Name string
	Tag  string
}

// Table is the curated display-name to tag mapping, in resolution order.
var Table = []Entry{
	{"EDward Gaming", "EDG"}, {"Edward Gaming", "EDG"}, {"TYLOO", "TYL"},
	{"Top Esports", "TES"}, {"JD Gaming", "JDG"}, {"FunPlus Phoenix", "FPX"},
	{"All Gamers", "AG"}, {"Dragon Ranger Gaming", "DRG"},
	{"Wolves Esports", "WOL"}, {"Nova Esports", "NV"}, {"NOVA Esports", "NV"},
	{"Titan Esports Club", "TEC"}, {"Trace Esports", "TE"},
	{"X10 Gaming", "XLG"}, {"Xiaolong Gaming", "XLG"},
	{"Fnatic", "FNC"}, {"FNATIC", "FNC"}, {"Leviatán", "LEV"}, {"Leviatan", "LEV"},
	{"Paper Rex", "PRX"}, {"Gen.G", "GEN"}, {"G2 Esports", "G2"}, {"DRX", "DRX"},
	{"Sentinels", "SEN"}, {"Team Liquid", "TL"}, {"NRG Esports", "NRG"}, {"NRG", "NRG"},
	{"Karmine Corp", "KC"}, {"MIBR", "MIBR"}, {"Rex Regum Qeon", "RRQ"}, {"RRQ", "RRQ"},
	{"KRÜ Esports", "KRÜ"}, {"Nongshim RedForce", "NS"},
	{"Nighthunters Gaming", "NWG"}, {"Monarch Esports", "ME"}, {"Oxyg3niOus", "O3O"},
	{"GameKing", "GK"}, {"KaiZe", "KZ"}, {"NewHappy Esports", "NH"},
	{"Four Angry Men", "4AM"}, {"Douyu Gaming", "DG"}, {"DouYu Gaming", "DG"},
	{"Invincible Gaming", "iNv"}, {"Rare Atom", "RA"},
	{"Royal Never Give Up", "RNG"}, {"LGD Gaming", "LGD"},
	{"Totoro Gaming", "TTG"}, {"Shenzhen NTER", "NTER"}, {"Number One Player", "NOP"},
	{"JiJieHao", "JJH"}, {"Invictus Gaming", "iG"}, {"Attacking Soul Esports", "ASE"},
	{"Valor Gaming", "VLG"}, {"Nine Hitter", "NH"},
}

// Resolve maps a display name to a tag. It never fails: names missing from
// the table fall back to generated initials or a truncated prefix.
func Resolve(name string) string {
	// Exact table hit first, so curated aliases always win.
	for _, e := range Table {
		if e.Name == name {
			return e.Tag
		}
	}

	// Case-insensitive substring pass, either direction. First table entry
	// that matches structurally wins, even when a longer match exists later.
	lower := strings.ToLower(name)
	for _, e := range Table {
		key := strings.ToLower(e.Name)
		if strings.Contains(lower, key) || strings.Contains(key, lower) {
			return e.Tag
		}
	}

	return generate(name)
}

// generate derives a tag from an unknown name: initials for multi-word names
// (capped at 4 characters), otherwise the first 3 characters upper-cased.
func generate(name string) string {
	cleaned := strings.Map(func(r rune) rune {
		if (r >= 'A' && r <= 'Z') || (r >= 'a' && r <= 'z') || r == ' ' {
			return r
		}
		return -1
	}, name)

	words := strings.Fields(cleaned)
	if len(words) >= 2 {
		var b strings.Builder
		for _, w := range words {
			b.WriteByte(w[0])
		}
		tag := strings.ToUpper(b.String())
		if len(tag) > 4 {
			tag = tag[:4]
		}
		return tag
	}

	tag := strings.TrimSpace(cleaned)
	if len(tag) > 3 {
		tag = tag[:3]
	}
	return strings.ToUpper(tag)
}
