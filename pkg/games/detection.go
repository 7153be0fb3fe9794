package games

// Kind tags a Detection
type Kind string

const (
	KindNone    Kind = "none"
	KindKnown   Kind = "known"
	KindUnknown Kind = "unknown"
)

// Detection is the result of a single detection pass.
// Only the fields belonging to Kind are set, so the JSON form is one of
//
//	{"kind":"none"}
//	{"kind":"known","game":"...","executable":"..."}
//	{"kind":"unknown","executable":"...","suggested_name":"..."}
type Detection struct {
	Kind          Kind   `json:"kind"`
	Game          string `json:"game,omitempty"`
	Executable    string `json:"executable,omitempty"`
	SuggestedName string `json:"suggested_name,omitempty"`
}

func None() Detection {
	return Detection{Kind: KindNone}
}

func Known(game, executable string) Detection {
	return Detection{Kind: KindKnown, Game: game, Executable: executable}
}

func Unknown(executable, suggestedName string) Detection {
	return Detection{Kind: KindUnknown, Executable: executable, SuggestedName: suggestedName}
}

// IsNone reports whether nothing was detected
func (d Detection) IsNone() bool {
	return d.Kind == KindNone || d.Kind == ""
}

// DisplayName is the title shown to the user for this detection
func (d Detection) DisplayName() string {
	switch d.Kind {
	case KindKnown:
		return d.Game
	case KindUnknown:
		return d.SuggestedName
	default:
		return ""
	}
}
