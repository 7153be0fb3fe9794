package games

import (
	"path/filepath"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// UnknownGameName is used when nothing is left of an executable name after cleanup
const UnknownGameName = "Unknown Game"

const executableSuffix = ".exe"

// Processes that are commonly running next to a game but are never the game itself.
var denyList = map[string]bool{
	"explorer.exe":                true,
	"svchost.exe":                 true,
	"csrss.exe":                   true,
	"dwm.exe":                     true,
	"winlogon.exe":                true,
	"lsass.exe":                   true,
	"smss.exe":                    true,
	"services.exe":                true,
	"wininit.exe":                 true,
	"taskhostw.exe":               true,
	"taskmgr.exe":                 true,
	"searchhost.exe":              true,
	"searchapp.exe":               true,
	"shellexperiencehost.exe":     true,
	"startmenuexperiencehost.exe": true,
	"lockapp.exe":                 true,
	"ctfmon.exe":                  true,
	"conhost.exe":                 true,
	"cmd.exe":                     true,
	"powershell.exe":              true,
	"pwsh.exe":                    true,
	"windowsterminal.exe":         true,
	"chrome.exe":                  true,
	"msedge.exe":                  true,
	"firefox.exe":                 true,
	"opera.exe":                   true,
	"brave.exe":                   true,
	"discord.exe":                 true,
	"slack.exe":                   true,
	"teams.exe":                   true,
	"spotify.exe":                 true,
	"code.exe":                    true,
	"obs64.exe":                   true,
	"steam.exe":                   true,
	"epicgameslauncher.exe":       true,
	"battle.net.exe":              true,
	"origin.exe":                  true,
	"eadesktop.exe":               true,
	"ubisoftconnect.exe":          true,
	"galaxyclient.exe":            true,
	"riotclientux.exe":            true,
	"chitchat.exe":                true,
}

// Substrings of auxiliary processes (helpers, updaters, crash reporters) of legitimate applications.
var infrastructureTokens = []string{
	"helper",
	"service",
	"host",
	"webview",
	"crash",
	"report",
	"updater",
	"installer",
}

// Substrings suggesting a game client executable.
var gameHints = []string{
	"shipping",
	"client",
	"battle",
	"game",
	"win64",
	"dx11",
	"dx12",
	"vulkan",
}

// Tokens dropped when deriving a display name.
var noiseTokens = map[string]bool{
	"win64":    true,
	"win32":    true,
	"shipping": true,
	"client":   true,
	"launcher": true,
	"game":     true,
}

// MatchUnknown guesses at a running game that is not in the catalog.
// Names are examined in snapshot order; the first one passing every rule wins.
func MatchUnknown(snapshot []string, entries []CatalogEntry) (executable, suggestedName string, ok bool) {
	claimed := make(map[string]struct{}, len(entries))
	for _, entry := range entries {
		claimed[strings.ToLower(entry.Executable)] = struct{}{}
	}

	for _, raw := range snapshot {
		name := strings.ToLower(strings.TrimSpace(raw))
		if _, isKnown := claimed[name]; isKnown {
			continue
		}
		if LooksLikeGame(name) {
			return name, SuggestedNameFromExecutable(name), true
		}
	}

	return "", "", false
}

// LooksLikeGame applies the heuristic rules to a single lower-cased process name
func LooksLikeGame(name string) bool {
	if !strings.HasSuffix(name, executableSuffix) {
		return false
	}
	if denyList[name] {
		return false
	}
	if containsAny(name, infrastructureTokens) {
		return false
	}
	return containsAny(name, gameHints)
}

// SuggestedNameFromExecutable derives a human readable title from an executable name,
// e.g. "cod-win64-shipping.exe" becomes "Cod".
func SuggestedNameFromExecutable(executable string) string {
	base := strings.TrimSuffix(executable, filepath.Ext(executable))

	spaced := strings.Map(func(r rune) rune {
		switch r {
		case '-', '_', '.':
			return ' '
		}
		return r
	}, base)

	caser := cases.Title(language.Und)
	var tokens []string
	for _, token := range strings.Fields(spaced) {
		if noiseTokens[strings.ToLower(token)] {
			continue
		}
		tokens = append(tokens, caser.String(token))
	}

	if len(tokens) == 0 {
		return UnknownGameName
	}
	return strings.Join(tokens, " ")
}

func containsAny(s string, substrings []string) bool {
	for _, sub := range substrings {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
