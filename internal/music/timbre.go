package music

import "strings"

// Timbre selects the instrument voice for an event.
type Timbre string

const (
	TimbreSynth Timbre = "synth"
	TimbrePiano Timbre = "piano"
	TimbreBass  Timbre = "bass"
	TimbrePluck Timbre = "pluck"

	DefaultTimbre = TimbreSynth
)

// Timbres lists every timbre in a stable order.
var Timbres = []Timbre{TimbreSynth, TimbrePiano, TimbreBass, TimbrePluck}

// extensionTimbres maps file extensions (including the dot) to timbres.
var extensionTimbres = map[string]Timbre{
	".js":   TimbreSynth,
	".ts":   TimbreSynth,
	".jsx":  TimbreSynth,
	".tsx":  TimbreSynth,
	".py":   TimbrePiano,
	".java": TimbrePiano,
	".go":   TimbreBass,
	".rs":   TimbreBass,
	".css":  TimbrePluck,
	".html": TimbrePluck,
	".md":   TimbrePluck,
}

// ParseTimbre returns the timbre with the given name.
func ParseTimbre(s string) (Timbre, bool) {
	t := Timbre(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Timbres {
		if t == known {
			return t, true
		}
	}
	return "", false
}

// Extension returns the substring of path from its last '.', or the whole
// path when it has none. Lookups are case-sensitive.
func Extension(path string) string {
	if idx := strings.LastIndexByte(path, '.'); idx != -1 {
		return path[idx:]
	}
	return path
}

// TimbreForPath returns the timbre for a changed file path.
func TimbreForPath(path string) Timbre {
	if path == "" {
		return DefaultTimbre
	}
	if t, ok := extensionTimbres[Extension(path)]; ok {
		return t
	}
	return DefaultTimbre
}
