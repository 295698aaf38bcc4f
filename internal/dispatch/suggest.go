package dispatch

import (
	"strings"

	"github.com/antzucaro/matchr"

	"github.com/nadzzz/voxlist/internal/playlist"
)

// suggestThreshold is the minimum Jaro-Winkler score for a "did you mean"
// hint.
const suggestThreshold = 0.85

// suggest returns the playlist name most similar to name. It only feeds the
// failure message; resolution itself stays exact.
func suggest(name string, playlists []playlist.Playlist) (string, bool) {
	want := strings.ToLower(strings.TrimSpace(name))
	if want == "" {
		return "", false
	}

	var (
		best  string
		score float64
	)
	for _, p := range playlists {
		s := matchr.JaroWinkler(want, strings.ToLower(p.Name), false)
		if s >= suggestThreshold && s > score {
			best, score = p.Name, s
		}
	}
	return best, best != ""
}
