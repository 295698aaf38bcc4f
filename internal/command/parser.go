package command

import (
	"regexp"
	"strings"
)

// rule pairs a pattern with the builder that turns its submatches into a
// Command. build reports false when a captured slot is empty after trimming,
// in which case evaluation falls through to the next rule.
type rule struct {
	name    string
	pattern *regexp.Regexp
	example string
	build   func(m []string) (Command, bool)
}

// rules is the grammar. Order matters: a transcript satisfying two patterns
// takes the first.
var rules = []rule{
	{
		name:    "create-playlist",
		pattern: regexp.MustCompile(`(?i)^create (?:a )?playlist (?:named |called )?(.+)$`),
		example: "create a playlist named <playlist>",
		build: func(m []string) (Command, bool) {
			playlist, ok := slot(m[1])
			if !ok {
				return Command{}, false
			}
			return Command{Action: CreatePlaylist, Playlist: playlist}, true
		},
	},
	{
		name:    "add-track",
		pattern: regexp.MustCompile(`(?i)^add (.+?) by (.+?) to (?:my )?(.+?)(?: playlist)?$`),
		example: "add <song> by <artist> to my <playlist> playlist",
		build: func(m []string) (Command, bool) {
			track, ok1 := slot(m[1])
			artist, ok2 := slot(m[2])
			playlist, ok3 := slot(m[3])
			if !ok1 || !ok2 || !ok3 {
				return Command{}, false
			}
			return Command{Action: AddTrack, Playlist: playlist, Track: &track, Artist: &artist}, true
		},
	},
	{
		name:    "remove-track",
		pattern: regexp.MustCompile(`(?i)^remove (.+?) from (?:my )?(.+?)(?: playlist)?$`),
		example: "remove <song> from my <playlist> playlist",
		build: func(m []string) (Command, bool) {
			track, ok1 := slot(m[1])
			playlist, ok2 := slot(m[2])
			if !ok1 || !ok2 {
				return Command{}, false
			}
			return Command{Action: RemoveTrack, Playlist: playlist, Track: &track}, true
		},
	},
	{
		name:    "delete-playlist",
		pattern: regexp.MustCompile(`(?i)^delete (?:my )?(.+?)(?: playlist)?$`),
		example: "delete my <playlist> playlist",
		build: func(m []string) (Command, bool) {
			playlist, ok := slot(m[1])
			if !ok {
				return Command{}, false
			}
			return Command{Action: DeletePlaylist, Playlist: playlist}, true
		},
	},
}

// Parse converts a transcript into a Command. The second return value is
// false when no rule matched; the returned Command is then the zero value
// and must not be dispatched.
//
// Parse has no side effects and keeps no state between calls.
func Parse(text string) (Command, bool) {
	text = strings.TrimSpace(text)
	if text == "" {
		return Command{}, false
	}

	for _, r := range rules {
		m := r.pattern.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		if cmd, ok := r.build(m); ok {
			return cmd, true
		}
	}
	return Command{}, false
}

// Examples lists one canonical phrasing per rule, in evaluation order.
func Examples() []string {
	out := make([]string, 0, len(rules))
	for _, r := range rules {
		out = append(out, r.example)
	}
	return out
}

func slot(s string) (string, bool) {
	s = strings.TrimSpace(s)
	return s, s != ""
}
