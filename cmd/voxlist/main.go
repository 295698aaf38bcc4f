// Voxlist manages streaming playlists with spoken commands: it transcribes an
// utterance, parses it into a playlist command and executes it against the
// user's Spotify account.
//
// Usage:
//
//	voxlist listen [--config /path/to/voxlist.yaml]
//	voxlist serve  [--config /path/to/voxlist.yaml]
//	voxlist parse "create a playlist named road trip"
//
// @title       voxlist API
// @version     1.0
// @description Voice-driven playlist management: transcribe, parse and dispatch playlist commands.
// @BasePath    /
package main

import (
	"os"

	"github.com/nadzzz/voxlist/internal/cli"
)

func main() {
	if err := cli.NewRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}
