// Package spotify implements playlist.Service on the Spotify Web API.
//
// The client authenticates with a long-lived OAuth2 refresh token obtained
// out of band; the access token is refreshed transparently by the oauth2
// transport. The current user's ID is fetched once at construction.
package spotify

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/zmb3/spotify/v2"
	spotifyauth "github.com/zmb3/spotify/v2/auth"
	"golang.org/x/oauth2"

	"github.com/nadzzz/voxlist/internal/playlist"
)

var _ playlist.Service = (*Client)(nil)

// Scopes are the OAuth2 scopes the refresh token must carry.
var Scopes = []string{
	spotifyauth.ScopePlaylistModifyPublic,
	spotifyauth.ScopePlaylistModifyPrivate,
	spotifyauth.ScopePlaylistReadPrivate,
}

// pageSize is the largest page the playlists endpoint accepts.
const pageSize = 50

// Config holds the Spotify application credentials.
type Config struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string
	RefreshToken string
}

// Client is a playlist.Service backed by one Spotify user session.
type Client struct {
	api    *spotify.Client
	userID string
}

// New authenticates with cfg and resolves the current user.
func New(ctx context.Context, cfg Config) (*Client, error) {
	if cfg.ClientID == "" || cfg.ClientSecret == "" {
		return nil, errors.New("spotify: client_id and client_secret are required")
	}
	if cfg.RefreshToken == "" {
		return nil, errors.New("spotify: refresh_token is required")
	}

	auth := spotifyauth.New(
		spotifyauth.WithClientID(cfg.ClientID),
		spotifyauth.WithClientSecret(cfg.ClientSecret),
		spotifyauth.WithRedirectURL(cfg.RedirectURL),
		spotifyauth.WithScopes(Scopes...),
	)
	httpClient := auth.Client(ctx, &oauth2.Token{RefreshToken: cfg.RefreshToken})
	return NewWithHTTPClient(ctx, httpClient)
}

// NewWithHTTPClient builds a Client over an already authenticated HTTP
// client. Extra options are passed to the Spotify SDK.
func NewWithHTTPClient(ctx context.Context, httpClient *http.Client, opts ...spotify.ClientOption) (*Client, error) {
	api := spotify.New(httpClient, opts...)

	user, err := api.CurrentUser(ctx)
	if err != nil {
		return nil, fmt.Errorf("spotify: fetching current user: %w", classify(err))
	}

	slog.Info("spotify session ready", "user_id", user.ID)
	return &Client{api: api, userID: user.ID}, nil
}

// UserID returns the authenticated user's Spotify ID.
func (c *Client) UserID() string { return c.userID }

// CreatePlaylist creates a public, non-collaborative playlist.
func (c *Client) CreatePlaylist(ctx context.Context, name string) (string, error) {
	pl, err := c.api.CreatePlaylistForUser(ctx, c.userID, name, "", true, false)
	if err != nil {
		return "", classify(err)
	}
	return pl.ID.String(), nil
}

// ListPlaylists walks every page of the current user's playlists.
func (c *Client) ListPlaylists(ctx context.Context) ([]playlist.Playlist, error) {
	page, err := c.api.CurrentUsersPlaylists(ctx, spotify.Limit(pageSize))
	if err != nil {
		return nil, classify(err)
	}

	var out []playlist.Playlist
	for {
		for _, p := range page.Playlists {
			out = append(out, playlist.Playlist{ID: p.ID.String(), Name: p.Name})
		}
		err := c.api.NextPage(ctx, page)
		if errors.Is(err, spotify.ErrNoMorePages) {
			return out, nil
		}
		if err != nil {
			return nil, classify(err)
		}
	}
}

// SearchTrack returns the top track hit for name, narrowed by artist.
func (c *Client) SearchTrack(ctx context.Context, name string, artist *string) (playlist.Track, bool, error) {
	res, err := c.api.Search(ctx, trackQuery(name, artist), spotify.SearchTypeTrack, spotify.Limit(1))
	if err != nil {
		return playlist.Track{}, false, classify(err)
	}
	if res.Tracks == nil || len(res.Tracks.Tracks) == 0 {
		return playlist.Track{}, false, nil
	}

	hit := res.Tracks.Tracks[0]
	t := playlist.Track{ID: hit.ID.String(), Name: hit.Name}
	if len(hit.Artists) > 0 {
		t.Artist = hit.Artists[0].Name
	}
	return t, true, nil
}

// AddTrack appends trackID to the end of playlistID.
func (c *Client) AddTrack(ctx context.Context, playlistID, trackID string) error {
	_, err := c.api.AddTracksToPlaylist(ctx, spotify.ID(playlistID), spotify.ID(trackID))
	return classify(err)
}

// RemoveTrack removes all occurrences of trackID from playlistID.
func (c *Client) RemoveTrack(ctx context.Context, playlistID, trackID string) error {
	_, err := c.api.RemoveTracksFromPlaylist(ctx, spotify.ID(playlistID), spotify.ID(trackID))
	return classify(err)
}

// DeletePlaylist unfollows playlistID. Spotify has no playlist deletion;
// unfollowing removes it from the user's library.
func (c *Client) DeletePlaylist(ctx context.Context, playlistID string) error {
	return classify(c.api.UnfollowPlaylist(ctx, spotify.ID(playlistID)))
}

func trackQuery(name string, artist *string) string {
	if artist == nil || *artist == "" {
		return name
	}
	return name + " artist:" + *artist
}

// classify marks client errors other than rate limiting as permanent.
func classify(err error) error {
	if err == nil {
		return nil
	}
	var se spotify.Error
	if errors.As(err, &se) && se.Status >= 400 && se.Status < 500 && se.Status != http.StatusTooManyRequests {
		return playlist.Permanent(err)
	}
	return err
}
