// Package lastfm reports played tracks to Last.fm.
package lastfm

import (
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/shkh/lastfm-go/lastfm"

	"github.com/wenslauce/Music-Wave/internal/playlist"
)

const authPage = "https://www.last.fm/api/auth/"

// ErrNotAuthenticated is returned when reporting without a session key.
var ErrNotAuthenticated = errors.New("not authenticated")

// Listen is one play of a track, started at Started.
type Listen struct {
	Track   playlist.Track
	Started time.Time
}

// Authorization is a desktop authorization waiting for the user to grant
// access at URL.
type Authorization struct {
	Token string
	URL   string
}

// Account is the result of a completed authorization.
type Account struct {
	User       string
	SessionKey string
}

// Client reports listens for one Last.fm account.
type Client struct {
	api    *lastfm.Api
	apiKey string
}

// New creates a client. sessionKey may be empty until authorization.
func New(apiKey, apiSecret, sessionKey string) *Client {
	api := lastfm.New(apiKey, apiSecret)
	if sessionKey != "" {
		api.SetSession(sessionKey)
	}
	return &Client{api: api, apiKey: apiKey}
}

func (c *Client) authorized() bool {
	return c.api.GetSessionKey() != ""
}

// BeginAuth requests a token and returns the page where the user approves
// it.
func (c *Client) BeginAuth() (Authorization, error) {
	token, err := c.api.GetToken()
	if err != nil {
		return Authorization{}, fmt.Errorf("get token: %w", err)
	}
	return Authorization{Token: token, URL: authURL(c.apiKey, token)}, nil
}

// CompleteAuth trades an approved token for a session key. The account
// name is best effort and falls back to "unknown".
func (c *Client) CompleteAuth(a Authorization) (Account, error) {
	if err := c.api.LoginWithToken(a.Token); err != nil {
		return Account{}, fmt.Errorf("get session: %w", err)
	}
	acct := Account{User: "unknown", SessionKey: c.api.GetSessionKey()}
	if info, err := c.api.User.GetInfo(nil); err == nil && info.Name != "" {
		acct.User = info.Name
	}
	return acct, nil
}

// NowPlaying marks t as the track currently playing.
func (c *Client) NowPlaying(t playlist.Track) error {
	if !c.authorized() {
		return ErrNotAuthenticated
	}
	if _, err := c.api.Track.UpdateNowPlaying(trackParams(t)); err != nil {
		return fmt.Errorf("update now playing %q: %w", t.Title, err)
	}
	return nil
}

// Scrobble records a finished listen.
func (c *Client) Scrobble(l Listen) error {
	if !c.authorized() {
		return ErrNotAuthenticated
	}
	p := trackParams(l.Track)
	p["timestamp"] = l.Started.Unix()
	if _, err := c.api.Track.Scrobble(p); err != nil {
		return fmt.Errorf("scrobble %q: %w", l.Track.Title, err)
	}
	return nil
}

func trackParams(t playlist.Track) lastfm.P {
	p := lastfm.P{
		"artist": t.Artist.Name,
		"track":  t.Title,
	}
	if t.Album.Title != "" {
		p["album"] = t.Album.Title
	}
	if secs := int(t.Duration / time.Second); secs > 0 {
		p["duration"] = secs
	}
	return p
}

func authURL(apiKey, token string) string {
	q := url.Values{"api_key": {apiKey}, "token": {token}}
	return authPage + "?" + q.Encode()
}
