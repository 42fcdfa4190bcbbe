package spotify

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	accountsURL = "https://accounts.spotify.com/api/token"
	apiURL      = "https://api.spotify.com/v1"
)

// Client is a minimal Spotify Web API client using the client-credentials
// flow, just enough to pull playlist tracks for seeding.
type Client struct {
	ClientID     string
	ClientSecret string
	HTTP         *http.Client
}

func NewClient(clientID, clientSecret string) *Client {
	return &Client{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		HTTP:         &http.Client{Timeout: 15 * time.Second},
	}
}

type Track struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	PreviewURL string `json:"preview_url"`
	Artists    []struct {
		Name string `json:"name"`
	} `json:"artists"`
	Album struct {
		Images []struct {
			URL string `json:"url"`
		} `json:"images"`
	} `json:"album"`
}

type Playlist struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Tracks struct {
		Items []struct {
			Track *Track `json:"track"`
		} `json:"items"`
	} `json:"tracks"`
}

// AccessToken fetches a client-credentials token.
func (c *Client) AccessToken(ctx context.Context) (string, error) {
	form := url.Values{
		"grant_type":    {"client_credentials"},
		"client_id":     {c.ClientID},
		"client_secret": {c.ClientSecret},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, accountsURL, strings.NewReader(form.Encode()))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	var body struct {
		AccessToken string `json:"access_token"`
	}
	if err := c.do(req, &body); err != nil {
		return "", fmt.Errorf("spotify: token request: %w", err)
	}
	if body.AccessToken == "" {
		return "", fmt.Errorf("spotify: empty access token")
	}
	return body.AccessToken, nil
}

// SearchPlaylistID returns the id of the first playlist matching name.
func (c *Client) SearchPlaylistID(ctx context.Context, token, name string) (string, error) {
	params := url.Values{
		"q":     {name},
		"type":  {"playlist"},
		"limit": {"1"},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, apiURL+"/search?"+params.Encode(), nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+token)

	var body struct {
		Playlists struct {
			Items []struct {
				ID string `json:"id"`
			} `json:"items"`
		} `json:"playlists"`
	}
	if err := c.do(req, &body); err != nil {
		return "", fmt.Errorf("spotify: playlist search %q: %w", name, err)
	}
	if len(body.Playlists.Items) == 0 {
		return "", fmt.Errorf("spotify: no playlist found for %q", name)
	}
	return body.Playlists.Items[0].ID, nil
}

// Playlist fetches a playlist with its tracks.
func (c *Client) Playlist(ctx context.Context, token, id string) (*Playlist, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, apiURL+"/playlists/"+id, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+token)

	var playlist Playlist
	if err := c.do(req, &playlist); err != nil {
		return nil, fmt.Errorf("spotify: playlist %s: %w", id, err)
	}
	return &playlist, nil
}

func (c *Client) do(req *http.Request, out interface{}) error {
	res, err := c.HTTP.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		return fmt.Errorf("unexpected status %s", res.Status)
	}
	return json.NewDecoder(res.Body).Decode(out)
}
