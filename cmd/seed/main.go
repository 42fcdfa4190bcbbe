package main

import (
	"context"
	"errors"
	"log"

	"gorm.io/gorm"

	"github.com/blindys/blindys-backend/internal/config"
	"github.com/blindys/blindys-backend/internal/es"
	"github.com/blindys/blindys-backend/internal/models"
	"github.com/blindys/blindys-backend/internal/search"
	"github.com/blindys/blindys-backend/internal/spotify"
)

// One playlist per theme; only tracks with a preview URL are kept, since the
// blind test needs something to play.
var playlistNames = []string{
	"Pop mix", "Rock", "Années 80", "Années 90", "Musique de film", "Jazz", "R&B", "Country", "Dubstep",
	"Hip-Hop", "Rap", "Rap Francais", "Rap US", "Beurette à chicha", "Funk", "Années 2000", "Afrotrap",
	"Bachata", "Latino", "Dua Lipa",
}

func main() {
	configuration := config.LoadConfig()

	db, err := config.InitDB()
	if err != nil {
		log.Fatalf("database init failed: %v", err)
	}

	esClient, err := es.NewClient(configuration)
	if err != nil {
		log.Fatal(err)
	}

	client := spotify.NewClient(configuration.SPOTIFY_CLIENT_ID, configuration.SPOTIFY_CLIENT_SECRET)

	ctx := context.Background()

	token, err := client.AccessToken(ctx)
	if err != nil {
		log.Fatal(err)
	}

	var inserted, skipped int
	for _, theme := range playlistNames {
		playlistID, err := client.SearchPlaylistID(ctx, token, theme)
		if err != nil {
			log.Printf("skipping theme %q: %v", theme, err)
			continue
		}

		playlist, err := client.Playlist(ctx, token, playlistID)
		if err != nil {
			log.Printf("skipping playlist %s: %v", playlistID, err)
			continue
		}

		for _, item := range playlist.Tracks.Items {
			t := item.Track
			if t == nil || t.PreviewURL == "" {
				skipped++
				continue
			}

			track := models.Track{
				SpotifyID:  t.ID,
				Name:       t.Name,
				PreviewURL: t.PreviewURL,
				Theme:      theme,
			}
			if len(t.Artists) > 0 {
				track.Artist = t.Artists[0].Name
			}
			if len(t.Album.Images) > 0 {
				track.ImageURL = t.Album.Images[0].URL
			}

			err := db.Where("spotify_id = ?", track.SpotifyID).First(&models.Track{}).Error
			if err == nil {
				skipped++
				continue
			}
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				log.Fatalf("track lookup failed: %v", err)
			}

			if err := db.Create(&track).Error; err != nil {
				log.Fatalf("track insert failed: %v", err)
			}

			if err := search.IndexTrack(ctx, esClient, "track", track); err != nil {
				log.Printf("track index failed for %s: %v", track.SpotifyID, err)
			}
			inserted++
		}

		log.Printf("theme %q done", theme)
	}

	log.Printf("seed complete: %d tracks inserted, %d skipped", inserted, skipped)
}
