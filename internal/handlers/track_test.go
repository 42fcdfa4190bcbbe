package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/blindys/blindys-backend/internal/models"
)

func seedTracks(t *testing.T, db *gorm.DB, theme string, n int) {
	t.Helper()

	for i := 0; i < n; i++ {
		track := models.Track{
			SpotifyID:  fmt.Sprintf("%s-%d", theme, i),
			Name:       fmt.Sprintf("track %d", i),
			Artist:     "artist",
			PreviewURL: "https://example.com/preview.mp3",
			Theme:      theme,
		}
		require.NoError(t, db.Create(&track).Error)
	}
}

func TestGetTracks(t *testing.T) {
	db := InitTestDB(t)
	h := &TrackHandler{DB: db}
	e := echo.New()

	seedTracks(t, db, "Jazz", 3)
	seedTracks(t, db, "Rock", 2)

	c, rec := getCtx(e, "/tracks")
	require.NoError(t, h.GetTracks(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Total  int64          `json:"total"`
		Tracks []models.Track `json:"tracks"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.EqualValues(t, 5, resp.Total)
	require.Len(t, resp.Tracks, 5)
}

func TestGetTracks_ThemeFilter(t *testing.T) {
	db := InitTestDB(t)
	h := &TrackHandler{DB: db}
	e := echo.New()

	seedTracks(t, db, "Jazz", 3)
	seedTracks(t, db, "Rock", 2)

	c, rec := getCtx(e, "/tracks?theme=Rock")
	require.NoError(t, h.GetTracks(c))

	var resp struct {
		Total  int64          `json:"total"`
		Tracks []models.Track `json:"tracks"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.EqualValues(t, 2, resp.Total)
	for _, track := range resp.Tracks {
		require.Equal(t, "Rock", track.Theme)
	}
}

func TestGetTracks_Pagination(t *testing.T) {
	db := InitTestDB(t)
	h := &TrackHandler{DB: db}
	e := echo.New()

	seedTracks(t, db, "Jazz", 15)

	c, rec := getCtx(e, "/tracks?page=2&size=10")
	require.NoError(t, h.GetTracks(c))

	var resp struct {
		Total  int64          `json:"total"`
		Tracks []models.Track `json:"tracks"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.EqualValues(t, 15, resp.Total)
	require.Len(t, resp.Tracks, 5)
}

func TestSearch_RequiresQuery(t *testing.T) {
	h := &TrackHandler{}
	e := echo.New()

	c, _ := getCtx(e, "/tracks/search")
	err := h.Search(c)
	he, ok := err.(*echo.HTTPError)
	require.True(t, ok, "expected HTTPError")
	require.Equal(t, http.StatusBadRequest, he.Code)
}
