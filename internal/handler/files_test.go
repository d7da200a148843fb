package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"sessionaudio/internal/models"
	"sessionaudio/internal/scanner"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

func TestListFiles_NewestFirst(t *testing.T) {
	gin.SetMode(gin.TestMode)
	db := newTestDB(t)

	older := models.AudioFile{
		Filename:  "older.mp3",
		FilePath:  "older.mp3",
		CreatedAt: time.Now().Add(-time.Hour),
	}
	newer := models.AudioFile{
		Filename:  "newer.mp3",
		FilePath:  "newer.mp3",
		CreatedAt: time.Now(),
	}
	require.NoError(t, db.Create(&older).Error)
	require.NoError(t, db.Create(&newer).Error)

	r := gin.New()
	h := NewFileHandler(db, nil)
	r.GET("/api/files", h.List)

	req := httptest.NewRequest(http.MethodGet, "/api/files", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var files []models.AudioFile
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &files))
	require.Len(t, files, 2)
	require.Equal(t, "newer.mp3", files[0].Filename)
	require.Equal(t, "older.mp3", files[1].Filename)
}

func TestGetFile_NotFound(t *testing.T) {
	gin.SetMode(gin.TestMode)
	db := newTestDB(t)

	r := gin.New()
	h := NewFileHandler(db, nil)
	r.GET("/api/files/:id", h.Get)

	req := httptest.NewRequest(http.MethodGet, "/api/files/42", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestScanEndpoint_ReturnsCounts(t *testing.T) {
	gin.SetMode(gin.TestMode)
	db := newTestDB(t)
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "one.mp3"), []byte("x"), 0o644))

	r := gin.New()
	h := NewFileHandler(db, scanner.New(db, root))
	r.POST("/api/files/scan", h.Scan)

	req := httptest.NewRequest(http.MethodPost, "/api/files/scan", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var result scanner.Result
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	require.Equal(t, 1, result.NewFiles)
	require.Equal(t, 0, result.DeletedFiles)
	require.Equal(t, 1, result.TotalFiles)
}
