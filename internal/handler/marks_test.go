package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"sessionaudio/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func marksFixture(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db := newTestDB(t)
	file := models.AudioFile{
		Filename:      "track.mp3",
		FilePath:      "track.mp3",
		FileSizeBytes: 1000,
	}
	require.NoError(t, db.Create(&file).Error)

	r := gin.New()
	mh := NewMarkHandler(db)
	r.GET("/api/marks/:fileId", mh.ListByFile)
	r.POST("/api/marks", mh.Create)
	r.DELETE("/api/marks/:id", mh.Delete)

	fh := NewFileHandler(db, nil)
	r.DELETE("/api/files/:id", fh.Delete)

	return r, db
}

func postMark(r *gin.Engine, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/marks", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestCreateMark_Valid(t *testing.T) {
	r, _ := marksFixture(t)

	w := postMark(r, `{"audio_file_id":1,"time_seconds":12.5,"note":" intro riff "}`)
	require.Equal(t, http.StatusCreated, w.Code)

	var mark models.TimeMark
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &mark))
	require.EqualValues(t, 1, mark.AudioFileID)
	require.Equal(t, 12.5, mark.TimeSeconds)
	require.Equal(t, "intro riff", mark.Note) // 首尾空白被去掉
}

func TestCreateMark_MissingFields(t *testing.T) {
	r, _ := marksFixture(t)

	for _, body := range []string{"{}", `{"audio_file_id":1}`, `{"time_seconds":5}`} {
		w := postMark(r, body)
		require.Equal(t, http.StatusBadRequest, w.Code, "body %q", body)
	}
}

func TestCreateMark_NegativeTime(t *testing.T) {
	r, _ := marksFixture(t)

	w := postMark(r, `{"audio_file_id":1,"time_seconds":-1}`)
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCreateMark_ZeroTimeIsValid(t *testing.T) {
	r, _ := marksFixture(t)

	w := postMark(r, `{"audio_file_id":1,"time_seconds":0}`)
	require.Equal(t, http.StatusCreated, w.Code)
}

func TestCreateMark_NoteLengthBoundary(t *testing.T) {
	r, _ := marksFixture(t)

	ok := `{"audio_file_id":1,"time_seconds":1,"note":"` + strings.Repeat("a", 200) + `"}`
	w := postMark(r, ok)
	require.Equal(t, http.StatusCreated, w.Code)

	tooLong := `{"audio_file_id":1,"time_seconds":1,"note":"` + strings.Repeat("a", 201) + `"}`
	w = postMark(r, tooLong)
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCreateMark_UnknownFileNotFound(t *testing.T) {
	r, _ := marksFixture(t)

	w := postMark(r, `{"audio_file_id":999,"time_seconds":1}`)
	require.Equal(t, http.StatusNotFound, w.Code)
}

// 软删除之后不能再新建标记，但已有标记保持可查
func TestMarks_SoftDeletedFile(t *testing.T) {
	r, db := marksFixture(t)

	w := postMark(r, `{"audio_file_id":1,"time_seconds":30,"note":"verse"}`)
	require.Equal(t, http.StatusCreated, w.Code)

	require.NoError(t, db.Model(&models.AudioFile{}).
		Where("id = ?", 1).
		Update("deleted", true).Error)

	w = postMark(r, `{"audio_file_id":1,"time_seconds":45}`)
	require.Equal(t, http.StatusNotFound, w.Code)

	req := httptest.NewRequest(http.MethodGet, "/api/marks/1", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var marks []models.TimeMark
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &marks))
	require.Len(t, marks, 1)
}

func TestListMarks_AscendingByOffset(t *testing.T) {
	r, _ := marksFixture(t)

	postMark(r, `{"audio_file_id":1,"time_seconds":120}`)
	postMark(r, `{"audio_file_id":1,"time_seconds":5}`)
	postMark(r, `{"audio_file_id":1,"time_seconds":60.5}`)

	req := httptest.NewRequest(http.MethodGet, "/api/marks/1", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var marks []models.TimeMark
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &marks))
	require.Len(t, marks, 3)
	require.Equal(t, 5.0, marks[0].TimeSeconds)
	require.Equal(t, 60.5, marks[1].TimeSeconds)
	require.Equal(t, 120.0, marks[2].TimeSeconds)
}

func TestDeleteMark(t *testing.T) {
	r, _ := marksFixture(t)

	postMark(r, `{"audio_file_id":1,"time_seconds":10}`)

	req := httptest.NewRequest(http.MethodDelete, "/api/marks/1", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	req = httptest.NewRequest(http.MethodDelete, "/api/marks/1", nil)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusNotFound, w.Code)
}

// 删除文件记录要把它的全部标记一并带走
func TestDeleteFile_CascadesToMarks(t *testing.T) {
	r, db := marksFixture(t)

	postMark(r, `{"audio_file_id":1,"time_seconds":10}`)
	postMark(r, `{"audio_file_id":1,"time_seconds":20}`)

	req := httptest.NewRequest(http.MethodDelete, "/api/files/1", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var fileCount, markCount int64
	require.NoError(t, db.Model(&models.AudioFile{}).Count(&fileCount).Error)
	require.NoError(t, db.Model(&models.TimeMark{}).Count(&markCount).Error)
	require.Zero(t, fileCount)
	require.Zero(t, markCount)
}
