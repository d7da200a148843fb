package handler

import (
	"errors"
	"net/http"

	"sessionaudio/internal/models"
	"sessionaudio/internal/scanner"
	"sessionaudio/internal/util"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// FileHandler 负责音频文件列表、删除与扫描接口
type FileHandler struct {
	DB      *gorm.DB
	Scanner *scanner.Scanner
}

func NewFileHandler(db *gorm.DB, sc *scanner.Scanner) *FileHandler {
	return &FileHandler{DB: db, Scanner: sc}
}

// List 返回全部音频文件，按创建时间倒序（最新在前）
func (h *FileHandler) List(c *gin.Context) {
	var files []models.AudioFile
	if err := h.DB.Order("created_at DESC").Find(&files).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, "Failed to fetch files")
		return
	}
	c.JSON(http.StatusOK, files)
}

// Get 返回单个音频文件
func (h *FileHandler) Get(c *gin.Context) {
	id := c.Param("id")

	var file models.AudioFile
	if err := h.DB.First(&file, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			util.Error(c, http.StatusNotFound, "File not found")
		} else {
			util.Error(c, http.StatusInternalServerError, "Failed to fetch file")
		}
		return
	}
	c.JSON(http.StatusOK, file)
}

// Delete 硬删除文件记录及其全部时间标记。
// 外键本身是级联的，这里仍然显式删标记，行为更直观。
func (h *FileHandler) Delete(c *gin.Context) {
	id := c.Param("id")

	var file models.AudioFile
	if err := h.DB.Select("id").First(&file, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			util.Error(c, http.StatusNotFound, "File not found")
		} else {
			util.Error(c, http.StatusInternalServerError, "Failed to delete file")
		}
		return
	}

	if err := h.DB.Where("audio_file_id = ?", file.ID).Delete(&models.TimeMark{}).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, "Failed to delete file")
		return
	}
	if err := h.DB.Delete(&models.AudioFile{}, file.ID).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, "Failed to delete file")
		return
	}

	util.OK(c, gin.H{"success": true, "message": "File deleted"})
}

// Scan 手动触发一次目录扫描，等扫描结束后返回计数
func (h *FileHandler) Scan(c *gin.Context) {
	result, err := h.Scanner.Scan()
	if err != nil {
		util.Error(c, http.StatusInternalServerError, "Failed to scan files")
		return
	}
	c.JSON(http.StatusOK, result)
}
