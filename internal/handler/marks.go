package handler

import (
	"errors"
	"net/http"

	"sessionaudio/internal/models"
	"sessionaudio/internal/util"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// MarkHandler 负责时间标记接口
type MarkHandler struct {
	DB *gorm.DB
}

func NewMarkHandler(db *gorm.DB) *MarkHandler {
	return &MarkHandler{DB: db}
}

// ListByFile 返回指定音频文件的全部标记，按偏移升序
func (h *MarkHandler) ListByFile(c *gin.Context) {
	fileID := c.Param("fileId")

	var marks []models.TimeMark
	if err := h.DB.
		Where("audio_file_id = ?", fileID).
		Order("time_seconds ASC").
		Find(&marks).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, "Failed to fetch marks")
		return
	}
	c.JSON(http.StatusOK, marks)
}

type createMarkReq struct {
	AudioFileID *uint    `json:"audio_file_id"`
	TimeSeconds *float64 `json:"time_seconds"`
	Note        string   `json:"note"`
}

// Create 新建一个时间标记。备注去掉首尾空白后最多 200 字符，
// 插入前先确认目标文件记录存在且未被软删除。
func (h *MarkHandler) Create(c *gin.Context) {
	var req createMarkReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, "audio_file_id and time_seconds are required")
		return
	}
	if req.AudioFileID == nil || req.TimeSeconds == nil {
		util.Error(c, http.StatusBadRequest, "audio_file_id and time_seconds are required")
		return
	}
	if err := util.ValidateTimeSeconds(*req.TimeSeconds); err != nil {
		util.Error(c, http.StatusBadRequest, "time_seconds must be a positive number")
		return
	}
	note, err := util.NormalizeNote(req.Note)
	if err != nil {
		util.Error(c, http.StatusBadRequest, "Note must be 200 characters or less")
		return
	}

	var file models.AudioFile
	if err := h.DB.Select("id").
		Where("id = ? AND deleted = ?", *req.AudioFileID, false).
		First(&file).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			util.Error(c, http.StatusNotFound, "Audio file not found")
		} else {
			util.Error(c, http.StatusInternalServerError, "Failed to create mark")
		}
		return
	}

	mark := models.TimeMark{
		AudioFileID: *req.AudioFileID,
		TimeSeconds: *req.TimeSeconds,
		Note:        note,
	}
	if err := h.DB.Create(&mark).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, "Failed to create mark")
		return
	}

	c.JSON(http.StatusCreated, mark)
}

// Delete 删除一个时间标记
func (h *MarkHandler) Delete(c *gin.Context) {
	id := c.Param("id")

	var mark models.TimeMark
	if err := h.DB.Select("id").First(&mark, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			util.Error(c, http.StatusNotFound, "Mark not found")
		} else {
			util.Error(c, http.StatusInternalServerError, "Failed to delete mark")
		}
		return
	}

	if err := h.DB.Delete(&models.TimeMark{}, mark.ID).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, "Failed to delete mark")
		return
	}

	util.OK(c, gin.H{"success": true, "message": "Mark deleted"})
}
