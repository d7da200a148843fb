package handler

import (
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"sessionaudio/internal/models"
	"sessionaudio/internal/util"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

const audioContentType = "audio/mpeg"

// StreamHandler 按字节区间流式输出音频，支持播放器 seek
type StreamHandler struct {
	DB   *gorm.DB
	Root string
}

func NewStreamHandler(db *gorm.DB, root string) *StreamHandler {
	return &StreamHandler{DB: db, Root: root}
}

// byteRange is a parsed "bytes=start-end" request, end inclusive.
type byteRange struct {
	start int64
	end   int64
}

// parseRange parses a Range header against the given total size.
// The second return is false when the header is absent or malformed,
// in which case the caller serves the full content. A syntactically
// valid range that does not fit inside size is returned as-is; the
// caller answers 416.
func parseRange(header string, size int64) (byteRange, bool) {
	if !strings.HasPrefix(header, "bytes=") {
		return byteRange{}, false
	}
	spec := strings.TrimPrefix(header, "bytes=")

	startStr, endStr, found := strings.Cut(spec, "-")
	if !found {
		return byteRange{}, false
	}

	start, err := strconv.ParseInt(startStr, 10, 64)
	if err != nil || start < 0 {
		return byteRange{}, false
	}

	end := size - 1
	if endStr != "" {
		end, err = strconv.ParseInt(endStr, 10, 64)
		if err != nil || end < start {
			return byteRange{}, false
		}
	}

	return byteRange{start: start, end: end}, true
}

// Stream 输出音频内容。带 Range 头时回 206 部分内容，
// 区间越界回 416，其余情况整文件输出。全程增量拷贝，不整读进内存。
func (h *StreamHandler) Stream(c *gin.Context) {
	fileID := c.Param("fileId")

	var file models.AudioFile
	err := h.DB.
		Where("id = ? AND deleted = ?", fileID, false).
		First(&file).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			util.Error(c, http.StatusNotFound, "File not found")
		} else {
			util.Error(c, http.StatusInternalServerError, "Failed to stream file")
		}
		return
	}

	fullPath := filepath.Join(h.Root, file.FilePath)

	info, err := os.Stat(fullPath)
	if err != nil {
		log.Printf("stream: entry %d exists but file missing on disk: %s", file.ID, fullPath)
		util.Error(c, http.StatusNotFound, "Audio file not found on disk")
		return
	}
	size := info.Size()

	rng, hasRange := parseRange(c.GetHeader("Range"), size)
	if hasRange && (rng.start >= size || rng.end >= size) {
		c.Header("Content-Range", fmt.Sprintf("bytes */%d", size))
		c.Status(http.StatusRequestedRangeNotSatisfiable)
		return
	}

	f, err := os.Open(fullPath)
	if err != nil {
		log.Printf("stream: open %s: %v", fullPath, err)
		util.Error(c, http.StatusInternalServerError, "Failed to stream file")
		return
	}
	defer f.Close()

	c.Header("Accept-Ranges", "bytes")
	c.Header("Content-Type", audioContentType)

	if !hasRange {
		c.Header("Content-Length", strconv.FormatInt(size, 10))
		c.Status(http.StatusOK)
		if _, err := io.Copy(c.Writer, f); err != nil {
			// 客户端断开，拷贝随连接终止
			log.Printf("stream: aborted for entry %d: %v", file.ID, err)
		}
		return
	}

	chunkSize := rng.end - rng.start + 1
	if _, err := f.Seek(rng.start, io.SeekStart); err != nil {
		log.Printf("stream: seek %s: %v", fullPath, err)
		util.Error(c, http.StatusInternalServerError, "Failed to stream file")
		return
	}

	c.Header("Content-Range", fmt.Sprintf("bytes %d-%d/%d", rng.start, rng.end, size))
	c.Header("Content-Length", strconv.FormatInt(chunkSize, 10))
	c.Status(http.StatusPartialContent)
	if _, err := io.CopyN(c.Writer, f, chunkSize); err != nil {
		log.Printf("stream: aborted for entry %d: %v", file.ID, err)
	}
}
