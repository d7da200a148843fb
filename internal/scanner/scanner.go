package scanner

import (
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"sessionaudio/internal/models"

	"gorm.io/gorm"
)

// Scanner reconciles the audio directory with the audio_files table.
// One Scanner instance serializes its own runs: two overlapping scans
// would double-count new files and race on the soft-delete pass.
type Scanner struct {
	DB   *gorm.DB
	Root string

	mu sync.Mutex
}

// Result is the public outcome of one scan. Restored entries are
// logged but deliberately not part of the result.
type Result struct {
	NewFiles     int `json:"newFiles"`
	DeletedFiles int `json:"deletedFiles"`
	TotalFiles   int `json:"totalFiles"`
}

func New(db *gorm.DB, root string) *Scanner {
	return &Scanner{DB: db, Root: root}
}

// Scan walks the audio root and updates the database:
// unknown files are inserted, previously soft-deleted files that
// reappeared are restored, and entries whose backing file vanished are
// soft-deleted. Matching is by filename only, so two files with the
// same name in different subdirectories collide (last one scanned
// wins).
func (s *Scanner) Scan() (Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	log.Printf("scanning audio directory: %s", s.Root)

	if _, err := os.Stat(s.Root); err != nil {
		log.Printf("ERROR: audio root does not exist: %s", s.Root)
		return Result{}, nil
	}

	found := s.walk()
	log.Printf("found %d mp3 files", len(found))

	var result Result
	restored := 0

	for _, path := range found {
		filename := filepath.Base(path)
		relPath, err := filepath.Rel(s.Root, path)
		if err != nil {
			log.Printf("scan: relative path for %s: %v", path, err)
			continue
		}

		var existing models.AudioFile
		err = s.DB.Select("id", "deleted").
			Where("filename = ?", filename).
			First(&existing).Error

		switch {
		case err == nil && existing.Deleted:
			// 文件重新出现，恢复软删除的记录
			if err := s.DB.Model(&models.AudioFile{}).
				Where("id = ?", existing.ID).
				Updates(map[string]interface{}{
					"deleted":      false,
					"last_scanned": time.Now(),
				}).Error; err != nil {
				return result, fmt.Errorf("restore entry %d: %w", existing.ID, err)
			}
			restored++

		case err == nil:
			if err := s.DB.Model(&models.AudioFile{}).
				Where("id = ?", existing.ID).
				Update("last_scanned", time.Now()).Error; err != nil {
				return result, fmt.Errorf("touch entry %d: %w", existing.ID, err)
			}

		case errors.Is(err, gorm.ErrRecordNotFound):
			entry, err := s.newEntry(path, filename, relPath)
			if err != nil {
				log.Printf("scan: skipping %s: %v", path, err)
				continue
			}
			if err := s.DB.Create(entry).Error; err != nil {
				return result, fmt.Errorf("insert entry %s: %w", filename, err)
			}
			result.NewFiles++

		default:
			return result, fmt.Errorf("look up %s: %w", filename, err)
		}
	}

	// 第二阶段：磁盘上消失的文件打软删除标记
	var live []models.AudioFile
	if err := s.DB.Select("id", "file_path").
		Where("deleted = ?", false).
		Find(&live).Error; err != nil {
		return result, fmt.Errorf("list live entries: %w", err)
	}
	for _, entry := range live {
		fullPath := filepath.Join(s.Root, entry.FilePath)
		if _, err := os.Stat(fullPath); err != nil {
			if err := s.DB.Model(&models.AudioFile{}).
				Where("id = ?", entry.ID).
				Update("deleted", true).Error; err != nil {
				return result, fmt.Errorf("soft-delete entry %d: %w", entry.ID, err)
			}
			result.DeletedFiles++
		}
	}

	var total int64
	if err := s.DB.Model(&models.AudioFile{}).Count(&total).Error; err != nil {
		return result, fmt.Errorf("count entries: %w", err)
	}
	result.TotalFiles = int(total)

	log.Printf("scan complete: %d new, %d restored, %d deleted, %d total",
		result.NewFiles, restored, result.DeletedFiles, result.TotalFiles)

	return result, nil
}

// walk enumerates mp3 files under the root. Unreadable subtrees are
// logged and skipped, never fatal.
func (s *Scanner) walk() []string {
	var found []string
	_ = filepath.WalkDir(s.Root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			log.Printf("scan: error reading %s: %v", path, err)
			if d != nil && d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			return nil
		}
		if strings.HasSuffix(strings.ToLower(d.Name()), ".mp3") {
			found = append(found, path)
		}
		return nil
	})
	return found
}

// newEntry stats the file and builds a fresh AudioFile row. Metadata
// extraction failure is a warning, the entry keeps a nil duration.
func (s *Scanner) newEntry(path, filename, relPath string) (*models.AudioFile, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("stat: %w", err)
	}

	var duration *int
	if secs, err := extractDuration(path); err != nil {
		log.Printf("WARN: could not extract metadata from %s: %v", path, err)
	} else {
		duration = &secs
	}

	// birth time is not portable, the modification time stands in for
	// both filesystem timestamps
	now := time.Now()
	return &models.AudioFile{
		Filename:        filename,
		FilePath:        relPath,
		DurationSeconds: duration,
		FileSizeBytes:   info.Size(),
		CreatedAt:       info.ModTime(),
		ModifiedAt:      info.ModTime(),
		LastScanned:     now,
	}, nil
}
