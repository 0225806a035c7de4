package services

import (
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"
	"time"

	"schoolms/internal/models"
	apperrors "schoolms/pkg/errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ImageExtensions 头像允许的扩展名
var ImageExtensions = []string{".png", ".jpg", ".jpeg", ".gif"}

type UploadService struct {
	db  *gorm.DB
	dir string
}

func NewUploadService(db *gorm.DB, dir string) *UploadService {
	return &UploadService{db: db, dir: dir}
}

// Dir 上传根目录
func (s *UploadService) Dir() string {
	return s.dir
}

// Save 保存上传文件为 <dir>/<subdir>/<时间戳>_<uuid>_<原文件名>，返回相对上传目录的路径。
// allowed 非空时限制扩展名
func (s *UploadService) Save(fh *multipart.FileHeader, subdir string, uploaderID *uint, allowed ...string) (string, error) {
	base := filepath.Base(strings.ReplaceAll(fh.Filename, "\\", "/"))
	if base == "." || base == "/" || base == "" {
		return "", apperrors.Validation("文件名无效", map[string]string{"file": "文件名无效"})
	}
	ext := strings.ToLower(filepath.Ext(base))
	if len(allowed) > 0 && !containsString(allowed, ext) {
		return "", apperrors.Validation("不支持的文件类型", map[string]string{"file": "不支持的文件类型"})
	}

	src, err := fh.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()

	targetDir := filepath.Join(s.dir, subdir)
	if err := os.MkdirAll(targetDir, 0o755); err != nil {
		return "", fmt.Errorf("创建上传目录失败: %w", err)
	}
	storedName := fmt.Sprintf("%s_%s_%s", time.Now().Format("20060102150405"), uuid.New().String(), base)
	dst, err := os.Create(filepath.Join(targetDir, storedName))
	if err != nil {
		return "", err
	}
	size, err := io.Copy(dst, src)
	if cerr := dst.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		_ = os.Remove(filepath.Join(targetDir, storedName))
		return "", err
	}

	record := &models.UploadedFile{
		Filename:   base,
		StoredName: storedName,
		Subdir:     subdir,
		Size:       size,
		UploaderID: uploaderID,
		FileType:   strings.TrimPrefix(ext, "."),
	}
	if err := s.db.Create(record).Error; err != nil {
		return "", err
	}
	return filepath.ToSlash(filepath.Join(subdir, storedName)), nil
}

func containsString(list []string, value string) bool {
	for _, item := range list {
		if item == value {
			return true
		}
	}
	return false
}
