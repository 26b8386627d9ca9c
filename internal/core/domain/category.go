package domain

import (
	"errors"
	"time"
)

const (
	DefaultCategoryIcon  = "/media/icon/image.png"
	DefaultCategoryColor = "#ede7d5"
)

var (
	ErrCategoryNotFound    = errors.New("category not found")
	ErrCategoryExists      = errors.New("category already exists")
	ErrUnsupportedFileType = errors.New("file type is not supported")
	ErrAttachmentNotFound  = errors.New("attachment not found")
	ErrFileNameTooLong     = errors.New("file name is too long")
)

// IconExtensions maps accepted icon content types to the stored file extension.
var IconExtensions = map[string]string{
	"image/jpeg":    "jpg",
	"image/png":     "png",
	"image/webp":    "webp",
	"image/gif":     "gif",
	"image/svg+xml": "svg",
}

type Category struct {
	ID        int64     `json:"category_id"`
	Name      string    `json:"name"`
	Color     string    `json:"color"`
	Icon      string    `json:"icon"`
	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`
}

// Attachment references an object in storage. FilePath is the object key.
type Attachment struct {
	ID        int64     `json:"attachment_id"`
	FilePath  string    `json:"file_path"`
	TaskID    int64     `json:"task_id"`
	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`
}
