package domain

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

var (
	ErrEmptyFileName = errors.New("file name cannot be empty")
)

const defaultContentType = "application/octet-stream"

// Маппинг расширений на MIME типы
var extToContentType = map[string]string{
	".png":   "image/png",
	".jpg":   "image/jpeg",
	".jpeg":  "image/jpeg",
	".webp":  "image/webp",
	".tiff":  "image/tiff",
	".tif":   "image/tiff",
	".pdf":   "application/pdf",
	".obj":   "model/obj",
	".stl":   "model/stl",
	".gltf":  "model/gltf+json",
	".glb":   "model/gltf-binary",
	".fbx":   defaultContentType,
	".blend": defaultContentType,
}

// SelectedFile файл, выбранный пользователем для загрузки.
// Содержимое можно открыть повторно, чтобы загрузить тот же выбор ещё раз.
type SelectedFile struct {
	Name string
	Size int64
	open func() (io.ReadCloser, error)
}

// NewSelectedFile создаёт файл из содержимого в памяти
func NewSelectedFile(name string, content []byte) (*SelectedFile, error) {
	if name == "" {
		return nil, ErrEmptyFileName
	}
	return &SelectedFile{
		Name: name,
		Size: int64(len(content)),
		open: func() (io.ReadCloser, error) {
			return io.NopCloser(bytes.NewReader(content)), nil
		},
	}, nil
}

// SelectedFileFromPath создаёт файл, который читается с диска при каждом открытии
func SelectedFileFromPath(path string) (*SelectedFile, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat file: %w", err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%s is a directory", path)
	}
	return &SelectedFile{
		Name: filepath.Base(path),
		Size: info.Size(),
		open: func() (io.ReadCloser, error) {
			return os.Open(path)
		},
	}, nil
}

// Open открывает содержимое файла
func (f *SelectedFile) Open() (io.ReadCloser, error) {
	return f.open()
}

// ContentType определяет MIME тип по имени файла
func (f *SelectedFile) ContentType() string {
	return ContentTypeFromFileName(f.Name)
}

// ContentTypeFromFileName определяет MIME тип по расширению.
// Неизвестные расширения не отклоняются: файл отправляется как octet-stream.
func ContentTypeFromFileName(fileName string) string {
	ext := strings.ToLower(filepath.Ext(fileName))
	if ct, ok := extToContentType[ext]; ok {
		return ct
	}
	return defaultContentType
}
