package domain

import (
	"io"
	"net/url"
	"path"
)

// JobReport ответ Render Service на запрос статуса
type JobReport struct {
	Status    JobStatus `json:"status"`
	FilePaths []string  `json:"file_paths,omitempty"`
	Error     string    `json:"error,omitempty"`
}

// ResultFile скачиваемый результат рендеринга
type ResultFile struct {
	Name        string
	ContentType string
	Size        int64 // -1, если сервис не прислал Content-Length
	Content     io.ReadCloser
}

// ResultFileName имя файла для сохранения результата, взятое из пути ссылки
func ResultFileName(rawPath string) string {
	p := rawPath
	if u, err := url.Parse(rawPath); err == nil {
		p = u.Path
	}
	name := path.Base(p)
	if name == "." || name == "/" || name == "" {
		return "result"
	}
	return name
}
