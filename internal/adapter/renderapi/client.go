package renderapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/plastinin/renderclient/internal/config"
	"github.com/plastinin/renderclient/internal/domain"
	"go.uber.org/zap"
)

const (
	uploadPath      = "/upload"
	statusPath      = "/status/"
	maxErrorBodyLen = 512
	requestIDHeader = "X-Request-ID"
)

var ErrEmptyTaskID = errors.New("render service returned empty task id")

// StatusError ответ Render Service с кодом вне 2xx
type StatusError struct {
	Op         string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s: render service returned status %d: %s", e.Op, e.StatusCode, e.Body)
}

// Client клиент для работы с Render Service
type Client struct {
	httpClient  *http.Client
	baseURL     string
	uploadField string
	logger      *zap.Logger
}

// NewClient создаёт новый экземпляр Client.
// cfg должен быть провалидирован через RenderConfig.Validate.
func NewClient(cfg config.RenderConfig, logger *zap.Logger) *Client {
	field := cfg.UploadField
	if field == "" {
		field = "file"
	}
	return &Client{
		httpClient: &http.Client{
			Timeout: cfg.RequestTimeout,
		},
		baseURL:     strings.TrimRight(cfg.BaseURL, "/"),
		uploadField: field,
		logger:      logger.Named("renderapi"),
	}
}

// uploadResponse ответ на POST /upload. task_id бывает и строкой, и числом.
type uploadResponse struct {
	TaskID json.RawMessage `json:"task_id"`
}

// Upload отправляет файл multipart-формой и возвращает идентификатор задачи
func (c *Client) Upload(ctx context.Context, file *domain.SelectedFile) (string, error) {
	content, err := file.Open()
	if err != nil {
		return "", fmt.Errorf("failed to open file: %w", err)
	}
	defer content.Close()

	// Стримим тело через pipe, чтобы не держать файл в памяти
	pr, pw := io.Pipe()
	defer pr.Close()
	form := multipart.NewWriter(pw)

	go func() {
		pw.CloseWithError(c.writeForm(form, file, content))
	}()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+uploadPath, pr)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", form.FormDataContentType())

	var resp uploadResponse
	if err := c.doJSON(req, "upload", &resp); err != nil {
		return "", err
	}

	taskID, err := parseTaskID(resp.TaskID)
	if err != nil {
		return "", err
	}

	c.logger.Debug("File uploaded",
		zap.String("file_name", file.Name),
		zap.Int64("file_size", file.Size),
		zap.String("task_id", taskID),
	)

	return taskID, nil
}

func (c *Client) writeForm(form *multipart.Writer, file *domain.SelectedFile, content io.Reader) error {
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"; filename="%s"`,
		escapeQuotes(c.uploadField), escapeQuotes(file.Name)))
	h.Set("Content-Type", file.ContentType())

	part, err := form.CreatePart(h)
	if err != nil {
		return fmt.Errorf("failed to create form part: %w", err)
	}
	if _, err := io.Copy(part, content); err != nil {
		return fmt.Errorf("failed to write file content: %w", err)
	}
	return form.Close()
}

// Status запрашивает статус задачи
func (c *Client) Status(ctx context.Context, jobID string) (*domain.JobReport, error) {
	u := c.baseURL + statusPath + url.PathEscape(jobID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	var report domain.JobReport
	if err := c.doJSON(req, "status", &report); err != nil {
		var statusErr *StatusError
		if errors.As(err, &statusErr) && statusErr.StatusCode == http.StatusNotFound {
			return nil, fmt.Errorf("%w: %w", domain.ErrJobNotFound, err)
		}
		return nil, err
	}

	if !report.Status.IsValid() {
		return nil, fmt.Errorf("%w: %q", domain.ErrInvalidJobStatus, report.Status)
	}

	return &report, nil
}

// ResultURL строит абсолютную ссылку на результат: <base><path>
func (c *Client) ResultURL(path string) string {
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return c.baseURL + path
}

// Download открывает поток результата по абсолютной ссылке.
// Вызывающий обязан закрыть Content.
func (c *Client) Download(ctx context.Context, rawURL string) (*domain.ResultFile, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set(requestIDHeader, uuid.NewString())

	startTime := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request to render service: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		defer resp.Body.Close()
		return nil, newStatusError("download", resp)
	}

	c.logger.Debug("Result download started",
		zap.String("url", rawURL),
		zap.Int64("content_length", resp.ContentLength),
		zap.Duration("duration", time.Since(startTime)),
	)

	return &domain.ResultFile{
		Name:        domain.ResultFileName(rawURL),
		ContentType: resp.Header.Get("Content-Type"),
		Size:        resp.ContentLength,
		Content:     resp.Body,
	}, nil
}

// doJSON выполняет запрос и декодирует JSON ответ в out
func (c *Client) doJSON(req *http.Request, op string, out any) error {
	req.Header.Set("Accept", "application/json")
	req.Header.Set(requestIDHeader, uuid.NewString())

	startTime := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send %s request to render service: %w", op, err)
	}
	defer resp.Body.Close()

	c.logger.Debug("Render service request completed",
		zap.String("op", op),
		zap.String("request_id", req.Header.Get(requestIDHeader)),
		zap.Int("status_code", resp.StatusCode),
		zap.Duration("duration", time.Since(startTime)),
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return newStatusError(op, resp)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode %s response: %w", op, err)
	}

	return nil
}

func newStatusError(op string, resp *http.Response) *StatusError {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodyLen))
	return &StatusError{
		Op:         op,
		StatusCode: resp.StatusCode,
		Body:       strings.TrimSpace(string(body)),
	}
}

// parseTaskID приводит task_id к строке: "abc" -> abc, 17 -> 17
func parseTaskID(raw json.RawMessage) (string, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return "", ErrEmptyTaskID
	}

	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return "", fmt.Errorf("failed to decode task id: %w", err)
		}
		if s == "" {
			return "", ErrEmptyTaskID
		}
		return s, nil
	}

	var n json.Number
	if err := json.Unmarshal(raw, &n); err != nil {
		return "", fmt.Errorf("failed to decode task id: %w", err)
	}
	return n.String(), nil
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

func escapeQuotes(s string) string {
	return quoteEscaper.Replace(s)
}
