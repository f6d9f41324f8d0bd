package usecase

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/plastinin/renderclient/internal/domain"
	"go.uber.org/zap"
)

const DefaultPollInterval = 5 * time.Second

// RenderClient клиент загрузки файла и опроса статуса задачи.
// Владеет единственной задачей опроса: она пересоздаётся при смене задачи и отменяется в Close.
type RenderClient struct {
	render   RenderService
	recorder Recorder
	opts     ClientOptions
	logger   *zap.Logger

	mu       sync.Mutex
	file     *domain.SelectedFile
	job      *domain.Job
	state    domain.UIState
	poll     *pollTask
	onUpdate func(domain.UIState)
	changed  chan struct{} // закрывается, когда все изменения доставлены колбэку
	closed   bool

	// Очередь копий состояния для колбэка в порядке фиксации изменений
	updates    []domain.UIState
	delivering bool
	// notifyMu держит горутина, которая сейчас доставляет очередь
	notifyMu sync.Mutex
}

// pollTask запущенная горутина опроса для конкретной задачи
type pollTask struct {
	jobID  string
	cancel context.CancelFunc
	done   chan struct{}
}

func (t *pollTask) wait() {
	if t == nil {
		return
	}
	<-t.done
}

// NewRenderClient создаёт новый экземпляр RenderClient
func NewRenderClient(
	render RenderService,
	recorder Recorder,
	opts ClientOptions,
	logger *zap.Logger,
) *RenderClient {
	if recorder == nil {
		recorder = nopRecorder{}
	}
	if opts.PollInterval <= 0 {
		opts.PollInterval = DefaultPollInterval
	}

	return &RenderClient{
		render:   render,
		recorder: recorder,
		opts:     opts,
		logger:   logger,
		state: domain.UIState{
			Phase:        domain.PhaseIdle,
			StatusText:   domain.StatusTextIdle,
			DownloadURLs: []string{},
		},
		changed: make(chan struct{}),
	}
}

// SetUpdateCallback задаёт функцию, которая получает копию состояния после каждого изменения.
// Колбэки вызываются по одному, вне блокировки состояния, в порядке изменений.
// Из колбэка можно вызывать State и SelectFile; Upload, Close и Wait вызывать нельзя.
func (c *RenderClient) SetUpdateCallback(callback func(domain.UIState)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onUpdate = callback
}

// SelectFile запоминает выбранный файл. Проверок типа и размера нет.
func (c *RenderClient) SelectFile(file *domain.SelectedFile) {
	c.mu.Lock()
	c.file = file
	c.state.FileName = ""
	if file != nil {
		c.state.FileName = file.Name
	}
	c.unlockAndNotify()
}

// State возвращает копию текущего состояния
func (c *RenderClient) State() domain.UIState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.Clone()
}

// Upload загружает выбранный файл и запускает опрос статуса новой задачи.
// Без выбранного файла запрос не выполняется и состояние не меняется.
func (c *RenderClient) Upload(ctx context.Context) error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return domain.ErrClientClosed
	}
	if c.file == nil {
		c.mu.Unlock()
		c.logger.Debug("Upload skipped, no file selected")
		return domain.ErrNoFileSelected
	}
	if c.state.Uploading {
		c.mu.Unlock()
		return domain.ErrUploadInProgress
	}

	file := c.file

	// Предыдущая задача больше не интересна
	prev := c.detachPollLocked()
	c.job = nil
	c.state.JobID = ""
	c.state.DownloadURLs = []string{}
	c.state.Uploading = true
	c.state.Phase = domain.PhaseUploading
	c.state.StatusText = domain.StatusTextUploading
	c.unlockAndNotify()

	prev.wait()

	c.logger.Info("Uploading file",
		zap.String("file_name", file.Name),
		zap.Int64("file_size", file.Size),
	)

	jobID, uploadErr := c.render.Upload(ctx, file)
	return c.finishUpload(file, jobID, uploadErr)
}

// finishUpload снимает флаг загрузки при любом исходе и применяет результат
func (c *RenderClient) finishUpload(file *domain.SelectedFile, jobID string, uploadErr error) error {
	c.mu.Lock()
	c.state.Uploading = false

	var job *domain.Job
	if uploadErr == nil {
		job, uploadErr = domain.NewJob(jobID)
	}

	if uploadErr != nil {
		c.state.Phase = domain.PhaseUploadFailed
		c.state.StatusText = domain.StatusTextUploadFail
		c.state.DownloadURLs = []string{}
		c.unlockAndNotify()

		c.recorder.UploadFinished(false)
		c.logger.Error("Failed to upload file",
			zap.String("file_name", file.Name),
			zap.Error(uploadErr),
		)
		return fmt.Errorf("failed to upload file: %w", uploadErr)
	}

	c.job = job
	c.state.JobID = job.ID
	c.state.Phase = domain.PhaseProcessing
	c.state.StatusText = domain.StatusTextProcessing
	c.state.DownloadURLs = []string{}

	closed := c.closed
	if !closed {
		c.poll = c.startPollLocked(job.ID)
	}
	c.unlockAndNotify()

	c.recorder.UploadFinished(true)
	c.logger.Info("Job submitted",
		zap.String("job_id", job.ID),
		zap.String("file_name", file.Name),
		zap.Duration("poll_interval", c.opts.PollInterval),
	)

	if closed {
		return domain.ErrClientClosed
	}
	return nil
}

// Wait ждёт финального состояния текущей задачи (или неудачной загрузки)
func (c *RenderClient) Wait(ctx context.Context) (domain.UIState, error) {
	for {
		c.mu.Lock()
		state := c.state.Clone()
		closed := c.closed
		changed := c.changed
		delivered := len(c.updates) == 0 && !c.delivering
		c.mu.Unlock()

		if delivered && (state.Phase.IsFinal() || state.Phase == domain.PhaseIdle) {
			return state, nil
		}
		if closed {
			return state, domain.ErrClientClosed
		}

		select {
		case <-ctx.Done():
			return state, ctx.Err()
		case <-changed:
		}
	}
}

// Close останавливает опрос и дожидается завершения горутины
func (c *RenderClient) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	task := c.detachPollLocked()
	c.unlockAndNotify()

	task.wait()
	c.logger.Debug("Render client closed")
}

func (c *RenderClient) startPollLocked(jobID string) *pollTask {
	ctx, cancel := context.WithCancel(context.Background())
	task := &pollTask{
		jobID:  jobID,
		cancel: cancel,
		done:   make(chan struct{}),
	}
	go c.pollLoop(ctx, task)
	return task
}

func (c *RenderClient) detachPollLocked() *pollTask {
	task := c.poll
	c.poll = nil
	if task != nil {
		task.cancel()
	}
	return task
}

// pollLoop запрашивает статус с фиксированным интервалом.
// Запросы идут последовательно, поэтому не перекрываются.
func (c *RenderClient) pollLoop(ctx context.Context, task *pollTask) {
	defer close(task.done)

	ticker := time.NewTicker(c.opts.PollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if ctx.Err() != nil {
				return
			}
			final := c.pollOnce(ctx, task.jobID)
			if final && c.opts.StopOnTerminal {
				c.logger.Debug("Polling stopped on terminal status", zap.String("job_id", task.jobID))
				return
			}
		}
	}
}

// pollOnce выполняет один запрос статуса и применяет ответ, если задача всё ещё текущая.
// Возвращает true, если задача в финальном статусе.
func (c *RenderClient) pollOnce(ctx context.Context, jobID string) bool {
	report, err := c.render.Status(ctx, jobID)
	if err != nil && ctx.Err() != nil {
		// Опрос отменён: задача сменилась или клиент закрыт
		return false
	}

	c.mu.Lock()
	if c.job == nil || c.job.ID != jobID {
		c.mu.Unlock()
		c.recorder.PollFinished(PollOutcomeStale)
		c.logger.Debug("Dropping stale status response", zap.String("job_id", jobID))
		return false
	}

	var outcome string
	if err != nil {
		outcome = c.applyPollErrorLocked(err)
	} else {
		outcome = c.applyReportLocked(report)
	}
	final := c.job.Status.IsFinal()
	c.recorder.PollFinished(outcome)
	c.unlockAndNotify()

	return final
}

func (c *RenderClient) applyPollErrorLocked(err error) string {
	c.logger.Warn("Failed to check job status",
		zap.String("job_id", c.job.ID),
		zap.Error(err),
	)

	// Финальный результат не перетираем временной ошибкой
	if c.job.Status.IsFinal() {
		return PollOutcomeError
	}

	c.state.Phase = domain.PhaseError
	c.state.StatusText = domain.StatusTextPollError
	c.state.DownloadURLs = []string{}
	return PollOutcomeError
}

func (c *RenderClient) applyReportLocked(report *domain.JobReport) string {
	job := c.job

	if job.Status.IsFinal() {
		if report.Status != job.Status {
			c.logger.Warn("Ignoring status change after terminal status",
				zap.String("job_id", job.ID),
				zap.String("status", job.Status.String()),
				zap.String("reported", report.Status.String()),
			)
		}
		return report.Status.String()
	}

	switch report.Status {
	case domain.JobStatusPending:
		if err := job.MarkPending(); err != nil {
			return c.invalidTransition(err, report)
		}
		c.state.Phase = domain.PhaseProcessing
		c.state.StatusText = domain.StatusTextProcessing
		c.state.DownloadURLs = []string{}
		return PollOutcomePending

	case domain.JobStatusCompleted:
		if err := job.MarkCompleted(report.FilePaths); err != nil {
			return c.invalidTransition(err, report)
		}
		urls := make([]string, 0, len(job.ResultPaths))
		for _, p := range job.ResultPaths {
			urls = append(urls, c.render.ResultURL(p))
		}
		c.state.Phase = domain.PhaseCompleted
		c.state.StatusText = domain.StatusTextCompleted
		c.state.DownloadURLs = urls
		c.recorder.JobFinished(domain.JobStatusCompleted)
		c.logger.Info("Rendering complete",
			zap.String("job_id", job.ID),
			zap.Strings("download_urls", urls),
		)
		return PollOutcomeCompleted

	case domain.JobStatusFailed:
		if err := job.MarkFailed(report.Error); err != nil {
			return c.invalidTransition(err, report)
		}
		c.state.Phase = domain.PhaseFailed
		c.state.StatusText = domain.FailedStatusText(report.Error)
		c.state.DownloadURLs = []string{}
		c.recorder.JobFinished(domain.JobStatusFailed)
		c.logger.Warn("Rendering failed",
			zap.String("job_id", job.ID),
			zap.String("error", report.Error),
		)
		return PollOutcomeFailed
	}

	return c.applyPollErrorLocked(fmt.Errorf("%w: %q", domain.ErrInvalidJobStatus, report.Status))
}

func (c *RenderClient) invalidTransition(err error, report *domain.JobReport) string {
	if !errors.Is(err, domain.ErrInvalidJobStatus) {
		c.logger.Error("Unexpected job transition error", zap.Error(err))
	}
	return c.applyPollErrorLocked(fmt.Errorf("apply %s: %w", report.Status, err))
}

// unlockAndNotify ставит копию состояния в очередь колбэка, отпускает mu и доставляет очередь
func (c *RenderClient) unlockAndNotify() {
	c.updates = append(c.updates, c.state.Clone())
	c.mu.Unlock()
	c.deliverUpdates()
}

// deliverUpdates вызывает колбэк для накопленных изменений.
// Доставляет одна горутина; остальные оставляют изменения в очереди и выходят.
// mu не удерживается ни во время колбэка, ни в ожидании notifyMu.
func (c *RenderClient) deliverUpdates() {
	for c.notifyMu.TryLock() {
		for {
			c.mu.Lock()
			if len(c.updates) == 0 {
				// Всё доставлено: будим Wait
				c.delivering = false
				close(c.changed)
				c.changed = make(chan struct{})
				c.mu.Unlock()
				break
			}
			snapshot, callback := c.updates[0], c.onUpdate
			c.updates = c.updates[1:]
			c.delivering = true
			c.mu.Unlock()

			if callback != nil {
				callback(snapshot)
			}
		}
		c.notifyMu.Unlock()

		// Изменение могло встать в очередь, пока notifyMu был занят
		c.mu.Lock()
		pending := len(c.updates) > 0
		c.mu.Unlock()
		if !pending {
			return
		}
	}
}
