package usecase

import "time"

// ClientOptions параметры клиента загрузки и опроса
type ClientOptions struct {
	PollInterval time.Duration // Интервал между запросами статуса
	// Останавливать опрос после completed/failed
	StopOnTerminal bool
}

// FetchedResult результат, сохранённый в хранилище
type FetchedResult struct {
	URL      string `json:"url"`
	Location string `json:"location"`
}
