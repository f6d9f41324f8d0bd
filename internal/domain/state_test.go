package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPhase_IsFinal(t *testing.T) {
	final := map[Phase]bool{
		PhaseIdle:         false,
		PhaseUploading:    false,
		PhaseProcessing:   false,
		PhaseError:        false,
		PhaseUploadFailed: true,
		PhaseCompleted:    true,
		PhaseFailed:       true,
	}

	for phase, want := range final {
		assert.Equal(t, want, phase.IsFinal(), phase.String())
	}
}

func TestFailedStatusText(t *testing.T) {
	assert.Equal(t, "Rendering failed: decode error", FailedStatusText("decode error"))
}

func TestUIState_Clone(t *testing.T) {
	s := UIState{Phase: PhaseCompleted, DownloadURLs: []string{"http://r/a.jpg"}}
	c := s.Clone()
	c.DownloadURLs[0] = "changed"
	assert.Equal(t, "http://r/a.jpg", s.DownloadURLs[0])

	empty := UIState{}.Clone()
	assert.NotNil(t, empty.DownloadURLs)
	assert.Empty(t, empty.DownloadURLs)
}

func TestResultFileName(t *testing.T) {
	tests := map[string]string{
		"http://host/renders/a.jpg":         "a.jpg",
		"http://host/renders/b.png?sig=abc": "b.png",
		"/renders/c.txt#frag":               "c.txt",
		"http://host/":                      "result",
		"":                                  "result",
	}

	for in, want := range tests {
		assert.Equal(t, want, ResultFileName(in), in)
	}
}
