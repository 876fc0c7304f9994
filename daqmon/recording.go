package main

import (
	"fmt"

	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"

	"github.com/fluidlab/godaq/pkg/history"
)

// handleRecordToggle starts or stops CSV session recording.
func handleRecordToggle(state *appState) {
	state.recordMu.Lock()
	recording := state.recorder != nil
	state.recordMu.Unlock()

	if recording {
		stopRecording(state)
		return
	}

	recorder, err := history.NewCSVLogger(state.csvDir, state.cfg.ChannelNames())
	if err != nil {
		dialog.ShowError(fmt.Errorf("failed to start recording: %w", err), state.window)
		return
	}

	state.recordMu.Lock()
	state.recorder = recorder
	state.recordMu.Unlock()

	fmt.Printf("Recording to %s\n", recorder.Path())
	state.recordBtn.Importance = widget.HighImportance
	state.recordBtn.Refresh()
}

// stopRecording closes the current CSV session, if any.
func stopRecording(state *appState) {
	state.recordMu.Lock()
	recorder := state.recorder
	state.recorder = nil
	state.recordMu.Unlock()

	if recorder == nil {
		return
	}

	if err := recorder.Close(); err != nil {
		dialog.ShowError(fmt.Errorf("failed to close recording: %w", err), state.window)
		return
	}
	fmt.Printf("Recording saved to %s\n", recorder.Path())
	state.recordBtn.Importance = widget.MediumImportance
	state.recordBtn.Refresh()
}
