package main

import (
	"fmt"
	"strconv"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"

	"github.com/fluidlab/godaq/pkg/stream"
)

// showSettingsDialog displays a settings dialog with tabs for all configuration options.
func showSettingsDialog(state *appState) {
	tabs := container.NewAppTabs(
		createSerialTab(state),
		createAcquisitionTab(state),
		createChannelsTab(state),
		createPlotTab(state),
		createInfluxTab(state),
		createMockTab(state),
	)

	content := container.NewBorder(nil, nil, nil, nil, tabs)
	content.Resize(fyne.NewSize(600, 500))

	d := dialog.NewCustom("Settings", "Close", content, state.window)
	d.Resize(fyne.NewSize(600, 500))
	d.Show()
}

// createSerialTab creates the Serial configuration tab.
func createSerialTab(state *appState) *container.TabItem {
	// Get available serial ports
	ports, err := stream.Ports()
	portOptions := []string{}
	if err == nil {
		for _, port := range ports {
			portOptions = append(portOptions, port.Name)
		}
	}

	// Add current port if not in list
	currentPort := state.cfg.Serial.Port
	found := false
	for _, opt := range portOptions {
		if opt == currentPort {
			found = true
			break
		}
	}
	if !found && currentPort != "" {
		portOptions = append(portOptions, currentPort)
	}

	portSelect := widget.NewSelect(portOptions, func(selected string) {
		// Selection handler - applied on submit
	})
	if currentPort != "" {
		portSelect.SetSelected(currentPort)
	}

	baudEntry := widget.NewEntry()
	baudEntry.SetText(strconv.Itoa(state.cfg.Serial.BaudRate))

	form := &widget.Form{
		Items: []*widget.FormItem{
			{Text: "Serial Port", Widget: portSelect},
			{Text: "Baud Rate", Widget: baudEntry},
		},
		OnSubmit: func() {
			portChanged := false
			if portSelect.Selected != "" && portSelect.Selected != state.cfg.Serial.Port {
				state.cfg.Serial.Port = portSelect.Selected
				portChanged = true
			}
			if baud, err := strconv.Atoi(baudEntry.Text); err == nil && baud > 0 {
				state.cfg.Serial.BaudRate = baud
			}
			if err := state.cfg.Save("config.yaml"); err != nil {
				dialog.ShowError(fmt.Errorf("failed to save config: %w", err), state.window)
				return
			}

			// If the port changed while connected, restart the chain
			if portChanged && state.chain != nil && state.chain.source.IsConnected() {
				handleConnect(state) // disconnect
				handleConnect(state) // reconnect with new port
			}
		},
	}

	return container.NewTabItem("Serial", form)
}

// createAcquisitionTab creates the Acquisition configuration tab. These
// values mirror the firmware's build-time settings; the host only uses them
// for decoding and labeling.
func createAcquisitionTab(state *appState) *container.TabItem {
	intervalEntry := widget.NewEntry()
	intervalEntry.SetText(strconv.Itoa(state.cfg.Acquisition.IntervalMs))

	shuntEntry := widget.NewEntry()
	shuntEntry.SetText(fmt.Sprintf("%.0f", state.cfg.Acquisition.ShuntOhms))

	encodingSelect := widget.NewSelect([]string{"binary", "text"}, func(string) {})
	encodingSelect.SetSelected(state.cfg.Acquisition.Encoding)

	form := &widget.Form{
		Items: []*widget.FormItem{
			{Text: "Interval (ms)", Widget: intervalEntry},
			{Text: "Shunt (Ω)", Widget: shuntEntry},
			{Text: "Encoding", Widget: encodingSelect},
		},
		OnSubmit: func() {
			if v, err := strconv.Atoi(intervalEntry.Text); err == nil && v > 0 {
				state.cfg.Acquisition.IntervalMs = v
			}
			if v, err := strconv.ParseFloat(shuntEntry.Text, 64); err == nil && v > 0 {
				state.cfg.Acquisition.ShuntOhms = v
			}
			if encodingSelect.Selected != "" {
				state.cfg.Acquisition.Encoding = encodingSelect.Selected
			}
			if err := state.cfg.Save("config.yaml"); err != nil {
				dialog.ShowError(fmt.Errorf("failed to save config: %w", err), state.window)
			}
		},
	}

	return container.NewTabItem("Acquisition", form)
}

// createChannelsTab shows the configured channel table. The table fixes the
// wire order of the stream, so it is edited in the config file, not here.
func createChannelsTab(state *appState) *container.TabItem {
	items := make([]fyne.CanvasObject, 0, len(state.cfg.Channels)+1)
	for i, ch := range state.cfg.Channels {
		desc := fmt.Sprintf("%d: %s  [%s]", i, ch.Name, ch.Kind)
		if ch.Kind == "current_loop" {
			desc += fmt.Sprintf("  ADC ch %d, full scale %g", ch.ADCChannel, ch.FullScale)
		} else {
			desc += fmt.Sprintf("  unit %d", ch.Unit)
		}
		items = append(items, widget.NewLabel(desc))
	}
	items = append(items, widget.NewLabel("Channel order must match the firmware; edit config.yaml to change it."))

	return container.NewTabItem("Channels", container.NewVBox(items...))
}

// createPlotTab creates the Plot configuration tab.
func createPlotTab(state *appState) *container.TabItem {
	windowEntry := widget.NewEntry()
	windowEntry.SetText(fmt.Sprintf("%.0f", state.cfg.Plot.WindowSeconds))

	maxPointsEntry := widget.NewEntry()
	maxPointsEntry.SetText(strconv.Itoa(state.cfg.Plot.MaxPoints))

	form := &widget.Form{
		Items: []*widget.FormItem{
			{Text: "Window (s)", Widget: windowEntry},
			{Text: "Max Display Points", Widget: maxPointsEntry},
		},
		OnSubmit: func() {
			if v, err := strconv.ParseFloat(windowEntry.Text, 64); err == nil && v > 0 {
				state.cfg.Plot.WindowSeconds = v
			}
			if v, err := strconv.Atoi(maxPointsEntry.Text); err == nil && v > 0 {
				state.cfg.Plot.MaxPoints = v
			}
			if err := state.cfg.Save("config.yaml"); err != nil {
				dialog.ShowError(fmt.Errorf("failed to save config: %w", err), state.window)
			}
		},
	}

	return container.NewTabItem("Plot", form)
}

// createInfluxTab creates the InfluxDB sink configuration tab.
func createInfluxTab(state *appState) *container.TabItem {
	enabledCheck := widget.NewCheck("Forward records to InfluxDB", func(bool) {})
	enabledCheck.SetChecked(state.cfg.Influx.Enabled)

	urlEntry := widget.NewEntry()
	urlEntry.SetText(state.cfg.Influx.URL)

	tokenEntry := widget.NewPasswordEntry()
	tokenEntry.SetText(state.cfg.Influx.Token)

	orgEntry := widget.NewEntry()
	orgEntry.SetText(state.cfg.Influx.Org)

	bucketEntry := widget.NewEntry()
	bucketEntry.SetText(state.cfg.Influx.Bucket)

	form := &widget.Form{
		Items: []*widget.FormItem{
			{Text: "", Widget: enabledCheck},
			{Text: "URL", Widget: urlEntry},
			{Text: "Token", Widget: tokenEntry},
			{Text: "Org", Widget: orgEntry},
			{Text: "Bucket", Widget: bucketEntry},
		},
		OnSubmit: func() {
			state.cfg.Influx.Enabled = enabledCheck.Checked
			state.cfg.Influx.URL = urlEntry.Text
			state.cfg.Influx.Token = tokenEntry.Text
			state.cfg.Influx.Org = orgEntry.Text
			state.cfg.Influx.Bucket = bucketEntry.Text
			if err := state.cfg.Save("config.yaml"); err != nil {
				dialog.ShowError(fmt.Errorf("failed to save config: %w", err), state.window)
			}
		},
	}

	return container.NewTabItem("InfluxDB", form)
}

// createMockTab creates the Mock source configuration tab.
func createMockTab(state *appState) *container.TabItem {
	rateEntry := widget.NewEntry()
	rateEntry.SetText(state.cfg.Mock.SampleRate.String())

	noiseEntry := widget.NewEntry()
	noiseEntry.SetText(fmt.Sprintf("%.3f", state.cfg.Mock.NoiseLevel))

	flowPeriodEntry := widget.NewEntry()
	flowPeriodEntry.SetText(state.cfg.Mock.FlowPeriod.String())

	faultEntry := widget.NewEntry()
	faultEntry.SetText(strconv.Itoa(state.cfg.Mock.FaultEveryN))

	form := &widget.Form{
		Items: []*widget.FormItem{
			{Text: "Sample Rate", Widget: rateEntry},
			{Text: "Noise Level", Widget: noiseEntry},
			{Text: "Flow Period", Widget: flowPeriodEntry},
			{Text: "Fault Every N", Widget: faultEntry},
		},
		OnSubmit: func() {
			if v, err := time.ParseDuration(rateEntry.Text); err == nil && v > 0 {
				state.cfg.Mock.SampleRate = v
			}
			if v, err := strconv.ParseFloat(noiseEntry.Text, 64); err == nil {
				state.cfg.Mock.NoiseLevel = v
			}
			if v, err := time.ParseDuration(flowPeriodEntry.Text); err == nil && v > 0 {
				state.cfg.Mock.FlowPeriod = v
			}
			if v, err := strconv.Atoi(faultEntry.Text); err == nil && v >= 0 {
				state.cfg.Mock.FaultEveryN = v
			}
			if err := state.cfg.Save("config.yaml"); err != nil {
				dialog.ShowError(fmt.Errorf("failed to save config: %w", err), state.window)
			}
		},
	}

	return container.NewTabItem("Mock", form)
}
