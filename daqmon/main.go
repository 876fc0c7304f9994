package main

import (
	"flag"
	"fmt"
	"log"
	"sync"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"github.com/fluidlab/godaq/pkg/config"
	"github.com/fluidlab/godaq/pkg/history"
	"github.com/fluidlab/godaq/pkg/scope"
	"github.com/fluidlab/godaq/pkg/sink"
	"github.com/fluidlab/godaq/pkg/stream"
)

func main() {
	var (
		portFlag   = flag.String("p", "", "Serial port override (e.g., COM3 or /dev/ttyACM0)")
		configFlag = flag.String("config", "config.yaml", "Configuration file path")
		mockFlag   = flag.Bool("mock", false, "Use mocked source instead of serial port")
		csvDirFlag = flag.String("csv-dir", "csv_files", "Directory for recorded CSV sessions")
	)
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configFlag)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Override serial port if provided via command line
	if *portFlag != "" {
		cfg.Serial.Port = *portFlag
	}

	// Create Fyne application
	application := app.NewWithID("com.fluidlab.godaq")

	// Create main window
	window := application.NewWindow("Flow DAQ Monitor")
	window.Resize(fyne.NewSize(1200, 800))
	window.CenterOnScreen()

	hist := history.New(time.Duration(cfg.Plot.WindowSeconds * float64(time.Second)))

	state := &appState{
		cfg:     cfg,
		hist:    hist,
		window:  window,
		useMock: *mockFlag,
		csvDir:  *csvDirFlag,
	}

	toolbar := createToolbar(state)

	scopeWidget := scope.New(cfg.ChannelNames(), cfg.Plot.WindowSeconds, cfg.Plot.MaxPoints)
	state.scopeWidget = scopeWidget

	// Throttle scope updates to ~60 FPS to keep the UI responsive
	const updateInterval = 16 * time.Millisecond
	hist.OnUpdate(func(records []stream.Record) {
		state.updateMu.Lock()
		now := time.Now()
		tooSoon := now.Sub(state.lastUpdateTime) < updateInterval
		if !tooSoon {
			state.lastUpdateTime = now
		}
		state.updateMu.Unlock()
		if tooSoon {
			return
		}

		faults := hist.FaultRecords()
		fyne.Do(func() {
			state.scopeWidget.UpdateData(records, faults)
		})
	})

	content := container.NewBorder(
		toolbar,
		nil,
		nil,
		nil,
		scopeWidget,
	)

	window.SetContent(content)
	window.ShowAndRun()
}

// acquisitionChain tracks the components of the running chain for graceful
// shutdown.
type acquisitionChain struct {
	source       stream.Source
	dispatchDone chan struct{} // Closed when the dispatch goroutine exits
	historyDone  chan struct{} // Closed when the history goroutine exits
	influxDone   chan struct{} // Closed when the influx goroutine exits (nil if disabled)
	influxSink   *sink.Influx
}

// appState holds the application state.
type appState struct {
	cfg         *config.Config
	hist        *history.History
	scopeWidget *scope.ScopeWidget
	window      fyne.Window
	connectBtn  *widget.Button
	recordBtn   *widget.Button
	useMock     bool
	csvDir      string
	chain       *acquisitionChain

	// CSV session recording (guarded by recordMu, accessed from dispatch)
	recordMu sync.Mutex
	recorder *history.CSVLogger

	// Throttling for scope updates
	lastUpdateTime time.Time
	updateMu       sync.Mutex
}

// createToolbar creates the toolbar with Connect, Settings and Record buttons.
func createToolbar(state *appState) fyne.CanvasObject {
	connectBtn := widget.NewButtonWithIcon("", theme.LoginIcon(), func() {
		handleConnect(state)
	})
	state.connectBtn = connectBtn

	settingsBtn := widget.NewButtonWithIcon("", theme.SettingsIcon(), func() {
		showSettingsDialog(state)
	})

	recordBtn := widget.NewButtonWithIcon("", theme.MediaRecordIcon(), func() {
		handleRecordToggle(state)
	})
	recordBtn.Disable()
	state.recordBtn = recordBtn

	return container.NewBorder(
		nil, // top
		nil, // bottom
		container.NewHBox(connectBtn, settingsBtn), // left
		container.NewHBox(recordBtn),               // right
		nil, // center (spacer)
	)
}

// closeAcquisitionChain gracefully closes the chain: the source first, then
// every downstream goroutine as its input channel drains.
func closeAcquisitionChain(chain *acquisitionChain) {
	if chain == nil {
		return
	}

	if chain.source != nil {
		chain.source.Close()
	}

	if chain.dispatchDone != nil {
		<-chain.dispatchDone
	}
	if chain.historyDone != nil {
		<-chain.historyDone
	}
	if chain.influxDone != nil {
		<-chain.influxDone
	}
	if chain.influxSink != nil {
		chain.influxSink.Close()
	}
}

// handleConnect handles the connect/disconnect button click.
func handleConnect(state *appState) {
	if state.chain != nil && state.chain.source.IsConnected() {
		// Disconnect
		stopRecording(state)
		closeAcquisitionChain(state.chain)
		state.chain = nil
		state.recordBtn.Disable()
		if state.useMock {
			fmt.Println("Disconnected from mocked source")
		} else {
			fmt.Println("Disconnected from serial port")
		}
		return
	}

	// Connect
	var source stream.Source
	if state.useMock {
		source = stream.NewMock(&state.cfg.Mock, state.cfg.DAQChannels())
	} else {
		source = stream.New(
			state.cfg.Serial.Port,
			state.cfg.Serial.BaudRate,
			stream.DefaultBufferSize,
			state.cfg.EncodingMode(),
			len(state.cfg.Channels),
		)
	}

	if err := source.Connect(); err != nil {
		if state.useMock {
			dialog.ShowError(fmt.Errorf("failed to connect to mocked source: %w", err), state.window)
		} else {
			dialog.ShowError(fmt.Errorf("failed to connect to %s: %w", state.cfg.Serial.Port, err), state.window)
		}
		return
	}
	if state.useMock {
		fmt.Println("Connected to mocked source")
	} else {
		fmt.Printf("Connected to serial port: %s\n", state.cfg.Serial.Port)
	}

	state.recordBtn.Enable()

	// Reset history shutdown flag for the new chain
	state.hist.ResetShutdown()

	chain := &acquisitionChain{
		source:       source,
		dispatchDone: make(chan struct{}),
		historyDone:  make(chan struct{}),
	}

	// Optional InfluxDB forwarding
	var influxCh chan stream.Record
	if state.cfg.Influx.Enabled {
		chain.influxSink = sink.NewInflux(&state.cfg.Influx, state.cfg.ChannelNames())
		chain.influxDone = make(chan struct{})
		influxCh = make(chan stream.Record, stream.DefaultBufferSize)
		go func() {
			defer close(chain.influxDone)
			chain.influxSink.Process(influxCh)
		}()
	}

	histCh := make(chan stream.Record, stream.DefaultBufferSize)
	go func() {
		defer close(chain.historyDone)
		state.hist.Process(histCh)
	}()

	// Dispatch incoming records to history, CSV recorder and Influx sink
	go func() {
		defer close(chain.dispatchDone)
		defer close(histCh)
		if influxCh != nil {
			defer close(influxCh)
		}

		for rec := range source.Records() {
			state.recordMu.Lock()
			if state.recorder != nil {
				if err := state.recorder.Append(rec); err != nil {
					log.Printf("Failed to write CSV row: %v", err)
				}
			}
			state.recordMu.Unlock()

			histCh <- rec

			if influxCh != nil {
				select {
				case influxCh <- rec:
				default:
					// A slow InfluxDB write must not stall the display
				}
			}
		}
	}()

	state.chain = chain
}
