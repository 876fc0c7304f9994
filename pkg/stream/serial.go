package stream

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log"
	"strings"
	"sync"
	"time"

	"go.bug.st/serial"

	"github.com/fluidlab/godaq/pkg/encode"
)

const (
	// DefaultBaudRate matches the firmware's UART configuration.
	DefaultBaudRate = 115200
	// DefaultBufferSize is the default size for the records channel buffer.
	DefaultBufferSize = 100
)

// Port represents a serial port.
type Port struct {
	Name        string
	Description string
}

// Serial reads the acquisition stream from the device's serial link and
// decodes it into Records. The device only transmits; nothing is ever
// written back.
type Serial struct {
	port     string
	baudRate int
	bufSize  int
	mode     encode.Mode
	channels int

	conn      serial.Port
	records   chan Record
	mu        sync.RWMutex
	ctx       context.Context
	cancel    context.CancelFunc
	done      chan struct{} // Closed when the reader goroutine exits
	connected bool
}

// New creates a new Serial source. mode and channels must match the
// firmware's build-time configuration: binary records carry no framing, so
// the receiver has to know the record layout a priori.
func New(port string, baudRate int, bufSize int, mode encode.Mode, channels int) *Serial {
	if baudRate == 0 {
		baudRate = DefaultBaudRate
	}
	if bufSize == 0 {
		bufSize = DefaultBufferSize
	}

	return &Serial{
		port:     port,
		baudRate: baudRate,
		bufSize:  bufSize,
		mode:     mode,
		channels: channels,
		records:  make(chan Record, bufSize),
	}
}

// Ports returns a list of available serial ports.
func Ports() ([]Port, error) {
	ports, err := serial.GetPortsList()
	if err != nil {
		return nil, fmt.Errorf("failed to list serial ports: %w", err)
	}

	result := make([]Port, 0, len(ports))
	for _, name := range ports {
		result = append(result, Port{
			Name:        name,
			Description: name,
		})
	}

	return result, nil
}

// Connect opens the serial port and starts decoding records.
func (d *Serial) Connect() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.connected {
		return fmt.Errorf("already connected")
	}

	mode := &serial.Mode{
		BaudRate: d.baudRate,
	}

	port, err := serial.Open(d.port, mode)
	if err != nil {
		return fmt.Errorf("failed to open serial port %s: %w", d.port, err)
	}

	// Fresh context and channel so a source can be reconnected after Close.
	d.ctx, d.cancel = context.WithCancel(context.Background())
	d.records = make(chan Record, d.bufSize)

	d.conn = port
	d.connected = true
	d.done = make(chan struct{})

	if d.mode == encode.Binary {
		go d.readBinary(port)
	} else {
		go d.readText(port)
	}

	return nil
}

// Close closes the connection, waits for the reader goroutine to stop and
// then closes the records channel.
func (d *Serial) Close() error {
	d.mu.Lock()

	if !d.connected {
		d.mu.Unlock()
		return nil
	}

	// Cancel context and close the port to unblock the reader
	d.cancel()

	if d.conn != nil {
		if err := d.conn.Close(); err != nil {
			log.Printf("Error closing serial port: %v", err)
		}
		d.conn = nil
	}

	d.connected = false
	done := d.done
	d.mu.Unlock()

	<-done
	close(d.records)

	return nil
}

// Records returns the channel for reading decoded records.
func (d *Serial) Records() <-chan Record {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.records
}

// IsConnected returns whether the source is currently connected.
func (d *Serial) IsConnected() bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.connected
}

// readBinary reads fixed-size binary records from the serial port.
// Records carry no framing or checksum, so alignment relies on the host
// opening the port before the device starts emitting. A stream joined
// mid-record decodes into implausible values until reconnect.
func (d *Serial) readBinary(conn io.Reader) {
	defer close(d.done)

	reader := bufio.NewReader(conn)
	buf := make([]byte, encode.RecordSize(d.channels))

	for {
		select {
		case <-d.ctx.Done():
			return
		default:
			if _, err := io.ReadFull(reader, buf); err != nil {
				if err != io.EOF {
					log.Printf("Error reading from serial port: %v", err)
				}
				return
			}

			sample, err := encode.DecodeBinary(buf, d.channels)
			if err != nil {
				log.Printf("Failed to decode record: %v", err)
				continue
			}

			d.deliver(Record{Received: time.Now(), Sample: sample})
		}
	}
}

// readText reads CSV lines from the serial port.
func (d *Serial) readText(conn io.Reader) {
	defer close(d.done)

	scanner := bufio.NewScanner(conn)
	for {
		select {
		case <-d.ctx.Done():
			return
		default:
			if !scanner.Scan() {
				if err := scanner.Err(); err != nil && err != io.EOF {
					log.Printf("Error reading from serial port: %v", err)
				}
				return
			}

			line := strings.TrimSpace(scanner.Text())
			if line == "" {
				continue
			}

			sample, err := encode.ParseText(line, d.channels)
			if err != nil {
				log.Printf("Failed to parse line '%s': %v", line, err)
				continue
			}

			d.deliver(Record{Received: time.Now(), Sample: sample})
		}
	}
}

// deliver sends a record to the channel without blocking the reader.
func (d *Serial) deliver(rec Record) {
	select {
	case d.records <- rec:
	case <-d.ctx.Done():
	default:
		// Channel full, log and skip
		log.Printf("Records channel full, dropping record")
	}
}
