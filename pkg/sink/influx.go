// Package sink forwards decoded records to external stores.
package sink

import (
	"context"
	"log"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api"

	"github.com/fluidlab/godaq/pkg/config"
	"github.com/fluidlab/godaq/pkg/stream"
)

// Influx writes one point per record to an InfluxDB bucket, with one field
// per channel. Faulted channels are omitted from the point (InfluxDB does
// not accept NaN field values).
type Influx struct {
	client       influxdb2.Client
	write        api.WriteAPIBlocking
	measurement  string
	channelNames []string
}

// NewInflux creates a sink for the given configuration. channelNames become
// the point field keys, in wire order.
func NewInflux(cfg *config.InfluxConfig, channelNames []string) *Influx {
	client := influxdb2.NewClient(cfg.URL, cfg.Token)
	return &Influx{
		client:       client,
		write:        client.WriteAPIBlocking(cfg.Org, cfg.Bucket),
		measurement:  cfg.Measurement,
		channelNames: channelNames,
	}
}

// Process consumes records from the input channel until it closes. Write
// errors are logged and do not stop consumption.
func (s *Influx) Process(in <-chan stream.Record) {
	for rec := range in {
		fields := s.pointFields(rec)
		if len(fields) == 0 {
			continue
		}

		p := influxdb2.NewPoint(
			s.measurement,
			map[string]string{"source": "godaq"},
			fields,
			rec.Received,
		)
		if err := s.write.WritePoint(context.Background(), p); err != nil {
			log.Printf("Error writing point to InfluxDB: %v", err)
		}
	}
}

// pointFields maps channel values to point fields, skipping faulted channels.
func (s *Influx) pointFields(rec stream.Record) map[string]interface{} {
	fields := make(map[string]interface{}, len(rec.Sample.Values))
	for i, v := range rec.Sample.Values {
		if rec.Sample.Faulted(i) {
			continue
		}
		fields[s.channelNames[i]] = float64(v)
	}
	return fields
}

// Close releases the underlying client.
func (s *Influx) Close() {
	s.client.Close()
}
