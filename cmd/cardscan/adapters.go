package main

import (
	"context"

	"github.com/nerrad567/gray-logic-scanner/internal/infrastructure/influxdb"
	"github.com/nerrad567/gray-logic-scanner/internal/infrastructure/mqtt"
	"github.com/nerrad567/gray-logic-scanner/internal/journal"
	"github.com/nerrad567/gray-logic-scanner/internal/scanner"
)

// journalRecorder adapts the scan journal to scanner.Recorder.
type journalRecorder struct {
	repo journal.Repository
}

// RecordScan implements scanner.Recorder.
func (r *journalRecorder) RecordScan(ctx context.Context, scan scanner.Scan) error {
	entry := &journal.Entry{
		GameID:     scan.GameID,
		Identifier: scan.Identifier,
		Code:       scan.Code,
		Suit:       string(scan.State.Suit),
		Rank:       string(scan.State.Rank),
		Outcome:    string(scan.Result.Outcome),
		StatusCode: scan.Result.StatusCode,
		LatencyMs:  scan.Result.Latency.Milliseconds(),
		CreatedAt:  scan.Time.UTC(),
	}
	if scan.Err != nil {
		entry.Error = scan.Err.Error()
	}
	return r.repo.Record(ctx, entry)
}

// mqttPublisher adapts the MQTT client to scanner.StatePublisher.
type mqttPublisher struct {
	client *mqtt.Client
}

// PublishScan implements scanner.StatePublisher.
func (p *mqttPublisher) PublishScan(scan scanner.Scan) error {
	return p.client.PublishCardState(scan.GameID, mqtt.CardStateMessage{
		Suit:       string(scan.State.Suit),
		Rank:       string(scan.State.Rank),
		Identifier: scan.Identifier,
		Outcome:    string(scan.Result.Outcome),
		Timestamp:  scan.Time.UTC(),
	})
}

// influxMetrics adapts the InfluxDB client to scanner.MetricsWriter.
type influxMetrics struct {
	client *influxdb.Client
}

// WriteScan implements scanner.MetricsWriter.
func (m *influxMetrics) WriteScan(scan scanner.Scan) {
	m.client.WriteScan(influxdb.ScanPoint{
		GameID:     scan.GameID,
		Suit:       string(scan.State.Suit),
		Rank:       string(scan.State.Rank),
		Outcome:    string(scan.Result.Outcome),
		StatusCode: scan.Result.StatusCode,
		Latency:    scan.Result.Latency,
		Time:       scan.Time,
	})
}
