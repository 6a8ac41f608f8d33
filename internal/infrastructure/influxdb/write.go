package influxdb

import (
	"time"

	"github.com/influxdata/influxdb-client-go/v2/api/write"
)

// scanMeasurement is the measurement holding one point per notification attempt.
const scanMeasurement = "card_scans"

// ScanPoint is one notification attempt as recorded in InfluxDB.
//
// Tags are low cardinality (game, suit, rank, outcome); the HTTP status and
// round-trip latency are fields.
type ScanPoint struct {
	GameID     string
	Suit       string
	Rank       string
	Outcome    string
	StatusCode int
	Latency    time.Duration
	Time       time.Time
}

// WriteScan queues a scan point. The write is non-blocking; points are batched
// and failures are delivered to the SetOnError callback.
//
// Example:
//
//	client.WriteScan(influxdb.ScanPoint{
//	    GameID: "ABCD", Suit: "HEARTS", Rank: "FIVE",
//	    Outcome: "accepted", StatusCode: 200, Latency: 12 * time.Millisecond,
//	})
func (c *Client) WriteScan(p ScanPoint) {
	if !c.IsConnected() {
		return
	}

	ts := p.Time
	if ts.IsZero() {
		ts = time.Now()
	}

	c.writeAPI.WritePoint(newScanPoint(p, ts))
}

func newScanPoint(p ScanPoint, ts time.Time) *write.Point {
	return write.NewPoint(
		scanMeasurement,
		map[string]string{
			"game_id": p.GameID,
			"suit":    p.Suit,
			"rank":    p.Rank,
			"outcome": p.Outcome,
		},
		map[string]interface{}{
			"status_code": p.StatusCode,
			"latency_ms":  p.Latency.Milliseconds(),
		},
		ts,
	)
}
