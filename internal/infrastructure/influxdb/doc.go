// Package influxdb records scan telemetry in InfluxDB.
//
// It wraps the official influxdb-client-go v2 library. Each notification
// attempt becomes one point in the card_scans measurement:
//
//	card_scans,game_id=ABCD,outcome=accepted,rank=FIVE,suit=HEARTS status_code=200i,latency_ms=12i
//
// # Usage
//
//	client, err := influxdb.Connect(ctx, cfg.InfluxDB)
//	if err != nil {
//	    return err
//	}
//	defer client.Close()
//
//	client.SetOnError(func(err error) { log.Warn("influx write failed", "error", err) })
//	client.WriteScan(influxdb.ScanPoint{GameID: "ABCD", Suit: "HEARTS", Rank: "FIVE", Outcome: "accepted"})
//
// # Error Handling
//
// Writes are non-blocking and batched (batch_size, flush_interval). Batch
// failures arrive on the SetOnError callback wrapped in ErrWriteFailed.
// Connection and health check errors are returned directly.
package influxdb
