// Package mqtt mirrors scanned cards to an MQTT broker.
//
// This is optional plumbing next to the HTTP notification: dashboards, stream
// overlays or a dealer display can subscribe to the broker instead of polling
// the game service.
//
// # Topics
//
//	cardscan/state/{game_id}   retained, last card sent for the game
//	cardscan/system/status     retained, online/offline with LWT
//
// # Usage
//
//	client, err := mqtt.Connect(cfg.MQTT)
//	if err != nil {
//	    return err
//	}
//	defer client.Close()
//
//	err = client.PublishCardState("ABCD", mqtt.CardStateMessage{
//	    Suit: "HEARTS", Rank: "FIVE", Outcome: "accepted", Timestamp: time.Now(),
//	})
//
// Use TLS (mqtt.broker.tls) and credentials from CARDSCAN_MQTT_* environment
// variables on shared networks.
package mqtt
