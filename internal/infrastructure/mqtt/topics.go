package mqtt

import "fmt"

// TopicPrefix is the root of every topic the scanner publishes.
const TopicPrefix = "cardscan"

// Topics provides builders for the scanner's MQTT topics.
//
//	topic := mqtt.Topics{}.CardState("ABCD")
//	// Returns: "cardscan/state/ABCD"
type Topics struct{}

// CardState returns the retained topic holding the last card sent for a game.
//
// Example: cardscan/state/ABCD
func (Topics) CardState(gameID string) string {
	return fmt.Sprintf("%s/state/%s", TopicPrefix, gameID)
}

// SystemStatus returns the scanner's online/offline status topic.
//
// Example: cardscan/system/status
func (Topics) SystemStatus() string {
	return fmt.Sprintf("%s/system/status", TopicPrefix)
}
