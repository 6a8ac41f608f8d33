package mqtt

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"strings"
	"sync"
	"testing"
	"time"

	pahomqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/nerrad567/gray-logic-scanner/internal/infrastructure/config"
)

// testConfig returns a configuration for a local Mosquitto broker.
func testConfig() config.MQTTConfig {
	return config.MQTTConfig{
		Enabled: true,
		Broker: config.MQTTBrokerConfig{
			Host:     "127.0.0.1",
			Port:     1883,
			ClientID: "cardscan-test",
		},
		QoS: 1,
		Reconnect: config.MQTTReconnectConfig{
			InitialDelay: 1,
			MaxDelay:     5,
		},
	}
}

// skipIfNoBroker skips the test if nothing is listening on the broker port.
func skipIfNoBroker(t *testing.T) {
	t.Helper()
	cfg := testConfig()
	conn, err := net.DialTimeout("tcp", fmt.Sprintf("%s:%d", cfg.Broker.Host, cfg.Broker.Port), 500*time.Millisecond)
	if err != nil {
		t.Skip("MQTT broker not available, skipping integration test")
	}
	conn.Close()
}

// =============================================================================
// Unit Tests (no broker)
// =============================================================================

func TestTopicBuilders(t *testing.T) {
	tests := []struct {
		name     string
		got      string
		expected string
	}{
		{"CardState", Topics{}.CardState("ABCD"), "cardscan/state/ABCD"},
		{"SystemStatus", Topics{}.SystemStatus(), "cardscan/system/status"},
	}

	for _, tt := range tests {
		if tt.got != tt.expected {
			t.Errorf("%s = %q, want %q", tt.name, tt.got, tt.expected)
		}
	}
}

func TestStatusPayloads(t *testing.T) {
	tests := []struct {
		name       string
		payload    string
		wantStatus string
		wantReason string
	}{
		{"online", buildOnlinePayload("cardscan-01"), "online", ""},
		{"offline", buildOfflinePayload("cardscan-01"), "offline", "graceful_shutdown"},
		{"lwt", buildStatusPayload("offline", "cardscan-01", "unexpected_disconnect"), "offline", "unexpected_disconnect"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var msg statusMessage
			if err := json.Unmarshal([]byte(tt.payload), &msg); err != nil {
				t.Fatalf("payload %q is not JSON: %v", tt.payload, err)
			}
			if msg.Status != tt.wantStatus || msg.Reason != tt.wantReason || msg.ClientID != "cardscan-01" {
				t.Errorf("payload = %+v", msg)
			}
			if _, err := time.Parse(time.RFC3339, msg.Timestamp); err != nil {
				t.Errorf("timestamp %q: %v", msg.Timestamp, err)
			}
		})
	}
}

func TestBuildClientOptions(t *testing.T) {
	cfg := testConfig()
	cfg.Broker.TLS = true
	cfg.Auth.Username = "scanner"
	cfg.Auth.Password = "secret"

	opts := buildClientOptions(cfg)
	configureLWT(opts, cfg.Broker.ClientID)

	if len(opts.Servers) != 1 || opts.Servers[0].String() != "ssl://127.0.0.1:1883" {
		t.Errorf("Servers = %v, want ssl://127.0.0.1:1883", opts.Servers)
	}
	if opts.ClientID != "cardscan-test" {
		t.Errorf("ClientID = %q", opts.ClientID)
	}
	if opts.Username != "scanner" || opts.Password != "secret" {
		t.Error("credentials not applied")
	}
	if opts.TLSConfig == nil {
		t.Error("TLSConfig not set")
	}
	if !opts.WillEnabled || opts.WillTopic != "cardscan/system/status" || !opts.WillRetained {
		t.Errorf("LWT = enabled:%v topic:%q retained:%v", opts.WillEnabled, opts.WillTopic, opts.WillRetained)
	}
	if !strings.Contains(string(opts.WillPayload), "unexpected_disconnect") {
		t.Errorf("WillPayload = %s", opts.WillPayload)
	}
}

func TestPublish_Validation(t *testing.T) {
	c := &Client{cfg: testConfig()}

	tests := []struct {
		name    string
		topic   string
		payload []byte
		qos     byte
		wantErr error
	}{
		{"empty topic", "", []byte("x"), 1, ErrInvalidTopic},
		{"invalid QoS", "cardscan/state/ABCD", []byte("x"), 3, ErrInvalidQoS},
		{"oversize payload", "cardscan/state/ABCD", make([]byte, maxPayloadSize+1), 1, ErrPublishFailed},
		{"disconnected", "cardscan/state/ABCD", []byte("x"), 1, ErrNotConnected},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := c.Publish(tt.topic, tt.payload, tt.qos, false)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Publish() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestPublishCardState_EmptyGame(t *testing.T) {
	c := &Client{cfg: testConfig()}

	if err := c.PublishCardState("", CardStateMessage{}); !errors.Is(err, ErrInvalidTopic) {
		t.Errorf("PublishCardState() error = %v, want ErrInvalidTopic", err)
	}
}

func TestHealthCheck_Disconnected(t *testing.T) {
	c := &Client{cfg: testConfig()}

	if err := c.HealthCheck(context.Background()); !errors.Is(err, ErrNotConnected) {
		t.Errorf("HealthCheck() error = %v, want ErrNotConnected", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := c.HealthCheck(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("HealthCheck() error = %v, want context.Canceled", err)
	}
}

func TestCloseNil(t *testing.T) {
	var c *Client
	if err := c.Close(); err != nil {
		t.Errorf("Close() on nil client error = %v", err)
	}
}

// =============================================================================
// Broker Tests
// =============================================================================

func TestConnect(t *testing.T) {
	skipIfNoBroker(t)

	client, err := Connect(testConfig())
	if err != nil {
		t.Fatalf("Connect() error = %v", err)
	}
	defer client.Close()

	if !client.IsConnected() {
		t.Error("IsConnected() = false, want true")
	}
	if err := client.HealthCheck(context.Background()); err != nil {
		t.Errorf("HealthCheck() error = %v", err)
	}
}

func TestClose(t *testing.T) {
	skipIfNoBroker(t)

	client, err := Connect(testConfig())
	if err != nil {
		t.Fatalf("Connect() error = %v", err)
	}

	if err := client.Close(); err != nil {
		t.Errorf("Close() error = %v", err)
	}
	if client.IsConnected() {
		t.Error("IsConnected() = true after Close()")
	}
}

func TestPublishCardState_Retained(t *testing.T) {
	skipIfNoBroker(t)

	cfg := testConfig()
	client, err := Connect(cfg)
	if err != nil {
		t.Fatalf("Connect() error = %v", err)
	}
	defer client.Close()

	gameID := fmt.Sprintf("test-%d", time.Now().UnixNano())
	want := CardStateMessage{
		Suit:       "SPADES",
		Rank:       "KING",
		Identifier: "48816F22E1790",
		Outcome:    "accepted",
		Timestamp:  time.Now().UTC().Truncate(time.Second),
	}
	if err := client.PublishCardState(gameID, want); err != nil {
		t.Fatalf("PublishCardState() error = %v", err)
	}

	// A late subscriber must receive the retained state
	subOpts := buildClientOptions(cfg)
	subOpts.SetClientID("cardscan-test-sub")
	sub := pahomqtt.NewClient(subOpts)
	if token := sub.Connect(); !token.WaitTimeout(5*time.Second) || token.Error() != nil {
		t.Fatalf("subscriber connect failed: %v", token.Error())
	}
	defer sub.Disconnect(100)

	var (
		mu  sync.Mutex
		got *CardStateMessage
	)
	received := make(chan struct{}, 1)
	sub.Subscribe(Topics{}.CardState(gameID), 1, func(_ pahomqtt.Client, msg pahomqtt.Message) {
		var m CardStateMessage
		if json.Unmarshal(msg.Payload(), &m) == nil {
			mu.Lock()
			got = &m
			mu.Unlock()
			select {
			case received <- struct{}{}:
			default:
			}
		}
	})

	select {
	case <-received:
	case <-time.After(3 * time.Second):
		t.Fatal("retained card state not received")
	}

	mu.Lock()
	defer mu.Unlock()
	if got.Suit != want.Suit || got.Rank != want.Rank || !got.Timestamp.Equal(want.Timestamp) {
		t.Errorf("received %+v, want %+v", *got, want)
	}

	// Clear the retained message
	_ = client.Publish(Topics{}.CardState(gameID), nil, 1, true)
}
