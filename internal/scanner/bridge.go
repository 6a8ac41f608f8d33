package scanner

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/nerrad567/gray-logic-scanner/internal/cards"
	"github.com/nerrad567/gray-logic-scanner/internal/notifier"
)

// Bridge operation constants.
const (
	// defaultRetryDelay is the pause after a timed out or failed read.
	defaultRetryDelay = 100 * time.Millisecond

	// sinkTimeout bounds each optional sink call after a notification.
	sinkTimeout = 2 * time.Second
)

// Notifier delivers an accepted card state. Satisfied by *notifier.Client.
type Notifier interface {
	Notify(ctx context.Context, state cards.CardState) (notifier.Result, error)
}

// Recorder persists notification attempts. Optional; satisfied by the scan
// journal via an adapter in main.go.
type Recorder interface {
	RecordScan(ctx context.Context, scan Scan) error
}

// StatePublisher mirrors accepted cards to other consumers. Optional;
// satisfied by the MQTT client via an adapter in main.go.
type StatePublisher interface {
	PublishScan(scan Scan) error
}

// MetricsWriter receives one point per notification attempt. Optional;
// satisfied by the InfluxDB client via an adapter in main.go.
// Writes are non-blocking and failures are reported asynchronously.
type MetricsWriter interface {
	WriteScan(scan Scan)
}

// Logger interface for optional logging.
type Logger interface {
	Debug(msg string, keysAndValues ...any)
	Info(msg string, keysAndValues ...any)
	Warn(msg string, keysAndValues ...any)
	Error(msg string, keysAndValues ...any)
}

// Scan describes one notification attempt for an accepted card change.
type Scan struct {
	GameID     string
	Identifier string
	Code       string
	State      cards.CardState
	Result     notifier.Result
	Err        error
	Time       time.Time
}

// Options holds configuration for creating a bridge.
type Options struct {
	// Port is the open serial device. The bridge closes it on Stop.
	Port Port

	// Table maps tag identifiers to card codes.
	Table *cards.Table

	// Notifier sends accepted card changes to the game service.
	Notifier Notifier

	// GameID labels scans for the optional sinks.
	GameID string

	// RetryDelay is the pause after a timed out or failed read.
	// Default: 100ms.
	RetryDelay time.Duration

	// Logger is optional structured logger.
	Logger Logger

	// Recorder, Publisher and Metrics are optional sinks. Each is called
	// once per notification attempt, after the notification completes.
	Recorder  Recorder
	Publisher StatePublisher
	Metrics   MetricsWriter
}

// Stats counts what the read loop has seen since Start.
type Stats struct {
	FramesRead      uint64 `json:"frames_read"`
	FramesDropped   uint64 `json:"frames_dropped"`
	UnknownTags     uint64 `json:"unknown_tags"`
	ReadErrors      uint64 `json:"read_errors"`
	Notifications   uint64 `json:"notifications"`
	NotifyFailures  uint64 `json:"notify_failures"`
	DuplicateFrames uint64 `json:"duplicate_frames"`
}

// Status is a point-in-time view of the bridge for the status API.
type Status struct {
	Running        bool             `json:"running"`
	GameID         string           `json:"game_id"`
	LastCard       cards.CardState  `json:"last_card"`
	LastIdentifier string           `json:"last_identifier,omitempty"`
	LastOutcome    notifier.Outcome `json:"last_outcome,omitempty"`
	LastScanAt     *time.Time       `json:"last_scan_at,omitempty"`
	StartedAt      *time.Time       `json:"started_at,omitempty"`
	Stats          Stats            `json:"stats"`
}

// Bridge runs the read, decode, debounce and notify loop.
//
// A single goroutine owns the port, the debouncer and the notifier calls,
// so at most one notification is in flight and frames arriving during a
// send wait in the device buffer. Status may be called concurrently.
type Bridge struct {
	port       Port
	reader     *Reader
	table      *cards.Table
	notifier   Notifier
	debouncer  *Debouncer
	gameID     string
	retryDelay time.Duration

	recorder  Recorder
	publisher StatePublisher
	metrics   MetricsWriter

	// Counters
	framesRead      atomic.Uint64
	framesDropped   atomic.Uint64
	unknownTags     atomic.Uint64
	readErrors      atomic.Uint64
	notifications   atomic.Uint64
	notifyFailures  atomic.Uint64
	duplicateFrames atomic.Uint64

	// Snapshot of the last accepted scan, written only by the loop.
	// lastMu also guards startedAt.
	last      Scan
	startedAt time.Time
	lastMu    sync.RWMutex

	// Lifecycle
	started atomic.Bool
	running atomic.Bool
	done    chan struct{}
	cancel  context.CancelFunc
	wg      sync.WaitGroup
	stopOnce  sync.Once

	logger Logger
}

// NewBridge creates a new bridge instance.
// Call Start to begin reading.
func NewBridge(opts Options) (*Bridge, error) {
	if opts.Port == nil {
		return nil, fmt.Errorf("port is required")
	}
	if opts.Table == nil {
		return nil, fmt.Errorf("card table is required")
	}
	if opts.Notifier == nil {
		return nil, fmt.Errorf("notifier is required")
	}

	retryDelay := opts.RetryDelay
	if retryDelay <= 0 {
		retryDelay = defaultRetryDelay
	}

	return &Bridge{
		port:       opts.Port,
		reader:     NewReader(opts.Port),
		table:      opts.Table,
		notifier:   opts.Notifier,
		debouncer:  NewDebouncer(),
		gameID:     opts.GameID,
		retryDelay: retryDelay,
		recorder:   opts.Recorder,  // May be nil (optional)
		publisher:  opts.Publisher, // May be nil (optional)
		metrics:    opts.Metrics,   // May be nil (optional)
		last:       Scan{State: cards.Unknown},
		done:       make(chan struct{}),
		logger:     opts.Logger,
	}, nil
}

// Start launches the read loop in a background goroutine.
// The loop runs until ctx is cancelled or Stop is called.
func (b *Bridge) Start(ctx context.Context) error {
	if !b.started.CompareAndSwap(false, true) {
		return fmt.Errorf("bridge already started")
	}

	loopCtx, cancel := context.WithCancel(ctx)
	b.cancel = cancel

	b.lastMu.Lock()
	b.startedAt = time.Now()
	b.lastMu.Unlock()
	b.running.Store(true)

	b.wg.Add(1)
	go b.run(loopCtx)

	b.logInfo("scanner started", "game_id", b.gameID, "cards", b.table.Len())
	return nil
}

// Stop ends the read loop, waits for it to exit and closes the port.
// An in-flight notification is cancelled, not drained.
func (b *Bridge) Stop() {
	b.stopOnce.Do(func() {
		close(b.done)
		if b.cancel != nil {
			b.cancel()
		}

		b.wg.Wait()

		if err := b.port.Close(); err != nil {
			b.logError("failed to close serial port", err)
		}

		b.logInfo("scanner stopped")
	})
}

// Status returns a snapshot for the status API.
func (b *Bridge) Status() Status {
	b.lastMu.RLock()
	last := b.last
	startedAt := b.startedAt
	b.lastMu.RUnlock()

	status := Status{
		Running:        b.running.Load(),
		GameID:         b.gameID,
		LastCard:       last.State,
		LastIdentifier: last.Identifier,
		LastOutcome:    last.Result.Outcome,
		Stats:          b.Stats(),
	}
	if !last.Time.IsZero() {
		t := last.Time
		status.LastScanAt = &t
	}
	if !startedAt.IsZero() {
		status.StartedAt = &startedAt
	}
	return status
}

// Stats returns the current counters.
func (b *Bridge) Stats() Stats {
	return Stats{
		FramesRead:      b.framesRead.Load(),
		FramesDropped:   b.framesDropped.Load(),
		UnknownTags:     b.unknownTags.Load(),
		ReadErrors:      b.readErrors.Load(),
		Notifications:   b.notifications.Load(),
		NotifyFailures:  b.notifyFailures.Load(),
		DuplicateFrames: b.duplicateFrames.Load(),
	}
}

// run is the bridge goroutine.
func (b *Bridge) run(ctx context.Context) {
	defer b.wg.Done()
	defer b.running.Store(false)

	for {
		select {
		case <-ctx.Done():
			return
		case <-b.done:
			return
		default:
		}

		b.poll(ctx)
	}
}

// poll performs one read and handles its result.
func (b *Bridge) poll(ctx context.Context) {
	frame, err := b.reader.Poll()
	switch {
	case err == nil:
		b.handleFrame(ctx, frame)
	case errors.Is(err, ErrTimeout):
		b.sleep(ctx)
	case errors.Is(err, ErrBadFrameLength):
		b.framesDropped.Add(1)
		b.logDebug("dropping read", "error", err)
	default:
		b.readErrors.Add(1)
		b.logError("Serial read error", err)
		b.sleep(ctx)
	}
}

// handleFrame decodes a frame and notifies if the card changed.
func (b *Bridge) handleFrame(ctx context.Context, frame Frame) {
	b.framesRead.Add(1)

	decoded, err := b.table.Decode(frame)
	if err != nil {
		b.unknownTags.Add(1)
		b.logDebug("frame not decoded", "identifier", decoded.Identifier, "error", err)
		return
	}

	if !b.debouncer.Accept(decoded.State) {
		b.duplicateFrames.Add(1)
		return
	}

	b.logInfo("Sending",
		"suit", decoded.State.Suit,
		"rank", decoded.State.Rank,
		"code", decoded.Code)

	result, err := b.notifier.Notify(ctx, decoded.State)

	scan := Scan{
		GameID:     b.gameID,
		Identifier: decoded.Identifier,
		Code:       decoded.Code,
		State:      decoded.State,
		Result:     result,
		Err:        err,
		Time:       time.Now().UTC(),
	}

	b.notifications.Add(1)
	if err != nil || result.Outcome != notifier.OutcomeAccepted {
		b.notifyFailures.Add(1)
	}

	b.lastMu.Lock()
	b.last = scan
	b.lastMu.Unlock()

	b.dispatch(ctx, scan)
}

// dispatch hands a completed scan to the optional sinks. Sink failures are
// logged and never affect the loop.
func (b *Bridge) dispatch(ctx context.Context, scan Scan) {
	if b.recorder != nil {
		sinkCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), sinkTimeout)
		if err := b.recorder.RecordScan(sinkCtx, scan); err != nil {
			b.logError("failed to record scan", err)
		}
		cancel()
	}

	if b.publisher != nil {
		if err := b.publisher.PublishScan(scan); err != nil {
			b.logError("failed to publish card state", err)
		}
	}

	if b.metrics != nil {
		b.metrics.WriteScan(scan)
	}
}

// sleep waits for the retry delay or until ctx is cancelled.
func (b *Bridge) sleep(ctx context.Context) {
	timer := time.NewTimer(b.retryDelay)
	defer timer.Stop()

	select {
	case <-timer.C:
	case <-ctx.Done():
	}
}

// logInfo logs an info message if logger is set.
func (b *Bridge) logInfo(msg string, keysAndValues ...any) {
	if b.logger != nil {
		b.logger.Info(msg, keysAndValues...)
	}
}

// logError logs an error message if logger is set.
func (b *Bridge) logError(msg string, err error) {
	if b.logger != nil {
		b.logger.Error(msg, "error", err)
	}
}

// logDebug logs a debug message if logger is set.
func (b *Bridge) logDebug(msg string, keysAndValues ...any) {
	if b.logger != nil {
		b.logger.Debug(msg, keysAndValues...)
	}
}
