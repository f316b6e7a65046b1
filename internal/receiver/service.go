// Package receiver pumps NMEA lines from a feed into the AIS decoder.
//
// It is intentionally small and geared toward a single receiver feed:
// - Read lines from a serial device, TCP feed, file or stdin
// - Classify tokenizer/reassembly/decode failures without stopping
// - Hand completed messages to a sink and keep a status snapshot
package receiver

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net"
	"os"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"aisrx/internal/ais"
	"aisrx/internal/metrics"
	"aisrx/internal/nmea"
)

type Config struct {
	// Source selects the feed: "stdin", "serial", "tcp" or "file".
	Source string

	// Device is the serial device path for Source=="serial".
	Device string
	Baud   int

	// Addr is host:port for Source=="tcp".
	Addr string

	// Path is the input file for Source=="file".
	Path string
}

// FieldView is a display-ready field of a decoded message.
type FieldView struct {
	Name  string `json:"name"`
	Label string `json:"label"`
	Value any    `json:"value"`
	Raw   any    `json:"raw,omitempty"`
}

// Message is one complete, decoded AIS message.
type Message struct {
	ReceivedUTC string      `json:"received_utc"`
	Channel     string      `json:"channel"`
	MsgType     uint64      `json:"msg_type"`
	Fields      []FieldView `json:"fields"`
}

// Sink receives each completed message. Called from the read loop;
// implementations should return quickly.
type Sink func(Message)

type Snapshot struct {
	Source string `json:"source"`
	Device string `json:"device,omitempty"`
	Baud   int    `json:"baud,omitempty"`
	Addr   string `json:"addr,omitempty"`
	Path   string `json:"path,omitempty"`

	Sentences    uint64 `json:"sentences"`
	Malformed    uint64 `json:"malformed"`
	OutOfOrder   uint64 `json:"out_of_order"`
	DecodeErrors uint64 `json:"decode_errors"`
	Decoded      uint64 `json:"decoded"`
	Evicted      uint64 `json:"evicted"`
	InFlight     int    `json:"in_flight"`

	LastMessageUTC string `json:"last_message_utc,omitempty"`
	LastError      string `json:"last_error,omitempty"`
}

type Service struct {
	cfg  Config
	dec  *ais.Decoder
	met  *metrics.Metrics
	sink Sink

	cancel context.CancelFunc
	wg     sync.WaitGroup

	last atomic.Value // Snapshot

	evicted atomic.Uint64

	mu     sync.Mutex
	counts Snapshot
	closer io.Closer
}

// New builds a service around its own decoder. seqLimit bounds in-flight
// reassemblies (0 = unbounded); evictions are logged and counted.
func New(cfg Config, seqLimit int, met *metrics.Metrics, sink Sink) *Service {
	s := &Service{cfg: cfg, met: met, sink: sink}
	s.dec = ais.NewDecoder(ais.Options{
		SeqLimit: seqLimit,
		Notify: func(msg string) {
			log.Printf("ais: %s", msg)
			s.evicted.Add(1)
			if met != nil {
				met.EvictedTotal.Inc()
			}
		},
	})
	s.last.Store(Snapshot{Source: cfg.Source, Device: cfg.Device, Baud: cfg.Baud, Addr: cfg.Addr, Path: cfg.Path})
	return s
}

func (s *Service) Snapshot() Snapshot {
	snap, _ := s.last.Load().(Snapshot)
	return snap
}

// Start opens the configured source and begins the read loop. The loop
// stops when the context is canceled or the feed ends.
func (s *Service) Start(ctx context.Context) error {
	if ctx == nil {
		return fmt.Errorf("ctx is nil")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel != nil {
		return nil
	}

	r, closer, err := s.open(ctx)
	if err != nil {
		s.setErrorLocked(err.Error())
		return err
	}
	s.closer = closer

	childCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		defer func() {
			if closer != nil {
				_ = closer.Close()
			}
		}()
		s.run(childCtx, r)
	}()
	return nil
}

func (s *Service) Stop() {
	s.mu.Lock()
	cancel := s.cancel
	closer := s.closer
	s.cancel = nil
	s.closer = nil
	s.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	// Unblock a pending read.
	if closer != nil {
		_ = closer.Close()
	}
	s.wg.Wait()
}

func (s *Service) open(ctx context.Context) (io.Reader, io.Closer, error) {
	switch s.cfg.Source {
	case "", "stdin":
		return os.Stdin, nil, nil
	case "file":
		f, err := os.Open(s.cfg.Path)
		if err != nil {
			return nil, nil, fmt.Errorf("open input file: %w", err)
		}
		return f, f, nil
	case "tcp":
		d := &net.Dialer{Timeout: 5 * time.Second}
		conn, err := d.DialContext(ctx, "tcp", s.cfg.Addr)
		if err != nil {
			return nil, nil, fmt.Errorf("dial feed: %w", err)
		}
		return conn, conn, nil
	case "serial":
		device := strings.TrimSpace(s.cfg.Device)
		if device == "" {
			return nil, nil, fmt.Errorf("input.device is required for serial input")
		}
		baud := s.cfg.Baud
		if baud == 0 {
			baud = 38400
		}
		f, err := openSerial(device, baud)
		if err != nil {
			return nil, nil, fmt.Errorf("open serial device=%s baud=%d: %w", device, baud, err)
		}
		return f, f, nil
	default:
		return nil, nil, fmt.Errorf("unknown input source %q", s.cfg.Source)
	}
}

func (s *Service) run(ctx context.Context, r io.Reader) {
	log.Printf("receiver started source=%s", s.Snapshot().Source)

	scanner := bufio.NewScanner(r)
	// NMEA sentences are typically < 82 chars, but allow some headroom.
	scanner.Buffer(make([]byte, 0, 256), 4096)

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		if !scanner.Scan() {
			err := scanner.Err()
			if err == nil {
				err = io.EOF
			}
			if ctx.Err() == nil {
				s.setError(fmt.Sprintf("receiver read stopped: %v", err))
			}
			return
		}

		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		s.feed(line)
	}
}

// feed runs one line through the decoder, classifying errors so a bad
// sentence never stops the loop.
func (s *Service) feed(line string) {
	if s.met != nil {
		s.met.SentencesTotal.Inc()
	}

	ps, err := s.dec.ParseSentence(line)

	s.mu.Lock()
	s.counts.Sentences++
	switch {
	case err == nil:
	case isMalformed(err):
		s.counts.Malformed++
		s.counts.LastError = err.Error()
	case isIncomplete(err):
		s.counts.OutOfOrder++
		s.counts.LastError = err.Error()
	default:
		s.counts.DecodeErrors++
		s.counts.LastError = err.Error()
	}
	if err == nil && ps.Complete {
		s.counts.Decoded++
		s.counts.LastMessageUTC = time.Now().UTC().Format(time.RFC3339Nano)
	}
	s.publishLocked()
	s.mu.Unlock()

	if err != nil {
		if s.met != nil {
			switch {
			case isMalformed(err):
				s.met.MalformedTotal.Inc()
			case isIncomplete(err):
				s.met.IncompleteTotal.Inc()
			default:
				s.met.DecodeErrTotal.Inc()
			}
		}
		log.Printf("receiver: %v", err)
		return
	}
	if !ps.Complete {
		return
	}

	msg := buildMessage(time.Now().UTC(), ps)
	if s.met != nil {
		s.met.DecodedTotal.WithLabelValues(strconv.FormatUint(msg.MsgType, 10)).Inc()
	}
	if s.sink != nil {
		s.sink(msg)
	}
}

func buildMessage(nowUTC time.Time, ps ais.ParsedSentence) Message {
	msg := Message{
		ReceivedUTC: nowUTC.Format(time.RFC3339Nano),
		Fields:      make([]FieldView, 0, len(ps.Fields)),
	}
	if ps.VDM != nil {
		msg.Channel = ps.VDM.Channel
	}
	for _, f := range ps.Fields {
		if f.Name == "msg_type" {
			if v, ok := f.Value.(uint64); ok {
				msg.MsgType = v
			}
		}
		msg.Fields = append(msg.Fields, FieldView{
			Name:  f.Name,
			Label: f.Label,
			Value: f.Value,
			Raw:   f.Raw,
		})
	}
	return msg
}

func isMalformed(err error) bool {
	return errors.Is(err, nmea.ErrMalformed)
}

func isIncomplete(err error) bool {
	var inc *ais.IncompleteMessageError
	return errors.As(err, &inc)
}

// publishLocked refreshes the atomic snapshot from the counters.
func (s *Service) publishLocked() {
	snap := s.counts
	snap.Source = s.cfg.Source
	snap.Device = s.cfg.Device
	snap.Baud = s.cfg.Baud
	snap.Addr = s.cfg.Addr
	snap.Path = s.cfg.Path
	snap.Evicted = s.evicted.Load()
	snap.InFlight = s.dec.Pending()
	if s.met != nil {
		s.met.InFlight.Set(float64(snap.InFlight))
	}
	s.last.Store(snap)
}

func (s *Service) setError(msg string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.setErrorLocked(msg)
}

func (s *Service) setErrorLocked(msg string) {
	log.Printf("%s", msg)
	s.counts.LastError = msg
	s.publishLocked()
}
