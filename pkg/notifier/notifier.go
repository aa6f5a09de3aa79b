// Package notifier is the client SDK for reporting exceptions to a
// faultline server. It captures backtraces, applies user filters, and
// delivers notices asynchronously with retry.
package notifier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v5"
)

const (
	notifierName    = "faultline-go"
	notifierVersion = "1.0.0"

	defaultHost      = "http://localhost:8080"
	defaultWorkers   = 2
	defaultQueueSize = 100
	defaultMaxTries  = 5
	sendTimeout      = 10 * time.Second
)

// Filter inspects and optionally mutates a notice before it is sent.
// Returning nil drops the notice.
type Filter func(*Notice) *Notice

// Options configures a Notifier. ProjectID and ProjectKey are required.
type Options struct {
	ProjectID  int64
	ProjectKey string

	// Host is the base URL of the ingestion server.
	Host string

	// DefaultContext is merged into every notice's context map.
	DefaultContext map[string]any

	HTTPClient *http.Client

	// Workers is the number of goroutines draining the async queue.
	Workers int
	// QueueSize bounds the async queue; notices are dropped when full.
	QueueSize int
	// MaxTries caps delivery attempts per notice.
	MaxTries int
}

// SendResult is the server's answer to an accepted notice.
type SendResult struct {
	ID  string `json:"id"`
	URL string `json:"url"`
}

// Notifier reports errors to a faultline server.
type Notifier struct {
	opt    Options
	client *http.Client

	mu      sync.RWMutex
	filters []Filter
	closed  bool

	queue chan *Notice
	wg    sync.WaitGroup
}

// NewNotifier creates a Notifier and starts its delivery workers.
func NewNotifier(opt Options) *Notifier {
	if opt.Host == "" {
		opt.Host = defaultHost
	}
	if opt.Workers <= 0 {
		opt.Workers = defaultWorkers
	}
	if opt.QueueSize <= 0 {
		opt.QueueSize = defaultQueueSize
	}
	if opt.MaxTries <= 0 {
		opt.MaxTries = defaultMaxTries
	}
	client := opt.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: sendTimeout}
	}

	n := &Notifier{
		opt:    opt,
		client: client,
		queue:  make(chan *Notice, opt.QueueSize),
	}
	for i := 0; i < opt.Workers; i++ {
		n.wg.Add(1)
		go n.worker()
	}
	return n
}

// AddFilter registers a filter applied to every notice before delivery.
func (n *Notifier) AddFilter(fn Filter) {
	n.mu.Lock()
	n.filters = append(n.filters, fn)
	n.mu.Unlock()
}

// Notify reports err asynchronously. err may be an error, a string, or
// any other value. The notice is dropped if the queue is full.
func (n *Notifier) Notify(err any) {
	notice := n.NewNotice(err, 1)
	n.SendNoticeAsync(notice)
}

// SendNoticeAsync queues a notice for delivery by the worker pool.
// Notices sent after Close, or while the queue is full, are dropped.
func (n *Notifier) SendNoticeAsync(notice *Notice) {
	if notice = n.applyFilters(notice); notice == nil {
		return
	}

	n.mu.RLock()
	defer n.mu.RUnlock()
	if n.closed {
		log.Printf("notifier: closed, dropping %s", notice)
		return
	}
	select {
	case n.queue <- notice:
	default:
		log.Printf("notifier: queue full, dropping %s", notice)
	}
}

// NotifySync reports err and blocks until the server accepts it.
func (n *Notifier) NotifySync(ctx context.Context, err any) (*SendResult, error) {
	notice := n.NewNotice(err, 1)
	if notice = n.applyFilters(notice); notice == nil {
		return nil, nil
	}
	return n.SendNotice(ctx, notice)
}

// NotifyOnPanic reports a recovered panic with critical severity and then
// re-panics. Use in a deferred call.
func (n *Notifier) NotifyOnPanic() {
	if v := recover(); v != nil {
		notice := n.NewNotice(v, 1)
		notice.SetSeverity("critical")
		if notice = n.applyFilters(notice); notice != nil {
			ctx, cancel := context.WithTimeout(context.Background(), sendTimeout)
			defer cancel()
			if _, err := n.SendNotice(ctx, notice); err != nil {
				log.Printf("notifier: panic report failed: %v", err)
			}
		}
		panic(v)
	}
}

// SendNotice delivers a notice synchronously, retrying transient failures
// with exponential backoff. A 429 response is retried after the server's
// Retry-After delay; other 4xx responses are not retried.
func (n *Notifier) SendNotice(ctx context.Context, notice *Notice) (*SendResult, error) {
	payload, err := json.Marshal(notice)
	if err != nil {
		return nil, fmt.Errorf("marshal notice: %w", err)
	}

	url := fmt.Sprintf("%s/api/v3/projects/%d/notices", n.opt.Host, n.opt.ProjectID)

	operation := func() (*SendResult, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
		if err != nil {
			return nil, backoff.Permanent(err)
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Authorization", "Bearer "+n.opt.ProjectKey)

		resp, err := n.client.Do(req)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()

		switch {
		case resp.StatusCode == http.StatusCreated || resp.StatusCode == http.StatusOK:
			var res SendResult
			if err := json.NewDecoder(resp.Body).Decode(&res); err != nil {
				return nil, backoff.Permanent(fmt.Errorf("decode response: %w", err))
			}
			return &res, nil
		case resp.StatusCode == http.StatusTooManyRequests:
			return nil, &backoff.RetryAfterError{Duration: retryAfter(resp)}
		case resp.StatusCode >= 400 && resp.StatusCode < 500:
			body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
			return nil, backoff.Permanent(fmt.Errorf("server rejected notice: %s: %s", resp.Status, body))
		default:
			return nil, fmt.Errorf("server error: %s", resp.Status)
		}
	}

	return backoff.Retry(ctx, operation,
		backoff.WithBackOff(backoff.NewExponentialBackOff()),
		backoff.WithMaxTries(uint(n.opt.MaxTries)),
	)
}

// Close stops accepting notices and waits for the workers to drain the
// queue. It is safe to call more than once.
func (n *Notifier) Close() error {
	n.mu.Lock()
	if !n.closed {
		n.closed = true
		close(n.queue)
	}
	n.mu.Unlock()

	n.wg.Wait()
	return nil
}

func (n *Notifier) worker() {
	defer n.wg.Done()
	for notice := range n.queue {
		ctx, cancel := context.WithTimeout(context.Background(), sendTimeout)
		if _, err := n.SendNotice(ctx, notice); err != nil {
			log.Printf("notifier: send failed: %v", err)
		}
		cancel()
	}
}

func (n *Notifier) applyFilters(notice *Notice) *Notice {
	n.mu.RLock()
	filters := n.filters
	n.mu.RUnlock()

	for _, fn := range filters {
		if notice = fn(notice); notice == nil {
			return nil
		}
	}
	return notice
}

func retryAfter(resp *http.Response) time.Duration {
	if v := resp.Header.Get("Retry-After"); v != "" {
		if secs, err := strconv.Atoi(v); err == nil && secs > 0 {
			return time.Duration(secs) * time.Second
		}
	}
	return time.Second
}
