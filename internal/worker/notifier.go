package worker

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/Kvuthe/ITO/internal/config"
	"github.com/Kvuthe/ITO/internal/models"
	"github.com/Kvuthe/ITO/internal/repository"
)

const (
	dequeueTimeout = 5 * time.Second
	deliverTimeout = 10 * time.Second
)

// NotifierPool drains the record-event queue and delivers each event to the
// announcement bot. The bot runs on free hosting that sleeps when idle, so
// delivery first polls its health endpoint until it wakes up.
type NotifierPool struct {
	redisRepo *repository.RedisRepository
	cfg       config.NotifierConfig
	client    *http.Client

	wg       sync.WaitGroup
	stopCh   chan struct{}
	stopOnce sync.Once

	delivered atomic.Int64
	failed    atomic.Int64
}

// NewNotifierPool creates a new record-notification worker pool
func NewNotifierPool(redisRepo *repository.RedisRepository, cfg config.NotifierConfig) *NotifierPool {
	return &NotifierPool{
		redisRepo: redisRepo,
		cfg:       cfg,
		client:    &http.Client{Timeout: deliverTimeout},
		stopCh:    make(chan struct{}),
	}
}

// Start launches the worker goroutines.
func (p *NotifierPool) Start() {
	for i := 0; i < p.cfg.Workers; i++ {
		p.wg.Add(1)
		go p.worker(i)
	}
	log.Printf("🚀 Started %d record-notification workers", p.cfg.Workers)
}

// Shutdown stops the workers and waits for in-flight deliveries to finish.
func (p *NotifierPool) Shutdown() {
	p.stopOnce.Do(func() {
		close(p.stopCh)
	})
	p.wg.Wait()
	log.Printf("✅ Record-notification workers stopped (delivered=%d failed=%d)",
		p.delivered.Load(), p.failed.Load())
}

// Stats returns delivered and failed event counts.
func (p *NotifierPool) Stats() (delivered, failed int64) {
	return p.delivered.Load(), p.failed.Load()
}

func (p *NotifierPool) worker(id int) {
	defer p.wg.Done()

	for {
		select {
		case <-p.stopCh:
			return
		default:
		}

		ctx, cancel := context.WithTimeout(context.Background(), dequeueTimeout+time.Second)
		event, err := p.redisRepo.DequeueRecordEvent(ctx, dequeueTimeout)
		cancel()
		if err != nil {
			log.Printf("Worker %d failed to dequeue record event: %v", id, err)
			time.Sleep(time.Second)
			continue
		}
		if event == nil {
			continue
		}

		if err := p.deliver(event); err != nil {
			p.failed.Add(1)
			log.Printf("Worker %d failed to deliver record event %s: %v", id, event.ID, err)
			continue
		}
		p.delivered.Add(1)
		log.Printf("📣 Worker %d delivered record event %s (%s %s/%s)",
			id, event.ID, event.Category, event.Chapter, event.SubChapter)
	}
}

// deliver wakes the bot and posts the record event to its webhook.
func (p *NotifierPool) deliver(event *models.RecordChangeEvent) error {
	if err := p.awaitHealthy(); err != nil {
		return err
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal record event: %w", err)
	}

	req, err := http.NewRequest(http.MethodPost, p.cfg.BaseURL+"/webhook/new-record", bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return fmt.Errorf("webhook request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("webhook returned status %d", resp.StatusCode)
	}
	return nil
}

// awaitHealthy polls the bot's health endpoint until it answers or the retry
// budget runs out. Stop aborts the wait between attempts.
func (p *NotifierPool) awaitHealthy() error {
	retryDelay := time.Duration(p.cfg.RetryDelaySecs) * time.Second

	for attempt := 1; attempt <= p.cfg.MaxRetries; attempt++ {
		resp, err := p.client.Get(p.cfg.BaseURL + "/health")
		if err == nil {
			resp.Body.Close()
			if resp.StatusCode == http.StatusOK {
				return nil
			}
		}

		if attempt == p.cfg.MaxRetries {
			break
		}
		select {
		case <-p.stopCh:
			return fmt.Errorf("shutdown while waiting for notification bot")
		case <-time.After(retryDelay):
		}
	}
	return fmt.Errorf("notification bot unreachable after %d attempts", p.cfg.MaxRetries)
}
