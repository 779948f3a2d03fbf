package jobs

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/Kvuthe/ITO/internal/config"
	"github.com/Kvuthe/ITO/internal/repository"
)

const highlightCount = 3

// HighlightRotator replaces the highlighted set once a day with a random
// sample of current first-place runs.
type HighlightRotator struct {
	postgresRepo *repository.PostgresRepository
	redisRepo    *repository.RedisRepository
	cfg          config.HighlightConfig
	location     *time.Location

	stopCh chan struct{}
	wg     sync.WaitGroup
}

// NewHighlightRotator creates a new highlight rotator
func NewHighlightRotator(postgresRepo *repository.PostgresRepository, redisRepo *repository.RedisRepository, cfg config.HighlightConfig) (*HighlightRotator, error) {
	location, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		return nil, err
	}

	return &HighlightRotator{
		postgresRepo: postgresRepo,
		redisRepo:    redisRepo,
		cfg:          cfg,
		location:     location,
		stopCh:       make(chan struct{}),
	}, nil
}

// Start launches the daily rotation loop.
func (h *HighlightRotator) Start() {
	h.wg.Add(1)
	go h.run()
	log.Printf("🌟 Highlight rotator started (daily at %02d:%02d %s)", h.cfg.Hour, h.cfg.Minute, h.cfg.Timezone)
}

// Stop halts the rotation loop and waits for it to exit.
func (h *HighlightRotator) Stop() {
	close(h.stopCh)
	h.wg.Wait()
	log.Println("🌟 Highlight rotator stopped")
}

func (h *HighlightRotator) run() {
	defer h.wg.Done()

	for {
		wait := time.Until(h.nextRun(time.Now().In(h.location)))
		timer := time.NewTimer(wait)

		select {
		case <-h.stopCh:
			timer.Stop()
			return
		case <-timer.C:
			if err := h.Rotate(context.Background()); err != nil {
				log.Printf("Highlight rotation failed: %v", err)
			}
		}
	}
}

// nextRun returns the next scheduled rotation instant strictly after now.
func (h *HighlightRotator) nextRun(now time.Time) time.Time {
	next := time.Date(now.Year(), now.Month(), now.Day(), h.cfg.Hour, h.cfg.Minute, 0, 0, h.location)
	if !next.After(now) {
		next = next.AddDate(0, 0, 1)
	}
	return next
}

// Rotate clears the current highlighted set and highlights a fresh random
// sample of first-place runs, all in one transaction so readers never observe
// an empty board mid-swap.
func (h *HighlightRotator) Rotate(ctx context.Context) error {
	var picked int

	err := h.postgresRepo.Transaction(ctx, func(tx *repository.PostgresRepository) error {
		if err := tx.ClearHighlights(ctx); err != nil {
			return err
		}

		firstPlaces, err := tx.RandomFirstPlaces(ctx, highlightCount)
		if err != nil {
			return err
		}

		ids := make([]uint, 0, len(firstPlaces))
		for _, sub := range firstPlaces {
			ids = append(ids, sub.ID)
		}
		picked = len(ids)

		return tx.SetHighlighted(ctx, ids)
	})
	if err != nil {
		return err
	}

	if picked < highlightCount {
		log.Printf("⚠️ Highlight rotation picked only %d of %d runs", picked, highlightCount)
	} else {
		log.Printf("🌟 Highlight rotation picked %d runs", picked)
	}

	if err := h.redisRepo.BumpVersion(ctx); err != nil {
		log.Printf("Failed to bump leaderboard version: %v", err)
	}
	return nil
}
