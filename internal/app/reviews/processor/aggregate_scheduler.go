package processor

import (
	"context"
	"log"
	"time"

	"meadowberries/internal/app/reviews/service"

	"github.com/robfig/cron/v3"
)

// AggregateScheduler фоновый пересчёт сводных рейтингов по расписанию
// Подчищает сводки отзывов, у которых пересчёт на пути создания не удался
type AggregateScheduler struct {
	cron      *cron.Cron
	reviewSvc service.ReviewServiceInterface
	window    time.Duration
}

func NewAggregateScheduler(reviewSvc service.ReviewServiceInterface, window time.Duration) *AggregateScheduler {
	c := cron.New(cron.WithLogger(cron.VerbosePrintfLogger(log.Default())))

	return &AggregateScheduler{
		cron:      c,
		reviewSvc: reviewSvc,
		window:    window,
	}
}

func (s *AggregateScheduler) Start(ctx context.Context, schedule string) error {
	log.Printf("Starting aggregate scheduler with schedule: %s", schedule)

	_, err := s.cron.AddFunc(schedule, func() {
		log.Println("Cron job triggered: recomputing review aggregates")

		processed, err := s.reviewSvc.RecomputeRecentAggregates(ctx, s.window)
		if err != nil {
			log.Printf("ERROR: Failed to recompute review aggregates: %v", err)
			return
		}
		log.Printf("Cron job completed: recomputed aggregates for %d reviews", processed)
	})

	if err != nil {
		return err
	}

	s.cron.Start()
	log.Println("Aggregate scheduler started")

	return nil
}

func (s *AggregateScheduler) Stop() {
	log.Println("Stopping aggregate scheduler...")
	ctx := s.cron.Stop()
	<-ctx.Done()
	log.Println("Aggregate scheduler stopped")
}

func (s *AggregateScheduler) GetEntries() []cron.Entry {
	return s.cron.Entries()
}
