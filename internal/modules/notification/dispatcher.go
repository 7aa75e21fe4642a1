package notification

import (
	"context"
	"log"
	"time"
)

// Dispatcher runs the daily scan that reminds users about books due today.
type Dispatcher struct {
	service *Service
}

func NewDispatcher(service *Service) *Dispatcher {
	return &Dispatcher{service: service}
}

// RunScan executes one scan pass and logs its outcome.
func (d *Dispatcher) RunScan(ctx context.Context) error {
	startTime := time.Now()

	created, err := d.service.ScanDueToday(ctx, startTime)
	if err != nil {
		log.Printf("Error scanning loans due today: %v", err)
		return err
	}

	log.Printf("Due-date scan completed: created %d reminders in %v", len(created), time.Since(startTime))
	return nil
}

// Schedule starts a background goroutine that runs the scan once immediately
// and then on every tick of the interval. The returned channel stops it.
func (d *Dispatcher) Schedule(ctx context.Context, interval time.Duration) chan struct{} {
	if interval <= 0 {
		interval = 24 * time.Hour
	}

	stopCh := make(chan struct{})

	go func() {
		if err := d.RunScan(ctx); err != nil {
			log.Printf("Initial due-date scan error: %v", err)
		}

		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				if err := d.RunScan(ctx); err != nil {
					log.Printf("Scheduled due-date scan error: %v", err)
				}
			case <-stopCh:
				log.Println("Due-date scan stopped")
				return
			case <-ctx.Done():
				log.Println("Due-date scan stopped (context Done)")
				return
			}
		}
	}()

	log.Printf("Due-date scan scheduled with interval %v", interval)
	return stopCh
}
