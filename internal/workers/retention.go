package workers

import (
	"context"
	"log"
	"time"

	"orgboard-backend/internal/storage"
)

// StartActivityRetention periodically deletes activity rows older than
// maxAge.
func StartActivityRetention(ctx context.Context, store *storage.Storage, maxAge time.Duration) {
	go func() {
		ticker := time.NewTicker(time.Hour)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				pruneOnce(ctx, store, maxAge)
			}
		}
	}()
	log.Println("INFO Activity retention worker started")
}

func pruneOnce(ctx context.Context, store *storage.Storage, maxAge time.Duration) {
	n, err := store.PruneActivity(ctx, time.Now().Add(-maxAge))
	if err != nil {
		log.Printf("WARN Activity retention prune error: %v", err)
		return
	}
	if n > 0 {
		log.Printf("INFO Activity retention pruned %d rows", n)
	}
}
