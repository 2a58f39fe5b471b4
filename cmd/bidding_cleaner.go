package main

import (
	"context"
	"log"
	"time"

	"easyserve/internal/services"
)

const (
	biddingCleanerInterval = 1 * time.Hour
	biddingCleanerTimeout  = 1 * time.Minute
)

// startBiddingCleaner cancels open bidding requests whose window passed
// without attracting a single bid. Requests that already collected bids stay
// untouched so the requester can still pick a winner.
func startBiddingCleaner(ctx context.Context, svc *services.ServiceRequestService, infoLog, errorLog *log.Logger) {
	if svc == nil {
		return
	}

	go func() {
		ticker := time.NewTicker(biddingCleanerInterval)
		defer ticker.Stop()

		runOnce := func() {
			runCtx, cancel := context.WithTimeout(ctx, biddingCleanerTimeout)
			cancelled, err := svc.CancelExpiredBiddingRequests(runCtx, time.Now())
			cancel()
			if err != nil {
				if errorLog != nil {
					errorLog.Printf("bidding cleaner: failed to cancel expired requests: %v", err)
				}
			} else if cancelled > 0 && infoLog != nil {
				infoLog.Printf("bidding cleaner: cancelled %d expired requests", cancelled)
			}
		}

		runOnce()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				runOnce()
			}
		}
	}()
}
