package cron

import (
	"log"

	"buyerlead_backend/pkg/ratelimit"

	"github.com/robfig/cron/v3"
)

func InitRateLimitCleanupCron(limiter *ratelimit.FixedWindow) {
	c := cron.New()

	_, err := c.AddFunc("@hourly", func() {
		if evicted := limiter.Evict(); evicted > 0 {
			log.Printf("Rate limiter cleanup: evicted %d idle windows", evicted)
		}
	})

	if err != nil {
		log.Printf("Could not initialize rate limit cleanup cron: %v", err)
		return
	}

	c.Start()
}
