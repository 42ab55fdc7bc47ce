package job

import (
	"context"
	"log"
	"time"

	"github.com/senyabanana/tender-engine/internal/repository"
	"github.com/senyabanana/tender-engine/internal/services"

	"github.com/robfig/cron/v3"
)

// StartRecheckJob запускает периодический прогон комплаенс-проверок,
// чей срок повторной проверки прошел, по все еще открытым тендерам.
func StartRecheckJob(schedule string, prechecks *services.PreCheckService, repo repository.PreCheckRepository, logger *log.Logger) (*cron.Cron, error) {
	c := cron.New()

	_, err := c.AddFunc(schedule, func() {
		ctx := context.Background()
		due, err := repo.ListDueRechecks(ctx, time.Now().UTC())
		if err != nil {
			logger.Printf("recheck sweep failed: %v", err)
			return
		}
		for _, stale := range due {
			if _, err := prechecks.PreCheck(ctx, stale.VendorID, stale.TenderID); err != nil {
				logger.Printf("recheck failed for vendor %s on tender %s: %v", stale.VendorID, stale.TenderID, err)
			}
		}
		if len(due) > 0 {
			logger.Printf("recheck sweep refreshed %d precheck(s)", len(due))
		}
	})
	if err != nil {
		return nil, err
	}

	c.Start()
	return c, nil
}
