package monitoring

import (
	"log"
	"time"

	"github.com/isdelr/artcampus-be/internal/services"
	"github.com/robfig/cron/v3"
)

// Curator periodically promotes popular projects to the featured shelf.
// The cadence is a standard cron expression; each due run scans the
// project collection and features everything at or above the like
// threshold, which also notifies the affected authors.
type Curator struct {
	projects  services.ProjectServiceProvider
	schedule  cron.Schedule
	threshold int
	ticker    *time.Ticker
	done      chan bool
	nextRun   time.Time
}

// NewCurator creates a curator from a cron expression and like threshold.
func NewCurator(projects services.ProjectServiceProvider, cronExpression string, likeThreshold int) (*Curator, error) {
	schedule, err := cron.ParseStandard(cronExpression)
	if err != nil {
		return nil, err
	}
	return &Curator{
		projects:  projects,
		schedule:  schedule,
		threshold: likeThreshold,
		done:      make(chan bool),
		nextRun:   schedule.Next(time.Now()),
	}, nil
}

// Run starts the curator's ticking loop.
func (c *Curator) Run() {
	log.Println("Starting featured-project curator...")
	c.ticker = time.NewTicker(1 * time.Minute)
	defer c.ticker.Stop()

	for {
		select {
		case <-c.done:
			log.Println("Stopping featured-project curator.")
			return
		case <-c.ticker.C:
			now := time.Now()
			if now.After(c.nextRun) {
				c.promoteTrending()
				c.nextRun = c.schedule.Next(now)
			}
		}
	}
}

// Stop halts the curator.
func (c *Curator) Stop() {
	c.done <- true
}

// promoteTrending features every project at or above the like threshold.
func (c *Curator) promoteTrending() {
	projects, err := c.projects.GetAll()
	if err != nil {
		log.Printf("Curator: failed to load projects: %v", err)
		return
	}

	for _, project := range projects {
		if project.Featured || project.Likes < c.threshold {
			continue
		}
		if _, err := c.projects.SetFeatured(project.ID, true); err != nil {
			log.Printf("Curator: failed to feature project %s: %v", project.ID, err)
			continue
		}
		log.Printf("Curator: featured project %s (%d likes)", project.ID, project.Likes)
	}
}
