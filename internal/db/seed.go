package db

import (
	"context"
	"time"

	"github.com/diewo77/seeker/internal/models"
	"gorm.io/gorm"
)

// SeedJobs lists the listing-only jobs inserted into an empty board.
var SeedJobs = []models.Job{
	{Title: "Frontend Developer", Company: "TechNova", Location: "Remote",
		Description: "Build modern web applications with React and TypeScript. 2+ years experience required."},
	{Title: "UI/UX Designer", Company: "Designify", Location: "Bangalore, India",
		Description: "Design intuitive user interfaces for mobile and web. Portfolio required."},
	{Title: "Backend Engineer", Company: "CloudCore", Location: "San Francisco, CA",
		Description: "Work on scalable APIs and cloud infrastructure. Experience with Node.js and AWS."},
	{Title: "Marketing Specialist", Company: "MarketGenius", Location: "Remote",
		Description: "Drive digital marketing campaigns and analyze performance metrics. SEO/SEM skills a plus."},
}

// Seed inserts SeedJobs when the jobs table is empty. It returns the number
// of rows written.
func Seed(ctx context.Context, gdb *gorm.DB) (int, error) {
	var count int64
	if err := gdb.WithContext(ctx).Model(&models.Job{}).Count(&count).Error; err != nil {
		return 0, err
	}
	if count > 0 {
		return 0, nil
	}
	now := time.Now().UTC()
	jobs := make([]models.Job, len(SeedJobs))
	for i, j := range SeedJobs {
		j.PostedAt = now
		jobs[i] = j
	}
	if err := gdb.WithContext(ctx).Create(&jobs).Error; err != nil {
		return 0, err
	}
	return len(jobs), nil
}
