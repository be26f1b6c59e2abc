// Command seed fills the dashboard database with demo data.
package main

import (
	"context"
	"flag"
	"log"

	"accessdash/internal/bootstrap"
	"accessdash/internal/config"
	"accessdash/internal/seed"
)

func main() {
	numUsers := flag.Int("users", 25, "Number of users to create")
	numRequests := flag.Int("requests", 200, "Number of access requests to create")
	maxDays := flag.Int("days", 365, "Spread submissions over this many days")
	shouldClean := flag.Bool("clean", false, "Delete existing users, requests and comments first")
	randSeed := flag.Int64("seed", 0, "Fixed random seed (0 picks one)")
	flag.Parse()

	log.Printf("Target: %d users, %d requests, clean=%v", *numUsers, *numRequests, *shouldClean)

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	ctx := context.Background()
	rt, err := bootstrap.InitRuntime(ctx, cfg, bootstrap.Options{ApplySchema: true, SkipRedis: true})
	if err != nil {
		log.Fatalf("Failed to initialize: %v", err)
	}
	defer rt.Close()

	res, err := seed.NewSeeder(rt.DB, seed.Options{
		Users:    *numUsers,
		Requests: *numRequests,
		MaxDays:  *maxDays,
		Clean:    *shouldClean,
		Seed:     *randSeed,
	}).Run(ctx)
	if err != nil {
		rt.Close()
		log.Fatalf("Seeding failed: %v", err)
	}

	log.Printf("Seeded %d users, %d requests, %d comments", res.Users, res.Requests, res.Comments)
}
