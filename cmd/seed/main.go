// Command main runs the database seeder for Sabuzz.
package main

import (
	"flag"
	"log"

	"sabuzz/internal/config"
	"sabuzz/internal/database"
	"sabuzz/internal/seed"
)

func main() {
	numReaders := flag.Int("readers", 50, "Number of reader accounts to create")
	numJournalists := flag.Int("journalists", 8, "Number of journalist accounts to create")
	numPosts := flag.Int("posts", 200, "Number of posts to create")
	shouldClean := flag.Bool("clean", true, "Clean database before seeding")
	flag.Parse()

	log.Println("🌱 Database Seeder")
	log.Println("==================")
	log.Printf("Target: %d readers, %d journalists, %d posts, clean=%v\n",
		*numReaders, *numJournalists, *numPosts, *shouldClean)

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	if _, err = database.Connect(cfg); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	s := seed.NewSeeder(database.DB)
	if err := s.Seed(seed.Options{
		NumReaders:     *numReaders,
		NumJournalists: *numJournalists,
		NumPosts:       *numPosts,
		ShouldClean:    *shouldClean,
	}); err != nil {
		log.Fatalf("❌ Seeding failed: %v", err)
	}

	log.Println("✨ All done! Your database is now populated with test data.")
	log.Println("📧 All test users have the password: password123")
}
