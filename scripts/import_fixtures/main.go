package main

import (
	"flag"
	"fmt"
	"log"

	"github.com/joho/godotenv"
	"github.com/villagestay/villagestay/internal/config"
	"github.com/villagestay/villagestay/internal/database"
	"github.com/villagestay/villagestay/internal/seed"
	"github.com/villagestay/villagestay/pkg/logger"
)

// Imports a fixture workbook into the database, or writes the embedded
// fixtures out as a workbook template with -export.
func main() {
	path := flag.String("file", "", "path to the fixture workbook (.xlsx)")
	export := flag.Bool("export", false, "write the embedded fixtures to -file instead of importing it")
	flag.Parse()

	if *path == "" {
		log.Fatal("-file is required")
	}

	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	if *export {
		fx, err := seed.Embedded()
		if err != nil {
			log.Fatal("failed to read embedded fixtures:", err)
		}
		wb, err := seed.WriteExcel(fx)
		if err != nil {
			log.Fatal("failed to build workbook:", err)
		}
		defer wb.Close()
		if err := wb.SaveAs(*path); err != nil {
			log.Fatal("failed to save workbook:", err)
		}
		fmt.Printf("Wrote %d villages to %s\n", len(fx.Villages), *path)
		return
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal("failed to load config:", err)
	}
	if err := cfg.ValidateDatabase(); err != nil {
		log.Fatal(err)
	}
	logger.Init(cfg.LogLevel, cfg.AppEnv)
	defer logger.Sync()

	fx, err := seed.FromExcel(*path)
	if err != nil {
		log.Fatal(err)
	}

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatal(err)
	}
	if err := database.AutoMigrate(db); err != nil {
		log.Fatal(err)
	}
	if err := database.SaveFixtures(db, fx); err != nil {
		log.Fatal(err)
	}

	posts := 0
	for _, v := range fx.Villages {
		posts += len(v.CommunityPosts)
	}
	fmt.Printf("Imported %d villages, %d posts, %d internships, %d bookings, %d kirana stores.\n",
		len(fx.Villages), posts, len(fx.Internships), len(fx.Bookings), len(fx.KiranaStores))
}
