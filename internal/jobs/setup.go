package jobs

import (
	"log"

	"github.com/AlumniConnect/AC-Backend/internal/db"
)

func Init() {
	if err := db.EnsureSchema(db.DB, "portal"); err != nil {
		log.Fatal("Failed to ensure schema portal: ", err)
	}

	if err := db.DB.Exec(`CREATE EXTENSION IF NOT EXISTS "uuid-ossp"`).Error; err != nil {
		log.Fatal("Failed to enable uuid-ossp extension: ", err)
	}

	if err := db.DB.AutoMigrate(&Job{}); err != nil {
		log.Fatal("Failed to auto-migrate job tables: ", err)
	}
}
