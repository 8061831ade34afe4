package profiles

import (
	"log"

	"github.com/AlumniConnect/AC-Backend/internal/db"
)

func Init() {
	if err := db.EnsureSchema(db.DB, "portal"); err != nil {
		log.Fatal("Failed to ensure schema portal: ", err)
	}

	if err := db.DB.AutoMigrate(&Profile{}); err != nil {
		log.Fatal("Failed to auto-migrate profile tables: ", err)
	}
}
