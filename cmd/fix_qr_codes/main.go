// cmd/fix_qr_codes/main.go
//
// One-shot repair job: backfills missing student IDs and legacy QR
// codes for existing accounts.
//
//	fix_qr_codes                                 # scan and fix everything
//	fix_qr_codes --set-student-id alice:S12345   # fix one account only
package main

import (
	"errors"
	"flag"
	"fmt"
	"log"
	"os"

	"recycle-rewards-system/services"

	"github.com/joho/godotenv"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	setStudentID := flag.String("set-student-id", "", "Set student ID for a specific username (format: username:student_id)")
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		log.Println("⚠️  No .env file found, reading environment variables directly")
	}

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		log.Fatal("DATABASE_URL environment variable not set")
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		log.Fatal("failed to connect to database:", err)
	}

	repair := services.NewRepairService(db, os.Stdout)

	if *setStudentID != "" {
		if err := repair.SetStudentID(*setStudentID); err != nil {
			if errors.Is(err, services.ErrBadSetFormat) || errors.Is(err, services.ErrAccountNotFound) {
				fmt.Fprintln(os.Stderr, err)
			} else {
				fmt.Fprintf(os.Stderr, "fix_qr_codes: %v\n", err)
			}
			os.Exit(1)
		}
		return
	}

	report, err := repair.BulkScan()
	if err != nil {
		fmt.Fprintf(os.Stderr, "fix_qr_codes: %v\n", err)
		os.Exit(1)
	}
	if report.Failed > 0 {
		fmt.Printf("%d account(s) could not be fixed, see errors above\n", report.Failed)
	}

	fmt.Println()
	fmt.Println("To set a specific student ID, use:")
	fmt.Println("fix_qr_codes --set-student-id username:student_id_number")
}
