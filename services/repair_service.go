// services/repair_service.go
package services

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"recycle-rewards-system/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// legacyQRPrefix is the historical identifier scheme still printed on
// old QR stickers around campus.
const legacyQRPrefix = "SMC-USER-"

var (
	ErrBadSetFormat    = errors.New("format should be: --set-student-id username:student_id")
	ErrAccountNotFound = errors.New("account not found")
)

// RepairService backfills missing student IDs and legacy QR codes for
// existing accounts. It backs the fix_qr_codes command.
type RepairService struct {
	DB  *gorm.DB
	Out io.Writer
}

func NewRepairService(db *gorm.DB, out io.Writer) *RepairService {
	return &RepairService{DB: db, Out: out}
}

// RepairReport summarizes one bulk scan. Counters are local to the
// invocation, nothing is accumulated across runs.
type RepairReport struct {
	Fixed   int
	Scanned int
	Failed  int
}

// SetStudentID handles the targeted mode: arg is "username:student_id".
// Only the named account is touched; a parse or lookup failure means no
// write at all.
func (s *RepairService) SetStudentID(arg string) error {
	parts := strings.SplitN(arg, ":", 2)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return ErrBadSetFormat
	}
	username, studentID := parts[0], parts[1]

	var account models.Account
	if err := s.DB.Where("username = ?", username).First(&account).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("user %s: %w", username, ErrAccountNotFound)
		}
		return err
	}

	var profile models.UserProfile
	err := s.DB.Where("account_id = ?", account.ID).First(&profile).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		profile = models.UserProfile{
			ID:        uuid.NewString(),
			AccountID: account.ID,
			StudentID: &studentID,
			UserType:  models.UserTypeStudent,
		}
		if err := s.DB.Create(&profile).Error; err != nil {
			return fmt.Errorf("create profile for %s: %w", username, err)
		}
	case err != nil:
		return err
	default:
		profile.StudentID = &studentID
		if err := s.DB.Save(&profile).Error; err != nil {
			return fmt.Errorf("save profile for %s: %w", username, err)
		}
	}

	fmt.Fprintf(s.Out, "Set student ID for %s: %s\n", username, studentID)
	return nil
}

// BulkScan walks every account and backfills what is missing. Each
// account's fix is its own single-row write, so a failure on one
// account is reported and the scan moves on. Reruns are idempotent.
func (s *RepairService) BulkScan() (RepairReport, error) {
	fmt.Fprintln(s.Out, "Checking user profiles...")

	var accounts []models.Account
	if err := s.DB.Order("username").Find(&accounts).Error; err != nil {
		return RepairReport{}, err
	}

	report := RepairReport{Scanned: len(accounts)}
	for _, account := range accounts {
		fixed, err := s.fixAccount(&account)
		if err != nil {
			report.Failed++
			fmt.Fprintf(s.Out, "ERROR fixing %s: %v\n", account.Username, err)
			continue
		}
		if fixed {
			report.Fixed++
		}
	}

	fmt.Fprintf(s.Out, "Fixed %d users. Total users: %d\n", report.Fixed, report.Scanned)
	return report, nil
}

// fixAccount repairs a single account and reports whether anything was
// written.
func (s *RepairService) fixAccount(account *models.Account) (bool, error) {
	var profile models.UserProfile
	err := s.DB.Where("account_id = ?", account.ID).First(&profile).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		studentID := account.Username
		qr := fmt.Sprintf("%s%s-%s", legacyQRPrefix, account.Username, uuid.NewString()[:8])
		profile = models.UserProfile{
			ID:         uuid.NewString(),
			AccountID:  account.ID,
			StudentID:  &studentID,
			QRCodeData: &qr,
			UserType:   models.UserTypeStudent,
		}
		if err := s.DB.Create(&profile).Error; err != nil {
			return false, err
		}
		fmt.Fprintf(s.Out, "Created profile for %s with student_id: %s\n", account.Username, studentID)
		s.printStatus(account, &profile)
		return true, nil
	}
	if err != nil {
		return false, err
	}

	fixed := false
	if profile.StudentID == nil || *profile.StudentID == "" {
		studentID := account.Username
		profile.StudentID = &studentID
		if err := s.DB.Save(&profile).Error; err != nil {
			return false, err
		}
		fmt.Fprintf(s.Out, "Set student ID for %s: %s\n", account.Username, studentID)
		fixed = true
	}

	s.printStatus(account, &profile)
	return fixed, nil
}

func (s *RepairService) printStatus(account *models.Account, profile *models.UserProfile) {
	studentID := ""
	if profile.StudentID != nil {
		studentID = *profile.StudentID
	}
	fmt.Fprintf(s.Out, "%s: student_id=%s, points=%d\n", account.Username, studentID, profile.TotalPoints)
}
