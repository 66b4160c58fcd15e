package receipt

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/trackmate/trackmate/internal/report"
	"github.com/trackmate/trackmate/internal/scanning"
)

// IDGenerator generates unique names for archived uploads
type IDGenerator interface {
	Generate() string
}

// TimeSource provides the current time
type TimeSource interface {
	Now() time.Time
}

type defaultIDGenerator struct{}

func (g *defaultIDGenerator) Generate() string {
	return uuid.NewString()
}

type defaultTimeSource struct{}

func (t *defaultTimeSource) Now() time.Time {
	return time.Now()
}

// UploadResult carries the heuristic pre-fill for the confirmation form.
type UploadResult struct {
	Filename   string
	ArchivedAs string
	Text       string
	Guesses    scanning.FieldGuesses
}

// Service ties the record store, the OCR engine and the upload archive
// together behind the handlers.
type Service struct {
	store       Store
	scanner     scanning.Scanner
	archive     Archive
	idGenerator IDGenerator
	timeSource  TimeSource
}

// NewService creates a Service with default ID generator and time source
func NewService(store Store, scanner scanning.Scanner, archive Archive) *Service {
	return &Service{
		store:       store,
		scanner:     scanner,
		archive:     archive,
		idGenerator: &defaultIDGenerator{},
		timeSource:  &defaultTimeSource{},
	}
}

// NewServiceWithDeps creates a Service with custom dependencies for testing
func NewServiceWithDeps(store Store, scanner scanning.Scanner, archive Archive, idGen IDGenerator, timeSrc TimeSource) *Service {
	return &Service{
		store:       store,
		scanner:     scanner,
		archive:     archive,
		idGenerator: idGen,
		timeSource:  timeSrc,
	}
}

// Login checks the credentials against the user table.
func (s *Service) Login(ctx context.Context, username, password string) (bool, error) {
	ok, err := s.store.FindUser(ctx, username, password)
	if err != nil {
		return false, fmt.Errorf("checking credentials: %w", err)
	}
	return ok, nil
}

// EnsureDemoData seeds synthetic records for a user with none, so the
// first login lands on non-empty charts.
func (s *Service) EnsureDemoData(ctx context.Context, userID string) error {
	count, err := s.store.CountReceipts(ctx, userID)
	if err != nil {
		return fmt.Errorf("counting receipts: %w", err)
	}
	if count > 0 {
		return nil
	}
	slog.Info("Seeding demo data for empty account", "user_id", userID)
	if err := s.store.SeedDemoData(ctx, userID, DemoRecordCount); err != nil {
		return fmt.Errorf("seeding demo data: %w", err)
	}
	return nil
}

// ProcessUpload archives the uploaded image, runs OCR and derives the
// heuristic pre-fill. Nothing is persisted to the record store here; that
// waits for the user to confirm the form.
func (s *Service) ProcessUpload(filename string, data []byte, contentType string) (*UploadResult, error) {
	archiveName := fmt.Sprintf("%s_%s", s.idGenerator.Generate(), sanitizeFilename(filename))
	savedPath, err := s.archive.Save(archiveName, data)
	if err != nil {
		return nil, fmt.Errorf("archiving upload: %w", err)
	}

	text, err := s.scanner.ExtractText(data, contentType)
	if err != nil {
		slog.Error("Failed to extract text from upload",
			"filename", filename,
			"content_type", contentType,
			"file_size", len(data),
			"error", err,
		)
		// The archived copy is useless without a record referencing it
		s.archive.Delete(savedPath)
		return nil, fmt.Errorf("extracting text: %w", err)
	}

	return &UploadResult{
		Filename:   filename,
		ArchivedAs: savedPath,
		Text:       text,
		Guesses:    scanning.ParseFields(text, s.timeSource.Now()),
	}, nil
}

// SaveReceipt persists a confirmed record for the user. Values are stored
// exactly as submitted.
func (s *Service) SaveReceipt(ctx context.Context, userID, vendor, date string, amount float64, filename string) (*Receipt, error) {
	r := &Receipt{
		Vendor:   vendor,
		Date:     date,
		Amount:   amount,
		Filename: filename,
		UserID:   userID,
	}
	if err := s.store.InsertReceipt(ctx, r); err != nil {
		return nil, fmt.Errorf("saving receipt: %w", err)
	}
	return r, nil
}

// Report loads the user's records and builds the filtered reporting view.
func (s *Service) Report(ctx context.Context, userID string, opts report.Options) (report.Report, []string, error) {
	receipts, err := s.store.ListReceipts(ctx, userID)
	if err != nil {
		return report.Report{}, nil, fmt.Errorf("loading receipts: %w", err)
	}

	records := make([]report.Record, 0, len(receipts))
	for _, r := range receipts {
		records = append(records, report.Record{
			ID:       r.ID,
			Vendor:   r.Vendor,
			Date:     r.Date,
			Amount:   r.Amount,
			Filename: r.Filename,
		})
	}

	return report.Build(records, opts), report.Vendors(records), nil
}
