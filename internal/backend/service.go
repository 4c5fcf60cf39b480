package backend

import (
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/zombor/billed/internal/bill"
)

var ErrInvalidReceipt = errors.New("invalid receipt")

// ValidationError lists the fields of a rejected bill
type ValidationError struct {
	Violations bill.Violations
}

func (e *ValidationError) Error() string {
	fields := make([]string, 0, len(e.Violations))
	for f := range e.Violations {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	return fmt.Sprintf("invalid bill: %s", strings.Join(fields, ", "))
}

// IDGenerator generates upload keys, which become bill IDs
type IDGenerator interface {
	Generate() string
}

// TimeSource provides the current time
type TimeSource interface {
	Now() time.Time
}

type uuidGenerator struct{}

func (g *uuidGenerator) Generate() string {
	return uuid.NewString()
}

type defaultTimeSource struct{}

func (t *defaultTimeSource) Now() time.Time {
	return time.Now()
}

// Service handles bill operations
type Service struct {
	db          DB
	storage     Storage
	publicURL   string
	idGenerator IDGenerator
	timeSource  TimeSource
}

// NewService creates a new Service with uuid IDs and the wall clock.
// publicURL is the externally visible base URL used to build receipt links.
func NewService(db DB, storage Storage, publicURL string) *Service {
	return NewServiceWithDeps(db, storage, publicURL, &uuidGenerator{}, &defaultTimeSource{})
}

// NewServiceWithDeps creates a new Service with custom dependencies for testing
func NewServiceWithDeps(db DB, storage Storage, publicURL string, idGen IDGenerator, timeSrc TimeSource) *Service {
	return &Service{
		db:          db,
		storage:     storage,
		publicURL:   strings.TrimSuffix(publicURL, "/"),
		idGenerator: idGen,
		timeSource:  timeSrc,
	}
}

var (
	unsafeChars = regexp.MustCompile(`[^a-zA-Z0-9\s\-_]`)
	spaces      = regexp.MustCompile(`\s+`)
)

// sanitizeFilename removes special characters and truncates the base name
func sanitizeFilename(filename string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	base := strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename))

	base = unsafeChars.ReplaceAllString(base, "")
	base = spaces.ReplaceAllString(base, " ")
	base = strings.TrimSpace(base)

	if len(base) > 50 {
		base = base[:50]
	}
	if base == "" {
		base = "receipt"
	}

	return base + ext
}

// FileURL returns the public link of an uploaded receipt
func (s *Service) FileURL(key string) string {
	return s.publicURL + "/files/" + key
}

// UploadReceipt stores a receipt file ahead of its bill
func (s *Service) UploadReceipt(email, filename string, data []byte, contentType string) (*Upload, error) {
	if !bill.AcceptedReceipt(filename) {
		return nil, fmt.Errorf("%w: %s is not a jpg, jpeg or png file", ErrInvalidReceipt, filename)
	}
	if strings.TrimSpace(email) == "" {
		return nil, fmt.Errorf("%w: uploader email is required", ErrInvalidReceipt)
	}

	key := s.idGenerator.Generate()
	savedPath, err := s.storage.Save(fmt.Sprintf("%s_%s", key, sanitizeFilename(filename)), data)
	if err != nil {
		return nil, fmt.Errorf("saving file: %w", err)
	}

	upload := &Upload{
		Key:         key,
		Email:       email,
		Filename:    filename,
		Path:        savedPath,
		ContentType: contentType,
		CreatedAt:   s.timeSource.Now(),
	}
	if err := s.db.SaveUpload(upload); err != nil {
		s.storage.Delete(savedPath)
		return nil, fmt.Errorf("saving upload to database: %w", err)
	}

	return upload, nil
}

// CreateBill validates and stores a new bill. The bill ID must be the key of
// an upload of the same employee not yet taken over; the bill keeps that key
// as its ID and the upload's file as its receipt.
func (s *Service) CreateBill(in bill.Bill) (*bill.Bill, error) {
	now := s.timeSource.Now()
	b := in

	if b.Status == "" {
		b.Status = bill.StatusPending
	}
	v := b.Validate()

	upload, err := s.receiptFor(b)
	if err != nil {
		return nil, err
	}
	switch {
	case upload == nil && b.ID == "":
		v["file"] = "required"
	case upload == nil:
		v["file"] = "unknown_receipt"
	case upload.BillID != "":
		v["file"] = "already_used"
	case upload.Email != b.Email:
		v["file"] = "not_owner"
	}
	if !v.Empty() {
		return nil, &ValidationError{Violations: v}
	}

	if b.FileURL == "" {
		b.FileURL = s.FileURL(upload.Key)
	}
	if b.FileName == "" {
		b.FileName = upload.Filename
	}
	b.CreatedAt = now
	b.UpdatedAt = now

	if err := s.db.SaveBill(&b); err != nil {
		return nil, fmt.Errorf("saving bill to database: %w", err)
	}

	upload.BillID = b.ID
	if err := s.db.SaveUpload(upload); err != nil {
		slog.Warn("Failed to mark upload as used", "key", upload.Key, "error", err)
	}

	return &b, nil
}

// receiptFor returns the upload keyed by the bill ID, nil when there is none
func (s *Service) receiptFor(b bill.Bill) (*Upload, error) {
	if b.ID == "" {
		return nil, nil
	}
	u, err := s.db.GetUpload(b.ID)
	if errors.Is(err, ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting upload: %w", err)
	}
	return u, nil
}

// GetBill retrieves a bill by ID
func (s *Service) GetBill(id string) (*bill.Bill, error) {
	b, err := s.db.GetBill(id)
	if err != nil {
		return nil, fmt.Errorf("getting bill: %w", err)
	}
	return b, nil
}

// ListBills returns the bills of email, or all bills when email is empty,
// most recent date first
func (s *Service) ListBills(email string) ([]*bill.Bill, error) {
	all, err := s.db.ListBills()
	if err != nil {
		return nil, fmt.Errorf("listing bills: %w", err)
	}

	bills := make([]*bill.Bill, 0, len(all))
	for _, b := range all {
		if email == "" || b.Email == email {
			bills = append(bills, b)
		}
	}
	sort.SliceStable(bills, func(i, j int) bool {
		return bills[i].Date > bills[j].Date
	})
	return bills, nil
}

// UpdateBill replaces the stored bill, keeping its ID and creation time
func (s *Service) UpdateBill(id string, in bill.Bill) (*bill.Bill, error) {
	existing, err := s.db.GetBill(id)
	if err != nil {
		return nil, fmt.Errorf("getting bill for update: %w", err)
	}

	b := in
	b.ID = existing.ID
	b.CreatedAt = existing.CreatedAt
	b.UpdatedAt = s.timeSource.Now()
	if v := b.Validate(); !v.Empty() {
		return nil, &ValidationError{Violations: v}
	}

	if err := s.db.SaveBill(&b); err != nil {
		return nil, fmt.Errorf("updating bill %s: %w", id, err)
	}
	return &b, nil
}

// GetReceiptFile retrieves the file data of an upload
func (s *Service) GetReceiptFile(key string) ([]byte, string, error) {
	upload, err := s.db.GetUpload(key)
	if err != nil {
		return nil, "", fmt.Errorf("getting upload: %w", err)
	}

	data, err := s.storage.Get(upload.Path)
	if err != nil {
		return nil, "", fmt.Errorf("getting receipt file: %w", err)
	}

	return data, upload.ContentType, nil
}

// Seed stores bills as they are, keeping their IDs
func (s *Service) Seed(bills []bill.Bill) error {
	now := s.timeSource.Now()
	for i := range bills {
		b := bills[i]
		b.CreatedAt = now
		b.UpdatedAt = now
		if err := s.db.SaveBill(&b); err != nil {
			return fmt.Errorf("seeding bill %s: %w", b.ID, err)
		}
	}
	return nil
}
