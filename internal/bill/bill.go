package bill

import (
	"strings"
	"time"
)

// Status is the approval state of a bill
type Status string

const (
	StatusPending  Status = "pending"
	StatusAccepted Status = "accepted"
	StatusRefused  Status = "refused"
)

// DefaultPct is the VAT percentage used when the form leaves it blank
const DefaultPct = 20

// Bill represents an expense-reimbursement record with its receipt attachment
type Bill struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	Type         string    `json:"type"`
	Name         string    `json:"name"`
	Amount       int       `json:"amount"`
	Date         string    `json:"date"` // ISO 8601 (YYYY-MM-DD), or a display string once formatted
	RawDate      string    `json:"-"`    // ISO date kept by Format
	VAT          int       `json:"vat,omitempty"`
	Pct          int       `json:"pct"`
	Commentary   string    `json:"commentary"`
	CommentAdmin string    `json:"commentAdmin,omitempty"`
	FileURL      string    `json:"fileUrl"`
	FileName     string    `json:"fileName"`
	Status       Status    `json:"status"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// SortDate is the ISO date of the bill, whether or not it was formatted
func (b Bill) SortDate() string {
	if b.RawDate != "" {
		return b.RawDate
	}
	return b.Date
}

// Violations maps a field name to a violation code
type Violations map[string]string

// Empty reports whether no violation was recorded
func (v Violations) Empty() bool { return len(v) == 0 }

func required(field, value string, v Violations) {
	if strings.TrimSpace(value) == "" {
		v[field] = "required"
	}
}

// Validate checks the fields a bill needs before it can be stored.
// Types are free-form and only checked for presence.
func (b Bill) Validate() Violations {
	v := Violations{}
	required("email", b.Email, v)
	required("type", b.Type, v)
	required("date", b.Date, v)
	if b.Amount < 0 {
		v["amount"] = "must_be_positive"
	}
	if b.VAT < 0 {
		v["vat"] = "must_be_positive"
	}
	if b.Pct < 0 || b.Pct > 100 {
		v["pct"] = "out_of_range"
	}
	switch b.Status {
	case StatusPending, StatusAccepted, StatusRefused:
	default:
		v["status"] = "unknown"
	}
	return v
}

// receiptExtensions lists the accepted receipt file extensions
var receiptExtensions = map[string]bool{"jpg": true, "jpeg": true, "png": true}

// AcceptedReceipt reports whether filename has a jpg, jpeg or png
// extension, ignoring case
func AcceptedReceipt(filename string) bool {
	i := strings.LastIndex(filename, ".")
	if i < 0 || i == len(filename)-1 {
		return false
	}
	return receiptExtensions[strings.ToLower(filename[i+1:])]
}
