package task

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
)

// Status represents task status reported by the task feed.
type Status string

const (
	StatusPending   Status = "pending"
	StatusFulfilled Status = "fulfilled"
)

// NormalizeStatus trims and lowercases a status value.
func NormalizeStatus(value string) Status {
	return Status(strings.ToLower(strings.TrimSpace(value)))
}

// UnmarshalJSON normalises the feed value; unknown statuses are kept.
func (s *Status) UnmarshalJSON(data []byte) error {
	var value string
	if err := json.Unmarshal(data, &value); err != nil {
		return err
	}
	*s = NormalizeStatus(value)
	return nil
}

// Task represents a unit of admin-reviewable work tied to a job posting.
// Tasks are owned by the backend; this module only reads them.
type Task struct {
	ID            ID       `json:"id"`
	JobID         ID       `json:"job_id,omitempty"`
	Category      Category `json:"category"`
	Status        Status   `json:"status"`
	RecruiterID   ID       `json:"recruiter_id,omitempty"`
	StudentID     ID       `json:"student_id,omitempty"`
	ApplicationID ID       `json:"application_id,omitempty"`
	PostedDate    Date     `json:"posted_date"`
	UpdatedDate   Date     `json:"updated_date"`
	CompanyName   string   `json:"company_name,omitempty"`
	Title         string   `json:"title,omitempty"`
	IsPremium     bool     `json:"is_premium,omitempty"`
}

// HasJob returns true when the task references a job posting.
func (t *Task) HasJob() bool {
	return t != nil && t.JobID != ""
}

// GroupKey returns the key of the job group the task belongs to. Orphan
// tasks get a synthetic key derived from their own id so that they never
// merge with other tasks.
func (t *Task) GroupKey() string {
	if t.HasJob() {
		return string(t.JobID)
	}
	return "no-job-" + string(t.ID)
}

// ID is an opaque identifier. The feed emits ids both as JSON numbers and
// strings; both decode to the same textual form.
type ID string

// UnmarshalJSON accepts a JSON string, number or null.
func (i *ID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*i = ""
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return errors.Wrap(err, "decode id")
		}
		*i = ID(strings.TrimSpace(s))
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return errors.Wrapf(err, "decode id %s", data)
	}
	*i = ID(n.String())
	return nil
}

// Int returns the numeric form of the id, if it has one.
func (i ID) Int() (int64, bool) {
	v, err := strconv.ParseInt(string(i), 10, 64)
	return v, err == nil
}

func (i ID) String() string { return string(i) }

// Date is a feed timestamp. The zero value means the date is missing and
// sorts as the Unix epoch.
type Date struct {
	time.Time
}

var dateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	time.DateOnly,
}

// ParseDate parses a feed date in any of the accepted layouts. An empty
// string yields the zero Date.
func ParseDate(value string) (Date, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return Date{}, nil
	}
	for _, layout := range dateLayouts {
		if ts, err := time.Parse(layout, value); err == nil {
			return Date{Time: ts.UTC()}, nil
		}
	}
	return Date{}, errors.Newf("unsupported date format: %q", value)
}

// MustDate parses value and panics on error. Intended for tests and
// literals.
func MustDate(value string) Date {
	d, err := ParseDate(value)
	if err != nil {
		panic(err)
	}
	return d
}

// Unix returns seconds since epoch; missing dates report 0.
func (d Date) Unix() int64 {
	if d.IsZero() {
		return 0
	}
	return d.Time.Unix()
}

// UnmarshalJSON accepts a date string or null. Unparseable dates are
// treated as missing rather than failing the whole feed.
func (d *Date) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*d = Date{}
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		*d = Date{}
		return nil
	}
	parsed, err := ParseDate(s)
	if err != nil {
		*d = Date{}
		return nil
	}
	*d = parsed
	return nil
}

// MarshalJSON writes RFC-3339, or null when missing.
func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(d.Time.Format(time.RFC3339))
}

// String returns the date part, or an empty string when missing.
func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.Format(time.DateOnly)
}
