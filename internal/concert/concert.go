package concert

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"
)

// TimestampLayout is the ISO-8601 form used throughout the dataset file.
const TimestampLayout = "2006-01-02T15:04:05.000Z"

// Status values for seats and parking tickets. Only StatusAvailable is ever
// written by this job; the rest belong to the website's ticket flow.
type Status string

const (
	StatusAvailable Status = "available"
	StatusReserved  Status = "reserved"
	StatusPending   Status = "pending"
	StatusSold      Status = "sold"
)

// Timestamp is a UTC instant serialized as TimestampLayout.
type Timestamp time.Time

// NewTimestamp wraps t, normalized to UTC.
func NewTimestamp(t time.Time) Timestamp {
	return Timestamp(t.UTC())
}

// Time returns the underlying time.Time.
func (t Timestamp) Time() time.Time {
	return time.Time(t)
}

// IsZero reports whether t is the zero instant
func (t Timestamp) IsZero() bool {
	return time.Time(t).IsZero()
}

func (t Timestamp) String() string {
	return time.Time(t).UTC().Format(TimestampLayout)
}

// MarshalJSON implements json.Marshaler.
func (t Timestamp) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

// UnmarshalJSON accepts any RFC 3339 timestamp; an empty string yields the zero value.
func (t *Timestamp) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("timestamp must be a string: %w", err)
	}
	if s == "" {
		*t = Timestamp{}
		return nil
	}
	parsed, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return fmt.Errorf("parsing timestamp %q: %w", s, err)
	}
	*t = NewTimestamp(parsed)
	return nil
}

// Candidate is a concert found on the listing page that has not been persisted.
type Candidate struct {
	Artist string    `json:"artist"`
	Date   time.Time `json:"date"`
}

// Seat is one suite seat of a concert.
type Seat struct {
	Status                    Status            `json:"status"`
	Cost                      float64           `json:"cost"`
	ModificationHistory       []json.RawMessage `json:"modificationHistory"`
	LastModifiedDate          Timestamp         `json:"lastModifiedDate"`
	ConflictResolutionVersion int               `json:"conflictResolutionVersion"`
}

// ParkingTicket is the parking pass attached to a concert.
type ParkingTicket struct {
	Status Status  `json:"status"`
	Cost   float64 `json:"cost"`
}

// Concert is a persisted concert record.
//
// A Concert decoded from JSON remembers its source bytes and encodes back to
// exactly those bytes, so fields owned by other writers are never rewritten.
type Concert struct {
	SharedVersion    int           `json:"sharedVersion"`
	Seats            []Seat        `json:"seats"`
	Date             Timestamp     `json:"date"`
	ID               int           `json:"id"`
	ParkingTicket    ParkingTicket `json:"parkingTicket"`
	LastModifiedDate Timestamp     `json:"lastModifiedDate"`
	Artist           string        `json:"artist"`

	raw json.RawMessage
}

// concertFields has Concert's layout without its JSON methods.
type concertFields Concert

// UnmarshalJSON implements json.Unmarshaler.
func (c *Concert) UnmarshalJSON(data []byte) error {
	var f concertFields
	if err := json.Unmarshal(data, &f); err != nil {
		return err
	}
	*c = Concert(f)
	c.raw = append(json.RawMessage(nil), data...)
	return nil
}

// MarshalJSON implements json.Marshaler.
func (c Concert) MarshalJSON() ([]byte, error) {
	if c.raw != nil {
		return c.raw, nil
	}
	return encodeJSON(concertFields(c))
}

// Persisted reports whether the record was loaded from an existing dataset.
func (c Concert) Persisted() bool {
	return c.raw != nil
}

// Dataset is the document stored in the concerts JSON file.
//
// Top-level members other than backupDate and concerts are kept as read and
// written back in their original position.
type Dataset struct {
	BackupDate Timestamp `json:"backupDate"`
	Concerts   []Concert `json:"concerts"`

	members []member
}

// member is one top-level key of a decoded dataset document, in file order.
// Known keys carry no value; it is taken from the Dataset fields on encode.
type member struct {
	key   string
	value json.RawMessage
}

const (
	backupDateKey = "backupDate"
	concertsKey   = "concerts"
)

type datasetFields Dataset

// UnmarshalJSON implements json.Unmarshaler.
func (d *Dataset) UnmarshalJSON(data []byte) error {
	var f datasetFields
	if err := json.Unmarshal(data, &f); err != nil {
		return err
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	if _, err := dec.Token(); err != nil {
		return err
	}
	var members []member
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		key, _ := tok.(string)

		var value json.RawMessage
		if err := dec.Decode(&value); err != nil {
			return err
		}
		if key == backupDateKey || key == concertsKey {
			value = nil
		}
		members = append(members, member{key: key, value: value})
	}

	*d = Dataset(f)
	d.members = members
	return nil
}

// MarshalJSON implements json.Marshaler.
func (d Dataset) MarshalJSON() ([]byte, error) {
	members := d.members
	if !hasMember(members, backupDateKey) {
		members = append([]member{{key: backupDateKey}}, members...)
	}
	if !hasMember(members, concertsKey) {
		members = append(members, member{key: concertsKey})
	}

	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, m := range members {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := encodeJSON(m.key)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')

		value := []byte(m.value)
		switch m.key {
		case backupDateKey:
			value, err = encodeJSON(d.BackupDate)
		case concertsKey:
			concerts := d.Concerts
			if concerts == nil {
				concerts = []Concert{}
			}
			value, err = encodeJSON(concerts)
		}
		if err != nil {
			return nil, err
		}
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func hasMember(members []member, key string) bool {
	for _, m := range members {
		if m.key == key {
			return true
		}
	}
	return false
}

// MaxID returns the largest concert id, or 0 for an empty dataset.
func (d *Dataset) MaxID() int {
	max := 0
	for _, c := range d.Concerts {
		if c.ID > max {
			max = c.ID
		}
	}
	return max
}

// encodeJSON marshals v without escaping &, < and >, matching the file the
// website ships.
func encodeJSON(v interface{}) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}
