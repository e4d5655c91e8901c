package export

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/verte-zerg/studyflow/internal/model"
)

// Layouts without a zone are read in the caller's location.
var timeLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04",
	"2006-01-02",
}

type importRecord struct {
	Topic          string `json:"topic"`
	Score          int    `json:"score"`
	TotalQuestions int    `json:"totalQuestions"`
	OccurredAt     string `json:"occurredAt"`
}

// DecodeRecords reads practice records from r. The input is either a JSON array
// of records or an export bundle, whose detailedHistory is used.
// Timestamps that cannot be parsed yield undated records.
func DecodeRecords(r io.Reader, loc *time.Location) ([]model.PracticeRecord, error) {
	if loc == nil {
		loc = time.Local
	}
	br := bufio.NewReader(r)
	first, err := peekNonSpace(br)
	if err != nil {
		return nil, fmt.Errorf("failed to read records: %w", err)
	}

	var raw []importRecord
	dec := json.NewDecoder(br)
	switch first {
	case '[':
		err = dec.Decode(&raw)
	case '{':
		var bundle struct {
			DetailedHistory []importRecord `json:"detailedHistory"`
		}
		err = dec.Decode(&bundle)
		raw = bundle.DetailedHistory
	default:
		return nil, fmt.Errorf("unexpected input: want JSON array or export bundle")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to decode records: %w", err)
	}

	records := make([]model.PracticeRecord, 0, len(raw))
	for _, item := range raw {
		records = append(records, model.PracticeRecord{
			Topic:          strings.TrimSpace(item.Topic),
			Score:          item.Score,
			TotalQuestions: item.TotalQuestions,
			OccurredAt:     ParseTime(item.OccurredAt, loc),
		})
	}
	return records, nil
}

// ParseTime parses value with the accepted layouts. It returns the zero time on failure.
func ParseTime(value string, loc *time.Location) time.Time {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}
	}
	if loc == nil {
		loc = time.Local
	}
	for _, layout := range timeLayouts {
		if t, err := time.ParseInLocation(layout, value, loc); err == nil {
			return t
		}
	}
	return time.Time{}
}

func peekNonSpace(br *bufio.Reader) (byte, error) {
	for {
		b, err := br.ReadByte()
		if err != nil {
			return 0, err
		}
		switch b {
		case ' ', '\t', '\r', '\n':
			continue
		}
		if err := br.UnreadByte(); err != nil {
			return 0, err
		}
		return b, nil
	}
}
