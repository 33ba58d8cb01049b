package route

import (
	"strconv"
	"strings"

	"github.com/wayline/wayline/internal/api/models"
)

// Normalized field targets for tabular input.
const (
	fieldAddress = "address"
	fieldNote    = "note"
	fieldStart   = "start"
	fieldEnd     = "end"
)

// FieldRule maps column-name fragments to a normalized field. Rules are
// evaluated in order; the first rule whose pattern appears in the
// lower-cased column name wins.
type FieldRule struct {
	Field    string
	Patterns []string
}

// DefaultFieldRules covers the English and Traditional Chinese column names
// seen in uploaded spreadsheets.
func DefaultFieldRules() []FieldRule {
	return []FieldRule{
		{Field: fieldAddress, Patterns: []string{"address", "地址", "位置"}},
		{Field: fieldNote, Patterns: []string{"note", "備註", "說明"}},
		{Field: fieldStart, Patterns: []string{"start", "起點"}},
		{Field: fieldEnd, Patterns: []string{"end", "終點"}},
	}
}

// baseTruthyTokens are accepted for any boolean role column,
// case-insensitively. Role-specific tokens ("start", "起點", ...) are added
// per rule.
var baseTruthyTokens = []string{"true", "yes", "1", "y"}

// Normalizer converts raw planning input into an ordered list of candidate
// stops with start/end roles assigned.
type Normalizer struct {
	rules []FieldRule
}

// NewNormalizer creates a Normalizer with the given field rules.
// Passing nil uses DefaultFieldRules.
func NewNormalizer(rules []FieldRule) *Normalizer {
	if rules == nil {
		rules = DefaultFieldRules()
	}
	return &Normalizer{rules: rules}
}

// NormalizeManual converts the explicit start/waypoints/end input shape into
// candidate stops. The start point gets sequence 0, waypoints 1..n in listed
// order, and the end point n+1.
func (n *Normalizer) NormalizeManual(input *models.PlanRequest) ([]NormalizedStop, error) {
	if errs := validatePlanRequest(input); len(errs) > 0 {
		return nil, &ValidationError{Errors: errs}
	}

	stops := make([]NormalizedStop, 0, len(input.Waypoints)+2)
	stops = append(stops, NormalizedStop{
		Address: input.StartPoint.Address,
		Note:    input.StartPoint.Note,
		IsStart: true,
	})
	for i, wp := range input.Waypoints {
		stops = append(stops, NormalizedStop{
			Address:  wp.Address,
			Note:     wp.Note,
			Sequence: i + 1,
		})
	}
	stops = append(stops, NormalizedStop{
		Address:  input.EndPoint.Address,
		Note:     input.EndPoint.Note,
		IsEnd:    true,
		Sequence: len(input.Waypoints) + 1,
	})

	return stops, nil
}

// NormalizeRecords converts tabular records (CSV rows, sheet rows) into
// candidate stops. Column names are matched case-insensitively against the
// field rules; rows without a usable address are discarded. Explicit role
// tags always win: the first surviving row only becomes the start when no
// row is tagged as start, and the last row only becomes the end when no row
// is tagged as end and more than one row survived.
func (n *Normalizer) NormalizeRecords(records []map[string]string) ([]NormalizedStop, error) {
	stops := make([]NormalizedStop, 0, len(records))
	for _, record := range records {
		stop := n.normalizeRecord(record)
		if strings.TrimSpace(stop.Address) == "" {
			continue
		}
		stop.Sequence = len(stops)
		stops = append(stops, stop)
	}

	if len(stops) == 0 {
		return nil, &ValidationError{Errors: []models.FieldError{
			{Field: "records", Message: "no usable address rows"},
		}}
	}

	hasStart := false
	hasEnd := false
	for i := range stops {
		hasStart = hasStart || stops[i].IsStart
		hasEnd = hasEnd || stops[i].IsEnd
	}
	if !hasStart {
		stops[0].IsStart = true
	}
	// A single untagged row is the start only; forcing both roles onto it
	// would fabricate a round trip the input never described.
	if !hasEnd && len(stops) > 1 {
		stops[len(stops)-1].IsEnd = true
	}

	return stops, nil
}

// normalizeRecord maps one record's columns onto the normalized fields.
func (n *Normalizer) normalizeRecord(record map[string]string) NormalizedStop {
	var stop NormalizedStop
	for key, value := range record {
		rule, ok := n.matchColumn(key)
		if !ok {
			continue
		}
		switch rule.Field {
		case fieldAddress:
			stop.Address = strings.TrimSpace(value)
		case fieldNote:
			stop.Note = strings.TrimSpace(value)
		case fieldStart:
			stop.IsStart = isTruthy(value, "start", "起點")
		case fieldEnd:
			stop.IsEnd = isTruthy(value, "end", "終點")
		}
	}
	return stop
}

// matchColumn finds the first rule whose pattern appears in the column name.
func (n *Normalizer) matchColumn(name string) (FieldRule, bool) {
	lower := strings.ToLower(name)
	for _, rule := range n.rules {
		for _, pattern := range rule.Patterns {
			if strings.Contains(lower, pattern) {
				return rule, true
			}
		}
	}
	return FieldRule{}, false
}

// isTruthy reports whether a role-column value is one of the accepted
// truthy tokens.
func isTruthy(value string, extra ...string) bool {
	lower := strings.ToLower(strings.TrimSpace(value))
	for _, token := range baseTruthyTokens {
		if lower == token {
			return true
		}
	}
	for _, token := range extra {
		if lower == token {
			return true
		}
	}
	return false
}

// validatePlanRequest validates the manual three-part input.
func validatePlanRequest(input *models.PlanRequest) []models.FieldError {
	var errs []models.FieldError

	if strings.TrimSpace(input.StartPoint.Address) == "" {
		errs = append(errs, models.FieldError{Field: "startPoint.address", Message: "is required"})
	}
	for i, wp := range input.Waypoints {
		if strings.TrimSpace(wp.Address) == "" {
			errs = append(errs, models.FieldError{
				Field:   "waypoints[" + strconv.Itoa(i) + "].address",
				Message: "is required",
			})
		}
	}
	if strings.TrimSpace(input.EndPoint.Address) == "" {
		errs = append(errs, models.FieldError{Field: "endPoint.address", Message: "is required"})
	}

	return errs
}
