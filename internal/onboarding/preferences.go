package onboarding

import (
	"encoding/json"
	"strconv"
	"strings"
)

// Record is the free-form answer object of one step.
type Record map[string]any

func (r Record) Text(key string) string {
	switch v := r[key].(type) {
	case string:
		return strings.TrimSpace(v)
	case json.Number:
		return v.String()
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	}
	return ""
}

// Number reads a numeric field. Numeric strings are accepted since form
// inputs often send them.
func (r Record) Number(key string) (float64, bool) {
	switch v := r[key].(type) {
	case float64:
		return v, true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	case json.Number:
		f, err := v.Float64()
		return f, err == nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		return f, err == nil
	}
	return 0, false
}

func (r Record) Bool(key string) bool {
	switch v := r[key].(type) {
	case bool:
		return v
	case string:
		b, _ := strconv.ParseBool(v)
		return b
	}
	return false
}

func (r Record) Strings(key string) []string {
	switch v := r[key].(type) {
	case []string:
		return v
	case []any:
		out := make([]string, 0, len(v))
		for _, e := range v {
			if s, ok := e.(string); ok && strings.TrimSpace(s) != "" {
				out = append(out, strings.TrimSpace(s))
			}
		}
		return out
	case string:
		if strings.TrimSpace(v) == "" {
			return nil
		}
		return []string{strings.TrimSpace(v)}
	}
	return nil
}

func (r Record) Object(key string) Record {
	switch v := r[key].(type) {
	case map[string]any:
		return Record(v)
	case Record:
		return v
	}
	return nil
}

// Preferences is the aggregated onboarding document. A step without a saved
// record leaves its key absent.
type Preferences struct {
	WeddingStage      Record `json:"weddingStage"`
	CoupleDetails     Record `json:"coupleDetails"`
	GuestInfo         Record `json:"guestInfo"`
	WeddingStyle      Record `json:"weddingStyle"`
	ExperiencesExtras Record `json:"experiencesExtras"`
}

// MarshalJSON writes only the keys whose step has a record, so an answered
// but empty step still appears and an unanswered one does not.
func (p Preferences) MarshalJSON() ([]byte, error) {
	out := make(map[string]Record, LastRecordStep-FirstRecordStep+1)
	for _, s := range steps {
		if r := p.record(s.Key); r != nil {
			out[s.Key] = r
		}
	}
	return json.Marshal(out)
}

// Aggregate merges step records keyed by step number.
func Aggregate(records map[int]Record) Preferences {
	return Preferences{
		WeddingStage:      records[2],
		CoupleDetails:     records[3],
		GuestInfo:         records[4],
		WeddingStyle:      records[5],
		ExperiencesExtras: records[6],
	}
}

// Keys lists the top-level keys present in the document.
func (p Preferences) Keys() []string {
	var keys []string
	for _, s := range steps {
		if s.Key != "" && p.record(s.Key) != nil {
			keys = append(keys, s.Key)
		}
	}
	return keys
}

// Missing lists the record steps that have no saved answers.
func (p Preferences) Missing() []int {
	var missing []int
	for _, s := range steps {
		if s.Key != "" && p.record(s.Key) == nil {
			missing = append(missing, s.Number)
		}
	}
	return missing
}

func (p Preferences) record(key string) Record {
	switch key {
	case KeyWeddingStage:
		return p.WeddingStage
	case KeyCoupleDetails:
		return p.CoupleDetails
	case KeyGuestInfo:
		return p.GuestInfo
	case KeyWeddingStyle:
		return p.WeddingStyle
	case KeyExperiencesExtras:
		return p.ExperiencesExtras
	}
	return nil
}

func (p Preferences) CoupleNames() (string, string) {
	return p.CoupleDetails.Text("partner1Name"), p.CoupleDetails.Text("partner2Name")
}

// CoupleTitle renders "Alex & Sam", falling back gracefully when names are missing.
func (p Preferences) CoupleTitle() string {
	a, b := p.CoupleNames()
	switch {
	case a != "" && b != "":
		return a + " & " + b
	case a != "":
		return a
	case b != "":
		return b
	}
	return ""
}

func (p Preferences) WeddingDate() string {
	if p.CoupleDetails.Bool("dateUndecided") {
		return ""
	}
	return p.CoupleDetails.Text("weddingDate")
}

func (p Preferences) GuestCount() int {
	n, _ := p.GuestInfo.Number("guestCount")
	return int(n)
}

// Budget reads guestInfo.budget either as {amount, currency} or as a plain
// number next to a currency field.
func (p Preferences) Budget() (float64, string, bool) {
	amount, ok := budgetAmount(p.GuestInfo)
	if !ok {
		return 0, "", false
	}
	currency := p.GuestInfo.Object("budget").Text("currency")
	if currency == "" {
		currency = p.GuestInfo.Text("currency")
	}
	return amount, strings.ToUpper(currency), true
}

func budgetAmount(r Record) (float64, bool) {
	if obj := r.Object("budget"); obj != nil {
		return obj.Number("amount")
	}
	return r.Number("budget")
}

func (p Preferences) Theme() string {
	return p.WeddingStyle.Text("theme")
}

func (p Preferences) CeremonyType() string {
	if v := p.WeddingStyle.Text("ceremonyType"); v != "" {
		return v
	}
	return p.ExperiencesExtras.Text("ceremonyType")
}

func (p Preferences) Colors() []string {
	return p.WeddingStyle.Strings("colors")
}

func (p Preferences) Stage() string {
	return p.WeddingStage.Text("stage")
}

func (p Preferences) Experiences() []string {
	return p.ExperiencesExtras.Strings("experiences")
}

// WantsDesserts reports whether the couple asked for a desserts experience.
func (p Preferences) WantsDesserts() bool {
	if p.ExperiencesExtras.Bool("desserts") {
		return true
	}
	for _, e := range p.Experiences() {
		if strings.Contains(strings.ToLower(e), "dessert") {
			return true
		}
	}
	return false
}
