// Package onboarding describes the seven-step onboarding flow, the minimal
// checks each step enforces before it is saved, and the aggregation of the
// saved step records into one preference document.
package onboarding

import (
	"fmt"
	"sort"
	"strings"
)

// Step describes one onboarding screen.
type Step struct {
	Number int    `json:"number"`
	Slug   string `json:"slug"`
	Title  string `json:"title"`
	// Key is the preference document key the step's record lands under.
	// Empty for screens that carry no record.
	Key string `json:"key,omitempty"`
}

const (
	WelcomeStep     = 1
	FirstRecordStep = 2
	LastRecordStep  = 6
	SummaryStep     = 7
)

const (
	KeyWeddingStage      = "weddingStage"
	KeyCoupleDetails     = "coupleDetails"
	KeyGuestInfo         = "guestInfo"
	KeyWeddingStyle      = "weddingStyle"
	KeyExperiencesExtras = "experiencesExtras"
)

var steps = []Step{
	{Number: 1, Slug: "welcome", Title: "Welcome"},
	{Number: 2, Slug: "wedding-stage", Title: "Where are you in planning?", Key: KeyWeddingStage},
	{Number: 3, Slug: "couple-details", Title: "About the two of you", Key: KeyCoupleDetails},
	{Number: 4, Slug: "guest-info", Title: "Guests and budget", Key: KeyGuestInfo},
	{Number: 5, Slug: "wedding-style", Title: "Your wedding style", Key: KeyWeddingStyle},
	{Number: 6, Slug: "experiences-extras", Title: "Experiences and extras", Key: KeyExperiencesExtras},
	{Number: 7, Slug: "summary", Title: "Your wedding vision"},
}

// Steps returns the flow in display order.
func Steps() []Step {
	out := make([]Step, len(steps))
	copy(out, steps)
	return out
}

func StepByNumber(n int) (Step, bool) {
	if n < WelcomeStep || n > SummaryStep {
		return Step{}, false
	}
	return steps[n-1], true
}

// HasRecord reports whether step n stores answers.
func HasRecord(n int) bool {
	return n >= FirstRecordStep && n <= LastRecordStep
}

// NextStep returns the first record step without saved answers, or the
// summary step when all of them are present.
func NextStep(saved map[int]bool) int {
	for n := FirstRecordStep; n <= LastRecordStep; n++ {
		if !saved[n] {
			return n
		}
	}
	return SummaryStep
}

// FieldErrors maps a field name to what is wrong with it.
type FieldErrors map[string]string

func (f FieldErrors) Error() string {
	keys := make([]string, 0, len(f))
	for k := range f {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s %s", k, f[k]))
	}
	return strings.Join(parts, "; ")
}

// Validate applies the minimal required-field checks of step n. The result is
// advisory: records are stored as sent either way.
func Validate(n int, data Record) error {
	errs := FieldErrors{}

	switch n {
	case 2:
		if data.Text("stage") == "" {
			errs["stage"] = "is required"
		}
	case 3:
		if data.Text("partner1Name") == "" {
			errs["partner1Name"] = "is required"
		}
		if data.Text("partner2Name") == "" {
			errs["partner2Name"] = "is required"
		}
		if data.Text("weddingDate") == "" && !data.Bool("dateUndecided") {
			errs["weddingDate"] = "is required unless dateUndecided is set"
		}
	case 4:
		count, ok := data.Number("guestCount")
		if !ok {
			errs["guestCount"] = "is required"
		} else if count < 0 {
			errs["guestCount"] = "must not be negative"
		}
		if amount, ok := budgetAmount(data); ok && amount < 0 {
			errs["budget"] = "must not be negative"
		}
	case 5:
		if data.Text("theme") == "" {
			errs["theme"] = "is required"
		}
	}

	if len(errs) == 0 {
		return nil
	}
	return errs
}
