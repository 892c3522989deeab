// Package boards implements the budget, guest and task boards on top of the
// generic workspace items.
package boards

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"

	"wedplan/internal/models/db_models"
	"wedplan/internal/onboarding"
)

// Data decodes an item's JSON payload. A malformed payload reads as empty.
func Data(item db_models.Item) onboarding.Record {
	var r onboarding.Record
	if len(item.Data) == 0 || json.Unmarshal(item.Data, &r) != nil || r == nil {
		return onboarding.Record{}
	}
	return r
}

// ValidateData applies the per-type minimal checks on a user managed item.
func ValidateData(t db_models.ItemType, data onboarding.Record) error {
	var errs []error
	switch t {
	case db_models.ItemTypeExpense:
		amount, ok := data.Number("amount")
		switch {
		case !ok:
			errs = append(errs, errors.New("amount is required"))
		case amount < 0 || math.IsNaN(amount) || math.IsInf(amount, 0):
			errs = append(errs, errors.New("amount must be a non-negative number"))
		}
	case db_models.ItemTypeGuest:
		if data.Text("name") == "" {
			errs = append(errs, errors.New("name is required"))
		}
	case db_models.ItemTypeTask:
		if data.Text("title") == "" {
			errs = append(errs, errors.New("title is required"))
		}
	default:
		errs = append(errs, fmt.Errorf("items of type %q cannot be edited directly", t))
	}
	return errors.Join(errs...)
}

type BudgetStats struct {
	TotalBudget     float64            `json:"totalBudget"`
	TotalSpent      float64            `json:"totalSpent"`
	RemainingBudget float64            `json:"remainingBudget"`
	OverBudget      bool               `json:"overBudget"`
	PercentUsed     float64            `json:"percentUsed"`
	ByCategory      map[string]float64 `json:"byCategory"`
	ExpenseCount    int                `json:"expenseCount"`
	Currency        string             `json:"currency,omitempty"`
}

// ComputeBudget sums the expense amounts against total. Items of other types
// and archived expenses are ignored.
func ComputeBudget(total float64, currency string, items []db_models.Item) BudgetStats {
	stats := BudgetStats{
		TotalBudget: total,
		ByCategory:  map[string]float64{},
		Currency:    currency,
	}

	for _, item := range items {
		if item.Type != db_models.ItemTypeExpense || item.Status == db_models.ItemStatusArchived {
			continue
		}
		data := Data(item)
		amount, ok := data.Number("amount")
		if !ok {
			continue
		}
		category := strings.ToLower(data.Text("category"))
		if category == "" {
			category = "other"
		}

		stats.TotalSpent += amount
		stats.ByCategory[category] += amount
		stats.ExpenseCount++
	}

	stats.RemainingBudget = stats.TotalBudget - stats.TotalSpent
	stats.OverBudget = stats.TotalSpent > stats.TotalBudget
	if stats.TotalBudget > 0 {
		stats.PercentUsed = math.Round(stats.TotalSpent/stats.TotalBudget*1000) / 10
	}
	return stats
}

// Query narrows a board listing.
type Query struct {
	Status string
	Search string
	Sort   string
}

var sortKeys = map[string]bool{
	"": true, "created_at": true, "-created_at": true,
	"amount": true, "-amount": true, "name": true, "due_date": true,
}

func ValidSort(key string) bool {
	return sortKeys[key]
}

var searchFields = []string{"name", "title", "description", "vendor", "email", "notes", "category"}

// Apply filters and sorts items in place of a copy. The default order is
// newest first.
func Apply(items []db_models.Item, q Query) []db_models.Item {
	search := strings.ToLower(strings.TrimSpace(q.Search))

	out := make([]db_models.Item, 0, len(items))
	for _, item := range items {
		if q.Status != "" && !strings.EqualFold(itemStatus(item), q.Status) {
			continue
		}
		if search != "" && !matches(Data(item), search) {
			continue
		}
		out = append(out, item)
	}

	sortItems(out, q.Sort)
	return out
}

func matches(data onboarding.Record, search string) bool {
	for _, f := range searchFields {
		if strings.Contains(strings.ToLower(data.Text(f)), search) {
			return true
		}
	}
	return false
}

func sortItems(items []db_models.Item, key string) {
	less := func(a, b db_models.Item) bool { return a.CreatedAt > b.CreatedAt }

	switch key {
	case "created_at":
		less = func(a, b db_models.Item) bool { return a.CreatedAt < b.CreatedAt }
	case "amount", "-amount":
		desc := key == "-amount"
		less = func(a, b db_models.Item) bool {
			x, _ := Data(a).Number("amount")
			y, _ := Data(b).Number("amount")
			if desc {
				return x > y
			}
			return x < y
		}
	case "name":
		less = func(a, b db_models.Item) bool {
			return strings.ToLower(label(Data(a))) < strings.ToLower(label(Data(b)))
		}
	case "due_date":
		// ISO dates sort lexically; items without a date go last.
		less = func(a, b db_models.Item) bool {
			x, y := Data(a).Text("due_date"), Data(b).Text("due_date")
			if x == "" || y == "" {
				return x != "" && y == ""
			}
			return x < y
		}
	}

	sort.SliceStable(items, func(i, j int) bool { return less(items[i], items[j]) })
}

func label(data onboarding.Record) string {
	if name := data.Text("name"); name != "" {
		return name
	}
	return data.Text("title")
}

// itemStatus is the board status of an item: the guest RSVP, the task state,
// or the row status for everything else.
func itemStatus(item db_models.Item) string {
	data := Data(item)
	switch item.Type {
	case db_models.ItemTypeGuest:
		if s := data.Text("rsvp"); s != "" {
			return strings.ToLower(s)
		}
		return "pending"
	case db_models.ItemTypeTask:
		if data.Bool("completed") {
			return "done"
		}
		if s := data.Text("status"); s != "" {
			return strings.ToLower(s)
		}
		return "todo"
	}
	if item.Status == "" {
		return db_models.ItemStatusActive
	}
	return item.Status
}

// CountByStatus groups items of type t by their board status.
func CountByStatus(items []db_models.Item, t db_models.ItemType) map[string]int {
	counts := map[string]int{}
	for _, item := range items {
		if item.Type == t {
			counts[itemStatus(item)]++
		}
	}
	return counts
}
