package settings

import (
	"fmt"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/angelmondragon/advanced-shipping/internal/shipping"
	"github.com/angelmondragon/advanced-shipping/pkg/enums"
	pkgerrors "github.com/angelmondragon/advanced-shipping/pkg/errors"
	"github.com/angelmondragon/advanced-shipping/pkg/types"
)

var imageURLValidator = validator.New(validator.WithRequiredStructEnabled())

// FieldError names a rejected field in an admin payload.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// SanitizeRules normalizes the rules submitted by an admin. Dates must be
// strict YYYY-MM-DD; anything else is reported as a validation error listing
// every offending field.
func SanitizeRules(docs map[string]types.RuleDocument, hidden []shipping.MethodID) (map[string]types.RuleDocument, error) {
	out := make(map[string]types.RuleDocument, len(docs))
	hiddenSet := Settings{HiddenMethods: hidden}
	var problems []FieldError

	for rawID, doc := range docs {
		id := strings.TrimSpace(rawID)
		if id == "" {
			problems = append(problems, FieldError{Field: "method_id", Message: "required"})
			continue
		}
		if hiddenSet.IsHidden(shipping.MethodID(id)) {
			continue
		}
		clean, fieldErrs := sanitizeRule(id, doc)
		problems = append(problems, fieldErrs...)
		out[id] = clean
	}

	if len(problems) > 0 {
		sort.Slice(problems, func(i, j int) bool { return problems[i].Field < problems[j].Field })
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid shipping rules").WithDetails(problems)
	}
	return out, nil
}

func sanitizeRule(id string, doc types.RuleDocument) (types.RuleDocument, []FieldError) {
	var problems []FieldError
	checkDate := func(field, value string, required bool) (types.Date, string) {
		value = strings.TrimSpace(value)
		if value == "" {
			if required {
				problems = append(problems, FieldError{Field: field, Message: "required"})
			}
			return types.Date{}, ""
		}
		d, err := types.ParseDate(value)
		if err != nil {
			problems = append(problems, FieldError{Field: field, Message: err.Error()})
			return types.Date{}, ""
		}
		return d, d.String()
	}

	ruleType, err := enums.ParseRuleType(doc.Type)
	if err != nil {
		ruleType = enums.RuleTypeASAP
	}
	clean := types.RuleDocument{Type: ruleType.String()}

	if ruleType == enums.RuleTypeByDate {
		type entry struct {
			date types.Date
			doc  types.ReservationDateDocument
		}
		var entries []entry
		for i, raw := range doc.Dates {
			prefix := fmt.Sprintf("%s.dates[%d]", id, i)
			if strings.TrimSpace(raw.Date) == "" {
				continue
			}
			d, iso := checkDate(prefix+".date", raw.Date, true)
			_, until := checkDate(prefix+".show_until", raw.ShowUntil, false)
			if iso == "" {
				continue
			}
			entries = append(entries, entry{date: d, doc: types.ReservationDateDocument{
				Date:       iso,
				Label:      strings.TrimSpace(raw.Label),
				ShowUntil:  until,
				Categories: sanitizeCategories(raw.Categories),
			}})
		}
		sort.SliceStable(entries, func(i, j int) bool { return entries[i].date.Before(entries[j].date) })
		for _, e := range entries {
			clean.Dates = append(clean.Dates, e.doc)
		}
		return clean, problems
	}

	clean.SendingDays = sanitizeSendingDays(doc.SendingDays)
	clean.MaxShipDays = doc.MaxShipDays
	if clean.MaxShipDays < 0 {
		clean.MaxShipDays = 0
	}
	clean.Categories = sanitizeCategories(doc.Categories)
	for i, raw := range doc.PriorityDays {
		if strings.TrimSpace(raw.Date) == "" {
			continue
		}
		_, iso := checkDate(fmt.Sprintf("%s.priority_days[%d].date", id, i), raw.Date, true)
		if iso == "" {
			continue
		}
		clean.PriorityDays = append(clean.PriorityDays, types.PriorityDayDocument{
			Date:       iso,
			Categories: sanitizeCategories(raw.Categories),
		})
	}
	return clean, problems
}

func sanitizeSendingDays(days []int) []int {
	seen := make(map[int]struct{}, len(days))
	out := make([]int, 0, len(days))
	for _, day := range days {
		if !shipping.Weekday(day).IsValid() {
			continue
		}
		if _, ok := seen[day]; ok {
			continue
		}
		seen[day] = struct{}{}
		out = append(out, day)
	}
	sort.Ints(out)
	return out
}

func sanitizeCategories(ids []int64) []int64 {
	seen := make(map[int64]struct{}, len(ids))
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		if id <= 0 {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// SanitizeKey lowercases key and keeps only letters, digits, dashes and
// underscores.
func SanitizeKey(key string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(key) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '_' || r == '-' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// sanitizeMethodKey applies SanitizeKey to the method and instance parts.
func sanitizeMethodKey(key string) string {
	base, instance, found := strings.Cut(strings.TrimSpace(key), ":")
	base = SanitizeKey(base)
	if !found || base == "" {
		return base
	}
	if instance = SanitizeKey(instance); instance == "" {
		return base
	}
	return base + ":" + instance
}

func validImageURL(raw string) bool {
	return imageURLValidator.Var(raw, "http_url") == nil
}

// sanitizePickupLocations drops locations without a name or method id and
// keeps the first location per method id.
func sanitizePickupLocations(locations []types.PickupLocationDocument) ([]types.PickupLocationDocument, []FieldError) {
	var problems []FieldError
	out := make([]types.PickupLocationDocument, 0, len(locations))
	seen := make(map[string]struct{}, len(locations))
	for i, loc := range locations {
		name := strings.Join(strings.Fields(loc.Name), " ")
		id := SanitizeKey(loc.MethodID)
		if name == "" || id == "" {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		image := strings.TrimSpace(loc.ImageURL)
		if image != "" && !validImageURL(image) {
			problems = append(problems, FieldError{
				Field:   fmt.Sprintf("settings.pickup_locations[%d].image_url", i),
				Message: "must be an absolute http(s) URL",
			})
			continue
		}
		seen[id] = struct{}{}
		out = append(out, types.PickupLocationDocument{Name: name, MethodID: id, ImageURL: image})
	}
	return out, problems
}

func sanitizeMethodImages(images map[string]string) (map[string]string, []FieldError) {
	var problems []FieldError
	out := make(map[string]string, len(images))
	for raw, image := range images {
		id := sanitizeMethodKey(raw)
		image = strings.TrimSpace(image)
		if id == "" || image == "" {
			continue
		}
		if !validImageURL(image) {
			problems = append(problems, FieldError{
				Field:   fmt.Sprintf("settings.method_images.%s", id),
				Message: "must be an absolute http(s) URL",
			})
			continue
		}
		out[id] = image
	}
	return out, problems
}

// PruneExpired drops reservation dates and priority days that can no longer
// be offered on today. It reports whether anything was removed.
func PruneExpired(doc types.RuleDocument, today types.Date) (types.RuleDocument, bool) {
	changed := false
	expired := func(value string) bool {
		d, err := types.ParseDate(value)
		return err == nil && !today.Before(d)
	}

	if len(doc.Dates) > 0 {
		kept := make([]types.ReservationDateDocument, 0, len(doc.Dates))
		for _, entry := range doc.Dates {
			if expired(entry.Date) || (strings.TrimSpace(entry.ShowUntil) != "" && expired(entry.ShowUntil)) {
				changed = true
				continue
			}
			kept = append(kept, entry)
		}
		doc.Dates = kept
	}
	if len(doc.PriorityDays) > 0 {
		kept := make([]types.PriorityDayDocument, 0, len(doc.PriorityDays))
		for _, entry := range doc.PriorityDays {
			if expired(entry.Date) {
				changed = true
				continue
			}
			kept = append(kept, entry)
		}
		doc.PriorityDays = kept
	}
	return doc, changed
}
