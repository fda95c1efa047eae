package settings

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/angelmondragon/advanced-shipping/internal/shipping"
	"github.com/angelmondragon/advanced-shipping/pkg/db/models"
	"github.com/angelmondragon/advanced-shipping/pkg/enums"
	pkgerrors "github.com/angelmondragon/advanced-shipping/pkg/errors"
	"github.com/angelmondragon/advanced-shipping/pkg/logger"
	pkgredis "github.com/angelmondragon/advanced-shipping/pkg/redis"
	"github.com/angelmondragon/advanced-shipping/pkg/types"
)

// Cache stores the raw settings documents between requests.
type Cache interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error
	SettingsSnapshotKey() string
}

// ServiceParams groups dependencies for the settings service.
type ServiceParams struct {
	Repo     *Repository
	Cache    Cache
	CacheTTL time.Duration
	Logger   *logger.Logger
}

// View is the admin representation of the store settings.
type View struct {
	Settings types.SettingsDocument  `json:"settings"`
	Holidays []types.HolidayDocument `json:"holidays"`
}

// Service owns shipping rules, holidays and store settings.
type Service interface {
	Snapshot(ctx context.Context) (Snapshot, error)
	RuleDocuments(ctx context.Context) (map[string]types.RuleDocument, error)
	SaveRules(ctx context.Context, docs map[string]types.RuleDocument) (map[string]types.RuleDocument, error)
	SettingsView(ctx context.Context) (View, error)
	SaveSettings(ctx context.Context, view View) (View, error)
	PruneExpiredDates(ctx context.Context, today types.Date) (int, error)
}

type service struct {
	repo     *Repository
	cache    Cache
	cacheTTL time.Duration
	logg     *logger.Logger
}

type documents struct {
	Rules    map[string]types.RuleDocument `json:"rules"`
	Holidays []types.HolidayDocument       `json:"holidays"`
	Settings types.SettingsDocument        `json:"settings"`
}

// NewService builds a settings service. The cache is optional.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "settings repo is required")
	}
	ttl := params.CacheTTL
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &service{
		repo:     params.Repo,
		cache:    params.Cache,
		cacheTTL: ttl,
		logg:     params.Logger,
	}, nil
}

// Snapshot resolves the stored documents into evaluation-ready values.
// Dates that fail to parse are logged and never offered.
func (s *service) Snapshot(ctx context.Context) (Snapshot, error) {
	docs, err := s.loadDocuments(ctx)
	if err != nil {
		return Snapshot{}, err
	}

	resolved := ResolveSettings(docs.Settings)
	holidays, warnings := ResolveHolidays(docs.Holidays)
	if warnings != nil {
		s.warn(ctx, fmt.Sprintf("settings: skipped holidays: %v", warnings))
	}
	rules, warnings := ResolveRules(docs.Rules, resolved.HiddenMethods)
	if warnings != nil {
		s.warn(ctx, fmt.Sprintf("settings: unparseable rule dates: %v", warnings))
	}

	return Snapshot{Rules: rules, Holidays: holidays, Settings: resolved}, nil
}

func (s *service) loadDocuments(ctx context.Context) (documents, error) {
	if docs, ok := s.readCache(ctx); ok {
		return docs, nil
	}

	var docs documents
	rules, err := s.RuleDocuments(ctx)
	if err != nil {
		return documents{}, err
	}
	docs.Rules = rules

	holidays, err := s.repo.ListHolidays(ctx)
	if err != nil {
		return documents{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list holidays")
	}
	docs.Holidays = holidayDocuments(holidays)

	settingsDoc, _, err := s.repo.GetSettings(ctx)
	if err != nil {
		return documents{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load store settings")
	}
	docs.Settings = settingsDoc

	s.writeCache(ctx, docs)
	return docs, nil
}

func (s *service) readCache(ctx context.Context) (documents, bool) {
	if s.cache == nil {
		return documents{}, false
	}
	raw, err := s.cache.Get(ctx, s.cache.SettingsSnapshotKey())
	if err != nil {
		if !pkgredis.IsNil(err) {
			s.warn(ctx, fmt.Sprintf("settings: cache read failed: %v", err))
		}
		return documents{}, false
	}
	var docs documents
	if err := json.Unmarshal([]byte(raw), &docs); err != nil {
		s.warn(ctx, fmt.Sprintf("settings: discarding corrupt cache entry: %v", err))
		return documents{}, false
	}
	return docs, true
}

func (s *service) writeCache(ctx context.Context, docs documents) {
	if s.cache == nil {
		return
	}
	payload, err := json.Marshal(docs)
	if err != nil {
		s.warn(ctx, fmt.Sprintf("settings: encode cache entry: %v", err))
		return
	}
	if err := s.cache.Set(ctx, s.cache.SettingsSnapshotKey(), string(payload), s.cacheTTL); err != nil {
		s.warn(ctx, fmt.Sprintf("settings: cache write failed: %v", err))
	}
}

func (s *service) invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Del(ctx, s.cache.SettingsSnapshotKey()); err != nil {
		s.warn(ctx, fmt.Sprintf("settings: cache invalidation failed: %v", err))
	}
}

func (s *service) warn(ctx context.Context, msg string) {
	if s.logg != nil {
		s.logg.Warn(ctx, msg)
	}
}

// RuleDocuments returns the stored rules keyed by method id.
func (s *service) RuleDocuments(ctx context.Context) (map[string]types.RuleDocument, error) {
	rows, err := s.repo.ListRules(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list shipping rules")
	}
	out := make(map[string]types.RuleDocument, len(rows))
	for _, row := range rows {
		out[row.MethodID] = row.Document
	}
	return out, nil
}

// SaveRules sanitizes and replaces the full rule set.
func (s *service) SaveRules(ctx context.Context, docs map[string]types.RuleDocument) (map[string]types.RuleDocument, error) {
	settingsDoc, _, err := s.repo.GetSettings(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load store settings")
	}
	hidden := ResolveSettings(settingsDoc).HiddenMethods

	clean, err := SanitizeRules(docs, hidden)
	if err != nil {
		return nil, err
	}

	rows := make([]models.ShippingRule, 0, len(clean))
	for id, doc := range clean {
		rows = append(rows, models.ShippingRule{
			MethodID: id,
			RuleType: enums.RuleType(doc.Type),
			Document: doc,
		})
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].MethodID < rows[j].MethodID })

	if err := s.repo.Transaction(ctx, func(tx *Repository) error {
		return tx.ReplaceRules(ctx, rows)
	}); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save shipping rules")
	}
	s.invalidate(ctx)
	if s.logg != nil {
		s.logg.Info(s.logg.WithField(ctx, "rules", len(rows)), "settings: shipping rules saved")
	}
	return clean, nil
}

// SettingsView returns the stored settings document and holidays.
func (s *service) SettingsView(ctx context.Context) (View, error) {
	doc, _, err := s.repo.GetSettings(ctx)
	if err != nil {
		return View{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load store settings")
	}
	holidays, err := s.repo.ListHolidays(ctx)
	if err != nil {
		return View{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list holidays")
	}
	return View{Settings: doc, Holidays: holidayDocuments(holidays)}, nil
}

// SaveSettings validates and stores the settings and holidays. Rules of
// methods that become hidden are removed.
func (s *service) SaveSettings(ctx context.Context, view View) (View, error) {
	doc, holidays, err := sanitizeSettings(view)
	if err != nil {
		return View{}, err
	}

	hidden := ResolveSettings(doc).HiddenMethods
	err = s.repo.Transaction(ctx, func(tx *Repository) error {
		if err := tx.SaveSettings(ctx, doc); err != nil {
			return err
		}
		if err := tx.ReplaceHolidays(ctx, holidays); err != nil {
			return err
		}
		rules, err := tx.ListRules(ctx)
		if err != nil {
			return err
		}
		filter := Settings{HiddenMethods: hidden}
		var drop []string
		for _, rule := range rules {
			if filter.IsHidden(shipping.MethodID(rule.MethodID)) {
				drop = append(drop, rule.MethodID)
			}
		}
		return tx.DeleteRules(ctx, drop)
	})
	if err != nil {
		return View{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save store settings")
	}
	s.invalidate(ctx)
	return View{Settings: doc, Holidays: holidayDocuments(holidays)}, nil
}

// PruneExpiredDates removes reservation dates and priority days that can no
// longer be offered. It returns the number of rules rewritten.
func (s *service) PruneExpiredDates(ctx context.Context, today types.Date) (int, error) {
	updated := 0
	err := s.repo.Transaction(ctx, func(tx *Repository) error {
		rows, err := tx.ListRules(ctx)
		if err != nil {
			return err
		}
		for _, row := range rows {
			pruned, changed := PruneExpired(row.Document, today)
			if !changed {
				continue
			}
			if err := tx.UpdateRuleDocument(ctx, row.MethodID, pruned); err != nil {
				return err
			}
			updated++
		}
		return nil
	})
	if err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "prune expired dates")
	}
	if updated > 0 {
		s.invalidate(ctx)
	}
	return updated, nil
}

func sanitizeSettings(view View) (types.SettingsDocument, []models.Holiday, error) {
	var problems []FieldError
	doc := view.Settings

	doc.DisplayLocation = strings.TrimSpace(doc.DisplayLocation)
	if doc.DisplayLocation == "" {
		doc.DisplayLocation = enums.DisplayLocationBilling.String()
	} else if _, err := enums.ParseDisplayLocation(doc.DisplayLocation); err != nil {
		problems = append(problems, FieldError{Field: "settings.display_location", Message: err.Error()})
	}

	hidden := make([]string, 0, len(doc.HiddenMethods))
	seen := make(map[string]struct{}, len(doc.HiddenMethods))
	for _, id := range doc.HiddenMethods {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		hidden = append(hidden, id)
	}
	doc.HiddenMethods = hidden

	for id, threshold := range doc.FreeShipping.Thresholds {
		if threshold.IsNegative() {
			problems = append(problems, FieldError{
				Field:   fmt.Sprintf("settings.free_shipping.thresholds.%s", id),
				Message: "must not be negative",
			})
		}
	}

	locations, locationProblems := sanitizePickupLocations(doc.PickupLocations)
	doc.PickupLocations = locations
	problems = append(problems, locationProblems...)
	images, imageProblems := sanitizeMethodImages(doc.MethodImages)
	doc.MethodImages = images
	problems = append(problems, imageProblems...)

	holidays := make([]models.Holiday, 0, len(view.Holidays))
	byDate := make(map[string]struct{}, len(view.Holidays))
	for i, entry := range view.Holidays {
		d, err := types.ParseDate(entry.Date)
		if err != nil {
			problems = append(problems, FieldError{Field: fmt.Sprintf("holidays[%d].date", i), Message: err.Error()})
			continue
		}
		if _, dup := byDate[d.String()]; dup {
			continue
		}
		byDate[d.String()] = struct{}{}
		holidays = append(holidays, models.Holiday{Date: d, Label: strings.TrimSpace(entry.Label)})
	}
	sort.Slice(holidays, func(i, j int) bool { return holidays[i].Date.Before(holidays[j].Date) })

	if len(problems) > 0 {
		return types.SettingsDocument{}, nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid store settings").WithDetails(problems)
	}
	return doc, holidays, nil
}

func holidayDocuments(rows []models.Holiday) []types.HolidayDocument {
	out := make([]types.HolidayDocument, 0, len(rows))
	for _, row := range rows {
		out = append(out, types.HolidayDocument{Date: row.Date.String(), Label: row.Label})
	}
	return out
}
