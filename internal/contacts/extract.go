package contacts

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/malotru/jourj/internal/birthday"
	"github.com/malotru/jourj/internal/config"
)

// Extractor pulls the current set of contacts-with-birthdays from a Source
// in one pass. It holds no state of its own: the same external content
// always yields the same snapshot.
type Extractor struct {
	Source Source
	Clock  Clock

	// Groups resolves resource-backed system group titles. Optional; when
	// nil, such groups fall through to their system identifier.
	Groups GroupResolver
}

// working accumulates per-contact data across the scan and merge steps.
type working struct {
	name     string
	birthday string
	starred  bool
	visible  bool
	photoRef string
	labels   []string
	actions  Actions
}

// Snapshot extracts the full contact snapshot. Contacts with unparseable
// birthdays never reach the output; groups that cannot be named are dropped
// silently. An empty store yields an empty snapshot, not an error.
func (e *Extractor) Snapshot(ctx context.Context) ([]Contact, error) {
	start := time.Now()
	log := slog.With(config.LogKeyComponent, config.CompExtractor)

	groupNames, err := e.resolveGroups(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", config.ErrSnapshotFailed, err)
	}

	rows, err := e.Source.Birthdays(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", config.ErrSnapshotFailed, err)
	}

	// First birthday row wins per contact id; duplicates are ignored.
	recs := make(map[string]*working, len(rows))
	var order []string
	for _, row := range rows {
		if _, dup := recs[row.ContactID]; dup {
			log.Debug(config.MsgDupBirthday, config.LogKeyID, row.ContactID)
			continue
		}
		if _, _, err := birthday.Parse(row.Birthday); err != nil {
			log.Debug(config.MsgSkippedDate,
				config.LogKeyID, row.ContactID,
				config.LogKeyValue, row.Birthday,
			)
			continue
		}
		name := row.Name
		if name == "" {
			name = config.FallbackName
		}
		recs[row.ContactID] = &working{
			name:     name,
			birthday: row.Birthday,
			starred:  row.Starred,
			visible:  row.Visible,
			photoRef: row.PhotoRef,
		}
		order = append(order, row.ContactID)
	}

	if err := e.mergeData(ctx, order, recs, groupNames); err != nil {
		return nil, fmt.Errorf("%s: %w", config.ErrSnapshotFailed, err)
	}

	now := e.Clock.Now()
	snapshot := make([]Contact, 0, len(order))
	for _, id := range order {
		snapshot = append(snapshot, finalize(id, recs[id], now))
	}

	log.Info(config.MsgSnapshotDone,
		slog.Group(config.LogKeyStats,
			slog.Int(config.LogKeyTotal, len(rows)),
			slog.Int(config.LogKeyFound, len(snapshot)),
		),
		config.LogKeyDuration, time.Since(start).Milliseconds(),
	)
	return snapshot, nil
}

// resolveGroups maps every group id to a human-readable name. Resolution
// tries the explicit title, then a localized resource lookup, then the raw
// system identifier. Groups resolving to nothing are dropped.
func (e *Extractor) resolveGroups(ctx context.Context) (map[string]string, error) {
	groups, err := e.Source.Groups(ctx)
	if err != nil {
		return nil, err
	}

	names := make(map[string]string, len(groups))
	for _, g := range groups {
		name := g.Title
		if name == "" && g.ResPackage != "" && e.Groups != nil {
			if resolved, ok := e.Groups.Resolve(g.ResPackage, g.SystemID); ok {
				name = resolved
			}
		}
		if name == "" {
			name = g.SystemID
		}
		name = strings.TrimPrefix(name, config.SystemGroupPrefix)
		if name == "" {
			slog.Debug(config.MsgSkippedGroup,
				config.LogKeyComponent, config.CompExtractor,
				config.LogKeyGroup, g.ID,
			)
			continue
		}
		names[g.ID] = name
	}
	return names, nil
}

// mergeData batch-fetches the auxiliary rows for the discovered contact ids,
// chunked to respect external query limits, and merges them into recs.
func (e *Extractor) mergeData(ctx context.Context, ids []string, recs map[string]*working, groupNames map[string]string) error {
	for start := 0; start < len(ids); start += config.DataChunkSize {
		end := start + config.DataChunkSize
		if end > len(ids) {
			end = len(ids)
		}

		rows, err := e.Source.Data(ctx, ids[start:end])
		if err != nil {
			return err
		}

		for _, row := range rows {
			rec, ok := recs[row.ContactID]
			if !ok {
				continue
			}
			switch row.Mime {
			case config.MimeGroupMembership:
				if name, ok := groupNames[row.Value]; ok {
					rec.labels = append(rec.labels, name)
				}
			case config.MimePhone:
				if rec.actions.Phone == "" {
					rec.actions.Phone = row.Value
				}
			case config.MimeEmail:
				if rec.actions.Email == "" {
					rec.actions.Email = row.Value
				}
			case config.MimeWhatsApp:
				rec.actions.WhatsApp = true
			case config.MimeSignal:
				rec.actions.Signal = true
			case config.MimeTelegram:
				rec.actions.Telegram = true
			}
		}
	}
	return nil
}

// finalize computes birthday math, assembles the label set, and resolves the
// photo reference for one working record.
func finalize(id string, rec *working, now time.Time) Contact {
	age, remaining := birthday.AgeAndRemaining(rec.birthday, now)

	photo := rec.photoRef
	if photo == "" {
		photo = fmt.Sprintf(config.FormatPhotoFallback, id)
	}

	seen := make(map[string]struct{}, len(rec.labels)+2)
	var labels []string
	add := func(l string) {
		if _, ok := seen[l]; ok {
			return
		}
		seen[l] = struct{}{}
		labels = append(labels, l)
	}
	if rec.visible {
		add(config.LabelAllContacts)
	}
	if rec.starred {
		add(config.LabelStarred)
	}
	for _, l := range rec.labels {
		add(l)
	}
	sort.Strings(labels)
	if len(labels) == 0 {
		labels = []string{config.LabelUnlabeled}
	}

	return Contact{
		ID:            id,
		Name:          rec.name,
		Birthday:      rec.birthday,
		Labels:        labels,
		Age:           age,
		RemainingDays: remaining,
		Actions:       rec.actions,
		PhotoRef:      photo,
	}
}
