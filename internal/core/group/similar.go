// Copyright (c) 2026 Pipemill. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package group

import (
	"context"
	"log/slog"
	"sort"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"

	"github.com/taibuivan/pipemill/internal/i18n"
)

// # Retroactive Grouping

/*
GroupSimilar repairs legacy data by grouping rows that describe the same item.

Rows are bucketed by their normalized (name, category): surrounding and repeated
whitespace removed, NFC normalized, case folded. Rows with a blank name are ignored.
Within a bucket only the earliest row per language takes part. The bucket's group
id is the one most of its members already carry (ties go to the earliest row);
when no member has one, a new id is minted.

A row is never moved into a group that already holds a different row of the same
language; such rows are counted as conflicts and left alone.

Only rows whose group id actually changes are written, so a second run on the
same data writes nothing.
*/
func (manager *Manager[R]) GroupSimilar(ctx context.Context) (Report, error) {
	var report Report

	run := func(ctx context.Context, store Store[R]) error {
		report = Report{}
		return manager.groupSimilar(ctx, store, &report)
	}

	var err error
	if tx, ok := manager.store.(Transactor[R]); ok {
		err = tx.WithinTx(ctx, run)
	} else {
		// Each write is an independent repair, so partial progress is safe to keep.
		err = run(ctx, manager.store)
	}
	if err != nil {
		return Report{}, err
	}

	manager.logger.InfoContext(ctx, "translation_groups_repaired",
		slog.Int("scanned", report.Scanned),
		slog.Int("buckets", report.Buckets),
		slog.Int("minted", report.Minted),
		slog.Int("updated", report.Updated),
		slog.Int("conflicts", report.Conflicts),
	)
	return report, nil
}

func (manager *Manager[R]) groupSimilar(ctx context.Context, store Store[R], report *Report) error {
	rows, err := store.ListAll(ctx)
	if err != nil {
		return err
	}
	report.Scanned = len(rows)

	// Earliest first, so "earliest wins" is simply "first seen wins".
	sort.SliceStable(rows, func(i, j int) bool {
		if !rows[i].Created().Equal(rows[j].Created()) {
			return rows[i].Created().Before(rows[j].Created())
		}
		return rows[i].RowID() < rows[j].RowID()
	})

	// Index of which row holds each (group, language) slot.
	slots := make(map[string]map[i18n.Lang]string)
	for _, row := range rows {
		if row.GroupID() != "" {
			claimSlot(slots, row.GroupID(), row.Lang(), row.RowID())
		}
	}

	var order []string
	buckets := make(map[string][]R)
	for _, row := range rows {
		name, category := row.SimilarityKey()
		key := SimilarityKey(name, category)
		if key == "" {
			continue
		}
		if _, seen := buckets[key]; !seen {
			order = append(order, key)
		}
		buckets[key] = append(buckets[key], row)
	}

	type plan struct {
		members []R
		groupID string
	}
	var plans []plan
	for _, key := range order {
		members := onePerLanguage(buckets[key])
		if len(members) < 2 {
			continue
		}
		report.Buckets++

		groupID := dominantGroup(members)
		if groupID == "" {
			groupID = manager.newID()
			report.Minted++
		}
		plans = append(plans, plan{members: members, groupID: groupID})
	}

	// A row leaving its group in a later bucket frees a slot an earlier bucket
	// was refused, so passes repeat until one moves nothing. Targets are fixed,
	// so every row moves at most once.
	for {
		moved, conflicts := 0, 0
		for _, p := range plans {
			for _, row := range p.members {
				if row.GroupID() == p.groupID {
					continue
				}
				if holder, taken := slots[p.groupID][row.Lang()]; taken && holder != row.RowID() {
					conflicts++
					continue
				}

				if previous := row.GroupID(); previous != "" && slots[previous][row.Lang()] == row.RowID() {
					delete(slots[previous], row.Lang())
				}
				row.SetGroupID(p.groupID)
				if err := store.Update(ctx, row); err != nil {
					return err
				}
				claimSlot(slots, p.groupID, row.Lang(), row.RowID())
				moved++
			}
		}
		report.Updated += moved
		report.Conflicts = conflicts
		if moved == 0 {
			return nil
		}
	}
}

// SimilarityKey normalizes a (name, category) pair into a bucket key.
// A blank name yields "".
func SimilarityKey(name, category string) string {
	name = normalizeText(name)
	if name == "" {
		return ""
	}
	return name + "\x00" + normalizeText(category)
}

func normalizeText(s string) string {
	s = strings.Join(strings.Fields(s), " ")
	s = norm.NFC.String(s)

	// A Caser holds state, so each call gets its own.
	return cases.Fold().String(s)
}

// onePerLanguage keeps the first row of each language, preserving order.
func onePerLanguage[R Row[R]](rows []R) []R {
	seen := make(map[i18n.Lang]bool)
	out := make([]R, 0, len(rows))
	for _, row := range rows {
		if seen[row.Lang()] {
			continue
		}
		seen[row.Lang()] = true
		out = append(out, row)
	}
	return out
}

// dominantGroup returns the most frequent non-empty group id among rows; ties go
// to the id of the earliest row carrying one of the tied ids.
func dominantGroup[R Row[R]](rows []R) string {
	counts := make(map[string]int)
	for _, row := range rows {
		if row.GroupID() != "" {
			counts[row.GroupID()]++
		}
	}

	best, bestCount := "", 0
	for _, row := range rows {
		id := row.GroupID()
		if id != "" && counts[id] > bestCount {
			best, bestCount = id, counts[id]
		}
	}
	return best
}

func claimSlot(slots map[string]map[i18n.Lang]string, groupID string, lang i18n.Lang, rowID string) {
	if slots[groupID] == nil {
		slots[groupID] = make(map[i18n.Lang]string)
	}
	if _, taken := slots[groupID][lang]; !taken {
		slots[groupID][lang] = rowID
	}
}
