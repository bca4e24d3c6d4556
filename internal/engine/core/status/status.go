// Package status maps a (progress, disposition, subDisposition) triple to a
// canonical bucket by walking the leadProgressDisposition field of a module
// config. Every lookup miss is a normal business outcome: partially
// configured tenants are expected, so misses are logged and reported as
// not-ok, never as errors.
package status

import (
	"github.com/leadfoundry/leadcore/internal/engine/model/moduleconfig"
	"github.com/leadfoundry/leadcore/pkg/log"
)

// DetermineBucket resolves the bucket for the given triple. Empty disposition
// and subDisposition mean "not supplied"; an unsupplied subDisposition selects
// the empty-name default entry, while a supplied one must match exactly (no
// fallback to the default on mismatch). Returns ok=false when any step of the
// walk finds no match.
func DetermineBucket(fields []moduleconfig.Field, progress, disposition, subDisposition string) (string, bool) {
	field := findProgressField(fields)
	if field == nil {
		log.Debugw("status resolution: no leadProgressDisposition field in config")
		return "", false
	}

	value := findProgressValue(field.Values, progress)
	if value == nil {
		log.Debugw("status resolution: unknown progress", "progress", progress)
		return "", false
	}

	// A bucket cannot be determined from progress alone.
	if disposition == "" {
		log.Debugw("status resolution: disposition not supplied", "progress", progress)
		return "", false
	}

	entry := findDisposition(value.Dispositions, disposition)
	if entry == nil {
		log.Debugw("status resolution: unknown disposition",
			"progress", progress,
			"disposition", disposition,
		)
		return "", false
	}

	sub := findSubDisposition(entry.SubDispositions, subDisposition)
	if sub == nil || sub.Bucket == "" {
		log.Debugw("status resolution: no matching sub-disposition",
			"progress", progress,
			"disposition", disposition,
			"subDisposition", subDisposition,
		)
		return "", false
	}

	return sub.Bucket, true
}

func findProgressField(fields []moduleconfig.Field) *moduleconfig.Field {
	for i := range fields {
		if fields[i].FieldName == moduleconfig.FieldLeadProgressDisposition {
			return &fields[i]
		}
	}
	return nil
}

func findProgressValue(values []moduleconfig.ProgressValue, progress string) *moduleconfig.ProgressValue {
	for i := range values {
		if values[i].DisplayName == progress {
			return &values[i]
		}
	}
	return nil
}

func findDisposition(entries []moduleconfig.DispositionEntry, disposition string) *moduleconfig.DispositionEntry {
	for i := range entries {
		if entries[i].Name == disposition {
			return &entries[i]
		}
	}
	return nil
}

// findSubDisposition matches the supplied name exactly, or the empty-name
// default entry when no name is supplied.
func findSubDisposition(entries []moduleconfig.SubDispositionEntry, subDisposition string) *moduleconfig.SubDispositionEntry {
	for i := range entries {
		if entries[i].Name == subDisposition {
			return &entries[i]
		}
	}
	return nil
}
