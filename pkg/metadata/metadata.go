// Package metadata persists the skill-to-targets record at the central
// repository root.
//
// The record is a hint, never ground truth: reconciliation recomputes
// everything from the live filesystem and must keep working when the
// record is missing or corrupt. Writes go through temp-then-rename so a
// crash can truncate at worst a temp file, never the record itself.
package metadata

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/arthur-debert/skillsync/pkg/errors"
	"github.com/arthur-debert/skillsync/pkg/logging"
)

// FileName is the record file kept at the repository root
const FileName = ".skillsync.json"

// Entry records where one skill lives and which targets skillsync
// believes it has linked. Extra holds fields written by other (newer)
// versions so a load/save round-trip does not discard them.
type Entry struct {
	Source  string   `json:"source"`
	Targets []string `json:"targets"`

	Extra map[string]json.RawMessage `json:"-"`
}

// Record maps skill names to their entries
type Record map[string]*Entry

// Store owns the persisted record file. RecordLink and RecordUnlink
// serialize read-modify-write cycles within the process; concurrent
// processes against the same file are last-writer-wins.
type Store struct {
	path string
	mu   sync.Mutex
}

// NewStore returns a store for the record file at the repository root
func NewStore(repoRoot string) *Store {
	return &Store{path: filepath.Join(repoRoot, FileName)}
}

// Path returns the location of the record file
func (s *Store) Path() string {
	return s.path
}

// Load reads the record. A missing file is a first run and yields an
// empty record; malformed content is reported as MetadataCorrupt so the
// caller can log it and continue from filesystem truth.
func (s *Store) Load() (Record, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return Record{}, nil
		}
		return nil, errors.Wrapf(err, errors.ErrFileAccess, "cannot read metadata %s", s.path)
	}

	var raw map[string]map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, errors.Wrapf(err, errors.ErrMetadataCorrupt, "metadata file %s is malformed", s.path)
	}

	record := make(Record, len(raw))
	for name, fields := range raw {
		entry := &Entry{}
		for key, value := range fields {
			switch key {
			case "source":
				if err := json.Unmarshal(value, &entry.Source); err != nil {
					return nil, errors.Wrapf(err, errors.ErrMetadataCorrupt, "metadata entry %q has a malformed source", name)
				}
			case "targets":
				if err := json.Unmarshal(value, &entry.Targets); err != nil {
					return nil, errors.Wrapf(err, errors.ErrMetadataCorrupt, "metadata entry %q has malformed targets", name)
				}
			default:
				// Unknown fields survive the round-trip
				if entry.Extra == nil {
					entry.Extra = make(map[string]json.RawMessage)
				}
				entry.Extra[key] = value
			}
		}
		record[name] = entry
	}
	return record, nil
}

// Save writes the record atomically: marshal, write to a temp file in
// the same directory, fsync, rename over the record.
func (s *Store) Save(record Record) error {
	out := make(map[string]map[string]json.RawMessage, len(record))
	for name, entry := range record {
		fields := make(map[string]json.RawMessage, 2+len(entry.Extra))
		source, err := json.Marshal(entry.Source)
		if err != nil {
			return errors.Wrapf(err, errors.ErrMetadataWrite, "cannot encode entry %q", name)
		}
		targets, err := json.Marshal(entry.Targets)
		if err != nil {
			return errors.Wrapf(err, errors.ErrMetadataWrite, "cannot encode entry %q", name)
		}
		fields["source"] = source
		fields["targets"] = targets
		for key, value := range entry.Extra {
			fields[key] = value
		}
		out[name] = fields
	}

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return errors.Wrap(err, errors.ErrMetadataWrite, "cannot encode metadata")
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return errors.Wrapf(err, errors.ErrDirCreate, "cannot create %s", filepath.Dir(s.path))
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), FileName+".tmp-*")
	if err != nil {
		return errors.Wrap(err, errors.ErrMetadataWrite, "cannot create temp metadata file")
	}
	tmpName := tmp.Name()
	defer func() {
		_ = os.Remove(tmpName)
	}()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return errors.Wrap(err, errors.ErrMetadataWrite, "cannot write temp metadata file")
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return errors.Wrap(err, errors.ErrMetadataWrite, "cannot sync temp metadata file")
	}
	if err := tmp.Close(); err != nil {
		return errors.Wrap(err, errors.ErrMetadataWrite, "cannot close temp metadata file")
	}

	if err := os.Rename(tmpName, s.path); err != nil {
		return errors.Wrapf(err, errors.ErrMetadataWrite, "cannot replace %s", s.path)
	}
	return nil
}

// RecordLink adds target to the skill's entry, creating the entry when
// needed. Targets keep insertion order and stay free of duplicates.
func (s *Store) RecordLink(skill, source, target string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	record, err := s.loadForUpdate()
	if err != nil {
		return err
	}

	entry, ok := record[skill]
	if !ok {
		entry = &Entry{Source: source}
		record[skill] = entry
	}
	entry.Source = source
	if !contains(entry.Targets, target) {
		entry.Targets = append(entry.Targets, target)
	}
	return s.Save(record)
}

// RecordUnlink removes target from the skill's entry. When
// dropEntry is set (repository copy removed too) the whole entry goes.
func (s *Store) RecordUnlink(skill, target string, dropEntry bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	record, err := s.loadForUpdate()
	if err != nil {
		return err
	}

	entry, ok := record[skill]
	if !ok {
		return nil
	}
	if dropEntry {
		delete(record, skill)
		return s.Save(record)
	}

	kept := entry.Targets[:0]
	for _, existing := range entry.Targets {
		if existing != target {
			kept = append(kept, existing)
		}
	}
	entry.Targets = kept
	return s.Save(record)
}

// Remove deletes the skill's entry entirely
func (s *Store) Remove(skill string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	record, err := s.loadForUpdate()
	if err != nil {
		return err
	}
	if _, ok := record[skill]; !ok {
		return nil
	}
	delete(record, skill)
	return s.Save(record)
}

// loadForUpdate loads the record but degrades a corrupt file to an
// empty record after logging: metadata is a cache, a broken cache must
// not block filesystem operations. Plain Load still surfaces the
// corruption to callers that want to report it.
func (s *Store) loadForUpdate() (Record, error) {
	record, err := s.Load()
	if err != nil {
		if errors.IsErrorCode(err, errors.ErrMetadataCorrupt) {
			logger := logging.GetLogger("metadata")
			logger.Warn().Err(err).Str("path", s.path).Msg("Discarding corrupt metadata, rebuilding from filesystem state")
			return Record{}, nil
		}
		return nil, err
	}
	return record, nil
}

// Names returns all skill names in the record, sorted
func (r Record) Names() []string {
	names := make([]string, 0, len(r))
	for name := range r {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func contains(list []string, value string) bool {
	for _, item := range list {
		if item == value {
			return true
		}
	}
	return false
}
