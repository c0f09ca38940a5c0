package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/username/address-book-bot/internal/contacts"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// Supported file formats
const (
	FormatJSON = "json"
	FormatYAML = "yaml"
)

const snapshotVersion = 1

// Snapshot is the on-disk representation of an address book
type Snapshot struct {
	Version  int            `json:"version" yaml:"version"`
	Contacts []ContactState `json:"contacts" yaml:"contacts"`
}

// ContactState is one persisted record
type ContactState struct {
	Name     string   `json:"name" yaml:"name"`
	Phones   []string `json:"phones" yaml:"phones"`
	Birthday string   `json:"birthday,omitempty" yaml:"birthday,omitempty"`
}

// Store loads and saves the whole address book in a single file
type Store struct {
	path   string
	format string
	logger *zap.Logger
}

// New creates a store. An empty format is detected from the file extension.
func New(path, format string, logger *zap.Logger) *Store {
	if format == "" {
		format = DetectFormat(path)
	}
	return &Store{
		path:   path,
		format: format,
		logger: logger,
	}
}

// DetectFormat returns FormatYAML for .yaml/.yml files and FormatJSON otherwise
func DetectFormat(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

// Path returns the backing file path
func (s *Store) Path() string {
	return s.path
}

// Load reads the address book. A missing file yields an empty book.
func (s *Store) Load() (*contacts.AddressBook, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			// File doesn't exist yet - will be created on first save
			s.logger.Info("Address book file not found, starting empty",
				zap.String("file", s.path))
			return contacts.New(), nil
		}
		return nil, fmt.Errorf("failed to read address book file: %w", err)
	}

	var snapshot Snapshot
	if err := s.unmarshal(data, &snapshot); err != nil {
		return nil, fmt.Errorf("failed to parse address book file: %w", err)
	}

	book, err := FromSnapshot(snapshot)
	if err != nil {
		return nil, err
	}

	s.logger.Info("Address book loaded",
		zap.String("file", s.path),
		zap.Int("contacts", book.Len()))

	return book, nil
}

// Save writes the whole address book, replacing the previous file
func (s *Store) Save(book *contacts.AddressBook) error {
	data, err := s.marshal(ToSnapshot(book))
	if err != nil {
		return fmt.Errorf("failed to marshal address book: %w", err)
	}

	if dir := filepath.Dir(s.path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create address book directory: %w", err)
		}
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("failed to write address book file: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("failed to replace address book file: %w", err)
	}

	s.logger.Info("Address book saved",
		zap.String("file", s.path),
		zap.Int("contacts", book.Len()))

	return nil
}

// ToSnapshot converts a book into its persisted form
func ToSnapshot(book *contacts.AddressBook) Snapshot {
	snapshot := Snapshot{
		Version:  snapshotVersion,
		Contacts: make([]ContactState, 0, book.Len()),
	}

	for _, record := range book.Records() {
		state := ContactState{
			Name:   record.Name().String(),
			Phones: []string{},
		}
		for _, p := range record.Phones() {
			state.Phones = append(state.Phones, p.String())
		}
		if birthday, ok := record.Birthday(); ok {
			state.Birthday = birthday.String()
		}
		snapshot.Contacts = append(snapshot.Contacts, state)
	}

	return snapshot
}

// FromSnapshot rebuilds a book, re-validating every stored value
func FromSnapshot(snapshot Snapshot) (*contacts.AddressBook, error) {
	if snapshot.Version > snapshotVersion {
		return nil, fmt.Errorf("unsupported address book version %d", snapshot.Version)
	}

	book := contacts.New()
	for _, state := range snapshot.Contacts {
		record, err := contacts.NewRecord(state.Name)
		if err != nil {
			return nil, fmt.Errorf("invalid contact name %q: %w", state.Name, err)
		}
		for _, phone := range state.Phones {
			if err := record.AddPhone(phone); err != nil {
				return nil, fmt.Errorf("invalid phone for contact %q: %w", state.Name, err)
			}
		}
		if state.Birthday != "" {
			if err := record.AddBirthday(state.Birthday); err != nil {
				return nil, fmt.Errorf("invalid birthday for contact %q: %w", state.Name, err)
			}
		}
		book.AddRecord(record)
	}

	return book, nil
}

func (s *Store) marshal(snapshot Snapshot) ([]byte, error) {
	switch s.format {
	case FormatJSON:
		return json.MarshalIndent(snapshot, "", "  ")
	case FormatYAML:
		return yaml.Marshal(snapshot)
	default:
		return nil, fmt.Errorf("unknown storage format: %s", s.format)
	}
}

func (s *Store) unmarshal(data []byte, snapshot *Snapshot) error {
	switch s.format {
	case FormatJSON:
		return json.Unmarshal(data, snapshot)
	case FormatYAML:
		return yaml.Unmarshal(data, snapshot)
	default:
		return fmt.Errorf("unknown storage format: %s", s.format)
	}
}
