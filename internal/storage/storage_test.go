package storage

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/username/address-book-bot/internal/contacts"
	"go.uber.org/zap"
)

func sampleBook(t *testing.T) *contacts.AddressBook {
	t.Helper()
	book := contacts.New()

	john, err := contacts.NewRecord("John")
	require.NoError(t, err)
	require.NoError(t, john.AddPhone("1234567890"))
	require.NoError(t, john.AddPhone("5555555555"))
	require.NoError(t, john.AddPhone("1234567890"))
	require.NoError(t, john.AddBirthday("15.06.1985"))
	book.AddRecord(john)

	jane, err := contacts.NewRecord("Jane Doe")
	require.NoError(t, err)
	book.AddRecord(jane)

	return book
}

func TestDetectFormat(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"book.json", FormatJSON},
		{"book.yaml", FormatYAML},
		{"book.YML", FormatYAML},
		{"book", FormatJSON},
		{"dir.yaml/book.dat", FormatJSON},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.want, DetectFormat(tt.path))
		})
	}
}

func TestStoreLoadMissingFile(t *testing.T) {
	store := New(filepath.Join(t.TempDir(), "missing.json"), "", zap.NewNop())

	book, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, 0, book.Len())
}

func TestStoreRoundTrip(t *testing.T) {
	for _, name := range []string{"book.json", "book.yaml"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "nested", name)
			store := New(path, "", zap.NewNop())
			original := sampleBook(t)

			require.NoError(t, store.Save(original))
			loaded, err := store.Load()
			require.NoError(t, err)

			assert.Equal(t, original.String(), loaded.String())
			assert.Equal(t, ToSnapshot(original), ToSnapshot(loaded))

			john, ok := loaded.Find("John")
			require.True(t, ok)
			birthday, ok := john.Birthday()
			require.True(t, ok)
			assert.Equal(t, "15.06.1985", birthday.String())

			jane, ok := loaded.Find("Jane Doe")
			require.True(t, ok)
			_, ok = jane.Birthday()
			assert.False(t, ok)
		})
	}
}

func TestStoreSaveOverwrites(t *testing.T) {
	path := filepath.Join(t.TempDir(), "book.json")
	store := New(path, FormatJSON, zap.NewNop())

	book := sampleBook(t)
	require.NoError(t, store.Save(book))

	book.Delete("John")
	require.NoError(t, store.Save(book))

	loaded, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, 1, loaded.Len())

	_, err = os.Stat(path + ".tmp")
	assert.True(t, os.IsNotExist(err))
}

func TestStoreJSONLayout(t *testing.T) {
	path := filepath.Join(t.TempDir(), "book.json")
	require.NoError(t, New(path, "", zap.NewNop()).Save(sampleBook(t)))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"version": 1,
		"contacts": [
			{"name": "John", "phones": ["1234567890", "5555555555", "1234567890"], "birthday": "15.06.1985"},
			{"name": "Jane Doe", "phones": []}
		]
	}`, string(data))
}

func TestStoreLoadInvalidData(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr error
	}{
		{"Broken JSON", `{"contacts": [`, nil},
		{"Invalid phone", `{"version":1,"contacts":[{"name":"John","phones":["123"]}]}`, contacts.ErrValidation},
		{"Invalid birthday", `{"version":1,"contacts":[{"name":"John","phones":[],"birthday":"31.02.2020"}]}`, contacts.ErrValidation},
		{"Empty name", `{"version":1,"contacts":[{"name":"","phones":[]}]}`, contacts.ErrValidation},
		{"Future version", `{"version":99,"contacts":[]}`, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "book.json")
			require.NoError(t, os.WriteFile(path, []byte(tt.content), 0o644))

			_, err := New(path, "", zap.NewNop()).Load()
			require.Error(t, err)
			if tt.wantErr != nil {
				assert.True(t, errors.Is(err, tt.wantErr), "got %v", err)
			}
		})
	}
}

func TestStoreUnknownFormat(t *testing.T) {
	store := New(filepath.Join(t.TempDir(), "book.json"), "xml", zap.NewNop())

	err := store.Save(contacts.New())
	assert.Error(t, err)
}
