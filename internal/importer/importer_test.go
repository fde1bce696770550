package importer

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/example/vocabquiz/pkg/models"
)

func words(items []models.VocabularyItem) []string {
	out := make([]string, len(items))
	for i, item := range items {
		out[i] = item.Word
	}
	return out
}

func TestParse_CSV(t *testing.T) {
	input := strings.Join([]string{
		"word,phonetic,partOfSpeech,meaning",
		"run,/rʌn/,verb,to move fast",
		",,,",
		"eat,,verb,",
		`sl"eep,,verb,to rest`,
		"think,,verb,to use the mind",
	}, "\n")

	result, err := Parse(strings.NewReader(input), CSV, DefaultImportConfig())
	require.NoError(t, err)

	assert.Equal(t, []string{"run", "think"}, words(result.Items))
	assert.Equal(t, "/rʌn/", result.Items[0].Phonetic)
	assert.Equal(t, "verb", result.Items[0].PartOfSpeech)
	assert.Equal(t, 4, result.TotalProcessed)

	require.Len(t, result.Errors, 2)
	assert.Equal(t, RowError{Row: 4, Field: "meaning", Message: "is required"}, result.Errors[0])
	assert.Equal(t, 5, result.Errors[1].Row)
	assert.Empty(t, result.Errors[1].Field)
}

func TestParse_CSVCustomColumns(t *testing.T) {
	config := ImportConfig{WordColumn: "B", MeaningColumn: "A"}
	result, err := Parse(strings.NewReader("to move fast,run\n"), CSV, config)
	require.NoError(t, err)

	require.Len(t, result.Items, 1)
	assert.Equal(t, "run", result.Items[0].Word)
	assert.Equal(t, "to move fast", result.Items[0].Meaning)
	assert.Empty(t, result.Items[0].PartOfSpeech)

	_, err = Parse(strings.NewReader(""), CSV, ImportConfig{WordColumn: "1"})
	assert.Error(t, err)
}

func TestParse_JSON(t *testing.T) {
	input := `[
		{"word": "run", "partOfSpeech": "verb", "meaning": "to move fast"},
		["eat", "/iːt/", "verb", "to consume food"],
		42,
		{"word": "x"}
	]`

	result, err := Parse(strings.NewReader(input), JSON, DefaultImportConfig())
	require.NoError(t, err)

	assert.Equal(t, []string{"run", "eat"}, words(result.Items))
	assert.Equal(t, "/iːt/", result.Items[1].Phonetic)
	assert.Equal(t, 4, result.TotalProcessed)

	require.Len(t, result.Errors, 2)
	assert.Equal(t, 3, result.Errors[0].Row)
	assert.Contains(t, result.Errors[0].Message, "malformed entry")
	assert.Equal(t, RowError{Row: 4, Field: "meaning", Message: "is required"}, result.Errors[1])

	_, err = Parse(strings.NewReader(`{"word": "run"}`), JSON, DefaultImportConfig())
	assert.Error(t, err)
}

func TestParseFile_XLSX(t *testing.T) {
	path := filepath.Join(t.TempDir(), "words.xlsx")

	f := excelize.NewFile()
	rows := [][]interface{}{
		{"Word", "Phonetic", "Part of speech", "Meaning"},
		{"algorithm", "/ˈælɡərɪðəm/", "noun", "a set of rules"},
		{strings.Repeat("a", 101), "", "noun", "too long"},
		{"network", "", "noun", "connected computers"},
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow("Sheet1", cell, &row))
	}
	require.NoError(t, f.SaveAs(path))
	require.NoError(t, f.Close())

	result, err := ParseFile(path, DefaultImportConfig())
	require.NoError(t, err)

	assert.Equal(t, []string{"algorithm", "network"}, words(result.Items))
	require.Len(t, result.Errors, 1)
	assert.Equal(t, RowError{Row: 3, Field: "word", Message: "must be at most 100 characters"}, result.Errors[0])
}

func TestParseFile_UnsupportedFormat(t *testing.T) {
	_, err := ParseFile("words.txt", DefaultImportConfig())
	assert.ErrorIs(t, err, ErrUnsupportedFormat)

	_, err = Parse(strings.NewReader(""), Format("yaml"), DefaultImportConfig())
	assert.ErrorIs(t, err, ErrUnsupportedFormat)

	format, err := FormatFromPath("Vocab.JSON")
	require.NoError(t, err)
	assert.Equal(t, JSON, format)
}

type fakeWords struct {
	added []models.VocabularyItem
	fail  string
}

func (f *fakeWords) Add(_ context.Context, _ string, item *models.VocabularyItem) error {
	if item.Word == f.fail {
		return errors.New("insert failed")
	}
	item.ID = "id-" + item.Word
	f.added = append(f.added, *item)
	return nil
}

func TestImporter_SkipsExistingWords(t *testing.T) {
	store := &fakeWords{}
	im := New(store, nil)
	topic := models.Topic{ID: "t1", Name: "Verbs", Vocabularies: []models.VocabularyItem{{ID: "w1", Word: "Run"}}}

	items := []models.VocabularyItem{
		{Word: "run", Meaning: "to move fast"},
		{Word: "eat", Meaning: "to consume"},
		{Word: "EAT", Meaning: "duplicate"},
		{Word: "sleep", Meaning: "to rest"},
	}

	result, err := im.Import(context.Background(), topic, items)
	require.NoError(t, err)
	assert.Equal(t, 2, result.Created)
	assert.Equal(t, 2, result.Skipped)
	assert.Equal(t, []string{"eat", "sleep"}, words(store.added))
	assert.Equal(t, "id-eat", result.Added[0].ID)
}

func TestImporter_StopsOnStorageError(t *testing.T) {
	store := &fakeWords{fail: "eat"}
	im := New(store, nil)

	result, err := im.Import(context.Background(), models.Topic{ID: "t1"}, []models.VocabularyItem{
		{Word: "run", Meaning: "a"},
		{Word: "eat", Meaning: "b"},
		{Word: "sleep", Meaning: "c"},
	})
	assert.Error(t, err)
	assert.Equal(t, 1, result.Created)
}
