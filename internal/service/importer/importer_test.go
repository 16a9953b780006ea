package importer

import (
	"context"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/kioku-app/kioku/internal/domain"
	"github.com/kioku-app/kioku/internal/platform/sqlite"
)

type testEnv struct {
	db         *sqlx.DB
	words      *sqlite.SQLiteWordStore
	clozes     *sqlite.SQLiteClozeStore
	characters *sqlite.SQLiteCharacterStore
	importer   *Importer
	course     *domain.Course
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := sqlite.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, sqlite.MigrateUp(db, nil))

	words := sqlite.NewWordStore(db, nil)
	clozes := sqlite.NewClozeStore(db, nil)
	characters := sqlite.NewCharacterStore(db, nil)

	course, err := domain.NewCourse("HSK 1", "zh")
	require.NoError(t, err)
	require.NoError(t, sqlite.NewCourseStore(db, nil).Create(context.Background(), course))

	return &testEnv{
		db:         db,
		words:      words,
		clozes:     clozes,
		characters: characters,
		importer:   NewImporter(db, words, clozes, characters, nil),
		course:     course,
	}
}

func writeTempCSV(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "import.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestDeriveCloze(t *testing.T) {
	rng := rand.New(rand.NewSource(42))

	t.Run("single token blanks the whole token", func(t *testing.T) {
		clozeText, answer := DeriveCloze("水", rng)
		assert.Equal(t, "___", clozeText)
		assert.Equal(t, "水", answer)
	})

	t.Run("multi token blanks exactly one token", func(t *testing.T) {
		target := "the cat sat on the mat"
		for i := 0; i < 20; i++ {
			clozeText, answer := DeriveCloze(target, rng)
			assert.Equal(t, 1, strings.Count(clozeText, "___"))
			assert.Contains(t, strings.Fields(target), answer)
			restored := strings.Replace(clozeText, "___", answer, 1)
			assert.Equal(t, target, restored)
		}
	})

	t.Run("empty target", func(t *testing.T) {
		clozeText, answer := DeriveCloze("   ", rng)
		assert.Empty(t, clozeText)
		assert.Empty(t, answer)
	})
}

func TestImportWordsCSV(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	path := writeTempCSV(t, strings.Join([]string{
		"Native,Target,Level",
		"water,水,1",
		"fire,火,2",
		"wind,,1",
	}, "\n"))

	result, err := env.importer.ImportWords(ctx, env.course.ID, path)
	require.NoError(t, err)
	assert.Equal(t, 2, result.Created)
	assert.Equal(t, 1, result.Skipped)
	assert.Empty(t, result.Errors)

	counts, err := env.words.CountByLevel(ctx, env.course.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, counts[0])
}

func TestImportWordsHeaderless(t *testing.T) {
	env := newTestEnv(t)

	path := writeTempCSV(t, "water,水\nfire,火\n")

	result, err := env.importer.ImportWords(context.Background(), env.course.ID, path)
	require.NoError(t, err)
	assert.Equal(t, 2, result.Created)
}

func TestImportWordsErrors(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	t.Run("unsupported extension", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "words.txt")
		require.NoError(t, os.WriteFile(path, []byte("water\t水"), 0o644))

		_, err := env.importer.ImportWords(ctx, env.course.ID, path)
		assert.ErrorIs(t, err, ErrUnsupportedFormat)
	})

	t.Run("header without required columns", func(t *testing.T) {
		path := writeTempCSV(t, "native\nwater\n")

		_, err := env.importer.ImportWords(ctx, env.course.ID, path)
		assert.ErrorIs(t, err, ErrMissingColumns)
	})

	t.Run("only blank rows", func(t *testing.T) {
		path := writeTempCSV(t, "native,target\n,\n")

		_, err := env.importer.ImportWords(ctx, env.course.ID, path)
		assert.ErrorIs(t, err, ErrEmptyFile)
	})
}

func TestImportSentences(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	path := writeTempCSV(t, strings.Join([]string{
		"native,target",
		"I drink water.,Wo he shui.",
		"The cat sleeps.,Mao shuijiao.",
	}, "\n"))

	result, err := env.importer.ImportSentences(ctx, env.course.ID, path, rand.New(rand.NewSource(7)))
	require.NoError(t, err)
	assert.Equal(t, 2, result.Created)

	sentences, err := env.clozes.ListReviewable(ctx, env.course.ID, 10)
	require.NoError(t, err)
	require.Len(t, sentences, 2)
	for _, sentence := range sentences {
		assert.Equal(t, 0, sentence.SRSLevel)
		assert.Equal(t, domain.ClozeStageSeed, sentence.Stage())
		assert.Contains(t, sentence.ClozeText, "___")
		assert.Contains(t, strings.Fields(sentence.Target), sentence.Answer)
	}
}

func TestImportCharactersXLSX(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	require.NoError(t, f.SetSheetRow(sheet, "A1", &[]any{"Glyph", "Meaning", "Reading", "Level"}))
	require.NoError(t, f.SetSheetRow(sheet, "A2", &[]any{"水", "water", "shui", 1}))
	require.NoError(t, f.SetSheetRow(sheet, "A3", &[]any{"火", "fire", "huo", 2}))

	path := filepath.Join(t.TempDir(), "characters.xlsx")
	require.NoError(t, f.SaveAs(path))
	require.NoError(t, f.Close())

	result, err := env.importer.ImportCharacters(ctx, env.course.ID, path)
	require.NoError(t, err)
	assert.Equal(t, 2, result.Created)

	counts, err := env.characters.CountByStage(ctx, env.course.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, counts[domain.CharacterStageLocked])

	locked, err := env.characters.ListLocked(ctx, env.course.ID, 1, 10)
	require.NoError(t, err)
	require.Len(t, locked, 1)
	assert.Equal(t, "水", locked[0].Glyph)
	assert.Equal(t, "shui", locked[0].Pronunciation)
}

func TestImportCharactersReadingOptional(t *testing.T) {
	env := newTestEnv(t)

	path := writeTempCSV(t, "glyph,meaning\n一,one\n")

	result, err := env.importer.ImportCharacters(context.Background(), env.course.ID, path)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Created)

	locked, err := env.characters.ListLocked(context.Background(), env.course.ID, 1, 10)
	require.NoError(t, err)
	require.Len(t, locked, 1)
	assert.Empty(t, locked[0].Pronunciation)
}
