package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"math/rand"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/kioku-app/kioku/internal/config"
	"github.com/kioku-app/kioku/internal/domain"
	"github.com/kioku-app/kioku/internal/domain/srs"
	"github.com/kioku-app/kioku/internal/platform/logger"
	"github.com/kioku-app/kioku/internal/platform/sqlite"
	"github.com/kioku-app/kioku/internal/service/importer"
	"github.com/kioku-app/kioku/internal/service/review"
	"github.com/kioku-app/kioku/internal/store"
)

const usage = `usage: kioku <command> [flags]

commands:
  create-course   create a new course
  courses         list courses
  delete-course   delete a course and all its items
  import          import words, sentences, or characters from a file
  due             list items due for review
  answer-word     record a word review outcome
  answer-cloze    grade and record a cloze answer
  answer-char     grade and record a character answer
  unlock          unlock a locked character
  mark-difficult  flag or unflag a word as difficult
  stats           show per-level and per-stage item counts
`

// app bundles the wired components behind the subcommands.
type app struct {
	cfg        *config.Config
	db         *sqlx.DB
	logger     *slog.Logger
	courses    store.CourseStore
	words      store.WordStore
	clozes     store.ClozeSentenceStore
	characters store.CharacterStore
	reviews    review.ReviewService
	importer   *importer.Importer
}

// run dispatches the subcommand. Wiring happens here so main stays thin.
func run(args []string) error {
	if len(args) == 0 {
		fmt.Fprint(os.Stderr, usage)
		return fmt.Errorf("missing command")
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	log := logger.Setup(cfg.App.LogLevel)

	a, err := newApp(cfg, log)
	if err != nil {
		return err
	}
	defer func() { _ = a.db.Close() }()

	ctx := logger.WithLogger(context.Background(), log)

	switch cmd := args[0]; cmd {
	case "create-course":
		return a.createCourse(ctx, args[1:])
	case "courses":
		return a.listCourses(ctx)
	case "delete-course":
		return a.deleteCourse(ctx, args[1:])
	case "import":
		return a.runImport(ctx, args[1:])
	case "due":
		return a.listDue(ctx, args[1:])
	case "answer-word":
		return a.answerWord(ctx, args[1:])
	case "answer-cloze":
		return a.answerCloze(ctx, args[1:])
	case "answer-char":
		return a.answerCharacter(ctx, args[1:])
	case "unlock":
		return a.unlockCharacter(ctx, args[1:])
	case "mark-difficult":
		return a.markDifficult(ctx, args[1:])
	case "stats":
		return a.showStats(ctx, args[1:])
	case "help", "-h", "--help":
		fmt.Print(usage)
		return nil
	default:
		fmt.Fprint(os.Stderr, usage)
		return fmt.Errorf("unknown command %q", cmd)
	}
}

// newApp opens the database, runs pending migrations and wires the stores
// and services together.
func newApp(cfg *config.Config, log *slog.Logger) (*app, error) {
	db, err := sqlite.Open(cfg.Database.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := sqlite.MigrateUp(db, log); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	words := sqlite.NewWordStore(db, log)
	clozes := sqlite.NewClozeStore(db, log)
	characters := sqlite.NewCharacterStore(db, log)

	srsService, err := srs.NewServiceWithParams(srs.NewParams(srs.ParamsConfig{
		WordWrongPenalty:  cfg.SRS.WordWrongPenalty,
		ClozeWrongPenalty: cfg.SRS.ClozeWrongPenalty,
	}))
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to configure scheduler: %w", err)
	}

	return &app{
		cfg:        cfg,
		db:         db,
		logger:     log,
		courses:    sqlite.NewCourseStore(db, log),
		words:      words,
		clozes:     clozes,
		characters: characters,
		reviews:    review.NewReviewService(db, words, clozes, characters, srsService, log),
		importer:   importer.NewImporter(db, words, clozes, characters, log),
	}, nil
}

func (a *app) createCourse(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("create-course", flag.ContinueOnError)
	name := fs.String("name", "", "course name")
	language := fs.String("lang", "", "course language code")
	if err := fs.Parse(args); err != nil {
		return err
	}

	course, err := domain.NewCourse(*name, *language)
	if err != nil {
		return err
	}
	if err := a.courses.Create(ctx, course); err != nil {
		return err
	}

	return printJSON(course)
}

func (a *app) listCourses(ctx context.Context) error {
	courses, err := a.courses.List(ctx)
	if err != nil {
		return err
	}
	return printJSON(courses)
}

func (a *app) deleteCourse(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("delete-course", flag.ContinueOnError)
	id := fs.String("id", "", "course id")
	if err := fs.Parse(args); err != nil {
		return err
	}

	courseID, err := uuid.Parse(*id)
	if err != nil {
		return fmt.Errorf("invalid course id: %w", err)
	}
	return a.courses.Delete(ctx, courseID)
}

func (a *app) runImport(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("import", flag.ContinueOnError)
	id := fs.String("course", "", "course id")
	kind := fs.String("kind", "words", "item kind: words, sentences, or characters")
	file := fs.String("file", "", "path to a .csv or .xlsx file")
	if err := fs.Parse(args); err != nil {
		return err
	}

	courseID, err := uuid.Parse(*id)
	if err != nil {
		return fmt.Errorf("invalid course id: %w", err)
	}

	var result *importer.Result
	switch *kind {
	case "words":
		result, err = a.importer.ImportWords(ctx, courseID, *file)
	case "sentences":
		rng := rand.New(rand.NewSource(time.Now().UnixNano()))
		result, err = a.importer.ImportSentences(ctx, courseID, *file, rng)
	case "characters":
		result, err = a.importer.ImportCharacters(ctx, courseID, *file)
	default:
		return fmt.Errorf("unknown item kind %q", *kind)
	}
	if err != nil {
		return err
	}
	return printJSON(result)
}

func (a *app) listDue(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("due", flag.ContinueOnError)
	id := fs.String("course", "", "course id")
	kind := fs.String("kind", "words", "item kind: words, sentences, or characters")
	limit := fs.Int("limit", 0, "maximum number of items (defaults to the configured queue limit)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	courseID, err := uuid.Parse(*id)
	if err != nil {
		return fmt.Errorf("invalid course id: %w", err)
	}
	if *limit <= 0 {
		*limit = a.cfg.App.QueueLimit
	}

	switch *kind {
	case "words":
		words, err := a.reviews.DueWords(ctx, courseID, time.Now().UTC(), *limit)
		if err != nil {
			return err
		}
		return printJSON(words)
	case "sentences":
		sentences, err := a.reviews.DueClozes(ctx, courseID, *limit)
		if err != nil {
			return err
		}
		return printJSON(sentences)
	case "characters":
		characters, err := a.reviews.DueCharacters(ctx, courseID, *limit)
		if err != nil {
			return err
		}
		return printJSON(characters)
	default:
		return fmt.Errorf("unknown item kind %q", *kind)
	}
}

func (a *app) answerWord(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("answer-word", flag.ContinueOnError)
	id := fs.String("id", "", "word id")
	correct := fs.Bool("correct", false, "whether the answer was correct")
	if err := fs.Parse(args); err != nil {
		return err
	}

	wordID, err := uuid.Parse(*id)
	if err != nil {
		return fmt.Errorf("invalid word id: %w", err)
	}

	word, err := a.reviews.SubmitWord(ctx, wordID, *correct, time.Now().UTC())
	if err != nil {
		return err
	}
	return printJSON(word)
}

func (a *app) answerCloze(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("answer-cloze", flag.ContinueOnError)
	id := fs.String("id", "", "sentence id")
	answer := fs.String("answer", "", "answer for the blanked token")
	if err := fs.Parse(args); err != nil {
		return err
	}

	sentenceID, err := uuid.Parse(*id)
	if err != nil {
		return fmt.Errorf("invalid sentence id: %w", err)
	}

	result, err := a.reviews.SubmitCloze(ctx, sentenceID, *answer, time.Now().UTC())
	if err != nil {
		return err
	}
	return printJSON(result)
}

func (a *app) answerCharacter(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("answer-char", flag.ContinueOnError)
	id := fs.String("id", "", "character id")
	meaning := fs.String("meaning", "", "meaning answer")
	reading := fs.String("reading", "", "reading answer")
	if err := fs.Parse(args); err != nil {
		return err
	}

	characterID, err := uuid.Parse(*id)
	if err != nil {
		return fmt.Errorf("invalid character id: %w", err)
	}

	result, err := a.reviews.SubmitCharacter(ctx, characterID, *meaning, *reading, time.Now().UTC())
	if err != nil {
		return err
	}
	return printJSON(result)
}

func (a *app) unlockCharacter(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("unlock", flag.ContinueOnError)
	id := fs.String("id", "", "character id")
	if err := fs.Parse(args); err != nil {
		return err
	}

	characterID, err := uuid.Parse(*id)
	if err != nil {
		return fmt.Errorf("invalid character id: %w", err)
	}

	character, err := a.reviews.UnlockCharacter(ctx, characterID, time.Now().UTC())
	if err != nil {
		return err
	}
	return printJSON(character)
}

func (a *app) markDifficult(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("mark-difficult", flag.ContinueOnError)
	id := fs.String("id", "", "word id")
	difficult := fs.Bool("difficult", true, "set or clear the flag")
	if err := fs.Parse(args); err != nil {
		return err
	}

	wordID, err := uuid.Parse(*id)
	if err != nil {
		return fmt.Errorf("invalid word id: %w", err)
	}

	word, err := a.reviews.MarkDifficult(ctx, wordID, *difficult)
	if err != nil {
		return err
	}
	return printJSON(word)
}

// courseStats aggregates the per-ladder counts for the stats command.
type courseStats struct {
	WordsByLevel      map[int]int                   `json:"words_by_level"`
	ClozesByStage     map[domain.ClozeStage]int     `json:"clozes_by_stage"`
	CharactersByStage map[domain.CharacterStage]int `json:"characters_by_stage"`
}

func (a *app) showStats(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("stats", flag.ContinueOnError)
	id := fs.String("course", "", "course id")
	if err := fs.Parse(args); err != nil {
		return err
	}

	courseID, err := uuid.Parse(*id)
	if err != nil {
		return fmt.Errorf("invalid course id: %w", err)
	}

	stats := courseStats{}
	if stats.WordsByLevel, err = a.words.CountByLevel(ctx, courseID); err != nil {
		return err
	}
	if stats.ClozesByStage, err = a.clozes.CountByStage(ctx, courseID); err != nil {
		return err
	}
	if stats.CharactersByStage, err = a.characters.CountByStage(ctx, courseID); err != nil {
		return err
	}
	return printJSON(stats)
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
