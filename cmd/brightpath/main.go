package main

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Chinmay31-21/bright-path-learning-sub000/internal/assembler"
	"github.com/Chinmay31-21/bright-path-learning-sub000/internal/auth"
	"github.com/Chinmay31-21/bright-path-learning-sub000/internal/handler"
	appI18n "github.com/Chinmay31-21/bright-path-learning-sub000/internal/i18n"
	"github.com/Chinmay31-21/bright-path-learning-sub000/internal/llm"
	"github.com/Chinmay31-21/bright-path-learning-sub000/internal/model"
	"github.com/Chinmay31-21/bright-path-learning-sub000/internal/progress"
	"github.com/Chinmay31-21/bright-path-learning-sub000/internal/store"
	"github.com/Chinmay31-21/bright-path-learning-sub000/internal/tutor"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "brightpath",
		Short: "AI tutoring and assessment backend for the BrightPath learning portal",
	}

	serve := serveCmd()
	root.AddCommand(serve, importCmd(), exportCmd())

	// Make "serve" the default when no subcommand is given.
	root.RunE = serve.RunE

	// Register serve flags on root so bare `brightpath --addr ...` still works.
	root.Flags().AddFlagSet(serve.Flags())

	return root
}

func serveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API server",
		RunE:  runServe,
	}
	f := cmd.Flags()
	f.StringP("addr", "a", ":8080", "HTTP listen address")
	f.String("db-driver", "sqlite", "Database driver (sqlite, postgres)")
	f.String("db-dsn", "brightpath.db", "Database DSN (file path for sqlite, URL for postgres)")
	f.String("openai-key", "", "OpenAI API key (or set BRIGHTPATH_OPENAI_KEY)")
	f.String("openai-url", "", "OpenAI-compatible API base URL override")
	f.String("openai-model", "", "OpenAI model name")
	f.String("gemini-key", "", "Google Gemini API key")
	f.String("gemini-model", "", "Gemini model name")
	f.String("openrouter-key", "", "OpenRouter API key")
	f.String("openrouter-model", "", "OpenRouter model name")
	f.String("jwt-secret", "", "HMAC secret shared with the identity service (required)")
	f.StringP("lang", "l", "en", "Default message language (en, hi)")
	f.Int("min-content-chars", tutor.DefaultMinContextChars, "Minimum study material length for test generation")
	f.Int("fragment-cap", assembler.DefaultPerFragmentCap, "Per-fragment character cap in assembled context")
	f.Int("context-budget", assembler.DefaultTotalBudget, "Total character budget for assembled context")
	f.StringSlice("cors-origins", []string{"*"}, "Allowed CORS origins")
	f.String("log-level", "info", "Log level (debug, info, warn, error)")
	f.String("log-format", "text", "Log format (text, json)")
	return cmd
}

func importCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import [files...]",
		Short: "Import chapters and study material from JSON content files",
		Args:  cobra.MinimumNArgs(1),
		RunE:  runImport,
	}
	f := cmd.Flags()
	f.String("db-driver", "sqlite", "Database driver (sqlite, postgres)")
	f.String("db-dsn", "brightpath.db", "Database DSN (file path for sqlite, URL for postgres)")
	f.String("log-level", "info", "Log level (debug, info, warn, error)")
	f.String("log-format", "text", "Log format (text, json)")
	return cmd
}

func exportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export quizzes and attempt summaries as JSON",
		RunE:  runExport,
	}
	f := cmd.Flags()
	f.String("db-driver", "sqlite", "Database driver (sqlite, postgres)")
	f.String("db-dsn", "brightpath.db", "Database DSN (file path for sqlite, URL for postgres)")
	f.StringP("output", "o", "-", "Output file path (- for stdout)")
	f.String("log-level", "info", "Log level (debug, info, warn, error)")
	f.String("log-format", "text", "Log format (text, json)")
	return cmd
}

func setupLogging(cmd *cobra.Command) {
	v := viperForCmd(cmd)

	var logLevel slog.Level
	switch strings.ToLower(v.GetString("log-level")) {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}
	handlerOpts := &slog.HandlerOptions{Level: logLevel}
	var logHandler slog.Handler
	switch strings.ToLower(v.GetString("log-format")) {
	case "json":
		logHandler = slog.NewJSONHandler(os.Stderr, handlerOpts)
	default:
		logHandler = slog.NewTextHandler(os.Stderr, handlerOpts)
	}
	slog.SetDefault(slog.New(logHandler))
}

// viperForCmd binds a command's flags and environment to a fresh viper instance.
func viperForCmd(cmd *cobra.Command) *viper.Viper {
	v := viper.New()
	_ = v.BindPFlags(cmd.Flags())

	v.SetEnvPrefix("BRIGHTPATH")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	v.SetConfigName("brightpath")
	v.AddConfigPath(".")
	v.AddConfigPath("$HOME/.config/brightpath")
	v.AddConfigPath("/etc/brightpath")
	v.AddConfigPath("/data")
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			slog.Warn("error reading config file", "error", err)
		}
	} else {
		slog.Info("loaded config file", "path", v.ConfigFileUsed())
	}

	return v
}

func openStore(ctx context.Context, v *viper.Viper) (*store.Store, error) {
	driver := store.Driver(strings.ToLower(v.GetString("db-driver")))
	db, err := store.Open(ctx, driver, v.GetString("db-dsn"))
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	return db, nil
}

func runServe(cmd *cobra.Command, _ []string) error {
	setupLogging(cmd)
	v := viperForCmd(cmd)
	ctx := cmd.Context()

	db, err := openStore(ctx, v)
	if err != nil {
		return err
	}
	defer db.Close()

	jwtSecret := v.GetString("jwt-secret")
	if jwtSecret == "" {
		return fmt.Errorf("JWT secret is required: set --jwt-secret flag or BRIGHTPATH_JWT_SECRET env var")
	}

	lang := v.GetString("lang")
	if err := appI18n.Init(lang); err != nil {
		return fmt.Errorf("init i18n: %w", err)
	}

	registry := llm.NewRegistryFromConfig(llm.Config{
		OpenAIKey:       v.GetString("openai-key"),
		OpenAIBaseURL:   v.GetString("openai-url"),
		OpenAIModel:     v.GetString("openai-model"),
		GeminiKey:       v.GetString("gemini-key"),
		GeminiModel:     v.GetString("gemini-model"),
		OpenRouterKey:   v.GetString("openrouter-key"),
		OpenRouterModel: v.GetString("openrouter-model"),
	})
	gateway := llm.NewGateway(registry)
	for _, d := range gateway.Descriptors() {
		slog.Info("provider registered", "name", d.Name, "rank", d.Rank, "configured", d.Configured)
	}

	asm := assembler.New(db, v.GetInt("fragment-cap"), v.GetInt("context-budget"))
	service := tutor.NewService(asm, gateway, db, v.GetInt("min-content-chars"))
	tracker := progress.NewTracker(db)
	h := handler.New(db, service, tracker, gateway)

	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   v.GetStringSlice("cors-origins"),
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Accept-Language", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))
	r.Use(appI18n.Middleware(lang))
	r.Use(auth.Identity(auth.NewVerifier(jwtSecret)))
	h.Routes(r)

	addr := v.GetString("addr")
	slog.Info("starting server",
		"addr", addr,
		"db_driver", v.GetString("db-driver"),
		"lang", lang,
		"min_content_chars", v.GetInt("min-content-chars"),
		"context_budget", v.GetInt("context-budget"),
	)
	return http.ListenAndServe(addr, r)
}

func runImport(cmd *cobra.Command, args []string) error {
	setupLogging(cmd)
	v := viperForCmd(cmd)
	ctx := cmd.Context()

	db, err := openStore(ctx, v)
	if err != nil {
		return err
	}
	defer db.Close()

	for _, path := range args {
		if err := importContentFile(ctx, db, path); err != nil {
			return err
		}
	}
	return nil
}

func importContentFile(ctx context.Context, db *store.Store, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}

	hash := sha256sum(data)
	storedHash, err := db.GetImportedFileHash(ctx, path)
	if err != nil {
		return fmt.Errorf("check import status for %s: %w", path, err)
	}
	if storedHash == hash {
		slog.Info("content file unchanged, skipping", "path", path)
		return nil
	}
	if storedHash != "" {
		slog.Warn("content file changed since last import, skipping to avoid duplicate material", "path", path)
		return nil
	}

	var content model.ContentImport
	if err := json.Unmarshal(data, &content); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}

	for _, ch := range content.Chapters {
		if ch.ID == "" || ch.Title == "" {
			return fmt.Errorf("chapter in %s missing id or title", path)
		}
		if err := db.UpsertChapter(ctx, model.Chapter{
			ID:          ch.ID,
			Title:       ch.Title,
			Description: ch.Description,
			Board:       ch.Board,
			ClassLevel:  ch.ClassLevel,
		}); err != nil {
			return fmt.Errorf("upsert chapter %s from %s: %w", ch.ID, path, err)
		}
	}

	for _, doc := range content.Documents {
		id, err := db.InsertTrainingDocument(ctx, model.ContentFragment{
			Kind:       model.SourceTrainingDocument,
			Title:      doc.Title,
			Body:       doc.Content,
			Board:      doc.Board,
			ClassLevel: doc.ClassLevel,
			ChapterID:  doc.ChapterID,
		})
		if err != nil {
			return fmt.Errorf("insert document %q from %s: %w", doc.Title, path, err)
		}
		// Documents land as pending and are only served after the
		// status flip. Empty bodies stay out of assembled context.
		status := model.ProcessingCompleted
		if strings.TrimSpace(doc.Content) == "" {
			status = model.ProcessingFailed
			slog.Warn("document has no content, marking failed", "title", doc.Title, "path", path)
		}
		if err := db.SetDocumentProcessingStatus(ctx, id, status); err != nil {
			return fmt.Errorf("update document status %q from %s: %w", doc.Title, path, err)
		}
	}

	for _, note := range content.SyllabusNotes {
		if _, err := db.InsertSyllabusNote(ctx, model.ContentFragment{
			Kind:       model.SourceSyllabusNote,
			Title:      note.Title,
			Body:       note.Content,
			Board:      note.Board,
			ClassLevel: note.ClassLevel,
		}); err != nil {
			return fmt.Errorf("insert syllabus note %q from %s: %w", note.Title, path, err)
		}
	}

	if err := db.SetImportedFileHash(ctx, path, hash); err != nil {
		return fmt.Errorf("record import for %s: %w", path, err)
	}
	slog.Info("imported content",
		"path", path,
		"chapters", len(content.Chapters),
		"documents", len(content.Documents),
		"syllabus_notes", len(content.SyllabusNotes),
	)
	return nil
}

func sha256sum(data []byte) string {
	h := sha256.Sum256(data)
	return hex.EncodeToString(h[:])
}

func runExport(cmd *cobra.Command, _ []string) error {
	setupLogging(cmd)
	v := viperForCmd(cmd)
	ctx := cmd.Context()

	db, err := openStore(ctx, v)
	if err != nil {
		return err
	}
	defer db.Close()

	quizzes, err := db.ExportAllQuizzes(ctx)
	if err != nil {
		return fmt.Errorf("export quizzes: %w", err)
	}

	data, err := json.MarshalIndent(quizzes, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal JSON: %w", err)
	}

	outPath := v.GetString("output")
	var w io.Writer
	if outPath == "" || outPath == "-" {
		w = os.Stdout
	} else {
		f, err := os.Create(outPath)
		if err != nil {
			return fmt.Errorf("create output file: %w", err)
		}
		defer f.Close()
		w = f
	}

	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	// Ensure trailing newline.
	_, _ = fmt.Fprintln(w)

	return nil
}
