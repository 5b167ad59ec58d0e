package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"realtor-site/common/database"
	"realtor-site/common/logger"
	"realtor-site/internal/config"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	log, err := logger.NewLogger(cfg.Log.Level, "console", "apply-migration")
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	if len(os.Args) < 2 {
		log.Fatal("Usage: apply-migration <file.sql|dir> [...]")
	}
	files, err := migrationFiles(os.Args[1:])
	if err != nil {
		log.Fatal("Failed to resolve migration files", zap.Error(err))
	}

	db, err := database.NewPostgresDB(&cfg.Database)
	if err != nil {
		log.Fatal("Cannot connect to database", zap.Error(err))
	}
	defer database.Close(db)
	log.Info("Connected to database", zap.String("database", cfg.Database.Database))

	for _, file := range files {
		content, err := os.ReadFile(file)
		if err != nil {
			log.Fatal("Failed to read migration file", zap.String("file", file), zap.Error(err))
		}
		statements := splitStatements(string(content))

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
		tx, err := db.BeginTx(ctx, nil)
		if err != nil {
			cancel()
			log.Fatal("Failed to begin transaction", zap.Error(err))
		}
		for i, stmt := range statements {
			if _, err := tx.ExecContext(ctx, stmt); err != nil {
				_ = tx.Rollback()
				cancel()
				log.Fatal("Failed to execute statement",
					zap.String("file", file),
					zap.Int("statement", i+1),
					zap.String("sql", stmt[:min(100, len(stmt))]),
					zap.Error(err),
				)
			}
		}
		if err := tx.Commit(); err != nil {
			cancel()
			log.Fatal("Failed to commit migration", zap.String("file", file), zap.Error(err))
		}
		cancel()
		log.Info("Migration applied", zap.String("file", file), zap.Int("statements", len(statements)))
	}
}

// migrationFiles expands directories to their *.sql files in name order.
func migrationFiles(args []string) ([]string, error) {
	var files []string
	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			files = append(files, arg)
			continue
		}
		matches, err := filepath.Glob(filepath.Join(arg, "*.sql"))
		if err != nil {
			return nil, err
		}
		sort.Strings(matches)
		files = append(files, matches...)
	}
	return files, nil
}

// splitStatements splits on ';' outside quotes, comments and $$ bodies.
func splitStatements(sql string) []string {
	var (
		out      []string
		cur      strings.Builder
		inQuote  bool
		inDollar bool
	)
	flush := func() {
		if stmt := strings.TrimSpace(cur.String()); stmt != "" {
			out = append(out, stmt)
		}
		cur.Reset()
	}
	for i := 0; i < len(sql); i++ {
		c := sql[i]
		switch {
		case !inQuote && !inDollar && c == '-' && i+1 < len(sql) && sql[i+1] == '-':
			for i < len(sql) && sql[i] != '\n' {
				i++
			}
			cur.WriteByte('\n')
			continue
		case !inQuote && c == '$' && i+1 < len(sql) && sql[i+1] == '$':
			inDollar = !inDollar
			cur.WriteString("$$")
			i++
			continue
		case !inDollar && c == '\'':
			inQuote = !inQuote
		case !inQuote && !inDollar && c == ';':
			flush()
			continue
		}
		cur.WriteByte(c)
	}
	flush()
	return out
}
