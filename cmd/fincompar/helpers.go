package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"

	"github.com/fincompar/fincompar/internal/classification"
	"github.com/fincompar/fincompar/internal/config"
	"github.com/fincompar/fincompar/internal/model"
	"github.com/fincompar/fincompar/internal/reconcile"
	"github.com/fincompar/fincompar/internal/storage"
)

// defaultDatabasePath returns the configured database path, or the
// standard location under the user's config directory.
func defaultDatabasePath() string {
	if path := viper.GetString("database.path"); path != "" {
		return config.ExpandPath(path)
	}
	return filepath.Join(os.Getenv("HOME"), ".config", "fincompar", "fincompar.db")
}

// newStorage opens the database and applies pending migrations.
func newStorage(ctx context.Context) (*storage.SQLiteStorage, error) {
	dbPath := defaultDatabasePath()
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create config directory: %w", err)
	}

	store, err := storage.NewSQLiteStorage(dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := store.Migrate(ctx); err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return store, nil
}

// newReconciler builds the categorizer and reconciler from the default
// rule set, with rules optionally extended from config.
func newReconciler(idPrefix string) (*reconcile.Reconciler, error) {
	rules, err := classificationRules()
	if err != nil {
		return nil, err
	}

	categorizer, err := classification.NewCategorizer(rules)
	if err != nil {
		return nil, fmt.Errorf("failed to build categorizer: %w", err)
	}

	opts := reconcile.Options{
		IDPrefix:            idPrefix,
		BillPaymentPatterns: viper.GetStringSlice("import.bill_payment_patterns"),
	}

	reconciler, err := reconcile.New(categorizer, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to build reconciler: %w", err)
	}

	return reconciler, nil
}

// classificationRules returns the built-in rules, with any rules from the
// classification.rules config key prepended so they win over the defaults.
func classificationRules() ([]classification.Rule, error) {
	var custom []struct {
		Category string `mapstructure:"category"`
		Pattern  string `mapstructure:"pattern"`
	}
	if err := viper.UnmarshalKey("classification.rules", &custom); err != nil {
		return nil, fmt.Errorf("invalid classification.rules config: %w", err)
	}

	rules := make([]classification.Rule, 0, len(custom))
	for _, r := range custom {
		if r.Category == "" || r.Pattern == "" {
			return nil, fmt.Errorf("classification.rules entries need both category and pattern")
		}
		rules = append(rules, classification.Rule{
			Category: model.Category(r.Category),
			Pattern:  r.Pattern,
		})
	}

	return append(rules, classification.DefaultRules()...), nil
}
