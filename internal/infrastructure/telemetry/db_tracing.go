package telemetry

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/uptrace/opentelemetry-go-extra/otelgorm"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// DBTracingConfig holds configuration for database tracing.
type DBTracingConfig struct {
	Enabled         bool
	LogFullSQL      bool // include query variables in spans, development only
	SlowQueryThresh time.Duration
	DBSystem        string

	// TracerProvider overrides the global provider
	TracerProvider trace.TracerProvider
}

// DefaultDBTracingConfig returns default configuration for database tracing.
func DefaultDBTracingConfig() DBTracingConfig {
	return DBTracingConfig{
		SlowQueryThresh: 200 * time.Millisecond,
		DBSystem:        "postgresql",
	}
}

// DBTracingPlugin registers otelgorm plus slow query marking on a GORM handle.
type DBTracingPlugin struct {
	config DBTracingConfig
	logger *zap.Logger
}

// NewDBTracingPlugin creates a new database tracing plugin
func NewDBTracingPlugin(cfg DBTracingConfig, logger *zap.Logger) *DBTracingPlugin {
	if cfg.SlowQueryThresh <= 0 {
		cfg.SlowQueryThresh = DefaultDBTracingConfig().SlowQueryThresh
	}
	return &DBTracingPlugin{
		config: cfg,
		logger: logger,
	}
}

type queryStartKey struct{}

// Register installs the plugin. It is a no-op when tracing is disabled.
func (p *DBTracingPlugin) Register(db *gorm.DB) error {
	if !p.config.Enabled {
		p.logger.Debug("Database tracing disabled, skipping otelgorm registration")
		return nil
	}

	opts := []otelgorm.Option{otelgorm.WithDBName(p.config.DBSystem)}
	if !p.config.LogFullSQL {
		opts = append(opts, otelgorm.WithoutQueryVariables())
	}
	if p.config.TracerProvider != nil {
		opts = append(opts, otelgorm.WithTracerProvider(p.config.TracerProvider))
	}
	if err := db.Use(otelgorm.NewPlugin(opts...)); err != nil {
		return err
	}

	cb := db.Callback()
	// end hooks run before otelgorm closes the span
	hooks := []struct {
		op       string
		register func(before, after func(*gorm.DB)) error
	}{
		{"create", func(b, a func(*gorm.DB)) error {
			if err := cb.Create().Before("gorm:create").Register("bookstore:trace_start_create", b); err != nil {
				return err
			}
			return cb.Create().After("gorm:create").Before("otel:after:create").Register("bookstore:trace_end_create", a)
		}},
		{"query", func(b, a func(*gorm.DB)) error {
			if err := cb.Query().Before("gorm:query").Register("bookstore:trace_start_query", b); err != nil {
				return err
			}
			return cb.Query().After("gorm:query").Before("otel:after:select").Register("bookstore:trace_end_query", a)
		}},
		{"update", func(b, a func(*gorm.DB)) error {
			if err := cb.Update().Before("gorm:update").Register("bookstore:trace_start_update", b); err != nil {
				return err
			}
			return cb.Update().After("gorm:update").Before("otel:after:update").Register("bookstore:trace_end_update", a)
		}},
		{"delete", func(b, a func(*gorm.DB)) error {
			if err := cb.Delete().Before("gorm:delete").Register("bookstore:trace_start_delete", b); err != nil {
				return err
			}
			return cb.Delete().After("gorm:delete").Before("otel:after:delete").Register("bookstore:trace_end_delete", a)
		}},
		{"row", func(b, a func(*gorm.DB)) error {
			if err := cb.Row().Before("gorm:row").Register("bookstore:trace_start_row", b); err != nil {
				return err
			}
			return cb.Row().After("gorm:row").Before("otel:after:row").Register("bookstore:trace_end_row", a)
		}},
		{"raw", func(b, a func(*gorm.DB)) error {
			if err := cb.Raw().Before("gorm:raw").Register("bookstore:trace_start_raw", b); err != nil {
				return err
			}
			return cb.Raw().After("gorm:raw").Before("otel:after:raw").Register("bookstore:trace_end_raw", a)
		}},
	}
	for _, hook := range hooks {
		if err := hook.register(markStart, p.annotate); err != nil {
			return fmt.Errorf("failed to register %s tracing callbacks: %w", hook.op, err)
		}
	}

	p.logger.Info("Database tracing enabled",
		zap.Bool("log_full_sql", p.config.LogFullSQL),
		zap.Duration("slow_query_threshold", p.config.SlowQueryThresh),
		zap.String("db_system", p.config.DBSystem),
	)
	return nil
}

func markStart(db *gorm.DB) {
	if db.Statement.Context != nil {
		db.Statement.Context = context.WithValue(db.Statement.Context, queryStartKey{}, time.Now())
	}
}

// annotate adds row counts, the table and slow query markers to the active span
func (p *DBTracingPlugin) annotate(db *gorm.DB) {
	ctx := db.Statement.Context
	if ctx == nil {
		return
	}
	span := trace.SpanFromContext(ctx)
	if !span.IsRecording() {
		return
	}

	span.SetAttributes(attribute.Int64("db.rows_affected", db.Statement.RowsAffected))
	if db.Statement.Table != "" {
		span.SetAttributes(attribute.String("db.sql.table", db.Statement.Table))
	}
	if db.Error != nil && !errors.Is(db.Error, gorm.ErrRecordNotFound) {
		span.SetStatus(codes.Error, db.Error.Error())
		span.RecordError(db.Error)
	}

	start, ok := ctx.Value(queryStartKey{}).(time.Time)
	if !ok {
		return
	}
	if elapsed := time.Since(start); elapsed > p.config.SlowQueryThresh {
		span.SetAttributes(
			attribute.Bool("db.slow_query", true),
			attribute.Int64("db.query_duration_ms", elapsed.Milliseconds()),
		)
		span.AddEvent("slow_query_warning", trace.WithAttributes(
			attribute.Int64("duration_ms", elapsed.Milliseconds()),
			attribute.Int64("threshold_ms", p.config.SlowQueryThresh.Milliseconds()),
		))
	}
}
