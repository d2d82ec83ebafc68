package telemetry

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type tracedBook struct {
	ID    uint   `gorm:"primaryKey"`
	Title string `gorm:"size:100"`
}

func setupTracedDB(t *testing.T, cfg DBTracingConfig) (*gorm.DB, *tracetest.SpanRecorder) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&tracedBook{}))

	recorder := tracetest.NewSpanRecorder()
	cfg.TracerProvider = sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	require.NoError(t, NewDBTracingPlugin(cfg, zap.NewNop()).Register(db))
	return db, recorder
}

func TestDefaultDBTracingConfig(t *testing.T) {
	cfg := DefaultDBTracingConfig()

	assert.False(t, cfg.Enabled)
	assert.False(t, cfg.LogFullSQL)
	assert.Equal(t, 200*time.Millisecond, cfg.SlowQueryThresh)
	assert.Equal(t, "postgresql", cfg.DBSystem)
}

func TestDBTracingPlugin_Disabled(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)

	require.NoError(t, NewDBTracingPlugin(DefaultDBTracingConfig(), zap.New(core)).Register(db))
	assert.Equal(t, 1, logs.FilterMessage("Database tracing disabled, skipping otelgorm registration").Len())
	assert.Nil(t, db.Callback().Query().Get("bookstore:trace_end_query"))
}

func TestDBTracingPlugin_RecordsQuerySpans(t *testing.T) {
	db, recorder := setupTracedDB(t, DBTracingConfig{Enabled: true, DBSystem: "sqlite"})
	ctx := context.Background()

	require.NoError(t, db.WithContext(ctx).Create(&tracedBook{Title: "Dune"}).Error)
	var books []tracedBook
	require.NoError(t, db.WithContext(ctx).Where("title = ?", "Dune").Find(&books).Error)
	require.Len(t, books, 1)

	spans := recorder.Ended()
	require.NotEmpty(t, spans)

	var sawRows bool
	for _, span := range spans {
		for _, kv := range span.Attributes() {
			if kv.Key == "db.rows_affected" {
				sawRows = true
			}
		}
	}
	assert.True(t, sawRows, "spans should carry db.rows_affected")
}

func TestDBTracingPlugin_MarksSlowQueries(t *testing.T) {
	db, recorder := setupTracedDB(t, DBTracingConfig{Enabled: true, DBSystem: "sqlite", SlowQueryThresh: time.Nanosecond})

	var books []tracedBook
	require.NoError(t, db.WithContext(context.Background()).Find(&books).Error)

	var slow bool
	for _, span := range recorder.Ended() {
		for _, event := range span.Events() {
			if event.Name == "slow_query_warning" {
				slow = true
			}
		}
	}
	assert.True(t, slow)
}

func TestDBTracingPlugin_RecordsErrors(t *testing.T) {
	db, recorder := setupTracedDB(t, DBTracingConfig{Enabled: true, DBSystem: "sqlite"})

	err := db.WithContext(context.Background()).Table("missing_table").Find(&[]tracedBook{}).Error
	require.Error(t, err)

	var failed bool
	for _, span := range recorder.Ended() {
		if len(span.Events()) > 0 && span.Status().Code != 0 {
			failed = true
		}
	}
	assert.True(t, failed)
}
