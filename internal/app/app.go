package app

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/atvirokodosprendimai/seqnotes/internal/adapters/httpapi"
	sqliteadapter "github.com/atvirokodosprendimai/seqnotes/internal/adapters/sqlite"
	"github.com/atvirokodosprendimai/seqnotes/internal/adapters/sqlite/gormsqlite"
	"github.com/atvirokodosprendimai/seqnotes/internal/core/domain"
	"github.com/atvirokodosprendimai/seqnotes/internal/core/usecase"
	"github.com/atvirokodosprendimai/seqnotes/internal/logger"
	"github.com/atvirokodosprendimai/seqnotes/migrations"
)

type Config struct {
	Addr       string
	DBPath     string
	LengthRule domain.LengthRule
}

type resourceCloser struct {
	closers []io.Closer
}

func (r resourceCloser) Close() error {
	var firstErr error
	for _, c := range r.closers {
		if c == nil {
			continue
		}
		if err := c.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

func NewServer(ctx context.Context, cfg Config, log *logger.Logger) (*http.Server, io.Closer, error) {
	if log == nil {
		log = logger.Nop()
	}

	db, err := gormsqlite.Open(cfg.DBPath, log)
	if err != nil {
		return nil, nil, fmt.Errorf("open sqlite: %w", err)
	}

	writeSQLDB, err := db.WriteSQLDB()
	if err != nil {
		_ = db.Close()
		return nil, nil, fmt.Errorf("resolve writer sql db: %w", err)
	}

	migrateCtx, cancel := context.WithTimeout(log.WithContext(ctx), 5*time.Second)
	defer cancel()
	if err := migrations.Up(migrateCtx, writeSQLDB); err != nil {
		_ = db.Close()
		return nil, nil, err
	}
	if version, err := migrations.Version(migrateCtx, writeSQLDB); err == nil {
		log.Info().Int64("schema_version", version).Str("db_path", cfg.DBPath).Msg("database ready")
	}

	validator := domain.NewRecordValidator(cfg.LengthRule)
	ev := log.Info()
	if validator.Rule() == domain.LengthRuleLiteral {
		ev = log.Warn()
	}
	ev.Str("length_rule", string(validator.Rule())).Msg("sequence length rule")

	users := sqliteadapter.NewUserRepository(db)
	handler, err := httpapi.NewHandler(httpapi.Services{
		Users:         usecase.NewUserService(users),
		Sequences:     usecase.NewSequenceService(sqliteadapter.NewSequenceRepository(db, validator), users, validator),
		Documents:     usecase.NewDocumentService(sqliteadapter.NewDocumentRepository(db, validator), users, validator),
		Comments:      usecase.NewCommentService(sqliteadapter.NewCommentRepository(db, validator), users, sqliteadapter.NewTargetResolver(db), validator),
		Notifications: usecase.NewNotificationService(sqliteadapter.NewNotificationRepository(db, validator), validator),
	}, log)
	if err != nil {
		_ = db.Close()
		return nil, nil, fmt.Errorf("build http handler: %w", err)
	}

	server := &http.Server{
		Addr:              cfg.Addr,
		Handler:           handler.Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	return server, resourceCloser{closers: []io.Closer{db}}, nil
}
