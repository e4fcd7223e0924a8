package server

import (
	"context"

	"github.com/pkg/errors"
	"gorm.io/gorm"

	"ailetic/config"
	"ailetic/internal/audit"
	"ailetic/internal/controller/rmq"
	"ailetic/internal/db/gorm/mysql"
	"ailetic/internal/storage/s3repo"
	"ailetic/pkg/logger"
)

// recorders holds the optional sinks for compute records and what must be
// closed on shutdown.
type recorders struct {
	chain     audit.Chain
	db        *gorm.DB
	publisher *rmq.EventPublisher
}

// newRecorders enables each sink whose configuration is present. The archive
// runs first so the stored record carries its key.
func newRecorders(ctx context.Context, cfg *config.Config, l logger.Interface) (*recorders, error) {
	r := &recorders{}

	if cfg.S3.Bucket != "" {
		repo, err := s3repo.NewS3Repository(ctx, cfg.S3)
		if err != nil {
			return nil, errors.Wrap(err, "s3 repository")
		}
		if err := repo.EnsureBucket(ctx, cfg.S3.Bucket); err != nil {
			return nil, errors.Wrapf(err, "s3 bucket %s", cfg.S3.Bucket)
		}
		r.chain = append(r.chain, audit.NewArchive(repo, cfg.S3.Bucket))
		l.Info("archiving results to s3://%s", cfg.S3.Bucket)
	}

	if cfg.MYSQL.Host != "" {
		db, err := mysql.NewDB(cfg.MYSQL)
		if err != nil {
			return nil, err
		}
		r.db = db

		repo := audit.NewRepository(db)
		if err := repo.Migrate(ctx); err != nil {
			r.close(l)
			return nil, err
		}
		r.chain = append(r.chain, repo)
		l.Info("recording compute requests to mysql %s:%s", cfg.MYSQL.Host, cfg.MYSQL.Port)
	}

	if cfg.RMQ.URL != "" {
		publisher, err := rmq.NewEventPublisher(cfg.RMQ, l)
		if err != nil {
			r.close(l)
			return nil, err
		}
		r.publisher = publisher
		r.chain = append(r.chain, publisher)
	}

	return r, nil
}

func (r *recorders) close(l logger.Interface) {
	if r.publisher != nil {
		if err := r.publisher.Close(); err != nil {
			l.Error(errors.Wrap(err, "app - Run - publisher.Close"))
		}
	}
	if r.db != nil {
		if err := mysql.Close(r.db); err != nil {
			l.Error(errors.Wrap(err, "app - Run - db.Close"))
		}
	}
}
