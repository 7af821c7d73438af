// Package postgres provides PostgreSQL database connection and management
package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/plugin/dbresolver"

	"github.com/homemadefood/backoffice/internal/infrastructure/config"
	gormstore "github.com/homemadefood/backoffice/internal/infrastructure/persistence/gorm"
)

// ConnectionManager owns the primary PostgreSQL pool and any read replicas
type ConnectionManager struct {
	config  *config.Config
	logger  *zap.Logger
	db      *gorm.DB
	writeDB *sql.DB
}

// NewConnectionManager opens the primary connection, applies the pool
// settings and registers the configured read replicas.
func NewConnectionManager(cfg *config.Config, log *zap.Logger) (*ConnectionManager, error) {
	cm := &ConnectionManager{
		config: cfg,
		logger: log.Named("postgres"),
	}

	if err := cm.initializePrimaryConnection(); err != nil {
		return nil, fmt.Errorf("failed to initialize primary connection: %w", err)
	}

	if err := cm.initializeReadReplicas(); err != nil {
		cm.logger.Warn("Failed to initialize read replicas", zap.Error(err))
	}

	cm.logger.Info("Database connection manager initialized",
		zap.Int("max_open_conns", cfg.Database.MaxOpenConns),
		zap.Int("max_idle_conns", cfg.Database.MaxIdleConns),
		zap.Duration("conn_max_lifetime", cfg.Database.ConnMaxLifetime),
		zap.Duration("slow_query_threshold", cfg.Database.SlowQueryThreshold),
	)

	return cm, nil
}

func (cm *ConnectionManager) initializePrimaryConnection() error {
	dbCfg := cm.config.Database

	db, err := gorm.Open(postgres.Open(cm.config.GetDSN(dbCfg.Host)), &gorm.Config{
		Logger:      gormstore.NewLogger(cm.logger, dbCfg.LogLevel, dbCfg.SlowQueryThreshold),
		PrepareStmt: true,
	})
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	sqlDB.SetMaxOpenConns(dbCfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(dbCfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(dbCfg.ConnMaxLifetime)
	sqlDB.SetConnMaxIdleTime(dbCfg.ConnMaxIdleTime)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := sqlDB.PingContext(ctx); err != nil {
		return fmt.Errorf("failed to ping database: %w", err)
	}

	cm.db = db
	cm.writeDB = sqlDB
	return nil
}

// initializeReadReplicas routes reads outside a transaction to the replicas.
// Unit of work commits always run on the primary.
func (cm *ConnectionManager) initializeReadReplicas() error {
	replicaHosts := cm.config.Database.ReadReplicas
	if len(replicaHosts) == 0 {
		return nil
	}

	replicas := make([]gorm.Dialector, len(replicaHosts))
	for i, host := range replicaHosts {
		replicas[i] = postgres.Open(cm.config.GetDSN(host))
	}

	err := cm.db.Use(dbresolver.Register(dbresolver.Config{
		Replicas: replicas,
		Policy:   dbresolver.RandomPolicy{},
	}).
		SetMaxOpenConns(cm.config.Database.MaxOpenConns).
		SetMaxIdleConns(cm.config.Database.MaxIdleConns).
		SetConnMaxLifetime(cm.config.Database.ConnMaxLifetime))
	if err != nil {
		return fmt.Errorf("failed to register read replicas: %w", err)
	}

	cm.logger.Info("Read replicas configured", zap.Int("replica_count", len(replicaHosts)))
	return nil
}

// DB returns the main database connection
func (cm *ConnectionManager) DB() *gorm.DB {
	return cm.db
}

// HealthCheck pings the primary database
func (cm *ConnectionManager) HealthCheck(ctx context.Context) error {
	if err := cm.writeDB.PingContext(ctx); err != nil {
		return fmt.Errorf("primary database ping failed: %w", err)
	}
	return nil
}

// Close closes the primary pool
func (cm *ConnectionManager) Close() error {
	if cm.writeDB == nil {
		return nil
	}
	if err := cm.writeDB.Close(); err != nil {
		cm.logger.Error("Failed to close primary database", zap.Error(err))
		return err
	}
	return nil
}
