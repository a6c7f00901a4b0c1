package db

import (
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/kaipinbao/kaipinbao-backend/internal/logger"
	"github.com/kaipinbao/kaipinbao-backend/internal/types"
	"github.com/kaipinbao/kaipinbao-backend/internal/utils"
)

type PostgresService struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewPostgresService(log *logger.Logger) (*PostgresService, error) {
	serviceLog := log.With("service", "PostgresService")

	postgresHost := utils.GetEnv("POSTGRES_HOST", "localhost", log)
	postgresPort := utils.GetEnv("POSTGRES_PORT", "5432", log)
	postgresUser := utils.GetEnv("POSTGRES_USER", "postgres", log)
	postgresPassword := utils.GetEnv("POSTGRES_PASSWORD", "", log)
	postgresName := utils.GetEnv("POSTGRES_NAME", "kaipinbao", log)

	dsn := fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable", postgresUser, postgresPassword, postgresHost, postgresPort, postgresName)

	serviceLog.Info("Connecting to Postgres...")
	gormDB, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		DisableForeignKeyConstraintWhenMigrating: true,
	})
	if err != nil {
		serviceLog.Error("Failed to connect to Postgres", "error", err)
		return nil, fmt.Errorf("failed to connect to Postgres: %w", err)
	}

	if err := gormDB.Exec(`CREATE EXTENSION IF NOT EXISTS "uuid-ossp";`).Error; err != nil {
		serviceLog.Error("Failed to enable uuid-ossp extension", "error", err)
		return nil, fmt.Errorf("failed to enable uuid-ossp extension: %w", err)
	}

	return &PostgresService{db: gormDB, log: serviceLog}, nil
}

func (s *PostgresService) AutoMigrateAll() error {
	s.log.Info("Auto migrating postgres tables...")
	err := s.db.AutoMigrate(
		&types.Project{},
		&types.ChatMessage{},
		&types.PrdDocument{},
		&types.CompetitorProduct{},
		&types.CompetitorReview{},
		&types.MarketAnalysis{},
	)
	if err != nil {
		s.log.Error("Auto migration failed for postgres tables", "error", err)
		return err
	}

	s.log.Info("Configuring foreign key relationships for postgres tables...")
	constraints := []struct {
		name string
		ddl  string
	}{
		{
			name: "fk_chat_message_project_id",
			ddl: `ALTER TABLE "chat_message"
				ADD CONSTRAINT "fk_chat_message_project_id"
				FOREIGN KEY ("project_id") REFERENCES "project"("id")
				ON DELETE CASCADE`,
		},
		{
			name: "fk_prd_document_project_id",
			ddl: `ALTER TABLE "prd_document"
				ADD CONSTRAINT "fk_prd_document_project_id"
				FOREIGN KEY ("project_id") REFERENCES "project"("id")
				ON DELETE CASCADE`,
		},
		{
			name: "fk_competitor_product_project_id",
			ddl: `ALTER TABLE "competitor_product"
				ADD CONSTRAINT "fk_competitor_product_project_id"
				FOREIGN KEY ("project_id") REFERENCES "project"("id")
				ON DELETE CASCADE`,
		},
		{
			name: "fk_competitor_review_product_id",
			ddl: `ALTER TABLE "competitor_review"
				ADD CONSTRAINT "fk_competitor_review_product_id"
				FOREIGN KEY ("competitor_product_id") REFERENCES "competitor_product"("id")
				ON DELETE CASCADE`,
		},
		{
			name: "fk_market_analysis_project_id",
			ddl: `ALTER TABLE "market_analysis"
				ADD CONSTRAINT "fk_market_analysis_project_id"
				FOREIGN KEY ("project_id") REFERENCES "project"("id")
				ON DELETE CASCADE`,
		},
	}
	for _, c := range constraints {
		var exists bool
		if err := s.db.Raw(
			`SELECT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = ?)`, c.name,
		).Scan(&exists).Error; err != nil {
			return fmt.Errorf("failed to check constraint %s: %w", c.name, err)
		}
		if exists {
			continue
		}
		if err := s.db.Exec(c.ddl).Error; err != nil {
			return fmt.Errorf("failed to add %s: %w", c.name, err)
		}
	}
	return nil
}

func (s *PostgresService) DB() *gorm.DB {
	return s.db
}
