// Package migrations applies the schema as explicit, versioned steps
// recorded in schema_migrations. Each step runs once, inside its own
// transaction; there is no runtime schema repair anywhere else.
package migrations

import (
	"fmt"
	"log"

	"gorm.io/gorm"
)

type migration struct {
	version    int
	name       string
	statements []string
}

var all = []migration{
	{
		version: 1,
		name:    "create candidates",
		statements: []string{
			`CREATE TABLE candidates (
				id uuid PRIMARY KEY DEFAULT gen_random_uuid(),
				name text NOT NULL,
				normalized_name text NOT NULL,
				email text,
				whatsapp_number text,
				linkedin_url text,
				location text,
				designation text,
				company text,
				experience_years numeric(4,1),
				number_of_companies integer,
				profile_summary text,
				current_stage text NOT NULL DEFAULT 'Applied/Received',
				created_at timestamptz NOT NULL DEFAULT now(),
				updated_at timestamptz NOT NULL DEFAULT now()
			)`,
			// NULL emails and numbers are exempt from uniqueness; the
			// indexes arbitrate concurrent find-or-create races.
			`CREATE UNIQUE INDEX candidates_email_key ON candidates (email)`,
			`CREATE UNIQUE INDEX candidates_whatsapp_number_key ON candidates (whatsapp_number)`,
			`CREATE INDEX candidates_normalized_name_idx ON candidates (normalized_name)`,
			`CREATE INDEX candidates_linkedin_url_idx ON candidates (linkedin_url)`,
			`CREATE INDEX candidates_current_stage_idx ON candidates (current_stage)`,
		},
	},
	{
		version: 2,
		name:    "create job_descriptions",
		statements: []string{
			`CREATE TABLE job_descriptions (
				id uuid PRIMARY KEY DEFAULT gen_random_uuid(),
				title text NOT NULL,
				normalized_title text NOT NULL,
				description text,
				external_link text,
				created_at timestamptz NOT NULL DEFAULT now(),
				updated_at timestamptz NOT NULL DEFAULT now()
			)`,
			`CREATE UNIQUE INDEX job_descriptions_normalized_title_key ON job_descriptions (normalized_title)`,
		},
	},
	{
		version: 3,
		name:    "create evaluations",
		statements: []string{
			`CREATE TABLE evaluations (
				id uuid PRIMARY KEY DEFAULT gen_random_uuid(),
				candidate_id uuid NOT NULL REFERENCES candidates (id) ON DELETE CASCADE,
				job_description_id uuid REFERENCES job_descriptions (id) ON DELETE SET NULL,
				role_applied text,
				verdict text NOT NULL,
				match_score integer NOT NULL CHECK (match_score BETWEEN 0 AND 100),
				score_breakdown jsonb,
				strengths jsonb,
				gaps jsonb,
				education_gaps jsonb,
				experience_gaps jsonb,
				better_suited_note text,
				email_draft jsonb,
				whatsapp_draft jsonb,
				created_at timestamptz NOT NULL DEFAULT now(),
				updated_at timestamptz NOT NULL DEFAULT now()
			)`,
			`CREATE INDEX evaluations_candidate_id_idx ON evaluations (candidate_id, created_at DESC)`,
			`CREATE INDEX evaluations_job_description_id_idx ON evaluations (job_description_id)`,
		},
	},
	{
		version: 4,
		name:    "create stage_history",
		statements: []string{
			`CREATE TABLE stage_history (
				id uuid PRIMARY KEY DEFAULT gen_random_uuid(),
				candidate_id uuid NOT NULL REFERENCES candidates (id) ON DELETE CASCADE,
				evaluation_id uuid REFERENCES evaluations (id) ON DELETE SET NULL,
				stage text NOT NULL,
				comment text NOT NULL,
				changed_by text,
				created_at timestamptz NOT NULL DEFAULT now()
			)`,
			`CREATE INDEX stage_history_candidate_id_idx ON stage_history (candidate_id, created_at DESC)`,
		},
	},
	{
		version: 5,
		name:    "create communication_logs",
		statements: []string{
			`CREATE TABLE communication_logs (
				id uuid PRIMARY KEY DEFAULT gen_random_uuid(),
				evaluation_id uuid NOT NULL REFERENCES evaluations (id) ON DELETE CASCADE,
				channel text NOT NULL,
				recipient text NOT NULL,
				subject text,
				message text,
				status text NOT NULL DEFAULT 'pending',
				error_message text,
				provider_message_id text,
				sent_at timestamptz,
				created_at timestamptz NOT NULL DEFAULT now()
			)`,
			`CREATE INDEX communication_logs_evaluation_id_idx ON communication_logs (evaluation_id)`,
			`CREATE INDEX communication_logs_status_idx ON communication_logs (status)`,
		},
	},
}

// Run applies every unapplied migration in order.
func Run(db *gorm.DB) error {
	err := db.Exec(`CREATE TABLE IF NOT EXISTS schema_migrations (
		version integer PRIMARY KEY,
		name text NOT NULL,
		applied_at timestamptz NOT NULL DEFAULT now()
	)`).Error
	if err != nil {
		return fmt.Errorf("failed to create schema_migrations: %w", err)
	}

	for _, m := range all {
		var count int64
		err := db.Table("schema_migrations").Where("version = ?", m.version).Count(&count).Error
		if err != nil {
			return fmt.Errorf("failed to check migration %d: %w", m.version, err)
		}
		if count > 0 {
			continue
		}

		err = db.Transaction(func(tx *gorm.DB) error {
			for _, stmt := range m.statements {
				if err := tx.Exec(stmt).Error; err != nil {
					return err
				}
			}
			return tx.Exec(
				`INSERT INTO schema_migrations (version, name) VALUES (?, ?)`,
				m.version, m.name,
			).Error
		})
		if err != nil {
			return fmt.Errorf("migration %d (%s) failed: %w", m.version, m.name, err)
		}

		log.Printf("✅ Applied migration %d: %s\n", m.version, m.name)
	}

	return nil
}
