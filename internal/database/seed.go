package database

import (
	"database/sql"
	"fmt"
	"log/slog"

	"golang.org/x/crypto/bcrypt"
)

// Seed populates the database with initial development data: a default
// admin user and a starter set of categories, services, staff and social
// links so the public site renders something on first boot. The admin will
// be prompted to set up 2FA on first login (totp_enabled = false).
func Seed(db *sql.DB) error {
	// Check if any users exist already.
	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM users").Scan(&count); err != nil {
		return fmt.Errorf("seed check users: %w", err)
	}

	if count > 0 {
		slog.Info("database already seeded, skipping")
		return nil
	}

	// Hash the default admin password.
	hash, err := bcrypt.GenerateFromPassword([]byte("admin"), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("seed bcrypt: %w", err)
	}

	// Insert default admin user. 2FA is not enabled — they must set it up
	// on first login.
	_, err = db.Exec(`
		INSERT INTO users (email, password_hash, display_name, role, totp_enabled)
		VALUES ($1, $2, $3, $4, $5)
	`, "admin@clinic.local", string(hash), "Admin", "admin", false)
	if err != nil {
		return fmt.Errorf("seed insert admin: %w", err)
	}

	if err := seedStarterContent(db); err != nil {
		return err
	}

	slog.Info("database seeded with default admin user",
		"email", "admin@clinic.local",
		"password", "admin",
	)

	return nil
}

// seedStarterContent inserts a small set of categories, services, staff and
// social links so the site is not empty on first boot. Everything here is
// editable or deletable from the admin panel.
func seedStarterContent(db *sql.DB) error {
	var massageID, physioID string
	err := db.QueryRow(`
		INSERT INTO categories (name, slug, description, display_order)
		VALUES ('Massage Therapy', 'massage-therapy', 'Registered massage therapy for recovery and relaxation.', 0)
		RETURNING id
	`).Scan(&massageID)
	if err != nil {
		return fmt.Errorf("seed category: %w", err)
	}
	err = db.QueryRow(`
		INSERT INTO categories (name, slug, description, display_order)
		VALUES ('Physiotherapy', 'physiotherapy', 'Assessment and treatment of movement and function.', 1)
		RETURNING id
	`).Scan(&physioID)
	if err != nil {
		return fmt.Errorf("seed category: %w", err)
	}

	_, err = db.Exec(`
		INSERT INTO services (category_id, name, slug, short_description, full_description,
			duration_minutes, price_cents, display_order)
		VALUES
		($1, 'Deep Tissue Massage', 'deep-tissue-massage',
		 'Focused pressure work for chronic tension.',
		 'A sixty minute session targeting deeper layers of muscle and connective tissue. Suited to chronic tension and recovery from training.',
		 60, 11000, 0),
		($1, 'Relaxation Massage', 'relaxation-massage',
		 'A gentle full-body massage.',
		 'A gentle full-body massage using light to moderate pressure. A good choice for stress relief and first visits.',
		 45, 9000, 1),
		($2, 'Initial Physiotherapy Assessment', 'initial-physiotherapy-assessment',
		 'A full assessment and first treatment.',
		 'A comprehensive assessment of your movement and function followed by an initial treatment and a take-home plan.',
		 60, 13500, 2)
	`, massageID, physioID)
	if err != nil {
		return fmt.Errorf("seed services: %w", err)
	}

	_, err = db.Exec(`
		INSERT INTO staff_members (name, slug, job_title, credentials, bio, display_order)
		VALUES
		('Maya Tran', 'maya-tran', 'Registered Massage Therapist', 'RMT',
		 'Maya has practiced massage therapy for eight years with a focus on sports recovery.', 0),
		('Jordan Okafor', 'jordan-okafor', 'Physiotherapist', 'PT, MScPT',
		 'Jordan works with post-surgical and athletic clients on movement restoration.', 1)
	`)
	if err != nil {
		return fmt.Errorf("seed staff: %w", err)
	}

	_, err = db.Exec(`
		INSERT INTO social_links (platform, label, url, display_order)
		VALUES
		('instagram', 'Instagram', 'https://instagram.com/example-clinic', 0),
		('facebook', 'Facebook', 'https://facebook.com/example-clinic', 1)
	`)
	if err != nil {
		return fmt.Errorf("seed social links: %w", err)
	}

	return nil
}
