// Package store persists scraped listings and price alerts in PostgreSQL.
// The link column is the natural key: re-running the pipeline upserts the
// same rows and duplicate links become no-op skips.
package store

import (
	"database/sql"
	"time"

	_ "github.com/lib/pq"

	"sudburyscout/carscout/internal/scrape"
	"sudburyscout/carscout/pkg/errors"
)

// Car is a persisted listing row.
type Car struct {
	ID        int64
	Title     string
	Price     string
	Mileage   string
	Link      string
	CreatedAt time.Time
}

// Alert is a persisted price alert subscription.
type Alert struct {
	ID          int64
	Email       string
	TargetPrice int
	Keyword     string
}

// Store wraps the PostgreSQL connection.
type Store struct {
	db *sql.DB
}

// Open connects to PostgreSQL, pings with bounded retries and ensures the
// schema exists.
func Open(dsn string) (*Store, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, errors.NewStorage("open connection failed", err)
	}

	for i := 0; i < 10; i++ {
		if err = db.Ping(); err == nil {
			break
		}
		time.Sleep(2 * time.Second)
	}
	if err != nil {
		db.Close()
		return nil, errors.NewStorage("ping failed after retries", err)
	}

	s := &Store{db: db}
	if err := s.initSchema(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) initSchema() error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS cars (
			id         SERIAL PRIMARY KEY,
			title      TEXT NOT NULL,
			price      TEXT,
			mileage    TEXT,
			link       TEXT UNIQUE,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		);

		CREATE TABLE IF NOT EXISTS price_alerts (
			id                SERIAL PRIMARY KEY,
			email             TEXT NOT NULL,
			target_price      INTEGER NOT NULL,
			car_title_keyword TEXT NOT NULL,
			created_at        TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		);
	`)
	if err != nil {
		return errors.NewStorage("schema init failed", err)
	}
	return nil
}

// LoadBatch inserts scraped listings, skipping rows whose link already
// exists. Returns the listings actually inserted plus the skip count.
func (s *Store) LoadBatch(listings []scrape.Listing) (inserted []scrape.Listing, skipped int, err error) {
	for _, l := range listings {
		res, execErr := s.db.Exec(`
			INSERT INTO cars (title, price, mileage, link)
			VALUES ($1, $2, $3, $4)
			ON CONFLICT (link) DO NOTHING
		`, l.Title, l.Price, l.Mileage, l.Link)
		if execErr != nil {
			return inserted, skipped, errors.NewStorage("insert failed", execErr)
		}
		if n, _ := res.RowsAffected(); n > 0 {
			inserted = append(inserted, l)
		} else {
			skipped++
		}
	}
	return inserted, skipped, nil
}

// ListCars returns every stored listing, newest first.
func (s *Store) ListCars() ([]Car, error) {
	rows, err := s.db.Query(`
		SELECT id, title, price, mileage, link, created_at
		FROM cars
		ORDER BY created_at DESC
	`)
	if err != nil {
		return nil, errors.NewStorage("list cars failed", err)
	}
	defer rows.Close()

	var cars []Car
	for rows.Next() {
		var c Car
		if err := rows.Scan(&c.ID, &c.Title, &c.Price, &c.Mileage, &c.Link, &c.CreatedAt); err != nil {
			return nil, errors.NewStorage("scan car row failed", err)
		}
		cars = append(cars, c)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.NewStorage("iterate car rows failed", err)
	}
	return cars, nil
}

// CreateAlert persists a price alert subscription verbatim.
func (s *Store) CreateAlert(email string, targetPrice int, keyword string) error {
	_, err := s.db.Exec(`
		INSERT INTO price_alerts (email, target_price, car_title_keyword)
		VALUES ($1, $2, $3)
	`, email, targetPrice, keyword)
	if err != nil {
		return errors.NewStorage("insert alert failed", err)
	}
	return nil
}

// ListAlerts returns every alert subscription.
func (s *Store) ListAlerts() ([]Alert, error) {
	rows, err := s.db.Query(`
		SELECT id, email, target_price, car_title_keyword
		FROM price_alerts
	`)
	if err != nil {
		return nil, errors.NewStorage("list alerts failed", err)
	}
	defer rows.Close()

	var alerts []Alert
	for rows.Next() {
		var a Alert
		if err := rows.Scan(&a.ID, &a.Email, &a.TargetPrice, &a.Keyword); err != nil {
			return nil, errors.NewStorage("scan alert row failed", err)
		}
		alerts = append(alerts, a)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.NewStorage("iterate alert rows failed", err)
	}
	return alerts, nil
}

// CleanBrokenLinks deletes rows whose link is the '#' placeholder or not an
// absolute http URL, and reports how many were removed and how many remain.
func (s *Store) CleanBrokenLinks() (removed, remaining int64, err error) {
	res, err := s.db.Exec(`
		DELETE FROM cars
		WHERE link = '#' OR link NOT LIKE 'http%'
	`)
	if err != nil {
		return 0, 0, errors.NewStorage("delete broken links failed", err)
	}
	removed, _ = res.RowsAffected()

	if err := s.db.QueryRow(`SELECT COUNT(*) FROM cars`).Scan(&remaining); err != nil {
		return removed, 0, errors.NewStorage("count remaining cars failed", err)
	}
	return removed, remaining, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}
