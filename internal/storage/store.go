package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
	"github.com/rotisserie/eris"

	"github.com/denisok6893-rgb/wholesale-deal-engine/internal/domain"
)

const (
	DriverSQLite   = "sqlite3"
	DriverPostgres = "postgres"
)

// Store keeps properties, comparable sales and buyers in SQLite or Postgres.
type Store struct {
	db     *sqlx.DB
	driver string
	now    func() time.Time
}

func Open(driver, dsn string) (*Store, error) {
	db, err := sqlx.Connect(driver, dsn)
	if err != nil {
		return nil, eris.Wrapf(err, "connect %s", driver)
	}
	if driver == DriverSQLite {
		// every connection to :memory: is a separate database
		if strings.Contains(dsn, ":memory:") || strings.Contains(dsn, "mode=memory") {
			db.SetMaxOpenConns(1)
		}
		for _, pragma := range []string{`PRAGMA journal_mode=WAL;`, `PRAGMA foreign_keys=ON;`} {
			if _, err := db.Exec(pragma); err != nil {
				_ = db.Close()
				return nil, eris.Wrapf(err, "sqlite %s", pragma)
			}
		}
	}
	return &Store{db: db, driver: driver, now: time.Now}, nil
}

func (s *Store) Close() error { return s.db.Close() }

func (s *Store) EnsureSchema(ctx context.Context) error {
	stmts := []string{`
CREATE TABLE IF NOT EXISTS properties (
  id TEXT PRIMARY KEY,
  address TEXT NOT NULL,
  city TEXT NOT NULL DEFAULT '',
  state TEXT NOT NULL DEFAULT '',
  zip TEXT NOT NULL DEFAULT '',
  square_feet DOUBLE PRECISION NOT NULL DEFAULT 0,
  bedrooms INTEGER NOT NULL DEFAULT 0,
  bathrooms DOUBLE PRECISION NOT NULL DEFAULT 0,
  year_built INTEGER NOT NULL DEFAULT 0,
  lot_size DOUBLE PRECISION NOT NULL DEFAULT 0,
  condition_json TEXT NOT NULL DEFAULT '{}',
  post_repair_condition INTEGER NOT NULL DEFAULT 0,
  asking_price DOUBLE PRECISION NOT NULL DEFAULT 0,
  monthly_rent DOUBLE PRECISION NOT NULL DEFAULT 0,
  mortgage_json TEXT NOT NULL DEFAULT '{}',
  estimated_value DOUBLE PRECISION NOT NULL DEFAULT 0,
  deal_type TEXT NOT NULL DEFAULT '',
  holding_months DOUBLE PRECISION NOT NULL DEFAULT 0,
  signals_json TEXT NOT NULL DEFAULT '{}',
  arv DOUBLE PRECISION NOT NULL DEFAULT 0,
  repair_estimate DOUBLE PRECISION NOT NULL DEFAULT 0,
  valuation_confidence TEXT NOT NULL DEFAULT '',
  mao DOUBLE PRECISION NOT NULL DEFAULT 0,
  deal_score DOUBLE PRECISION NOT NULL DEFAULT 0,
  risk_score DOUBLE PRECISION NOT NULL DEFAULT 0,
  deal_class TEXT NOT NULL DEFAULT '',
  status TEXT NOT NULL DEFAULT 'active',
  created_at TIMESTAMP NOT NULL
);`, `
CREATE TABLE IF NOT EXISTS comparables (
  id TEXT PRIMARY KEY,
  property_id TEXT NOT NULL REFERENCES properties(id),
  address TEXT NOT NULL DEFAULT '',
  sale_price DOUBLE PRECISION NOT NULL DEFAULT 0,
  square_feet DOUBLE PRECISION NOT NULL DEFAULT 0,
  bedrooms INTEGER NOT NULL DEFAULT 0,
  bathrooms DOUBLE PRECISION NOT NULL DEFAULT 0,
  year_built INTEGER NOT NULL DEFAULT 0,
  condition INTEGER NOT NULL DEFAULT 0,
  sale_date TIMESTAMP NULL
);`, `
CREATE TABLE IF NOT EXISTS buyers (
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL DEFAULT '',
  email TEXT NOT NULL DEFAULT '',
  phone TEXT NOT NULL DEFAULT '',
  max_budget DOUBLE PRECISION NOT NULL DEFAULT 0,
  investment_type TEXT NOT NULL DEFAULT '',
  preferred_areas TEXT NOT NULL DEFAULT '',
  cash_verified BOOLEAN NOT NULL DEFAULT FALSE,
  active BOOLEAN NOT NULL DEFAULT TRUE,
  created_at TIMESTAMP NOT NULL
);`,
		`CREATE INDEX IF NOT EXISTS idx_properties_status ON properties(status);`,
		`CREATE INDEX IF NOT EXISTS idx_properties_asking_price ON properties(asking_price);`,
		`CREATE INDEX IF NOT EXISTS idx_comparables_property ON comparables(property_id);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return eris.Wrap(err, "ensure schema")
		}
	}
	return nil
}

type propertyRow struct {
	ID                  string    `db:"id"`
	Address             string    `db:"address"`
	City                string    `db:"city"`
	State               string    `db:"state"`
	Zip                 string    `db:"zip"`
	SquareFeet          float64   `db:"square_feet"`
	Bedrooms            int       `db:"bedrooms"`
	Bathrooms           float64   `db:"bathrooms"`
	YearBuilt           int       `db:"year_built"`
	LotSize             float64   `db:"lot_size"`
	ConditionJSON       string    `db:"condition_json"`
	PostRepairCondition int       `db:"post_repair_condition"`
	AskingPrice         float64   `db:"asking_price"`
	MonthlyRent         float64   `db:"monthly_rent"`
	MortgageJSON        string    `db:"mortgage_json"`
	EstimatedValue      float64   `db:"estimated_value"`
	DealType            string    `db:"deal_type"`
	HoldingMonths       float64   `db:"holding_months"`
	SignalsJSON         string    `db:"signals_json"`
	ARV                 float64   `db:"arv"`
	RepairEstimate      float64   `db:"repair_estimate"`
	ValuationConfidence string    `db:"valuation_confidence"`
	MAO                 float64   `db:"mao"`
	DealScore           float64   `db:"deal_score"`
	RiskScore           float64   `db:"risk_score"`
	DealClass           string    `db:"deal_class"`
	Status              string    `db:"status"`
	CreatedAt           time.Time `db:"created_at"`
}

const propertyColumns = `id, address, city, state, zip, square_feet, bedrooms, bathrooms, year_built, lot_size,
condition_json, post_repair_condition, asking_price, monthly_rent, mortgage_json, estimated_value, deal_type,
holding_months, signals_json, arv, repair_estimate, valuation_confidence, mao, deal_score, risk_score,
deal_class, status, created_at`

func toPropertyRow(p domain.PropertyRecord) (propertyRow, error) {
	cond, err := json.Marshal(p.Condition)
	if err != nil {
		return propertyRow{}, err
	}
	mort, err := json.Marshal(p.Mortgage)
	if err != nil {
		return propertyRow{}, err
	}
	sig, err := json.Marshal(p.Signals)
	if err != nil {
		return propertyRow{}, err
	}
	return propertyRow{
		ID: p.ID, Address: p.Address, City: p.City, State: p.State, Zip: p.Zip,
		SquareFeet: p.SquareFeet, Bedrooms: p.Bedrooms, Bathrooms: p.Bathrooms, YearBuilt: p.YearBuilt, LotSize: p.LotSize,
		ConditionJSON: string(cond), PostRepairCondition: p.PostRepairCondition,
		AskingPrice: p.AskingPrice, MonthlyRent: p.MonthlyRent, MortgageJSON: string(mort),
		EstimatedValue: p.EstimatedValue, DealType: p.DealType, HoldingMonths: p.HoldingMonths, SignalsJSON: string(sig),
		ARV: p.ARV, RepairEstimate: p.RepairEstimate, ValuationConfidence: string(p.ValuationConfidence),
		MAO: p.MAO, DealScore: p.DealScore, RiskScore: p.RiskScore, DealClass: string(p.DealClass),
		Status: string(p.Status), CreatedAt: p.CreatedAt.UTC(),
	}, nil
}

func (r propertyRow) record() domain.PropertyRecord {
	p := domain.PropertyRecord{
		ID: r.ID, Address: r.Address, City: r.City, State: r.State, Zip: r.Zip,
		SquareFeet: r.SquareFeet, Bedrooms: r.Bedrooms, Bathrooms: r.Bathrooms, YearBuilt: r.YearBuilt, LotSize: r.LotSize,
		PostRepairCondition: r.PostRepairCondition, AskingPrice: r.AskingPrice, MonthlyRent: r.MonthlyRent,
		EstimatedValue: r.EstimatedValue, DealType: r.DealType, HoldingMonths: r.HoldingMonths,
		ARV: r.ARV, RepairEstimate: r.RepairEstimate, ValuationConfidence: domain.Confidence(r.ValuationConfidence),
		MAO: r.MAO, DealScore: r.DealScore, RiskScore: r.RiskScore, DealClass: domain.Recommendation(r.DealClass),
		Status: domain.PropertyStatus(r.Status), CreatedAt: r.CreatedAt.UTC(),
	}
	// a damaged JSON column leaves the signals unknown rather than failing the read
	_ = json.Unmarshal([]byte(r.ConditionJSON), &p.Condition)
	_ = json.Unmarshal([]byte(r.MortgageJSON), &p.Mortgage)
	_ = json.Unmarshal([]byte(r.SignalsJSON), &p.Signals)
	return p
}

const upsertProperty = `
INSERT INTO properties (` + propertyColumns + `)
VALUES (:id, :address, :city, :state, :zip, :square_feet, :bedrooms, :bathrooms, :year_built, :lot_size,
:condition_json, :post_repair_condition, :asking_price, :monthly_rent, :mortgage_json, :estimated_value, :deal_type,
:holding_months, :signals_json, :arv, :repair_estimate, :valuation_confidence, :mao, :deal_score, :risk_score,
:deal_class, :status, :created_at)
ON CONFLICT (id) DO UPDATE SET
  address = excluded.address, city = excluded.city, state = excluded.state, zip = excluded.zip,
  square_feet = excluded.square_feet, bedrooms = excluded.bedrooms, bathrooms = excluded.bathrooms,
  year_built = excluded.year_built, lot_size = excluded.lot_size, condition_json = excluded.condition_json,
  post_repair_condition = excluded.post_repair_condition, asking_price = excluded.asking_price,
  monthly_rent = excluded.monthly_rent, mortgage_json = excluded.mortgage_json,
  estimated_value = excluded.estimated_value, deal_type = excluded.deal_type,
  holding_months = excluded.holding_months, signals_json = excluded.signals_json, arv = excluded.arv,
  repair_estimate = excluded.repair_estimate, valuation_confidence = excluded.valuation_confidence,
  mao = excluded.mao, deal_score = excluded.deal_score, risk_score = excluded.risk_score,
  deal_class = excluded.deal_class, status = excluded.status
`

// SaveProperty inserts or updates a property. A record without an id gets a new one.
func (s *Store) SaveProperty(ctx context.Context, p domain.PropertyRecord) (domain.PropertyRecord, error) {
	p = s.prepareProperty(p)
	row, err := toPropertyRow(p)
	if err != nil {
		return domain.PropertyRecord{}, eris.Wrapf(err, "encode property %s", p.ID)
	}
	if _, err := s.db.NamedExecContext(ctx, upsertProperty, row); err != nil {
		return domain.PropertyRecord{}, eris.Wrapf(err, "save property %s", p.ID)
	}
	return p, nil
}

func (s *Store) prepareProperty(p domain.PropertyRecord) domain.PropertyRecord {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	if p.Status == "" {
		p.Status = domain.StatusActive
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = s.now().UTC().Truncate(time.Second)
	}
	return p
}

func (s *Store) GetProperty(ctx context.Context, id string) (domain.PropertyRecord, error) {
	var row propertyRow
	err := s.db.GetContext(ctx, &row, s.db.Rebind(`SELECT `+propertyColumns+` FROM properties WHERE id = ?`), id)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.PropertyRecord{}, eris.Wrapf(domain.ErrNotFound, "property %s", id)
	}
	if err != nil {
		return domain.PropertyRecord{}, eris.Wrapf(err, "get property %s", id)
	}
	return row.record(), nil
}

// ArchiveProperty marks a property archived. Properties are never deleted.
func (s *Store) ArchiveProperty(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, s.db.Rebind(`UPDATE properties SET status = ? WHERE id = ?`), string(domain.StatusArchived), id)
	if err != nil {
		return eris.Wrapf(err, "archive property %s", id)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return eris.Wrapf(domain.ErrNotFound, "property %s", id)
	}
	return nil
}

func (s *Store) CountProperties(ctx context.Context) (int, error) {
	var n int
	err := s.db.GetContext(ctx, &n, `SELECT COUNT(*) FROM properties`)
	return n, eris.Wrap(err, "count properties")
}

// ListProperties returns one page of properties matching the filter and the total match count.
func (s *Store) ListProperties(ctx context.Context, f domain.PropertyFilter) ([]domain.PropertyRecord, int, error) {
	if f.Limit <= 0 {
		f.Limit = 20
	}
	if f.Offset < 0 {
		f.Offset = 0
	}

	where := make([]string, 0, 5)
	args := make([]any, 0, 8)

	if loc := strings.TrimSpace(f.Location); loc != "" {
		where = append(where, "LOWER(address || ' ' || city || ' ' || state || ' ' || zip) LIKE ?")
		args = append(args, "%"+strings.ToLower(loc)+"%")
	}
	if f.MinPrice > 0 {
		where = append(where, "asking_price >= ?")
		args = append(args, f.MinPrice)
	}
	if f.MaxPrice > 0 {
		where = append(where, "asking_price <= ?")
		args = append(args, f.MaxPrice)
	}
	if f.Status != "" {
		where = append(where, "status = ?")
		args = append(args, string(f.Status))
	}
	if f.DealClass != "" {
		where = append(where, "deal_class = ?")
		args = append(args, string(f.DealClass))
	}

	whereSQL := ""
	if len(where) > 0 {
		whereSQL = "WHERE " + strings.Join(where, " AND ")
	}

	orderSQL := "ORDER BY id"
	switch f.Sort {
	case "price_asc":
		orderSQL = "ORDER BY asking_price ASC, id"
	case "price_desc":
		orderSQL = "ORDER BY asking_price DESC, id"
	case "score_desc":
		orderSQL = "ORDER BY deal_score DESC, id"
	}

	var total int
	if err := s.db.GetContext(ctx, &total, s.db.Rebind("SELECT COUNT(*) FROM properties "+whereSQL), args...); err != nil {
		return nil, 0, eris.Wrap(err, "count properties")
	}

	query := "SELECT " + propertyColumns + " FROM properties " + whereSQL + "\n" + orderSQL + "\nLIMIT ? OFFSET ?"
	var rows []propertyRow
	if err := s.db.SelectContext(ctx, &rows, s.db.Rebind(query), append(args, f.Limit, f.Offset)...); err != nil {
		return nil, 0, eris.Wrap(err, "list properties")
	}

	out := make([]domain.PropertyRecord, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.record())
	}
	return out, total, nil
}

type comparableRow struct {
	ID         string       `db:"id"`
	PropertyID string       `db:"property_id"`
	Address    string       `db:"address"`
	SalePrice  float64      `db:"sale_price"`
	SquareFeet float64      `db:"square_feet"`
	Bedrooms   int          `db:"bedrooms"`
	Bathrooms  float64      `db:"bathrooms"`
	YearBuilt  int          `db:"year_built"`
	Condition  int          `db:"condition"`
	SaleDate   sql.NullTime `db:"sale_date"`
}

const upsertComparable = `
INSERT INTO comparables (id, property_id, address, sale_price, square_feet, bedrooms, bathrooms, year_built, condition, sale_date)
VALUES (:id, :property_id, :address, :sale_price, :square_feet, :bedrooms, :bathrooms, :year_built, :condition, :sale_date)
ON CONFLICT (id) DO UPDATE SET
  property_id = excluded.property_id, address = excluded.address, sale_price = excluded.sale_price,
  square_feet = excluded.square_feet, bedrooms = excluded.bedrooms, bathrooms = excluded.bathrooms,
  year_built = excluded.year_built, condition = excluded.condition, sale_date = excluded.sale_date
`

func (s *Store) ListComparables(ctx context.Context, propertyID string) ([]domain.ComparableSale, error) {
	var rows []comparableRow
	err := s.db.SelectContext(ctx, &rows, s.db.Rebind(`
SELECT id, property_id, address, sale_price, square_feet, bedrooms, bathrooms, year_built, condition, sale_date
FROM comparables WHERE property_id = ? ORDER BY id`), propertyID)
	if err != nil {
		return nil, eris.Wrapf(err, "list comparables for %s", propertyID)
	}
	out := make([]domain.ComparableSale, 0, len(rows))
	for _, r := range rows {
		c := domain.ComparableSale{
			ID: r.ID, PropertyID: r.PropertyID, Address: r.Address, SalePrice: r.SalePrice,
			SquareFeet: r.SquareFeet, Bedrooms: r.Bedrooms, Bathrooms: r.Bathrooms,
			YearBuilt: r.YearBuilt, Condition: r.Condition,
		}
		if r.SaleDate.Valid {
			c.SaleDate = r.SaleDate.Time.UTC()
		}
		out = append(out, c)
	}
	return out, nil
}

type buyerRow struct {
	ID             string    `db:"id"`
	Name           string    `db:"name"`
	Email          string    `db:"email"`
	Phone          string    `db:"phone"`
	MaxBudget      float64   `db:"max_budget"`
	InvestmentType string    `db:"investment_type"`
	PreferredAreas string    `db:"preferred_areas"`
	CashVerified   bool      `db:"cash_verified"`
	Active         bool      `db:"active"`
	CreatedAt      time.Time `db:"created_at"`
}

const upsertBuyer = `
INSERT INTO buyers (id, name, email, phone, max_budget, investment_type, preferred_areas, cash_verified, active, created_at)
VALUES (:id, :name, :email, :phone, :max_budget, :investment_type, :preferred_areas, :cash_verified, :active, :created_at)
ON CONFLICT (id) DO UPDATE SET
  name = excluded.name, email = excluded.email, phone = excluded.phone, max_budget = excluded.max_budget,
  investment_type = excluded.investment_type, preferred_areas = excluded.preferred_areas,
  cash_verified = excluded.cash_verified, active = excluded.active
`

// ListBuyers returns every buyer, active or not. Eligibility is decided at match time.
func (s *Store) ListBuyers(ctx context.Context) ([]domain.BuyerRecord, error) {
	var rows []buyerRow
	err := s.db.SelectContext(ctx, &rows, `
SELECT id, name, email, phone, max_budget, investment_type, preferred_areas, cash_verified, active, created_at
FROM buyers ORDER BY created_at, id`)
	if err != nil {
		return nil, eris.Wrap(err, "list buyers")
	}
	out := make([]domain.BuyerRecord, 0, len(rows))
	for _, r := range rows {
		out = append(out, domain.BuyerRecord{
			ID: r.ID, Name: r.Name, Email: r.Email, Phone: r.Phone, MaxBudget: r.MaxBudget,
			InvestmentType: r.InvestmentType, PreferredAreas: r.PreferredAreas,
			CashVerified: r.CashVerified, Active: r.Active, CreatedAt: r.CreatedAt.UTC(),
		})
	}
	return out, nil
}

// SeedData is a batch of records loaded together.
type SeedData struct {
	Properties  []domain.PropertyRecord `json:"properties"`
	Comparables []domain.ComparableSale `json:"comparables"`
	Buyers      []domain.BuyerRecord    `json:"buyers"`
}

// Seed upserts a batch in one transaction.
func (s *Store) Seed(ctx context.Context, data SeedData) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return eris.Wrap(err, "begin seed")
	}
	defer func() { _ = tx.Rollback() }()

	for _, p := range data.Properties {
		p = s.prepareProperty(p)
		row, err := toPropertyRow(p)
		if err != nil {
			return eris.Wrapf(err, "encode property %s", p.ID)
		}
		if _, err := tx.NamedExecContext(ctx, upsertProperty, row); err != nil {
			return eris.Wrapf(err, "seed property %s", p.ID)
		}
	}
	for _, c := range data.Comparables {
		if c.ID == "" {
			c.ID = uuid.NewString()
		}
		row := comparableRow{
			ID: c.ID, PropertyID: c.PropertyID, Address: c.Address, SalePrice: c.SalePrice,
			SquareFeet: c.SquareFeet, Bedrooms: c.Bedrooms, Bathrooms: c.Bathrooms,
			YearBuilt: c.YearBuilt, Condition: c.Condition,
			SaleDate: sql.NullTime{Time: c.SaleDate.UTC(), Valid: !c.SaleDate.IsZero()},
		}
		if _, err := tx.NamedExecContext(ctx, upsertComparable, row); err != nil {
			return eris.Wrapf(err, "seed comparable %s", c.ID)
		}
	}
	for _, b := range data.Buyers {
		if b.ID == "" {
			b.ID = uuid.NewString()
		}
		if b.CreatedAt.IsZero() {
			b.CreatedAt = s.now().UTC().Truncate(time.Second)
		}
		row := buyerRow{
			ID: b.ID, Name: b.Name, Email: b.Email, Phone: b.Phone, MaxBudget: b.MaxBudget,
			InvestmentType: b.InvestmentType, PreferredAreas: b.PreferredAreas,
			CashVerified: b.CashVerified, Active: b.Active, CreatedAt: b.CreatedAt.UTC(),
		}
		if _, err := tx.NamedExecContext(ctx, upsertBuyer, row); err != nil {
			return eris.Wrapf(err, "seed buyer %s", b.ID)
		}
	}
	return eris.Wrap(tx.Commit(), "commit seed")
}
