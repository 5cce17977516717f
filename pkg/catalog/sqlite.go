package catalog

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	lru "github.com/hashicorp/golang-lru/v2/expirable"
	_ "modernc.org/sqlite"

	"github.com/glorpus-work/wpm/pkg/errors"
	"github.com/glorpus-work/wpm/pkg/model"
	"github.com/glorpus-work/wpm/pkg/version"
)

const (
	versionCacheSize = 512
	versionCacheTTL  = 10 * time.Minute
)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS package (
		name TEXT PRIMARY KEY,
		short_name TEXT NOT NULL,
		title TEXT NOT NULL DEFAULT '',
		description TEXT NOT NULL DEFAULT '',
		license TEXT NOT NULL DEFAULT '',
		url TEXT NOT NULL DEFAULT '',
		categories TEXT NOT NULL DEFAULT '[]'
	);`,
	`CREATE INDEX IF NOT EXISTS idx_package_short_name ON package(short_name COLLATE NOCASE);`,
	`CREATE TABLE IF NOT EXISTS package_version (
		package TEXT NOT NULL,
		version TEXT NOT NULL,
		content TEXT NOT NULL,
		PRIMARY KEY (package, version)
	);`,
}

// SQLite is a Store persisted in a SQLite database. Version lists are cached
// per package.
type SQLite struct {
	db    *sql.DB
	cache *lru.LRU[string, []*model.PackageVersion]
}

// OpenSQLite opens or creates the catalog database at path.
func OpenSQLite(path string) (*SQLite, error) {
	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)", path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("%w: opening %s: %v", errors.ErrCatalog, path, err)
	}
	db.SetMaxOpenConns(1)

	for _, stmt := range schema {
		if _, err := db.Exec(stmt); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("%w: creating schema: %v", errors.ErrCatalog, err)
		}
	}

	return &SQLite{
		db:    db,
		cache: lru.NewLRU[string, []*model.PackageVersion](versionCacheSize, nil, versionCacheTTL),
	}, nil
}

const packageColumns = `name, short_name, title, description, license, url, categories`

func (s *SQLite) FindPackage(name string) (*model.Package, error) {
	row := s.db.QueryRow(`SELECT `+packageColumns+` FROM package WHERE name = ?`, name)
	p, err := scanPackage(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return p, err
}

func (s *SQLite) FindPackagesByShortName(name string) ([]*model.Package, error) {
	return s.queryPackages(`SELECT `+packageColumns+` FROM package WHERE short_name = ? COLLATE NOCASE ORDER BY name`, name)
}

func (s *SQLite) Packages() ([]*model.Package, error) {
	return s.queryPackages(`SELECT ` + packageColumns + ` FROM package ORDER BY name`)
}

func (s *SQLite) queryPackages(query string, args ...any) ([]*model.Package, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: querying packages: %v", errors.ErrCatalog, err)
	}
	defer func() { _ = rows.Close() }()

	var out []*model.Package
	for rows.Next() {
		p, err := scanPackage(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanPackage(row scanner) (*model.Package, error) {
	var p model.Package
	var categories string
	if err := row.Scan(&p.Name, &p.ShortName, &p.Title, &p.Description, &p.License, &p.URL, &categories); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("%w: reading package: %v", errors.ErrCatalog, err)
	}
	if err := json.Unmarshal([]byte(categories), &p.Categories); err != nil {
		return nil, fmt.Errorf("%w: decoding categories of %s: %v", errors.ErrCatalog, p.Name, err)
	}
	return &p, nil
}

func (s *SQLite) SavePackage(p *model.Package) error {
	categories, err := json.Marshal(p.Categories)
	if err != nil {
		return fmt.Errorf("%w: encoding categories: %v", errors.ErrCatalog, err)
	}
	if p.Categories == nil {
		categories = []byte("[]")
	}

	_, err = s.db.Exec(`INSERT INTO package (`+packageColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET
			short_name = excluded.short_name,
			title = excluded.title,
			description = excluded.description,
			license = excluded.license,
			url = excluded.url,
			categories = excluded.categories`,
		p.Name, p.GetShortName(), p.Title, p.Description, p.License, p.URL, string(categories))
	if err != nil {
		return fmt.Errorf("%w: saving package %s: %v", errors.ErrCatalog, p.Name, err)
	}
	return nil
}

func (s *SQLite) PackageVersions(pkg string) ([]*model.PackageVersion, error) {
	if cached, ok := s.cache.Get(pkg); ok {
		return cached, nil
	}

	rows, err := s.db.Query(`SELECT content FROM package_version WHERE package = ?`, pkg)
	if err != nil {
		return nil, fmt.Errorf("%w: querying versions of %s: %v", errors.ErrCatalog, pkg, err)
	}
	defer func() { _ = rows.Close() }()

	var out []*model.PackageVersion
	for rows.Next() {
		var content string
		if err := rows.Scan(&content); err != nil {
			return nil, fmt.Errorf("%w: reading version of %s: %v", errors.ErrCatalog, pkg, err)
		}
		var pv model.PackageVersion
		if err := json.Unmarshal([]byte(content), &pv); err != nil {
			return nil, fmt.Errorf("%w: decoding version of %s: %v", errors.ErrCatalog, pkg, err)
		}
		out = append(out, &pv)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: reading versions of %s: %v", errors.ErrCatalog, pkg, err)
	}

	sortVersions(out)
	s.cache.Add(pkg, out)
	return out, nil
}

func (s *SQLite) FindPackageVersion(pkg string, v *version.Version) (*model.PackageVersion, error) {
	versions, err := s.PackageVersions(pkg)
	if err != nil {
		return nil, err
	}
	for _, pv := range versions {
		if pv.Version.Equal(v) {
			return pv, nil
		}
	}
	return nil, nil
}

func (s *SQLite) SavePackageVersion(pv *model.PackageVersion) error {
	content, err := json.Marshal(pv)
	if err != nil {
		return fmt.Errorf("%w: encoding %s: %v", errors.ErrCatalog, pv, err)
	}

	_, err = s.db.Exec(`INSERT INTO package_version (package, version, content) VALUES (?, ?, ?)
		ON CONFLICT(package, version) DO UPDATE SET content = excluded.content`,
		pv.Package, pv.Version.Normalized(), string(content))
	if err != nil {
		return fmt.Errorf("%w: saving %s: %v", errors.ErrCatalog, pv, err)
	}
	s.cache.Remove(pv.Package)
	return nil
}

// Clear removes every package and version.
func (s *SQLite) Clear() error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("%w: %v", errors.ErrCatalog, err)
	}
	for _, stmt := range []string{`DELETE FROM package_version`, `DELETE FROM package`} {
		if _, err := tx.Exec(stmt); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("%w: clearing catalog: %v", errors.ErrCatalog, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%w: clearing catalog: %v", errors.ErrCatalog, err)
	}
	s.cache.Purge()
	return nil
}

func (s *SQLite) Close() error {
	return s.db.Close()
}
