// Package sqlitestore implements the persistent MetadataStore on
// SQLite. The UNIQUE primary key on (package_name, version) backs the
// version-uniqueness invariant; writers are serialized on a single
// connection, so the existence check and insert inside one transaction
// are atomic with respect to every other caller.
// See docs/ARCHITECTURE.md § SQLite Backend.
package sqlitestore

// Schema DDL. Timestamps are RFC 3339 UTC strings; authors and
// keywords are JSON arrays.
const (
	createPackages = `CREATE TABLE IF NOT EXISTS packages (
    name TEXT PRIMARY KEY,
    description TEXT NOT NULL DEFAULT '',
    authors TEXT NOT NULL DEFAULT '[]',
    license TEXT NOT NULL DEFAULT '',
    repository TEXT NOT NULL DEFAULT '',
    homepage TEXT NOT NULL DEFAULT '',
    keywords TEXT NOT NULL DEFAULT '[]',
    downloads INTEGER NOT NULL DEFAULT 0,
    created_at TEXT NOT NULL,
    updated_at TEXT NOT NULL
);`

	createVersions = `CREATE TABLE IF NOT EXISTS versions (
    package_name TEXT NOT NULL,
    version TEXT NOT NULL,
    published_at TEXT NOT NULL,
    yanked INTEGER NOT NULL DEFAULT 0,
    checksum TEXT NOT NULL,
    size INTEGER NOT NULL,
    signature TEXT NOT NULL DEFAULT '',
    publisher_fingerprint TEXT NOT NULL DEFAULT '',
    PRIMARY KEY (package_name, version),
    FOREIGN KEY (package_name) REFERENCES packages(name)
);`

	createOwners = `CREATE TABLE IF NOT EXISTS owners (
    owner_id TEXT NOT NULL,
    package_name TEXT NOT NULL,
    granted_at TEXT NOT NULL,
    PRIMARY KEY (owner_id, package_name)
);`
)

// schemaStatements lists the DDL executed on Open, in order.
var schemaStatements = []string{
	createPackages,
	createVersions,
	createOwners,
}
