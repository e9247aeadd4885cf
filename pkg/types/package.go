package types

import (
	"regexp"
	"time"
)

// nameRE is the grammar for package names. Names are lowercase, start
// with a letter, and may contain digits, underscores, and hyphens.
var nameRE = regexp.MustCompile(`^[a-z][a-z0-9_-]*$`)

// ValidateName checks that name is a well-formed package name.
// Returns ErrInvalidPackageName on violation.
func ValidateName(name string) error {
	if !nameRE.MatchString(name) {
		return ErrInvalidPackageName
	}
	return nil
}

// PackageRecord is the metadata record for one package name. A record
// comes into existence only via the first successful publish of some
// version and is never deleted.
type PackageRecord struct {
	Name        string    `json:"name" yaml:"name"`
	Description string    `json:"description" yaml:"description"`
	Authors     []string  `json:"authors" yaml:"authors"`
	License     string    `json:"license" yaml:"license"`
	Repository  string    `json:"repository,omitempty" yaml:"repository,omitempty"`
	Homepage    string    `json:"homepage,omitempty" yaml:"homepage,omitempty"`
	Keywords    []string  `json:"keywords" yaml:"keywords"`
	Downloads   int64     `json:"downloads" yaml:"downloads"`

	// Versions is kept sorted descending by semantic order, newest first.
	// Never empty once the package exists.
	Versions []VersionRecord `json:"versions" yaml:"versions"`

	CreatedAt time.Time `json:"created_at" yaml:"created_at"`
	UpdatedAt time.Time `json:"updated_at" yaml:"updated_at"`
}

// VersionRecord is one published version of a package. All fields
// except Yanked are immutable after insert.
type VersionRecord struct {
	Version     string    `json:"version" yaml:"version"`
	PublishedAt time.Time `json:"published_at" yaml:"published_at"`
	Yanked      bool      `json:"yanked" yaml:"yanked"`

	// Checksum is the hex-encoded digest of the exact bytes stored in
	// the blob for this version. Size is their byte length.
	Checksum string `json:"checksum" yaml:"checksum"`
	Size     int64  `json:"size" yaml:"size"`

	// Signature and PublisherFingerprint are stored verbatim and never
	// validated by the registry.
	Signature            string `json:"signature,omitempty" yaml:"signature,omitempty"`
	PublisherFingerprint string `json:"publisher_fingerprint,omitempty" yaml:"publisher_fingerprint,omitempty"`
}

// Version returns the version record with the given version string.
func (p *PackageRecord) Version(version string) (*VersionRecord, bool) {
	for i := range p.Versions {
		if p.Versions[i].Version == version {
			return &p.Versions[i], true
		}
	}
	return nil, false
}

// Latest returns the newest version that is not yanked. Versions are
// sorted descending, so this is the first unyanked entry.
func (p *PackageRecord) Latest() (*VersionRecord, bool) {
	for i := range p.Versions {
		if !p.Versions[i].Yanked {
			return &p.Versions[i], true
		}
	}
	return nil, false
}

// Clone returns a deep copy of the record. Stores hand out clones so
// callers can never mutate shared state.
func (p *PackageRecord) Clone() *PackageRecord {
	c := *p
	c.Authors = append([]string(nil), p.Authors...)
	c.Keywords = append([]string(nil), p.Keywords...)
	c.Versions = append([]VersionRecord(nil), p.Versions...)
	return &c
}

// PackageDefaults carries the descriptive fields used when the first
// publish of a name creates its package record. Appends to an existing
// package leave the descriptive fields untouched.
type PackageDefaults struct {
	Description string
	Authors     []string
	License     string
	Repository  string
	Homepage    string
	Keywords    []string
}

// FieldUpdate is a partial update of a package's descriptive fields.
// Nil fields retain their prior values.
type FieldUpdate struct {
	Description *string
	Authors     *[]string
	License     *string
	Repository  *string
	Homepage    *string
	Keywords    *[]string
}
