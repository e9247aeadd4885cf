package registry

import (
	packageurl "github.com/package-url/packageurl-go"
)

// DownloadLocator returns the canonical package URL for a published
// version, e.g. pkg:generic/json-lib@1.0.0. Transports derive their
// concrete download endpoints from this plus BlobPath.
func DownloadLocator(name, version string) string {
	p := packageurl.NewPackageURL(packageurl.TypeGeneric, "", name, version, nil, "")
	return p.ToString()
}

// BlobPath returns the {name}/{version} key an artifact is stored
// under.
func BlobPath(name, version string) string {
	return name + "/" + version
}
