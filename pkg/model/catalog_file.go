package model

// DefaultSchemaVersion is assumed for catalog files that do not declare one.
const DefaultSchemaVersion = "1.0.0"

// CatalogFile is the document form of a catalog: program metadata plus the
// ordered course list.
type CatalogFile struct {
	Program       string   `json:"program,omitempty" yaml:"program,omitempty"`
	Institution   string   `json:"institution,omitempty" yaml:"institution,omitempty"`
	SchemaVersion string   `json:"schema_version,omitempty" yaml:"schema_version,omitempty"`
	Courses       []Course `json:"courses" yaml:"courses"`
}
