package loader

import (
	"bytes"
	_ "embed"

	"github.com/vanderheijden86/coursemap/pkg/model"
)

// BundledName identifies the embedded catalog in status lines and exports.
const BundledName = "bundled:physiotherapy.json"

//go:embed data/physiotherapy.json
var bundledCatalog []byte

// Bundled returns the catalog compiled into the binary.
func Bundled(opts Options) (model.CatalogFile, error) {
	return parse(bytes.NewReader(bundledCatalog), BundledName, FormatJSON, opts)
}

// MustBundled is Bundled for callers that cannot recover, such as tests.
func MustBundled() model.CatalogFile {
	cf, err := Bundled(Options{WarningHandler: func(string) {}})
	if err != nil {
		panic(err)
	}
	return cf
}
