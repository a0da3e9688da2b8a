package vanilla

import (
	"embed"
	"io/fs"
)

// Asset file names under AssetsFS.
const (
	StylesheetName    = "novaform.css"
	RuntimeScriptName = "novaform.js"
)

var (
	//go:embed templates/*.tmpl templates/components/*.tmpl
	templateFiles embed.FS

	//go:embed assets
	assetFiles embed.FS

	assets = mustSub(assetFiles, "assets")
)

// TemplatesFS holds the page, form, field and component templates.
func TemplatesFS() fs.FS { return templateFiles }

// AssetsFS holds the stylesheet and the runtime script, rooted at the asset
// names so it can be served as is.
func AssetsFS() fs.FS { return assets }

func mustSub(fsys fs.FS, dir string) fs.FS {
	sub, err := fs.Sub(fsys, dir)
	if err != nil {
		panic(err)
	}
	return sub
}

func readAsset(name string) string {
	data, err := fs.ReadFile(assets, name)
	if err != nil {
		return ""
	}
	return string(data)
}
