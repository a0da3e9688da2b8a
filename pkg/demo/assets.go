package demo

import (
	"embed"
	"io/fs"
)

//go:embed assets
var embedded embed.FS

const documentPath = "forms/demo.openapi.yaml"

// LogoName is the logo file served next to the page and referenced by the UI
// schema.
const LogoName = "logo.svg"

// AssetsFS exposes the embedded bundle rooted at its top directory: forms/,
// ui/, locales/ and static/.
func AssetsFS() fs.FS {
	return sub(embedded, "assets")
}

// UISchemaFS exposes the UI schema documents.
func UISchemaFS() fs.FS {
	return sub(AssetsFS(), "ui")
}

// LocalesFS exposes the translation catalogs, one <locale>.yaml per locale.
func LocalesFS() fs.FS {
	return sub(AssetsFS(), "locales")
}

// StaticFS exposes files the page links to, such as the logo.
func StaticFS() fs.FS {
	return sub(AssetsFS(), "static")
}

func sub(fsys fs.FS, dir string) fs.FS {
	out, err := fs.Sub(fsys, dir)
	if err != nil {
		panic(err)
	}
	return out
}
