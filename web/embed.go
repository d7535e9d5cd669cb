// Package web 打包页面模板、静态资源和关于页内容
package web

import (
	"embed"
	"io/fs"
)

//go:embed template/*.html static content
var files embed.FS

// Templates exposes the page templates rooted at template/.
func Templates() fs.FS {
	return mustSub("template")
}

// Static exposes css and other assets rooted at static/.
func Static() fs.FS {
	return mustSub("static")
}

// About returns the markdown source of the about page.
func About() (string, error) {
	raw, err := fs.ReadFile(files, "content/about.md")
	if err != nil {
		return "", err
	}
	return string(raw), nil
}

func mustSub(dir string) fs.FS {
	sub, err := fs.Sub(files, dir)
	if err != nil {
		panic(err)
	}
	return sub
}
