package engine

import "strings"

// Category is the colour tag renderers use for a node. It is derived from the
// file extension; directories have their own category.
type Category string

const (
	CategoryDirectory Category = "directory"
	CategoryRust      Category = "rust"
	CategoryPython    Category = "python"
	CategoryScript    Category = "script"
	CategoryC         Category = "c"
	CategoryImage     Category = "image"
	CategoryAudio     Category = "audio"
	CategoryVideo     Category = "video"
	CategoryText      Category = "text"
	CategoryData      Category = "data"
	CategoryOther     Category = "other"
)

var extCategories = map[string]Category{
	"rs":   CategoryRust,
	"py":   CategoryPython,
	"js":   CategoryScript,
	"ts":   CategoryScript,
	"c":    CategoryC,
	"cpp":  CategoryC,
	"h":    CategoryC,
	"png":  CategoryImage,
	"jpg":  CategoryImage,
	"jpeg": CategoryImage,
	"gif":  CategoryImage,
	"svg":  CategoryImage,
	"webp": CategoryImage,
	"mp3":  CategoryAudio,
	"flac": CategoryAudio,
	"ogg":  CategoryAudio,
	"wav":  CategoryAudio,
	"mp4":  CategoryVideo,
	"mkv":  CategoryVideo,
	"avi":  CategoryVideo,
	"mov":  CategoryVideo,
	"webm": CategoryVideo,
	"md":   CategoryText,
	"txt":  CategoryText,
	"log":  CategoryText,
	"json": CategoryData,
	"toml": CategoryData,
	"yaml": CategoryData,
	"yml":  CategoryData,
	"xml":  CategoryData,
}

// CategoryFor returns the category of an entry. ext is the extension without
// the leading dot; matching is case-sensitive.
func CategoryFor(isDir bool, ext string) Category {
	if isDir {
		return CategoryDirectory
	}
	if c, ok := extCategories[strings.TrimPrefix(ext, ".")]; ok {
		return c
	}
	return CategoryOther
}

var categoryHex = map[Category]string{
	CategoryDirectory: "#89b4fa",
	CategoryRust:      "#de8542",
	CategoryPython:    "#5ca6d9",
	CategoryScript:    "#f2d94d",
	CategoryC:         "#6699cc",
	CategoryImage:     "#a6d98c",
	CategoryAudio:     "#cc8ccc",
	CategoryVideo:     "#e67373",
	CategoryText:      "#b3b3bf",
	CategoryData:      "#8cc7a6",
	CategoryOther:     "#9999a6",
}

// Hex returns the category's fill colour as "#rrggbb".
func (c Category) Hex() string {
	if h, ok := categoryHex[c]; ok {
		return h
	}
	return categoryHex[CategoryOther]
}
