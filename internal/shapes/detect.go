package shapes

import "strings"

var shapeExts = map[string]bool{
	".svg": true,
}

// IsSupportedExt returns true if the extension is a loadable shape file.
func IsSupportedExt(ext string) bool {
	return shapeExts[strings.ToLower(ext)]
}

// SupportedExtsList returns a human-readable list of loadable shape files.
func SupportedExtsList() string {
	return ".svg"
}
