package chart

import "encoding/base64"

// Artifact is one rendered chart.
type Artifact struct {
	Title string
	Tool  Tool
	PNG   []byte
}

// Base64 returns the PNG bytes base64-encoded for text transports.
func (a Artifact) Base64() string {
	return base64.StdEncoding.EncodeToString(a.PNG)
}

// DataURI returns the PNG as a data: URI.
func (a Artifact) DataURI() string {
	return "data:image/png;base64," + a.Base64()
}
