package id

import "github.com/teris-io/shortid"

// ShortId generates a short, url-safe id for human-facing lead codes.
func ShortId() string {
	id, err := shortid.Generate()
	if err != nil {
		return ""
	}
	return id
}
