// Package diseai holds build-level metadata for the DISE-AI analysis service.
package diseai

// Version is the current release version.
const Version = "0.3.1"
