package analysis

import "encoding/base64"

// JPEGDataURI encodes a JPEG frame as a self-contained data URI, suitable
// for embedding directly in the result JSON.
func JPEGDataURI(frame []byte) string {
	return "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString(frame)
}
