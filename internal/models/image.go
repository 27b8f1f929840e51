package models

// CapturedImage is the encoded photo held for one capture→results cycle.
type CapturedImage struct {
	DataURI     string `json:"-"` // data:<mime>;base64,<payload>
	MimeType    string `json:"mime_type"`
	Name        string `json:"name,omitempty"`
	Size        int    `json:"size"`        // decoded byte length
	Fingerprint string `json:"fingerprint"` // hex BLAKE2b-256 of the raw bytes
}

// IsEmpty reports whether no image is held.
func (c CapturedImage) IsEmpty() bool {
	return c.DataURI == ""
}
