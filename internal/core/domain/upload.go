package domain

import "io"

// Upload is a file received from a client, not yet written anywhere.
type Upload struct {
	Filename    string
	ContentType string
	Size        int64
	Body        io.Reader
}
