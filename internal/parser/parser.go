package parser

import "io"

// Parser decodes a test runner's output into a replayable lifecycle stream
type Parser interface {
	Parse(r io.Reader) (*Stream, error)
}

// Progress is notified after each finished test while decoding
type Progress interface {
	Update(passed, failed int)
	Finish()
}
