package nid

import "errors"

var (
	// ErrImageDecode means a side's bytes were not a readable image
	ErrImageDecode = errors.New("could not decode image")
	// ErrRecognition means the OCR engine failed on a side
	ErrRecognition = errors.New("text recognition failed")
	// ErrNoReadableSide means both sides failed, so there is nothing to extract
	ErrNoReadableSide = errors.New("no readable document side")
	// ErrArtifactWrite means the extraction artifact could not be persisted
	ErrArtifactWrite = errors.New("failed to save extraction results")
	// ErrUnhandled wraps anything unexpected, including recovered panics
	ErrUnhandled = errors.New("unexpected extraction failure")
)
