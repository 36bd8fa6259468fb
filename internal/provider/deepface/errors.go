package deepface

import "errors"

var (
	// ErrDeepFaceUnavailable indicates the DeepFace service could not be reached
	ErrDeepFaceUnavailable = errors.New("deepface service unavailable")

	// ErrInvalidResponse indicates the DeepFace service returned an unparseable body
	ErrInvalidResponse = errors.New("invalid deepface response")

	// ErrNoFaceInRegion indicates no represent result overlapped the requested region
	ErrNoFaceInRegion = errors.New("no face found in requested region")
)
