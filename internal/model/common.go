package model

// EmptyResponse is the `{}` body returned by operations with nothing to
// report.
type EmptyResponse struct{}
