package common

// UnknownStr is rendered for enum values outside their known range.
const UnknownStr = "unknown"
