package domain

import "errors"

// ErrInvalidExperience is returned when a document fails validation.
var ErrInvalidExperience = errors.New("invalid experience")

// ErrUnsupportedFormat is returned when an experience file has an unknown extension.
var ErrUnsupportedFormat = errors.New("unsupported experience format")

// ErrReportNotFound is returned when a report ID is not in a store.
var ErrReportNotFound = errors.New("report not found")
