// Package domain defines core data models and interfaces shared across the app.
// It contains plain types (display/history/plot state) and contracts
// (interfaces) only.
package domain
