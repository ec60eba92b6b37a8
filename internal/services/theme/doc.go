// Package theme persists the light/dark colour-scheme preference.
package theme
