// Package plot samples an expression of one variable over the fixed
// plotting domain.
package plot
