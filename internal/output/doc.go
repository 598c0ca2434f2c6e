// Package output prints translations to the terminal, colored and laid out
// to fit the terminal width.
package output
