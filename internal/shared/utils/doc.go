// Package utils holds input validation shared by the command line client.
package utils
