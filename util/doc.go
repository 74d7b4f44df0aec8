// Package util holds small helpers shared by podscribe packages: pointer
// helpers for optional config fields and sanitizing of user-supplied names.
package util
