// Package verdict combines the URL and content scores into a single
// 0-100 risk score and maps it to a risk level.
package verdict
