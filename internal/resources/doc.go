// Package resources loads the dashboard's HTML templates and keeps them
// current while the server runs.
package resources
