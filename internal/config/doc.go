// Package config provides configuration structures and utilities for
// regreport: report composition options, batch rendering, the report
// history location and log rotation.
package config
