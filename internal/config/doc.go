// Package config provides configuration structures and utilities for
// sitescrape: crawl budgets, output settings, report preferences and the
// optional per-site YAML configuration file.
package config
